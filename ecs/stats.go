package ecs

// StorageStats is a point-in-time summary of a storage, for diagnostics and
// the debug UI.
type StorageStats struct {
	EntityCount    int
	ComponentCount int

	// TotalBytes is the sum of all packed buffer lengths.
	TotalBytes int
	// LiveBoxes is the number of boxed values currently held in the arena.
	LiveBoxes int

	ComponentBreakdown []ComponentStats
}

// ComponentStats counts the entities holding one registered component.
type ComponentStats struct {
	ID          ComponentId
	Name        string
	Flat        bool
	SlotSize    int
	EntityCount int
}

// CollectStats walks the storage and returns current figures.
func (s *Storage) CollectStats() StorageStats {
	stats := StorageStats{
		EntityCount:    s.Size(),
		ComponentCount: s.registry.ComponentCount(),
		LiveBoxes:      len(s.boxes) - len(s.freeBoxes),
	}

	counts := make([]int, s.registry.ComponentCount())
	for _, rec := range s.records {
		if rec == nil {
			continue
		}
		stats.TotalBytes += len(rec.data)
		for _, comp := range s.registry.components {
			if rec.presence&(uint64(1)<<comp.id) != 0 {
				counts[comp.id]++
			}
		}
	}

	stats.ComponentBreakdown = make([]ComponentStats, 0, len(counts))
	for _, comp := range s.registry.components {
		stats.ComponentBreakdown = append(stats.ComponentBreakdown, ComponentStats{
			ID:          comp.id,
			Name:        comp.name,
			Flat:        comp.flat,
			SlotSize:    int(comp.size),
			EntityCount: counts[comp.id],
		})
	}
	return stats
}
