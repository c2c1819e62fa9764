package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/estore/ecs"
)

// EntityInfo is one row of the browser table.
type EntityInfo struct {
	Entity         ecs.Entity
	Presence       uint64
	ComponentNames []string
	PackedBytes    int
}

type entityBrowserCache struct {
	entities      []EntityInfo
	lastSize      int
	sortColumn    int
	sortAscending bool
}

// EntityBrowser lists all entities with their presence masks and component
// names, with filtering, sorting and paging.
type EntityBrowser struct {
	cache              *entityBrowserCache
	selected           ecs.Entity
	hasSelection       bool
	filterText         string
	maxEntitiesPerPage int
	currentPage        int
}

func NewEntityBrowser(maxEntitiesPerPage int) *EntityBrowser {
	return &EntityBrowser{
		cache: &entityBrowserCache{
			sortColumn:    0,
			sortAscending: true,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowser) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCacheIfNeeded(storage)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
	}
	imgui.SameLine()
	if imgui.Button("Refresh") {
		eb.cache.entities = nil
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Presence")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Bytes")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sortEntities()
			sortSpecs.SetSpecsDirty(false)
		}

		filtered := eb.filteredEntities()

		startIdx := eb.currentPage * eb.maxEntitiesPerPage
		endIdx := startIdx + eb.maxEntitiesPerPage
		if startIdx > len(filtered) {
			startIdx = 0
			eb.currentPage = 0
		}
		if endIdx > len(filtered) {
			endIdx = len(filtered)
		}

		for i := startIdx; i < endIdx; i++ {
			info := filtered[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.hasSelection && eb.selected == info.Entity
			if imgui.SelectableBoolV(fmt.Sprintf("%d", info.Entity), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selected = info.Entity
				eb.hasSelection = true
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("0x%016X", info.Presence))

			imgui.TableNextColumn()
			imgui.Text(strings.Join(info.ComponentNames, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", info.PackedBytes))
		}

		imgui.EndTable()
	}

	filtered := eb.filteredEntities()
	if len(filtered) > eb.maxEntitiesPerPage {
		totalPages := (len(filtered) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filtered)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filtered)))
	}

	imgui.End()
}

func (eb *EntityBrowser) rebuildCacheIfNeeded(storage *ecs.Storage) {
	if eb.cache.lastSize != storage.Size() {
		eb.cache.entities = nil
		eb.cache.lastSize = storage.Size()
	}
	if eb.cache.entities == nil {
		eb.rebuildCache(storage)
	}
}

func (eb *EntityBrowser) rebuildCache(storage *ecs.Storage) {
	eb.cache.entities = make([]EntityInfo, 0, 1024)

	components := storage.Registry().Components()
	for h := range storage.All() {
		var names []string
		for _, comp := range components {
			if h.Has(comp.ID()) {
				names = append(names, comp.Name())
			}
		}
		_, data := storage.RawData(h)
		eb.cache.entities = append(eb.cache.entities, EntityInfo{
			Entity:         h.Entity(),
			Presence:       h.Presence(),
			ComponentNames: names,
			PackedBytes:    len(data),
		})
	}

	eb.sortEntities()
}

func (eb *EntityBrowser) sortEntities() {
	sort.Slice(eb.cache.entities, func(i, j int) bool {
		a, b := eb.cache.entities[i], eb.cache.entities[j]
		var less bool

		switch eb.cache.sortColumn {
		case 1:
			less = a.Presence < b.Presence
		case 2:
			less = strings.Join(a.ComponentNames, ",") < strings.Join(b.ComponentNames, ",")
		case 3:
			less = a.PackedBytes < b.PackedBytes
		default:
			less = a.Entity < b.Entity
		}

		if !eb.cache.sortAscending {
			return !less
		}
		return less
	})
}

func (eb *EntityBrowser) filteredEntities() []EntityInfo {
	if eb.filterText == "" {
		return eb.cache.entities
	}

	filtered := make([]EntityInfo, 0, len(eb.cache.entities))
	filterLower := strings.ToLower(eb.filterText)

	for _, info := range eb.cache.entities {
		idStr := fmt.Sprintf("%d", info.Entity)
		namesStr := strings.ToLower(strings.Join(info.ComponentNames, " "))
		if !strings.Contains(idStr, filterLower) && !strings.Contains(namesStr, filterLower) {
			continue
		}
		filtered = append(filtered, info)
	}

	return filtered
}

// SelectedEntity returns the entity picked in the browser, if any.
func (eb *EntityBrowser) SelectedEntity() (ecs.Entity, bool) {
	return eb.selected, eb.hasSelection
}
