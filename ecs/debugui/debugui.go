// Package debugui provides immediate-mode GUI inspection for a component
// storage using Dear ImGui: an entity browser, a component value inspector,
// the registered-component table, and storage performance figures.
package debugui

import (
	"github.com/plus3/estore/ecs"
)

// DebugUI bundles the inspector windows over one storage.
type DebugUI struct {
	Browser    *EntityBrowser
	Inspector  *ComponentInspector
	Components *ComponentViewer
	Stats      *PerformanceStats
}

// New creates the default window set.
func New() *DebugUI {
	return &DebugUI{
		Browser:    NewEntityBrowser(100),
		Inspector:  NewComponentInspector(),
		Components: NewComponentViewer(),
		Stats:      NewPerformanceStats(120),
	}
}

// Render draws all windows. Call once per frame between the ImGui backend's
// begin/end.
func (d *DebugUI) Render(storage *ecs.Storage, deltaTime float32) {
	d.Browser.Render(storage)
	if en, ok := d.Browser.SelectedEntity(); ok {
		d.Inspector.Render(storage, en, true)
	} else {
		d.Inspector.Render(storage, 0, false)
	}
	d.Components.Render(storage)
	d.Stats.Render(storage, deltaTime)
}
