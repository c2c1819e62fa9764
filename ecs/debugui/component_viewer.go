package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/estore/ecs"
)

// ComponentViewer shows the registered component table: id, name, storage
// representation, slot size and how many entities hold each component.
type ComponentViewer struct {
	sortColumn    int
	sortAscending bool
}

func NewComponentViewer() *ComponentViewer {
	return &ComponentViewer{sortAscending: true}
}

func (cv *ComponentViewer) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Components", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := storage.CollectStats()
	rows := make([]ecs.ComponentStats, len(stats.ComponentBreakdown))
	copy(rows, stats.ComponentBreakdown)
	cv.sortRows(rows)

	imgui.Text(fmt.Sprintf("Registered: %d / %d", stats.ComponentCount, ecs.MaxComponents))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable
	if imgui.BeginTableV("ComponentTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("ID")
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Layout")
		imgui.TableSetupColumn("Slot Size")
		imgui.TableSetupColumn("Entities")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			cv.sortColumn = int(spec.ColumnIndex())
			cv.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			cv.sortRows(rows)
			sortSpecs.SetSpecsDirty(false)
		}

		for _, row := range rows {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.ID))

			imgui.TableNextColumn()
			imgui.Text(row.Name)

			imgui.TableNextColumn()
			if row.Flat {
				imgui.Text("flat")
			} else {
				imgui.Text("boxed")
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.SlotSize))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.EntityCount))
		}

		imgui.EndTable()
	}

	imgui.End()
}

func (cv *ComponentViewer) sortRows(rows []ecs.ComponentStats) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		var less bool

		switch cv.sortColumn {
		case 1:
			less = a.Name < b.Name
		case 2:
			less = !a.Flat && b.Flat
		case 3:
			less = a.SlotSize < b.SlotSize
		case 4:
			less = a.EntityCount < b.EntityCount
		default:
			less = a.ID < b.ID
		}

		if !cv.sortAscending {
			return !less
		}
		return less
	})
}
