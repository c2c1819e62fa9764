package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/estore/ecs"
)

// ComponentInspector shows the component values of the selected entity.
// Edits are read-modify-write: the value is copied out, mutated through the
// widgets, and written back, which also marks the component dirty.
type ComponentInspector struct{}

func NewComponentInspector() *ComponentInspector {
	return &ComponentInspector{}
}

func (ci *ComponentInspector) Render(storage *ecs.Storage, en ecs.Entity, hasSelection bool) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if !hasSelection {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	h, ok := storage.Find(en)
	if !ok {
		imgui.Text(fmt.Sprintf("Entity %d no longer exists", en))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity: %d", en))
	imgui.Text(fmt.Sprintf("Presence: 0x%016X", h.Presence()))
	imgui.Separator()

	for _, comp := range storage.Registry().Components() {
		if !h.Has(comp.ID()) {
			continue
		}

		label := fmt.Sprintf("%s (id %d)", comp.Name(), comp.ID())
		if h.DirtyFlag(comp.ID()) {
			label += " [dirty]"
		}

		if imgui.TreeNodeStr(label) {
			value, err := storage.GetAny(h, comp.ID())
			if err != nil {
				imgui.Text(fmt.Sprintf("<%v>", err))
			} else {
				ci.renderComponent(storage, h, comp, value)
			}
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ci *ComponentInspector) renderComponent(storage *ecs.Storage, h ecs.Handle, comp *ecs.Component, value any) {
	// Edit an addressable copy, then write the whole value back.
	box := reflect.New(comp.Type())
	box.Elem().Set(reflect.ValueOf(value))
	val := box.Elem()

	changed := false
	if val.Kind() == reflect.Struct {
		for _, field := range globalReflectionCache.GetFields(comp.Type()) {
			if ci.renderField(field.Name, val.Field(field.Index)) {
				changed = true
			}
		}
	} else {
		changed = ci.renderField("value", val)
	}

	if changed {
		storage.SetAny(h, comp.ID(), val.Interface())
	}
}

// renderField draws an editor for one settable value and reports whether
// the user changed it.
func (ci *ComponentInspector) renderField(name string, val reflect.Value) bool {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return false
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) {
			val.SetInt(int64(v))
			return true
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && v >= 0 {
			val.SetUint(uint64(v))
			return true
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) {
			val.SetFloat(float64(v))
			return true
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) {
			val.SetBool(v)
			return true
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) {
			val.SetString(v)
			return true
		}

	case reflect.Struct:
		changed := false
		if imgui.TreeNodeStr(name) {
			for _, nf := range globalReflectionCache.GetFields(val.Type()) {
				if ci.renderField(nf.Name, val.Field(nf.Index)) {
					changed = true
				}
			}
			imgui.TreePop()
		}
		return changed

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}

	return false
}
