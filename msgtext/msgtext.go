// Package msgtext implements the MSG emitter (spec component I): it
// renders a canonical schema.Descriptor back to ROS1-style .msg text,
// inverting msgdef's grammar/transform direction the way
// util/ros1msg/grammar.go's Header/Definition shape suggests an emitter
// should walk it.
package msgtext

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ben-z/rosbags/schema"
)

const separator = "================================================================================"

// Lookuper is the subset of typestore.Store this package needs.
type Lookuper interface {
	Lookup(name string) (*schema.Descriptor, bool)
}

// Emit renders name and its transitive dependency closure as byte-
// deterministic .msg text: the primary definition first, then each
// dependency prefaced by a "MSG: pkg/Name" header and separated by an
// 80-character "=" line, in first-referenced order.
func Emit(store Lookuper, name string) (string, error) {
	primary, ok := store.Lookup(name)
	if !ok {
		return "", &schema.UnknownTypeError{Name: name}
	}
	deps, err := closure(store, primary)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	buf.WriteString(renderDefinition(definingPkg(primary.Name), primary))
	for _, dep := range deps {
		buf.WriteString(separator)
		buf.WriteString("\nMSG: ")
		buf.WriteString(shortRef(dep.Name))
		buf.WriteString("\n")
		buf.WriteString(renderDefinition(definingPkg(dep.Name), dep))
	}
	return buf.String(), nil
}

func renderDefinition(definingPkg string, desc *schema.Descriptor) string {
	var lines []string
	for _, c := range desc.Constants {
		lines = append(lines, constantLine(c))
	}
	for _, f := range desc.Fields {
		lines = append(lines, fieldLine(definingPkg, f))
	}
	return strings.Join(lines, "\n") + "\n"
}

// closure walks desc's fields (and, transitively, each dependency's own
// fields) collecting every referenced descriptor exactly once, in
// first-reference order.
func closure(store Lookuper, desc *schema.Descriptor) ([]*schema.Descriptor, error) {
	seen := map[string]bool{desc.Name: true}
	var order []*schema.Descriptor
	queue := []*schema.Descriptor{desc}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, ref := range fieldRefs(cur) {
			if seen[ref] {
				continue
			}
			seen[ref] = true
			d, ok := store.Lookup(ref)
			if !ok {
				return nil, &schema.UnknownTypeError{Name: ref}
			}
			order = append(order, d)
			queue = append(queue, d)
		}
	}
	return order, nil
}

func fieldRefs(desc *schema.Descriptor) []string {
	var refs []string
	for _, f := range desc.Fields {
		refs = append(refs, typeRefs(f.Type)...)
	}
	return refs
}

func typeRefs(t schema.Type) []string {
	if t.Array && t.Items != nil {
		return typeRefs(*t.Items)
	}
	if t.Ref != "" {
		return []string{t.Ref}
	}
	return nil
}

// definingPkg returns the package segment of a canonical "pkg/msg/Name"
// (or "pkg/Name") name.
func definingPkg(canonical string) string {
	parts := strings.Split(canonical, "/")
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// shortRef renders a canonical "pkg/msg/Name" reference in ROS1's
// two-segment "pkg/Name" convention.
func shortRef(canonical string) string {
	parts := strings.Split(canonical, "/")
	if len(parts) == 0 {
		return canonical
	}
	return parts[0] + "/" + parts[len(parts)-1]
}

func typeSpelling(definingPkg string, t schema.Type) string {
	if t.Array {
		inner := typeSpelling(definingPkg, *t.Items)
		switch {
		case t.Bounded:
			return fmt.Sprintf("%s[<=%d]", inner, t.FixedSize)
		case t.FixedSize > 0:
			return fmt.Sprintf("%s[%d]", inner, t.FixedSize)
		default:
			return inner + "[]"
		}
	}
	if t.Ref != "" {
		// Bare "Header" is the conventional spelling msgdef reads back as
		// std_msgs/msg/Header.
		if t.Ref == schema.HeaderTypeName {
			return "Header"
		}
		parts := strings.Split(t.Ref, "/")
		name := parts[len(parts)-1]
		pkg := parts[0]
		if pkg == definingPkg {
			return name
		}
		return pkg + "/" + name
	}
	name := t.Primitive.String()
	if t.SizeBound > 0 {
		return fmt.Sprintf("%s<=%d", name, t.SizeBound)
	}
	return name
}

func fieldLine(definingPkg string, f schema.Field) string {
	line := typeSpelling(definingPkg, f.Type) + " " + f.Name
	if f.Default != nil {
		line += " " + formatDefault(f.Type, f.Default)
	}
	return line
}

func formatDefault(t schema.Type, v any) string {
	if arr, ok := v.([]any); ok {
		parts := make([]string, len(arr))
		for i, item := range arr {
			parts[i] = formatScalar(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return formatScalar(v)
}

func formatScalar(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case bool:
		if x {
			return "true"
		}
		return "false"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func constantLine(c schema.Constant) string {
	typ := c.Type.String()
	if c.SizeBound > 0 {
		typ = fmt.Sprintf("%s<=%d", typ, c.SizeBound)
	}
	return fmt.Sprintf("%s %s=%s", typ, c.Name, constantValueText(c.Value))
}

func constantValueText(v any) string {
	switch x := v.(type) {
	case bool:
		if x {
			return "1"
		}
		return "0"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
