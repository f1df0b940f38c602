package msgdef

import (
	"strings"

	"github.com/ben-z/rosbags/normalize"
	"github.com/ben-z/rosbags/schema"
)

/*
This file transforms the msgdef AST into canonical schema.Descriptors. One
primary descriptor is produced per call, plus one descriptor per
dependency type discovered in the bundle's separator-delimited sections --
unlike dp3's util/ros1msg/transform.go, which inlines dependency types as
nested Record fields, this module's typestore expects independently
addressable descriptors linked by nameref (schema.Type.Ref), since spec
section 3's Type-spec is a sum type with nameref as a first-class case
distinct from an inlined record (see DESIGN.md).
*/

////////////////////////////////////////////////////////////////////////////////

// nolint:gochecknoglobals
var primitiveTypes = map[string]schema.PrimitiveType{
	"bool":     schema.BOOL,
	"byte":     schema.BYTE,
	"char":     schema.CHAR,
	"int8":     schema.INT8,
	"int16":    schema.INT16,
	"int32":    schema.INT32,
	"int64":    schema.INT64,
	"uint8":    schema.UINT8,
	"uint16":   schema.UINT16,
	"uint32":   schema.UINT32,
	"uint64":   schema.UINT64,
	"float32":  schema.FLOAT32,
	"float64":  schema.FLOAT64,
	"string":   schema.STRING,
	"wstring":  schema.WSTRING,
	"time":     schema.TIME,
	"duration": schema.DURATION,
	"octet":    schema.OCTET,
}

// canonicalRef resolves a possibly-unqualified type name written relative
// to definingPkg into a fully-qualified "pkg/msg/Name" form (spec section
// 4.A).
func canonicalRef(definingPkg, raw string) string {
	parts := strings.Split(raw, "/")
	switch len(parts) {
	case 1:
		return definingPkg + "/msg/" + parts[0]
	case 2:
		return parts[0] + "/msg/" + parts[1]
	default:
		return raw
	}
}

type transformer struct {
	subdeps  map[string]Definition
	resolved map[string]*schema.Descriptor
	order    []*schema.Descriptor
	visiting map[string]bool
}

// Transform converts a parsed AST into a primary descriptor plus the
// descriptors for every dependency type referenced (directly or
// transitively) from the bundle.
func Transform(pkg, name string, ast *AST) (*schema.Descriptor, []*schema.Descriptor, error) {
	tr := &transformer{
		subdeps:  map[string]Definition{},
		resolved: map[string]*schema.Descriptor{},
		visiting: map[string]bool{},
	}
	for _, dep := range ast.Dependencies {
		if dep.Header == "" {
			continue
		}
		tr.subdeps[canonicalRef(pkg, dep.Header)] = dep
	}

	primaryName := pkg + "/msg/" + name
	primary, err := tr.transformDefinition(primaryName, pkg, ast.Primary)
	if err != nil {
		return nil, nil, err
	}
	return primary, tr.order, nil
}

// ParseROS1MessageDefinition parses and transforms MSG text in one call,
// the way dp3's ParseROS1MessageDefinition does, for callers that don't
// need the intermediate AST.
func ParseROS1MessageDefinition(pkg, name string, msgdef []byte) (*schema.Descriptor, []*schema.Descriptor, error) {
	ast, err := Parse(msgdef)
	if err != nil {
		return nil, nil, err
	}
	return Transform(pkg, name, ast)
}

func (tr *transformer) transformDefinition(canonicalName, defPkg string, def Definition) (*schema.Descriptor, error) {
	desc := &schema.Descriptor{Name: canonicalName, Kind: schema.KindMessage}
	seen := map[string]bool{}
	for _, el := range def.Elements {
		switch {
		case el.Field != nil:
			if seen[el.Field.Name] {
				return nil, &schema.ParseError{Kind: schema.DuplicateField, Msg: "duplicate field: " + el.Field.Name}
			}
			seen[el.Field.Name] = true
			field, err := tr.transformField(defPkg, *el.Field)
			if err != nil {
				return nil, err
			}
			desc.Fields = append(desc.Fields, field)
		case el.Constant != nil:
			c, err := transformConstant(*el.Constant)
			if err != nil {
				return nil, err
			}
			desc.Constants = append(desc.Constants, c)
		}
	}
	if len(desc.Fields) == 0 && len(desc.Constants) > 0 {
		desc.Kind = schema.KindConstModule
	}
	if err := normalize.Descriptor(desc); err != nil {
		return nil, err
	}
	return desc, nil
}

func (tr *transformer) transformField(defPkg string, f FieldElem) (schema.Field, error) {
	t, err := tr.resolveType(defPkg, f.Type)
	if err != nil {
		return schema.Field{}, err
	}
	field := schema.Field{Name: f.Name, Type: t}
	if f.HasDefault {
		def, err := coerceDefault(t, f.RawDefault)
		if err != nil {
			return schema.Field{}, err
		}
		field.Default = def
	}
	return field, nil
}

func transformConstant(c ConstantElem) (schema.Constant, error) {
	prim, ok := primitiveTypes[c.Type.Name]
	if !ok {
		return schema.Constant{}, &schema.UnknownTypeError{Name: c.Type.Name}
	}
	value, err := coerceLiteral(prim, c.RawValue)
	if err != nil {
		return schema.Constant{}, err
	}
	return schema.Constant{Name: c.Name, Type: prim, SizeBound: c.Type.SizeBound, Value: value}, nil
}

func (tr *transformer) resolveType(defPkg string, spec TypeSpec) (schema.Type, error) {
	if spec.Array {
		itemSpec := spec
		itemSpec.Array = false
		itemSpec.FixedSize = 0
		itemSpec.SeqBounded = false
		itemType, err := tr.resolveBaseType(defPkg, itemSpec)
		if err != nil {
			return schema.Type{}, err
		}
		return schema.Type{
			Array:     true,
			FixedSize: spec.FixedSize,
			Bounded:   spec.SeqBounded,
			Items:     &itemType,
		}, nil
	}
	return tr.resolveBaseType(defPkg, spec)
}

func (tr *transformer) resolveBaseType(defPkg string, spec TypeSpec) (schema.Type, error) {
	if prim, ok := primitiveTypes[spec.Name]; ok {
		return schema.Type{Primitive: prim, SizeBound: spec.SizeBound}, nil
	}
	// Bare "Header" conventionally refers to std_msgs/msg/Header
	// regardless of the enclosing package, the same alias dp3's
	// transform.go hardcodes (there, subdefinitions["Header"] is keyed
	// off a literal "std_msgs/Header" match).
	var canonical string
	if spec.Name == "Header" {
		canonical = schema.HeaderTypeName
	} else {
		canonical = canonicalRef(defPkg, spec.Name)
	}
	if err := tr.ensureResolved(canonical); err != nil {
		return schema.Type{}, err
	}
	return schema.Type{Ref: canonical}, nil
}

func (tr *transformer) ensureResolved(canonical string) error {
	if _, ok := tr.resolved[canonical]; ok {
		return nil
	}
	if tr.visiting[canonical] {
		return &schema.ParseError{Kind: schema.UnexpectedToken, Msg: "cyclic type reference: " + canonical}
	}
	def, ok := tr.subdeps[canonical]
	if !ok {
		return &schema.UnknownTypeError{Name: canonical}
	}
	tr.visiting[canonical] = true
	parts := strings.Split(canonical, "/")
	desc, err := tr.transformDefinition(canonical, parts[0], def)
	delete(tr.visiting, canonical)
	if err != nil {
		return err
	}
	tr.resolved[canonical] = desc
	tr.order = append(tr.order, desc)
	return nil
}
