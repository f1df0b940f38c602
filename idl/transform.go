package idl

import (
	"fmt"
	"strings"

	"github.com/ben-z/rosbags/normalize"
	"github.com/ben-z/rosbags/schema"
)

/*
This file walks an idl.Document the way original_source/rosbags/typesys/idl.py's
get_types_from_idl walks an IDL parse tree: nested modules contribute path
segments to the fully qualified "pkg/sub/Name" names dp3's own transform
uses for ROS1 .msg, so struct "Vector3" nested two modules deep under
"geometry_msgs" and "msg" becomes "geometry_msgs/msg/Vector3" -- the same
canonical shape msgdef/transform.go produces, so both grammars feed one
shared schema.Descriptor model and one shared typestore.
*/

// nolint:gochecknoglobals
var idlPrimitives = map[string]schema.PrimitiveType{
	"boolean": schema.BOOL,
	"octet":   schema.OCTET,
	"char":    schema.CHAR,
	"float":   schema.FLOAT32,
	"double":  schema.FLOAT64,
	"int8":    schema.INT8,
	"uint8":   schema.UINT8,
	"int16":   schema.INT16,
	"uint16":  schema.UINT16,
	"int32":   schema.INT32,
	"uint32":  schema.UINT32,
	"int64":   schema.INT64,
	"uint64":  schema.UINT64,
	"string":  schema.STRING,
	"wstring": schema.WSTRING,
}

type transformer struct {
	typedefs map[string]*TypeSpec
	descs    []*schema.Descriptor
}

// Transform walks doc and returns, in declaration order, one canonical
// schema.Descriptor per struct plus one KindConstModule descriptor per
// const declaration (named by its module path followed by the constant's
// own name, holding that single constant), linked by nameref the same way
// msgdef.Transform's dependency list is. Constants of one module are not
// merged into a single descriptor.
func Transform(doc *Document) ([]*schema.Descriptor, error) {
	tr := &transformer{typedefs: map[string]*TypeSpec{}}
	if err := tr.collectTypedefs(doc.Items); err != nil {
		return nil, err
	}
	if err := tr.walk(nil, doc.Items); err != nil {
		return nil, err
	}
	return tr.descs, nil
}

// ParseIDLMessageDefinition parses and transforms IDL text in one call.
func ParseIDLMessageDefinition(data []byte) ([]*schema.Descriptor, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Transform(doc)
}

func (tr *transformer) collectTypedefs(items []*ModuleItem) error {
	for _, item := range items {
		switch {
		case item.Module != nil:
			if err := tr.collectTypedefs(item.Module.Items); err != nil {
				return err
			}
		case item.Typedef != nil:
			tr.typedefs[item.Typedef.Name] = item.Typedef.Type
		}
	}
	return nil
}

func (tr *transformer) walk(path []string, items []*ModuleItem) error {
	for _, item := range items {
		switch {
		case item.Module != nil:
			nested := append(append([]string{}, path...), item.Module.Name)
			if err := tr.walk(nested, item.Module.Items); err != nil {
				return err
			}
		case item.Struct != nil:
			desc, err := tr.transformStruct(path, item.Struct)
			if err != nil {
				return err
			}
			tr.descs = append(tr.descs, desc)
		case item.Const != nil:
			c, err := tr.transformConst(item.Const)
			if err != nil {
				return err
			}
			name := strings.Join(append(append([]string{}, path...), item.Const.Name), "/")
			constDesc := &schema.Descriptor{
				Name:      name,
				Kind:      schema.KindConstModule,
				Constants: []schema.Constant{c},
			}
			if err := normalize.Descriptor(constDesc); err != nil {
				return err
			}
			tr.descs = append(tr.descs, constDesc)
		}
	}
	return nil
}

func (tr *transformer) transformStruct(path []string, s *StructDecl) (*schema.Descriptor, error) {
	name := strings.Join(append(append([]string{}, path...), s.Name), "/")
	desc := &schema.Descriptor{Name: name, Kind: schema.KindMessage}
	if text, ok := verbatimMsgText(s.Annotations); ok {
		desc.VerbatimMsgText = text
	}
	for _, m := range s.Members {
		field, err := tr.transformMember(path, m)
		if err != nil {
			return nil, err
		}
		desc.Fields = append(desc.Fields, field)
	}
	if err := normalize.Descriptor(desc); err != nil {
		return nil, err
	}
	return desc, nil
}

func (tr *transformer) transformMember(path []string, m *Member) (schema.Field, error) {
	t, err := tr.resolveType(path, m.Type)
	if err != nil {
		return schema.Field{}, err
	}
	if m.Array != nil {
		t = schema.Type{Array: true, FixedSize: int(m.Array.FixedSize), Items: &t}
	}
	field := schema.Field{Name: m.Name, Type: t}
	for _, ann := range m.Annotations {
		switch ann.Name {
		case "default":
			v, err := defaultAnnotationValue(ann)
			if err != nil {
				return schema.Field{}, err
			}
			d, err := coerce(itemPrimitive(t), v)
			if err != nil {
				return schema.Field{}, err
			}
			field.Default = d
		case "range":
			r, err := rangeAnnotation(ann)
			if err != nil {
				return schema.Field{}, err
			}
			field.Range = r
		}
	}
	return field, nil
}

func itemPrimitive(t schema.Type) schema.PrimitiveType {
	if t.Array && t.Items != nil {
		return t.Items.Primitive
	}
	return t.Primitive
}

func defaultAnnotationValue(ann *Annotation) (*Value, error) {
	for _, arg := range ann.Args {
		if arg.Name == "value" {
			return arg.Value, nil
		}
	}
	if len(ann.Args) == 1 {
		return ann.Args[0].Value, nil
	}
	return nil, &schema.ParseError{Kind: schema.BadLiteral, Msg: "@default annotation missing value"}
}

func rangeAnnotation(ann *Annotation) (*schema.Range, error) {
	r := &schema.Range{}
	for _, arg := range ann.Args {
		f, err := argFloat(arg.Value)
		if err != nil {
			return nil, err
		}
		switch arg.Name {
		case "min":
			r.Min = f
		case "max":
			r.Max = f
		}
	}
	return r, nil
}

func argFloat(v *Value) (float64, error) {
	switch {
	case v.Float != nil:
		return *v.Float, nil
	case v.Int != nil:
		return float64(*v.Int), nil
	default:
		return 0, &schema.ParseError{Kind: schema.BadLiteral, Msg: "@range bound must be numeric"}
	}
}

// verbatimMsgText looks for an "@verbatim (language=\"comment\", text=...)"
// annotation, the form rosidl emits to carry the original .msg source
// through IDL generation, and returns its decoded text.
func verbatimMsgText(anns []*Annotation) (string, bool) {
	for _, ann := range anns {
		if ann.Name != "verbatim" {
			continue
		}
		var language, text string
		var haveText bool
		for _, arg := range ann.Args {
			if arg.Value == nil || arg.Value.String == nil {
				continue
			}
			s, err := unquote(*arg.Value.String)
			if err != nil {
				continue
			}
			switch arg.Name {
			case "language":
				language = s
			case "text":
				text, haveText = s, true
			}
		}
		if language == "comment" && haveText {
			return text, true
		}
	}
	return "", false
}

func (tr *transformer) transformConst(c *ConstDecl) (schema.Constant, error) {
	prim, sizeBound, err := tr.resolvePrimitive(nil, c.Type)
	if err != nil {
		return schema.Constant{}, err
	}
	v, err := coerce(prim, c.Value)
	if err != nil {
		return schema.Constant{}, err
	}
	return schema.Constant{Name: c.Name, Type: prim, SizeBound: sizeBound, Value: v}, nil
}

func (tr *transformer) resolveType(path []string, spec *TypeSpec) (schema.Type, error) {
	switch {
	case spec.Sequence != nil:
		item, err := tr.resolveType(path, spec.Sequence.Item)
		if err != nil {
			return schema.Type{}, err
		}
		bound := 0
		bounded := false
		if spec.Sequence.Bound != nil {
			bound = int(*spec.Sequence.Bound)
			bounded = true
		}
		return schema.Type{Array: true, Bounded: bounded, FixedSize: bound, Items: &item}, nil
	case spec.Bounded != nil:
		prim, ok := idlPrimitives[spec.Bounded.Keyword]
		if !ok || (prim != schema.STRING && prim != schema.WSTRING) {
			return schema.Type{}, &schema.UnknownTypeError{Name: spec.Bounded.Keyword}
		}
		return schema.Type{Primitive: prim, SizeBound: int(spec.Bounded.Bound)}, nil
	case spec.Name != nil:
		return tr.resolveScopedType(path, spec.Name)
	default:
		return schema.Type{}, &schema.ParseError{Kind: schema.UnexpectedToken, Msg: "empty type spec"}
	}
}

func (tr *transformer) resolveScopedType(path []string, name *ScopedName) (schema.Type, error) {
	if len(name.Parts) == 1 {
		if prim, ok := idlPrimitives[name.Parts[0]]; ok {
			return schema.Type{Primitive: prim}, nil
		}
		if alias, ok := tr.typedefs[name.Parts[0]]; ok {
			return tr.resolveType(path, alias)
		}
		// A bare struct reference is qualified against the enclosing
		// module path, the way msgdef qualifies a bare type name against
		// its defining package. Unlike msgdef, a bare "Header" gets no
		// std_msgs alias here.
		return schema.Type{Ref: strings.Join(append(append([]string{}, path...), name.Parts[0]), "/")}, nil
	}
	return schema.Type{Ref: strings.Join(name.Parts, "/")}, nil
}

// resolvePrimitive resolves a TypeSpec known to name a primitive (or a
// typedef alias of one), as required for const declarations.
func (tr *transformer) resolvePrimitive(path []string, spec *TypeSpec) (schema.PrimitiveType, int, error) {
	t, err := tr.resolveType(path, spec)
	if err != nil {
		return 0, 0, err
	}
	if t.Ref != "" {
		return 0, 0, &schema.ParseError{Kind: schema.UnexpectedToken, Msg: fmt.Sprintf("const type must be a primitive, got reference %q", t.Ref)}
	}
	return t.Primitive, t.SizeBound, nil
}
