package generator

import (
	"github.com/blimu-dev/sdk-typegen/pkg/config"
	"github.com/blimu-dev/sdk-typegen/pkg/ir"
	"github.com/blimu-dev/sdk-typegen/pkg/openapi"
)

// Direction tells the synthesizer which side of the wire a schema describes
type Direction int

const (
	DirectionResponse Direction = iota
	DirectionRequest
)

func (d Direction) String() string {
	if d == DirectionRequest {
		return "req"
	}
	return "res"
}

// schemaClass is the single keyword that decides how a schema node is synthesized
type schemaClass int

const (
	classEmpty schemaClass = iota
	classInvalid
	classRef
	classAllOf
	classAnyOf
	classOneOf
	classEnum
	classArray
	classObject
	classNull
	classScalar
	classNot
)

// classify picks the schema class. Earlier keywords win when several are present.
func classify(s *openapi.Schema) schemaClass {
	switch {
	case s == nil:
		return classEmpty
	case s.Invalid != "":
		return classInvalid
	case s.Ref != "":
		return classRef
	case len(s.AllOf) > 0:
		return classAllOf
	case len(s.AnyOf) > 0:
		return classAnyOf
	case len(s.OneOf) > 0:
		return classOneOf
	case len(s.Enum) > 0:
		return classEnum
	case s.Type == "array", s.Type == "" && s.Items != nil:
		return classArray
	case s.Type == "object", s.Type == "" && (len(s.Properties) > 0 || s.AdditionalProperties != nil):
		return classObject
	case s.Type == "null":
		return classNull
	case s.Type != "":
		return classScalar
	case s.Not != nil:
		return classNot
	}
	return classEmpty
}

// synthesizer maps schema nodes to IR types. It is not safe for concurrent
// use; each operation gets its own.
type synthesizer struct {
	res  *resolver
	opts config.Options
}

func newSynthesizer(doc *openapi.Document, opts config.Options) *synthesizer {
	return &synthesizer{res: newResolver(doc), opts: opts}
}

// synthesize converts a schema node. Unrecognized scalar types and empty
// schemas degrade to unknown; only structurally invalid nodes fail.
func (s *synthesizer) synthesize(node *openapi.Schema, dir Direction) (ir.Type, error) {
	var (
		t   ir.Type
		err error
	)
	class := classify(node)
	switch class {
	case classEmpty, classNot:
		return ir.UnknownType(), nil
	case classInvalid:
		return ir.Type{}, &UnknownTypeError{Kind: node.Invalid, Pointer: s.res.current()}
	case classRef:
		return s.reference(node.Ref, dir)
	case classAllOf:
		t, err = s.allOf(node, dir)
	case classAnyOf:
		var members []ir.Type
		members, err = s.list(node.AnyOf, dir)
		t = ir.NewUnion(members...)
	case classOneOf:
		t, err = s.oneOf(node, dir)
	case classEnum:
		t = enumUnion(node.Enum)
	case classArray:
		var elem ir.Type
		elem, err = s.synthesize(node.Items, dir)
		t = ir.NewArray(elem)
	case classObject:
		t, err = s.object(node, dir)
	case classNull:
		return ir.Null(), nil
	case classScalar:
		t = scalar(node, dir)
	}
	if err != nil {
		return ir.Type{}, err
	}
	if node.Nullable {
		t = ir.NewUnion(t, ir.Null())
	}
	return t, nil
}

// reference synthesizes the target of a $ref and annotates it with the
// component name.
func (s *synthesizer) reference(ref string, dir Direction) (ir.Type, error) {
	target, err := s.res.enter(ref)
	if err != nil {
		return ir.Type{}, err
	}
	defer s.res.leave()

	t, err := s.synthesize(target, dir)
	if err != nil {
		return ir.Type{}, err
	}
	if name, ok := componentName(ref); ok {
		t.Ref = name
	}
	return t, nil
}

func (s *synthesizer) list(nodes openapi.SchemaList, dir Direction) ([]ir.Type, error) {
	out := make([]ir.Type, 0, len(nodes))
	for _, n := range nodes {
		t, err := s.synthesize(n, dir)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// allOf intersects the members. Properties declared next to allOf become one
// more member.
func (s *synthesizer) allOf(node *openapi.Schema, dir Direction) (ir.Type, error) {
	members, err := s.list(node.AllOf, dir)
	if err != nil {
		return ir.Type{}, err
	}
	if len(node.Properties) > 0 {
		own, err := s.object(node, dir)
		if err != nil {
			return ir.Type{}, err
		}
		members = append(members, own)
	}
	return ir.NewIntersection(members...), nil
}

// oneOf unions the members. With a discriminator and only $ref members, each
// member's discriminant property becomes a literal.
func (s *synthesizer) oneOf(node *openapi.Schema, dir Direction) (ir.Type, error) {
	members, err := s.list(node.OneOf, dir)
	if err != nil {
		return ir.Type{}, err
	}
	d := node.Discriminator
	if d == nil || d.PropertyName == "" || !allRefs(node.OneOf) {
		return ir.NewUnion(members...), nil
	}
	for i, m := range node.OneOf {
		members[i], _ = rewriteDiscriminant(members[i], d.PropertyName, discriminatorValue(d, m.Ref))
	}
	return ir.NewUnion(members...), nil
}

func allRefs(nodes openapi.SchemaList) bool {
	for _, n := range nodes {
		if n == nil || n.Ref == "" {
			return false
		}
	}
	return true
}

// object builds an object shape from properties plus the properties of an
// object-valued additionalProperties. With neither it is opaque.
func (s *synthesizer) object(node *openapi.Schema, dir Direction) (ir.Type, error) {
	fields := newFieldSet()
	if err := s.addProperties(fields, node, dir); err != nil {
		return ir.Type{}, err
	}
	if extra := node.AdditionalProperties; extra != nil {
		if err := s.addAdditional(fields, extra, dir); err != nil {
			return ir.Type{}, err
		}
	}
	if fields.len() == 0 {
		return ir.UnknownType(), nil
	}
	return fields.object(), nil
}

func (s *synthesizer) addProperties(fields *fieldSet, node *openapi.Schema, dir Direction) error {
	for _, prop := range node.Properties {
		t, err := s.synthesize(prop.Schema, dir)
		if err != nil {
			return err
		}
		fields.add(ir.Field{
			Name:     prop.Name,
			Type:     t,
			Required: !s.opts.PropsOptional && node.IsRequired(prop.Name),
		})
	}
	return nil
}

func (s *synthesizer) addAdditional(fields *fieldSet, extra *openapi.Schema, dir Direction) error {
	if extra.Ref == "" {
		return s.addProperties(fields, extra, dir)
	}
	target, err := s.res.enter(extra.Ref)
	if err != nil {
		return err
	}
	defer s.res.leave()
	return s.addAdditional(fields, target, dir)
}

func enumUnion(values []any) ir.Type {
	members := make([]ir.Type, 0, len(values))
	for _, v := range values {
		switch v.(type) {
		case nil, string, bool, float64, float32, int, int64:
			members = append(members, ir.NewLiteral(v))
		default:
			members = append(members, ir.UnknownType())
		}
	}
	return ir.NewUnion(members...)
}

// scalar maps the fixed type table. Date formats widen to string | date only
// on the request side.
func scalar(node *openapi.Schema, dir Direction) ir.Type {
	switch node.Type {
	case "string":
		t := ir.NewPrimitive(ir.String)
		t.Format = node.Format
		if dir == DirectionRequest && (node.Format == "date" || node.Format == "date-time") {
			return ir.NewUnion(t, ir.NewPrimitive(ir.Date))
		}
		return t
	case "integer", "number":
		t := ir.NewPrimitive(ir.Number)
		t.Format = node.Format
		return t
	case "boolean":
		return ir.NewPrimitive(ir.Boolean)
	}
	return ir.UnknownType()
}
