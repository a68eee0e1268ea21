package ir

// Kind tags the variant held by a Type
type Kind string

const (
	KindPrimitive    Kind = "primitive"
	KindLiteral      Kind = "literal"
	KindArray        Kind = "array"
	KindObject       Kind = "object"
	KindUnion        Kind = "union"
	KindIntersection Kind = "intersection"
)

// Primitive names a scalar type
type Primitive string

const (
	String  Primitive = "string"
	Number  Primitive = "number"
	Boolean Primitive = "boolean"
	Unknown Primitive = "unknown"
	// Date is produced only when request-direction synthesis widens date formats
	Date Primitive = "date"
	// Blob is produced only for binary response content
	Blob Primitive = "blob"
)

// NoBodyValue is the literal payload of the "no body" sentinel
type NoBodyValue struct{}

// Type is a node of the target-language-neutral type tree. Exactly the
// fields matching Kind are meaningful.
type Type struct {
	Kind      Kind      `json:"kind" yaml:"kind"`
	Primitive Primitive `json:"primitive,omitempty" yaml:"primitive,omitempty"`
	// Value holds a string, float64, bool, nil (null) or NoBodyValue
	Value   any     `json:"value,omitempty" yaml:"value,omitempty"`
	Elem    *Type   `json:"elem,omitempty" yaml:"elem,omitempty"`
	Fields  []Field `json:"fields,omitempty" yaml:"fields,omitempty"`
	Members []Type  `json:"members,omitempty" yaml:"members,omitempty"`

	// Ref is the component name this node was resolved from
	Ref string `json:"ref,omitempty" yaml:"ref,omitempty"`
	// Format carries the schema format of string primitives
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// literalNode is the encoded form of a literal. Its value is always written,
// so null, false, zero and the no-body sentinel stay distinguishable.
type literalNode struct {
	Kind   Kind   `yaml:"kind"`
	Value  any    `yaml:"value"`
	Ref    string `yaml:"ref,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// plainType has the fields of Type without its marshaler
type plainType Type

// MarshalYAML implements yaml.Marshaler
func (t Type) MarshalYAML() (any, error) {
	if t.Kind == KindLiteral {
		return literalNode{Kind: t.Kind, Value: t.Value, Ref: t.Ref, Format: t.Format}, nil
	}
	return plainType(t), nil
}

// Field is a named member of an object shape
type Field struct {
	Name     string `json:"name" yaml:"name"`
	Type     Type   `json:"type" yaml:"type"`
	Required bool   `json:"required" yaml:"required"`
}

// NamedType is a component schema referenced by at least one operation
type NamedType struct {
	Name string `json:"name" yaml:"name"`
	Type Type   `json:"type" yaml:"type"`
}

// Parameter is a resolved operation parameter
type Parameter struct {
	Name     string `json:"name" yaml:"name"`
	In       string `json:"in" yaml:"in"`
	Required bool   `json:"required" yaml:"required"`
	Type     Type   `json:"type" yaml:"type"`
}

// Operation is the synthesized record of one path+method entry
type Operation struct {
	OperationID string        `json:"operationId" yaml:"operationId"`
	Method      string        `json:"method" yaml:"method"`
	Path        string        `json:"path" yaml:"path"`
	Tags        []string      `json:"tags,omitempty" yaml:"tags,omitempty"`
	Summary     string        `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Deprecated  bool          `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Parameters  []Parameter   `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Request     RequestShape  `json:"request" yaml:"request"`
	Response    ResponseUnion `json:"response" yaml:"response"`
}

// Document is the output of one synthesis run
type Document struct {
	Operations []Operation `json:"operations" yaml:"operations"`
	Types      []NamedType `json:"types,omitempty" yaml:"types,omitempty"`
}

// Operation returns the operation with the given id
func (d Document) Operation(id string) (Operation, bool) {
	for _, op := range d.Operations {
		if op.OperationID == id {
			return op, true
		}
	}
	return Operation{}, false
}
