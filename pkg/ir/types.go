package ir

import (
	"strconv"
	"strings"
)

// NewPrimitive returns a primitive node
func NewPrimitive(p Primitive) Type {
	return Type{Kind: KindPrimitive, Primitive: p}
}

// UnknownType returns the opaque primitive
func UnknownType() Type {
	return NewPrimitive(Unknown)
}

// NewLiteral returns a literal node. Integer values are normalised to float64.
func NewLiteral(v any) Type {
	switch x := v.(type) {
	case int:
		v = float64(x)
	case int64:
		v = float64(x)
	case float32:
		v = float64(x)
	}
	return Type{Kind: KindLiteral, Value: v}
}

// Null returns the null literal
func Null() Type {
	return Type{Kind: KindLiteral}
}

// NoBody returns the sentinel used for responses that carry no payload
func NoBody() Type {
	return Type{Kind: KindLiteral, Value: NoBodyValue{}}
}

// NewArray returns an array of elem
func NewArray(elem Type) Type {
	return Type{Kind: KindArray, Elem: &elem}
}

// NewObject returns an object shape with the given fields
func NewObject(fields ...Field) Type {
	if fields == nil {
		fields = []Field{}
	}
	return Type{Kind: KindObject, Fields: fields}
}

// NewUnion returns a union of members
func NewUnion(members ...Type) Type {
	return Type{Kind: KindUnion, Members: members}
}

// NewIntersection returns an intersection of members
func NewIntersection(members ...Type) Type {
	return Type{Kind: KindIntersection, Members: members}
}

// IsPrimitive reports whether t is the given primitive
func (t Type) IsPrimitive(p Primitive) bool {
	return t.Kind == KindPrimitive && t.Primitive == p
}

// IsNoBody reports whether t is the no-body sentinel
func (t Type) IsNoBody() bool {
	if t.Kind != KindLiteral {
		return false
	}
	_, ok := t.Value.(NoBodyValue)
	return ok
}

// IsNull reports whether t is the null literal
func (t Type) IsNull() bool {
	return t.Kind == KindLiteral && t.Value == nil
}

// IsObjectLike reports whether t can be merged field-wise: an object shape,
// or an intersection whose members are all object-like.
func (t Type) IsObjectLike() bool {
	switch t.Kind {
	case KindObject:
		return true
	case KindIntersection:
		for _, m := range t.Members {
			if !m.IsObjectLike() {
				return false
			}
		}
		return len(t.Members) > 0
	}
	return false
}

// Field returns the object field with the given name
func (t Type) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// LiteralText renders a literal value: strings in single quotes with embedded
// quotes and backslashes escaped, numbers and booleans bare.
func (t Type) LiteralText() string {
	switch v := t.Value.(type) {
	case nil:
		return "null"
	case NoBodyValue:
		return "undefined"
	case string:
		return QuoteString(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return "unknown"
}

// QuoteString quotes s for a single-quoted string literal
func QuoteString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// Equal reports structural equality. Ref and Format annotations are ignored,
// as is field order inside object shapes.
func Equal(a, b Type) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindPrimitive:
		return a.Primitive == b.Primitive
	case KindLiteral:
		return a.Value == b.Value
	case KindArray:
		if a.Elem == nil || b.Elem == nil {
			return a.Elem == b.Elem
		}
		return Equal(*a.Elem, *b.Elem)
	case KindObject:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for _, fa := range a.Fields {
			fb, ok := b.Field(fa.Name)
			if !ok || fa.Required != fb.Required || !Equal(fa.Type, fb.Type) {
				return false
			}
		}
		return true
	case KindUnion, KindIntersection:
		if len(a.Members) != len(b.Members) {
			return false
		}
		for i := range a.Members {
			if !Equal(a.Members[i], b.Members[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Walk visits t and every nested node depth-first, parents before children
func Walk(t Type, fn func(Type)) {
	fn(t)
	if t.Elem != nil {
		Walk(*t.Elem, fn)
	}
	for _, f := range t.Fields {
		Walk(f.Type, fn)
	}
	for _, m := range t.Members {
		Walk(m, fn)
	}
}
