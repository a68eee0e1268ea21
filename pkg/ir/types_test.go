package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLiteralText(t *testing.T) {
	tests := []struct {
		name string
		in   Type
		want string
	}{
		{"plain string", NewLiteral("dog"), "'dog'"},
		{"quote", NewLiteral("it's"), `'it\'s'`},
		{"backslash", NewLiteral(`a\b`), `'a\\b'`},
		{"integer", NewLiteral(3), "3"},
		{"int64", NewLiteral(int64(-7)), "-7"},
		{"float", NewLiteral(2.5), "2.5"},
		{"large float", NewLiteral(1e21), "1000000000000000000000"},
		{"true", NewLiteral(true), "true"},
		{"null", Null(), "null"},
		{"no body", NoBody(), "undefined"},
		{"unsupported value", NewLiteral([]int{1}), "unknown"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.in.LiteralText(); got != test.want {
				t.Errorf("LiteralText() = %s, expected %s", got, test.want)
			}
		})
	}
}

func TestLiteralPredicates(t *testing.T) {
	assert.True(t, Null().IsNull())
	assert.False(t, Null().IsNoBody())
	assert.True(t, NoBody().IsNoBody())
	assert.False(t, NoBody().IsNull())
	assert.False(t, NewLiteral("x").IsNull())
	assert.False(t, NewPrimitive(String).IsNull())
	assert.True(t, UnknownType().IsPrimitive(Unknown))
	assert.False(t, UnknownType().IsPrimitive(String))
}

func TestEqual(t *testing.T) {
	str := NewPrimitive(String)
	num := NewPrimitive(Number)
	named := NewObject(Field{Name: "id", Type: str, Required: true})
	named.Ref = "Pet"
	dated := NewPrimitive(String)
	dated.Format = "date-time"

	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"same primitive", str, NewPrimitive(String), true},
		{"different primitive", str, num, false},
		{"different kind", str, NewLiteral("string"), false},
		{"format ignored", str, dated, true},
		{"ref ignored", named, NewObject(Field{Name: "id", Type: str, Required: true}), true},
		{
			"field order ignored",
			NewObject(Field{Name: "a", Type: str}, Field{Name: "b", Type: num}),
			NewObject(Field{Name: "b", Type: num}, Field{Name: "a", Type: str}),
			true,
		},
		{
			"required differs",
			NewObject(Field{Name: "a", Type: str, Required: true}),
			NewObject(Field{Name: "a", Type: str}),
			false,
		},
		{"field count differs", NewObject(Field{Name: "a", Type: str}), NewObject(), false},
		{"array elem", NewArray(str), NewArray(str), true},
		{"array elem differs", NewArray(str), NewArray(num), false},
		{"union order matters", NewUnion(str, num), NewUnion(num, str), false},
		{"union vs intersection", NewUnion(str, num), NewIntersection(str, num), false},
		{"literal values", NewLiteral(1), NewLiteral(1.0), true},
		{"literal differs", NewLiteral("a"), NewLiteral("b"), false},
		{"no body", NoBody(), NoBody(), true},
		{"null vs no body", Null(), NoBody(), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, Equal(test.a, test.b))
			assert.Equal(t, test.want, Equal(test.b, test.a))
		})
	}
}

func TestIsObjectLike(t *testing.T) {
	obj := NewObject(Field{Name: "a", Type: NewPrimitive(String)})
	assert.True(t, obj.IsObjectLike())
	assert.True(t, NewObject().IsObjectLike())
	assert.True(t, NewIntersection(obj, NewIntersection(obj, obj)).IsObjectLike())
	assert.False(t, NewIntersection().IsObjectLike())
	assert.False(t, NewIntersection(obj, NewPrimitive(String)).IsObjectLike())
	assert.False(t, NewUnion(obj, obj).IsObjectLike())
	assert.False(t, NewArray(obj).IsObjectLike())
}

func TestWalk(t *testing.T) {
	pet := NewObject(
		Field{Name: "tags", Type: NewArray(NewPrimitive(String))},
		Field{Name: "kind", Type: NewUnion(NewLiteral("cat"), NewLiteral("dog"))},
	)
	pet.Ref = "Pet"

	var kinds []Kind
	var refs []string
	Walk(NewArray(pet), func(n Type) {
		kinds = append(kinds, n.Kind)
		if n.Ref != "" {
			refs = append(refs, n.Ref)
		}
	})

	assert.Equal(t, []Kind{
		KindArray, KindObject, KindArray, KindPrimitive, KindUnion, KindLiteral, KindLiteral,
	}, kinds)
	assert.Equal(t, []string{"Pet"}, refs)
}

func TestNewObjectFieldsNeverNil(t *testing.T) {
	assert.NotNil(t, NewObject().Fields)
	assert.Empty(t, NewObject().Fields)
}

func TestTypeYAML(t *testing.T) {
	tests := []struct {
		name string
		in   Type
		want string
	}{
		{"no body", NoBody(), "kind: literal\nvalue: {}\n"},
		{"null", Null(), "kind: literal\nvalue: null\n"},
		{"false", NewLiteral(false), "kind: literal\nvalue: false\n"},
		{"zero", NewLiteral(0), "kind: literal\nvalue: 0\n"},
		{"primitive", NewPrimitive(String), "kind: primitive\nprimitive: string\n"},
		{"array of null", NewArray(Null()), "kind: array\nelem:\n    kind: literal\n    value: null\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out, err := yaml.Marshal(test.in)
			require.NoError(t, err)
			assert.Equal(t, test.want, string(out))
		})
	}
}
