package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blimu-dev/sdk-typegen/pkg/ir"
)

func TestRefName(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"#/components/schemas/Pet", "Pet"},
		{"#/components/schemas/a~1b", "a/b"},
		{"#/components/schemas/x~0y", "x~y"},
		{"#/components/schemas/~01", "~1"},
		{"Pet", "Pet"},
	}

	for _, test := range tests {
		if got := refName(test.ref); got != test.want {
			t.Errorf("refName(%q) = %q, expected %q", test.ref, got, test.want)
		}
	}
}

func TestEscapeTokenRoundTrip(t *testing.T) {
	for _, name := range []string{"Pet", "a/b", "x~y", "~1", "v1/~beta"} {
		ref := componentSchemaPrefix + escapeToken(name)
		got, ok := componentName(ref)
		assert.True(t, ok, ref)
		assert.Equal(t, name, got)
	}
}

func TestComponentName(t *testing.T) {
	name, ok := componentName("#/components/schemas/Pet")
	assert.True(t, ok)
	assert.Equal(t, "Pet", name)

	_, ok = componentName("#/components/parameters/Pet")
	assert.False(t, ok)

	_, ok = componentName(componentSchemaPrefix)
	assert.False(t, ok)

	_, ok = componentName("#/components/schemas/Pet/properties/name")
	assert.False(t, ok)
}

func TestOperationIDFromPath(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   string
	}{
		{"GET", "/pets", "getPets"},
		{"GET", "/pets/{petId}", "getPetsPetId"},
		{"delete", "/users/{user_id}/api-keys", "deleteUsersUserIdApiKeys"},
		{"POST", "/", "post"},
		{"PATCH", "/v2/ORDERS", "patchV2Orders"},
	}

	for _, test := range tests {
		if got := operationIDFromPath(test.method, test.path); got != test.want {
			t.Errorf("operationIDFromPath(%q, %q) = %q, expected %q", test.method, test.path, got, test.want)
		}
	}
}

func TestOperationIDsAssign(t *testing.T) {
	ids := newOperationIDs()
	got := []string{
		ids.assign("listPets", "GET", "/pets"),
		ids.assign("listPets", "GET", "/other"),
		ids.assign("", "GET", "/pets"),
		ids.assign("not valid", "GET", "/pets"),
		ids.assign("listPets", "GET", "/third"),
		ids.assign("getPets1", "GET", "/x"),
		ids.assign("", "GET", "/pets"),
	}
	want := []string{"listPets", "listPets1", "getPets", "getPets1", "listPets2", "getPets11", "getPets2"}
	assert.Equal(t, want, got)
}

func TestFieldSetFirstWins(t *testing.T) {
	fs := newFieldSet()
	assert.True(t, fs.add(field("id", str(), true)))
	assert.False(t, fs.add(field("id", num(), false)))
	fs.addAll([]ir.Field{field("name", str(), false), field("id", boolean(), true)})
	assert.Equal(t, 2, fs.len())
	assertType(t, ir.NewObject(field("id", str(), true), field("name", str(), false)), fs.object())
}
