package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/sdk-typegen/pkg/ir"
)

func TestShouldIncludeOperation(t *testing.T) {
	tests := []struct {
		name    string
		tags    []string
		include []string
		exclude []string
		want    bool
	}{
		{name: "no filters", tags: []string{"users", "internal"}, want: true},
		{name: "include matches first tag", tags: []string{"users", "internal"}, include: []string{"users"}, want: true},
		{name: "include matches a later tag", tags: []string{"internal", "users"}, include: []string{"users"}, want: true},
		{name: "include matches none", tags: []string{"internal", "admin"}, include: []string{"users"}, want: false},
		{name: "exclude matches any tag", tags: []string{"users", "internal"}, exclude: []string{"internal"}, want: false},
		{name: "exclude wins over include", tags: []string{"users", "internal"}, include: []string{"users"}, exclude: []string{"internal"}, want: false},
		{name: "include matches and exclude does not", tags: []string{"users", "public"}, include: []string{"users"}, exclude: []string{"internal"}, want: true},
		{name: "regex include", tags: []string{"users_v1", "public"}, include: []string{"^users_.*"}, want: true},
		{name: "regex exclude", tags: []string{"users_v1", "internal_api"}, include: []string{"^users_.*"}, exclude: []string{".*_api$"}, want: false},
		{name: "untagged is misc", tags: nil, include: []string{"^misc$"}, want: true},
		{name: "untagged excluded as misc", tags: nil, exclude: []string{"misc"}, want: false},
		{name: "untagged not in include", tags: nil, include: []string{"users"}, want: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			include, exclude, err := compileTagFilters(test.include, test.exclude)
			if err != nil {
				t.Fatalf("compileTagFilters: %v", err)
			}
			got := shouldIncludeOperation(test.tags, include, exclude)
			if got != test.want {
				t.Errorf("shouldIncludeOperation(%v, %v, %v) = %v, expected %v",
					test.tags, test.include, test.exclude, got, test.want)
			}
		})
	}
}

func TestCompileTagFiltersInvalidPattern(t *testing.T) {
	_, _, err := compileTagFilters([]string{"("}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "includeTags")

	_, _, err = compileTagFilters(nil, []string{"[a-"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "excludeTags")
}

func TestFilterByTagsDropsUnusedTypes(t *testing.T) {
	user := ir.NewObject(ir.Field{Name: "id", Type: ir.NewPrimitive(ir.String), Required: true})
	user.Ref = "User"
	order := ir.NewObject(ir.Field{Name: "total", Type: ir.NewPrimitive(ir.Number), Required: true})
	order.Ref = "Order"

	op := func(id, tag string, body ir.Type) ir.Operation {
		return ir.Operation{
			OperationID: id,
			Tags:        []string{tag},
			Response: ir.ResponseUnion{Members: []ir.ResponseMember{
				{Status: ir.StatusCode{Code: 200}, Type: body, Content: ir.ContentJSON},
			}},
		}
	}
	doc := ir.Document{
		Operations: []ir.Operation{op("getUser", "users", user), op("getOrder", "orders", order)},
		Types:      []ir.NamedType{{Name: "User", Type: user}, {Name: "Order", Type: order}},
	}

	filtered, err := FilterByTags(doc, []string{"users"}, nil)
	require.NoError(t, err)
	require.Len(t, filtered.Operations, 1)
	assert.Equal(t, "getUser", filtered.Operations[0].OperationID)
	require.Len(t, filtered.Types, 1)
	assert.Equal(t, "User", filtered.Types[0].Name)

	unfiltered, err := FilterByTags(doc, nil, nil)
	require.NoError(t, err)
	assert.Len(t, unfiltered.Operations, 2)
	assert.Len(t, unfiltered.Types, 2)
}
