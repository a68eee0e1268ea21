package typescript

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/sdk-typegen/pkg/config"
	"github.com/blimu-dev/sdk-typegen/pkg/ir"
)

func petDocument() ir.Document {
	str := ir.NewPrimitive(ir.String)
	pet := ir.NewObject(
		ir.Field{Name: "id", Type: ir.NewPrimitive(ir.Number), Required: true},
		ir.Field{Name: "name", Type: str},
		ir.Field{Name: "kind", Type: ir.NewUnion(ir.NewLiteral("cat"), ir.NewLiteral("dog")), Required: true},
	)
	pet.Ref = "Pet"
	idParams := ir.NewObject(ir.Field{Name: "id", Type: str, Required: true})
	headers := ir.NewObject(ir.Field{Name: "X-Trace-Id", Type: str})

	return ir.Document{
		Types: []ir.NamedType{{Name: "Pet", Type: pet}},
		Operations: []ir.Operation{
			{
				OperationID: "getPet",
				Method:      "GET",
				Path:        "/pets/{id}",
				Summary:     "Fetch a pet",
				Description: "Returns */ one pet.\nSecond line",
				Deprecated:  true,
				Request:     ir.RequestShape{Mode: ir.RequestFlat, Flat: &idParams},
				Response: ir.ResponseUnion{Members: []ir.ResponseMember{
					{Status: ir.StatusCode{Code: 200}, Type: pet, Content: ir.ContentJSON},
					{Status: ir.StatusCode{Code: 404}, Type: ir.UnknownType(), Content: ir.ContentUnknown},
				}},
			},
			{
				OperationID: "createPet",
				Method:      "POST",
				Path:        "/pets",
				Request: ir.RequestShape{
					Mode:         ir.RequestFull,
					Body:         &pet,
					Headers:      &headers,
					BodyRequired: true,
				},
				Response: ir.ResponseUnion{
					Wrapped: true,
					Members: []ir.ResponseMember{
						{Status: ir.StatusCode{Code: 200}, Type: pet, Content: ir.ContentJSON},
						{Status: ir.StatusCode{Code: 201}, Type: pet, Content: ir.ContentJSON},
						{Status: ir.StatusCode{Default: true}, Type: ir.UnknownType(), Content: ir.ContentUnknown},
					},
				},
			},
		},
	}
}

const petDeclarations = `// Code generated by sdk-typegen. DO NOT EDIT.
// Source: pets

export type FullResponse<T, S extends number> = {
  status: S;
  headers: Record<string, string>;
  body: T;
};

export namespace Schema {
  export type Pet = { id: number; name?: string; kind: 'cat' | 'dog' };
}

export interface PetClient {
  /**
   * Fetch a pet
   *
   * Returns *\/ one pet.
   * Second line
   * @deprecated
   */
  getPet(request: { id: string }): Promise<Schema.Pet>;
  createPet(request: { body: { id: number; name?: string; kind: 'cat' | 'dog' }; headers?: { 'X-Trace-Id'?: string } }): Promise<FullResponse<Schema.Pet, 200> | FullResponse<Schema.Pet, 201> | FullResponse<unknown, number>>;
}
`

func TestRender(t *testing.T) {
	out, err := Render(petDocument(), RenderOptions{ClientName: "pet client", Title: " pets "})
	require.NoError(t, err)
	assert.Equal(t, petDeclarations, string(out))
}

func TestRenderEmptyDocument(t *testing.T) {
	out, err := Render(ir.Document{}, RenderOptions{})
	require.NoError(t, err)

	want := `// Code generated by sdk-typegen. DO NOT EDIT.

export type FullResponse<T, S extends number> = {
  status: S;
  headers: Record<string, string>;
  body: T;
};

export interface Client {
}
`
	assert.Equal(t, want, string(out))
}

func TestRenderDistinctDeclarations(t *testing.T) {
	num := ir.NewPrimitive(ir.Number)
	a := ir.NewObject(ir.Field{Name: "a", Type: num, Required: true})
	a.Ref = "PetItem"
	b := ir.NewObject(ir.Field{Name: "b", Type: num, Required: true})
	b.Ref = "pet-item"

	doc := ir.Document{
		Types: []ir.NamedType{{Name: "PetItem", Type: a}, {Name: "pet-item", Type: b}},
		Operations: []ir.Operation{{
			OperationID: "getItem",
			Request:     ir.RequestShape{Mode: ir.RequestFull},
			Response:    ir.ResponseUnion{Members: []ir.ResponseMember{{Status: ir.StatusCode{Code: 200}, Type: b}}},
		}},
	}
	out, err := Render(doc, RenderOptions{})
	require.NoError(t, err)

	assert.Contains(t, string(out), "  export type PetItem = { a: number };\n")
	assert.Contains(t, string(out), "  export type PetItem1 = { b: number };\n")
	assert.Contains(t, string(out), "getItem(request: Record<string, never>): Promise<Schema.PetItem1>;")
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	client := config.Client{Type: "typescript", OutDir: filepath.Join(dir, "out"), PackageName: "Pet Types", Name: "PetClient"}

	gen := NewTypeScriptGenerator()
	assert.Equal(t, "typescript", gen.GetType())
	require.NoError(t, gen.Generate(client, petDocument()))

	target := OutputPath(client)
	assert.Equal(t, filepath.Join(dir, "out", "pet-types.d.ts"), target)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "export interface PetClient {")
	assert.Contains(t, string(data), "// Source: Pet Types")
}

func TestGenerateRespectsExclude(t *testing.T) {
	dir := t.TempDir()
	client := config.Client{OutDir: dir, PackageName: "api", Name: "Api", ExcludeFiles: []string{"api.d.ts"}}

	require.NoError(t, NewTypeScriptGenerator().Generate(client, petDocument()))
	_, err := os.Stat(filepath.Join(dir, "api.d.ts"))
	assert.True(t, os.IsNotExist(err))
}

func TestDocLines(t *testing.T) {
	tests := []struct {
		name string
		op   ir.Operation
		want []string
	}{
		{name: "nothing", op: ir.Operation{}, want: nil},
		{name: "summary only", op: ir.Operation{Summary: "  List pets  "}, want: []string{"List pets"}},
		{name: "description only", op: ir.Operation{Description: "a\nb  "}, want: []string{"a", "b"}},
		{name: "deprecated only", op: ir.Operation{Deprecated: true}, want: []string{"@deprecated"}},
		{name: "comment terminator", op: ir.Operation{Summary: "x */ y"}, want: []string{`x *\/ y`}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, docLines(test.op))
		})
	}
}
