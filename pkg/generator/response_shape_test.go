package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/sdk-typegen/pkg/config"
	"github.com/blimu-dev/sdk-typegen/pkg/ir"
	"github.com/blimu-dev/sdk-typegen/pkg/openapi"
)

func TestClassifyContent(t *testing.T) {
	binary := &openapi.Schema{Type: "string", Format: "binary"}
	tests := []struct {
		contentType  string
		schema       *openapi.Schema
		want         ir.ContentKind
		wantFallback bool
	}{
		{"application/octet-stream", nil, ir.ContentBlob, false},
		{"application/pdf", nil, ir.ContentBlob, false},
		{"image/png", nil, ir.ContentBlob, false},
		{"Audio/MPEG", nil, ir.ContentBlob, false},
		{"video/mp4", nil, ir.ContentBlob, false},
		{"application/vnd.custom", binary, ir.ContentBlob, false},
		{"text/plain", nil, ir.ContentText, false},
		{"text/csv; charset=utf-8", nil, ir.ContentText, false},
		{"application/xml", nil, ir.ContentText, true},
		{"application/x-www-form-urlencoded", &openapi.Schema{Type: "object"}, ir.ContentText, true},
	}

	for _, test := range tests {
		t.Run(test.contentType, func(t *testing.T) {
			got, fallback := classifyContent(test.contentType, test.schema)
			if got != test.want || fallback != test.wantFallback {
				t.Errorf("classifyContent(%q) = (%q, %v), expected (%q, %v)",
					test.contentType, got, fallback, test.want, test.wantFallback)
			}
		})
	}
}

const responsesDoc = `
openapi: 3.0.3
info: {title: responses, version: "1"}
paths:
  /json:
    get:
      responses:
        '200':
          description: ok
          headers:
            X-Rate-Limit: {required: true, schema: {type: integer}}
            X-Next: {$ref: '#/components/headers/Next'}
          content: {application/json: {schema: {type: object, properties: {ok: {type: boolean}}}}}
        4XX:
          $ref: '#/components/responses/Problem'
  /text:
    get:
      responses:
        '200': {description: ok, content: {text/plain: {schema: {type: string}}}}
  /xml:
    get:
      responses:
        '200': {description: ok, content: {application/xml: {schema: {type: object}}}}
  /nocontent:
    get:
      responses:
        '200': {description: ok}
  /nullschema:
    get:
      responses:
        '200': {description: ok, content: {application/json: {schema: null}}}
  /ranges:
    get:
      responses:
        2xx: {description: ok, content: {application/json: {schema: {type: string}}}}
        '302': {description: moved}
        bogus: {description: ignored}
  /empty:
    get:
      responses: {}
components:
  headers:
    Next: {schema: {type: string}}
  responses:
    Problem:
      description: problem
      content:
        application/problem+json:
          schema:
            type: object
            required: [title]
            properties:
              title: {type: string}
`

func TestResponseShapes(t *testing.T) {
	doc := synthesizeDoc(t, responsesDoc, config.Options{})

	t.Run("json with headers and referenced error", func(t *testing.T) {
		op := mustOperation(t, doc, "getJson")
		require.Len(t, op.Response.Members, 2)
		ok := op.Response.Members[0]
		assert.Equal(t, ir.ContentJSON, ok.Content)
		assertType(t, ir.NewObject(field("ok", boolean(), false)), ok.Type)
		require.NotNil(t, ok.Headers)
		assertType(t, ir.NewObject(field("X-Rate-Limit", num(), true), field("X-Next", str(), false)), *ok.Headers)

		problem := op.Response.Members[1]
		assert.Equal(t, 4, problem.Status.Range)
		assert.Equal(t, "4XX", problem.Status.String())
		assert.Equal(t, ir.ContentJSON, problem.Content)
		assertType(t, ir.NewObject(field("title", str(), true)), problem.Type)
		assert.False(t, op.Response.Wrapped)
	})

	t.Run("text", func(t *testing.T) {
		op := mustOperation(t, doc, "getText")
		member := op.Response.Members[0]
		assert.Equal(t, ir.ContentText, member.Content)
		assertType(t, str(), member.Type)
		assert.False(t, op.Response.Wrapped)
	})

	t.Run("unclassified content forces wrapping", func(t *testing.T) {
		op := mustOperation(t, doc, "getXml")
		member := op.Response.Members[0]
		assert.Equal(t, ir.ContentText, member.Content)
		assertType(t, str(), member.Type)
		assert.True(t, op.Response.Wrapped)
	})

	t.Run("missing content forces wrapping", func(t *testing.T) {
		op := mustOperation(t, doc, "getNocontent")
		member := op.Response.Members[0]
		assert.Equal(t, ir.ContentUnknown, member.Content)
		assertType(t, ir.UnknownType(), member.Type)
		assert.True(t, op.Response.Wrapped)
	})

	t.Run("null schema is unknown json", func(t *testing.T) {
		op := mustOperation(t, doc, "getNullschema")
		member := op.Response.Members[0]
		assert.Equal(t, ir.ContentJSON, member.Content)
		assertType(t, ir.UnknownType(), member.Type)
		assert.False(t, op.Response.Wrapped)
	})

	t.Run("ranges and invalid keys", func(t *testing.T) {
		op := mustOperation(t, doc, "getRanges")
		require.Len(t, op.Response.Members, 2)
		assert.Equal(t, 2, op.Response.Members[0].Status.Range)
		assert.True(t, op.Response.Members[0].Status.IsSuccess())
		assert.Equal(t, 302, op.Response.Members[1].Status.Code)
		// a 302 without content is unknown and forces wrapping
		assert.True(t, op.Response.Wrapped)
	})

	t.Run("no responses", func(t *testing.T) {
		op := mustOperation(t, doc, "getEmpty")
		require.Len(t, op.Response.Members, 1)
		member := op.Response.Members[0]
		assert.Equal(t, 200, member.Status.Code)
		assertType(t, ir.UnknownType(), member.Type)
		assert.True(t, op.Response.Wrapped)
	})
}

func TestResponseUnion(t *testing.T) {
	doc := synthesizeDoc(t, responsesDoc, config.Options{})
	op := mustOperation(t, doc, "getJson")

	union := op.Response.Union()
	require.Equal(t, ir.KindUnion, union.Kind)
	require.Len(t, union.Members, 2)
	assertType(t, op.Response.Members[1].Type, union.Members[1])
	assert.Len(t, op.Response.Success(), 1)
}

func TestNoContentDoesNotForceWrapping(t *testing.T) {
	s := newSynthesizer(&openapi.Document{}, config.Options{})
	union, err := s.buildResponse([]openapi.StatusEntry{
		{Status: "204", Response: &openapi.Response{Description: "none"}},
	})
	require.NoError(t, err)
	require.Len(t, union.Members, 1)
	assert.True(t, union.Members[0].Type.IsNoBody())
	assert.Equal(t, "undefined", union.Members[0].Type.LiteralText())
	assert.False(t, union.Wrapped)
}

func TestResponseReferenceErrors(t *testing.T) {
	s := newSynthesizer(parseDoc(t, responsesDoc), config.Options{})
	_, err := s.buildResponse([]openapi.StatusEntry{
		{Status: "200", Response: &openapi.Response{Ref: "#/components/responses/Nope"}},
	})
	assert.ErrorIs(t, err, ErrResolution)

	_, err = s.buildResponse([]openapi.StatusEntry{
		{Status: "200", Response: &openapi.Response{Ref: "#/components/headers/Next"}},
	})
	assert.ErrorIs(t, err, ErrResolution)
}
