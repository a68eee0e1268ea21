package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/sdk-typegen/pkg/config"
	"github.com/blimu-dev/sdk-typegen/pkg/ir"
	"github.com/blimu-dev/sdk-typegen/pkg/openapi"
)

func parseDoc(t *testing.T, src string) *openapi.Document {
	t.Helper()
	doc, err := openapi.Parse([]byte(src))
	require.NoError(t, err)
	return doc
}

func synthesizeDoc(t *testing.T, src string, opts config.Options) ir.Document {
	t.Helper()
	out, err := Synthesize(context.Background(), parseDoc(t, src), opts)
	require.NoError(t, err)
	return out
}

func mustOperation(t *testing.T, doc ir.Document, id string) ir.Operation {
	t.Helper()
	op, ok := doc.Operation(id)
	require.Truef(t, ok, "operation %q not found", id)
	return op
}

func str() ir.Type { return ir.NewPrimitive(ir.String) }

func num() ir.Type { return ir.NewPrimitive(ir.Number) }

func boolean() ir.Type { return ir.NewPrimitive(ir.Boolean) }

func field(name string, t ir.Type, required bool) ir.Field {
	return ir.Field{Name: name, Type: t, Required: required}
}

// assertType fails unless got is structurally equal to want
func assertType(t *testing.T, want, got ir.Type) {
	t.Helper()
	if !ir.Equal(want, got) {
		t.Errorf("type mismatch\nwant: %+v\n got: %+v", want, got)
	}
}
