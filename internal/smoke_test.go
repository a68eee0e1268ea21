package main

import (
	"context"
	"errors"
	"os"
	"testing"

	typegen "github.com/blimu-dev/sdk-typegen"
)

func TestMissingSpec(t *testing.T) {
	// Smoke: both entry points fail cleanly on a missing file
	const missing = "/no/such/file.yaml"
	if _, err := os.Stat(missing); err == nil {
		t.Fatal("expected no file")
	}
	if err := typegen.ValidateSpec(missing); err == nil {
		t.Fatal("expected validate error")
	}
	_, err := typegen.Synthesize(context.Background(), missing, typegen.Options{})
	if err == nil {
		t.Fatal("expected synthesize error")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Logf("synthesize error: %v", err)
	}
}
