package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/blimu-dev/sdk-typegen/pkg/config"
	"github.com/blimu-dev/sdk-typegen/pkg/generator"
	"github.com/blimu-dev/sdk-typegen/pkg/openapi"
)

// FallbackParams describe a single client when no config file is given
type FallbackParams struct {
	Spec        string
	Type        string
	OutDir      string
	PackageName string
	Name        string
	IncludeTags []string
	ExcludeTags []string
}

type RunGenerateParams struct {
	ConfigPath   string
	SingleClient string
	Fallback     FallbackParams
	// Options applies to the fallback client only; config clients carry their own
	Options config.Options
}

// RunValidate checks the document against the OpenAPI schema
func RunValidate(input string) error {
	if input == "" {
		return errors.New("--input is required")
	}
	return openapi.ValidateDocument(input)
}

// RunGenerate renders clients from a config file or from the fallback flags
func RunGenerate(ctx context.Context, svc *generator.Service, p RunGenerateParams) error {
	if p.ConfigPath == "" {
		fb := p.Fallback
		if fb.Spec == "" || fb.Type == "" || fb.OutDir == "" || fb.PackageName == "" || fb.Name == "" {
			return errors.New("either --config or all of --input, --type, --out, --package-name, --client-name must be provided")
		}
		cfg := &config.Config{
			Spec: fb.Spec,
			Clients: []config.Client{
				{
					Type:        fb.Type,
					OutDir:      absPath(fb.OutDir),
					PackageName: fb.PackageName,
					Name:        fb.Name,
					IncludeTags: fb.IncludeTags,
					ExcludeTags: fb.ExcludeTags,
					Options:     p.Options,
				},
			},
		}
		return svc.GenerateFromConfig(ctx, cfg, "")
	}

	cfg, err := config.Load(p.ConfigPath)
	if err != nil {
		return err
	}
	return svc.GenerateFromConfig(ctx, cfg, p.SingleClient)
}

// Output formats accepted by RunSynth
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

type RunSynthParams struct {
	Spec        string
	Format      string
	IncludeTags []string
	ExcludeTags []string
	Options     config.Options
}

// RunSynth writes the synthesized operations and types of a document to w
func RunSynth(ctx context.Context, svc *generator.Service, w io.Writer, p RunSynthParams) error {
	if p.Spec == "" {
		return errors.New("--input is required")
	}
	doc, err := svc.Synthesize(ctx, p.Spec, config.Client{
		IncludeTags: p.IncludeTags,
		ExcludeTags: p.ExcludeTags,
		Options:     p.Options,
	})
	if err != nil {
		return err
	}

	switch strings.ToLower(p.Format) {
	case "", FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return fmt.Errorf("unsupported format %q (want %s or %s)", p.Format, FormatYAML, FormatJSON)
	}
}
