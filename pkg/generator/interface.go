package generator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/blimu-dev/sdk-typegen/pkg/config"
	"github.com/blimu-dev/sdk-typegen/pkg/generator/typescript"
	"github.com/blimu-dev/sdk-typegen/pkg/ir"
	"github.com/blimu-dev/sdk-typegen/pkg/openapi"
)

// Generator renders a synthesized document for one client
type Generator interface {
	// Generate writes the client's output for the given document
	Generate(client config.Client, doc ir.Document) error
	// GetType returns the type identifier for this generator (e.g., "typescript")
	GetType() string
}

// Registry manages available generators
type Registry struct {
	generators map[string]Generator
}

// NewRegistry creates a new generator registry
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
	}
}

// Register adds a generator to the registry
func (r *Registry) Register(gen Generator) {
	r.generators[gen.GetType()] = gen
}

// Get retrieves a generator by type
func (r *Registry) Get(genType string) (Generator, bool) {
	gen, exists := r.generators[genType]
	return gen, exists
}

// GetAvailableTypes returns all registered generator types, sorted
func (r *Registry) GetAvailableTypes() []string {
	types := make([]string, 0, len(r.generators))
	for t := range r.generators {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// GenerateOptions contains options for generation
type GenerateOptions struct {
	ConfigPath   string
	SingleClient string
	Fallback     FallbackOptions
}

// FallbackOptions describe a single client when no config file is provided
type FallbackOptions struct {
	Spec        string
	Type        string
	OutDir      string
	PackageName string
	Name        string
	IncludeTags []string
	ExcludeTags []string
	Options     config.Options
}

// Service loads documents, synthesizes them and hands the result to the
// registered generators
type Service struct {
	registry *Registry
}

// NewService creates a new generator service with default generators
func NewService() *Service {
	registry := NewRegistry()
	registry.Register(typescript.NewTypeScriptGenerator())
	return &Service{
		registry: registry,
	}
}

// NewServiceWithRegistry creates a new generator service with a custom registry
func NewServiceWithRegistry(registry *Registry) *Service {
	return &Service{
		registry: registry,
	}
}

// Generate generates clients based on the provided options
func (s *Service) Generate(ctx context.Context, opts GenerateOptions) error {
	var cfg *config.Config
	var err error

	if opts.ConfigPath == "" {
		fb := opts.Fallback
		if fb.Spec == "" || fb.Type == "" || fb.OutDir == "" || fb.PackageName == "" || fb.Name == "" {
			return fmt.Errorf("either config path or all fallback options must be provided")
		}
		cfg = &config.Config{
			Spec: fb.Spec,
			Clients: []config.Client{
				{
					Type:        fb.Type,
					OutDir:      fb.OutDir,
					PackageName: fb.PackageName,
					Name:        fb.Name,
					IncludeTags: fb.IncludeTags,
					ExcludeTags: fb.ExcludeTags,
					Options:     fb.Options,
				},
			},
		}
	} else {
		cfg, err = config.Load(opts.ConfigPath)
		if err != nil {
			return err
		}
	}

	return s.GenerateFromConfig(ctx, cfg, opts.SingleClient)
}

// GenerateFromConfig synthesizes the configured document once per client,
// since each client carries its own synthesis options
func (s *Service) GenerateFromConfig(ctx context.Context, cfg *config.Config, onlyClient string) error {
	doc, err := openapi.LoadDocument(cfg.Spec)
	if err != nil {
		return err
	}

	for _, client := range cfg.Clients {
		if onlyClient != "" && client.Name != onlyClient {
			continue
		}

		gen, exists := s.registry.Get(client.Type)
		if !exists {
			return fmt.Errorf("unsupported client type: %s", client.Type)
		}

		result, err := s.synthesizeClient(ctx, doc, client)
		if err != nil {
			return fmt.Errorf("client %s: %w", client.Name, err)
		}
		if err := gen.Generate(client, result); err != nil {
			return fmt.Errorf("client %s: %w", client.Name, err)
		}
	}

	return nil
}

// Synthesize loads spec and returns the synthesized document filtered by tags
func (s *Service) Synthesize(ctx context.Context, spec string, client config.Client) (ir.Document, error) {
	doc, err := openapi.LoadDocument(spec)
	if err != nil {
		return ir.Document{}, err
	}
	return s.synthesizeClient(ctx, doc, client)
}

func (s *Service) synthesizeClient(ctx context.Context, doc *openapi.Document, client config.Client) (ir.Document, error) {
	full, err := Synthesize(ctx, doc, client.Options)
	if err != nil {
		return ir.Document{}, err
	}
	filtered, err := FilterByTags(full, client.IncludeTags, client.ExcludeTags)
	if err != nil {
		return ir.Document{}, err
	}
	slog.Debug("synthesized document",
		"client", client.Name,
		"operations", len(filtered.Operations),
		"types", len(filtered.Types),
	)
	return filtered, nil
}

// GetRegistry returns the generator registry
func (s *Service) GetRegistry() *Registry {
	return s.registry
}
