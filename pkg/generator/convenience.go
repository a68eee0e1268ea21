package generator

import (
	"context"
	"path/filepath"

	"github.com/blimu-dev/sdk-typegen/pkg/config"
	"github.com/blimu-dev/sdk-typegen/pkg/openapi"
)

// GenerateSDK is a convenience function for generating with minimal configuration
func GenerateSDK(opts GenerateSDKOptions) error {
	service := NewService()

	genOpts := GenerateOptions{
		ConfigPath:   opts.ConfigPath,
		SingleClient: opts.SingleClient,
		Fallback: FallbackOptions{
			Spec:        opts.Spec,
			Type:        opts.Type,
			OutDir:      opts.OutDir,
			PackageName: opts.PackageName,
			Name:        opts.Name,
			IncludeTags: opts.IncludeTags,
			ExcludeTags: opts.ExcludeTags,
			Options:     opts.Options,
		},
	}

	return service.Generate(context.Background(), genOpts)
}

// GenerateSDKOptions contains options for the convenience GenerateSDK function
type GenerateSDKOptions struct {
	// ConfigPath is the path to the configuration file (optional)
	ConfigPath string

	// SingleClient generates only the named client from config (optional)
	SingleClient string

	// Fallback options when no config file is provided
	Spec        string         // OpenAPI spec file or URL
	Type        string         // Generator type (e.g., "typescript")
	OutDir      string         // Output directory
	PackageName string         // Package name, used for the output file name
	Name        string         // Client interface name
	IncludeTags []string       // Regex patterns for tags to include
	ExcludeTags []string       // Regex patterns for tags to exclude
	Options     config.Options // Synthesis options
}

// GenerateTypeScriptTypes writes <packageName>.d.ts for spec into outDir
func GenerateTypeScriptTypes(spec, outDir, packageName, clientName string) error {
	absOutDir, err := filepath.Abs(outDir)
	if err != nil {
		return err
	}

	return GenerateSDK(GenerateSDKOptions{
		Spec:        spec,
		Type:        "typescript",
		OutDir:      absOutDir,
		PackageName: packageName,
		Name:        clientName,
	})
}

// GenerateFromConfig is a convenience function for generating from a config file
func GenerateFromConfig(configPath string, singleClient ...string) error {
	service := NewService()
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	onlyClient := ""
	if len(singleClient) > 0 {
		onlyClient = singleClient[0]
	}

	return service.GenerateFromConfig(context.Background(), cfg, onlyClient)
}

// ValidateSpec validates an OpenAPI specification
func ValidateSpec(specPath string) error {
	return openapi.ValidateDocument(specPath)
}
