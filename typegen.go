// Package typegen derives normalized operations and structural types from
// OpenAPI documents and renders them as TypeScript declarations.
//
// Quick Start:
//
//	import "github.com/blimu-dev/sdk-typegen"
//
//	// Write petstore-client.d.ts into ./types
//	err := typegen.GenerateTypeScriptTypes(
//		"https://petstore3.swagger.io/api/v3/openapi.json",
//		"./types",
//		"petstore-client",
//		"PetStoreClient",
//	)
//
// For the synthesized model itself, see Synthesize and the ir package.
package typegen

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/blimu-dev/sdk-typegen/pkg/config"
	"github.com/blimu-dev/sdk-typegen/pkg/generator"
	"github.com/blimu-dev/sdk-typegen/pkg/ir"
	"github.com/blimu-dev/sdk-typegen/pkg/openapi"
)

// Options controls request and response shaping. The zero value is the
// default behaviour.
type Options = config.Options

// GenerateTypeScriptTypes writes <packageName>.d.ts for spec into outDir.
//
// Parameters:
//   - spec: Path to OpenAPI specification file or HTTP(S) URL
//   - outDir: Output directory for the declaration file
//   - packageName: Package name, also the output file name
//   - clientName: Name of the generated client interface
func GenerateTypeScriptTypes(spec, outDir, packageName, clientName string) error {
	return generator.GenerateTypeScriptTypes(spec, outDir, packageName, clientName)
}

// GenerateSDK generates with full configuration options.
//
// Example:
//
//	err := typegen.GenerateSDK(typegen.GenerateSDKOptions{
//		Spec:        "./openapi.yaml",
//		Type:        "typescript",
//		OutDir:      "./types",
//		PackageName: "my-api-client",
//		Name:        "MyAPIClient",
//		IncludeTags: []string{"users", "orders"},
//		ExcludeTags: []string{"internal"},
//		Options:     typegen.Options{FullResponse: true},
//	})
func GenerateSDK(opts GenerateSDKOptions) error {
	return generator.GenerateSDK(generator.GenerateSDKOptions(opts))
}

// GenerateFromConfig generates every client of a YAML configuration file, or
// only the named one.
//
// Example:
//
//	err := typegen.GenerateFromConfig("./sdkgen.yaml", "my-client")
func GenerateFromConfig(configPath string, singleClient ...string) error {
	return generator.GenerateFromConfig(configPath, singleClient...)
}

// ValidateSpec validates an OpenAPI specification file
func ValidateSpec(specPath string) error {
	return generator.ValidateSpec(specPath)
}

// Synthesize loads spec and returns its operations and named types
func Synthesize(ctx context.Context, spec string, opts Options) (ir.Document, error) {
	doc, err := openapi.LoadDocument(spec)
	if err != nil {
		return ir.Document{}, err
	}
	return generator.Synthesize(ctx, doc, opts)
}

// SynthesizeKin synthesizes a document already loaded with kin-openapi. Maps
// in the kin model are unordered, so paths, properties and status codes are
// visited in sorted order.
func SynthesizeKin(ctx context.Context, doc *openapi3.T, opts Options) (ir.Document, error) {
	return generator.Synthesize(ctx, openapi.FromKin(doc), opts)
}

// GenerateSDKOptions contains options for generation
type GenerateSDKOptions struct {
	// ConfigPath is the path to the configuration file (optional)
	ConfigPath string

	// SingleClient generates only the named client from config (optional)
	SingleClient string

	// Fallback options when no config file is provided
	Spec        string   // OpenAPI spec file or URL
	Type        string   // Generator type (e.g., "typescript")
	OutDir      string   // Output directory
	PackageName string   // Package name, used for the output file name
	Name        string   // Client interface name
	IncludeTags []string // Regex patterns for tags to include
	ExcludeTags []string // Regex patterns for tags to exclude
	Options     Options  // Synthesis options
}
