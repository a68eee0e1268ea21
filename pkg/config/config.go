package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override key
const EnvPrefix = "SDKGEN_"

// Config represents the complete configuration for type generation
type Config struct {
	Spec    string   `yaml:"spec"`
	Name    string   `yaml:"name"`
	Clients []Client `yaml:"clients"`
}

// Client represents configuration for a single generated client surface
type Client struct {
	Type        string   `yaml:"type"`
	OutDir      string   `yaml:"outDir"`
	PackageName string   `yaml:"packageName"`
	Name        string   `yaml:"name"`
	IncludeTags []string `yaml:"includeTags"`
	ExcludeTags []string `yaml:"excludeTags"`
	// ExcludeFiles is a list of file paths (relative to outDir) that should not be generated
	// Example: ["index.d.ts"]
	ExcludeFiles []string `yaml:"exclude"`
	// Options controls how request and response shapes are synthesized
	Options Options `yaml:"options"`
}

// Options are the synthesis flags. The zero value is the default behaviour.
type Options struct {
	// FullRequest forces the grouped {body, path, query, headers} request shape
	FullRequest bool `yaml:"fullRequest" env:"FULL_REQUEST"`
	// FullResponse wraps every response with status and headers
	FullResponse bool `yaml:"fullResponse" env:"FULL_RESPONSE"`
	// OptionalHeaders lists parameter names forced to optional, in any location
	OptionalHeaders []string `yaml:"optionalHeaders" env:"OPTIONAL_HEADERS"`
	// PropsOptional makes every object property optional
	PropsOptional bool `yaml:"propsOptional" env:"PROPS_OPTIONAL"`
	// Concurrency bounds parallel operation synthesis; 0 means GOMAXPROCS
	Concurrency int `yaml:"concurrency" env:"CONCURRENCY"`
}

// IsOptionalHeader reports whether name is listed in OptionalHeaders
func (o Options) IsOptionalHeader(name string) bool {
	for _, h := range o.OptionalHeaders {
		if h == name {
			return true
		}
	}
	return false
}

// ApplyEnv overlays SDKGEN_* variables from the process environment onto o.
// Unset variables leave the current value untouched.
func (o *Options) ApplyEnv() error {
	return o.ApplyEnvFrom(nil)
}

// ApplyEnvFrom is ApplyEnv reading from the given map instead of the process
// environment when environ is non-nil.
func (o *Options) ApplyEnvFrom(environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(o, opts); err != nil {
		return fmt.Errorf("invalid %s environment override: %w", EnvPrefix, err)
	}
	return nil
}

// ShouldExcludeFile checks if a file path should be excluded based on the ExcludeFiles list.
// targetPath should be an absolute path, and the comparison is done relative to OutDir.
func (c *Client) ShouldExcludeFile(targetPath string) bool {
	if len(c.ExcludeFiles) == 0 {
		return false
	}

	relPath, err := filepath.Rel(c.OutDir, targetPath)
	if err != nil {
		// not under OutDir
		return false
	}

	relPath = filepath.ToSlash(relPath)
	if relPath == "." {
		relPath = ""
	}

	for _, excludePattern := range c.ExcludeFiles {
		normalizedExclude := filepath.ToSlash(excludePattern)
		if relPath == normalizedExclude {
			return true
		}
		// "types/" excludes everything below it
		if normalizedExclude != "" && strings.HasPrefix(relPath, strings.TrimSuffix(normalizedExclude, "/")+"/") {
			return true
		}
	}

	return false
}

// Load loads configuration from a YAML file and applies environment overrides
// to every client's options.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data, nil)
}

func parse(data []byte, environ map[string]string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Spec == "" {
		return nil, errors.New("config.spec is required")
	}
	for i := range cfg.Clients {
		c := &cfg.Clients[i]
		if c.Type == "" || c.OutDir == "" || c.PackageName == "" || c.Name == "" {
			return nil, fmt.Errorf("clients[%d] missing required fields (type, outDir, packageName, name)", i)
		}
		if !filepath.IsAbs(c.OutDir) {
			abs, _ := filepath.Abs(c.OutDir)
			c.OutDir = abs
		}
		if err := c.Options.ApplyEnvFrom(environ); err != nil {
			return nil, fmt.Errorf("clients[%d]: %w", i, err)
		}
		if c.Options.Concurrency < 0 {
			return nil, fmt.Errorf("clients[%d].options.concurrency must not be negative", i)
		}
	}
	// Do not absolutize when spec is an HTTP(S) URL
	if u, err := url.Parse(cfg.Spec); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		// keep as-is
	} else if !filepath.IsAbs(cfg.Spec) {
		abs, _ := filepath.Abs(cfg.Spec)
		cfg.Spec = abs
	}
	return &cfg, nil
}
