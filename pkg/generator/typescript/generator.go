package typescript

import (
	"bytes"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/blimu-dev/sdk-typegen/pkg/config"
	"github.com/blimu-dev/sdk-typegen/pkg/ir"
	"github.com/blimu-dev/sdk-typegen/pkg/utils"
)

//go:embed templates/*
var templatesFS embed.FS

const declarationTemplate = "types.d.ts.gotmpl"

// TypeScriptGenerator renders a synthesized document as a TypeScript
// declaration file
type TypeScriptGenerator struct{}

// NewTypeScriptGenerator creates a new TypeScript generator
func NewTypeScriptGenerator() *TypeScriptGenerator {
	return &TypeScriptGenerator{}
}

// GetType returns the generator type identifier
func (g *TypeScriptGenerator) GetType() string {
	return "typescript"
}

// OutputPath is where Generate writes the declaration file for client
func OutputPath(client config.Client) string {
	return filepath.Join(client.OutDir, utils.ToKebabCase(client.PackageName)+".d.ts")
}

// Generate writes <package>.d.ts into the client's output directory
func (g *TypeScriptGenerator) Generate(client config.Client, doc ir.Document) error {
	target := OutputPath(client)
	if client.ShouldExcludeFile(target) {
		slog.Info("skipping excluded file", "path", target)
		return nil
	}
	if err := os.MkdirAll(client.OutDir, 0o755); err != nil {
		return err
	}
	out, err := Render(doc, RenderOptions{ClientName: client.Name, Title: client.PackageName})
	if err != nil {
		return err
	}
	if err := os.WriteFile(target, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	slog.Info("generated declarations", "path", target, "operations", len(doc.Operations), "types", len(doc.Types))
	return nil
}

// RenderOptions name the rendered client interface and its source
type RenderOptions struct {
	ClientName string
	Title      string
}

// Render renders the declaration file for doc
func Render(doc ir.Document, opts RenderOptions) ([]byte, error) {
	p := newPrinter(doc.Types)
	funcMap := template.FuncMap{
		"typeName":     p.declName,
		"declType":     p.decl,
		"tsType":       p.tsType,
		"requestType":  p.requestType,
		"responseType": p.responseType,
		"docLines":     docLines,
	}
	for k, v := range sprig.TxtFuncMap() {
		if _, ok := funcMap[k]; !ok {
			funcMap[k] = v
		}
	}

	tmplContent, err := templatesFS.ReadFile("templates/" + declarationTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", declarationTemplate, err)
	}
	tmpl, err := template.New(declarationTemplate).Funcs(funcMap).Parse(string(tmplContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", declarationTemplate, err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, map[string]any{
		"ClientName": utils.ToPascalCase(opts.ClientName),
		"Title":      opts.Title,
		"Types":      doc.Types,
		"Operations": doc.Operations,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", declarationTemplate, err)
	}
	return buf.Bytes(), nil
}

// docLines builds the JSDoc body of an operation
func docLines(op ir.Operation) []string {
	var lines []string
	for _, text := range []string{op.Summary, op.Description} {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		for _, line := range strings.Split(text, "\n") {
			lines = append(lines, strings.ReplaceAll(strings.TrimRight(line, " \t"), "*/", "*\\/"))
		}
	}
	if op.Deprecated {
		lines = append(lines, "@deprecated")
	}
	return lines
}
