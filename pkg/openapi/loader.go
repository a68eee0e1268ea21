package openapi

import (
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/getkin/kin-openapi/openapi3"
)

// LoadDocument loads an OpenAPI document from a local file path or an HTTP(S) URL
func LoadDocument(input string) (*Document, error) {
	return LoadDocumentWithLoader(newLoader(), input)
}

// LoadDocumentWithLoader reads the raw document through the loader's URI reader
// and decodes it with Parse so that declaration order survives.
func LoadDocumentWithLoader(loader *openapi3.Loader, input string) (*Document, error) {
	location, err := documentLocation(input)
	if err != nil {
		return nil, err
	}
	read := loader.ReadFromURIFunc
	if read == nil {
		read = openapi3.DefaultReadFromURI
	}
	data, err := read(loader, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", input, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", input, err)
	}
	return doc, nil
}

// LoadKinDocument loads the document with kin-openapi, resolving references
func LoadKinDocument(input string) (*openapi3.T, *openapi3.Loader, error) {
	loader := newLoader()
	location, err := documentLocation(input)
	if err != nil {
		return nil, nil, err
	}
	var doc *openapi3.T
	if location.Scheme == "http" || location.Scheme == "https" {
		doc, err = loader.LoadFromURI(location)
	} else {
		doc, err = loader.LoadFromFile(location.Path)
	}
	if err != nil {
		return nil, nil, err
	}
	return doc, loader, nil
}

// ValidateDocument validates an OpenAPI document
func ValidateDocument(input string) error {
	doc, loader, err := LoadKinDocument(input)
	if err != nil {
		return err
	}
	return doc.Validate(loader.Context)
}

func newLoader() *openapi3.Loader {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true
	return loader
}

func documentLocation(input string) (*url.URL, error) {
	// Try to parse as URL; if it looks like http(s), fetch via URL
	if u, err := url.Parse(input); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return u, nil
	}
	// Fallback to reading from filesystem path
	abs, err := filepath.Abs(input)
	if err != nil {
		return nil, err
	}
	return &url.URL{Path: filepath.ToSlash(abs)}, nil
}
