package openapi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"
)

// Document is an immutable, order-preserving view of an OpenAPI document.
// Map-valued sections that carry meaning through their order (paths,
// operations, properties, content types, responses) are kept as slices.
type Document struct {
	OpenAPI    string      `json:"openapi"`
	Info       Info        `json:"info"`
	Paths      Paths       `json:"paths"`
	Components *Components `json:"components,omitempty"`
}

// Info holds the descriptive fields of the document header
type Info struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

// Paths is the ordered list of path items
type Paths []*PathItem

// PathItem holds the operations declared under one path template
type PathItem struct {
	Path       string        `json:"path"`
	Parameters []*Parameter  `json:"parameters,omitempty"`
	Operations []MethodEntry `json:"operations"`
}

// MethodEntry pairs an HTTP method (upper case) with its operation
type MethodEntry struct {
	Method    string     `json:"method"`
	Operation *Operation `json:"operation"`
}

// Operation is a single path+method entry
type Operation struct {
	OperationID string        `json:"operationId,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Summary     string        `json:"summary,omitempty"`
	Description string        `json:"description,omitempty"`
	Deprecated  bool          `json:"deprecated,omitempty"`
	Parameters  []*Parameter  `json:"parameters,omitempty"`
	RequestBody *RequestBody  `json:"requestBody,omitempty"`
	Responses   []StatusEntry `json:"responses,omitempty"`
}

// StatusEntry pairs a declared status key ("200", "2XX", "default") with its response
type StatusEntry struct {
	Status   string    `json:"status"`
	Response *Response `json:"response"`
}

// Parameter location values
const (
	InPath   = "path"
	InQuery  = "query"
	InHeader = "header"
	InCookie = "cookie"
)

// Parameter is an operation or path-level parameter. When Ref is set the
// remaining fields are empty and the parameter must be resolved.
type Parameter struct {
	Ref         string      `json:"$ref,omitempty"`
	Name        string      `json:"name,omitempty"`
	In          string      `json:"in,omitempty"`
	Required    bool        `json:"required,omitempty"`
	Description string      `json:"description,omitempty"`
	Schema      *Schema     `json:"schema,omitempty"`
	Content     []MediaType `json:"content,omitempty"`
}

// RequestBody describes the body of an operation
type RequestBody struct {
	Ref      string      `json:"$ref,omitempty"`
	Required bool        `json:"required,omitempty"`
	Content  []MediaType `json:"content,omitempty"`
}

// Response describes one declared response
type Response struct {
	Ref         string      `json:"$ref,omitempty"`
	Description string      `json:"description,omitempty"`
	Content     []MediaType `json:"content,omitempty"`
	Headers     []Header    `json:"headers,omitempty"`
}

// Header is a named response header
type Header struct {
	Name     string  `json:"name"`
	Ref      string  `json:"$ref,omitempty"`
	Required bool    `json:"required,omitempty"`
	Schema   *Schema `json:"schema,omitempty"`
}

// MediaType pairs a content type with its schema. A nil Schema means the
// content type was declared without one.
type MediaType struct {
	ContentType string  `json:"contentType"`
	Schema      *Schema `json:"schema,omitempty"`
}

// Components holds the reusable objects addressable by local $ref pointers
type Components struct {
	Schemas       map[string]*Schema      `json:"schemas,omitempty"`
	Parameters    map[string]*Parameter   `json:"parameters,omitempty"`
	RequestBodies map[string]*RequestBody `json:"requestBodies,omitempty"`
	Responses     map[string]*Response    `json:"responses,omitempty"`
	Headers       map[string]*Header      `json:"headers,omitempty"`
}

// Schema is a JSON-Schema-like node. Properties keep their declaration order.
type Schema struct {
	Ref                  string         `json:"$ref,omitempty"`
	Type                 string         `json:"type,omitempty"`
	Format               string         `json:"format,omitempty"`
	Nullable             bool           `json:"nullable,omitempty"`
	Enum                 []any          `json:"enum,omitempty"`
	Properties           Properties     `json:"properties,omitempty"`
	Required             []string       `json:"required,omitempty"`
	Items                *Schema        `json:"items,omitempty"`
	AdditionalProperties *Schema        `json:"additionalProperties,omitempty"`
	AllOf                SchemaList     `json:"allOf,omitempty"`
	AnyOf                SchemaList     `json:"anyOf,omitempty"`
	OneOf                SchemaList     `json:"oneOf,omitempty"`
	Not                  *Schema        `json:"not,omitempty"`
	Discriminator        *Discriminator `json:"discriminator,omitempty"`
	Title                string         `json:"title,omitempty"`
	Description          string         `json:"description,omitempty"`
	// Invalid names the structural kind of a node that is not a usable schema
	// (for example a mapping where a type name was expected).
	Invalid string `json:"-"`
}

// Property is a named schema inside an object
type Property struct {
	Name   string  `json:"name"`
	Schema *Schema `json:"schema"`
}

// Properties is an ordered list of object properties
type Properties []Property

// SchemaList is the member list of a combinator
type SchemaList []*Schema

// Discriminator names the property that selects a oneOf member
type Discriminator struct {
	PropertyName string            `json:"propertyName"`
	Mapping      map[string]string `json:"mapping,omitempty"`
}

// IsRequired reports whether name is listed in the schema's required set
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Get returns the property schema with the given name
func (p Properties) Get(name string) (*Schema, bool) {
	for _, prop := range p {
		if prop.Name == name {
			return prop.Schema, true
		}
	}
	return nil, false
}

// Lookup resolves a local reference ("#/components/schemas/Pet") against the document
func (d *Document) Lookup(ref string) (any, error) {
	if len(ref) == 0 || ref[0] != '#' {
		return nil, fmt.Errorf("%w: non-local reference %q", jsonpointer.ErrPointer, ref)
	}
	ptr, err := jsonpointer.New(ref[1:])
	if err != nil {
		return nil, err
	}
	v, _, err := ptr.Get(d)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// JSONLookup implements jsonpointer.JSONPointable
func (d *Document) JSONLookup(token string) (any, error) {
	switch token {
	case "openapi":
		return d.OpenAPI, nil
	case "info":
		return d.Info, nil
	case "paths":
		return d.Paths, nil
	case "components":
		if d.Components == nil {
			break
		}
		return d.Components, nil
	}
	return nil, missing(token)
}

// JSONLookup implements jsonpointer.JSONPointable
func (p Paths) JSONLookup(token string) (any, error) {
	for _, item := range p {
		if item.Path == token {
			return item, nil
		}
	}
	return nil, missing(token)
}

// JSONLookup implements jsonpointer.JSONPointable
func (p *PathItem) JSONLookup(token string) (any, error) {
	if token == "parameters" {
		return parameterList(p.Parameters), nil
	}
	for _, m := range p.Operations {
		if strings.EqualFold(m.Method, token) {
			return m.Operation, nil
		}
	}
	return nil, missing(token)
}

// JSONLookup implements jsonpointer.JSONPointable
func (o *Operation) JSONLookup(token string) (any, error) {
	switch token {
	case "parameters":
		return parameterList(o.Parameters), nil
	case "requestBody":
		if o.RequestBody != nil {
			return o.RequestBody, nil
		}
	case "responses":
		return statusList(o.Responses), nil
	}
	return nil, missing(token)
}

type parameterList []*Parameter

func (l parameterList) JSONLookup(token string) (any, error) {
	i, err := index(token, len(l))
	if err != nil {
		return nil, err
	}
	return l[i], nil
}

type statusList []StatusEntry

func (l statusList) JSONLookup(token string) (any, error) {
	for _, e := range l {
		if e.Status == token {
			return e.Response, nil
		}
	}
	return nil, missing(token)
}

// JSONLookup implements jsonpointer.JSONPointable
func (c *Components) JSONLookup(token string) (any, error) {
	switch token {
	case "schemas":
		return schemaMap(c.Schemas), nil
	case "parameters":
		return namedLookup[*Parameter](c.Parameters), nil
	case "requestBodies":
		return namedLookup[*RequestBody](c.RequestBodies), nil
	case "responses":
		return namedLookup[*Response](c.Responses), nil
	case "headers":
		return namedLookup[*Header](c.Headers), nil
	}
	return nil, missing(token)
}

type schemaMap map[string]*Schema

func (m schemaMap) JSONLookup(token string) (any, error) {
	if s, ok := m[token]; ok && s != nil {
		return s, nil
	}
	return nil, missing(token)
}

type namedLookup[T any] map[string]T

func (m namedLookup[T]) JSONLookup(token string) (any, error) {
	if v, ok := m[token]; ok {
		return v, nil
	}
	return nil, missing(token)
}

// JSONLookup implements jsonpointer.JSONPointable
func (r *RequestBody) JSONLookup(token string) (any, error) {
	if token == "content" {
		return contentList(r.Content), nil
	}
	return nil, missing(token)
}

// JSONLookup implements jsonpointer.JSONPointable
func (r *Response) JSONLookup(token string) (any, error) {
	if token == "content" {
		return contentList(r.Content), nil
	}
	return nil, missing(token)
}

// JSONLookup implements jsonpointer.JSONPointable
func (p *Parameter) JSONLookup(token string) (any, error) {
	if token == "schema" && p.Schema != nil {
		return p.Schema, nil
	}
	return nil, missing(token)
}

type contentList []MediaType

func (l contentList) JSONLookup(token string) (any, error) {
	for _, mt := range l {
		if mt.ContentType == token {
			return mediaType(mt), nil
		}
	}
	return nil, missing(token)
}

type mediaType MediaType

func (m mediaType) JSONLookup(token string) (any, error) {
	if token == "schema" && m.Schema != nil {
		return m.Schema, nil
	}
	return nil, missing(token)
}

// JSONLookup implements jsonpointer.JSONPointable
func (s *Schema) JSONLookup(token string) (any, error) {
	var next any
	switch token {
	case "properties":
		next = s.Properties
	case "items":
		next = s.Items
	case "additionalProperties":
		next = s.AdditionalProperties
	case "not":
		next = s.Not
	case "allOf":
		next = s.AllOf
	case "anyOf":
		next = s.AnyOf
	case "oneOf":
		next = s.OneOf
	}
	if sub, ok := next.(*Schema); ok && sub == nil {
		next = nil
	}
	if next == nil {
		return nil, missing(token)
	}
	return next, nil
}

// JSONLookup implements jsonpointer.JSONPointable
func (p Properties) JSONLookup(token string) (any, error) {
	if s, ok := p.Get(token); ok && s != nil {
		return s, nil
	}
	return nil, missing(token)
}

// JSONLookup implements jsonpointer.JSONPointable
func (l SchemaList) JSONLookup(token string) (any, error) {
	i, err := index(token, len(l))
	if err != nil {
		return nil, err
	}
	return l[i], nil
}

func missing(token string) error {
	return fmt.Errorf("object has no key %q: %w", token, jsonpointer.ErrPointer)
}

func index(token string, n int) (int, error) {
	i, err := strconv.Atoi(token)
	if err != nil || i < 0 || i >= n {
		return 0, fmt.Errorf("index %q out of bounds: %w", token, jsonpointer.ErrPointer)
	}
	return i, nil
}
