package openapi

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// httpMethods lists the path item keys that declare operations
var httpMethods = map[string]string{
	"get":     "GET",
	"put":     "PUT",
	"post":    "POST",
	"delete":  "DELETE",
	"options": "OPTIONS",
	"head":    "HEAD",
	"patch":   "PATCH",
	"trace":   "TRACE",
}

// Parse decodes a YAML or JSON OpenAPI document keeping the declaration order
// of paths, operations, properties, responses and content types.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errors.New("empty document")
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("document root must be a mapping, got %s", kindName(top))
	}

	doc := &Document{}
	err := eachPair(top, func(key string, val *yaml.Node) error {
		switch key {
		case "openapi", "swagger":
			doc.OpenAPI = val.Value
		case "info":
			return eachPair(val, func(k string, v *yaml.Node) error {
				switch k {
				case "title":
					doc.Info.Title = v.Value
				case "version":
					doc.Info.Version = v.Value
				}
				return nil
			})
		case "paths":
			return eachPair(val, func(path string, v *yaml.Node) error {
				item, err := decodePathItem(path, v)
				if err != nil {
					return err
				}
				doc.Paths = append(doc.Paths, item)
				return nil
			})
		case "components":
			c, err := decodeComponents(val)
			if err != nil {
				return err
			}
			doc.Components = c
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func decodePathItem(path string, n *yaml.Node) (*PathItem, error) {
	item := &PathItem{Path: path}
	err := eachPair(n, func(key string, val *yaml.Node) error {
		if key == "parameters" {
			params, err := decodeParameters(val)
			if err != nil {
				return fmt.Errorf("paths[%s].parameters: %w", path, err)
			}
			item.Parameters = params
			return nil
		}
		method, ok := httpMethods[strings.ToLower(key)]
		if !ok {
			return nil
		}
		op, err := decodeOperation(val)
		if err != nil {
			return fmt.Errorf("paths[%s].%s: %w", path, key, err)
		}
		item.Operations = append(item.Operations, MethodEntry{Method: method, Operation: op})
		return nil
	})
	return item, err
}

func decodeOperation(n *yaml.Node) (*Operation, error) {
	op := &Operation{}
	err := eachPair(n, func(key string, val *yaml.Node) error {
		switch key {
		case "operationId":
			op.OperationID = val.Value
		case "summary":
			op.Summary = val.Value
		case "description":
			op.Description = val.Value
		case "deprecated":
			op.Deprecated = scalarBool(val)
		case "tags":
			op.Tags = scalarList(val)
		case "parameters":
			params, err := decodeParameters(val)
			if err != nil {
				return err
			}
			op.Parameters = params
		case "requestBody":
			op.RequestBody = decodeRequestBody(val)
		case "responses":
			return eachPair(val, func(status string, v *yaml.Node) error {
				op.Responses = append(op.Responses, StatusEntry{Status: status, Response: decodeResponse(v)})
				return nil
			})
		}
		return nil
	})
	return op, err
}

func decodeParameters(n *yaml.Node) ([]*Parameter, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("parameters must be a sequence, got %s", kindName(n))
	}
	out := make([]*Parameter, 0, len(n.Content))
	for _, item := range n.Content {
		out = append(out, decodeParameter(item))
	}
	return out, nil
}

func decodeParameter(n *yaml.Node) *Parameter {
	p := &Parameter{}
	_ = eachPair(n, func(key string, val *yaml.Node) error {
		switch key {
		case "$ref":
			p.Ref = val.Value
		case "name":
			p.Name = val.Value
		case "in":
			p.In = val.Value
		case "required":
			p.Required = scalarBool(val)
		case "description":
			p.Description = val.Value
		case "schema":
			p.Schema = decodeSchema(val)
		case "content":
			p.Content = decodeContent(val)
		}
		return nil
	})
	return p
}

func decodeRequestBody(n *yaml.Node) *RequestBody {
	rb := &RequestBody{}
	_ = eachPair(n, func(key string, val *yaml.Node) error {
		switch key {
		case "$ref":
			rb.Ref = val.Value
		case "required":
			rb.Required = scalarBool(val)
		case "content":
			rb.Content = decodeContent(val)
		}
		return nil
	})
	return rb
}

func decodeResponse(n *yaml.Node) *Response {
	r := &Response{}
	_ = eachPair(n, func(key string, val *yaml.Node) error {
		switch key {
		case "$ref":
			r.Ref = val.Value
		case "description":
			r.Description = val.Value
		case "content":
			r.Content = decodeContent(val)
		case "headers":
			_ = eachPair(val, func(name string, v *yaml.Node) error {
				h := decodeHeader(v)
				h.Name = name
				r.Headers = append(r.Headers, *h)
				return nil
			})
		}
		return nil
	})
	return r
}

func decodeHeader(n *yaml.Node) *Header {
	h := &Header{}
	_ = eachPair(n, func(key string, val *yaml.Node) error {
		switch key {
		case "$ref":
			h.Ref = val.Value
		case "required":
			h.Required = scalarBool(val)
		case "schema":
			h.Schema = decodeSchema(val)
		}
		return nil
	})
	return h
}

func decodeContent(n *yaml.Node) []MediaType {
	var out []MediaType
	_ = eachPair(n, func(ct string, val *yaml.Node) error {
		mt := MediaType{ContentType: ct}
		_ = eachPair(val, func(key string, v *yaml.Node) error {
			if key == "schema" && !isNull(v) {
				mt.Schema = decodeSchema(v)
			}
			return nil
		})
		out = append(out, mt)
		return nil
	})
	return out
}

func decodeComponents(n *yaml.Node) (*Components, error) {
	c := &Components{
		Schemas:       map[string]*Schema{},
		Parameters:    map[string]*Parameter{},
		RequestBodies: map[string]*RequestBody{},
		Responses:     map[string]*Response{},
		Headers:       map[string]*Header{},
	}
	err := eachPair(n, func(section string, val *yaml.Node) error {
		return eachPair(val, func(name string, v *yaml.Node) error {
			switch section {
			case "schemas":
				c.Schemas[name] = decodeSchema(v)
			case "parameters":
				c.Parameters[name] = decodeParameter(v)
			case "requestBodies":
				c.RequestBodies[name] = decodeRequestBody(v)
			case "responses":
				c.Responses[name] = decodeResponse(v)
			case "headers":
				h := decodeHeader(v)
				h.Name = name
				c.Headers[name] = h
			}
			return nil
		})
	})
	return c, err
}

func decodeSchema(n *yaml.Node) *Schema {
	n = deref(n)
	if n.Kind == yaml.ScalarNode && n.Tag == "!!bool" {
		// true / false schemas carry no shape information
		return &Schema{}
	}
	if n.Kind != yaml.MappingNode {
		return &Schema{Invalid: kindName(n)}
	}
	s := &Schema{}
	_ = eachPair(n, func(key string, val *yaml.Node) error {
		switch key {
		case "$ref":
			s.Ref = val.Value
		case "type":
			decodeType(s, val)
		case "format":
			s.Format = val.Value
		case "nullable":
			s.Nullable = scalarBool(val)
		case "enum":
			if val.Kind != yaml.SequenceNode {
				s.Invalid = "enum " + kindName(val)
				return nil
			}
			for _, item := range val.Content {
				s.Enum = append(s.Enum, scalarValue(item))
			}
		case "const":
			s.Enum = []any{scalarValue(val)}
		case "properties":
			if val.Kind != yaml.MappingNode {
				s.Invalid = "properties " + kindName(val)
				return nil
			}
			_ = eachPair(val, func(name string, v *yaml.Node) error {
				s.Properties = append(s.Properties, Property{Name: name, Schema: decodeSchema(v)})
				return nil
			})
		case "required":
			s.Required = scalarList(val)
		case "items":
			s.Items = decodeSchema(val)
		case "additionalProperties":
			if deref(val).Kind == yaml.MappingNode {
				s.AdditionalProperties = decodeSchema(val)
			}
		case "allOf":
			s.AllOf = decodeSchemaList(s, key, val)
		case "anyOf":
			s.AnyOf = decodeSchemaList(s, key, val)
		case "oneOf":
			s.OneOf = decodeSchemaList(s, key, val)
		case "not":
			s.Not = decodeSchema(val)
		case "discriminator":
			d := &Discriminator{}
			_ = eachPair(val, func(k string, v *yaml.Node) error {
				switch k {
				case "propertyName":
					d.PropertyName = v.Value
				case "mapping":
					d.Mapping = map[string]string{}
					_ = eachPair(v, func(value string, ref *yaml.Node) error {
						d.Mapping[value] = ref.Value
						return nil
					})
				}
				return nil
			})
			s.Discriminator = d
		case "title":
			s.Title = val.Value
		case "description":
			s.Description = val.Value
		}
		return nil
	})
	return s
}

// decodeType accepts both the 3.0 string form and the 3.1 list form. A "null"
// entry in the list marks the schema nullable; the first other entry wins.
func decodeType(s *Schema, n *yaml.Node) {
	switch n.Kind {
	case yaml.ScalarNode:
		s.Type = n.Value
	case yaml.SequenceNode:
		for _, t := range n.Content {
			if t.Value == "null" {
				s.Nullable = true
				continue
			}
			if s.Type == "" {
				s.Type = t.Value
			}
		}
		if s.Type == "" && s.Nullable {
			s.Type = "null"
			s.Nullable = false
		}
	default:
		s.Invalid = "type " + kindName(n)
	}
}

func decodeSchemaList(s *Schema, key string, n *yaml.Node) SchemaList {
	if n.Kind != yaml.SequenceNode {
		s.Invalid = key + " " + kindName(n)
		return nil
	}
	out := make(SchemaList, 0, len(n.Content))
	for _, item := range n.Content {
		out = append(out, decodeSchema(item))
	}
	return out
}

func eachPair(n *yaml.Node, fn func(key string, val *yaml.Node) error) error {
	n = deref(n)
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := fn(n.Content[i].Value, deref(n.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

func deref(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func scalarBool(n *yaml.Node) bool {
	var b bool
	if err := n.Decode(&b); err != nil {
		return false
	}
	return b
}

func scalarList(n *yaml.Node) []string {
	if n.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		out = append(out, item.Value)
	}
	return out
}

// scalarValue decodes an enum entry. Numbers are normalised to float64 so
// that JSON and YAML sources produce identical literals.
func scalarValue(n *yaml.Node) any {
	var v any
	if err := n.Decode(&v); err != nil {
		return n.Value
	}
	return normalizeNumber(v)
}

func normalizeNumber(v any) any {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	case float32:
		return float64(x)
	}
	return v
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	}
	return "unknown"
}
