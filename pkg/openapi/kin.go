package openapi

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// kinMethods is the fixed method order used when converting a kin-openapi
// document, whose path items do not retain declaration order.
var kinMethods = []string{"GET", "PUT", "POST", "DELETE", "OPTIONS", "HEAD", "PATCH", "TRACE"}

// FromKin converts a document loaded with kin-openapi. Map-valued sections are
// visited in sorted key order; $ref values are kept as references and resolved
// later against the converted components.
func FromKin(t *openapi3.T) *Document {
	doc := &Document{OpenAPI: t.OpenAPI}
	if t.Info != nil {
		doc.Info = Info{Title: t.Info.Title, Version: t.Info.Version}
	}
	if t.Paths != nil {
		m := t.Paths.Map()
		for _, path := range sortedKeys(m) {
			pi := m[path]
			if pi == nil {
				continue
			}
			item := &PathItem{Path: path, Parameters: kinParameters(pi.Parameters)}
			ops := pi.Operations()
			for _, method := range kinMethods {
				if op, ok := ops[method]; ok && op != nil {
					item.Operations = append(item.Operations, MethodEntry{Method: method, Operation: kinOperation(op)})
				}
			}
			doc.Paths = append(doc.Paths, item)
		}
	}
	if t.Components != nil {
		c := &Components{
			Schemas:       map[string]*Schema{},
			Parameters:    map[string]*Parameter{},
			RequestBodies: map[string]*RequestBody{},
			Responses:     map[string]*Response{},
			Headers:       map[string]*Header{},
		}
		for name, sr := range t.Components.Schemas {
			c.Schemas[name] = kinSchemaValue(sr)
		}
		for name, pr := range t.Components.Parameters {
			c.Parameters[name] = kinParameterValue(pr)
		}
		for name, rb := range t.Components.RequestBodies {
			c.RequestBodies[name] = kinRequestBodyValue(rb)
		}
		for name, rr := range t.Components.Responses {
			c.Responses[name] = kinResponseValue(rr)
		}
		for name, hr := range t.Components.Headers {
			h := kinHeaderValue(hr)
			h.Name = name
			c.Headers[name] = &h
		}
		doc.Components = c
	}
	return doc
}

func kinOperation(op *openapi3.Operation) *Operation {
	out := &Operation{
		OperationID: op.OperationID,
		Tags:        op.Tags,
		Summary:     op.Summary,
		Description: op.Description,
		Deprecated:  op.Deprecated,
		Parameters:  kinParameters(op.Parameters),
	}
	if op.RequestBody != nil {
		out.RequestBody = kinRequestBody(op.RequestBody)
	}
	if op.Responses != nil {
		m := op.Responses.Map()
		for _, status := range sortedKeys(m) {
			out.Responses = append(out.Responses, StatusEntry{Status: status, Response: kinResponse(m[status])})
		}
	}
	return out
}

func kinParameters(params openapi3.Parameters) []*Parameter {
	if len(params) == 0 {
		return nil
	}
	out := make([]*Parameter, 0, len(params))
	for _, pr := range params {
		if pr == nil {
			continue
		}
		if pr.Ref != "" {
			out = append(out, &Parameter{Ref: pr.Ref})
			continue
		}
		out = append(out, kinParameterValue(pr))
	}
	return out
}

func kinParameterValue(pr *openapi3.ParameterRef) *Parameter {
	if pr == nil || pr.Value == nil {
		return &Parameter{}
	}
	p := pr.Value
	return &Parameter{
		Name:        p.Name,
		In:          p.In,
		Required:    p.Required,
		Description: p.Description,
		Schema:      kinSchema(p.Schema),
		Content:     kinContent(p.Content),
	}
}

func kinRequestBody(rb *openapi3.RequestBodyRef) *RequestBody {
	if rb.Ref != "" {
		return &RequestBody{Ref: rb.Ref}
	}
	return kinRequestBodyValue(rb)
}

func kinRequestBodyValue(rb *openapi3.RequestBodyRef) *RequestBody {
	if rb == nil || rb.Value == nil {
		return &RequestBody{}
	}
	return &RequestBody{Required: rb.Value.Required, Content: kinContent(rb.Value.Content)}
}

func kinResponse(rr *openapi3.ResponseRef) *Response {
	if rr != nil && rr.Ref != "" {
		return &Response{Ref: rr.Ref}
	}
	return kinResponseValue(rr)
}

func kinResponseValue(rr *openapi3.ResponseRef) *Response {
	if rr == nil || rr.Value == nil {
		return &Response{}
	}
	r := &Response{Content: kinContent(rr.Value.Content)}
	if rr.Value.Description != nil {
		r.Description = *rr.Value.Description
	}
	for _, name := range sortedKeys(rr.Value.Headers) {
		hr := rr.Value.Headers[name]
		var h Header
		if hr != nil && hr.Ref != "" {
			h = Header{Ref: hr.Ref}
		} else {
			h = kinHeaderValue(hr)
		}
		h.Name = name
		r.Headers = append(r.Headers, h)
	}
	return r
}

func kinHeaderValue(hr *openapi3.HeaderRef) Header {
	if hr == nil || hr.Value == nil {
		return Header{}
	}
	return Header{Required: hr.Value.Required, Schema: kinSchema(hr.Value.Schema)}
}

func kinContent(content openapi3.Content) []MediaType {
	if len(content) == 0 {
		return nil
	}
	out := make([]MediaType, 0, len(content))
	for _, ct := range sortedKeys(content) {
		mt := MediaType{ContentType: ct}
		if media := content[ct]; media != nil {
			mt.Schema = kinSchema(media.Schema)
		}
		out = append(out, mt)
	}
	return out
}

// kinSchema keeps references unresolved so cycles stay visible to the resolver
func kinSchema(sr *openapi3.SchemaRef) *Schema {
	if sr == nil {
		return nil
	}
	if sr.Ref != "" {
		return &Schema{Ref: sr.Ref}
	}
	return kinSchemaValue(sr)
}

func kinSchemaValue(sr *openapi3.SchemaRef) *Schema {
	if sr == nil || sr.Value == nil {
		return &Schema{}
	}
	s := sr.Value
	out := &Schema{
		Format:      s.Format,
		Nullable:    s.Nullable,
		Required:    s.Required,
		Title:       s.Title,
		Description: s.Description,
		Items:       kinSchema(s.Items),
		Not:         kinSchema(s.Not),
	}
	if s.Type != nil {
		for _, t := range s.Type.Slice() {
			if t == openapi3.TypeNull {
				out.Nullable = true
				continue
			}
			if out.Type == "" {
				out.Type = t
			}
		}
		if out.Type == "" && out.Nullable {
			out.Type = openapi3.TypeNull
			out.Nullable = false
		}
	}
	for _, v := range s.Enum {
		out.Enum = append(out.Enum, normalizeNumber(v))
	}
	for _, name := range sortedKeys(s.Properties) {
		out.Properties = append(out.Properties, Property{Name: name, Schema: kinSchema(s.Properties[name])})
	}
	if s.AdditionalProperties.Schema != nil {
		out.AdditionalProperties = kinSchema(s.AdditionalProperties.Schema)
	}
	out.AllOf = kinSchemaList(s.AllOf)
	out.AnyOf = kinSchemaList(s.AnyOf)
	out.OneOf = kinSchemaList(s.OneOf)
	if s.Discriminator != nil {
		d := &Discriminator{PropertyName: s.Discriminator.PropertyName}
		if len(s.Discriminator.Mapping) > 0 {
			d.Mapping = make(map[string]string, len(s.Discriminator.Mapping))
			for k, v := range s.Discriminator.Mapping {
				d.Mapping[k] = v
			}
		}
		out.Discriminator = d
	}
	return out
}

func kinSchemaList(refs openapi3.SchemaRefs) SchemaList {
	if len(refs) == 0 {
		return nil
	}
	out := make(SchemaList, 0, len(refs))
	for _, sr := range refs {
		out = append(out, kinSchema(sr))
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
