package generator

import (
	"strings"

	"github.com/blimu-dev/sdk-typegen/pkg/ir"
	"github.com/blimu-dev/sdk-typegen/pkg/openapi"
)

// requestBody is a synthesized body together with its media type. Object
// records whether the declared schema is an object, whatever it synthesized to.
type requestBody struct {
	Type        ir.Type
	ContentType string
	Required    bool
	Object      bool
}

// body resolves and synthesizes the request body. JSON media types are
// preferred; otherwise the first declared content type is used.
func (s *synthesizer) body(rb *openapi.RequestBody) (*requestBody, error) {
	if rb == nil {
		return nil, nil
	}
	resolved, err := s.res.requestBody(rb)
	if err != nil {
		return nil, err
	}
	media, ok := pickMedia(resolved.Content)
	if !ok {
		return nil, nil
	}
	t, err := s.synthesize(media.Schema, DirectionRequest)
	if err != nil {
		return nil, err
	}
	object, err := s.res.isObjectSchema(media.Schema)
	if err != nil {
		return nil, err
	}
	return &requestBody{Type: t, ContentType: media.ContentType, Required: resolved.Required, Object: object}, nil
}

func pickMedia(content []openapi.MediaType) (openapi.MediaType, bool) {
	for _, mt := range content {
		if isJSON(mt.ContentType) {
			return mt, true
		}
	}
	if len(content) > 0 {
		return content[0], true
	}
	return openapi.MediaType{}, false
}

// isJSON matches application/json and structured +json suffixes
func isJSON(contentType string) bool {
	ct := mediaType(contentType)
	return ct == "application/json" || strings.HasSuffix(ct, "+json")
}

// mediaType strips parameters and lower-cases a content type
func mediaType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// buildRequest groups parameters and body into a request shape. Cookie
// parameters take no part in either mode.
func (s *synthesizer) buildRequest(params []ir.Parameter, body *requestBody) ir.RequestShape {
	var active []ir.Parameter
	for _, p := range params {
		if p.In != openapi.InCookie {
			active = append(active, p)
		}
	}

	if s.needsFullRequest(active, body) {
		return fullRequest(active, body)
	}

	shape := ir.RequestShape{Mode: ir.RequestFlat}
	if body != nil {
		shape.BodyContentType = body.ContentType
		shape.BodyRequired = body.Required
	}
	var flat ir.Type
	switch {
	case len(active) == 0 && body == nil:
		flat = ir.NewObject()
	case body == nil:
		flat = paramObject(active)
	case len(active) == 0:
		flat = body.Type
	default:
		flat = mergeParamsAndBody(active, body.Type)
	}
	shape.Flat = &flat
	return shape
}

// needsFullRequest reports whether a flat shape would be ambiguous: the same
// name in two locations, or a non-object body next to parameters.
func (s *synthesizer) needsFullRequest(params []ir.Parameter, body *requestBody) bool {
	if s.opts.FullRequest {
		return true
	}
	locations := map[string]string{}
	for _, p := range params {
		if in, ok := locations[p.Name]; ok && in != p.In {
			return true
		}
		locations[p.Name] = p.In
	}
	return body != nil && len(params) > 0 && !body.Object
}

func paramObject(params []ir.Parameter) ir.Type {
	fields := newFieldSet()
	for _, p := range params {
		fields.add(ir.Field{Name: p.Name, Type: p.Type, Required: p.Required})
	}
	return fields.object()
}

// mergeParamsAndBody flattens parameters and body fields into one object.
// Parameters come first and win on name clashes. A nullable body merges its
// non-null part. Intersection bodies stay intersections with the parameter
// object as first member, and bodies without fields (free-form objects) are
// intersected with it.
func mergeParamsAndBody(params []ir.Parameter, body ir.Type) ir.Type {
	fields := newFieldSet()
	for _, p := range params {
		fields.add(ir.Field{Name: p.Name, Type: p.Type, Required: p.Required})
	}
	body = withoutNull(body)
	switch body.Kind {
	case ir.KindObject:
		fields.addAll(body.Fields)
		return fields.object()
	case ir.KindIntersection:
		members := append([]ir.Type{fields.object()}, body.Members...)
		return ir.NewIntersection(members...)
	}
	return ir.NewIntersection(fields.object(), body)
}

// withoutNull drops null members from a union, unwrapping a single survivor
func withoutNull(t ir.Type) ir.Type {
	if t.Kind != ir.KindUnion {
		return t
	}
	members := make([]ir.Type, 0, len(t.Members))
	for _, m := range t.Members {
		if !m.IsNull() {
			members = append(members, m)
		}
	}
	if len(members) == 1 {
		return members[0]
	}
	return ir.NewUnion(members...)
}

func fullRequest(params []ir.Parameter, body *requestBody) ir.RequestShape {
	shape := ir.RequestShape{Mode: ir.RequestFull}
	groups := map[string]*fieldSet{
		openapi.InPath:   newFieldSet(),
		openapi.InQuery:  newFieldSet(),
		openapi.InHeader: newFieldSet(),
	}
	for _, p := range params {
		if g, ok := groups[p.In]; ok {
			g.add(ir.Field{Name: p.Name, Type: p.Type, Required: p.Required})
		}
	}
	shape.Path = groupType(groups[openapi.InPath])
	shape.Query = groupType(groups[openapi.InQuery])
	shape.Headers = groupType(groups[openapi.InHeader])
	if body != nil {
		t := body.Type
		shape.Body = &t
		shape.BodyContentType = body.ContentType
		shape.BodyRequired = body.Required
	}
	return shape
}

func groupType(g *fieldSet) *ir.Type {
	if g.len() == 0 {
		return nil
	}
	t := g.object()
	return &t
}
