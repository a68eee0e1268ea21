package generator

import (
	"log/slog"
	"strings"

	"github.com/blimu-dev/sdk-typegen/pkg/ir"
	"github.com/blimu-dev/sdk-typegen/pkg/openapi"
)

// blobMediaTypes are non-JSON payloads delivered as binary data
var blobMediaTypes = map[string]struct{}{
	"application/octet-stream": {},
	"application/pdf":          {},
}

// blobMediaPrefixes classify whole families of binary media types
var blobMediaPrefixes = []string{"image/", "audio/", "video/"}

// classifyContent decides how a non-JSON payload is delivered. The second
// result reports whether the classification is a fallback for an
// unrecognized media type.
func classifyContent(contentType string, schema *openapi.Schema) (ir.ContentKind, bool) {
	if schema != nil && schema.Type == "string" && schema.Format == "binary" {
		return ir.ContentBlob, false
	}
	ct := mediaType(contentType)
	if _, ok := blobMediaTypes[ct]; ok {
		return ir.ContentBlob, false
	}
	for _, prefix := range blobMediaPrefixes {
		if strings.HasPrefix(ct, prefix) {
			return ir.ContentBlob, false
		}
	}
	if strings.HasPrefix(ct, "text/") {
		return ir.ContentText, false
	}
	return ir.ContentText, true
}

// buildResponse synthesizes every declared status code in document order
func (s *synthesizer) buildResponse(entries []openapi.StatusEntry) (ir.ResponseUnion, error) {
	union := ir.ResponseUnion{Wrapped: s.opts.FullResponse}
	for _, entry := range entries {
		status, ok := ir.ParseStatusCode(entry.Status)
		if !ok {
			slog.Debug("skipping unrecognized response key", "status", entry.Status)
			continue
		}
		resp, err := s.res.response(entry.Response)
		if err != nil {
			return ir.ResponseUnion{}, err
		}
		member, forceWrap, err := s.responseMember(status, resp)
		if err != nil {
			return ir.ResponseUnion{}, err
		}
		union.Members = append(union.Members, member)
		if forceWrap {
			union.Wrapped = true
		}
	}

	if len(union.Success()) > 1 {
		union.Wrapped = true
	}
	if len(union.Members) == 0 {
		union.Members = []ir.ResponseMember{{
			Status:  ir.StatusCode{Code: 200},
			Type:    ir.UnknownType(),
			Content: ir.ContentUnknown,
		}}
		union.Wrapped = true
	}
	return union, nil
}

// responseMember builds one member and reports whether it forces wrapping
func (s *synthesizer) responseMember(status ir.StatusCode, resp *openapi.Response) (ir.ResponseMember, bool, error) {
	member := ir.ResponseMember{Status: status}
	if resp != nil && len(resp.Headers) > 0 {
		headers, err := s.responseHeaders(resp.Headers)
		if err != nil {
			return member, false, err
		}
		member.Headers = headers
	}

	if status.Code == 204 {
		member.Type = ir.NoBody()
		member.Content = ir.ContentEmpty
		return member, false, nil
	}

	var content []openapi.MediaType
	if resp != nil {
		content = resp.Content
	}
	if len(content) == 0 {
		member.Type = ir.UnknownType()
		member.Content = ir.ContentUnknown
		return member, true, nil
	}

	media, _ := pickMedia(content)
	member.ContentType = media.ContentType
	if isJSON(media.ContentType) {
		t, err := s.synthesize(media.Schema, DirectionResponse)
		if err != nil {
			return member, false, err
		}
		member.Type = t
		member.Content = ir.ContentJSON
		member.IsArray = t.Kind == ir.KindArray
		return member, false, nil
	}

	kind, fallback := classifyContent(media.ContentType, media.Schema)
	member.Content = kind
	if kind == ir.ContentBlob {
		member.Type = ir.NewPrimitive(ir.Blob)
	} else {
		member.Type = ir.NewPrimitive(ir.String)
	}
	return member, fallback, nil
}

func (s *synthesizer) responseHeaders(headers []openapi.Header) (*ir.Type, error) {
	fields := newFieldSet()
	for i := range headers {
		h, err := s.res.header(&headers[i])
		if err != nil {
			return nil, err
		}
		t, err := s.synthesize(h.Schema, DirectionResponse)
		if err != nil {
			return nil, err
		}
		fields.add(ir.Field{Name: headers[i].Name, Type: t, Required: h.Required})
	}
	out := fields.object()
	return &out, nil
}
