package generator

import (
	"fmt"
	"slices"
	"sort"

	"github.com/blimu-dev/sdk-typegen/pkg/ir"
	"github.com/blimu-dev/sdk-typegen/pkg/openapi"
)

// resolver looks up local $ref pointers and tracks the chain of schema
// references currently being synthesized. One resolver serves one operation.
type resolver struct {
	doc   *openapi.Document
	stack []string
}

func newResolver(doc *openapi.Document) *resolver {
	return &resolver{doc: doc}
}

func (r *resolver) lookup(ref string) (any, error) {
	v, err := r.doc.Lookup(ref)
	if err != nil {
		return nil, &ResolutionError{Pointer: ref, Cause: err}
	}
	return v, nil
}

// enter resolves a schema reference and pushes it onto the in-flight chain.
// Callers must pair a successful enter with leave.
func (r *resolver) enter(ref string) (*openapi.Schema, error) {
	if slices.Contains(r.stack, ref) {
		return nil, &CycleDetectedError{Pointer: ref, Chain: slices.Clone(r.stack)}
	}
	v, err := r.lookup(ref)
	if err != nil {
		return nil, err
	}
	target, ok := v.(*openapi.Schema)
	if !ok || target == nil {
		return nil, &ResolutionError{Pointer: ref, Cause: fmt.Errorf("resolves to %T, not a schema", v)}
	}
	r.stack = append(r.stack, ref)
	return target, nil
}

func (r *resolver) leave() {
	r.stack = r.stack[:len(r.stack)-1]
}

// current returns the innermost reference being resolved
func (r *resolver) current() string {
	if len(r.stack) == 0 {
		return ""
	}
	return r.stack[len(r.stack)-1]
}

// follow chases a chain of non-schema references (parameters, bodies,
// responses, headers) until it reaches an inline object.
func follow[T any](r *resolver, start T, refOf func(T) string) (T, error) {
	var zero T
	cur := start
	var chain []string
	for ref := refOf(cur); ref != ""; ref = refOf(cur) {
		if slices.Contains(chain, ref) {
			return zero, &CycleDetectedError{Pointer: ref, Chain: chain}
		}
		chain = append(chain, ref)
		v, err := r.lookup(ref)
		if err != nil {
			return zero, err
		}
		next, ok := v.(T)
		if !ok {
			return zero, &ResolutionError{Pointer: ref, Cause: fmt.Errorf("resolves to %T, expected %T", v, zero)}
		}
		cur = next
	}
	return cur, nil
}

// isObjectSchema reports whether a schema, after following its $ref chain,
// declares an object: type object, properties, additionalProperties or allOf.
func (r *resolver) isObjectSchema(node *openapi.Schema) (bool, error) {
	target, err := follow(r, node, func(s *openapi.Schema) string {
		if s == nil {
			return ""
		}
		return s.Ref
	})
	if err != nil || target == nil {
		return false, err
	}
	switch {
	case target.Type == "object", len(target.AllOf) > 0:
		return true, nil
	case target.Type == "":
		return len(target.Properties) > 0 || target.AdditionalProperties != nil, nil
	}
	return false, nil
}

func (r *resolver) parameter(p *openapi.Parameter) (*openapi.Parameter, error) {
	return follow(r, p, func(p *openapi.Parameter) string {
		if p == nil {
			return ""
		}
		return p.Ref
	})
}

func (r *resolver) requestBody(rb *openapi.RequestBody) (*openapi.RequestBody, error) {
	return follow(r, rb, func(rb *openapi.RequestBody) string {
		if rb == nil {
			return ""
		}
		return rb.Ref
	})
}

func (r *resolver) response(resp *openapi.Response) (*openapi.Response, error) {
	return follow(r, resp, func(resp *openapi.Response) string {
		if resp == nil {
			return ""
		}
		return resp.Ref
	})
}

func (r *resolver) header(h *openapi.Header) (*openapi.Header, error) {
	return follow(r, h, func(h *openapi.Header) string {
		if h == nil {
			return ""
		}
		return h.Ref
	})
}

// discriminatorValue returns the discriminant for a oneOf member: the mapping
// key pointing at the member's $ref when one exists, else the ref's last segment.
func discriminatorValue(d *openapi.Discriminator, ref string) string {
	if d != nil && len(d.Mapping) > 0 {
		keys := make([]string, 0, len(d.Mapping))
		for k := range d.Mapping {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		name := refName(ref)
		for _, k := range keys {
			if target := d.Mapping[k]; target == ref || target == name {
				return k
			}
		}
	}
	return refName(ref)
}

// rewriteDiscriminant replaces the type of property prop with a string
// literal when it is a plain string primitive. Intersections are rewritten
// member by member; other shapes are returned unchanged. A rewritten node no
// longer matches its component, so it loses its Ref annotation.
func rewriteDiscriminant(t ir.Type, prop, value string) (ir.Type, bool) {
	changed := false
	switch t.Kind {
	case ir.KindObject:
		fields := make([]ir.Field, len(t.Fields))
		copy(fields, t.Fields)
		for i, f := range fields {
			if f.Name == prop && f.Type.IsPrimitive(ir.String) {
				fields[i].Type = ir.NewLiteral(value)
				changed = true
			}
		}
		t.Fields = fields
	case ir.KindIntersection:
		members := make([]ir.Type, len(t.Members))
		for i, m := range t.Members {
			var ok bool
			members[i], ok = rewriteDiscriminant(m, prop, value)
			changed = changed || ok
		}
		t.Members = members
	}
	if changed {
		t.Ref = ""
	}
	return t, changed
}
