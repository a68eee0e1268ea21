package generator

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/blimu-dev/sdk-typegen/pkg/config"
	"github.com/blimu-dev/sdk-typegen/pkg/ir"
	"github.com/blimu-dev/sdk-typegen/pkg/openapi"
)

// defaultTag groups operations declared without tags
const defaultTag = "misc"

// plannedOperation is one path+method entry with its id already assigned
type plannedOperation struct {
	id        string
	method    string
	item      *openapi.PathItem
	operation *openapi.Operation
}

// planOperations flattens the document into operations in traversal order
// and assigns unique ids. Id assignment is sequential so the suffixes do not
// depend on scheduling.
func planOperations(doc *openapi.Document) []plannedOperation {
	ids := newOperationIDs()
	var plan []plannedOperation
	for _, item := range doc.Paths {
		if item == nil {
			continue
		}
		for _, entry := range item.Operations {
			if entry.Operation == nil {
				continue
			}
			plan = append(plan, plannedOperation{
				id:        ids.assign(entry.Operation.OperationID, entry.Method, item.Path),
				method:    entry.Method,
				item:      item,
				operation: entry.Operation,
			})
		}
	}
	return plan
}

// Synthesize derives the operation records and named types of a document.
// Operations are shaped concurrently but the result only depends on the
// document and the options. The first failing operation in document order
// determines the returned error.
func Synthesize(ctx context.Context, doc *openapi.Document, opts config.Options) (ir.Document, error) {
	plan := planOperations(doc)
	ops := make([]ir.Operation, len(plan))
	errs := make([]error, len(plan))

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, p := range plan {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			op, err := buildOperation(doc, opts, p)
			if err != nil {
				errs[i] = operationError(p.method, p.item.Path, err)
				return nil
			}
			ops[i] = op
			slog.Debug("synthesized operation", "operationId", op.OperationID, "method", op.Method, "path", op.Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ir.Document{}, err
	}
	for _, err := range errs {
		if err != nil {
			return ir.Document{}, err
		}
	}

	types, err := namedTypes(doc, opts, ops)
	if err != nil {
		return ir.Document{}, err
	}
	return ir.Document{Operations: ops, Types: types}, nil
}

func buildOperation(doc *openapi.Document, opts config.Options, p plannedOperation) (ir.Operation, error) {
	s := newSynthesizer(doc, opts)
	op := p.operation

	merged, err := s.res.mergeParameters(p.item.Parameters, op.Parameters)
	if err != nil {
		return ir.Operation{}, err
	}
	params, err := s.parameters(merged)
	if err != nil {
		return ir.Operation{}, err
	}
	body, err := s.body(op.RequestBody)
	if err != nil {
		return ir.Operation{}, err
	}
	response, err := s.buildResponse(op.Responses)
	if err != nil {
		return ir.Operation{}, err
	}

	return ir.Operation{
		OperationID: p.id,
		Method:      p.method,
		Path:        p.item.Path,
		Tags:        op.Tags,
		Summary:     op.Summary,
		Description: op.Description,
		Deprecated:  op.Deprecated,
		Parameters:  params,
		Request:     s.buildRequest(params, body),
		Response:    response,
	}, nil
}

type paramKey struct {
	name string
	in   string
}

// mergeParameters resolves path-level and operation-level parameters. An
// operation parameter replaces the path parameter with the same name and
// location; otherwise the first declaration of a key wins.
func (r *resolver) mergeParameters(shared, own []*openapi.Parameter) ([]*openapi.Parameter, error) {
	resolvedOwn := make([]*openapi.Parameter, 0, len(own))
	overridden := map[paramKey]struct{}{}
	for _, p := range own {
		rp, err := r.parameter(p)
		if err != nil {
			return nil, err
		}
		if rp == nil {
			continue
		}
		resolvedOwn = append(resolvedOwn, rp)
		overridden[paramKey{rp.Name, rp.In}] = struct{}{}
	}

	seen := map[paramKey]struct{}{}
	var out []*openapi.Parameter
	keep := func(p *openapi.Parameter) {
		key := paramKey{p.Name, p.In}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	for _, p := range shared {
		rp, err := r.parameter(p)
		if err != nil {
			return nil, err
		}
		if rp == nil {
			continue
		}
		if _, ok := overridden[paramKey{rp.Name, rp.In}]; ok {
			continue
		}
		keep(rp)
	}
	for _, p := range resolvedOwn {
		keep(p)
	}
	return out, nil
}

// parameters synthesizes resolved parameters in the request direction. A
// parameter described through content uses its first media type's schema.
func (s *synthesizer) parameters(params []*openapi.Parameter) ([]ir.Parameter, error) {
	out := make([]ir.Parameter, 0, len(params))
	for _, p := range params {
		schema := p.Schema
		if schema == nil && len(p.Content) > 0 {
			schema = p.Content[0].Schema
		}
		t, err := s.synthesize(schema, DirectionRequest)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
		}
		out = append(out, ir.Parameter{
			Name:     p.Name,
			In:       p.In,
			Required: p.Required && !s.opts.IsOptionalHeader(p.Name),
			Type:     t,
		})
	}
	return out, nil
}

// referencedNames lists the component names reachable from the operations,
// in first-seen order
func referencedNames(ops []ir.Operation) []string {
	seen := map[string]struct{}{}
	var names []string
	visit := func(t ir.Type) {
		ir.Walk(t, func(n ir.Type) {
			if n.Ref == "" {
				return
			}
			if _, ok := seen[n.Ref]; ok {
				return
			}
			seen[n.Ref] = struct{}{}
			names = append(names, n.Ref)
		})
	}
	visitPtr := func(t *ir.Type) {
		if t != nil {
			visit(*t)
		}
	}
	for _, op := range ops {
		for _, p := range op.Parameters {
			visit(p.Type)
		}
		req := op.Request
		visitPtr(req.Flat)
		visitPtr(req.Path)
		visitPtr(req.Query)
		visitPtr(req.Headers)
		visitPtr(req.Body)
		for _, m := range op.Response.Members {
			visit(m.Type)
			visitPtr(m.Headers)
		}
	}
	return names
}

// namedTypes synthesizes every referenced component schema once, in the
// response direction
func namedTypes(doc *openapi.Document, opts config.Options, ops []ir.Operation) ([]ir.NamedType, error) {
	names := referencedNames(ops)
	if len(names) == 0 {
		return nil, nil
	}
	s := newSynthesizer(doc, opts)
	out := make([]ir.NamedType, 0, len(names))
	for _, name := range names {
		t, err := s.reference(componentSchemaPrefix+escapeToken(name), DirectionResponse)
		if err != nil {
			return nil, fmt.Errorf("component %q: %w", name, err)
		}
		out = append(out, ir.NamedType{Name: name, Type: t})
	}
	return out, nil
}

// compileTagFilters compiles regex patterns for tag filtering
func compileTagFilters(include, exclude []string) ([]*regexp.Regexp, []*regexp.Regexp, error) {
	inc := make([]*regexp.Regexp, 0, len(include))
	for _, p := range include {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid includeTags pattern %q: %w", p, err)
		}
		inc = append(inc, r)
	}
	exc := make([]*regexp.Regexp, 0, len(exclude))
	for _, p := range exclude {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid excludeTags pattern %q: %w", p, err)
		}
		exc = append(exc, r)
	}
	return inc, exc, nil
}

// shouldIncludeOperation reports whether any tag matches an include pattern
// (or there are none) and no tag matches an exclude pattern
func shouldIncludeOperation(tags []string, include, exclude []*regexp.Regexp) bool {
	if len(tags) == 0 {
		tags = []string{defaultTag}
	}
	included := len(include) == 0
	for _, tag := range tags {
		if included {
			break
		}
		for _, r := range include {
			if r.MatchString(tag) {
				included = true
				break
			}
		}
	}
	if !included {
		return false
	}
	for _, tag := range tags {
		for _, r := range exclude {
			if r.MatchString(tag) {
				return false
			}
		}
	}
	return true
}

// FilterByTags keeps the operations selected by the include and exclude
// patterns and drops named types no kept operation references
func FilterByTags(doc ir.Document, include, exclude []string) (ir.Document, error) {
	inc, exc, err := compileTagFilters(include, exclude)
	if err != nil {
		return ir.Document{}, err
	}
	if len(inc) == 0 && len(exc) == 0 {
		return doc, nil
	}
	ops := make([]ir.Operation, 0, len(doc.Operations))
	for _, op := range doc.Operations {
		if shouldIncludeOperation(op.Tags, inc, exc) {
			ops = append(ops, op)
		}
	}
	return ir.Document{Operations: ops, Types: filterUnusedTypes(ops, doc.Types)}, nil
}

// filterUnusedTypes keeps the named types referenced by ops, in their
// original order
func filterUnusedTypes(ops []ir.Operation, all []ir.NamedType) []ir.NamedType {
	used := map[string]struct{}{}
	for _, name := range referencedNames(ops) {
		used[name] = struct{}{}
	}
	var out []ir.NamedType
	for _, nt := range all {
		if _, ok := used[nt.Name]; ok {
			out = append(out, nt)
		}
	}
	return out
}
