package typescript

import (
	"strconv"
	"strings"

	"github.com/blimu-dev/sdk-typegen/pkg/ir"
	"github.com/blimu-dev/sdk-typegen/pkg/utils"
)

// schemaNamespace holds the named component types in the rendered file
const schemaNamespace = "Schema"

// printer renders IR types as TypeScript type expressions. Nodes annotated
// with a declared component name print as a reference to that declaration
// unless inline is set.
type printer struct {
	// named maps each component name to its declared identifier
	named  map[string]string
	inline bool
}

// newPrinter assigns declaration identifiers in type order. Component names
// that normalise to the same identifier get the smallest free numeric suffix.
func newPrinter(types []ir.NamedType) *printer {
	named := make(map[string]string, len(types))
	used := make(map[string]struct{}, len(types))
	for _, nt := range types {
		if _, ok := named[nt.Name]; ok {
			continue
		}
		id := typeName(nt.Name)
		if _, taken := used[id]; taken {
			for n := 1; ; n++ {
				candidate := id + strconv.Itoa(n)
				if _, taken := used[candidate]; !taken {
					id = candidate
					break
				}
			}
		}
		used[id] = struct{}{}
		named[nt.Name] = id
	}
	return &printer{named: named}
}

// declName is the identifier declared for a component name
func (p *printer) declName(name string) string {
	if id, ok := p.named[name]; ok {
		return id
	}
	return typeName(name)
}

// inlined returns a printer that expands every node in place
func (p *printer) inlined() *printer {
	return &printer{named: p.named, inline: true}
}

// typeName is the declared identifier of a component schema
func typeName(name string) string {
	words := utils.SplitWords(name)
	for i, w := range words {
		words[i] = utils.Capitalize(w)
	}
	id := strings.Join(words, "")
	if id == "" || !utils.IsIdentifier(id) {
		id = "T" + id
	}
	return id
}

// decl renders the body of a named type declaration
func (p *printer) decl(t ir.Type) string {
	t.Ref = ""
	return p.tsType(t)
}

// isReference reports whether t prints as a reference to a declaration
func (p *printer) isReference(t ir.Type) bool {
	if t.Ref == "" || p.inline {
		return false
	}
	_, ok := p.named[t.Ref]
	return ok
}

func (p *printer) tsType(t ir.Type) string {
	if p.isReference(t) {
		return schemaNamespace + "." + p.declName(t.Ref)
	}
	switch t.Kind {
	case ir.KindPrimitive:
		return primitiveType(t.Primitive)
	case ir.KindLiteral:
		return t.LiteralText()
	case ir.KindArray:
		if t.Elem == nil {
			return "Array<unknown>"
		}
		return "Array<" + p.tsType(*t.Elem) + ">"
	case ir.KindObject:
		return p.object(t.Fields)
	case ir.KindUnion:
		if len(t.Members) == 0 {
			return "never"
		}
		return p.join(t.Members, " | ", ir.KindIntersection)
	case ir.KindIntersection:
		if len(t.Members) == 0 {
			return "unknown"
		}
		return p.join(t.Members, " & ", ir.KindUnion)
	}
	return "unknown"
}

// join renders members separated by sep, parenthesizing members of the
// other composite kind
func (p *printer) join(members []ir.Type, sep string, wrap ir.Kind) string {
	parts := make([]string, 0, len(members))
	for _, m := range members {
		s := p.tsType(m)
		if m.Kind == wrap && len(m.Members) > 1 && !p.isReference(m) {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, sep)
}

func (p *printer) object(fields []ir.Field) string {
	if len(fields) == 0 {
		return "Record<string, never>"
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		opt := "?"
		if f.Required {
			opt = ""
		}
		parts = append(parts, quoteTSPropertyName(f.Name)+opt+": "+p.tsType(f.Type))
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

func primitiveType(prim ir.Primitive) string {
	switch prim {
	case ir.String:
		return "string"
	case ir.Number:
		return "number"
	case ir.Boolean:
		return "boolean"
	case ir.Date:
		return "Date"
	case ir.Blob:
		return "Blob"
	}
	return "unknown"
}

// requestType renders the input of an operation. Request types are always
// inlined: date widening makes them differ from the named declarations.
func (p *printer) requestType(op ir.Operation) string {
	in := p.inlined()
	req := op.Request
	if req.Mode == ir.RequestFlat {
		if req.Flat == nil {
			return "Record<string, never>"
		}
		return in.tsType(*req.Flat)
	}

	var parts []string
	group := func(name string, t *ir.Type, required bool) {
		if t == nil {
			return
		}
		opt := "?"
		if required {
			opt = ""
		}
		parts = append(parts, name+opt+": "+in.tsType(*t))
	}
	group("body", req.Body, req.BodyRequired)
	group("path", req.Path, anyRequired(req.Path))
	group("query", req.Query, anyRequired(req.Query))
	group("headers", req.Headers, anyRequired(req.Headers))
	if len(parts) == 0 {
		return "Record<string, never>"
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

func anyRequired(t *ir.Type) bool {
	if t == nil {
		return false
	}
	for _, f := range t.Fields {
		if f.Required {
			return true
		}
	}
	return false
}

// responseType renders the resolved value of an operation. Wrapped responses
// become a union of FullResponse members, one per declared status.
func (p *printer) responseType(op ir.Operation) string {
	resp := op.Response
	if resp.Wrapped {
		parts := make([]string, 0, len(resp.Members))
		for _, m := range resp.Members {
			parts = append(parts, "FullResponse<"+p.tsType(m.Type)+", "+statusType(m.Status)+">")
		}
		return strings.Join(parts, " | ")
	}
	members := resp.Success()
	if len(members) == 0 {
		members = resp.Members
	}
	types := make([]ir.Type, 0, len(members))
	for _, m := range members {
		types = append(types, m.Type)
	}
	if len(types) == 1 {
		return p.tsType(types[0])
	}
	return p.tsType(ir.NewUnion(types...))
}

func statusType(s ir.StatusCode) string {
	if s.Code > 0 {
		return strconv.Itoa(s.Code)
	}
	return "number"
}

// quoteTSPropertyName quotes property names that are not valid identifiers
func quoteTSPropertyName(name string) string {
	if utils.IsIdentifier(name) {
		return name
	}
	return ir.QuoteString(name)
}
