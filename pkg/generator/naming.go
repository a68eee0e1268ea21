package generator

import (
	"strconv"
	"strings"

	"github.com/blimu-dev/sdk-typegen/pkg/ir"
	"github.com/blimu-dev/sdk-typegen/pkg/utils"
)

const componentSchemaPrefix = "#/components/schemas/"

// refName returns the final path segment of a $ref pointer, unescaped
func refName(ref string) string {
	i := strings.LastIndex(ref, "/")
	name := ref[i+1:]
	name = strings.ReplaceAll(name, "~1", "/")
	return strings.ReplaceAll(name, "~0", "~")
}

// escapeToken encodes a name as a single JSON pointer token
func escapeToken(name string) string {
	name = strings.ReplaceAll(name, "~", "~0")
	return strings.ReplaceAll(name, "/", "~1")
}

// componentName returns the schema name for refs that point at a whole
// entry of components.schemas. Pointers into a component are not components.
func componentName(ref string) (string, bool) {
	token, ok := strings.CutPrefix(ref, componentSchemaPrefix)
	if !ok || token == "" || strings.Contains(token, "/") {
		return "", false
	}
	return refName(ref), true
}

// operationIDFromPath derives an id from the method and path segments:
// GET /pets/{petId} becomes getPetsPetId.
func operationIDFromPath(method, path string) string {
	return utils.ToCamelCase(method + "/" + path)
}

// operationIDs hands out unique operation ids in traversal order
type operationIDs struct {
	used map[string]struct{}
}

func newOperationIDs() *operationIDs {
	return &operationIDs{used: map[string]struct{}{}}
}

// assign keeps a declared id when it is a valid identifier and derives one
// from the path otherwise. A taken id gets the smallest free numeric suffix.
func (o *operationIDs) assign(declared, method, path string) string {
	id := declared
	if !utils.IsIdentifier(id) {
		id = operationIDFromPath(method, path)
	}
	if _, taken := o.used[id]; !taken {
		o.used[id] = struct{}{}
		return id
	}
	for n := 1; ; n++ {
		candidate := id + strconv.Itoa(n)
		if _, taken := o.used[candidate]; !taken {
			o.used[candidate] = struct{}{}
			return candidate
		}
	}
}

// fieldSet accumulates the fields of one object shape. A name is added at
// most once; the first occurrence wins.
type fieldSet struct {
	fields []ir.Field
	seen   map[string]struct{}
}

func newFieldSet() *fieldSet {
	return &fieldSet{seen: map[string]struct{}{}}
}

// add appends the field unless its name is already present
func (s *fieldSet) add(f ir.Field) bool {
	if _, ok := s.seen[f.Name]; ok {
		return false
	}
	s.seen[f.Name] = struct{}{}
	s.fields = append(s.fields, f)
	return true
}

func (s *fieldSet) addAll(fields []ir.Field) {
	for _, f := range fields {
		s.add(f)
	}
}

func (s *fieldSet) len() int { return len(s.fields) }

func (s *fieldSet) object() ir.Type {
	return ir.NewObject(s.fields...)
}
