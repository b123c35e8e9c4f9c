package grammar

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

// reservedWords are backend (Postgres/EdgeDB-flavored SDL) keywords that
// would collide with a grammar-declared type or field name.
var reservedWords = map[string]bool{
	"select": true, "insert": true, "update": true, "delete": true,
	"filter": true, "limit": true, "offset": true, "order": true,
	"with": true, "for": true, "union": true, "module": true,
	"type": true, "property": true, "link": true, "index": true,
	"required": true, "optional": true, "multi": true, "single": true,
	"abstract": true, "extending": true, "constraint": true, "exclusive": true,
	"default": true, "table": true, "column": true, "is": true, "in": true,
	"not": true, "and": true, "or": true, "like": true, "ilike": true,
}

// Rename applies the schema-local reserved-identifier rewrite described
// by spec.md §4.B/§9: a clashing titlecase name is prefixed "Go" (the
// analogue of Reiz's Python-targeted "Py" prefix, since our target
// language is Go — see SPEC_FULL.md); a clashing lowercase name is
// prefixed "go_". The mapping lives here alone and is reused verbatim
// by schemagen, serialize, and reizql/compiler (spec.md §9: never
// scatter this knowledge).
func Rename(name string) string {
	if !reservedWords[strings.ToLower(name)] {
		return name
	}
	if isTitleCase(name) {
		return "Go" + name
	}
	return "go_" + inflect.Underscore(name)
}

func isTitleCase(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)
	return unicode.IsUpper(r[0])
}

// TableName derives a pluralized, snake_case table name for a grammar
// product, e.g. "FunctionDef" -> "function_defs".
func TableName(typeName string) string {
	return inflect.Pluralize(inflect.Underscore(typeName))
}

// ColumnName derives the backend column/link name for a field, applying
// Rename so reserved collisions never reach the generated schema.
func ColumnName(fieldName string) string {
	return Rename(fieldName)
}
