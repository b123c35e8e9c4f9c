package schemagen

import (
	"fmt"

	"github.com/dave/jennifer/jen"
)

// GenerateConstants emits a Go source file declaring one untyped
// integer constant per grammar type (its dense TypeID) and one string
// constant per field's rewritten column name, so generated code can
// reference `schema.TypeIDBinaryExpr` or `schema.ColumnBinaryExprOp`
// instead of a map lookup against the field database at request time.
func GenerateConstants(pkg string, db *FieldDB) (*jen.File, error) {
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by reiz-schemagen. DO NOT EDIT.")

	typeIDs := jen.Const()
	for _, t := range db.Types {
		name := fmt.Sprintf("TypeID%s", t.Name)
		typeIDs.Id(name).Op("=").Lit(t.TypeID)
	}
	f.Add(typeIDs)

	seen := map[string]bool{}
	columns := jen.Const()
	for _, t := range db.Types {
		for _, field := range t.Fields {
			name := fmt.Sprintf("Column%s%s", t.Name, exportedField(field.Name))
			if seen[name] {
				continue
			}
			seen[name] = true
			columns.Id(name).Op("=").Lit(field.Column)
		}
	}
	f.Add(columns)

	return f, nil
}

func exportedField(name string) string {
	if name == "" {
		return name
	}
	b := []byte(name)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
