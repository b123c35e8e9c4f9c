package schemagen

import (
	"fmt"
	"strings"
)

// postgresColumnType maps a FieldEntry's grammar-level kind to a
// PostgreSQL column type. Links are stored as a uuid foreign key
// (nullable for optional, an array for sequence) instead of a native
// type, since every grammar type is itself a table.
func postgresColumnType(f FieldEntry) string {
	if f.IsLink {
		if f.Qualifier == "sequence" {
			return "uuid[]"
		}
		return "uuid"
	}
	switch f.Kind {
	case "int":
		return "integer"
	case "string", "identifier":
		return "text"
	case "constant":
		return "jsonb"
	default:
		return "text"
	}
}

// GeneratePostgresDDL renders the CREATE TABLE statements for every
// type in the field database: a surrogate uuid primary key, the
// structural-tag and module back-link columns every node carries, one
// column per declared field, a `_parent uuid` back-edge column
// (declared without a foreign-key constraint) and a `_parent_types`
// text array.
func GeneratePostgresDDL(db *FieldDB) string {
	var sb strings.Builder
	for _, t := range db.Types {
		if t.IsSum && !t.IsEnum {
			continue // polymorphic sums have no table; their constructors do.
		}
		fmt.Fprintf(&sb, "CREATE TABLE %s (\n", t.Table)
		sb.WriteString("    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),\n")
		if t.IsEnum {
			sb.WriteString("    variant text NOT NULL\n")
			sb.WriteString(");\n\n")
			fmt.Fprintf(&sb, "ALTER TABLE %s ADD CONSTRAINT %s_variant_check CHECK (variant IN (%s));\n\n",
				t.Table, t.Table, quotedList(t.Variants))
			continue
		}
		sb.WriteString("    _tag bigint NOT NULL,\n")
		sb.WriteString("    _module uuid,\n")
		sb.WriteString("    _parent uuid,\n")
		sb.WriteString("    _parent_types text[] NOT NULL DEFAULT '{}',\n")
		for _, f := range t.Fields {
			fmt.Fprintf(&sb, "    %s %s", f.Column, postgresColumnType(f))
			if f.Qualifier == "required" {
				sb.WriteString(" NOT NULL")
			}
			sb.WriteString(",\n")
		}
		// trim trailing comma+newline from the last field line.
		out := sb.String()
		sb.Reset()
		sb.WriteString(strings.TrimSuffix(out, ",\n") + "\n")
		sb.WriteString(");\n\n")
		fmt.Fprintf(&sb, "CREATE INDEX %s_tag_idx ON %s (_tag);\n\n", t.Table, t.Table)
	}
	return sb.String()
}

func quotedList(vals []string) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = "'" + v + "'"
	}
	return strings.Join(parts, ", ")
}
