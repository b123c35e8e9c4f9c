package schemagen

import "ariga.io/atlas/sql/schema"

// AtlasSchema builds an *schema.Schema describing every table the
// field database needs, for the external "reset database" admin
// command (ported from the original implementation's db/reset.py,
// which drops and recreates the whole schema rather than migrating
// it in place — ingestion is idempotent and cheap enough that a full
// reset is the normal recovery path, not a last resort).
func AtlasSchema(db *FieldDB) *schema.Schema {
	s := schema.New("public")
	for _, t := range db.Types {
		if t.IsSum && !t.IsEnum {
			continue
		}
		table := schema.NewTable(t.Table).SetSchema(s)
		table.AddColumns(schema.NewColumn("id").
			SetType(&schema.StringType{T: "uuid"}).
			SetNull(false))

		if t.IsEnum {
			table.AddColumns(schema.NewColumn("variant").
				SetType(&schema.StringType{T: "text"}).
				SetNull(false))
			s.AddTables(table)
			continue
		}

		table.AddColumns(
			schema.NewIntColumn("_tag", "bigint").SetNull(false),
			schema.NewColumn("_module").SetType(&schema.StringType{T: "uuid"}).SetNull(true),
			schema.NewColumn("_parent").SetType(&schema.StringType{T: "uuid"}).SetNull(true),
		)
		for _, f := range t.Fields {
			table.AddColumns(atlasColumn(f))
		}
		s.AddTables(table)
	}
	return s
}

func atlasColumn(f FieldEntry) *schema.Column {
	col := schema.NewColumn(f.Column)
	col.SetNull(f.Qualifier != "required")
	switch {
	case f.IsLink && f.Qualifier == "sequence":
		col.SetType(&schema.ArrayType{Type: &schema.StringType{T: "uuid"}})
	case f.IsLink:
		col.SetType(&schema.StringType{T: "uuid"})
	case f.Kind == "int":
		col.SetType(&schema.IntegerType{T: "integer"})
	case f.Kind == "constant":
		col.SetType(&schema.JSONType{T: "jsonb"})
	default:
		col.SetType(&schema.StringType{T: "text"})
	}
	return col
}
