package schemagen

import (
	"encoding/json"
	"io"

	"github.com/reizio/reiz/grammar"
)

// FieldDB is the JSON-serializable description of a loaded grammar
// that the structural-query compiler and the ingester both load at
// startup: for every declared type, its dense id, its table name, and
// each field's backend column/link name and cardinality.
//
// It mirrors the shape of the teacher's Schema/Field/Edge load model —
// a flat, JSON-tagged projection of the in-memory model meant to be
// loaded by a process that never sees the ASDL source.
type FieldDB struct {
	Types []TypeEntry `json:"types"`
}

// TypeEntry is one grammar type's entry in the field database.
type TypeEntry struct {
	Name     string       `json:"name"`
	TypeID   int          `json:"type_id"`
	Table    string       `json:"table"`
	IsSum    bool         `json:"is_sum,omitempty"`
	IsEnum   bool         `json:"is_enum,omitempty"`
	Fields   []FieldEntry `json:"fields,omitempty"`
	Variants []string     `json:"variants,omitempty"`
}

// FieldEntry is one field's entry: the grammar name, the rewritten
// column/link name, whether it stores another grammar type (a link)
// or a primitive (a property), and its cardinality.
type FieldEntry struct {
	Name      string `json:"name"`
	Column    string `json:"column"`
	Kind      string `json:"kind"`
	IsLink    bool   `json:"is_link"`
	Qualifier string `json:"qualifier"`
}

// Generate projects a loaded grammar.Model into a FieldDB, applying
// grammar.Rename/TableName/ColumnName to every identifier so reserved
// backend keywords never reach the database.
func Generate(m *grammar.Model) *FieldDB {
	db := &FieldDB{Types: make([]TypeEntry, 0, len(m.Types))}
	for _, t := range m.Types {
		entry := TypeEntry{
			Name:   t.Name,
			TypeID: t.TypeID,
			Table:  grammar.TableName(t.Name),
			IsSum:  t.IsSum,
			IsEnum: t.IsEnum,
		}
		if t.IsSum {
			for _, c := range t.Constructors {
				entry.Variants = append(entry.Variants, c.Name)
			}
			if !t.IsEnum {
				// A polymorphic (non-enum) sum has no fields of its
				// own; each constructor's fields are generated as a
				// separate TypeEntry keyed by the constructor name,
				// the same way a product type is.
				for _, c := range t.Constructors {
					entry := TypeEntry{
						Name:   c.Name,
						TypeID: t.TypeID,
						Table:  grammar.TableName(c.Name),
						Fields: append(fieldEntries(c.Fields), fieldEntries(t.Attributes)...),
					}
					db.Types = append(db.Types, entry)
				}
				continue
			}
		} else {
			entry.Fields = fieldEntries(t.Fields)
		}
		entry.Fields = append(entry.Fields, fieldEntries(t.Attributes)...)
		db.Types = append(db.Types, entry)
	}
	return db
}

func fieldEntries(fields []grammar.Field) []FieldEntry {
	out := make([]FieldEntry, len(fields))
	for i, f := range fields {
		out[i] = FieldEntry{
			Name:      f.Name,
			Column:    grammar.ColumnName(f.Name),
			Kind:      f.Kind.String(),
			IsLink:    f.Kind.IsGrammarType(),
			Qualifier: f.Qualifier.String(),
		}
	}
	return out
}

// WriteJSON serializes the field database as indented JSON.
func (db *FieldDB) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(db)
}

// Lookup returns the entry for a declared type or constructor name.
func (db *FieldDB) Lookup(name string) (TypeEntry, bool) {
	for _, t := range db.Types {
		if t.Name == name {
			return t, true
		}
	}
	return TypeEntry{}, false
}
