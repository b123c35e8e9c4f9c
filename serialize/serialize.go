package serialize

import (
	"go/ast"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/reizio/reiz/astxform"
	"github.com/reizio/reiz/grammar"
	"github.com/reizio/reiz/ir"
	"github.com/reizio/reiz/schemagen"
)

// Context carries the loaded grammar, its field database, and the
// file-level metadata a single Serialize call needs.
type Context struct {
	Model    *grammar.Model
	FieldDB  *schemagen.FieldDB
	Filename string
	// ProjectName names the row in the externally-managed "projects"
	// table (see ingest.Driver.insertProject) this file belongs to.
	// Empty skips the link, e.g. for tests with no project of their
	// own. project_id isn't a declared grammar field — like filename,
	// it's folded into the module root's INSERT by hand.
	ProjectName string
}

// Pool is the reference pool gathered while serializing one file: for
// every module-annotated constructor's table, the ids inserted for it,
// so the driver can issue one post-insert `_module` UPDATE per table
// without re-walking the tree.
type Pool struct {
	IDs map[string][]string
}

// Result is everything Serialize produced for one file: the module
// row's id, the INSERT statements in dependency order (every child
// before its parent), and the `_module` back-edge UPDATEs to run once
// the INSERTs have all committed.
type Result struct {
	ModuleID      string
	Statements    []ir.Stmt
	ModuleUpdates []ir.Stmt
}

// Serialize walks arena bottom-up and produces the INSERT statements
// and module back-edge UPDATEs for one file, within a single logical
// transaction (the caller, ingest.Driver, owns the actual *sql.Tx).
//
// Children are always inserted before their parents: arena.Transform
// numbers nodes in pre-order, so iterating from the highest index
// down to zero visits every node after all of its descendants. This
// satisfies the deterministic-ordering requirement without a second,
// explicit post-order walk.
func Serialize(arena *astxform.Arena, ctx Context) (*Result, error) {
	n := len(arena.Nodes)
	ids := make([]string, n)
	indexOf := make(map[ast.Node]int, n)
	for _, node := range arena.Nodes {
		indexOf[node.Node] = node.Index
	}

	inserts := make(map[int]*ir.Insert, n)
	pool := &Pool{IDs: map[string][]string{}}
	var order []int

	for i := n - 1; i >= 0; i-- {
		node := arena.Nodes[i]
		id := uuid.New().String()
		ids[i] = id

		entry, ok := ctx.FieldDB.Lookup(node.TypeName)
		if !ok {
			continue
		}

		fields, ok := extractFields(node.Node)
		if !ok {
			return nil, &SerializationError{Type: node.TypeName, Reason: "no field extractor registered for this node kind"}
		}
		if node.TypeName == "File" {
			fields["filename"] = scalar(ctx.Filename)
		}
		start := node.Node.Pos()
		switch d := node.Node.(type) {
		case *ast.FuncDecl:
			if d.Doc != nil {
				start = d.Doc.Pos()
			}
		case *ast.GenDecl:
			if d.Doc != nil {
				start = d.Doc.Pos()
			}
		}
		fields["pos"] = scalar(strconv.Itoa(int(start)))
		fields["end_pos"] = scalar(strconv.Itoa(int(node.Node.End())))

		insert := &ir.Insert{Into: entry.Table}
		insert.Fields = append(insert.Fields,
			ir.KV{Key: "id", Value: ir.Literal{Text: strconv.Quote(id)}},
			ir.KV{Key: "_tag", Value: ir.Literal{Text: strconv.FormatUint(node.Tag, 10)}},
		)

		for _, fe := range entry.Fields {
			rv, ok := fields[fe.Name]
			if !ok || rv.Absent {
				continue
			}
			expr, err := fieldExpr(ctx, fe, rv, ids, indexOf, inserts)
			if err != nil {
				return nil, err
			}
			insert.Fields = append(insert.Fields, ir.KV{Key: fe.Column, Value: expr})
		}

		if node.TypeName == "File" && ctx.ProjectName != "" {
			one := 1
			insert.Fields = append(insert.Fields, ir.KV{
				Key: "project_id",
				Value: ir.StmtExpr{Stmt: &ir.Select{
					From:   "projects",
					Filter: ir.FieldEQ("name", ctx.ProjectName),
					Limit:  &one,
				}},
			})
		}

		inserts[i] = insert
		order = append(order, i)

		if moduleAnnotated(ctx.Model, node.TypeName) {
			pool.IDs[entry.Table] = append(pool.IDs[entry.Table], id)
		}
	}

	root := arena.Root()
	moduleEntry, ok := ctx.FieldDB.Lookup(root.TypeName)
	if !ok {
		return nil, &SerializationError{Type: root.TypeName, Reason: "grammar has no field-db entry for the module root"}
	}
	moduleID := ids[root.Index]

	statements := make([]ir.Stmt, len(order))
	for i, idx := range order {
		statements[i] = inserts[idx]
	}

	return &Result{
		ModuleID:      moduleID,
		Statements:    statements,
		ModuleUpdates: moduleUpdates(pool, moduleEntry.Table, moduleID),
	}, nil
}

// moduleAnnotated reports whether typeName's declaring type (itself,
// for a bare product, or the sum it's a constructor of) carries the
// `_module` attribute.
func moduleAnnotated(m *grammar.Model, typeName string) bool {
	if t := m.Lookup(typeName); t != nil && t.ModuleAnnotated {
		return true
	}
	if base := m.BaseOf(typeName); base != nil && base.ModuleAnnotated {
		return true
	}
	return false
}

// moduleUpdates builds one ir.Update per module-annotated constructor
// table present in the pool. The reference implementation's backend
// models Expr/Stmt/Decl as abstract bases and updates each base once;
// this schema gives every constructor its own concrete table, so the
// batching happens one level finer (per constructor rather than per
// abstract base) but is still exactly one UPDATE per distinct table
// per file.
func moduleUpdates(pool *Pool, moduleTable, moduleID string) []ir.Stmt {
	tables := make([]string, 0, len(pool.IDs))
	for table := range pool.IDs {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	one := 1
	updates := make([]ir.Stmt, 0, len(tables))
	for _, table := range tables {
		ids := pool.IDs[table]
		values := make([]any, len(ids))
		for i, id := range ids {
			values[i] = id
		}
		updates = append(updates, &ir.Update{
			Table:  table,
			Filter: ir.FieldIn("id", values...),
			Set: []ir.KV{{
				Key: "_module",
				Value: ir.StmtExpr{Stmt: &ir.Select{
					From:   moduleTable,
					Filter: ir.FieldEQ("id", moduleID),
					Limit:  &one,
				}},
			}},
		})
	}
	return updates
}

// fieldExpr turns one field's raw extracted value into the ir.Expr
// that belongs in an INSERT's field list, per spec.md §4.D's dispatch:
// grammar-type values become a reference-pool SELECT, sequences become
// set/container literals (with
// the per-element `index` property folded into the child's own INSERT
// rather than a separate enumerate/UNION pass — see DESIGN.md), and
// scalars pass through as literals. Enum values are not serialized: an
// enum-typed link field yields a SerializationError from linkExpr.
func fieldExpr(ctx Context, fe schemagen.FieldEntry, rv rawValue, ids []string, indexOf map[ast.Node]int, inserts map[int]*ir.Insert) (ir.Expr, error) {
	if !fe.IsLink {
		if fe.Qualifier == "sequence" {
			elems := make([]ir.Expr, len(rv.Scalars))
			for i, s := range rv.Scalars {
				elems[i] = ir.Literal{Text: strconv.Quote(s)}
			}
			return ir.Container{Elems: elems}, nil
		}
		if fe.Kind == "int" {
			return ir.Literal{Text: rv.Scalar}, nil
		}
		return ir.Literal{Text: strconv.Quote(rv.Scalar)}, nil
	}

	target := ctx.Model.Lookup(fe.Kind)
	isEnum := target != nil && target.IsEnum

	if fe.Qualifier != "sequence" {
		return linkExpr(ctx, fe.Kind, isEnum, rv.Node, ids, indexOf)
	}

	elems := make([]ir.Expr, len(rv.Nodes))
	for i, child := range rv.Nodes {
		if idx, ok := indexOf[child]; ok {
			if insert, ok := inserts[idx]; ok {
				insert.Fields = append(insert.Fields, ir.KV{Key: "index", Value: ir.Literal{Text: strconv.Itoa(i)}})
			}
		}
		expr, err := linkExpr(ctx, fe.Kind, isEnum, child, ids, indexOf)
		if err != nil {
			return nil, err
		}
		elems[i] = expr
	}
	return ir.Container{Elems: elems}, nil
}

func linkExpr(ctx Context, kind string, isEnum bool, node ast.Node, ids []string, indexOf map[ast.Node]int) (ir.Expr, error) {
	if isEnum {
		return nil, &SerializationError{Type: kind, Reason: "enum-valued link fields have no go/ast source in this grammar"}
	}
	idx, ok := indexOf[node]
	if !ok {
		return nil, &SerializationError{Type: kind, Reason: "referenced node is not part of this file's arena"}
	}

	// kind may name an abstract sum (e.g. "Expr"), which has no table
	// of its own — only its constructors do. The concrete table always
	// follows the referenced node's own constructor, not the field's
	// declared kind.
	concreteType := astxform.TypeName(node)
	table := concreteType
	if entry, ok := ctx.FieldDB.Lookup(concreteType); ok {
		table = entry.Table
	}

	one := 1
	sel := &ir.Select{From: table, Filter: ir.FieldEQ("id", ids[idx]), Limit: &one}
	return ir.StmtExpr{Stmt: sel}, nil
}
