package astxform

import (
	"fmt"
	"go/ast"
)

// TypeName returns the constructor name a node maps to in the grammar
// model loaded by the `grammar` package, e.g. *ast.Ident -> "Ident".
// Types not explicitly listed fall back to their reflected type name
// (e.g. "*ast.ChanType"), which matches no grammar constructor, so
// FieldDB lookups miss and serialize writes no row for such nodes.
func TypeName(n ast.Node) string {
	switch n.(type) {
	case *ast.Ident:
		return "Ident"
	case *ast.BasicLit:
		return "BasicLit"
	case *ast.BinaryExpr:
		return "BinaryExpr"
	case *ast.UnaryExpr:
		return "UnaryExpr"
	case *ast.CallExpr:
		return "CallExpr"
	case *ast.SelectorExpr:
		return "SelectorExpr"
	case *ast.IndexExpr:
		return "IndexExpr"
	case *ast.CompositeLit:
		return "CompositeLit"
	case *ast.KeyValueExpr:
		return "KeyValueExpr"
	case *ast.StarExpr:
		return "StarExpr"
	case *ast.ParenExpr:
		return "ParenExpr"
	case *ast.SliceExpr:
		return "SliceExpr"
	case *ast.FuncLit:
		return "FuncLit"
	case *ast.AssignStmt:
		return "AssignStmt"
	case *ast.ExprStmt:
		return "ExprStmt"
	case *ast.IfStmt:
		return "IfStmt"
	case *ast.ForStmt:
		return "ForStmt"
	case *ast.RangeStmt:
		return "RangeStmt"
	case *ast.ReturnStmt:
		return "ReturnStmt"
	case *ast.BlockStmt:
		return "BlockStmt"
	case *ast.DeclStmt:
		return "DeclStmt"
	case *ast.GoStmt:
		return "GoStmt"
	case *ast.DeferStmt:
		return "DeferStmt"
	case *ast.BranchStmt:
		return "BranchStmt"
	case *ast.FuncDecl:
		return "FuncDecl"
	case *ast.GenDecl:
		return "GenDecl"
	case *ast.ImportSpec:
		return "ImportSpec"
	case *ast.ValueSpec:
		return "ValueSpec"
	case *ast.TypeSpec:
		return "TypeSpec"
	case *ast.Field:
		return "Field"
	case *ast.Comment:
		return "Comment"
	case *ast.File:
		return "File"
	default:
		return fmt.Sprintf("%T", n)
	}
}
