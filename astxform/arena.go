package astxform

import (
	"go/ast"

	"golang.org/x/tools/go/ast/astutil"
)

// Node is one arena slot: the wrapped ast.Node plus the bookkeeping a
// single pass over the tree can establish once and for all, so the
// serializer never has to re-walk the tree to answer "what encloses
// this" or "is this the same shape as that other node".
type Node struct {
	Node ast.Node

	// Index is this node's position in the arena, assigned in
	// pre-order visitation order.
	Index int

	// ParentIndex is the arena index of the enclosing node, or -1 for
	// the root. Storing an index rather than a pointer keeps the
	// arena the sole owner of the tree's bookkeeping.
	ParentIndex int

	// Children holds the arena indices of this node's direct
	// children, in visitation order.
	Children []int

	// ParentTypes is the full chain of ancestor type names, outermost
	// first, mirroring the `_parent_types` column every non-enum
	// table carries.
	ParentTypes []string

	// TypeName is the Go AST node's constructor name (e.g. "Ident",
	// "BinaryExpr"), used both for the structural tag and for schema
	// lookups against a FieldDB.
	TypeName string

	// Tag is the structural hash of this node's subtree, computed by
	// Transform once every node's children are known. It excludes
	// position information entirely, so identical snippets hash alike
	// regardless of where they appear in the file.
	Tag uint64
}

// Arena is the flat, index-addressed view of a parsed file that
// Transform produces.
type Arena struct {
	Nodes []*Node
}

// Root returns the arena's first node, the file itself.
func (a *Arena) Root() *Node {
	if len(a.Nodes) == 0 {
		return nil
	}
	return a.Nodes[0]
}

// Transform walks file with astutil.Apply and returns the populated
// arena. The walk order is pre-order, so a node's index is always
// smaller than any of its descendants' indices.
func Transform(file *ast.File) *Arena {
	arena := &Arena{}
	var stack []int

	astutil.Apply(file, func(c *astutil.Cursor) bool {
		n := c.Node()
		if n == nil {
			return true
		}

		idx := len(arena.Nodes)
		parentIdx := -1
		parentTypes := make([]string, 0, len(stack))
		if len(stack) > 0 {
			parentIdx = stack[len(stack)-1]
			for _, pidx := range stack {
				parentTypes = append(parentTypes, arena.Nodes[pidx].TypeName)
			}
			arena.Nodes[parentIdx].Children = append(arena.Nodes[parentIdx].Children, idx)
		}

		arena.Nodes = append(arena.Nodes, &Node{
			Node:        n,
			Index:       idx,
			ParentIndex: parentIdx,
			ParentTypes: parentTypes,
			TypeName:    TypeName(n),
		})
		stack = append(stack, idx)
		return true
	}, func(c *astutil.Cursor) bool {
		stack = stack[:len(stack)-1]
		return true
	})

	computeTags(arena)
	return arena
}
