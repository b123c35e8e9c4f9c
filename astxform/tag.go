package astxform

import (
	"go/ast"
	"hash/fnv"
)

// computeTags assigns every node's structural Tag, bottom-up. Because
// Transform numbers nodes in pre-order, every child index is strictly
// greater than its parent's; processing the arena from its last index
// down to its first therefore always sees a node's children (and
// their descendants) already tagged.
func computeTags(arena *Arena) {
	for i := len(arena.Nodes) - 1; i >= 0; i-- {
		arena.Nodes[i].Tag = nodeTag(arena, arena.Nodes[i])
	}
}

func nodeTag(arena *Arena, n *Node) uint64 {
	h := fnv.New64a()
	h.Write([]byte(n.TypeName))
	switch v := n.Node.(type) {
	case *ast.Ident:
		h.Write([]byte(v.Name))
	case *ast.BasicLit:
		h.Write([]byte(v.Kind.String() + v.Value))
	case *ast.BinaryExpr:
		h.Write([]byte(v.Op.String()))
	case *ast.UnaryExpr:
		h.Write([]byte(v.Op.String()))
	case *ast.AssignStmt:
		h.Write([]byte(v.Tok.String()))
	}
	for _, ci := range n.Children {
		childTag := arena.Nodes[ci].Tag
		var b [8]byte
		for i := range b {
			b[i] = byte(childTag >> (8 * i))
		}
		h.Write(b[:])
	}
	return h.Sum64()
}
