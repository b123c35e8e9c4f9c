// Package astxform walks a parsed Go file and annotates every node
// with the bookkeeping the serializer needs: a dense arena index, a
// parent back-edge stored as an arena index rather than a pointer (so
// the tree never gains an ownership cycle), the set of ancestor type
// names, and a structural hash that ignores source position so two
// syntactically identical snippets produce the same tag regardless of
// where they appear in the file.
package astxform
