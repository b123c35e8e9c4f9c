package grammar

import _ "embed"

//go:embed testdata/go.asdl
var defaultGrammarSource string

// Default returns the built-in grammar description for Go's own AST, the
// target language SPEC_FULL.md resolves the distilled specification's
// language-agnostic wording to. Callers that ingest a different target
// language supply their own ASDL description to Load instead.
func Default() (*Model, error) {
	return LoadString(defaultGrammarSource)
}
