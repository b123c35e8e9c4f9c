// Command reiz-schemagen turns an ASDL grammar description into the
// two artifacts the rest of the system loads at startup: a PostgreSQL
// DDL script and a field database (FIELDDB.json) consumed by the
// ingester and the query compiler.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/reizio/reiz/grammar"
	"github.com/reizio/reiz/schemagen"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("reiz-schemagen", flag.ContinueOnError)
	reset := fs.Bool("reset", false, "print the table names a reset of the generated schema would (re)create, instead of writing output files")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	rest := fs.Args()
	var input string
	switch {
	case *reset && len(rest) == 1:
		input = rest[0]
	case !*reset && len(rest) == 3:
		input = rest[0]
	default:
		fmt.Fprintln(os.Stderr, "usage: reiz-schemagen INPUT.asdl OUTPUT.schema FIELDDB.json")
		fmt.Fprintln(os.Stderr, "       reiz-schemagen -reset INPUT.asdl")
		return 2
	}

	src, err := os.ReadFile(input)
	if err != nil {
		slog.Error("read grammar source", "path", input, "error", err)
		return 2
	}

	model, err := grammar.LoadString(string(src))
	if err != nil {
		slog.Error("invalid grammar", "error", err)
		return 1
	}

	db := schemagen.Generate(model)

	if *reset {
		// Mirrors the original implementation's db/reset.py: a full
		// drop-and-recreate rather than an in-place migration. This
		// only previews the table set; applying it is left to the
		// operator's own atlas/psql invocation against the target DSN.
		s := schemagen.AtlasSchema(db)
		for _, t := range s.Tables {
			fmt.Println(t.Name)
		}
		return 0
	}

	schemaPath, fieldDBPath := rest[1], rest[2]

	ddl := schemagen.GeneratePostgresDDL(db)
	if err := os.WriteFile(schemaPath, []byte(ddl), 0o644); err != nil {
		slog.Error("write schema DDL", "path", schemaPath, "error", err)
		return 2
	}

	fieldDBFile, err := os.Create(fieldDBPath)
	if err != nil {
		slog.Error("create field database", "path", fieldDBPath, "error", err)
		return 2
	}
	defer fieldDBFile.Close()

	if err := db.WriteJSON(fieldDBFile); err != nil {
		slog.Error("write field database", "path", fieldDBPath, "error", err)
		return 2
	}

	slog.Info("schema generated", "types", len(db.Types), "schema", schemaPath, "fielddb", fieldDBPath)
	return 0
}
