package query

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reizio/reiz/grammar"
	"github.com/reizio/reiz/ir"
	"github.com/reizio/reiz/privacy"
	"github.com/reizio/reiz/reizql/compiler"
	"github.com/reizio/reiz/reizql/parse"
	"github.com/reizio/reiz/schemagen"
	"github.com/reizio/reiz/store"
)

func testModel(t *testing.T) *grammar.Model {
	t.Helper()
	m, err := grammar.LoadString(`
module Test
{
    Expr = Name(identifier id)
         | Call(Expr func_, Expr* args)
         attributes (int pos, int end_pos, File _module, int _tag)

    Field(identifier? name, Expr typ)

    File(string filename, Expr* body)
}
`)
	require.NoError(t, err)
	return m
}

func testPool(t *testing.T) (*store.Pool, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	drv := store.NewDriver(db, store.SQLite)
	return store.NewPool(drv, 2), mock
}

func resultColumns() []string {
	return []string{
		colFilename, colPos, colEndPos,
		colProjectName, colProjectDL, colProjectGitS, colProjectGitR, colProjectLic,
	}
}

func TestRunExecutesAndScansMatches(t *testing.T) {
	model := testModel(t)
	db := schemagen.Generate(model)
	pool, mock := testPool(t)

	rows := sqlmock.NewRows(resultColumns()).
		AddRow("pkg/a.go", 10, 20, "acme", 5, "https://example.invalid/acme", "deadbeef", "MIT")
	mock.ExpectQuery(".*").WillReturnRows(rows)

	results, err := Run(context.Background(), pool, model, db, nil, nil, "Call()", Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, "pkg/a.go", got.Filename)
	assert.Equal(t, 10, got.Pos)
	assert.Equal(t, 20, got.EndPos)
	assert.Equal(t, "acme", got.Project.Name)
	assert.Equal(t, 5, got.Project.Downloads)
	assert.Equal(t, "https://example.invalid/acme", got.Project.GitSource)
	assert.Equal(t, "deadbeef", got.Project.GitRev)
	assert.Equal(t, "MIT", got.Project.License)
	assert.False(t, got.MatchedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunAppliesLimitAndOffset(t *testing.T) {
	model := testModel(t)
	db := schemagen.Generate(model)
	pool, mock := testPool(t)

	mock.ExpectQuery("(?s).*LIMIT 5.*OFFSET 2.*").WillReturnRows(sqlmock.NewRows(resultColumns()))

	limit, offset := 5, 2
	_, err := Run(context.Background(), pool, model, db, nil, nil, "Name()", Options{Limit: &limit, Offset: &offset})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRejectsNegativeLimit(t *testing.T) {
	model := testModel(t)
	db := schemagen.Generate(model)
	pool, _ := testPool(t)

	limit := -1
	_, err := Run(context.Background(), pool, model, db, nil, nil, "Name()", Options{Limit: &limit})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestRunPropagatesSyntaxError(t *testing.T) {
	model := testModel(t)
	db := schemagen.Generate(model)
	pool, _ := testPool(t)

	_, err := Run(context.Background(), pool, model, db, nil, nil, "(((", Options{})
	var serr *parse.SyntaxError
	require.ErrorAs(t, err, &serr)
}

func TestRunPropagatesCompilerError(t *testing.T) {
	model := testModel(t)
	db := schemagen.Generate(model)
	pool, _ := testPool(t)

	_, err := Run(context.Background(), pool, model, db, nil, nil, "Nonexistent()", Options{})
	var cerr *compiler.CompilerError
	require.ErrorAs(t, err, &cerr)
}

func TestRunRejectsAnchorWithoutModuleAnnotation(t *testing.T) {
	model := testModel(t)
	db := schemagen.Generate(model)
	pool, _ := testPool(t)

	_, err := Run(context.Background(), pool, model, db, nil, nil, "Field()", Options{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestRunProjectsFileAnchorWithZeroSpan(t *testing.T) {
	model := testModel(t)
	db := schemagen.Generate(model)
	pool, mock := testPool(t)

	rows := sqlmock.NewRows(resultColumns()).AddRow("pkg/a.go", 0, 0, "acme", 0, "", "", "")
	mock.ExpectQuery(".*").WillReturnRows(rows)

	results, err := Run(context.Background(), pool, model, db, nil, nil, `File(Field("filename", LIKE("a.go")))`, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Pos)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunDeniesQueryRejectedByPolicy(t *testing.T) {
	model := testModel(t)
	db := schemagen.Generate(model)
	pool, _ := testPool(t)

	policy := privacy.Policy{privacy.DenyAnchorType("Call")}
	_, err := Run(context.Background(), pool, model, db, nil, policy, "Call()", Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, privacy.Deny)
}

func TestRunAllowsQueryPermittedByPolicy(t *testing.T) {
	model := testModel(t)
	db := schemagen.Generate(model)
	pool, mock := testPool(t)

	rows := sqlmock.NewRows(resultColumns()).
		AddRow("pkg/a.go", 1, 2, "acme", 0, "", "", "")
	mock.ExpectQuery(".*").WillReturnRows(rows)

	policy := privacy.Policy{privacy.DenyAnchorType("Field"), privacy.AlwaysAllowRule()}
	_, err := Run(context.Background(), pool, model, db, nil, policy, "Call()", Options{})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPreparedCachesCompiledStatement(t *testing.T) {
	model := testModel(t)
	db := schemagen.Generate(model)
	p := NewPrepared()

	first, err := p.compile("Name()", db, model)
	require.NoError(t, err)
	second, err := p.compile("Name()", db, model)
	require.NoError(t, err)

	assert.Same(t, first.stmt.(*ir.Select), second.stmt.(*ir.Select))
}

func TestNilPreparedNeverCaches(t *testing.T) {
	model := testModel(t)
	db := schemagen.Generate(model)
	var p *Prepared

	first, err := p.compile("Name()", db, model)
	require.NoError(t, err)
	second, err := p.compile("Name()", db, model)
	require.NoError(t, err)

	assert.NotSame(t, first.stmt.(*ir.Select), second.stmt.(*ir.Select))
}
