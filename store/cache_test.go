package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachesHasAndAdd(t *testing.T) {
	c := NewCaches()
	assert.False(t, c.HasFilename("a.go"))
	c.AddFilename("a.go")
	assert.True(t, c.HasFilename("a.go"))

	assert.False(t, c.HasProject("acme"))
	c.AddProject("acme")
	assert.True(t, c.HasProject("acme"))
}

func TestCachesRefreshPopulatesFromBackend(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT filename FROM files").
		WillReturnRows(sqlmock.NewRows([]string{"filename"}).AddRow("a.go").AddRow("b.go"))
	mock.ExpectQuery("SELECT name FROM projects").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("acme"))

	c := NewCaches()
	require.NoError(t, c.Refresh(context.Background(), db))

	assert.True(t, c.HasFilename("a.go"))
	assert.True(t, c.HasFilename("b.go"))
	assert.False(t, c.HasFilename("c.go"))
	assert.True(t, c.HasProject("acme"))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCachesRefreshWrapsBackendError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT filename FROM files").WillReturnError(assertErr)

	c := NewCaches()
	err = c.Refresh(context.Background(), db)
	require.Error(t, err)

	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := NewCaches()
	c.AddFilename("a.go")
	c.AddFilename("b.go")
	c.AddProject("acme")

	path := filepath.Join(t.TempDir(), "caches.msgpack")
	require.NoError(t, c.SaveSnapshot(path))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.True(t, loaded.HasFilename("a.go"))
	assert.True(t, loaded.HasFilename("b.go"))
	assert.True(t, loaded.HasProject("acme"))
}

func TestLoadSnapshotMissingFileIsEmptyCaches(t *testing.T) {
	loaded, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.msgpack"))
	require.NoError(t, err)
	assert.False(t, loaded.HasFilename("a.go"))
}

var assertErr = errBoom{}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
