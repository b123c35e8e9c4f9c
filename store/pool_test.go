package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMock(db *sql.DB) (*Driver, error) {
	if err := db.PingContext(context.Background()); err != nil {
		return nil, err
	}
	return NewDriver(db, "sqlmock"), nil
}

func TestPoolAcquireReleaseRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()

	drv, err := openMock(db)
	require.NoError(t, err)
	pool := NewPool(drv, 2)

	conn, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	require.NoError(t, conn.Release())
}

func TestPoolBlocksPastSoftCap(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()

	drv, err := openMock(db)
	require.NoError(t, err)
	pool := NewPool(drv, 1)

	first, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = pool.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, first.Release())

	second, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	require.NoError(t, second.Release())
}

func TestPoolDialect(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()

	drv, err := openMock(db)
	require.NoError(t, err)
	pool := NewPool(drv, 1)
	assert.Equal(t, "sqlmock", pool.Dialect())
}
