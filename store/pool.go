package store

import (
	"context"
	"database/sql"
)

// Pool bounds the number of connections concurrently checked out of a
// Driver to a soft cap, so a worker pool sized per spec.md's
// CPUs/2+1 rule can't over-subscribe the backend. It defers actual
// connection lifecycle to database/sql's own pool (Driver.DB already
// pools idle connections); Pool only adds the acquire/release
// admission control the ingest driver's worker-per-connection model
// needs.
type Pool struct {
	driver *Driver
	free   chan struct{}
}

// NewPool builds a Pool over driver with room for at most softCap
// concurrently acquired connections.
func NewPool(driver *Driver, softCap int) *Pool {
	if softCap <= 0 {
		softCap = 1
	}
	return &Pool{driver: driver, free: make(chan struct{}, softCap)}
}

// Conn is one connection checked out of a Pool. Callers must Release
// it exactly once.
type Conn struct {
	*sql.Conn
	pool *Pool
}

// Acquire blocks until a slot is free or ctx is done, then checks out
// one physical connection. Acquire and Release are both O(1).
func (p *Pool) Acquire(ctx context.Context) (*Conn, error) {
	select {
	case p.free <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	conn, err := p.driver.DB.Conn(ctx)
	if err != nil {
		<-p.free
		return nil, &BackendError{Op: "acquire", Err: err}
	}
	return &Conn{Conn: conn, pool: p}, nil
}

// Release returns the connection's slot to the pool and closes the
// physical connection, returning it to database/sql's own idle pool.
func (c *Conn) Release() error {
	err := c.Conn.Close()
	<-c.pool.free
	return err
}

// Close closes the underlying driver. It does not wait for
// outstanding Acquire calls to Release.
func (p *Pool) Close() error {
	return p.driver.DB.Close()
}

// Dialect reports the dialect of the driver the pool was built over.
func (p *Pool) Dialect() string { return p.driver.Dialect() }
