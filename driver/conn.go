package driver

import (
	"context"
	"database/sql/driver"

	"github.com/mwblythe/squote"
)

// compile-time interface checks
var (
	_ driver.Conn               = (*conn)(nil)
	_ driver.ConnBeginTx        = (*conn)(nil)
	_ driver.ConnPrepareContext = (*conn)(nil)
	_ driver.ExecerContext      = (*conn)(nil)
	_ driver.QueryerContext     = (*conn)(nil)
	_ driver.NamedValueChecker  = (*conn)(nil)
	_ driver.Pinger             = (*conn)(nil)
	_ driver.SessionResetter    = (*conn)(nil)
)

// conn renders every statement before the wrapped connection sees it, so the
// wrapped driver only ever receives finished SQL with no args.
type conn struct {
	driver.Conn
	builder *squote.Builder
}

func wrapConn(c driver.Conn, b *squote.Builder) *conn {
	return &conn{Conn: c, builder: b}
}

func (c *conn) CheckNamedValue(*driver.NamedValue) error {
	// accept all bind types; the builder decides what it can render
	return nil
}

// render binds args into query
func (c *conn) render(query string, args []driver.NamedValue) (string, error) {
	vals, err := namedToArgs(args)
	if err != nil {
		return "", err
	}

	return c.builder.BindString(query, vals...)
}

func (c *conn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	query, err := c.render(query, args)
	if err != nil {
		return nil, err
	}

	var res driver.Result

	switch orig := c.Conn.(type) {
	case driver.ExecerContext:
		res, err = orig.ExecContext(ctx, query, nil)
	case driver.Execer: // nolint
		res, err = orig.Exec(query, nil)
	default:
		err = driver.ErrSkip
	}

	if err == driver.ErrSkip {
		return c.execPrepared(ctx, query)
	}

	return res, err
}

func (c *conn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	query, err := c.render(query, args)
	if err != nil {
		return nil, err
	}

	var rows driver.Rows

	switch orig := c.Conn.(type) {
	case driver.QueryerContext:
		rows, err = orig.QueryContext(ctx, query, nil)
	case driver.Queryer: // nolint
		rows, err = orig.Query(query, nil)
	default:
		err = driver.ErrSkip
	}

	if err == driver.ErrSkip {
		return c.queryPrepared(ctx, query)
	}

	return rows, err
}

// execPrepared runs finished SQL on a connection that can only prepare
func (c *conn) execPrepared(ctx context.Context, query string) (driver.Result, error) {
	st, err := c.prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	if sc, ok := st.(driver.StmtExecContext); ok {
		return sc.ExecContext(ctx, nil)
	}
	return st.Exec(nil) // nolint
}

// queryPrepared runs finished SQL on a connection that can only prepare.
// The statement is closed along with the rows.
func (c *conn) queryPrepared(ctx context.Context, query string) (driver.Rows, error) {
	st, err := c.prepare(ctx, query)
	if err != nil {
		return nil, err
	}

	var rows driver.Rows
	if sc, ok := st.(driver.StmtQueryContext); ok {
		rows, err = sc.QueryContext(ctx, nil)
	} else {
		rows, err = st.Query(nil) // nolint
	}

	if err != nil {
		st.Close()
		return nil, err
	}

	return &stmtRows{Rows: rows, stmt: st}, nil
}

func (c *conn) prepare(ctx context.Context, query string) (driver.Stmt, error) {
	if pc, ok := c.Conn.(driver.ConnPrepareContext); ok {
		return pc.PrepareContext(ctx, query)
	}
	return c.Conn.Prepare(query)
}

// Prepare defers rendering until the statement runs with its args
func (c *conn) Prepare(query string) (driver.Stmt, error) {
	return &stmt{conn: c, query: query}, nil
}

func (c *conn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	return c.Prepare(query)
}

func (c *conn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if bt, ok := c.Conn.(driver.ConnBeginTx); ok {
		return bt.BeginTx(ctx, opts)
	}
	return c.Conn.Begin() // nolint
}

func (c *conn) Ping(ctx context.Context) error {
	if p, ok := c.Conn.(driver.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (c *conn) ResetSession(ctx context.Context) error {
	if r, ok := c.Conn.(driver.SessionResetter); ok {
		return r.ResetSession(ctx)
	}
	return nil
}

// stmtRows closes its statement once the rows are done
type stmtRows struct {
	driver.Rows
	stmt driver.Stmt
}

func (r *stmtRows) Close() error {
	err := r.Rows.Close()
	if serr := r.stmt.Close(); err == nil {
		err = serr
	}
	return err
}
