// Package pgxbridge runs squote rendered statements on pgx connections.
//
// PostgreSQL with standard_conforming_strings on (the default since 9.1)
// treats backslashes in string literals as ordinary characters, so the
// bridge renders with squote.QuoteDoubling unless told otherwise.
package pgxbridge

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mwblythe/squote"
)

// ErrNonStandardStrings is returned by Connect when the server escapes
// backslashes in ordinary string literals
var ErrNonStandardStrings = errors.New("pgxbridge: standard_conforming_strings is off")

// Conn is satisfied by *pgx.Conn, *pgxpool.Pool and pgx.Tx
type Conn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Bridge renders statements with a Builder and sends them to a pgx Conn.
// With no args pgx uses the simple protocol, so nothing is prepared server side.
type Bridge struct {
	*squote.Builder
	conn Conn
}

// New bridges conn. A nil builder renders with squote.QuoteDoubling.
func New(conn Conn, builder *squote.Builder) *Bridge {
	if builder == nil {
		builder = squote.NewBuilder(squote.WithEscaper(squote.QuoteDoubling))
	}
	return &Bridge{Builder: builder, conn: conn}
}

// Connect checks that the server uses standard conforming strings and then
// bridges conn. Options are applied after squote.WithEscaper(squote.QuoteDoubling).
func Connect(ctx context.Context, conn Conn, options ...squote.Option) (*Bridge, error) {
	var setting string
	if err := conn.QueryRow(ctx, "SHOW standard_conforming_strings").Scan(&setting); err != nil {
		return nil, err
	}

	if setting != "on" {
		return nil, ErrNonStandardStrings
	}

	options = append([]squote.Option{squote.WithEscaper(squote.QuoteDoubling)}, options...)

	return New(conn, squote.NewBuilder(options...)), nil
}

// Conn returns the bridged connection
func (b *Bridge) Conn() Conn {
	return b.conn
}

// Exec renders text with args and executes it
func (b *Bridge) Exec(ctx context.Context, text string, args ...any) (pgconn.CommandTag, error) {
	query, err := b.BindString(text, args...)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return b.conn.Exec(ctx, query)
}

// Query renders text with args and runs it
func (b *Bridge) Query(ctx context.Context, text string, args ...any) (pgx.Rows, error) {
	query, err := b.BindString(text, args...)
	if err != nil {
		return nil, err
	}
	return b.conn.Query(ctx, query)
}

// QueryRow renders text with args and runs it. A render failure is
// reported by the row's Scan.
func (b *Bridge) QueryRow(ctx context.Context, text string, args ...any) pgx.Row {
	query, err := b.BindString(text, args...)
	if err != nil {
		return errRow{err}
	}
	return b.conn.QueryRow(ctx, query)
}

// ExecStmt renders a prepared squote statement and executes it
func (b *Bridge) ExecStmt(ctx context.Context, st *squote.Stmt) (pgconn.CommandTag, error) {
	query, err := st.Render()
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return b.conn.Exec(ctx, string(query))
}

// errRow is a pgx.Row that only reports an error
type errRow struct {
	err error
}

func (r errRow) Scan(dest ...any) error {
	return r.err
}
