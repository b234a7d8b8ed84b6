package bridge

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/mwblythe/squote"
)

// Target is the destination of a Bridge.
// It is typically a database or transaction handle.
type Target interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)

	MustExec(query string, args ...interface{}) sql.Result
	Queryx(query string, args ...interface{}) (*sqlx.Rows, error)
	Get(dest interface{}, query string, args ...interface{}) error
	Select(dest interface{}, query string, args ...interface{}) error

	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row

	MustExecContext(ctx context.Context, query string, args ...interface{}) sql.Result
	QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// Bridge provides a connection between a Builder and a Target.
// Statements are rendered client side and sent to the Target with no args.
//
// So something like this:
//
//	query, err := builder.BindString("SELECT * FROM users WHERE id = ?", id)
//	rows, err := db.Query(query)
//
// Becomes:
//
//	rows, err := bridge.Query("SELECT * FROM users WHERE id = ?", id)
type Bridge struct {
	*squote.Builder
	target Target
}

// Target returns the bridged handle, e.g. for running a squote.Stmt
func (b *Bridge) Target() Target {
	return b.target
}

// Exec executes a query that doesn't return rows
func (b *Bridge) Exec(text string, args ...interface{}) (sql.Result, error) {
	query, err := b.BindString(text, args...)
	if err != nil {
		return nil, err
	}
	return b.target.Exec(query)
}

// ExecContext executes a query that doesn't return rows
func (b *Bridge) ExecContext(ctx context.Context, text string, args ...interface{}) (sql.Result, error) {
	query, err := b.BindString(text, args...)
	if err != nil {
		return nil, err
	}
	return b.target.ExecContext(ctx, query)
}

// Query executes a query that returns rows, typically a SELECT
func (b *Bridge) Query(text string, args ...interface{}) (*sql.Rows, error) {
	query, err := b.BindString(text, args...)
	if err != nil {
		return nil, err
	}
	return b.target.Query(query)
}

// QueryContext executes a query that returns rows, typically a SELECT
func (b *Bridge) QueryContext(ctx context.Context, text string, args ...interface{}) (*sql.Rows, error) {
	query, err := b.BindString(text, args...)
	if err != nil {
		return nil, err
	}
	return b.target.QueryContext(ctx, query)
}

// MustExec executes a query and panics on error
func (b *Bridge) MustExec(text string, args ...interface{}) sql.Result {
	return b.target.MustExec(b.mustBind(text, args))
}

// MustExecContext executes a query and panics on error
func (b *Bridge) MustExecContext(ctx context.Context, text string, args ...interface{}) sql.Result {
	return b.target.MustExecContext(ctx, b.mustBind(text, args))
}

// Queryx is the same as Query but returns a *sqlx.Rows
func (b *Bridge) Queryx(text string, args ...interface{}) (*sqlx.Rows, error) {
	query, err := b.BindString(text, args...)
	if err != nil {
		return nil, err
	}
	return b.target.Queryx(query)
}

// QueryxContext is the same as QueryContext but returns a *sqlx.Rows
func (b *Bridge) QueryxContext(ctx context.Context, text string, args ...interface{}) (*sqlx.Rows, error) {
	query, err := b.BindString(text, args...)
	if err != nil {
		return nil, err
	}
	return b.target.QueryxContext(ctx, query)
}

// Get retrieves a single row and scans into dest
func (b *Bridge) Get(dest interface{}, text string, args ...interface{}) error {
	query, err := b.BindString(text, args...)
	if err != nil {
		return err
	}
	return b.target.Get(dest, query)
}

// GetContext retrieves a single row and scans into dest
func (b *Bridge) GetContext(ctx context.Context, dest interface{}, text string, args ...interface{}) error {
	query, err := b.BindString(text, args...)
	if err != nil {
		return err
	}
	return b.target.GetContext(ctx, dest, query)
}

// Select executes a query and scans the rows into dest (a slice)
func (b *Bridge) Select(dest interface{}, text string, args ...interface{}) error {
	query, err := b.BindString(text, args...)
	if err != nil {
		return err
	}
	return b.target.Select(dest, query)
}

// SelectContext executes a query and scans the rows into dest (a slice)
func (b *Bridge) SelectContext(ctx context.Context, dest interface{}, text string, args ...interface{}) error {
	query, err := b.BindString(text, args...)
	if err != nil {
		return err
	}
	return b.target.SelectContext(ctx, dest, query)
}

func (b *Bridge) mustBind(text string, args []interface{}) string {
	query, err := b.BindString(text, args...)
	if err != nil {
		panic(err)
	}
	return query
}

// DB is a bridged db connection; Create one with NewDB or Connect
type DB struct {
	*sqlx.DB
	Squote Bridge
}

// Tx is a bridged transaction; Create one with DB.Begin(x)
type Tx struct {
	*sqlx.Tx
	Squote Bridge
}

// NewDB creates a bridge between a database handle and a Builder.
// A nil builder means squote.NewBuilder().
func NewDB(db *sqlx.DB, builder *squote.Builder) *DB {
	if builder == nil {
		builder = squote.NewBuilder()
	}
	return &DB{db, Bridge{builder, db}}
}

// Connect bridges db with a Builder whose escaper matches the server's
// sql_mode. A client charset rejected by squote.CheckCharset fails with
// squote.ErrUnsafeCharset. Extra options are applied to the Builder.
func Connect(ctx context.Context, db *sqlx.DB, options ...squote.Option) (*DB, error) {
	esc, err := squote.DetectEscaper(ctx, db)
	if err != nil {
		return nil, err
	}

	options = append([]squote.Option{squote.WithEscaper(esc)}, options...)

	return NewDB(db, squote.NewBuilder(options...)), nil
}

// Begin starts and bridges a transaction
func (db *DB) Begin() (*Tx, error) {
	return db.Beginx()
}

// newTx creates a new bridge for the supplied Tx
func (db *DB) newTx(tx *sqlx.Tx) *Tx {
	return &Tx{tx, Bridge{db.Squote.Builder, tx}}
}

// Beginx starts and bridges a transaction
func (db *DB) Beginx() (*Tx, error) {
	tx, err := db.DB.Beginx()
	if err != nil {
		return nil, err
	}
	return db.newTx(tx), nil
}

// BeginTxx starts and bridges a transaction with options
func (db *DB) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.DB.BeginTxx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return db.newTx(tx), nil
}

// MustBegin starts and bridges a transaction, but panics on error
func (db *DB) MustBegin() *Tx {
	return db.newTx(db.DB.MustBegin())
}
