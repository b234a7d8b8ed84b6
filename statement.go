package squote

import (
	"context"
	"database/sql"
)

// Execer runs finished statements that return no rows.
// *sql.DB, *sql.Conn, *sql.Tx, *sqlx.DB and *sqlx.Tx satisfy it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Queryer runs finished statements that return rows
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// Stmt is a template plus params set by position. It may be rendered any
// number of times; params persist between renders and the last Set for a
// position wins. A Stmt is not safe for concurrent use.
type Stmt struct {
	b      *Builder
	tmpl   *Template
	params Params
}

// Prepare points the statement at new text, keeping its params
func (s *Stmt) Prepare(text string) *Stmt {
	s.tmpl = s.b.Template(text)
	return s
}

// Text is the statement's template text
func (s *Stmt) Text() string {
	return s.tmpl.Text()
}

// Set converts v and stores it for placeholder pos (zero-based)
func (s *Stmt) Set(pos int, v interface{}) error {
	if pos < 0 {
		return newError(ErrBadPosition, s.Text(), pos)
	}

	p, err := s.b.value(v)
	if err != nil {
		return newError(err, s.Text(), pos)
	}

	s.params.Set(pos, p)

	return nil
}

// SetParam stores an already converted param for placeholder pos
func (s *Stmt) SetParam(pos int, p Param) error {
	if pos < 0 {
		return newError(ErrBadPosition, s.Text(), pos)
	}

	if !p.valid() {
		return newError(ErrUnsupportedValue, s.Text(), pos)
	}

	if p.Kind == Null && !s.b.opt.nilValues {
		return newError(ErrNullValue, s.Text(), pos)
	}

	s.params.Set(pos, p)

	return nil
}

// Params exposes the statement's param store
func (s *Stmt) Params() *Params {
	return &s.params
}

// Reset forgets all params
func (s *Stmt) Reset() {
	s.params.Reset()
}

// Render produces the finished statement. A placeholder without a param
// fails with ErrMissingParameter.
func (s *Stmt) Render() ([]byte, error) {
	out, err := s.tmpl.render(s.b.opt.escaper, s.params.Get, ErrMissingParameter)
	if err != nil {
		return nil, s.b.fail(err)
	}

	if s.b.opt.logBinds || s.b.opt.logQuery {
		binds := make([]interface{}, s.tmpl.NumPlaceholders())
		for k := range binds {
			binds[k], _ = s.params.Get(k)
		}
		s.b.logRender(out, binds)
	}

	return out, nil
}

// Exec renders the statement and runs it on ex
func (s *Stmt) Exec(ctx context.Context, ex Execer) (sql.Result, error) {
	query, err := s.Render()
	if err != nil {
		return nil, err
	}
	return ex.ExecContext(ctx, string(query))
}

// Query renders the statement and runs it on q
func (s *Stmt) Query(ctx context.Context, q Queryer) (*sql.Rows, error) {
	query, err := s.Render()
	if err != nil {
		return nil, err
	}
	return q.QueryContext(ctx, string(query))
}
