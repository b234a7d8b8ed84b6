package squote

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// conveniences
type args = []interface{}

type SquoteSuite struct {
	suite.Suite
	q *Builder
}

func TestSquote(t *testing.T) {
	suite.Run(t, &SquoteSuite{})
}

func (s *SquoteSuite) SetupSuite() {
	s.q = NewBuilder()
}

func (s *SquoteSuite) TestBasic() {
	s.check("", "", nil)
	s.check("select 1", "select 1", nil)
	s.check("select 1", "select 1", args{"ignored"})
	s.check("insert into t values(12, 'a\\'b')", "insert into t values(?, ?)", args{12, "a'b"})
	s.check("?", "?", args{Numeric("?")})
	s.check("'x''?'", "??", args{"x", "?"})
	s.check("a = NULL", "a = ?", args{nil})
	s.check("SELECT TRUE, FALSE", "SELECT ?, ?", args{true, false})
}

func (s *SquoteSuite) TestLiteralsNotParsed() {
	// a '?' inside quotes is still a placeholder
	s.check("select 'what1'", "select 'what?'", args{1})
}

func (s *SquoteSuite) TestUnresolved() {
	_, err := s.q.Bind("insert into t values(?, ?)", 12)
	s.True(errors.Is(err, ErrUnresolvedPlaceholder))

	var e *Error
	if s.True(errors.As(err, &e)) {
		s.Equal(1, e.Position)
		s.Equal("insert into t values(?, ?)", e.SQL)
		s.Contains(e.Error(), "at position 1")
	}
}

func (s *SquoteSuite) TestUnsupported() {
	_, err := s.q.Bind("select ?, ?", 1, make(chan int))
	s.True(errors.Is(err, ErrUnsupportedValue))

	var e *Error
	if s.True(errors.As(err, &e)) {
		s.Equal(1, e.Position)
	}
}

func (s *SquoteSuite) TestPointers() {
	d := decimal.RequireFromString("1.5")
	s.check("select 1.5, 1.5", "select ?, ?", args{d, &d})

	_, err := s.q.Bind("select ?", Param{})
	s.True(errors.Is(err, ErrUnsupportedValue))
}

func (s *SquoteSuite) TestNilValues() {
	q := s.q.With(NilValues(false))

	var p *int
	for _, v := range (args{nil, p, []byte(nil)}) {
		_, err := q.Bind("select ?", v)
		s.True(errors.Is(err, ErrNullValue), "%#v", v)
	}

	s.check("select NULL, NULL, ''", "select ?, ?, ?", args{p, []byte(nil), []byte{}})
}

func (s *SquoteSuite) TestEscaper() {
	q := s.q.With(WithEscaper(QuoteDoubling))
	s.Equal(QuoteDoubling, q.Escaper())
	s.Equal(Backslash, s.q.Escaper())

	out, err := q.BindString("select ?", `it's C:\`)
	s.Nil(err)
	s.Equal(`select 'it''s C:\'`, out)

	s.Equal([]byte(`a\'b`), s.q.Escape([]byte("a'b")))
	s.Equal([]byte(`'a''b'`), q.EscapeQuoted([]byte("a'b")))

	// nil is ignored
	s.Equal(Backslash, s.q.With(WithEscaper(nil)).Escaper())
}

func (s *SquoteSuite) TestIdempotent() {
	first, err := s.q.Bind("select ?, ?", "a\x00b", 3.25)
	s.Nil(err)

	for i := 0; i < 3; i++ {
		again, err := s.q.Bind("select ?, ?", "a\x00b", 3.25)
		s.Nil(err)
		s.Equal(first, again)
	}

	s.Equal(`select 'a\0b', 3.25`, string(first))
}

func (s *SquoteSuite) TestStmt() {
	st := s.q.Prepare("select * from t where id = ?")
	s.Equal("select * from t where id = ?", st.Text())

	s.Nil(st.Set(0, 5))
	s.render(st, "select * from t where id = 5")

	// last set wins, and params persist
	s.Nil(st.Set(0, 6))
	s.render(st, "select * from t where id = 6")
	s.render(st, "select * from t where id = 6")
	s.Equal(1, st.Params().Len())

	// positions beyond the template are ignored
	s.Nil(st.Set(3, "extra"))
	s.render(st, "select * from t where id = 6")

	// new text keeps params
	st.Prepare("delete from t where id = ?")
	s.render(st, "delete from t where id = 6")

	st.Reset()
	s.Equal(0, st.Params().Len())
	_, err := st.Render()
	s.True(errors.Is(err, ErrMissingParameter))
}

func (s *SquoteSuite) TestStmtFailFast() {
	st := s.q.Prepare("insert into t values(?, ?)")
	s.Nil(st.Set(0, "a"))

	out, err := st.Render()
	s.Nil(out)
	s.True(errors.Is(err, ErrMissingParameter))

	var e *Error
	if s.True(errors.As(err, &e)) {
		s.Equal(1, e.Position)
	}

	// set out of order
	s.Nil(st.SetParam(1, Int(2)))
	s.render(st, "insert into t values('a', 2)")
}

func (s *SquoteSuite) TestStmtErrors() {
	st := s.q.Prepare("select ?")

	s.True(errors.Is(st.Set(-1, 1), ErrBadPosition))
	s.True(errors.Is(st.SetParam(-1, Int(1)), ErrBadPosition))
	s.True(errors.Is(st.Set(0, struct{}{}), ErrUnsupportedValue))
	s.True(errors.Is(st.SetParam(0, Param{}), ErrUnsupportedValue))
	s.Equal(0, st.Params().Len())

	strict := s.q.With(NilValues(false)).Prepare("select ?")
	s.True(errors.Is(strict.Set(0, nil), ErrNullValue))
	s.True(errors.Is(strict.SetParam(0, NullParam()), ErrNullValue))
	s.Equal(0, strict.Params().Len())
}

func (s *SquoteSuite) TestStmtExec() {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	s.Require().NoError(err)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec(`update t set name = 'O\'Brien' where id = 4`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`select name from t where id = 4`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("O'Brien"))
	mock.ExpectExec(`delete from t where id = 9`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`select 'x'`).
		WillReturnRows(sqlmock.NewRows([]string{"x"}).AddRow("x"))

	st := s.q.Prepare("update t set name = ? where id = ?")
	s.Nil(st.Set(0, "O'Brien"))
	s.Nil(st.Set(1, 4))

	res, err := st.Exec(ctx, db)
	if s.Nil(err) {
		n, _ := res.RowsAffected()
		s.Equal(int64(1), n)
	}

	st.Prepare("select name from t where id = ?")
	s.Nil(st.SetParam(0, Int(4)))

	rows, err := st.Query(ctx, db)
	if s.Nil(err) {
		s.True(rows.Next())
		var name string
		s.Nil(rows.Scan(&name))
		s.Equal("O'Brien", name)
		s.Nil(rows.Close())
	}

	_, err = s.q.Exec(ctx, db, "delete from t where id = ?", 9)
	s.Nil(err)

	rows, err = s.q.Query(ctx, db, "select ?", "x")
	if s.Nil(err) {
		s.Nil(rows.Close())
	}

	// nothing reaches the database on failure
	_, err = s.q.Exec(ctx, db, "delete from t where id = ?")
	s.NotNil(err)
	_, err = s.q.Query(ctx, db, "select ?")
	s.NotNil(err)
	st.Reset()
	_, err = st.Exec(ctx, db)
	s.NotNil(err)
	_, err = st.Query(ctx, db)
	s.NotNil(err)

	s.Nil(mock.ExpectationsWereMet())
}

func (s *SquoteSuite) TestCache() {
	q := NewBuilder()
	t1 := q.Template("select ?")
	s.Same(t1, q.Template("select ?"))
	s.Equal(1, t1.NumPlaceholders())

	// With shares the cache
	s.Same(t1, q.With(Log(true)).Template("select ?"))

	// unless the size changes
	s.NotSame(t1, q.With(CacheSize(8)).Template("select ?"))

	off := NewBuilder(CacheSize(-1))
	s.NotSame(off.Template("select ?"), off.Template("select ?"))
}

func (s *SquoteSuite) TestLog() {
	w := log.Writer()
	defer log.SetOutput(w)

	var buf bytes.Buffer
	log.SetOutput(&buf)

	// log everything
	_, _ = s.q.With(Log(true)).Bind("select ?", 3)
	s.Contains(buf.String(), "SQL:")
	s.Contains(buf.String(), "BINDS:")

	// log only query
	buf.Reset()
	_, _ = s.q.With(LogQuery(true)).Bind("select ?", 3)
	s.Contains(buf.String(), "SQL:")
	s.NotContains(buf.String(), "BINDS:")

	// log only binds
	buf.Reset()
	st := s.q.With(LogBinds(true)).Prepare("select ?")
	_ = st.Set(0, 3)
	_, _ = st.Render()
	s.NotContains(buf.String(), "SQL:")
	s.Contains(buf.String(), "BINDS:")

	// failures are silent by default
	buf.Reset()
	_, _ = s.q.Bind("select ?")
	st = s.q.Prepare("select ?")
	_, _ = st.Render()
	s.Empty(buf.String())

	// and logged at error once logging is on
	_, _ = s.q.With(LogQuery(true)).Bind("select ?")
	s.Contains(buf.String(), "[error] render failed")

	// unless the level is too low
	buf.Reset()
	_, _ = s.q.With(Log(true), WithLogLevel(LogLevelNone)).Bind("select ?")
	s.Empty(buf.String())

	// or there is no logger
	_, _ = s.q.With(Log(true), WithLogger(nil)).Bind("select ?")
	s.Empty(buf.String())
}

func (s *SquoteSuite) TestLogArgs() {
	long := strings.Repeat("x", 70)
	out := logArgs(args{[]byte{1, 2}, long, "short", String(long), Int(3), 4})

	s.Equal("0102", out[0])
	s.Equal(long[:64]+" (truncated 6 bytes)", out[1])
	s.Equal("short", out[2])
	s.Equal(long[:64]+" (truncated 6 bytes)", out[3])
	s.Equal("3", out[4])
	s.Equal(4, out[5])
}

func (s *SquoteSuite) TestLogLevel() {
	for _, name := range []string{"trace", "debug", "info", "warn", "error", "none"} {
		level, err := LogLevelFromString(name)
		s.Nil(err)
		s.Equal(name, level.String())
	}

	_, err := LogLevelFromString("loud")
	s.NotNil(err)
	s.Equal("invalid level 0", LogLevel(0).String())
}

func (s *SquoteSuite) check(want, text string, binds args) {
	got, err := s.q.BindString(text, binds...)
	if s.Nil(err, text) {
		s.Equal(want, got, text)
	}
}

func (s *SquoteSuite) render(st *Stmt, want string) {
	got, err := st.Render()
	if s.Nil(err) {
		s.Equal(want, string(got))
	}
}
