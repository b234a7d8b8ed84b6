package squote

import (
	"context"
	"database/sql"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Builder is the core of public squote interactions.
// It renders templates and arguments into finished SQL using the escaping
// rules of the target connection. A Builder is safe for concurrent use.
type Builder struct {
	opt   Options
	cache *lru.Cache[string, *Template]
}

// NewBuilder returns a new Builder. Without options it escapes for a
// default MySQL/MariaDB session and renders nil as NULL.
func NewBuilder(options ...Option) *Builder {
	b := &Builder{opt: defaultOptions()}
	b.opt.set(options...)

	if b.opt.cacheSize > 0 {
		// only fails for a non-positive size
		b.cache, _ = lru.New[string, *Template](b.opt.cacheSize)
	}

	return b
}

// With returns a copy of the Builder with more options applied.
// The template cache is shared unless its size changes.
func (b *Builder) With(options ...Option) *Builder {
	nb := &Builder{opt: b.opt, cache: b.cache}
	nb.opt.set(options...)

	if nb.opt.cacheSize != b.opt.cacheSize {
		nb.cache = nil
		if nb.opt.cacheSize > 0 {
			nb.cache, _ = lru.New[string, *Template](nb.opt.cacheSize)
		}
	}

	return nb
}

// Escaper returns the Builder's escaping primitive
func (b *Builder) Escaper() Escaper {
	return b.opt.escaper
}

// Template returns the parsed form of text, from cache when possible
func (b *Builder) Template(text string) *Template {
	if b.cache == nil {
		return ParseTemplate(text)
	}

	if t, ok := b.cache.Get(text); ok {
		return t
	}

	t := ParseTemplate(text)
	b.cache.Add(text, t)

	return t
}

// Escape escapes src for the Builder's connection (no quotes)
func (b *Builder) Escape(src []byte) []byte {
	return Escape(b.opt.escaper, src)
}

// EscapeQuoted escapes src and wraps it in single quotes
func (b *Builder) EscapeQuoted(src []byte) []byte {
	return EscapeQuoted(b.opt.escaper, src)
}

// Bind renders text with args bound to its placeholders in order: the first
// argument replaces the first '?', and so on. Missing arguments fail with
// ErrUnresolvedPlaceholder; extra arguments are ignored.
//
// sql, err := b.Bind("INSERT INTO t VALUES (?, ?)", 12, "a'b")
func (b *Builder) Bind(text string, args ...interface{}) ([]byte, error) {
	t := b.Template(text)

	n := len(args)
	if n > t.NumPlaceholders() {
		n = t.NumPlaceholders()
	}

	params := make([]Param, n)
	for i := 0; i < n; i++ {
		p, err := b.value(args[i])
		if err != nil {
			return nil, b.fail(newError(err, text, i))
		}
		params[i] = p
	}

	out, err := t.render(b.opt.escaper, func(k int) (Param, bool) {
		if k < len(params) {
			return params[k], true
		}
		return Param{}, false
	}, ErrUnresolvedPlaceholder)

	if err != nil {
		return nil, b.fail(err)
	}

	b.logRender(out, args)

	return out, nil
}

// BindString is Bind returning a string
func (b *Builder) BindString(text string, args ...interface{}) (string, error) {
	out, err := b.Bind(text, args...)
	return string(out), err
}

// Prepare starts a statement whose params are set by position
func (b *Builder) Prepare(text string) *Stmt {
	return &Stmt{b: b, tmpl: b.Template(text)}
}

// Exec binds args into text and runs the result on ex
func (b *Builder) Exec(ctx context.Context, ex Execer, text string, args ...interface{}) (sql.Result, error) {
	query, err := b.Bind(text, args...)
	if err != nil {
		return nil, err
	}
	return ex.ExecContext(ctx, string(query))
}

// Query binds args into text and runs the result on q
func (b *Builder) Query(ctx context.Context, q Queryer, text string, args ...interface{}) (*sql.Rows, error) {
	query, err := b.Bind(text, args...)
	if err != nil {
		return nil, err
	}
	return q.QueryContext(ctx, string(query))
}

// value converts v, honoring the nil handling option
func (b *Builder) value(v interface{}) (Param, error) {
	p, err := Value(v)
	if err == nil && p.Kind == Null && !b.opt.nilValues {
		return Param{}, ErrNullValue
	}
	return p, err
}

func (b *Builder) log(level LogLevel, msg string, data map[string]interface{}) {
	if b.opt.logger != nil && b.opt.logLevel >= level {
		b.opt.logger.Log(level, msg, data)
	}
}

func (b *Builder) logRender(query []byte, binds []interface{}) {
	if b.opt.logQuery {
		b.log(LogLevelInfo, "SQL:", map[string]interface{}{"sql": string(query)})
	}

	if b.opt.logBinds {
		b.log(LogLevelInfo, "BINDS:", map[string]interface{}{"binds": logArgs(binds)})
	}
}

// fail logs render errors when query or bind logging is on
func (b *Builder) fail(err error) error {
	if !b.opt.logQuery && !b.opt.logBinds {
		return err
	}
	b.log(LogLevelError, "render failed", map[string]interface{}{"err": err})
	return err
}
