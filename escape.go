package squote

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
)

// Escaper is a connection's byte-escaping primitive.
//
// EscapeBytes writes the escaped form of src into dst and returns the number
// of bytes written. The caller guarantees len(dst) >= EscapedLen(len(src)).
// The output is a string literal body; it does not include surrounding quotes.
type Escaper interface {
	EscapeBytes(dst, src []byte) int
}

// EscaperFunc adapts a function to the Escaper interface
type EscaperFunc func(dst, src []byte) int

func (f EscaperFunc) EscapeBytes(dst, src []byte) int {
	return f(dst, src)
}

var (
	// Backslash escapes the way MySQL and MariaDB do by default
	Backslash Escaper = backslash{}

	// QuoteDoubling only doubles single quotes. Use it for MySQL in
	// NO_BACKSLASH_ESCAPES mode, ANSI SQL, SQLite and PostgreSQL with
	// standard_conforming_strings on.
	QuoteDoubling Escaper = quoteDoubling{}
)

// the built in escapers are comparable, so callers can tell them apart
type backslash struct{}

func (backslash) EscapeBytes(dst, src []byte) int { return escapeBackslash(dst, src) }

type quoteDoubling struct{}

func (quoteDoubling) EscapeBytes(dst, src []byte) int { return escapeQuotes(dst, src) }

// EscapedLen is the worst case escaped size of n input bytes
func EscapedLen(n int) int {
	return 2*n + 1
}

// Escape returns src escaped by e, without surrounding quotes
func Escape(e Escaper, src []byte) []byte {
	return appendEscaped(nil, e, src)
}

// EscapeQuoted returns src escaped by e and wrapped in single quotes
func EscapeQuoted(e Escaper, src []byte) []byte {
	return appendQuoted(make([]byte, 0, EscapedLen(len(src))+2), e, src)
}

// EscapeString is Escape for strings
func EscapeString(e Escaper, s string) string {
	return string(Escape(e, []byte(s)))
}

// appendEscaped reserves the worst case for src, escapes into it, then
// truncates to what the primitive reported.
func appendEscaped(buf []byte, e Escaper, src []byte) []byte {
	n := len(buf)
	need := EscapedLen(len(src))
	buf = slices.Grow(buf, need)
	w := e.EscapeBytes(buf[n:n+need], src)
	return buf[:n+w]
}

func appendQuoted(buf []byte, e Escaper, src []byte) []byte {
	buf = append(buf, '\'')
	buf = appendEscaped(buf, e, src)
	return append(buf, '\'')
}

func escapeBackslash(dst, src []byte) int {
	w := 0
	for _, c := range src {
		var esc byte
		switch c {
		case 0:
			esc = '0'
		case '\n':
			esc = 'n'
		case '\r':
			esc = 'r'
		case '\\':
			esc = '\\'
		case '\'':
			esc = '\''
		case '"':
			esc = '"'
		case '\032':
			esc = 'Z'
		default:
			dst[w] = c
			w++
			continue
		}
		dst[w] = '\\'
		dst[w+1] = esc
		w += 2
	}
	return w
}

func escapeQuotes(dst, src []byte) int {
	w := 0
	for _, c := range src {
		if c == '\'' {
			dst[w] = '\''
			w++
		}
		dst[w] = c
		w++
	}
	return w
}

// RowQueryer is the part of a connection needed to detect its escaping mode.
// *sql.DB, *sql.Conn, *sql.Tx and their sqlx wrappers all qualify.
type RowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// DetectEscaper asks a MySQL/MariaDB connection for its session sql_mode and
// client charset, and returns the matching Escaper. A charset rejected by
// CheckCharset fails with ErrUnsafeCharset.
//
// Note that with a pooled *sql.DB the answer reflects whichever connection
// served the query; a session that changes sql_mode or charset afterwards
// needs to detect again on that same *sql.Conn.
func DetectEscaper(ctx context.Context, q RowQueryer) (Escaper, error) {
	var mode, charset string
	err := q.QueryRowContext(ctx, "SELECT @@SESSION.sql_mode, @@SESSION.character_set_client").Scan(&mode, &charset)
	if err != nil {
		return nil, err
	}

	if err := CheckCharset(charset); err != nil {
		return nil, err
	}

	return EscaperForMode(mode), nil
}

// multibyte charsets where a character's trailing byte can be 0x5C
var unsafeCharsets = map[string]bool{
	"big5":    true,
	"cp932":   true,
	"gb2312":  true,
	"gb18030": true,
	"gbk":     true,
	"sjis":    true,
}

// CheckCharset fails with ErrUnsafeCharset for a charset, or a collation of
// one, that can absorb an escaping backslash into a multibyte character.
// Statements rendered for such connections can be injected.
func CheckCharset(name string) error {
	cs := strings.ToLower(strings.Trim(name, " '\""))
	if i := strings.IndexByte(cs, '_'); i > 0 {
		cs = cs[:i]
	}

	if unsafeCharsets[cs] {
		return fmt.Errorf("%w: %s", ErrUnsafeCharset, name)
	}

	return nil
}

// EscaperForMode picks an Escaper for a MySQL sql_mode value.
// Quotes around the value (as written in a DSN) are ignored.
func EscaperForMode(mode string) Escaper {
	for _, m := range strings.Split(mode, ",") {
		if strings.EqualFold(strings.Trim(m, " '\""), "NO_BACKSLASH_ESCAPES") {
			return QuoteDoubling
		}
	}

	return Backslash
}
