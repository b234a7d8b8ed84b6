package squote

import "strings"

// Placeholder is the marker substituted by rendering
const Placeholder = '?'

// Template is parsed statement text. It records where each placeholder sits
// so rendering can copy the literal spans between them in one go.
// Templates are immutable and may be shared between goroutines.
type Template struct {
	text  string
	marks []int
}

// ParseTemplate locates every placeholder in text. No SQL parsing is done:
// a '?' inside a quoted string or comment is still a placeholder.
func ParseTemplate(text string) *Template {
	t := &Template{text: text}

	if n := strings.Count(text, string(Placeholder)); n > 0 {
		t.marks = make([]int, 0, n)
		for i := 0; i < len(text); i++ {
			if text[i] == Placeholder {
				t.marks = append(t.marks, i)
			}
		}
	}

	return t
}

// Text is the original template text
func (t *Template) Text() string {
	return t.text
}

// NumPlaceholders is the number of '?' markers
func (t *Template) NumPlaceholders() int {
	return len(t.marks)
}

// lookupFn resolves the param for placeholder k
type lookupFn func(k int) (Param, bool)

// render substitutes params into the template. Every placeholder is resolved
// and sized before anything is written, so a failure never leaves a partial
// statement behind; missing is the error reported for an absent position.
func (t *Template) render(e Escaper, get lookupFn, missing error) ([]byte, error) {
	if len(t.marks) == 0 {
		return []byte(t.text), nil
	}

	params := make([]Param, len(t.marks))
	size := len(t.text) - len(t.marks)

	for k := range t.marks {
		p, ok := get(k)
		if !ok {
			return nil, newError(missing, t.text, k)
		}
		params[k] = p
		size += p.size()
	}

	buf := make([]byte, 0, size)
	start := 0

	for k, at := range t.marks {
		buf = append(buf, t.text[start:at]...)
		start = at + 1

		if p := params[k]; p.Verbatim() {
			buf = append(buf, p.payload()...)
		} else {
			buf = appendQuoted(buf, e, p.Data)
		}
	}

	buf = append(buf, t.text[start:]...)

	return buf[:len(buf):len(buf)], nil
}
