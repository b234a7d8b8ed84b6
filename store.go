package squote

// Params maps placeholder positions (zero-based, in template order) to values.
// The zero value is ready to use. Params is not safe for concurrent use.
type Params struct {
	m map[int]Param
}

// Set stores p at pos, replacing anything already there
func (ps *Params) Set(pos int, p Param) {
	if ps.m == nil {
		ps.m = make(map[int]Param)
	}
	ps.m[pos] = p
}

// Get returns the param at pos, if one was set
func (ps *Params) Get(pos int) (Param, bool) {
	p, ok := ps.m[pos]
	return p, ok
}

// Len is the number of positions set
func (ps *Params) Len() int {
	return len(ps.m)
}

// Reset forgets every position
func (ps *Params) Reset() {
	for k := range ps.m {
		delete(ps.m, k)
	}
}
