package squote

import (
	"database/sql"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ParamSuite struct {
	suite.Suite
}

func TestParam(t *testing.T) {
	suite.Run(t, &ParamSuite{})
}

type status string
type level uint8

// valuer returns another valuer, which is not allowed
type valuer struct{}

func (valuer) Value() (interface{}, error) {
	return sql.NullString{String: "x", Valid: true}, nil
}

func (s *ParamSuite) TestValue() {
	when := time.Date(2024, 1, 2, 3, 4, 5, 123456789, time.UTC)
	id := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")
	str := "ptr"
	var nilStr *string

	cases := []struct {
		in   interface{}
		kind Kind
		data string
	}{
		{nil, Null, ""},
		{nilStr, Null, ""},
		{[]byte(nil), Null, ""},
		{&str, Quoted, "ptr"},
		{"a'b", Quoted, "a'b"},
		{[]byte("raw"), Quoted, "raw"},
		{[]byte{}, Quoted, ""},
		{42, Literal, "42"},
		{int64(-7), Literal, "-7"},
		{int32(8), Literal, "8"},
		{int8(-3), Literal, "-3"},
		{uint(9), Literal, "9"},
		{uint64(math.MaxUint64), Literal, "18446744073709551615"},
		{1.5, Literal, "1.5"},
		{float32(0.1), Literal, "0.1"},
		{1e21, Literal, "1000000000000000000000"},
		{true, Literal, "TRUE"},
		{false, Literal, "FALSE"},
		{when, Quoted, "2024-01-02 03:04:05.123456"},
		{time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), Quoted, "2024-01-02 03:04:05"},
		{decimal.RequireFromString("12.340"), Literal, "12.34"},
		{id, Quoted, "0f8fad5b-d9cb-469f-a165-70867728950e"},
		{status("active"), Quoted, "active"},
		{level(3), Literal, "3"},
		{sql.NullString{String: "x", Valid: true}, Quoted, "x"},
		{sql.NullString{}, Null, ""},
		{sql.NullInt64{Int64: 5, Valid: true}, Literal, "5"},
		{Int(77), Literal, "77"},
	}

	for _, c := range cases {
		p, err := Value(c.in)
		if s.Nil(err, "%#v", c.in) {
			s.Equal(c.kind, p.Kind, "%#v", c.in)
			s.Equal(c.data, string(p.Data), "%#v", c.in)
		}
	}
}

func (s *ParamSuite) TestUnsupported() {
	for _, v := range []interface{}{
		struct{}{},
		[]int{1},
		map[string]int{},
		make(chan int),
		math.NaN(),
		math.Inf(1),
		float32(math.Inf(-1)),
		valuer{},
	} {
		_, err := Value(v)
		s.True(errors.Is(err, ErrUnsupportedValue), "%#v", v)
	}
}

func (s *ParamSuite) TestPointerValuers() {
	d := decimal.RequireFromString("1.5")
	id := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")
	ns := sql.NullString{String: "x", Valid: true}
	var nilDec *decimal.Decimal

	cases := []struct {
		in   interface{}
		kind Kind
		data string
	}{
		{d, Literal, "1.5"},
		{&d, Literal, "1.5"},
		{id, Quoted, id.String()},
		{&id, Quoted, id.String()},
		{&ns, Quoted, "x"},
		{nilDec, Null, ""},
	}

	for _, c := range cases {
		p, err := Value(c.in)
		if s.Nil(err, "%#v", c.in) {
			s.Equal(c.kind, p.Kind, "%#v", c.in)
			s.Equal(c.data, string(p.Data), "%#v", c.in)
		}
	}
}

func (s *ParamSuite) TestInvalidParam() {
	for _, p := range []Param{{}, Numeric(""), {Kind: Kind(9), Data: []byte("1")}} {
		_, err := Value(p)
		s.True(errors.Is(err, ErrUnsupportedValue), "%#v", p)
		s.False(p.valid())
	}

	s.True(String("").valid())
	s.True(NullParam().valid())
	s.True(Int(0).valid())
	s.Equal("unknown", Param{}.Kind.String())
}

func (s *ParamSuite) TestBytesCopied() {
	raw := []byte("abc")
	p, err := Value(raw)
	s.Nil(err)

	raw[0] = 'x'
	s.Equal("abc", string(p.Data))
}

func (s *ParamSuite) TestSize() {
	s.Equal(4, NullParam().size())
	s.Equal(2, Int(10).size())
	s.Equal(EscapedLen(3)+2, String("abc").size())
}

func (s *ParamSuite) TestString() {
	s.Equal("NULL", NullParam().String())
	s.Equal(`"a'b"`, String("a'b").String())
	s.Equal("TRUE", Bool(true).String())

	s.Equal("literal", Literal.String())
	s.Equal("quoted", Quoted.String())
	s.Equal("null", Null.String())
	s.Equal("unknown", Kind(9).String())

	s.True(Int(1).Verbatim())
	s.True(NullParam().Verbatim())
	s.False(String("x").Verbatim())
}

func (s *ParamSuite) TestParams() {
	var ps Params
	_, ok := ps.Get(0)
	s.False(ok)
	s.Equal(0, ps.Len())

	ps.Set(1, Int(1))
	ps.Set(1, Int(2))
	ps.Set(0, String("a"))

	p, ok := ps.Get(1)
	s.True(ok)
	s.Equal("2", string(p.Data))
	s.Equal(2, ps.Len())

	ps.Reset()
	s.Equal(0, ps.Len())
	_, ok = ps.Get(0)
	s.False(ok)

	// an empty store can be reset
	var empty Params
	empty.Reset()
	s.Equal(0, empty.Len())
}

func (s *ParamSuite) TestTemplate() {
	t := ParseTemplate("a ? b ?? c")
	s.Equal(3, t.NumPlaceholders())
	s.Equal([]int{2, 6, 7}, t.marks)
	s.Equal("a ? b ?? c", t.Text())

	s.Equal(0, ParseTemplate("none").NumPlaceholders())

	out, err := t.render(Backslash, func(k int) (Param, bool) {
		return Int(int64(k)), true
	}, ErrMissingParameter)
	s.Nil(err)
	s.Equal("a 0 b 12 c", string(out))
	s.Equal(len(out), cap(out))
}
