package squote

import (
	"database/sql/driver"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind says how a Param is rendered. The zero Kind is invalid.
type Kind uint8

const (
	// Literal data is copied into the statement verbatim (numbers, TRUE, ...)
	Literal Kind = iota + 1
	// Quoted data is escaped and wrapped in single quotes at render time
	Quoted
	// Null renders as NULL
	Null
)

func (k Kind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Quoted:
		return "quoted"
	case Null:
		return "null"
	default:
		return "unknown"
	}
}

// TimeFormat is how time.Time values are rendered (MySQL DATETIME(6))
const TimeFormat = "2006-01-02 15:04:05.999999"

var nullText = []byte("NULL")

// Param is a single placeholder value.
// Quoted data is kept raw; escaping is deferred until render.
type Param struct {
	Kind Kind
	Data []byte
}

// Verbatim reports whether the param is inserted without escaping
func (p Param) Verbatim() bool {
	return p.Kind != Quoted
}

// payload is the raw bytes the renderer inserts (before escaping)
func (p Param) payload() []byte {
	if p.Kind == Null {
		return nullText
	}
	return p.Data
}

// valid reports whether p can be rendered. The zero Param and an empty
// Literal are not.
func (p Param) valid() bool {
	switch p.Kind {
	case Literal:
		return len(p.Data) > 0
	case Quoted, Null:
		return true
	}
	return false
}

// size is the worst case number of bytes p adds to a statement
func (p Param) size() int {
	if p.Verbatim() {
		return len(p.payload())
	}
	return EscapedLen(len(p.Data)) + 2
}

func (p Param) String() string {
	switch p.Kind {
	case Quoted:
		return strconv.Quote(string(p.Data))
	case Null:
		return "NULL"
	default:
		return string(p.Data)
	}
}

// NullParam is SQL NULL
func NullParam() Param {
	return Param{Kind: Null}
}

// Numeric wraps text the caller asserts is already a valid SQL numeric token
func Numeric(text string) Param {
	return Param{Kind: Literal, Data: []byte(text)}
}

// Int renders i in base 10
func Int(i int64) Param {
	return Param{Kind: Literal, Data: strconv.AppendInt(nil, i, 10)}
}

// Uint renders u in base 10
func Uint(u uint64) Param {
	return Param{Kind: Literal, Data: strconv.AppendUint(nil, u, 10)}
}

// Float renders f without an exponent. NaN and infinities have no SQL
// literal and are rejected.
func Float(f float64, bitSize int) (Param, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Param{}, fmt.Errorf("%w: %v", ErrUnsupportedValue, f)
	}
	return Param{Kind: Literal, Data: strconv.AppendFloat(nil, f, 'f', -1, bitSize)}, nil
}

// Bool renders TRUE or FALSE
func Bool(b bool) Param {
	if b {
		return Param{Kind: Literal, Data: []byte("TRUE")}
	}
	return Param{Kind: Literal, Data: []byte("FALSE")}
}

// String is a quoted text param
func String(s string) Param {
	return Param{Kind: Quoted, Data: []byte(s)}
}

// Bytes is a quoted binary param. b is copied.
func Bytes(b []byte) Param {
	data := make([]byte, len(b))
	copy(data, b)
	return Param{Kind: Quoted, Data: data}
}

// Time is a quoted param in TimeFormat, truncated to microseconds.
// The time zone is not converted.
func Time(t time.Time) Param {
	return Param{Kind: Quoted, Data: t.Truncate(time.Microsecond).AppendFormat(nil, TimeFormat)}
}

// Value converts a Go value into a Param.
//
// Integers, floats, bools and decimal.Decimal become literals; strings, byte
// slices, time.Time and uuid.UUID are quoted; nil (including nil pointers
// and nil byte slices) is NULL. Other driver.Valuer types are converted
// through their Value method.
func Value(v interface{}) (Param, error) {
	switch x := v.(type) {
	case nil:
		return NullParam(), nil
	case Param:
		if !x.valid() {
			return Param{}, fmt.Errorf("%w: %s param %q", ErrUnsupportedValue, x.Kind, x.Data)
		}
		return x, nil
	case string:
		return String(x), nil
	case []byte:
		if x == nil {
			return NullParam(), nil
		}
		return Bytes(x), nil
	case int:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case int32:
		return Int(int64(x)), nil
	case uint64:
		return Uint(x), nil
	case float64:
		return Float(x, 64)
	case float32:
		return Float(float64(x), 32)
	case bool:
		return Bool(x), nil
	case time.Time:
		return Time(x), nil
	case decimal.Decimal:
		return Numeric(x.String()), nil
	case uuid.UUID:
		return String(x.String()), nil
	case driver.Valuer:
		return valuerParam(x)
	}

	return reflectParam(v, reflect.ValueOf(v))
}

func valuerParam(x driver.Valuer) (Param, error) {
	if rv := reflect.ValueOf(x); rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return NullParam(), nil
		}
		// *decimal.Decimal renders like decimal.Decimal
		if elem, ok := rv.Elem().Interface().(driver.Valuer); ok {
			return Value(elem)
		}
	}

	dv, err := x.Value()
	if err != nil {
		return Param{}, err
	}

	// a Valuer must produce a plain driver.Value
	if _, again := dv.(driver.Valuer); again {
		return Param{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, x)
	}

	return Value(dv)
}

// reflectParam handles named types and pointers
func reflectParam(orig interface{}, rv reflect.Value) (Param, error) {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return NullParam(), nil
		}
		return Value(rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint()), nil
	case reflect.Float32:
		return Float(rv.Float(), 32)
	case reflect.Float64:
		return Float(rv.Float(), 64)
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			if rv.IsNil() {
				return NullParam(), nil
			}
			return Bytes(rv.Bytes()), nil
		}
	}

	return Param{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, orig)
}
