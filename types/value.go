package types

import (
	"bytes"
	"fmt"
	"math"
	"time"
)

// CompareResult is the tri-valued outcome of a comparison: ternary logic
// propagates Unknown (SQL NULL) through AND/OR/NOT the way spec.md's
// expression evaluator requires.
type CompareResult int

const (
	False CompareResult = iota
	True
	Unknown
)

// Value is a tagged union over the SQL value domain this core understands:
// null, bool, the integer family, decimal, timestamp, varchar and vector.
// Values are immutable after construction; Varchar copies its input buffer
// so the caller's slice may be reused.
type Value struct {
	typ TypeID

	boolean bool
	integer int64 // backs TinyInt/SmallInt/Integer/BigInt
	decimal float64
	ts      time.Time
	varchar []byte
	vector  []float64

	isNull bool
}

func NewNull() Value                 { return Value{typ: Null, isNull: true} }
func NewBoolean(v bool) Value        { return Value{typ: Boolean, boolean: v} }
func NewTinyInt(v int8) Value        { return Value{typ: TinyInt, integer: int64(v)} }
func NewSmallInt(v int16) Value      { return Value{typ: SmallInt, integer: int64(v)} }
func NewInteger(v int32) Value       { return Value{typ: Integer, integer: int64(v)} }
func NewBigInt(v int64) Value        { return Value{typ: BigInt, integer: v} }
func NewDecimal(v float64) Value     { return Value{typ: Decimal, decimal: v} }
func NewTimestamp(v time.Time) Value { return Value{typ: Timestamp, ts: v} }

func NewVarchar(v string) Value {
	buf := make([]byte, len(v))
	copy(buf, v)
	return Value{typ: Varchar, varchar: buf}
}

// NewVector copies the given slice so the Value owns its storage.
func NewVector(v []float64) Value {
	buf := make([]float64, len(v))
	copy(buf, v)
	return Value{typ: Vector, vector: buf}
}

func (v Value) Type() TypeID { return v.typ }
func (v Value) IsNull() bool { return v.isNull }

func (v Value) AsBoolean() bool        { return v.boolean }
func (v Value) AsInt64() int64         { return v.integer }
func (v Value) AsDecimal() float64     { return v.decimal }
func (v Value) AsTimestamp() time.Time { return v.ts }
func (v Value) AsString() string       { return string(v.varchar) }
func (v Value) AsVector() []float64    { return v.vector }

// Dimension returns the vector's dimension, or 0 for a non-vector value.
func (v Value) Dimension() int {
	if v.typ != Vector {
		return 0
	}
	return len(v.vector)
}

func (v Value) numeric() float64 {
	switch v.typ {
	case Decimal:
		return v.decimal
	default:
		return float64(v.integer)
	}
}

// CompareEquals implements tri-valued equality; NULL compares Unknown with
// anything, including another NULL (SQL semantics).
func (v Value) CompareEquals(right Value) CompareResult {
	if v.isNull || right.isNull {
		return Unknown
	}
	Assert(v.typ == right.typ, "CompareEquals: type mismatch %s vs %s", v.typ, right.typ)
	switch v.typ {
	case Boolean:
		return boolResult(v.boolean == right.boolean)
	case Varchar:
		return boolResult(bytes.Equal(v.varchar, right.varchar))
	case Vector:
		return boolResult(vectorEquals(v.vector, right.vector))
	case Timestamp:
		return boolResult(v.ts.Equal(right.ts))
	default:
		return boolResult(v.numeric() == right.numeric())
	}
}

func (v Value) CompareNotEquals(right Value) CompareResult {
	return negate(v.CompareEquals(right))
}

func (v Value) CompareLessThan(right Value) CompareResult {
	if v.isNull || right.isNull {
		return Unknown
	}
	switch v.typ {
	case Varchar:
		return boolResult(bytes.Compare(v.varchar, right.varchar) < 0)
	case Timestamp:
		return boolResult(v.ts.Before(right.ts))
	case Boolean, Vector:
		panic("CompareLessThan: not ordered for " + v.typ.String())
	default:
		return boolResult(v.numeric() < right.numeric())
	}
}

func (v Value) CompareLessThanEquals(right Value) CompareResult {
	lt := v.CompareLessThan(right)
	if lt == Unknown {
		return Unknown
	}
	if lt == True {
		return True
	}
	return v.CompareEquals(right)
}

func (v Value) CompareGreaterThan(right Value) CompareResult {
	return negate(v.CompareLessThanEquals(right))
}

func (v Value) CompareGreaterThanEquals(right Value) CompareResult {
	return negate(v.CompareLessThan(right))
}

func negate(r CompareResult) CompareResult {
	switch r {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

func boolResult(b bool) CompareResult {
	if b {
		return True
	}
	return False
}

func vectorEquals(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Add implements numeric addition; NULL propagates.
func (v Value) Add(right Value) Value {
	if v.isNull || right.isNull {
		return NewNull()
	}
	Assert(v.typ.IsNumeric() && right.typ.IsNumeric(), "Add: non-numeric operand")
	return arith(v, right, func(a, b float64) float64 { return a + b })
}

func (v Value) Sub(right Value) Value {
	if v.isNull || right.isNull {
		return NewNull()
	}
	return arith(v, right, func(a, b float64) float64 { return a - b })
}

func (v Value) Mul(right Value) Value {
	if v.isNull || right.isNull {
		return NewNull()
	}
	return arith(v, right, func(a, b float64) float64 { return a * b })
}

func (v Value) Div(right Value) Value {
	if v.isNull || right.isNull {
		return NewNull()
	}
	return arith(v, right, func(a, b float64) float64 { return a / b })
}

func arith(l, r Value, f func(a, b float64) float64) Value {
	result := f(l.numeric(), r.numeric())
	if l.typ == Decimal || r.typ == Decimal {
		return NewDecimal(result)
	}
	return NewBigInt(int64(math.Round(result)))
}

func (v Value) String() string {
	if v.isNull {
		return "NULL"
	}
	switch v.typ {
	case Boolean:
		return fmt.Sprintf("%t", v.boolean)
	case Varchar:
		return string(v.varchar)
	case Vector:
		return fmt.Sprintf("%v", v.vector)
	case Decimal:
		return fmt.Sprintf("%g", v.decimal)
	case Timestamp:
		return v.ts.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%d", v.integer)
	}
}

// Assert panics with a formatted message when condition is false, matching
// the teacher's common.SH_Assert idiom but kept local to types so this
// package has no dependency on the executor-facing errs package.
func Assert(condition bool, format string, args ...interface{}) {
	if !condition {
		panic(fmt.Sprintf(format, args...))
	}
}
