package types

// TypeID tags a Value's dynamic type. Arithmetic and comparison dispatch on
// the (left, right) tag pair; a mismatch is a contract violation handled by
// the expression evaluator, never a silent cast.
type TypeID int

const (
	Null TypeID = iota
	Boolean
	TinyInt
	SmallInt
	Integer
	BigInt
	Decimal
	Timestamp
	Varchar
	Vector
)

func (t TypeID) String() string {
	switch t {
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case TinyInt:
		return "tinyint"
	case SmallInt:
		return "smallint"
	case Integer:
		return "integer"
	case BigInt:
		return "bigint"
	case Decimal:
		return "decimal"
	case Timestamp:
		return "timestamp"
	case Varchar:
		return "varchar"
	case Vector:
		return "vector"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether the tag participates in arithmetic.
func (t TypeID) IsNumeric() bool {
	switch t {
	case TinyInt, SmallInt, Integer, BigInt, Decimal:
		return true
	default:
		return false
	}
}

// FixedSize returns the inline storage size in bytes for types whose size
// does not depend on content, and ok=false for Varchar/Vector/Null which
// need a schema-declared length.
func (t TypeID) FixedSize() (size uint32, ok bool) {
	switch t {
	case Boolean, TinyInt:
		return 1, true
	case SmallInt:
		return 2, true
	case Integer:
		return 4, true
	case BigInt, Timestamp:
		return 8, true
	case Decimal:
		return 8, true
	default:
		return 0, false
	}
}
