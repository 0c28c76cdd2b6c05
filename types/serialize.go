package types

import (
	"encoding/binary"
	"math"
	"time"
)

// SerializedSize returns the number of bytes this value occupies in a
// tuple's byte layout. Fixed-width types return a constant; Varchar and
// Vector are length-prefixed (4-byte count) followed by their payload.
func (v Value) SerializedSize() uint32 {
	if size, ok := v.typ.FixedSize(); ok {
		return 1 + size // +1 null-flag byte
	}
	switch v.typ {
	case Varchar:
		return 1 + 4 + uint32(len(v.varchar))
	case Vector:
		return 1 + 4 + uint32(len(v.vector))*8
	default:
		return 1
	}
}

// Serialize appends this value's wire encoding to buf and returns the
// extended slice. Layout: 1 null-flag byte, then the type's payload, keyed
// off the value's own type tag — a NULL value (typ == Null) writes no
// payload at all, since it has no type of its own to size one against.
// Callers serializing into a schema-typed tuple slot, where a NULL must
// still pad out to the column's declared width, use SerializeAs instead;
// this method remains the right choice for schema-free uses such as
// hashing a value tuple into an index or join key.
func (v Value) Serialize(buf []byte) []byte {
	var nullFlag byte
	if v.isNull {
		nullFlag = 1
	}
	buf = append(buf, nullFlag)

	switch v.typ {
	case Boolean:
		var b byte
		if v.boolean {
			b = 1
		}
		buf = append(buf, b)
	case TinyInt:
		buf = append(buf, byte(int8(v.integer)))
	case SmallInt:
		var tmp [2]byte
		binary.LittleEndian.PutUint16(tmp[:], uint16(int16(v.integer)))
		buf = append(buf, tmp[:]...)
	case Integer:
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], uint32(int32(v.integer)))
		buf = append(buf, tmp[:]...)
	case BigInt, Timestamp:
		var tmp [8]byte
		val := v.integer
		if v.typ == Timestamp {
			val = v.ts.UnixNano()
		}
		binary.LittleEndian.PutUint64(tmp[:], uint64(val))
		buf = append(buf, tmp[:]...)
	case Decimal:
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v.decimal))
		buf = append(buf, tmp[:]...)
	case Varchar:
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(v.varchar)))
		buf = append(buf, lenBuf[:]...)
		buf = append(buf, v.varchar...)
	case Vector:
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(v.vector)))
		buf = append(buf, lenBuf[:]...)
		for _, f := range v.vector {
			var tmp [8]byte
			binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(f))
			buf = append(buf, tmp[:]...)
		}
	}
	return buf
}

// SerializeAs appends this value's wire encoding to buf, sized to fit a
// column typed colType (dim, the column's vector dimension, is not used:
// Vector payloads are length-prefixed). Unlike Serialize, a NULL value here still pads out
// to colType's fixed width: Deserialize dispatches on the schema's column
// type rather than the value's own (a NULL value carries no type of its
// own), so it always reads a fixed-width column's full payload regardless
// of the null flag — the payload bytes must exist even though they are
// never looked at. Varchar and Vector are already length-prefixed, so a
// NULL there just writes a zero length and needs no extra padding.
func (v Value) SerializeAs(buf []byte, colType TypeID, dim uint32) []byte {
	if !v.isNull {
		Assert(v.typ == colType, "SerializeAs: value type %s does not match column type %s", v.typ, colType)
		return v.Serialize(buf)
	}
	buf = append(buf, 1) // null flag
	if size, ok := colType.FixedSize(); ok {
		return append(buf, make([]byte, size)...)
	}
	switch colType {
	case Varchar, Vector:
		var lenBuf [4]byte // zero length; nothing else to pad
		return append(buf, lenBuf[:]...)
	default:
		return buf
	}
}

// Deserialize reads a value of the given type (and, for Vector columns,
// dimension) from data and returns it plus the number of bytes consumed.
func Deserialize(data []byte, typ TypeID, vectorDim uint32) (Value, uint32) {
	isNull := data[0] == 1
	off := uint32(1)

	switch typ {
	case Boolean:
		v := data[off] == 1
		off++
		if isNull {
			return NewNull(), off
		}
		return NewBoolean(v), off
	case TinyInt:
		v := int8(data[off])
		off++
		if isNull {
			return NewNull(), off
		}
		return NewTinyInt(v), off
	case SmallInt:
		v := int16(binary.LittleEndian.Uint16(data[off:]))
		off += 2
		if isNull {
			return NewNull(), off
		}
		return NewSmallInt(v), off
	case Integer:
		v := int32(binary.LittleEndian.Uint32(data[off:]))
		off += 4
		if isNull {
			return NewNull(), off
		}
		return NewInteger(v), off
	case BigInt:
		v := int64(binary.LittleEndian.Uint64(data[off:]))
		off += 8
		if isNull {
			return NewNull(), off
		}
		return NewBigInt(v), off
	case Timestamp:
		v := int64(binary.LittleEndian.Uint64(data[off:]))
		off += 8
		if isNull {
			return NewNull(), off
		}
		return NewTimestamp(time.Unix(0, v)), off
	case Decimal:
		v := math.Float64frombits(binary.LittleEndian.Uint64(data[off:]))
		off += 8
		if isNull {
			return NewNull(), off
		}
		return NewDecimal(v), off
	case Varchar:
		n := binary.LittleEndian.Uint32(data[off:])
		off += 4
		s := string(data[off : off+n])
		off += n
		if isNull {
			return NewNull(), off
		}
		return NewVarchar(s), off
	case Vector:
		n := binary.LittleEndian.Uint32(data[off:])
		off += 4
		vec := make([]float64, n)
		for i := uint32(0); i < n; i++ {
			vec[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[off:]))
			off += 8
		}
		_ = vectorDim
		if isNull {
			return NewNull(), off
		}
		return NewVector(vec), off
	default:
		return NewNull(), off
	}
}
