package types

import "testing"

func TestSerializeRoundTrip(t *testing.T) {
	cases := []Value{
		NewBoolean(true),
		NewBoolean(false),
		NewTinyInt(-12),
		NewSmallInt(1234),
		NewInteger(-98765),
		NewBigInt(1 << 40),
		NewDecimal(3.14159),
		NewVarchar("hello, vectorbase"),
		NewVector([]float64{1, 2, 3, 4, 5}),
		NewNull(),
	}

	for _, v := range cases {
		buf := v.Serialize(nil)
		got, n := Deserialize(buf, v.Type(), uint32(v.Dimension()))
		if n != uint32(len(buf)) {
			t.Fatalf("consumed %d bytes, serialized %d for %v", n, len(buf), v)
		}
		if v.IsNull() {
			if !got.IsNull() {
				t.Fatalf("expected null round-trip, got %v", got)
			}
			continue
		}
		if got.CompareEquals(v) != True {
			t.Fatalf("round trip mismatch: got %v want %v", got, v)
		}
	}
}

func TestCompareNullPropagation(t *testing.T) {
	n := NewNull()
	i := NewInteger(5)
	if n.CompareEquals(i) != Unknown {
		t.Fatalf("expected Unknown comparing NULL")
	}
	if n.CompareEquals(n) != Unknown {
		t.Fatalf("NULL = NULL must be Unknown in SQL semantics")
	}
}

func TestVectorEqualityIsSymmetricAndDimensionSensitive(t *testing.T) {
	a := NewVector([]float64{1, 2, 3})
	b := NewVector([]float64{1, 2, 3})
	c := NewVector([]float64{1, 2})

	if a.CompareEquals(b) != True {
		t.Fatalf("expected equal vectors")
	}
	if a.CompareEquals(c) != False {
		t.Fatalf("expected unequal dimension vectors to compare false, not panic")
	}
}
