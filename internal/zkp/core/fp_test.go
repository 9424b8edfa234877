package core

import "testing"

func TestFpFieldLaws(t *testing.T) {
	a := NewFp(123456789)
	b := NewFp(987654321)

	t.Run("commutative_mul", func(t *testing.T) {
		if !a.Mul(b).Equal(b.Mul(a)) {
			t.Fatalf("a*b != b*a")
		}
	})

	t.Run("mul_inv_identity", func(t *testing.T) {
		if a.IsZero() {
			t.Fatal("a must be nonzero for this test")
		}
		if !a.Mul(a.Inv()).Equal(FpOne) {
			t.Fatalf("a * a^-1 != 1")
		}
	})

	t.Run("add_sub_roundtrip", func(t *testing.T) {
		if !a.Add(b).Sub(b).Equal(a) {
			t.Fatalf("(a+b)-b != a")
		}
	})

	t.Run("inv_zero_panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic inverting zero")
			}
		}()
		FpZero.Inv()
	})
}

func TestFpBytesRoundtrip(t *testing.T) {
	a := NewFp(4242424242)
	b := FpFromBytes(a.Bytes())
	if !a.Equal(b) {
		t.Fatalf("byte roundtrip mismatch: %s != %s", a, b)
	}
}

func TestFp4FieldLaws(t *testing.T) {
	a := Fp4{1, 2, 3, 4}
	b := Fp4{5, 6, 7, 8}

	t.Run("commutative_mul", func(t *testing.T) {
		if !a.Mul(b).Equal(b.Mul(a)) {
			t.Fatalf("a*b != b*a")
		}
	})

	t.Run("mul_inv_identity", func(t *testing.T) {
		if !a.Mul(a.Inv()).Equal(Fp4One) {
			t.Fatalf("a * a^-1 != 1, got %s", a.Mul(a.Inv()))
		}
	})

	t.Run("matches_poly_mul_mod_x4_minus_beta", func(t *testing.T) {
		// (1 + 2X)*(1 + 3X) = 1 + 5X + 6X^2, well below degree 4 so no
		// reduction by (X^4 - beta) is exercised; this just pins down
		// that Mul is ordinary polynomial multiplication at low degree.
		p := Fp4{1, 2, 0, 0}
		q := Fp4{1, 3, 0, 0}
		got := p.Mul(q)
		want := Fp4{1, 5, 6, 0}
		if !got.Equal(want) {
			t.Fatalf("got %s want %s", got, want)
		}
	})
}

func TestRootOfUnityOrder(t *testing.T) {
	for _, po2 := range []uint{0, 1, 2, 8, 16} {
		w := RootOfUnity(po2)
		got := w.Pow(uint64(1) << po2)
		if !got.Equal(FpOne) {
			t.Fatalf("po2=%d: w^(2^po2) = %s, want 1", po2, got)
		}
		if po2 > 0 {
			half := w.Pow(uint64(1) << (po2 - 1))
			if half.Equal(FpOne) {
				t.Fatalf("po2=%d: root of unity has order dividing 2^(po2-1)", po2)
			}
		}
	}
}
