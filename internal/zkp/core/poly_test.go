package core

import "testing"

func TestPolyEvalHorner(t *testing.T) {
	// p(X) = 1 + 2X + 3X^2, p(2) = 1 + 4 + 12 = 17
	p := []Fp4{Fp4FromFp(NewFp(1)), Fp4FromFp(NewFp(2)), Fp4FromFp(NewFp(3))}
	got := PolyEval(p, Fp4FromFp(NewFp(2)))
	want := Fp4FromFp(NewFp(17))
	if !got.Equal(want) {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestPolyDivideMatchesEval(t *testing.T) {
	p := []Fp4{Fp4FromFp(NewFp(5)), Fp4FromFp(NewFp(7)), Fp4FromFp(NewFp(11)), Fp4FromFp(NewFp(13))}
	z := Fp4FromFp(NewFp(9))
	want := PolyEval(p, z)

	cp := make([]Fp4, len(p))
	copy(cp, p)
	rem := PolyDivide(cp, z)

	if !rem.Equal(want) {
		t.Fatalf("remainder %s != poly_eval %s", rem, want)
	}
}

func TestPolyInterpolateRoundtrip(t *testing.T) {
	sizes := []int{1, 2, 3, 5, 8}
	for _, size := range sizes {
		coeffs := make([]Fp4, size)
		for i := range coeffs {
			coeffs[i] = Fp4FromFp(NewFp(uint64(i*i + 3)))
		}
		x := make([]Fp4, size)
		fx := make([]Fp4, size)
		for i := 0; i < size; i++ {
			x[i] = Fp4FromFp(NewFp(uint64(100 + i*7)))
			fx[i] = PolyEval(coeffs, x[i])
		}
		out := make([]Fp4, size)
		PolyInterpolate(out, x, fx, size)
		for i := 0; i < size; i++ {
			if !out[i].Equal(coeffs[i]) {
				t.Fatalf("size=%d: coeff %d got %s want %s", size, i, out[i], coeffs[i])
			}
		}
	}
}

func TestPolyInterpolateDuplicatePointPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate evaluation point")
		}
	}()
	x := []Fp4{Fp4FromFp(NewFp(1)), Fp4FromFp(NewFp(1)), Fp4FromFp(NewFp(2))}
	fx := []Fp4{Fp4FromFp(NewFp(4)), Fp4FromFp(NewFp(4)), Fp4FromFp(NewFp(9))}
	out := make([]Fp4, 3)
	PolyInterpolate(out, x, fx, 3)
}
