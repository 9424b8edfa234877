package core

// PolyEval evaluates a polynomial whose coefficients live in the
// extension field at an extension-field point via Horner's method.
// Ported from original_source/risc0/zkp/rust/src/core/poly.rs::poly_eval.
func PolyEval(coeffs []Fp4, x Fp4) Fp4 {
	mul := Fp4One
	tot := Fp4Zero
	for i := range coeffs {
		tot = tot.Add(coeffs[i].Mul(mul))
		mul = mul.Mul(x)
	}
	return tot
}

// PolyDivide performs in-place synthetic division of p by (X - z),
// leaving the quotient's coefficients in p and returning the remainder,
// which equals PolyEval(originalP, z). Ported from
// original_source/risc0/zkp/rust/src/core/poly.rs::poly_divide.
func PolyDivide(p []Fp4, z Fp4) Fp4 {
	cur := Fp4Zero
	for i := len(p) - 1; i >= 0; i-- {
		next := z.Mul(cur).Add(p[i])
		p[i] = cur
		cur = next
	}
	return cur
}

// PolyInterpolate computes, in out[0:size], the coefficients of the
// unique degree-<size polynomial with f(x[i]) = fx[i] for i in [0,size).
// Callers MUST pass distinct evaluation points; per spec.md's open
// question this implementation treats duplicates as a fatal assertion
// rather than silently dividing by zero (core.Fp.Inv already panics on a
// zero denominator, which duplicate x's would produce via (x[i]-x[i])).
// Ported from original_source/risc0/zkp/rust/src/core/poly.rs::poly_interpolate.
func PolyInterpolate(out []Fp4, x []Fp4, fx []Fp4, size int) {
	if size == 1 {
		out[0] = fx[0]
		return
	}
	if size == 2 {
		out[1] = fx[1].Sub(fx[0]).Mul(x[1].Sub(x[0]).Inv())
		out[0] = fx[0].Sub(out[1].Mul(x[0]))
		return
	}
	// ft = product_i (X - x[i]), represented coefficient-major,
	// built incrementally exactly as the reference does.
	ft := make([]Fp4, size+1)
	ft[0] = Fp4One
	for i := 0; i < size; i++ {
		for j := i; j >= 0; j-- {
			value := ft[j]
			ft[j+1] = ft[j+1].Add(value)
			ft[j] = ft[j].Mul(x[i].Neg())
		}
	}
	for i := 0; i < size; i++ {
		out[i] = Fp4Zero
	}
	for i := 0; i < size; i++ {
		// fr = ft / (X - x[i]), the i-th Lagrange basis numerator.
		fr := make([]Fp4, len(ft))
		copy(fr, ft)
		PolyDivide(fr, x[i])
		frXi := PolyEval(fr, x[i])
		if frXi.IsZero() {
			// Only possible if x[i] duplicates another evaluation point:
			// the reference implementation leaves this unspecified
			// (silent division-by-zero); we fail loudly instead.
			panic("core: poly_interpolate called with duplicate evaluation points")
		}
		mul := fx[i].Mul(frXi.Inv())
		for j := 0; j < size; j++ {
			out[j] = out[j].Add(mul.Mul(fr[j]))
		}
	}
}
