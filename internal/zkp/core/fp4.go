package core

import "fmt"

// fp4Beta is the fixed non-residue defining Fp4 = Fp[X]/(X^4 - beta).
const fp4Beta Fp = 11

// WordsFp4 is the number of Fp words in the little-endian byte/word
// encoding of an Fp4, named WORDS in spec.md 4.1.
const WordsFp4 = 4

// Fp4 is an element of the degree-4 extension of Fp, stored as four Fp
// coordinates c0 + c1*X + c2*X^2 + c3*X^3.
type Fp4 [4]Fp

// Fp4Zero and Fp4One are the additive/multiplicative identities.
var (
	Fp4Zero = Fp4{0, 0, 0, 0}
	Fp4One  = Fp4{1, 0, 0, 0}
)

// Fp4FromFp lifts a base-field element into the extension.
func Fp4FromFp(a Fp) Fp4 {
	return Fp4{a, 0, 0, 0}
}

// Fp4FromU32Words builds an Fp4 from four raw (unreduced) words, matching
// spec.md 4.1's `from_u32_words`.
func Fp4FromU32Words(words [4]uint32) Fp4 {
	var out Fp4
	for i, w := range words {
		out[i] = NewFp(uint64(w))
	}
	return out
}

// Add returns the coordinate-wise sum.
func (a Fp4) Add(b Fp4) Fp4 {
	return Fp4{a[0].Add(b[0]), a[1].Add(b[1]), a[2].Add(b[2]), a[3].Add(b[3])}
}

// Sub returns the coordinate-wise difference.
func (a Fp4) Sub(b Fp4) Fp4 {
	return Fp4{a[0].Sub(b[0]), a[1].Sub(b[1]), a[2].Sub(b[2]), a[3].Sub(b[3])}
}

// Neg negates every coordinate.
func (a Fp4) Neg() Fp4 {
	return Fp4{a[0].Neg(), a[1].Neg(), a[2].Neg(), a[3].Neg()}
}

// MulFp scales a by a base-field element.
func (a Fp4) MulFp(s Fp) Fp4 {
	return Fp4{a[0].Mul(s), a[1].Mul(s), a[2].Mul(s), a[3].Mul(s)}
}

// Mul multiplies two extension elements modulo X^4 - beta via schoolbook
// multiplication of the underlying degree-3 polynomials.
func (a Fp4) Mul(b Fp4) Fp4 {
	var raw [7]Fp
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			raw[i+j] = raw[i+j].Add(a[i].Mul(b[j]))
		}
	}
	var out Fp4
	out[0] = raw[0].Add(raw[4].Mul(fp4Beta))
	out[1] = raw[1].Add(raw[5].Mul(fp4Beta))
	out[2] = raw[2].Add(raw[6].Mul(fp4Beta))
	out[3] = raw[3]
	return out
}

// frobenius-free inverse: compute via the norm down to Fp, using the tower
// (Fp4 -> Fp2 -> Fp) conjugates, matching the usual quartic-extension
// inversion trick (multiply by the conjugate product until the result is
// a base-field scalar, then invert that scalar).
func (a Fp4) Inv() Fp4 {
	if a == Fp4Zero {
		panic("core: cannot invert zero Fp4 element")
	}
	// conj2 flips the sign of the odd-indexed "imaginary" half: for
	// X^4 - beta viewed as a quadratic extension of Fp2 = Fp[X^2],
	// conjugation negates the X-odd coefficients.
	conj := Fp4{a[0], a[1].Neg(), a[2], a[3].Neg()}
	norm := a.Mul(conj) // now has zero odd coordinates -> lives in Fp[X^2]
	// norm = n0 + n2*X^2; invert that quadratic extension explicitly.
	n0, n2 := norm[0], norm[2]
	// (n0 + n2*X^2)^-1 = (n0 - n2*X^2) / (n0^2 - beta*n2^2)
	denom := n0.Mul(n0).Sub(n2.Mul(n2).Mul(fp4Beta))
	denomInv := denom.Inv()
	invNorm := Fp4{n0.Mul(denomInv), 0, n2.Neg().Mul(denomInv), 0}
	return conj.Mul(invNorm)
}

// Div returns a/b.
func (a Fp4) Div(b Fp4) Fp4 {
	return a.Mul(b.Inv())
}

// Pow raises a to the e-th power.
func (a Fp4) Pow(e uint64) Fp4 {
	result := Fp4One
	base := a
	for e > 0 {
		if e&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		e >>= 1
	}
	return result
}

// IsZero reports whether a is the additive identity.
func (a Fp4) IsZero() bool { return a == Fp4Zero }

// Equal reports coordinate-wise equality.
func (a Fp4) Equal(b Fp4) bool { return a == b }

// String renders the four coordinates, teacher-style (core.FieldElement.String
// simply prints the underlying value; we extend that to four coordinates).
func (a Fp4) String() string {
	return fmt.Sprintf("(%s + %s*X + %s*X^2 + %s*X^3)", a[0], a[1], a[2], a[3])
}

// Bytes returns the 16-byte little-endian encoding (four packed Fp words).
func (a Fp4) Bytes() []byte {
	out := make([]byte, 0, 16)
	for _, c := range a {
		out = append(out, c.Bytes()...)
	}
	return out
}

// Fp4FromBytes decodes 16 little-endian bytes into an Fp4.
func Fp4FromBytes(b []byte) Fp4 {
	var out Fp4
	for i := range out {
		out[i] = FpFromBytes(b[i*4 : i*4+4])
	}
	return out
}

// Fp4Random draws a uniform Fp4 from four words (one per coordinate)
// pulled off a ShaRng, per spec.md 4.2 ("four [words] into Fp4").
func Fp4Random(rng *ShaRng) Fp4 {
	var out Fp4
	for i := range out {
		out[i] = NewFp(uint64(rng.NextU32()))
	}
	return out
}
