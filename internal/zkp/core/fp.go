// Package core implements the base field, its degree-4 extension, the
// SHA-256 transcript RNG, and small polynomial helpers shared by the rest
// of the zkp packages.
package core

import (
	"encoding/binary"
	"fmt"
)

// FpModulus is the Baby Bear prime p = 15*2^27 + 1.
const FpModulus uint64 = 2013265921

// fpGenerator is a generator of the full multiplicative group of Fp; used
// to derive primitive roots of unity for every power-of-two subgroup order
// that divides p-1 = 15*2^27.
const fpGenerator uint64 = 31

// FpMaxRootPo2 is the largest log2(order) for which a power-of-two
// multiplicative subgroup of Fp exists (p-1 = 15*2^27).
const FpMaxRootPo2 = 27

// Fp is an element of the Baby Bear prime field, held in [0, FpModulus).
type Fp uint32

// Zero and One are the additive and multiplicative identities.
const (
	FpZero Fp = 0
	FpOne  Fp = 1
)

// NewFp reduces an arbitrary uint64 into Fp.
func NewFp(v uint64) Fp {
	return Fp(v % FpModulus)
}

// FromU64 is an alias of NewFp kept for parity with the teacher's
// `from_u64` naming convention (core.Field.NewElementFromUint64).
func FromU64(v uint64) Fp { return NewFp(v) }

// Add returns a+b mod p.
func (a Fp) Add(b Fp) Fp {
	s := uint64(a) + uint64(b)
	if s >= FpModulus {
		s -= FpModulus
	}
	return Fp(s)
}

// Sub returns a-b mod p.
func (a Fp) Sub(b Fp) Fp {
	if a >= b {
		return a - b
	}
	return Fp(uint64(a) + FpModulus - uint64(b))
}

// Neg returns -a mod p.
func (a Fp) Neg() Fp {
	if a == 0 {
		return 0
	}
	return Fp(FpModulus) - a
}

// Mul returns a*b mod p.
func (a Fp) Mul(b Fp) Fp {
	return Fp((uint64(a) * uint64(b)) % FpModulus)
}

// Pow returns a^e mod p via square-and-multiply.
func (a Fp) Pow(e uint64) Fp {
	result := FpOne
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

// Inv returns the multiplicative inverse of a via Fermat's little theorem.
// Panics on zero, mirroring the teacher's "cannot invert zero" guard
// (core.RescueHash.inverseSbox and MersenneFieldElement.Inv both fail
// closed rather than silently returning zero).
func (a Fp) Inv() Fp {
	if a == 0 {
		panic("core: cannot invert zero field element")
	}
	return a.Pow(FpModulus - 2)
}

// Div returns a/b; panics if b is zero.
func (a Fp) Div(b Fp) Fp {
	return a.Mul(b.Inv())
}

// IsZero reports whether a is the additive identity.
func (a Fp) IsZero() bool { return a == 0 }

// Equal reports whether a and b represent the same field element.
func (a Fp) Equal(b Fp) bool { return a == b }

// String renders the element in decimal, matching the teacher's
// FieldElement.String().
func (a Fp) String() string {
	return fmt.Sprintf("%d", uint32(a))
}

// Bytes returns the fixed 4-byte little-endian representation.
func (a Fp) Bytes() []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(a))
	return buf[:]
}

// FpFromBytes reads a little-endian encoded Fp; the caller guarantees
// len(b) >= 4.
func FpFromBytes(b []byte) Fp {
	return Fp(binary.LittleEndian.Uint32(b) % uint32(FpModulus))
}

// RootOfUnity returns a generator of the multiplicative subgroup of order
// 2^po2. Requires po2 <= FpMaxRootPo2.
func RootOfUnity(po2 uint) Fp {
	if po2 > FpMaxRootPo2 {
		panic("core: requested root of unity exceeds the field's 2-adicity")
	}
	// Full group order is p-1 = 15 * 2^27; raise the generator to
	// (p-1)/2^po2 to land in the order-2^po2 subgroup.
	exponent := (FpModulus - 1) >> po2
	return Fp(fpGenerator).Pow(exponent)
}

// FpRandom draws a uniform Fp from two words pulled off a ShaRng, matching
// spec.md 4.2's "rejection-free mapping of two drawn words... reducing mod p".
func FpRandom(rng *ShaRng) Fp {
	lo := uint64(rng.NextU32())
	hi := uint64(rng.NextU32())
	return NewFp(lo | (hi << 32))
}
