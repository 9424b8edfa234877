package core

import "encoding/binary"

// ShaRng is the Fiat-Shamir RNG described in spec.md 4.2: two digest pools
// mixed by compression, emitting words alternately from pool_a and
// refreshing by recompressing (pool_a, pool_b) once eight words have been
// drawn. It is the single source of verifier-unpredictable randomness for
// both WriteIOP and ReadIOP (spec.md 9, "Transcript as sum type").
type ShaRng struct {
	sha    Sha
	poolA  Digest
	poolB  Digest
	cursor int
}

// NewShaRng seeds a fresh transcript. Any fixed pair of distinct seeds
// suffices as long as prover and verifier agree; "Hello"/"World" match
// the reference derivation in spec.md 4.2.
func NewShaRng(sha Sha) *ShaRng {
	return &ShaRng{
		sha:    sha,
		poolA:  sha.HashBytes([]byte("Hello")),
		poolB:  sha.HashBytes([]byte("World")),
		cursor: 0,
	}
}

// Mix folds a digest into both pools and resets the word cursor, forcing
// the next draws to reflect everything mixed in so far.
func (r *ShaRng) Mix(d Digest) {
	r.poolA = r.sha.Compress(r.poolA, d)
	r.poolB = r.sha.Compress(r.poolB, d)
	r.cursor = 0
}

// NextU32 returns the next pseudo-random word. Every eight draws, the
// pools are recompressed together to refresh the stream.
func (r *ShaRng) NextU32() uint32 {
	if r.cursor == DigestWords {
		r.poolA = r.sha.Compress(r.poolA, r.poolB)
		r.cursor = 0
	}
	word := binary.LittleEndian.Uint32(r.poolA[r.cursor*4 : r.cursor*4+4])
	r.cursor++
	return word
}

// NextFp draws a uniform base-field element.
func (r *ShaRng) NextFp() Fp {
	return FpRandom(r)
}

// NextFp4 draws a uniform extension-field element.
func (r *ShaRng) NextFp4() Fp4 {
	return Fp4Random(r)
}
