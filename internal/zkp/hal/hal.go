// Package hal is the compute abstraction layer described in spec.md 4.3: a
// capability set over Fp and Digest buffers that every other package above
// it (merkle, polygroup, fri, prove, verify) calls through rather than
// touching field arithmetic or SHA-256 directly. Today only a CPU backend
// exists, but every caller is written against the Hal interface so a future
// GPU backend is a drop-in as long as it agrees bit-exactly on digest and
// field byte layout (spec.md 4.3, "Implementations must agree bit-exactly").
package hal

import "github.com/stskeeps/risc0/internal/zkp/core"

// Hal is the narrow set of batch operations the rest of the prover/verifier
// pipeline is built from. Buffers are plain slices: single-owner, passed by
// reference, and never aliased across concurrent mutation (spec.md 5,
// "Shared resources").
type Hal interface {
	// BatchInterpolateNTT interprets buf as count contiguous polynomials,
	// each of N = len(buf)/count bit-reversed evaluations on the N-th roots
	// of unity, and replaces them in place with coefficients (same order).
	BatchInterpolateNTT(buf []core.Fp4, count int)

	// BatchEvaluateNTT is the inverse: count contiguous coefficient arrays
	// of size N become bit-reversed evaluations on a domain of size N*expand.
	// buf must already have capacity/length N*expand*count on entry, with
	// the coefficients held in the first N*count slots.
	BatchEvaluateNTT(buf []core.Fp4, count int, expand int)

	// ZkShift multiplies the i-th coefficient of each of count polynomials
	// by 3^i, shifting evaluation onto a coset to avoid revealing evaluation
	// domain points the prover didn't intend to commit to.
	ZkShift(buf []core.Fp4, count int)

	// BatchEvaluateAny evaluates, for each k, the `which[k]`-th of count
	// size-length polynomials (packed contiguously in coeffs) at xs[k],
	// writing the result to out[k].
	BatchEvaluateAny(coeffs []core.Fp4, count int, which []int, xs []core.Fp4, out []core.Fp4, size int)

	// MixPolyCoeffs accumulates, for k in [0,n) and j in [0,size):
	//   combos[which[k]*size+j] += curMix * mix^k * src[k*size+j]
	// and returns the updated curMix = curMix * mix^n.
	MixPolyCoeffs(combos []core.Fp4, curMix core.Fp4, mix core.Fp4, src []core.Fp4, which []int, n int, size int) core.Fp4

	// EltwiseSumFp4 sums consecutive groups of 4 Fp values in in into one
	// Fp4 value per group, writing len(in)/4 results to out.
	EltwiseSumFp4(out []core.Fp4, in []core.Fp)

	// BatchBitReverse bit-reverses, in place, each of count sub-arrays of
	// size len(buf)/count.
	BatchBitReverse(buf []core.Fp4, count int)

	// ShaRows hashes each column i of an (rows x cols) row-major-by-column
	// matrix (matrix[i + c*rows] for c in [0,cols)) into out[i].
	ShaRows(out []core.Digest, matrix []core.Fp, rows int, cols int)

	// ShaFold computes one Merkle layer from the one below it:
	// nodes[i+outputSize] = SHA(nodes[2i+inputSize] || nodes[2i+1+inputSize])
	// for i in [0, outputSize).
	ShaFold(nodes []core.Digest, inputSize int, outputSize int)
}
