package hal

import (
	"math/bits"

	"github.com/stskeeps/risc0/internal/zkp/core"
)

// CpuHal is the reference, single-threaded implementation of Hal. It is the
// only backend this module ships; a GPU backend would implement the same
// interface and must reproduce these results bit-for-bit (spec.md 4.3).
type CpuHal struct {
	sha core.Sha
}

// NewCpuHal constructs the CPU backend around the given SHA-256 primitive.
func NewCpuHal(sha core.Sha) *CpuHal {
	return &CpuHal{sha: sha}
}

func log2Exact(n int) int {
	if n <= 0 || n&(n-1) != 0 {
		panic("hal: expected a power of two")
	}
	return bits.TrailingZeros(uint(n))
}

func reverseBits(i, logn int) int {
	r := 0
	for b := 0; b < logn; b++ {
		r = (r << 1) | (i & 1)
		i >>= 1
	}
	return r
}

func bitReversePermute(a []core.Fp4) {
	n := len(a)
	logn := log2Exact(n)
	for i := 0; i < n; i++ {
		j := reverseBits(i, logn)
		if j > i {
			a[i], a[j] = a[j], a[i]
		}
	}
}

// nttIterative runs an in-place iterative Cooley-Tukey transform on a,
// whose length must be a power of two. invert selects the inverse
// transform (negative-order twiddles, scaled by 1/n). Input and output are
// both in natural order; bit-reversal, if the caller's storage convention
// wants it, is the caller's responsibility via BatchBitReverse.
func nttIterative(a []core.Fp4, invert bool) {
	n := len(a)
	if n == 1 {
		return
	}
	bitReversePermute(a)
	for length := 2; length <= n; length <<= 1 {
		w := core.RootOfUnity(uint(log2Exact(length)))
		if invert {
			w = core.FpOne.Div(w)
		}
		half := length / 2
		for i := 0; i < n; i += length {
			wn := core.FpOne
			for j := 0; j < half; j++ {
				u := a[i+j]
				v := a[i+j+half].MulFp(wn)
				a[i+j] = u.Add(v)
				a[i+j+half] = u.Sub(v)
				wn = wn.Mul(w)
			}
		}
	}
	if invert {
		nInv := core.FpOne.Div(core.NewFp(uint64(n)))
		for i := range a {
			a[i] = a[i].MulFp(nInv)
		}
	}
}

// BatchInterpolateNTT: buf holds count polynomials, each N = len(buf)/count
// bit-reversed evaluations; replaced in place with natural-order
// coefficients.
func (h *CpuHal) BatchInterpolateNTT(buf []core.Fp4, count int) {
	n := len(buf) / count
	for p := 0; p < count; p++ {
		sub := buf[p*n : p*n+n]
		bitReversePermute(sub)
		nttIterative(sub, true)
	}
}

// BatchEvaluateNTT: buf's first N*count slots hold count natural-order
// coefficient arrays of size N = len(buf)/(count*expand); buf is resized by
// the caller to N*expand*count and on return holds count bit-reversed
// evaluation arrays of size N*expand (coefficients zero-padded above N).
func (h *CpuHal) BatchEvaluateNTT(buf []core.Fp4, count int, expand int) {
	total := len(buf) / count
	n := total / expand
	// The N*count source coefficients are packed contiguously at the front
	// of buf; copy them out before scattering each polynomial into its
	// widened, zero-padded slot, since the destination slots overlap the
	// source region once expand > 1.
	src := make([]core.Fp4, n*count)
	copy(src, buf[:n*count])
	for p := 0; p < count; p++ {
		sub := buf[p*total : p*total+total]
		copy(sub[:n], src[p*n:p*n+n])
		for i := n; i < total; i++ {
			sub[i] = core.Fp4Zero
		}
		nttIterative(sub, false)
		bitReversePermute(sub)
	}
}

// ZkShift multiplies coefficient i of each of count polynomials by 3^i.
func (h *CpuHal) ZkShift(buf []core.Fp4, count int) {
	n := len(buf) / count
	for p := 0; p < count; p++ {
		mul := core.FpOne
		three := core.NewFp(3)
		for i := 0; i < n; i++ {
			buf[p*n+i] = buf[p*n+i].MulFp(mul)
			mul = mul.Mul(three)
		}
	}
}

// BatchEvaluateAny evaluates selected polynomials at arbitrary points via
// Horner's method; no NTT structure is assumed.
func (h *CpuHal) BatchEvaluateAny(coeffs []core.Fp4, count int, which []int, xs []core.Fp4, out []core.Fp4, size int) {
	for k := range which {
		start := which[k] * size
		out[k] = core.PolyEval(coeffs[start:start+size], xs[k])
	}
}

// MixPolyCoeffs accumulates a running random linear combination of the k-th
// source polynomial into the which[k]-th output slot, and returns the
// running power of mix advanced by n steps.
func (h *CpuHal) MixPolyCoeffs(combos []core.Fp4, curMix core.Fp4, mix core.Fp4, src []core.Fp4, which []int, n int, size int) core.Fp4 {
	m := curMix
	for k := 0; k < n; k++ {
		dst := which[k] * size
		s := k * size
		for j := 0; j < size; j++ {
			combos[dst+j] = combos[dst+j].Add(m.Mul(src[s+j]))
		}
		m = m.Mul(mix)
	}
	return m
}

// EltwiseSumFp4 packs consecutive groups of 4 Fp values into one Fp4 each.
func (h *CpuHal) EltwiseSumFp4(out []core.Fp4, in []core.Fp) {
	for i := 0; i < len(out); i++ {
		out[i] = core.Fp4{in[4*i], in[4*i+1], in[4*i+2], in[4*i+3]}
	}
}

// BatchBitReverse bit-reverses each of count sub-arrays in place.
func (h *CpuHal) BatchBitReverse(buf []core.Fp4, count int) {
	n := len(buf) / count
	for p := 0; p < count; p++ {
		bitReversePermute(buf[p*n : p*n+n])
	}
}

// ShaRows hashes each column of an (rows x cols) column-major matrix.
func (h *CpuHal) ShaRows(out []core.Digest, matrix []core.Fp, rows int, cols int) {
	col := make([]uint32, cols)
	for i := 0; i < rows; i++ {
		for c := 0; c < cols; c++ {
			col[c] = uint32(matrix[i+c*rows])
		}
		out[i] = h.sha.HashRawWords(col)
	}
}

// ShaFold computes one Merkle internal layer from the layer below it.
func (h *CpuHal) ShaFold(nodes []core.Digest, inputSize int, outputSize int) {
	for i := 0; i < outputSize; i++ {
		nodes[i+outputSize] = h.sha.Compress(nodes[2*i+inputSize], nodes[2*i+1+inputSize])
	}
}
