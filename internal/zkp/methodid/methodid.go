// Package methodid implements spec.md 4.12: a table of per-trace-size
// Merkle roots over the code polynomial, binding a proof to the ELF it
// claims to have executed. Grounded on
// original_source/risc0/zkvm/sdk/rust/src/method_id.rs.
package methodid

import (
	"github.com/stskeeps/risc0/internal/zkp/core"
	"github.com/stskeeps/risc0/internal/zkp/executor"
	"github.com/stskeeps/risc0/internal/zkp/hal"
	"github.com/stskeeps/risc0/internal/zkp/params"
	"github.com/stskeeps/risc0/internal/zkp/polygroup"
)

// MethodID is the ordered sequence of per-size code-commitment digests
// spec.md 3 describes: entry i binds trace size 2^(MinCyclesPo2+i).
type MethodID struct {
	Digests []core.Digest
}

// Entry returns the digest bound to trace size 2^po2, or the zero digest
// if po2 falls outside the table (spec.md 3, "MethodId").
func (m MethodID) Entry(po2 int) core.Digest {
	i := po2 - params.MinCyclesPo2
	if i < 0 || i >= len(m.Digests) {
		return core.ZeroDigest
	}
	return m.Digests[i]
}

// Bytes renders the table as a flat concatenation of 32-byte digests,
// little-endian per word (spec.md 6, "MethodId file").
func (m MethodID) Bytes() []byte {
	out := make([]byte, 0, core.DigestBytes*len(m.Digests))
	for _, d := range m.Digests {
		out = append(out, d[:]...)
	}
	return out
}

// FromBytes parses a MethodId file's contents.
func FromBytes(b []byte) MethodID {
	n := len(b) / core.DigestBytes
	out := MethodID{Digests: make([]core.Digest, n)}
	for i := 0; i < n; i++ {
		out.Digests[i] = core.DigestFromBytes(b[i*core.DigestBytes : (i+1)*core.DigestBytes])
	}
	return out
}

// codeCoeffs builds the code polynomial's coset-shifted coefficients for a
// trace of height 2^po2 entirely from the ELF image, driving the exact
// same INIT/LOAD/RESET/body/FINI sequence the circuit's Execute runs for
// real proving via the shared executor.BuildCodeTrace (spec.md 4.12, "build
// code coefficients for trace size"; grounded on
// original_source/risc0/zkvm/sdk/rust/src/method_id.rs's load_code, which
// routes through the same exec::load_code the real executor uses because
// body's row content is a pure function of cycle position, not guest
// semantics).
func codeCoeffs(h hal.Hal, entry uint32, image map[uint32]uint32, addrsInOrder []uint32, po2 int) ([]core.Fp4, bool) {
	height := 1 << po2
	rows, ok := executor.BuildCodeTrace(entry, image, addrsInOrder, height, params.ZkCycles)
	if !ok {
		return nil, false
	}

	count := executor.CodeRowWidth
	coeffs := make([]core.Fp4, count*height)
	for c := 0; c < count; c++ {
		for i := 0; i < height; i++ {
			coeffs[c*height+i] = core.Fp4FromFp(rows[i][c])
		}
	}
	h.BatchInterpolateNTT(coeffs, count)
	h.ZkShift(coeffs, count)
	return coeffs, true
}

// ComputeWithLimit builds the MethodId table for an ELF, computing at most
// limit entries (capped at params.MaxCodeDigestCount) starting at
// params.MinCyclesPo2. Sizes the image doesn't fit at get the zero digest
// (spec.md 4.12).
func ComputeWithLimit(h hal.Hal, queries int, entry uint32, image map[uint32]uint32, addrsInOrder []uint32, limit int) MethodID {
	if limit > params.MaxCodeDigestCount {
		limit = params.MaxCodeDigestCount
	}
	digests := make([]core.Digest, limit)
	for i := 0; i < limit; i++ {
		po2 := params.MinCyclesPo2 + i
		coeffs, ok := codeCoeffs(h, entry, image, addrsInOrder, po2)
		if !ok {
			digests[i] = core.ZeroDigest
			continue
		}
		height := 1 << po2
		group := polygroup.New(h, coeffs, executor.CodeRowWidth, height, queries)
		digests[i] = group.Root()
	}
	return MethodID{Digests: digests}
}
