package fri

import (
	"testing"

	"github.com/stskeeps/risc0/internal/zkp/core"
	"github.com/stskeeps/risc0/internal/zkp/hal"
	"github.com/stskeeps/risc0/internal/zkp/transcript"
)

func randomEvals(n int) []core.Fp4 {
	rng := core.NewShaRng(core.NewSha())
	out := make([]core.Fp4, n)
	for i := range out {
		out[i] = rng.NextFp4()
	}
	return out
}

func runRoundtrip(t *testing.T, domain int, queries int) {
	t.Helper()
	sha := core.NewSha()
	h := hal.NewCpuHal(sha)
	initial := randomEvals(domain)

	w := transcript.NewWriter(sha)
	proveAt := func(w *transcript.Writer, idx int) {
		w.AppendFp4(initial[idx])
	}
	Prove(h, w, initial, NewParams(queries), proveAt)

	r := transcript.NewReader(sha, w.Proof)
	verifyAt := func(r *transcript.Reader, idx int) (core.Fp4, error) {
		return r.ReadFp4()
	}
	if err := Verify(sha, domain, r, NewParams(queries), verifyAt); err != nil {
		t.Fatalf("domain=%d: unexpected verify error: %v", domain, err)
	}
	if err := r.VerifyComplete(); err != nil {
		t.Fatalf("domain=%d: proof stream not fully consumed: %v", domain, err)
	}
}

func TestFriNoFoldCompleteness(t *testing.T) {
	runRoundtrip(t, MinDegree*InvRate, 8)
}

func TestFriOneFoldCompleteness(t *testing.T) {
	runRoundtrip(t, MinDegree*InvRate*FoldSize, 8)
}

func TestFriManipulatedProofFails(t *testing.T) {
	sha := core.NewSha()
	h := hal.NewCpuHal(sha)
	domain := MinDegree * InvRate * FoldSize
	initial := randomEvals(domain)

	w := transcript.NewWriter(sha)
	proveAt := func(w *transcript.Writer, idx int) {
		w.AppendFp4(initial[idx])
	}
	Prove(h, w, initial, NewParams(8), proveAt)

	flipped := make([]uint32, len(w.Proof))
	copy(flipped, w.Proof)
	flipped[len(flipped)/3] ^= 1

	r := transcript.NewReader(sha, flipped)
	verifyAt := func(r *transcript.Reader, idx int) (core.Fp4, error) {
		return r.ReadFp4()
	}
	err := Verify(sha, domain, r, NewParams(8), verifyAt)
	if err == nil {
		if completeErr := r.VerifyComplete(); completeErr == nil {
			t.Fatal("expected a single-bit flip to break verification somewhere")
		}
	}
}
