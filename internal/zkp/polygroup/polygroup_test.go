package polygroup

import (
	"testing"

	"github.com/stskeeps/risc0/internal/zkp/core"
	"github.com/stskeeps/risc0/internal/zkp/hal"
	"github.com/stskeeps/risc0/internal/zkp/transcript"
)

func TestPolyGroupCommitOpenRoundtrip(t *testing.T) {
	sha := core.NewSha()
	h := hal.NewCpuHal(sha)
	rng := core.NewShaRng(sha)

	count, size, queries := 3, 4, 2
	coeffs := make([]core.Fp4, count*size)
	for i := range coeffs {
		coeffs[i] = rng.NextFp4()
	}

	g := New(h, coeffs, count, size, queries)

	w := transcript.NewWriter(sha)
	g.Commit(w)
	opened := g.Open(w, 1)

	r := transcript.NewReader(sha, w.Proof)
	v, err := NewVerifier(sha, r, count, size, queries)
	if err != nil {
		t.Fatalf("unexpected NewVerifier error: %v", err)
	}
	if !v.Root().Equal(g.Root()) {
		t.Fatal("verifier root does not match prover root")
	}
	got, err := v.Open(r, 1)
	if err != nil {
		t.Fatalf("unexpected verify error: %v", err)
	}
	for i := range got {
		if !got[i].Equal(opened[i]) {
			t.Fatalf("column %d: got %s want %s", i, got[i], opened[i])
		}
	}
}
