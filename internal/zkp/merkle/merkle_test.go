package merkle

import (
	"testing"

	"github.com/stskeeps/risc0/internal/zkp/core"
	"github.com/stskeeps/risc0/internal/zkp/hal"
	"github.com/stskeeps/risc0/internal/zkp/transcript"
)

func buildMatrix(rows, cols int) []core.Fp {
	m := make([]core.Fp, rows*cols)
	for i := range m {
		m[i] = core.NewFp(uint64(1_000_000 - i))
	}
	return m
}

func TestMerkleRoundtrip(t *testing.T) {
	cases := []struct{ rows, cols, queries int }{
		{1, 1, 1},
		{4, 4, 2},
		{16, 3, 5},
	}
	sha := core.NewSha()
	for _, c := range cases {
		h := hal.NewCpuHal(sha)
		matrix := buildMatrix(c.rows, c.cols)
		prover := NewProver(h, matrix, c.rows, c.cols, c.queries)

		w := transcript.NewWriter(sha)
		prover.Commit(w)
		for row := 0; row < c.rows; row++ {
			prover.Prove(w, row)
		}

		r := transcript.NewReader(sha, w.Proof)
		verifier, err := NewVerifier(sha, r, c.rows, c.cols, c.queries)
		if err != nil {
			t.Fatalf("rows=%d cols=%d: unexpected NewVerifier error %v", c.rows, c.cols, err)
		}
		if !verifier.Root().Equal(prover.Root()) {
			t.Fatalf("rows=%d cols=%d: root mismatch", c.rows, c.cols)
		}
		for row := 0; row < c.rows; row++ {
			col, err := verifier.Verify(r, row)
			if err != nil {
				t.Fatalf("rows=%d cols=%d row=%d: unexpected error %v", c.rows, c.cols, row, err)
			}
			for ci := 0; ci < c.cols; ci++ {
				want := matrix[row+ci*c.rows]
				if !col[ci].Equal(want) {
					t.Fatalf("row=%d col=%d: got %s want %s", row, ci, col[ci], want)
				}
			}
		}
	}
}

func TestMerkleWrongRowFails(t *testing.T) {
	sha := core.NewSha()
	h := hal.NewCpuHal(sha)
	matrix := buildMatrix(4, 4)
	prover := NewProver(h, matrix, 4, 4, 2)

	w := transcript.NewWriter(sha)
	prover.Commit(w)
	prover.Prove(w, 2)

	r := transcript.NewReader(sha, w.Proof)
	verifier, err := NewVerifier(sha, r, 4, 4, 2)
	if err != nil {
		t.Fatalf("unexpected NewVerifier error: %v", err)
	}
	if _, err := verifier.Verify(r, 1); err == nil {
		t.Fatal("expected verification to fail when querying the wrong row")
	}
}

func TestMerkleBitFlipFails(t *testing.T) {
	sha := core.NewSha()
	h := hal.NewCpuHal(sha)
	matrix := buildMatrix(8, 2)
	prover := NewProver(h, matrix, 8, 2, 3)

	w := transcript.NewWriter(sha)
	prover.Commit(w)
	prover.Prove(w, 5)

	flipped := make([]uint32, len(w.Proof))
	copy(flipped, w.Proof)
	flipped[len(flipped)/2] ^= 1

	r := transcript.NewReader(sha, flipped)
	verifier, err := NewVerifier(sha, r, 8, 2, 3)
	if err != nil {
		t.Fatalf("unexpected NewVerifier error: %v", err)
	}
	_, err = verifier.Verify(r, 5)
	if err == nil && verifier.Root().Equal(prover.Root()) {
		t.Fatal("expected a bit flip somewhere in the proof to break verification")
	}
}
