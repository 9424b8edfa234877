package polygroup

import (
	"github.com/stskeeps/risc0/internal/zkp/core"
	"github.com/stskeeps/risc0/internal/zkp/merkle"
	"github.com/stskeeps/risc0/internal/zkp/transcript"
)

// Verifier is the read-side counterpart to Group: it reads and commits the
// top layer, then lets the caller reopen individual query columns.
type Verifier struct {
	Count int
	Size  int
	tree  *merkle.Verifier
}

// NewVerifier reads a PolyGroup's committed top layer off the transcript,
// or returns a MalformedProof error if the stream runs out first.
func NewVerifier(sha core.Sha, r *transcript.Reader, count, size, queries int) (*Verifier, error) {
	rows := size * InvRate
	cols := count * core.WordsFp4
	tree, err := merkle.NewVerifier(sha, r, rows, cols, queries)
	if err != nil {
		return nil, err
	}
	return &Verifier{
		Count: count,
		Size:  size,
		tree:  tree,
	}, nil
}

// Root returns the root reconstructed from the committed top layer.
func (v *Verifier) Root() core.Digest { return v.tree.Root() }

// Open reads and verifies the column opening at idx, returning the count
// reassembled Fp4 values.
func (v *Verifier) Open(r *transcript.Reader, idx int) ([]core.Fp4, error) {
	cols, err := v.tree.Verify(r, idx)
	if err != nil {
		return nil, err
	}
	out := make([]core.Fp4, v.Count)
	for p := 0; p < v.Count; p++ {
		var val core.Fp4
		for wi := 0; wi < core.WordsFp4; wi++ {
			val[wi] = cols[p*core.WordsFp4+wi]
		}
		out[p] = val
	}
	return out, nil
}
