// Package polygroup implements the PolyGroup bundle from spec.md 4.6: a set
// of polynomials kept simultaneously as coefficients, an over-sampled
// evaluation domain, and a Merkle commitment over that domain, so the
// prover can both evaluate them (for DEEP-ALI) and open them (for FRI
// queries) without recomputing either view.
package polygroup

import (
	"github.com/stskeeps/risc0/internal/zkp/core"
	"github.com/stskeeps/risc0/internal/zkp/hal"
	"github.com/stskeeps/risc0/internal/zkp/merkle"
	"github.com/stskeeps/risc0/internal/zkp/transcript"
)

// InvRate is the FRI blow-up factor applied when building the evaluation
// domain a PolyGroup commits to (spec.md 4.7).
const InvRate = 4

// Group holds count polynomials of size coefficients each, their combined
// over-sampled evaluation matrix, and the Merkle commitment over it.
type Group struct {
	Count     int
	Size      int
	Coeffs    []core.Fp4 // count*size, natural order per polynomial
	Evaluated []core.Fp4 // count*size*InvRate, bit-reversed per polynomial
	tree      *merkle.Prover
}

// New builds a PolyGroup from count*size coefficients (spec.md 4.6). The
// evaluated matrix is handed to the Merkle tree as an (InvRate*size x
// 4*count) matrix of Fp, since the tree itself only speaks Fp columns; each
// Fp4 evaluation contributes its four coordinate words as four columns.
func New(h hal.Hal, coeffs []core.Fp4, count, size, queries int) *Group {
	if len(coeffs) != count*size {
		panic("polygroup: coeffs length does not match count*size")
	}
	evaluated := make([]core.Fp4, count*size*InvRate)
	copy(evaluated, coeffs)
	h.BatchEvaluateNTT(evaluated, count, InvRate)

	rows := size * InvRate
	cols := count * core.WordsFp4
	matrix := make([]core.Fp, rows*cols)
	for p := 0; p < count; p++ {
		for r := 0; r < rows; r++ {
			v := evaluated[p*rows+r]
			for w := 0; w < core.WordsFp4; w++ {
				matrix[r+(p*core.WordsFp4+w)*rows] = v[w]
			}
		}
	}

	tree := merkle.NewProver(h, matrix, rows, cols, queries)
	return &Group{
		Count:     count,
		Size:      size,
		Coeffs:    coeffs,
		Evaluated: evaluated,
		tree:      tree,
	}
}

// Root returns the commitment's Merkle root.
func (g *Group) Root() core.Digest { return g.tree.Root() }

// Commit writes the tree's top layer and mixes its root into the
// transcript.
func (g *Group) Commit(w *transcript.Writer) { g.tree.Commit(w) }

// Open emits the count Fp4 column values at a FRI query index, reassembled
// from the tree's Fp columns, plus the Merkle opening path.
func (g *Group) Open(w *transcript.Writer, idx int) []core.Fp4 {
	cols := g.tree.Prove(w, idx)
	out := make([]core.Fp4, g.Count)
	for p := 0; p < g.Count; p++ {
		var v core.Fp4
		for wi := 0; wi < core.WordsFp4; wi++ {
			v[wi] = cols[p*core.WordsFp4+wi]
		}
		out[p] = v
	}
	return out
}
