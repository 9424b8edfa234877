package merkle

import (
	"github.com/stskeeps/risc0/internal/zkp/core"
	"github.com/stskeeps/risc0/internal/zkp/hal"
	"github.com/stskeeps/risc0/internal/zkp/transcript"
)

// Prover builds and holds a committed Merkle tree over a column-major
// (rows x cols) matrix of field elements. Node N's children live at 2N and
// 2N+1; the slice is 1-indexed so node 1 is the root and the unused index 0
// is left as the zero digest.
type Prover struct {
	params Params
	matrix []core.Fp
	nodes  []core.Digest // len = 2*rows, 1-indexed
	root   core.Digest
}

// NewProver hashes each column of matrix into leaves and folds the tree
// bottom-up to the root, following original_source's merkle.rs::new.
func NewProver(h hal.Hal, matrix []core.Fp, rows, cols, queries int) *Prover {
	if len(matrix) != rows*cols {
		panic("merkle: matrix size does not match rows*cols")
	}
	params := NewParams(rows, cols, queries)
	nodes := make([]core.Digest, 2*rows)

	h.ShaRows(nodes[rows:2*rows], matrix, rows, cols)
	for i := params.Layers - 1; i >= 0; i-- {
		layerSize := 1 << i
		h.ShaFold(nodes, layerSize*2, layerSize)
	}

	return &Prover{
		params: params,
		matrix: matrix,
		nodes:  nodes,
		root:   nodes[1],
	}
}

// Root returns the committed root digest.
func (p *Prover) Root() core.Digest { return p.root }

// Commit writes the pre-revealed top layer to the transcript and mixes the
// root into it (spec.md 4.4, "Commit").
func (p *Prover) Commit(tr *transcript.Writer) {
	top := p.nodes[p.params.TopSize : 2*p.params.TopSize]
	for _, d := range top {
		tr.AppendDigest(d)
	}
	tr.CommitDigest(p.root)
}

// Prove emits the column at idx followed by every sibling digest needed to
// walk up to (but not including) the pre-committed top layer, and returns
// the opened column values.
func (p *Prover) Prove(tr *transcript.Writer, idx int) []core.Fp {
	if idx < 0 || idx >= p.params.Rows {
		panic("merkle: row index out of range")
	}
	out := make([]core.Fp, p.params.Cols)
	for i := 0; i < p.params.Cols; i++ {
		out[i] = p.matrix[idx+i*p.params.Rows]
		tr.AppendFp(out[i])
	}

	i := idx + p.params.Rows
	for i >= 2*p.params.TopSize {
		otherIdx := i ^ 1
		tr.AppendDigest(p.nodes[otherIdx])
		i /= 2
	}
	return out
}
