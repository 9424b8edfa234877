package fri

import (
	"github.com/stskeeps/risc0/internal/zkp/core"
	"github.com/stskeeps/risc0/internal/zkp/hal"
	"github.com/stskeeps/risc0/internal/zkp/merkle"
	"github.com/stskeeps/risc0/internal/zkp/transcript"
)

// ProveAtFunc is the per-query callback the caller supplies to open
// whatever out-of-domain committed groups (accum/code/data/check
// PolyGroups) accompany this FRI instance at the given original-domain
// index (spec.md 4.7, "prove_at(iop, idx)").
type ProveAtFunc func(w *transcript.Writer, idx int)

// layerMatrix reshapes an evaluation layer of Fp4 values into the column
// major (rows x cols) Fp matrix merkle.NewProver expects: each row holds
// FoldSize consecutive Fp4 values (4*FoldSize Fp words).
func layerMatrix(evals []core.Fp4) (matrix []core.Fp, rows, cols int) {
	rows = len(evals) / FoldSize
	cols = FoldSize * core.WordsFp4
	matrix = make([]core.Fp, rows*cols)
	for r := 0; r < rows; r++ {
		for i := 0; i < FoldSize; i++ {
			v := evals[r*FoldSize+i]
			for w := 0; w < core.WordsFp4; w++ {
				matrix[r+(i*core.WordsFp4+w)*rows] = v[w]
			}
		}
	}
	return
}

// fold replaces every FoldSize-wide block with a single value: the block,
// read as the coefficients of a degree-(FoldSize-1) polynomial, evaluated
// at alpha (spec.md 4.7, "polynomial-evaluation-at-alpha view of that
// block").
func fold(evals []core.Fp4, alpha core.Fp4) []core.Fp4 {
	out := make([]core.Fp4, len(evals)/FoldSize)
	for i := range out {
		out[i] = core.PolyEval(evals[i*FoldSize:i*FoldSize+FoldSize], alpha)
	}
	return out
}

// Prove runs the fold-commit loop over an initial evaluation layer (length
// a multiple of FoldSize, conventionally INV_RATE times the claimed
// degree), writes the final sub-MinDegree layer in clear, then emits
// QUERIES random openings tying every layer together, invoking proveAt once
// per query for the caller's own out-of-domain openings.
func Prove(h hal.Hal, w *transcript.Writer, initial []core.Fp4, params Params, proveAt ProveAtFunc) {
	originalDomain := len(initial)
	layers := make([]*merkle.Prover, 0)
	cur := initial

	for len(cur)/InvRate > MinDegree {
		matrix, rows, cols := layerMatrix(cur)
		prover := merkle.NewProver(h, matrix, rows, cols, params.Queries)
		prover.Commit(w)
		layers = append(layers, prover)

		alpha := w.DrawFp4()
		cur = fold(cur, alpha)
	}

	// cur now holds the final sub-threshold layer; write it in clear.
	w.AppendWords([]uint32{uint32(len(cur))})
	for _, v := range cur {
		w.AppendFp4(v)
	}

	for q := 0; q < params.Queries; q++ {
		idx := int(w.DrawU32()) % originalDomain
		ancestor := idx
		for _, layer := range layers {
			row := ancestor / FoldSize
			layer.Prove(w, row)
			ancestor = row
		}
		proveAt(w, idx)
	}
}
