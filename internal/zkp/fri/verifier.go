package fri

import (
	"github.com/stskeeps/risc0/internal/zkp/core"
	"github.com/stskeeps/risc0/internal/zkp/merkle"
	"github.com/stskeeps/risc0/internal/zkp/transcript"
	"github.com/stskeeps/risc0/internal/zkp/zkerr"
)

// VerifyAtFunc mirrors ProveAtFunc on the read side: it reads whatever
// out-of-domain openings accompany this FRI instance at idx, reconstructs
// the combo value from them, and returns it for comparison against the
// value FRI's own layers fold down to at the same index.
type VerifyAtFunc func(r *transcript.Reader, idx int) (core.Fp4, error)

func columnToFp4Block(col []core.Fp) []core.Fp4 {
	out := make([]core.Fp4, len(col)/core.WordsFp4)
	for i := range out {
		for w := 0; w < core.WordsFp4; w++ {
			out[i][w] = col[i*core.WordsFp4+w]
		}
	}
	return out
}

type friLayer struct {
	verifier *merkle.Verifier
	alpha    core.Fp4
}

// Verify replays Prove in read mode: it reads each layer's committed top
// and draws the same fold challenge, then for each query walks the same
// path the prover opened, checking that folding each opened block with that
// layer's challenge reproduces the entry the next layer (or the final
// in-clear array) holds at the corresponding position, and finally that
// verifyAt's reconstructed combo value matches the entry the first committed
// layer (or the in-clear array, when no layer was committed) holds at idx.
func Verify(sha core.Sha, originalDomain int, r *transcript.Reader, params Params, verifyAt VerifyAtFunc) error {
	var layers []friLayer

	domain := originalDomain
	for domain/InvRate > MinDegree {
		rows := domain / FoldSize
		cols := FoldSize * core.WordsFp4
		v, err := merkle.NewVerifier(sha, r, rows, cols, params.Queries)
		if err != nil {
			return err
		}
		alpha := r.DrawFp4()
		layers = append(layers, friLayer{verifier: v, alpha: alpha})
		domain /= FoldSize
	}

	finalLenWords, err := r.ReadWords(1)
	if err != nil {
		return err
	}
	finalLen := int(finalLenWords[0])
	if finalLen != domain {
		return zkerr.Invalidf("fri: final layer length %d does not match expected %d", finalLen, domain)
	}
	final := make([]core.Fp4, finalLen)
	for i := range final {
		v, err := r.ReadFp4()
		if err != nil {
			return err
		}
		final[i] = v
	}

	for q := 0; q < params.Queries; q++ {
		idx := int(r.DrawU32()) % originalDomain

		ancestor := idx
		var expected, top core.Fp4
		haveExpected := false
		for li, layer := range layers {
			row := ancestor / FoldSize
			col, err := layer.verifier.Verify(r, row)
			if err != nil {
				return zkerr.Wrap(zkerr.InvalidProof, "fri: layer opening failed", err)
			}
			block := columnToFp4Block(col)
			if li == 0 {
				top = block[ancestor%FoldSize]
			}
			if haveExpected {
				local := ancestor % FoldSize
				if !block[local].Equal(expected) {
					return zkerr.Invalidf("fri: query %d fold inconsistency between layers", q)
				}
			}
			expected = core.PolyEval(block, layer.alpha)
			haveExpected = true
			ancestor = row
		}

		if !haveExpected {
			top = final[ancestor]
		} else if !final[ancestor].Equal(expected) {
			return zkerr.Invalidf("fri: query %d final layer does not match last fold", q)
		}

		got, err := verifyAt(r, idx)
		if err != nil {
			return err
		}
		if !got.Equal(top) {
			return zkerr.Invalidf("fri: query %d combo value does not match folded layer value", q)
		}
	}
	return nil
}
