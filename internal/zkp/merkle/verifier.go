package merkle

import (
	"github.com/stskeeps/risc0/internal/zkp/core"
	"github.com/stskeeps/risc0/internal/zkp/transcript"
	"github.com/stskeeps/risc0/internal/zkp/zkerr"
)

// Verifier replays a Prover's commitment: it reads the pre-revealed top
// layer from the transcript, then for each query reconstructs the path up
// to the top and checks it matches.
type Verifier struct {
	sha    core.Sha
	params Params
	top    []core.Digest
	root   core.Digest
}

// NewVerifier reads the top layer off the transcript and commits the
// reconstructed root, mirroring Prover.Commit in read-mode. Returns a
// MalformedProof error if the stream runs out while reading the top layer.
func NewVerifier(sha core.Sha, tr *transcript.Reader, rows, cols, queries int) (*Verifier, error) {
	params := NewParams(rows, cols, queries)
	top := make([]core.Digest, params.TopSize)
	for i := range top {
		d, err := tr.ReadDigest()
		if err != nil {
			return nil, err
		}
		top[i] = d
	}
	root := foldTop(sha, top)
	tr.CommitDigest(root)
	return &Verifier{sha: sha, params: params, top: top, root: root}, nil
}

func foldTop(sha core.Sha, top []core.Digest) core.Digest {
	layer := make([]core.Digest, len(top))
	copy(layer, top)
	for len(layer) > 1 {
		next := make([]core.Digest, len(layer)/2)
		for i := range next {
			next[i] = sha.Compress(layer[2*i], layer[2*i+1])
		}
		layer = next
	}
	return layer[0]
}

// Root returns the root reconstructed from the committed top layer.
func (v *Verifier) Root() core.Digest { return v.root }

// Verify reads the column and sibling path for a claimed row idx, recomputes
// the path up to the top layer, and checks it against the digest already
// read from top[idx-within-top]. Returns the opened column on success.
func (v *Verifier) Verify(tr *transcript.Reader, idx int) ([]core.Fp, error) {
	if idx < 0 || idx >= v.params.Rows {
		return nil, zkerr.Invalidf("merkle: row index %d out of range [0,%d)", idx, v.params.Rows)
	}
	col := make([]core.Fp, v.params.Cols)
	words := make([]uint32, v.params.Cols)
	for i := range col {
		fp, err := tr.ReadFp()
		if err != nil {
			return nil, err
		}
		col[i] = fp
		words[i] = uint32(col[i])
	}
	cur := v.sha.HashRawWords(words)

	i := idx + v.params.Rows
	for i >= 2*v.params.TopSize {
		sibling, err := tr.ReadDigest()
		if err != nil {
			return nil, err
		}
		if i%2 == 0 {
			cur = v.sha.Compress(cur, sibling)
		} else {
			cur = v.sha.Compress(sibling, cur)
		}
		i /= 2
	}

	topIdx := i - v.params.TopSize
	if topIdx < 0 || topIdx >= len(v.top) || !cur.Equal(v.top[topIdx]) {
		return nil, zkerr.Invalidf("merkle: path for row %d does not reach the committed top layer", idx)
	}
	return col, nil
}
