package transcript

import (
	"github.com/stskeeps/risc0/internal/zkp/core"
	"github.com/stskeeps/risc0/internal/zkp/zkerr"
)

// Reader borrows an already-received proof word stream and replays the
// ShaRng logic a Writer used to build it. Every Read/Commit call must occur
// in the exact order the corresponding Writer calls happened, or the
// transcripts diverge and verification fails.
type Reader struct {
	proof  []uint32
	cursor int
	rng    *core.ShaRng
}

// NewReader wraps a received proof word stream for sequential consumption.
func NewReader(sha core.Sha, proof []uint32) *Reader {
	return &Reader{proof: proof, rng: core.NewShaRng(sha)}
}

// ReadWords advances the cursor by n words and returns them, or a
// MalformedProof error if the stream is exhausted first.
func (r *Reader) ReadWords(n int) ([]uint32, error) {
	if r.cursor+n > len(r.proof) {
		return nil, zkerr.Malformedf("transcript: need %d more words, only %d remain", n, len(r.proof)-r.cursor)
	}
	out := r.proof[r.cursor : r.cursor+n]
	r.cursor += n
	return out, nil
}

// ReadFp reads one base-field element, or a MalformedProof error if the
// stream is exhausted first.
func (r *Reader) ReadFp() (core.Fp, error) {
	words, err := r.ReadWords(1)
	if err != nil {
		return core.FpZero, err
	}
	return core.NewFp(uint64(words[0])), nil
}

// ReadFp4 reads one extension-field element, or a MalformedProof error if
// the stream is exhausted first.
func (r *Reader) ReadFp4() (core.Fp4, error) {
	words, err := r.ReadWords(4)
	if err != nil {
		return core.Fp4Zero, err
	}
	return core.Fp4FromU32Words([4]uint32{words[0], words[1], words[2], words[3]}), nil
}

// ReadDigest reads one digest as eight words, or a MalformedProof error if
// the stream is exhausted first.
func (r *Reader) ReadDigest() (core.Digest, error) {
	words, err := r.ReadWords(8)
	if err != nil {
		return core.ZeroDigest, err
	}
	var w8 [8]uint32
	copy(w8[:], words)
	return core.DigestFromWords(w8), nil
}

// CommitDigest mixes the caller's independently-reconstructed digest into
// the RNG, matching the writer side's CommitDigest.
func (r *Reader) CommitDigest(d core.Digest) {
	r.rng.Mix(d)
}

// DrawU32 draws the next pseudo-random word, identical to the writer side.
func (r *Reader) DrawU32() uint32 { return r.rng.NextU32() }

// DrawFp draws a uniform base-field challenge.
func (r *Reader) DrawFp() core.Fp { return r.rng.NextFp() }

// DrawFp4 draws a uniform extension-field challenge.
func (r *Reader) DrawFp4() core.Fp4 { return r.rng.NextFp4() }

// VerifyComplete asserts every word of the proof stream was consumed.
func (r *Reader) VerifyComplete() error {
	if r.cursor != len(r.proof) {
		return zkerr.Malformedf("transcript: %d words left unread out of %d", len(r.proof)-r.cursor, len(r.proof))
	}
	return nil
}
