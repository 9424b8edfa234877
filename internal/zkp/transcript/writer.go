// Package transcript implements the Fiat-Shamir proof transcript described
// in spec.md 4.8 and unified per the "Transcript as sum type" design note:
// Writer and Reader are dual views over the same ShaRng-driven logic,
// exposing {append_words, commit_digest, draw_u32, draw_fp, draw_fp4} in
// write and read form respectively. Grounded on
// original_source/risc0/zkp/rust/src/prove/write_iop.rs and
// verify/read_iop.rs.
package transcript

import (
	"encoding/binary"

	"github.com/stskeeps/risc0/internal/zkp/core"
)

// Writer owns the growing proof word stream and the ShaRng driving it.
type Writer struct {
	Proof []uint32
	rng   *core.ShaRng
	sha   core.Sha
}

// NewWriter starts a fresh, empty proof stream.
func NewWriter(sha core.Sha) *Writer {
	return &Writer{sha: sha, rng: core.NewShaRng(sha)}
}

// AppendWords appends raw words to the proof stream without touching the
// RNG state.
func (w *Writer) AppendWords(words []uint32) {
	w.Proof = append(w.Proof, words...)
}

// AppendFp appends one field element as a single word.
func (w *Writer) AppendFp(v core.Fp) {
	w.AppendWords([]uint32{uint32(v)})
}

// AppendFp4 appends an extension field element as four words.
func (w *Writer) AppendFp4(v core.Fp4) {
	w.AppendWords([]uint32{uint32(v[0]), uint32(v[1]), uint32(v[2]), uint32(v[3])})
}

// AppendDigest appends a digest as eight little-endian words.
func (w *Writer) AppendDigest(d core.Digest) {
	words := d.Words()
	w.AppendWords(words[:])
}

// CommitDigest mixes a digest into the RNG without appending it to the
// proof stream; the verifier reconstructs the same digest independently
// (e.g. as a Merkle root) and commits it in lockstep (spec.md 4.8).
func (w *Writer) CommitDigest(d core.Digest) {
	w.rng.Mix(d)
}

// DrawU32 draws the next pseudo-random word from the transcript.
func (w *Writer) DrawU32() uint32 { return w.rng.NextU32() }

// DrawFp draws a uniform base-field challenge.
func (w *Writer) DrawFp() core.Fp { return w.rng.NextFp() }

// DrawFp4 draws a uniform extension-field challenge.
func (w *Writer) DrawFp4() core.Fp4 { return w.rng.NextFp4() }

// Bytes renders the proof stream as little-endian bytes, the wire format
// described in spec.md 6 ("Proof stream (seal)").
func (w *Writer) Bytes() []byte {
	buf := make([]byte, 4*len(w.Proof))
	for i, word := range w.Proof {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], word)
	}
	return buf
}
