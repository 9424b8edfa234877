package zkvm

import (
	"encoding/binary"

	"github.com/stskeeps/risc0/internal/zkp/params"
	"github.com/stskeeps/risc0/internal/zkp/zkerr"
)

// Config tunes the prover/verifier pipeline; a prover and the verifier
// checking its output must agree on Queries (spec.md 4.7, "QUERIES").
type Config = params.Config

// DefaultConfig returns the spec's default query count and verbosity
// (spec.md 4.7, "DefaultQueries").
func DefaultConfig() *Config { return params.DefaultConfig() }

// Receipt bundles a guest's public journal with the proof stream backing
// it (spec.md 6, "Receipt").
type Receipt struct {
	// Journal is the guest-committed public output.
	Journal []byte
	// Seal is the proof stream, a contiguous little-endian u32 sequence
	// (spec.md 6, "Proof stream (seal)").
	Seal []uint32
}

// Encode renders a Receipt to a flat byte stream: a u32 journal length,
// the journal bytes, then the seal as little-endian u32 words — the
// on-disk shape the CLI's --receipt file uses.
func (r *Receipt) Encode() []byte {
	out := make([]byte, 4+len(r.Journal)+4*len(r.Seal))
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(r.Journal)))
	copy(out[4:4+len(r.Journal)], r.Journal)
	off := 4 + len(r.Journal)
	for i, w := range r.Seal {
		binary.LittleEndian.PutUint32(out[off+4*i:off+4*i+4], w)
	}
	return out
}

// DecodeReceipt parses a Receipt previously written by Encode.
func DecodeReceipt(b []byte) (*Receipt, error) {
	if len(b) < 4 {
		return nil, zkerr.Malformedf("zkvm: receipt file too short to hold a journal length")
	}
	jlen := int(binary.LittleEndian.Uint32(b[0:4]))
	if 4+jlen > len(b) {
		return nil, zkerr.Malformedf("zkvm: receipt file truncated: journal claims %d bytes", jlen)
	}
	journal := append([]byte(nil), b[4:4+jlen]...)
	rest := b[4+jlen:]
	if len(rest)%4 != 0 {
		return nil, zkerr.Malformedf("zkvm: receipt file's seal section is not a whole number of words")
	}
	seal := make([]uint32, len(rest)/4)
	for i := range seal {
		seal[i] = binary.LittleEndian.Uint32(rest[4*i : 4*i+4])
	}
	return &Receipt{Journal: journal, Seal: seal}, nil
}

// MethodID is the per-trace-size Merkle root table binding a Receipt to
// the guest ELF it claims to have run (spec.md 4.12, 6 "MethodId file").
type MethodID struct {
	raw []byte
}

// MethodIDFromBytes parses a MethodId file's raw contents.
func MethodIDFromBytes(b []byte) MethodID { return MethodID{raw: append([]byte(nil), b...)} }

// Bytes renders the table back to its on-disk form.
func (m MethodID) Bytes() []byte { return append([]byte(nil), m.raw...) }
