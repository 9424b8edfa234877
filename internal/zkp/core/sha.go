package core

import (
	"crypto/sha256"
	"encoding/binary"
)

// Sha is the narrow, black-box SHA-256 collaborator the spec treats the
// hashing primitive as (spec.md 9, "Foreign hashing kernel"): three
// callable capabilities and nothing more. Swapping the implementation
// (e.g. for a hardware-accelerated one) never changes a proof's bytes as
// long as it agrees bit-exactly with this one.
type Sha interface {
	// HashBytes returns SHA-256(data).
	HashBytes(data []byte) Digest
	// Compress returns SHA-256(a || b) for two 32-byte digests — the
	// internal-node hashing step of the Merkle tree and of ShaRng.mix.
	Compress(a, b Digest) Digest
	// HashRawWords hashes a slice of little-endian u32 words as if they
	// were the equivalent byte slice — used to hash Merkle tree columns
	// without a materialized byte copy.
	HashRawWords(words []uint32) Digest
}

// shaCPU is the default in-process implementation, backed by the standard
// library's crypto/sha256. The spec explicitly calls this out as the
// preferred choice ("implementations should prefer a hardened in-process
// implementation"); no library in the retrieved corpus offers a different
// SHA-256 worth swapping in (see DESIGN.md).
type shaCPU struct{}

// NewSha returns the default CPU SHA-256 implementation.
func NewSha() Sha { return shaCPU{} }

func (shaCPU) HashBytes(data []byte) Digest {
	return Digest(sha256.Sum256(data))
}

func (s shaCPU) Compress(a, b Digest) Digest {
	var buf [2 * DigestBytes]byte
	copy(buf[:DigestBytes], a[:])
	copy(buf[DigestBytes:], b[:])
	return s.HashBytes(buf[:])
}

func (s shaCPU) HashRawWords(words []uint32) Digest {
	buf := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], w)
	}
	return s.HashBytes(buf)
}
