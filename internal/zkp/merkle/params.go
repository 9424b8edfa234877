// Package merkle implements the heap-indexed binary Merkle tree described in
// spec.md 4.4: leaves are SHA-256 of each matrix column, internal nodes are
// stored 1-indexed with node N's children at 2N and 2N+1, and a bounded
// "top layer" is revealed up front so that repeated verifier queries amortize
// the cost of re-hashing shared path prefixes. Grounded on
// original_source/risc0/zkp/rust/src/prove/merkle.rs and its verifier
// counterpart.
package merkle

import "math/bits"

// Params pins down the tree shape both prover and verifier must agree on.
type Params struct {
	Rows    int
	Cols    int
	Queries int
	Layers  int // log2(Rows)
	TopSize int // size of the pre-revealed top layer, a power of two >= Queries
}

func log2Exact(n int) int {
	if n <= 0 || n&(n-1) != 0 {
		panic("merkle: rows must be a power of two")
	}
	return bits.TrailingZeros(uint(n))
}

// NewParams derives the top-layer size from queries: the smallest power of
// two at least as large as queries, capped at the tree's full height so a
// tiny tree never tries to reveal more than it has (spec.md 4.4,
// "top_size >= queries").
func NewParams(rows, cols, queries int) Params {
	layers := log2Exact(rows)
	topLayer := 0
	for (1 << topLayer) < queries {
		topLayer++
	}
	if topLayer > layers {
		topLayer = layers
	}
	return Params{
		Rows:    rows,
		Cols:    cols,
		Queries: queries,
		Layers:  layers,
		TopSize: 1 << topLayer,
	}
}
