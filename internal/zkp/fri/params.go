// Package fri implements the DEEP-FRI low-degree test described in
// spec.md 4.7: a committed evaluation layer is repeatedly folded 16-wide
// (FoldPo2 = 4) until its implied degree drops to FriMinDegree, at which
// point the remaining values are written in clear and QUERIES random
// openings tie every committed layer back to the original combo
// polynomial. Distinct from the teacher's binary TR17-134-style fold; this
// package keeps the teacher's Merkle-commit-then-query shape while
// replacing the fold arithmetic with the spec's radix-16 scheme.
package fri

// InvRate is the evaluation-domain blow-up factor relative to the claimed
// polynomial degree.
const InvRate = 4

// FoldPo2 is log2 of the fold factor: each round combines 2^FoldPo2 = 16
// consecutive evaluations into one.
const FoldPo2 = 4

// FoldSize is the fold factor itself.
const FoldSize = 1 << FoldPo2

// MinDegree is the degree threshold below which folding stops and the
// remaining values are written to the proof stream in clear.
const MinDegree = 256

// DefaultQueries is the typical security parameter from spec.md 4.7.
const DefaultQueries = 50

// Params pins down the shape both prover and verifier must agree on.
type Params struct {
	Queries int
}

// NewParams builds Params with the given number of query rounds.
func NewParams(queries int) Params { return Params{Queries: queries} }
