// Package circuit defines the constraint-system capability interface
// spec.md treats as an opaque collaborator (spec.md 1, "The
// constraint-system definition... is treated as an opaque object with two
// callable capabilities") and ships one concrete in-process
// implementation satisfying it. Per spec.md 9 ("Circuit object... the
// codegen that produces it is out of scope"), the actual RV32+SHA AIR a
// production risc0-class circuit compiles to is not reimplemented here;
// what matters to the prover/verifier pipeline is only the shape of the
// interface, which this package grounds on
// original_source/risc0/zkp/rust/src/taps.rs and
// original_source/risc0/zkvm/sdk/rust/src/prove/poly_group.rs's
// generic-over-circuit structure.
package circuit

import (
	"github.com/stskeeps/risc0/internal/zkp/core"
	"github.com/stskeeps/risc0/internal/zkp/executor"
	"github.com/stskeeps/risc0/internal/zkp/hal"
)

// Group names which of the three column families a Tap reaches into,
// matching spec.md 4.10 step 5's fixed processing order (accum, code,
// data).
type Group int

const (
	GroupAccum Group = iota
	GroupCode
	GroupData
)

func (g Group) String() string {
	switch g {
	case GroupAccum:
		return "accum"
	case GroupCode:
		return "code"
	case GroupData:
		return "data"
	default:
		return "unknown"
	}
}

// Tap is a single (register, back-offset) pair the DEEP-ALI step opens:
// the circuit asserts that the named register's polynomial, evaluated at
// z*omega^(-back), takes some value it can check against (glossary,
// "Tap").
type Tap struct {
	Group    Group
	Register int
	ComboID  int
}

// Combo is a set of back-offsets sharing one denominator
// prod(X - z*omega^(-back)); every Tap routed to this combo is opened at
// every back-offset the combo lists (glossary, "Combo").
type Combo struct {
	Backs []int // ascending, distinct
}

// BackIndex returns the position of back within the combo's Backs, i.e.
// which coefficient-vector column a tap landing in this combo writes its
// evaluation to. Panics if back is not a member — a circuit bug, since
// TapSet construction controls both sides.
func (c Combo) BackIndex(back int) int {
	for i, b := range c.Backs {
		if b == back {
			return i
		}
	}
	panic("circuit: back-offset not registered in this combo")
}

// TapSet is the circuit's full declaration of what the DEEP-ALI step must
// open: Taps in the fixed accum/code/data order spec.md 4.10 step 5
// requires, plus the Combos they're routed to.
type TapSet struct {
	Taps   []Tap
	Combos []Combo
}

// ComboCount returns the number of distinct combos.
func (t TapSet) ComboCount() int { return len(t.Combos) }

// Circuit is the opaque capability set spec.md 9's "Circuit object" design
// note and spec.md 1's scope statement both describe: {taps(),
// execute(trace, iop), accumulate(iop), eval_check(...), poly_ext(u, out,
// mix)}.
type Circuit interface {
	// CodeWidth, DataWidth and AccumWidth report the Fp4-register count of
	// each column group (spec.md 3, "Trace": "Each group has a width
	// declared by the constraint system").
	CodeWidth() int
	DataWidth() int
	AccumWidth() int

	// PublicWords reports the fixed size of the public-output section at
	// the front of the proof stream (spec.md 6).
	PublicWords() int

	// Taps returns the circuit's fixed tap/combo declaration.
	Taps() TapSet

	// Execute runs the guest via the executor package, populating the
	// code and data traces and returning the journal bytes and the chosen
	// po2 (spec.md 4.10 step 2, "circuit.execute(iop)").
	Execute(mc *executor.MachineContext, entry uint32, image map[uint32]uint32, addrsInOrder []uint32) (code, data [][]core.Fp4, journal []byte, po2 int, err error)

	// Accumulate derives the accum trace from the already-committed code
	// and data traces using the mix challenge the transcript just drew
	// (spec.md 4.10 step 3, "circuit.accumulate(iop) draws its mix...").
	Accumulate(mix core.Fp4, code, data [][]core.Fp4, size int) [][]core.Fp4

	// EvalCheck evaluates the combined constraint polynomial pointwise
	// over the InvRate*size*ExtSize-point extended domain (spec.md 4.10
	// step 4).
	EvalCheck(h hal.Hal, size int, code, data, accum []core.Fp4, polyMix core.Fp4) []core.Fp4

	// PolyExt evaluates the same combined constraint polynomial at a
	// single out-of-domain point u, given the tap openings the DEEP-ALI
	// step already produced (in Taps() order) and the same polyMix
	// Accumulate/EvalCheck used; this is the verifier-side (and
	// guest-side COMPUTE_POLY GPIO) counterpart of EvalCheck (spec.md
	// 4.11 step 4).
	PolyExt(u core.Fp4, tapValues []core.Fp4, polyMix core.Fp4) core.Fp4
}
