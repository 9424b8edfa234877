// Grounded on original_source/risc0/zkvm/sdk/rust/src/prove/exec.rs's
// CodeLoader/load_code: the circuit consumes one fixed-width "code" row per
// cycle, and every cycle falls into one of a small number of phases (INIT,
// LOAD, RESET, instruction body, FINI) that set a handful of code slots and
// otherwise leave the row zeroed.
package executor

import "github.com/stskeeps/risc0/internal/zkp/core"

// Code register slots a CodeLoader cycle can populate (spec.md 4.9,
// "Code row layout"). Only a handful of slots are live on any given cycle;
// everything else in the row is zero.
const (
	codeCycle = iota
	codeTypeNormal
	codeTypeFinal
	codeTypeInit
	codeTypeLoad
	codeTypeReset
	codeTypeFini
	codeShaCtrl
	codeShaLoad
	codeShaMix
	codeP1
	codeP2
	codeData1Low
	codeData1High
	codeData2Low
	codeData2High
	codeRowWidth
)

// shaRoundConstants are the 64 SHA-256 round constants, streamed into the
// code row's ShaLoad/ShaMix phases one per cycle (spec.md 4.9, "the SHA
// coprocessor phase of a cycle streams one round constant").
var shaRoundConstants = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

// sha256InitialState is the standard SHA-256 initial hash value, split and
// streamed into the code row's ShaCtrl phase across the first four cycles
// of body(), high word first (matching the Rust loader's `3 - sha_phase`
// indexing).
var sha256InitialState = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

func cond(b bool) core.Fp {
	if b {
		return core.FpOne
	}
	return core.FpZero
}

// StepFunc consumes one populated code row (fini is 1 for body-phase rows
// and 0 for INIT, LOAD, RESET and FINI rows) and reports whether the loader
// should keep stepping;
// it is how the circuit's own trace builder gets fed one row at a time.
type StepFunc func(code []core.Fp, fini int) (bool, error)

// CodeLoader drives a guest image through the fixed INIT/LOAD/RESET/body/
// FINI cycle structure every risc0-style execution trace follows, handing
// each populated row to a StepFunc.
type CodeLoader struct {
	cycle uint32
	code  []core.Fp
	step  StepFunc
}

// NewCodeLoader returns a loader starting at cycle 0 with a zeroed row.
func NewCodeLoader(step StepFunc) *CodeLoader {
	return &CodeLoader{code: make([]core.Fp, codeRowWidth), step: step}
}

func (l *CodeLoader) start() {
	for i := range l.code {
		l.code[i] = core.FpZero
	}
	l.code[codeCycle] = core.NewFp(uint64(l.cycle))
}

func (l *CodeLoader) next() (bool, error) {
	l.cycle++
	keepGoing, err := l.step(l.code, 0)
	if err != nil {
		return false, err
	}
	return keepGoing, nil
}

func (l *CodeLoader) nextFini(fini int) (bool, error) {
	l.cycle++
	return l.step(l.code, fini)
}

// Init emits the single INIT cycle that opens every trace.
func (l *CodeLoader) Init() (bool, error) {
	l.start()
	l.code[codeTypeInit] = core.FpOne
	return l.next()
}

// Load emits one LOAD cycle per populated word of the guest's memory
// image, carrying the word address (in words) and value (split into Fp
// halves) plus a ROM flag for the memory-consistency argument.
func (l *CodeLoader) Load(addr, data uint32) (bool, error) {
	low, high := splitWord(data)
	l.start()
	l.code[codeTypeLoad] = core.FpOne
	wordAddr := addr
	l.code[codeP1] = core.NewFp(uint64(wordAddr))
	l.code[codeP2] = cond(wordAddr >= romBoundary)
	l.code[codeData1Low] = low
	l.code[codeData1High] = high
	return l.next()
}

// Reset emits the single RESET cycle that hands control to startAddr.
func (l *CodeLoader) Reset(startAddr uint32) (bool, error) {
	l.start()
	l.code[codeTypeReset] = core.FpOne
	l.code[codeP1] = core.NewFp(uint64(startAddr))
	return l.next()
}

// Fini emits the single FINI cycle that closes the trace.
func (l *CodeLoader) Fini() (bool, error) {
	l.start()
	l.code[codeTypeFini] = core.FpOne
	return l.next()
}

// Body runs the instruction-execution phase: a cycle-triple (two normal
// cycles, one "final" cycle) interleaved with a 72-cycle SHA coprocessor
// phase that streams the initial state then all 64 round constants then
// idles, continuing until the step callback reports it is done.
func (l *CodeLoader) Body() error {
	baseCycle := l.cycle
	for {
		l.start()

		instPhase := (l.cycle - baseCycle) % 3
		if instPhase == 2 {
			l.code[codeTypeFinal] = core.FpOne
		} else {
			l.code[codeTypeNormal] = core.FpOne
		}

		shaPhase := (l.cycle - baseCycle) % 72
		switch {
		case shaPhase < 4:
			init1Lo, init1Hi := splitWord(sha256InitialState[3-shaPhase])
			init2Lo, init2Hi := splitWord(sha256InitialState[7-shaPhase])
			l.code[codeShaCtrl] = core.FpOne
			l.code[codeP1] = core.NewFp(uint64(shaPhase))
			l.code[codeP2] = cond(shaPhase == 0)
			l.code[codeData1Low] = init1Lo
			l.code[codeData1High] = init1Hi
			l.code[codeData2Low] = init2Lo
			l.code[codeData2High] = init2Hi

		case shaPhase < 20:
			roundLo, roundHi := splitWord(shaRoundConstants[shaPhase-4])
			l.code[codeShaLoad] = core.FpOne
			l.code[codeData1Low] = roundLo
			l.code[codeData1High] = roundHi

		case shaPhase < 68:
			roundLo, roundHi := splitWord(shaRoundConstants[shaPhase-4])
			l.code[codeShaMix] = core.FpOne
			l.code[codeP1] = cond(shaPhase >= 64)
			l.code[codeP2] = cond(shaPhase == 67)
			l.code[codeData1Low] = roundLo
			l.code[codeData1High] = roundHi

		default:
			l.code[codeShaCtrl] = core.FpOne
			l.code[codeP1] = core.NewFp(uint64(shaPhase - 68 + 4))
		}

		keepGoing, err := l.nextFini(1)
		if err != nil {
			return err
		}
		if !keepGoing {
			return nil
		}
	}
}

// LoadCode runs the full INIT/LOAD/RESET/body/FINI cycle over a guest
// image (word address -> word value), handing every populated code row to
// step.
func LoadCode(startAddr uint32, image map[uint32]uint32, addrsInOrder []uint32, step StepFunc) error {
	loader := NewCodeLoader(step)
	if _, err := loader.Init(); err != nil {
		return err
	}
	for _, addr := range addrsInOrder {
		if _, err := loader.Load(addr, image[addr]); err != nil {
			return err
		}
	}
	if _, err := loader.Reset(startAddr); err != nil {
		return err
	}
	if err := loader.Body(); err != nil {
		return err
	}
	_, err := loader.Fini()
	return err
}
