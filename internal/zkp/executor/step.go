// Grounded on original_source/risc0/zkvm/sdk/rust/src/prove/exec.rs's
// CustomStep::call: the circuit's generated step code only ever needs a
// handful of operations too awkward to express as polynomial constraints
// (integer division, memory consistency, logging), so it calls out to the
// host by name with a flat Fp argument/output pair.
package executor

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/stskeeps/risc0/internal/zkp/core"
	"github.com/stskeeps/risc0/internal/zkp/zkerr"
)

// Call dispatches one named external-call step. name selects the
// operation; args and outs are the flat Fp argument and result words the
// generated circuit code passes across this boundary (spec.md 4.9, "Call
// dispatch").
func (mc *MachineContext) Call(name string, extra string, args []core.Fp, outs []core.Fp) error {
	switch name {
	case "divide32":
		q0, q1, r0, r1 := divide32(args[0], args[1], args[2], args[3])
		outs[0], outs[1], outs[2], outs[3] = q0, q1, r0, r1
		return nil

	case "log":
		mc.logFormatted(extra, args)
		return nil

	case "memCheck":
		x0, x1, x2, x3, x4, err := mc.memCheck()
		if err != nil {
			return err
		}
		outs[0], outs[1], outs[2], outs[3], outs[4] = x0, x1, x2, x3, x4
		return nil

	case "memRead":
		lo, hi := mc.memRead(uint32(args[1]))
		outs[0], outs[1] = lo, hi
		return nil

	case "memWrite":
		cycle := uint32(args[0])
		addr := uint32(args[1])
		return mc.memWrite(cycle, addr, args[2], args[3])

	default:
		return zkerr.New(zkerr.Internal, fmt.Sprintf("executor: unknown call step %q", name))
	}
}

// splitWord breaks a 32-bit word into its low and high 16-bit halves, the
// pair of Fp values the circuit carries a word as (spec.md 4.9, "words are
// carried through the trace as two base-field halves").
func splitWord(value uint32) (core.Fp, core.Fp) {
	return core.NewFp(uint64(value & 0xffff)), core.NewFp(uint64(value >> 16))
}

func mergeWord(lo, hi core.Fp) uint32 {
	return uint32(lo) | uint32(hi)<<16
}

func divide32(n0, n1, d0, d1 core.Fp) (core.Fp, core.Fp, core.Fp, core.Fp) {
	numer := mergeWord(n0, n1)
	denom := mergeWord(d0, d1)
	var quot, rem uint32
	if denom == 0 {
		quot, rem = 0xffffffff, numer
	} else {
		quot, rem = numer/denom, numer%denom
	}
	q0, q1 := splitWord(quot)
	r0, r1 := splitWord(rem)
	return q0, q1, r0, r1
}

var logFormatSpec = regexp.MustCompile(`%([0-9]*)([xud])`)

// logFormatted renders a guest-supplied printf-style message against its Fp
// argument list; unlike the Rust original this always formats (there is no
// trace/debug log-level gate here), since this executor has no logging
// framework of its own to suppress against.
func (mc *MachineContext) logFormatted(msg string, args []core.Fp) {
	remaining := args
	out := logFormatSpec.ReplaceAllStringFunc(msg, func(match string) string {
		if len(remaining) == 0 {
			return match
		}
		groups := logFormatSpec.FindStringSubmatch(match)
		width, _ := strconv.Atoi(groups[1])
		arg := uint32(remaining[0])
		remaining = remaining[1:]
		switch groups[2] {
		case "u":
			return fmt.Sprintf("%*d", width, arg)
		case "x":
			return fmt.Sprintf("%0*x", width, arg)
		case "d":
			return fmt.Sprintf("%*d", width, int32(arg))
		default:
			return match
		}
	})
	mc.io.OnLog(mc.lastCycle, out)
}

// memCheck pops the next memory-consistency event off the sorted access log
// and returns its (cycle, addr, data-low, data-high, is-write) fields as Fp
// values for the circuit's memory argument to consume (spec.md 4.9,
// "mem_check: pop the oldest pending access").
func (mc *MachineContext) memCheck() (cycle, addr, dataLo, dataHi, isWrite core.Fp, err error) {
	if mc.events == nil {
		mc.events = NewEventLog(mc.mem)
	}
	e, popErr := mc.events.Pop()
	if popErr != nil {
		return core.FpZero, core.FpZero, core.FpZero, core.FpZero, core.FpZero, zkerr.Wrap(zkerr.Internal, "executor: memCheck", popErr)
	}
	lo, hi := splitWord(e.Data)
	w := core.FpZero
	if e.IsWrite {
		w = core.FpOne
	}
	return core.NewFp(uint64(e.Cycle)), core.NewFp(uint64(e.Addr)), lo, hi, w, nil
}

// memRead returns the current value at a word address as an (lo, hi) pair
// without recording a new access (reads are checked against the log built
// from StoreWord events only, matching spec.md 5's memory-consistency
// model: every store is replayed through memCheck, reads are looked up
// directly).
func (mc *MachineContext) memRead(addr uint32) (core.Fp, core.Fp) {
	return splitWord(mc.mem.LoadWord(addr))
}

// memWrite stores a word given as Fp halves at the current cycle.
func (mc *MachineContext) memWrite(cycle, addr uint32, lo, hi core.Fp) error {
	return mc.mem.StoreWord(cycle, addr, mergeWord(lo, hi))
}
