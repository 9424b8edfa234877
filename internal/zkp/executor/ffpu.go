// This file grounds GPIO_POLY_EVAL and GPIO_FFPU on
// original_source/risc0/zkvm/sdk/rust/src/prove/exec.rs's on_write handlers;
// the underlying ffpu.rs bytecode module those call is not present in the
// retrieved sources, so its instruction set below is original, built to the
// shape the call site demands: a small field program over five mutable Fp4
// argument buffers, the last of which receives the result (spec.md 4.9,
// "Execute a small byte-coded field program supplied by the guest").
package executor

import (
	"github.com/stskeeps/risc0/internal/zkp/core"
	"github.com/stskeeps/risc0/internal/zkp/zkerr"
)

// evalBivariate reconstructs a polynomial's coefficients and its (x, y)
// evaluation point from a POLY_EVAL descriptor's word payload and evaluates
// tot = sum_i coeffs[i] * y^i * x^i, mirroring GPIO_POLY_EVAL's mul_fp /
// mul_fp4 accumulator pair exactly.
func evalBivariate(words []uint32) core.Fp4 {
	if len(words) < core.WordsFp4+1 {
		return core.Fp4Zero
	}
	var xWords [4]uint32
	copy(xWords[:], words[:core.WordsFp4])
	x := core.Fp4FromU32Words(xWords)
	y := core.NewFp(uint64(words[core.WordsFp4]))

	rest := words[core.WordsFp4+1:]
	n := len(rest) / core.WordsFp4
	mulFp := core.FpOne
	mulFp4 := core.Fp4One
	tot := core.Fp4Zero
	for i := 0; i < n; i++ {
		var cw [4]uint32
		copy(cw[:], rest[i*core.WordsFp4:i*core.WordsFp4+core.WordsFp4])
		coeff := core.Fp4FromU32Words(cw)
		tot = tot.Add(coeff.MulFp(mulFp).Mul(mulFp4))
		mulFp = mulFp.Mul(y)
		mulFp4 = mulFp4.Mul(x)
	}
	return tot
}

// ffpuOp is one instruction of the tiny field program FFPU interprets. Every
// operand names a (buffer, index) pair into the five argument slices; ADD,
// SUB and MUL read two operands and write a third, MULC multiplies a buffer
// slot by an inline Fp4 constant carried in the next four words, and HALT
// ends the program early.
type ffpuOp uint32

const (
	ffpuHalt ffpuOp = iota
	ffpuAdd
	ffpuSub
	ffpuMul
	ffpuMulConst
	ffpuCopy
)

type ffpuOperand struct {
	buf uint32
	idx uint32
}

func readOperand(code []uint32, pc int) (ffpuOperand, int) {
	return ffpuOperand{buf: code[pc], idx: code[pc+1]}, pc + 2
}

// runFfpuDescriptor decodes a FFPU descriptor's code and argument-buffer
// words, executes the program against five freshly loaded Fp4 buffers, and
// returns args[4] (the output buffer) for the caller to send back to the
// guest. The descriptor layout mirrors the Rust FfpuDescriptor: a (code
// addr, code size) pair followed by five (addr, size) argument descriptors.
func (mc *MachineContext) runFfpuDescriptor(words []uint32) []core.Fp4 {
	if len(words) < 2 {
		return nil
	}
	codeAddr, codeSize := words[0], words[1]
	code := mc.loadRegionU32(codeAddr, codeSize)

	const numArgs = 5
	args := make([][]core.Fp4, numArgs)
	for a := 0; a < numArgs; a++ {
		base := 2 + a*2
		if base+1 >= len(words) {
			args[a] = nil
			continue
		}
		addr, size := words[base], words[base+1]
		buf := make([]core.Fp4, size)
		for i := uint32(0); i < size; i++ {
			var w [4]uint32
			for k := 0; k < core.WordsFp4; k++ {
				w[k] = mc.mem.LoadWord(addr + i*core.WordsFp4 + uint32(k))
			}
			buf[i] = core.Fp4FromU32Words(w)
		}
		args[a] = buf
	}

	if err := execFfpu(code, args); err != nil {
		panic(zkerr.Wrap(zkerr.GuestFault, "executor: FFPU program faulted", err))
	}
	return args[4]
}

// execFfpu runs code against args in place, args[4] accumulating the
// program's result.
func execFfpu(code []uint32, args [][]core.Fp4) error {
	pc := 0
	for pc < len(code) {
		op := ffpuOp(code[pc])
		pc++
		switch op {
		case ffpuHalt:
			return nil

		case ffpuAdd, ffpuSub, ffpuMul:
			var dst, lhs, rhs ffpuOperand
			dst, pc = readOperand(code, pc)
			lhs, pc = readOperand(code, pc)
			rhs, pc = readOperand(code, pc)
			a, err := loadSlot(args, lhs)
			if err != nil {
				return err
			}
			b, err := loadSlot(args, rhs)
			if err != nil {
				return err
			}
			var r core.Fp4
			switch op {
			case ffpuAdd:
				r = a.Add(b)
			case ffpuSub:
				r = a.Sub(b)
			case ffpuMul:
				r = a.Mul(b)
			}
			if err := storeSlot(args, dst, r); err != nil {
				return err
			}

		case ffpuMulConst:
			var dst, src ffpuOperand
			dst, pc = readOperand(code, pc)
			src, pc = readOperand(code, pc)
			if pc+core.WordsFp4 > len(code) {
				return zkerr.Malformedf("executor: FFPU MULC missing constant words")
			}
			var cw [4]uint32
			copy(cw[:], code[pc:pc+core.WordsFp4])
			pc += core.WordsFp4
			a, err := loadSlot(args, src)
			if err != nil {
				return err
			}
			if err := storeSlot(args, dst, a.Mul(core.Fp4FromU32Words(cw))); err != nil {
				return err
			}

		case ffpuCopy:
			var dst, src ffpuOperand
			dst, pc = readOperand(code, pc)
			src, pc = readOperand(code, pc)
			a, err := loadSlot(args, src)
			if err != nil {
				return err
			}
			if err := storeSlot(args, dst, a); err != nil {
				return err
			}

		default:
			return zkerr.Malformedf("executor: FFPU unknown opcode %d", op)
		}
	}
	return nil
}

func loadSlot(args [][]core.Fp4, op ffpuOperand) (core.Fp4, error) {
	if int(op.buf) >= len(args) || int(op.idx) >= len(args[op.buf]) {
		return core.Fp4Zero, zkerr.Malformedf("executor: FFPU operand (%d,%d) out of range", op.buf, op.idx)
	}
	return args[op.buf][op.idx], nil
}

func storeSlot(args [][]core.Fp4, op ffpuOperand, v core.Fp4) error {
	if int(op.buf) >= len(args) || int(op.idx) >= len(args[op.buf]) {
		return zkerr.Malformedf("executor: FFPU operand (%d,%d) out of range", op.buf, op.idx)
	}
	args[op.buf][op.idx] = v
	return nil
}
