// Package prove implements the prover pipeline of spec.md 4.10: it drives
// a Circuit's execute/accumulate/eval_check/poly_ext capabilities, commits
// code/data/accum/check as PolyGroups, runs the DEEP-ALI combine step, and
// hands the combined polynomial to FRI. Grounded on
// original_source/risc0/zkvm/sdk/rust/src/prove/mod.rs's top-level
// Prover::run.
package prove

import (
	"github.com/stskeeps/risc0/internal/zkp/circuit"
	"github.com/stskeeps/risc0/internal/zkp/core"
	"github.com/stskeeps/risc0/internal/zkp/executor"
	"github.com/stskeeps/risc0/internal/zkp/fri"
	"github.com/stskeeps/risc0/internal/zkp/hal"
	"github.com/stskeeps/risc0/internal/zkp/params"
	"github.com/stskeeps/risc0/internal/zkp/polygroup"
	"github.com/stskeeps/risc0/internal/zkp/transcript"
	"github.com/stskeeps/risc0/internal/zkp/zkerr"
)

// Result is everything Run produces: the guest's public journal and the
// proof stream (seal) a Receipt bundles together (spec.md 6).
type Result struct {
	Journal []byte
	Seal    []uint32
}

func flatten(cols [][]core.Fp4, size int) []core.Fp4 {
	out := make([]core.Fp4, len(cols)*size)
	for c, col := range cols {
		copy(out[c*size:c*size+size], col)
	}
	return out
}

// interpolateAndShift replaces count evaluated polynomials of size size
// each with their coset-shifted coefficients (spec.md 4.10 step 3,
// "Interpolate + coset-shift").
func interpolateAndShift(h hal.Hal, buf []core.Fp4, count int) {
	h.BatchInterpolateNTT(buf, count)
	h.ZkShift(buf, count)
}

// evaluateExtended evaluates count size-length coefficient arrays on a
// domain of size*expand points, returning the full bit-reversed evaluation
// matrix.
func evaluateExtended(h hal.Hal, coeffs []core.Fp4, count, size, expand int) []core.Fp4 {
	buf := make([]core.Fp4, count*size*expand)
	copy(buf[:count*size], coeffs)
	h.BatchEvaluateNTT(buf, count, expand)
	return buf
}

// comboPoint is one of a combo's fixed set of evaluation points the
// registers routed to it must agree with; its xs entry is z*omega^(-back)
// for a circuit tap combo, or z^ExtSize for the trailing check combo.
type comboPoint struct {
	back int
	x    core.Fp4
}

type registerSpec struct {
	comboID int
	coeffs  []core.Fp4 // length size
	u       []core.Fp4 // length len(combos[comboID])
}

// buildCombos computes, for every circuit combo, its evaluation points
// z*omega^(-back) for each declared back-offset, plus one trailing combo
// whose single point is z^ExtSize for the CheckSize check polynomials
// (spec.md 4.10 step 5-6, "the check combo").
func buildCombos(combos []circuit.Combo, z core.Fp4, po2 int) [][]comboPoint {
	omega := core.Fp4FromFp(core.RootOfUnity(uint(po2)))
	out := make([][]comboPoint, len(combos)+1)
	for i, c := range combos {
		pts := make([]comboPoint, len(c.Backs))
		for j, back := range c.Backs {
			omegaInv := omega.Inv().Pow(uint64(back))
			pts[j] = comboPoint{back: back, x: z.Mul(omegaInv)}
		}
		out[i] = pts
	}
	zExt := z.Pow(params.ExtSize)
	out[len(combos)] = []comboPoint{{back: 0, x: zExt}}
	return out
}

// openRegister evaluates one register's coefficients at every point of its
// combo and interpolates the resulting (point, value) pairs back into a
// short coefficient vector coeff_u (spec.md 4.10 step 5, "Interpolate, per
// register, to obtain coefficient vector coeff_u").
func openRegister(h hal.Hal, coeffs []core.Fp4, pts []comboPoint) []core.Fp4 {
	xs := make([]core.Fp4, len(pts))
	which := make([]int, len(pts))
	for i, p := range pts {
		xs[i] = p.x
	}
	ys := make([]core.Fp4, len(pts))
	h.BatchEvaluateAny(coeffs, 1, which, xs, ys, len(coeffs))
	u := make([]core.Fp4, len(pts))
	core.PolyInterpolate(u, xs, ys, len(pts))
	return u
}

// Run executes the full prover pipeline against an ELF image and returns
// the journal and proof stream. io supplies the host side of guest GPIO
// traps (spec.md 4.9); c is the circuit implementation (spec.md 9).
func Run(h hal.Hal, sha core.Sha, c circuit.Circuit, cfg *params.Config, entry uint32, image map[uint32]uint32, addrsInOrder []uint32, io executor.IoHandler) (*Result, error) {
	w := transcript.NewWriter(sha)

	mc := executor.NewMachineContext(io, sha)
	codeCols, dataCols, journal, po2, err := c.Execute(mc, entry, image, addrsInOrder)
	if err != nil {
		return nil, err
	}
	size := 1 << po2

	publicWords := make([]uint32, c.PublicWords())
	jwords := bytesToWords(journal)
	copy(publicWords, jwords)
	w.AppendWords(publicWords)
	w.AppendWords([]uint32{uint32(po2)})

	codeWidth, dataWidth, accumWidth := c.CodeWidth(), c.DataWidth(), c.AccumWidth()

	codeCoeffs := flatten(codeCols, size)
	interpolateAndShift(h, codeCoeffs, codeWidth)
	codeGroup := polygroup.New(h, codeCoeffs, codeWidth, size, cfg.Queries)
	codeGroup.Commit(w)

	dataCoeffs := flatten(dataCols, size)
	interpolateAndShift(h, dataCoeffs, dataWidth)
	dataGroup := polygroup.New(h, dataCoeffs, dataWidth, size, cfg.Queries)
	dataGroup.Commit(w)

	mix := w.DrawFp4()
	accumCols := c.Accumulate(mix, codeCols, dataCols, size)
	accumCoeffs := flatten(accumCols, size)
	interpolateAndShift(h, accumCoeffs, accumWidth)
	accumGroup := polygroup.New(h, accumCoeffs, accumWidth, size, cfg.Queries)
	accumGroup.Commit(w)

	polyMix := w.DrawFp4()
	expand := params.InvRate * params.ExtSize
	codeExt := evaluateExtended(h, codeCoeffs, codeWidth, size, expand)
	dataExt := evaluateExtended(h, dataCoeffs, dataWidth, size, expand)
	accumExt := evaluateExtended(h, accumCoeffs, accumWidth, size, expand)
	checkEval := c.EvalCheck(h, size, codeExt, dataExt, accumExt, polyMix)

	h.BatchInterpolateNTT(checkEval, 1)
	checkCoeffs := make([]core.Fp4, params.CheckSize*size)
	for r := 0; r < params.CheckSize; r++ {
		for j := 0; j < size; j++ {
			checkCoeffs[r*size+j] = checkEval[j*params.CheckSize+r]
		}
	}
	checkGroup := polygroup.New(h, checkCoeffs, params.CheckSize, size, cfg.Queries)
	checkGroup.Commit(w)

	z := w.DrawFp4()
	taps := c.Taps()
	combos := buildCombos(taps.Combos, z, po2)

	registers := make([]registerSpec, 0, len(taps.Taps)+params.CheckSize)
	var allU []core.Fp4
	for _, t := range taps.Taps {
		var coeffs []core.Fp4
		switch t.Group {
		case circuit.GroupCode:
			coeffs = codeCoeffs[t.Register*size : t.Register*size+size]
		case circuit.GroupData:
			coeffs = dataCoeffs[t.Register*size : t.Register*size+size]
		case circuit.GroupAccum:
			coeffs = accumCoeffs[t.Register*size : t.Register*size+size]
		}
		u := openRegister(h, coeffs, combos[t.ComboID])
		registers = append(registers, registerSpec{comboID: t.ComboID, coeffs: coeffs, u: u})
		allU = append(allU, u...)
		for _, v := range u {
			w.AppendFp4(v)
		}
	}
	checkComboID := len(taps.Combos)
	for p := 0; p < params.CheckSize; p++ {
		coeffs := checkCoeffs[p*size : p*size+size]
		u := openRegister(h, coeffs, combos[checkComboID])
		registers = append(registers, registerSpec{comboID: checkComboID, coeffs: coeffs, u: u})
		allU = append(allU, u...)
		for _, v := range u {
			w.AppendFp4(v)
		}
	}

	w.CommitDigest(sha.HashRawWords(fp4WordsOf(allU)))

	combineMix := w.DrawFp4()
	comboCount := len(taps.Combos) + 1
	combosAcc := make([]core.Fp4, comboCount*size)
	curMix := core.Fp4One
	for _, reg := range registers {
		upad := make([]core.Fp4, size)
		copy(upad, reg.u)
		for j := 0; j < size; j++ {
			combosAcc[reg.comboID*size+j] = combosAcc[reg.comboID*size+j].
				Add(curMix.Mul(reg.coeffs[j])).
				Sub(curMix.Mul(upad[j]))
		}
		curMix = curMix.Mul(combineMix)
	}

	combined := make([]core.Fp4, size)
	for comboID := 0; comboID < comboCount; comboID++ {
		g := make([]core.Fp4, size)
		copy(g, combosAcc[comboID*size:comboID*size+size])
		for _, pt := range combos[comboID] {
			rem := core.PolyDivide(g, pt.x)
			if !rem.IsZero() {
				return nil, zkerr.New(zkerr.Internal, "prove: non-zero remainder dividing combo polynomial — prover bug")
			}
		}
		for j := 0; j < size; j++ {
			combined[j] = combined[j].Add(g[j])
		}
	}

	// BatchEvaluateNTT already leaves its output in bit-reversed order
	// (hal.CpuHal.BatchEvaluateNTT), which is exactly the order spec.md
	// 4.10 step 7's "bit-reverse; hand to FRI" wants the initial FRI
	// layer in.
	combinedEval := make([]core.Fp4, size*params.InvRate)
	copy(combinedEval, combined)
	h.BatchEvaluateNTT(combinedEval, 1, params.InvRate)

	proveAt := func(w *transcript.Writer, idx int) {
		codeGroup.Open(w, idx)
		dataGroup.Open(w, idx)
		accumGroup.Open(w, idx)
		checkGroup.Open(w, idx)
	}
	fri.Prove(h, w, combinedEval, fri.NewParams(cfg.Queries), proveAt)

	return &Result{Journal: journal, Seal: w.Proof}, nil
}

func bytesToWords(b []byte) []uint32 {
	n := (len(b) + 3) / 4
	out := make([]uint32, n)
	for i := 0; i < len(b); i++ {
		out[i/4] |= uint32(b[i]) << (8 * (i % 4))
	}
	return out
}

func fp4WordsOf(vs []core.Fp4) []uint32 {
	out := make([]uint32, 0, 4*len(vs))
	for _, v := range vs {
		out = append(out, uint32(v[0]), uint32(v[1]), uint32(v[2]), uint32(v[3]))
	}
	return out
}
