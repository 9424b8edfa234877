// Package verify implements the verifier pipeline of spec.md 4.11: it
// replays the prover's transcript ceremony in read mode, checks the
// constraint polynomial's out-of-domain evaluation against the claimed
// coeff_u, and runs FRI verification with a query callback that
// reconstructs each combo's value from the four groups' Merkle openings.
// Grounded on original_source/risc0/zkvm/sdk/rust/src/verify/mod.rs.
package verify

import (
	"github.com/stskeeps/risc0/internal/zkp/circuit"
	"github.com/stskeeps/risc0/internal/zkp/core"
	"github.com/stskeeps/risc0/internal/zkp/fri"
	"github.com/stskeeps/risc0/internal/zkp/methodid"
	"github.com/stskeeps/risc0/internal/zkp/params"
	"github.com/stskeeps/risc0/internal/zkp/polygroup"
	"github.com/stskeeps/risc0/internal/zkp/transcript"
	"github.com/stskeeps/risc0/internal/zkp/zkerr"
)

// comboPoint mirrors prove.comboPoint: one of a combo's fixed evaluation
// points.
type comboPoint struct {
	x core.Fp4
}

func buildCombos(combos []circuit.Combo, z core.Fp4, po2 int) [][]comboPoint {
	omega := core.Fp4FromFp(core.RootOfUnity(uint(po2)))
	out := make([][]comboPoint, len(combos)+1)
	for i, c := range combos {
		pts := make([]comboPoint, len(c.Backs))
		omegaInv := omega.Inv()
		for j, back := range c.Backs {
			pts[j] = comboPoint{x: z.Mul(omegaInv.Pow(uint64(back)))}
		}
		out[i] = pts
	}
	zExt := z.Pow(params.ExtSize)
	out[len(combos)] = []comboPoint{{x: zExt}}
	return out
}

// Run replays the full verifier pipeline against a proof stream, checking
// that its code commitment matches the supplied MethodId entry for the
// announced po2 (spec.md 6, "Receipt"). It returns the decoded journal —
// the public-output region the seal carries — for the caller to compare
// against the receipt's claimed journal bytes.
func Run(sha core.Sha, c circuit.Circuit, method methodid.MethodID, queries int, proof []uint32) ([]byte, error) {
	r := transcript.NewReader(sha, proof)

	publicWords, err := r.ReadWords(c.PublicWords())
	if err != nil {
		return nil, err
	}
	po2Words, err := r.ReadWords(1)
	if err != nil {
		return nil, err
	}
	po2 := int(po2Words[0])
	if po2 < params.MinCyclesPo2 || po2 > params.MaxCyclesPo2 {
		return nil, zkerr.Invalidf("verify: po2 %d out of supported range", po2)
	}
	size := 1 << po2

	codeWidth, dataWidth, accumWidth := c.CodeWidth(), c.DataWidth(), c.AccumWidth()

	codeGroup, err := polygroup.NewVerifier(sha, r, codeWidth, size, queries)
	if err != nil {
		return nil, err
	}
	if !codeGroup.Root().Equal(method.Entry(po2)) {
		return nil, zkerr.Invalidf("verify: code root does not match method id entry for po2=%d", po2)
	}
	dataGroup, err := polygroup.NewVerifier(sha, r, dataWidth, size, queries)
	if err != nil {
		return nil, err
	}

	_ = r.DrawFp4() // mix: accumulate's own challenge, not otherwise needed by the verifier

	accumGroup, err := polygroup.NewVerifier(sha, r, accumWidth, size, queries)
	if err != nil {
		return nil, err
	}
	polyMix := r.DrawFp4()
	checkGroup, err := polygroup.NewVerifier(sha, r, params.CheckSize, size, queries)
	if err != nil {
		return nil, err
	}

	z := r.DrawFp4()
	taps := c.Taps()
	combos := buildCombos(taps.Combos, z, po2)

	type registerSpec struct {
		comboID int
		u       []core.Fp4
	}
	registers := make([]registerSpec, 0, len(taps.Taps)+params.CheckSize)
	var allU []core.Fp4
	readU := func(comboID int) ([]core.Fp4, error) {
		u := make([]core.Fp4, len(combos[comboID]))
		for i := range u {
			v, err := r.ReadFp4()
			if err != nil {
				return nil, err
			}
			u[i] = v
		}
		return u, nil
	}
	for _, t := range taps.Taps {
		u, err := readU(t.ComboID)
		if err != nil {
			return nil, err
		}
		registers = append(registers, registerSpec{comboID: t.ComboID, u: u})
		allU = append(allU, u...)
	}
	checkComboID := len(taps.Combos)
	for p := 0; p < params.CheckSize; p++ {
		u, err := readU(checkComboID)
		if err != nil {
			return nil, err
		}
		registers = append(registers, registerSpec{comboID: checkComboID, u: u})
		allU = append(allU, u...)
	}
	r.CommitDigest(sha.HashRawWords(fp4WordsOf(allU)))

	combineMix := r.DrawFp4()

	// Recompute the constraint value at u=z: each tap's coeff_u is the
	// coefficient vector of the (degree < len(Backs)) polynomial the
	// prover interpolated through its combo's points, so the value at any
	// one of those points is PolyEval(coeff_u, point) — not coeff_u
	// itself except in the degenerate single-point-combo case. Values are
	// appended in the same back-offset order buildCombos assigned the
	// combo's points, matching PolyExt's documented tapValues layout
	// (spec.md 4.11 step 4).
	tapValues := make([]core.Fp4, 0, len(registers))
	for i, t := range taps.Taps {
		reg := registers[i]
		for _, pt := range combos[t.ComboID] {
			tapValues = append(tapValues, core.PolyEval(reg.u, pt.x))
		}
	}
	constraintAtU := c.PolyExt(z, tapValues, polyMix)

	var checkSum core.Fp4
	zExt := z.Pow(params.ExtSize)
	powZ := core.Fp4One
	for p := 0; p < params.CheckSize; p++ {
		checkSum = checkSum.Add(registers[len(taps.Taps)+p].u[0].Mul(powZ))
		powZ = powZ.Mul(zExt)
	}
	if !constraintAtU.Equal(checkSum) {
		return nil, zkerr.Invalidf("verify: constraint polynomial at the DEEP point does not match the committed check openings")
	}

	// extLog2 is the order of the extended evaluation domain FRI's initial
	// layer runs over; queried indices address that domain in the same
	// bit-reversed storage order hal.CpuHal.BatchEvaluateNTT leaves its
	// output in (prove.go's comment on combinedEval), so the natural-order
	// exponent a query index idx corresponds to is reverseBitsLocal(idx).
	extLog2 := po2 + params.Log2(params.InvRate)
	extOmega := core.RootOfUnity(uint(extLog2))

	friQueryAt := func(r *transcript.Reader, idx int) (core.Fp4, error) {
		codeVals, err := codeGroup.Open(r, idx)
		if err != nil {
			return core.Fp4Zero, err
		}
		dataVals, err := dataGroup.Open(r, idx)
		if err != nil {
			return core.Fp4Zero, err
		}
		accumVals, err := accumGroup.Open(r, idx)
		if err != nil {
			return core.Fp4Zero, err
		}
		checkVals, err := checkGroup.Open(r, idx)
		if err != nil {
			return core.Fp4Zero, err
		}

		natIdx := reverseBitsLocal(idx, extLog2)
		x := core.Fp4FromFp(extOmega.Pow(uint64(natIdx)).Mul(core.NewFp(3)))

		// Mirror prove.go's combine loop (Run, combosAcc construction)
		// pointwise: each combo's numerator is
		// Σ curMix^i * (f_reg(x) - I_reg(x)), where I_reg is the
		// interpolation polynomial whose coefficients are the register's
		// already-read coeff_u.
		curMix := core.Fp4One
		numer := make([]core.Fp4, len(combos))
		for i, t := range taps.Taps {
			var val core.Fp4
			switch t.Group {
			case circuit.GroupCode:
				val = codeVals[t.Register]
			case circuit.GroupData:
				val = dataVals[t.Register]
			case circuit.GroupAccum:
				val = accumVals[t.Register]
			}
			iAtX := core.PolyEval(registers[i].u, x)
			numer[t.ComboID] = numer[t.ComboID].Add(curMix.Mul(val.Sub(iAtX)))
			curMix = curMix.Mul(combineMix)
		}
		for p := 0; p < params.CheckSize; p++ {
			reg := registers[len(taps.Taps)+p]
			iAtX := core.PolyEval(reg.u, x)
			numer[checkComboID] = numer[checkComboID].Add(curMix.Mul(checkVals[p].Sub(iAtX)))
			curMix = curMix.Mul(combineMix)
		}

		var combined core.Fp4
		for comboID := range combos {
			denom := core.Fp4One
			for _, pt := range combos[comboID] {
				denom = denom.Mul(x.Sub(pt.x))
			}
			combined = combined.Add(numer[comboID].Mul(denom.Inv()))
		}
		return combined, nil
	}

	if err := fri.Verify(sha, size*params.InvRate, r, fri.NewParams(queries), friQueryAt); err != nil {
		return nil, err
	}

	if err := r.VerifyComplete(); err != nil {
		return nil, err
	}
	return wordsToBytes(publicWords), nil
}

func wordsToBytes(words []uint32) []byte {
	out := make([]byte, len(words)*4)
	for i, w := range words {
		out[4*i] = byte(w)
		out[4*i+1] = byte(w >> 8)
		out[4*i+2] = byte(w >> 16)
		out[4*i+3] = byte(w >> 24)
	}
	return out
}

// reverseBitsLocal reverses the low logn bits of i, matching
// hal.CpuHal's unexported reverseBits convention.
func reverseBitsLocal(i, logn int) int {
	r := 0
	for b := 0; b < logn; b++ {
		r = (r << 1) | (i & 1)
		i >>= 1
	}
	return r
}

func fp4WordsOf(vs []core.Fp4) []uint32 {
	out := make([]uint32, 0, 4*len(vs))
	for _, v := range vs {
		out = append(out, uint32(v[0]), uint32(v[1]), uint32(v[2]), uint32(v[3]))
	}
	return out
}
