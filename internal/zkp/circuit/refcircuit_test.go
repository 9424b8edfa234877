package circuit

import (
	"testing"

	"github.com/stskeeps/risc0/internal/zkp/core"
	"github.com/stskeeps/risc0/internal/zkp/executor"
)

func TestMemCheckCircuitTapsShape(t *testing.T) {
	c := NewMemCheckCircuit(8)
	taps := c.Taps()

	if len(taps.Combos) != 2 {
		t.Fatalf("expected 2 combos, got %d", len(taps.Combos))
	}
	if got, want := taps.Combos[0].Backs, []int{0, 1}; len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("combo 0 backs = %v, want %v", got, want)
	}
	if got, want := taps.Combos[1].Backs, []int{0}; len(got) != len(want) || got[0] != want[0] {
		t.Fatalf("combo 1 backs = %v, want %v", got, want)
	}

	wantTaps := 1 + executor.CodeRowWidth + dataWidth
	if len(taps.Taps) != wantTaps {
		t.Fatalf("expected %d taps, got %d", wantTaps, len(taps.Taps))
	}
	if taps.Taps[0].Group != GroupAccum || taps.Taps[0].ComboID != 0 {
		t.Fatalf("first tap should be the accum continuity tap, got %+v", taps.Taps[0])
	}
	for i := 1; i <= executor.CodeRowWidth; i++ {
		if taps.Taps[i].Group != GroupCode || taps.Taps[i].ComboID != 1 {
			t.Fatalf("tap %d should be a code tap on combo 1, got %+v", i, taps.Taps[i])
		}
	}
}

func TestComboBackIndex(t *testing.T) {
	c := Combo{Backs: []int{0, 1}}
	if c.BackIndex(0) != 0 || c.BackIndex(1) != 1 {
		t.Fatalf("unexpected back index mapping for %+v", c)
	}
}

func TestComboBackIndexPanicsOnUnknownBack(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for an unregistered back-offset")
		}
	}()
	Combo{Backs: []int{0}}.BackIndex(3)
}

// TestMemCheckCircuitPolyExtMatchesCheckAt confirms PolyExt's tap-ordering
// convention (accum back0, back1, then code, then data) reproduces the
// same value checkAt computes from full columns, for a hand-built single
// row of synthetic trace data.
func TestMemCheckCircuitPolyExtMatchesCheckAt(t *testing.T) {
	c := NewMemCheckCircuit(8)
	mix := core.Fp4FromFp(core.NewFp(7))

	code := make([][]core.Fp4, executor.CodeRowWidth)
	for i := range code {
		code[i] = []core.Fp4{core.Fp4Zero, core.Fp4FromFp(core.NewFp(uint64(i)))}
	}
	data := make([][]core.Fp4, dataWidth)
	for i := range data {
		data[i] = []core.Fp4{core.Fp4Zero, core.Fp4FromFp(core.NewFp(uint64(10 + i)))}
	}
	accumCur := core.Fp4FromFp(core.NewFp(123))
	accumPrev := core.Fp4FromFp(core.NewFp(45))
	accum := [][]core.Fp4{{accumPrev, accumCur}}

	// Row 1 so checkAt's boundary special-case (row 0 has no predecessor)
	// doesn't apply — PolyExt has no notion of a row index, only the
	// opened back=0/back=1 pair, so the comparison must use the general
	// (non-boundary) case.
	want := checkAt(code, data, accum, mix, 1)

	tapValues := make([]core.Fp4, 0, 2+executor.CodeRowWidth+dataWidth)
	tapValues = append(tapValues, accumCur, accumPrev)
	for _, col := range code {
		tapValues = append(tapValues, col[1])
	}
	for _, col := range data {
		tapValues = append(tapValues, col[1])
	}

	got := c.PolyExt(core.Fp4Zero, tapValues, mix)
	if !got.Equal(want) {
		t.Fatalf("PolyExt = %v, want %v (checkAt)", got, want)
	}
}
