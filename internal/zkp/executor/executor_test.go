package executor

import (
	"errors"
	"testing"

	"github.com/stskeeps/risc0/internal/zkp/core"
	"github.com/stskeeps/risc0/internal/zkp/zkerr"
)

func TestMemoryDoubleWriteSameValueOK(t *testing.T) {
	m := NewMemory()
	rom := romBoundary + 10
	if err := m.StoreWord(0, rom, 42); err != nil {
		t.Fatalf("first store: %v", err)
	}
	if err := m.StoreWord(1, rom, 42); err != nil {
		t.Fatalf("repeated store of the same value should be allowed: %v", err)
	}
}

func TestMemoryDoubleWriteConflictFaults(t *testing.T) {
	m := NewMemory()
	rom := romBoundary + 10
	if err := m.StoreWord(0, rom, 42); err != nil {
		t.Fatalf("first store: %v", err)
	}
	err := m.StoreWord(1, rom, 43)
	if err == nil {
		t.Fatal("expected a GuestFault on conflicting ROM write")
	}
	var zerr *zkerr.Error
	if !errors.As(err, &zerr) || zerr.Code != zkerr.GuestFault {
		t.Fatalf("expected GuestFault, got %v", err)
	}
}

func TestMemoryRAMOverwriteAlwaysOK(t *testing.T) {
	m := NewMemory()
	ram := uint32(100)
	if err := m.StoreWord(0, ram, 1); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := m.StoreWord(1, ram, 2); err != nil {
		t.Fatalf("ordinary RAM should tolerate repeated writes: %v", err)
	}
	if got := m.LoadWord(ram); got != 2 {
		t.Fatalf("LoadWord = %d, want 2", got)
	}
}

func TestEventLogPopOrder(t *testing.T) {
	m := NewMemory()
	m.StoreWord(5, 2, 0xaa)
	m.StoreWord(1, 1, 0xbb)
	m.StoreWord(3, 1, 0xcc)

	log := NewEventLog(m)
	first, err := log.Pop()
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if first.Addr != 1 || first.Cycle != 1 {
		t.Fatalf("expected addr=1,cycle=1 first, got %+v", first)
	}
	second, err := log.Pop()
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if second.Addr != 1 || second.Cycle != 3 {
		t.Fatalf("expected addr=1,cycle=3 second, got %+v", second)
	}
	third, err := log.Pop()
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if third.Addr != 2 {
		t.Fatalf("expected addr=2 third, got %+v", third)
	}
	if _, err := log.Pop(); err == nil {
		t.Fatal("expected an error popping past the end of history")
	}
}

func TestDivide32MatchesIntegerDivision(t *testing.T) {
	n0, n1 := splitWord(100)
	d0, d1 := splitWord(7)
	q0, q1, r0, r1 := divide32(n0, n1, d0, d1)
	if mergeWord(q0, q1) != 14 || mergeWord(r0, r1) != 2 {
		t.Fatalf("100/7 = (%d rem %d), want (14 rem 2)", mergeWord(q0, q1), mergeWord(r0, r1))
	}
}

func TestDivide32ByZeroSaturates(t *testing.T) {
	n0, n1 := splitWord(123)
	d0, d1 := splitWord(0)
	q0, q1, r0, r1 := divide32(n0, n1, d0, d1)
	if mergeWord(q0, q1) != 0xffffffff || mergeWord(r0, r1) != 123 {
		t.Fatalf("division by zero should saturate quotient and return the numerator as remainder")
	}
}

func TestFfpuAddProgram(t *testing.T) {
	one := core.Fp4One
	two := one.Add(one)
	args := [][]core.Fp4{
		{two},
		{one},
		nil,
		nil,
		{core.Fp4Zero},
	}
	code := []uint32{
		uint32(ffpuAdd), 4, 0, 0, 0, 1, 0,
		uint32(ffpuHalt),
	}
	if err := execFfpu(code, args); err != nil {
		t.Fatalf("execFfpu: %v", err)
	}
	want := two.Add(one)
	if !args[4][0].Equal(want) {
		t.Fatalf("args[4][0] = %v, want %v", args[4][0], want)
	}
}

func TestEvalBivariateConstantTerm(t *testing.T) {
	var xWords [4]uint32
	words := append([]uint32{}, xWords[:]...)
	words = append(words, 0)
	words = append(words, 7, 0, 0, 0)
	got := evalBivariate(words)
	want := core.Fp4{7, 0, 0, 0}
	if !got.Equal(want) {
		t.Fatalf("evalBivariate of a single constant coefficient = %v, want %v", got, want)
	}
}
