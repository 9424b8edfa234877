// Package executor simulates the RISC-V guest at the granularity of
// algebraic "steps" described in spec.md 4.9: each cycle writes a code row
// and drives the constraint system to populate data and accum columns.
// This file grounds the word-addressed memory model and its
// write-once-ROM bookkeeping on
// original_source/risc0/zkvm/sdk/rust/src/prove/exec.rs's MemoryState.
package executor

import (
	"fmt"
	"sort"

	"github.com/stskeeps/risc0/internal/zkp/zkerr"
)

// MemoryEvent records one memory access for the memory-consistency
// argument: ordered first by address, then by cycle within an address.
type MemoryEvent struct {
	Cycle   uint32
	Addr    uint32 // word address
	Data    uint32
	IsWrite bool
}

// romBoundary marks every word address at or above half the address space
// as belonging to read-only memory: a second store of a different value is
// a fatal GuestFault (spec.md 4.9).
const romBoundary = uint32(1) << 29 // half of the 2^30-word space a 32-bit byte address covers

// Memory is a word-addressed map with an ordered access history used to
// build the prover's memory-consistency trace columns.
type Memory struct {
	words   map[uint32]uint32
	history []MemoryEvent
	sorted  bool
}

// NewMemory returns an empty memory image.
func NewMemory() *Memory {
	return &Memory{words: make(map[uint32]uint32)}
}

// LoadWord reads a word-aligned address, returning 0 for never-written
// addresses (the guest's BSS convention).
func (m *Memory) LoadWord(addr uint32) uint32 {
	return m.words[addr]
}

// LoadByte assembles an unaligned byte load from its containing word.
func (m *Memory) LoadByte(byteAddr uint32) uint8 {
	aligned := byteAddr &^ 3
	offset := byteAddr % 4
	word := m.LoadWord(aligned / 4)
	return uint8(word >> (offset * 8))
}

// StoreWord writes a word at a word address, recording the access and
// rejecting a conflicting second write to read-only memory.
func (m *Memory) StoreWord(cycle uint32, addr uint32, value uint32) error {
	isROM := addr >= romBoundary
	if old, present := m.words[addr]; present && isROM && old != value {
		return zkerr.GuestFaultf("Double wrote write-once memory at word 0x%08X: old 0x%08X, new 0x%08X", addr, old, value)
	}
	m.history = append(m.history, MemoryEvent{Cycle: cycle, Addr: addr, Data: value, IsWrite: true})
	m.words[addr] = value
	m.sorted = false
	return nil
}

// StoreByte assembles a byte store into its containing word via
// read-modify-write.
func (m *Memory) StoreByte(cycle uint32, byteAddr uint32, value uint8) error {
	aligned := byteAddr &^ 3
	offset := byteAddr % 4
	word := m.LoadWord(aligned / 4)
	mask := uint32(0xff) << (offset * 8)
	word = (word &^ mask) | (uint32(value) << (offset * 8))
	return m.StoreWord(cycle, aligned/4, word)
}

// SortedHistory returns every recorded access ordered by (address, cycle),
// the order the prover's memory-consistency columns are built from.
func (m *Memory) SortedHistory() []MemoryEvent {
	if !m.sorted {
		sort.SliceStable(m.history, func(i, j int) bool {
			if m.history[i].Addr != m.history[j].Addr {
				return m.history[i].Addr < m.history[j].Addr
			}
			return m.history[i].Cycle < m.history[j].Cycle
		})
		m.sorted = true
	}
	return m.history
}

// EventLog is an explicit pop-only cursor over sorted history, matching
// the design note that memory events must be popped in order rather than
// mutated through interior-mutability tricks.
type EventLog struct {
	events []MemoryEvent
	pos    int
}

// NewEventLog builds a pop cursor over m's sorted access history.
func NewEventLog(m *Memory) *EventLog {
	return &EventLog{events: m.SortedHistory()}
}

// Pop removes and returns the next event in (address, cycle) order.
func (l *EventLog) Pop() (MemoryEvent, error) {
	if l.pos >= len(l.events) {
		return MemoryEvent{}, fmt.Errorf("executor: mem_check called on empty history")
	}
	e := l.events[l.pos]
	l.pos++
	return e, nil
}
