package executor

import (
	"encoding/binary"

	"github.com/stskeeps/risc0/internal/zkp/core"
)

// inputRegionStart and inputRegionEnd bound the host->guest staging area a
// guest reads SENDRECV/CYCLECOUNT/SHA replies from (spec.md 6, "Memory map
// (guest view)"). Writing past the end is a fatal overrun.
const (
	inputRegionStart = uint32(0x0001_0000)
	inputRegionEnd    = uint32(0x0010_0000)
)

// MachineContext is the single owner of one guest run's memory and pending
// host-reply cursor (spec.md 5, "Memory state in the executor is
// exclusively held by one MachineContext"). Grounded on
// original_source/risc0/zkvm/sdk/rust/src/prove/exec.rs's MachineContext.
type MachineContext struct {
	mem     *Memory
	io      IoHandler
	sha     core.Sha
	polyExt func() core.Fp4

	hostToGuestOffset uint32
	lastCycle         uint32
	events            *EventLog
}

// NewMachineContext starts a fresh machine with empty memory, staging host
// replies at the start of the INPUT region.
func NewMachineContext(io IoHandler, sha core.Sha) *MachineContext {
	return &MachineContext{
		mem:               NewMemory(),
		io:                io,
		sha:               sha,
		hostToGuestOffset: inputRegionStart / 4,
	}
}

// Memory exposes the underlying memory image for the trace builder.
func (mc *MachineContext) Memory() *Memory { return mc.mem }

// SetPolyExt attaches the circuit's poly_ext evaluator so the
// COMPUTE_POLY GPIO has something to call; left nil, that GPIO faults.
func (mc *MachineContext) SetPolyExt(f func() core.Fp4) { mc.polyExt = f }

// Store performs a word store through Dispatch: GPIO addresses trigger
// their host callback instead of (or in addition to) being recorded as an
// ordinary memory write.
func (mc *MachineContext) Store(cycle uint32, addr uint32, value uint32) error {
	mc.lastCycle = cycle
	if err := mc.mem.StoreWord(cycle, addr, value); err != nil {
		return err
	}
	_, err := mc.Dispatch(cycle, addr, value)
	return err
}

func (mc *MachineContext) readDescriptor(addr uint32) (dataAddr uint32, size uint32) {
	return mc.mem.LoadWord(addr), mc.mem.LoadWord(addr + 1)
}

func (mc *MachineContext) loadRegionU32(addr uint32, size uint32) []uint32 {
	out := make([]uint32, size)
	for i := uint32(0); i < size; i++ {
		out[i] = mc.mem.LoadWord(addr + i)
	}
	return out
}

func (mc *MachineContext) loadRegionBytes(addr uint32, sizeBytes uint32) []byte {
	out := make([]byte, sizeBytes)
	for i := uint32(0); i < sizeBytes; i++ {
		out[i] = mc.mem.LoadByte(addr*4 + i)
	}
	return out
}

func (mc *MachineContext) loadCString(addr uint32) string {
	var buf []byte
	for i := uint32(0); ; i++ {
		b := mc.mem.LoadByte(addr*4 + i)
		if b == 0 {
			break
		}
		buf = append(buf, b)
	}
	return string(buf)
}

// sendToGuest zero-pads bytes to a word boundary, stores them into the
// INPUT region at the current cursor, and advances it; overrun is fatal
// per spec.md 4.9 ("overflow is fatal").
func (mc *MachineContext) sendToGuest(data []byte) {
	nwords := (len(data) + 3) / 4
	if mc.hostToGuestOffset+uint32(nwords) >= inputRegionEnd/4 {
		panic("executor: INPUT region overrun")
	}
	for w := 0; w < nwords; w++ {
		var word [4]byte
		copy(word[:], data[w*4:min(len(data), w*4+4)])
		mc.mem.StoreWord(0, mc.hostToGuestOffset+uint32(w), binary.LittleEndian.Uint32(word[:]))
	}
	mc.hostToGuestOffset += uint32(nwords)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
