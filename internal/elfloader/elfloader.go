// Package elfloader turns a guest ELF binary into the word-addressed
// image executor.LoadCode consumes. Grounded on
// original_source/risc0/zkvm/sdk/rust/src/prove/elf.rs's load_elf; uses
// the standard library's debug/elf since no retrieved example carries a
// third-party ELF parser (SPEC_FULL.md B, Domain Stack wiring table).
package elfloader

import (
	"debug/elf"
	"encoding/binary"
	"sort"

	"github.com/stskeeps/risc0/internal/zkp/zkerr"
)

// maxImageWords bounds how much of an ELF's loadable data this loader will
// materialize, guarding against a corrupt or hostile section header
// claiming an implausible size (spec.md 9, "fault on malformed input
// rather than attempting recovery").
const maxImageWords = 32 << 20 // 128 MiB of RV32 image

// Image is a parsed guest binary ready for executor.LoadCode: EntryPC and
// every key of Words are word addresses (byte address / 4), and
// AddrsInOrder lists Words's keys sorted ascending, the order
// executor.LoadCode's addrsInOrder parameter requires.
type Image struct {
	EntryPC      uint32
	Words        map[uint32]uint32
	AddrsInOrder []uint32
}

// Load parses an ELF32 RISC-V binary and flattens its PT_LOAD segments
// into a word-addressed image.
func Load(data []byte) (*Image, error) {
	f, err := elf.NewFile(byteReaderAt(data))
	if err != nil {
		return nil, zkerr.Wrap(zkerr.Internal, "elfloader: failed to parse ELF", err)
	}
	defer f.Close()

	if f.Class != elf.ELFCLASS32 {
		return nil, zkerr.Invalidf("elfloader: only 32-bit ELF images are supported, got %v", f.Class)
	}
	if f.Machine != elf.EM_RISCV {
		return nil, zkerr.Invalidf("elfloader: expected EM_RISCV, got %v", f.Machine)
	}
	if f.Entry > 1<<32-1 {
		return nil, zkerr.Invalidf("elfloader: entry point %#x out of 32-bit range", f.Entry)
	}
	if f.Entry%4 != 0 {
		return nil, zkerr.Invalidf("elfloader: entry point %#x is not word-aligned", f.Entry)
	}

	words := make(map[uint32]uint32)
	var total uint64
	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		if prog.Vaddr%4 != 0 {
			return nil, zkerr.Invalidf("elfloader: PT_LOAD segment at %#x is not word-aligned", prog.Vaddr)
		}
		total += prog.Memsz
		if total > maxImageWords*4 {
			return nil, zkerr.Invalidf("elfloader: image exceeds %d words", maxImageWords)
		}

		raw := make([]byte, prog.Filesz)
		if _, err := prog.ReadAt(raw, 0); err != nil {
			return nil, zkerr.Wrap(zkerr.Internal, "elfloader: failed to read PT_LOAD segment", err)
		}

		base := uint32(prog.Vaddr / 4)
		nWords := (prog.Memsz + 3) / 4
		for i := uint64(0); i < nWords; i++ {
			var w uint32
			off := i * 4
			if off < uint64(len(raw)) {
				var buf [4]byte
				copy(buf[:], raw[off:])
				w = binary.LittleEndian.Uint32(buf[:])
			}
			words[base+uint32(i)] = w
		}
	}

	addrs := make([]uint32, 0, len(words))
	for a := range words {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	return &Image{
		EntryPC:      uint32(f.Entry / 4),
		Words:        words,
		AddrsInOrder: addrs,
	}, nil
}

// byteReaderAt adapts a plain byte slice to io.ReaderAt for debug/elf.
type byteReaderAt []byte

func (b byteReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(b)) {
		return 0, zkerr.Invalidf("elfloader: read at invalid offset %d", off)
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, errShortRead
	}
	return n, nil
}

var errShortRead = zkerr.New(zkerr.Internal, "elfloader: short read past end of ELF image")
