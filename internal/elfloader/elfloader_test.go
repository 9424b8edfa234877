package elfloader

import (
	"encoding/binary"
	"testing"
)

// buildMinimalRISCV32ELF hand-assembles the smallest ELF32/EM_RISCV image
// Load accepts: a file header, one PT_LOAD program header, and a two-word
// payload — no section headers, since Load never looks at them.
func buildMinimalRISCV32ELF(entry, vaddr uint32, payload []uint32) []byte {
	const (
		ehsize = 52
		phsize = 32
	)
	phoff := uint32(ehsize)
	dataOff := phoff + phsize
	filesz := uint32(4 * len(payload))

	buf := make([]byte, dataOff+filesz)

	// e_ident
	buf[0], buf[1], buf[2], buf[3] = 0x7f, 'E', 'L', 'F'
	buf[4] = 1 // ELFCLASS32
	buf[5] = 1 // ELFDATA2LSB
	buf[6] = 1 // EV_CURRENT

	le := binary.LittleEndian
	le.PutUint16(buf[16:18], 2)      // e_type = ET_EXEC
	le.PutUint16(buf[18:20], 0xf3)   // e_machine = EM_RISCV
	le.PutUint32(buf[20:24], 1)      // e_version
	le.PutUint32(buf[24:28], entry)  // e_entry
	le.PutUint32(buf[28:32], phoff)  // e_phoff
	le.PutUint32(buf[32:36], 0)      // e_shoff
	le.PutUint32(buf[36:40], 0)      // e_flags
	le.PutUint16(buf[40:42], ehsize) // e_ehsize
	le.PutUint16(buf[42:44], phsize) // e_phentsize
	le.PutUint16(buf[44:46], 1)      // e_phnum
	le.PutUint16(buf[46:48], 0)      // e_shentsize
	le.PutUint16(buf[48:50], 0)      // e_shnum
	le.PutUint16(buf[50:52], 0)      // e_shstrndx

	ph := buf[phoff:dataOff]
	le.PutUint32(ph[0:4], 1)        // p_type = PT_LOAD
	le.PutUint32(ph[4:8], dataOff)  // p_offset
	le.PutUint32(ph[8:12], vaddr)   // p_vaddr
	le.PutUint32(ph[12:16], vaddr)  // p_paddr
	le.PutUint32(ph[16:20], filesz) // p_filesz
	le.PutUint32(ph[20:24], filesz) // p_memsz
	le.PutUint32(ph[24:28], 7)      // p_flags = RWX
	le.PutUint32(ph[28:32], 4)      // p_align

	for i, w := range payload {
		le.PutUint32(buf[dataOff+uint32(4*i):dataOff+uint32(4*i)+4], w)
	}
	return buf
}

func TestLoadFlattensPTLoadSegment(t *testing.T) {
	raw := buildMinimalRISCV32ELF(0x1000, 0x1000, []uint32{0xdeadbeef, 0x0badf00d})

	img, err := Load(raw)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.EntryPC != 0x1000/4 {
		t.Fatalf("EntryPC = %#x, want %#x", img.EntryPC, 0x1000/4)
	}
	base := uint32(0x1000 / 4)
	if got, want := img.Words[base], uint32(0xdeadbeef); got != want {
		t.Fatalf("word 0 = %#x, want %#x", got, want)
	}
	if got, want := img.Words[base+1], uint32(0x0badf00d); got != want {
		t.Fatalf("word 1 = %#x, want %#x", got, want)
	}
	if len(img.AddrsInOrder) != 2 || img.AddrsInOrder[0] != base || img.AddrsInOrder[1] != base+1 {
		t.Fatalf("AddrsInOrder = %v, want [%d %d]", img.AddrsInOrder, base, base+1)
	}
}

func TestLoadRejectsUnalignedEntry(t *testing.T) {
	raw := buildMinimalRISCV32ELF(0x1001, 0x1000, []uint32{0})
	if _, err := Load(raw); err == nil {
		t.Fatal("expected an error for an unaligned entry point")
	}
}

func TestLoadRejectsTruncatedImage(t *testing.T) {
	raw := buildMinimalRISCV32ELF(0x1000, 0x1000, []uint32{0xdeadbeef})
	if _, err := Load(raw[:len(raw)-2]); err == nil {
		t.Fatal("expected an error for a truncated ELF image")
	}
}
