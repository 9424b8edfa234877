package executor

import "github.com/stskeeps/risc0/internal/zkp/core"

// BuildCodeTrace runs the INIT/LOAD/RESET/body/FINI cycle sequence for a
// guest image into exactly height rows, capping the body phase so the
// trace always closes with one FINI row followed by zkCycles of zeroed
// blinding rows. Body row content is a pure function of cycle position
// (the SHA coprocessor phase trace.go's Body implements), not of guest
// semantics, so for a fixed (image, height, zkCycles) triple this always
// produces the same rows regardless of which call site drives it —
// letting methodid's per-size table and the real prover's trace commit to
// the same code root for a matching po2 (original_source/.../method_id.rs's
// load_code, which routes method-id computation through the same
// exec::load_code the real executor uses, for exactly this reason).
//
// ok is false if the image's INIT/LOAD/RESET/FINI rows don't leave room
// for at least one body row plus zkCycles of padding within height.
func BuildCodeTrace(entry uint32, image map[uint32]uint32, addrsInOrder []uint32, height, zkCycles int) (rows [][]core.Fp, ok bool) {
	bodyLimit := height - zkCycles - 1
	if bodyLimit < 0 {
		return nil, false
	}

	limitBody := false
	step := func(row []core.Fp, fini int) (bool, error) {
		rows = append(rows, append([]core.Fp(nil), row...))
		if limitBody {
			return len(rows) < bodyLimit, nil
		}
		return true, nil
	}

	loader := NewCodeLoader(step)
	if _, err := loader.Init(); err != nil {
		return nil, false
	}
	for _, addr := range addrsInOrder {
		if _, err := loader.Load(addr, image[addr]); err != nil {
			return nil, false
		}
	}
	if _, err := loader.Reset(entry); err != nil {
		return nil, false
	}
	if len(rows) >= bodyLimit {
		return nil, false // no room left for even one body row
	}

	limitBody = true
	if err := loader.Body(); err != nil {
		return nil, false
	}
	limitBody = false

	if _, err := loader.Fini(); err != nil {
		return nil, false
	}

	for len(rows) < height {
		rows = append(rows, make([]core.Fp, codeRowWidth))
	}
	return rows, true
}
