package executor

// CodeRowWidth and CodeCycleIndex re-export the code-row layout trace.go
// defines so the circuit package can size and read its code trace without
// duplicating the constant (spec.md 3, "Trace": "Each group has a width
// declared by the constraint system").
const (
	CodeRowWidth   = codeRowWidth
	CodeCycleIndex = codeCycle

	// RomBoundary re-exports memory.go's word-address split between
	// ordinary writable memory and write-once ROM, so callers outside the
	// package (the circuit's guest-image loading) can tell which half of
	// the image a given word address belongs to.
	RomBoundary = romBoundary
)
