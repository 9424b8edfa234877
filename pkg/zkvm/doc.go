// Package zkvm is the public API of a RISC-V zero-knowledge virtual
// machine: it proves that running a guest ELF binary to completion
// produces a given public journal, and lets a third party verify that
// proof without re-executing the guest.
//
// # Features
//
// - STARK prover/verifier pipeline over the Baby Bear field (spec.md 2)
// - SHA-256 Fiat-Shamir transcript and Merkle commitments (spec.md 4.1, 4.5)
// - DEEP-FRI low-degree test with radix-16 folding (spec.md 4.7)
// - RISC-V guest execution with host I/O via GPIO traps (spec.md 4.9)
// - MethodId: a size-independent binding between a receipt and its ELF
//
// # Quick start
//
// Proving a guest binary:
//
//	cfg := zkvm.DefaultConfig()
//	receipt, err := zkvm.Prove(elfBytes, cfg, zkvm.NewIO())
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Verifying the resulting receipt against the guest's MethodId:
//
//	ok, err := zkvm.Verify(receipt, methodID, cfg.Queries)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Architecture
//
// - pkg/zkvm/: public API (this package)
// - internal/zkp/: private prover/verifier implementation
// - internal/elfloader/: ELF32 RISC-V image loading
//
// Implementation details in internal/ can change without breaking this
// package's exported surface.
package zkvm
