package zkvm

import (
	"github.com/rs/zerolog/log"

	"github.com/stskeeps/risc0/internal/elfloader"
	"github.com/stskeeps/risc0/internal/zkp/circuit"
	"github.com/stskeeps/risc0/internal/zkp/core"
	"github.com/stskeeps/risc0/internal/zkp/executor"
	"github.com/stskeeps/risc0/internal/zkp/hal"
	"github.com/stskeeps/risc0/internal/zkp/methodid"
	"github.com/stskeeps/risc0/internal/zkp/params"
	"github.com/stskeeps/risc0/internal/zkp/prove"
	"github.com/stskeeps/risc0/internal/zkp/verify"
)

// publicWords is the fixed public-output section size this package's
// reference circuit declares (spec.md 6, "public outputs (circuit-declared
// size)"); eight words gives a guest room for a 32-byte journal such as
// the SHA-256 digest spec.md 8's "SHA guest" example commits.
const publicWords = 8

func newCircuit() circuit.Circuit {
	return circuit.NewMemCheckCircuit(publicWords)
}

// Prove executes a guest ELF image and returns its receipt. cfg is
// typically zkvm.DefaultConfig(); io supplies the host side of guest GPIO
// traps (spec.md 4.9) — pass zkvm.NewIO() for the default SHA-256/journal
// behavior.
func Prove(elf []byte, cfg *Config, io executor.IoHandler) (*Receipt, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, &VMError{Code: ErrInvalidConfig, Message: "invalid config", Cause: err}
	}

	img, err := elfloader.Load(elf)
	if err != nil {
		return nil, &VMError{Code: ErrELFLoad, Message: "failed to load guest ELF", Cause: err}
	}

	sha := core.NewSha()
	h := hal.NewCpuHal(sha)
	c := newCircuit()

	log.Debug().Int("queries", cfg.Queries).Uint32("entry", img.EntryPC).Msg("proving guest image")
	res, err := prove.Run(h, sha, c, cfg, img.EntryPC, img.Words, img.AddrsInOrder, io)
	if err != nil {
		return nil, wrapZkerr(err)
	}
	log.Debug().Int("seal_words", len(res.Seal)).Msg("proof generated")

	return &Receipt{Journal: res.Journal, Seal: res.Seal}, nil
}

// Execute runs a guest ELF image without producing a proof, returning its
// journal (spec.md 6, "--skip-seal (produce no proof)").
func Execute(elf []byte, io executor.IoHandler) ([]byte, error) {
	img, err := elfloader.Load(elf)
	if err != nil {
		return nil, &VMError{Code: ErrELFLoad, Message: "failed to load guest ELF", Cause: err}
	}
	sha := core.NewSha()
	c := newCircuit()
	mc := executor.NewMachineContext(io, sha)
	_, _, journal, _, err := c.Execute(mc, img.EntryPC, img.Words, img.AddrsInOrder)
	if err != nil {
		return nil, wrapZkerr(err)
	}
	return journal, nil
}

// Verify checks a receipt against a guest's MethodId. queries must match
// the value used to produce the receipt (spec.md 4.7).
func Verify(r *Receipt, method MethodID, queries int) (bool, error) {
	sha := core.NewSha()
	c := newCircuit()
	mid := methodid.FromBytes(method.raw)

	journal, err := verify.Run(sha, c, mid, queries, r.Seal)
	if err != nil {
		return false, wrapZkerr(err)
	}
	if string(journal[:len(r.Journal)]) != string(r.Journal) {
		return false, &VMError{Code: ErrInvalidProof, Message: "receipt journal does not match the seal's committed public output"}
	}
	return true, nil
}

// ComputeMethodID derives the MethodId table for a guest ELF, the binding
// a receipt's verifier checks its code commitment against (spec.md 4.12).
// limit caps the number of trace sizes computed, clamped to
// params.MaxCodeDigestCount.
func ComputeMethodID(elf []byte, cfg *Config, limit int) (MethodID, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	img, err := elfloader.Load(elf)
	if err != nil {
		return MethodID{}, &VMError{Code: ErrELFLoad, Message: "failed to load guest ELF", Cause: err}
	}
	if limit <= 0 {
		limit = params.DefaultMethodIDLimit
	}

	sha := core.NewSha()
	h := hal.NewCpuHal(sha)
	mid := methodid.ComputeWithLimit(h, cfg.Queries, img.EntryPC, img.Words, img.AddrsInOrder, limit)
	return MethodID{raw: mid.Bytes()}, nil
}
