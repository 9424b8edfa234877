package prove_test

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stskeeps/risc0/internal/zkp/circuit"
	"github.com/stskeeps/risc0/internal/zkp/core"
	"github.com/stskeeps/risc0/internal/zkp/hal"
	"github.com/stskeeps/risc0/internal/zkp/methodid"
	"github.com/stskeeps/risc0/internal/zkp/params"
	"github.com/stskeeps/risc0/internal/zkp/prove"
	"github.com/stskeeps/risc0/internal/zkp/verify"
)

// stubIO is a minimal executor.IoHandler: it only needs to answer COMMIT,
// since the reference circuit's Execute is the only thing that drives any
// GPIO during this test.
type stubIO struct{}

func (stubIO) OnCommit(words []uint32) error { return nil }
func (stubIO) OnFault(msg string) error      { return fmt.Errorf("guest fault: %s", msg) }
func (stubIO) OnSendRecv(channel uint32, data []byte) ([]byte, error) { return nil, nil }
func (stubIO) OnLog(cycle uint32, msg string)                         {}

// buildGuestImage returns a tiny synthetic word-addressed image: a handful
// of data words the reference circuit loads into memory and commits the
// first publicWords of as the journal (circuit.commitJournal's
// convention), all well clear of executor.RomBoundary.
func buildGuestImage(n int) (entry uint32, image map[uint32]uint32, addrsInOrder []uint32) {
	image = make(map[uint32]uint32, n)
	addrsInOrder = make([]uint32, n)
	for i := 0; i < n; i++ {
		addr := uint32(i)
		image[addr] = 0x10101010 * uint32(i+1)
		addrsInOrder[i] = addr
	}
	return 0, image, addrsInOrder
}

// TestProveVerifyRoundTrip exercises the full prove/verify pipeline
// (spec.md 8's mandatory "prove then verify succeeds" scenario) end to
// end: it proves a small synthetic guest image with the reference
// circuit, builds the matching method-id table, and checks that Run
// accepts the resulting seal and recovers the same journal the prover
// reported.
func TestProveVerifyRoundTrip(t *testing.T) {
	publicWords := 2
	entry, image, addrsInOrder := buildGuestImage(4)

	sha := core.NewSha()
	h := hal.NewCpuHal(sha)
	c := circuit.NewMemCheckCircuit(publicWords)
	cfg := &params.Config{Queries: 4, Verbosity: 0}

	res, err := prove.Run(h, sha, c, cfg, entry, image, addrsInOrder, stubIO{})
	if err != nil {
		t.Fatalf("prove.Run: %v", err)
	}

	method := methodid.ComputeWithLimit(h, cfg.Queries, entry, image, addrsInOrder, params.MaxCodeDigestCount)

	journal, err := verify.Run(sha, c, method, cfg.Queries, res.Seal)
	if err != nil {
		t.Fatalf("verify.Run: %v", err)
	}
	if string(journal) != string(res.Journal) {
		t.Fatalf("verify journal %x does not match prove journal %x", journal, res.Journal)
	}

	want := make([]byte, 4*publicWords)
	for i := 0; i < publicWords; i++ {
		binary.LittleEndian.PutUint32(want[4*i:], image[uint32(i)])
	}
	if string(journal) != string(want) {
		t.Fatalf("journal %x does not match the image's leading public words %x", journal, want)
	}
}

// TestVerifyRejectsTamperedSeal feeds verify.Run a proof stream with its
// second half dropped, exercising the malformed-proof-stream error path
// ReadFp/ReadFp4/ReadDigest now return instead of panicking (spec.md 7,
// "MalformedProof").
func TestVerifyRejectsTamperedSeal(t *testing.T) {
	publicWords := 2
	entry, image, addrsInOrder := buildGuestImage(4)

	sha := core.NewSha()
	h := hal.NewCpuHal(sha)
	c := circuit.NewMemCheckCircuit(publicWords)
	cfg := &params.Config{Queries: 4, Verbosity: 0}

	res, err := prove.Run(h, sha, c, cfg, entry, image, addrsInOrder, stubIO{})
	if err != nil {
		t.Fatalf("prove.Run: %v", err)
	}

	method := methodid.ComputeWithLimit(h, cfg.Queries, entry, image, addrsInOrder, params.MaxCodeDigestCount)

	truncated := res.Seal[:len(res.Seal)/2]
	if _, err := verify.Run(sha, c, method, cfg.Queries, truncated); err == nil {
		t.Fatal("verify.Run accepted a truncated proof stream")
	}
}
