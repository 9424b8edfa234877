// Command r0vm drives the prover/verifier pipeline over a RISC-V guest
// ELF image (spec.md 6, "CLI"). It replaces the teacher's raw
// bufio.Scanner-over-stdin driver (cmd/vybium-vm-prover/main.go) with
// cobra/pflag flag parsing, since this zkVM's external interface is a
// single-shot "prove this ELF" invocation rather than a line-oriented
// subprocess protocol.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/stskeeps/risc0/pkg/zkvm"
)

var (
	elfPath         string
	methodIDPath    string
	receiptPath     string
	initialInputPath string
	skipSeal        bool
	limit           int
	queries         int
	verbosity       int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "r0vm: error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "r0vm",
		Short: "Prove and verify RISC-V guest execution with a zero-knowledge STARK",
		RunE:  runProve,
	}
	flags := cmd.Flags()
	flags.StringVar(&elfPath, "elf", "", "path to the guest ELF image (required)")
	flags.StringVar(&methodIDPath, "method-id", "", "path to a MethodId cache file (computed and cached if missing or stale)")
	flags.StringVar(&receiptPath, "receipt", "", "path to write the resulting receipt")
	flags.StringVar(&initialInputPath, "initial-input", "", "path to bytes staged into the guest's INPUT region")
	flags.BoolVar(&skipSeal, "skip-seal", false, "execute the guest and print its journal without producing a proof")
	flags.IntVar(&limit, "limit", 0, "number of MethodId trace sizes to compute (0 = default)")
	flags.IntVar(&queries, "queries", 0, "number of FRI queries (0 = spec default)")
	flags.CountVarP(&verbosity, "verbose", "v", "increase logging verbosity (-v, -vv)")
	cmd.MarkFlagRequired("elf")
	return cmd
}

func setupLogging() {
	level := zerolog.Disabled
	switch {
	case verbosity >= 2:
		level = zerolog.DebugLevel
	case verbosity == 1:
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

func runProve(cmd *cobra.Command, args []string) error {
	setupLogging()

	elf, err := os.ReadFile(elfPath)
	if err != nil {
		return fmt.Errorf("reading ELF %s: %w", elfPath, err)
	}

	cfg := zkvm.DefaultConfig()
	if queries > 0 {
		cfg.WithQueries(queries)
	}
	cfg.WithVerbosity(verbosity)

	io := zkvm.NewIO()
	if initialInputPath != "" {
		data, err := os.ReadFile(initialInputPath)
		if err != nil {
			return fmt.Errorf("reading initial input %s: %w", initialInputPath, err)
		}
		io.OnChannel(0, func([]byte) ([]byte, error) { return data, nil })
	}

	if skipSeal {
		journal, err := zkvm.Execute(elf, io)
		if err != nil {
			return fmt.Errorf("executing: %w", err)
		}
		fmt.Printf("journal: %x\n", journal)
		return nil
	}

	method, err := loadOrComputeMethodID(elf, cfg)
	if err != nil {
		return err
	}

	receipt, err := zkvm.Prove(elf, cfg, io)
	if err != nil {
		return fmt.Errorf("proving: %w", err)
	}
	log.Info().Int("seal_words", len(receipt.Seal)).Int("journal_bytes", len(receipt.Journal)).Msg("proof complete")

	ok, err := zkvm.Verify(receipt, method, cfg.Queries)
	if err != nil {
		return fmt.Errorf("self-check verification: %w", err)
	}
	if !ok {
		return fmt.Errorf("self-check verification rejected the proof it just produced")
	}

	if receiptPath != "" {
		if err := os.WriteFile(receiptPath, receipt.Encode(), 0o644); err != nil {
			return fmt.Errorf("writing receipt %s: %w", receiptPath, err)
		}
		log.Info().Str("path", receiptPath).Msg("receipt written")
	}
	fmt.Printf("journal: %x\n", receipt.Journal)
	return nil
}

// loadOrComputeMethodID implements spec.md 6's MethodId-file staleness
// rule: a cached table is reused only if it is newer than the ELF it was
// computed from (SPEC_FULL.md C.2).
func loadOrComputeMethodID(elf []byte, cfg *zkvm.Config) (zkvm.MethodID, error) {
	if methodIDPath == "" {
		return zkvm.ComputeMethodID(elf, cfg, limit)
	}

	elfInfo, err := os.Stat(elfPath)
	if err != nil {
		return zkvm.MethodID{}, fmt.Errorf("stat %s: %w", elfPath, err)
	}
	if midInfo, err := os.Stat(methodIDPath); err == nil && !midInfo.ModTime().Before(elfInfo.ModTime()) {
		raw, err := os.ReadFile(methodIDPath)
		if err != nil {
			return zkvm.MethodID{}, fmt.Errorf("reading method id cache %s: %w", methodIDPath, err)
		}
		log.Debug().Str("path", methodIDPath).Msg("reusing fresh method id cache")
		return zkvm.MethodIDFromBytes(raw), nil
	}

	log.Debug().Str("path", methodIDPath).Msg("method id cache missing or stale, recomputing")
	method, err := zkvm.ComputeMethodID(elf, cfg, limit)
	if err != nil {
		return zkvm.MethodID{}, err
	}
	if err := os.WriteFile(methodIDPath, method.Bytes(), 0o644); err != nil {
		return zkvm.MethodID{}, fmt.Errorf("writing method id cache %s: %w", methodIDPath, err)
	}
	return method, nil
}
