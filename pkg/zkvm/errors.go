package zkvm

import (
	"fmt"

	"github.com/stskeeps/risc0/internal/zkp/zkerr"
)

// ErrorCode classifies why a zkvm operation failed, mirrored on
// internal/zkp/zkerr.Code but exposed at the package boundary so callers
// never need to import an internal package to inspect an error.
type ErrorCode int

const (
	// ErrUnknown represents an unclassified error.
	ErrUnknown ErrorCode = iota

	// ErrInvalidConfig represents an invalid Config.
	ErrInvalidConfig

	// ErrELFLoad represents a failure parsing or loading the guest ELF.
	ErrELFLoad

	// ErrGuestFault represents a guest-triggered fault: the FAULT GPIO,
	// a conflicting ROM double-write, or a faulting FFPU program.
	ErrGuestFault

	// ErrHostIO represents a failure in a caller-supplied IoHandler.
	ErrHostIO

	// ErrProofGeneration represents a failure while proving.
	ErrProofGeneration

	// ErrInvalidProof represents a proof that failed verification.
	ErrInvalidProof

	// ErrMalformedProof represents a seal that is structurally broken —
	// too short, or not fully consumed.
	ErrMalformedProof

	// ErrInternal represents a prover/verifier bug, never expected on
	// honestly generated proofs.
	ErrInternal
)

// VMError is the error type every exported zkvm function returns.
type VMError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *VMError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("zkvm error [%d]: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("zkvm error [%d]: %s", e.Code, e.Message)
}

func (e *VMError) Unwrap() error { return e.Cause }

func (e *VMError) Is(target error) bool {
	t, ok := target.(*VMError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// wrapZkerr translates an *zkerr.Error from internal/zkp into the public
// VMError taxonomy, preserving the original as Cause.
func wrapZkerr(err error) error {
	if err == nil {
		return nil
	}
	ze, ok := err.(*zkerr.Error)
	if !ok {
		return &VMError{Code: ErrUnknown, Message: err.Error(), Cause: err}
	}
	code := ErrUnknown
	switch ze.Code {
	case zkerr.InvalidProof:
		code = ErrInvalidProof
	case zkerr.MalformedProof:
		code = ErrMalformedProof
	case zkerr.GuestFault:
		code = ErrGuestFault
	case zkerr.HostIO:
		code = ErrHostIO
	case zkerr.Internal:
		code = ErrInternal
	}
	return &VMError{Code: code, Message: ze.Message, Cause: ze}
}
