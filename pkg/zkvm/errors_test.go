package zkvm

import (
	"errors"
	"testing"

	"github.com/stskeeps/risc0/internal/zkp/zkerr"
)

func TestWrapZkerrMapsKnownCodes(t *testing.T) {
	tests := []struct {
		name string
		in   *zkerr.Error
		want ErrorCode
	}{
		{"invalid proof", zkerr.Invalidf("bad merkle path"), ErrInvalidProof},
		{"malformed proof", zkerr.Malformedf("short seal"), ErrMalformedProof},
		{"guest fault", zkerr.GuestFaultf("rom double write"), ErrGuestFault},
		{"host io", zkerr.New(zkerr.HostIO, "callback failed"), ErrHostIO},
		{"internal", zkerr.New(zkerr.Internal, "nonzero remainder"), ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapZkerr(tt.in)
			ve, ok := got.(*VMError)
			if !ok {
				t.Fatalf("wrapZkerr returned %T, want *VMError", got)
			}
			if ve.Code != tt.want {
				t.Fatalf("Code = %v, want %v", ve.Code, tt.want)
			}
			if ve.Unwrap() != error(tt.in) {
				t.Fatalf("Unwrap() did not preserve the original *zkerr.Error")
			}
		})
	}
}

func TestWrapZkerrNil(t *testing.T) {
	if err := wrapZkerr(nil); err != nil {
		t.Fatalf("wrapZkerr(nil) = %v, want nil", err)
	}
}

func TestWrapZkerrPassesThroughUnknownErrors(t *testing.T) {
	plain := errors.New("boom")
	got := wrapZkerr(plain)
	ve, ok := got.(*VMError)
	if !ok {
		t.Fatalf("wrapZkerr returned %T, want *VMError", got)
	}
	if ve.Code != ErrUnknown {
		t.Fatalf("Code = %v, want ErrUnknown", ve.Code)
	}
	if ve.Unwrap() != plain {
		t.Fatal("Unwrap() did not preserve the original error")
	}
}

func TestVMErrorIsComparesByCode(t *testing.T) {
	a := &VMError{Code: ErrInvalidProof, Message: "a"}
	b := &VMError{Code: ErrInvalidProof, Message: "b"}
	c := &VMError{Code: ErrMalformedProof, Message: "c"}

	if !a.Is(b) {
		t.Fatal("errors with the same Code should compare equal under Is")
	}
	if a.Is(c) {
		t.Fatal("errors with different Codes should not compare equal under Is")
	}
	if errors.Is(a, c) {
		t.Fatal("errors.Is should respect VMError.Is and reject a code mismatch")
	}
	if !errors.Is(a, b) {
		t.Fatal("errors.Is should respect VMError.Is and accept a code match")
	}
}
