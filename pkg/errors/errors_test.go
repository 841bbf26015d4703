package errors

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	err := New(ErrCodeFormat, "mode %d is not supported", 4)
	if got := err.Error(); got != "FORMAT: mode 4 is not supported" {
		t.Errorf("unexpected message %q", got)
	}

	wrapped := Wrap(ErrCodeIO, fs.ErrNotExist, "%s", "emd.map")
	if !strings.Contains(wrapped.Error(), "emd.map") {
		t.Errorf("expected filename in %q", wrapped.Error())
	}
	if !errors.Is(wrapped, fs.ErrNotExist) {
		t.Error("expected cause to be preserved")
	}
}

func TestIsWalksChain(t *testing.T) {
	inner := New(ErrCodeFormat, "payload truncated")
	outer := File("emd.map", inner)

	if !Is(outer, ErrCodeIO) {
		t.Error("expected IO code on outer error")
	}
	if !Is(outer, ErrCodeFormat) {
		t.Error("expected FORMAT code to be found through the chain")
	}
	if Is(outer, ErrCodeValidation) {
		t.Error("did not expect VALIDATION code")
	}
	if GetCode(outer) != ErrCodeIO {
		t.Errorf("expected outermost code IO, got %s", GetCode(outer))
	}
	if GetCode(errors.New("plain")) != "" {
		t.Error("plain errors carry no code")
	}
}

func TestValidationAggregates(t *testing.T) {
	if err := Validation("situs header", nil); err != nil {
		t.Fatalf("expected nil for no problems, got %v", err)
	}

	err := Validation("situs header", []string{"missing nx", "missing nz"})
	if !Is(err, ErrCodeValidation) {
		t.Fatalf("expected VALIDATION, got %v", err)
	}
	for _, want := range []string{"situs header", "missing nx", "missing nz"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}
}
