package emu

import (
	"strings"
	"testing"
)

func TestValidateProgram_Valid(t *testing.T) {
	if err := ValidateProgram([]byte(testBoardProgram)); err != nil {
		t.Errorf("expected valid program, got: %v", err)
	}
}

func TestValidateProgram_Empty(t *testing.T) {
	if err := ValidateProgram(nil); err == nil {
		t.Error("expected error for empty program")
	}
}

func TestValidateProgram_TooLarge(t *testing.T) {
	program := []byte(strings.Repeat("-", maxROMWords*2+1))
	err := ValidateProgram(program)
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("expected size error, got: %v", err)
	}
}

func TestValidateProgram_SyntaxError(t *testing.T) {
	err := ValidateProgram([]byte("function reset( write16(0, 1) end"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "display program") {
		t.Errorf("error should name the display program: %v", err)
	}
}

func TestValidateProgram_DoesNotRun(t *testing.T) {
	// A runtime error in the top-level chunk is not a validation failure.
	if err := ValidateProgram([]byte(`error("only at load")`)); err != nil {
		t.Errorf("expected compile-only validation, got: %v", err)
	}
}
