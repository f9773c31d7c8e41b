package emu

import (
	"bytes"
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

const programChunkName = "program"

// ValidateProgram checks that a display program fits the ROM window and
// compiles, without running it.
func ValidateProgram(program []byte) error {
	if len(program) == 0 {
		return errors.New("display program is empty")
	}
	if len(program) > maxROMWords*2 {
		return fmt.Errorf("display program too large (%d bytes, max %d)", len(program), maxROMWords*2)
	}

	chunk, err := parse.Parse(bytes.NewReader(program), programChunkName)
	if err != nil {
		return fmt.Errorf("parse display program: %w", err)
	}
	if _, err := lua.Compile(chunk, programChunkName); err != nil {
		return fmt.Errorf("compile display program: %w", err)
	}
	return nil
}
