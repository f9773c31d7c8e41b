package emu

import (
	"encoding/binary"
	"errors"
)

const (
	displaySerializeVersion = 1
	// DisplaySerializeSize is the total bytes needed for display controller
	// serialization: version(1) + regs(64) + currentLine(4) + irqLine(1)
	DisplaySerializeSize = 70
)

// Serialize writes display controller state to buf.
func (d *Display) Serialize(buf []byte) error {
	if len(buf) < DisplaySerializeSize {
		return errors.New("display serialize buffer too small")
	}

	offset := 0

	buf[offset] = displaySerializeVersion
	offset++

	for _, r := range d.regs {
		binary.LittleEndian.PutUint16(buf[offset:], r)
		offset += 2
	}

	binary.LittleEndian.PutUint32(buf[offset:], uint32(int32(d.currentLine)))
	offset += 4
	buf[offset] = boolByte(d.irqLine)

	return nil
}

// Deserialize reads display controller state from buf. The interrupt sink
// is not notified; the restored line state is what the CPU last saw.
func (d *Display) Deserialize(buf []byte) error {
	if len(buf) < DisplaySerializeSize {
		return errors.New("display deserialize buffer too small")
	}

	offset := 0

	version := buf[offset]
	offset++
	if version > displaySerializeVersion {
		return errors.New("unsupported display state version")
	}

	for i := range d.regs {
		d.regs[i] = binary.LittleEndian.Uint16(buf[offset:])
		offset += 2
	}

	d.currentLine = int(int32(binary.LittleEndian.Uint32(buf[offset:])))
	offset += 4
	d.irqLine = buf[offset] != 0

	return nil
}
