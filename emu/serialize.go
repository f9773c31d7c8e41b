package emu

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
)

// Save state format constants
const (
	stateVersion    = 1
	stateMagic      = "eGSPSState\x00\x00"
	stateHeaderSize = 22 // magic(12) + version(2) + romCRC(4) + dataCRC(4)
)

// Fixed serialization sizes for inline components
const (
	busSerializeSize   = vramWords * 2
	boardSerializeSize = 8 // frame counter
)

// boolByte converts a bool to a uint8 (0 or 1).
func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// SerializeSize returns the total size in bytes needed for a save state.
func SerializeSize() int {
	return stateHeaderSize +
		busSerializeSize +
		RAMDACSerializeSize +
		DisplaySerializeSize +
		boardSerializeSize
}

// SerializeSize returns the total size in bytes needed for a save state.
func (e *Emulator) SerializeSize() int {
	return SerializeSize()
}

// Serialize creates a save state and returns it as a byte slice.
func (e *Emulator) Serialize() ([]byte, error) {
	data := make([]byte, SerializeSize())

	// Write header
	copy(data[0:12], stateMagic)
	binary.LittleEndian.PutUint16(data[12:14], stateVersion)
	binary.LittleEndian.PutUint32(data[14:18], e.bus.romCRC)

	offset := stateHeaderSize

	// VRAM
	offset = e.serializeBus(data, offset)

	// RAMDAC
	if err := e.ramdac.Serialize(data[offset:]); err != nil {
		return nil, err
	}
	offset += RAMDACSerializeSize

	// Display controller
	if err := e.display.Serialize(data[offset:]); err != nil {
		return nil, err
	}
	offset += DisplaySerializeSize

	// Board frame counter
	e.serializeBoard(data, offset)

	// Calculate and write data CRC32 (over everything after header)
	dataCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	binary.LittleEndian.PutUint32(data[18:22], dataCRC)

	return data, nil
}

// Deserialize restores emulator state from a save state byte slice.
// The host program is notified once the board state is in place.
func (e *Emulator) Deserialize(data []byte) error {
	if err := e.VerifyState(data); err != nil {
		return err
	}

	offset := stateHeaderSize

	offset = e.deserializeBus(data, offset)

	if err := e.ramdac.Deserialize(data[offset:]); err != nil {
		return err
	}
	offset += RAMDACSerializeSize

	if err := e.display.Deserialize(data[offset:]); err != nil {
		return err
	}
	offset += DisplaySerializeSize

	e.deserializeBoard(data, offset)

	e.host.Restored()
	return nil
}

// VerifyState checks if a save state is valid without loading it.
func (e *Emulator) VerifyState(data []byte) error {
	if len(data) < SerializeSize() {
		return errors.New("save state too short")
	}

	if string(data[0:12]) != stateMagic {
		return errors.New("invalid save state magic")
	}

	version := binary.LittleEndian.Uint16(data[12:14])
	if version > stateVersion {
		return errors.New("unsupported save state version")
	}

	romCRC := binary.LittleEndian.Uint32(data[14:18])
	if romCRC != e.bus.romCRC {
		return errors.New("save state is for a different program")
	}

	expectedCRC := binary.LittleEndian.Uint32(data[18:22])
	actualCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	if expectedCRC != actualCRC {
		return errors.New("save state data is corrupted")
	}

	// Chip blocks are checked here so a rejected state never leaves the
	// board partly loaded.
	ramdacOffset := stateHeaderSize + busSerializeSize
	if data[ramdacOffset] > ramdacSerializeVersion {
		return errors.New("unsupported RAMDAC state version")
	}
	displayOffset := ramdacOffset + RAMDACSerializeSize
	if data[displayOffset] > displaySerializeVersion {
		return errors.New("unsupported display state version")
	}

	return nil
}

// serializeBus writes VRAM to the data buffer.
func (e *Emulator) serializeBus(data []byte, offset int) int {
	for _, w := range e.bus.vram {
		binary.LittleEndian.PutUint16(data[offset:], w)
		offset += 2
	}
	return offset
}

// deserializeBus reads VRAM from the data buffer.
func (e *Emulator) deserializeBus(data []byte, offset int) int {
	for i := range e.bus.vram {
		e.bus.vram[i] = binary.LittleEndian.Uint16(data[offset:])
		offset += 2
	}
	return offset
}

// serializeBoard writes the frame counter to the data buffer.
func (e *Emulator) serializeBoard(data []byte, offset int) int {
	binary.LittleEndian.PutUint64(data[offset:], e.frame)
	offset += 8
	return offset
}

// deserializeBoard reads the frame counter from the data buffer.
func (e *Emulator) deserializeBoard(data []byte, offset int) int {
	e.frame = binary.LittleEndian.Uint64(data[offset:])
	offset += 8
	return offset
}
