package emu

import "errors"

const (
	ramdacSerializeVersion = 1
	// RAMDACSerializeSize is the total bytes needed for TLC34076 serialization.
	// version(1) + regs(16) + paletteRAM(768) + writeIndex(1) + readIndex(1) +
	// writeLatch(3) + readLatch(3) + dacBits(1)
	RAMDACSerializeSize = 794
)

// Serialize writes RAMDAC state to buf. buf must be at least RAMDACSerializeSize bytes.
func (t *TLC34076) Serialize(buf []byte) error {
	if len(buf) < RAMDACSerializeSize {
		return errors.New("RAMDAC serialize buffer too small")
	}

	offset := 0

	buf[offset] = ramdacSerializeVersion
	offset++

	copy(buf[offset:], t.regs[:])
	offset += len(t.regs)

	copy(buf[offset:], t.paletteRAM[:])
	offset += len(t.paletteRAM)

	// Triplet sequencing
	buf[offset] = t.writeIndex
	offset++
	buf[offset] = t.readIndex
	offset++
	copy(buf[offset:], t.writeLatch[:])
	offset += len(t.writeLatch)
	copy(buf[offset:], t.readLatch[:])
	offset += len(t.readLatch)

	buf[offset] = uint8(t.dacBits)

	return nil
}

// Deserialize reads RAMDAC state from buf and rebuilds the pen table.
func (t *TLC34076) Deserialize(buf []byte) error {
	if len(buf) < RAMDACSerializeSize {
		return errors.New("RAMDAC deserialize buffer too small")
	}

	offset := 0

	version := buf[offset]
	offset++
	if version > ramdacSerializeVersion {
		return errors.New("unsupported RAMDAC state version")
	}

	copy(t.regs[:], buf[offset:offset+len(t.regs)])
	offset += len(t.regs)

	copy(t.paletteRAM[:], buf[offset:offset+len(t.paletteRAM)])
	offset += len(t.paletteRAM)

	t.writeIndex = buf[offset] % 3
	offset++
	t.readIndex = buf[offset] % 3
	offset++
	copy(t.writeLatch[:], buf[offset:offset+len(t.writeLatch)])
	offset += len(t.writeLatch)
	copy(t.readLatch[:], buf[offset:offset+len(t.readLatch)])
	offset += len(t.readLatch)

	switch PaletteBits(buf[offset]) {
	case Palette8Bit:
		t.dacBits = Palette8Bit
	default:
		t.dacBits = Palette6Bit
	}

	t.rebuildPens()
	return nil
}
