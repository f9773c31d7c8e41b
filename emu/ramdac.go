package emu

// PaletteDevice is the color lookup capability the board renders through.
// Register access is by RS0-RS3 index; Pens returns the live resolved table.
type PaletteDevice interface {
	Read(reg uint8) uint8
	Write(reg uint8, data uint8)
	Pens() *[256]Pen
}

// TLC34076 register indices.
const (
	tlcPaletteWriteAddr = 0x00
	tlcPaletteData      = 0x01
	tlcPixelReadMask    = 0x02
	tlcPaletteReadAddr  = 0x03
	tlcGeneralControl   = 0x08
	tlcInputClockSel    = 0x09
	tlcOutputClockSel   = 0x0A
	tlcMuxControl       = 0x0B
	tlcPalettePage      = 0x0C
	tlcTestRegister     = 0x0E
	tlcResetState       = 0x0F
)

// PaletteBits selects the DAC channel resolution.
type PaletteBits int

const (
	Palette6Bit PaletteBits = 6
	Palette8Bit PaletteBits = 8
)

// TLC34076 is the Texas Instruments palette RAMDAC. Palette RAM is loaded
// and read back as R, G, B triplets through a single data register, with
// separate auto-incrementing read and write address registers.
type TLC34076 struct {
	regs       [16]uint8
	paletteRAM [768]uint8 // 256 entries x RGB

	writeIndex uint8 // position within the pending write triplet
	readIndex  uint8 // position within the current read triplet
	writeLatch [3]uint8
	readLatch  [3]uint8
	dacBits    PaletteBits
	pens       [256]Pen
}

var _ PaletteDevice = (*TLC34076)(nil)

// NewTLC34076 creates a RAMDAC with the given channel resolution.
func NewTLC34076(bits PaletteBits) *TLC34076 {
	t := &TLC34076{dacBits: bits}
	t.Reset()
	return t
}

// Reset restores power-on register values. Palette RAM is preserved.
func (t *TLC34076) Reset() {
	t.regs = [16]uint8{}
	t.regs[tlcPixelReadMask] = 0xFF
	t.regs[tlcGeneralControl] = 0x03
	t.regs[tlcOutputClockSel] = 0x3F
	t.regs[tlcMuxControl] = 0x2D
	t.writeIndex = 0
	t.readIndex = 0
	t.rebuildPens()
}

// SetBits changes the DAC resolution and refreshes every pen.
func (t *TLC34076) SetBits(bits PaletteBits) {
	t.dacBits = bits
	t.rebuildPens()
}

// Bits returns the current DAC resolution.
func (t *TLC34076) Bits() PaletteBits {
	return t.dacBits
}

// Pens implements PaletteDevice.
func (t *TLC34076) Pens() *[256]Pen {
	return &t.pens
}

// Read implements PaletteDevice.
func (t *TLC34076) Read(reg uint8) uint8 {
	reg &= 0x0F
	result := t.regs[reg]

	switch reg {
	case tlcPaletteData:
		if t.readIndex == 0 {
			base := 3 * int(t.regs[tlcPaletteReadAddr])
			copy(t.readLatch[:], t.paletteRAM[base:base+3])
		}
		result = t.readLatch[t.readIndex]
		t.readIndex++
		if t.readIndex == 3 {
			t.readIndex = 0
			t.regs[tlcPaletteReadAddr]++
		}
	}

	return result
}

// Write implements PaletteDevice.
func (t *TLC34076) Write(reg uint8, data uint8) {
	reg &= 0x0F
	t.regs[reg] = data

	switch reg {
	case tlcPaletteWriteAddr:
		t.writeIndex = 0

	case tlcPaletteData:
		t.writeLatch[t.writeIndex] = data
		t.writeIndex++
		if t.writeIndex == 3 {
			index := t.regs[tlcPaletteWriteAddr]
			base := 3 * int(index)
			copy(t.paletteRAM[base:base+3], t.writeLatch[:])
			t.updatePen(index)
			t.writeIndex = 0
			t.regs[tlcPaletteWriteAddr]++
		}

	case tlcPixelReadMask:
		t.rebuildPens()

	case tlcPaletteReadAddr:
		t.readIndex = 0

	case tlcResetState:
		t.Reset()
	}
}

// channel expands a stored DAC value to 8 bits.
func (t *TLC34076) channel(v uint8) uint8 {
	if t.dacBits == Palette8Bit {
		return v
	}
	v &= 0x3F
	return (v << 2) | (v >> 4)
}

// entryColor resolves palette RAM entry i without applying the read mask.
func (t *TLC34076) entryColor(i int) Pen {
	base := 3 * i
	return RGB(t.channel(t.paletteRAM[base]), t.channel(t.paletteRAM[base+1]), t.channel(t.paletteRAM[base+2]))
}

// updatePen refreshes the pen for a palette entry. Indices the read mask
// does not pass through unchanged stay black.
func (t *TLC34076) updatePen(index uint8) {
	if index&t.regs[tlcPixelReadMask] != index {
		return
	}
	t.pens[index] = t.entryColor(int(index))
}

func (t *TLC34076) rebuildPens() {
	mask := t.regs[tlcPixelReadMask]
	for i := 0; i < 256; i++ {
		if uint8(i)&mask != uint8(i) {
			t.pens[i] = RGB(0, 0, 0)
			continue
		}
		t.pens[i] = t.entryColor(i)
	}
}
