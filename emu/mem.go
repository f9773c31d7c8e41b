package emu

import "hash/crc32"

// Bus address windows, in TMS34010 bit addresses.
const (
	vramStart   = 0x00000000
	vramEnd     = 0x003FFFFF
	ramdacStart = 0x00440000
	ramdacEnd   = 0x004FFFFF
	ioStart     = 0xC0000000
	ioEnd       = 0xC00001FF
	romStart    = 0xFF800000
	romEnd      = 0xFFFFFFFF // 0xFF800000-0xFFBFFFFF mirrored at +0x400000
	romMirror   = 0x003FFFFF

	maxROMWords = 0x40000 // 4 Mbit
)

// GSPBus implements the graphics processor's memory map.
//
// Address map (bit addresses, 16-bit words):
//
//	0x00000000-0x003FFFFF  VRAM (256K words)
//	0x00440000-0x004FFFFF  TLC34076 RAMDAC, decoded by RAMDACRegister
//	0xC0000000-0xC00001FF  TMS34010 I/O registers
//	0xFF800000-0xFFBFFFFF  Program ROM (read-only)
//	0xFFC00000-0xFFFFFFFF  Program ROM mirror
type GSPBus struct {
	vram    [vramWords]uint16
	rom     []uint16
	romCRC  uint32
	ramdac  PaletteDevice
	display *Display
}

// NewGSPBus creates a bus over the given program image, palette device and
// display controller. The image is mapped as little-endian words.
func NewGSPBus(program []byte, ramdac PaletteDevice, display *Display) *GSPBus {
	if len(program) > maxROMWords*2 {
		program = program[:maxROMWords*2]
	}

	rom := make([]uint16, (len(program)+1)/2)
	for i, b := range program {
		rom[i/2] |= uint16(b) << (8 * uint(i&1))
	}

	return &GSPBus{
		rom:     rom,
		romCRC:  crc32.ChecksumIEEE(program),
		ramdac:  ramdac,
		display: display,
	}
}

// VRAM returns the video memory backing store. The scanline renderer reads
// it directly; everything else goes through ReadWord and WriteWord.
func (b *GSPBus) VRAM() []uint16 {
	return b.vram[:]
}

// ReadWord reads the 16-bit word at a bit address.
func (b *GSPBus) ReadWord(addr uint32) uint16 {
	switch {
	case addr <= vramEnd:
		return b.vram[(addr-vramStart)>>4]
	case addr >= ramdacStart && addr <= ramdacEnd:
		return b.ramdacRead((addr - ramdacStart) >> 4)
	case addr >= ioStart && addr <= ioEnd:
		return b.display.ReadRegister(uint8((addr - ioStart) >> 4))
	case addr >= romStart:
		return b.readROM(addr)
	}
	return 0
}

// WriteWord writes the 16-bit word at a bit address. ROM and unmapped
// writes are ignored.
func (b *GSPBus) WriteWord(addr uint32, data uint16) {
	switch {
	case addr <= vramEnd:
		b.vram[(addr-vramStart)>>4] = data
	case addr >= ramdacStart && addr <= ramdacEnd:
		b.ramdacWrite((addr-ramdacStart)>>4, data)
	case addr >= ioStart && addr <= ioEnd:
		b.display.WriteRegister(uint8((addr-ioStart)>>4), data)
	}
}

func (b *GSPBus) ramdacRead(offset uint32) uint16 {
	return uint16(b.ramdac.Read(RAMDACRegister(offset)))
}

func (b *GSPBus) ramdacWrite(offset uint32, data uint16) {
	b.ramdac.Write(RAMDACRegister(offset), uint8(data))
}

func (b *GSPBus) readROM(addr uint32) uint16 {
	word := ((addr - romStart) & romMirror) >> 4
	if int(word) >= len(b.rom) {
		return 0
	}
	return b.rom[word]
}
