package emu

// TMS34010 I/O register indices used by the display controller.
// The register file is 32 words at 0xC0000000, one register per 16 bits.
const (
	RegHESYNC  = 0x00
	RegHEBLNK  = 0x01
	RegHSBLNK  = 0x02
	RegHTOTAL  = 0x03
	RegVESYNC  = 0x04
	RegVEBLNK  = 0x05
	RegVSBLNK  = 0x06
	RegVTOTAL  = 0x07
	RegDPYCTL  = 0x08
	RegDPYSTRT = 0x09
	RegDPYINT  = 0x0A
	RegCONTROL = 0x0B
	RegINTENB  = 0x11
	RegINTPEND = 0x12
	RegDPYTAP  = 0x1B
	RegHCOUNT  = 0x1C
	RegVCOUNT  = 0x1D
	RegDPYADR  = 0x1E
	RegREFCNT  = 0x1F

	ioRegCount = 32
)

const (
	dpyctlENV = 0x8000 // video enable
	intDI     = 0x0400 // display interrupt
)

// IRQSink receives changes of the display controller's interrupt output.
type IRQSink func(asserted bool)

// Display is the video timing half of the raster processor: the register
// file the display program writes and the per-line address generator that
// feeds the scanline rasterizer.
type Display struct {
	regs [ioRegCount]uint16

	width          int
	pixelsPerClock int

	currentLine int
	irqLine     bool
	irq         IRQSink
}

// NewDisplay creates a display controller for a screen width pixels wide.
func NewDisplay(width, pixelsPerClock int) *Display {
	return &Display{
		width:          width,
		pixelsPerClock: pixelsPerClock,
	}
}

// SetIRQSink registers the receiver for interrupt line changes.
func (d *Display) SetIRQSink(sink IRQSink) {
	d.irq = sink
}

// Reset clears the register file. Video is disabled until the display
// program sets DPYCTL.ENV.
func (d *Display) Reset() {
	d.regs = [ioRegCount]uint16{}
	d.currentLine = 0
	d.setIRQ(false)
}

// IRQ reports the current state of the interrupt output.
func (d *Display) IRQ() bool {
	return d.irqLine
}

// ReadRegister returns an I/O register value.
func (d *Display) ReadRegister(reg uint8) uint16 {
	reg &= ioRegCount - 1
	switch reg {
	case RegHCOUNT:
		return 0
	case RegVCOUNT:
		return uint16(d.currentLine)
	}
	return d.regs[reg]
}

// WriteRegister stores an I/O register value.
func (d *Display) WriteRegister(reg uint8, data uint16) {
	reg &= ioRegCount - 1
	switch reg {
	case RegINTPEND:
		// Pending bits can only be cleared by the CPU.
		d.regs[reg] &= data
		d.updateIRQ()
		return
	case RegINTENB:
		d.regs[reg] = data
		d.updateIRQ()
		return
	case RegHCOUNT, RegVCOUNT:
		return
	}
	d.regs[reg] = data
}

// StartScanline advances vertical timing to line and returns the raster
// parameters for it. active is false for blanked lines or when video is
// disabled; params is then zero.
func (d *Display) StartScanline(line int) (params RasterParams, active bool) {
	d.currentLine = line

	if line == int(d.regs[RegDPYINT]) {
		d.regs[RegINTPEND] |= intDI
		d.updateIRQ()
	}

	vStart := int(d.regs[RegVEBLNK])
	vEnd := int(d.regs[RegVSBLNK])

	if line == vStart {
		d.regs[RegDPYADR] = d.regs[RegDPYSTRT]
	}

	if d.regs[RegDPYCTL]&dpyctlENV == 0 || line < vStart || line >= vEnd {
		return RasterParams{}, false
	}

	params = RasterParams{
		Scanline: line,
		RowAddr:  uint32(d.regs[RegDPYADR]),
		ColAddr:  uint32(d.regs[RegDPYTAP]),
		HEBlnk:   d.clampX(int(d.regs[RegHEBLNK]) * d.pixelsPerClock),
		HSBlnk:   d.clampX(int(d.regs[RegHSBLNK]) * d.pixelsPerClock),
	}
	d.regs[RegDPYADR]++

	return params, true
}

func (d *Display) clampX(x int) int {
	if x > d.width {
		return d.width
	}
	return x
}

func (d *Display) updateIRQ() {
	d.setIRQ(d.regs[RegINTPEND]&d.regs[RegINTENB]&intDI != 0)
}

func (d *Display) setIRQ(state bool) {
	if state == d.irqLine {
		return
	}
	d.irqLine = state
	if d.irq != nil {
		d.irq(state)
	}
}
