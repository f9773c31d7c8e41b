package emu

import (
	"image"

	emucore "github.com/user-none/eblitui/api"
)

// Compile-time interface checks.
var _ emucore.Emulator = (*Emulator)(nil)
var _ emucore.SaveStater = (*Emulator)(nil)
var _ emucore.MemoryInspector = (*Emulator)(nil)
var _ emucore.MemoryMapper = (*Emulator)(nil)

const (
	Name    = "emgsp"
	Version = "0.1.0"

	ScreenWidth     = 400
	ScreenHeight    = 300
	MaxScreenHeight = ScreenHeight
)

// Flat address boundaries for ReadMemory. VRAM is exposed little-endian.
const (
	vramFlatStart = 0x000000
	vramFlatEnd   = vramWords*2 - 1
)

// blankPen is driven outside the active display region.
const blankPen = Pen(0xFF000000)

// Emulator is the GSP board: VRAM, the TLC34076, the display controller
// and the host program that stands in for the raster processor.
type Emulator struct {
	bus     *GSPBus
	ramdac  *TLC34076
	display *Display
	host    HostCPU

	region Region
	timing BoardTiming
	frame  uint64

	framebuffer *image.RGBA
	lineBuf     [ScreenWidth]Pen
}

// NewEmulator builds the board around a display program and resets it.
func NewEmulator(program []byte, region Region) (*Emulator, error) {
	if err := ValidateProgram(program); err != nil {
		return nil, err
	}

	ramdac := NewTLC34076(Palette6Bit)
	display := NewDisplay(ScreenWidth, GSPTiming.PixelsPerClock)
	bus := NewGSPBus(program, ramdac, display)

	host, err := NewLuaHost(program, bus)
	if err != nil {
		return nil, err
	}

	e := newEmulator(bus, ramdac, display, host, region)
	if err := e.reset(); err != nil {
		host.Close()
		return nil, err
	}
	return e, nil
}

// newEmulator wires already-built components. Tests use it to substitute
// the host program.
func newEmulator(bus *GSPBus, ramdac *TLC34076, display *Display, host HostCPU, region Region) *Emulator {
	e := &Emulator{
		bus:         bus,
		ramdac:      ramdac,
		display:     display,
		host:        host,
		region:      region,
		timing:      GSPTiming,
		framebuffer: image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight)),
	}
	display.SetIRQSink(e.tmsIRQ)
	return e
}

func (e *Emulator) reset() error {
	e.display.Reset()
	e.ramdac.Reset()
	e.frame = 0
	return e.host.Reset()
}

// tmsIRQ forwards the display interrupt output to the host program.
func (e *Emulator) tmsIRQ(asserted bool) {
	e.host.Interrupt(asserted)
}

// RunFrame executes one frame of emulation.
func (e *Emulator) RunFrame() {
	e.host.StartFrame(e.frame)

	for line := 0; line < e.timing.Scanlines; line++ {
		e.host.RunScanline(line)

		params, active := e.display.StartScanline(line)
		if line < ScreenHeight {
			e.renderLine(line, &params, active)
		}
	}

	e.frame++
}

// renderLine blanks the line buffer, rasterizes the active region and
// copies the result into the framebuffer.
func (e *Emulator) renderLine(line int, params *RasterParams, active bool) {
	for i := range e.lineBuf {
		e.lineBuf[i] = blankPen
	}
	if active {
		RenderScanline(params, e.bus.VRAM(), e.ramdac.Pens(), e.lineBuf[:])
	}

	pix := e.framebuffer.Pix
	offset := line * e.framebuffer.Stride
	for x, p := range e.lineBuf {
		o := offset + x*4
		pix[o] = p.R()
		pix[o+1] = p.G()
		pix[o+2] = p.B()
		pix[o+3] = 0xFF
	}
}

// Frame returns the number of frames run since reset.
func (e *Emulator) Frame() uint64 {
	return e.frame
}

// Bus returns the board bus.
func (e *Emulator) Bus() *GSPBus {
	return e.bus
}

// Image returns the framebuffer as an image.
func (e *Emulator) Image() *image.RGBA {
	return e.framebuffer
}

// SetInput is a no-op; the board has no controller ports.
func (e *Emulator) SetInput(player int, buttons uint32) {}

// GetFramebuffer returns raw RGBA pixel data for current frame.
func (e *Emulator) GetFramebuffer() []byte {
	return e.framebuffer.Pix
}

// GetFramebufferStride returns the stride (bytes per row) of the framebuffer.
func (e *Emulator) GetFramebufferStride() int {
	return e.framebuffer.Stride
}

// GetActiveHeight returns the visible display height.
func (e *Emulator) GetActiveHeight() int {
	return ScreenHeight
}

// GetAudioSamples returns no samples; the board has no sound hardware.
func (e *Emulator) GetAudioSamples() []int16 {
	return nil
}

// GetRegion returns the emulator's region setting.
func (e *Emulator) GetRegion() Region {
	return e.region
}

// GetTiming returns FPS and scanline count.
func (e *Emulator) GetTiming() emucore.Timing {
	return emucore.Timing{
		FPS:       e.timing.FPS(),
		Scanlines: e.timing.Scanlines,
	}
}

// SetRegion records the region. Board timing does not depend on it.
func (e *Emulator) SetRegion(region Region) {
	e.region = region
}

// Close releases the host program.
func (e *Emulator) Close() {
	e.host.Close()
}

// SetOption applies a core option change identified by key.
func (e *Emulator) SetOption(key string, value string) {
	switch key {
	case "palette_8bit":
		if value == "true" {
			e.ramdac.SetBits(Palette8Bit)
		} else {
			e.ramdac.SetBits(Palette6Bit)
		}
	}
}

// ReadVRAM reads a single byte of VRAM, low byte of each word first.
func (e *Emulator) ReadVRAM(addr uint32) byte {
	w := e.bus.vram[(addr>>1)%vramWords]
	return byte(w >> (8 * (addr & 1)))
}

// GetVRAM returns a little-endian copy of VRAM.
func (e *Emulator) GetVRAM() []byte {
	out := make([]byte, vramWords*2)
	for i, w := range e.bus.vram {
		out[i*2] = byte(w)
		out[i*2+1] = byte(w >> 8)
	}
	return out
}

// SetVRAM loads little-endian data into VRAM.
func (e *Emulator) SetVRAM(data []byte) {
	for i := 0; i+1 < len(data) && i/2 < vramWords; i += 2 {
		e.bus.vram[i/2] = uint16(data[i]) | uint16(data[i+1])<<8
	}
}

// ReadMemory reads from a flat address into buf and returns the number
// of bytes read.
func (e *Emulator) ReadMemory(addr uint32, buf []byte) uint32 {
	var count uint32
	for i := range buf {
		cur := addr + uint32(i)
		if cur > vramFlatEnd {
			return count
		}
		buf[i] = e.ReadVRAM(cur - vramFlatStart)
		count++
	}
	return count
}

// MemoryMap returns a list of available memory regions with sizes.
func (e *Emulator) MemoryMap() []emucore.MemoryRegion {
	return []emucore.MemoryRegion{
		{Type: emucore.MemorySystemRAM, Size: vramWords * 2},
	}
}

// ReadRegion returns a copy of the specified memory region.
func (e *Emulator) ReadRegion(regionType int) []byte {
	switch regionType {
	case emucore.MemorySystemRAM:
		return e.GetVRAM()
	default:
		return nil
	}
}

// WriteRegion writes data to the specified memory region.
func (e *Emulator) WriteRegion(regionType int, data []byte) {
	switch regionType {
	case emucore.MemorySystemRAM:
		e.SetVRAM(data)
	}
}
