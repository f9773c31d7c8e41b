package emu

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBoardProgram loads black, red, green and blue into pens 0-3, puts
// words 0x0100 and 0x0302 at the start of row 0 and displays four pixels
// of that row on line 0.
const testBoardProgram = `
local PAL_WRITE = RAMDAC
local PAL_DATA  = RAMDAC + 0x10000

local function reg(n) return IO + n * 16 end

function reset()
  write16(PAL_WRITE, 0)
  local colors = { 0,0,0,  63,0,0,  0,63,0,  0,0,63 }
  for i = 1, #colors do write16(PAL_DATA, colors[i]) end

  write16(VRAM, 0x0100)
  write16(VRAM + 0x10, 0x0302)

  write16(reg(5), 0)         -- VEBLNK
  write16(reg(6), 1)         -- VSBLNK
  write16(reg(1), 0)         -- HEBLNK
  write16(reg(2), 4)         -- HSBLNK
  write16(reg(9), 0)         -- DPYSTRT
  write16(reg(8), 0x8000)    -- DPYCTL.ENV
end
`

func makeTestEmulator(t *testing.T, program string) *Emulator {
	t.Helper()
	e, err := NewEmulator([]byte(program), RegionNTSC)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func pixelAt(e *Emulator, x, y int) [4]uint8 {
	pix := e.GetFramebuffer()
	o := y*e.GetFramebufferStride() + x*4
	return [4]uint8{pix[o], pix[o+1], pix[o+2], pix[o+3]}
}

func TestEmulator_EndToEndFrame(t *testing.T) {
	e := makeTestEmulator(t, testBoardProgram)
	e.RunFrame()

	want := [][4]uint8{
		{0, 0, 0, 0xFF},
		{255, 0, 0, 0xFF},
		{0, 255, 0, 0xFF},
		{0, 0, 255, 0xFF},
	}
	for x, w := range want {
		assert.Equal(t, w, pixelAt(e, x, 0), "pixel %d", x)
	}

	// Blanked area around the active region.
	assert.Equal(t, [4]uint8{0, 0, 0, 0xFF}, pixelAt(e, 4, 0))
	assert.Equal(t, [4]uint8{0, 0, 0, 0xFF}, pixelAt(e, 1, 1))
	assert.Equal(t, uint64(1), e.Frame())
}

func TestEmulator_PaletteChangeBetweenFrames(t *testing.T) {
	e := makeTestEmulator(t, testBoardProgram+`
function frame(n)
  if n == 1 then
    write16(RAMDAC, 1)
    write16(RAMDAC + 0x10000, 63)
    write16(RAMDAC + 0x10000, 63)
    write16(RAMDAC + 0x10000, 63)
  end
end
`)
	e.RunFrame()
	assert.Equal(t, [4]uint8{255, 0, 0, 0xFF}, pixelAt(e, 1, 0))

	e.RunFrame()
	assert.Equal(t, [4]uint8{255, 255, 255, 0xFF}, pixelAt(e, 1, 0))
}

func TestEmulator_InterruptPassThrough(t *testing.T) {
	e := makeTestEmulator(t, `
local function reg(n) return IO + n * 16 end
irqs = 0
acks = 0
function reset()
  write16(reg(0x0A), 3)         -- DPYINT
  write16(reg(0x11), 0x0400)    -- INTENB.DI
end
function irq(asserted)
  if asserted then
    irqs = irqs + 1
    write16(reg(0x12), 0)       -- acknowledge
  else
    acks = acks + 1
  end
end
`)
	e.RunFrame()
	e.RunFrame()

	host := e.host.(*LuaHost)
	assert.Equal(t, 2.0, luaNumber(host, "irqs"))
	assert.Equal(t, 2.0, luaNumber(host, "acks"))
	assert.False(t, e.display.IRQ())
}

func TestEmulator_InvalidProgram(t *testing.T) {
	_, err := NewEmulator(nil, RegionNTSC)
	assert.Error(t, err)

	_, err = NewEmulator([]byte("end end"), RegionNTSC)
	assert.Error(t, err)

	_, err = NewEmulator([]byte(`function reset() error("no") end`), RegionNTSC)
	assert.Error(t, err)
}

func TestEmulator_Timing(t *testing.T) {
	e := makeTestEmulator(t, "x = 0")
	timing := e.GetTiming()
	assert.Equal(t, 29, timing.FPS)
	assert.Equal(t, 328, timing.Scanlines)
	assert.Equal(t, ScreenHeight, e.GetActiveHeight())
	assert.Equal(t, ScreenWidth*4, e.GetFramebufferStride())
	assert.Empty(t, e.GetAudioSamples())
}

func TestEmulator_PaletteBitsOption(t *testing.T) {
	e := makeTestEmulator(t, testBoardProgram)
	e.SetOption("palette_8bit", "true")
	e.RunFrame()
	assert.Equal(t, [4]uint8{63, 0, 0, 0xFF}, pixelAt(e, 1, 0))

	e.SetOption("palette_8bit", "false")
	e.RunFrame()
	assert.Equal(t, [4]uint8{255, 0, 0, 0xFF}, pixelAt(e, 1, 0))
}

func TestEmulator_MemoryInspection(t *testing.T) {
	e := makeTestEmulator(t, testBoardProgram)

	buf := make([]byte, 4)
	n := e.ReadMemory(0, buf)
	assert.Equal(t, uint32(4), n)
	assert.Equal(t, []byte{0x00, 0x01, 0x02, 0x03}, buf)

	n = e.ReadMemory(vramFlatEnd, buf)
	assert.Equal(t, uint32(1), n, "read stops at the end of VRAM")

	n = e.ReadMemory(vramFlatEnd+1, buf)
	assert.Equal(t, uint32(0), n, "nothing is mapped past VRAM")

	regions := e.MemoryMap()
	require.Len(t, regions, 1)
	assert.Equal(t, vramWords*2, regions[0].Size)

	data := e.ReadRegion(regions[0].Type)
	require.Len(t, data, vramWords*2)
	data[4] = 0xCD
	data[5] = 0xAB
	e.WriteRegion(regions[0].Type, data)
	assert.Equal(t, uint16(0xABCD), e.Bus().ReadWord(0x20))
}

func TestEmulator_ScanlineHookSeesEachLine(t *testing.T) {
	e := makeTestEmulator(t, `
lines = 0
function scanline(line) lines = lines + 1 end
`)
	e.RunFrame()
	assert.Equal(t, float64(GSPTiming.Scanlines), luaNumber(e.host.(*LuaHost), "lines"))
}

// recordingHost is a HostCPU double that logs every call it receives.
type recordingHost struct {
	events   []string
	restored int
	closed   bool
}

func (h *recordingHost) Reset() error {
	h.events = append(h.events, "reset")
	return nil
}

func (h *recordingHost) StartFrame(frame uint64) {
	h.events = append(h.events, fmt.Sprintf("frame %d", frame))
}
func (h *recordingHost) RunScanline(line int) {
	if line < 3 {
		h.events = append(h.events, fmt.Sprintf("line %d", line))
	}
}
func (h *recordingHost) Interrupt(asserted bool) {
	h.events = append(h.events, fmt.Sprintf("irq %t", asserted))
}
func (h *recordingHost) Restored() { h.restored++ }
func (h *recordingHost) Close() { h.closed = true }

func makeRecordedEmulator(t *testing.T) (*Emulator, *recordingHost) {
	t.Helper()
	ramdac := NewTLC34076(Palette6Bit)
	display := NewDisplay(ScreenWidth, GSPTiming.PixelsPerClock)
	bus := NewGSPBus([]byte("-- empty"), ramdac, display)
	host := &recordingHost{}
	e := newEmulator(bus, ramdac, display, host, RegionNTSC)
	require.NoError(t, e.reset())
	return e, host
}

func TestEmulator_HostCallOrder(t *testing.T) {
	e, host := makeRecordedEmulator(t)
	e.display.WriteRegister(RegDPYINT, 1)
	e.display.WriteRegister(RegINTENB, intDI)

	e.RunFrame()

	assert.Equal(t, []string{
		"reset",
		"frame 0",
		"line 0",
		"line 1",
		"irq true",
		"line 2",
	}, host.events)
}

func TestEmulator_HostSeesInterruptClear(t *testing.T) {
	e, host := makeRecordedEmulator(t)
	e.display.WriteRegister(RegDPYINT, 0)
	e.display.WriteRegister(RegINTENB, intDI)

	e.RunFrame()
	e.bus.WriteWord(ioStart+RegINTPEND*16, 0)

	assert.Equal(t, "irq false", host.events[len(host.events)-1])
	assert.False(t, e.display.IRQ())
}

func TestEmulator_DeserializeNotifiesHost(t *testing.T) {
	e, host := makeRecordedEmulator(t)
	e.RunFrame()
	state, err := e.Serialize()
	require.NoError(t, err)

	require.NoError(t, e.Deserialize(state))
	assert.Equal(t, 1, host.restored)

	e.Close()
	assert.True(t, host.closed)
}

func TestEmulator_ColorBarsProgram(t *testing.T) {
	program, err := os.ReadFile("../programs/colorbars.lua")
	require.NoError(t, err)

	e := makeTestEmulator(t, string(program))
	e.RunFrame()

	assert.Equal(t, [4]uint8{255, 255, 255, 0xFF}, pixelAt(e, 0, 0), "white bar")
	assert.Equal(t, [4]uint8{255, 255, 0, 0xFF}, pixelAt(e, 50, 100), "yellow bar")
	assert.Equal(t, [4]uint8{0, 0, 0, 0xFF}, pixelAt(e, 399, 0), "black bar")
	assert.Equal(t, [4]uint8{0, 255, 0, 0xFF}, pixelAt(e, 0, 250), "gradient start")

	// The display interrupt handler rotates the gradient once per frame.
	e.RunFrame()
	assert.Equal(t, [4]uint8{4, 251, 8, 0xFF}, pixelAt(e, 0, 250))
}
