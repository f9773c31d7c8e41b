package emu

import emucore "github.com/user-none/eblitui/api"

// Region is an alias for emucore.Region so internal code compiles unchanged.
type Region = emucore.Region

const (
	RegionNTSC = emucore.RegionNTSC
	RegionPAL  = emucore.RegionPAL
)

// BoardTiming holds the raw screen timing of the GSP board. The frontends
// only understand regions; the board has a single fixed timing regardless.
type BoardTiming struct {
	CPUClockHz     int // TMS34010 input clock
	PixelClockHz   int // video clock
	PixelsPerClock int // pixels shifted out per video clock
	HTotal         int // pixel clocks per line
	Scanlines      int // total lines per frame
}

// GSPTiming is the board's only configuration: 48 MHz CPU, pixel clock
// CPU/8, 624 clocks per line and 328 lines.
var GSPTiming = BoardTiming{
	CPUClockHz:     48000000,
	PixelClockHz:   48000000 / 8,
	PixelsPerClock: 1,
	HTotal:         156 * 4,
	Scanlines:      328,
}

// FPS returns the integral refresh rate.
func (t BoardTiming) FPS() int {
	return t.PixelClockHz / (t.HTotal * t.Scanlines)
}

// DetectRegion always reports NTSC; display programs carry no region.
func DetectRegion(program []byte) Region {
	return RegionNTSC
}

// DefaultRegion returns the default region (NTSC).
func DefaultRegion() Region {
	return RegionNTSC
}
