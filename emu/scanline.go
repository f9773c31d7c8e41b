package emu

// VRAM geometry. The shift register loads a 256-word row; the row select
// is ten bits wide, so VRAM wraps every 1024 rows.
const (
	vramWords    = 0x40000
	vramRowShift = 8
	vramRowMask  = 0x3FF00
	vramColMask  = 0xFF
)

// Pen is a resolved true-color value in 0xAARRGGBB layout.
type Pen uint32

// RGB builds an opaque Pen from 8-bit channels.
func RGB(r, g, b uint8) Pen {
	return Pen(0xFF000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// R returns the red channel.
func (p Pen) R() uint8 { return uint8(p >> 16) }

// G returns the green channel.
func (p Pen) G() uint8 { return uint8(p >> 8) }

// B returns the blue channel.
func (p Pen) B() uint8 { return uint8(p) }

// RasterParams are the per-scanline values the display controller hands
// to the rasterizer. They are only valid for the line they were built for.
type RasterParams struct {
	Scanline int
	RowAddr  uint32
	ColAddr  uint32
	HEBlnk   int // first active pixel
	HSBlnk   int // first blanked pixel after the active region
}

// vramRowBase returns the word offset of the row selected by rowAddr.
func vramRowBase(rowAddr uint32) uint32 {
	return (rowAddr << vramRowShift) & vramRowMask
}

// RenderScanline expands one VRAM row through pens into dest over the
// active region [HEBlnk, HSBlnk). Each VRAM word yields two pixels, low
// byte first. The column cursor wraps within the 256-word row the way the
// hardware shift register does.
//
// Positions outside dest are skipped rather than written; the cursor still
// advances so the visible part of a clipped line stays aligned.
func RenderScanline(p *RasterParams, vram []uint16, pens *[256]Pen, dest []Pen) {
	row := vramRowBase(p.RowAddr)
	col := p.ColAddr

	for x := p.HEBlnk; x < p.HSBlnk; x += 2 {
		pixels := vram[row+(col&vramColMask)]
		col++

		if x >= 0 && x < len(dest) {
			dest[x] = pens[pixels&0xFF]
		}
		if x+1 >= 0 && x+1 < len(dest) {
			dest[x+1] = pens[pixels>>8]
		}
	}
}
