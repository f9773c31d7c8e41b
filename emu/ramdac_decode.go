package emu

// RAMDAC window decode.
//
// The TLC34076 sits on the upper address lines of the GSP bus. The offset
// handed to the decoder is a word offset into the RAMDAC window; the low
// twelve lines never reach the device, A14 is not connected, and the lines
// wired to RS2 and RS3 are swapped on the board.
const (
	ramdacSelectShift = 12   // A0-A11 are not decoded
	ramdacSelectNC    = 0x04 // A14 floats on the board
	ramdacSelectRS3   = 0x08 // routed to RS2
	ramdacSelectRS2   = 0x04
	ramdacSelectMask  = 0x0F // RS0-RS3
)

// RAMDACRegister converts a word offset within the RAMDAC window into the
// register index presented on the device's RS0-RS3 inputs. The read and
// write paths must both go through here so aliased offsets agree.
func RAMDACRegister(offset uint32) uint8 {
	sel := (offset >> ramdacSelectShift) &^ ramdacSelectNC

	if sel&ramdacSelectRS3 != 0 {
		sel = (sel &^ ramdacSelectRS3) | ramdacSelectRS2
	}

	return uint8(sel & ramdacSelectMask)
}
