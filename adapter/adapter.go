package adapter

import (
	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/emgsp/emu"
)

// Compile-time interface check.
var _ emucore.CoreFactory = (*Factory)(nil)

// Factory implements emucore.CoreFactory for the GSP board emulator.
type Factory struct{}

// SystemInfo returns system metadata for UI configuration.
func (f *Factory) SystemInfo() emucore.SystemInfo {
	return emucore.SystemInfo{
		Name:            "emgsp",
		ConsoleName:     "Kelly GSP",
		Extensions:      []string{".lua", ".gsp"},
		ScreenWidth:     emu.ScreenWidth,
		MaxScreenHeight: emu.MaxScreenHeight,
		AspectRatio:     4.0 / 3.0,
		SampleRate:      48000,
		Buttons:         []emucore.Button{},
		Players:         1,
		CoreOptions: []emucore.CoreOption{
			{
				Key:         "palette_8bit",
				Label:       "8-Bit Palette DAC",
				Description: "Use 8-bit RAMDAC channels instead of the board's 6-bit wiring",
				Type:        emucore.CoreOptionBool,
				Default:     "false",
			},
		},
		DataDirName:   "emgsp",
		CoreName:      emu.Name,
		CoreVersion:   emu.Version,
		SerializeSize: emu.SerializeSize(),
	}
}

// CreateEmulator creates a new emulator instance running the given display
// program. The region is recorded but does not change board timing.
func (f *Factory) CreateEmulator(program []byte, region emucore.Region) (emucore.Emulator, error) {
	e, err := emu.NewEmulator(program, region)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// DetectRegion reports the default region. The bool return is false since
// display programs carry no region and none is looked up.
func (f *Factory) DetectRegion(program []byte) (emucore.Region, bool) {
	return emu.DetectRegion(program), false
}
