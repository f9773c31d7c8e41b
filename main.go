package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	emubridge "github.com/user-none/emgsp/bridge/ebiten"
	"github.com/user-none/emgsp/cli"
	"github.com/user-none/emgsp/emu"
)

func main() {
	programPath := flag.String("program", "", "path to display program (required)")
	palette8Bit := flag.Bool("palette-8bit", false, "run the RAMDAC in 8-bit channel mode")
	flag.Parse()

	if *programPath == "" {
		log.Fatal("Display program is required. Usage: emgsp -program <path>")
	}

	program, err := os.ReadFile(*programPath)
	if err != nil {
		log.Fatalf("Failed to load program: %v", err)
	}

	e, err := emubridge.NewEmulator(program, emu.DefaultRegion())
	if err != nil {
		log.Fatalf("Failed to initialize emulator: %v", err)
	}
	if *palette8Bit {
		e.SetOption("palette_8bit", "true")
	}

	ebiten.SetWindowSize(emu.ScreenWidth*2, emu.ScreenHeight*2)
	ebiten.SetWindowTitle(emu.Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	runner := cli.NewRunner(e)
	defer e.Close()
	defer runner.Close()

	if err := ebiten.RunGame(runner); err != nil {
		log.Fatal(err)
	}
}
