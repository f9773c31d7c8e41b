// Command gspshot runs a display program headless for a number of frames
// and writes the final framebuffer as a PNG.
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"os"

	"github.com/user-none/emgsp/emu"
	"golang.org/x/image/draw"
)

func main() {
	programPath := flag.String("program", "", "path to display program (required)")
	frames := flag.Int("frames", 1, "number of frames to run before capturing")
	scale := flag.Int("scale", 1, "integer scale factor for the output image")
	outPath := flag.String("out", "gsp.png", "output PNG path")
	palette8Bit := flag.Bool("palette-8bit", false, "run the RAMDAC in 8-bit channel mode")
	flag.Parse()

	if *programPath == "" {
		log.Fatal("Display program is required. Usage: gspshot -program <path> [-frames N] [-scale N] [-out file.png]")
	}
	if *frames < 1 {
		log.Fatalf("Invalid frame count: %d", *frames)
	}
	if *scale < 1 {
		log.Fatalf("Invalid scale: %d", *scale)
	}

	program, err := os.ReadFile(*programPath)
	if err != nil {
		log.Fatalf("Failed to load program: %v", err)
	}

	e, err := emu.NewEmulator(program, emu.DefaultRegion())
	if err != nil {
		log.Fatalf("Failed to initialize emulator: %v", err)
	}
	defer e.Close()

	if *palette8Bit {
		e.SetOption("palette_8bit", "true")
	}

	for i := 0; i < *frames; i++ {
		e.RunFrame()
	}

	if err := writeSnapshot(*outPath, e.Image(), *scale); err != nil {
		log.Fatalf("Failed to write snapshot: %v", err)
	}
	log.Printf("Wrote %s after %d frames", *outPath, e.Frame())
}

func writeSnapshot(path string, src *image.RGBA, scale int) error {
	var img image.Image = src
	if scale > 1 {
		b := src.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
		img = dst
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
