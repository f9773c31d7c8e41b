//go:build !libretro && !ios

package main

import (
	"flag"
	"log"

	"github.com/user-none/eblitui/standalone"
	"github.com/user-none/emgsp/adapter"
)

func main() {
	programPath := flag.String("rom", "", "path to display program (opens UI if not provided)")
	regionFlag := flag.String("region", "auto", "region: auto, ntsc, or pal")
	palette8Bit := flag.Bool("palette-8bit", false, "run the RAMDAC in 8-bit channel mode")
	flag.Parse()

	factory := &adapter.Factory{}

	if *programPath != "" {
		options := map[string]string{}
		if *palette8Bit {
			options["palette_8bit"] = "true"
		} else {
			options["palette_8bit"] = "false"
		}
		if err := standalone.RunDirect(factory, *programPath, *regionFlag, options); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := standalone.Run(factory); err != nil {
		log.Fatal(err)
	}
}
