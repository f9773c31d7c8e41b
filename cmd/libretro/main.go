package main

import (
	libretro "github.com/user-none/eblitui/libretro"
	"github.com/user-none/emgsp/adapter"
)

// The board has no controller ports, so no retropad buttons are mapped.
func init() {
	libretro.RegisterFactory(&adapter.Factory{}, []libretro.RetropadMapping{})
}

func main() {}
