package emu

import (
	"fmt"
	"log"

	lua "github.com/yuin/gopher-lua"
)

// WordBus is the raster processor's view of the board.
type WordBus interface {
	ReadWord(addr uint32) uint16
	WriteWord(addr uint32, data uint16)
}

// HostCPU drives the board in place of the raster processor's instruction
// stream. It is stepped once per frame and once per scanline, and is told
// about every change of the display interrupt line.
type HostCPU interface {
	Reset() error
	StartFrame(frame uint64)
	RunScanline(line int)
	Interrupt(asserted bool)
	Restored()
	Close()
}

// Display program hook names.
const (
	hookReset    = "reset"
	hookFrame    = "frame"
	hookScanline = "scanline"
	hookIRQ      = "irq"
	hookRestore  = "restore"
)

// LuaHost runs a Lua display program against the board bus.
//
// The program sees the bus through read16, write16 and fill16, plus the
// window bases VRAM, RAMDAC and IO. It may define reset(), frame(n),
// scanline(line), irq(asserted) and restore(); any of them can be omitted.
type LuaHost struct {
	L   *lua.LState
	bus WordBus

	disabled map[string]bool
	lastErr  error
}

var _ HostCPU = (*LuaHost)(nil)

// NewLuaHost loads a display program. The program's top-level chunk runs
// immediately; reset() is not called until Reset.
func NewLuaHost(program []byte, bus WordBus) (*LuaHost, error) {
	h := &LuaHost{
		L:        lua.NewState(),
		bus:      bus,
		disabled: make(map[string]bool),
	}
	h.registerAPI()

	if err := h.L.DoString(string(program)); err != nil {
		h.L.Close()
		return nil, fmt.Errorf("load display program: %w", err)
	}
	return h, nil
}

func (h *LuaHost) registerAPI() {
	L := h.L
	L.SetGlobal("VRAM", lua.LNumber(vramStart))
	L.SetGlobal("RAMDAC", lua.LNumber(ramdacStart))
	L.SetGlobal("IO", lua.LNumber(ioStart))
	L.SetGlobal("read16", L.NewFunction(h.luaRead16))
	L.SetGlobal("write16", L.NewFunction(h.luaWrite16))
	L.SetGlobal("fill16", L.NewFunction(h.luaFill16))
}

// checkAddr converts a Lua number argument to a 32-bit bus address.
func checkAddr(L *lua.LState, n int) uint32 {
	return uint32(int64(L.CheckNumber(n)))
}

func (h *LuaHost) luaRead16(L *lua.LState) int {
	L.Push(lua.LNumber(h.bus.ReadWord(checkAddr(L, 1))))
	return 1
}

func (h *LuaHost) luaWrite16(L *lua.LState) int {
	h.bus.WriteWord(checkAddr(L, 1), uint16(L.CheckInt(2)))
	return 0
}

// fill16(addr, count, value) writes count consecutive words.
func (h *LuaHost) luaFill16(L *lua.LState) int {
	addr := checkAddr(L, 1)
	count := L.CheckInt(2)
	value := uint16(L.CheckInt(3))
	for i := 0; i < count; i++ {
		h.bus.WriteWord(addr, value)
		addr += 16
	}
	return 0
}

// Reset re-enables every hook and runs reset() if the program defines it.
func (h *LuaHost) Reset() error {
	h.disabled = make(map[string]bool)
	h.lastErr = nil
	return h.call(hookReset)
}

// StartFrame runs frame(n).
func (h *LuaHost) StartFrame(frame uint64) {
	h.callLogged(hookFrame, lua.LNumber(frame))
}

// RunScanline runs scanline(line).
func (h *LuaHost) RunScanline(line int) {
	h.callLogged(hookScanline, lua.LNumber(line))
}

// Interrupt runs irq(asserted).
func (h *LuaHost) Interrupt(asserted bool) {
	h.callLogged(hookIRQ, lua.LBool(asserted))
}

// Restored runs restore() after the board state has been loaded. Lua
// variables are not part of a save state, so programs that keep state
// outside the board rebuild it here.
func (h *LuaHost) Restored() {
	h.callLogged(hookRestore)
}

// Err returns the last error raised by a hook, if any.
func (h *LuaHost) Err() error {
	return h.lastErr
}

// Close releases the Lua state.
func (h *LuaHost) Close() {
	h.L.Close()
}

// call invokes a hook if the program defines it. A hook that fails is
// disabled until the next Reset.
func (h *LuaHost) call(name string, args ...lua.LValue) error {
	if h.disabled[name] {
		return nil
	}
	fn, ok := h.L.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return nil
	}
	if err := h.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...); err != nil {
		h.disabled[name] = true
		h.lastErr = fmt.Errorf("display program %s(): %w", name, err)
		return h.lastErr
	}
	return nil
}

func (h *LuaHost) callLogged(name string, args ...lua.LValue) {
	if err := h.call(name, args...); err != nil {
		log.Printf("Warning: %v (hook disabled)", err)
	}
}
