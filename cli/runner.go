// Package cli provides a command-line runner for the emulator.
// It runs a display program in a window without the full UI.
package cli

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	emubridge "github.com/user-none/emgsp/bridge/ebiten"
	"github.com/user-none/emgsp/ui"
)

// Runner wraps an emulator for command-line mode.
// The emulator runs on a dedicated goroutine paced by the board's frame
// time. The Ebiten thread handles the pause and step keys and draws from
// the shared framebuffer.
type Runner struct {
	emulator *emubridge.Emulator

	emuControl        *ui.EmuControl
	sharedFramebuffer *ui.SharedFramebuffer
	emuDone           chan struct{}

	title string
}

// NewRunner creates a new Runner wrapping the given emulator and starts
// emulation.
func NewRunner(e *emubridge.Emulator) *Runner {
	r := &Runner{
		emulator:          e,
		emuControl:        ui.NewEmuControl(),
		sharedFramebuffer: ui.NewSharedFramebuffer(e.Image().Bounds()),
		emuDone:           make(chan struct{}),
	}

	go r.emulationLoop()

	return r
}

// Close stops the emulation goroutine.
func (r *Runner) Close() {
	if r.emuControl != nil {
		r.emuControl.Stop()
		<-r.emuDone
	}
}

// emulationLoop runs on a dedicated goroutine.
func (r *Runner) emulationLoop() {
	defer close(r.emuDone)

	timing := r.emulator.GetTiming()
	frameTime := time.Duration(float64(time.Second) / float64(timing.FPS))
	lastFrameTime := time.Now()

	for {
		if !r.emuControl.CheckPause() {
			return
		}

		r.emulator.RunFrame()

		r.sharedFramebuffer.Publish(r.emulator.Image(), r.emulator.Frame())

		sleepTime := frameTime - time.Since(lastFrameTime)
		if sleepTime > time.Millisecond {
			time.Sleep(sleepTime)
		}

		lastFrameTime = time.Now()
	}
}

// Update implements ebiten.Game.
func (r *Runner) Update() error {
	if !ebiten.IsFocused() {
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if r.emuControl.IsPaused() {
			r.emuControl.RequestResume()
		} else {
			r.emuControl.RequestPause()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		r.emuControl.RequestStep()
	}
	return nil
}

// Draw implements ebiten.Game.
func (r *Runner) Draw(screen *ebiten.Image) {
	snap := r.sharedFramebuffer.Read()
	r.updateTitle(snap.Frame)
	if snap.Height == 0 {
		return
	}
	r.emulator.DrawCachedFramebuffer(screen, snap.Pixels, snap.Stride, snap.Height)
}

// updateTitle shows the board frame counter while paused so single steps
// can be followed.
func (r *Runner) updateTitle(frame uint64) {
	title := "emgsp"
	if r.emuControl.IsPaused() {
		title = fmt.Sprintf("emgsp - paused at frame %d (N to step)", frame)
	}
	if title != r.title {
		ebiten.SetWindowTitle(title)
		r.title = title
	}
}

// Layout implements ebiten.Game.
func (r *Runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	return r.emulator.Layout(outsideWidth, outsideHeight)
}
