package ui

import (
	"image"
	"sync"
)

// FrameSnapshot is one completed board frame as seen by the draw thread.
type FrameSnapshot struct {
	Pixels []byte
	Stride int
	Height int
	Frame  uint64 // board frame counter after the frame ran
}

// SharedFramebuffer hands completed frames from the emulation goroutine to
// Ebiten's Draw(). Publish fills the write side; Read copies it into the
// read side, which the caller may use without holding the lock.
type SharedFramebuffer struct {
	mu    sync.Mutex
	write FrameSnapshot
	read  FrameSnapshot
}

// NewSharedFramebuffer allocates buffers for a board framebuffer with the
// given bounds.
func NewSharedFramebuffer(bounds image.Rectangle) *SharedFramebuffer {
	size := bounds.Dx() * bounds.Dy() * 4
	return &SharedFramebuffer{
		write: FrameSnapshot{Pixels: make([]byte, size)},
		read:  FrameSnapshot{Pixels: make([]byte, size)},
	}
}

// Publish copies the board framebuffer after frame has completed.
func (sf *SharedFramebuffer) Publish(img *image.RGBA, frame uint64) {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	if img.Stride == 0 {
		return
	}
	n := copy(sf.write.Pixels, img.Pix)
	height := img.Bounds().Dy()
	if rows := n / img.Stride; rows < height {
		height = rows
	}
	sf.write.Stride = img.Stride
	sf.write.Height = height
	sf.write.Frame = frame
}

// Read returns a snapshot of the most recently published frame. Height is
// zero until the first Publish.
func (sf *SharedFramebuffer) Read() FrameSnapshot {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	copy(sf.read.Pixels, sf.write.Pixels[:sf.write.Stride*sf.write.Height])
	sf.read.Stride = sf.write.Stride
	sf.read.Height = sf.write.Height
	sf.read.Frame = sf.write.Frame
	return sf.read
}

// EmuControl coordinates pause, single-frame stepping and shutdown between
// the Ebiten thread and the emulation goroutine. The goroutine calls
// CheckPause between frames.
type EmuControl struct {
	mu       sync.Mutex
	cond     *sync.Cond
	pauseReq bool
	paused   bool
	steps    int
	stopped  bool
}

// NewEmuControl creates a running emulation control.
func NewEmuControl() *EmuControl {
	ec := &EmuControl{}
	ec.cond = sync.NewCond(&ec.mu)
	return ec
}

// RequestPause asks the emulation goroutine to pause and blocks until it
// has parked between frames.
func (ec *EmuControl) RequestPause() {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	ec.pauseReq = true
	ec.cond.Broadcast()
	for !ec.paused && !ec.stopped {
		ec.cond.Wait()
	}
}

// RequestResume lets the emulation goroutine run freely again.
func (ec *EmuControl) RequestResume() {
	ec.mu.Lock()
	ec.pauseReq = false
	ec.paused = false
	ec.steps = 0
	ec.cond.Broadcast()
	ec.mu.Unlock()
}

// RequestStep runs one more frame while paused. It does nothing when the
// goroutine is running.
func (ec *EmuControl) RequestStep() {
	ec.mu.Lock()
	if ec.paused {
		ec.steps++
		ec.cond.Broadcast()
	}
	ec.mu.Unlock()
}

// CheckPause blocks while paused and returns true when the next frame may
// run. It returns false once Stop has been called.
func (ec *EmuControl) CheckPause() bool {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	for {
		if ec.stopped {
			return false
		}
		if !ec.pauseReq {
			ec.paused = false
			return true
		}
		if ec.steps > 0 {
			ec.steps--
			return true
		}
		if !ec.paused {
			ec.paused = true
			ec.cond.Broadcast()
		}
		ec.cond.Wait()
	}
}

// Stop signals the emulation goroutine to exit and releases any waiter.
func (ec *EmuControl) Stop() {
	ec.mu.Lock()
	ec.stopped = true
	ec.pauseReq = false
	ec.cond.Broadcast()
	ec.mu.Unlock()
}

// ShouldRun returns true until Stop is called.
func (ec *EmuControl) ShouldRun() bool {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return !ec.stopped
}

// IsPaused returns true if the emulation goroutine is parked.
func (ec *EmuControl) IsPaused() bool {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.paused
}
