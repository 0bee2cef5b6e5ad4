// Package ui drives a pixelgl window off the console's swapped
// framebuffer and forwards keyboard input back into it as controller
// pokes and hotkey requests. Grounded on the teacher's lib/ui/screen.go,
// adapted onto console.Console (the teacher's GoNes interface) and
// stripped of the gob-based Serialise/DeSerialise hooks this module
// drops entirely (see DESIGN.md).
package ui

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/pixelgl"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/colornames"

	"nesgo/common"
	"nesgo/console"
)

const screenScale = 3

// Emulator is the console surface a Screen drives: live controller input
// and deferred hotkey requests. Satisfied by *console.Console.
type Emulator interface {
	Poke(controllerId uint8, button uint8, pressed bool)
	Request(r console.OpRequest)
}

// Screen owns the pixelgl window and the two PictureData buffers it
// wraps directly around the console's Framebuffer slices (no copy: the
// Framebuffer's Buffer0/Buffer1 are []color.RGBA already, so a
// pixel.PictureData can reference them in place).
type Screen struct {
	nes Emulator

	window *pixelgl.Window

	buffer0 *pixel.PictureData
	buffer1 *pixel.PictureData
	sprite  *pixel.Sprite

	fb *common.Framebuffer

	fpsChannel   <-chan time.Time
	fpsLastFrame int
}

// Init wires the Screen onto an already-Init'd console: fb must be the
// same *common.Framebuffer the console renders into (console.Console's
// exported Framebuffer field).
func (s *Screen) Init(nes Emulator, fb *common.Framebuffer) {
	s.nes = nes
	s.fb = fb
	s.setSprite()
}

// Run spawns the pixelgl event loop on its own locked OS thread and
// returns immediately, matching lib/ui/screen.go's Run(): the caller
// (console.Console.Run, the cooperative CPU/PPU/APU stepping loop) keeps
// the calling goroutine, and this window drives input/drawing
// independently until closed.
func (s *Screen) Run() {
	go func() {
		runtime.LockOSThread()
		pixelgl.Run(s.runThread)
		os.Exit(0)
	}()
}

func (s *Screen) runThread() {
	cfg := pixelgl.WindowConfig{
		Title:  "nesgo",
		Bounds: pixel.R(0, 0, common.FrameWidth*screenScale, common.FrameHeight*screenScale),
		VSync:  true,
	}
	window, err := pixelgl.NewWindow(cfg)
	if err != nil {
		// pixelgl.Run invokes runThread as a bare func(): there is no
		// caller left to return this error to, so it is logged and fatal
		// rather than left to panic with a raw stack trace.
		logrus.WithError(common.NewError(common.VideoInitFailure, err)).Fatal("ui: failed to open window")
	}

	s.window = window
	s.fpsChannel = time.Tick(time.Second)
	s.fpsLastFrame = 0

	s.runner()
}

func (s *Screen) runner() {
	lastFrame := 0
	for !s.window.Closed() {
		<-s.fb.FrameUpdated

		diff := s.fb.Frames - lastFrame
		if diff > 0 {
			if diff > 1 {
				fmt.Printf("ui: skipped %d frames\n", diff-1)
			}
			s.draw()
			s.window.Update()
			lastFrame = s.fb.Frames
		}

		s.updateFpsTitle()
		s.updateControllers()
	}
	// drain any buffered swap notification so the console's Swap doesn't
	// block on a channel nobody is reading from anymore.
	for len(s.fb.FrameUpdated) != 0 {
		<-s.fb.FrameUpdated
	}
}

var buttons = [8]struct {
	id  uint8
	key pixelgl.Button
}{
	{common.BitA, pixelgl.KeyS},
	{common.BitB, pixelgl.KeyA},
	{common.BitSelect, pixelgl.KeyLeftShift},
	{common.BitStart, pixelgl.KeyEnter},
	{common.BitUp, pixelgl.KeyUp},
	{common.BitDown, pixelgl.KeyDown},
	{common.BitLeft, pixelgl.KeyLeft},
	{common.BitRight, pixelgl.KeyRight},
}

func (s *Screen) updateControllers() {
	changed := false
	for _, b := range buttons {
		pressed := s.window.Pressed(b.key)
		s.nes.Poke(0, b.id, pressed)
		if pressed {
			changed = true
		}
	}

	if s.window.Pressed(pixelgl.KeyLeftControl) && s.window.JustPressed(pixelgl.KeyR) {
		s.nes.Request(console.ResetRequest)
		changed = true
	}

	if changed {
		s.window.UpdateInput()
	}
}

func (s *Screen) updateFpsTitle() {
	select {
	case <-s.fpsChannel:
		frames := s.fb.Frames - s.fpsLastFrame
		s.fpsLastFrame = s.fb.Frames
		s.window.SetTitle(fmt.Sprintf("nesgo | FPS: %d", frames))
	default:
	}
}

func (s *Screen) draw() {
	s.window.Clear(colornames.Whitesmoke)
	s.updateSprite()
	s.sprite.Draw(s.window, pixel.IM.
		Moved(s.window.Bounds().Center()).
		ScaledXY(s.window.Bounds().Center(), pixel.V(screenScale, screenScale)))
}

func (s *Screen) updateSprite() {
	if s.fb.FrameIndex == 1 {
		// PPU is drawing into buffer1, so the stable front buffer is 0.
		s.sprite = pixel.NewSprite(s.buffer0, pixel.R(0, 0, common.FrameWidth, common.FrameHeight))
	} else {
		s.sprite = pixel.NewSprite(s.buffer1, pixel.R(0, 0, common.FrameWidth, common.FrameHeight))
	}
}

func (s *Screen) setSprite() {
	s.buffer0 = &pixel.PictureData{
		Pix:    s.fb.Buffer0,
		Stride: common.FrameWidth,
		Rect:   pixel.R(0, 0, common.FrameWidth, common.FrameHeight),
	}
	s.buffer1 = &pixel.PictureData{
		Pix:    s.fb.Buffer1,
		Stride: common.FrameWidth,
		Rect:   pixel.R(0, 0, common.FrameWidth, common.FrameHeight),
	}
	s.updateSprite()
}
