package common

import "image/color"

// Framebuffer holds the two 256x240 RGBA buffers the PPU swaps between at
// v_blank (spec.md §3, §4.2). Adapted from nes/common/common.go.
type Framebuffer struct {
	Buffer0 []color.RGBA
	Buffer1 []color.RGBA

	// FrameIndex: 0 means Buffer0 is the back (render target) buffer and
	// Buffer1 is front (displayed); 1 is the reverse.
	FrameIndex   int
	FrameUpdated chan bool

	Frames int
}

const (
	FrameWidth  = 256
	FrameHeight = 240
)

func (f *Framebuffer) Init() {
	f.Buffer0 = make([]color.RGBA, FrameWidth*FrameHeight)
	f.Buffer1 = make([]color.RGBA, FrameWidth*FrameHeight)
	f.FrameIndex = 0
	f.FrameUpdated = make(chan bool, 1)
}

func (f *Framebuffer) Back() []color.RGBA {
	if f.FrameIndex == 0 {
		return f.Buffer0
	}
	return f.Buffer1
}

func (f *Framebuffer) Front() []color.RGBA {
	if f.FrameIndex == 0 {
		return f.Buffer1
	}
	return f.Buffer0
}

func (f *Framebuffer) Set(x, y int, c color.RGBA) {
	f.Back()[y*FrameWidth+x] = c
}

// Swap flips front/back at v_blank and notifies a (non-blocking) listener.
func (f *Framebuffer) Swap() {
	f.FrameIndex ^= 1
	f.Frames++
	select {
	case f.FrameUpdated <- true:
	default:
	}
}
