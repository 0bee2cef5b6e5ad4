// Package speakers adapts the APU's sample stream onto a platform audio
// backend. Grounded on the teacher's lib/speakers package: same AudioLib
// enum/factory shape, but the CircularBuffer is replaced by the wait-free
// RingBuffer (see ringbuffer.go) and the Beep backend is dropped in favor
// of PortAudio and Oto, the two backends the retrieved example pack
// actually exercises independently (55utah-fc-simulator uses PortAudio,
// user-none-eblitui uses ebitengine/oto/v3).
package speakers

import "nesgo/common"

// AudioLib names a selectable audio backend.
type AudioLib string

const (
	Nil       AudioLib = "nil"
	PortAudio AudioLib = "portaudio"
	Oto       AudioLib = "oto"
)

// AudioSpeaker is the interface the Apu drives; the Oto and PortAudio
// backends share the RingBuffer-based handoff and differ only in how they
// drain it, while Nil discards every sample.
type AudioSpeaker interface {
	Init() error
	Reset()
	Stop()
	Play()
	Sample(float64) bool
	SampleRate() int
	BufferReady() bool
}

// NewSpeaker constructs the requested backend and initialises it. Backend
// init failures are wrapped as common.AudioInitFailure (spec.md §7) rather
// than panicking, so a caller can fall back to Nil instead of crashing.
func NewSpeaker(lib AudioLib) (AudioSpeaker, error) {
	var speaker AudioSpeaker
	switch lib {
	case Nil:
		speaker = new(SpeakerNil)
	case PortAudio:
		speaker = new(SpeakerPort)
	case Oto:
		speaker = new(SpeakerOto)
	default:
		panic("unknown speaker type: " + string(lib))
	}
	if err := speaker.Init(); err != nil {
		return nil, common.NewError(common.AudioInitFailure, err)
	}
	return speaker, nil
}
