package speakers

import (
	"fmt"

	"github.com/hajimehoshi/oto"
)

// SpeakerOto drives github.com/hajimehoshi/oto, following the teacher's
// lib/speakers/speaker_oto.go almost exactly, rebased onto RingBuffer.
type SpeakerOto struct {
	sampleRate  int
	speakerSize int
	buffer      *RingBuffer

	samples []float32
	buf     []byte
	context *oto.Context
	player  *oto.Player
}

func (s *SpeakerOto) Init() error {
	s.sampleRate = 44100
	s.speakerSize = s.sampleRate / 100
	s.buffer = NewRingBuffer(8192)

	numBytes := s.speakerSize * 4
	s.samples = make([]float32, s.speakerSize)
	s.buf = make([]byte, numBytes)

	ctx, err := oto.NewContext(s.sampleRate, 2, 2, numBytes)
	if err != nil {
		return fmt.Errorf("speakers: oto.NewContext: %w", err)
	}
	s.context = ctx
	return nil
}

func (s *SpeakerOto) Play() { s.player = s.context.NewPlayer() }
func (s *SpeakerOto) Reset() {}
func (s *SpeakerOto) Stop() {
	s.player.Close()
	s.context.Close()
	s.player = nil
}

func (s *SpeakerOto) BufferReady() bool {
	return s.buffer.Available() > int(float64(s.speakerSize)*1.5)
}

func (s *SpeakerOto) Sample(sample float64) bool {
	ok := s.buffer.Write(sample)
	if s.buffer.Available() >= s.speakerSize && s.player != nil {
		n := s.buffer.ReadInto(s.samples)
		go s.update(s.samples[:n])
	}
	return ok
}

func (s *SpeakerOto) update(samples []float32) {
	for i, val := range samples {
		if val < -1 {
			val = -1
		}
		if val > 1 {
			val = 1
		}
		v := int16(val * (1<<15 - 1))
		low := byte(v)
		high := byte(v >> 8)
		s.buf[i*4+0] = low
		s.buf[i*4+1] = high
		s.buf[i*4+2] = low
		s.buf[i*4+3] = high
	}
	s.player.Write(s.buf[:len(samples)*4])
}

func (s *SpeakerOto) SampleRate() int { return s.sampleRate }
