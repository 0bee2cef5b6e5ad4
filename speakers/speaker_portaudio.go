package speakers

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// SpeakerPort drives github.com/gordonklaus/portaudio, following the
// callback-driven pull model from 55utah-fc-simulator's ui/audio.go,
// rebased onto RingBuffer instead of a channel so the APU producer never
// blocks on a full channel send.
type SpeakerPort struct {
	stream         *portaudio.Stream
	sampleRate     float64
	outputChannels int
	buffer         *RingBuffer
}

func (s *SpeakerPort) Init() error {
	s.buffer = NewRingBuffer(8192)

	api, err := portaudio.DefaultHostApi()
	if err != nil {
		return fmt.Errorf("speakers: portaudio.DefaultHostApi: %w", err)
	}
	parameters := portaudio.HighLatencyParameters(nil, api.DefaultOutputDevice)
	stream, err := portaudio.OpenStream(parameters, s.callback)
	if err != nil {
		return fmt.Errorf("speakers: portaudio.OpenStream: %w", err)
	}
	s.stream = stream
	s.sampleRate = parameters.SampleRate
	s.outputChannels = parameters.Output.Channels
	return nil
}

func (s *SpeakerPort) callback(out []float32) {
	var sample float32
	for i := range out {
		if i%s.outputChannels == 0 {
			buf := make([]float32, 1)
			if s.buffer.ReadInto(buf) == 0 {
				sample = 0
			} else {
				sample = buf[0]
			}
		}
		out[i] = sample
	}
}

func (s *SpeakerPort) Play() {
	if err := s.stream.Start(); err != nil {
		panic(err)
	}
}

func (s *SpeakerPort) Stop() { s.stream.Close() }
func (s *SpeakerPort) Reset() {}

func (s *SpeakerPort) Sample(sample float64) bool { return s.buffer.Write(sample) }

func (s *SpeakerPort) BufferReady() bool { return s.buffer.Available() > 2048 }

func (s *SpeakerPort) SampleRate() int { return int(s.sampleRate) }
