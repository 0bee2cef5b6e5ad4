package speakers

// SpeakerNil discards samples; used for headless/test runs where no audio
// backend is available, matching the teacher's Nil speaker entry.
type SpeakerNil struct{}

func (s *SpeakerNil) Init() error                { return nil }
func (s *SpeakerNil) Reset()                     {}
func (s *SpeakerNil) Play()                      {}
func (s *SpeakerNil) Stop()                      {}
func (s *SpeakerNil) Sample(sample float64) bool { return true }
func (s *SpeakerNil) SampleRate() int             { return 44100 }
func (s *SpeakerNil) BufferReady() bool           { return true }
