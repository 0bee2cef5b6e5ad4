// Package waves implements the APU's five channel generators (Pulse x2,
// Triangle, Noise, DMC) and their shared timing primitives. Grounded on
// the teacher's nes/waves/common.go.
package waves

var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

// DurationCounterTable maps a 5-bit length-counter load value to its
// counter value, counted down once per half-frame clock (spec.md §3 refers
// to this simply as "length counter").
func DurationCounterTable(load uint8) uint8 { return lengthTable[load&0x1F] }

// DurationCounter is the length counter shared by all five channels.
type DurationCounter struct {
	halt    bool
	counter uint8
}

func (d *DurationCounter) SetHalt(halt bool) { d.halt = halt }

func (d *DurationCounter) Reload(load uint8) {
	d.counter = DurationCounterTable(load)
}

func (d *DurationCounter) Tick() {
	if !d.halt && d.counter > 0 {
		d.counter--
	}
}

func (d *DurationCounter) Mute() bool  { return d.counter == 0 }
func (d *DurationCounter) Clear()      { d.counter = 0 }
func (d *DurationCounter) Value() uint8 { return d.counter }

// Timer is a reload counter that fires (returns true from Tick) when it
// underflows, then reloads from period.
type Timer struct {
	Period uint16
	value  uint16
}

func (t *Timer) Tick() bool {
	if t.value == 0 {
		t.value = t.Period
		return true
	}
	t.value--
	return false
}

// Sequencer advances a duty-table index modulo length on each Timer fire.
type Sequencer struct {
	index  uint8
	length uint8
}

func (s *Sequencer) Init(length uint8) { s.length = length; s.index = 0 }
func (s *Sequencer) Advance()          { s.index = (s.index + 1) % s.length }
func (s *Sequencer) Index() uint8      { return s.index }

// Envelope implements the volume envelope generator shared by Pulse/Noise.
type Envelope struct {
	start      bool
	loop       bool
	constant   bool
	period     uint8
	divider    uint8
	decay      uint8
	ConstantVolume uint8
}

func (e *Envelope) Write(val uint8) {
	e.loop = val&0x20 != 0
	e.constant = val&0x10 != 0
	e.period = val & 0x0F
	e.ConstantVolume = val & 0x0F
}

func (e *Envelope) Restart() { e.start = true }

func (e *Envelope) Tick() {
	if e.start {
		e.start = false
		e.decay = 15
		e.divider = e.period
		return
	}
	if e.divider > 0 {
		e.divider--
		return
	}
	e.divider = e.period
	if e.decay > 0 {
		e.decay--
	} else if e.loop {
		e.decay = 15
	}
}

func (e *Envelope) Volume() uint8 {
	if e.constant {
		return e.ConstantVolume
	}
	return e.decay
}

// Sweep implements the pulse channel's period-sweep unit.
type Sweep struct {
	enabled    bool
	period     uint8
	negate     bool
	shift      uint8
	reload     bool
	divider    uint8
	channelTwo bool // pulse channel 2 rounds differently on negate
}

func (s *Sweep) Write(val uint8) {
	s.enabled = val&0x80 != 0
	s.period = (val >> 4) & 0x07
	s.negate = val&0x08 != 0
	s.shift = val & 0x07
	s.reload = true
}

func (s *Sweep) targetPeriod(cur uint16) uint16 {
	delta := cur >> s.shift
	if !s.negate {
		return cur + delta
	}
	if s.channelTwo {
		return cur - delta
	}
	return cur - delta - 1
}

func (s *Sweep) Mute(cur uint16) bool {
	t := s.targetPeriod(cur)
	return cur < 8 || t > 0x7FF
}

// Tick advances the sweep divider and returns the new period if a sweep
// should be applied this half-frame.
func (s *Sweep) Tick(cur uint16) uint16 {
	next := cur
	if s.divider == 0 && s.enabled && !s.Mute(cur) && s.shift > 0 {
		next = s.targetPeriod(cur)
	}
	if s.divider == 0 || s.reload {
		s.divider = s.period
		s.reload = false
	} else {
		s.divider--
	}
	return next
}

// LinearCounter is the Triangle channel's extra length gate.
type LinearCounter struct {
	reload  bool
	control bool
	period  uint8
	counter uint8
}

func (l *LinearCounter) Write(val uint8) {
	l.control = val&0x80 != 0
	l.period = val & 0x7F
}

func (l *LinearCounter) Start() { l.reload = true }

func (l *LinearCounter) Tick() {
	if l.reload {
		l.counter = l.period
	} else if l.counter > 0 {
		l.counter--
	}
	if !l.control {
		l.reload = false
	}
}

func (l *LinearCounter) Mute() bool   { return l.counter == 0 }
func (l *LinearCounter) Value() uint8 { return l.counter }
