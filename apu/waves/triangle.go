package waves

var triangleDutyTable = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// Triangle is the triangle-wave channel (spec.md §3/§4.3).
type Triangle struct {
	enabled   bool
	sequencer Sequencer
	duration  DurationCounter
	linearCnt LinearCounter
	timer     Timer
}

func (t *Triangle) Init() {
	*t = Triangle{}
	t.sequencer.Init(32)
}

func (t *Triangle) Enable(en bool) {
	t.enabled = en
	if !en {
		t.duration.Clear()
	}
}
func (t *Triangle) Enabled() bool { return t.duration.Value() > 0 }

// Tick is called every CPU cycle (unlike the other channels): only advance
// the sequencer when both gates (length, linear counter) are open.
func (t *Triangle) Tick() {
	if t.duration.Mute() || t.linearCnt.Mute() {
		return
	}
	if t.timer.Tick() {
		t.sequencer.Advance()
	}
}

func (t *Triangle) QuarterFrameTick() { t.linearCnt.Tick() }
func (t *Triangle) HalfFrameTick()    { t.duration.Tick() }

func (t *Triangle) Write8(addr uint16, val uint8) {
	switch addr {
	case 0x4008:
		t.duration.SetHalt(val&0x80 != 0)
		t.linearCnt.Write(val)
	case 0x4009:
		// Unused; spec.md §9 Open Questions: preserve as a documented no-op.
	case 0x400A:
		t.timer.Period = (t.timer.Period & 0x0700) | uint16(val)
	case 0x400B:
		t.timer.Period = (t.timer.Period & 0x00FF) | (uint16(val&0x07) << 8)
		t.duration.Reload(val >> 3)
		t.linearCnt.Start()
	}
}

func (t *Triangle) Sample() float64 {
	if !t.enabled || t.duration.Mute() || t.linearCnt.Mute() {
		return 0
	}
	return float64(triangleDutyTable[t.sequencer.Index()])
}
