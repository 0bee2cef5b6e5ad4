// Package apu implements the NES Audio Processing Unit: five channels, the
// frame sequencer, and the non-linear mixer feeding a wait-free sample
// ring buffer. Grounded on the teacher's lib/apu/apu.go, generalized to
// spec.md §4.3's precomputed pulse/tnd mixer tables and cycle-crossing
// frame-sequencer/sample-emission formulas.
package apu

import (
	"github.com/arl/blip"

	"nesgo/apu/waves"
	"nesgo/common"
	"nesgo/cpu"
	"nesgo/speakers"
)

const cpuFrequency = 1789773 // NTSC, spec.md §9 pins NTSC-only

const sampleRate = 44100.0

// blipFlushCycles is how many CPU cycles accumulate between blip.Buffer
// flushes: roughly one video frame's worth, comfortably under blip's
// ~4000-samples-per-EndFrame ceiling at 44.1kHz/60fps (~735 samples).
const blipFlushCycles = cpuFrequency / 60

// blipMaxSamples bounds the Buffer's internal sample storage.
const blipMaxSamples = 4000

// Status register enable bits ($4015), spec.md §4.5.
const (
	bP1 = 1 << 0
	bP2 = 1 << 1
	bT  = 1 << 2
	bN  = 1 << 3
	bD  = 1 << 4
)

// pulseTable/tndTable are the precomputed non-linear mixer LUTs spec.md
// §4.3 requires in place of the teacher's simplified linear-gain mixer
// (lib/apu/apu.go's `NesApuVolumeGain * (pulse1+pulse2)` plus fixed
// per-channel coefficients). Formulas from the well-known NES APU mixer
// reference: 95.88/((8128/x)+100) for pulses, and for triangle/noise/dmc
// that reference's single-index approximation 163.67/((24329/n)+100) with
// n = 3*tri + 2*noise + dmc.
var pulseTable [31]float64
var tndTable [203]float64

func init() {
	for i := range pulseTable {
		if i == 0 {
			continue
		}
		pulseTable[i] = 95.88 / (8128.0/float64(i) + 100.0)
	}
	for i := range tndTable {
		if i == 0 {
			continue
		}
		tndTable[i] = 163.67 / (24329.0/float64(i) + 100.0)
	}
}

// Apu is the NES audio processing unit.
type Apu struct {
	Bus  common.BusInt
	Intr common.IiInterrupt

	pulse1   waves.Pulse
	pulse2   waves.Pulse
	triangle waves.Triangle
	noise    waves.Noise
	dmc      waves.Dmc

	cycle uint64

	frameSeqCycle float64
	frameStep     int
	frameMode     int // 0 = 4-step, 1 = 5-step
	frameIrqEn    bool
	frameIrqFlag  bool

	sampleCycle       float64
	sampleTargetCycle float64

	// mixBuf band-limits the non-linear-mixed sample stream before it
	// reaches the ring buffer, per spec.md §2.1's arl/blip wiring note:
	// the teacher's lib/apu/apu.go fed the mixer output straight into its
	// CircularBuffer at the naive per-target-cycle sampling rate, which
	// aliases high-frequency channel content. AddDelta/EndFrame/
	// ReadSamples usage grounded on arl-nestor/hw/apu/mixer.go, simplified
	// to mono (this mixer has no stereo panning model) and driven off a
	// single quantized amplitude rather than per-channel delta tracking.
	mixBuf         *blip.Buffer
	frameBaseCycle uint64
	prevMixQ       int16
	blipOut        [blipMaxSamples]int16

	speaker speakers.AudioSpeaker
}

func (a *Apu) Init(bus common.BusInt, cpuRef *cpu.Cpu, intr common.IiInterrupt, speaker speakers.AudioSpeaker) {
	a.Bus = bus
	a.Intr = intr
	a.speaker = speaker
	a.dmc.SetStaller(cpuRef)
	a.Reset()
}

func (a *Apu) Reset() {
	a.pulse1.Init(false)
	a.pulse2.Init(true)
	a.triangle.Init()
	a.noise.Init()
	a.dmc.Init(a.Bus, a.Intr)

	a.cycle = 0
	a.frameSeqCycle = 0
	a.sampleCycle = 0
	a.sampleTargetCycle = float64(cpuFrequency) / sampleRate
	a.frameStep = 0
	a.frameMode = 0
	a.frameIrqEn = true

	if a.mixBuf == nil {
		a.mixBuf = blip.NewBuffer(blipMaxSamples)
	}
	a.mixBuf.Clear()
	a.mixBuf.SetRates(cpuFrequency, sampleRate)
	a.frameBaseCycle = 0
	a.prevMixQ = 0
}

func (a *Apu) Play() { a.speaker.Play() }
func (a *Apu) Stop() { a.speaker.Stop() }

// BufferReady reports whether the speaker has accumulated enough samples
// to start playback without underrunning, matching the teacher's
// ApuBufferReady pre-fill gate in nesInternal's Run/runFree.
func (a *Apu) BufferReady() bool { return a.speaker.BufferReady() }

func (a *Apu) Ticks(n int) {
	for i := 0; i < n; i++ {
		a.tick()
	}
}

func (a *Apu) tick() {
	a.cycle++

	a.frameTick()

	if a.cycle%2 == 0 {
		a.pulse1.Tick()
		a.pulse2.Tick()
		a.noise.Tick()
		a.dmc.Tick()
	}
	a.triangle.Tick()

	a.sample()
}

func (a *Apu) sample() {
	a.sampleCycle++
	if a.sampleCycle < a.sampleTargetCycle {
		return
	}
	a.sampleCycle -= a.sampleTargetCycle

	p1 := a.pulse1.Sample()
	p2 := a.pulse2.Sample()
	tri := a.triangle.Sample()
	noise := a.noise.Sample()
	dmc := a.dmc.Sample()

	mix := pulseTable[int(p1+p2)] + tndTable[int(3*tri+2*noise+dmc)]
	quantized := int16(mix * 32767.0)
	if quantized != a.prevMixQ {
		a.mixBuf.AddDelta(a.cycle-a.frameBaseCycle, int32(quantized)-int32(a.prevMixQ))
		a.prevMixQ = quantized
	}

	if a.cycle-a.frameBaseCycle >= blipFlushCycles {
		a.flush()
	}
}

// flush ends the current blip time frame and drains every resampled
// sample it produced into the speaker's ring buffer.
func (a *Apu) flush() {
	a.mixBuf.EndFrame(int(a.cycle - a.frameBaseCycle))
	a.frameBaseCycle = a.cycle

	for a.mixBuf.SamplesAvailable() > 0 {
		n := a.mixBuf.ReadSamples(a.blipOut[:], len(a.blipOut), blip.Mono)
		if n == 0 {
			break
		}
		for i := 0; i < n; i++ {
			a.speaker.Sample(float64(a.blipOut[i]) / 32768.0)
		}
	}
}

// mode 0 (4-step):   - - - f    - l - l    e e e e
// mode 1 (5-step):   - - - - -    l - l - -    e e e e -
func (a *Apu) frameTick() {
	// sequencer_cycle = apu_cycle / (CPU_FREQ/240), per spec.md §4.3.
	a.frameSeqCycle++
	target := float64(cpuFrequency) / 240.0
	if a.frameSeqCycle < target {
		return
	}
	a.frameSeqCycle -= target

	if a.frameMode == 0 {
		switch a.frameStep {
		case 0, 2:
			a.quarterFrame()
		case 1:
			a.quarterFrame()
			a.halfFrame()
		case 3:
			a.quarterFrame()
			a.halfFrame()
			if a.frameIrqEn {
				a.frameIrqFlag = true
				a.Intr.Raise(cpu.CpuIntIRQ)
			}
		}
		a.frameStep = (a.frameStep + 1) % 4
	} else {
		switch a.frameStep {
		case 0, 2:
			a.quarterFrame()
			a.halfFrame()
		case 1, 3:
			a.quarterFrame()
		case 4:
			// nothing
		}
		a.frameStep = (a.frameStep + 1) % 5
	}
}

func (a *Apu) quarterFrame() {
	a.pulse1.QuarterFrameTick()
	a.pulse2.QuarterFrameTick()
	a.triangle.QuarterFrameTick()
	a.noise.QuarterFrameTick()
}

func (a *Apu) halfFrame() {
	a.pulse1.HalfFrameTick()
	a.pulse2.HalfFrameTick()
	a.triangle.HalfFrameTick()
	a.noise.HalfFrameTick()
}

func (a *Apu) Read8(addr uint16) uint8 {
	if addr != 0x4015 {
		return 0
	}
	var v uint8
	if a.pulse1.Enabled() {
		v |= bP1
	}
	if a.pulse2.Enabled() {
		v |= bP2
	}
	if a.triangle.Enabled() {
		v |= bT
	}
	if a.noise.Enabled() {
		v |= bN
	}
	if a.dmc.Enabled() {
		v |= bD
	}
	if a.frameIrqFlag {
		v |= 0x40
	}
	if a.dmc.IrqFlag() {
		v |= 0x80
	}
	a.frameIrqFlag = false
	return v
}

// IRQ reports whether the Apu's own IRQ line (frame sequencer or DMC) is
// currently asserted; polled by Cpu.serviceInterrupts via AddIrqSource so
// that reading $4015 only ever clears the Apu's own frameIrqFlag above and
// never an MMC3 counter IRQ latched independently on the shared bus.
func (a *Apu) IRQ() bool { return a.frameIrqFlag || a.dmc.IrqFlag() }

func (a *Apu) Write8(addr uint16, val uint8) {
	switch {
	case addr >= 0x4000 && addr <= 0x4003:
		a.pulse1.Write8(addr, val)
	case addr >= 0x4004 && addr <= 0x4007:
		a.pulse2.Write8(addr, val)
	case addr == 0x4008 || addr == 0x4009 || addr == 0x400A || addr == 0x400B:
		a.triangle.Write8(addr, val)
	case addr >= 0x400C && addr <= 0x400F:
		a.noise.Write8(addr, val)
	case addr >= 0x4010 && addr <= 0x4013:
		a.dmc.Write8(addr, val)
	case addr == 0x4015:
		a.pulse1.Enable(val&bP1 != 0)
		a.pulse2.Enable(val&bP2 != 0)
		a.triangle.Enable(val&bT != 0)
		a.noise.Enable(val&bN != 0)
		a.dmc.Enable(val&bD != 0)
		a.dmc.ClearIrq()
	case addr == 0x4017:
		a.frameMode = int((val >> 7) & 1)
		a.frameIrqEn = val&0x40 == 0
		a.frameStep = 0
		a.frameSeqCycle = 0
		if !a.frameIrqEn {
			a.frameIrqFlag = false
		}
		if a.frameMode == 1 {
			a.quarterFrame()
			a.halfFrame()
		}
	}
}
