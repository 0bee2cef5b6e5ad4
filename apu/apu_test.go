package apu

import (
	"testing"

	"nesgo/cpu"
	"nesgo/speakers"
)

// flatBus is a 64KB flat-memory stand-in, enough to drive the Dmc
// channel's sample fetches without a full console.Console.
type flatBus struct {
	mem [0x10000]uint8
}

func (b *flatBus) Read8(addr uint16) uint8       { return b.mem[addr] }
func (b *flatBus) Write8(addr uint16, val uint8) { b.mem[addr] = val }

type recordingIntr struct {
	raised uint8
}

func (r *recordingIntr) Raise(kind uint8) { r.raised |= kind }
func (r *recordingIntr) Clear(kind uint8) { r.raised &^= kind }

func newTestApu() (*Apu, *recordingIntr) {
	bus := &flatBus{}
	c := &cpu.Cpu{}
	c.Init(bus, false)
	intr := &recordingIntr{}
	speaker, err := speakers.NewSpeaker(speakers.Nil)
	if err != nil {
		panic(err) // Nil backend never fails to init
	}
	a := &Apu{}
	a.Init(bus, c, intr, speaker)
	return a, intr
}

func TestApuStatusReadReflectsLengthCounterActiveChannels(t *testing.T) {
	a, _ := newTestApu()

	a.Write8(0x4015, bP1|bN) // enable pulse1 and noise
	a.Write8(0x4003, 8<<3)   // pulse1 length-counter reload (also triggers envelope restart)
	a.Write8(0x400F, 8<<3)   // noise length-counter reload

	status := a.Read8(0x4015)
	if status&bP1 == 0 {
		t.Fatalf("status bit for pulse1 not set after enabling with a nonzero length counter")
	}
	if status&bN == 0 {
		t.Fatalf("status bit for noise not set after enabling with a nonzero length counter")
	}
	if status&bP2 != 0 {
		t.Fatalf("status bit for pulse2 set, but it was never enabled")
	}
}

func TestApuStatusReadClearsFrameIrqFlag(t *testing.T) {
	a, _ := newTestApu()
	a.frameIrqFlag = true

	status := a.Read8(0x4015)
	if status&0x40 == 0 {
		t.Fatalf("status bit 6 not reported despite frameIrqFlag set")
	}
	if a.frameIrqFlag {
		t.Fatalf("frameIrqFlag still set after a $4015 read")
	}
	if a.IRQ() {
		t.Fatalf("Apu still reports an asserted IRQ line after its only pending source was cleared")
	}
}

// TestApuStatusReadDoesNotClearDmcIrq guards against $4015 collapsing the
// frame sequencer's and the DMC's independent IRQ lines onto one bit: a read
// clears only frameIrqFlag, so a DMC IRQ raised earlier must still be
// visible afterwards (and still observable via bit 7, spec.md §4.5).
func TestApuStatusReadDoesNotClearDmcIrq(t *testing.T) {
	a, _ := newTestApu()
	a.frameIrqFlag = true
	a.dmc.Write8(0x4010, 0x80) // irqEnabled=true, loop=false
	a.dmc.Write8(0x4012, 0x00)
	a.dmc.Write8(0x4013, 0x00) // sampleLen = 1 byte
	a.dmc.Enable(true)
	for !a.dmc.IrqFlag() {
		a.dmc.Tick()
	}

	status := a.Read8(0x4015)
	if status&0x80 == 0 {
		t.Fatalf("status bit 7 not reported despite dmc IRQ flag set")
	}
	if !a.dmc.IrqFlag() {
		t.Fatalf("dmc IRQ flag cleared by an unrelated $4015 read")
	}
	if !a.IRQ() {
		t.Fatalf("Apu should still report an asserted IRQ line from the untouched DMC flag")
	}
}

func TestApuFourStepModeRaisesFrameIrqOnFourthStep(t *testing.T) {
	a, intr := newTestApu()
	a.Write8(0x4017, 0x00) // 4-step mode, frame IRQ enabled

	const cyclesPerStep = cpuFrequency / 240
	for step := 0; step < 4; step++ {
		for i := 0; i < cyclesPerStep+1; i++ {
			a.tick()
		}
	}

	if intr.raised&cpu.CpuIntIRQ == 0 {
		t.Fatalf("frame IRQ not raised after completing a 4-step sequence")
	}
}

func TestApuFrameIrqInhibitedWhenDisabled(t *testing.T) {
	a, intr := newTestApu()
	a.Write8(0x4017, 0x40) // 4-step mode, frame IRQ disabled (bit 6 set)

	const cyclesPerStep = cpuFrequency / 240
	for step := 0; step < 4; step++ {
		for i := 0; i < cyclesPerStep+1; i++ {
			a.tick()
		}
	}

	if intr.raised&cpu.CpuIntIRQ != 0 {
		t.Fatalf("frame IRQ raised despite being disabled via $4017 bit 6")
	}
}

func TestApuFiveStepModeClocksHalfFrameImmediately(t *testing.T) {
	a, _ := newTestApu()
	a.Write8(0x4003, 3<<3) // length-counter reload -> lengthTable[3] == 2

	if !a.pulse1.Enabled() {
		t.Fatalf("pulse1 length counter not loaded before the mode switch")
	}

	a.Write8(0x4017, 0x80) // 5-step mode: half/quarter frame clocked immediately, counter 2->1
	a.halfFrame()          // one more half-frame clock, counter 1->0

	if a.pulse1.Enabled() {
		t.Fatalf("pulse1 length counter did not reach 0 after two half-frame clocks")
	}
}

func TestApuMixerFlushesBlipBufferAfterOneFlushSpan(t *testing.T) {
	a, _ := newTestApu()
	a.Write8(0x4015, bP1)
	a.Write8(0x4000, 0x3F|0x10) // constant volume, max
	a.Write8(0x4002, 0x00)
	a.Write8(0x4003, 8<<3)

	for i := 0; i < blipFlushCycles+1; i++ {
		a.tick()
	}

	if a.cycle == 0 {
		t.Fatalf("apu cycle counter did not advance")
	}
	if a.frameBaseCycle == 0 {
		t.Fatalf("blip buffer was never flushed after %d cycles", blipFlushCycles+1)
	}
}
