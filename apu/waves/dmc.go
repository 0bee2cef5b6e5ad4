package waves

import (
	"nesgo/common"
	"nesgo/cpu"
)

var dmcRateTable = [16]uint16{
	428, 380, 340, 320, 286, 254, 226, 214, 190, 160, 142, 128, 106, 84, 72, 54,
}

// dmcStaller is the subset of cpu.Cpu the DMC channel needs to add the
// 4-cycle CPU stall spec.md §4.3 requires on every sample-byte fetch.
type dmcStaller interface {
	AddStall(cycles int)
}

// Dmc is the delta-modulation sample-playback channel (spec.md §3/§4.3).
// Fixed relative to the teacher's nes/waves/dmc.go: Sample() had dead code
// that always returned outputLevel before an unreachable gating check, and
// Tick() never stalled the CPU on fetch (left as a "todo" comment) — both
// are implemented properly here.
type Dmc struct {
	bus  common.BusInt
	cpu  dmcStaller
	intr common.IiInterrupt

	irqEnabled bool
	loop       bool
	timer      Timer

	sampleAddr uint16
	sampleLen  uint16
	curAddr    uint16
	curLen     uint16

	shiftReg    uint8
	bitCount    uint8
	silence     bool
	outputLevel uint8

	irqFlag bool
}

func (d *Dmc) Init(bus common.BusInt, intr common.IiInterrupt) {
	d.bus = bus
	d.intr = intr
	d.timer.Period = dmcRateTable[0]
	d.bitCount = 0
	d.silence = true
}

func (d *Dmc) Enable(en bool) {
	if !en {
		d.curLen = 0
		return
	}
	if d.curLen == 0 {
		d.restart()
	}
}
func (d *Dmc) Enabled() bool { return d.curLen > 0 }

func (d *Dmc) restart() {
	d.curAddr = d.sampleAddr
	d.curLen = d.sampleLen
}

func (d *Dmc) Write8(addr uint16, val uint8) {
	switch addr {
	case 0x4010:
		d.irqEnabled = val&0x80 != 0
		d.loop = val&0x40 != 0
		d.timer.Period = dmcRateTable[val&0x0F]
		if !d.irqEnabled {
			d.irqFlag = false
		}
	case 0x4011:
		d.outputLevel = val & 0x7F
	case 0x4012:
		d.sampleAddr = 0xC000 + uint16(val)*64
	case 0x4013:
		d.sampleLen = uint16(val)*16 + 1
	}
}

// Tick is called every other CPU cycle, same cadence as Pulse/Noise.
func (d *Dmc) Tick() {
	if !d.timer.Tick() {
		return
	}
	d.stepShifter()
}

func (d *Dmc) stepShifter() {
	if !d.silence {
		if d.shiftReg&1 != 0 {
			if d.outputLevel <= 125 {
				d.outputLevel += 2
			}
		} else if d.outputLevel >= 2 {
			d.outputLevel -= 2
		}
	}
	d.shiftReg >>= 1
	if d.bitCount > 0 {
		d.bitCount--
	}
	if d.bitCount == 0 {
		d.fillShiftRegister()
	}
}

func (d *Dmc) fillShiftRegister() {
	if d.curLen == 0 {
		d.silence = true
		d.bitCount = 8
		return
	}
	d.silence = false
	d.shiftReg = d.bus.Read8(d.curAddr)
	d.cpu.AddStall(4)
	d.curAddr = 0x8000 | ((d.curAddr + 1) & 0x7FFF)
	d.curLen--
	d.bitCount = 8
	if d.curLen == 0 {
		if d.loop {
			d.restart()
		} else if d.irqEnabled {
			d.irqFlag = true
			if d.intr != nil {
				d.intr.Raise(cpu.CpuIntIRQ)
			}
		}
	}
}

// SetStaller wires the CPU stall sink; separated from Init because the Apu
// constructs channels before the Cpu reference is available.
func (d *Dmc) SetStaller(cpu dmcStaller) { d.cpu = cpu }

func (d *Dmc) IrqFlag() bool { return d.irqFlag }
func (d *Dmc) ClearIrq()     { d.irqFlag = false }

func (d *Dmc) Sample() float64 { return float64(d.outputLevel) }
