package common

// OamTarget is implemented by the PPU: OAMDMA writes land directly in OAM
// starting at the current OAMADDR, wrapping after 256 bytes.
type OamTarget interface {
	WriteOam(val uint8)
}

// Staller is implemented by the CPU: OAMDMA stalls it for 513 cycles, or
// 514 if the write lands on an odd CPU cycle (spec.md §4.2, §8 scenario 5).
type Staller interface {
	AddStall(cycles int)
	Cycles() uint64
}

// Dma implements the $4014 OAMDMA register. Unlike the teacher's
// lib/common/dma.go (which models OAMDMA as a clock-stealing ticked state
// machine), spec.md §4.2/§8 pin a simpler CPU-stall-counter model: the
// transfer completes instantaneously from the emulator's point of view and
// the CPU simply loses 513/514 cycles. Ticks() is kept as a no-op
// so Dma still satisfies the same "ticked alongside cpu/ppu/apu" shape the
// console driver uses for every other device.
type Dma struct {
	source BusInt
	target OamTarget
	cpu    Staller
}

func (d *Dma) Init(source BusInt, target OamTarget, cpu Staller) {
	d.source = source
	d.target = target
	d.cpu = cpu
}

func (d *Dma) Reset() {}

// Active always reports false: the stall-counter model means Cpu.Step
// itself accounts for the lost cycles, so the driver never needs to gate
// CPU stepping on DMA being "in progress" the way the teacher's
// clock-stealing model required.
func (d *Dma) Active() bool { return false }

func (d *Dma) Ticks(nTicks int) {}

func (d *Dma) Write8(addr uint16, val uint8) {
	page := uint16(val) << 8
	for i := 0; i < 256; i++ {
		d.target.WriteOam(d.source.Read8(page + uint16(i)))
	}
	stall := 513
	if d.cpu.Cycles()%2 != 0 {
		stall = 514
	}
	d.cpu.AddStall(stall)
}

func (d *Dma) Read8(addr uint16) uint8 { return 0 }
