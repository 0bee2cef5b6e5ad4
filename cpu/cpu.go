package cpu

import "nesgo/common"

// Addressing modes, spec.md §4.1.
const (
	ModeAbsolute = iota
	ModeAbsoluteX
	ModeAbsoluteY
	ModeAccumulator
	ModeImmediate
	ModeImplied
	ModeIndexedIndirect
	ModeIndirect
	ModeIndirectIndexed
	ModeRelative
	ModeZeroPage
	ModeZeroPageX
	ModeZeroPageY
)

// Interrupt kinds latched onto the CPU by its peers.
const (
	CpuIntNMI uint8 = 1 << iota
	CpuIntIRQ
)

// Instruction is one entry of the 256-slot opcode decode table. Eval is the
// handler; size/cycles/pageCycles are used by Step to advance PC and tally
// cycles before Eval runs (Eval only ever touches registers/memory/flags).
type Instruction struct {
	Name       string
	Mode       int
	Size       uint8
	Cycles     uint8
	PageCycles uint8
	Eval       func(c *Cpu)
}

// Cpu is the 6502 core. Peers (RAM/PPU/APU/mapper) are reached only through
// Bus, never via direct references, per spec.md §9.
type Cpu struct {
	Bus common.BusInt
	Rg  Registers

	ins [256]Instruction

	// per-instruction decode context
	opcode      uint8
	addr        uint16
	pageCrossed bool
	accMode     bool // Accumulator-mode instructions operate on Rg.Gp.Ac directly

	clock      uint64
	stall      int
	pending    uint8 // latched NMI bit, CpuIntNMI
	irqSources []common.IrqSource

	verbose bool
}

func (c *Cpu) Init(bus common.BusInt, verbose bool) {
	c.Bus = bus
	c.verbose = verbose
	setupIns(c)
	c.Reset()
}

func (c *Cpu) Reset() {
	c.Rg.Init()
	c.Rg.Spc.Pc.Set(c.Read16(0xFFFC))
	c.clock = 0
	c.stall = 0
	c.pending = 0
}

// AddIrqSource registers a level-triggered IRQ peer (the Apu, an MMC3
// mapper) polled by serviceInterrupts every instruction boundary.
func (c *Cpu) AddIrqSource(s common.IrqSource) {
	c.irqSources = append(c.irqSources, s)
}

func (c *Cpu) irqAsserted() bool {
	for _, s := range c.irqSources {
		if s.IRQ() {
			return true
		}
	}
	return false
}

func (c *Cpu) Cycles() uint64 { return c.clock }

// Read8/Write8 let peers (OAMDMA, test ROM loaders) address the CPU's bus
// through the Cpu itself, matching the teacher's nesInternal wiring where
// the DMA source device and the easy-code loader both go through
// n.cpu.Read8/Write8 rather than holding their own Bus reference.
func (c *Cpu) Read8(addr uint16) uint8      { return c.Bus.Read8(addr) }
func (c *Cpu) Write8(addr uint16, val uint8) { c.Bus.Write8(addr, val) }

func (c *Cpu) AddStall(cycles int) { c.stall += cycles }

// Raise latches kind into pending; NMI is edge-triggered by the caller (the
// PPU only calls Raise once per vblank edge) and serviceInterrupts services
// it from pending directly. IRQ is level-triggered from several independent
// peers (APU frame sequencer, DMC, MMC3), so rather than have one shared bit
// here that any one peer's Clear could cancel for the others,
// serviceInterrupts ignores pending's IRQ bit and instead polls each
// registered common.IrqSource's own line (see AddIrqSource/irqAsserted).
// Raise/Clear(CpuIntIRQ) still latch/clear the bit so callers can address
// the Cpu uniformly through IiInterrupt, but it is otherwise unused.
func (c *Cpu) Raise(kind uint8) { c.pending |= kind }

func (c *Cpu) Clear(kind uint8) { c.pending &^= kind }

// Read16/Write16 are little-endian helpers over the byte-wise Bus.
func (c *Cpu) Read16(addr uint16) uint16 {
	lo := uint16(c.Bus.Read8(addr))
	hi := uint16(c.Bus.Read8(addr + 1))
	return lo | hi<<8
}

func (c *Cpu) Write16(addr uint16, val uint16) {
	c.Bus.Write8(addr, uint8(val&0xFF))
	c.Bus.Write8(addr+1, uint8(val>>8))
}

// read16Bug reproduces the JMP-indirect page-wrap bug: if the low byte of
// addr is 0xFF, the high byte is read from the start of the same page
// instead of the next page.
func (c *Cpu) read16Bug(addr uint16) uint16 {
	lo := addr
	hi := (addr & 0xFF00) | uint16(uint8(addr)+1)
	return uint16(c.Bus.Read8(lo)) | uint16(c.Bus.Read8(hi))<<8
}

func pagesDiffer(a, b uint16) bool { return a&0xFF00 != b&0xFF00 }

// Step executes one instruction (or, if stalled, consumes one stall cycle)
// and returns the number of CPU cycles consumed; spec.md §4.1.
func (c *Cpu) Step() int {
	if c.stall > 0 {
		c.stall--
		c.clock++
		return 1
	}

	startClock := c.clock
	c.serviceInterrupts()

	c.opcode = c.Bus.Read8(c.Rg.Spc.Pc.Val)
	ins := &c.ins[c.opcode]

	c.decodeOperand(ins.Mode)
	c.Rg.Spc.Pc.Val += uint16(ins.Size)

	c.clock += uint64(ins.Cycles)
	if c.pageCrossed {
		c.clock += uint64(ins.PageCycles)
	}

	ins.Eval(c)

	consumed := int(c.clock - startClock)
	if consumed < 1 {
		consumed = 1
	}
	return consumed
}

func (c *Cpu) serviceInterrupts() {
	switch {
	case c.pending&CpuIntNMI != 0:
		c.pushInterrupt(0xFFFA)
		c.pending &^= CpuIntNMI
		c.clock += 7
	case c.irqAsserted() && !c.Rg.Spc.Ps.Get(I):
		c.pushInterrupt(0xFFFE)
		c.clock += 7
	}
}

func (c *Cpu) pushInterrupt(vector uint16) {
	c.push16(c.Rg.Spc.Pc.Val)
	// B is pushed clear on a hardware interrupt push; E always reads 1.
	flags := c.Rg.Spc.Ps.Read() &^ BB
	c.push8(flags)
	c.Rg.Spc.Ps.Set(I, true)
	c.Rg.Spc.Pc.Val = c.Read16(vector)
}

// decodeOperand resolves c.addr / c.pageCrossed / c.accMode for the given
// mode. Called before PC is advanced past the instruction.
func (c *Cpu) decodeOperand(mode int) {
	pc := c.Rg.Spc.Pc.Val
	c.pageCrossed = false
	c.accMode = false

	switch mode {
	case ModeAbsolute:
		c.addr = c.Read16(pc + 1)
	case ModeAbsoluteX:
		base := c.Read16(pc + 1)
		c.addr = base + uint16(c.Rg.Gp.Ix.X.Val)
		c.pageCrossed = pagesDiffer(base, c.addr)
	case ModeAbsoluteY:
		base := c.Read16(pc + 1)
		c.addr = base + uint16(c.Rg.Gp.Ix.Y.Val)
		c.pageCrossed = pagesDiffer(base, c.addr)
	case ModeAccumulator:
		c.accMode = true
	case ModeImmediate:
		c.addr = pc + 1
	case ModeImplied:
		// no operand
	case ModeIndexedIndirect:
		zp := uint8(c.Bus.Read8(pc+1)) + c.Rg.Gp.Ix.X.Val
		lo := uint16(c.Bus.Read8(uint16(zp)))
		hi := uint16(c.Bus.Read8(uint16(zp + 1)))
		c.addr = lo | hi<<8
	case ModeIndirect:
		ptr := c.Read16(pc + 1)
		c.addr = c.read16Bug(ptr)
	case ModeIndirectIndexed:
		zp := c.Bus.Read8(pc + 1)
		lo := uint16(c.Bus.Read8(uint16(zp)))
		hi := uint16(c.Bus.Read8(uint16(zp + 1)))
		base := lo | hi<<8
		c.addr = base + uint16(c.Rg.Gp.Ix.Y.Val)
		c.pageCrossed = pagesDiffer(base, c.addr)
	case ModeRelative:
		offset := uint16(c.Bus.Read8(pc + 1))
		if offset < 0x80 {
			c.addr = pc + 2 + offset
		} else {
			c.addr = pc + 2 + offset - 0x100
		}
	case ModeZeroPage:
		c.addr = uint16(c.Bus.Read8(pc + 1))
	case ModeZeroPageX:
		c.addr = uint16(uint8(c.Bus.Read8(pc+1)) + c.Rg.Gp.Ix.X.Val)
	case ModeZeroPageY:
		c.addr = uint16(uint8(c.Bus.Read8(pc+1)) + c.Rg.Gp.Ix.Y.Val)
	}
}

func (c *Cpu) operand() uint8 {
	if c.accMode {
		return c.Rg.Gp.Ac.Val
	}
	return c.Bus.Read8(c.addr)
}

func (c *Cpu) storeResult(v uint8) {
	if c.accMode {
		c.Rg.Gp.Ac.Val = v
		return
	}
	c.Bus.Write8(c.addr, v)
}

func (c *Cpu) push8(v uint8) {
	c.Bus.Write8(0x100+uint16(c.Rg.Spc.Sp.Val), v)
	c.Rg.Spc.Sp.Val--
}

func (c *Cpu) pull8() uint8 {
	c.Rg.Spc.Sp.Val++
	return c.Bus.Read8(0x100 + uint16(c.Rg.Spc.Sp.Val))
}

func (c *Cpu) push16(v uint16) {
	c.push8(uint8(v >> 8))
	c.push8(uint8(v & 0xFF))
}

func (c *Cpu) pull16() uint16 {
	lo := uint16(c.pull8())
	hi := uint16(c.pull8())
	return lo | hi<<8
}

func (c *Cpu) branch(taken bool) {
	if !taken {
		return
	}
	nextPc := c.Rg.Spc.Pc.Val
	c.clock++
	if pagesDiffer(nextPc, c.addr) {
		c.clock++
	}
	c.Rg.Spc.Pc.Val = c.addr
}
