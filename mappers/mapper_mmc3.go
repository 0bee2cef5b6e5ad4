package mappers

import (
	"nesgo/common"
	"nesgo/cpu"
)

// MapperMMC3 is mapper 4: eight bank-select registers feeding independent
// CHR (2x2KiB + 4x1KiB) and PRG (two swappable + two fixed 8KiB) windows,
// plus a scanline IRQ counter. Adapted from lib/mappers/mapper_MMC3.go,
// which implemented the bank-switching registers but left the IRQ counter
// entirely unimplemented (Tick() was an empty stub and no counter/irqFlag
// fields existed). spec.md §4.4/§9 pins the IRQ counter to a simpler
// PPU-cycle-280 proxy than real hardware's A12-toggle detection (which the
// teacher's Ppu never wired up either), so TickScanline implements that
// proxy directly rather than reconstructing A12 edge detection.
type MapperMMC3 struct {
	cart *Cartridge

	bankSelect    uint8
	prgRamProtect uint8
	registers     [8]uint8

	irqLatch   uint8
	irqCounter uint8
	irqReload  bool
	irqEnabled bool
	irqFlag    bool

	intr common.IiInterrupt

	prgBanks [4]uint32
	chrBanks [8]uint32
}

// SetInterrupts wires the IRQ sink; called by console wiring once the Cpu
// (which implements common.IiInterrupt via its Raise/Clear) exists.
func (m *MapperMMC3) SetInterrupts(intr common.IiInterrupt) { m.intr = intr }

// IRQ reports whether the scanline counter's IRQ line is currently
// asserted; polled by Cpu.serviceInterrupts via AddIrqSource, independent
// of the Apu's own frame/DMC IRQ line.
func (m *MapperMMC3) IRQ() bool { return m.irqFlag }

func (m *MapperMMC3) Init() {
	m.updateAllBanks()
}

// TickScanline implements the IRQ counter: decrement (or reload) once per
// visible/pre-render scanline, and raise an IRQ on the 0->line transition
// unless disabled, per spec.md's cycle-280 proxy.
func (m *MapperMMC3) TickScanline() {
	if m.irqCounter == 0 || m.irqReload {
		m.irqCounter = m.irqLatch
		m.irqReload = false
	} else {
		m.irqCounter--
	}
	if m.irqCounter == 0 && m.irqEnabled {
		m.irqFlag = true
		if m.intr != nil {
			m.intr.Raise(cpu.CpuIntIRQ)
		}
	}
}

func (m *MapperMMC3) writeInner(addr uint16, val uint8) {
	even := addr&1 == 0
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF && even:
		m.bankSelect = val
	case addr >= 0x8000 && addr <= 0x9FFF && !even:
		m.registers[m.bankSelect&7] = val
	case addr >= 0xA000 && addr <= 0xBFFF && even:
		if val&1 == 0 {
			m.cart.SetMirroring(common.VerticalMirroring)
		} else {
			m.cart.SetMirroring(common.HorizontalMirroring)
		}
	case addr >= 0xA000 && addr <= 0xBFFF && !even:
		m.prgRamProtect = val
	case addr >= 0xC000 && addr <= 0xDFFF && even:
		m.irqLatch = val
	case addr >= 0xC000 && addr <= 0xDFFF && !even:
		m.irqReload = true
	case addr >= 0xE000 && even:
		m.irqEnabled = false
		m.irqFlag = false
		if m.intr != nil {
			m.intr.Clear(cpu.CpuIntIRQ)
		}
	case addr >= 0xE000 && !even:
		m.irqEnabled = true
	}
	m.updateAllBanks()
}

func (m *MapperMMC3) bank(r int) uint32 { return uint32(m.registers[r]) }

func (m *MapperMMC3) updateAllBanks() {
	chrInversion := m.bankSelect&0x80 != 0
	if !chrInversion {
		m.chrBanks[0] = (m.bank(0) &^ 1) * 0x400
		m.chrBanks[1] = m.chrBanks[0] + 0x400
		m.chrBanks[2] = (m.bank(1) &^ 1) * 0x400
		m.chrBanks[3] = m.chrBanks[2] + 0x400
		m.chrBanks[4] = m.bank(2) * 0x400
		m.chrBanks[5] = m.bank(3) * 0x400
		m.chrBanks[6] = m.bank(4) * 0x400
		m.chrBanks[7] = m.bank(5) * 0x400
	} else {
		m.chrBanks[4] = (m.bank(0) &^ 1) * 0x400
		m.chrBanks[5] = m.chrBanks[4] + 0x400
		m.chrBanks[6] = (m.bank(1) &^ 1) * 0x400
		m.chrBanks[7] = m.chrBanks[6] + 0x400
		m.chrBanks[0] = m.bank(2) * 0x400
		m.chrBanks[1] = m.bank(3) * 0x400
		m.chrBanks[2] = m.bank(4) * 0x400
		m.chrBanks[3] = m.bank(5) * 0x400
	}

	prgInversion := m.bankSelect&0x40 != 0
	lastBank := uint32(m.cart.prgRom.Size()) - 0x2000
	secondLast := lastBank - 0x2000
	if !prgInversion {
		m.prgBanks[0] = m.bank(6) * 0x2000
		m.prgBanks[1] = m.bank(7) * 0x2000
		m.prgBanks[2] = secondLast
		m.prgBanks[3] = lastBank
	} else {
		m.prgBanks[0] = secondLast
		m.prgBanks[1] = m.bank(7) * 0x2000
		m.prgBanks[2] = m.bank(6) * 0x2000
		m.prgBanks[3] = lastBank
	}
}

func (m *MapperMMC3) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		bank := addr / 0x400
		off := uint32(addr) % 0x400
		return m.cart.chr.Read8w(m.chrBanks[bank] + off)
	case addr >= 0x6000 && addr < 0x8000:
		return m.cart.prgRam.Read8(addr - 0x6000)
	case addr >= 0x8000:
		bank := (addr - 0x8000) / 0x2000
		off := uint32(addr-0x8000) % 0x2000
		return m.cart.prgRom.Read8w(m.prgBanks[bank] + off)
	default:
		// $4018-$5FFF open bus, spec.md §6/§7.
		return 0
	}
}

func (m *MapperMMC3) Write8(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		bank := addr / 0x400
		off := uint32(addr) % 0x400
		m.cart.chr.Write8w(m.chrBanks[bank]+off, val)
	case addr >= 0x6000 && addr < 0x8000:
		m.cart.prgRam.Write8(addr-0x6000, val)
	case addr >= 0x8000:
		m.writeInner(addr, val)
	default:
		// $4018-$5FFF open bus, spec.md §6/§7.
	}
}
