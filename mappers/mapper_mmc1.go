package mappers

import (
	"nesgo/common"
)

// MapperMMC1 is mapper 1: a 5-bit serial shift register feeding four
// internal registers (control, CHR bank 0/1, PRG bank), spec.md §6.2.
// Adapted from lib/mappers/mapper_MMC1.go. Fixed relative to the teacher:
// writeControl mapped both one-screen modes to the same
// common.SingleScreenMirroring constant (an unimplemented/aliased mode in
// the teacher's NameTables); here mirror values 0/1 map to the distinct
// SingleScreen0Mirroring/SingleScreen1Mirroring constants.
type MapperMMC1 struct {
	cart *Cartridge

	shift   uint8
	counter uint8

	control  uint8
	chrBank0 uint8
	chrBank1 uint8
	prgBank  uint8

	mirror      uint8
	prgBankMode uint8
	chrBankMode uint8

	prgBanks [2]uint32
	chrBanks [2]uint32
}

func (m *MapperMMC1) TickScanline() {}

func (m *MapperMMC1) Init() {
	m.writeInner(0x8000, 0x1F)
}

// writeLoad shifts one bit per write, committing to the register named by
// the write address once the 5th bit arrives.
func (m *MapperMMC1) writeLoad(addr uint16, val uint8) {
	if val&0x80 != 0 {
		m.shift = 0
		m.counter = 0
		m.control |= 0x0C
		m.writeControl(m.control)
		return
	}
	m.shift |= (val & 1) << m.counter
	m.counter++
	if m.counter == 5 {
		m.writeInner(addr, m.shift)
		m.shift = 0
		m.counter = 0
	}
}

func (m *MapperMMC1) writeInner(addr uint16, val uint8) {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		m.writeControl(val)
	case addr >= 0xA000 && addr <= 0xBFFF:
		m.writeCHRBank0(val)
	case addr >= 0xC000 && addr <= 0xDFFF:
		m.writeCHRBank1(val)
	case addr >= 0xE000:
		m.writePRGBank(val)
	}
	m.updateAllBanks()
}

func (m *MapperMMC1) writeControl(val uint8) {
	m.control = val
	m.mirror = val & 0x3
	switch m.mirror {
	case 0:
		m.cart.SetMirroring(common.SingleScreen0Mirroring)
	case 1:
		m.cart.SetMirroring(common.SingleScreen1Mirroring)
	case 2:
		m.cart.SetMirroring(common.VerticalMirroring)
	case 3:
		m.cart.SetMirroring(common.HorizontalMirroring)
	}
	m.prgBankMode = (val >> 2) & 0x3
	m.chrBankMode = val >> 4
}

func (m *MapperMMC1) updateAllBanks() {
	m.updateCHRBank0()
	m.updateCHRBank1()
	m.updatePRGBank()
}

func (m *MapperMMC1) writeCHRBank0(val uint8) { m.chrBank0 = val & 0x1F }
func (m *MapperMMC1) updateCHRBank0() {
	switch m.chrBankMode {
	case 0:
		bank := (uint32(m.chrBank0) >> 1) * 0x2000
		m.chrBanks[0] = bank
		m.chrBanks[1] = bank + 0x1000
	case 1:
		m.chrBanks[0] = uint32(m.chrBank0) * 0x1000
	}
}

func (m *MapperMMC1) writeCHRBank1(val uint8) { m.chrBank1 = val & 0x1F }
func (m *MapperMMC1) updateCHRBank1() {
	if m.chrBankMode == 1 {
		m.chrBanks[1] = uint32(m.chrBank1) * 0x1000
	}
}

func (m *MapperMMC1) writePRGBank(val uint8) { m.prgBank = val & 0x1F }
func (m *MapperMMC1) updatePRGBank() {
	switch m.prgBankMode {
	case 0, 1:
		bank := 0x8000 * (uint32(m.prgBank) >> 1)
		m.prgBanks[0] = bank
		m.prgBanks[1] = bank + 0x4000
	case 2:
		m.prgBanks[0] = 0
		m.prgBanks[1] = 0x4000 * uint32(m.prgBank)
	case 3:
		m.prgBanks[0] = 0x4000 * uint32(m.prgBank)
		m.prgBanks[1] = uint32(m.cart.prgRom.Size()) - 0x4000
	}
}

func (m *MapperMMC1) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x1000:
		return m.cart.chr.Read8w(uint32(addr) + m.chrBanks[0])
	case addr < 0x2000:
		return m.cart.chr.Read8w(uint32(addr-0x1000) + m.chrBanks[1])
	case addr >= 0x6000 && addr < 0x8000:
		return m.cart.prgRam.Read8(addr - 0x6000)
	case addr >= 0x8000 && addr < 0xC000:
		return m.cart.prgRom.Read8w(m.prgBanks[0] + uint32(addr-0x8000))
	case addr >= 0xC000:
		return m.cart.prgRom.Read8w(m.prgBanks[1] + uint32(addr-0xC000))
	default:
		// $4018-$5FFF open bus, spec.md §6/§7.
		return 0
	}
}

func (m *MapperMMC1) Write8(addr uint16, val uint8) {
	switch {
	case addr < 0x1000:
		m.cart.chr.Write8w(uint32(addr)+m.chrBanks[0], val)
	case addr < 0x2000:
		m.cart.chr.Write8w(uint32(addr-0x1000)+m.chrBanks[1], val)
	case addr >= 0x6000 && addr < 0x8000:
		m.cart.prgRam.Write8(addr-0x6000, val)
	case addr >= 0x8000:
		m.writeLoad(addr, val)
	default:
		// $4018-$5FFF open bus, spec.md §6/§7.
	}
}
