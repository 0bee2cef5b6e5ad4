package mappers

// MapperUxROM is mapper 2: 16 KiB switchable PRG bank at $8000-$BFFF,
// fixed last 16 KiB bank at $C000-$FFFF, CHR is always RAM (8 KiB, no
// bank switching). Grounded on other_examples/hkhalsa-helloworld's
// hand-rolled Mapper2 (`WriteCPU` swaps `cpuPages[0]`), generalized to
// the teacher's Cartridge/common.Rom plumbing. The teacher's lib/mappers
// wires mapper ID 2 to MMC2 by mistake; spec.md §6.2 names mapper 2 as
// UxROM, so this is a new file rather than an adaptation of an existing
// teacher mapper_*.go.
type MapperUxROM struct {
	cart    *Cartridge
	prgBank uint32
}

func (m *MapperUxROM) Init()         { m.prgBank = 0 }
func (m *MapperUxROM) TickScanline() {}

func (m *MapperUxROM) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return m.cart.chr.Read8(addr)
	case addr >= 0x6000 && addr < 0x8000:
		return m.cart.prgRam.Read8(addr - 0x6000)
	case addr >= 0x8000 && addr < 0xC000:
		return m.cart.prgRom.Read8w(m.prgBank*0x4000 + uint32(addr-0x8000))
	case addr >= 0xC000:
		last := uint32(m.cart.prgRom.Size()) - 0x4000
		return m.cart.prgRom.Read8w(last + uint32(addr-0xC000))
	default:
		// $4018-$5FFF open bus, spec.md §6/§7.
		return 0
	}
}

func (m *MapperUxROM) Write8(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		m.cart.chr.Write8(addr, val)
	case addr >= 0x6000 && addr < 0x8000:
		m.cart.prgRam.Write8(addr-0x6000, val)
	case addr >= 0x8000:
		m.prgBank = uint32(val) & 0x0F
	}
}
