package mappers

// MapperCNROM is mapper 3: fixed 32 KiB PRG-ROM, switchable 8 KiB CHR-ROM
// bank. Grounded on other_examples/hkhalsa-helloworld's hand-rolled
// Mapper3 (`WriteCPU` swaps `ppuPt0`/`ppuPt1` from `chrRom[val&3]`),
// generalized to the teacher's Cartridge/common.Rom plumbing.
type MapperCNROM struct {
	cart    *Cartridge
	chrBank uint32
}

func (m *MapperCNROM) Init()         { m.chrBank = 0 }
func (m *MapperCNROM) TickScanline() {}

func (m *MapperCNROM) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return m.cart.chr.Read8w(m.chrBank*0x2000 + uint32(addr))
	case addr >= 0x6000 && addr < 0x8000:
		return m.cart.prgRam.Read8(addr - 0x6000)
	case addr >= 0x8000:
		return m.cart.prgRom.Read8(uint16(int(addr-0x8000) % m.cart.prgRom.Size()))
	default:
		// $4018-$5FFF open bus, spec.md §6/§7.
		return 0
	}
}

func (m *MapperCNROM) Write8(addr uint16, val uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.cart.prgRam.Write8(addr-0x6000, val)
	case addr >= 0x8000:
		m.chrBank = uint32(val) & 0x03
	}
}
