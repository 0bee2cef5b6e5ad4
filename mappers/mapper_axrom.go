package mappers

import (
	"nesgo/common"
)

// MapperAxROM is mapper 7: 32 KiB switchable PRG bank at $8000-$FFFF, CHR
// is always RAM, and the single write register also selects which half
// of VRAM is used for single-screen mirroring (spec.md §6.2). Grounded on
// the same addressing shape as MapperUxROM/MapperCNROM; the single-screen
// mirroring write is grounded on MapperMMC1's writeControl, which is the
// only other teacher mapper to touch NameTableMirroring at runtime.
type MapperAxROM struct {
	cart    *Cartridge
	prgBank uint32
}

func (m *MapperAxROM) Init()         { m.prgBank = 0 }
func (m *MapperAxROM) TickScanline() {}

func (m *MapperAxROM) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return m.cart.chr.Read8(addr)
	case addr >= 0x8000:
		return m.cart.prgRom.Read8w(m.prgBank*0x8000 + uint32(addr-0x8000))
	default:
		// $2000-$7FFF open bus: AxROM boards have no PRG-RAM, spec.md §6/§7.
		return 0
	}
}

func (m *MapperAxROM) Write8(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		m.cart.chr.Write8(addr, val)
	case addr >= 0x8000:
		m.prgBank = uint32(val) & 0x07
		if val&0x10 != 0 {
			m.cart.SetMirroring(common.SingleScreen1Mirroring)
		} else {
			m.cart.SetMirroring(common.SingleScreen0Mirroring)
		}
	}
}
