package mappers

// MapperNROM is mapper 0: no bank switching, PRG-ROM mirrored if only
// 16 KiB is present. Ported from lib/mappers' NROM (originally
// nes/mappers/mapper_NROM.go, the lib/ tree never got a copy).
type MapperNROM struct {
	cart *Cartridge
}

func (m *MapperNROM) Init()         {}
func (m *MapperNROM) TickScanline() {}

func (m *MapperNROM) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return m.cart.chr.Read8(addr)
	case addr < 0x6000:
		// $4018-$5FFF open bus (spec.md §6/§7): nothing is mapped here, and
		// ordinary indexed/indirect addressing can land a CPU read anywhere
		// in this window, so it must return 0 rather than underflow into
		// prgRam's address space.
		return 0
	case addr < 0x8000:
		return m.cart.prgRam.Read8(addr - 0x6000)
	default:
		return m.cart.prgRom.Read8(uint16(int(addr-0x8000) % m.cart.prgRom.Size()))
	}
}

func (m *MapperNROM) Write8(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		m.cart.chr.Write8(addr, val)
	case addr < 0x6000:
		// open bus, spec.md §6/§7: ignore rather than panic.
	case addr < 0x8000:
		m.cart.prgRam.Write8(addr-0x6000, val)
	case addr >= 0x8000:
		// Real NROM ignores $8000+ writes; the test-mode cartridge built by
		// Cartridge.defaultInit backs PRG-ROM with writable RAM instead so
		// console.LoadEasyCode can poke a program (and the reset vector)
		// directly, matching the teacher's loadEasyCode/WriteRom16 use.
		m.cart.prgRom.Write8w(uint32(addr-0x8000)%uint32(m.cart.prgRom.Size()), val)
	}
}
