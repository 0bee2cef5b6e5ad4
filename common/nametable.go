package common

// NameTableMirroring selects how the PPU's four logical 1 KiB nametables
// alias onto the 2 KiB of physical nametable RAM. Extended from
// lib/common/nametable.go's HorizontalMirroring/VerticalMirroring/
// SingleScreenMirroring/QuadScreenMirroring to the five modes spec.md §3
// names explicitly (Single0 and Single1 are distinct banks, not a shared
// unimplemented case).
type NameTableMirroring uint8

const (
	HorizontalMirroring NameTableMirroring = iota
	VerticalMirroring
	SingleScreen0Mirroring
	SingleScreen1Mirroring
	FourScreenMirroring
)

// NameTables is the 2 KiB physical VRAM behind the mirrored nametable
// address space, plus (for FourScreenMirroring cartridges) an extra 2 KiB
// of cartridge-supplied VRAM.
type NameTables struct {
	vRam    Ram
	extRam  Ram
	hasExt  bool
	Mirroring NameTableMirroring
}

func (n *NameTables) Init(defaultMirror NameTableMirroring) {
	n.vRam.Init(0x800)
	n.Mirroring = defaultMirror
}

// InitFourScreen additionally allocates the 2 KiB of cartridge-side VRAM
// used by FourScreenMirroring carts (ctrl1 bit 3 in the iNES header).
func (n *NameTables) InitFourScreen() {
	n.extRam.Init(0x800)
	n.hasExt = true
}

func (n *NameTables) SetMirroring(m NameTableMirroring) {
	n.Mirroring = m
}

func (n *NameTables) Read8(addr uint16) uint8 {
	ram, off := n.decode(addr)
	return ram.Read8(off)
}

func (n *NameTables) Write8(addr uint16, val uint8) {
	ram, off := n.decode(addr)
	ram.Write8(off, val)
}

func (n *NameTables) decode(addr uint16) (*Ram, uint16) {
	addr -= 0x2000
	addr &= 0x0FFF
	table := addr / 0x400
	off := addr % 0x400

	if n.Mirroring == FourScreenMirroring && n.hasExt {
		switch table {
		case 0, 1:
			return &n.vRam, table*0x400 + off
		default:
			return &n.extRam, (table-2)*0x400 + off
		}
	}

	switch n.Mirroring {
	case HorizontalMirroring:
		// $2000 == $2400, $2800 == $2C00
		table = table / 2
	case VerticalMirroring:
		// $2000 == $2800, $2400 == $2C00
		table = table % 2
	case SingleScreen0Mirroring:
		table = 0
	case SingleScreen1Mirroring:
		table = 1
	case FourScreenMirroring:
		// no cartridge VRAM available: fall back to two-screen wrap
		table = table % 2
	}
	return &n.vRam, table*0x400 + off
}
