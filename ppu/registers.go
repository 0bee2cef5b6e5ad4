package ppu

import "nesgo/common"

// loopyRegister is the 15-bit v/t scroll register (spec.md §3/§4.2),
// adapted bit-for-bit from the teacher's nes/ppu/ppu_registers.go.
type loopyRegister struct {
	common.Register16
}

func (l *loopyRegister) coarseX() uint16  { return l.Val & 0x001F }
func (l *loopyRegister) coarseY() uint16  { return (l.Val & 0x03E0) >> 5 }
func (l *loopyRegister) nameTable() uint16 { return (l.Val & 0x0C00) >> 10 }
func (l *loopyRegister) fineY() uint16    { return (l.Val & 0x7000) >> 12 }

func (l *loopyRegister) setCoarseX(v uint16)  { l.Val = (l.Val &^ 0x001F) | (v & 0x001F) }
func (l *loopyRegister) setCoarseY(v uint16)  { l.Val = (l.Val &^ 0x03E0) | ((v << 5) & 0x03E0) }
func (l *loopyRegister) setNameTable(v uint16) { l.Val = (l.Val &^ 0x0C00) | ((v << 10) & 0x0C00) }
func (l *loopyRegister) setFineY(v uint16)    { l.Val = (l.Val &^ 0x7000) | ((v << 12) & 0x7000) }

func (l *loopyRegister) flipNameTableH() { l.Val ^= 0x0400 }
func (l *loopyRegister) flipNameTableV() { l.Val ^= 0x0800 }

func (l *loopyRegister) setLsb(v uint8) { l.Val = (l.Val &^ 0x00FF) | uint16(v) }
func (l *loopyRegister) setMsb(v uint8) { l.Val = (l.Val &^ 0x7F00) | (uint16(v&0x3F) << 8) }

// copyHori copies the horizontal bits (coarse-x, nametable-h) from t to v.
func (v *loopyRegister) copyHori(t *loopyRegister) {
	v.Val = (v.Val &^ 0x041F) | (t.Val & 0x041F)
}

// copyVert copies the vertical bits (fine-y, coarse-y, nametable-v) from t to v.
func (v *loopyRegister) copyVert(t *loopyRegister) {
	v.Val = (v.Val &^ 0x7BE0) | (t.Val & 0x7BE0)
}

// incCoarseX advances coarse-x by one tile, toggling the horizontal
// nametable bit on wraparound at 31.
func (v *loopyRegister) incCoarseX() {
	if v.coarseX() == 31 {
		v.setCoarseX(0)
		v.flipNameTableH()
	} else {
		v.setCoarseX(v.coarseX() + 1)
	}
}

// incFineY advances fine-y, carrying into coarse-y (with the documented
// y=29 nametable-toggle wrap and the y=31 no-toggle wrap) per spec.md §4.2.
func (v *loopyRegister) incFineY() {
	if v.fineY() < 7 {
		v.setFineY(v.fineY() + 1)
		return
	}
	v.setFineY(0)
	y := v.coarseY()
	switch y {
	case 29:
		y = 0
		v.flipNameTableV()
	case 31:
		y = 0
	default:
		y++
	}
	v.setCoarseY(y)
}

// PPUCTRL ($2000) decomposed bits.
type ctrlRegister struct {
	baseNameTable   uint8 // 0..3
	vramIncBy32     bool
	spriteTable     uint8 // 0 or 1, ignored for 8x16 sprites
	backgroundTable uint8 // 0 or 1
	spriteSize16    bool
	masterSlave     bool
	nmiOutput       bool
}

func (c *ctrlRegister) write(val uint8, t *loopyRegister) {
	c.baseNameTable = val & 0x03
	c.vramIncBy32 = val&0x04 != 0
	c.spriteTable = (val >> 3) & 1
	c.backgroundTable = (val >> 4) & 1
	c.spriteSize16 = val&0x20 != 0
	c.masterSlave = val&0x40 != 0
	c.nmiOutput = val&0x80 != 0
	t.setNameTable(uint16(c.baseNameTable))
}

func (c *ctrlRegister) vramInc() uint16 {
	if c.vramIncBy32 {
		return 32
	}
	return 1
}

func (c *ctrlRegister) spriteHeight() int {
	if c.spriteSize16 {
		return 16
	}
	return 8
}

// PPUMASK ($2001) decomposed bits.
type maskRegister struct {
	grayscale      bool
	showLeftBg     bool
	showLeftSprite bool
	showBg         bool
	showSprite     bool
	emphasize      uint8
}

func (m *maskRegister) write(val uint8) {
	m.grayscale = val&0x01 != 0
	m.showLeftBg = val&0x02 != 0
	m.showLeftSprite = val&0x04 != 0
	m.showBg = val&0x08 != 0
	m.showSprite = val&0x10 != 0
	m.emphasize = (val >> 5) & 0x07
}

func (m *maskRegister) renderingEnabled() bool { return m.showBg || m.showSprite }

// statusRegister ($2002) decomposed bits, plus the low-5 open-bus-of-last-
// write bits spec.md requires.
type statusRegister struct {
	spriteOverflow bool
	sprite0Hit     bool
	nmiOccurred    bool
	lastWrite      uint8
}

func (s *statusRegister) read() uint8 {
	v := s.lastWrite & 0x1F
	if s.spriteOverflow {
		v |= 0x20
	}
	if s.sprite0Hit {
		v |= 0x40
	}
	if s.nmiOccurred {
		v |= 0x80
	}
	return v
}
