package ppu

import (
	"nesgo/common"
	"nesgo/cpu"
)

// NmiDelayDots is the number of PPU dots between the nmi_output &&
// nmi_occurred edge and the NMI actually being asserted to the CPU.
// spec.md §9 flags this value as something the original author considered
// possibly wrong (an 8-dot delay was suspected instead); per spec's
// explicit "do NOT silently diverge" instruction the documented 15 is kept
// and exposed as a named constant rather than inlined.
const NmiDelayDots = 15

// CartBus is the narrow view of the cartridge/mapper the PPU needs: pattern
// table access ($0000-$1FFF) and the MMC3 scanline-IRQ hook. Cartridge
// (mappers.Cartridge) satisfies this structurally.
type CartBus interface {
	PpuRead8(addr uint16) uint8
	PpuWrite8(addr uint16, val uint8)
	TickScanline()
}

type oamSprite struct {
	pattern  uint32
	x        uint8
	priority bool
	index    uint8
}

// Ppu is the NES picture processing unit: background/sprite rendering
// pipeline, OAM, palette RAM, nametable VRAM, and the CPU-visible
// $2000-$2007/$4014 register interface. Grounded on the teacher's
// nes/ppu/old_ppu.go (struct shape), lib/ppu/ppu.go (exec/tick pipeline),
// and nes/ppu/ppu_registers.go (register decomposition).
type Ppu struct {
	Cart        CartBus
	Interrupts  common.IiInterrupt
	Framebuffer *common.Framebuffer
	Nametables  common.NameTables
	Palette     palette

	oam     [256]uint8
	oamAddr uint8

	Ctrl   ctrlRegister
	Mask   maskRegister
	Status statusRegister

	v, t  loopyRegister
	xFine uint8
	w     bool

	readBuffer uint8

	Cycle, ScanLine int
	Frame           uint64
	oddFrame        bool

	ntByte, atByte, ptLow, ptHigh uint8
	tileData                      uint64

	sprites        [8]oamSprite
	spriteCount    int
	spriteZeroInRange bool
	spriteLimit    bool

	nmiOutputPrev bool
	nmiDelay      int

	verbose bool
}

func (p *Ppu) Init(cart CartBus, interrupts common.IiInterrupt, fb *common.Framebuffer, mirror common.NameTableMirroring, spriteLimit bool, verbose bool) {
	p.Cart = cart
	p.Interrupts = interrupts
	p.Framebuffer = fb
	p.Nametables.Init(mirror)
	p.spriteLimit = spriteLimit
	p.verbose = verbose
	p.Reset()
}

func (p *Ppu) Reset() {
	p.Cycle = 340
	p.ScanLine = 240
	p.Frame = 0
	p.oddFrame = false
	p.w = false
	p.v = loopyRegister{}
	p.t = loopyRegister{}
	p.nmiDelay = 0
	p.nmiOutputPrev = false
}

// SetMirroring is called by mappers whose control registers mutate
// nametable mirroring at runtime (MMC1, AxROM, MMC3).
func (p *Ppu) SetMirroring(m common.NameTableMirroring) {
	p.Nametables.SetMirroring(m)
}

// WriteOam implements common.OamTarget for $4014 OAMDMA.
func (p *Ppu) WriteOam(val uint8) {
	p.oam[p.oamAddr] = val
	p.oamAddr++
}

// ---- PPU-bus memory map (spec.md §4.2) ----

func (p *Ppu) vramRead8(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		return p.Cart.PpuRead8(addr)
	case addr < 0x3F00:
		return p.Nametables.Read8(0x2000 + addr%0x1000)
	default:
		return p.Palette.Read8(addr)
	}
}

func (p *Ppu) vramWrite8(addr uint16, val uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		p.Cart.PpuWrite8(addr, val)
	case addr < 0x3F00:
		p.Nametables.Write8(0x2000+addr%0x1000, val)
	default:
		p.Palette.Write8(addr, val)
	}
}

// ---- CPU-bus register interface ($2000-$2007 mirrored through $3FFF) ----

func (p *Ppu) Read8(addr uint16) uint8 {
	switch addr & 7 {
	case 2:
		return p.readStatus()
	case 4:
		return p.oam[p.oamAddr]
	case 7:
		return p.readData()
	default:
		return p.Status.lastWrite
	}
}

func (p *Ppu) Write8(addr uint16, val uint8) {
	p.Status.lastWrite = val
	switch addr & 7 {
	case 0:
		p.writeCtrl(val)
	case 1:
		p.Mask.write(val)
	case 3:
		p.oamAddr = val
	case 4:
		p.oam[p.oamAddr] = val
		p.oamAddr++
	case 5:
		p.writeScroll(val)
	case 6:
		p.writeAddr(val)
	case 7:
		p.writeData(val)
	}
}

func (p *Ppu) writeCtrl(val uint8) {
	p.Ctrl.write(val, &p.t)
	p.pollNmi()
}

func (p *Ppu) readStatus() uint8 {
	v := p.Status.read()
	p.Status.nmiOccurred = false
	p.w = false
	p.pollNmi()
	return v
}

func (p *Ppu) writeScroll(val uint8) {
	if !p.w {
		p.xFine = val & 0x07
		p.t.setCoarseX(uint16(val) >> 3)
	} else {
		p.t.setFineY(uint16(val) & 0x07)
		p.t.setCoarseY(uint16(val) >> 3)
	}
	p.w = !p.w
}

func (p *Ppu) writeAddr(val uint8) {
	if !p.w {
		p.t.setMsb(val)
	} else {
		p.t.setLsb(val)
		p.v = p.t
	}
	p.w = !p.w
}

func (p *Ppu) readData() uint8 {
	val := p.vramRead8(p.v.Val)
	if p.v.Val%0x4000 < 0x3F00 {
		ret := p.readBuffer
		p.readBuffer = val
		val = ret
	} else {
		p.readBuffer = p.vramRead8(p.v.Val - 0x1000)
	}
	p.v.Val += p.Ctrl.vramInc()
	return val
}

func (p *Ppu) writeData(val uint8) {
	p.vramWrite8(p.v.Val, val)
	p.v.Val += p.Ctrl.vramInc()
}

// pollNmi re-evaluates the nmi_output && nmi_occurred edge (spec.md §4.2)
// whenever either input changes (Ctrl.nmiOutput via writeCtrl,
// Status.nmiOccurred via readStatus or the vblank-start/pre-render-clear
// edges in tick), arming the NmiDelayDots countdown on a rising edge.
// nmiOutputPrev holds the combined state from the last poll; comparing
// against the freshly recomputed state (rather than re-deriving a
// "previous nmiOutput" locally at each call site) is what makes this
// correctly catch a vblank-start edge even when nmiOutput was already 1
// going into it.
func (p *Ppu) pollNmi() {
	cur := p.Ctrl.nmiOutput && p.Status.nmiOccurred
	if cur && !p.nmiOutputPrev {
		p.nmiDelay = NmiDelayDots
	}
	if !p.Ctrl.nmiOutput {
		p.nmiDelay = 0
	}
	p.nmiOutputPrev = cur
}

// Ticks advances the PPU by n dots; the driver calls this 3 times per CPU cycle.
func (p *Ppu) Ticks(n int) {
	for i := 0; i < n; i++ {
		p.tick()
	}
}

func (p *Ppu) tick() {
	if p.nmiDelay > 0 {
		p.nmiDelay--
		if p.nmiDelay == 0 && p.Ctrl.nmiOutput && p.Status.nmiOccurred {
			p.Interrupts.Raise(cpu.CpuIntNMI)
		}
	}

	renderingEnabled := p.Mask.renderingEnabled()
	preRender := p.ScanLine == 261
	visible := p.ScanLine < 240

	if renderingEnabled && (visible || preRender) {
		p.execRenderLine(preRender)
	}

	if p.ScanLine == 241 && p.Cycle == 1 {
		p.Framebuffer.Swap()
		p.Status.nmiOccurred = true
		p.pollNmi()
	}
	if preRender && p.Cycle == 1 {
		p.Status.nmiOccurred = false
		p.Status.sprite0Hit = false
		p.Status.spriteOverflow = false
		p.pollNmi()
	}

	p.advanceDot(renderingEnabled, preRender)
}

func (p *Ppu) advanceDot(renderingEnabled bool, preRender bool) {
	p.Cycle++
	if preRender && renderingEnabled && p.oddFrame && p.Cycle == 339 {
		p.Cycle = 340
	}
	if p.Cycle > 340 {
		p.Cycle = 0
		p.ScanLine++
		if p.ScanLine > 261 {
			p.ScanLine = 0
			p.Frame++
			p.oddFrame = !p.oddFrame
		}
	}
}

func (p *Ppu) execRenderLine(preRender bool) {
	cycle := p.Cycle

	fetchPhase := (cycle >= 1 && cycle <= 256) || (cycle >= 321 && cycle <= 336)
	if fetchPhase {
		p.tileData <<= 4
		switch cycle % 8 {
		case 1:
			p.ntByte = p.vramRead8(0x2000 | (p.v.Val & 0x0FFF))
		case 3:
			addr := 0x23C0 | (p.v.Val & 0x0C00) | ((p.v.Val >> 4) & 0x38) | ((p.v.Val >> 2) & 0x07)
			at := p.vramRead8(addr)
			shift := ((p.v.Val >> 4) & 4) | (p.v.Val & 2)
			p.atByte = (at >> shift) & 3
		case 5:
			table := uint16(p.Ctrl.backgroundTable) << 12
			p.ptLow = p.vramRead8(table + uint16(p.ntByte)<<4 + p.v.fineY())
		case 7:
			table := uint16(p.Ctrl.backgroundTable) << 12
			p.ptHigh = p.vramRead8(table + uint16(p.ntByte)<<4 + p.v.fineY() + 8)
		case 0:
			p.buildBgPixelRow()
			if cycle == 256 {
				p.v.incFineY()
			} else {
				p.v.incCoarseX()
			}
		}
	}

	if cycle == 257 {
		p.v.copyHori(&p.t)
		p.evalSprites()
	}
	if preRender && cycle >= 280 && cycle <= 304 {
		p.v.copyVert(&p.t)
	}

	// MMC3 scanline IRQ counter proxy: spec.md §4.4 pins "PPU cycle 280
	// while rendering enabled" on visible+pre-render scanlines.
	if cycle == 280 && (p.ScanLine < 240 || preRender) {
		p.Cart.TickScanline()
	}

	if cycle >= 1 && cycle <= 256 && !preRender {
		p.renderPixel(cycle - 1)
	}
}

func (p *Ppu) buildBgPixelRow() {
	var row uint32
	for i := 0; i < 8; i++ {
		p1 := (p.ptLow >> (7 - i)) & 1
		p2 := (p.ptHigh >> (7 - i)) & 1
		nibble := uint32(p.atByte)<<2 | uint32(p2)<<1 | uint32(p1)
		row |= nibble << uint(i*4)
	}
	p.tileData |= uint64(row)
}

func (p *Ppu) bgPixel(x int) uint8 {
	if !p.Mask.showBg {
		return 0
	}
	if x < 8 && !p.Mask.showLeftBg {
		return 0
	}
	shift := uint(32 + (7-int(p.xFine))*4)
	return uint8((p.tileData >> shift) & 0x0F)
}

func (p *Ppu) spritePixel(x int) (uint8, *oamSprite) {
	if !p.Mask.showSprite {
		return 0, nil
	}
	if x < 8 && !p.Mask.showLeftSprite {
		return 0, nil
	}
	for i := 0; i < p.spriteCount; i++ {
		s := &p.sprites[i]
		offset := x - int(s.x)
		if offset < 0 || offset > 7 {
			continue
		}
		shift := uint(7-offset) * 4
		nibble := uint8((s.pattern >> shift) & 0x0F)
		if nibble&0x03 == 0 {
			continue
		}
		return nibble, s
	}
	return 0, nil
}

func (p *Ppu) renderPixel(x int) {
	bg := p.bgPixel(x)
	sp, sprite := p.spritePixel(x)

	bgOpaque := bg&0x03 != 0
	spOpaque := sp&0x03 != 0

	var colorIndex uint8
	switch {
	case !bgOpaque && !spOpaque:
		colorIndex = 0
	case !bgOpaque && spOpaque:
		colorIndex = (sp & 0x0F) | 0x10
	case bgOpaque && !spOpaque:
		colorIndex = bg & 0x0F
	default:
		if sprite.index == 0 && x < 255 {
			p.Status.sprite0Hit = true
		}
		if sprite.priority {
			colorIndex = bg & 0x0F
		} else {
			colorIndex = (sp & 0x0F) | 0x10
		}
	}

	c := p.Palette.color(p.Palette.Read8(uint16(colorIndex)))
	p.Framebuffer.Set(x, p.ScanLine, c)
}

// evalSprites scans all 64 OAM sprites for the NEXT scanline's render pass
// (spec.md §4.2), run at cycle 257 of the CURRENT scanline.
func (p *Ppu) evalSprites() {
	height := p.Ctrl.spriteHeight()
	count := 0
	for i := 0; i < 64; i++ {
		base := i * 4
		y := p.oam[base]
		row := p.ScanLine - int(y)
		if row < 0 || row >= height {
			continue
		}
		if count == 8 {
			p.Status.spriteOverflow = true
			if p.spriteLimit {
				break
			}
		}
		if count >= len(p.sprites) {
			break
		}

		tile := p.oam[base+1]
		attr := p.oam[base+2]
		x := p.oam[base+3]

		vflip := attr&0x80 != 0
		hflip := attr&0x40 != 0
		priority := attr&0x20 != 0
		palette := attr & 0x03

		if vflip {
			row = height - 1 - row
		}

		var table uint16
		var index uint8
		if height == 16 {
			table = uint16(tile&1) << 12
			index = tile &^ 1
			if row > 7 {
				index++
				row -= 8
			}
		} else {
			table = uint16(p.Ctrl.spriteTable) << 12
			index = tile
		}

		lo := p.vramRead8(table + uint16(index)<<4 + uint16(row))
		hi := p.vramRead8(table + uint16(index)<<4 + uint16(row) + 8)

		var pattern uint32
		for b := 0; b < 8; b++ {
			var p1, p2 uint8
			if hflip {
				p1 = (lo >> uint(b)) & 1
				p2 = (hi >> uint(b)) & 1
			} else {
				p1 = (lo >> uint(7-b)) & 1
				p2 = (hi >> uint(7-b)) & 1
			}
			nibble := uint32(palette)<<2 | uint32(p2)<<1 | uint32(p1)
			pattern |= nibble << uint(b*4)
		}

		p.sprites[count] = oamSprite{pattern: pattern, x: x, priority: priority, index: uint8(i)}
		count++
	}
	p.spriteCount = count
}
