package ppu

import (
	"image/color"
	"testing"

	"nesgo/common"
	"nesgo/cpu"
)

// stubCart is a minimal CartBus backed by flat CHR RAM, enough to drive
// the PPU's $2007 data port and tile fetches without a real Cartridge.
type stubCart struct {
	chr [0x2000]uint8
}

func (s *stubCart) PpuRead8(addr uint16) uint8      { return s.chr[addr] }
func (s *stubCart) PpuWrite8(addr uint16, val uint8) { s.chr[addr] = val }
func (s *stubCart) TickScanline()                    {}

// stubIntr records raised/cleared interrupt kinds instead of driving a
// real Cpu, isolating the PPU's NMI-timing tests from CPU semantics.
type stubIntr struct {
	raised uint8
}

func (s *stubIntr) Raise(kind uint8) { s.raised |= kind }
func (s *stubIntr) Clear(kind uint8) { s.raised &^= kind }

func newTestPpu() (*Ppu, *stubCart, *stubIntr) {
	cart := &stubCart{}
	intr := &stubIntr{}
	fb := &common.Framebuffer{}
	fb.Init()
	p := &Ppu{}
	p.Init(cart, intr, fb, common.HorizontalMirroring, true, false)
	return p, cart, intr
}

func TestPpuDataPortAutoIncrementsByOneInNormalMode(t *testing.T) {
	p, _, _ := newTestPpu()
	p.Write8(0x2006, 0x20) // PPUADDR hi
	p.Write8(0x2006, 0x00) // PPUADDR lo -> v = 0x2000
	p.Write8(0x2007, 0x42) // PPUDATA write, v -> 0x2001

	if p.v.Val != 0x2001 {
		t.Fatalf("v = 0x%04x, want 0x2001", p.v.Val)
	}
	if got := p.Nametables.Read8(0x2000); got != 0x42 {
		t.Fatalf("nametable[0x2000] = 0x%02x, want 0x42", got)
	}
}

func TestPpuDataPortAutoIncrementsBy32InVerticalMode(t *testing.T) {
	p, _, _ := newTestPpu()
	p.writeCtrl(0x04) // VRAM increment = 32 (bit 2)
	p.Write8(0x2006, 0x20)
	p.Write8(0x2006, 0x00)
	p.Write8(0x2007, 0x00)

	if p.v.Val != 0x2020 {
		t.Fatalf("v = 0x%04x, want 0x2020", p.v.Val)
	}
}

func TestPpuStatusReadClearsVblankAndAddressLatch(t *testing.T) {
	p, _, _ := newTestPpu()
	p.Status.nmiOccurred = true
	p.w = true

	v := p.readStatus()
	if v&0x80 == 0 {
		t.Fatalf("readStatus() bit 7 = 0, want 1 (vblank was set)")
	}
	if p.Status.nmiOccurred {
		t.Fatalf("nmiOccurred still set after readStatus")
	}
	if p.w {
		t.Fatalf("write latch w still set after readStatus")
	}
}

func TestPpuNmiAssertsAfterDocumentedDelay(t *testing.T) {
	p, _, intr := newTestPpu()
	p.writeCtrl(0x80) // nmi_output = 1
	p.Status.nmiOccurred = false

	p.ScanLine = 241
	p.Cycle = 1
	p.tick() // ScanLine==241 && Cycle==1: sets nmiOccurred, arms nmiDelay = NmiDelayDots

	if intr.raised&cpu.CpuIntNMI != 0 {
		t.Fatalf("NMI raised immediately; should be delayed %d dots", NmiDelayDots)
	}

	for i := 0; i < NmiDelayDots-1; i++ {
		p.tick()
	}
	if intr.raised&cpu.CpuIntNMI != 0 {
		t.Fatalf("NMI raised before the %d-dot delay elapsed", NmiDelayDots)
	}

	p.tick()
	if intr.raised&cpu.CpuIntNMI == 0 {
		t.Fatalf("NMI not raised after the %d-dot delay elapsed", NmiDelayDots)
	}
}

func TestEvalSpritesCapsAtEightAndFlagsOverflow(t *testing.T) {
	p, _, _ := newTestPpu()
	p.Mask.showSprite = true
	// 9 sprites all covering scanline 10, 8x8 tiles.
	for i := 0; i < 9; i++ {
		base := i * 4
		p.oam[base] = 5 // y, so scanline 10 is row 5
		p.oam[base+1] = 0
		p.oam[base+2] = 0
		p.oam[base+3] = uint8(i)
	}
	p.ScanLine = 10

	p.evalSprites()

	if p.spriteCount != 8 {
		t.Fatalf("spriteCount = %d, want 8 (spriteLimit enforced)", p.spriteCount)
	}
	if !p.Status.spriteOverflow {
		t.Fatalf("spriteOverflow not flagged with a 9th in-range sprite")
	}
}

func TestRenderPixelPrefersOpaqueSpriteOverTransparentBackground(t *testing.T) {
	p, _, _ := newTestPpu()
	p.Mask.showBg = true
	p.Mask.showSprite = true
	p.Mask.showLeftSprite = true
	p.ScanLine = 0
	p.Palette.Write8(0x3F11, 0x21) // sprite palette 0, color 1
	p.sprites[0] = oamSprite{pattern: 0x11111111, x: 0, priority: false, index: 1} // color 1 in all 8 pixels
	p.spriteCount = 1

	p.renderPixel(0)

	got := p.Framebuffer.Back()[0*common.FrameWidth+0]
	if got == (color.RGBA{}) {
		t.Fatalf("expected a palette color to be written for an opaque sprite pixel")
	}
	if got != nesPalette[0x21] {
		t.Fatalf("pixel = %v, want the sprite's palette color %v", got, nesPalette[0x21])
	}
}
