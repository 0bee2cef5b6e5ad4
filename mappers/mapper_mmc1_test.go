package mappers

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"nesgo/common"
)

// mirrorRecorder is a MirrorSetter stub recording every mirroring change a
// mapper forwards, standing in for the Ppu the teacher's MMC1/MMC3/AxROM
// control-register writes actually target (see Cartridge.SetMirrorTarget).
type mirrorRecorder struct {
	last common.NameTableMirroring
}

func (m *mirrorRecorder) SetMirroring(v common.NameTableMirroring) { m.last = v }

func newTestCartridge(prgBanks, chrBanks int) (*Cartridge, *mirrorRecorder) {
	c := &Cartridge{}
	c.prgRom = new(common.Rom)
	c.prgRom.Init(prgBanks*0x4000, false)
	c.chr = new(common.Rom)
	c.chr.Init(chrBanks*0x1000, true)
	c.prgRam = new(common.Ram)
	c.prgRam.Init(0x2000)

	rec := &mirrorRecorder{}
	c.SetMirrorTarget(rec)
	return c, rec
}

// writeMMC1 feeds val through the 5-write shift-register sequence, one bit
// per write, LSB first, as real MMC1 hardware expects.
func writeMMC1(m *MapperMMC1, addr uint16, val uint8) {
	for i := 0; i < 5; i++ {
		m.Write8(addr, (val>>i)&1)
	}
}

func TestMMC1ShiftRegisterCommitsOnFifthWrite(t *testing.T) {
	cart, _ := newTestCartridge(4, 2)
	m := &MapperMMC1{cart: cart}
	m.Init()

	writeMMC1(m, 0xE000, 0x05) // PRG bank register <- 5

	if m.prgBank != 0x05 {
		t.Fatalf("prgBank = 0x%02x, want 0x05", m.prgBank)
	}
	if m.shift != 0 || m.counter != 0 {
		t.Fatalf("shift/counter not reset after 5th write: shift=%d counter=%d", m.shift, m.counter)
	}
}

func TestMMC1ShiftRegisterPartialWritesDoNotCommit(t *testing.T) {
	cart, _ := newTestCartridge(4, 2)
	m := &MapperMMC1{cart: cart}
	m.Init()
	before := m.prgBank

	m.Write8(0xE000, 1)
	m.Write8(0xE000, 0)
	m.Write8(0xE000, 1) // only 3 of 5 bits shifted in

	if m.prgBank != before {
		t.Fatalf("prgBank = 0x%02x, want unchanged 0x%02x after only 3 writes", m.prgBank, before)
	}
	if m.counter != 3 {
		t.Fatalf("counter = %d, want 3", m.counter)
	}
}

func TestMMC1ResetBitClearsShiftAndForcesControlBits(t *testing.T) {
	cart, _ := newTestCartridge(4, 2)
	m := &MapperMMC1{cart: cart}
	m.Init()
	m.Write8(0x8000, 1)
	m.Write8(0x8000, 1) // 2 partial bits shifted in, counter == 2

	m.Write8(0x8000, 0x80) // reset bit set

	if m.shift != 0 || m.counter != 0 {
		t.Fatalf("reset write left shift=%d counter=%d, want both 0", m.shift, m.counter)
	}
	if m.control&0x0C != 0x0C {
		t.Fatalf("control = 0x%02x, want bits 2-3 forced set", m.control)
	}
}

func TestMMC1WriteControlForwardsAllFourMirrorModes(t *testing.T) {
	cart, rec := newTestCartridge(4, 2)
	m := &MapperMMC1{cart: cart}
	m.Init()

	cases := []struct {
		mirrorBits uint8
		want       common.NameTableMirroring
	}{
		{0, common.SingleScreen0Mirroring},
		{1, common.SingleScreen1Mirroring},
		{2, common.VerticalMirroring},
		{3, common.HorizontalMirroring},
	}
	for _, tc := range cases {
		writeMMC1(m, 0x8000, 0x10|tc.mirrorBits) // keep bank modes fixed, vary mirror bits
		if diff := cmp.Diff(tc.want, rec.last); diff != "" {
			t.Fatalf("mirror forwarded for bits %02b (-want +got):\n%s", tc.mirrorBits, diff)
		}
	}
}

func TestMMC1PRGBankMode3SwitchesFirstBankAndFixesLast(t *testing.T) {
	cart, _ := newTestCartridge(4, 2) // 4 * 16KB PRG banks
	m := &MapperMMC1{cart: cart}
	m.Init()

	// control: chrBankMode=0, prgBankMode=3 (switch first / fix last), mirror=horizontal
	writeMMC1(m, 0x8000, 0x0F)
	writeMMC1(m, 0xE000, 0x01) // select PRG bank 1 for the switchable window

	if m.prgBanks[0] != 0x4000 {
		t.Fatalf("prgBanks[0] = 0x%x, want 0x4000 (bank 1 switched in)", m.prgBanks[0])
	}
	wantLast := uint32(cart.prgRom.Size()) - 0x4000
	if m.prgBanks[1] != wantLast {
		t.Fatalf("prgBanks[1] = 0x%x, want 0x%x (last bank fixed)", m.prgBanks[1], wantLast)
	}
}

func TestMMC1CHRBankMode1IndependentFourKBBanks(t *testing.T) {
	cart, _ := newTestCartridge(4, 4) // 4 * 4KB CHR banks
	m := &MapperMMC1{cart: cart}
	m.Init()

	writeMMC1(m, 0x8000, 0x10) // chrBankMode=1 (two independent 4KB banks)
	writeMMC1(m, 0xA000, 0x02) // CHR bank 0 register <- 2
	writeMMC1(m, 0xC000, 0x03) // CHR bank 1 register <- 3

	if m.chrBanks[0] != 2*0x1000 {
		t.Fatalf("chrBanks[0] = 0x%x, want 0x%x", m.chrBanks[0], 2*0x1000)
	}
	if m.chrBanks[1] != 3*0x1000 {
		t.Fatalf("chrBanks[1] = 0x%x, want 0x%x", m.chrBanks[1], 3*0x1000)
	}
}

func TestMMC1ReadWriteRoundTripsThroughBankedPRGRAM(t *testing.T) {
	cart, _ := newTestCartridge(2, 2)
	m := &MapperMMC1{cart: cart}
	m.Init()

	m.Write8(0x6000, 0x99)
	if got := m.Read8(0x6000); got != 0x99 {
		t.Fatalf("PRG-RAM round trip = 0x%02x, want 0x99", got)
	}
}
