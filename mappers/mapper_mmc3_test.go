package mappers

import (
	"testing"

	"nesgo/common"
	"nesgo/cpu"
)

// intrRecorder is a common.IiInterrupt stub recording raised interrupt
// kinds, standing in for the Cpu that MMC3's IRQ line actually targets (see
// Cartridge.SetInterrupts).
type intrRecorder struct {
	raised uint8
}

func (r *intrRecorder) Raise(kind uint8) { r.raised |= kind }
func (r *intrRecorder) Clear(kind uint8) { r.raised &^= kind }

func TestMMC3IRQFiresOnZeroReloadTransitionWhenEnabled(t *testing.T) {
	cart, _ := newTestCartridge(8, 16) // plenty of 8KB PRG / 1KB CHR banks
	m := &MapperMMC3{cart: cart}
	m.Init()
	intr := &intrRecorder{}
	m.SetInterrupts(intr)

	m.Write8(0xC000, 2) // irqLatch = 2
	m.Write8(0xC001, 0) // irqReload = true
	m.Write8(0xE001, 0) // irqEnabled = true (odd $E000 write)

	m.TickScanline() // counter was 0 -> reloads to 2, no 0 transition this tick
	if intr.raised&cpu.CpuIntIRQ != 0 {
		t.Fatalf("IRQ raised on reload tick; want only after counting down to 0")
	}

	m.TickScanline() // counter 2 -> 1
	m.TickScanline() // counter 1 -> 0, enabled: should raise

	if intr.raised&cpu.CpuIntIRQ == 0 {
		t.Fatalf("IRQ not raised after counter reached 0 while enabled")
	}
}

func TestMMC3IRQDisableClearsFlagAndSuppressesFutureIRQ(t *testing.T) {
	cart, _ := newTestCartridge(8, 16)
	m := &MapperMMC3{cart: cart}
	m.Init()
	intr := &intrRecorder{}
	m.SetInterrupts(intr)

	m.Write8(0xC000, 0) // irqLatch = 0, so every tick re-reloads to 0 and fires
	m.Write8(0xE001, 0) // enable
	m.TickScanline()
	if intr.raised&cpu.CpuIntIRQ == 0 {
		t.Fatalf("expected IRQ with latch=0 while enabled")
	}

	m.Write8(0xE000, 0) // even $E000 write: disable + clear flag
	if m.irqFlag {
		t.Fatalf("irqFlag still set after disabling")
	}
	if intr.raised&cpu.CpuIntIRQ != 0 {
		t.Fatalf("disabling write left the CPU-level IRQ latched; $E000 even must clear it itself")
	}

	m.TickScanline()
	if intr.raised&cpu.CpuIntIRQ != 0 {
		t.Fatalf("IRQ raised again after being disabled")
	}
}

func TestMMC3MirroringBankSelectOddEvenDispatch(t *testing.T) {
	cart, rec := newTestCartridge(8, 16)
	m := &MapperMMC3{cart: cart}
	m.Init()

	m.Write8(0xA000, 0) // even: bit0==0 -> vertical
	if rec.last != common.VerticalMirroring {
		t.Fatalf("mirroring = %v, want VerticalMirroring", rec.last)
	}
	m.Write8(0xA000, 1) // even addr, bit0==1 -> horizontal
	if rec.last != common.HorizontalMirroring {
		t.Fatalf("mirroring = %v, want HorizontalMirroring", rec.last)
	}
}

func TestMMC3PRGBankSelectSwitchesWindow0(t *testing.T) {
	cart, _ := newTestCartridge(8, 16) // 8 * 16KB = 128KB PRG
	m := &MapperMMC3{cart: cart}
	m.Init()

	m.Write8(0x8000, 6) // bankSelect: target register 6 (PRG window 0)
	m.Write8(0x8001, 3) // registers[6] = 3

	if m.prgBanks[0] != 3*0x2000 {
		t.Fatalf("prgBanks[0] = 0x%x, want 0x%x", m.prgBanks[0], 3*0x2000)
	}
	wantLast := uint32(cart.prgRom.Size()) - 0x2000
	if m.prgBanks[3] != wantLast {
		t.Fatalf("prgBanks[3] = 0x%x, want 0x%x (fixed last bank)", m.prgBanks[3], wantLast)
	}
}
