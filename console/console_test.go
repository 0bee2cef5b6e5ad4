package console

import "testing"

// runInstructions loads an easy6502 hex dump and executes exactly n
// instructions, returning control before the trailing BRK's real
// interrupt-vector jump muddies the registers under test (this module's
// BRK is a real 6502 BRK, unlike the teacher's "zero-cycle BRK" test-only
// stub).
func runInstructions(t *testing.T, code string, n int) *Console {
	t.Helper()
	c, err := New(Verbose(false))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.LoadEasyCode(code)
	for i := 0; i < n; i++ {
		c.Cpu.Step()
	}
	return c
}

func TestLoadEasyCode_LDA_Immediate(t *testing.T) {
	c := runInstructions(t, "0600: a9 aa 00", 1)
	if c.Cpu.Rg.Gp.Ac.Val != 0xaa {
		t.Fatalf("Ac = 0x%02x, want 0xaa", c.Cpu.Rg.Gp.Ac.Val)
	}
	if c.Cpu.Rg.Spc.Pc.Val != 0x0602 {
		t.Fatalf("Pc = 0x%04x, want 0x0602", c.Cpu.Rg.Spc.Pc.Val)
	}
}

func TestLoadEasyCode_STA_Absolute(t *testing.T) {
	c := runInstructions(t, "0600: a9 2a 8d 00 02", 2)
	if got := c.ram.Read8(0x0200); got != 0x2a {
		t.Fatalf("ram[0x0200] = 0x%02x, want 0x2a", got)
	}
}

func TestLoadEasyCode_AddTwoNumbers(t *testing.T) {
	// LDA #$05; STA $00; LDA #$07; ADC $00; STA $01
	c := runInstructions(t, "0600: a9 05 85 00 a9 07 65 00 85 01", 5)
	if got := c.ram.Read8(0x0001); got != 0x0c {
		t.Fatalf("ram[0x0001] = 0x%02x, want 0x0c", got)
	}
}

func TestConsole_ResetRequest_AppliedByStep(t *testing.T) {
	c, err := New(Verbose(false))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Request(ResetRequest)
	c.Step(0) // runCycles == 0, loop never runs, but processOpRequest still applies
	if c.opRequests&(1<<ResetRequest) != 0 {
		t.Fatalf("ResetRequest still pending after Step")
	}
}

func TestConsole_OamDma_StallsCpu(t *testing.T) {
	c := runInstructions(t, "0600: a9 02 8d 14 40", 1) // LDA #$02 only
	before := c.Cpu.Cycles()
	c.Cpu.Step() // STA $4014: triggers OAMDMA, latching 513/514 stall cycles
	for i := 0; i < 520; i++ {
		c.Cpu.Step() // drain the stall, one cycle consumed per call
	}
	if c.Cpu.Cycles()-before < 513 {
		t.Fatalf("OAMDMA stall too short: %d cycles", c.Cpu.Cycles()-before)
	}
}
