package cpu

// Eval handlers. Operand fetch/store and cycle accounting already happened
// in Cpu.Step/decodeOperand; each handler only touches registers/flags/
// memory, matching spec.md §9's "dispatch" step.

func lda(c *Cpu) { c.Rg.Gp.Ac.Val = c.operand(); c.Rg.Spc.Ps.setZN(c.Rg.Gp.Ac.Val) }
func ldx(c *Cpu) { c.Rg.Gp.Ix.X.Val = c.operand(); c.Rg.Spc.Ps.setZN(c.Rg.Gp.Ix.X.Val) }
func ldy(c *Cpu) { c.Rg.Gp.Ix.Y.Val = c.operand(); c.Rg.Spc.Ps.setZN(c.Rg.Gp.Ix.Y.Val) }

func sta(c *Cpu) { c.Bus.Write8(c.addr, c.Rg.Gp.Ac.Val) }
func stx(c *Cpu) { c.Bus.Write8(c.addr, c.Rg.Gp.Ix.X.Val) }
func sty(c *Cpu) { c.Bus.Write8(c.addr, c.Rg.Gp.Ix.Y.Val) }

func tax(c *Cpu) { c.Rg.Gp.Ix.X.Val = c.Rg.Gp.Ac.Val; c.Rg.Spc.Ps.setZN(c.Rg.Gp.Ix.X.Val) }
func tay(c *Cpu) { c.Rg.Gp.Ix.Y.Val = c.Rg.Gp.Ac.Val; c.Rg.Spc.Ps.setZN(c.Rg.Gp.Ix.Y.Val) }
func txa(c *Cpu) { c.Rg.Gp.Ac.Val = c.Rg.Gp.Ix.X.Val; c.Rg.Spc.Ps.setZN(c.Rg.Gp.Ac.Val) }
func tya(c *Cpu) { c.Rg.Gp.Ac.Val = c.Rg.Gp.Ix.Y.Val; c.Rg.Spc.Ps.setZN(c.Rg.Gp.Ac.Val) }
func txs(c *Cpu) { c.Rg.Spc.Sp.Val = c.Rg.Gp.Ix.X.Val }
func tsx(c *Cpu) { c.Rg.Gp.Ix.X.Val = c.Rg.Spc.Sp.Val; c.Rg.Spc.Ps.setZN(c.Rg.Gp.Ix.X.Val) }

func pha(c *Cpu) { c.push8(c.Rg.Gp.Ac.Val) }
func php(c *Cpu) {
	// B and E are both set to 1 in the byte pushed by PHP (spec.md §3).
	c.push8(c.Rg.Spc.Ps.Read() | BB | BE)
}
func pla(c *Cpu) { c.Rg.Gp.Ac.Val = c.pull8(); c.Rg.Spc.Ps.setZN(c.Rg.Gp.Ac.Val) }
func plp(c *Cpu) {
	v := c.pull8()
	c.Rg.Spc.Ps.Write(v)
}

func bit(c *Cpu) {
	v := c.operand()
	c.Rg.Spc.Ps.Set(Z, (v&c.Rg.Gp.Ac.Val) == 0)
	c.Rg.Spc.Ps.Set(V, v&0x40 != 0)
	c.Rg.Spc.Ps.Set(N, v&0x80 != 0)
}

func clc(c *Cpu) { c.Rg.Spc.Ps.Set(C, false) }
func sec(c *Cpu) { c.Rg.Spc.Ps.Set(C, true) }
func cld(c *Cpu) { c.Rg.Spc.Ps.Set(D, false) }
func sed(c *Cpu) { c.Rg.Spc.Ps.Set(D, true) }
func cli(c *Cpu) { c.Rg.Spc.Ps.Set(I, false) }
func sei(c *Cpu) { c.Rg.Spc.Ps.Set(I, true) }
func clv(c *Cpu) { c.Rg.Spc.Ps.Set(V, false) }

func jmp(c *Cpu) { c.Rg.Spc.Pc.Val = c.addr }

func bpl(c *Cpu) { c.branch(!c.Rg.Spc.Ps.Get(N)) }
func bmi(c *Cpu) { c.branch(c.Rg.Spc.Ps.Get(N)) }
func bvc(c *Cpu) { c.branch(!c.Rg.Spc.Ps.Get(V)) }
func bvs(c *Cpu) { c.branch(c.Rg.Spc.Ps.Get(V)) }
func bcc(c *Cpu) { c.branch(!c.Rg.Spc.Ps.Get(C)) }
func bcs(c *Cpu) { c.branch(c.Rg.Spc.Ps.Get(C)) }
func bne(c *Cpu) { c.branch(!c.Rg.Spc.Ps.Get(Z)) }
func beq(c *Cpu) { c.branch(c.Rg.Spc.Ps.Get(Z)) }

func jsr(c *Cpu) {
	c.push16(c.Rg.Spc.Pc.Val - 1)
	c.Rg.Spc.Pc.Val = c.addr
}
func rts(c *Cpu) { c.Rg.Spc.Pc.Val = c.pull16() + 1 }
func rti(c *Cpu) {
	c.Rg.Spc.Ps.Write(c.pull8())
	c.Rg.Spc.Pc.Val = c.pull16()
}

func brk(c *Cpu) {
	c.push16(c.Rg.Spc.Pc.Val)
	c.push8(c.Rg.Spc.Ps.Read() | BB | BE)
	c.Rg.Spc.Ps.Set(I, true)
	c.Rg.Spc.Pc.Val = c.Read16(0xFFFE)
}

func nop(c *Cpu) {}

func ora(c *Cpu) { c.Rg.Gp.Ac.Val |= c.operand(); c.Rg.Spc.Ps.setZN(c.Rg.Gp.Ac.Val) }
func and(c *Cpu) { c.Rg.Gp.Ac.Val &= c.operand(); c.Rg.Spc.Ps.setZN(c.Rg.Gp.Ac.Val) }
func eor(c *Cpu) { c.Rg.Gp.Ac.Val ^= c.operand(); c.Rg.Spc.Ps.setZN(c.Rg.Gp.Ac.Val) }

func adc(c *Cpu) {
	a := c.Rg.Gp.Ac.Val
	b := c.operand()
	carry := uint16(0)
	if c.Rg.Spc.Ps.Get(C) {
		carry = 1
	}
	result := uint16(a) + uint16(b) + carry
	c.Rg.Gp.Ac.Val = uint8(result)
	c.Rg.Spc.Ps.Set(C, result > 0xFF)
	c.Rg.Spc.Ps.setZN(c.Rg.Gp.Ac.Val)
	c.Rg.Spc.Ps.Set(V, (a^b)&0x80 == 0 && (uint16(a)^result)&0x80 != 0)
}

func sbc(c *Cpu) {
	a := c.Rg.Gp.Ac.Val
	b := c.operand()
	carry := uint16(0)
	if c.Rg.Spc.Ps.Get(C) {
		carry = 1
	}
	result := uint16(a) - uint16(b) - (1 - carry)
	c.Rg.Gp.Ac.Val = uint8(result)
	c.Rg.Spc.Ps.Set(C, result < 0x100)
	c.Rg.Spc.Ps.setZN(c.Rg.Gp.Ac.Val)
	c.Rg.Spc.Ps.Set(V, (a^b)&0x80 != 0 && (uint16(a)^result)&0x80 != 0)
}

func compare(c *Cpu, reg uint8) {
	v := c.operand()
	result := reg - v
	c.Rg.Spc.Ps.Set(C, reg >= v)
	c.Rg.Spc.Ps.setZN(result)
}

func cmp(c *Cpu) { compare(c, c.Rg.Gp.Ac.Val) }
func cpx(c *Cpu) { compare(c, c.Rg.Gp.Ix.X.Val) }
func cpy(c *Cpu) { compare(c, c.Rg.Gp.Ix.Y.Val) }

func dec(c *Cpu) { v := c.operand() - 1; c.storeResult(v); c.Rg.Spc.Ps.setZN(v) }
func dex(c *Cpu) { c.Rg.Gp.Ix.X.Val--; c.Rg.Spc.Ps.setZN(c.Rg.Gp.Ix.X.Val) }
func dey(c *Cpu) { c.Rg.Gp.Ix.Y.Val--; c.Rg.Spc.Ps.setZN(c.Rg.Gp.Ix.Y.Val) }
func inc(c *Cpu) { v := c.operand() + 1; c.storeResult(v); c.Rg.Spc.Ps.setZN(v) }
func inx(c *Cpu) { c.Rg.Gp.Ix.X.Val++; c.Rg.Spc.Ps.setZN(c.Rg.Gp.Ix.X.Val) }
func iny(c *Cpu) { c.Rg.Gp.Ix.Y.Val++; c.Rg.Spc.Ps.setZN(c.Rg.Gp.Ix.Y.Val) }

func asl(c *Cpu) {
	v := c.operand()
	c.Rg.Spc.Ps.Set(C, v&0x80 != 0)
	v <<= 1
	c.storeResult(v)
	c.Rg.Spc.Ps.setZN(v)
}
func lsr(c *Cpu) {
	v := c.operand()
	c.Rg.Spc.Ps.Set(C, v&0x01 != 0)
	v >>= 1
	c.storeResult(v)
	c.Rg.Spc.Ps.setZN(v)
}
func rol(c *Cpu) {
	v := c.operand()
	oldC := uint8(0)
	if c.Rg.Spc.Ps.Get(C) {
		oldC = 1
	}
	c.Rg.Spc.Ps.Set(C, v&0x80 != 0)
	v = (v << 1) | oldC
	c.storeResult(v)
	c.Rg.Spc.Ps.setZN(v)
}
func ror(c *Cpu) {
	v := c.operand()
	oldC := uint8(0)
	if c.Rg.Spc.Ps.Get(C) {
		oldC = 0x80
	}
	c.Rg.Spc.Ps.Set(C, v&0x01 != 0)
	v = (v >> 1) | oldC
	c.storeResult(v)
	c.Rg.Spc.Ps.setZN(v)
}
