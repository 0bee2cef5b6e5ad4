package cpu

import "nesgo/common"

// Flag bit positions within the P status byte (NV-BDIZC).
const (
	C = iota
	Z
	I
	D
	B
	E // unused bit, always 1 on push
	V
	N
)

// Flag bitmasks.
const (
	BC = 1 << C
	BZ = 1 << Z
	BI = 1 << I
	BD = 1 << D
	BB = 1 << B
	BE = 1 << E
	BV = 1 << V
	BN = 1 << N
)

// psRegister stores the CPU status byte as eight discrete bits rather than
// a packed byte (spec.md §9's design note), composing/decomposing on
// Read/Write. Set updates a single named flag from a boolean test, which is
// how every instruction touches Z/N/C/V. Write/Read handle the byte as a
// whole, which is the documented exception for PHP/PLP/BRK/interrupts.
type psRegister struct {
	bit [8]byte
}

func (p *psRegister) Read() uint8 {
	var v uint8
	for i, b := range p.bit {
		if b != 0 {
			v |= 1 << uint(i)
		}
	}
	v |= BE
	return v
}

func (p *psRegister) Write(value uint8) {
	for i := range p.bit {
		if value&(1<<uint(i)) != 0 {
			p.bit[i] = 1
		} else {
			p.bit[i] = 0
		}
	}
}

// Set sets or clears a single flag bit based on whether test is non-zero.
func (p *psRegister) Set(flag int, test bool) {
	if test {
		p.bit[flag] = 1
	} else {
		p.bit[flag] = 0
	}
}

func (p *psRegister) Get(flag int) bool { return p.bit[flag] != 0 }

// setZN sets Z and N from the low 8 bits of the given result, the common
// tail of almost every ALU/load/transfer instruction.
func (p *psRegister) setZN(v uint8) {
	p.Set(Z, v == 0)
	p.Set(N, v&0x80 != 0)
}

// spcRegisters: PC, SP, and status flags.
type spcRegisters struct {
	Pc common.Register16
	Sp common.Register
	Ps psRegister
}

func (s *spcRegisters) init() {
	s.Sp.Init("sp", 0xFD)
	s.Ps.Write(0x24) // I and E set, matches spec.md §3 reset flags = 0x24
}

type ixRegisters struct {
	X common.Register
	Y common.Register
}

type gpRegisters struct {
	Ac common.Register
	Ix ixRegisters
}

// Registers is the full CPU register file.
type Registers struct {
	Spc spcRegisters
	Gp  gpRegisters
}

func (r *Registers) Init() {
	r.Spc.init()
	r.Gp.Ac.Init("a", 0)
	r.Gp.Ix.X.Init("x", 0)
	r.Gp.Ix.Y.Init("y", 0)
}
