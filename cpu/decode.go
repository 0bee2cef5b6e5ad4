package cpu

// setupIns builds the 256-entry opcode decode table. No copy of this table
// exists anywhere in the gones tree that this module is grounded on — both
// nes/cpu.go and nes/cpu/cpu.go reference a setupIns() that builds `ins`
// but neither defines it, so this table is authored from the canonical
// NMOS 6502 opcode matrix (the same public-domain reference matrix every
// 6502 emulator's decode table is built from), using the teacher's own
// addressing-mode constants and eval function set as the building blocks.
//
// Unofficial opcodes (spec.md §9 Open Questions) dispatch to nop, except
// 0xEB, which runs the real sbc handler (it behaves like 0xE9): the
// spec only requires that they consume the correct byte length and cycle
// count, not that they reproduce real hardware's side effects.
func setupIns(c *Cpu) {
	type row struct {
		name       string
		mode       int
		size       uint8
		cycles     uint8
		pageCycles uint8
		eval       func(c *Cpu)
	}

	A, AX, AY, AC, IM, IP := ModeAbsolute, ModeAbsoluteX, ModeAbsoluteY, ModeAccumulator, ModeImmediate, ModeImplied
	II, ID, IY, RE, Z, ZX, ZY := ModeIndexedIndirect, ModeIndirect, ModeIndirectIndexed, ModeRelative, ModeZeroPage, ModeZeroPageX, ModeZeroPageY

	table := [256]row{
		0x00: {"brk", IP, 2, 7, 0, brk}, 0x01: {"ora", II, 2, 6, 0, ora}, 0x02: {"kil", IP, 1, 2, 0, nop}, 0x03: {"slo", II, 2, 8, 0, nop},
		0x04: {"nop", Z, 2, 3, 0, nop}, 0x05: {"ora", Z, 2, 3, 0, ora}, 0x06: {"asl", Z, 2, 5, 0, asl}, 0x07: {"slo", Z, 2, 5, 0, nop},
		0x08: {"php", IP, 1, 3, 0, php}, 0x09: {"ora", IM, 2, 2, 0, ora}, 0x0A: {"asl", AC, 1, 2, 0, asl}, 0x0B: {"anc", IM, 2, 2, 0, nop},
		0x0C: {"nop", A, 3, 4, 0, nop}, 0x0D: {"ora", A, 3, 4, 0, ora}, 0x0E: {"asl", A, 3, 6, 0, asl}, 0x0F: {"slo", A, 3, 6, 0, nop},

		0x10: {"bpl", RE, 2, 2, 0, bpl}, 0x11: {"ora", IY, 2, 5, 1, ora}, 0x12: {"kil", IP, 1, 2, 0, nop}, 0x13: {"slo", IY, 2, 8, 0, nop},
		0x14: {"nop", ZX, 2, 4, 0, nop}, 0x15: {"ora", ZX, 2, 4, 0, ora}, 0x16: {"asl", ZX, 2, 6, 0, asl}, 0x17: {"slo", ZX, 2, 6, 0, nop},
		0x18: {"clc", IP, 1, 2, 0, clc}, 0x19: {"ora", AY, 3, 4, 1, ora}, 0x1A: {"nop", IP, 1, 2, 0, nop}, 0x1B: {"slo", AY, 3, 7, 0, nop},
		0x1C: {"nop", AX, 3, 4, 1, nop}, 0x1D: {"ora", AX, 3, 4, 1, ora}, 0x1E: {"asl", AX, 3, 7, 0, asl}, 0x1F: {"slo", AX, 3, 7, 0, nop},

		0x20: {"jsr", A, 3, 6, 0, jsr}, 0x21: {"and", II, 2, 6, 0, and}, 0x22: {"kil", IP, 1, 2, 0, nop}, 0x23: {"rla", II, 2, 8, 0, nop},
		0x24: {"bit", Z, 2, 3, 0, bit}, 0x25: {"and", Z, 2, 3, 0, and}, 0x26: {"rol", Z, 2, 5, 0, rol}, 0x27: {"rla", Z, 2, 5, 0, nop},
		0x28: {"plp", IP, 1, 4, 0, plp}, 0x29: {"and", IM, 2, 2, 0, and}, 0x2A: {"rol", AC, 1, 2, 0, rol}, 0x2B: {"anc", IM, 2, 2, 0, nop},
		0x2C: {"bit", A, 3, 4, 0, bit}, 0x2D: {"and", A, 3, 4, 0, and}, 0x2E: {"rol", A, 3, 6, 0, rol}, 0x2F: {"rla", A, 3, 6, 0, nop},

		0x30: {"bmi", RE, 2, 2, 0, bmi}, 0x31: {"and", IY, 2, 5, 1, and}, 0x32: {"kil", IP, 1, 2, 0, nop}, 0x33: {"rla", IY, 2, 8, 0, nop},
		0x34: {"nop", ZX, 2, 4, 0, nop}, 0x35: {"and", ZX, 2, 4, 0, and}, 0x36: {"rol", ZX, 2, 6, 0, rol}, 0x37: {"rla", ZX, 2, 6, 0, nop},
		0x38: {"sec", IP, 1, 2, 0, sec}, 0x39: {"and", AY, 3, 4, 1, and}, 0x3A: {"nop", IP, 1, 2, 0, nop}, 0x3B: {"rla", AY, 3, 7, 0, nop},
		0x3C: {"nop", AX, 3, 4, 1, nop}, 0x3D: {"and", AX, 3, 4, 1, and}, 0x3E: {"rol", AX, 3, 7, 0, rol}, 0x3F: {"rla", AX, 3, 7, 0, nop},

		0x40: {"rti", IP, 1, 6, 0, rti}, 0x41: {"eor", II, 2, 6, 0, eor}, 0x42: {"kil", IP, 1, 2, 0, nop}, 0x43: {"sre", II, 2, 8, 0, nop},
		0x44: {"nop", Z, 2, 3, 0, nop}, 0x45: {"eor", Z, 2, 3, 0, eor}, 0x46: {"lsr", Z, 2, 5, 0, lsr}, 0x47: {"sre", Z, 2, 5, 0, nop},
		0x48: {"pha", IP, 1, 3, 0, pha}, 0x49: {"eor", IM, 2, 2, 0, eor}, 0x4A: {"lsr", AC, 1, 2, 0, lsr}, 0x4B: {"alr", IM, 2, 2, 0, nop},
		0x4C: {"jmp", A, 3, 3, 0, jmp}, 0x4D: {"eor", A, 3, 4, 0, eor}, 0x4E: {"lsr", A, 3, 6, 0, lsr}, 0x4F: {"sre", A, 3, 6, 0, nop},

		0x50: {"bvc", RE, 2, 2, 0, bvc}, 0x51: {"eor", IY, 2, 5, 1, eor}, 0x52: {"kil", IP, 1, 2, 0, nop}, 0x53: {"sre", IY, 2, 8, 0, nop},
		0x54: {"nop", ZX, 2, 4, 0, nop}, 0x55: {"eor", ZX, 2, 4, 0, eor}, 0x56: {"lsr", ZX, 2, 6, 0, lsr}, 0x57: {"sre", ZX, 2, 6, 0, nop},
		0x58: {"cli", IP, 1, 2, 0, cli}, 0x59: {"eor", AY, 3, 4, 1, eor}, 0x5A: {"nop", IP, 1, 2, 0, nop}, 0x5B: {"sre", AY, 3, 7, 0, nop},
		0x5C: {"nop", AX, 3, 4, 1, nop}, 0x5D: {"eor", AX, 3, 4, 1, eor}, 0x5E: {"lsr", AX, 3, 7, 0, lsr}, 0x5F: {"sre", AX, 3, 7, 0, nop},

		0x60: {"rts", IP, 1, 6, 0, rts}, 0x61: {"adc", II, 2, 6, 0, adc}, 0x62: {"kil", IP, 1, 2, 0, nop}, 0x63: {"rra", II, 2, 8, 0, nop},
		0x64: {"nop", Z, 2, 3, 0, nop}, 0x65: {"adc", Z, 2, 3, 0, adc}, 0x66: {"ror", Z, 2, 5, 0, ror}, 0x67: {"rra", Z, 2, 5, 0, nop},
		0x68: {"pla", IP, 1, 4, 0, pla}, 0x69: {"adc", IM, 2, 2, 0, adc}, 0x6A: {"ror", AC, 1, 2, 0, ror}, 0x6B: {"arr", IM, 2, 2, 0, nop},
		0x6C: {"jmp", ID, 3, 5, 0, jmp}, 0x6D: {"adc", A, 3, 4, 0, adc}, 0x6E: {"ror", A, 3, 6, 0, ror}, 0x6F: {"rra", A, 3, 6, 0, nop},

		0x70: {"bvs", RE, 2, 2, 0, bvs}, 0x71: {"adc", IY, 2, 5, 1, adc}, 0x72: {"kil", IP, 1, 2, 0, nop}, 0x73: {"rra", IY, 2, 8, 0, nop},
		0x74: {"nop", ZX, 2, 4, 0, nop}, 0x75: {"adc", ZX, 2, 4, 0, adc}, 0x76: {"ror", ZX, 2, 6, 0, ror}, 0x77: {"rra", ZX, 2, 6, 0, nop},
		0x78: {"sei", IP, 1, 2, 0, sei}, 0x79: {"adc", AY, 3, 4, 1, adc}, 0x7A: {"nop", IP, 1, 2, 0, nop}, 0x7B: {"rra", AY, 3, 7, 0, nop},
		0x7C: {"nop", AX, 3, 4, 1, nop}, 0x7D: {"adc", AX, 3, 4, 1, adc}, 0x7E: {"ror", AX, 3, 7, 0, ror}, 0x7F: {"rra", AX, 3, 7, 0, nop},

		0x80: {"nop", IM, 2, 2, 0, nop}, 0x81: {"sta", II, 2, 6, 0, sta}, 0x82: {"nop", IM, 2, 2, 0, nop}, 0x83: {"sax", II, 2, 6, 0, nop},
		0x84: {"sty", Z, 2, 3, 0, sty}, 0x85: {"sta", Z, 2, 3, 0, sta}, 0x86: {"stx", Z, 2, 3, 0, stx}, 0x87: {"sax", Z, 2, 3, 0, nop},
		0x88: {"dey", IP, 1, 2, 0, dey}, 0x89: {"nop", IM, 2, 2, 0, nop}, 0x8A: {"txa", IP, 1, 2, 0, txa}, 0x8B: {"xaa", IM, 2, 2, 0, nop},
		0x8C: {"sty", A, 3, 4, 0, sty}, 0x8D: {"sta", A, 3, 4, 0, sta}, 0x8E: {"stx", A, 3, 4, 0, stx}, 0x8F: {"sax", A, 3, 4, 0, nop},

		0x90: {"bcc", RE, 2, 2, 0, bcc}, 0x91: {"sta", IY, 2, 6, 0, sta}, 0x92: {"kil", IP, 1, 2, 0, nop}, 0x93: {"ahx", IY, 2, 6, 0, nop},
		0x94: {"sty", ZX, 2, 4, 0, sty}, 0x95: {"sta", ZX, 2, 4, 0, sta}, 0x96: {"stx", ZY, 2, 4, 0, stx}, 0x97: {"sax", ZY, 2, 4, 0, nop},
		0x98: {"tya", IP, 1, 2, 0, tya}, 0x99: {"sta", AY, 3, 5, 0, sta}, 0x9A: {"txs", IP, 1, 2, 0, txs}, 0x9B: {"tas", AY, 3, 5, 0, nop},
		0x9C: {"shy", AX, 3, 5, 0, nop}, 0x9D: {"sta", AX, 3, 5, 0, sta}, 0x9E: {"shx", AY, 3, 5, 0, nop}, 0x9F: {"ahx", AY, 3, 5, 0, nop},

		0xA0: {"ldy", IM, 2, 2, 0, ldy}, 0xA1: {"lda", II, 2, 6, 0, lda}, 0xA2: {"ldx", IM, 2, 2, 0, ldx}, 0xA3: {"lax", II, 2, 6, 0, nop},
		0xA4: {"ldy", Z, 2, 3, 0, ldy}, 0xA5: {"lda", Z, 2, 3, 0, lda}, 0xA6: {"ldx", Z, 2, 3, 0, ldx}, 0xA7: {"lax", Z, 2, 3, 0, nop},
		0xA8: {"tay", IP, 1, 2, 0, tay}, 0xA9: {"lda", IM, 2, 2, 0, lda}, 0xAA: {"tax", IP, 1, 2, 0, tax}, 0xAB: {"lax", IM, 2, 2, 0, nop},
		0xAC: {"ldy", A, 3, 4, 0, ldy}, 0xAD: {"lda", A, 3, 4, 0, lda}, 0xAE: {"ldx", A, 3, 4, 0, ldx}, 0xAF: {"lax", A, 3, 4, 0, nop},

		0xB0: {"bcs", RE, 2, 2, 0, bcs}, 0xB1: {"lda", IY, 2, 5, 1, lda}, 0xB2: {"kil", IP, 1, 2, 0, nop}, 0xB3: {"lax", IY, 2, 5, 1, nop},
		0xB4: {"ldy", ZX, 2, 4, 0, ldy}, 0xB5: {"lda", ZX, 2, 4, 0, lda}, 0xB6: {"ldx", ZY, 2, 4, 0, ldx}, 0xB7: {"lax", ZY, 2, 4, 0, nop},
		0xB8: {"clv", IP, 1, 2, 0, clv}, 0xB9: {"lda", AY, 3, 4, 1, lda}, 0xBA: {"tsx", IP, 1, 2, 0, tsx}, 0xBB: {"las", AY, 3, 4, 1, nop},
		0xBC: {"ldy", AX, 3, 4, 1, ldy}, 0xBD: {"lda", AX, 3, 4, 1, lda}, 0xBE: {"ldx", AY, 3, 4, 1, ldx}, 0xBF: {"lax", AY, 3, 4, 1, nop},

		0xC0: {"cpy", IM, 2, 2, 0, cpy}, 0xC1: {"cmp", II, 2, 6, 0, cmp}, 0xC2: {"nop", IM, 2, 2, 0, nop}, 0xC3: {"dcp", II, 2, 8, 0, nop},
		0xC4: {"cpy", Z, 2, 3, 0, cpy}, 0xC5: {"cmp", Z, 2, 3, 0, cmp}, 0xC6: {"dec", Z, 2, 5, 0, dec}, 0xC7: {"dcp", Z, 2, 5, 0, nop},
		0xC8: {"iny", IP, 1, 2, 0, iny}, 0xC9: {"cmp", IM, 2, 2, 0, cmp}, 0xCA: {"dex", IP, 1, 2, 0, dex}, 0xCB: {"axs", IM, 2, 2, 0, nop},
		0xCC: {"cpy", A, 3, 4, 0, cpy}, 0xCD: {"cmp", A, 3, 4, 0, cmp}, 0xCE: {"dec", A, 3, 6, 0, dec}, 0xCF: {"dcp", A, 3, 6, 0, nop},

		0xD0: {"bne", RE, 2, 2, 0, bne}, 0xD1: {"cmp", IY, 2, 5, 1, cmp}, 0xD2: {"kil", IP, 1, 2, 0, nop}, 0xD3: {"dcp", IY, 2, 8, 0, nop},
		0xD4: {"nop", ZX, 2, 4, 0, nop}, 0xD5: {"cmp", ZX, 2, 4, 0, cmp}, 0xD6: {"dec", ZX, 2, 6, 0, dec}, 0xD7: {"dcp", ZX, 2, 6, 0, nop},
		0xD8: {"cld", IP, 1, 2, 0, cld}, 0xD9: {"cmp", AY, 3, 4, 1, cmp}, 0xDA: {"nop", IP, 1, 2, 0, nop}, 0xDB: {"dcp", AY, 3, 7, 0, nop},
		0xDC: {"nop", AX, 3, 4, 1, nop}, 0xDD: {"cmp", AX, 3, 4, 1, cmp}, 0xDE: {"dec", AX, 3, 7, 0, dec}, 0xDF: {"dcp", AX, 3, 7, 0, nop},

		0xE0: {"cpx", IM, 2, 2, 0, cpx}, 0xE1: {"sbc", II, 2, 6, 0, sbc}, 0xE2: {"nop", IM, 2, 2, 0, nop}, 0xE3: {"isc", II, 2, 8, 0, nop},
		0xE4: {"cpx", Z, 2, 3, 0, cpx}, 0xE5: {"sbc", Z, 2, 3, 0, sbc}, 0xE6: {"inc", Z, 2, 5, 0, inc}, 0xE7: {"isc", Z, 2, 5, 0, nop},
		0xE8: {"inx", IP, 1, 2, 0, inx}, 0xE9: {"sbc", IM, 2, 2, 0, sbc}, 0xEA: {"nop", IP, 1, 2, 0, nop}, 0xEB: {"sbc", IM, 2, 2, 0, sbc},
		0xEC: {"cpx", A, 3, 4, 0, cpx}, 0xED: {"sbc", A, 3, 4, 0, sbc}, 0xEE: {"inc", A, 3, 6, 0, inc}, 0xEF: {"isc", A, 3, 6, 0, nop},

		0xF0: {"beq", RE, 2, 2, 0, beq}, 0xF1: {"sbc", IY, 2, 5, 1, sbc}, 0xF2: {"kil", IP, 1, 2, 0, nop}, 0xF3: {"isc", IY, 2, 8, 0, nop},
		0xF4: {"nop", ZX, 2, 4, 0, nop}, 0xF5: {"sbc", ZX, 2, 4, 0, sbc}, 0xF6: {"inc", ZX, 2, 6, 0, inc}, 0xF7: {"isc", ZX, 2, 6, 0, nop},
		0xF8: {"sed", IP, 1, 2, 0, sed}, 0xF9: {"sbc", AY, 3, 4, 1, sbc}, 0xFA: {"nop", IP, 1, 2, 0, nop}, 0xFB: {"isc", AY, 3, 7, 0, nop},
		0xFC: {"nop", AX, 3, 4, 1, nop}, 0xFD: {"sbc", AX, 3, 4, 1, sbc}, 0xFE: {"inc", AX, 3, 7, 0, inc}, 0xFF: {"isc", AX, 3, 7, 0, nop},
	}

	for i, r := range table {
		c.ins[i] = Instruction{Name: r.name, Mode: r.mode, Size: r.size, Cycles: r.cycles, PageCycles: r.pageCycles, Eval: r.eval}
	}
}
