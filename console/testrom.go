package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// LoadEasyCode loads a hex dump from https://skilldrick.github.io/easy6502/,
// e.g.:
//
//	0600: a9 01 85 02 a9 cc 8d 00 01 a9 01 8d 01 00 a9 00
//	0610: a9 05 a 8e 00 02 a9 05 8d 01 02 a9 08 8d 02 02
//
// into the console's address space, writing the first line's address into
// the reset vector and re-resetting the CPU to start execution there. Used
// by tests that exercise the CPU/PPU/APU without a real ROM image (Cart is
// left at Cartridge.defaultInit's writable NROM). Ported from the
// teacher's lib/nesInternal/nes.go loadEasyCode.
func (c *Console) LoadEasyCode(code string) {
	first := true
	for _, line := range strings.Split(strings.TrimSuffix(code, "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		addr := 0
		var bt [16]int
		_, err := fmt.Sscanf(line, "%X: %X %X %X %X %X %X %X %X %X %X %X %X %X %X %X %X ",
			&addr, &bt[0], &bt[1], &bt[2], &bt[3], &bt[4], &bt[5], &bt[6], &bt[7],
			&bt[8], &bt[9], &bt[10], &bt[11], &bt[12], &bt[13], &bt[14], &bt[15])
		if err != nil && err != io.EOF {
			logrus.WithError(err).WithField("line", line).Warn("LoadEasyCode: malformed line")
		}

		if first {
			c.Cpu.Write8(0xFFFC, uint8(addr&0xFF))
			c.Cpu.Write8(0xFFFD, uint8(addr>>8))
			first = false
		}

		for i, b := range bt {
			c.Cpu.Write8(uint16(addr+i), uint8(b))
		}
	}
	c.Cpu.Reset()
}
