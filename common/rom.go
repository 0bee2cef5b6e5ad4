package common

import (
	"crypto/md5"
	"io"
)

// Rom is an immutable (unless marked writable, e.g. CHR-RAM) byte store
// backing PRG-ROM/PRG-RAM and CHR-ROM/CHR-RAM banks. Ported directly from
// lib/common/rom.go: the w-suffixed accessors take a uint32 so mappers can
// address banks beyond the 16-bit CPU/PPU address space.
type Rom struct {
	rom      []byte
	writable bool
}

func (r *Rom) Init(size int, writable bool) {
	r.rom = make([]byte, size)
	r.writable = writable
}

func (r *Rom) Size() int { return len(r.rom) }

func (r *Rom) Read8(addr uint16) uint8    { return r.rom[addr] }
func (r *Rom) Read8w(addr uint32) uint8   { return r.rom[addr] }

func (r *Rom) Read16(addr uint16) uint16 {
	return uint16(r.Read8(addr)) | uint16(r.Read8(addr+1))<<8
}

func (r *Rom) Write8(addr uint16, val uint8) { r.Write8w(uint32(addr), val) }
func (r *Rom) Write8w(addr uint32, val uint8) {
	if !r.writable {
		panic("rom is not writable")
	}
	r.rom[addr] = val
}

func (r *Rom) Write16(addr uint16, val uint16) {
	if !r.writable {
		panic("rom is not writable")
	}
	r.Write8(addr, uint8(val&0xFF))
	r.Write8(addr+1, uint8((val&0xFF00)>>8))
}

func (r *Rom) Hash() [md5.Size]byte { return md5.Sum(r.rom) }

func (r *Rom) LoadFromFile(file io.Reader) (int, error) { return io.ReadFull(file, r.rom) }
