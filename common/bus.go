// Package common holds the shared plumbing every other nesgo package is
// built on: the register abstraction, the bus dispatch table, raw RAM/ROM
// storage, nametable mirroring, controllers and OAM-DMA.
package common

// BusInt is the minimal interface every device connected to a Bus exposes.
type BusInt interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, val uint8)
}

// BusExtInt additionally exposes 16-bit little-endian helpers, used by the
// CPU for operand/vector fetches.
type BusExtInt interface {
	BusInt
	Read16(addr uint16) uint16
	Write16(addr uint16, val uint16)
}

// BusMapInt associates a BusInt with the map slot it was Connect-ed to.
type BusMapInt struct {
	mapId uint
	BusInt
}

// Bus multiplexes reads/writes to one of a fixed set of devices, selected by
// the caller via GetBusInt. Mirrors the teacher's CPU/PPU/DMA/APU map-id
// dispatch pattern (lib/common/bus.go).
type Bus struct {
	maps []BusMapInt
}

func (b *Bus) Init() {
	b.maps = make([]BusMapInt, 4)
}

func (b *Bus) Connect(mapId int, busInt BusInt) {
	b.maps[mapId] = BusMapInt{mapId: uint(mapId), BusInt: busInt}
}

func (b *Bus) GetBusInt(mapId int) BusInt {
	return b.maps[mapId].BusInt
}

// IiInterrupt is implemented by the CPU; the PPU raises NMI and the APU/
// mappers raise IRQ through it.
type IiInterrupt interface {
	Raise(uint8)
	Clear(uint8)
}

// IrqSource is polled by the CPU at every instruction boundary. IRQ is
// level-triggered from several independent peers (the APU frame sequencer,
// its DMC channel, an MMC3 mapper's scanline counter); each owns its line
// rather than sharing one sticky bit that any one of them could clear out
// from under the others.
type IrqSource interface {
	IRQ() bool
}
