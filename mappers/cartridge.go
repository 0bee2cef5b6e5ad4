// Package mappers implements cartridge loading (iNES v1) and the memory
// bank-switching logic of mappers 0 (NROM), 1 (MMC1), 2 (UxROM), 3
// (CNROM), 4 (MMC3), and 7 (AxROM), spec.md §6. Grounded on the teacher's
// lib/mappers/cartridge.go, corrected to match spec.md exactly: mapper 2
// dispatches to UxROM rather than the teacher's mistaken MMC2 binding, and
// MMC3's IRQ counter (left a no-op stub in the teacher) is implemented.
package mappers

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/sirupsen/logrus"

	"nesgo/common"
)

var CartEndianness = binary.LittleEndian

// Mapper is the bank-switching logic plugged into a Cartridge. TickScanline
// is called once per visible/pre-render scanline at PPU cycle 280 (spec.md
// §4.4/§9's documented MMC3 IRQ proxy); mappers without scanline IRQs (all
// but MMC3) implement it as a no-op.
type Mapper interface {
	common.BusInt
	Init()
	TickScanline()
}

// MirrorSetter is implemented by the Ppu: a mapper's runtime mirroring
// change (MMC1/MMC3/AxROM control-register writes) is forwarded there
// rather than kept on the Cartridge, since the Ppu is what actually owns
// the nametable VRAM (see ppu.Ppu.Nametables).
type MirrorSetter interface {
	SetMirroring(common.NameTableMirroring)
}

// Cartridge owns PRG-ROM/RAM and CHR-ROM/RAM, and dispatches CPU/PPU-bus
// accesses through the selected Mapper. Satisfies ppu.CartBus structurally
// (PpuRead8/PpuWrite8/TickScanline). Does NOT own the nametable VRAM: that
// lives on the Ppu (InitialMirroring/FourScreen report the iNES header's
// values so console wiring can initialise it there).
type Cartridge struct {
	path   string
	config iNESConfig

	prgRom *common.Rom
	prgRam *common.Ram
	chr    *common.Rom

	mirrorTarget MirrorSetter

	Mapper Mapper
}

// Init loads an iNES v1 ROM file. An empty path builds a default NROM
// cartridge backed entirely by RAM, used by tests that soft-load code
// directly instead of via a ROM image (see console.LoadEasyCode).
func (c *Cartridge) Init(cartPath string) error {
	c.path = cartPath

	c.prgRom = new(common.Rom)
	c.prgRam = new(common.Ram)
	c.chr = new(common.Rom)

	if cartPath == "" {
		return c.defaultInit()
	}

	file, err := openROM(cartPath)
	if err != nil {
		return common.NewError(common.RomOpenFailure, err)
	}
	defer file.Close()

	header := iNESHeader{}
	if err := binary.Read(file, CartEndianness, &header); err != nil {
		return common.NewError(common.RomHeaderTruncated, err)
	}

	c.config, err = header.Config()
	if err != nil {
		return common.NewError(common.RomMagicMismatch, err)
	}

	if c.config.trainer {
		trainer := make([]byte, 512)
		if _, err := io.ReadFull(file, trainer); err != nil {
			return common.NewError(common.RomBodyTruncated, err)
		}
	}

	c.prgRom.Init(c.config.prgRomSize, false)
	if _, err := c.prgRom.LoadFromFile(file); err != nil {
		return common.NewError(common.RomBodyTruncated, err)
	}

	c.prgRam.Init(c.config.prgRamSize)
	if c.config.battery {
		if f, err := os.Open(c.sramPath()); err == nil {
			if _, err := c.prgRam.LoadFromFile(f); err != nil {
				logrus.WithError(common.NewError(common.SramReadFailure, err)).
					WithField("path", c.sramPath()).
					Warn("mappers: failed to load battery-backed SRAM, starting zeroed")
			}
			f.Close()
		}
	}

	if c.config.chrRomSize == 0 {
		c.chr.Init(0x2000, true)
	} else {
		c.chr.Init(c.config.chrRomSize, false)
		if _, err := c.chr.LoadFromFile(file); err != nil {
			return common.NewError(common.RomBodyTruncated, err)
		}
	}

	c.Mapper, err = c.newMapper(c.config.mapper)
	if err != nil {
		return err
	}
	c.Mapper.Init()
	return nil
}

// openROM opens cartPath for the iNES header/body read that follows. A
// ".7z" path is transparently unpacked in memory and the first ".nes"
// member inside is returned instead; anything else is opened directly.
// Grounded on user-none-eblitui/romloader/sevenzip.go's extractFrom7z,
// adapted from that package's byte-slice return into an io.ReadCloser so
// Cartridge.Init's existing io.Reader-based header/body parsing is
// unchanged either way.
func openROM(cartPath string) (io.ReadCloser, error) {
	if !strings.EqualFold(filepath.Ext(cartPath), ".7z") {
		return os.Open(cartPath)
	}

	r, err := sevenzip.OpenReader(cartPath)
	if err != nil {
		return nil, fmt.Errorf("mappers: open 7z archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !strings.EqualFold(filepath.Ext(f.Name), ".nes") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("mappers: open %s in archive: %w", f.Name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("mappers: read %s from archive: %w", f.Name, err)
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	return nil, fmt.Errorf("mappers: no .nes file found in %s", cartPath)
}

func (c *Cartridge) defaultInit() error {
	c.prgRom.Init(16384*4, true)
	c.chr.Init(16384, true)
	c.prgRam.Init(0x2000)
	c.Mapper = &MapperNROM{cart: c}
	c.Mapper.Init()
	return nil
}

// InitialMirroring reports the mirroring mode named by the iNES header,
// used once by console wiring to initialise the Ppu's NameTables.
func (c *Cartridge) InitialMirroring() common.NameTableMirroring {
	if c.config.mirror == 1 {
		return common.VerticalMirroring
	}
	return common.HorizontalMirroring
}

// FourScreen reports whether the iNES header's four-screen VRAM bit is
// set, used once by console wiring to allocate the Ppu's extra nametable
// RAM (common.NameTables.InitFourScreen).
func (c *Cartridge) FourScreen() bool { return c.config.fourScreen }

// SetMirrorTarget wires the live mirroring-change sink; called once by
// console wiring after both the Cartridge and the Ppu exist.
func (c *Cartridge) SetMirrorTarget(t MirrorSetter) { c.mirrorTarget = t }

func (c *Cartridge) newMapper(id byte) (Mapper, error) {
	switch id {
	case 0:
		return &MapperNROM{cart: c}, nil
	case 1:
		return &MapperMMC1{cart: c}, nil
	case 2:
		return &MapperUxROM{cart: c}, nil
	case 3:
		return &MapperCNROM{cart: c}, nil
	case 4:
		return &MapperMMC3{cart: c}, nil
	case 7:
		return &MapperAxROM{cart: c}, nil
	default:
		return nil, common.NewError(common.UnsupportedMapper, fmt.Errorf("mapper %d not supported", id))
	}
}

// SetMirroring lets a mapper change nametable mirroring at runtime (e.g.
// MMC1/MMC3 control-register writes); forwarded to the Ppu.
func (c *Cartridge) SetMirroring(m common.NameTableMirroring) {
	if c.mirrorTarget != nil {
		c.mirrorTarget.SetMirroring(m)
	}
}

// SetInterrupts wires the IRQ sink into mappers that can raise one (only
// MMC3 today); called once by console wiring after both the Cpu and the
// Cartridge exist.
func (c *Cartridge) SetInterrupts(intr common.IiInterrupt) {
	if mmc3, ok := c.Mapper.(*MapperMMC3); ok {
		mmc3.SetInterrupts(intr)
	}
}

// IRQ reports whether the selected Mapper's own IRQ line is asserted,
// letting the Cpu poll the Cartridge as a common.IrqSource without caring
// which mapper is loaded; mappers that never raise an IRQ (everything but
// MMC3) are simply never asserted.
func (c *Cartridge) IRQ() bool {
	if src, ok := c.Mapper.(common.IrqSource); ok {
		return src.IRQ()
	}
	return false
}

// Read8/Write8 implement common.BusInt for the $6000-$FFFF cartridge
// window; PpuRead8/PpuWrite8 implement ppu.CartBus for $0000-$1FFF CHR
// accesses. Both simply forward to the selected Mapper, which already
// knows how to decode both address spaces (see each mapper_*.go).
func (c *Cartridge) Read8(addr uint16) uint8      { return c.Mapper.Read8(addr) }
func (c *Cartridge) Write8(addr uint16, val uint8) { c.Mapper.Write8(addr, val) }

func (c *Cartridge) PpuRead8(addr uint16) uint8      { return c.Mapper.Read8(addr) }
func (c *Cartridge) PpuWrite8(addr uint16, val uint8) { c.Mapper.Write8(addr, val) }

func (c *Cartridge) TickScanline() { c.Mapper.TickScanline() }

// Stop persists battery-backed SRAM to <rompath>.srm, spec.md §6.3.
func (c *Cartridge) Stop() error {
	if !c.config.battery || c.path == "" {
		return nil
	}
	if err := c.prgRam.SaveToFile(c.sramPath()); err != nil {
		return common.NewError(common.SramWriteFailure, err)
	}
	return nil
}

func (c *Cartridge) sramPath() string { return c.path + ".srm" }
