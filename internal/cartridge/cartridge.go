// Package cartridge implements iNES ROM image parsing and the cartridge
// mapper variants.
package cartridge

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"nescore/internal/common"
)

// Configuration-fatal load errors. Anything that fails here must prevent
// the emulator from stepping.
var (
	ErrBadMagic          = errors.New("cartridge: not an iNES image")
	ErrNoPRGROM          = errors.New("cartridge: header declares zero PRG ROM banks")
	ErrTruncated         = errors.New("cartridge: image shorter than the declared banks")
	ErrUnsupportedMapper = errors.New("cartridge: unsupported mapper id")
)

// MirrorMode selects how the two physical nametables are laid out across
// the four logical ones.
type MirrorMode common.Byte

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
	MirrorSingleScreen0
	MirrorSingleScreen1
	MirrorFourScreen
)

// Cartridge holds the parsed ROM image and header metadata. The ROM banks
// are immutable after load; only PRG RAM and CHR RAM (when present) are
// writable, and always through a Mapper.
type Cartridge struct {
	prgROM []common.Byte
	chrROM []common.Byte

	mapperID common.Byte
	mirror   MirrorMode

	hasBattery bool
	hasCHRRAM  bool

	// 8KB PRG RAM window at $6000-$7FFF, battery-backed or not.
	sram [0x2000]common.Byte
}

// iNES file header: magic, bank counts, then flag bytes.
type inesHeader struct {
	Magic      [4]common.Byte
	PRGROMSize common.Byte // 16KB units
	CHRROMSize common.Byte // 8KB units
	Flags6     common.Byte
	Flags7     common.Byte
	PRGRAMSize common.Byte
	TVSystem1  common.Byte
	TVSystem2  common.Byte
	Padding    [5]common.Byte
}

// LoadFromFile parses an iNES image from disk.
func LoadFromFile(path string) (*Cartridge, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cartridge: %w", err)
	}
	defer file.Close()

	return LoadFromReader(file)
}

// LoadFromReader parses an iNES image: header, optional trainer, PRG banks,
// CHR banks, in that order. Truncated banks are a fatal load error.
func LoadFromReader(r io.Reader) (*Cartridge, error) {
	var header inesHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}

	if string(header.Magic[:]) != "NES\x1a" {
		return nil, ErrBadMagic
	}
	if header.PRGROMSize == 0 {
		return nil, ErrNoPRGROM
	}

	cart := &Cartridge{
		mapperID:   (header.Flags6 >> 4) | (header.Flags7 & 0xF0),
		hasBattery: header.Flags6&0x02 != 0,
	}

	switch {
	case header.Flags6&0x08 != 0:
		cart.mirror = MirrorFourScreen
	case header.Flags6&0x01 != 0:
		cart.mirror = MirrorVertical
	default:
		cart.mirror = MirrorHorizontal
	}

	// Skip the 512-byte trainer if the header declares one.
	if header.Flags6&0x04 != 0 {
		if _, err := io.CopyN(io.Discard, r, 512); err != nil {
			return nil, fmt.Errorf("%w: trainer", ErrTruncated)
		}
	}

	cart.prgROM = make([]common.Byte, int(header.PRGROMSize)*0x4000)
	if _, err := io.ReadFull(r, cart.prgROM); err != nil {
		return nil, fmt.Errorf("%w: PRG ROM", ErrTruncated)
	}

	if header.CHRROMSize > 0 {
		cart.chrROM = make([]common.Byte, int(header.CHRROMSize)*0x2000)
		if _, err := io.ReadFull(r, cart.chrROM); err != nil {
			return nil, fmt.Errorf("%w: CHR ROM", ErrTruncated)
		}
	} else {
		// No CHR ROM means the board carries 8KB of CHR RAM instead.
		cart.chrROM = make([]common.Byte, 0x2000)
		cart.hasCHRRAM = true
	}

	return cart, nil
}

// MapperID returns the mapper id from the iNES header.
func (c *Cartridge) MapperID() common.Byte { return c.mapperID }

// Mirroring returns the nametable mirroring declared by the header.
func (c *Cartridge) Mirroring() MirrorMode { return c.mirror }

// HasBattery reports whether the PRG RAM is battery-backed.
func (c *Cartridge) HasBattery() bool { return c.hasBattery }

// HasCHRRAM reports whether the pattern tables are RAM rather than ROM.
func (c *Cartridge) HasCHRRAM() bool { return c.hasCHRRAM }

// PRGBanks returns the number of 16KB PRG ROM banks.
func (c *Cartridge) PRGBanks() int { return len(c.prgROM) / 0x4000 }

// CHRBanks returns the number of 8KB CHR banks.
func (c *Cartridge) CHRBanks() int { return len(c.chrROM) / 0x2000 }

// saveMemory copies the cartridge's mutable memory into a mapper snapshot.
func (c *Cartridge) saveMemory(st *MapperState) {
	st.PRGRAM = c.sram
	if c.hasCHRRAM {
		st.CHRRAM = make([]common.Byte, len(c.chrROM))
		copy(st.CHRRAM, c.chrROM)
	}
}

// loadMemory restores the cartridge's mutable memory from a mapper snapshot.
func (c *Cartridge) loadMemory(st *MapperState) {
	c.sram = st.PRGRAM
	if c.hasCHRRAM && len(st.CHRRAM) == len(c.chrROM) {
		copy(c.chrROM, st.CHRRAM)
	}
}
