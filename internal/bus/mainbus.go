package bus

import (
	"nescore/internal/cartridge"
	"nescore/internal/common"
)

// CPU-visible register addresses. PPU registers repeat every 8 bytes
// through $3FFF and are keyed here by their canonical address.
const (
	PPUCTRL   common.Address = 0x2000
	PPUMASK   common.Address = 0x2001
	PPUSTATUS common.Address = 0x2002
	OAMADDR   common.Address = 0x2003
	OAMDATA   common.Address = 0x2004
	PPUSCROL  common.Address = 0x2005
	PPUADDR   common.Address = 0x2006
	PPUDATA   common.Address = 0x2007
	OAMDMA    common.Address = 0x4014
	JOY1      common.Address = 0x4016
	JOY2      common.Address = 0x4017
)

// MainBus is the CPU address space: 2KiB of internal RAM mirrored through
// $1FFF, memory-mapped registers dispatched through callback tables, and
// cartridge space behind the mapper.
type MainBus struct {
	ram    [0x800]common.Byte
	mapper cartridge.Mapper

	readCallbacks  map[common.Address]func() common.Byte
	writeCallbacks map[common.Address]func(common.Byte)
}

func NewMainBus(mapper cartridge.Mapper) *MainBus {
	return &MainBus{
		mapper:         mapper,
		readCallbacks:  make(map[common.Address]func() common.Byte),
		writeCallbacks: make(map[common.Address]func(common.Byte)),
	}
}

// SetReadCallback registers the handler invoked when the CPU reads the
// given register address.
func (b *MainBus) SetReadCallback(addr common.Address, fn func() common.Byte) {
	b.readCallbacks[addr] = fn
}

// SetWriteCallback registers the handler invoked when the CPU writes the
// given register address.
func (b *MainBus) SetWriteCallback(addr common.Address, fn func(common.Byte)) {
	b.writeCallbacks[addr] = fn
}

func (b *MainBus) Read(addr common.Address) common.Byte {
	switch {
	case addr < 0x2000:
		return b.ram[addr&0x7FF]
	case addr < 0x4000:
		if fn, ok := b.readCallbacks[0x2000|(addr&7)]; ok {
			return fn()
		}
		return 0
	case addr < 0x4020:
		if fn, ok := b.readCallbacks[addr]; ok {
			return fn()
		}
		return 0
	case addr < 0x6000:
		// Expansion ROM, unused by the supported boards.
		return 0
	default:
		return b.mapper.ReadPRG(addr)
	}
}

func (b *MainBus) Write(addr common.Address, value common.Byte) {
	switch {
	case addr < 0x2000:
		b.ram[addr&0x7FF] = value
	case addr < 0x4000:
		if fn, ok := b.writeCallbacks[0x2000|(addr&7)]; ok {
			fn(value)
		}
	case addr < 0x4020:
		if fn, ok := b.writeCallbacks[addr]; ok {
			fn(value)
		}
		// APU registers land here and are silently dropped.
	case addr < 0x6000:
		// Expansion area, nothing mapped.
	default:
		b.mapper.WritePRG(addr, value)
	}
}

// RAM exposes the 2KiB work RAM for zero-copy observation.
func (b *MainBus) RAM() *[0x800]common.Byte { return &b.ram }
