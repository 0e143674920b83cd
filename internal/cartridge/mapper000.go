package cartridge

import "nescore/internal/common"

// mapperNROM implements mapper 0 (NROM), the no-banking board: 16KB or
// 32KB of PRG ROM (16KB images mirror across the 32KB window), 8KB of CHR
// ROM or RAM, and 8KB of PRG RAM at $6000-$7FFF.
type mapperNROM struct {
	cart    *Cartridge
	oneBank bool // 16KB PRG image mirrored into both halves
}

func newMapperNROM(cart *Cartridge) *mapperNROM {
	return &mapperNROM{
		cart:    cart,
		oneBank: cart.PRGBanks() == 1,
	}
}

func (m *mapperNROM) ReadPRG(addr common.Address) common.Byte {
	if addr >= 0x8000 {
		offset := addr - 0x8000
		if m.oneBank {
			offset &= 0x3FFF
		}
		return m.cart.prgROM[offset]
	}
	if addr >= 0x6000 {
		return m.cart.sram[addr-0x6000]
	}
	return 0
}

func (m *mapperNROM) WritePRG(addr common.Address, value common.Byte) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.cart.sram[addr-0x6000] = value
	}
	// ROM window writes are ignored: NROM has no registers.
}

func (m *mapperNROM) ReadCHR(addr common.Address) common.Byte {
	if addr < 0x2000 {
		return m.cart.chrROM[addr]
	}
	return 0
}

func (m *mapperNROM) WriteCHR(addr common.Address, value common.Byte) {
	if addr < 0x2000 && m.cart.hasCHRRAM {
		m.cart.chrROM[addr] = value
	}
}

func (m *mapperNROM) Mirroring() MirrorMode { return m.cart.mirror }

func (m *mapperNROM) State() MapperState {
	var st MapperState
	m.cart.saveMemory(&st)
	return st
}

func (m *mapperNROM) SetState(st MapperState) {
	m.cart.loadMemory(&st)
}
