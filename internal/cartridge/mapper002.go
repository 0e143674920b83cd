package cartridge

import "nescore/internal/common"

// mapperUNROM implements mapper 2 (UxROM): a switchable 16KB PRG bank at
// $8000 and the last bank fixed at $C000. CHR is always 8KB of RAM or ROM.
type mapperUNROM struct {
	cart     *Cartridge
	bank     common.Byte
	lastBank int
}

func newMapperUNROM(cart *Cartridge) *mapperUNROM {
	return &mapperUNROM{
		cart:     cart,
		lastBank: cart.PRGBanks() - 1,
	}
}

func (m *mapperUNROM) ReadPRG(addr common.Address) common.Byte {
	if addr >= 0xC000 {
		return m.cart.prgROM[m.lastBank*0x4000+int(addr-0xC000)]
	}
	if addr >= 0x8000 {
		return m.cart.prgROM[int(m.bank)*0x4000+int(addr-0x8000)]
	}
	if addr >= 0x6000 {
		return m.cart.sram[addr-0x6000]
	}
	return 0
}

func (m *mapperUNROM) WritePRG(addr common.Address, value common.Byte) {
	if addr >= 0x8000 {
		m.bank = value % common.Byte(m.cart.PRGBanks())
		return
	}
	if addr >= 0x6000 {
		m.cart.sram[addr-0x6000] = value
	}
}

func (m *mapperUNROM) ReadCHR(addr common.Address) common.Byte {
	if addr < 0x2000 {
		return m.cart.chrROM[addr]
	}
	return 0
}

func (m *mapperUNROM) WriteCHR(addr common.Address, value common.Byte) {
	if addr < 0x2000 && m.cart.hasCHRRAM {
		m.cart.chrROM[addr] = value
	}
}

func (m *mapperUNROM) Mirroring() MirrorMode { return m.cart.mirror }

func (m *mapperUNROM) State() MapperState {
	var st MapperState
	st.Registers[0] = m.bank
	m.cart.saveMemory(&st)
	return st
}

func (m *mapperUNROM) SetState(st MapperState) {
	m.bank = st.Registers[0]
	m.cart.loadMemory(&st)
}
