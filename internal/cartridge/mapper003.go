package cartridge

import "nescore/internal/common"

// mapperCNROM implements mapper 3 (CNROM): fixed PRG, switchable 8KB CHR
// bank selected by the low two bits of any $8000+ write.
type mapperCNROM struct {
	cart    *Cartridge
	chrBank common.Byte
	oneBank bool
}

func newMapperCNROM(cart *Cartridge) *mapperCNROM {
	return &mapperCNROM{
		cart:    cart,
		oneBank: cart.PRGBanks() == 1,
	}
}

func (m *mapperCNROM) ReadPRG(addr common.Address) common.Byte {
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

func (m *mapperCNROM) WritePRG(addr common.Address, value common.Byte) {
	if addr >= 0x8000 {
		m.chrBank = value & 3
		return
	}
	if addr >= 0x6000 {
		m.cart.sram[addr-0x6000] = value
	}
}

func (m *mapperCNROM) ReadCHR(addr common.Address) common.Byte {
	if addr < 0x2000 {
		return m.cart.chrROM[(int(m.chrBank)*0x2000+int(addr))%len(m.cart.chrROM)]
	}
	return 0
}

func (m *mapperCNROM) WriteCHR(addr common.Address, value common.Byte) {
	// CNROM carts carry CHR ROM; writes have no effect.
}

func (m *mapperCNROM) Mirroring() MirrorMode { return m.cart.mirror }

func (m *mapperCNROM) State() MapperState {
	var st MapperState
	st.Registers[0] = m.chrBank
	m.cart.saveMemory(&st)
	return st
}

func (m *mapperCNROM) SetState(st MapperState) {
	m.chrBank = st.Registers[0]
	m.cart.loadMemory(&st)
}
