package cartridge

import "nescore/internal/common"

// mapperMMC1 implements mapper 1 (MMC1). Registers are loaded one bit at a
// time through a five-write serial port at $8000-$FFFF; bit 7 of any write
// resets the shift register and forces PRG mode 3.
type mapperMMC1 struct {
	cart             *Cartridge
	mirroringChanged func()

	shift    common.Byte // serial load register, starts at 0x10
	control  common.Byte
	chrBank0 common.Byte
	chrBank1 common.Byte
	prgBank  common.Byte
}

func newMapperMMC1(cart *Cartridge, mirroringChanged func()) *mapperMMC1 {
	m := &mapperMMC1{
		cart:             cart,
		mirroringChanged: mirroringChanged,
		shift:            0x10,
		control:          0x0C, // PRG mode 3: fix last bank at $C000
	}
	return m
}

func (m *mapperMMC1) ReadPRG(addr common.Address) common.Byte {
	if addr >= 0x8000 {
		return m.cart.prgROM[m.prgOffset(addr)%len(m.cart.prgROM)]
	}
	if addr >= 0x6000 {
		return m.cart.sram[addr-0x6000]
	}
	return 0
}

func (m *mapperMMC1) prgOffset(addr common.Address) int {
	banks := m.cart.PRGBanks()
	// Bank numbers past the end of PRG ROM wrap, as on carts with fewer
	// banks than the register can address.
	bank := int(m.prgBank&0x0F) % banks
	last := banks - 1
	offset := int(addr - 0x8000)
	switch (m.control >> 2) & 3 {
	case 0, 1:
		// 32KB mode, low bit of bank ignored.
		return (bank&^1)*0x4000 + offset
	case 2:
		// Fix first bank at $8000, switch $C000.
		if offset < 0x4000 {
			return offset
		}
		return bank*0x4000 + (offset - 0x4000)
	default:
		// Fix last bank at $C000, switch $8000.
		if offset < 0x4000 {
			return bank*0x4000 + offset
		}
		return last*0x4000 + (offset - 0x4000)
	}
}

func (m *mapperMMC1) WritePRG(addr common.Address, value common.Byte) {
	if addr < 0x6000 {
		return
	}
	if addr < 0x8000 {
		m.cart.sram[addr-0x6000] = value
		return
	}
	if value&0x80 != 0 {
		m.shift = 0x10
		m.control |= 0x0C
		return
	}
	complete := m.shift&1 != 0
	m.shift = (m.shift >> 1) | ((value & 1) << 4)
	if !complete {
		return
	}
	loaded := m.shift
	m.shift = 0x10
	switch {
	case addr < 0xA000:
		m.setControl(loaded)
	case addr < 0xC000:
		m.chrBank0 = loaded
	case addr < 0xE000:
		m.chrBank1 = loaded
	default:
		m.prgBank = loaded
	}
}

func (m *mapperMMC1) setControl(value common.Byte) {
	old := m.control
	m.control = value
	if old&3 != value&3 && m.mirroringChanged != nil {
		m.mirroringChanged()
	}
}

func (m *mapperMMC1) chrOffset(addr common.Address) int {
	if m.control&0x10 == 0 {
		// 8KB mode, low bit of bank ignored.
		return int(m.chrBank0&^1)*0x1000 + int(addr)
	}
	if addr < 0x1000 {
		return int(m.chrBank0)*0x1000 + int(addr)
	}
	return int(m.chrBank1)*0x1000 + int(addr-0x1000)
}

func (m *mapperMMC1) ReadCHR(addr common.Address) common.Byte {
	if addr < 0x2000 {
		return m.cart.chrROM[m.chrOffset(addr)%len(m.cart.chrROM)]
	}
	return 0
}

func (m *mapperMMC1) WriteCHR(addr common.Address, value common.Byte) {
	if addr < 0x2000 && m.cart.hasCHRRAM {
		m.cart.chrROM[m.chrOffset(addr)%len(m.cart.chrROM)] = value
	}
}

func (m *mapperMMC1) Mirroring() MirrorMode {
	switch m.control & 3 {
	case 0:
		return MirrorSingleScreen0
	case 1:
		return MirrorSingleScreen1
	case 2:
		return MirrorVertical
	default:
		return MirrorHorizontal
	}
}

func (m *mapperMMC1) State() MapperState {
	var st MapperState
	st.Registers[0] = m.shift
	st.Registers[1] = m.control
	st.Registers[2] = m.chrBank0
	st.Registers[3] = m.chrBank1
	st.Registers[4] = m.prgBank
	m.cart.saveMemory(&st)
	return st
}

func (m *mapperMMC1) SetState(st MapperState) {
	m.shift = st.Registers[0]
	m.control = st.Registers[1]
	m.chrBank0 = st.Registers[2]
	m.chrBank1 = st.Registers[3]
	m.prgBank = st.Registers[4]
	m.cart.loadMemory(&st)
	if m.mirroringChanged != nil {
		m.mirroringChanged()
	}
}
