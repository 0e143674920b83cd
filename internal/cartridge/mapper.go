package cartridge

import (
	"fmt"

	"nescore/internal/common"
)

// Mapper translates fixed CPU/PPU address windows onto the cartridge's
// ROM/RAM banks. Translation is total: every address in the window resolves
// to a byte, with unmapped reads returning 0. Only PRG-window writes may
// mutate bank-select state.
type Mapper interface {
	// ReadPRG resolves a CPU read in $6000-$FFFF.
	ReadPRG(addr common.Address) common.Byte
	// WritePRG handles a CPU write in $6000-$FFFF. Writes into the ROM
	// window hit the variant's bank-select registers.
	WritePRG(addr common.Address, value common.Byte)
	// ReadCHR resolves a PPU pattern-table read in $0000-$1FFF.
	ReadCHR(addr common.Address) common.Byte
	// WriteCHR handles a PPU pattern-table write (CHR RAM boards only).
	WriteCHR(addr common.Address, value common.Byte)
	// Mirroring returns the nametable mirroring currently in effect.
	Mirroring() MirrorMode

	// State and SetState snapshot the mapper's mutable state: bank-select
	// registers plus the cartridge's PRG RAM and CHR RAM contents.
	State() MapperState
	SetState(st MapperState)
}

// MapperState is the value snapshot of one mapper. Registers is a
// variant-specific encoding of the bank-select state; PRGRAM and CHRRAM
// carry the cartridge's writable memory so restored states replay exactly.
type MapperState struct {
	Registers [8]common.Byte      `json:"registers"`
	PRGRAM    [0x2000]common.Byte `json:"prg_ram"`
	CHRRAM    []common.Byte       `json:"chr_ram,omitempty"`
}

// NewMapper selects the mapper implementation for the cartridge's mapper
// id. mirroringChanged is invoked whenever a register write alters the
// nametable mirroring, so the picture bus can re-resolve its layout.
// Unknown ids are a configuration-fatal error.
func NewMapper(cart *Cartridge, mirroringChanged func()) (Mapper, error) {
	switch cart.mapperID {
	case 0:
		return newMapperNROM(cart), nil
	case 1:
		return newMapperMMC1(cart, mirroringChanged), nil
	case 2:
		return newMapperUNROM(cart), nil
	case 3:
		return newMapperCNROM(cart), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMapper, cart.mapperID)
	}
}
