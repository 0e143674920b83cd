package bus

import (
	"nescore/internal/cartridge"
	"nescore/internal/common"
)

// PictureBus is the PPU address space: pattern tables behind the mapper,
// 2KiB of nametable VRAM arranged by the cartridge's mirroring mode, and
// the 32-byte palette RAM with its mirrored backdrop entries.
type PictureBus struct {
	vram    [0x1000]common.Byte
	palette [32]common.Byte
	mapper  cartridge.Mapper
	mirror  cartridge.MirrorMode
}

func NewPictureBus(mapper cartridge.Mapper) *PictureBus {
	pb := &PictureBus{mapper: mapper}
	pb.UpdateMirroring()
	return pb
}

// UpdateMirroring refreshes the cached nametable arrangement. Boards with
// mapper-controlled mirroring call this when the mode register changes.
func (pb *PictureBus) UpdateMirroring() {
	pb.mirror = pb.mapper.Mirroring()
}

func (pb *PictureBus) nametableIndex(addr common.Address) common.Address {
	addr = (addr - 0x2000) & 0x0FFF
	table := addr / 0x400
	offset := addr & 0x3FF
	switch pb.mirror {
	case cartridge.MirrorHorizontal:
		// Tables 0,1 share the first bank; 2,3 the second.
		return (table/2)*0x400 + offset
	case cartridge.MirrorVertical:
		return (table%2)*0x400 + offset
	case cartridge.MirrorSingleScreen0:
		return offset
	case cartridge.MirrorSingleScreen1:
		return 0x400 + offset
	default: // FourScreen
		return addr
	}
}

func paletteIndex(addr common.Address) common.Address {
	idx := addr & 0x1F
	// $3F10/$3F14/$3F18/$3F1C mirror the backdrop entries below them.
	if idx >= 0x10 && idx&3 == 0 {
		idx &= 0x0F
	}
	return idx
}

func (pb *PictureBus) Read(addr common.Address) common.Byte {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		return pb.mapper.ReadCHR(addr)
	case addr < 0x3F00:
		return pb.vram[pb.nametableIndex(addr)]
	default:
		return pb.palette[paletteIndex(addr)]
	}
}

func (pb *PictureBus) Write(addr common.Address, value common.Byte) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		pb.mapper.WriteCHR(addr, value)
	case addr < 0x3F00:
		pb.vram[pb.nametableIndex(addr)] = value
	default:
		pb.palette[paletteIndex(addr)] = value
	}
}

// ReadPalette serves the renderer's per-pixel palette lookups without the
// full address decode.
func (pb *PictureBus) ReadPalette(addr common.Address) common.Byte {
	return pb.palette[paletteIndex(addr)]
}

// State captures the bus memories for snapshots.
type PictureBusState struct {
	VRAM    [0x1000]common.Byte `json:"vram"`
	Palette [32]common.Byte     `json:"palette"`
}

func (pb *PictureBus) State() PictureBusState {
	return PictureBusState{VRAM: pb.vram, Palette: pb.palette}
}

func (pb *PictureBus) SetState(st PictureBusState) {
	pb.vram = st.VRAM
	pb.palette = st.Palette
}
