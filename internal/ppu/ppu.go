// Package ppu implements the 2C02 picture processor as a dot-clocked
// state machine over the scanline/cycle grid.
package ppu

import (
	"nescore/internal/bus"
	"nescore/internal/common"
)

// Frame geometry constants. A scanline spans 341 PPU cycles (dots 0-340)
// and a frame spans 262 scanlines.
const (
	VisibleScanlines    = 240
	ScanlineVisibleDots = 256
	ScanlineEndCycle    = 340
	FrameEndScanline    = 261
)

// FrameBuffer is one rendered frame, indexed [row][column].
type FrameBuffer [VisibleScanlines][ScanlineVisibleDots]common.Pixel

type pipelineState int

const (
	preRender pipelineState = iota
	render
	postRender
	verticalBlank
)

// PPU emulates the picture processor. One call to Cycle advances exactly
// one dot; the CPU-visible registers are exposed as methods the main bus
// dispatches to.
type PPU struct {
	bus   *bus.PictureBus
	frame *FrameBuffer

	vblankCallback func()

	state    pipelineState
	cycle    int
	scanline int

	evenFrame bool

	// Loopy registers: current VRAM address, temporary address, fine X
	// scroll and the shared first/second write toggle.
	dataAddress common.Address
	tempAddress common.Address
	fineX       common.Byte
	firstWrite  bool
	dataBuffer  common.Byte

	oam             [256]common.Byte
	oamAddress      common.Byte
	scanlineSprites []common.Byte

	// PPUCTRL
	longSprites       bool
	generateInterrupt bool
	bgPage            common.Address // 0 or 1, pattern table select
	sprPage           common.Address
	dataIncrement     common.Address

	// PPUMASK
	greyscale          bool
	showBackground     bool
	showSprites        bool
	hideEdgeBackground bool
	hideEdgeSprites    bool

	// PPUSTATUS
	vblank         bool
	sprZeroHit     bool
	spriteOverflow bool
}

// State is the full register and OAM snapshot of the PPU.
type State struct {
	Pipeline          int                 `json:"pipeline"`
	Cycle             int                 `json:"cycle"`
	Scanline          int                 `json:"scanline"`
	EvenFrame         bool                `json:"even_frame"`
	DataAddress       common.Address      `json:"data_address"`
	TempAddress       common.Address      `json:"temp_address"`
	FineX             common.Byte         `json:"fine_x"`
	FirstWrite        bool                `json:"first_write"`
	DataBuffer        common.Byte         `json:"data_buffer"`
	OAM               [256]common.Byte    `json:"oam"`
	OAMAddress        common.Byte         `json:"oam_address"`
	ScanlineSprites   []common.Byte       `json:"scanline_sprites"`
	LongSprites       bool                `json:"long_sprites"`
	GenerateInterrupt bool                `json:"generate_interrupt"`
	BGPage            common.Address      `json:"bg_page"`
	SprPage           common.Address      `json:"spr_page"`
	DataIncrement     common.Address      `json:"data_increment"`
	Greyscale         bool                `json:"greyscale"`
	ShowBackground    bool                `json:"show_background"`
	ShowSprites       bool                `json:"show_sprites"`
	HideEdgeBG        bool                `json:"hide_edge_bg"`
	HideEdgeSprites   bool                `json:"hide_edge_sprites"`
	VBlank            bool                `json:"vblank"`
	SprZeroHit        bool                `json:"spr_zero_hit"`
	SpriteOverflow    bool                `json:"sprite_overflow"`
	PictureBus        bus.PictureBusState `json:"picture_bus"`
}

// New creates a PPU rendering into the given frame buffer through the
// given picture bus. Call Reset before clocking it.
func New(pictureBus *bus.PictureBus, frame *FrameBuffer) *PPU {
	return &PPU{
		bus:             pictureBus,
		frame:           frame,
		scanlineSprites: make([]common.Byte, 0, 8),
	}
}

// SetInterruptCallback registers the hook fired when vblank begins with
// NMI generation enabled.
func (p *PPU) SetInterruptCallback(fn func()) {
	p.vblankCallback = fn
}

// Reset puts the PPU in its power-up state.
func (p *PPU) Reset() {
	p.longSprites = false
	p.generateInterrupt = false
	p.greyscale = false
	p.vblank = false
	p.sprZeroHit = false
	p.spriteOverflow = false

	p.showBackground = true
	p.showSprites = true
	p.evenFrame = true
	p.firstWrite = true

	p.bgPage = 0
	p.sprPage = 0
	p.dataAddress = 0
	p.tempAddress = 0
	p.fineX = 0
	p.dataBuffer = 0
	p.oamAddress = 0
	p.dataIncrement = 1

	p.hideEdgeBackground = false
	p.hideEdgeSprites = false

	p.cycle = 0
	p.scanline = 0
	p.state = preRender
	p.scanlineSprites = p.scanlineSprites[:0]
}

// Cycle advances the PPU by one dot.
func (p *PPU) Cycle() {
	switch p.state {
	case preRender:
		if p.cycle == 1 {
			p.vblank = false
			p.sprZeroHit = false
			p.spriteOverflow = false
		} else if p.cycle == ScanlineVisibleDots+2 && p.showBackground && p.showSprites {
			// Copy the horizontal scroll bits from t.
			p.dataAddress &^= 0x041F
			p.dataAddress |= p.tempAddress & 0x041F
		} else if p.cycle > 280 && p.cycle <= 304 && p.rendering() {
			// Copy the vertical scroll bits from t.
			p.dataAddress &^= 0x7BE0
			p.dataAddress |= p.tempAddress & 0x7BE0
		}
		// Odd frames skip the last pre-render dot while rendering.
		end := ScanlineEndCycle
		if !p.evenFrame && p.showBackground && p.showSprites {
			end--
		}
		if p.cycle >= end {
			p.state = render
			p.cycle = 0
			p.scanline = 0
			return
		}

	case render:
		if p.cycle > 0 && p.cycle <= ScanlineVisibleDots {
			p.renderPixel()
		} else if p.cycle == ScanlineVisibleDots+1 && p.showBackground {
			p.incrementY()
		} else if p.cycle == ScanlineVisibleDots+2 && p.showBackground && p.showSprites {
			p.dataAddress &^= 0x041F
			p.dataAddress |= p.tempAddress & 0x041F
		}
		if p.cycle >= ScanlineEndCycle {
			p.evaluateSprites()
			p.scanline++
			p.cycle = 0
			if p.scanline >= VisibleScanlines {
				p.state = postRender
			}
			return
		}

	case postRender:
		if p.cycle >= ScanlineEndCycle {
			p.scanline++
			p.cycle = 0
			p.state = verticalBlank
			return
		}

	case verticalBlank:
		if p.cycle == 1 && p.scanline == VisibleScanlines+1 {
			p.vblank = true
			if p.generateInterrupt && p.vblankCallback != nil {
				p.vblankCallback()
			}
		}
		if p.cycle >= ScanlineEndCycle {
			p.scanline++
			p.cycle = 0
			if p.scanline >= FrameEndScanline {
				p.state = preRender
				p.scanline = 0
				p.evenFrame = !p.evenFrame
			}
			return
		}
	}

	p.cycle++
}

func (p *PPU) rendering() bool {
	return p.showBackground && p.showSprites
}

// renderPixel composites the background and sprite layers for the dot at
// (scanline, cycle-1) and writes the palette color to the frame buffer.
func (p *PPU) renderPixel() {
	x := p.cycle - 1
	y := p.scanline

	var bgColor, sprColor common.Byte
	var bgOpaque, sprOpaque, spriteForeground bool

	if p.showBackground {
		xFine := (common.Address(p.fineX) + common.Address(x)) % 8
		if !p.hideEdgeBackground || x >= 8 {
			// Nametable byte, then the two pattern planes, then the
			// attribute quadrant.
			tileAddr := 0x2000 | (p.dataAddress & 0x0FFF)
			tile := common.Address(p.bus.Read(tileAddr))

			patternAddr := tile*16 + (p.dataAddress>>12)&0x7
			patternAddr |= p.bgPage << 12
			bgColor = (p.bus.Read(patternAddr) >> (7 ^ xFine)) & 1
			bgColor |= ((p.bus.Read(patternAddr+8) >> (7 ^ xFine)) & 1) << 1
			bgOpaque = bgColor != 0

			attrAddr := 0x23C0 | (p.dataAddress & 0x0C00) |
				((p.dataAddress >> 4) & 0x38) | ((p.dataAddress >> 2) & 0x07)
			attribute := p.bus.Read(attrAddr)
			shift := ((p.dataAddress >> 4) & 4) | (p.dataAddress & 2)
			bgColor |= ((attribute >> shift) & 0x3) << 2
		}
		if xFine == 7 {
			p.incrementCoarseX()
		}
	}

	if p.showSprites && (!p.hideEdgeSprites || x >= 8) {
		for _, i := range p.scanlineSprites {
			sprX := int(p.oam[i*4+3])
			if x-sprX < 0 || x-sprX >= 8 {
				continue
			}
			sprY := int(p.oam[i*4]) + 1
			tile := common.Address(p.oam[i*4+1])
			attribute := p.oam[i*4+2]

			length := 8
			if p.longSprites {
				length = 16
			}
			xShift := (x - sprX) % 8
			yOffset := (y - sprY) % length
			if attribute&0x40 == 0 {
				// Pattern bit 7 is the leftmost pixel unless flipped.
				xShift ^= 7
			}
			if attribute&0x80 != 0 {
				yOffset ^= length - 1
			}

			var addr common.Address
			if !p.longSprites {
				addr = tile*16 + common.Address(yOffset)
				addr |= p.sprPage << 12
			} else {
				// 8x16 sprites take their table from tile bit 0.
				yOffset = (yOffset & 7) | ((yOffset & 8) << 1)
				addr = (tile>>1)*32 + common.Address(yOffset)
				addr |= (tile & 1) << 12
			}

			sprColor = (p.bus.Read(addr) >> xShift) & 1
			sprColor |= ((p.bus.Read(addr+8) >> xShift) & 1) << 1
			sprOpaque = sprColor != 0
			if !sprOpaque {
				sprColor = 0
				continue
			}

			sprColor |= 0x10 | (attribute&0x3)<<2
			spriteForeground = attribute&0x20 == 0

			if !p.sprZeroHit && p.showBackground && i == 0 && sprOpaque && bgOpaque {
				p.sprZeroHit = true
			}
			break
		}
	}

	paletteAddr := bgColor
	if (!bgOpaque && sprOpaque) || (bgOpaque && sprOpaque && spriteForeground) {
		paletteAddr = sprColor
	} else if !bgOpaque {
		paletteAddr = 0
	}

	p.frame[y][x] = nesPalette[p.bus.ReadPalette(common.Address(paletteAddr))&0x3F]
}

// incrementCoarseX steps the VRAM address to the next tile, wrapping into
// the adjacent horizontal nametable.
func (p *PPU) incrementCoarseX() {
	if p.dataAddress&0x001F == 31 {
		p.dataAddress &^= 0x001F
		p.dataAddress ^= 0x0400
	} else {
		p.dataAddress++
	}
}

// incrementY steps the fine Y scroll, wrapping through coarse Y into the
// adjacent vertical nametable at row 29.
func (p *PPU) incrementY() {
	if p.dataAddress&0x7000 != 0x7000 {
		p.dataAddress += 0x1000
		return
	}
	p.dataAddress &^= 0x7000
	y := (p.dataAddress & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		p.dataAddress ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.dataAddress = p.dataAddress&^0x03E0 | y<<5
}

// evaluateSprites selects up to eight sprites visible on the next
// scanline. A ninth in-range sprite sets the overflow flag.
func (p *PPU) evaluateSprites() {
	p.scanlineSprites = p.scanlineSprites[:0]
	rng := 8
	if p.longSprites {
		rng = 16
	}
	for i := int(p.oamAddress) / 4; i < 64; i++ {
		diff := p.scanline - int(p.oam[i*4])
		if diff < 0 || diff >= rng {
			continue
		}
		if len(p.scanlineSprites) >= 8 {
			p.spriteOverflow = true
			break
		}
		p.scanlineSprites = append(p.scanlineSprites, common.Byte(i))
	}
}

// Control handles PPUCTRL writes.
func (p *PPU) Control(ctrl common.Byte) {
	p.generateInterrupt = ctrl&0x80 != 0
	p.longSprites = ctrl&0x20 != 0
	p.bgPage = common.Address(ctrl>>4) & 1
	p.sprPage = common.Address(ctrl>>3) & 1
	if ctrl&0x4 != 0 {
		p.dataIncrement = 0x20
	} else {
		p.dataIncrement = 1
	}
	p.tempAddress &^= 0x0C00
	p.tempAddress |= common.Address(ctrl&0x3) << 10
}

// SetMask handles PPUMASK writes.
func (p *PPU) SetMask(mask common.Byte) {
	p.greyscale = mask&0x1 != 0
	p.hideEdgeBackground = mask&0x2 == 0
	p.hideEdgeSprites = mask&0x4 == 0
	p.showBackground = mask&0x8 != 0
	p.showSprites = mask&0x10 != 0
}

// Status handles PPUSTATUS reads. Reading clears the vblank flag and
// resets the address latch.
func (p *PPU) Status() common.Byte {
	var status common.Byte
	if p.spriteOverflow {
		status |= 1 << 5
	}
	if p.sprZeroHit {
		status |= 1 << 6
	}
	if p.vblank {
		status |= 1 << 7
	}
	p.vblank = false
	p.firstWrite = true
	return status
}

// SetDataAddress handles PPUADDR writes: high byte first, low byte
// second, sharing the latch with SetScroll.
func (p *PPU) SetDataAddress(addr common.Byte) {
	if p.firstWrite {
		p.tempAddress &^= 0xFF00
		p.tempAddress |= common.Address(addr&0x3F) << 8
		p.firstWrite = false
	} else {
		p.tempAddress &^= 0x00FF
		p.tempAddress |= common.Address(addr)
		p.dataAddress = p.tempAddress
		p.firstWrite = true
	}
}

// SetScroll handles PPUSCROLL writes: X first, Y second.
func (p *PPU) SetScroll(scroll common.Byte) {
	if p.firstWrite {
		p.tempAddress &^= 0x001F
		p.tempAddress |= common.Address(scroll>>3) & 0x1F
		p.fineX = scroll & 0x7
		p.firstWrite = false
	} else {
		p.tempAddress &^= 0x73E0
		p.tempAddress |= common.Address(scroll&0x7) << 12
		p.tempAddress |= common.Address(scroll&0xF8) << 2
		p.firstWrite = true
	}
}

// Data handles PPUDATA reads. Reads below the palette go through a
// one-read delay buffer.
func (p *PPU) Data() common.Byte {
	data := p.bus.Read(p.dataAddress)
	if p.dataAddress < 0x3F00 {
		data, p.dataBuffer = p.dataBuffer, data
	}
	p.dataAddress += p.dataIncrement
	return data
}

// SetData handles PPUDATA writes.
func (p *PPU) SetData(data common.Byte) {
	p.bus.Write(p.dataAddress, data)
	p.dataAddress += p.dataIncrement
}

// SetOAMAddress handles OAMADDR writes.
func (p *PPU) SetOAMAddress(addr common.Byte) {
	p.oamAddress = addr
}

// OAMData handles OAMDATA reads; the address does not advance.
func (p *PPU) OAMData() common.Byte {
	return p.oam[p.oamAddress]
}

// SetOAMData handles OAMDATA writes and post-increments the address.
func (p *PPU) SetOAMData(value common.Byte) {
	p.oam[p.oamAddress] = value
	p.oamAddress++
}

// DoDMA copies a full CPU page into OAM starting at the current OAM
// address, wrapping around.
func (p *PPU) DoDMA(page *[256]common.Byte) {
	n := copy(p.oam[p.oamAddress:], page[:])
	if p.oamAddress != 0 {
		copy(p.oam[:p.oamAddress], page[n:])
	}
}

// State captures the PPU registers, OAM and picture bus memories.
func (p *PPU) State() State {
	return State{
		Pipeline:          int(p.state),
		Cycle:             p.cycle,
		Scanline:          p.scanline,
		EvenFrame:         p.evenFrame,
		DataAddress:       p.dataAddress,
		TempAddress:       p.tempAddress,
		FineX:             p.fineX,
		FirstWrite:        p.firstWrite,
		DataBuffer:        p.dataBuffer,
		OAM:               p.oam,
		OAMAddress:        p.oamAddress,
		ScanlineSprites:   append([]common.Byte(nil), p.scanlineSprites...),
		LongSprites:       p.longSprites,
		GenerateInterrupt: p.generateInterrupt,
		BGPage:            p.bgPage,
		SprPage:           p.sprPage,
		DataIncrement:     p.dataIncrement,
		Greyscale:         p.greyscale,
		ShowBackground:    p.showBackground,
		ShowSprites:       p.showSprites,
		HideEdgeBG:        p.hideEdgeBackground,
		HideEdgeSprites:   p.hideEdgeSprites,
		VBlank:            p.vblank,
		SprZeroHit:        p.sprZeroHit,
		SpriteOverflow:    p.spriteOverflow,
		PictureBus:        p.bus.State(),
	}
}

// SetState restores a snapshot captured by State. The bus and frame
// buffer wiring is untouched.
func (p *PPU) SetState(st State) {
	p.state = pipelineState(st.Pipeline)
	p.cycle = st.Cycle
	p.scanline = st.Scanline
	p.evenFrame = st.EvenFrame
	p.dataAddress = st.DataAddress
	p.tempAddress = st.TempAddress
	p.fineX = st.FineX
	p.firstWrite = st.FirstWrite
	p.dataBuffer = st.DataBuffer
	p.oam = st.OAM
	p.oamAddress = st.OAMAddress
	p.scanlineSprites = append(p.scanlineSprites[:0], st.ScanlineSprites...)
	p.longSprites = st.LongSprites
	p.generateInterrupt = st.GenerateInterrupt
	p.bgPage = st.BGPage
	p.sprPage = st.SprPage
	p.dataIncrement = st.DataIncrement
	p.greyscale = st.Greyscale
	p.showBackground = st.ShowBackground
	p.showSprites = st.ShowSprites
	p.hideEdgeBackground = st.HideEdgeBG
	p.hideEdgeSprites = st.HideEdgeSprites
	p.vblank = st.VBlank
	p.sprZeroHit = st.SprZeroHit
	p.spriteOverflow = st.SpriteOverflow
	p.bus.SetState(st.PictureBus)
}
