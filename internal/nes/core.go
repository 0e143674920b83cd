// Package nes assembles the CPU, PPU, buses and controllers into a
// console and exposes the stepping, snapshot and observation API.
package nes

import (
	"nescore/internal/bus"
	"nescore/internal/common"
	"nescore/internal/cpu"
	"nescore/internal/input"
	"nescore/internal/ppu"
)

// core owns the wired component graph. The pointers are created once and
// never reassigned, so snapshots can restore component state by value
// without disturbing the wiring.
type core struct {
	mainBus    *bus.MainBus
	pictureBus *bus.PictureBus
	cpu        *cpu.CPU
	ppu        *ppu.PPU
}

func newCore(mainBus *bus.MainBus, pictureBus *bus.PictureBus, frame *ppu.FrameBuffer, controllers *[2]input.Controller) *core {
	c := &core{
		mainBus:    mainBus,
		pictureBus: pictureBus,
	}
	c.ppu = ppu.New(pictureBus, frame)
	c.cpu = cpu.New(mainBus)

	c.ppu.SetInterruptCallback(c.cpu.TriggerNMI)

	mainBus.SetReadCallback(bus.PPUSTATUS, c.ppu.Status)
	mainBus.SetReadCallback(bus.PPUDATA, c.ppu.Data)
	mainBus.SetReadCallback(bus.OAMDATA, c.ppu.OAMData)
	mainBus.SetReadCallback(bus.JOY1, controllers[0].Read)
	mainBus.SetReadCallback(bus.JOY2, func() common.Byte {
		// Port 2 reads carry the open-bus bit on real hardware.
		return controllers[1].Read() | 0x40
	})

	mainBus.SetWriteCallback(bus.PPUCTRL, c.ppu.Control)
	mainBus.SetWriteCallback(bus.PPUMASK, c.ppu.SetMask)
	mainBus.SetWriteCallback(bus.OAMADDR, c.ppu.SetOAMAddress)
	mainBus.SetWriteCallback(bus.OAMDATA, c.ppu.SetOAMData)
	mainBus.SetWriteCallback(bus.PPUSCROL, c.ppu.SetScroll)
	mainBus.SetWriteCallback(bus.PPUADDR, c.ppu.SetDataAddress)
	mainBus.SetWriteCallback(bus.PPUDATA, c.ppu.SetData)
	mainBus.SetWriteCallback(bus.OAMDMA, c.dma)
	mainBus.SetWriteCallback(bus.JOY1, func(value common.Byte) {
		controllers[0].Strobe(value)
		controllers[1].Strobe(value)
	})

	return c
}

// ppuStep advances the PPU by the three dots that fit in one CPU cycle.
func (c *core) ppuStep() {
	c.ppu.Cycle()
	c.ppu.Cycle()
	c.ppu.Cycle()
}

// step advances the console by one CPU cycle: three PPU dots, then the
// CPU clock.
func (c *core) step() {
	c.ppuStep()
	c.cpu.Cycle()
}

// dma services an OAMDMA write: stall the CPU and copy the named page
// into sprite memory.
func (c *core) dma(page common.Byte) {
	c.cpu.SkipDMACycles()
	base := common.Address(page) << 8
	var buf [256]common.Byte
	for i := range buf {
		buf[i] = c.mainBus.Read(base + common.Address(i))
	}
	c.ppu.DoDMA(&buf)
}

func (c *core) reset() {
	c.cpu.Reset()
	c.ppu.Reset()
}
