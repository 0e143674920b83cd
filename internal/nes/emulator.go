package nes

import (
	"errors"
	"fmt"

	"nescore/internal/bus"
	"nescore/internal/cartridge"
	"nescore/internal/common"
	"nescore/internal/cpu"
	"nescore/internal/input"
	"nescore/internal/ppu"
)

// Screen dimensions and timing constants.
const (
	Width  = ppu.ScanlineVisibleDots
	Height = ppu.VisibleScanlines

	// CPU cycles per NTSC frame: 341*262/3 dots.
	CyclesPerFrame = 29781

	NumBackupSlots = 10
)

var (
	ErrInvalidSlot = errors.New("nes: backup slot out of range")
	ErrEmptySlot   = errors.New("nes: backup slot is empty")
)

// Snapshot is a full value copy of the console state, sufficient to
// resume execution deterministically. Controllers are not included; the
// driver owns the input state.
type Snapshot struct {
	CPU    cpu.State             `json:"cpu"`
	PPU    ppu.State             `json:"ppu"`
	RAM    [0x800]common.Byte    `json:"ram"`
	Mapper cartridge.MapperState `json:"mapper"`
}

// Emulator is a headless NES console. It is driven by Step/StepFrame and
// observed through the zero-copy screen, RAM and controller accessors, so
// an external loop can run it far faster than real time.
type Emulator struct {
	cart   *cartridge.Cartridge
	mapper cartridge.Mapper
	core   *core

	controllers [2]input.Controller
	frame       ppu.FrameBuffer

	slots [NumBackupSlots]*Snapshot
}

// NewEmulator loads an iNES ROM from disk and assembles a console around
// it. The console is reset and ready to step.
func NewEmulator(romPath string) (*Emulator, error) {
	cart, err := cartridge.LoadFromFile(romPath)
	if err != nil {
		return nil, err
	}
	return NewEmulatorFromCartridge(cart)
}

// NewEmulatorFromCartridge assembles a console around an already loaded
// cartridge.
func NewEmulatorFromCartridge(cart *cartridge.Cartridge) (*Emulator, error) {
	e := &Emulator{cart: cart}

	var pictureBus *bus.PictureBus
	mapper, err := cartridge.NewMapper(cart, func() {
		if pictureBus != nil {
			pictureBus.UpdateMirroring()
		}
	})
	if err != nil {
		return nil, err
	}
	e.mapper = mapper

	mainBus := bus.NewMainBus(mapper)
	pictureBus = bus.NewPictureBus(mapper)
	e.core = newCore(mainBus, pictureBus, &e.frame, &e.controllers)

	if err := e.Reset(); err != nil {
		return nil, err
	}
	return e, nil
}

// Reset performs a power-on reset of the CPU and PPU.
func (e *Emulator) Reset() error {
	e.core.reset()
	if e.core.cpu.PC < 0x8000 {
		return fmt.Errorf("nes: reset vector $%04X points outside PRG ROM", e.core.cpu.PC)
	}
	return nil
}

// Step advances the console by one CPU cycle.
func (e *Emulator) Step() {
	e.core.step()
}

// StepFrame advances the console by one video frame.
func (e *Emulator) StepFrame() {
	for i := 0; i < CyclesPerFrame; i++ {
		e.core.step()
	}
}

// StepPPU advances only the PPU for one video frame, leaving the CPU
// untouched. Useful to redraw the screen without running game logic.
func (e *Emulator) StepPPU() {
	for i := 0; i < CyclesPerFrame; i++ {
		e.core.ppuStep()
	}
}

// Snapshot captures the full console state.
func (e *Emulator) Snapshot() *Snapshot {
	return &Snapshot{
		CPU:    e.core.cpu.State(),
		PPU:    e.core.ppu.State(),
		RAM:    *e.core.mainBus.RAM(),
		Mapper: e.mapper.State(),
	}
}

// RestoreSnapshot replaces the console state with a previously captured
// snapshot.
func (e *Emulator) RestoreSnapshot(s *Snapshot) {
	e.core.cpu.SetState(s.CPU)
	e.core.ppu.SetState(s.PPU)
	*e.core.mainBus.RAM() = s.RAM
	e.mapper.SetState(s.Mapper)
}

// Backup stores the current state in the given slot.
func (e *Emulator) Backup(slot int) error {
	if slot < 0 || slot >= NumBackupSlots {
		return ErrInvalidSlot
	}
	e.slots[slot] = e.Snapshot()
	return nil
}

// Restore reloads the state stored in the given slot.
func (e *Emulator) Restore(slot int) error {
	if slot < 0 || slot >= NumBackupSlots {
		return ErrInvalidSlot
	}
	if e.slots[slot] == nil {
		return ErrEmptySlot
	}
	e.RestoreSnapshot(e.slots[slot])
	return nil
}

// ScreenBuffer exposes the frame buffer the PPU renders into. The memory
// is stable for the emulator's lifetime.
func (e *Emulator) ScreenBuffer() *ppu.FrameBuffer {
	return &e.frame
}

// MemoryBuffer exposes the console's 2KiB work RAM.
func (e *Emulator) MemoryBuffer() *[0x800]common.Byte {
	return e.core.mainBus.RAM()
}

// Controller exposes the live button byte for the given port (0 or 1).
func (e *Emulator) Controller(port int) *common.Byte {
	return e.controllers[port].Buffer()
}

// SetButtons replaces the button byte for the given port.
func (e *Emulator) SetButtons(port int, buttons common.Byte) {
	e.controllers[port].SetButtons(buttons)
}

// Cartridge returns the loaded cartridge.
func (e *Emulator) Cartridge() *cartridge.Cartridge {
	return e.cart
}
