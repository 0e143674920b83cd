package app

import (
	"fmt"
	"log"

	"nescore/internal/common"
	"nescore/internal/graphics"
	"nescore/internal/input"
	"nescore/internal/nes"
)

// buttonBits maps backend button events to controller register bits.
var buttonBits = map[graphics.Button]common.Byte{
	graphics.ButtonA:      input.ButtonA,
	graphics.ButtonB:      input.ButtonB,
	graphics.ButtonSelect: input.ButtonSelect,
	graphics.ButtonStart:  input.ButtonStart,
	graphics.ButtonUp:     input.ButtonUp,
	graphics.ButtonDown:   input.ButtonDown,
	graphics.ButtonLeft:   input.ButtonLeft,
	graphics.ButtonRight:  input.ButtonRight,
}

// App drives one emulator instance under a graphics backend: frame
// stepping, input routing, pause/reset and save states.
type App struct {
	config  *Config
	emu     *nes.Emulator
	backend graphics.Backend
	window  graphics.Window
	states  *StateManager

	romPath string
	paused  bool
	quit    bool
	buttons [2]common.Byte
}

// New loads the ROM and prepares an application around it. Initialize
// must be called before Run.
func New(config *Config, romPath string) (*App, error) {
	emu, err := nes.NewEmulator(romPath)
	if err != nil {
		return nil, err
	}

	states, err := NewStateManager(config.Paths.SaveStates, config.Emulation.SaveStateSlots)
	if err != nil {
		return nil, err
	}

	return &App{
		config:  config,
		emu:     emu,
		states:  states,
		romPath: romPath,
	}, nil
}

// Emulator exposes the wrapped console, mainly for tests and tooling.
func (a *App) Emulator() *nes.Emulator {
	return a.emu
}

// Initialize creates the graphics backend and window.
func (a *App) Initialize() error {
	backend, err := graphics.CreateBackend(graphics.BackendType(a.config.Video.Backend))
	if err != nil {
		return err
	}
	a.backend = backend

	width, height := a.config.WindowResolution()
	if err := backend.Initialize(graphics.Config{
		WindowTitle:  "nescore",
		WindowWidth:  width,
		WindowHeight: height,
		Fullscreen:   a.config.Window.Fullscreen,
		VSync:        a.config.Video.VSync,
		Filter:       a.config.Video.Filter,
		Headless:     backend.IsHeadless(),
	}); err != nil {
		return err
	}

	window, err := backend.CreateWindow("nescore - "+a.romPath, width, height)
	if err != nil {
		return err
	}
	a.window = window

	log.Printf("app: %s backend ready (%dx%d)", backend.Name(), width, height)
	return nil
}

// Run executes the emulator under the configured backend. With an
// Ebitengine window this blocks inside the game loop; headless callers
// should use RunFrames instead.
func (a *App) Run() error {
	if a.window == nil {
		return fmt.Errorf("app: not initialized")
	}

	ebiten, ok := a.window.(*graphics.EbitengineWindow)
	if !ok {
		return fmt.Errorf("app: backend %s has no interactive loop", a.backend.Name())
	}
	ebiten.SetUpdateFunc(a.update)
	return ebiten.Run()
}

// RunFrames steps the emulator for a fixed number of frames, presenting
// each one. Used by the headless mode.
func (a *App) RunFrames(frames int) error {
	if a.window == nil {
		return fmt.Errorf("app: not initialized")
	}
	for i := 0; i < frames; i++ {
		a.emu.StepFrame()
		if err := a.window.RenderFrame(a.emu.ScreenBuffer()); err != nil {
			return err
		}
	}
	return nil
}

// update advances one frame: input, emulation, presentation.
func (a *App) update() error {
	for _, event := range a.window.PollEvents() {
		a.handleEvent(event)
	}
	if a.quit {
		return a.window.Cleanup()
	}

	if !a.paused {
		a.emu.StepFrame()
	}
	return a.window.RenderFrame(a.emu.ScreenBuffer())
}

func (a *App) handleEvent(event graphics.InputEvent) {
	switch event.Type {
	case graphics.InputEventTypeQuit:
		a.quit = true

	case graphics.InputEventTypeButton:
		bit, ok := buttonBits[event.Button]
		if !ok {
			return
		}
		port := event.Port
		if port < 0 || port > 1 {
			return
		}
		if event.Pressed {
			a.buttons[port] |= bit
		} else {
			a.buttons[port] &^= bit
		}
		a.emu.SetButtons(port, a.buttons[port])

	case graphics.InputEventTypeKey:
		if !event.Pressed {
			return
		}
		a.handleKey(event.Key)
	}
}

func (a *App) handleKey(key graphics.Key) {
	switch key {
	case graphics.KeyEscape:
		a.quit = true
	case graphics.KeyP:
		a.paused = !a.paused
	case graphics.KeyR:
		if err := a.emu.Reset(); err != nil {
			log.Printf("app: reset: %v", err)
		}
	case graphics.KeyF1, graphics.KeyF2, graphics.KeyF3, graphics.KeyF4, graphics.KeyF5:
		slot := int(key - graphics.KeyF1)
		if err := a.states.Save(a.emu, slot, a.romPath); err != nil {
			log.Printf("app: save state: %v", err)
		} else {
			log.Printf("app: state saved to slot %d", slot)
		}
	case graphics.KeyF6, graphics.KeyF7, graphics.KeyF8, graphics.KeyF9, graphics.KeyF10:
		slot := int(key - graphics.KeyF6)
		if err := a.states.Load(a.emu, slot, a.romPath); err != nil {
			log.Printf("app: load state: %v", err)
		} else {
			log.Printf("app: state loaded from slot %d", slot)
		}
	}
}

// Paused reports whether emulation is paused.
func (a *App) Paused() bool {
	return a.paused
}

// Cleanup releases the window and backend, autosaving first when
// configured.
func (a *App) Cleanup() error {
	if a.config.Emulation.AutoSave && a.states != nil {
		if err := a.states.Save(a.emu, 0, a.romPath); err != nil {
			log.Printf("app: autosave: %v", err)
		}
	}
	if a.window != nil {
		if err := a.window.Cleanup(); err != nil {
			return err
		}
	}
	if a.backend != nil {
		return a.backend.Cleanup()
	}
	return nil
}
