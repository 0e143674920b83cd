// Package graphics abstracts the rendering and input backends so the
// emulator can run under a real window or fully headless.
package graphics

import (
	"fmt"

	"nescore/internal/ppu"
)

// Backend creates windows for a particular rendering stack.
type Backend interface {
	Initialize(config Config) error
	CreateWindow(title string, width, height int) (Window, error)
	Cleanup() error
	IsHeadless() bool
	Name() string
}

// Window is one rendering surface plus its input event queue.
type Window interface {
	SetTitle(title string)
	Size() (width, height int)
	ShouldClose() bool
	PollEvents() []InputEvent
	// RenderFrame presents a finished PPU frame.
	RenderFrame(frame *ppu.FrameBuffer) error
	Cleanup() error
}

// Config carries the window and rendering options shared by all backends.
type Config struct {
	WindowTitle  string
	WindowWidth  int
	WindowHeight int
	Fullscreen   bool
	VSync        bool
	Filter       string // "nearest" or "linear"
	Headless     bool
}

// InputEvent is one input state change reported by a window.
type InputEvent struct {
	Type    InputEventType
	Key     Key
	Button  Button
	Port    int // controller port for button events
	Pressed bool
}

type InputEventType int

const (
	InputEventTypeKey InputEventType = iota
	InputEventTypeButton
	InputEventTypeQuit
)

// Key identifies the keyboard keys the emulator reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeySpace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyW
	KeyA
	KeyS
	KeyD
	KeyJ
	KeyK
	KeyP
	KeyR
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
)

// Button identifies NES controller buttons.
type Button int

const (
	ButtonUnknown Button = iota
	ButtonA
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// BackendType names the available backends.
type BackendType string

const (
	BackendEbitengine BackendType = "ebitengine"
	BackendHeadless   BackendType = "headless"
)

// CreateBackend constructs the backend for the given type.
func CreateBackend(backendType BackendType) (Backend, error) {
	switch backendType {
	case BackendEbitengine:
		return NewEbitengineBackend()
	case BackendHeadless:
		return NewHeadlessBackend(), nil
	default:
		return nil, fmt.Errorf("graphics: unknown backend %q", backendType)
	}
}
