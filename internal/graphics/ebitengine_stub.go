//go:build headless
// +build headless

package graphics

import (
	"fmt"

	"nescore/internal/ppu"
)

// EbitengineBackend stub for headless builds.
type EbitengineBackend struct{}

// EbitengineWindow stub for headless builds.
type EbitengineWindow struct{}

func NewEbitengineBackend() (Backend, error) {
	return nil, fmt.Errorf("graphics: ebitengine backend not available in headless build")
}

func (b *EbitengineBackend) Initialize(config Config) error {
	return fmt.Errorf("graphics: ebitengine backend not available in headless build")
}

func (b *EbitengineBackend) CreateWindow(title string, width, height int) (Window, error) {
	return nil, fmt.Errorf("graphics: ebitengine backend not available in headless build")
}

func (b *EbitengineBackend) Cleanup() error { return nil }

func (b *EbitengineBackend) IsHeadless() bool { return true }

func (b *EbitengineBackend) Name() string { return "Ebitengine-Stub" }

func (w *EbitengineWindow) SetTitle(title string) {}

func (w *EbitengineWindow) Size() (int, int) { return 0, 0 }

func (w *EbitengineWindow) ShouldClose() bool { return true }

func (w *EbitengineWindow) PollEvents() []InputEvent { return nil }

func (w *EbitengineWindow) RenderFrame(frame *ppu.FrameBuffer) error {
	return fmt.Errorf("graphics: ebitengine backend not available in headless build")
}

func (w *EbitengineWindow) Cleanup() error { return nil }

func (w *EbitengineWindow) Run() error {
	return fmt.Errorf("graphics: ebitengine backend not available in headless build")
}

func (w *EbitengineWindow) SetUpdateFunc(fn func() error) {}
