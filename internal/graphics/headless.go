package graphics

import (
	"fmt"
	"os"

	"nescore/internal/ppu"
)

// HeadlessBackend renders nowhere. It exists so the emulator can be
// driven at full speed by scripts and tests without a display.
type HeadlessBackend struct {
	initialized bool
	config      Config
}

// HeadlessWindow counts frames and can dump them to disk on request.
type HeadlessWindow struct {
	title      string
	width      int
	height     int
	running    bool
	frameCount int
	lastFrame  *ppu.FrameBuffer
}

func NewHeadlessBackend() *HeadlessBackend {
	return &HeadlessBackend{}
}

func (b *HeadlessBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("graphics: headless backend already initialized")
	}
	b.config = config
	b.initialized = true
	return nil
}

func (b *HeadlessBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("graphics: backend not initialized")
	}
	return &HeadlessWindow{
		title:   title,
		width:   width,
		height:  height,
		running: true,
	}, nil
}

func (b *HeadlessBackend) Cleanup() error {
	b.initialized = false
	return nil
}

func (b *HeadlessBackend) IsHeadless() bool { return true }

func (b *HeadlessBackend) Name() string { return "Headless" }

func (w *HeadlessWindow) SetTitle(title string) { w.title = title }

func (w *HeadlessWindow) Size() (int, int) { return w.width, w.height }

func (w *HeadlessWindow) ShouldClose() bool { return !w.running }

func (w *HeadlessWindow) PollEvents() []InputEvent { return nil }

func (w *HeadlessWindow) RenderFrame(frame *ppu.FrameBuffer) error {
	w.frameCount++
	w.lastFrame = frame
	return nil
}

func (w *HeadlessWindow) Cleanup() error {
	w.running = false
	return nil
}

// FrameCount reports how many frames have been presented.
func (w *HeadlessWindow) FrameCount() int { return w.frameCount }

// SaveFrame writes the most recent frame as a plain PPM image.
func (w *HeadlessWindow) SaveFrame(path string) error {
	if w.lastFrame == nil {
		return fmt.Errorf("graphics: no frame rendered yet")
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("graphics: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "P3\n%d %d\n255\n", ppu.ScanlineVisibleDots, ppu.VisibleScanlines)
	for y := 0; y < ppu.VisibleScanlines; y++ {
		for x := 0; x < ppu.ScanlineVisibleDots; x++ {
			pixel := w.lastFrame[y][x]
			fmt.Fprintf(file, "%d %d %d ", (pixel>>16)&0xFF, (pixel>>8)&0xFF, pixel&0xFF)
		}
		fmt.Fprintln(file)
	}
	return nil
}
