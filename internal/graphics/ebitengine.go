//go:build !headless
// +build !headless

package graphics

import (
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"nescore/internal/ppu"
)

// EbitengineBackend renders through Ebitengine.
type EbitengineBackend struct {
	initialized bool
	config      Config
}

// EbitengineWindow is the Ebitengine-backed window. The actual game loop
// runs inside ebiten.RunGame; the emulator is pumped from the update
// callback.
type EbitengineWindow struct {
	backend    *EbitengineBackend
	title      string
	width      int
	height     int
	game       *ebitenGame
	running    bool
	events     []InputEvent
	updateFunc func() error
}

type ebitenGame struct {
	window       *EbitengineWindow
	frameImage   *ebiten.Image
	pixels       []byte
	windowWidth  int
	windowHeight int
}

func NewEbitengineBackend() (Backend, error) {
	return &EbitengineBackend{}, nil
}

func (b *EbitengineBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("graphics: ebitengine backend already initialized")
	}
	b.config = config
	b.initialized = true
	return nil
}

func (b *EbitengineBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("graphics: backend not initialized")
	}
	if b.config.Headless {
		return nil, fmt.Errorf("graphics: cannot create window in headless mode")
	}

	game := &ebitenGame{
		frameImage:   ebiten.NewImage(ppu.ScanlineVisibleDots, ppu.VisibleScanlines),
		pixels:       make([]byte, ppu.ScanlineVisibleDots*ppu.VisibleScanlines*4),
		windowWidth:  width,
		windowHeight: height,
	}
	window := &EbitengineWindow{
		backend: b,
		title:   title,
		width:   width,
		height:  height,
		game:    game,
		running: true,
	}
	game.window = window

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(b.config.VSync)
	if b.config.Fullscreen {
		ebiten.SetFullscreen(true)
	}
	ebiten.SetScreenFilterEnabled(b.config.Filter == "linear")

	return window, nil
}

func (b *EbitengineBackend) Cleanup() error {
	b.initialized = false
	return nil
}

func (b *EbitengineBackend) IsHeadless() bool { return b.config.Headless }

func (b *EbitengineBackend) Name() string { return "Ebitengine" }

func (w *EbitengineWindow) SetTitle(title string) {
	w.title = title
	ebiten.SetWindowTitle(title)
}

func (w *EbitengineWindow) Size() (int, int) { return w.width, w.height }

func (w *EbitengineWindow) ShouldClose() bool { return !w.running }

func (w *EbitengineWindow) PollEvents() []InputEvent {
	events := w.events
	w.events = nil
	return events
}

// RenderFrame uploads the PPU frame into the window's texture.
func (w *EbitengineWindow) RenderFrame(frame *ppu.FrameBuffer) error {
	pixels := w.game.pixels
	i := 0
	for y := 0; y < ppu.VisibleScanlines; y++ {
		for x := 0; x < ppu.ScanlineVisibleDots; x++ {
			pixel := frame[y][x]
			pixels[i] = byte(pixel >> 16)
			pixels[i+1] = byte(pixel >> 8)
			pixels[i+2] = byte(pixel)
			pixels[i+3] = 0xFF
			i += 4
		}
	}
	w.game.frameImage.WritePixels(pixels)
	return nil
}

func (w *EbitengineWindow) Cleanup() error {
	w.running = false
	return nil
}

// SetUpdateFunc registers the per-tick emulator update invoked from the
// Ebitengine game loop.
func (w *EbitengineWindow) SetUpdateFunc(fn func() error) {
	w.updateFunc = fn
}

// Run enters the Ebitengine game loop and blocks until the window closes.
func (w *EbitengineWindow) Run() error {
	return ebiten.RunGame(w.game)
}

func (g *ebitenGame) Update() error {
	g.processInput()
	if g.window.updateFunc != nil {
		if err := g.window.updateFunc(); err != nil {
			log.Printf("graphics: emulator update: %v", err)
		}
	}
	if !g.window.running {
		return ebiten.Termination
	}
	return nil
}

func (g *ebitenGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{A: 255})

	// Integer-free scale to fit, preserving the 256:240 aspect.
	scaleX := float64(g.windowWidth) / float64(ppu.ScanlineVisibleDots)
	scaleY := float64(g.windowHeight) / float64(ppu.VisibleScanlines)
	scale := scaleX
	if scaleY < scaleX {
		scale = scaleY
	}
	offsetX := (float64(g.windowWidth) - float64(ppu.ScanlineVisibleDots)*scale) / 2
	offsetY := (float64(g.windowHeight) - float64(ppu.VisibleScanlines)*scale) / 2

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)
	screen.DrawImage(g.frameImage, op)
}

func (g *ebitenGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.windowWidth = outsideWidth
	g.windowHeight = outsideHeight
	return outsideWidth, outsideHeight
}

var keyMappings = map[ebiten.Key]Key{
	ebiten.KeyEscape:     KeyEscape,
	ebiten.KeyEnter:      KeyEnter,
	ebiten.KeySpace:      KeySpace,
	ebiten.KeyArrowUp:    KeyUp,
	ebiten.KeyArrowDown:  KeyDown,
	ebiten.KeyArrowLeft:  KeyLeft,
	ebiten.KeyArrowRight: KeyRight,
	ebiten.KeyW:          KeyW,
	ebiten.KeyA:          KeyA,
	ebiten.KeyS:          KeyS,
	ebiten.KeyD:          KeyD,
	ebiten.KeyJ:          KeyJ,
	ebiten.KeyK:          KeyK,
	ebiten.KeyP:          KeyP,
	ebiten.KeyR:          KeyR,
	ebiten.KeyF1:         KeyF1,
	ebiten.KeyF2:         KeyF2,
	ebiten.KeyF3:         KeyF3,
	ebiten.KeyF4:         KeyF4,
	ebiten.KeyF5:         KeyF5,
	ebiten.KeyF6:         KeyF6,
	ebiten.KeyF7:         KeyF7,
	ebiten.KeyF8:         KeyF8,
	ebiten.KeyF9:         KeyF9,
	ebiten.KeyF10:        KeyF10,
}

// buttonMappings routes movement to both the arrow keys and WASD; J/K are
// the A/B buttons.
var buttonMappings = map[Key]Button{
	KeyUp:    ButtonUp,
	KeyDown:  ButtonDown,
	KeyLeft:  ButtonLeft,
	KeyRight: ButtonRight,
	KeyW:     ButtonUp,
	KeyS:     ButtonDown,
	KeyA:     ButtonLeft,
	KeyD:     ButtonRight,
	KeyJ:     ButtonA,
	KeyK:     ButtonB,
	KeyEnter: ButtonStart,
	KeySpace: ButtonSelect,
}

func (g *ebitenGame) processInput() {
	var events []InputEvent

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		events = append(events, InputEvent{Type: InputEventTypeQuit, Pressed: true})
	}

	for ebitenKey, key := range keyMappings {
		var pressed bool
		switch {
		case inpututil.IsKeyJustPressed(ebitenKey):
			pressed = true
		case inpututil.IsKeyJustReleased(ebitenKey):
			pressed = false
		default:
			continue
		}
		if button, ok := buttonMappings[key]; ok {
			events = append(events, InputEvent{
				Type:    InputEventTypeButton,
				Button:  button,
				Pressed: pressed,
			})
		} else {
			events = append(events, InputEvent{
				Type:    InputEventTypeKey,
				Key:     key,
				Pressed: pressed,
			})
		}
	}

	g.window.events = append(g.window.events, events...)
}
