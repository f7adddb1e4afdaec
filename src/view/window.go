//go:build ebiten

package view

import (
	"errors"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"bitlife/src/host"
	"bitlife/src/universe"
)

// Window draws the universe in a desktop window and steps it once per frame.
type Window struct {
	s      *host.Session
	img    *ebiten.Image
	pix    []byte
	width  int
	height int

	onColor  color.RGBA
	offColor color.RGBA

	scale    int
	tps      int
	paused   bool
	tickOnce bool
}

// NewWindow creates the window viewer. Each cell is scale pixels wide and the
// simulation advances tps times per second.
func NewWindow(scale, tps int) (*Window, error) {
	if scale < 1 {
		scale = 1
	}
	if tps < 1 {
		tps = ebiten.DefaultTPS
	}
	return &Window{
		onColor:  color.RGBA{0xff, 0xff, 0xff, 0xff},
		offColor: color.RGBA{0x00, 0x00, 0x00, 0xff},
		scale:    scale,
		tps:      tps,
		paused:   true,
	}, nil
}

func (w *Window) Register(s *host.Session) {
	w.s = s
}

// Refresh is a no-op: the window redraws every frame.
func (w *Window) Refresh() {}

// Start opens the window and blocks until it is closed.
func (w *Window) Start() error {
	width, height := w.s.Size()
	ebiten.SetWindowTitle("simlife")
	ebiten.SetTPS(w.tps)
	ebiten.SetWindowSize(int(width)*w.scale, int(height)*w.scale)
	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// Update handles input and advances the simulation.
func (w *Window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		w.paused = !w.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		w.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		w.s.Clear()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		w.s.SettleWithRandomData(uint64(time.Now().UnixNano()))
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if x >= 0 && y >= 0 {
			// clicks outside the grid are ignored
			_ = w.s.InverseCell(uint32(y/w.scale), uint32(x/w.scale))
		}
	}

	if !w.paused || w.tickOnce {
		if w.s.Step() {
			w.paused = true
		}
		w.tickOnce = false
	}
	return nil
}

// Draw copies the packed cell buffer into the window.
func (w *Window) Draw(screen *ebiten.Image) {
	w.s.View(func(u *universe.Universe) {
		width, height := int(u.Width()), int(u.Height())
		if width == 0 || height == 0 {
			return
		}
		if w.img == nil || width != w.width || height != w.height {
			w.img = ebiten.NewImage(width, height)
			w.pix = make([]byte, width*height*4)
			w.width, w.height = width, height
		}
		fillPackedRGBA(w.pix, u.Cells(), width*height, w.onColor, w.offColor)
	})
	if w.img == nil {
		return
	}
	w.img.WritePixels(w.pix)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w.scale), float64(w.scale))
	screen.DrawImage(w.img, op)
}

// Layout returns the logical screen size.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	width, height := w.s.Size()
	return int(width) * w.scale, int(height) * w.scale
}
