//go:build cgo

package hal

import (
	"errors"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"oplhost/internal/buildinfo"
)

// RunWindow opens a desktop window that shows the console and forwards
// keyboard and pointer input. It blocks until the window closes or step
// returns an error.
func RunWindow(cfg Config, newApp func(HAL) func() error) error {
	h := newHost(cfg)
	defer h.close()
	step := newApp(h)

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("oplhost (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.cfg.Width*2, h.cfg.Height*2)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h    *hostHAL
	step func() error
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	g.h.ptr.poll()
	g.h.main.Drain()
	if g.step != nil {
		if err := g.step(); err != nil {
			if errors.Is(err, ErrStop) {
				return ebiten.Termination
			}
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, strings.Join(g.h.console.Lines(), "\n"))
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.cfg.Width, g.h.cfg.Height
}
