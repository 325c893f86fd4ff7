//go:build cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type hostPointer struct {
	ch chan PointerEvent

	down  bool
	lastX int
	lastY int
}

func newHostPointer() *hostPointer {
	return &hostPointer{ch: make(chan PointerEvent, 64)}
}

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }

func (p *hostPointer) emit(ev PointerEvent) {
	select {
	case p.ch <- ev:
	default:
	}
}

func (p *hostPointer) poll() {
	x, y := ebiten.CursorPosition()
	mods := currentMods()

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		p.down = true
		p.emit(PointerEvent{Phase: PointerDown, X: x, Y: y, Mods: mods})
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		if p.down {
			p.down = false
			p.emit(PointerEvent{Phase: PointerUp, X: x, Y: y, Mods: mods})
		}
	case p.down && (x != p.lastX || y != p.lastY):
		p.emit(PointerEvent{Phase: PointerMove, X: x, Y: y, Mods: mods})
	}
	p.lastX, p.lastY = x, y
}
