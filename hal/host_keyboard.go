//go:build cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	repeatDelayTicks    = 30
	repeatIntervalTicks = 4
)

var navKeys = []struct {
	key  ebiten.Key
	code KeyCode
}{
	{ebiten.KeyArrowUp, KeyUp},
	{ebiten.KeyArrowDown, KeyDown},
	{ebiten.KeyArrowLeft, KeyLeft},
	{ebiten.KeyArrowRight, KeyRight},
	{ebiten.KeyEnter, KeyEnter},
	{ebiten.KeyEscape, KeyEscape},
	{ebiten.KeyBackspace, KeyBackspace},
	{ebiten.KeyTab, KeyTab},
	{ebiten.KeyDelete, KeyDelete},
	{ebiten.KeyHome, KeyHome},
	{ebiten.KeyEnd, KeyEnd},
	{ebiten.KeyPageUp, KeyPageUp},
	{ebiten.KeyPageDown, KeyPageDown},
	{ebiten.KeyF1, KeyMenu},
}

var letterKeys = [26]ebiten.Key{
	ebiten.KeyA, ebiten.KeyB, ebiten.KeyC, ebiten.KeyD, ebiten.KeyE, ebiten.KeyF, ebiten.KeyG,
	ebiten.KeyH, ebiten.KeyI, ebiten.KeyJ, ebiten.KeyK, ebiten.KeyL, ebiten.KeyM, ebiten.KeyN,
	ebiten.KeyO, ebiten.KeyP, ebiten.KeyQ, ebiten.KeyR, ebiten.KeyS, ebiten.KeyT, ebiten.KeyU,
	ebiten.KeyV, ebiten.KeyW, ebiten.KeyX, ebiten.KeyY, ebiten.KeyZ,
}

var digitKeys = [10]ebiten.Key{
	ebiten.KeyDigit0, ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

func (k *hostKeyboard) emit(ev KeyEvent) {
	select {
	case k.ch <- ev:
	default:
	}
}

func currentMods() Modifiers {
	var m Modifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		m |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		m |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		m |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyCapsLock) {
		m |= ModCapsLock
	}
	return m
}

func isRepeat(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d > repeatDelayTicks && (d-repeatDelayTicks)%repeatIntervalTicks == 0
}

func (k *hostKeyboard) poll() {
	mods := currentMods()

	if mods&ModCtrl != 0 {
		// Text input is suppressed while Ctrl is held, so chords are read
		// from the physical keys.
		for i, key := range letterKeys {
			pressed := inpututil.IsKeyJustPressed(key)
			if pressed || isRepeat(key) {
				k.emit(KeyEvent{Code: KeyRune, Press: true, Repeat: !pressed, Rune: 'a' + rune(i), Mods: mods})
			}
		}
		for i, key := range digitKeys {
			if inpututil.IsKeyJustPressed(key) {
				k.emit(KeyEvent{Code: KeyRune, Press: true, Rune: '0' + rune(i), Mods: mods})
			}
		}
	} else {
		for _, r := range ebiten.AppendInputChars(nil) {
			k.emit(KeyEvent{Code: KeyRune, Press: true, Rune: r, Mods: mods})
		}
	}

	for _, nk := range navKeys {
		switch {
		case inpututil.IsKeyJustPressed(nk.key):
			k.emit(KeyEvent{Code: nk.code, Press: true, Mods: mods})
		case inpututil.IsKeyJustReleased(nk.key):
			k.emit(KeyEvent{Code: nk.code, Mods: mods})
		case isRepeat(nk.key):
			k.emit(KeyEvent{Code: nk.code, Press: true, Repeat: true, Mods: mods})
		}
	}
}
