package app

import (
	"oplhost/hal"
	"oplhost/proto"
)

var navCodes = map[hal.KeyCode]proto.KeyCode{
	hal.KeyUp:        proto.KeyUpArrow,
	hal.KeyDown:      proto.KeyDownArrow,
	hal.KeyLeft:      proto.KeyLeftArrow,
	hal.KeyRight:     proto.KeyRightArrow,
	hal.KeyEnter:     proto.KeyEnter,
	hal.KeyEscape:    proto.KeyEscape,
	hal.KeyBackspace: proto.KeyBackspace,
	hal.KeyTab:       proto.KeyTab,
	hal.KeyDelete:    proto.KeyDelete,
	hal.KeyHome:      proto.KeyHome,
	hal.KeyEnd:       proto.KeyEnd,
	hal.KeyPageUp:    proto.KeyPageUp,
	hal.KeyPageDown:  proto.KeyPageDown,
	hal.KeyMenu:      proto.KeyMenu,
}

func translateMods(m hal.Modifiers) proto.Modifiers {
	var out proto.Modifiers
	if m&hal.ModShift != 0 {
		out = out.With(proto.ModShift)
	}
	if m&hal.ModCtrl != 0 {
		out = out.With(proto.ModControl)
	}
	if m&hal.ModCapsLock != 0 {
		out = out.With(proto.ModCapsLock)
	}
	if m&hal.ModAlt != 0 {
		out = out.With(proto.ModFn)
	}
	return out
}

// HandleKey translates a host key event into guest events.
func (s *Session) HandleKey(ev hal.KeyEvent) {
	mods := translateMods(ev.Mods)

	var code proto.KeyCode
	if ev.Code == hal.KeyRune {
		code = proto.KeyCode(ev.Rune)
		if !ev.Press {
			return
		}
		if ev.Repeat {
			s.SendKeyPress(code, mods, true)
			return
		}
		// Text input has no release event of its own.
		s.SendKey(code, mods)
		return
	}

	code, ok := navCodes[ev.Code]
	if !ok {
		return
	}
	switch {
	case ev.Press && ev.Repeat:
		s.SendKeyPress(code, mods, true)
	case ev.Press:
		s.SendKeyDown(code, mods)
		s.SendKeyPress(code, mods, false)
	default:
		s.SendKeyUp(code, mods)
	}
}

// HandlePointer translates a host pointer event into pen events on the
// session window. The window fills the screen, so window and screen
// coordinates match.
func (s *Session) HandlePointer(ev hal.PointerEvent) {
	mods := translateMods(ev.Mods)
	switch ev.Phase {
	case hal.PointerDown:
		s.SendEvent(proto.PenDown{Timestamp: s.since(), WindowID: s.windowID})
		s.SendPen(s.windowID, proto.PenPhaseDown, mods, ev.X, ev.Y, ev.X, ev.Y)
	case hal.PointerMove:
		s.SendPen(s.windowID, proto.PenPhaseDrag, mods, ev.X, ev.Y, ev.X, ev.Y)
	case hal.PointerUp:
		s.SendPen(s.windowID, proto.PenPhaseUp, mods, ev.X, ev.Y, ev.X, ev.Y)
		s.SendEvent(proto.PenUp{Timestamp: s.since(), WindowID: s.windowID})
	}
}

// PumpInput moves every pending host input event into the session without
// blocking. It is called once per frame from the UI goroutine.
func (s *Session) PumpInput(in hal.Input) int {
	if in == nil {
		return 0
	}
	n := 0
	if kbd := in.Keyboard(); kbd != nil {
		n += drain(kbd.Events(), s.HandleKey)
	}
	if ptr := in.Pointer(); ptr != nil {
		n += drain(ptr.Events(), s.HandlePointer)
	}
	return n
}

func drain[T any](ch <-chan T, fn func(T)) int {
	n := 0
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return n
			}
			fn(ev)
			n++
		default:
			return n
		}
	}
}
