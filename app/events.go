package app

import "oplhost/proto"

// SendEvent queues a host event for GetEvent, KeyA and Key. It may be called
// from any goroutine.
func (s *Session) SendEvent(v proto.ResponseValue) {
	if v == nil {
		return
	}
	if s.journal != nil {
		if err := s.journal.record(v); err != nil {
			s.log.Warning().Err(err).Log("journal write failed")
		}
	}
	s.events.Append(v)
}

func (s *Session) SendKeyDown(code proto.KeyCode, mods proto.Modifiers) {
	s.SendEvent(proto.KeyDown{Timestamp: s.since(), Keycode: code, Modifiers: mods})
}

func (s *Session) SendKeyUp(code proto.KeyCode, mods proto.Modifiers) {
	s.SendEvent(proto.KeyUp{Timestamp: s.since(), Keycode: code, Modifiers: mods})
}

// SendKeyPress queues a key press as the guest sees it. Chords that
// produce no key press (Ctrl+digit) are dropped.
func (s *Session) SendKeyPress(code proto.KeyCode, mods proto.Modifiers, repeat bool) {
	kp := proto.KeyPress{Timestamp: s.since(), Keycode: code, Modifiers: mods, IsRepeat: repeat}
	mc, ok := kp.ModifiedKeycode()
	if !ok {
		return
	}
	kp.Keycode = proto.KeyCode(mc)
	s.SendEvent(kp)
}

// SendKey queues a full stroke: down, press, up.
func (s *Session) SendKey(code proto.KeyCode, mods proto.Modifiers) {
	s.SendKeyDown(code, mods)
	s.SendKeyPress(code, mods, false)
	s.SendKeyUp(code, mods)
}

// SendMenu presses the Menu key.
func (s *Session) SendMenu() {
	s.SendKey(proto.KeyMenu, 0)
}

// SendPen queues a pointer event on window id.
func (s *Session) SendPen(windowID int, phase proto.PenPhase, mods proto.Modifiers, x, y, screenX, screenY int) {
	s.SendEvent(proto.PenEvent{
		Timestamp: s.since(),
		WindowID:  windowID,
		Phase:     phase,
		Modifiers: mods,
		X:         x,
		Y:         y,
		ScreenX:   screenX,
		ScreenY:   screenY,
	})
}

func (s *Session) SendForeground() {
	s.SendEvent(proto.Foregrounded{Timestamp: s.since()})
}

func (s *Session) SendBackground() {
	s.SendEvent(proto.Backgrounded{Timestamp: s.since()})
}

func (s *Session) SendQuit() {
	s.SendEvent(proto.Quit{})
}

func (s *Session) SendInterrupt() {
	s.SendEvent(proto.Interrupt{})
}
