package proto

// KeyCode is a guest keyboard code. Printable keys use their character code;
// navigation keys use the 32-bit EPOC codes.
type KeyCode int

const (
	KeyBackspace KeyCode = 8
	KeyTab       KeyCode = 9
	KeyEnter     KeyCode = 13
	KeyEscape    KeyCode = 27
	KeySpace     KeyCode = 32
	KeyDelete    KeyCode = 127

	KeyNum0    KeyCode = '0'
	KeyNum9    KeyCode = '9'
	KeyLetterA KeyCode = 'a'
	KeyLetterZ KeyCode = 'z'

	KeyHome       KeyCode = 4098
	KeyEnd        KeyCode = 4099
	KeyPageUp     KeyCode = 4100
	KeyPageDown   KeyCode = 4101
	KeyLeftArrow  KeyCode = 4103
	KeyRightArrow KeyCode = 4104
	KeyUpArrow    KeyCode = 4105
	KeyDownArrow  KeyCode = 4106
	KeyMenu       KeyCode = 4150
)

// Modifier is a single modifier key bit.
type Modifier uint32

const (
	ModShift    Modifier = 2
	ModControl  Modifier = 4
	ModCapsLock Modifier = 16
	ModFn       Modifier = 32
)

// Modifiers is a set of Modifier bits.
type Modifiers uint32

// Has reports whether m contains mod.
func (m Modifiers) Has(mod Modifier) bool { return uint32(m)&uint32(mod) != 0 }

// With returns m with mod added.
func (m Modifiers) With(mod Modifier) Modifiers { return m | Modifiers(mod) }

// ModifiedKeycode returns the code a guest sees for this key press.
//
// Ctrl+A..Z maps to 1..26. Ctrl+0..9 yields no keypress at all (ok=false)
// because those chords are used to type a character by number.
func (e KeyPress) ModifiedKeycode() (code int, ok bool) {
	k := e.Keycode
	if e.Modifiers.Has(ModControl) {
		if k >= KeyLetterA && k <= KeyLetterZ {
			return int(k-KeyLetterA) + 1, true
		}
		if k >= KeyNum0 && k <= KeyNum9 {
			return 0, false
		}
	}
	return int(k), true
}
