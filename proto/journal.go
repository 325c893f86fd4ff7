package proto

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Record is one host event captured in an event journal.
type Record struct {
	// Offset is the time since the journal was started.
	Offset time.Duration
	Event  ResponseValue
}

// ErrNotJournalable is returned for response values that are not host events.
var ErrNotJournalable = errors.New("proto: value is not a host event")

// wireRecord is the CBOR layout of a Record. Integer keys keep records small.
type wireRecord struct {
	Type      string `cbor:"1,keyasint"`
	Offset    int64  `cbor:"2,keyasint"`
	Timestamp int64  `cbor:"3,keyasint,omitempty"`
	Keycode   int    `cbor:"4,keyasint,omitempty"`
	Modifiers uint32 `cbor:"5,keyasint,omitempty"`
	Repeat    bool   `cbor:"6,keyasint,omitempty"`
	WindowID  int    `cbor:"7,keyasint,omitempty"`
	Phase     int    `cbor:"8,keyasint,omitempty"`
	X         int    `cbor:"9,keyasint,omitempty"`
	Y         int    `cbor:"10,keyasint,omitempty"`
	ScreenX   int    `cbor:"11,keyasint,omitempty"`
	ScreenY   int    `cbor:"12,keyasint,omitempty"`
}

var journalEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic("proto: cbor enc mode: " + err.Error())
	}
	journalEncMode = em
}

func toWire(rec Record) (wireRecord, error) {
	w := wireRecord{Offset: int64(rec.Offset)}
	switch e := rec.Event.(type) {
	case KeyPress:
		w.Type = "keypress"
		w.Timestamp = int64(e.Timestamp)
		w.Keycode = int(e.Keycode)
		w.Modifiers = uint32(e.Modifiers)
		w.Repeat = e.IsRepeat
	case KeyDown:
		w.Type = "keydown"
		w.Timestamp = int64(e.Timestamp)
		w.Keycode = int(e.Keycode)
		w.Modifiers = uint32(e.Modifiers)
	case KeyUp:
		w.Type = "keyup"
		w.Timestamp = int64(e.Timestamp)
		w.Keycode = int(e.Keycode)
		w.Modifiers = uint32(e.Modifiers)
	case PenEvent:
		w.Type = "pen"
		w.Timestamp = int64(e.Timestamp)
		w.WindowID = e.WindowID
		w.Phase = int(e.Phase)
		w.Modifiers = uint32(e.Modifiers)
		w.X, w.Y = e.X, e.Y
		w.ScreenX, w.ScreenY = e.ScreenX, e.ScreenY
	case PenDown:
		w.Type = "pendown"
		w.Timestamp = int64(e.Timestamp)
		w.WindowID = e.WindowID
	case PenUp:
		w.Type = "penup"
		w.Timestamp = int64(e.Timestamp)
		w.WindowID = e.WindowID
	case Foregrounded:
		w.Type = "foreground"
		w.Timestamp = int64(e.Timestamp)
	case Backgrounded:
		w.Type = "background"
		w.Timestamp = int64(e.Timestamp)
	case Quit:
		w.Type = "quit"
	case Interrupt:
		w.Type = "interrupt"
	default:
		return wireRecord{}, fmt.Errorf("%w: %s", ErrNotJournalable, Describe(rec.Event))
	}
	return w, nil
}

func fromWire(w wireRecord) (Record, error) {
	rec := Record{Offset: time.Duration(w.Offset)}
	ts := time.Duration(w.Timestamp)
	switch w.Type {
	case "keypress":
		rec.Event = KeyPress{Timestamp: ts, Keycode: KeyCode(w.Keycode), Modifiers: Modifiers(w.Modifiers), IsRepeat: w.Repeat}
	case "keydown":
		rec.Event = KeyDown{Timestamp: ts, Keycode: KeyCode(w.Keycode), Modifiers: Modifiers(w.Modifiers)}
	case "keyup":
		rec.Event = KeyUp{Timestamp: ts, Keycode: KeyCode(w.Keycode), Modifiers: Modifiers(w.Modifiers)}
	case "pen":
		rec.Event = PenEvent{
			Timestamp: ts,
			WindowID:  w.WindowID,
			Phase:     PenPhase(w.Phase),
			Modifiers: Modifiers(w.Modifiers),
			X:         w.X,
			Y:         w.Y,
			ScreenX:   w.ScreenX,
			ScreenY:   w.ScreenY,
		}
	case "pendown":
		rec.Event = PenDown{Timestamp: ts, WindowID: w.WindowID}
	case "penup":
		rec.Event = PenUp{Timestamp: ts, WindowID: w.WindowID}
	case "foreground":
		rec.Event = Foregrounded{Timestamp: ts}
	case "background":
		rec.Event = Backgrounded{Timestamp: ts}
	case "quit":
		rec.Event = Quit{}
	case "interrupt":
		rec.Event = Interrupt{}
	default:
		return Record{}, fmt.Errorf("proto: unknown journal record type %q", w.Type)
	}
	return rec, nil
}

// JournalWriter appends Records to a CBOR sequence.
type JournalWriter struct {
	enc *cbor.Encoder
}

// NewJournalWriter returns a writer that encodes records to w.
func NewJournalWriter(w io.Writer) *JournalWriter {
	return &JournalWriter{enc: journalEncMode.NewEncoder(w)}
}

// Write encodes one record.
func (j *JournalWriter) Write(rec Record) error {
	w, err := toWire(rec)
	if err != nil {
		return err
	}
	if err := j.enc.Encode(w); err != nil {
		return fmt.Errorf("proto: journal write: %w", err)
	}
	return nil
}

// JournalReader decodes Records from a CBOR sequence.
type JournalReader struct {
	dec *cbor.Decoder
}

// NewJournalReader returns a reader over r.
func NewJournalReader(r io.Reader) *JournalReader {
	return &JournalReader{dec: cbor.NewDecoder(r)}
}

// Next returns the next record, or io.EOF at the end of the journal.
func (j *JournalReader) Next() (Record, error) {
	var w wireRecord
	if err := j.dec.Decode(&w); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("proto: journal read: %w", err)
	}
	return fromWire(w)
}
