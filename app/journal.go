package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"oplhost/proto"
)

type journalRecorder struct {
	mu    sync.Mutex
	w     *proto.JournalWriter
	start time.Time
	now   func() time.Time
}

// WithJournal records every host event sent to the session to w.
func WithJournal(w io.Writer) Option {
	return func(s *Session) {
		s.journal = &journalRecorder{w: proto.NewJournalWriter(w)}
	}
}

func (j *journalRecorder) record(v proto.ResponseValue) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now()
	if j.start.IsZero() {
		j.start = now
	}
	return j.w.Write(proto.Record{Offset: now.Sub(j.start), Event: v})
}

// Replay feeds the events of a recorded journal into s, keeping their
// original spacing. It returns nil at the end of the journal.
func Replay(ctx context.Context, s *Session, r io.Reader) error {
	jr := proto.NewJournalReader(r)
	start := time.Now()
	n := 0
	for {
		rec, err := jr.Next()
		if errors.Is(err, io.EOF) {
			s.log.Info().Int("events", n).Log("journal replayed")
			return nil
		}
		if err != nil {
			return fmt.Errorf("app: replay: %w", err)
		}

		if wait := rec.Offset - time.Since(start); wait > 0 {
			t := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
		s.SendEvent(rec.Event)
		n++
	}
}
