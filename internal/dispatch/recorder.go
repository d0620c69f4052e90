package dispatch

import (
	"context"
	"time"

	"github.com/ayusman/airkeys/internal/engine"
	"github.com/ayusman/airkeys/internal/store"
)

// Recorder appends every intent to a typing session in the history store.
type Recorder struct {
	keystrokes *store.KeystrokeRepository
	sessionID  string
	now        func() time.Time
}

var _ Injector = (*Recorder)(nil)

// NewRecorder records into the given session, which must already exist.
func NewRecorder(keystrokes *store.KeystrokeRepository, sessionID string) *Recorder {
	return &Recorder{keystrokes: keystrokes, sessionID: sessionID, now: time.Now}
}

// SessionID returns the session being recorded.
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// Inject stores the intent as the session's next keystroke.
func (r *Recorder) Inject(ctx context.Context, in engine.Intent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.keystrokes.Add(&store.Keystroke{
		SessionID: r.sessionID,
		Key:       in.String(),
		Kind:      KindName(in.Kind),
		CreatedAt: r.now(),
	})
}

// KindName returns the stored name of an intent kind.
func KindName(k engine.IntentKind) string {
	switch k {
	case engine.IntentSpace:
		return "space"
	case engine.IntentBackspace:
		return "backspace"
	}
	return "char"
}
