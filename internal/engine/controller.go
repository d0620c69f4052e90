package engine

import (
	"time"
	"unicode"

	"github.com/ayusman/airkeys/internal/gesture"
	"github.com/ayusman/airkeys/internal/layout"
)

// ControllerConfig holds the debounce and buffer settings.
type ControllerConfig struct {
	Cooldown      time.Duration
	MaxTextLength int
}

// Event describes a committed press.
type Event struct {
	Slot    int
	Button  int
	Key     layout.Key
	At      time.Time
	Intents []Intent // zero or one; modifier toggles emit nothing
}

// Controller is the press state machine. It is stateless; the Session
// carries everything that changes.
type Controller struct {
	cfg ControllerConfig
}

// NewController creates a Controller, filling zero fields with defaults.
func NewController(cfg ControllerConfig) *Controller {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	if cfg.MaxTextLength <= 0 {
		cfg.MaxTextLength = DefaultMaxTextLength
	}
	return &Controller{cfg: cfg}
}

// Config returns the effective configuration.
func (c *Controller) Config() ControllerConfig {
	return c.cfg
}

// Commit commits at most one of the frame's candidates. Candidates are
// considered in the order given (slot order) and the first wins. Nothing
// is committed while the session is cooling down.
func (c *Controller) Commit(s Session, candidates []gesture.Candidate, now time.Time) (Session, *Event) {
	if len(candidates) == 0 || s.Phase(now, c.cfg.Cooldown) == PhaseCooldown {
		return s, nil
	}

	cand := candidates[0]
	next, intents := c.Apply(s, cand.Key)
	next.LastCommit = now

	return next, &Event{
		Slot:    cand.Slot,
		Button:  cand.Button,
		Key:     cand.Key,
		At:      now,
		Intents: intents,
	}
}

// Apply performs a key's effect on the session without any debounce.
func (c *Controller) Apply(s Session, key layout.Key) (Session, []Intent) {
	switch key.Kind {
	case layout.KindChar:
		r := key.Char
		if s.Uppercase() {
			r = unicode.ToUpper(r)
		}
		s.Text = appendRune(s.Text, r, c.cfg.MaxTextLength)
		s.Shift = false
		return s, []Intent{{Kind: IntentChar, Char: r}}

	case layout.KindSpace:
		s.Text = appendRune(s.Text, ' ', c.cfg.MaxTextLength)
		return s, []Intent{{Kind: IntentSpace}}

	case layout.KindDelete:
		s.Text = dropLastRune(s.Text)
		return s, []Intent{{Kind: IntentBackspace}}

	case layout.KindShift:
		s.Shift = !s.Shift
		return s, nil

	case layout.KindCaps:
		s.Caps = !s.Caps
		return s, nil
	}

	// Unknown kinds cannot come from a built-in layout; leave state as is.
	return s, nil
}
