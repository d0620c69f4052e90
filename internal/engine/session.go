// Package engine turns classified pinch gestures into committed keystrokes.
//
// All state lives in values passed into and returned from each step, so a
// frame can be replayed or tested without a camera, a detector or an
// injection sink.
package engine

import (
	"fmt"
	"time"
)

// Defaults for Config fields left zero.
const (
	DefaultCooldown      = 300 * time.Millisecond
	DefaultMaxTextLength = 100
)

// IntentKind is the kind of key event forwarded to an injection sink.
type IntentKind int

const (
	// IntentChar types Intent.Char.
	IntentChar IntentKind = iota
	// IntentSpace types a space.
	IntentSpace
	// IntentBackspace deletes the previous character.
	IntentBackspace
)

// Intent is one atomic key press and release.
type Intent struct {
	Kind IntentKind
	Char rune
}

// String returns a short name suitable for logs and for key-name based
// injectors: the character itself, "space" or "backspace".
func (i Intent) String() string {
	switch i.Kind {
	case IntentChar:
		return string(i.Char)
	case IntentSpace:
		return "space"
	case IntentBackspace:
		return "backspace"
	}
	return fmt.Sprintf("IntentKind(%d)", int(i.Kind))
}

// Phase is the controller's debounce state.
type Phase int

const (
	// PhaseIdle accepts the next press candidate.
	PhaseIdle Phase = iota
	// PhaseCooldown rejects candidates until the cooldown has elapsed.
	PhaseCooldown
)

func (p Phase) String() string {
	if p == PhaseCooldown {
		return "cooldown"
	}
	return "idle"
}

// Session is the typing state for a run. It is a value: copying a Session
// copies all of its state.
type Session struct {
	Text       string
	LastCommit time.Time // zero until the first commit
	Shift      bool      // one-shot uppercase, cleared after the next character
	Caps       bool      // persistent uppercase
}

// Phase reports the debounce phase at now. The cooldown ends once strictly
// more than cooldown has elapsed since the last commit.
func (s Session) Phase(now time.Time, cooldown time.Duration) Phase {
	if s.LastCommit.IsZero() || now.Sub(s.LastCommit) > cooldown {
		return PhaseIdle
	}
	return PhaseCooldown
}

// Uppercase reports whether the next character key types uppercase.
func (s Session) Uppercase() bool {
	return s.Shift || s.Caps
}

// appendRune appends r and keeps at most max runes, dropping the oldest.
func appendRune(text string, r rune, max int) string {
	rs := append([]rune(text), r)
	if len(rs) > max {
		rs = rs[len(rs)-max:]
	}
	return string(rs)
}

// dropLastRune removes the final rune, if any.
func dropLastRune(text string) string {
	rs := []rune(text)
	if len(rs) == 0 {
		return text
	}
	return string(rs[:len(rs)-1])
}
