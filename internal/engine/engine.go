package engine

import (
	"time"

	"github.com/ayusman/airkeys/internal/gesture"
	"github.com/ayusman/airkeys/internal/layout"
	"github.com/ayusman/airkeys/internal/tracking"
)

// Config configures an Engine. Zero fields take package defaults.
type Config struct {
	Tracking       tracking.Config
	PinchThreshold float64 // pixels; 0 selects the layout variant's default
	Cooldown       time.Duration
	MaxTextLength  int
}

// State is everything that changes from one frame to the next.
type State struct {
	Session Session
	Slots   []tracking.Slot
	// Paused keeps tracking and hover feedback running but blocks commits.
	Paused bool
}

// Result is what one step produced, for rendering and dispatch.
type Result struct {
	Classification gesture.Classification
	Commit         *Event // nil when nothing was committed
}

// Intents returns the key intents to forward, in commit order.
func (r Result) Intents() []Intent {
	if r.Commit == nil {
		return nil
	}
	return r.Commit.Intents
}

// Engine wires the tracker, classifier and controller into one frame step.
type Engine struct {
	layout     *layout.Layout
	tracker    *tracking.Tracker
	classifier *gesture.Classifier
	controller *Controller
}

// New creates an Engine for the given layout.
func New(l *layout.Layout, cfg Config) *Engine {
	return &Engine{
		layout:     l,
		tracker:    tracking.NewTracker(cfg.Tracking),
		classifier: gesture.NewClassifier(l, cfg.PinchThreshold),
		controller: NewController(ControllerConfig{
			Cooldown:      cfg.Cooldown,
			MaxTextLength: cfg.MaxTextLength,
		}),
	}
}

// Layout returns the engine's keyboard layout.
func (e *Engine) Layout() *layout.Layout {
	return e.layout
}

// Tracker returns the engine's tracker.
func (e *Engine) Tracker() *tracking.Tracker {
	return e.tracker
}

// Classifier returns the engine's gesture classifier.
func (e *Engine) Classifier() *gesture.Classifier {
	return e.classifier
}

// Controller returns the engine's press controller.
func (e *Engine) Controller() *Controller {
	return e.controller
}

// Start returns the initial state: empty text, no modifiers, no hands.
func (e *Engine) Start() State {
	return State{Slots: e.tracker.Empty()}
}

// Step processes one frame. st is not modified.
func (e *Engine) Step(st State, f tracking.Frame, now time.Time) (State, Result) {
	slots, obs := e.tracker.Update(st.Slots, f)
	st.Slots = slots

	res := Result{Classification: e.classifier.Classify(obs)}
	if st.Paused {
		return st, res
	}

	st.Session, res.Commit = e.controller.Commit(st.Session, res.Classification.Candidates, now)
	return st, res
}

// Snapshot is the render-facing view of a frame.
type Snapshot struct {
	Text    string
	Shift   bool
	Caps    bool
	Paused  bool
	Phase   Phase
	Buttons []layout.Button // with Hovered set for this frame
	Hands   []gesture.Hand
	Commit  *Event
}

// Snapshot builds the render view for a state and the result that produced it.
func (e *Engine) Snapshot(st State, res Result, now time.Time) Snapshot {
	buttons := e.layout.Buttons()
	for i, h := range res.Classification.Hovered {
		if i < len(buttons) {
			buttons[i].Hovered = h
		}
	}

	hands := make([]gesture.Hand, len(res.Classification.Hands))
	copy(hands, res.Classification.Hands)

	return Snapshot{
		Text:    st.Session.Text,
		Shift:   st.Session.Shift,
		Caps:    st.Session.Caps,
		Paused:  st.Paused,
		Phase:   st.Session.Phase(now, e.controller.Config().Cooldown),
		Buttons: buttons,
		Hands:   hands,
		Commit:  res.Commit,
	}
}
