// Package gesture classifies tracked fingertips into hover and pinch
// gestures over the keyboard layout.
package gesture

import (
	"image"
	"math"

	"github.com/ayusman/airkeys/internal/layout"
	"github.com/ayusman/airkeys/internal/tracking"
)

// Default pinch thresholds in pixels, per layout variant. The extended
// layout has smaller keys and is tuned for a slightly looser pinch.
const (
	DefaultPinchThreshold         = 40.0
	DefaultExtendedPinchThreshold = 50.0
)

// PinchThresholdFor returns the default pinch threshold for a variant.
func PinchThresholdFor(v layout.Variant) float64 {
	if v == layout.VariantExtended {
		return DefaultExtendedPinchThreshold
	}
	return DefaultPinchThreshold
}

// Hand is the classification of one tracked hand for one frame.
type Hand struct {
	Slot     int
	Thumb    image.Point
	Index    image.Point
	Midpoint image.Point
	Distance float64
	Pinching bool
	Button   int // index of the hovered button, or -1
}

// Hovering reports whether the hand's midpoint is over a button.
func (h Hand) Hovering() bool {
	return h.Button >= 0
}

// Candidate is a hand that is both hovering a button and pinching.
type Candidate struct {
	Slot   int
	Button int
	Key    layout.Key
}

// Classification is the result for one frame.
type Classification struct {
	Hands      []Hand      // one per observed hand, in slot order
	Candidates []Candidate // press candidates, in slot order
	Hovered    []bool      // per layout button
}

// Classifier hit-tests hands against a layout.
type Classifier struct {
	layout    *layout.Layout
	threshold float64
}

// NewClassifier creates a Classifier. A non-positive threshold selects the
// default for the layout's variant.
func NewClassifier(l *layout.Layout, pinchThreshold float64) *Classifier {
	if pinchThreshold <= 0 {
		pinchThreshold = PinchThresholdFor(l.Variant())
	}
	return &Classifier{
		layout:    l,
		threshold: pinchThreshold,
	}
}

// Threshold returns the pinch distance threshold in pixels.
func (c *Classifier) Threshold() float64 {
	return c.threshold
}

// Layout returns the layout hands are tested against.
func (c *Classifier) Layout() *layout.Layout {
	return c.layout
}

// Classify evaluates every observed hand independently. Hover flags start
// cleared each call.
func (c *Classifier) Classify(obs []tracking.Observation) Classification {
	result := Classification{
		Hands:   make([]Hand, 0, len(obs)),
		Hovered: make([]bool, c.layout.Len()),
	}

	for _, o := range obs {
		h := Hand{
			Slot:     o.Slot,
			Thumb:    o.Thumb,
			Index:    o.Index,
			Midpoint: o.Midpoint(),
			Distance: Distance(o.Thumb, o.Index),
		}
		h.Pinching = h.Distance < c.threshold
		h.Button = c.layout.HitTest(h.Midpoint)

		if h.Hovering() {
			result.Hovered[h.Button] = true
			if h.Pinching {
				result.Candidates = append(result.Candidates, Candidate{
					Slot:   h.Slot,
					Button: h.Button,
					Key:    c.layout.Button(h.Button).Key,
				})
			}
		}

		result.Hands = append(result.Hands, h)
	}

	return result
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b image.Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
