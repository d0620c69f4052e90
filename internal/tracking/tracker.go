// Package tracking turns per-frame hand detections into smoothed fingertip
// positions held in a fixed number of hand slots.
package tracking

import (
	"image"
	"math"
	"sort"

	"github.com/ayusman/airkeys/internal/detector"
)

// Defaults used when a Config field is left zero.
const (
	DefaultSlots     = 2
	DefaultSmoothing = 0.5
)

// Frame is one frame's worth of detector output together with the pixel
// size of the frame the normalized landmarks refer to.
type Frame struct {
	Width  int
	Height int
	Hands  []detector.HandLandmarks
}

// Observation is a hand seen this frame, in pixel space.
type Observation struct {
	Slot  int
	Thumb image.Point
	Index image.Point
}

// Midpoint returns the integer midpoint between thumb and index tips.
func (o Observation) Midpoint() image.Point {
	return midpoint(o.Thumb, o.Index)
}

// Slot is the smoothed state of one tracked hand. A zero Slot is empty.
type Slot struct {
	Occupied bool
	Thumb    image.Point
	Index    image.Point
}

// Midpoint returns the integer midpoint between the smoothed tips.
func (s Slot) Midpoint() image.Point {
	return midpoint(s.Thumb, s.Index)
}

func midpoint(a, b image.Point) image.Point {
	return image.Pt((a.X+b.X)/2, (a.Y+b.Y)/2)
}

// Config controls slot assignment and smoothing.
type Config struct {
	// Slots is the number of hands tracked at once.
	Slots int
	// Smoothing is the weight α given to the current position, in (0,1].
	// 1 disables smoothing.
	Smoothing float64
	// MatchByProximity assigns hands to the slot whose previous midpoint
	// is nearest instead of trusting the detector's report order.
	MatchByProximity bool
}

// Tracker assigns detections to slots and smooths them. It holds no
// per-frame state itself; slot state is passed in and returned.
type Tracker struct {
	cfg Config
}

// NewTracker creates a Tracker, filling zero config fields with defaults.
func NewTracker(cfg Config) *Tracker {
	if cfg.Slots <= 0 {
		cfg.Slots = DefaultSlots
	}
	if cfg.Smoothing <= 0 || cfg.Smoothing > 1 {
		cfg.Smoothing = DefaultSmoothing
	}
	return &Tracker{cfg: cfg}
}

// Config returns the effective configuration.
func (t *Tracker) Config() Config {
	return t.cfg
}

// Empty returns a fresh set of unoccupied slots.
func (t *Tracker) Empty() []Slot {
	return make([]Slot, t.cfg.Slots)
}

// Update folds one frame into the slot state. prev is not modified. The
// returned observations carry the smoothed positions of the slots that
// were updated this frame, in slot order.
func (t *Tracker) Update(prev []Slot, f Frame) ([]Slot, []Observation) {
	next := make([]Slot, t.cfg.Slots)
	copy(next, prev)

	var raw []Observation
	var reported, fresh uint64
	if t.cfg.MatchByProximity {
		raw, fresh = t.assignByProximity(prev, f)
		for _, o := range raw {
			reported |= 1 << o.Slot
		}
	} else {
		raw = Adapt(f, t.cfg.Slots)
		for i := 0; i < len(f.Hands) && i < t.cfg.Slots; i++ {
			reported |= 1 << i
		}
	}

	// A slot the detector did not report this frame belongs to no hand, and
	// a slot handed to a different hand must not smooth across the two.
	for i := range next {
		if reported&(1<<i) == 0 || fresh&(1<<i) != 0 {
			next[i] = Slot{}
		}
	}

	obs := make([]Observation, 0, len(raw))
	for _, o := range raw {
		s := next[o.Slot]
		if s.Occupied {
			o.Thumb = Smooth(o.Thumb, s.Thumb, t.cfg.Smoothing)
			o.Index = Smooth(o.Index, s.Index, t.cfg.Smoothing)
		}
		next[o.Slot] = Slot{Occupied: true, Thumb: o.Thumb, Index: o.Index}
		obs = append(obs, o)
	}

	sort.Slice(obs, func(i, j int) bool { return obs[i].Slot < obs[j].Slot })
	return next, obs
}

// Adapt converts a frame's detections into pixel-space fingertip
// observations. Hand i goes to slot i; hands without both fingertip
// landmarks are skipped and hands beyond the slot count are ignored.
func Adapt(f Frame, slots int) []Observation {
	var obs []Observation
	for i := range f.Hands {
		if i >= slots {
			break
		}
		if o, ok := observe(&f.Hands[i], f.Width, f.Height); ok {
			o.Slot = i
			obs = append(obs, o)
		}
	}
	return obs
}

// Denormalize maps a normalized landmark to integer pixel coordinates,
// truncating toward zero.
func Denormalize(p detector.Point3D, width, height int) image.Point {
	return image.Pt(int(p.X*float64(width)), int(p.Y*float64(height)))
}

// Smooth applies exponential smoothing per axis:
// alpha*cur + (1-alpha)*prev, truncated to integers.
func Smooth(cur, prev image.Point, alpha float64) image.Point {
	return image.Pt(
		int(alpha*float64(cur.X)+(1-alpha)*float64(prev.X)),
		int(alpha*float64(cur.Y)+(1-alpha)*float64(prev.Y)),
	)
}

func observe(h *detector.HandLandmarks, width, height int) (Observation, bool) {
	if !h.HasPinchPoints() {
		return Observation{}, false
	}
	return Observation{
		Thumb: Denormalize(h.ThumbTip(), width, height),
		Index: Denormalize(h.IndexTip(), width, height),
	}, true
}

// assignByProximity matches valid hands to the occupied slot with the
// nearest previous midpoint, closest pairs first. Hands left over take the
// free slots in order, preferring slots that were empty; those slots are
// reported in the fresh mask.
func (t *Tracker) assignByProximity(prev []Slot, f Frame) ([]Observation, uint64) {
	var hands []Observation
	for i := range f.Hands {
		if o, ok := observe(&f.Hands[i], f.Width, f.Height); ok {
			hands = append(hands, o)
		}
	}

	type pair struct {
		hand, slot int
		dist       float64
	}
	var pairs []pair
	for h, o := range hands {
		for s := 0; s < t.cfg.Slots && s < len(prev); s++ {
			if !prev[s].Occupied {
				continue
			}
			pairs = append(pairs, pair{hand: h, slot: s, dist: distance(o.Midpoint(), prev[s].Midpoint())})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].dist < pairs[j].dist })

	handSlot := make([]int, len(hands))
	for i := range handSlot {
		handSlot[i] = -1
	}
	slotTaken := make([]bool, t.cfg.Slots)

	for _, p := range pairs {
		if handSlot[p.hand] >= 0 || slotTaken[p.slot] {
			continue
		}
		handSlot[p.hand] = p.slot
		slotTaken[p.slot] = true
	}

	var fresh uint64
	for h := range hands {
		if handSlot[h] >= 0 {
			continue
		}
		s := freeSlot(prev, slotTaken)
		if s < 0 {
			break
		}
		handSlot[h] = s
		slotTaken[s] = true
		fresh |= 1 << s
	}

	var obs []Observation
	for h, o := range hands {
		if handSlot[h] < 0 {
			continue
		}
		o.Slot = handSlot[h]
		obs = append(obs, o)
	}
	return obs, fresh
}

func freeSlot(prev []Slot, taken []bool) int {
	fallback := -1
	for s := range taken {
		if taken[s] {
			continue
		}
		if s >= len(prev) || !prev[s].Occupied {
			return s
		}
		if fallback < 0 {
			fallback = s
		}
	}
	return fallback
}

func distance(a, b image.Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
