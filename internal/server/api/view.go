package api

import (
	"image"

	"github.com/ayusman/airkeys/internal/engine"
	"github.com/ayusman/airkeys/internal/layout"
)

// Point is a pixel position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func toPoint(p image.Point) Point {
	return Point{X: p.X, Y: p.Y}
}

// ButtonView is one keyboard button.
type ButtonView struct {
	Index  int    `json:"index"`
	Label  string `json:"label"`
	Kind   string `json:"kind"`
	Char   string `json:"char,omitempty"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// LayoutView is the keyboard geometry.
type LayoutView struct {
	Variant string       `json:"variant"`
	Buttons []ButtonView `json:"buttons"`
}

// NewLayoutView describes l.
func NewLayoutView(l *layout.Layout) LayoutView {
	v := LayoutView{
		Variant: string(l.Variant()),
		Buttons: make([]ButtonView, 0, l.Len()),
	}
	for i, b := range l.Buttons() {
		bv := ButtonView{
			Index:  i,
			Label:  b.Label,
			Kind:   b.Key.Kind.String(),
			X:      b.Pos.X,
			Y:      b.Pos.Y,
			Width:  b.Size.X,
			Height: b.Size.Y,
		}
		if b.Key.Kind == layout.KindChar {
			bv.Char = string(b.Key.Char)
		}
		v.Buttons = append(v.Buttons, bv)
	}
	return v
}

// HandView is one tracked hand.
type HandView struct {
	Slot     int     `json:"slot"`
	Thumb    Point   `json:"thumb"`
	Index    Point   `json:"index"`
	Midpoint Point   `json:"midpoint"`
	Distance float64 `json:"distance"`
	Pinching bool    `json:"pinching"`
	Button   int     `json:"button"` // -1 when not over a button
}

// CommitView is the key committed on a frame.
type CommitView struct {
	Slot    int      `json:"slot"`
	Button  int      `json:"button"`
	Kind    string   `json:"kind"`
	Intents []string `json:"intents"`
}

// StateView is the JSON form of a keyboard snapshot.
type StateView struct {
	Text    string      `json:"text"`
	Shift   bool        `json:"shift"`
	Caps    bool        `json:"caps"`
	Paused  bool        `json:"paused"`
	Phase   string      `json:"phase"`
	Hovered []int       `json:"hovered"`
	Hands   []HandView  `json:"hands"`
	Commit  *CommitView `json:"commit,omitempty"`
}

// NewStateView converts a snapshot for the wire.
func NewStateView(snap engine.Snapshot) StateView {
	v := StateView{
		Text:    snap.Text,
		Shift:   snap.Shift,
		Caps:    snap.Caps,
		Paused:  snap.Paused,
		Phase:   snap.Phase.String(),
		Hovered: []int{},
		Hands:   make([]HandView, 0, len(snap.Hands)),
	}

	for i, b := range snap.Buttons {
		if b.Hovered {
			v.Hovered = append(v.Hovered, i)
		}
	}
	for _, h := range snap.Hands {
		v.Hands = append(v.Hands, HandView{
			Slot:     h.Slot,
			Thumb:    toPoint(h.Thumb),
			Index:    toPoint(h.Index),
			Midpoint: toPoint(h.Midpoint),
			Distance: h.Distance,
			Pinching: h.Pinching,
			Button:   h.Button,
		})
	}

	if c := snap.Commit; c != nil {
		cv := &CommitView{
			Slot:    c.Slot,
			Button:  c.Button,
			Kind:    c.Key.Kind.String(),
			Intents: make([]string, 0, len(c.Intents)),
		}
		for _, in := range c.Intents {
			cv.Intents = append(cv.Intents, in.String())
		}
		v.Commit = cv
	}

	return v
}
