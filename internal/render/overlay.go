// Package render draws the keyboard, the typed text and the hand overlay
// onto camera frames, and shows them in a desktop window.
package render

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/airkeys/internal/engine"
	"github.com/ayusman/airkeys/internal/gesture"
	"github.com/ayusman/airkeys/internal/layout"
)

var (
	black     = color.RGBA{0, 0, 0, 0}
	white     = color.RGBA{255, 255, 255, 0}
	keyHover  = color.RGBA{50, 50, 50, 0}
	hoverEdge = color.RGBA{0, 255, 255, 0}
	statusRed = color.RGBA{255, 64, 64, 0}
)

// HandColors are the per-slot overlay colours; slots past the end reuse
// them in order.
var HandColors = []color.RGBA{
	{0, 255, 0, 0},
	{255, 0, 0, 0},
	{255, 0, 255, 0},
	{255, 165, 0, 0},
}

// HandColor returns the overlay colour for a tracking slot.
func HandColor(slot int) color.RGBA {
	if slot < 0 {
		slot = 0
	}
	return HandColors[slot%len(HandColors)]
}

// TextArea is where the typed text is drawn.
var TextArea = image.Rect(50, 50, 1230, 120)

const (
	textFont      = gocv.FontHersheyPlain
	textScale     = 5.0
	textThickness = 5
	labelFont     = gocv.FontHersheyPlain
	hudFont       = gocv.FontHersheySimplex
)

// Overlay draws snapshots. It holds no per-frame state.
type Overlay struct {
	// HUD enables the per-hand distance and pinch readouts.
	HUD bool
}

// Draw renders snap onto img in place.
func (o Overlay) Draw(img *gocv.Mat, snap engine.Snapshot) {
	if img == nil || img.Empty() {
		return
	}

	o.drawText(img, snap)
	for _, b := range snap.Buttons {
		drawButton(img, b)
	}
	for i, h := range snap.Hands {
		o.drawHand(img, i, h, snap.Buttons)
	}
	if snap.Commit != nil && snap.Commit.Button >= 0 && snap.Commit.Button < len(snap.Buttons) {
		drawPressed(img, snap.Buttons[snap.Commit.Button], HandColor(snap.Commit.Slot))
	}
	drawStatus(img, snap)
}

func (o Overlay) drawText(img *gocv.Mat, snap engine.Snapshot) {
	gocv.Rectangle(img, TextArea, black, -1)

	inner := TextArea.Dx() - 20
	text := FitText(snap.Text, inner, textFont, textScale, textThickness)
	gocv.PutText(img, text, image.Pt(TextArea.Min.X+10, TextArea.Max.Y-10), textFont, textScale, white, textThickness)
}

func drawButton(img *gocv.Mat, b layout.Button) {
	r := b.Rect()
	if b.Hovered {
		gocv.Rectangle(img, r.Inset(-2), hoverEdge, 2)
		gocv.Rectangle(img, r, keyHover, -1)
	} else {
		gocv.Rectangle(img, r, black, -1)
	}

	if b.Label == "" || b.Label == " " {
		return
	}

	scale := 1.5
	if b.Key.Kind != layout.KindChar {
		scale = 1.0
	}
	size := gocv.GetTextSize(b.Label, labelFont, scale, 1)
	at := image.Pt(r.Min.X+(r.Dx()-size.X)/2, r.Min.Y+(r.Dy()+size.Y)/2)
	gocv.PutText(img, b.Label, at, labelFont, scale, white, 1)
}

func (o Overlay) drawHand(img *gocv.Mat, row int, h gesture.Hand, buttons []layout.Button) {
	c := HandColor(h.Slot)

	gocv.Circle(img, h.Thumb, 8, c, -1)
	gocv.Circle(img, h.Index, 8, c, -1)
	gocv.Line(img, h.Thumb, h.Index, c, 2)
	gocv.Circle(img, h.Midpoint, 6, c, -1)

	if h.Hovering() && h.Button < len(buttons) {
		gocv.Rectangle(img, buttons[h.Button].Rect().Inset(-2), c, 2)
	}

	if !o.HUD {
		return
	}

	y := 30 + row*30
	gocv.PutText(img, fmt.Sprintf("Hand %d Distance: %d", h.Slot+1, int(h.Distance)), image.Pt(10, y), hudFont, 1, c, 2)
	if h.Pinching {
		gocv.PutText(img, fmt.Sprintf("Hand %d PINCH", h.Slot+1), image.Pt(img.Cols()-400, y), hudFont, 1, c, 2)
	}
}

func drawPressed(img *gocv.Mat, b layout.Button, c color.RGBA) {
	gocv.Rectangle(img, b.Rect().Inset(-5), c, 3)
	gocv.PutText(img, "PRESSED", image.Pt(b.Pos.X, b.Pos.Y-10), hudFont, 0.5, c, 2)
}

func drawStatus(img *gocv.Mat, snap engine.Snapshot) {
	var tags []string
	if snap.Paused {
		tags = append(tags, "PAUSED")
	}
	if snap.Caps {
		tags = append(tags, "CAPS")
	}
	if snap.Shift {
		tags = append(tags, "SHIFT")
	}

	y := img.Rows() - 20
	for i, tag := range tags {
		gocv.PutText(img, tag, image.Pt(10+i*120, y), hudFont, 0.8, statusRed, 2)
	}
}

// FitText returns the longest suffix of text that renders no wider than
// maxWidth, so the most recent characters stay visible.
func FitText(text string, maxWidth int, font gocv.HersheyFont, scale float64, thickness int) string {
	rs := []rune(text)
	for len(rs) > 0 && gocv.GetTextSize(string(rs), font, scale, thickness).X > maxWidth {
		rs = rs[1:]
	}
	return string(rs)
}
