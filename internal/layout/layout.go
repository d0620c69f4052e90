// Package layout defines the on-screen keyboard geometry.
package layout

import (
	"fmt"
	"image"
	"strings"
	"unicode"
)

// Variant selects one of the built-in keyboards.
type Variant string

const (
	// VariantBasic is a QWERTY letter grid with a space bar and a clear key.
	VariantBasic Variant = "basic"
	// VariantExtended adds a digit row and independent Shift, Caps, Del and Space keys.
	VariantExtended Variant = "extended"
)

// Kind identifies what a key does when it is pressed.
type Kind int

const (
	// KindChar emits a character.
	KindChar Kind = iota
	// KindSpace emits a space.
	KindSpace
	// KindDelete removes the last character.
	KindDelete
	// KindShift toggles one-shot uppercase.
	KindShift
	// KindCaps toggles persistent uppercase.
	KindCaps
)

// String returns the modifier tag used for the kind.
func (k Kind) String() string {
	switch k {
	case KindChar:
		return "char"
	case KindSpace:
		return "space"
	case KindDelete:
		return "delete"
	case KindShift:
		return "shift"
	case KindCaps:
		return "caps"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Key is what a button produces. Char is the base (unshifted) rune and is
// only meaningful for KindChar.
type Key struct {
	Kind Kind
	Char rune
}

// CharKey returns a character key for r, stored in its base form.
func CharKey(r rune) Key {
	return Key{Kind: KindChar, Char: unicode.ToLower(r)}
}

// Button is a labelled rectangle on the keyboard.
type Button struct {
	Pos     image.Point // top-left corner in frame pixels
	Size    image.Point // width, height
	Label   string
	Key     Key
	Hovered bool // render hint, recomputed every frame
}

// Rect returns the button's bounds.
func (b Button) Rect() image.Rectangle {
	return image.Rectangle{Min: b.Pos, Max: b.Pos.Add(b.Size)}
}

// Contains reports whether p lies strictly inside the button. Points on
// the edge are outside.
func (b Button) Contains(p image.Point) bool {
	return b.Pos.X < p.X && p.X < b.Pos.X+b.Size.X &&
		b.Pos.Y < p.Y && p.Y < b.Pos.Y+b.Size.Y
}

// Layout is an immutable, ordered set of non-overlapping buttons.
type Layout struct {
	variant Variant
	buttons []Button
}

// New builds a layout from explicit buttons. Buttons must not overlap.
func New(variant Variant, buttons []Button) (*Layout, error) {
	for i := range buttons {
		for j := i + 1; j < len(buttons); j++ {
			if buttons[i].Rect().Overlaps(buttons[j].Rect()) {
				return nil, fmt.Errorf("buttons %q and %q overlap", buttons[i].Label, buttons[j].Label)
			}
		}
	}

	bs := make([]Button, len(buttons))
	copy(bs, buttons)
	for i := range bs {
		bs[i].Hovered = false
	}

	return &Layout{variant: variant, buttons: bs}, nil
}

// ParseVariant converts a configuration string into a Variant.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case VariantBasic, VariantExtended:
		return v, nil
	case "":
		return VariantExtended, nil
	}
	return "", fmt.Errorf("unknown layout variant %q", s)
}

// ForVariant returns the built-in layout for v.
func ForVariant(v Variant) (*Layout, error) {
	switch v {
	case VariantBasic:
		return Basic(), nil
	case VariantExtended:
		return Extended(), nil
	}
	return nil, fmt.Errorf("unknown layout variant %q", v)
}

// Variant returns the variant the layout was built as.
func (l *Layout) Variant() Variant {
	return l.variant
}

// Len returns the number of buttons.
func (l *Layout) Len() int {
	return len(l.buttons)
}

// Button returns the i-th button.
func (l *Layout) Button(i int) Button {
	return l.buttons[i]
}

// Buttons returns a copy of the buttons with every Hovered flag cleared.
func (l *Layout) Buttons() []Button {
	bs := make([]Button, len(l.buttons))
	copy(bs, l.buttons)
	return bs
}

// HitTest returns the index of the button strictly containing p, or -1.
func (l *Layout) HitTest(p image.Point) int {
	for i := range l.buttons {
		if l.buttons[i].Contains(p) {
			return i
		}
	}
	return -1
}

// Bounds returns the smallest rectangle enclosing every button.
func (l *Layout) Bounds() image.Rectangle {
	var r image.Rectangle
	for _, b := range l.buttons {
		r = r.Union(b.Rect())
	}
	return r
}
