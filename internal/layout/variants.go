package layout

import "image"

var basicRows = []string{
	"QWERTYUIOP",
	"ASDFGHJKL;",
	"ZXCVBNM,./",
}

var extendedRows = []string{
	"1234567890",
	"QWERTYUIOP",
	"ASDFGHJKL;",
	"ZXCVBNM,./",
}

// Basic returns the QWERTY letter grid with a space bar and a "clr" key
// that deletes the last character.
func Basic() *Layout {
	const (
		pitch  = 100
		startX = 50
		startY = 150
	)
	keySize := image.Pt(85, 85)

	var buttons []Button
	for i, row := range basicRows {
		for j, r := range row {
			buttons = append(buttons, Button{
				Pos:   image.Pt(pitch*j+startX, pitch*i+startY),
				Size:  keySize,
				Label: string(r),
				Key:   CharKey(r),
			})
		}
	}

	buttons = append(buttons,
		Button{Pos: image.Pt(pitch*2+startX, 450), Size: image.Pt(400, 85), Label: " ", Key: Key{Kind: KindSpace}},
		Button{Pos: image.Pt(pitch*7+startX, 450), Size: image.Pt(200, 85), Label: "clr", Key: Key{Kind: KindDelete}},
	)

	return mustNew(VariantBasic, buttons)
}

// Extended returns the digit and letter grid with a modifier row holding
// Shift, Caps, Del and a space bar.
func Extended() *Layout {
	const (
		startX  = 50
		startY  = 150
		spacing = 5
	)
	keySize := image.Pt(50, 50)
	modSize := image.Pt(80, 50)
	spaceSize := image.Pt(280, 50)

	var buttons []Button
	for i, row := range extendedRows {
		for j, r := range row {
			buttons = append(buttons, Button{
				Pos: image.Pt(
					startX+j*(keySize.X+spacing),
					startY+i*(keySize.Y+spacing),
				),
				Size:  keySize,
				Label: string(r),
				Key:   CharKey(r),
			})
		}
	}

	modY := startY + len(extendedRows)*(keySize.Y+spacing)
	modX := func(n int) int { return startX + n*(modSize.X+spacing) }

	buttons = append(buttons,
		Button{Pos: image.Pt(modX(0), modY), Size: modSize, Label: "Shift", Key: Key{Kind: KindShift}},
		Button{Pos: image.Pt(modX(1), modY), Size: modSize, Label: "Caps", Key: Key{Kind: KindCaps}},
		Button{Pos: image.Pt(modX(2), modY), Size: modSize, Label: "Del", Key: Key{Kind: KindDelete}},
		Button{Pos: image.Pt(modX(3), modY), Size: spaceSize, Label: " ", Key: Key{Kind: KindSpace}},
	)

	return mustNew(VariantExtended, buttons)
}

func mustNew(v Variant, buttons []Button) *Layout {
	l, err := New(v, buttons)
	if err != nil {
		panic("layout: built-in " + string(v) + " layout is invalid: " + err.Error())
	}
	return l
}
