package render

import "gocv.io/x/gocv"

// KeyEscape is the key code WaitKey reports for ESC.
const KeyEscape = 27

// Window shows rendered frames in a desktop window.
type Window struct {
	w *gocv.Window
}

// NewWindow opens a window with the given title.
func NewWindow(title string) *Window {
	return &Window{w: gocv.NewWindow(title)}
}

// Show displays img and polls the keyboard for one millisecond. It reports
// whether ESC was pressed.
func (w *Window) Show(img gocv.Mat) bool {
	w.w.IMShow(img)
	return w.w.WaitKey(1) == KeyEscape
}

// Close closes the window.
func (w *Window) Close() error {
	return w.w.Close()
}
