package capture

import (
	"image"

	"gocv.io/x/gocv"
)

// Preprocessor prepares a BGR camera frame for detection and display.
// All steps run in place on the frame.
type Preprocessor struct {
	// Mirror flips the frame horizontally so the view behaves like a mirror.
	Mirror bool
	// Equalize equalises the luma histogram to even out lighting.
	Equalize bool
	// Blur applies a 3x3 Gaussian blur to suppress sensor noise.
	Blur bool
}

// BlurSize is the Gaussian kernel used when Blur is set.
const BlurSize = 3

// Enabled reports whether any step is configured.
func (p Preprocessor) Enabled() bool {
	return p.Mirror || p.Equalize || p.Blur
}

// Apply runs the configured steps. Empty frames are left untouched.
func (p Preprocessor) Apply(frame *gocv.Mat) {
	if frame == nil || frame.Empty() {
		return
	}

	if p.Mirror {
		gocv.Flip(*frame, frame, 1)
	}
	if p.Equalize && frame.Channels() == 3 {
		equalizeLuma(frame)
	}
	if p.Blur {
		gocv.GaussianBlur(*frame, frame, image.Pt(BlurSize, BlurSize), 0, 0, gocv.BorderDefault)
	}
}

// equalizeLuma equalises the Y channel in YUV space and converts back.
func equalizeLuma(frame *gocv.Mat) {
	yuv := gocv.NewMat()
	defer yuv.Close()
	gocv.CvtColor(*frame, &yuv, gocv.ColorBGRToYUV)

	channels := gocv.Split(yuv)
	defer func() {
		for _, ch := range channels {
			ch.Close()
		}
	}()

	gocv.EqualizeHist(channels[0], &channels[0])
	gocv.Merge(channels, &yuv)
	gocv.CvtColor(yuv, frame, gocv.ColorYUVToBGR)
}
