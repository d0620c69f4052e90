// Package detector provides hand detection interfaces and types for the virtual keyboard.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// MinPinchLandmarks is the number of landmarks a hand report needs so that
// both the thumb tip and the index tip are present.
const MinPinchLandmarks = IndexTip + 1

// Point3D represents a landmark position. X and Y are normalized to [0,1]
// relative to the frame; Z is the model's relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one detected hand. Points normally holds NumLandmarks
// entries, but partial reports from the detector are passed through as-is.
type HandLandmarks struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"` // "Left" or "Right"
	Score      float64   `json:"score"`
}

// HasPinchPoints reports whether the hand carries both fingertip landmarks.
func (h *HandLandmarks) HasPinchPoints() bool {
	return h != nil && len(h.Points) >= MinPinchLandmarks
}

// ThumbTip returns the thumb tip landmark. It must only be called when
// HasPinchPoints is true.
func (h *HandLandmarks) ThumbTip() Point3D {
	return h.Points[ThumbTip]
}

// IndexTip returns the index finger tip landmark. It must only be called
// when HasPinchPoints is true.
func (h *HandLandmarks) IndexTip() Point3D {
	return h.Points[IndexTip]
}
