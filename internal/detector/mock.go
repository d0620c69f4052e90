package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PinchLandmarks returns a full right hand whose thumb tip sits at
// (thumbX, thumbY) and index tip at (indexX, indexY), all normalized.
// The remaining landmarks are laid out below the fingertips so the hand
// looks plausible when drawn.
func PinchLandmarks(thumbX, thumbY, indexX, indexY float64) HandLandmarks {
	hand := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
		Points:     make([]Point3D, NumLandmarks),
	}

	baseX := (thumbX + indexX) / 2
	baseY := (thumbY+indexY)/2 + 0.25

	hand.Points[Wrist] = Point3D{X: baseX, Y: baseY}

	hand.Points[ThumbCMC] = Point3D{X: baseX + 0.05, Y: baseY - 0.05}
	hand.Points[ThumbMCP] = Point3D{X: baseX + 0.07, Y: baseY - 0.10}
	hand.Points[ThumbIP] = Point3D{X: (baseX+0.07+thumbX)/2 + 0.01, Y: (baseY - 0.10 + thumbY) / 2}
	hand.Points[ThumbTip] = Point3D{X: thumbX, Y: thumbY}

	hand.Points[IndexMCP] = Point3D{X: baseX + 0.03, Y: baseY - 0.15}
	hand.Points[IndexPIP] = Point3D{X: baseX + 0.02, Y: baseY - 0.19}
	hand.Points[IndexDIP] = Point3D{X: (baseX + 0.02 + indexX) / 2, Y: (baseY - 0.19 + indexY) / 2}
	hand.Points[IndexTip] = Point3D{X: indexX, Y: indexY}

	// Curled middle, ring and pinky fingers.
	for f, mcp := range []int{MiddleMCP, RingMCP, PinkyMCP} {
		x := baseX - 0.02*float64(f)
		y := baseY - 0.14 + 0.01*float64(f)
		hand.Points[mcp] = Point3D{X: x, Y: y}
		hand.Points[mcp+1] = Point3D{X: x, Y: y - 0.03, Z: -0.03}
		hand.Points[mcp+2] = Point3D{X: x - 0.01, Y: y - 0.01, Z: -0.04}
		hand.Points[mcp+3] = Point3D{X: x - 0.01, Y: y + 0.01, Z: -0.02}
	}

	return hand
}

// OpenHandLandmarks returns a hand with thumb and index tips far apart,
// index tip at (indexX, indexY).
func OpenHandLandmarks(indexX, indexY float64) HandLandmarks {
	return PinchLandmarks(indexX+0.12, indexY+0.10, indexX, indexY)
}

// PartialLandmarks returns a hand report that stops before the index tip,
// as a detector may emit for a hand leaving the frame.
func PartialLandmarks() HandLandmarks {
	hand := PinchLandmarks(0.5, 0.5, 0.51, 0.5)
	hand.Points = hand.Points[:IndexTip]
	return hand
}
