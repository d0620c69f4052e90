package detector

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"gocv.io/x/gocv"
)

// ErrEndOfRecording is returned by ReplayDetector once every recorded frame
// has been played back and looping is disabled.
var ErrEndOfRecording = errors.New("end of recording")

// ReadRecording parses a JSON-lines recording. Each line has the same shape
// as a response from the MediaPipe service: {"hands":[{"points":[...]}]}.
// Blank lines are skipped.
func ReadRecording(r io.Reader) ([][]HandLandmarks, error) {
	var frames [][]HandLandmarks

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var msg handsMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		frames = append(frames, parseHands(msg.Hands))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}

	return frames, nil
}

// WriteRecordingFrame appends one frame of hands to a JSON-lines recording.
func WriteRecordingFrame(w io.Writer, hands []HandLandmarks) error {
	msg := handsMessage{Hands: make([]jsonHand, len(hands))}
	for i, h := range hands {
		jh := jsonHand{
			Handedness: h.Handedness,
			Score:      h.Score,
			Points:     make([]jsonPoint, len(h.Points)),
		}
		for j, p := range h.Points {
			jh.Points[j] = jsonPoint{X: p.X, Y: p.Y, Z: p.Z}
		}
		msg.Hands[i] = jh
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// ReplayDetector plays back recorded detections, ignoring the frame it is
// given. It lets the keyboard run without a camera or the Python service.
type ReplayDetector struct {
	frames [][]HandLandmarks
	index  int
	loop   bool
	mu     sync.Mutex
}

// NewReplayDetector creates a ReplayDetector over pre-parsed frames.
func NewReplayDetector(frames [][]HandLandmarks, loop bool) *ReplayDetector {
	return &ReplayDetector{
		frames: frames,
		loop:   loop,
	}
}

// Detect returns the next recorded frame.
func (d *ReplayDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.index >= len(d.frames) {
		if !d.loop || len(d.frames) == 0 {
			return nil, ErrEndOfRecording
		}
		d.index = 0
	}

	hands := d.frames[d.index]
	d.index++
	return hands, nil
}

// Remaining returns the number of frames not yet played back.
func (d *ReplayDetector) Remaining() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.frames) - d.index
}

// Close is a no-op; the recording is held in memory.
func (d *ReplayDetector) Close() error {
	return nil
}
