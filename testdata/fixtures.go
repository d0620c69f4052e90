// Package testdata holds recorded landmark sessions for replay tests.
package testdata

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/ayusman/airkeys/internal/detector"
)

// Recordings were captured on a 1280x720 frame with the extended layout.
const (
	RecordingWidth  = 1280
	RecordingHeight = 720
)

// HiFive is a recording that types Shift, h, i, space and 5, one pinch per
// key, which leaves "Hi 5" in the buffer.
const (
	HiFive     = "hi5.jsonl"
	HiFiveText = "Hi 5"
)

//go:embed landmarks/*.jsonl
var landmarksFS embed.FS

// Open returns the raw bytes of a recording.
func Open(name string) ([]byte, error) {
	data, err := landmarksFS.ReadFile(path.Join("landmarks", name))
	if err != nil {
		return nil, fmt.Errorf("load recording %s: %w", name, err)
	}
	return data, nil
}

// LoadRecording parses a recording into per-frame hand detections.
func LoadRecording(name string) ([][]detector.HandLandmarks, error) {
	data, err := Open(name)
	if err != nil {
		return nil, err
	}

	frames, err := detector.ReadRecording(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse recording %s: %w", name, err)
	}
	return frames, nil
}

// Recordings lists the embedded recordings.
func Recordings() []string {
	entries, err := fs.ReadDir(landmarksFS, "landmarks")
	if err != nil {
		return nil
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl") {
			names = append(names, e.Name())
		}
	}
	return names
}
