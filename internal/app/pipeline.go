package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ayusman/airkeys/internal/capture"
	"github.com/ayusman/airkeys/internal/detector"
	"github.com/ayusman/airkeys/internal/engine"
	"github.com/ayusman/airkeys/internal/logx"
	"github.com/ayusman/airkeys/internal/tracking"
	"gocv.io/x/gocv"
)

// MaxReadFailures is the number of consecutive failed camera reads after
// which the frame loop gives up.
const MaxReadFailures = 30

// ErrCameraFailed is recorded when the camera stops delivering frames.
var ErrCameraFailed = errors.New("camera stopped delivering frames")

// Start opens the camera and starts the frame loop. An App runs once.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return ErrAlreadyRunning
	}

	if err := a.config.Camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}

	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.runPipeline(a.stopCh, a.done)

	log.Println("Frame loop started")
	return nil
}

// Stop ends the frame loop at the next frame boundary and waits for the
// queued keys to be delivered.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, done := a.stopCh, a.done
	if stopCh != nil {
		select {
		case <-stopCh:
		default:
			close(stopCh)
		}
	}
	a.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Run starts the frame loop and blocks until it exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		a.Stop()
	case <-a.Done():
	}
	return a.Err()
}

// Done is closed once the frame loop has exited. It is nil before Start.
func (a *App) Done() <-chan struct{} {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.done
}

// ProcessFrame runs one frame through detection, the engine, dispatch and
// rendering, and publishes the resulting snapshot. It reports whether the
// display asked to quit. The frame loop calls it; it must not be called
// while the loop is running.
func (a *App) ProcessFrame(frame *gocv.Mat) (bool, error) {
	now := a.config.Clock()

	a.config.Preprocess.Apply(frame)

	hands, err := a.config.Detector.Detect(frame)
	if err != nil {
		if errors.Is(err, detector.ErrEndOfRecording) {
			return false, err
		}
		return false, fmt.Errorf("detect hands: %w", err)
	}

	if a.config.Record != nil {
		if err := detector.WriteRecordingFrame(a.config.Record, hands); err != nil {
			log.Printf("Failed to record frame: %v", err)
		}
	}

	st := a.state
	st.Paused = a.paused.Load()
	st, res := a.engine.Step(st, tracking.Frame{
		Width:  frame.Cols(),
		Height: frame.Rows(),
		Hands:  hands,
	}, now)
	a.state = st

	if res.Commit != nil {
		a.dispatcher.Dispatch(res.Commit.Intents...)
		logx.Verbose("Committed %s from hand %d, text=%q", res.Commit.Key.Kind, res.Commit.Slot, st.Session.Text)
	}

	snap := a.engine.Snapshot(st, res, now)
	quit := a.render(frame, snap)
	a.publish(snap, res.Commit)

	return quit, nil
}

// runPipeline reads frames until it is stopped, the recording ends, the
// window asks to quit or the camera fails.
func (a *App) runPipeline(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer a.finish()

	var tick <-chan time.Time
	if a.config.FrameInterval > 0 {
		ticker := time.NewTicker(a.config.FrameInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	failures := 0
	for {
		select {
		case <-stopCh:
			return
		default:
		}
		if tick != nil {
			select {
			case <-stopCh:
				return
			case <-tick:
			}
		}

		frame, err := a.config.Camera.ReadFrame()
		if err != nil {
			failures++
			log.Printf("Error reading frame: %v", err)
			if failures >= MaxReadFailures || errors.Is(err, capture.ErrCameraNotOpen) {
				a.setErr(fmt.Errorf("%w: %v", ErrCameraFailed, err))
				return
			}
			continue
		}
		failures = 0

		quit, err := a.ProcessFrame(frame)
		frame.Close()

		switch {
		case errors.Is(err, detector.ErrEndOfRecording):
			log.Println("Recording finished")
			return
		case err != nil:
			log.Printf("Error processing frame: %v", err)
		}
		if quit {
			log.Println("Quit requested from the window")
			return
		}
	}
}

// render draws the overlay when something will look at it.
func (a *App) render(frame *gocv.Mat, snap engine.Snapshot) bool {
	if a.config.Display == nil && !a.config.Stream {
		return false
	}

	a.config.Overlay.Draw(frame, snap)

	if a.config.Stream {
		if buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame); err != nil {
			log.Printf("Failed to encode frame: %v", err)
		} else {
			data := bytes.Clone(buf.GetBytes())
			buf.Close()

			a.mu.Lock()
			a.frame = data
			a.mu.Unlock()
		}
	}

	if a.config.Display != nil {
		return a.config.Display.Show(*frame)
	}
	return false
}

func (a *App) publish(snap engine.Snapshot, commit *engine.Event) {
	a.mu.Lock()
	a.snapshot = snap
	a.frames++
	var hooks []func(engine.Event)
	if commit != nil {
		a.lastKey = keyLabel(a.engine, commit)
		hooks = a.hooks
	}
	a.mu.Unlock()

	for _, fn := range hooks {
		fn(*commit)
	}
	a.subs.publish(snap)
}

func keyLabel(e *engine.Engine, ev *engine.Event) string {
	if ev.Button >= 0 && ev.Button < e.Layout().Len() {
		return e.Layout().Button(ev.Button).Label
	}
	return ev.Key.Kind.String()
}

func (a *App) setErr(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err == nil {
		a.err = err
	}
}

// finish releases the loop's collaborators and closes the history session.
func (a *App) finish() {
	if err := a.dispatcher.Close(); err != nil {
		log.Printf("Error closing dispatcher: %v", err)
	}
	stats := a.dispatcher.Stats()
	logx.Info("Keys delivered=%d failed=%d dropped=%d", stats.Delivered, stats.Failed, stats.Dropped)

	if err := a.config.Camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	if err := a.config.Detector.Close(); err != nil {
		log.Printf("Error closing detector: %v", err)
	}
	if a.config.Display != nil {
		if err := a.config.Display.Close(); err != nil {
			log.Printf("Error closing window: %v", err)
		}
	}

	if a.sessionID != "" {
		if err := a.config.History.Sessions().Finish(a.sessionID, a.state.Session.Text, a.config.Clock()); err != nil {
			log.Printf("Failed to finish typing session: %v", err)
		}
	}

	a.subs.close()
	log.Println("Frame loop stopped")
}
