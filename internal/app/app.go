// Package app runs the virtual keyboard: it reads camera frames, steps the
// engine, forwards committed keys and publishes what it sees.
package app

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/airkeys/internal/capture"
	"github.com/ayusman/airkeys/internal/detector"
	"github.com/ayusman/airkeys/internal/dispatch"
	"github.com/ayusman/airkeys/internal/engine"
	"github.com/ayusman/airkeys/internal/render"
	"github.com/ayusman/airkeys/internal/store"
	"github.com/google/uuid"
	"gocv.io/x/gocv"
)

// Session sources recorded in the history store.
const (
	SourceCamera = "camera"
	SourceReplay = "replay"
)

// ErrAlreadyRunning is returned by Start once the app has been started.
var ErrAlreadyRunning = errors.New("app already running")

// Display shows rendered frames. Show reports whether the user asked to quit.
type Display interface {
	Show(img gocv.Mat) bool
	Close() error
}

// Config holds everything the app needs. Camera, Detector and Engine are
// required; the rest is optional.
type Config struct {
	Engine     *engine.Engine
	Camera     capture.Camera
	Detector   detector.Detector
	Preprocess capture.Preprocessor

	// Injector receives committed keys. Nil runs in degraded mode: text is
	// still typed into the on-screen buffer but nothing reaches the OS.
	Injector  dispatch.Injector
	QueueSize int

	// History records each committed keystroke when set.
	History *store.Store
	Source  string

	Display Display
	Overlay render.Overlay
	// Stream keeps a JPEG of the latest rendered frame for the MJPEG endpoint.
	Stream bool

	// Record receives every detector result as a JSON line.
	Record io.Writer

	// Clock defaults to time.Now.
	Clock func() time.Time
	// FrameInterval paces the loop. Zero reads frames as fast as the
	// camera delivers them.
	FrameInterval time.Duration
}

// App is the frame loop and the state it publishes.
type App struct {
	config     Config
	engine     *engine.Engine
	dispatcher *dispatch.Dispatcher
	sessionID  string

	// state is owned by the frame loop goroutine.
	state  engine.State
	paused atomic.Bool

	mu       sync.RWMutex
	snapshot engine.Snapshot
	frame    []byte
	lastKey  string
	frames   int64
	stopCh   chan struct{}
	done     chan struct{}
	err      error
	hooks    []func(engine.Event)

	subs *broadcaster
}

// New creates an App. When a history store is configured a typing session
// is created and every committed key is recorded against it.
func New(config Config) (*App, error) {
	if config.Engine == nil || config.Camera == nil || config.Detector == nil {
		return nil, errors.New("app: engine, camera and detector are required")
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if config.Source == "" {
		config.Source = SourceCamera
	}

	a := &App{
		config: config,
		engine: config.Engine,
		state:  config.Engine.Start(),
		subs:   newBroadcaster(),
	}

	injector := config.Injector
	if config.History != nil {
		sess := &store.Session{
			ID:        uuid.New().String(),
			Layout:    string(config.Engine.Layout().Variant()),
			Source:    config.Source,
			StartedAt: config.Clock(),
		}
		if err := config.History.Sessions().Create(sess); err != nil {
			return nil, fmt.Errorf("create typing session: %w", err)
		}
		a.sessionID = sess.ID
		injector = dispatch.Multi(injector, dispatch.NewRecorder(config.History.Keystrokes(), sess.ID))
	}
	if config.Injector == nil {
		log.Println("No key injector available, typing into the on-screen buffer only")
	}
	a.dispatcher = dispatch.New(injector, config.QueueSize)

	a.snapshot = a.engine.Snapshot(a.state, engine.Result{}, config.Clock())
	return a, nil
}

// StepClock returns a clock that starts at start and advances by step on
// every call. Replays use it so cooldowns follow the recorded frame rate
// instead of how fast frames are read.
func StepClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(step)
		return now
	}
}

// Engine returns the keyboard engine.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// Dispatcher returns the key dispatcher.
func (a *App) Dispatcher() *dispatch.Dispatcher {
	return a.dispatcher
}

// SessionID returns the history session id, or "" without a history store.
func (a *App) SessionID() string {
	return a.sessionID
}

// SetPaused pauses or resumes typing. Hands are still tracked and hover
// feedback is still drawn while paused.
func (a *App) SetPaused(paused bool) {
	if a.paused.Swap(paused) != paused {
		if paused {
			log.Println("Typing paused")
		} else {
			log.Println("Typing resumed")
		}
	}
}

// Paused reports whether typing is paused.
func (a *App) Paused() bool {
	return a.paused.Load()
}

// OnCommit registers fn to run on the frame loop after each commit.
func (a *App) OnCommit(fn func(engine.Event)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, fn)
}

// Snapshot returns the most recently published snapshot.
func (a *App) Snapshot() engine.Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshot
}

// Text returns the typed text.
func (a *App) Text() string {
	return a.Snapshot().Text
}

// LastKey returns the label of the last committed key.
func (a *App) LastKey() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastKey
}

// Frames returns the number of frames processed.
func (a *App) Frames() int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.frames
}

// LatestFrame returns the latest rendered frame as JPEG, or nil when
// streaming is off or no frame has been rendered yet.
func (a *App) LatestFrame() []byte {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.frame
}

// Subscribe returns a channel of published snapshots and a function that
// cancels the subscription. Subscribers that fall behind lose their oldest
// pending snapshots.
func (a *App) Subscribe() (<-chan engine.Snapshot, func()) {
	return a.subs.subscribe()
}

// Err returns the error that stopped the frame loop, if any.
func (a *App) Err() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.err
}
