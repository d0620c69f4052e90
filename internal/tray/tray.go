// Package tray provides a system tray menu for the keyboard.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray menu.
type Tray struct {
	onToggle func(paused bool)
	onOpen   func()
	onQuit   func()
	paused   bool
	lastKey  string
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle  *systray.MenuItem
	menuLastKey *systray.MenuItem
}

// New creates a new Tray with typing enabled.
func New() *Tray {
	return &Tray{}
}

// OnToggle sets the callback run when typing is paused or resumed.
func (t *Tray) OnToggle(fn func(paused bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpen sets the callback run when the web view menu item is clicked.
// Without one the item is hidden.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("AirKeys")
	systray.SetTooltip("AirKeys virtual keyboard")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.paused), "Pause or resume typing")
	systray.AddSeparator()

	t.menuLastKey = systray.AddMenuItem(lastKeyTitle(t.lastKey), "Last typed key")
	t.menuLastKey.Disable()
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open Web View...", "Open the keyboard in a browser")
	if t.onOpen == nil {
		menuOpen.Hide()
	}
	t.mu.Unlock()
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit AirKeys")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.paused = !t.paused
	paused := t.paused
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(paused))
	}
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(paused)
	}
}

func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetPaused updates the toggle when typing is paused elsewhere, such as
// through the HTTP API. It does not run the toggle callback.
func (t *Tray) SetPaused(paused bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.paused = paused
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(paused))
	}
}

// SetLastKey updates the last key display in the menu.
func (t *Tray) SetLastKey(label string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastKey = label
	if t.menuLastKey != nil {
		t.menuLastKey.SetTitle(lastKeyTitle(label))
	}
}

// IsPaused returns whether the tray shows typing as paused.
func (t *Tray) IsPaused() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.paused
}

func toggleTitle(paused bool) string {
	if paused {
		return "○ Paused"
	}
	return "● Typing"
}

func lastKeyTitle(label string) string {
	switch label {
	case "":
		return "Last: none"
	case " ":
		return "Last: space"
	}
	return "Last: " + label
}
