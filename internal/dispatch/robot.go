package dispatch

import (
	"context"
	"fmt"

	"github.com/go-vgo/robotgo"

	"github.com/ayusman/airkeys/internal/engine"
)

// RobotInjector types intents with OS-level synthetic key events.
type RobotInjector struct {
	typeStr func(string)
	keyTap  func(string) error
}

var _ Injector = (*RobotInjector)(nil)

// NewRobotInjector creates a RobotInjector. It fails with
// ErrInjectorUnavailable when there is no screen to send events to.
func NewRobotInjector() (*RobotInjector, error) {
	if w, h := robotgo.GetScreenSize(); w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: no display", ErrInjectorUnavailable)
	}

	return &RobotInjector{
		typeStr: func(s string) { robotgo.TypeStr(s) },
		keyTap:  func(k string) error { return robotgo.KeyTap(k) },
	}, nil
}

// Inject types one intent. Characters are typed as text so case and
// symbols do not depend on the keyboard layout.
func (r *RobotInjector) Inject(ctx context.Context, in engine.Intent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch in.Kind {
	case engine.IntentChar:
		r.typeStr(string(in.Char))
		return nil
	case engine.IntentSpace, engine.IntentBackspace:
		return r.keyTap(in.String())
	}
	return fmt.Errorf("unsupported intent %s", in.String())
}
