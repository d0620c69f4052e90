package dispatch

import (
	"context"
	"errors"

	"github.com/ayusman/airkeys/internal/engine"
)

// multiInjector delivers each intent to every injector in order.
type multiInjector []Injector

var _ Injector = multiInjector(nil)

// Multi combines injectors. Nil injectors are skipped; with none left the
// result is nil, which a Dispatcher treats as no sink.
func Multi(injectors ...Injector) Injector {
	var m multiInjector
	for _, inj := range injectors {
		if inj != nil {
			m = append(m, inj)
		}
	}
	switch len(m) {
	case 0:
		return nil
	case 1:
		return m[0]
	}
	return m
}

// Inject delivers to every injector and joins their errors.
func (m multiInjector) Inject(ctx context.Context, in engine.Intent) error {
	var errs []error
	for _, inj := range m {
		if err := inj.Inject(ctx, in); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
