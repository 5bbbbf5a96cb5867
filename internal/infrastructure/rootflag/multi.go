package rootflag

import (
	"context"
	"errors"

	"github.com/bnema/dimmer/internal/application/port"
)

var _ port.RootVisualFlag = Multi(nil)

// Multi applies the flag to every sink, in order. All sinks are tried even
// if one fails; the errors are joined.
type Multi []port.RootVisualFlag

// SetDark implements port.RootVisualFlag.
func (m Multi) SetDark(ctx context.Context, dark bool) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.SetDark(ctx, dark); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
