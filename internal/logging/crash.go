package logging

import (
	"context"
	"runtime/debug"
)

// RecoverPanic logs a recovered panic with its stack trace and swallows it.
// Must be called directly with defer.
func RecoverPanic(ctx context.Context, where string) {
	r := recover()
	if r == nil {
		return
	}

	FromContext(ctx).Error().
		Str("where", where).
		Interface("panic", r).
		Bytes("stack", debug.Stack()).
		Msg("recovered from panic")
}
