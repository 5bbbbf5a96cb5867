package port

//go:generate mockgen -source=root_visual_flag.go -destination=mocks/mock_root_visual_flag.go -package=mocks

import "context"

// RootVisualFlag is the single externally visible dark boolean that
// styling consumers key off of.
type RootVisualFlag interface {
	// SetDark applies the flag. Applying the same value twice must be
	// indistinguishable from applying it once.
	SetDark(ctx context.Context, dark bool) error
}
