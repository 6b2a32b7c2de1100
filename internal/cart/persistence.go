package cart

import (
	"context"
	"errors"
)

// Persistence is the best-effort snapshot medium behind the cart. Writes may
// fail without affecting the in-memory cart; Load reports a missing snapshot
// with ErrNoSnapshot.
type Persistence interface {
	Load(ctx context.Context) ([]Line, error)
	Save(ctx context.Context, lines []Line) error
	Delete(ctx context.Context) error
}

var ErrNoSnapshot = errors.New("no cart snapshot")
