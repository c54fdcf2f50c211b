package util

import (
	"context"
	"errors"
)

// ErrFromCh expects an error from the given channel and returns it.
// If ch is closed without delivering one, ErrFromCh returns an error.
func ErrFromCh(ctx context.Context, ch <-chan error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err, ok := <-ch:
		if !ok {
			err = errors.New("error channel closed unexpectedly")
		}
		return err
	}
}
