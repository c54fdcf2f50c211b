// Package util contains various utilities used by go-hinge.
package util

import (
	"context"
	"fmt"
	"slices"
)

// GrowCap grows the capacity of a slice to at least the given target.
// The size grows exponentially, in order to avoid frequent reallocation.
func GrowCap[T any](s []T, target int) []T {
	c := cap(s)
	for c < target {
		c = c*11/10 + 10
	}
	return slices.Grow(s, c-len(s))
}

// ShrinkWrap shrink-wraps the slice, i.e. leaves no excess capacity.
// Identical to slices.Clip, except it coerces zero-length slice into nil.
func ShrinkWrap[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return slices.Clip(s)
}

// ElementAtWithErr returns the element at the given index.
func ElementAtWithErr[T any](s []T, i int) (elem T, err error) {
	if i < len(s) {
		elem = s[i]
	} else {
		err = IndexOutOfBoundsError{i, len(s)}
	}
	return
}

// ElementAtWithErrFn returns a function that returns the element at the given index.
func ElementAtWithErrFn[T any](s []T) func(int) (T, error) {
	return func(i int) (elem T, err error) { return ElementAtWithErr(s, i) }
}

// Map applies a function to each slice element and returns results as a slice.
func Map[S any, T any](s []S, f func(S) T) (t []T) {
	for _, v := range s {
		t = append(t, f(v))
	}
	return
}

// MapWithErr applies a function to each slice element
// and returns results as a slice, stopping at the first error return.
//
// len(t) < len(s) iff err != nil; in this case, err is from the function
// called with s[len(t)].
func MapWithErr[S any, T any](
	s []S, f func(S) (T, error),
) (t []T, err error) {
	t = make([]T, 0, len(s))
	var tv T
	for _, sv := range s {
		tv, err = f(sv)
		if err != nil {
			return
		}
		t = append(t, tv)
	}
	return
}

// Chunk splits s into consecutive chunks of at most size elements.
// The chunks share the backing array of s.
func Chunk[T any](s []T, size int) [][]T {
	if size <= 0 {
		size = len(s)
	}
	var chunks [][]T
	for len(s) > 0 {
		n := min(size, len(s))
		chunks = append(chunks, s[:n:n])
		s = s[n:]
	}
	return chunks
}

// IndexOutOfBoundsError is returned when the requested index is out of bounds.
type IndexOutOfBoundsError struct {
	Index int
	Bound int
}

func (e IndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("index %d out of bounds 0 <= index < %d", e.Index,
		e.Bound)
}

// Is matches any IndexOutOfBoundsError regardless of its fields.
func (e IndexOutOfBoundsError) Is(target error) bool {
	_, ok := target.(IndexOutOfBoundsError)
	return ok
}

// SendElements sends all elements of the given slice to a channel.
func SendElements[T any](ctx context.Context, s []T, ch chan<- T) error {
	for _, v := range s {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ch <- v:
		}
	}
	return nil
}
