// Package result provides a two-variant success/error carrier used by every
// pipeline operation in place of raised errors. Business failures travel as the
// error side of a Result; only programmer misuse (reading the wrong side) panics.
package result

import "fmt"

// Result holds exactly one of a value or an error, never both.
type Result[T any] struct {
	value T
	err   error
	ok    bool
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// Err wraps a failure. A nil error is invalid and fails fast.
func Err[T any](err error) Result[T] {
	if err == nil {
		panic("result: Err called with nil error")
	}
	return Result[T]{err: err}
}

// IsOk reports whether the Result holds a value.
func (r Result[T]) IsOk() bool {
	return r.ok
}

// IsErr reports whether the Result holds an error.
func (r Result[T]) IsErr() bool {
	return !r.ok
}

// Value returns the success value. Calling Value on an error Result is an
// invariant violation and panics immediately.
func (r Result[T]) Value() T {
	if !r.ok {
		panic(fmt.Sprintf("result: Value called on error result: %v", r.err))
	}
	return r.value
}

// ErrValue returns the error. Calling ErrValue on a success Result is an
// invariant violation and panics immediately.
func (r Result[T]) ErrValue() error {
	if r.ok {
		panic("result: ErrValue called on ok result")
	}
	return r.err
}

// UnwrapOr returns the success value, or def when the Result is an error.
func (r Result[T]) UnwrapOr(def T) T {
	if !r.ok {
		return def
	}
	return r.value
}

// Unpack returns the Result as a conventional (value, error) pair.
func (r Result[T]) Unpack() (T, error) {
	return r.value, r.err
}

// MapErr transforms the error side, passing a success through unchanged.
func (r Result[T]) MapErr(f func(error) error) Result[T] {
	if r.ok {
		return r
	}
	return Err[T](f(r.err))
}

// Map transforms the success value, passing an error through unchanged.
// Go methods cannot introduce type parameters, so Map and Bind are package functions.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	if r.IsErr() {
		return Err[U](r.err)
	}
	return Ok(f(r.value))
}

// Bind chains a function returning another Result, short-circuiting on the
// first error.
func Bind[T, U any](r Result[T], f func(T) Result[U]) Result[U] {
	if r.IsErr() {
		return Err[U](r.err)
	}
	return f(r.value)
}
