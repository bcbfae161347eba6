// Package checkpoint decorates errors with the file and line of the
// call site, so a failure deep inside the volume engine can be traced
// without carrying a full stack trace around. Errors attached to a
// checkpoint stay visible to errors.Is and errors.As.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
)

// From wraps err with the caller's position. It returns nil for nil and
// passes io.EOF and io.ErrUnexpectedEOF through untouched, because the
// io package compares those by identity.
func From(err error) error {
	if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
		return err
	}

	return &checkpoint{prev: err, at: caller()}
}

// Wrap adds a checkpoint around prev and attaches err as an additional
// sentinel describing the failure, so callers can check either with
// errors.Is. It returns nil if prev is nil and passes io.EOF through.
func Wrap(prev, err error) error {
	if prev == nil || prev == io.EOF {
		return prev
	}

	return &checkpoint{err: err, prev: prev, at: caller()}
}

type checkpoint struct {
	err  error
	prev error
	at   string
}

func caller() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

func (c *checkpoint) Error() string {
	if c.err != nil {
		return fmt.Sprintf("%s: %v: %v", c.at, c.err, c.prev)
	}
	return fmt.Sprintf("%s: %v", c.at, c.prev)
}

func (c *checkpoint) Unwrap() error {
	return c.prev
}

func (c *checkpoint) Is(target error) bool {
	return c.err != nil && errors.Is(c.err, target)
}

func (c *checkpoint) As(target interface{}) bool {
	return c.err != nil && errors.As(c.err, target)
}
