// Package clipboard reads and writes text on the system clipboard.
package clipboard

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/pkg/errors"
)

// UnavailabilityError is returned when the platform has no usable clipboard,
// e.g. a Linux host without xclip, xsel or wl-clipboard.
type UnavailabilityError struct {
	Op string
}

func (e *UnavailabilityError) Error() string {
	return fmt.Sprintf("clipboard is unavailable on this system: cannot %s", e.Op)
}

type backend struct {
	unsupported func() bool
	read        func() (string, error)
	write       func(string) error
}

var system = backend{
	unsupported: func() bool { return clipboard.Unsupported },
	read:        clipboard.ReadAll,
	write:       clipboard.WriteAll,
}

type contextKey struct{}

// withBackend overrides the clipboard used by the functions of this package.
func withBackend(ctx context.Context, b backend) context.Context {
	return context.WithValue(ctx, contextKey{}, b)
}

func from(ctx context.Context) backend {
	if b, ok := ctx.Value(contextKey{}).(backend); ok {
		return b
	}
	return system
}

// GetString returns the text content of the clipboard.
func GetString(ctx context.Context) (string, error) {
	b := from(ctx)
	if b.unsupported() {
		return "", &UnavailabilityError{Op: "read"}
	}

	text, err := b.read()
	if err != nil {
		return "", errors.Wrap(err, "failed to read clipboard")
	}
	return text, nil
}

// SetString replaces the clipboard content with text.
func SetString(ctx context.Context, text string) error {
	b := from(ctx)
	if b.unsupported() {
		return &UnavailabilityError{Op: "write"}
	}

	if err := b.write(text); err != nil {
		return errors.Wrap(err, "failed to write clipboard")
	}
	return nil
}

// HasString reports whether the clipboard holds any text. An unavailable
// clipboard is reported as an error rather than as empty.
func HasString(ctx context.Context) (bool, error) {
	text, err := GetString(ctx)
	if err != nil {
		return false, err
	}
	return text != "", nil
}
