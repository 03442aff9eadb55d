package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Generator turns a prompt into raw model text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// ErrTimeout is returned when the generation budget elapses.
var ErrTimeout = errors.New("generation timed out")

// StatusError reports a transport or HTTP failure. Status is 0 when no
// HTTP response was received.
type StatusError struct {
	Status int
	Err    error
}

func (e *StatusError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("generation unavailable: %v", e.Err)
	}
	return fmt.Sprintf("generation unavailable (status %d): %v", e.Status, e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

// classify maps a client error to ErrTimeout or *StatusError.
func classify(err error, status int) error {
	if err == nil {
		return nil
	}
	if isTimeout(err) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return &StatusError{Status: status, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
