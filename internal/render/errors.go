package render

import (
	"errors"
	"fmt"
)

// Kind classifies a render failure.
type Kind int

const (
	// KindTimeout means the page did not finish loading within the budget.
	KindTimeout Kind = iota + 1
	// KindLoadFailed means navigation itself reported failure.
	KindLoadFailed
	// KindSession means no rendering context could be acquired.
	KindSession
	// KindCapture means the page loaded but the screenshot could not be
	// taken or stored.
	KindCapture
)

var (
	ErrTimeout    = errors.New("timeout")
	ErrLoadFailed = errors.New("load")
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindLoadFailed:
		return "load failed"
	case KindSession:
		return "session"
	case KindCapture:
		return "capture"
	}
	return "unknown"
}

// Error is returned by Render.
type Error struct {
	Kind Kind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("render %s: %s", e.URL, e.Kind)
	}
	return fmt.Sprintf("render %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrTimeout) and errors.Is(err, ErrLoadFailed) match
// by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTimeout:
		return e.Kind == KindTimeout
	case ErrLoadFailed:
		return e.Kind == KindLoadFailed
	}
	return false
}
