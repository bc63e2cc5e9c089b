package pipeline

import (
	"errors"
	"fmt"
)

// Stage names the pipeline step that failed.
type Stage string

const (
	StageLookup  Stage = "lookup"
	StageRender  Stage = "render"
	StageDerive  Stage = "derive"
	StageCleanup Stage = "cleanup"
	StageInsert  Stage = "insert"
)

// ErrUnknownSize is returned, unwrapped, when the requested size label is not
// configured. No stage has run at that point.
var ErrUnknownSize = errors.New("unknown size")

// Error wraps the failure that stopped a resolve.
type Error struct {
	Stage Stage
	URL   string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("resolve %s: %s: %v", e.URL, e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
