package timeline

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownScale indicates a scale outside m, w and d.
	ErrUnknownScale = errors.New("timeline: unknown scale")

	// ErrUnknownEvent indicates an event type Apply does not handle.
	ErrUnknownEvent = errors.New("timeline: unknown event")
)

// ScaleError carries the offending scale value.
type ScaleError struct {
	Value string
}

func (e *ScaleError) Error() string {
	return fmt.Sprintf("not implemented scale: %q", e.Value)
}

func (e *ScaleError) Unwrap() error {
	return ErrUnknownScale
}
