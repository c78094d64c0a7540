package timeline

import (
	"fmt"
	"time"
)

const (
	MinLifespan = 50
	// LifespanSpread is the number of distinct lifespans: [50, 89].
	LifespanSpread = 40
)

// IntNer is satisfied by *rand.Rand from math/rand/v2.
type IntNer interface {
	IntN(n int) int
}

// Lifespan draws a uniform lifespan in years from [50, 89].
func Lifespan(r IntNer) int {
	return MinLifespan + r.IntN(LifespanSpread)
}

// EndFor advances start's year by years. Feb 29 rolls to Mar 1 on non-leap targets.
func EndFor(start time.Time, years int) time.Time {
	return start.AddDate(years, 0, 0)
}

type State struct {
	Start time.Time
	End   time.Time
	Scale Scale
	// Years is the last drawn lifespan.
	Years int
}

// New builds the initial state with a freshly drawn lifespan.
func New(start time.Time, scale Scale, r IntNer) (State, error) {
	if !scale.Valid() {
		return State{}, &ScaleError{Value: string(scale)}
	}
	years := Lifespan(r)
	return State{
		Start: start,
		End:   EndFor(start, years),
		Scale: scale,
		Years: years,
	}, nil
}

// Event is one viewer trigger.
type Event interface {
	event()
}

type ScaleSelected struct {
	Scale Scale
}

// BirthEntered replaces the start date. End is left as is.
type BirthEntered struct {
	Date time.Time
}

// DeathRerolled carries a freshly drawn lifespan.
type DeathRerolled struct {
	Years int
}

func (ScaleSelected) event() {}
func (BirthEntered) event()  {}
func (DeathRerolled) event() {}

// Apply returns the state after ev. On error the input state is returned.
func Apply(s State, ev Event) (State, error) {
	switch e := ev.(type) {
	case ScaleSelected:
		if !e.Scale.Valid() {
			return s, &ScaleError{Value: string(e.Scale)}
		}
		s.Scale = e.Scale
	case BirthEntered:
		s.Start = e.Date
	case DeathRerolled:
		s.Years = e.Years
		s.End = EndFor(s.Start, e.Years)
	default:
		return s, fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}
	return s, nil
}
