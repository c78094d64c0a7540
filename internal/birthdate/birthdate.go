// Package birthdate validates, parses and acquires the viewer's birth date.
//
// Validation is a pure predicate. The ask-until-valid loop lives in
// [Acquire] and reads input through a [Prompter], so nothing here blocks on
// a terminal or a browser on its own.
package birthdate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/san-kum/lifecal/internal/storage"
)

const (
	// Key is the storage key holding the accepted birth date string.
	Key = "app:birthday"

	Message = "When is your birthday? (Format YYYY-MM-DD)"
)

var ErrInvalid = errors.New("birthdate: invalid birth date")

var layouts = []string{
	time.DateOnly,
	"2006/01/02",
	time.RFC3339,
	"2006-01-02T15:04",
	"Jan 2 2006",
	"January 2, 2006",
	"02 Jan 2006",
}

// Parse reads v in local time. Dates without a zone resolve to local midnight.
func Parse(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalid)
	}
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, v, time.Local)
		if err != nil {
			continue
		}
		if t.Year() == 0 {
			return time.Time{}, fmt.Errorf("%w: year 0 in %q", ErrInvalid, v)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalid, v)
}

// Valid reports whether v parses to a date with a non-zero year.
func Valid(v string) bool {
	_, err := Parse(v)
	return err == nil
}

type Prompter interface {
	Ask(ctx context.Context, message string) (string, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, message string) (string, error)

func (f PrompterFunc) Ask(ctx context.Context, message string) (string, error) {
	return f(ctx, message)
}

// Acquire returns the stored birth date, asking p until a valid one is given
// when the store has none or force is set. The accepted value is written back.
func Acquire(ctx context.Context, kv storage.KV, p Prompter, force bool) (time.Time, error) {
	var value string
	if !force {
		v, ok, err := kv.Get(ctx, Key)
		if err != nil {
			return time.Time{}, fmt.Errorf("birthdate: read %s: %w", Key, err)
		}
		if ok {
			value = v
		}
	}

	for !Valid(value) {
		if err := ctx.Err(); err != nil {
			return time.Time{}, err
		}
		v, err := p.Ask(ctx, Message)
		if err != nil {
			return time.Time{}, err
		}
		value = v
	}

	value = strings.TrimSpace(value)
	if err := kv.Set(ctx, Key, value); err != nil {
		return time.Time{}, fmt.Errorf("birthdate: write %s: %w", Key, err)
	}
	return Parse(value)
}

// Save validates v and stores it.
func Save(ctx context.Context, kv storage.KV, v string) (time.Time, error) {
	t, err := Parse(v)
	if err != nil {
		return time.Time{}, err
	}
	if err := kv.Set(ctx, Key, strings.TrimSpace(v)); err != nil {
		return time.Time{}, fmt.Errorf("birthdate: write %s: %w", Key, err)
	}
	return t, nil
}
