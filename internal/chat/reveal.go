package chat

import (
	"iter"
	"time"
)

// Pacing holds the delay applied after each revealed unit. Newline pauses
// longest, then period, then comma, then everything else.
type Pacing struct {
	Newline time.Duration
	Period  time.Duration
	Comma   time.Duration
	Default time.Duration
}

// DefaultPacing returns the stock reveal bands
func DefaultPacing() Pacing {
	return Pacing{
		Newline: 200 * time.Millisecond,
		Period:  150 * time.Millisecond,
		Comma:   50 * time.Millisecond,
		Default: 30 * time.Millisecond,
	}
}

// Delay returns the pause that follows unit
func (p Pacing) Delay(unit rune) time.Duration {
	switch unit {
	case '\n':
		return p.Newline
	case '.':
		return p.Period
	case ',':
		return p.Comma
	default:
		return p.Default
	}
}

// Reveal yields text one character at a time, left to right, paired with the
// pause that should follow it. The sequence is finite and can be ranged over
// again to restart it.
func Reveal(text string, pacing Pacing) iter.Seq2[string, time.Duration] {
	return func(yield func(string, time.Duration) bool) {
		for _, r := range text {
			if !yield(string(r), pacing.Delay(r)) {
				return
			}
		}
	}
}

// ShouldScroll reports whether the unit at index triggers an auto-scroll:
// every `every` units and on each newline.
func ShouldScroll(index int, unit string, every int) bool {
	if unit == "\n" {
		return true
	}
	return every > 0 && index%every == 0
}
