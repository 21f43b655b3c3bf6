// Package risk defines the ordered severity scale shared by every detector.
package risk

import (
	"fmt"
	"strings"
)

// Level is a severity on a total order: Low < Medium < High < Critical
type Level int

const (
	Low Level = iota
	Medium
	High
	Critical
)

var levelNames = [...]string{"low", "medium", "high", "critical"}

// String returns the lowercase name of the level
func (l Level) String() string {
	if l < Low || l > Critical {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// AtLeast reports whether l is as severe as other or more
func (l Level) AtLeast(other Level) bool {
	return l >= other
}

// Max returns the most severe of the given levels, Low when empty
func Max(levels ...Level) Level {
	out := Low
	for _, l := range levels {
		if l > out {
			out = l
		}
	}
	return out
}

// Min returns the least severe of the given levels, Critical when empty
func Min(levels ...Level) Level {
	out := Critical
	for _, l := range levels {
		if l < out {
			out = l
		}
	}
	return out
}

// ParseLevel converts a level name into a Level
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return Low, fmt.Errorf("unknown risk level %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (l Level) MarshalText() ([]byte, error) {
	if l < Low || l > Critical {
		return nil, fmt.Errorf("invalid risk level %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
