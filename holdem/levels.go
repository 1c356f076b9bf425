package holdem

import (
	_ "embed"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed levels.yaml
var defaultLevelsYAML []byte

var defaultSchedule *Schedule

func init() {
	s, err := ParseSchedule(defaultLevelsYAML)
	if err != nil {
		panic(errors.Wrap(err, "embedded blind schedule"))
	}
	defaultSchedule = s
}

// Level is one step of the blind schedule.
type Level struct {
	Number     int   `yaml:"level"`
	SmallBlind int64 `yaml:"smallBlind"`
	BigBlind   int64 `yaml:"bigBlind"`
}

// Schedule is the table of blind levels, read-only once parsed.
type Schedule struct {
	Levels []Level `yaml:"levels"`
}

// DefaultSchedule returns the built-in schedule (level 1 is 50/100).
func DefaultSchedule() *Schedule {
	return defaultSchedule
}

// ParseSchedule reads a YAML blind schedule.
func ParseSchedule(data []byte) (*Schedule, error) {
	var s Schedule
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "Error parsing blind schedule YAML")
	}
	if len(s.Levels) == 0 {
		return nil, errors.Wrap(ErrInvalidConfig, "blind schedule has no levels")
	}
	seen := make(map[int]bool, len(s.Levels))
	for _, l := range s.Levels {
		if l.Number <= 0 {
			return nil, errors.Wrapf(ErrInvalidConfig, "level number must be > 0, got %d", l.Number)
		}
		if seen[l.Number] {
			return nil, errors.Wrapf(ErrInvalidConfig, "duplicate level %d", l.Number)
		}
		seen[l.Number] = true
		if l.SmallBlind <= 0 || l.BigBlind <= 0 || l.SmallBlind > l.BigBlind {
			return nil, errors.Wrapf(ErrInvalidConfig, "invalid blinds at level %d: sb=%d bb=%d", l.Number, l.SmallBlind, l.BigBlind)
		}
	}
	return &s, nil
}

// Level looks up a level by number.
func (s *Schedule) Level(n int) (Level, error) {
	for _, l := range s.Levels {
		if l.Number == n {
			return l, nil
		}
	}
	return Level{}, errors.Wrapf(ErrInvalidConfig, "unknown blind level %d", n)
}
