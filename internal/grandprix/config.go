package grandprix

import (
	"errors"
	"fmt"
	"time"
)

const (
	// PitStopPenalty is added to a driver's total when their car takes a
	// pit stop instead of running a lap.
	PitStopPenalty = 5 * time.Minute

	// SlowdownPenalty is added to every classified driver's total when any
	// car causes a yellow flag or brings out the safety car.
	SlowdownPenalty = time.Minute
)

type RaceConfig struct {
	Name string `json:"name" yaml:"name"`
	Laps int    `json:"laps" yaml:"laps"`

	// BreakdownPercent and CollisionPercent are the per-driver, per-lap
	// odds of each incident, in whole percent. A zero is honoured as zero,
	// so defaults belong to whoever builds the config.
	BreakdownPercent int `json:"breakdown_percent" yaml:"breakdown_percent"`
	CollisionPercent int `json:"collision_percent" yaml:"collision_percent"`

	// Seed fixes the random source so a race can be replayed. Zero means
	// seed from the clock.
	Seed int64 `json:"seed" yaml:"seed"`
}

var (
	ErrNoLaps               = errors.New("grandprix: race must have at least one lap")
	ErrInvalidEventPercents = errors.New("grandprix: event percentages must be within [0, 100] and sum to at most 100")
)

func (c RaceConfig) Validate() error {
	if c.Laps < 1 {
		return ErrNoLaps
	}

	if c.BreakdownPercent < 0 || c.CollisionPercent < 0 || c.BreakdownPercent+c.CollisionPercent > 100 {
		return ErrInvalidEventPercents
	}

	return nil
}

func (c RaceConfig) String() string {
	return fmt.Sprintf("%s - Length: %d Laps, Breakdown: %d%%, Collision: %d%%", c.Name, c.Laps, c.BreakdownPercent, c.CollisionPercent)
}
