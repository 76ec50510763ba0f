package grandprix

import (
	"errors"
	"fmt"
	"time"
)

// CarNumber is the number painted on the side of a RaceCar. Numbers are
// unique across an entry list.
type CarNumber int

type Driver struct {
	Name   string `json:"name" yaml:"name"`
	Points int    `json:"points" yaml:"-"`
}

// AddPoints increases the driver's championship points tally. Points are
// only ever awarded by the scoring pass at the end of a race.
func (d *Driver) AddPoints(points int) {
	d.Points += points
}

type RaceCar struct {
	Number CarNumber `json:"number" yaml:"number"`

	LapCount     int   `json:"lap_count" yaml:"-"`
	LapHistory   []Lap `json:"lap_history" yaml:"-"`
	NeedsPitStop bool  `json:"needs_pit_stop" yaml:"-"`
}

// CompleteLap increments the car's lap counter and records the lap in its
// history.
func (c *RaceCar) CompleteLap(driverName string, lapTime time.Duration) Lap {
	c.LapCount++

	lap := Lap{
		Number:     c.LapCount,
		DriverName: driverName,
		Time:       lapTime,
	}

	c.LapHistory = append(c.LapHistory, lap)

	return lap
}

type Sponsor struct {
	Name   string  `json:"name" yaml:"name"`
	Amount float64 `json:"amount" yaml:"amount"`
}

type Team struct {
	Name    string     `json:"name" yaml:"name"`
	Drivers []*Driver  `json:"drivers" yaml:"drivers"`
	Cars    []*RaceCar `json:"cars" yaml:"cars"`

	// Sponsor is the team's main sponsor. A team without one carries nil
	// here, so readers must check before use.
	Sponsor *Sponsor `json:"sponsor,omitempty" yaml:"sponsor,omitempty"`
}

type EntryList []*Team

var ErrEntryListEmpty = errors.New("grandprix: entry list has no teams")

// Validate checks that the entry list can actually race: every team has
// drivers, each driver has a car to pair with, and car numbers and driver
// names are unique across the whole field.
func (el EntryList) Validate() error {
	if len(el) == 0 {
		return ErrEntryListEmpty
	}

	carNumbers := make(map[CarNumber]bool)
	driverNames := make(map[string]bool)

	for _, team := range el {
		if len(team.Drivers) == 0 {
			return fmt.Errorf("grandprix: team %s has no drivers", team.Name)
		}

		if len(team.Drivers) != len(team.Cars) {
			return fmt.Errorf("grandprix: team %s has %d drivers but %d cars", team.Name, len(team.Drivers), len(team.Cars))
		}

		for _, driver := range team.Drivers {
			if driverNames[driver.Name] {
				return fmt.Errorf("grandprix: duplicate driver name: %s", driver.Name)
			}

			driverNames[driver.Name] = true
		}

		for _, car := range team.Cars {
			if carNumbers[car.Number] {
				return fmt.Errorf("grandprix: duplicate car number: %d", car.Number)
			}

			carNumbers[car.Number] = true
		}
	}

	return nil
}

// NumDrivers is the number of entrants across all teams.
func (el EntryList) NumDrivers() int {
	n := 0

	for _, team := range el {
		n += len(team.Drivers)
	}

	return n
}
