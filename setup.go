package grandstand

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"pitlane.dev/grandstand/internal/grandprix"
)

// RaceSetup is the on-disk description of a race weekend: the race
// configuration plus the teams taking part. It is a blueprint rather
// than live race state, so one setup can seed any number of races.
type RaceSetup struct {
	Name string `json:"name" yaml:"name"`
	Laps int    `json:"laps" yaml:"laps"`

	// BreakdownPercent and CollisionPercent are pointers so that a
	// missing key falls back to the default while an explicit zero is
	// honoured.
	BreakdownPercent *int `json:"breakdown_percent" yaml:"breakdown_percent"`
	CollisionPercent *int `json:"collision_percent" yaml:"collision_percent"`

	Seed int64 `json:"seed" yaml:"seed"`

	WelcomeMessage string `json:"welcome_message" yaml:"welcome_message"`

	Teams []*TeamSetup `json:"teams" yaml:"teams"`
}

type TeamSetup struct {
	Name    string        `json:"name" yaml:"name"`
	Sponsor *SponsorSetup `json:"sponsor" yaml:"sponsor"`
	Drivers []string      `json:"drivers" yaml:"drivers"`
	Cars    []int         `json:"cars" yaml:"cars"`
}

type SponsorSetup struct {
	Name   string  `json:"name" yaml:"name"`
	Amount float64 `json:"amount" yaml:"amount"`
}

// LoadSetup reads a race setup from a YAML file.
func LoadSetup(path string) (*RaceSetup, error) {
	var setup *RaceSetup

	f, err := os.Open(path)

	if err != nil {
		return nil, errors.Wrapf(err, "could not open race setup: %s", path)
	}

	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&setup); err != nil {
		return nil, errors.Wrapf(err, "could not decode race setup: %s", path)
	}

	return setup, nil
}

// RaceConfig builds the engine configuration described by the setup,
// filling in default event percentages where the setup left them out.
func (s *RaceSetup) RaceConfig() grandprix.RaceConfig {
	config := grandprix.RaceConfig{
		Name:             s.Name,
		Laps:             s.Laps,
		BreakdownPercent: grandprix.DefaultBreakdownPercent,
		CollisionPercent: grandprix.DefaultCollisionPercent,
		Seed:             s.Seed,
	}

	if s.BreakdownPercent != nil {
		config.BreakdownPercent = *s.BreakdownPercent
	}

	if s.CollisionPercent != nil {
		config.CollisionPercent = *s.CollisionPercent
	}

	return config
}

// EntryList builds a fresh entry list from the setup. Every call
// allocates new teams, drivers and cars, so races never share mutable
// state through their setup.
func (s *RaceSetup) EntryList() (grandprix.EntryList, error) {
	var entryList grandprix.EntryList

	for _, teamSetup := range s.Teams {
		if len(teamSetup.Drivers) != len(teamSetup.Cars) {
			return nil, errors.Errorf("team %s pairs %d drivers with %d cars", teamSetup.Name, len(teamSetup.Drivers), len(teamSetup.Cars))
		}

		team := &grandprix.Team{
			Name: teamSetup.Name,
		}

		if teamSetup.Sponsor != nil {
			team.Sponsor = &grandprix.Sponsor{
				Name:   teamSetup.Sponsor.Name,
				Amount: teamSetup.Sponsor.Amount,
			}
		}

		for i, driverName := range teamSetup.Drivers {
			team.Drivers = append(team.Drivers, &grandprix.Driver{Name: driverName})
			team.Cars = append(team.Cars, &grandprix.RaceCar{Number: grandprix.CarNumber(teamSetup.Cars[i])})
		}

		entryList = append(entryList, team)
	}

	if err := entryList.Validate(); err != nil {
		return nil, errors.Wrap(err, "setup entry list is not raceable")
	}

	return entryList, nil
}

// TeamSetupsFromEntryList converts a built entry list back into setup
// blueprints. Callers which load entrants from legacy files can then race
// them through the usual setup flow.
func TeamSetupsFromEntryList(entryList grandprix.EntryList) []*TeamSetup {
	var teams []*TeamSetup

	for _, team := range entryList {
		teamSetup := &TeamSetup{
			Name: team.Name,
		}

		if team.Sponsor != nil {
			teamSetup.Sponsor = &SponsorSetup{
				Name:   team.Sponsor.Name,
				Amount: team.Sponsor.Amount,
			}
		}

		for i, driver := range team.Drivers {
			teamSetup.Drivers = append(teamSetup.Drivers, driver.Name)
			teamSetup.Cars = append(teamSetup.Cars, int(team.Cars[i].Number))
		}

		teams = append(teams, teamSetup)
	}

	return teams
}
