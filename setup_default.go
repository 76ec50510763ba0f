package grandstand

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// DefaultSetup is a ready-to-race setup, used to bootstrap a setup file
// when none exists yet.
func DefaultSetup() *RaceSetup {
	return &RaceSetup{
		Name:           "Silverstone Grand Prix",
		Laps:           52,
		WelcomeMessage: "Welcome to the Silverstone Grand Prix. Lights out and away we go.",
		Teams: []*TeamSetup{
			{
				Name:    "Mercedes",
				Sponsor: &SponsorSetup{Name: "Petronas", Amount: 250000},
				Drivers: []string{"Lewis Hamilton", "George Russell"},
				Cars:    []int{44, 63},
			},
			{
				Name:    "Red Bull",
				Sponsor: &SponsorSetup{Name: "Oracle", Amount: 300000},
				Drivers: []string{"Max Verstappen", "Sergio Perez"},
				Cars:    []int{1, 11},
			},
			{
				Name:    "Ferrari",
				Drivers: []string{"Charles Leclerc", "Carlos Sainz"},
				Cars:    []int{16, 55},
			},
			{
				Name:    "McLaren",
				Drivers: []string{"Lando Norris", "Oscar Piastri"},
				Cars:    []int{4, 81},
			},
			{
				Name:    "Aston Martin",
				Sponsor: &SponsorSetup{Name: "Cognizant", Amount: 150000},
				Drivers: []string{"Fernando Alonso", "Lance Stroll"},
				Cars:    []int{14, 18},
			},
		},
	}
}

// WriteSetup saves a race setup as YAML, so it can be edited and loaded
// again with LoadSetup.
func WriteSetup(path string, setup *RaceSetup) error {
	f, err := os.Create(path)

	if err != nil {
		return errors.Wrapf(err, "could not create race setup: %s", path)
	}

	defer f.Close()

	encoder := yaml.NewEncoder(f)

	if err := encoder.Encode(setup); err != nil {
		return errors.Wrapf(err, "could not encode race setup: %s", path)
	}

	return encoder.Close()
}
