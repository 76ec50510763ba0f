package grandstand

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/cj123/ini"
	"github.com/dimchansky/utfbom"
	"github.com/pkg/errors"

	"pitlane.dev/grandstand/internal/grandprix"
)

const maxINIEntrants = 255

// iniEntrant mirrors one CAR_n section of a legacy entry_list.ini.
type iniEntrant struct {
	Name   string `ini:"DRIVERNAME"`
	Team   string `ini:"TEAM"`
	Number int    `ini:"NUMBER"`
}

// LoadEntryListINI reads a legacy entry_list.ini, where each entrant is a
// [CAR_n] section counted up from CAR_0. Entrants are grouped into teams
// in first-appearance order. The format has no way to describe sponsors,
// so every team is built without one.
func LoadEntryListINI(path string) (grandprix.EntryList, error) {
	r, err := os.Open(path)

	if err != nil {
		return nil, errors.Wrapf(err, "could not open entry list: %s", path)
	}

	defer r.Close()

	// entry lists are often written by external tools that prepend a BOM.
	b, err := ioutil.ReadAll(utfbom.SkipOnly(r))

	if err != nil {
		return nil, errors.Wrapf(err, "could not read entry list: %s", path)
	}

	f, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment: true,
	}, b)

	if err != nil {
		return nil, errors.Wrapf(err, "could not parse entry list: %s", path)
	}

	var entryList grandprix.EntryList

	teamsByName := make(map[string]*grandprix.Team)

	for i := 0; i < maxINIEntrants; i++ {
		section, err := f.GetSection(fmt.Sprintf("CAR_%d", i))

		if err != nil {
			break
		}

		var entrant iniEntrant

		if err := section.MapTo(&entrant); err != nil {
			return nil, errors.Wrapf(err, "could not map CAR_%d", i)
		}

		team, ok := teamsByName[entrant.Team]

		if !ok {
			team = &grandprix.Team{Name: entrant.Team}

			teamsByName[entrant.Team] = team
			entryList = append(entryList, team)
		}

		team.Drivers = append(team.Drivers, &grandprix.Driver{Name: entrant.Name})
		team.Cars = append(team.Cars, &grandprix.RaceCar{Number: grandprix.CarNumber(entrant.Number)})
	}

	if err := entryList.Validate(); err != nil {
		return nil, errors.Wrapf(err, "entry list %s is not raceable", path)
	}

	return entryList, nil
}
