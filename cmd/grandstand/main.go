package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/hako/durafmt"
	"github.com/mitchellh/go-wordwrap"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"pitlane.dev/grandstand"
	"pitlane.dev/grandstand/internal/grandprix"
)

const welcomeMessageWrapWidth = 80

var (
	setupPath     string
	entryListPath string
	resultsPath   string
	rounds        int
	parallel      bool
	seed          int64
	debugDump     bool
	noColour      bool
	verbose       bool
)

func init() {
	flag.StringVar(&setupPath, "c", "./race.yml", "race setup path")
	flag.StringVar(&entryListPath, "entrylist", "", "legacy entry_list.ini to use instead of the setup's teams")
	flag.StringVar(&resultsPath, "results", "", "directory to export race results JSON into")
	flag.IntVar(&rounds, "rounds", 1, "number of championship rounds to race")
	flag.BoolVar(&parallel, "parallel", false, "race championship rounds concurrently")
	flag.Int64Var(&seed, "seed", 0, "random seed override, 0 seeds from the clock")
	flag.BoolVar(&debugDump, "debug", false, "dump the full race results to stderr after the race")
	flag.BoolVar(&noColour, "no-color", false, "disable coloured output")
	flag.BoolVar(&verbose, "v", false, "enable debug logging")
	flag.Parse()
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	if noColour {
		color.NoColor = true
	}

	logger.Infof("Starting grandstand race simulator")

	setup, err := grandstand.LoadSetup(setupPath)

	if os.IsNotExist(errors.Cause(err)) {
		logger.Infof("No race setup at %s, writing the default", setupPath)
		setup = grandstand.DefaultSetup()

		if err := grandstand.WriteSetup(setupPath, setup); err != nil {
			logger.WithError(err).Fatal("Could not write the default race setup")
		}
	} else if err != nil {
		logger.WithError(err).Fatalf("Could not read race setup at %s", setupPath)
	}

	if seed != 0 {
		setup.Seed = seed
	}

	if entryListPath != "" {
		entryList, err := grandstand.LoadEntryListINI(entryListPath)

		if err != nil {
			logger.WithError(err).Fatalf("Could not read entry list at %s", entryListPath)
		}

		setup.Teams = grandstand.TeamSetupsFromEntryList(entryList)
		logger.Infof("Entry list loaded from %s: %d entrants", entryListPath, entryList.NumDrivers())
	}

	if setup.WelcomeMessage != "" {
		fmt.Println(color.CyanString("%s", wordwrap.WrapString(setup.WelcomeMessage, welcomeMessageWrapWidth)))
	}

	for _, team := range setup.Teams {
		if team.Sponsor != nil {
			logger.Infof("%s backed by %s ($%s)", team.Name, team.Sponsor.Name, humanize.Commaf(team.Sponsor.Amount))
		}
	}

	if rounds > 1 {
		runChampionship(logger, setup)
		return
	}

	runSingleRace(logger, setup)
}

func runSingleRace(logger *logrus.Logger, setup *grandstand.RaceSetup) {
	entryList, err := setup.EntryList()

	if err != nil {
		logger.WithError(err).Fatal("Could not build the entry list")
	}

	stats := grandstand.NewRaceStats()

	var plugin grandprix.Plugin = stats

	if verbose {
		plugin = grandprix.MultiPlugin(stats, &eventTracer{logger: logger})
	}

	race, err := grandprix.NewRace(setup.RaceConfig(), entryList, nil, logger, plugin)

	if err != nil {
		logger.WithError(err).Fatal("Could not initialise the race")
	}

	if err := race.RunRace(); err != nil {
		logger.WithError(err).Fatal("Could not run the race")
	}

	leaderboard := race.Leaderboard()

	if len(leaderboard) > 0 {
		fmt.Println(color.HiGreenString("Race won by %s", leaderboard[0].Result.Driver.Name))
	}

	results := race.GenerateResults()

	if debugDump {
		spew.Fdump(os.Stderr, results)
	}

	if resultsPath != "" {
		if err := grandprix.SaveResults(resultsPath, results); err != nil {
			logger.WithError(err).Error("Could not save the race results")
		}
	}

	data := stats.Data()

	logger.Infof("Simulated %s of racing. %s", durafmt.Parse(data.TotalRacingTime).LimitFirstN(2), stats.Summary())
}

func runChampionship(logger *logrus.Logger, setup *grandstand.RaceSetup) {
	championship, err := grandstand.NewChampionship(setup.Name, rounds, setup, logger)

	if err != nil {
		logger.WithError(err).Fatal("Could not initialise the championship")
	}

	if verbose {
		championship.SetPlugin(&eventTracer{logger: logger})
	}

	if parallel {
		err = championship.RunConcurrent()
	} else {
		err = championship.Run()
	}

	if err != nil {
		logger.WithError(err).Fatal("Could not run the championship")
	}

	championship.DisplayStandings()

	standings := championship.Standings()

	if len(standings) > 0 {
		fmt.Println(color.HiGreenString("Championship won by %s with %d points", standings[0].DriverName, standings[0].Points))
	}

	data := championship.Stats().Data()

	logger.Infof("Simulated %s of racing. %s", durafmt.Parse(data.TotalRacingTime).LimitFirstN(2), championship.Stats().Summary())
}

// eventTracer logs every race callback, for chasing odd race behaviour
// with -v.
type eventTracer struct {
	logger grandprix.Logger
}

func (et *eventTracer) OnRaceStart(race grandprix.RaceInfo) error {
	et.logger.Debugf("Trace: race %s started with %d drivers in %d teams", race.Name, race.NumDrivers, race.NumTeams)

	return nil
}

func (et *eventTracer) OnLapCompleted(carNumber grandprix.CarNumber, lap grandprix.Lap) error {
	et.logger.Debugf("Trace: car #%d set lap %d: %s", carNumber, lap.Number, lap.Time)

	return nil
}

func (et *eventTracer) OnPitStop(carNumber grandprix.CarNumber, raceLap int) error {
	et.logger.Debugf("Trace: car #%d pitted on lap %d", carNumber, raceLap)

	return nil
}

func (et *eventTracer) OnIncident(incident grandprix.Incident, raceLap int) error {
	et.logger.Debugf("Trace: %s on lap %d", incident.Error(), raceLap)

	return nil
}

func (et *eventTracer) OnRaceEnd(leaderboard []*grandprix.LeaderboardLine) error {
	et.logger.Debugf("Trace: race ended with %d classified drivers", len(leaderboard))

	return nil
}
