package grandprix

import (
	"errors"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type RaceState uint8

const (
	RaceStateNotStarted RaceState = iota
	RaceStateRunning
	RaceStateFinished
)

func (rs RaceState) String() string {
	switch rs {
	case RaceStateRunning:
		return "Running"
	case RaceStateFinished:
		return "Finished"
	default:
		return "Not Started"
	}
}

var (
	ErrRaceAlreadyStarted = errors.New("grandprix: race has already been started")
	ErrRaceNotStarted     = errors.New("grandprix: race has not been started")
	ErrRaceFinished       = errors.New("grandprix: race has already finished")
)

// Race is a single grand prix. It runs entirely in memory on the calling
// goroutine. The random source, logger and plugin are injected so callers
// control determinism and observation.
type Race struct {
	ID uuid.UUID

	config    RaceConfig
	entryList EntryList
	source    RandomSource
	plugin    Plugin
	logger    Logger
	output    io.Writer

	state      RaceState
	currentLap int
	results    []*Result
}

func NewRace(config RaceConfig, entryList EntryList, source RandomSource, logger Logger, plugin Plugin) (*Race, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := entryList.Validate(); err != nil {
		return nil, err
	}

	if plugin == nil {
		plugin = nilPlugin{}
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if source == nil {
		seed := config.Seed

		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		source = rand.New(rand.NewSource(seed))
	}

	return &Race{
		ID:        uuid.New(),
		config:    config,
		entryList: entryList,
		source:    source,
		plugin:    plugin,
		logger:    logger,
		output:    os.Stdout,
	}, nil
}

// SetOutput redirects the leaderboard display. Races print to stdout
// unless told otherwise.
func (r *Race) SetOutput(w io.Writer) {
	r.output = w
}

func (r *Race) State() RaceState {
	return r.state
}

func (r *Race) CurrentLap() int {
	return r.currentLap
}

// Results returns the classified results in first-participation order.
// Drivers who have not yet completed a lap, pitted or been slowed have no
// result.
func (r *Race) Results() []*Result {
	return r.results
}

func (r *Race) EntryList() EntryList {
	return r.entryList
}

func (r *Race) Config() RaceConfig {
	return r.config
}

func (r *Race) Info() RaceInfo {
	return RaceInfo{
		ID:         r.ID,
		Name:       r.config.Name,
		Laps:       r.config.Laps,
		NumTeams:   len(r.entryList),
		NumDrivers: r.entryList.NumDrivers(),
	}
}

// RunRace takes the race from lights out to the chequered flag: every
// configured lap is run, points are awarded and the driver and team
// leaderboards are displayed.
func (r *Race) RunRace() error {
	if err := r.Start(); err != nil {
		return err
	}

	return r.End()
}

// Start moves the race into the running state and runs all configured
// laps. Starting a race twice is an error.
func (r *Race) Start() error {
	switch r.state {
	case RaceStateRunning:
		return ErrRaceAlreadyStarted
	case RaceStateFinished:
		return ErrRaceFinished
	}

	r.state = RaceStateRunning
	r.logger.Infof("Race is starting: %s, %d drivers", r.config, r.entryList.NumDrivers())

	if err := r.plugin.OnRaceStart(r.Info()); err != nil {
		r.logger.WithError(err).Error("On race start plugin returned an error")
	}

	for lap := 1; lap <= r.config.Laps; lap++ {
		r.runLap()
	}

	return nil
}

// End awards championship points, displays the driver and team
// leaderboards and moves the race to the finished state. A race which has
// not started cannot end.
func (r *Race) End() error {
	switch r.state {
	case RaceStateNotStarted:
		return ErrRaceNotStarted
	case RaceStateFinished:
		return ErrRaceFinished
	}

	r.awardPoints()
	r.displayLeaderboard()
	r.displayTeamLeaderboard()

	r.state = RaceStateFinished
	r.logger.Infof("Race '%s' finished after %d laps", r.config.Name, r.currentLap)

	if err := r.plugin.OnRaceEnd(r.Leaderboard()); err != nil {
		r.logger.WithError(err).Error("On race end plugin returned an error")
	}

	return nil
}

// runLap runs one racing lap for every driver in the entry list, team by
// team, in entry list order. Drivers are paired with their team's car at
// the same index.
func (r *Race) runLap() {
	r.currentLap++

	for _, team := range r.entryList {
		for i, driver := range team.Drivers {
			r.runDriverLap(team, driver, team.Cars[i])
		}
	}

	r.logger.Infof("Lap %d of %d completed", r.currentLap, r.config.Laps)
}

func (r *Race) runDriverLap(team *Team, driver *Driver, car *RaceCar) {
	result := r.findOrCreateResult(team, driver, car)

	if car.NeedsPitStop {
		car.NeedsPitStop = false
		result.TotalLapTime += PitStopPenalty

		r.logger.Infof("Car #%d (%s) has made a pit stop: +%.1f minutes", car.Number, driver.Name, PitStopPenalty.Minutes())

		if err := r.plugin.OnPitStop(car.Number, r.currentLap); err != nil {
			r.logger.WithError(err).Error("On pit stop plugin returned an error")
		}

		return
	}

	event := GenerateEvent(r.config.BreakdownPercent, r.config.CollisionPercent, r.source)
	lap, incident := SimulateLap(r.source, driver, car, event)

	if incident != nil {
		r.logger.WithError(incident).Warnf("Incident on lap %d, the field is slowed", r.currentLap)
		r.slowDownLapTimes()

		if err := r.plugin.OnIncident(*incident, r.currentLap); err != nil {
			r.logger.WithError(err).Error("On incident plugin returned an error")
		}

		return
	}

	result.AddLap(lap)
	r.logger.Debugf("Car #%d (%s) completed lap %d in %.1f minutes", car.Number, driver.Name, r.currentLap, lap.Time.Minutes())

	if err := r.plugin.OnLapCompleted(car.Number, lap); err != nil {
		r.logger.WithError(err).Error("On lap completed plugin returned an error")
	}
}

// findOrCreateResult returns the driver's result, creating it the first
// time the driver takes part in a lap. Keying on the driver keeps one
// result per entrant no matter how their laps go.
func (r *Race) findOrCreateResult(team *Team, driver *Driver, car *RaceCar) *Result {
	for _, result := range r.results {
		if result.Driver == driver {
			return result
		}
	}

	result := NewResult(team, driver, car)
	r.results = append(r.results, result)

	return result
}

// slowDownLapTimes applies the field-wide caution penalty after an
// incident. Only drivers with an existing result at that instant are
// slowed, the causing driver included.
func (r *Race) slowDownLapTimes() {
	for _, result := range r.results {
		result.TotalLapTime += SlowdownPenalty
	}
}
