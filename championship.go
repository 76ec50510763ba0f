package grandstand

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"pitlane.dev/grandstand/internal/grandprix"
)

// Championship runs one race setup over a number of rounds and
// accumulates driver and team standings across them. Rounds may run
// sequentially or concurrently; standings always end up the same because
// every round is its own race with its own entry list.
type Championship struct {
	ID     uuid.UUID
	Name   string
	Rounds int

	setup  *RaceSetup
	logger grandprix.Logger
	stats  *RaceStats
	plugin grandprix.Plugin
	output io.Writer

	mutex          sync.Mutex
	driverPoints   map[string]*ChampionshipStanding
	teamPoints     map[string]*ChampionshipTeamStanding
	roundSummaries []*RoundSummary
}

// ChampionshipStanding is a driver's accumulated points across rounds.
type ChampionshipStanding struct {
	DriverName string `json:"driver_name"`
	TeamName   string `json:"team_name"`
	Points     int    `json:"points"`
	Wins       int    `json:"wins"`
}

// ChampionshipTeamStanding is a team's accumulated points across rounds.
type ChampionshipTeamStanding struct {
	TeamName string `json:"team_name"`
	Points   int    `json:"points"`
}

// RoundSummary records how a single round went.
type RoundSummary struct {
	Round  int       `json:"round"`
	RaceID uuid.UUID `json:"race_id"`
	Winner string    `json:"winner"`
}

var ErrChampionshipNeedsRounds = errors.New("grandstand: a championship needs at least one round")

func NewChampionship(name string, rounds int, setup *RaceSetup, logger grandprix.Logger) (*Championship, error) {
	if rounds < 1 {
		return nil, ErrChampionshipNeedsRounds
	}

	return &Championship{
		ID:     uuid.New(),
		Name:   name,
		Rounds: rounds,

		setup:  setup,
		logger: logger,
		stats:  NewRaceStats(),
		output: os.Stdout,

		driverPoints: make(map[string]*ChampionshipStanding),
		teamPoints:   make(map[string]*ChampionshipTeamStanding),
	}, nil
}

// SetOutput redirects the per-round leaderboards and standings display.
func (c *Championship) SetOutput(w io.Writer) {
	c.output = w
}

// SetPlugin attaches a plugin which will observe every round alongside
// the championship's own stats collector.
func (c *Championship) SetPlugin(plugin grandprix.Plugin) {
	c.plugin = plugin
}

// Stats exposes the collector watching all rounds of the championship.
func (c *Championship) Stats() *RaceStats {
	return c.stats
}

// Run races every round in order.
func (c *Championship) Run() error {
	c.logger.Infof("Championship '%s' is starting over %d rounds", c.Name, c.Rounds)

	for round := 1; round <= c.Rounds; round++ {
		if err := c.runRound(round); err != nil {
			return err
		}
	}

	return nil
}

// RunConcurrent races every round at once, one goroutine per round.
// Rounds never share race state, so only the standings and the round
// output need serialising.
func (c *Championship) RunConcurrent() error {
	c.logger.Infof("Championship '%s' is starting over %d concurrent rounds", c.Name, c.Rounds)

	g, _ := errgroup.WithContext(context.Background())

	for round := 1; round <= c.Rounds; round++ {
		round := round
		g.Go(func() error {
			return c.runRound(round)
		})
	}

	return g.Wait()
}

func (c *Championship) runRound(round int) error {
	config := c.setup.RaceConfig()
	config.Name = fmt.Sprintf("%s, round %d", c.Name, round)

	if config.Seed != 0 {
		// each round needs its own stream, otherwise every round replays
		// the same race
		config.Seed += int64(round - 1)
	}

	entryList, err := c.setup.EntryList()

	if err != nil {
		return errors.Wrapf(err, "could not build the entry list for round %d", round)
	}

	plugin := grandprix.Plugin(c.stats)

	if c.plugin != nil {
		plugin = grandprix.MultiPlugin(c.stats, c.plugin)
	}

	race, err := grandprix.NewRace(config, entryList, nil, c.logger, plugin)

	if err != nil {
		return errors.Wrapf(err, "could not build round %d", round)
	}

	// each round renders into its own buffer so concurrent rounds do not
	// interleave their leaderboards
	var roundOutput bytes.Buffer
	race.SetOutput(&roundOutput)

	if err := race.RunRace(); err != nil {
		return errors.Wrapf(err, "could not run round %d", round)
	}

	c.recordRound(round, race, roundOutput.Bytes())

	return nil
}

// recordRound folds a finished round into the championship standings.
func (c *Championship) recordRound(round int, race *grandprix.Race, display []byte) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	fmt.Fprintf(c.output, "Round %d of %d: %s\n", round, c.Rounds, race.Config().Name)
	c.output.Write(display)

	leaderboard := race.Leaderboard()

	for _, line := range leaderboard {
		driver := line.Result.Driver
		team := line.Result.Team
		points := grandprix.PointsForPosition(line.Position)

		standing, ok := c.driverPoints[driver.Name]

		if !ok {
			standing = &ChampionshipStanding{
				DriverName: driver.Name,
				TeamName:   team.Name,
			}

			c.driverPoints[driver.Name] = standing
		}

		standing.Points += points

		if line.Position == 1 {
			standing.Wins++
		}

		teamStanding, ok := c.teamPoints[team.Name]

		if !ok {
			teamStanding = &ChampionshipTeamStanding{TeamName: team.Name}

			c.teamPoints[team.Name] = teamStanding
		}

		teamStanding.Points += points
	}

	summary := &RoundSummary{
		Round:  round,
		RaceID: race.ID,
	}

	if len(leaderboard) > 0 {
		summary.Winner = leaderboard[0].Result.Driver.Name
	}

	c.roundSummaries = append(c.roundSummaries, summary)

	c.logger.Infof("Round %d of championship '%s' won by %s", round, c.Name, summary.Winner)
}

// Standings returns the driver standings, ordered by points, then wins,
// then name so equal drivers have a stable ordering.
func (c *Championship) Standings() []*ChampionshipStanding {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var standings []*ChampionshipStanding

	for _, standing := range c.driverPoints {
		standings = append(standings, standing)
	}

	sort.Slice(standings, func(i, j int) bool {
		standingI, standingJ := standings[i], standings[j]

		if standingI.Points == standingJ.Points {
			if standingI.Wins == standingJ.Wins {
				return standingI.DriverName < standingJ.DriverName
			}

			return standingI.Wins > standingJ.Wins
		}

		return standingI.Points > standingJ.Points
	})

	return standings
}

// TeamStandings returns the team standings, ordered by points then name.
func (c *Championship) TeamStandings() []*ChampionshipTeamStanding {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var standings []*ChampionshipTeamStanding

	for _, standing := range c.teamPoints {
		standings = append(standings, standing)
	}

	sort.Slice(standings, func(i, j int) bool {
		standingI, standingJ := standings[i], standings[j]

		if standingI.Points == standingJ.Points {
			return standingI.TeamName < standingJ.TeamName
		}

		return standingI.Points > standingJ.Points
	})

	return standings
}

// RoundSummaries returns the rounds in completion order, which under
// RunConcurrent may differ from round order.
func (c *Championship) RoundSummaries() []*RoundSummary {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.roundSummaries
}

// DisplayStandings prints the championship tables the same way a race
// prints its leaderboards.
func (c *Championship) DisplayStandings() {
	standings := c.Standings()
	teamStandings := c.TeamStandings()

	c.mutex.Lock()
	defer c.mutex.Unlock()

	fmt.Fprintf(c.output, "Championship standings after %d rounds:\n", c.Rounds)

	for i, standing := range standings {
		fmt.Fprintf(c.output, "%d. %s (%s) with %d points and %d wins\n", i+1, standing.DriverName, standing.TeamName, standing.Points, standing.Wins)
	}

	fmt.Fprintln(c.output, "Constructor standings:")

	for i, standing := range teamStandings {
		fmt.Fprintf(c.output, "%d. Team %s with %d points\n", i+1, standing.TeamName, standing.Points)
	}
}
