package grandprix

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Result is one driver's running classification in a race. A result only
// exists once the driver has taken part in at least one lap.
type Result struct {
	Team   *Team
	Driver *Driver
	Car    *RaceCar

	TotalLapTime time.Duration
	FastestLap   time.Duration
}

func NewResult(team *Team, driver *Driver, car *RaceCar) *Result {
	return &Result{
		Team:       team,
		Driver:     driver,
		Car:        car,
		FastestLap: maximumLapTime,
	}
}

// AddLap folds a completed lap into the result. The total only grows and
// the fastest lap only improves.
func (res *Result) AddLap(lap Lap) {
	res.TotalLapTime += lap.Time

	if lap.Time < res.FastestLap {
		res.FastestLap = lap.Time
	}
}

// HasFastestLap reports whether the driver has set a timed lap at all.
// Drivers who spent the whole race broken down or pitting never do.
func (res *Result) HasFastestLap() bool {
	return res.FastestLap < maximumLapTime
}

type LeaderboardLine struct {
	Position    int
	Result      *Result
	GapToLeader time.Duration
}

// formatMinutes renders a duration the way the leaderboards print times:
// minutes with one decimal place.
func formatMinutes(d time.Duration) string {
	return fmt.Sprintf("%.1f", d.Minutes())
}

func (l *LeaderboardLine) String() string {
	res := l.Result

	fastest := "none"

	if res.HasFastestLap() {
		fastest = formatMinutes(res.FastestLap) + " minutes"
	}

	return fmt.Sprintf("%d. Driver %s in car #%d from team %s with total time %s minutes (fastest lap %s)",
		l.Position, res.Driver.Name, res.Car.Number, res.Team.Name, formatMinutes(res.TotalLapTime), fastest)
}

// Leaderboard classifies the race results by total lap time, fastest
// first. Ties keep first-participation order. Positions are 1-based and
// each line carries its gap to the leader.
func (r *Race) Leaderboard() []*LeaderboardLine {
	sorted := make([]*Result, len(r.results))
	copy(sorted, r.results)

	sort.SliceStable(sorted, func(i, j int) bool {
		resultI, resultJ := sorted[i], sorted[j]

		return resultI.TotalLapTime < resultJ.TotalLapTime
	})

	var leaderboard []*LeaderboardLine

	for i, result := range sorted {
		leaderboard = append(leaderboard, &LeaderboardLine{
			Position: i + 1,
			Result:   result,
		})
	}

	if len(leaderboard) > 0 {
		leader := leaderboard[0]

		for _, line := range leaderboard {
			line.GapToLeader = line.Result.TotalLapTime - leader.Result.TotalLapTime
		}
	}

	return leaderboard
}

// TeamResult aggregates the total lap times of a team's drivers.
type TeamResult struct {
	Team      *Team
	TotalTime time.Duration
}

// Line formats one team standings row. pos is zero-based. Teams without a
// main sponsor get the "No main sponsor" clause rather than a fault.
func (tr *TeamResult) Line(pos int) string {
	sponsor := "No main sponsor"

	if tr.Team.Sponsor != nil {
		sponsor = "Sponsored by " + tr.Team.Sponsor.Name
	}

	return fmt.Sprintf("%d. Team %s with total time %s minutes. %s", pos+1, tr.Team.Name, formatMinutes(tr.TotalTime), sponsor)
}

// TeamLeaderboard groups the race results by team and orders the teams by
// combined total lap time, fastest first.
func (r *Race) TeamLeaderboard() []*TeamResult {
	totals := make(map[*Team]time.Duration)

	var teams []*Team

	for _, result := range r.results {
		if _, ok := totals[result.Team]; !ok {
			teams = append(teams, result.Team)
		}

		totals[result.Team] += result.TotalLapTime
	}

	var leaderboard []*TeamResult

	for _, team := range teams {
		leaderboard = append(leaderboard, &TeamResult{
			Team:      team,
			TotalTime: totals[team],
		})
	}

	sort.SliceStable(leaderboard, func(i, j int) bool {
		teamI, teamJ := leaderboard[i], leaderboard[j]

		return teamI.TotalTime < teamJ.TotalTime
	})

	return leaderboard
}

func (r *Race) displayLeaderboard() {
	fmt.Fprintln(r.output, "Race results:")

	for _, line := range r.Leaderboard() {
		fmt.Fprintln(r.output, line)
	}
}

func (r *Race) displayTeamLeaderboard() {
	fmt.Fprintln(r.output, "Team standings:")

	for pos, teamResult := range r.TeamLeaderboard() {
		fmt.Fprintln(r.output, teamResult.Line(pos))
	}
}

const CurrentResultsVersion = 1

// GenerateResults snapshots the race into its exportable form.
func (r *Race) GenerateResults() *RaceResults {
	var result []*RaceResult
	var laps []*RaceLap

	for _, leaderboardLine := range r.Leaderboard() {
		res := leaderboardLine.Result

		result = append(result, &RaceResult{
			BestLap:    int(res.FastestLap.Milliseconds()),
			CarNumber:  res.Car.Number,
			DriverName: res.Driver.Name,
			TeamName:   res.Team.Name,
			LapCount:   res.Car.LapCount,
			Points:     PointsForPosition(leaderboardLine.Position),
			TotalTime:  int(res.TotalLapTime.Milliseconds()),
		})

		for _, lap := range res.Car.LapHistory {
			laps = append(laps, &RaceLap{
				CarNumber:  res.Car.Number,
				DriverName: lap.DriverName,
				Number:     lap.Number,
				LapTime:    int(lap.Time.Milliseconds()),
			})
		}
	}

	sort.Slice(laps, func(i, j int) bool {
		lapI, lapJ := laps[i], laps[j]

		if lapI.Number == lapJ.Number {
			return lapI.CarNumber < lapJ.CarNumber
		}

		return lapI.Number < lapJ.Number
	})

	resultDate := time.Now()

	return &RaceResults{
		Version:   CurrentResultsVersion,
		RaceID:    r.ID,
		Name:      r.config.Name,
		TotalLaps: r.currentLap,
		Laps:      laps,
		Result:    result,
		Date:      resultDate,
		RaceFile:  fmt.Sprintf("%d_%d_%d_%d_%d_RACE.json", resultDate.Year(), resultDate.Month(), resultDate.Day(), resultDate.Hour(), resultDate.Minute()),
	}
}

// SaveResults writes the results to basePath/results as indented JSON,
// named after the race date.
func SaveResults(basePath string, results *RaceResults) error {
	path := filepath.Join(basePath, "results", results.RaceFile)

	logrus.Infof("Saving race results for '%s' to: %s", results.Name, results.RaceFile)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	file, err := os.Create(path)

	if err != nil {
		return err
	}

	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "\t")

	return encoder.Encode(results)
}

type RaceResults struct {
	Version   int           `json:"Version"`
	RaceID    uuid.UUID     `json:"RaceId"`
	Name      string        `json:"Name"`
	TotalLaps int           `json:"TotalLaps"`
	Laps      []*RaceLap    `json:"Laps"`
	Result    []*RaceResult `json:"Result"`
	Date      time.Time     `json:"Date"`
	RaceFile  string        `json:"RaceFile"`
}

type RaceLap struct {
	CarNumber  CarNumber `json:"CarNumber"`
	DriverName string    `json:"DriverName"`
	Number     int       `json:"Number"`
	LapTime    int       `json:"LapTime"`
}

type RaceResult struct {
	BestLap    int       `json:"BestLap"`
	CarNumber  CarNumber `json:"CarNumber"`
	DriverName string    `json:"DriverName"`
	TeamName   string    `json:"TeamName"`
	LapCount   int       `json:"LapCount"`
	Points     int       `json:"Points"`
	TotalTime  int       `json:"TotalTime"`
}
