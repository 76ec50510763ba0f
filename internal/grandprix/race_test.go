package grandprix

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testEntryList() EntryList {
	return EntryList{
		{
			Name:    "Aston Martin",
			Sponsor: &Sponsor{Name: "Cognizant", Amount: 150000},
			Drivers: []*Driver{{Name: "Sebastian Vettel"}, {Name: "Lance Stroll"}},
			Cars:    []*RaceCar{{Number: 5}, {Number: 18}},
		},
		{
			Name:    "Mercedes",
			Drivers: []*Driver{{Name: "Lewis Hamilton"}, {Name: "George Russell"}},
			Cars:    []*RaceCar{{Number: 44}, {Number: 63}},
		},
	}
}

func testRace(t *testing.T, config RaceConfig, entryList EntryList, source RandomSource, plugin Plugin) *Race {
	t.Helper()

	race, err := NewRace(config, entryList, source, logrus.New(), plugin)

	if err != nil {
		t.Fatalf("Could not create race: %s", err)
	}

	race.SetOutput(&bytes.Buffer{})

	return race
}

type newRaceValidationTest struct {
	name      string
	config    RaceConfig
	entryList EntryList
}

func TestNewRaceValidation(t *testing.T) {
	newRaceValidationTests := []newRaceValidationTest{
		{
			name:      "Race without laps",
			config:    RaceConfig{Name: "Nowhere GP"},
			entryList: testEntryList(),
		},
		{
			name:      "Negative collision percentage",
			config:    RaceConfig{Name: "Nowhere GP", Laps: 3, CollisionPercent: -1},
			entryList: testEntryList(),
		},
		{
			name:      "Percentages above one hundred",
			config:    RaceConfig{Name: "Nowhere GP", Laps: 3, BreakdownPercent: 70, CollisionPercent: 40},
			entryList: testEntryList(),
		},
		{
			name:      "Empty entry list",
			config:    RaceConfig{Name: "Nowhere GP", Laps: 3},
			entryList: EntryList{},
		},
	}

	for _, test := range newRaceValidationTests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewRace(test.config, test.entryList, nil, logrus.New(), nil)

			if err == nil {
				t.Log("Expected an error, got none")
				t.Fail()
			}
		})
	}
}

func TestRaceStateTransitions(t *testing.T) {
	config := RaceConfig{Name: "State GP", Laps: 1, Seed: 1}

	race := testRace(t, config, testEntryList(), nil, nil)

	if race.State() != RaceStateNotStarted {
		t.Logf("Expected a new race to be %s, got: %s", RaceStateNotStarted, race.State())
		t.Fail()
	}

	if err := race.End(); !errors.Is(err, ErrRaceNotStarted) {
		t.Logf("Expected ErrRaceNotStarted when ending an unstarted race, got: %v", err)
		t.Fail()
	}

	if err := race.Start(); err != nil {
		t.Logf("Expected the race to start, got: %s", err)
		t.Fail()
	}

	if race.State() != RaceStateRunning {
		t.Logf("Expected a started race to be %s, got: %s", RaceStateRunning, race.State())
		t.Fail()
	}

	if err := race.Start(); !errors.Is(err, ErrRaceAlreadyStarted) {
		t.Logf("Expected ErrRaceAlreadyStarted when starting twice, got: %v", err)
		t.Fail()
	}

	if err := race.End(); err != nil {
		t.Logf("Expected the race to end, got: %s", err)
		t.Fail()
	}

	if race.State() != RaceStateFinished {
		t.Logf("Expected an ended race to be %s, got: %s", RaceStateFinished, race.State())
		t.Fail()
	}

	if err := race.End(); !errors.Is(err, ErrRaceFinished) {
		t.Logf("Expected ErrRaceFinished when ending twice, got: %v", err)
		t.Fail()
	}

	if err := race.Start(); !errors.Is(err, ErrRaceFinished) {
		t.Logf("Expected ErrRaceFinished when restarting a finished race, got: %v", err)
		t.Fail()
	}
}

func TestRunRaceSingleNormalLap(t *testing.T) {
	entryList := EntryList{
		{
			Name:    "Lotus",
			Drivers: []*Driver{{Name: "Jim Clark"}},
			Cars:    []*RaceCar{{Number: 1}},
		},
	}

	// percentages are zero so the single Intn draw is always a normal lap
	config := RaceConfig{Name: "Single Lap GP", Laps: 1}
	source := &scriptedSource{ints: []int{99}, floats: []float64{0.5}}

	race := testRace(t, config, entryList, source, nil)

	var output bytes.Buffer
	race.SetOutput(&output)

	if err := race.RunRace(); err != nil {
		t.Fatalf("Expected the race to run, got: %s", err)
	}

	results := race.Results()

	if len(results) != 1 {
		t.Fatalf("Expected one result, got: %d", len(results))
	}

	result := results[0]

	if result.TotalLapTime != 90*time.Second {
		t.Logf("Expected a total of 1.5 minutes, got: %s", result.TotalLapTime)
		t.Fail()
	}

	if result.FastestLap != 90*time.Second {
		t.Logf("Expected a fastest lap of 1.5 minutes, got: %s", result.FastestLap)
		t.Fail()
	}

	if result.Car.LapCount != 1 {
		t.Logf("Expected the car to have completed one lap, got: %d", result.Car.LapCount)
		t.Fail()
	}

	if result.Driver.Points != 25 {
		t.Logf("Expected the winner to score 25 points, got: %d", result.Driver.Points)
		t.Fail()
	}

	expectedLine := "1. Driver Jim Clark in car #1 from team Lotus with total time 1.5 minutes (fastest lap 1.5 minutes)"

	if !strings.Contains(output.String(), expectedLine) {
		t.Logf("Expected the leaderboard to contain %q, got:\n%s", expectedLine, output.String())
		t.Fail()
	}

	if !strings.Contains(output.String(), "Race results:") || !strings.Contains(output.String(), "Team standings:") {
		t.Logf("Expected both leaderboard headers, got:\n%s", output.String())
		t.Fail()
	}
}

func TestBreakdownThenPitStop(t *testing.T) {
	entryList := EntryList{
		{
			Name:    "Lotus",
			Drivers: []*Driver{{Name: "Jim Clark"}},
			Cars:    []*RaceCar{{Number: 1}},
		},
	}

	// lap 1 draws a breakdown, lap 2 is consumed by the pit stop and makes
	// no draws at all
	config := RaceConfig{Name: "Pit Stop GP", Laps: 2, BreakdownPercent: 100}
	source := &scriptedSource{ints: []int{0}}

	race := testRace(t, config, entryList, source, nil)

	if err := race.RunRace(); err != nil {
		t.Fatalf("Expected the race to run, got: %s", err)
	}

	result := race.Results()[0]

	// lap 1: own result exists when the field is slowed, so +1 minute.
	// lap 2: pit stop, +5 minutes.
	expected := SlowdownPenalty + PitStopPenalty

	if result.TotalLapTime != expected {
		t.Logf("Expected a total of %s, got: %s", expected, result.TotalLapTime)
		t.Fail()
	}

	if result.Car.NeedsPitStop {
		t.Log("Expected the pit stop flag to be cleared after the stop")
		t.Fail()
	}

	if result.Car.LapCount != 0 {
		t.Logf("Expected no timed laps, got: %d", result.Car.LapCount)
		t.Fail()
	}

	if result.HasFastestLap() {
		t.Logf("Expected no fastest lap, got: %s", result.FastestLap)
		t.Fail()
	}

	line := race.Leaderboard()[0]

	if !strings.Contains(line.String(), "(fastest lap none)") {
		t.Logf("Expected the leaderboard line to show no fastest lap, got: %q", line.String())
		t.Fail()
	}
}

func TestSlowdownOnlySlowsExistingResults(t *testing.T) {
	entryList := EntryList{
		{
			Name:    "Ferrari",
			Drivers: []*Driver{{Name: "Charles Leclerc"}, {Name: "Carlos Sainz"}},
			Cars:    []*RaceCar{{Number: 16}, {Number: 55}},
		},
	}

	// Leclerc breaks down on the first draw. Sainz has no result at that
	// moment, so only Leclerc is slowed. Sainz then laps normally.
	config := RaceConfig{Name: "Slowdown GP", Laps: 1, BreakdownPercent: 50}
	source := &scriptedSource{ints: []int{0, 99}, floats: []float64{0.5}}

	race := testRace(t, config, entryList, source, nil)

	if err := race.RunRace(); err != nil {
		t.Fatalf("Expected the race to run, got: %s", err)
	}

	results := race.Results()

	if len(results) != 2 {
		t.Fatalf("Expected two results, got: %d", len(results))
	}

	if results[0].Driver.Name != "Charles Leclerc" || results[0].TotalLapTime != SlowdownPenalty {
		t.Logf("Expected Leclerc to carry only the slowdown penalty, got: %s for %s", results[0].TotalLapTime, results[0].Driver.Name)
		t.Fail()
	}

	if results[1].Driver.Name != "Carlos Sainz" || results[1].TotalLapTime != 90*time.Second {
		t.Logf("Expected Sainz to carry only his lap time, got: %s for %s", results[1].TotalLapTime, results[1].Driver.Name)
		t.Fail()
	}
}

func TestFindOrCreateResult(t *testing.T) {
	entryList := testEntryList()
	config := RaceConfig{Name: "Results GP", Laps: 1, Seed: 1}

	race := testRace(t, config, entryList, nil, nil)

	team := entryList[0]
	driver := team.Drivers[0]
	car := team.Cars[0]

	first := race.findOrCreateResult(team, driver, car)
	second := race.findOrCreateResult(team, driver, car)

	if first != second {
		t.Log("Expected the same result for repeated lookups of one driver")
		t.Fail()
	}

	if len(race.Results()) != 1 {
		t.Logf("Expected one result, got: %d", len(race.Results()))
		t.Fail()
	}

	if first.FastestLap != maximumLapTime {
		t.Logf("Expected a new result to carry the sentinel fastest lap, got: %s", first.FastestLap)
		t.Fail()
	}
}

func TestRaceIsDeterministicWithSeed(t *testing.T) {
	run := func() string {
		config := RaceConfig{Name: "Replay GP", Laps: 10, BreakdownPercent: 5, CollisionPercent: 2, Seed: 99}

		race := testRace(t, config, testEntryList(), nil, nil)

		var output bytes.Buffer
		race.SetOutput(&output)

		if err := race.RunRace(); err != nil {
			t.Fatalf("Expected the race to run, got: %s", err)
		}

		return output.String()
	}

	first := run()
	second := run()

	if first != second {
		t.Logf("Expected two runs with one seed to match.\nFirst:\n%s\nSecond:\n%s", first, second)
		t.Fail()
	}
}

// totalsWatcher asserts that no driver's total ever decreases while the
// race runs. It reads race state from inside synchronous callbacks.
type totalsWatcher struct {
	race       *Race
	lastTotals map[string]time.Duration
	violations []string
}

func (tw *totalsWatcher) check() {
	for _, result := range tw.race.Results() {
		if result.TotalLapTime < tw.lastTotals[result.Driver.Name] {
			tw.violations = append(tw.violations, result.Driver.Name)
		}

		tw.lastTotals[result.Driver.Name] = result.TotalLapTime
	}
}

func (tw *totalsWatcher) OnRaceStart(_ RaceInfo) error            { tw.check(); return nil }
func (tw *totalsWatcher) OnLapCompleted(_ CarNumber, _ Lap) error { tw.check(); return nil }
func (tw *totalsWatcher) OnPitStop(_ CarNumber, _ int) error      { tw.check(); return nil }
func (tw *totalsWatcher) OnIncident(_ Incident, _ int) error      { tw.check(); return nil }
func (tw *totalsWatcher) OnRaceEnd(_ []*LeaderboardLine) error    { tw.check(); return nil }

func TestTotalsNeverDecrease(t *testing.T) {
	watcher := &totalsWatcher{lastTotals: make(map[string]time.Duration)}

	config := RaceConfig{Name: "Monotonic GP", Laps: 20, BreakdownPercent: 10, CollisionPercent: 10, Seed: 7}

	race := testRace(t, config, testEntryList(), nil, watcher)
	watcher.race = race

	if err := race.RunRace(); err != nil {
		t.Fatalf("Expected the race to run, got: %s", err)
	}

	if len(watcher.violations) > 0 {
		t.Logf("Totals decreased for: %s", strings.Join(watcher.violations, ", "))
		t.Fail()
	}
}

func TestPointsGoToTheTopTenOnly(t *testing.T) {
	entryList := EntryList{}
	numbers := []CarNumber{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}

	for i := 0; i < 6; i++ {
		entryList = append(entryList, &Team{
			Name:    "Team " + names[i*2],
			Drivers: []*Driver{{Name: names[i*2]}, {Name: names[i*2+1]}},
			Cars:    []*RaceCar{{Number: numbers[i*2]}, {Number: numbers[i*2+1]}},
		})
	}

	config := RaceConfig{Name: "Full Grid GP", Laps: 3, Seed: 11}

	race := testRace(t, config, entryList, nil, nil)

	if err := race.RunRace(); err != nil {
		t.Fatalf("Expected the race to run, got: %s", err)
	}

	leaderboard := race.Leaderboard()

	if len(leaderboard) != 12 {
		t.Fatalf("Expected 12 classified drivers, got: %d", len(leaderboard))
	}

	totalPoints := 0

	for _, line := range leaderboard {
		totalPoints += line.Result.Driver.Points
	}

	if totalPoints != 101 {
		t.Logf("Expected 101 points across the field, got: %d", totalPoints)
		t.Fail()
	}

	if leaderboard[0].Result.Driver.Points != 25 {
		t.Logf("Expected the winner to score 25 points, got: %d", leaderboard[0].Result.Driver.Points)
		t.Fail()
	}

	if leaderboard[10].Result.Driver.Points != 0 || leaderboard[11].Result.Driver.Points != 0 {
		t.Log("Expected P11 and P12 to score no points")
		t.Fail()
	}
}
