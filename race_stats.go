package grandstand

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"pitlane.dev/grandstand/internal/grandprix"
)

// RaceStatsData is the exportable snapshot of everything a RaceStats
// collector has seen.
type RaceStatsData struct {
	RacesStarted  int `json:"RacesStarted"`
	RacesFinished int `json:"RacesFinished"`
	CompletedLaps int `json:"CompletedLaps"`
	PitStops      int `json:"PitStops"`
	YellowFlags   int `json:"YellowFlags"`
	SafetyCars    int `json:"SafetyCars"`

	FastestLap       time.Duration `json:"FastestLap"`
	FastestLapDriver string        `json:"FastestLapDriver"`

	// TotalRacingTime is the sum of every timed lap seen, across all
	// watched races.
	TotalRacingTime time.Duration `json:"TotalRacingTime"`
}

// RaceStats is a plugin which tallies what happens on track. One
// collector may watch several races at once, so it locks around every
// update.
type RaceStats struct {
	data RaceStatsData

	mutex sync.RWMutex
}

func NewRaceStats() *RaceStats {
	return &RaceStats{}
}

func (rs *RaceStats) OnRaceStart(_ grandprix.RaceInfo) error {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()

	rs.data.RacesStarted++

	return nil
}

func (rs *RaceStats) OnLapCompleted(_ grandprix.CarNumber, lap grandprix.Lap) error {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()

	rs.data.CompletedLaps++
	rs.data.TotalRacingTime += lap.Time

	if rs.data.FastestLap == 0 || lap.Time < rs.data.FastestLap {
		rs.data.FastestLap = lap.Time
		rs.data.FastestLapDriver = lap.DriverName
	}

	return nil
}

func (rs *RaceStats) OnPitStop(_ grandprix.CarNumber, _ int) error {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()

	rs.data.PitStops++

	return nil
}

func (rs *RaceStats) OnIncident(incident grandprix.Incident, _ int) error {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()

	switch incident.Kind {
	case grandprix.IncidentSafetyCar:
		rs.data.SafetyCars++
	default:
		rs.data.YellowFlags++
	}

	return nil
}

func (rs *RaceStats) OnRaceEnd(_ []*grandprix.LeaderboardLine) error {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()

	rs.data.RacesFinished++

	return nil
}

// Data returns a copy of the collected stats.
func (rs *RaceStats) Data() RaceStatsData {
	rs.mutex.RLock()
	defer rs.mutex.RUnlock()

	return rs.data
}

// Summary is a one-line rundown of the racing seen so far, for the end of
// a session.
func (rs *RaceStats) Summary() string {
	data := rs.Data()

	summary := fmt.Sprintf("%d laps completed with %d pit stops, %d yellow flags and %d safety cars",
		data.CompletedLaps, data.PitStops, data.YellowFlags, data.SafetyCars)

	if data.FastestLapDriver != "" {
		summary += fmt.Sprintf(". Fastest lap: %.1f minutes by %s", data.FastestLap.Minutes(), data.FastestLapDriver)
	}

	return summary
}

func (rs *RaceStats) MarshalJSON() ([]byte, error) {
	rs.mutex.RLock()
	defer rs.mutex.RUnlock()

	return json.Marshal(rs.data)
}
