package grandprix

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Plugin receives callbacks as a race progresses. The race loop invokes
// callbacks synchronously and logs, rather than propagates, their errors,
// so a misbehaving plugin cannot stop a race.
type Plugin interface {
	OnRaceStart(race RaceInfo) error
	OnLapCompleted(carNumber CarNumber, lap Lap) error
	OnPitStop(carNumber CarNumber, raceLap int) error
	OnIncident(incident Incident, raceLap int) error
	OnRaceEnd(leaderboard []*LeaderboardLine) error
}

// RaceInfo is the race summary handed to plugins when a race starts.
type RaceInfo struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Laps       int       `json:"laps"`
	NumTeams   int       `json:"num_teams"`
	NumDrivers int       `json:"num_drivers"`
}

type multiPlugin struct {
	plugins []Plugin
}

// MultiPlugin fans each callback out to every given plugin concurrently
// and reports the first error.
func MultiPlugin(plugins ...Plugin) Plugin {
	return &multiPlugin{plugins: plugins}
}

func (mp *multiPlugin) OnRaceStart(race RaceInfo) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.OnRaceStart(race)
		})
	}

	return g.Wait()
}

func (mp *multiPlugin) OnLapCompleted(carNumber CarNumber, lap Lap) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.OnLapCompleted(carNumber, lap)
		})
	}

	return g.Wait()
}

func (mp *multiPlugin) OnPitStop(carNumber CarNumber, raceLap int) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.OnPitStop(carNumber, raceLap)
		})
	}

	return g.Wait()
}

func (mp *multiPlugin) OnIncident(incident Incident, raceLap int) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.OnIncident(incident, raceLap)
		})
	}

	return g.Wait()
}

func (mp *multiPlugin) OnRaceEnd(leaderboard []*LeaderboardLine) error {
	g, _ := errgroup.WithContext(context.Background())

	for _, plugin := range mp.plugins {
		plugin := plugin
		g.Go(func() error {
			return plugin.OnRaceEnd(leaderboard)
		})
	}

	return g.Wait()
}

type nilPlugin struct{}

func (n nilPlugin) OnRaceStart(_ RaceInfo) error {
	return nil
}

func (n nilPlugin) OnLapCompleted(_ CarNumber, _ Lap) error {
	return nil
}

func (n nilPlugin) OnPitStop(_ CarNumber, _ int) error {
	return nil
}

func (n nilPlugin) OnIncident(_ Incident, _ int) error {
	return nil
}

func (n nilPlugin) OnRaceEnd(_ []*LeaderboardLine) error {
	return nil
}
