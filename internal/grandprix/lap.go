package grandprix

import "time"

const (
	// Lap times for a clean lap are drawn uniformly from
	// [minLapTime, maxLapTime).
	minLapTime = time.Minute
	maxLapTime = 2 * time.Minute

	// maximumLapTime is the sentinel for "no timed lap set yet". Any real
	// lap beats it.
	maximumLapTime = 999999999 * time.Millisecond
)

// Lap is a single timed lap in a car's history.
type Lap struct {
	Number     int           `json:"number"`
	DriverName string        `json:"driver_name"`
	Time       time.Duration `json:"time"`
}

// SimulateLap takes a driver and their car through one lap, reacting to
// the event the lap generator produced. A normal lap draws a lap time,
// records it against the car and returns it. A breakdown or collision
// returns an Incident instead, and the car is flagged as needing a pit
// stop before the incident is returned, so the flag is set even when the
// caller only looks at the error.
func SimulateLap(source RandomSource, driver *Driver, car *RaceCar, event EventKind) (Lap, *Incident) {
	switch event {
	case EventBreakdown:
		car.NeedsPitStop = true

		return Lap{}, &Incident{
			Kind:       IncidentYellowFlag,
			CarNumber:  car.Number,
			DriverName: driver.Name,
		}
	case EventCollision:
		car.NeedsPitStop = true

		return Lap{}, &Incident{
			Kind:       IncidentSafetyCar,
			CarNumber:  car.Number,
			DriverName: driver.Name,
		}
	default:
		lapTime := minLapTime + time.Duration(source.Float64()*float64(maxLapTime-minLapTime))

		return car.CompleteLap(driver.Name, lapTime), nil
	}
}
