package grandprix

import "fmt"

// IncidentKind is the race control response to a failed lap.
type IncidentKind uint8

const (
	// IncidentYellowFlag covers a single car stopping on track.
	IncidentYellowFlag IncidentKind = iota
	// IncidentSafetyCar covers contact, which leaves debris to clear.
	IncidentSafetyCar
)

func (k IncidentKind) String() string {
	switch k {
	case IncidentSafetyCar:
		return "safety car"
	default:
		return "yellow flag"
	}
}

// Incident is the failure outcome of a simulated lap. It implements error
// so lap failures flow through the usual error paths, and it carries
// enough detail for race control to act on.
type Incident struct {
	Kind       IncidentKind `json:"kind"`
	CarNumber  CarNumber    `json:"car_number"`
	DriverName string       `json:"driver_name"`
}

func (i *Incident) Error() string {
	switch i.Kind {
	case IncidentSafetyCar:
		return fmt.Sprintf("safety car: car #%d (%s) was involved in a collision", i.CarNumber, i.DriverName)
	default:
		return fmt.Sprintf("yellow flag: car #%d (%s) broke down", i.CarNumber, i.DriverName)
	}
}
