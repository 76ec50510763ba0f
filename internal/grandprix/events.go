package grandprix

// EventKind describes what happens to a driver on a given lap.
type EventKind uint8

const (
	EventNormal EventKind = iota
	EventBreakdown
	EventCollision
)

func (e EventKind) String() string {
	switch e {
	case EventBreakdown:
		return "BREAKDOWN"
	case EventCollision:
		return "COLLISION"
	default:
		return "NORMAL"
	}
}

const (
	DefaultBreakdownPercent = 5
	DefaultCollisionPercent = 2
)

// RandomSource supplies every random draw the simulation makes. It is an
// explicit dependency rather than a global so callers can seed it, and so
// tests can script exact draws. *math/rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

// GenerateEvent draws a number in [0, 100) and buckets it into an event.
// Draws below breakdownPercent are breakdowns, draws in the next
// collisionPercent-wide band are collisions, and everything above is a
// normal racing lap.
func GenerateEvent(breakdownPercent, collisionPercent int, source RandomSource) EventKind {
	draw := source.Intn(100)

	switch {
	case draw < breakdownPercent:
		return EventBreakdown
	case draw < breakdownPercent+collisionPercent:
		return EventCollision
	default:
		return EventNormal
	}
}
