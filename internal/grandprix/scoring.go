package grandprix

// pointsTable holds the championship points for the top ten classified
// positions, best position first.
var pointsTable = []int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}

// PointsForPosition returns the championship points a finishing position
// is worth. Positions are 1-based; anything outside the points table
// scores zero.
func PointsForPosition(position int) int {
	if position < 1 || position > len(pointsTable) {
		return 0
	}

	return pointsTable[position-1]
}

// awardPoints hands championship points to the drivers of the ten fastest
// results, in leaderboard order.
func (r *Race) awardPoints() {
	for _, line := range r.Leaderboard() {
		points := PointsForPosition(line.Position)

		if points == 0 {
			break
		}

		line.Result.Driver.AddPoints(points)
		r.logger.Debugf("%d points awarded to %s (P%d)", points, line.Result.Driver.Name, line.Position)
	}
}
