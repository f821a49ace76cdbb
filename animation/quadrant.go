package animation

// Quadrant is one of the four compass-named arcs of the ring.
type Quadrant int

const (
	North Quadrant = iota
	East
	South
	West
)

// Start offsets of the quadrants on a ring of 12.
const (
	westStartLED  = 1
	northStartLED = 4
	eastStartLED  = 7
	southStartLED = 10
	quadrantBase  = 12
)

func (q Quadrant) String() string {
	switch q {
	case North:
		return "NORTH"
	case East:
		return "EAST"
	case South:
		return "SOUTH"
	case West:
		return "WEST"
	}
	return "UNKNOWN"
}

// Region returns the first position and the length of q on a ring of
// size positions. Offsets scale with the ring so that the four
// quadrants always cover it exactly once when size is a multiple of 4.
func (q Quadrant) Region(size int) (start, length int) {
	length = size / 4
	var offset int
	switch q {
	case North:
		offset = northStartLED
	case East:
		offset = eastStartLED
	case South:
		offset = southStartLED
	default:
		offset = westStartLED
	}
	return offset * size / quadrantBase, length
}
