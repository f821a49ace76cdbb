package ring

// Color is one entry of the fixed palette a ring position can show.
type Color int

const (
	RED Color = iota
	GREEN
	BLUE
	YELLOW
	PURPLE
	CYAN
	WHITE
	OFF
)

var colorNames = [...]string{"RED", "GREEN", "BLUE", "YELLOW", "PURPLE", "CYAN", "WHITE", "OFF"}

func (c Color) String() string {
	if c < RED || c > OFF {
		return "UNKNOWN"
	}
	return colorNames[c]
}

// The palette cycle. OFF is not part of it.
var cycle = [...]Color{WHITE, RED, GREEN, BLUE, YELLOW, PURPLE, CYAN}

// cyclePos[c] is the index of c in cycle, -1 for colors outside of it.
var cyclePos = [...]int{
	RED:    1,
	GREEN:  2,
	BLUE:   3,
	YELLOW: 4,
	PURPLE: 5,
	CYAN:   6,
	WHITE:  0,
	OFF:    -1,
}

func position(c Color) int {
	if c < RED || c > OFF {
		return -1
	}
	return cyclePos[c]
}

// Next returns the successor of c in the palette cycle, wrapping CYAN
// to WHITE. Anything outside the cycle (OFF included) starts the cycle
// at WHITE.
func Next(c Color) Color {
	pos := position(c)
	if pos < 0 {
		return WHITE
	}
	return cycle[(pos+1)%len(cycle)]
}

// Previous is the inverse of Next on the cycle. Colors outside the
// cycle map to WHITE as well.
func Previous(c Color) Color {
	pos := position(c)
	if pos < 0 {
		return WHITE
	}
	return cycle[(pos+len(cycle)-1)%len(cycle)]
}

// Cycle returns the palette cycle in order, starting with WHITE.
func Cycle() []Color {
	ret := make([]Color, len(cycle))
	copy(ret, cycle[:])
	return ret
}

var palette = [...]Led{
	RED:    {Red: 255},
	GREEN:  {Green: 255},
	BLUE:   {Blue: 255},
	YELLOW: {Red: 255, Green: 255},
	PURPLE: {Red: 255, Blue: 255},
	CYAN:   {Green: 255, Blue: 255},
	WHITE:  {Red: 255, Green: 255, Blue: 255},
	OFF:    {},
}

// RGB returns the full-intensity value of c. Unknown colors are dark.
func (c Color) RGB() Led {
	if c < RED || c > OFF {
		return Led{}
	}
	return palette[c]
}
