package world

import "strings"

// Direction is a compass or vertical direction used for movement.
type Direction int

const (
	NoDirection Direction = iota
	North
	South
	East
	West
	NorthEast
	NorthWest
	SouthEast
	SouthWest
	Up
	Down
	In
	Out
)

var directionWords = map[string]Direction{
	"north": North, "n": North,
	"south": South, "s": South,
	"east": East, "e": East,
	"west": West, "w": West,
	"northeast": NorthEast, "ne": NorthEast,
	"northwest": NorthWest, "nw": NorthWest,
	"southeast": SouthEast, "se": SouthEast,
	"southwest": SouthWest, "sw": SouthWest,
	"up": Up, "u": Up,
	"down": Down, "d": Down,
	"in": In, "inside": In,
	"out": Out, "outside": Out,
}

var directionNames = [...]string{
	NoDirection: "",
	North:       "north",
	South:       "south",
	East:        "east",
	West:        "west",
	NorthEast:   "northeast",
	NorthWest:   "northwest",
	SouthEast:   "southeast",
	SouthWest:   "southwest",
	Up:          "up",
	Down:        "down",
	In:          "in",
	Out:         "out",
}

// ParseDirection maps a direction word or abbreviation to a Direction.
func ParseDirection(word string) (Direction, bool) {
	d, ok := directionWords[strings.ToLower(word)]
	return d, ok
}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return ""
	}
	return directionNames[d]
}
