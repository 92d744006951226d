package world

import (
	"fmt"
	"sort"
	"strings"
)

// Flag is a single capability bit on an object.
type Flag uint64

const (
	FlagRMung Flag = 1 << iota
	FlagInvisible
	FlagTouch
	FlagSurface
	FlagTryTake
	FlagOpen
	FlagSearch
	FlagTrans
	FlagOn
	FlagRLand
	FlagFight
	FlagStaggered
	FlagWear
	FlagNDesc
	FlagTake
	FlagDoor
	FlagCont
	FlagLight
	FlagActor
	FlagWeapon
	FlagTool
	FlagBurn
	FlagFlame
	FlagVehicle
	FlagClimb
	FlagDrink
	FlagFood
	FlagRead
	FlagTurn
	FlagSacred
	FlagLocked
	FlagDead
	FlagMaze
	FlagNonLand
	FlagGWIM
	FlagInhibit
	FlagMulti
	FlagSLoc
)

var flagNames = map[string]Flag{
	"rmung":     FlagRMung,
	"invisible": FlagInvisible,
	"touch":     FlagTouch,
	"surface":   FlagSurface,
	"trytake":   FlagTryTake,
	"open":      FlagOpen,
	"search":    FlagSearch,
	"trans":     FlagTrans,
	"on":        FlagOn,
	"rland":     FlagRLand,
	"fight":     FlagFight,
	"staggered": FlagStaggered,
	"wear":      FlagWear,
	"ndesc":     FlagNDesc,
	"take":      FlagTake,
	"door":      FlagDoor,
	"cont":      FlagCont,
	"light":     FlagLight,
	"actor":     FlagActor,
	"weapon":    FlagWeapon,
	"tool":      FlagTool,
	"burn":      FlagBurn,
	"flame":     FlagFlame,
	"vehicle":   FlagVehicle,
	"climb":     FlagClimb,
	"drink":     FlagDrink,
	"food":      FlagFood,
	"read":      FlagRead,
	"turn":      FlagTurn,
	"sacred":    FlagSacred,
	"locked":    FlagLocked,
	"dead":      FlagDead,
	"maze":      FlagMaze,
	"nonland":   FlagNonLand,
	"gwim":      FlagGWIM,
	"inhibit":   FlagInhibit,
	"multi":     FlagMulti,
	"sloc":      FlagSLoc,
}

// ParseFlag returns the flag named by s, e.g. "take" or "cont".
func ParseFlag(s string) (Flag, error) {
	f, ok := flagNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("world: unknown flag %q", s)
	}
	return f, nil
}

// ParseFlags ORs together every named flag.
func ParseFlags(names []string) (Flag, error) {
	var out Flag
	for _, n := range names {
		f, err := ParseFlag(n)
		if err != nil {
			return 0, err
		}
		out |= f
	}
	return out, nil
}

// Has reports whether every bit in g is set in f.
func (f Flag) Has(g Flag) bool { return f&g == g }

// Names lists the set flags by name, sorted.
func (f Flag) Names() []string {
	var out []string
	for name, bit := range flagNames {
		if f&bit != 0 {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (f Flag) String() string {
	if f == 0 {
		return "none"
	}
	return strings.Join(f.Names(), "|")
}
