package parser

import (
	"strconv"
	"strings"
)

// VerbID identifies a canonical verb. VerbNone marks an invalid or
// abandoned command and is never registered.
type VerbID int

const VerbNone VerbID = 0

const (
	VerbVerbose VerbID = iota + 1
	VerbBrief
	VerbSuperBrief
	VerbDiagnose
	VerbInventory
	VerbQuit
	VerbRestart
	VerbRestore
	VerbSave
	VerbScore
	VerbVersion
)

const (
	VerbTake VerbID = iota + 20
	VerbDrop
	VerbPut
	VerbPutOn
	VerbGive
)

const (
	VerbLook VerbID = iota + 30
	VerbExamine
	VerbRead
	VerbLookInside
	VerbSearch
)

const (
	VerbOpen VerbID = iota + 40
	VerbClose
	VerbLock
	VerbUnlock
)

const (
	VerbWalk VerbID = iota + 50
	VerbEnter
	VerbExit
	VerbClimbUp
	VerbClimbDown
	VerbClimbOn
	VerbBoard
	VerbDisembark
)

const (
	VerbAttack VerbID = iota + 60
	VerbKill
	VerbThrow
	VerbSwing
)

const (
	VerbLampOn VerbID = iota + 70
	VerbLampOff
)

const (
	VerbTurn VerbID = iota + 80
	VerbPush
	VerbPull
	VerbMove
)

const (
	VerbTie VerbID = iota + 90
	VerbUntie
	VerbListen
	VerbSmell
	VerbTouch
)

const (
	VerbEat VerbID = iota + 100
	VerbDrink
)

const (
	VerbInflate VerbID = iota + 110
	VerbDeflate
	VerbPray
	VerbExorcise
	VerbWave
	VerbRub
	VerbRing
	VerbBurn
	VerbDig
	VerbFill
)

const (
	VerbTalk VerbID = iota + 120
	VerbAsk
	VerbTell
	VerbOdysseus
	VerbYell
)

const (
	VerbHello VerbID = iota + 130
	VerbZork
	VerbPlugh
	VerbFrobozz
)

const (
	VerbWait VerbID = iota + 140
	VerbSwim
	VerbBack
	VerbJump
	VerbCurse
)

const (
	VerbMung VerbID = iota + 150
	VerbWear
	VerbFind
	VerbLeap
	VerbSay
	VerbKick
	VerbBreathe
)

var verbNames = map[VerbID]string{
	VerbVerbose:    "verbose",
	VerbBrief:      "brief",
	VerbSuperBrief: "superbrief",
	VerbDiagnose:   "diagnose",
	VerbInventory:  "inventory",
	VerbQuit:       "quit",
	VerbRestart:    "restart",
	VerbRestore:    "restore",
	VerbSave:       "save",
	VerbScore:      "score",
	VerbVersion:    "version",
	VerbTake:       "take",
	VerbDrop:       "drop",
	VerbPut:        "put",
	VerbPutOn:      "put-on",
	VerbGive:       "give",
	VerbLook:       "look",
	VerbExamine:    "examine",
	VerbRead:       "read",
	VerbLookInside: "look-inside",
	VerbSearch:     "search",
	VerbOpen:       "open",
	VerbClose:      "close",
	VerbLock:       "lock",
	VerbUnlock:     "unlock",
	VerbWalk:       "walk",
	VerbEnter:      "enter",
	VerbExit:       "exit",
	VerbClimbUp:    "climb-up",
	VerbClimbDown:  "climb-down",
	VerbClimbOn:    "climb-on",
	VerbBoard:      "board",
	VerbDisembark:  "disembark",
	VerbAttack:     "attack",
	VerbKill:       "kill",
	VerbThrow:      "throw",
	VerbSwing:      "swing",
	VerbLampOn:     "lamp-on",
	VerbLampOff:    "lamp-off",
	VerbTurn:       "turn",
	VerbPush:       "push",
	VerbPull:       "pull",
	VerbMove:       "move",
	VerbTie:        "tie",
	VerbUntie:      "untie",
	VerbListen:     "listen",
	VerbSmell:      "smell",
	VerbTouch:      "touch",
	VerbEat:        "eat",
	VerbDrink:      "drink",
	VerbInflate:    "inflate",
	VerbDeflate:    "deflate",
	VerbPray:       "pray",
	VerbExorcise:   "exorcise",
	VerbWave:       "wave",
	VerbRub:        "rub",
	VerbRing:       "ring",
	VerbBurn:       "burn",
	VerbDig:        "dig",
	VerbFill:       "fill",
	VerbTalk:       "talk",
	VerbAsk:        "ask",
	VerbTell:       "tell",
	VerbOdysseus:   "odysseus",
	VerbYell:       "yell",
	VerbHello:      "hello",
	VerbZork:       "zork",
	VerbPlugh:      "plugh",
	VerbFrobozz:    "frobozz",
	VerbWait:       "wait",
	VerbSwim:       "swim",
	VerbBack:       "back",
	VerbJump:       "jump",
	VerbCurse:      "curse",
	VerbMung:       "mung",
	VerbWear:       "wear",
	VerbFind:       "find",
	VerbLeap:       "leap",
	VerbSay:        "say",
	VerbKick:       "kick",
	VerbBreathe:    "breathe",
}

var verbsByName map[string]VerbID

func init() {
	verbsByName = make(map[string]VerbID, len(verbNames))
	for id, name := range verbNames {
		verbsByName[name] = id
	}
}

// VerbByName maps a canonical name such as "put-on" to its id.
func VerbByName(name string) (VerbID, bool) {
	id, ok := verbsByName[strings.ToLower(name)]
	return id, ok
}

func (v VerbID) String() string {
	if name, ok := verbNames[v]; ok {
		return name
	}
	if v == VerbNone {
		return "none"
	}
	return "verb(" + strconv.Itoa(int(v)) + ")"
}

