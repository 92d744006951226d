package events

import "time"

// EventType classifies what happened during a turn.
type EventType int

const (
	EvParsed   EventType = iota // input produced a command
	EvRejected                  // input produced verb 0
	EvPrompted                  // disambiguation question asked
	EvReplayed                  // AGAIN or OOPS re-parsed earlier input
	EvOutput                    // text shown to the player
	EvRestart                   // world rebuilt
)

func (t EventType) String() string {
	switch t {
	case EvParsed:
		return "parsed"
	case EvRejected:
		return "rejected"
	case EvPrompted:
		return "prompted"
	case EvReplayed:
		return "replayed"
	case EvOutput:
		return "output"
	case EvRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// Event is one thing that happened in a game session.
type Event struct {
	Type       EventType
	Session    string
	Turn       int
	Input      string
	Verb       string
	Kind       string // error kind, "ok" on success
	Text       string
	Candidates int
	Time       time.Time
}
