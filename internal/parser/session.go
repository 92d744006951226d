package parser

import "github.com/tatianab/zork-parser/internal/world"

// Session is the parser's memory between turns.
type Session struct {
	// LastInput is the most recent command, replayed by AGAIN.
	LastInput string
	// LastUnknown is the word OOPS replaces. HadUnknown says whether the
	// previous turn ended on it.
	LastUnknown string
	HadUnknown  bool
	// LastObject and LastObjects back "it" and "them".
	LastObject  world.ObjectID
	LastObjects []world.ObjectID

	orphan orphan
}

// orphan is a command still waiting for an object.
type orphan struct {
	active        bool
	verb          VerbID
	verbWord      string
	needsIndirect bool
	direct        world.ObjectID
	prep          string
}

// Reset forgets everything. Only a game restart calls it.
func (s *Session) Reset() {
	*s = Session{}
}

func (s *Session) setUnknown(word string) {
	s.LastUnknown = word
	s.HadUnknown = true
}

func (s *Session) clearUnknown() {
	s.LastUnknown = ""
	s.HadUnknown = false
}

func (s *Session) setObjects(ids []world.ObjectID) {
	s.LastObjects = append([]world.ObjectID(nil), ids...)
	if len(ids) == 1 {
		s.LastObject = ids[0]
	}
}

// Orphaned reports whether the parser is waiting for a missing object.
func (s *Session) Orphaned() bool { return s.orphan.active }
