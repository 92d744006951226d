package parser

import (
	"fmt"
	"strconv"

	"github.com/tatianab/zork-parser/internal/world"
)

// Console is the line-oriented surface the parser talks through.
type Console interface {
	Println(s string)
	ReadLine(prompt string) (string, error)
}

// Disambiguator asks the player which of several objects they meant.
type Disambiguator struct {
	world   WorldView
	console Console
	// prompted is called once per question, before the reply is read.
	prompted func(noun string, candidates int)
}

func NewDisambiguator(w WorldView, c Console) *Disambiguator {
	return &Disambiguator{world: w, console: c}
}

// Choose returns the only candidate, or asks when there are several. The
// second result is false when there was nothing to choose from or the
// reply could not be matched.
func (d *Disambiguator) Choose(candidates []world.ObjectID, noun string) (world.ObjectID, bool) {
	switch len(candidates) {
	case 0:
		return world.None, false
	case 1:
		return candidates[0], true
	}

	if d.prompted != nil {
		d.prompted(noun, len(candidates))
	}
	d.console.Println("Which " + noun + " do you mean?")
	for i, id := range candidates {
		d.console.Println(fmt.Sprintf("  %d. %s", i+1, d.Label(id)))
	}

	reply, err := d.console.ReadLine("> ")
	if err == nil {
		if id, ok := d.MatchReply(reply, candidates); ok {
			return id, true
		}
	}
	d.console.Println("I don't understand that choice.")
	return world.None, false
}

// Label is the description plus where the object is, as shown in the
// numbered list.
func (d *Disambiguator) Label(id world.ObjectID) string {
	o := d.world.Object(id)
	if o == nil {
		return ""
	}
	loc := o.Location()
	switch c := d.world.Object(loc); {
	case loc == d.world.Player():
		return o.Desc + " (in your inventory)"
	case c != nil && c.Has(world.FlagCont):
		return o.Desc + " (in the " + c.Desc + ")"
	case loc == d.world.Here():
		return o.Desc + " (here)"
	}
	return o.Desc
}

// MatchReply reads a clarifying answer: a 1-based number, an adjective and
// noun that fit one candidate, an adjective only one candidate has, and
// failing those the first candidate named by any word of the reply.
func (d *Disambiguator) MatchReply(reply string, candidates []world.ObjectID) (world.ObjectID, bool) {
	words := Tokenize(reply)
	if len(words) == 0 {
		return world.None, false
	}
	if n, err := strconv.Atoi(words[0]); err == nil {
		if n >= 1 && n <= len(candidates) {
			return candidates[n-1], true
		}
		return world.None, false
	}

	var content []string
	for _, w := range words {
		if !isArticle(w) {
			content = append(content, w)
		}
	}
	if len(content) == 0 {
		return world.None, false
	}

	if len(content) >= 2 {
		for _, id := range candidates {
			if matchesNounPhrase(d.world.Object(id), content) {
				return id, true
			}
		}
	}
	for _, id := range candidates {
		o := d.world.Object(id)
		for _, w := range content {
			if o.HasSynonym(w) && (len(content) == 1 || hasAllOtherAdjectives(o, content, w)) {
				return id, true
			}
		}
	}

	// "the brass one": an adjective that picks out exactly one candidate.
	if id := d.adjectivePick(content, candidates); id != world.None {
		return id, true
	}

	// Any other word that names a candidate picks the first one it names.
	for _, id := range candidates {
		o := d.world.Object(id)
		for _, w := range content {
			if o.HasSynonym(w) {
				return id, true
			}
		}
	}
	return world.None, false
}

func (d *Disambiguator) adjectivePick(words []string, candidates []world.ObjectID) world.ObjectID {
	pick := world.None
	for _, id := range candidates {
		o := d.world.Object(id)
		for _, w := range words {
			if o.HasAdjective(w) {
				if pick != world.None && pick != id {
					return world.None
				}
				pick = id
			}
		}
	}
	return pick
}

func hasAllOtherAdjectives(o *world.Object, words []string, noun string) bool {
	for _, w := range words {
		if w != noun && !o.HasAdjective(w) {
			return false
		}
	}
	return true
}
