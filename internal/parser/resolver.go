package parser

import (
	"sort"

	"github.com/tatianab/zork-parser/internal/world"
)

// WorldView is what the parser needs from the game world.
type WorldView interface {
	Objects() []*world.Object
	Object(id world.ObjectID) *world.Object
	Here() world.ObjectID
	Player() world.ObjectID
}

// Visibility ranks. Zero objects never take part in resolution.
const (
	PriorityHidden    = 0
	PriorityContained = 1
	PriorityHeld      = 2
	PriorityHere      = 3
)

// Resolver turns noun phrases into visible objects.
type Resolver struct {
	world WorldView
	reg   *Registry
}

func NewResolver(w WorldView, reg *Registry) *Resolver {
	return &Resolver{world: w, reg: reg}
}

// Priority ranks how directly the player can reach id. An object inside a
// closed container ranks zero even when the container is in plain sight.
func (r *Resolver) Priority(id world.ObjectID) int {
	o := r.world.Object(id)
	if o == nil {
		return PriorityHidden
	}
	here, player := r.world.Here(), r.world.Player()
	loc := o.Location()
	switch {
	case loc == world.None:
		return PriorityHidden
	case loc == here:
		return PriorityHere
	case loc == player:
		return PriorityHeld
	}
	c := r.world.Object(loc)
	if c != nil && c.Has(world.FlagCont|world.FlagOpen) {
		if c.Location() == here || c.Location() == player {
			return PriorityContained
		}
	}
	return PriorityHidden
}

func (r *Resolver) Visible(id world.ObjectID) bool {
	return r.Priority(id) > PriorityHidden
}

// FindObjects returns the visible objects the phrase could mean, best
// ranked first. Objects of equal rank keep object-table order.
func (r *Resolver) FindObjects(words []string) []world.ObjectID {
	phrase := r.content(words)
	if len(phrase) == 0 {
		return nil
	}

	type match struct {
		id       world.ObjectID
		priority int
	}
	var found []match
	for _, o := range r.world.Objects() {
		pri := r.Priority(o.ID)
		if pri == PriorityHidden {
			continue
		}
		if matchesPhrase(o, phrase) {
			found = append(found, match{o.ID, pri})
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].priority > found[j].priority
	})

	out := make([]world.ObjectID, len(found))
	for i, m := range found {
		out[i] = m.id
	}
	return out
}

// content drops articles and prepositions.
func (r *Resolver) content(words []string) []string {
	var out []string
	for _, w := range words {
		if isArticle(w) || r.reg.IsPreposition(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func matchesPhrase(o *world.Object, phrase []string) bool {
	if len(phrase) >= 2 && matchesNounPhrase(o, phrase) {
		return true
	}
	for i, w := range phrase {
		if !o.HasSynonym(w) {
			continue
		}
		if len(o.Adjectives) == 0 {
			return true
		}
		rest := true
		for j, other := range phrase {
			if j != i && !o.HasAdjective(other) {
				rest = false
				break
			}
		}
		if rest {
			return true
		}
	}
	return false
}

// matchesNounPhrase reads the last word as the noun and the rest as
// adjectives the object must all carry.
func matchesNounPhrase(o *world.Object, phrase []string) bool {
	noun := phrase[len(phrase)-1]
	if !o.HasSynonym(noun) {
		return false
	}
	for _, adj := range phrase[:len(phrase)-1] {
		if !o.HasAdjective(adj) {
			return false
		}
	}
	return true
}

// IsKnownWord reports whether any object in the world, visible or not,
// answers to word.
func (r *Resolver) IsKnownWord(word string) bool {
	for _, o := range r.world.Objects() {
		if o.HasSynonym(word) || o.HasAdjective(word) {
			return true
		}
	}
	return false
}

// Applicable lists what "all" covers for scope, in object-table order.
func (r *Resolver) Applicable(scope AllScope) []world.ObjectID {
	here, player := r.world.Here(), r.world.Player()
	var out []world.ObjectID
	for _, o := range r.world.Objects() {
		if o.ID == player || o.ID == here {
			continue
		}
		switch scope {
		case AllTakeable:
			if o.Location() == here && o.Has(world.FlagTake) && !o.Has(world.FlagTryTake) {
				out = append(out, o.ID)
			}
		case AllHeld:
			if o.Location() == player {
				out = append(out, o.ID)
			}
		default:
			if r.Visible(o.ID) {
				out = append(out, o.ID)
			}
		}
	}
	return out
}
