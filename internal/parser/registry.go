package parser

import (
	"sort"
	"strings"
)

// AllScope selects which objects "all" expands to for a verb.
type AllScope int

const (
	// AllVisible is every visible object.
	AllVisible AllScope = iota
	// AllTakeable is what lies loose in the room and can be picked up.
	AllTakeable
	// AllHeld is whatever the player carries.
	AllHeld
)

// Registry maps verb words to verbs and owns each verb's syntax patterns.
// It is filled once at startup and only read during play.
type Registry struct {
	words        map[string]VerbID
	patterns     map[VerbID][]*Pattern
	scopes       map[VerbID]AllScope
	prepositions map[string]bool
}

func NewRegistry() *Registry {
	return &Registry{
		words:        make(map[string]VerbID),
		patterns:     make(map[VerbID][]*Pattern),
		scopes:       make(map[VerbID]AllScope),
		prepositions: make(map[string]bool),
	}
}

// RegisterVerb maps each synonym to id. A word registered twice belongs to
// the last verb that claimed it.
func (r *Registry) RegisterVerb(id VerbID, synonyms ...string) {
	for _, s := range synonyms {
		r.words[strings.ToLower(s)] = id
	}
}

// LookupVerb finds the verb for word, ignoring case.
func (r *Registry) LookupVerb(word string) (VerbID, bool) {
	id, ok := r.words[strings.ToLower(word)]
	return id, ok
}

// RegisterSyntax appends p to the patterns tried for id, and teaches the
// registry every preposition p mentions.
func (r *Registry) RegisterSyntax(id VerbID, p *Pattern) {
	r.patterns[id] = append(r.patterns[id], p)
	for _, e := range p.Elements {
		if e.Kind == ElemPreposition {
			r.RegisterPreposition(e.Words...)
		}
	}
}

// Patterns returns id's patterns in registration order.
func (r *Registry) Patterns(id VerbID) []*Pattern {
	return r.patterns[id]
}

// RegisterPreposition adds words to the set the parser splits phrases on.
func (r *Registry) RegisterPreposition(words ...string) {
	for _, w := range words {
		r.prepositions[strings.ToLower(w)] = true
	}
}

func (r *Registry) IsPreposition(word string) bool {
	return r.prepositions[strings.ToLower(word)]
}

// IsPrepositionValidForVerb is true when any pattern of id accepts prep.
func (r *Registry) IsPrepositionValidForVerb(id VerbID, prep string) bool {
	prep = strings.ToLower(prep)
	for _, p := range r.patterns[id] {
		if p.HasPreposition(prep) {
			return true
		}
	}
	return false
}

// ValidPrepositions is the sorted union of prepositions across id's patterns.
func (r *Registry) ValidPrepositions(id VerbID) []string {
	seen := make(map[string]bool)
	for _, p := range r.patterns[id] {
		for _, e := range p.Elements {
			if e.Kind != ElemPreposition {
				continue
			}
			for _, w := range e.Words {
				seen[w] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for w := range seen {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Refine picks the pattern that decides what a verb means with prep: the
// first pattern mentioning prep that matches tokens, else the first one
// mentioning prep at all. It returns the resulting verb and that pattern,
// or id and nil when no pattern mentions prep.
func (r *Registry) Refine(id VerbID, prep string, tokens []string) (VerbID, *Pattern) {
	var fallback *Pattern
	for _, p := range r.patterns[id] {
		if !p.HasPreposition(prep) {
			continue
		}
		if p.Matches(tokens) {
			return p.ResultVerb(), p
		}
		if fallback == nil {
			fallback = p
		}
	}
	if fallback != nil {
		return fallback.ResultVerb(), fallback
	}
	return id, nil
}

// Match returns the first of id's patterns that accepts tokens.
func (r *Registry) Match(id VerbID, tokens []string) *Pattern {
	for _, p := range r.patterns[id] {
		if p.Matches(tokens) {
			return p
		}
	}
	return nil
}

func (r *Registry) SetAllScope(id VerbID, scope AllScope) {
	r.scopes[id] = scope
}

// AllScope defaults to AllVisible for verbs that never set one.
func (r *Registry) AllScope(id VerbID) AllScope {
	return r.scopes[id]
}

// Verbs lists every verb with at least one word, in id order.
func (r *Registry) Verbs() []VerbID {
	seen := make(map[VerbID]bool)
	for _, id := range r.words {
		seen[id] = true
	}
	out := make([]VerbID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Words lists the synonyms currently mapped to id, sorted.
func (r *Registry) Words(id VerbID) []string {
	var out []string
	for w, v := range r.words {
		if v == id {
			out = append(out, w)
		}
	}
	sort.Strings(out)
	return out
}
