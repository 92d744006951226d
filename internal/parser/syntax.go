package parser

import (
	"fmt"
	"strings"

	"github.com/tatianab/zork-parser/internal/world"
)

// ElementKind tags a grammar element.
type ElementKind int

const (
	ElemVerb ElementKind = iota
	ElemObject
	ElemPreposition
	ElemDirection
)

// Element is one slot of a syntax pattern.
type Element struct {
	Kind     ElementKind
	Optional bool
	// Requires is the capability an object slot asks for. Zero means any object.
	Requires world.Flag
	// Words are the accepted prepositions for a preposition slot.
	Words []string
}

func VerbElem() Element { return Element{Kind: ElemVerb} }

func ObjectElem(requires world.Flag) Element {
	return Element{Kind: ElemObject, Requires: requires}
}

func PrepElem(words ...string) Element {
	lower := make([]string, len(words))
	for i, w := range words {
		lower[i] = strings.ToLower(w)
	}
	return Element{Kind: ElemPreposition, Words: lower}
}

func DirectionElem() Element { return Element{Kind: ElemDirection} }

// Opt returns a copy of e marked optional.
func (e Element) Opt() Element {
	e.Optional = true
	return e
}

func (e Element) accepts(token string) bool {
	for _, w := range e.Words {
		if w == token {
			return true
		}
	}
	return false
}

// Pattern is an ordered grammar for one verb. Result is the verb a command
// becomes when this pattern is the one that matched, e.g. PUT OBJECT ON OBJECT
// yields put-on. A zero Result keeps the registered verb.
type Pattern struct {
	Verb     VerbID
	Result   VerbID
	Elements []Element
}

// NewPattern checks that elems starts with the verb slot.
func NewPattern(verb VerbID, elems ...Element) (*Pattern, error) {
	if len(elems) == 0 || elems[0].Kind != ElemVerb {
		return nil, fmt.Errorf("parser: pattern for %s must start with VERB", verb)
	}
	return &Pattern{Verb: verb, Elements: elems}, nil
}

// ResultVerb is the verb a command carries after matching p.
func (p *Pattern) ResultVerb() VerbID {
	if p.Result != VerbNone {
		return p.Result
	}
	return p.Verb
}

// Matches walks the pattern against tokens, where tokens[0] is the verb word.
// Object slots are greedy up to the next word accepted by a later
// preposition slot. Tokens left over once every slot is filled are ignored.
func (p *Pattern) Matches(tokens []string) bool {
	pos := 1
	for i := 1; i < len(p.Elements); i++ {
		e := p.Elements[i]
		if pos >= len(tokens) {
			return p.restOptional(i)
		}
		switch e.Kind {
		case ElemPreposition:
			if e.accepts(tokens[pos]) {
				pos++
			} else if !e.Optional {
				return false
			}
		case ElemObject:
			end := len(tokens)
			if next := p.nextPreposition(i); next != nil {
				for k := pos; k < len(tokens); k++ {
					if next.accepts(tokens[k]) {
						end = k
						break
					}
				}
			}
			if end <= pos {
				end = pos + 1
			}
			pos = end
		case ElemDirection:
			pos++
		case ElemVerb:
			return false
		}
	}
	return true
}

func (p *Pattern) restOptional(from int) bool {
	for _, e := range p.Elements[from:] {
		if !e.Optional {
			return false
		}
	}
	return true
}

func (p *Pattern) nextPreposition(after int) *Element {
	for j := after + 1; j < len(p.Elements); j++ {
		if p.Elements[j].Kind == ElemPreposition {
			return &p.Elements[j]
		}
	}
	return nil
}

// HasPreposition reports whether any preposition slot accepts word.
func (p *Pattern) HasPreposition(word string) bool {
	for _, e := range p.Elements {
		if e.Kind == ElemPreposition && e.accepts(word) {
			return true
		}
	}
	return false
}

// ObjectBefore reports whether an object slot precedes the slot that
// accepts prep. LOOK AT OBJECT has none; PUT OBJECT IN OBJECT has one.
func (p *Pattern) ObjectBefore(prep string) bool {
	for _, e := range p.Elements {
		switch {
		case e.Kind == ElemObject:
			return true
		case e.Kind == ElemPreposition && e.accepts(prep):
			return false
		}
	}
	return false
}

// ObjectSlot returns the n-th object slot (0 = direct, 1 = indirect).
func (p *Pattern) ObjectSlot(n int) (Element, bool) {
	for _, e := range p.Elements {
		if e.Kind != ElemObject {
			continue
		}
		if n == 0 {
			return e, true
		}
		n--
	}
	return Element{}, false
}

func (p *Pattern) String() string {
	var parts []string
	for _, e := range p.Elements {
		var s string
		switch e.Kind {
		case ElemVerb:
			s = strings.ToUpper(p.Verb.String())
		case ElemObject:
			s = "OBJECT"
			if e.Requires != 0 {
				s += "(" + strings.Join(e.Requires.Names(), ",") + ")"
			}
		case ElemPreposition:
			s = strings.Join(e.Words, "|")
		case ElemDirection:
			s = "DIRECTION"
		}
		if e.Optional {
			s = "[" + s + "]"
		}
		parts = append(parts, s)
	}
	out := strings.Join(parts, " ")
	if p.Result != VerbNone && p.Result != p.Verb {
		out += " -> " + p.Result.String()
	}
	return out
}

// ParsePattern reads the compact notation used by the grammar file:
//
//	PUT OBJECT on|onto OBJECT(surface) -> put-on
//	OPEN OBJECT(cont) [with OBJECT(tool)]
//
// The first word stands for the verb slot whatever it says. Square brackets
// mark optional slots and may span several words.
func ParsePattern(verb VerbID, src string) (*Pattern, error) {
	body, result := src, ""
	if i := strings.Index(src, "->"); i >= 0 {
		body, result = src[:i], strings.TrimSpace(src[i+2:])
	}
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return nil, fmt.Errorf("parser: empty pattern for %s", verb)
	}

	elems := []Element{VerbElem()}
	optional := false
	for _, f := range fields[1:] {
		open := strings.HasPrefix(f, "[")
		closing := strings.HasSuffix(f, "]")
		f = strings.TrimSuffix(strings.TrimPrefix(f, "["), "]")
		if open {
			optional = true
		}

		e, err := parseElement(f)
		if err != nil {
			return nil, fmt.Errorf("parser: pattern %q: %w", src, err)
		}
		e.Optional = optional
		elems = append(elems, e)

		if closing {
			optional = false
		}
	}

	p, err := NewPattern(verb, elems...)
	if err != nil {
		return nil, err
	}
	if result != "" {
		id, ok := VerbByName(result)
		if !ok {
			return nil, fmt.Errorf("parser: pattern %q: unknown verb %q", src, result)
		}
		p.Result = id
	}
	return p, nil
}

func parseElement(f string) (Element, error) {
	switch {
	case f == "DIRECTION":
		return DirectionElem(), nil
	case f == "OBJECT":
		return ObjectElem(0), nil
	case strings.HasPrefix(f, "OBJECT(") && strings.HasSuffix(f, ")"):
		names := strings.Split(f[len("OBJECT("):len(f)-1], ",")
		flags, err := world.ParseFlags(names)
		if err != nil {
			return Element{}, err
		}
		return ObjectElem(flags), nil
	case f == "" || strings.ToLower(f) != f:
		return Element{}, fmt.Errorf("bad element %q", f)
	default:
		return PrepElem(strings.Split(f, "|")...), nil
	}
}
