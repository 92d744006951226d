package parser

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed grammar.yaml
var defaultGrammar []byte

// Grammar is the on-disk form of a vocabulary.
type Grammar struct {
	Prepositions []string  `yaml:"prepositions"`
	Verbs        []VerbDef `yaml:"verbs"`
}

// VerbDef describes one verb: its words, what "all" means for it and the
// syntax lines tried in order.
type VerbDef struct {
	Name   string   `yaml:"name"`
	Words  []string `yaml:"words"`
	All    string   `yaml:"all,omitempty"`
	Syntax []string `yaml:"syntax"`
}

var (
	defaultOnce sync.Once
	defaultDef  *Grammar
	defaultErr  error
)

// DefaultRegistry builds a fresh registry from the embedded grammar.
func DefaultRegistry() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultDef, defaultErr = ParseGrammar(defaultGrammar)
	})
	if defaultErr != nil {
		return nil, defaultErr
	}
	return defaultDef.Build()
}

// ParseGrammar decodes a YAML grammar document.
func ParseGrammar(data []byte) (*Grammar, error) {
	var g Grammar
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parser: decode grammar: %w", err)
	}
	if len(g.Verbs) == 0 {
		return nil, fmt.Errorf("parser: grammar defines no verbs")
	}
	return &g, nil
}

// Build registers every verb and pattern of g in file order.
func (g *Grammar) Build() (*Registry, error) {
	r := NewRegistry()
	r.RegisterPreposition(g.Prepositions...)

	for _, v := range g.Verbs {
		id, ok := VerbByName(v.Name)
		if !ok {
			return nil, fmt.Errorf("parser: grammar: unknown verb %q", v.Name)
		}
		if len(v.Words) == 0 {
			return nil, fmt.Errorf("parser: grammar: verb %q has no words", v.Name)
		}
		r.RegisterVerb(id, v.Words...)

		switch v.All {
		case "", "visible":
			r.SetAllScope(id, AllVisible)
		case "takeable":
			r.SetAllScope(id, AllTakeable)
		case "held":
			r.SetAllScope(id, AllHeld)
		default:
			return nil, fmt.Errorf("parser: grammar: verb %q: unknown all scope %q", v.Name, v.All)
		}

		for _, line := range v.Syntax {
			p, err := ParsePattern(id, line)
			if err != nil {
				return nil, fmt.Errorf("parser: grammar: verb %q: %w", v.Name, err)
			}
			r.RegisterSyntax(id, p)
		}
	}
	return r, nil
}
