// Package parser turns a line of player text into a resolved command:
// verb lookup, grammar matching, noun phrase resolution against the visible
// world, interactive disambiguation, pronouns and the AGAIN/OOPS repairs.
package parser

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tatianab/zork-parser/internal/world"
)

// Command is one parsed turn. Verb is VerbNone when the turn was rejected;
// Err then says why and the message has already been printed.
type Command struct {
	Verb     VerbID
	VerbWord string
	Words    []string

	Direct      world.ObjectID
	Indirect    world.ObjectID
	Preposition string

	All     bool
	Objects []world.ObjectID
	Except  world.ObjectID

	IsDirection bool
	Direction   world.Direction

	// Syntax is the pattern the command matched, if any.
	Syntax *Pattern
	// Replayed marks commands produced by AGAIN or OOPS.
	Replayed bool
	Err      error
}

// Valid reports whether there is anything to execute.
func (c Command) Valid() bool { return c.Verb != VerbNone }

// Observer hears about every top-level parse and every disambiguation
// question.
type Observer interface {
	Parsed(input string, cmd Command)
	Prompted(noun string, candidates int)
}

// Option configures a Parser.
type Option func(*Parser)

func WithLogger(l *logrus.Entry) Option {
	return func(p *Parser) { p.log = l }
}

func WithObserver(o Observer) Option {
	return func(p *Parser) { p.observer = o }
}

// Parser holds the grammar, a view of the world and the session memory.
// It is not safe for concurrent use; a game has one parser and one turn at
// a time.
type Parser struct {
	reg      *Registry
	world    WorldView
	console  Console
	resolver *Resolver
	choose   *Disambiguator
	session  Session
	observer Observer
	log      *logrus.Entry
}

func New(reg *Registry, w WorldView, console Console, opts ...Option) *Parser {
	p := &Parser{
		reg:      reg,
		world:    w,
		console:  console,
		resolver: NewResolver(w, reg),
		choose:   NewDisambiguator(w, console),
		log:      logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.WithField("component", "parser")
	if p.observer != nil {
		p.choose.prompted = p.observer.Prompted
	}
	return p
}

func (p *Parser) Registry() *Registry { return p.reg }
func (p *Parser) Resolver() *Resolver { return p.resolver }
func (p *Parser) Session() *Session   { return &p.session }

func (p *Parser) Disambiguator() *Disambiguator { return p.choose }

// Reset clears the session, as on a game restart.
func (p *Parser) Reset() { p.session.Reset() }

// SetOrphanDirect makes the next input, unless it starts a new command,
// the direct object of verb.
func (p *Parser) SetOrphanDirect(verb VerbID, verbWord string) {
	p.session.orphan = orphan{active: true, verb: verb, verbWord: verbWord}
}

// SetOrphanIndirect makes the next input the indirect object of verb,
// with direct already known.
func (p *Parser) SetOrphanIndirect(verb VerbID, verbWord string, direct world.ObjectID, prep string) {
	p.session.orphan = orphan{
		active:        true,
		verb:          verb,
		verbWord:      verbWord,
		needsIndirect: true,
		direct:        direct,
		prep:          prep,
	}
}

// Parse reads one line of input. It never fails outright: rejected input
// yields a command with VerbNone after the reason has been printed.
func (p *Parser) Parse(input string) Command {
	cmd := p.parse(input, 0)
	p.log.WithFields(logrus.Fields{
		"input":  input,
		"verb":   cmd.Verb.String(),
		"direct": cmd.Direct,
		"result": Kind(cmd.Err),
	}).Debug("parsed")
	if p.observer != nil {
		p.observer.Parsed(input, cmd)
	}
	return cmd
}

func (p *Parser) parse(input string, depth int) Command {
	words := Tokenize(input)
	cmd := Command{Words: words}

	if isAgain(words) {
		if depth > 0 {
			return p.fail(cmd, simpleError(ErrNestedReplay, "I don't understand that sentence."))
		}
		if p.session.LastInput == "" {
			return p.fail(cmd, simpleError(ErrMissingPriorCommand, "You haven't entered a command yet."))
		}
		p.session.orphan = orphan{}
		out := p.parse(p.session.LastInput, depth+1)
		out.Replayed = true
		return out
	}

	if isOops(words) {
		if depth > 0 {
			return p.fail(cmd, simpleError(ErrNestedReplay, "I don't understand that sentence."))
		}
		if !p.session.HadUnknown || p.session.LastUnknown == "" {
			return p.fail(cmd, simpleError(ErrNoUnknownWord, "There was no word to correct."))
		}
		if len(words) < 2 {
			return p.fail(cmd, simpleError(ErrMissingReplacement, "Oops what?"))
		}
		corrected := strings.Replace(strings.ToLower(p.session.LastInput), p.session.LastUnknown, words[1], 1)
		p.session.clearUnknown()
		out := p.parse(corrected, depth+1)
		out.Replayed = true
		return out
	}

	if len(words) == 0 {
		return cmd
	}
	p.session.HadUnknown = false

	if p.session.orphan.active {
		if out, ok := p.completeOrphan(input, cmd); ok {
			return out
		}
	}

	p.session.LastInput = input
	cmd.VerbWord = words[0]

	if dir, ok := world.ParseDirection(words[0]); ok {
		cmd.Verb = VerbWalk
		cmd.IsDirection = true
		cmd.Direction = dir
		return cmd
	}

	verb, ok := p.reg.LookupVerb(words[0])
	if !ok {
		return p.rejectUnknownVerb(cmd)
	}
	cmd.Verb = verb

	if verb == VerbWalk && len(words) >= 2 {
		if dir, ok := world.ParseDirection(words[1]); ok {
			cmd.IsDirection = true
			cmd.Direction = dir
			return cmd
		}
	}

	if len(words) > 1 && isAllWord(words[1]) {
		return p.parseAll(cmd)
	}

	if len(words) > 1 {
		switch words[1] {
		case "it":
			if p.session.LastObject == world.None {
				return p.fail(cmd, unboundPronoun("it"))
			}
			cmd.Direct = p.session.LastObject
			return cmd
		case "them":
			if len(p.session.LastObjects) == 0 {
				return p.fail(cmd, unboundPronoun("them"))
			}
			cmd.All = true
			cmd.Objects = append([]world.ObjectID(nil), p.session.LastObjects...)
			return cmd
		}
	}

	if idx := p.prepositionIndex(words); idx > 0 && idx+1 < len(words) {
		return p.parsePrepositional(cmd, idx)
	}
	return p.parseDirect(cmd)
}

// rejectUnknownVerb reports the first word nobody knows. When every word
// is known the sentence just doesn't parse.
func (p *Parser) rejectUnknownVerb(cmd Command) Command {
	for _, w := range cmd.Words {
		if isArticle(w) || p.reg.IsPreposition(w) || p.resolver.IsKnownWord(w) {
			continue
		}
		p.session.setUnknown(w)
		return p.fail(cmd, unknownWord(ErrUnknownVerb, w))
	}
	return p.fail(cmd, simpleError(ErrNotASentence, "I don't understand that sentence."))
}

func (p *Parser) parseAll(cmd Command) Command {
	cmd.All = true
	words := cmd.Words
	if len(words) > 3 && isExceptWord(words[2]) {
		phrase := words[3:]
		if matches := p.resolver.FindObjects(phrase); len(matches) > 0 {
			except, ok := p.choose.Choose(matches, phrase[len(phrase)-1])
			if !ok {
				return p.fail(cmd, unresolvedChoice())
			}
			cmd.Except = except
		}
	}

	for _, id := range p.resolver.Applicable(p.reg.AllScope(cmd.Verb)) {
		if id != cmd.Except {
			cmd.Objects = append(cmd.Objects, id)
		}
	}
	if len(cmd.Objects) > 0 {
		p.session.setObjects(cmd.Objects)
	}
	return cmd
}

// prepositionIndex finds the first preposition after the verb, or -1.
func (p *Parser) prepositionIndex(words []string) int {
	for i := 1; i < len(words); i++ {
		if p.reg.IsPreposition(words[i]) {
			return i
		}
	}
	return -1
}

func (p *Parser) parsePrepositional(cmd Command, idx int) Command {
	prep := cmd.Words[idx]
	if !p.reg.IsPrepositionValidForVerb(cmd.Verb, prep) {
		p.log.WithFields(logrus.Fields{
			"verb":  cmd.Verb,
			"prep":  prep,
			"valid": strings.Join(p.reg.ValidPrepositions(cmd.Verb), ","),
		}).Debug("preposition not valid for verb")
		return p.fail(cmd, simpleError(ErrInvalidPreposition, "I don't understand that."))
	}

	verb, syntax := p.reg.Refine(cmd.Verb, prep, cmd.Words)
	cmd.Verb = verb
	cmd.Syntax = syntax
	cmd.Preposition = prep

	// Phrases of only articles or prepositions name nothing.
	direct := p.resolver.content(cmd.Words[1:idx])
	indirect := p.resolver.content(cmd.Words[idx+1:])
	if len(direct) == 0 && syntax != nil && !syntax.ObjectBefore(prep) {
		direct, indirect = indirect, nil
	}

	if len(direct) > 0 {
		id, err := p.resolve(direct)
		if err != nil {
			return p.fail(cmd, err)
		}
		cmd.Direct = id
		p.session.LastObject = id
	}
	if len(indirect) > 0 {
		id, err := p.resolve(indirect)
		if err != nil {
			return p.fail(cmd, err)
		}
		cmd.Indirect = id
	}
	return cmd
}

func (p *Parser) parseDirect(cmd Command) Command {
	cmd.Syntax = p.reg.Match(cmd.Verb, cmd.Words)
	if len(cmd.Words) < 2 {
		return cmd
	}
	phrase := cmd.Words[1:]
	if len(p.resolver.content(phrase)) == 0 {
		return cmd
	}
	id, err := p.resolve(phrase)
	if err != nil {
		return p.fail(cmd, err)
	}
	cmd.Direct = id
	p.session.LastObject = id
	return cmd
}

// resolve maps a phrase to exactly one object, asking the player if needed.
func (p *Parser) resolve(phrase []string) (world.ObjectID, *ParseError) {
	matches := p.resolver.FindObjects(phrase)
	if len(matches) == 0 {
		return world.None, p.unresolved(phrase)
	}
	p.log.WithFields(logrus.Fields{"phrase": strings.Join(phrase, " "), "candidates": len(matches)}).Debug("resolved phrase")
	id, ok := p.choose.Choose(matches, phrase[len(phrase)-1])
	if !ok {
		return world.None, unresolvedChoice()
	}
	return id, nil
}

// unresolved explains why a phrase matched nothing: either a word nobody
// knows, remembered for OOPS, or a known thing that isn't here.
func (p *Parser) unresolved(phrase []string) *ParseError {
	var noun string
	for _, w := range phrase {
		if isArticle(w) || p.reg.IsPreposition(w) {
			continue
		}
		if !p.resolver.IsKnownWord(w) {
			p.session.setUnknown(w)
			return unknownWord(ErrUnknownObjectWord, w)
		}
		noun = w
	}
	return notVisible(noun)
}

// completeOrphan treats input as the object an earlier command was missing.
// It declines when the input starts a command of its own.
func (p *Parser) completeOrphan(input string, cmd Command) (Command, bool) {
	o := p.session.orphan
	first := cmd.Words[0]
	if _, ok := p.reg.LookupVerb(first); ok {
		p.session.orphan = orphan{}
		return cmd, false
	}
	if _, ok := world.ParseDirection(first); ok {
		p.session.orphan = orphan{}
		return cmd, false
	}
	p.session.orphan = orphan{}

	cmd.Verb = o.verb
	cmd.VerbWord = o.verbWord
	id, err := p.resolve(cmd.Words)
	if err != nil {
		return p.fail(cmd, err), true
	}

	replay := o.verbWord + " " + input
	if o.needsIndirect {
		cmd.Direct = o.direct
		cmd.Indirect = id
		cmd.Preposition = o.prep
		if d := p.world.Object(o.direct); d != nil {
			replay = o.verbWord + " " + d.Noun() + " " + o.prep + " " + input
		}
	} else {
		cmd.Direct = id
		p.session.LastObject = id
	}
	p.session.LastInput = replay
	return cmd, true
}

// fail abandons cmd after telling the player why.
func (p *Parser) fail(cmd Command, err *ParseError) Command {
	if !err.shown {
		p.console.Println(err.Message)
	}
	cmd.Verb = VerbNone
	cmd.Err = err
	return cmd
}
