// Package engine runs the game: it reads a line, has the parser turn it
// into a command and carries the command out against the world.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tatianab/zork-parser/internal/config"
	"github.com/tatianab/zork-parser/internal/events"
	"github.com/tatianab/zork-parser/internal/models"
	"github.com/tatianab/zork-parser/internal/parser"
	"github.com/tatianab/zork-parser/internal/store"
	"github.com/tatianab/zork-parser/internal/world"
)

const (
	defaultLoad = 100
	defaultSize = 5
	historySize = 8
)

type handler func(ctx context.Context, cmd parser.Command) string

// Engine owns one game: the world, the parser and the turn counter.
// Turns are run one at a time.
type Engine struct {
	def      *models.WorldDef
	world    *world.World
	initial  world.Snapshot
	parser   *parser.Parser
	console  *teeConsole
	bus      *events.Bus
	store    *store.Store
	narrator Narrator
	log      *logrus.Entry

	session  string
	moves    int
	maxInput int
	load     int
	done     bool
	history  []string
	handlers map[parser.VerbID]handler
}

// Option configures an Engine.
type Option func(*Engine)

// WithBus publishes turn events on bus.
func WithBus(bus *events.Bus) Option {
	return func(e *Engine) { e.bus = bus }
}

// WithStore enables SAVE and RESTORE.
func WithStore(s *store.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithNarrator handles verbs without a built-in body.
func WithNarrator(n Narrator) Option {
	return func(e *Engine) { e.narrator = n }
}

func WithMaxInput(n int) Option {
	return func(e *Engine) { e.maxInput = n }
}

func WithLogger(l *logrus.Entry) Option {
	return func(e *Engine) { e.log = l }
}

// WithSession fixes the session id instead of generating one.
func WithSession(id string) Option {
	return func(e *Engine) { e.session = id }
}

// New builds the world from def and a parser over it. A nil registry
// means the default grammar.
func New(def *models.WorldDef, reg *parser.Registry, console parser.Console, opts ...Option) (*Engine, error) {
	w, err := def.Build()
	if err != nil {
		return nil, err
	}
	if reg == nil {
		if reg, err = parser.DefaultRegistry(); err != nil {
			return nil, err
		}
	}

	e := &Engine{
		def:      def,
		world:    w,
		initial:  w.Snapshot(),
		bus:      events.NewBus(),
		log:      logrus.NewEntry(logrus.StandardLogger()),
		maxInput: config.DefaultMaxInput,
		load:     def.LoadAllowed,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.session == "" {
		e.session = uuid.NewString()
	}
	if e.load <= 0 {
		e.load = defaultLoad
	}
	e.log = e.log.WithFields(logrus.Fields{"component": "engine", "session": e.session})
	e.console = &teeConsole{Console: console, emit: e.output}
	e.parser = parser.New(reg, w, e.console, parser.WithLogger(e.log), parser.WithObserver(e))
	e.handlers = e.verbHandlers()
	return e, nil
}

func (e *Engine) World() *world.World    { return e.world }
func (e *Engine) Parser() *parser.Parser { return e.parser }
func (e *Engine) Bus() *events.Bus       { return e.bus }
func (e *Engine) Session() string        { return e.session }
func (e *Engine) Moves() int             { return e.moves }

// Done reports whether the player has quit.
func (e *Engine) Done() bool { return e.done }

// Start prints the introduction and the first room.
func (e *Engine) Start() {
	if intro := strings.TrimSpace(e.def.Intro); intro != "" {
		e.say(intro)
	}
	e.say(e.describeRoom())
}

// Run plays until the player quits, input ends or ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	e.Start()
	for !e.done {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := e.console.ReadLine("> ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("engine: read: %w", err)
		}
		e.Step(ctx, line)
	}
	return nil
}

// Step runs one line of input.
func (e *Engine) Step(ctx context.Context, line string) {
	if utf8.RuneCountInString(line) > e.maxInput {
		e.say("That command is too long.")
		return
	}
	if strings.TrimSpace(line) == "" {
		return
	}

	cmd := e.parser.Parse(line)
	if !cmd.Valid() {
		return
	}
	e.moves++

	reply := e.execute(ctx, cmd)
	if reply != "" {
		e.say(reply)
	}
	e.remember("> " + line)
	e.remember(reply)
}

func (e *Engine) execute(ctx context.Context, cmd parser.Command) string {
	h, ok := e.handlers[cmd.Verb]
	if !ok {
		if msg := e.checkSyntax(cmd); msg != "" {
			return msg
		}
		return e.narrate(ctx, cmd)
	}
	if !cmd.All {
		return e.run(ctx, h, cmd)
	}

	if len(cmd.Objects) == 0 {
		return "There's nothing here to " + cmd.VerbWord + "."
	}
	var lines []string
	for _, id := range cmd.Objects {
		one := cmd
		one.All = false
		one.Direct = id
		lines = append(lines, e.world.Object(id).Desc+": "+e.run(ctx, h, one))
	}
	return strings.Join(lines, "\n")
}

// run asks for missing objects, then calls the handler.
func (e *Engine) run(ctx context.Context, h handler, cmd parser.Command) string {
	if needsDirect[cmd.Verb] && cmd.Direct == world.None {
		e.parser.SetOrphanDirect(cmd.Verb, cmd.VerbWord)
		return "What do you want to " + cmd.VerbWord + "?"
	}
	if needsIndirect[cmd.Verb] && cmd.Indirect == world.None {
		prep := cmd.Preposition
		if prep == "" {
			prep = defaultPreposition(cmd.Verb)
		}
		e.parser.SetOrphanIndirect(cmd.Verb, cmd.VerbWord, cmd.Direct, prep)
		return "What do you want to " + cmd.VerbWord + " the " + e.world.Object(cmd.Direct).Desc + " " + prep + "?"
	}
	return h(ctx, cmd)
}

// checkSyntax enforces the flags a matched pattern asks of its objects.
// Verbs with a handler make their own, more specific checks.
func (e *Engine) checkSyntax(cmd parser.Command) string {
	if cmd.Syntax == nil {
		return ""
	}
	if slot, ok := cmd.Syntax.ObjectSlot(0); ok && slot.Requires != 0 && cmd.Direct != world.None {
		if o := e.world.Object(cmd.Direct); !o.Has(slot.Requires) {
			return "You can't " + cmd.VerbWord + " the " + o.Desc + "."
		}
	}
	if slot, ok := cmd.Syntax.ObjectSlot(1); ok && slot.Requires != 0 && cmd.Indirect != world.None {
		if o := e.world.Object(cmd.Indirect); !o.Has(slot.Requires) {
			return "You can't " + cmd.VerbWord + " things " + cmd.Preposition + " the " + o.Desc + "."
		}
	}
	return ""
}

func (e *Engine) narrate(ctx context.Context, cmd parser.Command) string {
	if e.narrator == nil {
		return "That verb is not implemented yet."
	}
	text, err := e.narrator.Narrate(ctx, e.scene(cmd))
	if err != nil {
		e.log.WithError(err).WithField("verb", cmd.Verb.String()).Warn("narrator failed")
		return "Nothing happens."
	}
	return text
}

func (e *Engine) scene(cmd parser.Command) Scene {
	room := e.world.Object(e.world.Here())
	s := Scene{
		World:           e.def.Title,
		Room:            room.Desc,
		RoomDescription: room.LongDesc,
		History:         e.history,
		Input:           strings.Join(cmd.Words, " "),
		Verb:            cmd.Verb.String(),
		Preposition:     cmd.Preposition,
	}
	for _, id := range e.world.Contents(room.ID) {
		if o := e.world.Object(id); id != e.world.Player() && !o.Has(world.FlagInvisible) {
			s.Visible = append(s.Visible, o.Desc)
		}
	}
	for _, id := range e.world.Contents(e.world.Player()) {
		s.Inventory = append(s.Inventory, e.world.Object(id).Desc)
	}
	if o := e.world.Object(cmd.Direct); o != nil {
		s.Direct = o.Desc
	}
	if o := e.world.Object(cmd.Indirect); o != nil {
		s.Indirect = o.Desc
	}
	return s
}

func (e *Engine) remember(line string) {
	if line == "" {
		return
	}
	e.history = append(e.history, line)
	if len(e.history) > historySize {
		e.history = e.history[len(e.history)-historySize:]
	}
}

func (e *Engine) say(s string) {
	e.console.Println(s)
}

func (e *Engine) output(s string) {
	e.emit(events.Event{Type: events.EvOutput, Text: s})
}

func (e *Engine) emit(ev events.Event) {
	ev.Session = e.session
	if ev.Turn == 0 {
		ev.Turn = e.moves
	}
	e.bus.Emit(ev)
}

// Parsed implements parser.Observer.
func (e *Engine) Parsed(input string, cmd parser.Command) {
	ev := events.Event{Input: input, Verb: cmd.Verb.String(), Kind: parser.Kind(cmd.Err), Turn: e.moves + 1}
	switch {
	case cmd.Valid():
		ev.Type = events.EvParsed
	case cmd.Err == nil:
		ev.Type, ev.Verb, ev.Kind = events.EvRejected, "", "empty"
	default:
		ev.Type, ev.Verb = events.EvRejected, ""
	}
	e.emit(ev)
	if cmd.Replayed {
		e.emit(events.Event{Type: events.EvReplayed, Input: input, Turn: e.moves + 1})
	}
}

// Prompted implements parser.Observer.
func (e *Engine) Prompted(noun string, candidates int) {
	e.emit(events.Event{Type: events.EvPrompted, Text: noun, Candidates: candidates})
}

// teeConsole copies everything shown to the player onto the event bus.
type teeConsole struct {
	parser.Console
	emit func(string)
}

func (t *teeConsole) Println(s string) {
	t.Console.Println(s)
	t.emit(s)
}

// Status is a summary of the game for side panels.
type Status struct {
	Room      string
	Moves     int
	Inventory []string
}

func (e *Engine) Status() Status {
	s := Status{Moves: e.moves}
	if room := e.world.Object(e.world.Here()); room != nil {
		s.Room = room.Desc
	}
	for _, id := range e.world.Contents(e.world.Player()) {
		s.Inventory = append(s.Inventory, e.world.Object(id).Desc)
	}
	return s
}
