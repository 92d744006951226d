package parser

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/tatianab/zork-parser/internal/world"
)

type fakeConsole struct {
	out     []string
	replies []string
}

func (c *fakeConsole) Println(s string) { c.out = append(c.out, s) }

func (c *fakeConsole) ReadLine(prompt string) (string, error) {
	if len(c.replies) == 0 {
		return "", io.EOF
	}
	r := c.replies[0]
	c.replies = c.replies[1:]
	return r, nil
}

func (c *fakeConsole) printed(s string) bool {
	for _, line := range c.out {
		if line == s {
			return true
		}
	}
	return false
}

type fixture struct {
	t       *testing.T
	w       *world.World
	room    world.ObjectID
	player  world.ObjectID
	console *fakeConsole
	p       *Parser
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := world.New()
	f := &fixture{t: t, w: w, console: &fakeConsole{}}
	f.room = f.add(&world.Object{Key: "west-of-house", Desc: "West of House"}, world.None)
	f.player = f.add(&world.Object{Key: "player", Desc: "you", Synonyms: []string{"me", "self"}}, world.None)
	w.SetPlayer(f.player)
	if err := w.SetHere(f.room); err != nil {
		t.Fatal(err)
	}
	return f
}

func (f *fixture) add(o *world.Object, loc world.ObjectID) world.ObjectID {
	f.t.Helper()
	id, err := f.w.Add(o)
	if err != nil {
		f.t.Fatal(err)
	}
	if loc != world.None {
		if err := f.w.Move(id, loc); err != nil {
			f.t.Fatal(err)
		}
	}
	return id
}

func (f *fixture) parser() *Parser {
	f.t.Helper()
	if f.p == nil {
		reg, err := DefaultRegistry()
		if err != nil {
			f.t.Fatalf("DefaultRegistry: %v", err)
		}
		f.p = New(reg, f.w, f.console)
	}
	return f.p
}

func (f *fixture) parse(input string) Command {
	return f.parser().Parse(input)
}

func lamp() *world.Object {
	return &world.Object{Key: "lamp", Desc: "brass lantern", Synonyms: []string{"lamp", "lantern"}, Flags: world.FlagTake | world.FlagLight}
}

func TestSimpleTake(t *testing.T) {
	f := newFixture(t)
	l := f.add(lamp(), f.room)

	cmd := f.parse("take lamp")
	if cmd.Verb != VerbTake {
		t.Fatalf("verb = %v, want take", cmd.Verb)
	}
	if cmd.Direct != l {
		t.Errorf("direct = %d, want %d", cmd.Direct, l)
	}
	if cmd.Err != nil {
		t.Errorf("unexpected error %v", cmd.Err)
	}
	if f.parser().Session().LastObject != l {
		t.Errorf("last object = %d, want %d", f.parser().Session().LastObject, l)
	}
}

func TestTakeIgnoresCase(t *testing.T) {
	f := newFixture(t)
	l := f.add(lamp(), f.room)

	cmd := f.parse("TAKE The LAMP")
	if cmd.Verb != VerbTake || cmd.Direct != l {
		t.Fatalf("got %v/%d, want take/%d", cmd.Verb, cmd.Direct, l)
	}
}

func TestPrepositionSplit(t *testing.T) {
	f := newFixture(t)
	l := f.add(lamp(), f.player)
	box := f.add(&world.Object{Key: "box", Desc: "wooden box", Synonyms: []string{"box"}, Flags: world.FlagCont | world.FlagOpen}, f.room)

	cmd := f.parse("put lamp in box")
	if cmd.Verb != VerbPut {
		t.Fatalf("verb = %v, want put", cmd.Verb)
	}
	if cmd.Direct != l || cmd.Indirect != box {
		t.Errorf("objects = %d/%d, want %d/%d", cmd.Direct, cmd.Indirect, l, box)
	}
	if cmd.Preposition != "in" {
		t.Errorf("preposition = %q", cmd.Preposition)
	}
}

func TestPrepositionArticleOnlyPhrase(t *testing.T) {
	f := newFixture(t)
	f.add(lamp(), f.player)
	box := f.add(&world.Object{Key: "box", Desc: "wooden box", Synonyms: []string{"box"}, Flags: world.FlagCont | world.FlagOpen}, f.room)

	cmd := f.parse("put the in box")
	if cmd.Verb != VerbPut {
		t.Fatalf("verb = %v, want put (err %v)", cmd.Verb, cmd.Err)
	}
	if cmd.Direct != world.None || cmd.Indirect != box {
		t.Errorf("objects = %d/%d, want none/%d", cmd.Direct, cmd.Indirect, box)
	}
	if len(f.console.out) != 0 {
		t.Errorf("output = %q, want nothing", f.console.out)
	}
}

func TestPrepositionRefinesVerb(t *testing.T) {
	f := newFixture(t)
	l := f.add(lamp(), f.player)
	box := f.add(&world.Object{Key: "box", Desc: "wooden box", Synonyms: []string{"box"}, Flags: world.FlagCont | world.FlagOpen}, f.room)

	tests := []struct {
		input  string
		verb   VerbID
		direct world.ObjectID
	}{
		{"put lamp on box", VerbPutOn, l},
		{"turn on lamp", VerbLampOn, l},
		{"turn off the lamp", VerbLampOff, l},
		{"look at lamp", VerbExamine, l},
		{"look in box", VerbLookInside, box},
	}
	for _, tt := range tests {
		cmd := f.parse(tt.input)
		if cmd.Verb != tt.verb {
			t.Errorf("%q: verb = %v, want %v", tt.input, cmd.Verb, tt.verb)
		}
		if cmd.Direct != tt.direct {
			t.Errorf("%q: direct = %d, want %d", tt.input, cmd.Direct, tt.direct)
		}
	}
}

func TestInvalidPreposition(t *testing.T) {
	f := newFixture(t)
	f.add(lamp(), f.player)
	f.add(&world.Object{Key: "box", Desc: "wooden box", Synonyms: []string{"box"}, Flags: world.FlagCont | world.FlagOpen}, f.room)

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	reg, err := DefaultRegistry()
	if err != nil {
		t.Fatal(err)
	}
	f.p = New(reg, f.w, f.console, WithLogger(logrus.NewEntry(logger)))

	cmd := f.parse("put lamp under box")
	if cmd.Verb != VerbNone {
		t.Fatalf("verb = %v, want none", cmd.Verb)
	}
	if !errors.Is(cmd.Err, ErrInvalidPreposition) {
		t.Errorf("err = %v, want ErrInvalidPreposition", cmd.Err)
	}
	if !f.console.printed("I don't understand that.") {
		t.Errorf("output = %q", f.console.out)
	}

	var valid interface{}
	for _, e := range hook.AllEntries() {
		if e.Message == "preposition not valid for verb" {
			valid = e.Data["valid"]
		}
	}
	if valid != "in,inside,into,on,onto" {
		t.Errorf("logged valid prepositions = %v", valid)
	}
}

func knives(f *fixture) (brass, rusty world.ObjectID) {
	brass = f.add(&world.Object{Key: "brass-knife", Desc: "brass knife", Synonyms: []string{"knife"}, Adjectives: []string{"brass"}, Flags: world.FlagTake | world.FlagWeapon}, f.room)
	rusty = f.add(&world.Object{Key: "rusty-knife", Desc: "rusty knife", Synonyms: []string{"knife"}, Adjectives: []string{"rusty"}, Flags: world.FlagTake | world.FlagWeapon}, f.player)
	return brass, rusty
}

func TestAdjectiveNarrowing(t *testing.T) {
	f := newFixture(t)
	brass, rusty := knives(f)
	r := f.parser().Resolver()

	got := r.FindObjects([]string{"brass", "knife"})
	if len(got) != 1 || got[0] != brass {
		t.Errorf("brass knife = %v, want [%d]", got, brass)
	}
	got = r.FindObjects([]string{"knife"})
	if len(got) != 2 || got[0] != brass || got[1] != rusty {
		t.Errorf("knife = %v, want [%d %d]", got, brass, rusty)
	}
}

func TestStrayWordsIgnoredWithoutAdjectives(t *testing.T) {
	f := newFixture(t)
	l := f.add(lamp(), f.room)
	got := f.parser().Resolver().FindObjects([]string{"shiny", "lamp"})
	if len(got) != 1 || got[0] != l {
		t.Errorf("shiny lamp = %v, want [%d]", got, l)
	}
}

func TestPriorityOrdering(t *testing.T) {
	f := newFixture(t)
	box := f.add(&world.Object{Key: "box", Desc: "box", Synonyms: []string{"box"}, Flags: world.FlagCont | world.FlagOpen}, f.room)
	inBox := f.add(&world.Object{Key: "coin-1", Desc: "gold coin", Synonyms: []string{"coin"}}, box)
	held := f.add(&world.Object{Key: "coin-2", Desc: "silver coin", Synonyms: []string{"coin"}}, f.player)
	here := f.add(&world.Object{Key: "coin-3", Desc: "copper coin", Synonyms: []string{"coin"}}, f.room)

	r := f.parser().Resolver()
	got := r.FindObjects([]string{"coin"})
	want := []world.ObjectID{here, held, inBox}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d = %d, want %d", i, got[i], want[i])
		}
	}
	for i := 1; i < len(got); i++ {
		if r.Priority(got[i-1]) < r.Priority(got[i]) {
			t.Errorf("priority not descending at %d", i)
		}
	}
}

func TestClosedContainerHidesContents(t *testing.T) {
	f := newFixture(t)
	mailbox := f.add(&world.Object{Key: "mailbox", Desc: "small mailbox", Synonyms: []string{"mailbox", "box"}, Flags: world.FlagCont | world.FlagTryTake}, f.room)
	leaflet := f.add(&world.Object{Key: "leaflet", Desc: "leaflet", Synonyms: []string{"leaflet"}, Flags: world.FlagTake | world.FlagRead}, mailbox)

	r := f.parser().Resolver()
	if got := r.FindObjects([]string{"leaflet"}); len(got) != 0 {
		t.Errorf("closed mailbox leaked %v", got)
	}
	if r.Priority(leaflet) != PriorityHidden {
		t.Errorf("priority = %d, want hidden", r.Priority(leaflet))
	}

	cmd := f.parse("take leaflet")
	if cmd.Verb != VerbNone || !errors.Is(cmd.Err, ErrObjectNotVisible) {
		t.Fatalf("cmd = %+v", cmd)
	}
	if !f.console.printed("You can't see any leaflet here!") {
		t.Errorf("output = %q", f.console.out)
	}

	f.w.Object(mailbox).Set(world.FlagOpen)
	if got := r.FindObjects([]string{"leaflet"}); len(got) != 1 || got[0] != leaflet {
		t.Errorf("open mailbox: got %v", got)
	}
}

func TestDisambiguationByNumber(t *testing.T) {
	for _, tt := range []struct {
		reply string
		want  func(brass, rusty world.ObjectID) world.ObjectID
	}{
		{"1", func(b, _ world.ObjectID) world.ObjectID { return b }},
		{"2", func(_, r world.ObjectID) world.ObjectID { return r }},
		{"3", func(_, _ world.ObjectID) world.ObjectID { return world.None }},
		{"spoon", func(_, _ world.ObjectID) world.ObjectID { return world.None }},
	} {
		f := newFixture(t)
		brass, rusty := knives(f)
		f.console.replies = []string{tt.reply}

		cmd := f.parse("examine knife")
		want := tt.want(brass, rusty)
		if cmd.Direct != want {
			t.Errorf("reply %q: direct = %d, want %d", tt.reply, cmd.Direct, want)
		}
		if want == world.None {
			if cmd.Verb != VerbNone || !errors.Is(cmd.Err, ErrUnresolvedChoice) {
				t.Errorf("reply %q: cmd = %+v", tt.reply, cmd)
			}
			if !f.console.printed("I don't understand that choice.") {
				t.Errorf("reply %q: output = %q", tt.reply, f.console.out)
			}
		} else if cmd.Verb != VerbExamine {
			t.Errorf("reply %q: verb = %v", tt.reply, cmd.Verb)
		}

		wantLines := []string{"Which knife do you mean?", "  1. brass knife (here)", "  2. rusty knife (in your inventory)"}
		for i, line := range wantLines {
			if i >= len(f.console.out) || f.console.out[i] != line {
				t.Errorf("reply %q: line %d = %q, want %q", tt.reply, i, f.console.out, line)
				break
			}
		}
	}
}

func TestDisambiguationByName(t *testing.T) {
	f := newFixture(t)
	brass, rusty := knives(f)
	d := f.parser().Disambiguator()
	candidates := []world.ObjectID{brass, rusty}

	for reply, want := range map[string]world.ObjectID{
		"rusty knife":   rusty,
		"the brass one": brass,
		"rusty":         rusty,
		"knife":         brass,
		"knife please":  brass,
		"that knife":    brass,
		"knife 2":       brass,
		"brass rusty":   world.None,
		"spoon":         world.None,
		"":              world.None,
	} {
		got, ok := d.MatchReply(reply, candidates)
		if got != want || ok != (want != world.None) {
			t.Errorf("MatchReply(%q) = %d, %v; want %d", reply, got, ok, want)
		}
	}
}

func TestDisambiguationLabelInContainer(t *testing.T) {
	f := newFixture(t)
	box := f.add(&world.Object{Key: "box", Desc: "wooden box", Synonyms: []string{"box"}, Flags: world.FlagCont | world.FlagOpen}, f.room)
	coin := f.add(&world.Object{Key: "coin", Desc: "gold coin", Synonyms: []string{"coin"}}, box)
	if got := f.parser().Disambiguator().Label(coin); got != "gold coin (in the wooden box)" {
		t.Errorf("label = %q", got)
	}
}

func TestAgainRepeatsLastCommand(t *testing.T) {
	f := newFixture(t)
	l := f.add(lamp(), f.room)

	first := f.parse("take lamp")
	again := f.parse("again")
	if again.Verb != first.Verb || again.Direct != first.Direct || again.Direct != l {
		t.Errorf("again = %v/%d, first = %v/%d", again.Verb, again.Direct, first.Verb, first.Direct)
	}
	if !again.Replayed {
		t.Errorf("again should be marked replayed")
	}
	if f.parser().Session().LastInput != "take lamp" {
		t.Errorf("last input = %q", f.parser().Session().LastInput)
	}

	g := f.parse("g")
	if g.Verb != VerbTake || g.Direct != l {
		t.Errorf("g = %v/%d", g.Verb, g.Direct)
	}
}

func TestAgainWithoutHistory(t *testing.T) {
	f := newFixture(t)
	cmd := f.parse("again")
	if cmd.Verb != VerbNone || !errors.Is(cmd.Err, ErrMissingPriorCommand) {
		t.Fatalf("cmd = %+v", cmd)
	}
	if !f.console.printed("You haven't entered a command yet.") {
		t.Errorf("output = %q", f.console.out)
	}
}

func TestOopsCorrectsUnknownVerb(t *testing.T) {
	f := newFixture(t)
	l := f.add(lamp(), f.room)

	bad := f.parse("tke lamp")
	if bad.Verb != VerbNone || !errors.Is(bad.Err, ErrUnknownVerb) {
		t.Fatalf("bad = %+v", bad)
	}
	if !f.console.printed(`I don't know the word "tke".`) {
		t.Errorf("output = %q", f.console.out)
	}

	fixed := f.parse("oops take")
	if fixed.Verb != VerbTake || fixed.Direct != l {
		t.Errorf("fixed = %v/%d, want take/%d", fixed.Verb, fixed.Direct, l)
	}

	g := newFixture(t)
	g.add(lamp(), g.room)
	direct := g.parse("take lamp")
	if fixed.Verb != direct.Verb || fixed.Direct != direct.Direct {
		t.Errorf("oops result differs from direct parse")
	}
}

func TestOopsCorrectsObjectWord(t *testing.T) {
	f := newFixture(t)
	l := f.add(lamp(), f.room)

	bad := f.parse("take lmap")
	if !errors.Is(bad.Err, ErrUnknownObjectWord) {
		t.Fatalf("err = %v", bad.Err)
	}
	fixed := f.parse("oops lamp")
	if fixed.Verb != VerbTake || fixed.Direct != l {
		t.Errorf("fixed = %v/%d", fixed.Verb, fixed.Direct)
	}
	if f.parser().Session().HadUnknown {
		t.Errorf("unknown word should be cleared")
	}
}

func TestOopsMisuse(t *testing.T) {
	f := newFixture(t)
	f.add(lamp(), f.room)

	cmd := f.parse("oops lamp")
	if !errors.Is(cmd.Err, ErrNoUnknownWord) || !f.console.printed("There was no word to correct.") {
		t.Errorf("no unknown word: %+v %q", cmd, f.console.out)
	}

	f.parse("tke lamp")
	cmd = f.parse("oops")
	if !errors.Is(cmd.Err, ErrMissingReplacement) || !f.console.printed("Oops what?") {
		t.Errorf("missing replacement: %+v %q", cmd, f.console.out)
	}

	f.parse("look")
	cmd = f.parse("oops take")
	if !errors.Is(cmd.Err, ErrNoUnknownWord) {
		t.Errorf("a good turn should clear the unknown word, got %v", cmd.Err)
	}
}

func TestNestedReplayRefused(t *testing.T) {
	f := newFixture(t)
	f.add(lamp(), f.room)
	f.parse("tke lamp")
	cmd := f.parse("oops again")
	if !errors.Is(cmd.Err, ErrNestedReplay) {
		t.Errorf("err = %v, want ErrNestedReplay", cmd.Err)
	}
}

func TestPronouns(t *testing.T) {
	f := newFixture(t)
	l := f.add(lamp(), f.room)

	cmd := f.parse("drop it")
	if !errors.Is(cmd.Err, ErrUnboundPronoun) || !f.console.printed(`I don't know what "it" refers to.`) {
		t.Errorf("unbound it: %+v", cmd)
	}
	cmd = f.parse("drop them")
	if !errors.Is(cmd.Err, ErrUnboundPronoun) || !f.console.printed(`I don't know what "them" refers to.`) {
		t.Errorf("unbound them: %+v", cmd)
	}

	f.parse("examine lamp")
	cmd = f.parse("take it")
	if cmd.Verb != VerbTake || cmd.Direct != l {
		t.Errorf("take it = %v/%d", cmd.Verb, cmd.Direct)
	}
}

func TestAllAndThem(t *testing.T) {
	f := newFixture(t)
	l := f.add(lamp(), f.room)
	brass, rusty := knives(f)
	f.add(&world.Object{Key: "mailbox", Desc: "small mailbox", Synonyms: []string{"mailbox"}, Flags: world.FlagCont | world.FlagTake | world.FlagTryTake}, f.room)

	cmd := f.parse("take all")
	if !cmd.All || cmd.Verb != VerbTake {
		t.Fatalf("cmd = %+v", cmd)
	}
	if len(cmd.Objects) != 2 || cmd.Objects[0] != l || cmd.Objects[1] != brass {
		t.Errorf("objects = %v, want [%d %d]", cmd.Objects, l, brass)
	}

	cmd = f.parse("take everything except lamp")
	if cmd.Except != l || len(cmd.Objects) != 1 || cmd.Objects[0] != brass {
		t.Errorf("except: %+v", cmd)
	}
	if f.parser().Session().LastObject != brass {
		t.Errorf("single remaining object should bind it")
	}

	cmd = f.parse("drop all")
	if len(cmd.Objects) != 1 || cmd.Objects[0] != rusty {
		t.Errorf("drop all = %v, want [%d]", cmd.Objects, rusty)
	}

	cmd = f.parse("examine them")
	if !cmd.All || len(cmd.Objects) != 1 || cmd.Objects[0] != rusty {
		t.Errorf("them = %+v", cmd)
	}
}

func TestDirections(t *testing.T) {
	f := newFixture(t)
	for input, want := range map[string]world.Direction{
		"n":         world.North,
		"north":     world.North,
		"go south":  world.South,
		"walk up":   world.Up,
		"run ne":    world.NorthEast,
		"in":        world.In,
		"go inside": world.In,
	} {
		cmd := f.parse(input)
		if cmd.Verb != VerbWalk || !cmd.IsDirection || cmd.Direction != want {
			t.Errorf("%q = %v dir=%v(%v), want walk %v", input, cmd.Verb, cmd.Direction, cmd.IsDirection, want)
		}
	}
}

func TestUnknownAndNonsense(t *testing.T) {
	f := newFixture(t)
	f.add(lamp(), f.room)

	cmd := f.parse("xyzzyq")
	if !errors.Is(cmd.Err, ErrUnknownVerb) || f.parser().Session().LastUnknown != "xyzzyq" {
		t.Errorf("cmd = %+v", cmd)
	}

	cmd = f.parse("the lamp")
	if !errors.Is(cmd.Err, ErrNotASentence) || !f.console.printed("I don't understand that sentence.") {
		t.Errorf("cmd = %+v", cmd)
	}

	cmd = f.parse("   ")
	if cmd.Verb != VerbNone || cmd.Err != nil {
		t.Errorf("blank input: %+v", cmd)
	}
}

func TestOrphanCompletion(t *testing.T) {
	f := newFixture(t)
	l := f.add(lamp(), f.room)
	p := f.parser()

	p.SetOrphanDirect(VerbTake, "take")
	if !p.Session().Orphaned() {
		t.Fatalf("parser should be orphaned")
	}
	cmd := f.parse("the lamp")
	if cmd.Verb != VerbTake || cmd.Direct != l {
		t.Fatalf("cmd = %v/%d", cmd.Verb, cmd.Direct)
	}
	if p.Session().Orphaned() {
		t.Errorf("orphan should be cleared")
	}
	if got := p.Session().LastInput; got != "take the lamp" {
		t.Errorf("last input = %q", got)
	}

	p.SetOrphanDirect(VerbTake, "take")
	cmd = f.parse("look")
	if cmd.Verb != VerbLook {
		t.Errorf("new verb should abandon the orphan, got %v", cmd.Verb)
	}
}

func TestOrphanIndirect(t *testing.T) {
	f := newFixture(t)
	door := f.add(&world.Object{Key: "door", Desc: "door", Synonyms: []string{"door"}, Flags: world.FlagDoor}, f.room)
	key := f.add(&world.Object{Key: "key", Desc: "skeleton key", Synonyms: []string{"key"}, Flags: world.FlagTool}, f.player)
	p := f.parser()

	p.SetOrphanIndirect(VerbUnlock, "unlock", door, "with")
	cmd := f.parse("key")
	if cmd.Verb != VerbUnlock || cmd.Direct != door || cmd.Indirect != key {
		t.Fatalf("cmd = %+v", cmd)
	}
	if got := p.Session().LastInput; got != "unlock door with key" {
		t.Errorf("last input = %q", got)
	}
}

func TestResetClearsSession(t *testing.T) {
	f := newFixture(t)
	f.add(lamp(), f.room)
	f.parse("take lamp")
	f.parser().Reset()
	s := f.parser().Session()
	if s.LastInput != "" || s.LastObject != world.None || s.HadUnknown {
		t.Errorf("session not reset: %+v", s)
	}
}

type recordingObserver struct {
	parsed  []string
	prompts int
}

func (o *recordingObserver) Parsed(input string, cmd Command) { o.parsed = append(o.parsed, input) }
func (o *recordingObserver) Prompted(noun string, n int)      { o.prompts++ }

func TestObserver(t *testing.T) {
	f := newFixture(t)
	knives(f)
	obs := &recordingObserver{}
	reg, err := DefaultRegistry()
	if err != nil {
		t.Fatal(err)
	}
	f.console.replies = []string{"1"}
	p := New(reg, f.w, f.console, WithObserver(obs))
	p.Parse("take knife")
	p.Parse("again")

	if strings.Join(obs.parsed, ",") != "take knife,again" {
		t.Errorf("parsed = %v", obs.parsed)
	}
	if obs.prompts != 2 {
		t.Errorf("prompts = %d, want 2", obs.prompts)
	}
}
