package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/tatianab/zork-parser/internal/events"
	"github.com/tatianab/zork-parser/internal/parser"
	"github.com/tatianab/zork-parser/internal/store"
	"github.com/tatianab/zork-parser/internal/world"
)

var needsDirect = map[parser.VerbID]bool{
	parser.VerbTake:       true,
	parser.VerbDrop:       true,
	parser.VerbPut:        true,
	parser.VerbPutOn:      true,
	parser.VerbOpen:       true,
	parser.VerbClose:      true,
	parser.VerbExamine:    true,
	parser.VerbRead:       true,
	parser.VerbLookInside: true,
	parser.VerbLampOn:     true,
	parser.VerbLampOff:    true,
}

var needsIndirect = map[parser.VerbID]bool{
	parser.VerbPut:   true,
	parser.VerbPutOn: true,
}

func defaultPreposition(v parser.VerbID) string {
	if v == parser.VerbPutOn {
		return "on"
	}
	return "in"
}

func (e *Engine) verbHandlers() map[parser.VerbID]handler {
	return map[parser.VerbID]handler{
		parser.VerbLook:       e.look,
		parser.VerbInventory:  e.inventory,
		parser.VerbTake:       e.take,
		parser.VerbDrop:       e.drop,
		parser.VerbPut:        e.put,
		parser.VerbPutOn:      e.put,
		parser.VerbOpen:       e.open,
		parser.VerbClose:      e.close,
		parser.VerbExamine:    e.examine,
		parser.VerbLookInside: e.lookInside,
		parser.VerbRead:       e.read,
		parser.VerbWalk:       e.walk,
		parser.VerbEnter:      e.walk,
		parser.VerbExit:       e.walk,
		parser.VerbLampOn:     e.lampOn,
		parser.VerbLampOff:    e.lampOff,
		parser.VerbWait:       func(context.Context, parser.Command) string { return "Time passes..." },
		parser.VerbSave:       e.save,
		parser.VerbRestore:    e.restore,
		parser.VerbRestart:    e.restart,
		parser.VerbQuit:       e.quit,
	}
}

func (e *Engine) look(context.Context, parser.Command) string {
	return e.describeRoom()
}

func (e *Engine) inventory(context.Context, parser.Command) string {
	held := e.world.Contents(e.world.Player())
	if len(held) == 0 {
		return "You are empty-handed."
	}
	var b strings.Builder
	b.WriteString("You are carrying:")
	for _, id := range held {
		o := e.world.Object(id)
		b.WriteString("\n  " + withArticle(o.Desc))
		e.listContents(&b, o, 2)
	}
	return b.String()
}

func (e *Engine) take(_ context.Context, cmd parser.Command) string {
	o := e.world.Object(cmd.Direct)
	if o.Location() == e.world.Player() {
		return "You already have that!"
	}
	if cmd.Indirect != world.None && o.Location() != cmd.Indirect {
		return "The " + o.Desc + " isn't in the " + e.world.Object(cmd.Indirect).Desc + "."
	}
	if !o.Has(world.FlagTake) {
		if o.ID == e.world.Player() {
			return "How romantic!"
		}
		return "You can't take the " + o.Desc + "."
	}
	if !e.world.IsIn(o.ID, e.world.Player()) && e.weight(e.world.Player())+e.weight(o.ID) > e.load {
		return "Your load is too heavy."
	}
	if err := e.world.Move(o.ID, e.world.Player()); err != nil {
		e.log.WithError(err).Warn("take failed")
		return "You can't take the " + o.Desc + "."
	}
	return "Taken."
}

func (e *Engine) drop(_ context.Context, cmd parser.Command) string {
	o := e.world.Object(cmd.Direct)
	if !e.world.IsIn(o.ID, e.world.Player()) {
		return "You're not carrying the " + o.Desc + "."
	}
	if err := e.world.Move(o.ID, e.world.Here()); err != nil {
		e.log.WithError(err).Warn("drop failed")
		return "You can't drop the " + o.Desc + "."
	}
	return "Dropped."
}

func (e *Engine) put(_ context.Context, cmd parser.Command) string {
	o := e.world.Object(cmd.Direct)
	target := e.world.Object(cmd.Indirect)
	if o.ID == target.ID || e.world.IsIn(target.ID, o.ID) {
		return "How can you do that?"
	}
	if o.Location() == target.ID {
		return "The " + o.Desc + " is already there."
	}
	if cmd.Verb == parser.VerbPutOn {
		if !target.Has(world.FlagSurface) {
			return "There's no good surface on the " + target.Desc + "."
		}
	} else {
		if !target.Has(world.FlagCont) {
			return "You can't do that."
		}
		if !target.Has(world.FlagOpen) && !target.Has(world.FlagSurface) {
			return "The " + target.Desc + " isn't open."
		}
	}
	if !e.world.IsIn(o.ID, e.world.Player()) && !o.Has(world.FlagTake) {
		return "You don't have the " + o.Desc + "."
	}
	if c := target.Props["capacity"]; c > 0 && e.weight(target.ID)-e.size(target)+e.weight(o.ID) > c {
		return "There's no room."
	}
	if err := e.world.Move(o.ID, target.ID); err != nil {
		return "How can you do that?"
	}
	return "Done."
}

func (e *Engine) open(_ context.Context, cmd parser.Command) string {
	o := e.world.Object(cmd.Direct)
	if !openable(o) {
		return "You must tell me how to do that to " + withArticle(o.Desc) + "."
	}
	if o.Has(world.FlagOpen) {
		return "It is already open."
	}
	if o.Has(world.FlagLocked) {
		return "The " + o.Desc + " is locked."
	}
	o.Set(world.FlagOpen)

	contents := e.world.Contents(o.ID)
	if !o.Has(world.FlagCont) || o.Has(world.FlagTrans) || len(contents) == 0 {
		return "Opened."
	}
	names := make([]string, len(contents))
	for i, id := range contents {
		names[i] = withArticle(e.world.Object(id).Desc)
	}
	return "Opening the " + o.Desc + " reveals " + strings.Join(names, ", ") + "."
}

func (e *Engine) close(_ context.Context, cmd parser.Command) string {
	o := e.world.Object(cmd.Direct)
	if !openable(o) {
		return "You must tell me how to do that to " + withArticle(o.Desc) + "."
	}
	if !o.Has(world.FlagOpen) {
		return "It is already closed."
	}
	o.Clear(world.FlagOpen)
	return "Closed."
}

func (e *Engine) examine(_ context.Context, cmd parser.Command) string {
	o := e.world.Object(cmd.Direct)
	var b strings.Builder
	switch {
	case o.LongDesc != "":
		b.WriteString(strings.TrimSpace(o.LongDesc))
	case o.Has(world.FlagRead) && o.Text != "":
		b.WriteString(strings.TrimSpace(o.Text))
	case o.Has(world.FlagCont):
		if o.Has(world.FlagOpen) {
			b.WriteString("The " + o.Desc + " is open.")
		} else {
			b.WriteString("The " + o.Desc + " is closed.")
		}
	default:
		b.WriteString("There's nothing special about the " + o.Desc + ".")
	}
	if seesInside(o) && len(e.world.Contents(o.ID)) > 0 {
		b.WriteString("\nThe " + o.Desc + " contains:")
		e.listItems(&b, o, 1)
	}
	return b.String()
}

func (e *Engine) lookInside(_ context.Context, cmd parser.Command) string {
	o := e.world.Object(cmd.Direct)
	if !o.Has(world.FlagCont) {
		return "You can't look inside " + withArticle(o.Desc) + "."
	}
	if !seesInside(o) {
		return "The " + o.Desc + " is closed."
	}
	if len(e.world.Contents(o.ID)) == 0 {
		return "The " + o.Desc + " is empty."
	}
	var b strings.Builder
	b.WriteString("The " + o.Desc + " contains:")
	e.listItems(&b, o, 1)
	return b.String()
}

func (e *Engine) read(_ context.Context, cmd parser.Command) string {
	o := e.world.Object(cmd.Direct)
	if !o.Has(world.FlagRead) || o.Text == "" {
		return "How does one read " + withArticle(o.Desc) + "?"
	}
	return strings.TrimSpace(o.Text)
}

func (e *Engine) walk(_ context.Context, cmd parser.Command) string {
	dir := cmd.Direction
	switch {
	case cmd.Verb == parser.VerbEnter:
		dir = world.In
	case cmd.Verb == parser.VerbExit:
		dir = world.Out
	case !cmd.IsDirection:
		return "Where do you want to go?"
	}

	room := e.world.Object(e.world.Here())
	dest, ok := room.Exits[dir]
	if !ok {
		return "You can't go that way."
	}
	if err := e.world.SetHere(dest); err != nil {
		e.log.WithError(err).WithField("direction", dir.String()).Error("walk failed")
		return "You can't go that way."
	}
	return e.describeRoom()
}

func (e *Engine) lampOn(_ context.Context, cmd parser.Command) string {
	o := e.world.Object(cmd.Direct)
	if !o.Has(world.FlagLight) {
		return "You can't turn that on."
	}
	if o.Has(world.FlagOn) {
		return "It is already on."
	}
	o.Set(world.FlagOn)
	return "The " + o.Desc + " is now on."
}

func (e *Engine) lampOff(_ context.Context, cmd parser.Command) string {
	o := e.world.Object(cmd.Direct)
	if !o.Has(world.FlagLight) {
		return "You can't turn that off."
	}
	if !o.Has(world.FlagOn) {
		return "It is already off."
	}
	o.Clear(world.FlagOn)
	return "The " + o.Desc + " is now off."
}

func (e *Engine) save(context.Context, parser.Command) string {
	if e.store == nil {
		return "Saving is not available."
	}
	err := e.store.Save(store.Slot{
		Name:     store.DefaultSlot,
		World:    e.def.Title,
		Moves:    e.moves,
		Snapshot: e.world.Snapshot(),
	})
	if err != nil {
		e.log.WithError(err).Error("save failed")
		return "Save failed."
	}
	return "Ok."
}

func (e *Engine) restore(context.Context, parser.Command) string {
	if e.store == nil {
		return "Restoring is not available."
	}
	slot, err := e.store.Load(store.DefaultSlot)
	if errors.Is(err, store.ErrNoSlot) {
		return "There is no saved game."
	}
	if err == nil && slot.World != e.def.Title {
		return "That saved game belongs to a different world."
	}
	if err == nil {
		err = e.world.Restore(slot.Snapshot)
	}
	if err != nil {
		e.log.WithError(err).Error("restore failed")
		return "Restore failed."
	}
	e.moves = slot.Moves
	return "Ok.\n" + e.describeRoom()
}

func (e *Engine) restart(context.Context, parser.Command) string {
	if err := e.world.Restore(e.initial); err != nil {
		e.log.WithError(err).Error("restart failed")
		return "Restart failed."
	}
	e.moves = 0
	e.history = nil
	e.parser.Reset()
	e.emit(events.Event{Type: events.EvRestart})
	return "Restarting.\n" + e.describeRoom()
}

func (e *Engine) quit(context.Context, parser.Command) string {
	e.done = true
	return "Goodbye."
}

// describeRoom renders the current room and what can be seen in it.
func (e *Engine) describeRoom() string {
	room := e.world.Object(e.world.Here())
	var b strings.Builder
	b.WriteString(room.Desc)
	if room.LongDesc != "" {
		b.WriteString("\n" + strings.TrimSpace(room.LongDesc))
	}
	for _, id := range e.world.Contents(room.ID) {
		o := e.world.Object(id)
		if id == e.world.Player() || o.Has(world.FlagInvisible) {
			continue
		}
		if !o.Has(world.FlagNDesc) {
			b.WriteString("\nThere is " + withArticle(o.Desc) + " here.")
		}
		e.listContents(&b, o, 1)
	}
	return b.String()
}

// listContents adds a "contains" block for o if its inside can be seen.
func (e *Engine) listContents(b *strings.Builder, o *world.Object, depth int) {
	if !seesInside(o) || len(e.world.Contents(o.ID)) == 0 {
		return
	}
	b.WriteString("\n" + strings.Repeat("  ", depth-1) + "The " + o.Desc + " contains:")
	e.listItems(b, o, depth)
}

func (e *Engine) listItems(b *strings.Builder, o *world.Object, depth int) {
	for _, id := range e.world.Contents(o.ID) {
		c := e.world.Object(id)
		b.WriteString("\n" + strings.Repeat("  ", depth) + withArticle(c.Desc))
		e.listContents(b, c, depth+1)
	}
}

func openable(o *world.Object) bool {
	return o.Has(world.FlagDoor) || (o.Has(world.FlagCont) && !o.Has(world.FlagSurface))
}

func seesInside(o *world.Object) bool {
	return o.Has(world.FlagCont) && (o.Has(world.FlagOpen) || o.Has(world.FlagTrans) || o.Has(world.FlagSurface))
}

func (e *Engine) size(o *world.Object) int {
	if n, ok := o.Props["size"]; ok {
		return n
	}
	return defaultSize
}

// weight is the size of id plus everything inside it. The player has no
// size of their own.
func (e *Engine) weight(id world.ObjectID) int {
	o := e.world.Object(id)
	total := 0
	if id != e.world.Player() {
		total = e.size(o)
	}
	for _, c := range e.world.Contents(id) {
		total += e.weight(c)
	}
	return total
}

func withArticle(desc string) string {
	if desc == "" {
		return desc
	}
	switch desc[0] {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return "an " + desc
	}
	return "a " + desc
}
