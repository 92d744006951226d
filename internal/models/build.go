package models

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/tatianab/zork-parser/internal/world"
	"gopkg.in/yaml.v3"
)

//go:embed default_world.yaml
var defaultWorld []byte

// DefaultWorld returns the built-in world definition.
func DefaultWorld() (*WorldDef, error) {
	return ParseWorld(defaultWorld)
}

// ParseWorld decodes and validates a YAML world definition.
func ParseWorld(data []byte) (*WorldDef, error) {
	var def WorldDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("models: decode world: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadWorld reads a world file, or the built-in world when path is empty.
func LoadWorld(path string) (*WorldDef, error) {
	if path == "" {
		return DefaultWorld()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("models: read world: %w", err)
	}
	return ParseWorld(data)
}

// Validate reports every problem it finds, joined.
func (d *WorldDef) Validate() error {
	var errs []error
	keys := map[string]bool{PlayerKey: true}
	rooms := map[string]bool{}

	for _, r := range d.Rooms {
		if r.Key == "" {
			errs = append(errs, fmt.Errorf("room %q has no key", r.Name))
			continue
		}
		if keys[r.Key] {
			errs = append(errs, fmt.Errorf("duplicate key %q", r.Key))
		}
		keys[r.Key] = true
		rooms[r.Key] = true
		if _, err := world.ParseFlags(r.Flags); err != nil {
			errs = append(errs, fmt.Errorf("room %q: %w", r.Key, err))
		}
	}
	for _, o := range d.Objects {
		if o.Key == "" {
			errs = append(errs, fmt.Errorf("object %q has no key", o.Desc))
			continue
		}
		if keys[o.Key] {
			errs = append(errs, fmt.Errorf("duplicate key %q", o.Key))
		}
		keys[o.Key] = true
		if len(o.Synonyms) == 0 {
			errs = append(errs, fmt.Errorf("object %q has no synonyms", o.Key))
		}
		if _, err := world.ParseFlags(o.Flags); err != nil {
			errs = append(errs, fmt.Errorf("object %q: %w", o.Key, err))
		}
	}

	for _, r := range d.Rooms {
		for dir, to := range r.Exits {
			if _, ok := world.ParseDirection(dir); !ok {
				errs = append(errs, fmt.Errorf("room %q: unknown direction %q", r.Key, dir))
			}
			if !rooms[to] {
				errs = append(errs, fmt.Errorf("room %q: exit %s leads to unknown room %q", r.Key, dir, to))
			}
		}
	}
	for _, o := range d.Objects {
		if o.Location != "" && !keys[o.Location] {
			errs = append(errs, fmt.Errorf("object %q: unknown location %q", o.Key, o.Location))
		}
		if o.Location == o.Key && o.Key != "" {
			errs = append(errs, fmt.Errorf("object %q is inside itself", o.Key))
		}
	}

	switch {
	case d.Start == "":
		errs = append(errs, errors.New("no start room"))
	case !rooms[d.Start]:
		errs = append(errs, fmt.Errorf("start room %q is not a room", d.Start))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("models: invalid world %q: %w", d.Title, err)
	}
	return nil
}

// Build creates a live world. Rooms come first in the object table, then
// the player, then objects in file order.
func (d *WorldDef) Build() (*world.World, error) {
	w := world.New()

	for _, r := range d.Rooms {
		flags, err := world.ParseFlags(r.Flags)
		if err != nil {
			return nil, fmt.Errorf("models: room %q: %w", r.Key, err)
		}
		if _, err := w.Add(&world.Object{
			Key:      r.Key,
			Desc:     r.Name,
			LongDesc: r.Description,
			Flags:    flags | world.FlagRLand,
			Exits:    map[world.Direction]world.ObjectID{},
		}); err != nil {
			return nil, fmt.Errorf("models: %w", err)
		}
	}

	player := &world.Object{Key: PlayerKey, Desc: d.Player.Desc, Synonyms: d.Player.Synonyms, Flags: world.FlagActor}
	if player.Desc == "" {
		player.Desc = "yourself"
	}
	if len(player.Synonyms) == 0 {
		player.Synonyms = []string{"me", "myself", "self"}
	}
	if _, err := w.Add(player); err != nil {
		return nil, fmt.Errorf("models: %w", err)
	}
	w.SetPlayer(player.ID)

	for _, o := range d.Objects {
		flags, err := world.ParseFlags(o.Flags)
		if err != nil {
			return nil, fmt.Errorf("models: object %q: %w", o.Key, err)
		}
		if _, err := w.Add(&world.Object{
			Key:        o.Key,
			Desc:       o.Desc,
			LongDesc:   o.Description,
			Text:       o.Text,
			Synonyms:   o.Synonyms,
			Adjectives: o.Adjectives,
			Flags:      flags,
			Props:      copyProps(o.Props),
		}); err != nil {
			return nil, fmt.Errorf("models: %w", err)
		}
	}

	for _, r := range d.Rooms {
		room := w.Lookup(r.Key)
		for dirName, to := range r.Exits {
			dir, ok := world.ParseDirection(dirName)
			if !ok {
				return nil, fmt.Errorf("models: room %q: unknown direction %q", r.Key, dirName)
			}
			dest := w.Lookup(to)
			if dest == nil {
				return nil, fmt.Errorf("models: room %q: unknown exit %q", r.Key, to)
			}
			room.Exits[dir] = dest.ID
		}
	}

	for _, o := range d.Objects {
		if o.Location == "" {
			continue
		}
		loc := w.Lookup(o.Location)
		if loc == nil {
			return nil, fmt.Errorf("models: object %q: unknown location %q", o.Key, o.Location)
		}
		if err := w.Move(w.Lookup(o.Key).ID, loc.ID); err != nil {
			return nil, fmt.Errorf("models: %w", err)
		}
	}

	start := w.Lookup(d.Start)
	if start == nil {
		return nil, fmt.Errorf("models: unknown start room %q", d.Start)
	}
	if err := w.SetHere(start.ID); err != nil {
		return nil, fmt.Errorf("models: %w", err)
	}
	return w, nil
}

// FromWorld describes the current state of w, so a world in progress can
// be written back out and played from where it stands.
func FromWorld(w *world.World, title string) *WorldDef {
	def := &WorldDef{Title: title}
	player := w.Object(w.Player())
	if player != nil {
		def.Player = PlayerDef{Desc: player.Desc, Synonyms: player.Synonyms}
	}
	if here := w.Object(w.Here()); here != nil {
		def.Start = here.Key
	}

	for _, o := range w.Objects() {
		if o.ID == w.Player() {
			continue
		}
		if o.Exits != nil {
			r := RoomDef{Key: o.Key, Name: o.Desc, Description: o.LongDesc, Flags: roomFlags(o.Flags)}
			if len(o.Exits) > 0 {
				r.Exits = make(map[string]string, len(o.Exits))
				for dir, to := range o.Exits {
					r.Exits[dir.String()] = w.Object(to).Key
				}
			}
			def.Rooms = append(def.Rooms, r)
			continue
		}
		od := ObjectDef{
			Key:         o.Key,
			Desc:        o.Desc,
			Description: o.LongDesc,
			Text:        o.Text,
			Synonyms:    o.Synonyms,
			Adjectives:  o.Adjectives,
			Flags:       o.Flags.Names(),
			Props:       copyProps(o.Props),
		}
		if loc := w.Object(o.Location()); loc != nil {
			od.Location = loc.Key
		}
		def.Objects = append(def.Objects, od)
	}
	return def
}

func roomFlags(f world.Flag) []string {
	return (f &^ world.FlagRLand).Names()
}

func copyProps(p map[string]int) map[string]int {
	if len(p) == 0 {
		return nil
	}
	out := make(map[string]int, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
