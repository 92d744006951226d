package world

import (
	"fmt"
	"strings"
)

// ObjectID addresses an object in a World. Zero means no object.
type ObjectID int

const None ObjectID = 0

// Object is anything the player can refer to: rooms, items, the player.
type Object struct {
	ID         ObjectID
	Key        string
	Desc       string
	LongDesc   string
	Text       string
	Synonyms   []string
	Adjectives []string
	Flags      Flag
	Props      map[string]int
	Exits      map[Direction]ObjectID

	location ObjectID
}

// Has reports whether every bit in f is set.
func (o *Object) Has(f Flag) bool { return o.Flags.Has(f) }

func (o *Object) Set(f Flag)   { o.Flags |= f }
func (o *Object) Clear(f Flag) { o.Flags &^= f }

// Location is the id of the object that contains o.
func (o *Object) Location() ObjectID { return o.location }

// HasSynonym matches word case-insensitively against the synonym set.
func (o *Object) HasSynonym(word string) bool {
	return containsFold(o.Synonyms, word)
}

// HasAdjective matches word case-insensitively against the adjective set.
func (o *Object) HasAdjective(word string) bool {
	return containsFold(o.Adjectives, word)
}

// Noun is the first synonym, used when the game has to name an object type.
func (o *Object) Noun() string {
	if len(o.Synonyms) == 0 {
		return o.Desc
	}
	return o.Synonyms[0]
}

func containsFold(set []string, word string) bool {
	for _, s := range set {
		if strings.EqualFold(s, word) {
			return true
		}
	}
	return false
}

// World is an arena of objects. Containment is stored once, on the child,
// and the contents index is kept in step by Move.
type World struct {
	objects  []*Object
	byKey    map[string]ObjectID
	contents map[ObjectID][]ObjectID
	player   ObjectID
	here     ObjectID
}

func New() *World {
	return &World{
		byKey:    make(map[string]ObjectID),
		contents: make(map[ObjectID][]ObjectID),
	}
}

// Add assigns o the next id and places it nowhere.
func (w *World) Add(o *Object) (ObjectID, error) {
	if o.Key != "" {
		if _, dup := w.byKey[o.Key]; dup {
			return None, fmt.Errorf("world: duplicate object key %q", o.Key)
		}
	}
	w.objects = append(w.objects, o)
	o.ID = ObjectID(len(w.objects))
	o.location = None
	if o.Key != "" {
		w.byKey[o.Key] = o.ID
	}
	return o.ID, nil
}

// Object returns the object with the given id, or nil.
func (w *World) Object(id ObjectID) *Object {
	if id <= 0 || int(id) > len(w.objects) {
		return nil
	}
	return w.objects[id-1]
}

// Lookup finds an object by its key.
func (w *World) Lookup(key string) *Object {
	return w.Object(w.byKey[key])
}

// Objects returns every object in insertion order.
func (w *World) Objects() []*Object {
	return w.objects
}

// Contents lists what is directly inside id, in the order things arrived.
func (w *World) Contents(id ObjectID) []ObjectID {
	return w.contents[id]
}

// Move relocates id into dest. Passing None removes it from play.
func (w *World) Move(id, dest ObjectID) error {
	o := w.Object(id)
	if o == nil {
		return fmt.Errorf("world: move: no object %d", id)
	}
	if dest != None && w.Object(dest) == nil {
		return fmt.Errorf("world: move %s: no destination %d", o.Key, dest)
	}
	for c := dest; c != None; c = w.Object(c).location {
		if c == id {
			return fmt.Errorf("world: move %s: would contain itself", o.Key)
		}
	}
	if o.location != None {
		w.contents[o.location] = remove(w.contents[o.location], id)
	}
	o.location = dest
	if dest != None {
		w.contents[dest] = append(w.contents[dest], id)
	}
	return nil
}

func remove(ids []ObjectID, id ObjectID) []ObjectID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}

// IsIn reports whether id is somewhere inside container, at any depth.
func (w *World) IsIn(id, container ObjectID) bool {
	o := w.Object(id)
	for o != nil && o.location != None {
		if o.location == container {
			return true
		}
		o = w.Object(o.location)
	}
	return false
}

func (w *World) Player() ObjectID { return w.player }
func (w *World) Here() ObjectID   { return w.here }

func (w *World) SetPlayer(id ObjectID) { w.player = id }

// SetHere changes the current room and carries the player along.
func (w *World) SetHere(room ObjectID) error {
	if w.Object(room) == nil {
		return fmt.Errorf("world: no room %d", room)
	}
	w.here = room
	if w.player != None {
		return w.Move(w.player, room)
	}
	return nil
}

// Snapshot captures the mutable parts of a world.
type Snapshot struct {
	Locations map[ObjectID]ObjectID
	Flags     map[ObjectID]Flag
	Props     map[ObjectID]map[string]int
	Here      ObjectID
	Player    ObjectID
}

func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Locations: make(map[ObjectID]ObjectID, len(w.objects)),
		Flags:     make(map[ObjectID]Flag, len(w.objects)),
		Props:     make(map[ObjectID]map[string]int),
		Here:      w.here,
		Player:    w.player,
	}
	for _, o := range w.objects {
		s.Locations[o.ID] = o.location
		s.Flags[o.ID] = o.Flags
		if len(o.Props) > 0 {
			p := make(map[string]int, len(o.Props))
			for k, v := range o.Props {
				p[k] = v
			}
			s.Props[o.ID] = p
		}
	}
	return s
}

// Restore applies a snapshot taken from a world built from the same
// definition. Contents are rebuilt in object-table order.
func (w *World) Restore(s Snapshot) error {
	if len(s.Locations) != len(w.objects) {
		return fmt.Errorf("world: restore: snapshot has %d objects, world has %d", len(s.Locations), len(w.objects))
	}
	w.contents = make(map[ObjectID][]ObjectID)
	for _, o := range w.objects {
		o.location = s.Locations[o.ID]
		o.Flags = s.Flags[o.ID]
		o.Props = nil
		if p := s.Props[o.ID]; len(p) > 0 {
			o.Props = make(map[string]int, len(p))
			for k, v := range p {
				o.Props[k] = v
			}
		}
		if o.location != None {
			w.contents[o.location] = append(w.contents[o.location], o.ID)
		}
	}
	w.here = s.Here
	w.player = s.Player
	return nil
}
