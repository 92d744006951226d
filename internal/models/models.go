package models

// WorldDef is a playable world as written in YAML.
type WorldDef struct {
	Title       string      `yaml:"title"`
	ShortName   string      `yaml:"short_name"` // e.g., "white-house"
	Intro       string      `yaml:"intro"`
	Start       string      `yaml:"start"` // key of the starting room
	Player      PlayerDef   `yaml:"player"`
	Rooms       []RoomDef   `yaml:"rooms"`
	Objects     []ObjectDef `yaml:"objects"`
	LoadAllowed int         `yaml:"load_allowed,omitempty"` // carrying capacity, 0 = default
}

// PlayerDef lets a world rename the player.
type PlayerDef struct {
	Desc     string   `yaml:"desc,omitempty"`
	Synonyms []string `yaml:"synonyms,omitempty"`
}

// RoomDef is a location the player can stand in.
type RoomDef struct {
	Key         string            `yaml:"key"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Flags       []string          `yaml:"flags,omitempty"`
	Exits       map[string]string `yaml:"exits,omitempty"` // direction -> room key
}

// ObjectDef is an item, container, fixture or actor.
type ObjectDef struct {
	Key         string         `yaml:"key"`
	Desc        string         `yaml:"desc"`
	Description string         `yaml:"description,omitempty"` // shown by EXAMINE
	Text        string         `yaml:"text,omitempty"`        // shown by READ
	Synonyms    []string       `yaml:"synonyms"`
	Adjectives  []string       `yaml:"adjectives,omitempty"`
	Flags       []string       `yaml:"flags,omitempty"`
	Location    string         `yaml:"location,omitempty"` // room or object key; "player" for inventory
	Props       map[string]int `yaml:"props,omitempty"`
}

// PlayerKey is the reserved key of the player object.
const PlayerKey = "player"
