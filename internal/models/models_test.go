package models

import (
	"strings"
	"testing"

	"github.com/tatianab/zork-parser/internal/world"
	"gopkg.in/yaml.v3"
)

func TestDefaultWorldBuilds(t *testing.T) {
	def, err := DefaultWorld()
	if err != nil {
		t.Fatalf("Failed to load default world: %v", err)
	}
	w, err := def.Build()
	if err != nil {
		t.Fatalf("Failed to build default world: %v", err)
	}

	here := w.Object(w.Here())
	if here == nil || here.Key != "west-of-house" {
		t.Fatalf("Expected to start west of house, got %+v", here)
	}
	player := w.Object(w.Player())
	if player.Location() != here.ID {
		t.Errorf("Expected player in the start room")
	}

	leaflet := w.Lookup("leaflet")
	mailbox := w.Lookup("mailbox")
	if leaflet.Location() != mailbox.ID {
		t.Errorf("Expected leaflet inside mailbox")
	}
	if !mailbox.Has(world.FlagCont) || mailbox.Has(world.FlagOpen) {
		t.Errorf("Expected closed container, got %v", mailbox.Flags)
	}

	north := here.Exits[world.North]
	if w.Object(north).Key != "north-of-house" {
		t.Errorf("Expected north exit to north-of-house")
	}
}

func TestTableOrder(t *testing.T) {
	def, err := DefaultWorld()
	if err != nil {
		t.Fatal(err)
	}
	w, err := def.Build()
	if err != nil {
		t.Fatal(err)
	}
	objs := w.Objects()
	if objs[0].Key != def.Rooms[0].Key {
		t.Errorf("Expected rooms first, got %s", objs[0].Key)
	}
	if objs[len(def.Rooms)].Key != PlayerKey {
		t.Errorf("Expected player after rooms, got %s", objs[len(def.Rooms)].Key)
	}
	last := def.Objects[len(def.Objects)-1].Key
	if objs[len(objs)-1].Key != last {
		t.Errorf("Expected %s last, got %s", last, objs[len(objs)-1].Key)
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	doc := `
title: Broken
start: nowhere
rooms:
  - key: hall
    name: Hall
    exits: {sideways: hall, north: cellar}
objects:
  - key: coin
    desc: coin
    flags: [shiny]
    location: pocket
  - key: hall
    desc: another hall
    synonyms: [hall]
`
	_, err := ParseWorld([]byte(doc))
	if err == nil {
		t.Fatal("Expected invalid world to be rejected")
	}
	for _, want := range []string{
		`unknown direction "sideways"`,
		`unknown room "cellar"`,
		`"coin" has no synonyms`,
		`unknown flag`,
		`unknown location "pocket"`,
		`duplicate key "hall"`,
		`start room "nowhere"`,
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected error to mention %s, got:\n%v", want, err)
		}
	}
}

func TestFromWorldRoundTrip(t *testing.T) {
	def, err := DefaultWorld()
	if err != nil {
		t.Fatal(err)
	}
	w, err := def.Build()
	if err != nil {
		t.Fatal(err)
	}
	// Change some state so the export differs from the original.
	lamp := w.Lookup("lamp")
	if err := w.Move(lamp.ID, w.Player()); err != nil {
		t.Fatal(err)
	}
	lamp.Set(world.FlagOn)

	out := FromWorld(w, def.Title)
	out.ShortName = "in-progress"
	data, err := yaml.Marshal(out)
	if err != nil {
		t.Fatalf("Failed to marshal world: %v", err)
	}
	again, err := ParseWorld(data)
	if err != nil {
		t.Fatalf("Failed to reparse exported world: %v", err)
	}
	w2, err := again.Build()
	if err != nil {
		t.Fatal(err)
	}
	lamp2 := w2.Lookup("lamp")
	if lamp2.Location() != w2.Player() || !lamp2.Has(world.FlagOn) {
		t.Errorf("Expected carried, lit lamp after round trip")
	}
	if w2.Object(w2.Here()).Key != "west-of-house" {
		t.Errorf("Expected same starting room")
	}
}

func TestSaveAndList(t *testing.T) {
	dir := t.TempDir()
	worlds, err := ListWorlds(dir)
	if err != nil || len(worlds) != 0 {
		t.Fatalf("Expected no worlds, got %v, %v", worlds, err)
	}

	def, err := DefaultWorld()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := def.Save(dir); err != nil {
		t.Fatalf("Failed to save world: %v", err)
	}
	worlds, err = ListWorlds(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(worlds) != 1 || worlds[0] != "white-house" {
		t.Errorf("Expected [white-house], got %v", worlds)
	}

	loaded, err := LoadNamed(dir, "white-house")
	if err != nil {
		t.Fatalf("Failed to load saved world: %v", err)
	}
	if loaded.Title != def.Title || len(loaded.Objects) != len(def.Objects) {
		t.Errorf("Expected saved world to match")
	}

	def.ShortName = ""
	if _, err := def.Save(dir); err == nil {
		t.Errorf("Expected save without short name to fail")
	}
}
