// Package store keeps SAVE/RESTORE slots in a bbolt file.
package store

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tatianab/zork-parser/internal/world"
	bbolt "go.etcd.io/bbolt"
)

var bucketSlots = []byte("slots")

// DefaultSlot is used when the player just types SAVE.
const DefaultSlot = "default"

// ErrNoSlot is returned when restoring a slot that was never saved.
var ErrNoSlot = errors.New("store: no such save slot")

// Slot is one saved game.
type Slot struct {
	Name     string
	World    string // title of the world definition it was taken from
	Moves    int
	Saved    time.Time
	Snapshot world.Snapshot
}

// Store wraps a bbolt database of save slots.
type Store struct {
	bolt *bbolt.DB
}

// Open opens or creates a bbolt database file and ensures the slot bucket exists.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSlots)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create buckets: %w", err)
	}
	return &Store{bolt: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	if s.bolt != nil {
		return s.bolt.Close()
	}
	return nil
}

// Path returns the filesystem path of the database.
func (s *Store) Path() string {
	if s.bolt != nil {
		return s.bolt.Path()
	}
	return ""
}

// Save writes slot, replacing any slot with the same name.
func (s *Store) Save(slot Slot) error {
	if slot.Name == "" {
		slot.Name = DefaultSlot
	}
	if slot.Saved.IsZero() {
		slot.Saved = time.Now()
	}
	data, err := encodeSlot(&slot)
	if err != nil {
		return fmt.Errorf("store: encode slot %q: %w", slot.Name, err)
	}
	return s.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSlots).Put([]byte(slot.Name), data)
	})
}

// Load reads the named slot.
func (s *Store) Load(name string) (*Slot, error) {
	if name == "" {
		name = DefaultSlot
	}
	var slot *Slot
	err := s.bolt.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSlots).Get([]byte(name))
		if data == nil {
			return fmt.Errorf("%w: %q", ErrNoSlot, name)
		}
		var err error
		slot, err = decodeSlot(data)
		if err != nil {
			return fmt.Errorf("store: decode slot %q: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return slot, nil
}

// Delete removes a slot. Deleting a missing slot is not an error.
func (s *Store) Delete(name string) error {
	return s.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSlots).Delete([]byte(name))
	})
}

// List returns slot names in order.
func (s *Store) List() ([]string, error) {
	var names []string
	err := s.bolt.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSlots).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	sort.Strings(names)
	return names, err
}

func encodeSlot(slot *Slot) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(slot); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeSlot(data []byte) (*Slot, error) {
	var slot Slot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&slot); err != nil {
		return nil, err
	}
	return &slot, nil
}
