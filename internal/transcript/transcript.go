// Package transcript records every turn event in a SQLite database.
package transcript

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tatianab/zork-parser/internal/events"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS turns (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session    TEXT NOT NULL,
	turn       INTEGER NOT NULL,
	at         INTEGER NOT NULL,
	type       TEXT NOT NULL,
	input      TEXT NOT NULL DEFAULT '',
	verb       TEXT NOT NULL DEFAULT '',
	kind       TEXT NOT NULL DEFAULT '',
	text       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS turns_session ON turns(session, id);
`

// Entry is one stored event.
type Entry struct {
	Session string
	Turn    int
	At      time.Time
	Type    string
	Input   string
	Verb    string
	Kind    string
	Text    string
}

// Transcript is an events.Subscriber that writes rows to SQLite.
type Transcript struct {
	db     *sql.DB
	mu     sync.Mutex
	path   string
	closed bool
	log    *logrus.Entry
}

// Open opens a SQLite database, sets WAL mode and creates the schema.
func Open(path string, log *logrus.Entry) (*Transcript, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("transcript: open %s: %w", path, err)
	}
	// One connection keeps WAL and busy_timeout on every statement.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("transcript: %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("transcript: create schema: %w", err)
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Transcript{db: db, path: path, log: log.WithField("component", "transcript")}, nil
}

// Path returns the filesystem path of the database.
func (t *Transcript) Path() string { return t.path }

// Close closes the database. Later events are dropped.
func (t *Transcript) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.db.Close()
}

// Closed implements events.Subscriber.
func (t *Transcript) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Receive implements events.Subscriber. Write failures are logged, not
// returned, so a broken transcript never stops the game.
func (t *Transcript) Receive(ev events.Event) {
	if err := t.Record(ev); err != nil {
		t.log.WithError(err).Warn("dropping transcript row")
	}
}

// Record inserts one event.
func (t *Transcript) Record(ev events.Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return fmt.Errorf("transcript: closed")
	}
	at := ev.Time
	if at.IsZero() {
		at = time.Now()
	}
	_, err := t.db.Exec(
		`INSERT INTO turns (session, turn, at, type, input, verb, kind, text) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.Session, ev.Turn, at.UnixNano(), ev.Type.String(), ev.Input, ev.Verb, ev.Kind, ev.Text,
	)
	if err != nil {
		return fmt.Errorf("transcript: insert: %w", err)
	}
	return nil
}

// Sessions lists session ids, oldest first.
func (t *Transcript) Sessions() ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rows, err := t.db.Query(`SELECT session FROM turns GROUP BY session ORDER BY MIN(id)`)
	if err != nil {
		return nil, fmt.Errorf("transcript: sessions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Entries returns the events of one session in the order they happened.
func (t *Transcript) Entries(session string) ([]Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rows, err := t.db.Query(
		`SELECT session, turn, at, type, input, verb, kind, text FROM turns WHERE session = ? ORDER BY id`,
		session,
	)
	if err != nil {
		return nil, fmt.Errorf("transcript: entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var at int64
		if err := rows.Scan(&e.Session, &e.Turn, &at, &e.Type, &e.Input, &e.Verb, &e.Kind, &e.Text); err != nil {
			return nil, err
		}
		e.At = time.Unix(0, at)
		out = append(out, e)
	}
	return out, rows.Err()
}
