// Package gallery stores generated patterns so they can be listed, shared and
// rendered again later.
//
// An [Entry] keeps both the options a pattern was generated from and the
// generated layout itself, so a stored pattern renders identically even if
// the generator changes. Three backends implement [Store]:
//   - [MemoryStore]: in-process storage for tests and a single server
//   - [FileStore]: one JSON file per entry, used by the CLI
//   - [MongoStore]: MongoDB-backed storage for multi-instance servers
//
// # Usage
//
//	store, err := gallery.NewFileStore("") // Uses ~/.config/stitchgrid/gallery/
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	entry := gallery.NewEntry("blue period", result.Layout, opts)
//	if err := store.Save(ctx, entry); err != nil {
//	    return err
//	}
//
//	recent, err := store.List(ctx, 10)
package gallery

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/stitchgrid/pkg/core/layout"
	"github.com/matzehuels/stitchgrid/pkg/errors"
	"github.com/matzehuels/stitchgrid/pkg/pipeline"
)

// DefaultListLimit is the number of entries List returns for a limit <= 0.
const DefaultListLimit = 50

// Entry is a stored pattern.
type Entry struct {
	ID        string           `json:"id"`
	Name      string           `json:"name,omitempty"`
	Options   pipeline.Options `json:"options"`
	Layout    layout.Layout    `json:"layout"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewEntry returns an entry with a fresh ID and the current time.
func NewEntry(name string, l layout.Layout, opts pipeline.Options) *Entry {
	return &Entry{
		ID:        uuid.NewString(),
		Name:      name,
		Options:   opts,
		Layout:    l,
		CreatedAt: time.Now().UTC(),
	}
}

// clone returns a copy of e that shares no options or geometry with it.
func (e *Entry) clone() *Entry {
	cp := *e
	cp.Options = e.Options.Clone()
	cp.Layout = e.Layout.Clone()
	return &cp
}

// Summary is an entry without its layout, as returned by listings.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Seed      uint64    `json:"seed"`
	Segments  int       `json:"segments"`
	Polylines int       `json:"polylines"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary returns the listing view of e.
func (e *Entry) Summary() Summary {
	return Summary{
		ID:        e.ID,
		Name:      e.Name,
		Seed:      e.Options.Seed,
		Segments:  len(e.Layout.Segments),
		Polylines: len(e.Layout.Polylines),
		CreatedAt: e.CreatedAt,
	}
}

// Store is the interface for gallery storage backends.
//
// Get and Delete return an [errors.ErrCodeNotFound] error for unknown or
// malformed IDs.
type Store interface {
	// Save stores e, replacing any entry with the same ID.
	// An entry without ID is assigned one.
	Save(ctx context.Context, e *Entry) error

	// Get retrieves an entry by ID.
	Get(ctx context.Context, id string) (*Entry, error)

	// List returns up to limit entries, newest first.
	List(ctx context.Context, limit int) ([]*Entry, error)

	// Delete removes an entry.
	Delete(ctx context.Context, id string) error

	// Close releases the backend.
	Close() error
}

// checkID rejects IDs that are not UUIDs. File names and database keys are
// derived from IDs, so nothing else may reach a backend.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notFound(id)
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "pattern %q not found", id)
}

// prepare assigns an ID and timestamp to new entries and validates the ID.
func prepare(e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if _, err := uuid.Parse(e.ID); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "invalid pattern id %q", e.ID)
	}
	return nil
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
