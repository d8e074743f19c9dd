// Package cookbook saves finished recipes and finds them again.
package cookbook

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/diceydrinks/internal/game/recipe"
)

// DefaultName is used for entries saved without a name.
const DefaultName = "My Dicey Drink"

// MaxRating is the highest star rating.
const MaxRating = 5

// ErrNotFound is returned when no entry has the requested id.
var ErrNotFound = errors.New("cookbook: recipe not found")

// ErrInvalidEntry is returned when an entry fails validation.
var ErrInvalidEntry = errors.New("cookbook: invalid entry")

// Entry is a saved recipe.
type Entry struct {
	ID     uuid.UUID    `json:"id"`
	Name   string       `json:"name"`
	Rating int          `json:"rating"`
	Notes  string       `json:"notes,omitempty"`
	Date   time.Time    `json:"date"`
	Recipe recipe.State `json:"recipe"`
}

// Store persists cookbook entries.
type Store interface {
	// Save inserts e, or replaces the entry with the same id.
	Save(ctx context.Context, e Entry) (Entry, error)
	Get(ctx context.Context, id uuid.UUID) (Entry, error)
	List(ctx context.Context) ([]Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NewEntry builds an entry for s with a fresh id.
//
// Precondition: 0 <= rating <= MaxRating, else ErrInvalidEntry.
// Postcondition: an empty name becomes DefaultName.
func NewEntry(name string, rating int, notes string, s recipe.State, now time.Time) (Entry, error) {
	e := Entry{
		ID:     uuid.New(),
		Name:   strings.TrimSpace(name),
		Rating: rating,
		Notes:  notes,
		Date:   now,
		Recipe: s,
	}
	if e.Name == "" {
		e.Name = DefaultName
	}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Validate checks the id and rating.
func (e Entry) Validate() error {
	if e.ID == uuid.Nil {
		return fmt.Errorf("%w: missing id", ErrInvalidEntry)
	}
	if e.Rating < 0 || e.Rating > MaxRating {
		return fmt.Errorf("%w: rating %d outside 0-%d", ErrInvalidEntry, e.Rating, MaxRating)
	}
	return nil
}

// DisplayName returns the name, or DefaultName when it is blank.
func (e Entry) DisplayName() string {
	if strings.TrimSpace(e.Name) == "" {
		return DefaultName
	}
	return e.Name
}

// Stars renders the rating as filled and empty stars.
func (e Entry) Stars() string {
	r := min(max(e.Rating, 0), MaxRating)
	return strings.Repeat("★", r) + strings.Repeat("☆", MaxRating-r)
}

// Remix returns a fresh build of the same shape as e: same type, method
// and style, with each target set to the number of items e ended up with.
// The returned name marks it as a remix.
func Remix(e Entry) (recipe.State, string) {
	s := e.Recipe
	next := recipe.State{
		Type:   s.Type,
		Method: s.Method,
		Style:  s.Style,
		Targets: recipe.Targets{
			SpiritFamilies: len(s.SpiritFamilies),
			Spirits:        len(s.Spirits),
			Mixers:         len(s.Mixers),
			Additives:      len(s.Additives),
		},
	}
	if next.Targets.Spirits == 0 {
		next.Targets.Spirits = 1
	}
	return next, e.DisplayName() + " (Remix)"
}
