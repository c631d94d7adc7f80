// Package trailop implements the operations a User performs on their
// trail entries.
//
// Every operation is scoped to the owning User. An operation given an
// entry ID another User owns reports traillog.ErrNotFound, never the
// existence of the row.
package trailop

import (
	"fmt"
	"strings"

	traillog "github.com/ridgepath/traillog"
	"github.com/ridgepath/traillog/postgres"
)

// dateTraveledMaxLen bounds the free text date column, sized for YYYY-MM-DD.
const dateTraveledMaxLen = 10

// ErrDateTraveledLen reports a date_traveled value past dateTraveledMaxLen.
// It matches traillog.ErrNotValid, so handlers can distinguish it from a
// missing field without losing the general classification.
var ErrDateTraveledLen = fmt.Errorf("%w: date_traveled longer than %d characters", traillog.ErrNotValid, dateTraveledMaxLen)

// EntryParams are the user-submitted fields of a trail entry,
// as they arrive from the create and update forms.
type EntryParams struct {
	Trailname    string `schema:"trailname"`
	Latitude     string `schema:"latitude"`
	Longitude    string `schema:"longitude"`
	DateTraveled string `schema:"date_traveled"`
}

// trim strips surrounding whitespace off every field,
// so whitespace-only submissions fail the required check.
func (p *EntryParams) trim() {
	p.Trailname = strings.TrimSpace(p.Trailname)
	p.Latitude = strings.TrimSpace(p.Latitude)
	p.Longitude = strings.TrimSpace(p.Longitude)
	p.DateTraveled = strings.TrimSpace(p.DateTraveled)
}

// valid requires every field be present after trimming.
func (p *EntryParams) valid() error {
	var missing []string
	for field, val := range map[string]string{
		"trailname":     p.Trailname,
		"latitude":      p.Latitude,
		"longitude":     p.Longitude,
		"date_traveled": p.DateTraveled,
	} {
		if val == "" {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", traillog.ErrNotValid, strings.Join(missing, ", "))
	}

	if len(p.DateTraveled) > dateTraveledMaxLen {
		return ErrDateTraveledLen
	}

	return nil
}

// A Service exposes all operations a User performs on their trail entries.
type Service interface {
	ListForUser(userID uint) ([]traillog.TrailEntry, error)
	Create(userID uint, p EntryParams) (traillog.TrailEntry, error)
	Fetch(userID, id uint) (traillog.TrailEntry, error)
	Update(userID, id uint, p EntryParams) error
	Delete(userID, id uint) error
}

// DBService implements Service atop a *postgres.DB.
type DBService struct {
	db *postgres.DB
}

// NewService constructs a *DBService around the given database handle.
func NewService(db *postgres.DB) *DBService { return &DBService{db: db} }

// ListForUser retrieves every entry the User owns,
// oldest logged first.
//
// A user with no entries gets an empty list, not an error.
func (s *DBService) ListForUser(userID uint) ([]traillog.TrailEntry, error) {
	var entries []traillog.TrailEntry
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&entries)
	if err != nil {
		return nil, fmt.Errorf("listing trail entries: %w", err)
	}

	return entries, nil
}

// Create validates the submitted fields and inserts a new entry owned by
// the User.
//
// Whitespace is trimmed before the required check, so a value of " " is
// missing. Failed validation reports traillog.ErrNotValid naming the
// missing fields.
func (s *DBService) Create(userID uint, p EntryParams) (traillog.TrailEntry, error) {
	p.trim()
	if err := p.valid(); err != nil {
		return traillog.TrailEntry{}, err
	}

	entry := traillog.TrailEntry{
		Trailname:    p.Trailname,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		DateTraveled: p.DateTraveled,
		UserID:       userID,
	}
	if err := s.db.Create(&entry); err != nil {
		return traillog.TrailEntry{}, fmt.Errorf("creating trail entry: %w", err)
	}

	return entry, nil
}

// Fetch retrieves one entry by ID, so long as the User owns it.
//
// An ID owned by a different User reports traillog.ErrNotFound.
func (s *DBService) Fetch(userID, id uint) (traillog.TrailEntry, error) {
	var entry traillog.TrailEntry
	err := s.db.
		Where("id = ? AND user_id = ?", id, userID).
		First(&entry)
	if err != nil {
		return traillog.TrailEntry{}, fmt.Errorf("fetching trail entry %d: %w", id, err)
	}

	return entry, nil
}

// Update validates the submitted fields exactly as Create does and then
// overwrites the four user-editable columns of the entry.
//
// ID, UserID and CreatedAt are never touched; ownership and creation
// order are fixed at insert. Zero matched rows, including an ID owned by
// a different User, reports traillog.ErrNotFound.
func (s *DBService) Update(userID, id uint, p EntryParams) error {
	p.trim()
	if err := p.valid(); err != nil {
		return err
	}

	err := s.db.
		Model(&traillog.TrailEntry{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update(postgres.Updates{
			"trailname":     p.Trailname,
			"latitude":      p.Latitude,
			"longitude":     p.Longitude,
			"date_traveled": p.DateTraveled,
		})
	if err != nil {
		return fmt.Errorf("updating trail entry %d: %w", id, err)
	}

	return nil
}

// Delete removes the entry, so long as the User owns it.
//
// Zero matched rows, including an ID owned by a different User, reports
// traillog.ErrNotFound. Deletes are permanent.
func (s *DBService) Delete(userID, id uint) error {
	err := s.db.
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&traillog.TrailEntry{})
	if err != nil {
		return fmt.Errorf("deleting trail entry %d: %w", id, err)
	}

	return nil
}
