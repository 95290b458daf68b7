// Package store owns the documents/routes/waypoints tables.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"gpx_tracker/internal/models"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicate    = errors.New("duplicate key")
	ErrMissingField = errors.New("missing required field")
	ErrInvalidField = errors.New("invalid field")
)

// tables in parent-before-child order
var tables = []any{&models.Document{}, &models.Route{}, &models.Waypoint{}}

// Store wraps the database handle shared by schema setup, the import ledger,
// the writer and the catalog queries.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates any of the three tables that do not exist yet. Tables
// that exist are left untouched.
func (s *Store) EnsureSchema(ctx context.Context) error {
	m := s.db.WithContext(ctx).Migrator()
	for _, t := range tables {
		if m.HasTable(t) {
			continue
		}
		if err := m.CreateTable(t); err != nil {
			return fmt.Errorf("create table %T: %w", t, err)
		}
	}
	return nil
}

// HasBeenImported reports whether a document with this exact name is stored.
func (s *Store) HasBeenImported(ctx context.Context, name string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("name = ?", name).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("ledger lookup %q: %w", name, err)
	}
	return n > 0, nil
}

// WithinTx runs fn with a Writer bound to a single transaction. The
// transaction commits if fn returns nil and rolls back otherwise.
func (s *Store) WithinTx(ctx context.Context, fn func(w *Writer) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Writer{tx: tx})
	})
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
