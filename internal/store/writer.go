package store

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gpx_tracker/internal/models"
)

// Writer inserts catalog rows inside one transaction. It only ever inserts;
// generated ids come straight back from each insert.
type Writer struct {
	tx *gorm.DB
}

func (w *Writer) InsertDocument(doc *models.Document) (uint, error) {
	switch {
	case doc.Name == "":
		return 0, fmt.Errorf("%w: document name", ErrMissingField)
	case doc.Creator == "":
		return 0, fmt.Errorf("%w: document creator", ErrMissingField)
	case doc.Version.IsZero():
		return 0, fmt.Errorf("%w: document version", ErrMissingField)
	}

	doc.ID = 0
	if err := w.create(doc); err != nil {
		return 0, fmt.Errorf("insert document %q: %w", doc.Name, err)
	}
	return doc.ID, nil
}

func (w *Writer) InsertRoute(route *models.Route, documentID uint) (uint, error) {
	if route.Length.IsNegative() {
		return 0, fmt.Errorf("%w: route length %s", ErrInvalidField, route.Length)
	}

	route.ID = 0
	route.DocumentID = documentID
	if err := w.create(route); err != nil {
		return 0, fmt.Errorf("insert route of document %d: %w", documentID, err)
	}
	return route.ID, nil
}

func (w *Writer) InsertWaypoint(wpt *models.Waypoint, routeID uint) error {
	wpt.ID = 0
	wpt.RouteID = routeID
	if err := w.create(wpt); err != nil {
		return fmt.Errorf("insert waypoint %d of route %d: %w", wpt.Index, routeID, err)
	}
	return nil
}

func (w *Writer) create(v any) error {
	err := w.tx.Omit(clause.Associations).Create(v).Error
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
