package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/twpayne/go-geom"
	"gorm.io/gorm"

	"gpx_tracker/internal/models"
)

// Status is the row count of each table.
type Status struct {
	Documents int64 `json:"documents"`
	Routes    int64 `json:"routes"`
	Waypoints int64 `json:"waypoints"`
}

// DocumentRow is a document with the number of routes stored for it.
type DocumentRow struct {
	models.Document
	NumRoutes int64 `json:"num_routes"`
}

func (s *Store) Status(ctx context.Context) (Status, error) {
	var st Status
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Document{}).Count(&st.Documents).Error; err != nil {
		return st, err
	}
	if err := db.Model(&models.Route{}).Count(&st.Routes).Error; err != nil {
		return st, err
	}
	if err := db.Model(&models.Waypoint{}).Count(&st.Waypoints).Error; err != nil {
		return st, err
	}
	return st, nil
}

func (s *Store) ListDocuments(ctx context.Context) ([]DocumentRow, error) {
	var docs []models.Document
	if err := s.db.WithContext(ctx).Order("id").Find(&docs).Error; err != nil {
		return nil, err
	}

	type routeCount struct {
		DocumentID uint
		N          int64
	}
	var counts []routeCount
	err := s.db.WithContext(ctx).
		Model(&models.Route{}).
		Select("document_id, count(*) as n").
		Group("document_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	byDoc := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byDoc[c.DocumentID] = c.N
	}

	rows := make([]DocumentRow, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, DocumentRow{Document: d, NumRoutes: byDoc[d.ID]})
	}
	return rows, nil
}

// RoutesOf lists the routes stored for a document in insertion order.
func (s *Store) RoutesOf(ctx context.Context, documentID uint) ([]models.Route, error) {
	if err := s.exists(ctx, &models.Document{}, documentID); err != nil {
		return nil, err
	}
	var routes []models.Route
	err := s.db.WithContext(ctx).Where("document_id = ?", documentID).Order("id").Find(&routes).Error
	return routes, err
}

// WaypointsOf lists the waypoints of a route by index.
func (s *Store) WaypointsOf(ctx context.Context, routeID uint) ([]models.Waypoint, error) {
	if err := s.exists(ctx, &models.Route{}, routeID); err != nil {
		return nil, err
	}
	var wpts []models.Waypoint
	err := s.db.WithContext(ctx).Where("route_id = ?", routeID).Order("point_index").Find(&wpts).Error
	return wpts, err
}

// RouteGeometry builds a lon/lat LineString (SRID 4326) from a route's
// waypoints.
func (s *Store) RouteGeometry(ctx context.Context, routeID uint) (*geom.LineString, error) {
	wpts, err := s.WaypointsOf(ctx, routeID)
	if err != nil {
		return nil, err
	}
	coords := make([]geom.Coord, 0, len(wpts))
	for _, w := range wpts {
		lon, _ := w.Longitude.Float64()
		lat, _ := w.Latitude.Float64()
		coords = append(coords, geom.Coord{lon, lat})
	}
	ls, err := geom.NewLineString(geom.XY).SetCoords(coords)
	if err != nil {
		return nil, fmt.Errorf("route %d geometry: %w", routeID, err)
	}
	return ls.SetSRID(4326), nil
}

// DeleteDocument removes a document; its routes and waypoints go with it.
func (s *Store) DeleteDocument(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Document{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("document %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteAll empties the catalog and returns how many documents were removed.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.Document{})
	return res.RowsAffected, res.Error
}

func (s *Store) exists(ctx context.Context, model any, id uint) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%T %d: %w", model, id, ErrNotFound)
	}
	return nil
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
