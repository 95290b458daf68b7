// Package gpxfile reads, validates and edits the GPX documents kept in the
// uploads directory.
package gpxfile

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrDecode marks a document that could not be decoded into the fields the
// catalog needs.
var ErrDecode = errors.New("gpx decode failed")

// Header is the file-level part of a document.
type Header struct {
	Name    string          `json:"name"`
	Version decimal.Decimal `json:"version"`
	Creator string          `json:"creator"`
}

// RouteSummary is a route as listed for import. Name carries the unnamed
// sentinel when the file left it empty.
type RouteSummary struct {
	Name   string          `json:"name"`
	Length decimal.Decimal `json:"len"`
}

// Point is one waypoint of a route, in file order.
type Point struct {
	Latitude  decimal.Decimal `json:"lat"`
	Longitude decimal.Decimal `json:"lon"`
	Name      *string         `json:"name"`
}

// FileSummary is what the file log panel shows for a document.
type FileSummary struct {
	Name         string          `json:"name"`
	Version      decimal.Decimal `json:"version"`
	Creator      string          `json:"creator"`
	NumWaypoints int             `json:"numWaypoints"`
	NumRoutes    int             `json:"numRoutes"`
	NumTracks    int             `json:"numTracks"`
}

// Component is a route or track row of the file view.
type Component struct {
	Component string          `json:"component"`
	Name      string          `json:"name"`
	NumPoints int             `json:"numPoints"`
	Length    decimal.Decimal `json:"len"`
	Loop      bool            `json:"loop"`
}

// OtherData is an extra name/value element of a route or track.
type OtherData struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
