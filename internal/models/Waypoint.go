package models

import (
	"github.com/shopspring/decimal"
)

// Waypoint is a single point of a route. Index is the 0-based position of the
// point inside its route.
type Waypoint struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Index     int             `gorm:"column:point_index;not null" json:"index"`
	Latitude  decimal.Decimal `gorm:"type:decimal(11,7);not null" json:"latitude"`
	Longitude decimal.Decimal `gorm:"type:decimal(11,7);not null" json:"longitude"`
	Name      *string         `gorm:"size:256" json:"name"`
	RouteID   uint            `gorm:"not null;index" json:"route_id"`

	Route *Route `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (Waypoint) TableName() string {
	return "waypoints"
}
