package models

import (
	"github.com/shopspring/decimal"
)

// Route is a route of an imported document.
// Name is nil when the file gave the route no name.
type Route struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Name       *string         `gorm:"size:256" json:"name"`
	Length     decimal.Decimal `gorm:"type:decimal(15,7);not null;check:chk_routes_length,length >= 0" json:"length"`
	DocumentID uint            `gorm:"not null;index" json:"document_id"`

	// Owning document; only declared so the FK and its cascade get created.
	Document *Document `gorm:"foreignKey:DocumentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (Route) TableName() string {
	return "routes"
}
