// internal/models/document.go
package models

import (
	"github.com/shopspring/decimal"
)

// Document is one imported GPX file. Name is the upload's base name and is
// the identity the import ledger checks against.
type Document struct {
	ID      uint            `gorm:"primaryKey" json:"id"`
	Name    string          `gorm:"size:256;not null;uniqueIndex" json:"name"`
	Version decimal.Decimal `gorm:"type:decimal(2,1);not null" json:"version"`
	Creator string          `gorm:"size:256;not null" json:"creator"`
}

func (Document) TableName() string {
	return "documents"
}
