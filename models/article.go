package models

import (
	"github.com/shopspring/decimal"
)

// Article represents a sellable article.
// It includes a unique code, the category it belongs to and the cost of manufacturing one unit.
type Article struct {
	ID                uint            `gorm:"primaryKey"`
	Code              string          `gorm:"uniqueIndex;not null"`
	Name              string          `gorm:"not null"`
	CategoryID        uint            `gorm:"not null"`
	Category          Category        `gorm:"foreignKey:CategoryID"`
	ManufacturingCost decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

func (a *Article) TableName() string {
	return "articles"
}
