package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale records a quantity of one article sold by an author on a given day.
type Sale struct {
	ID               uint            `gorm:"primaryKey"`
	Date             time.Time       `gorm:"type:date;not null"`
	AuthorID         uint            `gorm:"not null"`
	Author           User            `gorm:"foreignKey:AuthorID"`
	ArticleID        uint            `gorm:"not null"`
	Article          Article         `gorm:"foreignKey:ArticleID"`
	Quantity         int             `gorm:"not null"`
	UnitSellingPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

func (s *Sale) TableName() string {
	return "sales"
}

// TotalSellingPrice is quantity times unit selling price. It is derived on
// every call and never persisted.
func (s *Sale) TotalSellingPrice() decimal.Decimal {
	return s.UnitSellingPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// OwnerID returns the author of the sale, the only user allowed to change it.
func (s *Sale) OwnerID() uint {
	return s.AuthorID
}
