package models

// Category groups articles under a human-readable display name.
// Display names are not required to be unique.
type Category struct {
	ID          uint   `gorm:"primaryKey"`
	DisplayName string `gorm:"not null"`
}

func (c *Category) TableName() string {
	return "article_categories"
}
