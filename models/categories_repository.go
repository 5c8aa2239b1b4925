package models

import (
	"context"

	"gorm.io/gorm"
)

type CategoriesRepository struct {
	db *gorm.DB
}

func NewCategoriesRepository(db *gorm.DB) *CategoriesRepository {
	return &CategoriesRepository{
		db: db,
	}
}

// List returns one page of categories ordered by display name, along with the total count.
func (r *CategoriesRepository) List(ctx context.Context, offset, limit int) ([]Category, int64, error) {
	var categories []Category
	var total int64

	query := r.db.WithContext(ctx).Model(&Category{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Scopes(byDisplayName).
		Offset(offset).
		Limit(limit).
		Find(&categories).Error; err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

func (r *CategoriesRepository) GetByID(ctx context.Context, id uint) (*Category, error) {
	var category Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translateWriteError(err, ErrCategoryNotFound)
	}
	return &category, nil
}

func (r *CategoriesRepository) Create(ctx context.Context, category *Category) error {
	return translateWriteError(r.db.WithContext(ctx).Create(category).Error, ErrCategoryNotFound)
}

func (r *CategoriesRepository) Update(ctx context.Context, category *Category) error {
	res := r.db.WithContext(ctx).
		Model(&Category{ID: category.ID}).
		Select("DisplayName").
		Updates(category)
	if res.Error != nil {
		return translateWriteError(res.Error, ErrCategoryNotFound)
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Delete removes a category. Categories still referenced by articles are protected.
func (r *CategoriesRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Category{}, id)
	if res.Error != nil {
		return translateDeleteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func byDisplayName(db *gorm.DB) *gorm.DB {
	return db.Order("display_name ASC").Order("id ASC")
}
