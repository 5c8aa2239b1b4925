package models

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ArticlesRepository struct {
	db *gorm.DB
}

func NewArticlesRepository(db *gorm.DB) *ArticlesRepository {
	return &ArticlesRepository{
		db: db,
	}
}

// List returns one page of articles ordered by code, along with the total count.
func (r *ArticlesRepository) List(ctx context.Context, offset, limit int) ([]Article, int64, error) {
	var articles []Article
	var total int64

	query := r.db.WithContext(ctx).Model(&Article{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Category").
		Scopes(byCode).
		Offset(offset).
		Limit(limit).
		Find(&articles).Error; err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (r *ArticlesRepository) GetByID(ctx context.Context, id uint) (*Article, error) {
	var article Article
	if err := r.db.WithContext(ctx).
		Preload("Category").
		First(&article, id).Error; err != nil {
		return nil, translateWriteError(err, ErrArticleNotFound)
	}
	return &article, nil
}

func (r *ArticlesRepository) Create(ctx context.Context, article *Article) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(article).Error
	return translateWriteError(err, ErrArticleNotFound)
}

func (r *ArticlesRepository) Update(ctx context.Context, article *Article) error {
	res := r.db.WithContext(ctx).
		Model(&Article{ID: article.ID}).
		Select("Code", "Name", "CategoryID", "ManufacturingCost").
		Updates(article)
	if res.Error != nil {
		return translateWriteError(res.Error, ErrArticleNotFound)
	}
	if res.RowsAffected == 0 {
		return ErrArticleNotFound
	}
	return nil
}

// Delete removes an article. Articles that were already sold are protected.
func (r *ArticlesRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Article{}, id)
	if res.Error != nil {
		return translateDeleteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrArticleNotFound
	}
	return nil
}

func byCode(db *gorm.DB) *gorm.DB {
	return db.Order("code ASC")
}
