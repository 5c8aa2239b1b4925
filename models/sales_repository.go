package models

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SalesRepository struct {
	db *gorm.DB
}

// AggregateFilter narrows the aggregated report. A nil ArticleID means every article.
type AggregateFilter struct {
	ArticleID *uint
}

func NewSalesRepository(db *gorm.DB) *SalesRepository {
	return &SalesRepository{
		db: db,
	}
}

// List returns one page of sales, most recent first, along with the total count.
func (r *SalesRepository) List(ctx context.Context, offset, limit int) ([]Sale, int64, error) {
	var sales []Sale
	var total int64

	query := r.db.WithContext(ctx).Model(&Sale{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Article.Category").
		Scopes(newestFirst).
		Offset(offset).
		Limit(limit).
		Find(&sales).Error; err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

func (r *SalesRepository) GetByID(ctx context.Context, id uint) (*Sale, error) {
	var sale Sale
	if err := r.db.WithContext(ctx).
		Preload("Article.Category").
		First(&sale, id).Error; err != nil {
		return nil, translateWriteError(err, ErrSaleNotFound)
	}
	return &sale, nil
}

func (r *SalesRepository) Create(ctx context.Context, sale *Sale) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(sale).Error
	return translateWriteError(err, ErrSaleNotFound)
}

// Update rewrites the mutable fields of a sale. The author never changes.
func (r *SalesRepository) Update(ctx context.Context, sale *Sale) error {
	res := r.db.WithContext(ctx).
		Model(&Sale{ID: sale.ID}).
		Select("Date", "ArticleID", "Quantity", "UnitSellingPrice").
		Updates(sale)
	if res.Error != nil {
		return translateWriteError(res.Error, ErrSaleNotFound)
	}
	if res.RowsAffected == 0 {
		return ErrSaleNotFound
	}
	return nil
}

func (r *SalesRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Sale{}, id)
	if res.Error != nil {
		return translateDeleteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSaleNotFound
	}
	return nil
}

// AggregateSales computes the per-article report over every sale.
// Lines are streamed from a single read-only snapshot, so one call sees a
// consistent view of the sales table; separate calls may not.
func (r *SalesRepository) AggregateSales(ctx context.Context, filter AggregateFilter) ([]AggregatedSale, error) {
	agg := NewSalesAggregator()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := saleLinesQuery(tx, filter).Rows()
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var line SaleLine
			if err := tx.ScanRows(rows, &line); err != nil {
				return err
			}
			agg.Add(line)
		}
		return rows.Err()
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, err
	}

	return agg.Result(), nil
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("date DESC").Order("id DESC")
}

// saleLinesQuery selects one row per sale, joined with its article, in the
// column names SaleLine scans. Only sold articles can appear.
func saleLinesQuery(tx *gorm.DB, filter AggregateFilter) *gorm.DB {
	query := tx.Model(&Sale{}).
		Select("sales.article_id, articles.code AS article_code, articles.category_id, " +
			"articles.manufacturing_cost, sales.quantity, sales.unit_selling_price, sales.date").
		Joins("JOIN articles ON articles.id = sales.article_id")
	if filter.ArticleID != nil {
		query = query.Where("sales.article_id = ?", *filter.ArticleID)
	}
	return query
}
