package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// SaleLine is one sale joined with the article attributes the report needs.
type SaleLine struct {
	ArticleID         uint            `gorm:"column:article_id"`
	ArticleCode       string          `gorm:"column:article_code"`
	CategoryID        uint            `gorm:"column:category_id"`
	ManufacturingCost decimal.Decimal `gorm:"column:manufacturing_cost"`
	Quantity          int             `gorm:"column:quantity"`
	UnitSellingPrice  decimal.Decimal `gorm:"column:unit_selling_price"`
	Date              time.Time       `gorm:"column:date"`
}

// AggregatedSale summarises every sale of one article.
// Amounts keep full precision; rounding is a presentation concern.
type AggregatedSale struct {
	ArticleID         uint
	ArticleCode       string
	CategoryID        uint
	SalesTotalRevenue decimal.Decimal
	Margin            decimal.Decimal
	LastSaleDate      time.Time
}

// SalesAggregator groups sale lines by article.
// The zero value is not usable, call NewSalesAggregator.
type SalesAggregator struct {
	rows map[uint]*AggregatedSale
}

func NewSalesAggregator() *SalesAggregator {
	return &SalesAggregator{rows: make(map[uint]*AggregatedSale)}
}

// Add folds one sale line into its article's row.
func (a *SalesAggregator) Add(line SaleLine) {
	quantity := decimal.NewFromInt(int64(line.Quantity))
	revenue := line.UnitSellingPrice.Mul(quantity)
	margin := line.UnitSellingPrice.Sub(line.ManufacturingCost).Mul(quantity)

	row, ok := a.rows[line.ArticleID]
	if !ok {
		a.rows[line.ArticleID] = &AggregatedSale{
			ArticleID:         line.ArticleID,
			ArticleCode:       line.ArticleCode,
			CategoryID:        line.CategoryID,
			SalesTotalRevenue: revenue,
			Margin:            margin,
			LastSaleDate:      line.Date,
		}
		return
	}

	row.SalesTotalRevenue = row.SalesTotalRevenue.Add(revenue)
	row.Margin = row.Margin.Add(margin)
	if line.Date.After(row.LastSaleDate) {
		row.LastSaleDate = line.Date
	}
}

// Result returns one row per sold article, highest revenue first.
// Equal revenues are ordered by article code, then by article id.
func (a *SalesAggregator) Result() []AggregatedSale {
	out := make([]AggregatedSale, 0, len(a.rows))
	for _, row := range a.rows {
		out = append(out, *row)
	}

	sort.Slice(out, func(i, j int) bool {
		if c := out[i].SalesTotalRevenue.Cmp(out[j].SalesTotalRevenue); c != 0 {
			return c > 0
		}
		if out[i].ArticleCode != out[j].ArticleCode {
			return out[i].ArticleCode < out[j].ArticleCode
		}
		return out[i].ArticleID < out[j].ArticleID
	})
	return out
}

// AggregateSales is a convenience over SalesAggregator for an in-memory set of lines.
func AggregateSales(lines []SaleLine) []AggregatedSale {
	agg := NewSalesAggregator()
	for _, line := range lines {
		agg.Add(line)
	}
	return agg.Result()
}
