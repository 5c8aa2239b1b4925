package aggregated

import (
	"context"
	"net/http"
	"time"

	"github.com/mytheresa/sales-api/app/api"
	"github.com/mytheresa/sales-api/models"
)

// AggregatedSaleResponse is one row of the report. Amounts are rounded to
// two decimals only here; the report itself keeps full precision.
type AggregatedSaleResponse struct {
	Article           string `json:"article"`
	Category          string `json:"category"`
	SalesTotalRevenue string `json:"sales_total_revenue"`
	Margin            string `json:"margin"`
	LastSaleDate      string `json:"last_sale_date"`
}

type ReportProvider interface {
	AggregateSales(ctx context.Context, filter models.AggregateFilter) ([]models.AggregatedSale, error)
}

type AggregatedSaleHandler struct {
	repo ReportProvider
	now  func() time.Time
}

func NewAggregatedSaleHandler(r ReportProvider) *AggregatedSaleHandler {
	return &AggregatedSaleHandler{
		repo: r,
		now:  time.Now,
	}
}

func toResponse(r *http.Request, s *models.AggregatedSale) AggregatedSaleResponse {
	return AggregatedSaleResponse{
		Article:           api.Link(r, api.ResourceArticle, s.ArticleID),
		Category:          api.Link(r, api.ResourceCategory, s.CategoryID),
		SalesTotalRevenue: s.SalesTotalRevenue.StringFixedBank(2),
		Margin:            s.Margin.StringFixedBank(2),
		LastSaleDate:      s.LastSaleDate.Format(time.DateOnly),
	}
}

// HandleList returns the report ordered by revenue, highest first.
func (h *AggregatedSaleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := api.ParsePage(r)

	report, err := h.repo.AggregateSales(r.Context(), models.AggregateFilter{})
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	rows := api.Slice(report, page)
	results := make([]AggregatedSaleResponse, len(rows))
	for i := range rows {
		results[i] = toResponse(r, &rows[i])
	}
	api.WriteJSON(w, http.StatusOK, api.NewPageResponse(r, page, int64(len(report)), results))
}

// HandleRetrieve returns the report row of the article named by {id}.
func (h *AggregatedSaleHandler) HandleRetrieve(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, models.ErrAggregatedSaleNotFound)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	report, err := h.repo.AggregateSales(r.Context(), models.AggregateFilter{ArticleID: &id})
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	if len(report) == 0 {
		api.WriteError(w, r, models.ErrAggregatedSaleNotFound)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(r, &report[0]))
}
