package sales

import (
	"context"
	"net/http"
	"time"

	"github.com/mytheresa/sales-api/app/api"
	"github.com/mytheresa/sales-api/app/auth"
	"github.com/mytheresa/sales-api/app/policy"
	"github.com/mytheresa/sales-api/models"
	"github.com/shopspring/decimal"
)

type SaleResponse struct {
	URL               string `json:"url"`
	Author            string `json:"author"`
	Date              string `json:"date"`
	Article           string `json:"article"`
	ArticleCategory   string `json:"article_category"`
	ArticleCode       string `json:"article_code"`
	ArticleName       string `json:"article_name"`
	Quantity          int    `json:"quantity"`
	UnitSellingPrice  string `json:"unit_selling_price"`
	TotalSellingPrice string `json:"total_selling_price"`
}

// SaleInput is the writable part of a sale. The author is always the
// caller that created the sale and cannot be written.
type SaleInput struct {
	Date             *string          `json:"date" validate:"required,datetime=2006-01-02"`
	Article          *string          `json:"article" validate:"required"`
	Quantity         *int             `json:"quantity" validate:"required,gt=0"`
	UnitSellingPrice *decimal.Decimal `json:"unit_selling_price" validate:"required,gte=0"`
}

type SaleProvider interface {
	List(ctx context.Context, offset, limit int) ([]models.Sale, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Sale, error)
	Create(ctx context.Context, sale *models.Sale) error
	Update(ctx context.Context, sale *models.Sale) error
	Delete(ctx context.Context, id uint) error
}

type SaleHandler struct {
	repo   SaleProvider
	policy policy.Policy
}

func NewSaleHandler(r SaleProvider, p policy.Policy) *SaleHandler {
	return &SaleHandler{
		repo:   r,
		policy: p,
	}
}

func toResponse(r *http.Request, s *models.Sale) SaleResponse {
	return SaleResponse{
		URL:               api.Link(r, api.ResourceSale, s.ID),
		Author:            api.Link(r, api.ResourceUser, s.AuthorID),
		Date:              s.Date.Format(time.DateOnly),
		Article:           api.Link(r, api.ResourceArticle, s.ArticleID),
		ArticleCategory:   s.Article.Category.DisplayName,
		ArticleCode:       s.Article.Code,
		ArticleName:       s.Article.Name,
		Quantity:          s.Quantity,
		UnitSellingPrice:  s.UnitSellingPrice.StringFixed(2),
		TotalSellingPrice: s.TotalSellingPrice().StringFixed(2),
	}
}

func (in *SaleInput) apply(sale *models.Sale) error {
	ve := &api.ValidationError{}
	api.CheckMoney(ve, "unit_selling_price", in.UnitSellingPrice)

	var articleID uint
	if in.Article != nil {
		id, err := api.ParseLink(*in.Article, api.ResourceArticle)
		if err != nil {
			ve.Add("article", err.Error())
		}
		articleID = id
	}
	if err := api.Validate(in, ve); err != nil {
		return err
	}

	date, err := time.Parse(time.DateOnly, *in.Date)
	if err != nil {
		ve.Add("date", "date has wrong format, use YYYY-MM-DD")
		return ve
	}

	sale.Date = date
	sale.ArticleID = articleID
	sale.Quantity = *in.Quantity
	sale.UnitSellingPrice = *in.UnitSellingPrice
	return nil
}

func (in *SaleInput) mergeFrom(r *http.Request, s *models.Sale) {
	if in.Date == nil {
		date := s.Date.Format(time.DateOnly)
		in.Date = &date
	}
	if in.Article == nil {
		link := api.Link(r, api.ResourceArticle, s.ArticleID)
		in.Article = &link
	}
	if in.Quantity == nil {
		quantity := s.Quantity
		in.Quantity = &quantity
	}
	if in.UnitSellingPrice == nil {
		price := s.UnitSellingPrice
		in.UnitSellingPrice = &price
	}
}

// HandleList returns sales, most recent first.
func (h *SaleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := api.ParsePage(r)

	res, total, err := h.repo.List(r.Context(), page.Offset, page.Limit)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	sales := make([]SaleResponse, len(res))
	for i := range res {
		sales[i] = toResponse(r, &res[i])
	}
	api.WriteJSON(w, http.StatusOK, api.NewPageResponse(r, page, total, sales))
}

func (h *SaleHandler) HandleRetrieve(w http.ResponseWriter, r *http.Request) {
	sale, ok := h.load(w, r)
	if !ok {
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(r, sale))
}

// HandleCreate records a sale authored by the caller.
func (h *SaleHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())
	if caller == nil {
		api.WriteError(w, r, api.ErrNotAuthenticated)
		return
	}

	var input SaleInput
	if err := api.DecodeJSON(r, &input); err != nil {
		api.WriteError(w, r, err)
		return
	}

	sale := &models.Sale{AuthorID: caller.UserID}
	if err := input.apply(sale); err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := h.repo.Create(r.Context(), sale); err != nil {
		api.WriteError(w, r, err)
		return
	}
	h.writeFresh(w, r, http.StatusCreated, sale.ID)
}

// HandleUpdate serves PUT and PATCH. Only the author may change a sale.
func (h *SaleHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	sale, ok := h.loadForWrite(w, r)
	if !ok {
		return
	}

	var input SaleInput
	if err := api.DecodeJSON(r, &input); err != nil {
		api.WriteError(w, r, err)
		return
	}
	if r.Method == http.MethodPatch {
		input.mergeFrom(r, sale)
	}
	if err := input.apply(sale); err != nil {
		api.WriteError(w, r, err)
		return
	}

	if err := h.repo.Update(r.Context(), sale); err != nil {
		api.WriteError(w, r, err)
		return
	}
	h.writeFresh(w, r, http.StatusOK, sale.ID)
}

// HandleDelete removes a sale. Only the author may delete it.
func (h *SaleHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	sale, ok := h.loadForWrite(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), sale.ID); err != nil {
		api.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SaleHandler) load(w http.ResponseWriter, r *http.Request) (*models.Sale, bool) {
	id, err := api.PathID(r, models.ErrSaleNotFound)
	if err != nil {
		api.WriteError(w, r, err)
		return nil, false
	}

	sale, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, err)
		return nil, false
	}
	return sale, true
}

// loadForWrite looks the sale up before checking ownership, so a missing
// sale is reported as not found rather than forbidden.
func (h *SaleHandler) loadForWrite(w http.ResponseWriter, r *http.Request) (*models.Sale, bool) {
	sale, ok := h.load(w, r)
	if !ok {
		return nil, false
	}

	caller := auth.CallerFromContext(r.Context())
	if err := policy.AllowObject(h.policy, r.Method, caller, sale); err != nil {
		api.WriteError(w, r, err)
		return nil, false
	}
	return sale, true
}

// writeFresh reloads the sale so the article details in the response are current.
func (h *SaleHandler) writeFresh(w http.ResponseWriter, r *http.Request, status int, id uint) {
	sale, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, status, toResponse(r, sale))
}
