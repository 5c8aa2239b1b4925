package articles

import (
	"context"
	"net/http"

	"github.com/mytheresa/sales-api/app/api"
	"github.com/mytheresa/sales-api/models"
	"github.com/shopspring/decimal"
)

type ArticleResponse struct {
	URL               string `json:"url"`
	Code              string `json:"code"`
	Name              string `json:"name"`
	Category          string `json:"category"`
	ManufacturingCost string `json:"manufacturing_cost"`
}

// ArticleInput is the writable part of an article. Category is a hyperlink
// to an article category.
type ArticleInput struct {
	Code              *string          `json:"code" validate:"required,notblank,max=255"`
	Name              *string          `json:"name" validate:"required,notblank,max=255"`
	Category          *string          `json:"category" validate:"required"`
	ManufacturingCost *decimal.Decimal `json:"manufacturing_cost" validate:"required,gte=0"`
}

type ArticleProvider interface {
	List(ctx context.Context, offset, limit int) ([]models.Article, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Article, error)
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id uint) error
}

type ArticleHandler struct {
	repo ArticleProvider
}

func NewArticleHandler(r ArticleProvider) *ArticleHandler {
	return &ArticleHandler{
		repo: r,
	}
}

func toResponse(r *http.Request, a *models.Article) ArticleResponse {
	return ArticleResponse{
		URL:               api.Link(r, api.ResourceArticle, a.ID),
		Code:              a.Code,
		Name:              a.Name,
		Category:          api.Link(r, api.ResourceCategory, a.CategoryID),
		ManufacturingCost: a.ManufacturingCost.StringFixed(2),
	}
}

// apply validates the input and copies it onto article.
func (in *ArticleInput) apply(article *models.Article) error {
	ve := &api.ValidationError{}
	api.CheckMoney(ve, "manufacturing_cost", in.ManufacturingCost)

	var categoryID uint
	if in.Category != nil {
		id, err := api.ParseLink(*in.Category, api.ResourceCategory)
		if err != nil {
			ve.Add("category", err.Error())
		}
		categoryID = id
	}
	if err := api.Validate(in, ve); err != nil {
		return err
	}

	article.Code = *in.Code
	article.Name = *in.Name
	article.CategoryID = categoryID
	article.ManufacturingCost = *in.ManufacturingCost
	return nil
}

// mergeFrom fills every field missing from a partial update with the stored value.
func (in *ArticleInput) mergeFrom(r *http.Request, a *models.Article) {
	if in.Code == nil {
		in.Code = &a.Code
	}
	if in.Name == nil {
		in.Name = &a.Name
	}
	if in.Category == nil {
		link := api.Link(r, api.ResourceCategory, a.CategoryID)
		in.Category = &link
	}
	if in.ManufacturingCost == nil {
		cost := a.ManufacturingCost
		in.ManufacturingCost = &cost
	}
}

func (h *ArticleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := api.ParsePage(r)

	res, total, err := h.repo.List(r.Context(), page.Offset, page.Limit)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	articles := make([]ArticleResponse, len(res))
	for i := range res {
		articles[i] = toResponse(r, &res[i])
	}
	api.WriteJSON(w, http.StatusOK, api.NewPageResponse(r, page, total, articles))
}

func (h *ArticleHandler) HandleRetrieve(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, models.ErrArticleNotFound)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	article, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(r, article))
}

func (h *ArticleHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input ArticleInput
	if err := api.DecodeJSON(r, &input); err != nil {
		api.WriteError(w, r, err)
		return
	}

	article := &models.Article{}
	if err := input.apply(article); err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := h.repo.Create(r.Context(), article); err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, toResponse(r, article))
}

// HandleUpdate serves PUT and PATCH.
func (h *ArticleHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, models.ErrArticleNotFound)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	article, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	var input ArticleInput
	if err := api.DecodeJSON(r, &input); err != nil {
		api.WriteError(w, r, err)
		return
	}
	if r.Method == http.MethodPatch {
		input.mergeFrom(r, article)
	}
	if err := input.apply(article); err != nil {
		api.WriteError(w, r, err)
		return
	}

	if err := h.repo.Update(r.Context(), article); err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(r, article))
}

func (h *ArticleHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, models.ErrArticleNotFound)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		api.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
