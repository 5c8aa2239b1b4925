package categories

import (
	"context"
	"net/http"

	"github.com/mytheresa/sales-api/app/api"
	"github.com/mytheresa/sales-api/models"
)

type CategoryResponse struct {
	URL         string `json:"url"`
	DisplayName string `json:"display_name"`
}

// CategoryInput is the writable part of a category.
type CategoryInput struct {
	DisplayName *string `json:"display_name" validate:"required,notblank,max=255"`
}

type CategoryProvider interface {
	List(ctx context.Context, offset, limit int) ([]models.Category, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
}

type CategoryHandler struct {
	repo CategoryProvider
}

func NewCategoryHandler(r CategoryProvider) *CategoryHandler {
	return &CategoryHandler{repo: r}
}

func toResponse(r *http.Request, c *models.Category) CategoryResponse {
	return CategoryResponse{
		URL:         api.Link(r, api.ResourceCategory, c.ID),
		DisplayName: c.DisplayName,
	}
}

func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := api.ParsePage(r)

	categories, total, err := h.repo.List(r.Context(), page.Offset, page.Limit)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	results := make([]CategoryResponse, len(categories))
	for i := range categories {
		results[i] = toResponse(r, &categories[i])
	}
	api.WriteJSON(w, http.StatusOK, api.NewPageResponse(r, page, total, results))
}

func (h *CategoryHandler) HandleRetrieve(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, models.ErrCategoryNotFound)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	category, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(r, category))
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input CategoryInput
	if err := api.DecodeJSON(r, &input); err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := api.Validate(input, &api.ValidationError{}); err != nil {
		api.WriteError(w, r, err)
		return
	}

	category := &models.Category{DisplayName: *input.DisplayName}
	if err := h.repo.Create(r.Context(), category); err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, toResponse(r, category))
}

// HandleUpdate serves PUT and PATCH. PATCH keeps the stored value of every
// field missing from the body.
func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, models.ErrCategoryNotFound)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	category, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	var input CategoryInput
	if err := api.DecodeJSON(r, &input); err != nil {
		api.WriteError(w, r, err)
		return
	}
	if r.Method == http.MethodPatch && input.DisplayName == nil {
		input.DisplayName = &category.DisplayName
	}
	if err := api.Validate(input, &api.ValidationError{}); err != nil {
		api.WriteError(w, r, err)
		return
	}

	category.DisplayName = *input.DisplayName
	if err := h.repo.Update(r.Context(), category); err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(r, category))
}

func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, models.ErrCategoryNotFound)
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
