package users

import (
	"context"
	"net/http"
	"time"

	"github.com/mytheresa/sales-api/app/api"
	"github.com/mytheresa/sales-api/app/auth"
	"github.com/mytheresa/sales-api/models"
)

type UserResponse struct {
	URL        string    `json:"url"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	IsActive   bool      `json:"is_active"`
	DateJoined time.Time `json:"date_joined"`
}

// UserInput is the writable part of a user. Password is write-only and
// never rendered back.
type UserInput struct {
	Email     *string `json:"email" validate:"required,email,max=254"`
	Password  *string `json:"password" validate:"omitempty,min=8,max=128"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	IsActive  *bool   `json:"is_active"`
}

type UserProvider interface {
	List(ctx context.Context, offset, limit int) ([]models.User, int64, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}

type UserHandler struct {
	repo UserProvider
	now  func() time.Time
}

func NewUserHandler(r UserProvider) *UserHandler {
	return &UserHandler{
		repo: r,
		now:  time.Now,
	}
}

func toResponse(r *http.Request, u *models.User) UserResponse {
	return UserResponse{
		URL:        api.Link(r, api.ResourceUser, u.ID),
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsActive:   u.IsActive,
		DateJoined: u.DateJoined.UTC(),
	}
}

// apply validates the input and copies it onto user. Optional fields missing
// from the input keep the value user already has.
func (in *UserInput) apply(user *models.User, requirePassword bool) error {
	ve := &api.ValidationError{}
	if requirePassword && in.Password == nil {
		ve.Add("password", "this field is required")
	}
	if err := api.Validate(in, ve); err != nil {
		return err
	}

	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}
	user.Email = *in.Email
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	return nil
}

func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := api.ParsePage(r)

	res, total, err := h.repo.List(r.Context(), page.Offset, page.Limit)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	users := make([]UserResponse, len(res))
	for i := range res {
		users[i] = toResponse(r, &res[i])
	}
	api.WriteJSON(w, http.StatusOK, api.NewPageResponse(r, page, total, users))
}

func (h *UserHandler) HandleRetrieve(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, models.ErrUserNotFound)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	user, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(r, user))
}

func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input UserInput
	if err := api.DecodeJSON(r, &input); err != nil {
		api.WriteError(w, r, err)
		return
	}

	user := &models.User{IsActive: true, DateJoined: h.now().UTC()}
	if err := input.apply(user, true); err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := h.repo.Create(r.Context(), user); err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, toResponse(r, user))
}

// HandleUpdate serves PUT and PATCH. The password is only changed when one is sent.
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, models.ErrUserNotFound)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	user, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	var input UserInput
	if err := api.DecodeJSON(r, &input); err != nil {
		api.WriteError(w, r, err)
		return
	}
	if r.Method == http.MethodPatch && input.Email == nil {
		input.Email = &user.Email
	}
	if err := input.apply(user, false); err != nil {
		api.WriteError(w, r, err)
		return
	}

	if err := h.repo.Update(r.Context(), user); err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(r, user))
}

func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r, models.ErrUserNotFound)
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
