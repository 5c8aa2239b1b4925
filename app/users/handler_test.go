package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mytheresa/sales-api/app/api"
	"github.com/mytheresa/sales-api/app/auth"
	"github.com/mytheresa/sales-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock Repository ---

type MockUserRepo struct {
	Users     []models.User
	CreateErr error
	DeleteErr error
	LastSaved *models.User
}

func (m *MockUserRepo) List(_ context.Context, offset, limit int) ([]models.User, int64, error) {
	return api.Slice(m.Users, api.Page{Offset: offset, Limit: limit}), int64(len(m.Users)), nil
}

func (m *MockUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	for i := range m.Users {
		if m.Users[i].ID == id {
			u := m.Users[i]
			return &u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (m *MockUserRepo) Create(_ context.Context, user *models.User) error {
	m.LastSaved = user
	if m.CreateErr != nil {
		return m.CreateErr
	}
	user.ID = uint(len(m.Users) + 1)
	m.Users = append(m.Users, *user)
	return nil
}

func (m *MockUserRepo) Update(_ context.Context, user *models.User) error {
	m.LastSaved = user
	return nil
}

func (m *MockUserRepo) Delete(_ context.Context, id uint) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	_, err := m.GetByID(context.Background(), id)
	return err
}

var joined = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func seeded() *MockUserRepo {
	return &MockUserRepo{
		Users: []models.User{
			{ID: 1, Email: "ada@example.com", PasswordHash: "stored-hash", FirstName: "Ada", LastName: "Lovelace", IsActive: true, DateJoined: joined},
		},
	}
}

func TestHandleList(t *testing.T) {
	// Arrange
	handler := NewUserHandler(seeded())
	req := httptest.NewRequest("GET", "/v1/user", nil)
	rec := httptest.NewRecorder()

	// Act
	handler.HandleList(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "stored-hash")

	var resp api.PageResponse[UserResponse]
	require.NoError(t, json.NewDecoder(strings.NewReader(rec.Body.String())).Decode(&resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, UserResponse{
		URL:        "http://example.com/v1/user/1",
		Email:      "ada@example.com",
		FirstName:  "Ada",
		LastName:   "Lovelace",
		IsActive:   true,
		DateJoined: joined,
	}, resp.Results[0])
}

func TestHandleCreate(t *testing.T) {
	testCases := []struct {
		name               string
		requestBody        string
		expectedStatusCode int
		expectedFields     map[string]any
		checkRepoCall      func(t *testing.T, repo *MockUserRepo)
	}{
		{
			name:               "Success",
			requestBody:        `{"email":"grace@example.com","password":"hopper-1906","first_name":"Grace"}`,
			expectedStatusCode: http.StatusCreated,
			checkRepoCall: func(t *testing.T, repo *MockUserRepo) {
				require.NotNil(t, repo.LastSaved)
				assert.Equal(t, "grace@example.com", repo.LastSaved.Email)
				assert.True(t, repo.LastSaved.IsActive)
				assert.Equal(t, joined, repo.LastSaved.DateJoined)
				assert.True(t, auth.CheckPassword(repo.LastSaved.PasswordHash, "hopper-1906"))
			},
		},
		{
			name:               "Inactive on creation",
			requestBody:        `{"email":"grace@example.com","password":"hopper-1906","is_active":false}`,
			expectedStatusCode: http.StatusCreated,
			checkRepoCall: func(t *testing.T, repo *MockUserRepo) {
				require.NotNil(t, repo.LastSaved)
				assert.False(t, repo.LastSaved.IsActive)
			},
		},
		{
			name:               "Missing email and password",
			requestBody:        `{}`,
			expectedStatusCode: http.StatusBadRequest,
			expectedFields: map[string]any{
				"email":    "this field is required",
				"password": "this field is required",
			},
		},
		{
			name:               "Short password",
			requestBody:        `{"email":"grace@example.com","password":"short"}`,
			expectedStatusCode: http.StatusBadRequest,
			expectedFields:     map[string]any{"password": "must be at least 8 characters"},
		},
		{
			name:               "Invalid email",
			requestBody:        `{"email":"grace","password":"hopper-1906"}`,
			expectedStatusCode: http.StatusBadRequest,
			expectedFields:     map[string]any{"email": "enter a valid email address"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := &MockUserRepo{}
			handler := NewUserHandler(mockRepo)
			handler.now = func() time.Time { return joined }
			req := httptest.NewRequest("POST", "/v1/user", strings.NewReader(tc.requestBody))
			rec := httptest.NewRecorder()

			// Act
			handler.HandleCreate(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			assert.NotContains(t, rec.Body.String(), "hopper-1906")
			if tc.expectedFields != nil {
				var errResp map[string]any
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
				assert.Equal(t, tc.expectedFields, errResp["fields"])
				assert.Nil(t, mockRepo.LastSaved)
			}
			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, mockRepo)
			}
		})
	}
}

func TestHandleUpdate(t *testing.T) {
	testCases := []struct {
		name               string
		method             string
		requestBody        string
		expectedStatusCode int
		checkRepoCall      func(t *testing.T, repo *MockUserRepo)
	}{
		{
			name:               "Put without password keeps it",
			method:             "PUT",
			requestBody:        `{"email":"ada@example.org","first_name":"Augusta"}`,
			expectedStatusCode: http.StatusOK,
			checkRepoCall: func(t *testing.T, repo *MockUserRepo) {
				require.NotNil(t, repo.LastSaved)
				assert.Equal(t, "ada@example.org", repo.LastSaved.Email)
				assert.Equal(t, "Augusta", repo.LastSaved.FirstName)
				assert.Equal(t, "Lovelace", repo.LastSaved.LastName)
				assert.Equal(t, "stored-hash", repo.LastSaved.PasswordHash)
			},
		},
		{
			name:               "Put requires email",
			method:             "PUT",
			requestBody:        `{"first_name":"Augusta"}`,
			expectedStatusCode: http.StatusBadRequest,
			checkRepoCall: func(t *testing.T, repo *MockUserRepo) {
				assert.Nil(t, repo.LastSaved)
			},
		},
		{
			name:               "Patch changes the password",
			method:             "PATCH",
			requestBody:        `{"password":"new-password"}`,
			expectedStatusCode: http.StatusOK,
			checkRepoCall: func(t *testing.T, repo *MockUserRepo) {
				require.NotNil(t, repo.LastSaved)
				assert.Equal(t, "ada@example.com", repo.LastSaved.Email)
				assert.True(t, auth.CheckPassword(repo.LastSaved.PasswordHash, "new-password"))
			},
		},
		{
			name:               "Patch deactivates",
			method:             "PATCH",
			requestBody:        `{"is_active":false}`,
			expectedStatusCode: http.StatusOK,
			checkRepoCall: func(t *testing.T, repo *MockUserRepo) {
				require.NotNil(t, repo.LastSaved)
				assert.False(t, repo.LastSaved.IsActive)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := seeded()
			handler := NewUserHandler(mockRepo)
			req := httptest.NewRequest(tc.method, "/v1/user/1", strings.NewReader(tc.requestBody))
			req.SetPathValue("id", "1")
			rec := httptest.NewRecorder()

			// Act
			handler.HandleUpdate(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, mockRepo)
			}
		})
	}
}

func TestHandleDelete(t *testing.T) {
	testCases := []struct {
		name               string
		id                 string
		deleteErr          error
		expectedStatusCode int
	}{
		{name: "Deleted", id: "1", expectedStatusCode: http.StatusNoContent},
		{name: "Missing", id: "5", expectedStatusCode: http.StatusNotFound},
		{name: "Author of sales", id: "1", deleteErr: models.ErrProtected, expectedStatusCode: http.StatusConflict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := seeded()
			mockRepo.DeleteErr = tc.deleteErr
			handler := NewUserHandler(mockRepo)
			req := httptest.NewRequest("DELETE", "/v1/user/"+tc.id, nil)
			req.SetPathValue("id", tc.id)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleDelete(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
		})
	}
}
