package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/mytheresa/sales-api/logger"
	"github.com/mytheresa/sales-api/models"
	"github.com/shopspring/decimal"
)

// Prefix is the path every versioned resource lives under.
const Prefix = "/v1"

// Resource names as they appear in URLs.
const (
	ResourceUser           = "user"
	ResourceCategory       = "articlecategory"
	ResourceArticle        = "article"
	ResourceSale           = "sale"
	ResourceSaleAggregated = "sale_aggregated"
)

var (
	// ErrNotAuthenticated is returned for anonymous callers on protected endpoints.
	ErrNotAuthenticated = errors.New("authentication credentials were not provided")
	// ErrForbidden is returned when an authenticated caller may not perform an action.
	ErrForbidden = errors.New("you do not have permission to perform this action")
)

// BadRequestError is a malformed request that never reached validation.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return e.Message
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already sent; a failed encode can only mean a broken connection.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes {"error": message} with the given status.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, errorResponse{Error: message})
}

// WriteError maps an error onto the caller visible outcome. Unknown errors
// are logged and reported as internal errors without details.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *ValidationError
	var constraintErr *models.ConstraintError
	var badRequestErr *BadRequestError

	switch {
	case errors.As(err, &validationErr):
		WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: validationErr.Fields})
	case errors.As(err, &constraintErr):
		WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "validation failed",
			Fields: map[string]string{constraintErr.Field: constraintErr.Message},
		})
	case errors.As(err, &badRequestErr):
		WriteMessage(w, http.StatusBadRequest, badRequestErr.Message)
	case errors.Is(err, ErrNotAuthenticated), errors.Is(err, ErrForbidden):
		WriteMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrNotFound):
		WriteMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrProtected):
		WriteMessage(w, http.StatusConflict, err.Error())
	default:
		logger.FromContext(r.Context()).Error("request failed",
			logger.FieldMethod, r.Method,
			logger.FieldPath, r.URL.Path,
			logger.FieldError, err,
		)
		WriteMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

const maxBodyBytes = 1 << 20

var errInvalidBody = &BadRequestError{Message: "Invalid JSON body"}

// DecodeJSON reads the request body into v. A well formed body whose values
// do not fit the fields of v is reported field by field as a validation error.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errInvalidBody
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return errInvalidBody
	}
	if len(body) > maxBodyBytes {
		return &BadRequestError{Message: "Request body too large"}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fieldDecodeErrors(body, v)
	}
	return nil
}

// fieldDecodeErrors decodes each top level member of body on its own to
// find the fields of v that rejected their value.
func fieldDecodeErrors(body []byte, v any) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(body, &members); err != nil {
		return errInvalidBody
	}

	rt := reflect.TypeOf(v)
	if rt.Kind() != reflect.Pointer || rt.Elem().Kind() != reflect.Struct {
		return errInvalidBody
	}
	rt = rt.Elem()

	ve := &ValidationError{}
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		raw, ok := members[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, reflect.New(f.Type).Interface()); err != nil {
			ve.Add(name, typeMessage(f.Type))
		}
	}
	if err := ve.Err(); err != nil {
		return err
	}
	return errInvalidBody
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

func typeMessage(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == decimalType {
		return "a valid number is required"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "a valid integer is required"
	case reflect.Bool:
		return "must be a valid boolean"
	case reflect.String:
		return "not a valid string"
	}
	return "is invalid"
}
