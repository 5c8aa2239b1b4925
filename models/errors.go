package models

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrNotFound is wrapped by every per-entity not found error.
var ErrNotFound = errors.New("not found")

var (
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrArticleNotFound  = fmt.Errorf("article %w", ErrNotFound)
	ErrSaleNotFound     = fmt.Errorf("sale %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)

	ErrAggregatedSaleNotFound = fmt.Errorf("aggregated sale %w", ErrNotFound)
)

// ErrProtected is returned when deleting a record still referenced by others.
var ErrProtected = errors.New("record is still referenced and cannot be deleted")

// ConstraintError reports a write the store rejected because of one field.
type ConstraintError struct {
	Field   string
	Message string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// Constraint names are declared in db/migrations.
var constraintFields = map[string]ConstraintError{
	"articles_code_key":                     {Field: "code", Message: "article with this code already exists"},
	"articles_category_id_fkey":             {Field: "category", Message: "category does not exist"},
	"articles_manufacturing_cost_check":     {Field: "manufacturing_cost", Message: "must be greater than or equal to 0"},
	"sales_article_id_fkey":                 {Field: "article", Message: "article does not exist"},
	"sales_author_id_fkey":                  {Field: "author", Message: "user does not exist"},
	"sales_quantity_check":                  {Field: "quantity", Message: "must be greater than 0"},
	"sales_unit_selling_price_check":        {Field: "unit_selling_price", Message: "must be greater than or equal to 0"},
	"users_email_key":                       {Field: "email", Message: "user with this email already exists"},
	"article_categories_display_name_check": {Field: "display_name", Message: "must not be blank"},
}

func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// translateWriteError maps store errors raised by INSERT/UPDATE.
func translateWriteError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	pgErr, ok := pgError(err)
	if !ok {
		return err
	}
	switch pgErr.Code {
	case pgForeignKeyViolation, pgUniqueViolation, pgCheckViolation:
		if ce, known := constraintFields[pgErr.ConstraintName]; known {
			return &ce
		}
		return &ConstraintError{Field: pgErr.ColumnName, Message: pgErr.Message}
	}
	return err
}

// translateDeleteError maps store errors raised by DELETE. A foreign key
// violation there means dependants still exist.
func translateDeleteError(err error) error {
	if err == nil {
		return nil
	}
	if pgErr, ok := pgError(err); ok && pgErr.Code == pgForeignKeyViolation {
		return fmt.Errorf("%w: %s", ErrProtected, pgErr.TableName)
	}
	return err
}
