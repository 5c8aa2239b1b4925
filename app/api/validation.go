package api

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

// ValidationError carries one message per rejected input field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message for field, keeping the first one reported.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// Err returns nil when no field was rejected.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	// Lets numeric tags such as gte=0 apply to decimal amounts. Only the sign
	// and magnitude are compared, so float conversion is precise enough.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		if !moneyExponentInRange(d) {
			return float64(d.Sign())
		}
		return d.InexactFloat64()
	}, decimal.Decimal{})
	return v
}

// Validate checks v against its validate struct tags. ve collects the
// failures together with any checks the caller already ran.
func Validate(v any, ve *ValidationError) error {
	if ve == nil {
		ve = &ValidationError{}
	}
	err := validate.Struct(v)
	if err == nil {
		return ve.Err()
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	for _, fe := range fieldErrs {
		ve.Add(fe.Field(), message(fe))
	}
	return ve.Err()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "email":
		return "enter a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "datetime":
		return "date has wrong format, use YYYY-MM-DD"
	case "notblank":
		return "this field may not be blank"
	}
	return "is invalid"
}

// Exponent bounds checked before an amount is ever rescaled.
const (
	moneyMaxExponent = 8
	moneyMinExponent = -20
)

func moneyExponentInRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= moneyMinExponent && exp <= moneyMaxExponent
}

// CheckMoney enforces a NUMERIC(10, 2) shape on an amount.
func CheckMoney(ve *ValidationError, field string, d *decimal.Decimal) {
	if d == nil {
		return
	}
	switch exp := d.Exponent(); {
	case exp > moneyMaxExponent:
		ve.Add(field, "ensure that there are no more than 10 digits in total")
		return
	case exp < moneyMinExponent:
		ve.Add(field, "ensure that there are no more than 2 decimal places")
		return
	}
	if !d.Equal(d.Round(2)) {
		ve.Add(field, "ensure that there are no more than 2 decimal places")
		return
	}
	if d.Abs().GreaterThanOrEqual(decimal.New(1, 8)) {
		ve.Add(field, "ensure that there are no more than 10 digits in total")
	}
}
