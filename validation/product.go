package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"catalogadmin/models"

	"github.com/go-playground/validator/v10"
)

// quantityPattern rejects quantity text carrying anything besides digits,
// spaces, hyphens, parentheses and plus signs. It is a separate rule from
// the integer check so malformed strings like "12a" fail on format.
var quantityPattern = regexp.MustCompile(`^[\d\s\-()+]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("quantitychars", func(fl validator.FieldLevel) bool {
		return quantityPattern.MatchString(fl.Field().String())
	})
	return v
}

// NameChecker probes the product store for name uniqueness.
type NameChecker interface {
	NameTaken(name string, excludeID uint) (bool, error)
}

// CategoryChecker reports which category ids exist.
type CategoryChecker interface {
	ExistingIDs(ids []uint) (map[uint]bool, error)
}

// ProductPayload is the decoded create/update request body. Quantity stays
// untyped because clients send it as a number or a string and the character
// rule applies to its textual form.
type ProductPayload struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Quantity    any     `json:"quantity"`
	Categories  *[]uint `json:"categories"`
}

// Empty reports whether no field at all was submitted, which the endpoints
// treat as a distinct outcome from failed validation.
func (p ProductPayload) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Quantity == nil && p.Categories == nil
}

// productFields holds the shape rules checked by the validator.
type productFields struct {
	Name        string `validate:"required,max=255"`
	Description string `validate:"omitempty,max=1000"`
	Quantity    string `validate:"required,quantitychars"`
}

// Result is a payload that passed validation, with category ids kept apart
// from the scalar fields.
type Result struct {
	Product             models.Product
	CategoryIDs         []uint
	CategoriesSubmitted bool
}

// ValidateProduct checks a create or update payload. excludeID is the id of
// the product being updated, zero for creates. A non-empty message slice is
// a validation failure; a non-nil error is a store failure.
func ValidateProduct(payload ProductPayload, excludeID uint, names NameChecker, categories CategoryChecker) (*Result, []string, error) {
	fields := productFields{Quantity: quantityText(payload.Quantity)}
	if payload.Name != nil {
		fields.Name = *payload.Name
	}
	if payload.Description != nil {
		fields.Description = *payload.Description
	}

	var messages []string
	if err := validate.Struct(fields); err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return nil, nil, err
		}
		for _, fe := range fieldErrors {
			messages = append(messages, messageFor(fe))
		}
	}

	var quantity uint
	if fields.Quantity != "" && quantityPattern.MatchString(fields.Quantity) {
		n, err := strconv.Atoi(strings.TrimSpace(fields.Quantity))
		switch {
		case err != nil:
			messages = append(messages, "The quantity must be an integer.")
		case n < 0:
			messages = append(messages, "The quantity must be at least 0.")
		default:
			quantity = uint(n)
		}
	}

	if fields.Name != "" {
		taken, err := names.NameTaken(fields.Name, excludeID)
		if err != nil {
			return nil, nil, err
		}
		if taken {
			messages = append(messages, "The name has already been taken.")
		}
	}

	var categoryIDs []uint
	if payload.Categories != nil {
		categoryIDs = *payload.Categories
		existing, err := categories.ExistingIDs(categoryIDs)
		if err != nil {
			return nil, nil, err
		}
		for _, id := range categoryIDs {
			if !existing[id] {
				messages = append(messages, fmt.Sprintf("The selected category %d is invalid.", id))
			}
		}
	}

	if len(messages) > 0 {
		return nil, messages, nil
	}

	return &Result{
		Product: models.Product{
			Name:        fields.Name,
			Description: fields.Description,
			Quantity:    quantity,
		},
		CategoryIDs:         categoryIDs,
		CategoriesSubmitted: payload.Categories != nil,
	}, nil, nil
}

func messageFor(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Name":
		if fe.Tag() == "max" {
			return "Name may not be greater than 255 characters."
		}
		return "Name field is required."
	case "Description":
		return "Description may not be greater than 1000 characters."
	case "Quantity":
		if fe.Tag() == "quantitychars" {
			return "The quantity format is invalid."
		}
		return "Quantity field is required."
	}
	return fe.Error()
}

// quantityText renders the raw quantity value to the text the character
// rule runs against. Whole JSON numbers read the same as their string form.
func quantityText(value any) string {
	switch q := value.(type) {
	case nil:
		return ""
	case string:
		return q
	case float64:
		if q == math.Trunc(q) {
			return strconv.FormatInt(int64(q), 10)
		}
		return strconv.FormatFloat(q, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", q)
	}
}
