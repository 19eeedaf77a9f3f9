package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/dishname"
)

// MaxImageBytes is the largest image accepted with a submission.
const MaxImageBytes = 10 << 20

// inputValidate is the validator instance for user input.
// Initialized in init() with custom validators.
var inputValidate *validator.Validate

func init() {
	inputValidate = validator.New(validator.WithRequiredStructEnabled())

	// notblank rejects strings made only of whitespace.
	if err := inputValidate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return !dishname.IsBlank(fl.Field().String())
	}); err != nil {
		panic("failed to register notblank validator: " + err.Error())
	}
}

// fieldNames maps struct fields to the names shown to users.
var fieldNames = map[string]string{
	"Restaurant": "restaurant",
	"DishName":   "dish name",
	"Image":      "image",
	"Comment":    "comment",
}

// validateSubmission checks a submission before any network call is made.
func validateSubmission(sub domain.ReviewSubmission) error {
	if err := validateInput(sub, "submission"); err != nil {
		return err
	}
	if !sub.Restaurant.IsResolved() {
		return domain.NewValidationError("restaurant", "must be registered before it can be reviewed")
	}
	return nil
}

// validateInput runs the struct tags of v and converts the first failure
// into a *domain.ValidationError. name labels non-field failures.
func validateInput(v any, name string) error {
	err := inputValidate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.NewValidationError(name, err.Error())
	}

	// Report the first failing field in declaration order.
	fe := verrs[0]
	field, ok := fieldNames[fe.StructField()]
	if !ok {
		field = strings.ToLower(fe.StructField())
	}
	return domain.NewValidationError(field, validationReason(fe))
}

func validationReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Kind() == reflect.Ptr {
			return "must be selected"
		}
		return "must not be empty"
	case "notblank":
		return "must not be blank"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		if fe.StructField() == "Image" {
			return "must be at most 10 MiB"
		}
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
