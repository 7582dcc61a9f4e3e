package core

import (
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"chronos/internal/types"
)

// Validator wraps go-playground/validator with the domain-specific rules
// used by the request handlers and the planning pipeline.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a Validator and registers custom validation tags.
func NewValidator(logger *slog.Logger) *Validator {
	v := validator.New()

	// isodate validates a YYYY-MM-DD calendar date. Registration only fails
	// for an empty tag name, so the error is ignored.
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})

	return &Validator{
		validate: v,
		logger:   logger,
	}
}

// Validate exposes the underlying validator for components that consume
// *validator.Validate directly.
func (v *Validator) Validate() *validator.Validate {
	return v.validate
}

// ValidateStruct validates dst against its struct tags. On failure it
// returns a *types.AppError with code validation_missing_required_field and
// a details map of field -> violated rule, suitable for writing straight to
// the client.
func (v *Validator) ValidateStruct(dst interface{}) error {
	err := v.validate.Struct(dst)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "validation failed", err)
	}

	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Tag()
	}

	return types.NewAppErrorWithDetails(
		types.ErrCodeValidationMissingField,
		"request validation failed",
		err,
		details,
	)
}
