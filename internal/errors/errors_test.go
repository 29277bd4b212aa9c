package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Title    string `validate:"required"`
	Priority string `validate:"required,oneof=high medium low"`
}

func TestNewValidationError_FieldErrors(t *testing.T) {
	err := validator.New().Struct(sample{Priority: "urgent"})

	apiErr := NewValidationError(err)

	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "is required", apiErr.Fields["title"])
	assert.Equal(t, "must be one of: high medium low", apiErr.Fields["priority"])
}

func TestNewValidationError_NonValidation(t *testing.T) {
	apiErr := NewValidationError(stdErrors.New("unexpected EOF"))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Nil(t, apiErr.Fields)
}

func TestAPIError_Unwrap(t *testing.T) {
	cause := stdErrors.New("boom")
	err := Internal(cause)

	assert.True(t, stdErrors.Is(err, cause))
	assert.Equal(t, "Internal server error: boom", err.Error())
}
