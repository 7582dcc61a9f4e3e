package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronos/internal/types"
)

type sampleRequest struct {
	Name string `validate:"required"`
	Date string `validate:"required,isodate"`
}

func TestValidateStructPasses(t *testing.T) {
	v := NewValidator(testLogger())
	err := v.ValidateStruct(sampleRequest{Name: "picnic", Date: "2026-09-05"})
	assert.NoError(t, err)
}

func TestValidateStructRejectsBadDate(t *testing.T) {
	v := NewValidator(testLogger())
	err := v.ValidateStruct(sampleRequest{Name: "picnic", Date: "05/09/2026"})
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeValidationMissingField, appErr.Code)
	assert.Equal(t, "isodate", appErr.Details["Date"])
}

func TestValidateStructReportsAllFields(t *testing.T) {
	v := NewValidator(testLogger())
	err := v.ValidateStruct(sampleRequest{})
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Len(t, appErr.Details, 2)
}
