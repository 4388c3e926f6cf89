package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string `json:"name" validate:"notblank,max=10"`
	Rating int    `json:"rating" validate:"min=1,max=5"`
	Note   string `validate:"required"`
}

func TestValidateStructPasses(t *testing.T) {
	assert.Nil(t, ValidateStruct(&sample{Name: "Alice", Rating: 5, Note: "x"}))
	assert.NoError(t, EchoValidator{}.Validate(&sample{Name: "Alice", Rating: 1, Note: "x"}))
}

func TestValidateStructMessages(t *testing.T) {
	err := ValidateStruct(&sample{Name: "   ", Rating: 6})
	require.NotNil(t, err)

	assert.Equal(t, map[string]string{
		"name":   "name is required",
		"rating": "rating must be at most 5",
		"Note":   "Note is required",
	}, err.Messages())
	assert.Len(t, err.Errors(), 3)
	assert.Equal(t, "notblank", err.Errors()[0].Tag())
}

func TestValidateStructLengths(t *testing.T) {
	err := ValidateStruct(&sample{Name: strings.Repeat("a", 11), Rating: 0, Note: "x"})
	require.NotNil(t, err)
	m := err.Messages()
	assert.Equal(t, "name must be at most 10 characters", m["name"])
	assert.Equal(t, "rating must be at least 1", m["rating"])
}

func TestToAPIError(t *testing.T) {
	err := ValidateStruct(&sample{Name: "ok", Rating: 3})
	require.NotNil(t, err)

	api := err.ToAPIError()
	assert.Equal(t, "VALIDATION_ERROR", api.Code)
	assert.Equal(t, "Note is required", api.Message)
	assert.Equal(t, map[string]string{"Note": "Note is required"}, api.Fields)
}

func TestEchoValidatorReturnsTypedError(t *testing.T) {
	err := EchoValidator{}.Validate(&sample{})
	var ve *RequestValidationError
	require.True(t, errors.As(err, &ve))
	assert.NotEmpty(t, ve.Errors())
}
