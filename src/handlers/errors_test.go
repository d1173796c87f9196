package handlers

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackline/tracking-api/src/services"
)

func TestInvalidFields(t *testing.T) {
	err := binding.Validator.ValidateStruct(&CreateTrackingRequest{
		RecipientName:  "A",
		RecipientPhone: "1",
		Destination:    "X",
		Origin:         "Y",
	})
	require.Error(t, err)

	fields := invalidFields(bindError(err))
	assert.ElementsMatch(t, []string{
		"CreateTrackingRequest.Status",
		"CreateTrackingRequest.Service",
	}, fields)
}

func TestInvalidFields_NotValidationError(t *testing.T) {
	assert.Nil(t, invalidFields(errors.New("unexpected EOF")))
	assert.ErrorIs(t, bindError(errors.New("unexpected EOF")), services.ErrValidation)
}
