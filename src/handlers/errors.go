package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/trackline/tracking-api/src/logging"
	"github.com/trackline/tracking-api/src/middleware"
	"github.com/trackline/tracking-api/src/models"
	"github.com/trackline/tracking-api/src/services"
)

const msgInvalidDate = "Invalid date format"

// errorMessages holds the client-facing text per error kind for one route
type errorMessages struct {
	validation   string
	unauthorized string
	notFound     string
	conflict     string
	internal     string
}

// writeError maps a service error to its HTTP status and generic message.
// The underlying error is logged and never sent to the client.
func writeError(c *gin.Context, component string, err error, msgs errorMessages) {
	status, message := http.StatusInternalServerError, msgs.internal

	switch {
	case errors.Is(err, services.ErrValidation):
		status, message = http.StatusBadRequest, msgs.validation
		if errors.Is(err, models.ErrInvalidDate) {
			message = msgInvalidDate
		}
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrUnauthorized):
		status, message = http.StatusUnauthorized, msgs.unauthorized
	case errors.Is(err, services.ErrTrackingNotFound):
		status, message = http.StatusNotFound, msgs.notFound
	case errors.Is(err, services.ErrConflict):
		status, message = http.StatusConflict, msgs.conflict
	}

	logger := logging.ComponentLogger(component, middleware.GetRequestID(c))
	event := logger.Debug()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	} else if status == http.StatusConflict {
		event = logger.Warn()
	}
	if fields := invalidFields(err); len(fields) > 0 {
		event = event.Strs("fields", fields)
	}
	event.Err(err).Int("status", status).Msg(message)

	_ = c.Error(err)
	c.JSON(status, gin.H{"message": message})
}

// bindError wraps a request decoding failure as a validation error
func bindError(err error) error {
	return errors.Join(services.ErrValidation, err)
}

// invalidFields lists the request struct fields rejected by the validator,
// qualified by struct name (CreateTrackingRequest.RecipientName)
func invalidFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Namespace())
	}
	return fields
}
