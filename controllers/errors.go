package controllers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/yoga_blog_backend/models"
	"github.com/HSouheill/yoga_blog_backend/services"
)

const (
	msgMissingFields = "Please provide all required fields."
	msgIncorrectPin  = "Incorrect PIN."
	msgUploadFailed  = "Upload failed. Please try again."
	msgPostNotFound  = "Post not found"
	msgSendFailed    = "Sending message failed. Please try again later."
	msgMailDisabled  = "Messaging is currently unavailable."
	msgInternal      = "Something went wrong. Please try again."
)

// errorResponse maps a service error to a status and a generic message; the detail is only logged
func errorResponse(c echo.Context, err error) error {
	status, message := classify(err)
	if status >= http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	} else {
		c.Logger().Debugf("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	return c.JSON(status, models.Response{
		Status:  status,
		Message: message,
	})
}

func classify(err error) (int, string) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs),
		errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrInvalidContact):
		return http.StatusBadRequest, msgMissingFields
	case errors.Is(err, services.ErrMediaTooLarge),
		errors.Is(err, services.ErrUnsupportedMedia):
		return http.StatusBadRequest, msgUploadFailed
	case errors.Is(err, services.ErrInvalidPinFormat),
		errors.Is(err, services.ErrIncorrectPin),
		errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized, msgIncorrectPin
	case errors.Is(err, services.ErrPostNotFound):
		return http.StatusNotFound, msgPostNotFound
	case errors.Is(err, services.ErrMediaUpload):
		return http.StatusBadGateway, msgUploadFailed
	case errors.Is(err, services.ErrOwnerNotification):
		return http.StatusBadGateway, msgSendFailed
	case errors.Is(err, services.ErrMailDisabled):
		return http.StatusServiceUnavailable, msgMailDisabled
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, models.Response{
		Status:  http.StatusBadRequest,
		Message: message,
	})
}
