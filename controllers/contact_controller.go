package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/yoga_blog_backend/models"
	"github.com/HSouheill/yoga_blog_backend/services"
)

type ContactController struct {
	Contact *services.ContactService
}

func NewContactController(contact *services.ContactService) *ContactController {
	return &ContactController{Contact: contact}
}

// Submit sends the owner notification and the visitor auto-reply (POST /api/contact)
func (cc *ContactController) Submit(c echo.Context) error {
	var req models.ContactRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return errorResponse(c, err)
	}

	err := cc.Contact.Send(c.Request().Context(), req)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Message sent successfully!",
			Data:    map[string]bool{"autoReplySent": true},
		})
	case errors.Is(err, services.ErrAutoReply):
		// The owner already has the message; a resubmit would only duplicate it
		c.Logger().Errorf("Contact auto-reply failed: %v", err)
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Message sent successfully! We could not send you a confirmation email.",
			Data:    map[string]bool{"autoReplySent": false},
		})
	default:
		return errorResponse(c, err)
	}
}

// Reasons lists the form subjects with their suggested messages (GET /api/contact/reasons)
func (cc *ContactController) Reasons(c echo.Context) error {
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Contact reasons retrieved successfully",
		Data:    models.ContactReasons,
	})
}
