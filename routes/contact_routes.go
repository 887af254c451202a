package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/yoga_blog_backend/controllers"
)

func RegisterContactRoutes(e *echo.Echo, cc *controllers.ContactController) {
	e.POST("/api/contact", cc.Submit)
	e.GET("/api/contact/reasons", cc.Reasons)
}
