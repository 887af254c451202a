package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/yoga_blog_backend/controllers"
)

// RegisterAdminRoutes sets up the PIN check and the PIN-gated write routes
func RegisterAdminRoutes(e *echo.Echo, ac *controllers.AdminController, requireAdmin echo.MiddlewareFunc) {
	e.POST("/api/admin/verify-pin", ac.VerifyPin)

	admin := e.Group("/api/admin", requireAdmin)
	admin.GET("/posts", ac.ListPosts)
	admin.POST("/posts", ac.CreatePost)
	admin.POST("/media", ac.UploadMedia)
	admin.DELETE("/posts/:id", ac.DeletePost)
}
