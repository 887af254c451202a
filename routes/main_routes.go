package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/yoga_blog_backend/controllers"
	"github.com/HSouheill/yoga_blog_backend/websocket"
)

// Handlers bundles everything the routes dispatch to
type Handlers struct {
	Posts   *controllers.PostController
	Admin   *controllers.AdminController
	Contact *controllers.ContactController
	Hub     *websocket.Hub
	// AdminAuth guards the admin group; required
	AdminAuth echo.MiddlewareFunc
	// UploadDir is served at /uploads when set
	UploadDir string
}

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, h Handlers) {
	RegisterPostRoutes(e, h.Posts)
	RegisterAdminRoutes(e, h.Admin, h.AdminAuth)
	RegisterContactRoutes(e, h.Contact)

	if h.Hub != nil {
		e.GET("/api/ws", func(c echo.Context) error {
			return websocket.HandleWebSocket(c, h.Hub)
		})
	}
	if h.UploadDir != "" {
		RegisterFileRoutes(e, h.UploadDir)
	}
}
