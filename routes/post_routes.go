package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/yoga_blog_backend/controllers"
)

// RegisterPostRoutes sets up the public feed routes
func RegisterPostRoutes(e *echo.Echo, pc *controllers.PostController) {
	posts := e.Group("/api/posts")
	posts.GET("", pc.ListPosts)
	posts.GET("/:id", pc.GetPost)
	posts.GET("/:id/qr", pc.GetPostQR)
}
