package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/yoga_blog_backend/models"
	"github.com/HSouheill/yoga_blog_backend/services"
)

// PostController serves the public feed and detail pages
type PostController struct {
	Posts *services.PostService
}

func NewPostController(posts *services.PostService) *PostController {
	return &PostController{Posts: posts}
}

// ListPosts returns the feed, newest first (GET /api/posts)
func (pc *PostController) ListPosts(c echo.Context) error {
	posts, err := pc.Posts.Summaries(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, models.PostsResponse{
		Status:  http.StatusOK,
		Message: "Posts retrieved successfully",
		Data:    posts,
	})
}

// GetPost returns one post for the detail view (GET /api/posts/:id)
func (pc *PostController) GetPost(c echo.Context) error {
	post, err := pc.Posts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, models.PostResponse{
		Status:  http.StatusOK,
		Message: "Post retrieved successfully",
		Data:    post,
	})
}

// GetPostQR returns a PNG QR code of the post's share link (GET /api/posts/:id/qr)
func (pc *PostController) GetPostQR(c echo.Context) error {
	post, err := pc.Posts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	size := 0
	if raw := c.QueryParam("size"); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "Invalid size")
		}
	}

	png, err := services.QRCodePNG(post.ShareURL, services.ClampQRSize(size))
	if err != nil {
		return errorResponse(c, err)
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Blob(http.StatusOK, "image/png", png)
}
