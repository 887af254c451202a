package controllers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/yoga_blog_backend/models"
	"github.com/HSouheill/yoga_blog_backend/services"
)

// AdminController handles the PIN-gated upload and delete flows
type AdminController struct {
	Gate  *services.AdminGate
	Posts *services.PostService
}

func NewAdminController(gate *services.AdminGate, posts *services.PostService) *AdminController {
	return &AdminController{Gate: gate, Posts: posts}
}

// VerifyPin checks the PIN modal and issues an admin session token (POST /api/admin/verify-pin)
func (ac *AdminController) VerifyPin(c echo.Context) error {
	var req models.VerifyPinRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Pin = strings.TrimSpace(req.Pin)

	if err := ac.Gate.Verify(req.Pin); err != nil {
		c.Logger().Warnf("Failed PIN attempt from %s", c.RealIP())
		return errorResponse(c, err)
	}

	token, expiresAt, err := ac.Gate.IssueToken()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "PIN verified",
		Data:    models.AdminSession{Token: token, ExpiresAt: expiresAt},
	})
}

// ListPosts returns every post for the delete modal (GET /api/admin/posts)
func (ac *AdminController) ListPosts(c echo.Context) error {
	posts, err := ac.Posts.Summaries(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, models.PostsResponse{
		Status:  http.StatusOK,
		Message: "Posts retrieved successfully",
		Data:    posts,
	})
}

// CreatePost stores a new post (POST /api/admin/posts). A multipart body
// carries the fields plus one or more "media" files; a JSON body carries
// already hosted media items.
func (ac *AdminController) CreatePost(c echo.Context) error {
	var req models.NewPostRequest
	var uploads []services.MediaUpload

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return badRequest(c, "Invalid form data")
		}
		defer form.RemoveAll()

		req = models.NewPostRequest{
			Title:    formValue(form, "title"),
			Desc:     formValue(form, "desc"),
			Category: formValue(form, "category"),
			Author:   formValue(form, "author"),
		}

		files, err := openUploads(form.File["media"])
		defer closeUploads(files)
		if err != nil {
			c.Logger().Errorf("Could not open uploaded media: %v", err)
			return badRequest(c, msgUploadFailed)
		}
		uploads = mediaUploads(form.File["media"], files)
	} else if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return errorResponse(c, err)
	}

	post, err := ac.Posts.Create(c.Request().Context(), req, uploads)
	if err != nil {
		return errorResponse(c, err)
	}

	c.Logger().Infof("Post %s created with %d media item(s)", post.ID, len(post.Media))
	return c.JSON(http.StatusCreated, models.PostResponse{
		Status:  http.StatusCreated,
		Message: "Post uploaded successfully!",
		Data:    ac.Posts.Detail(*post),
	})
}

// UploadMedia hosts one file and returns its media item (POST /api/admin/media)
func (ac *AdminController) UploadMedia(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		fileHeader, err = c.FormFile("media")
	}
	if err != nil {
		return badRequest(c, "A media file is required")
	}

	files, err := openUploads([]*multipart.FileHeader{fileHeader})
	defer closeUploads(files)
	if err != nil {
		c.Logger().Errorf("Could not open uploaded media: %v", err)
		return badRequest(c, msgUploadFailed)
	}

	item, err := ac.Posts.UploadMedia(c.Request().Context(), mediaUploads([]*multipart.FileHeader{fileHeader}, files)[0])
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Media uploaded successfully",
		Data:    item,
	})
}

// DeletePost removes a post and its media (DELETE /api/admin/posts/:id)
func (ac *AdminController) DeletePost(c echo.Context) error {
	id := c.Param("id")
	if err := ac.Posts.Delete(c.Request().Context(), id); err != nil {
		return errorResponse(c, err)
	}

	c.Logger().Infof("Post %s deleted", id)
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Post deleted successfully.",
		Data:    map[string]string{"id": id},
	})
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// openUploads opens every file header; on error the files opened so far are still returned for closing
func openUploads(headers []*multipart.FileHeader) ([]multipart.File, error) {
	files := make([]multipart.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return files, err
		}
		files = append(files, f)
	}
	return files, nil
}

func closeUploads(files []multipart.File) {
	for _, f := range files {
		f.Close()
	}
}

func mediaUploads(headers []*multipart.FileHeader, files []multipart.File) []services.MediaUpload {
	uploads := make([]services.MediaUpload, len(files))
	for i, f := range files {
		uploads[i] = services.MediaUpload{
			Filename:    headers[i].Filename,
			ContentType: headers[i].Header.Get(echo.HeaderContentType),
			Size:        headers[i].Size,
			Reader:      f,
		}
	}
	return uploads
}
