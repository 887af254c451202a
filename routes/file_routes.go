package routes

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/yoga_blog_backend/models"
	"github.com/HSouheill/yoga_blog_backend/services"
)

// RegisterFileRoutes serves the local media store's files
func RegisterFileRoutes(e *echo.Echo, dir string) {
	e.GET(services.LocalMediaURLPrefix+"/*", ServeFile(dir))
}

// ServeFile handles serving uploaded files with proper security checks
func ServeFile(dir string) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Param("*")
		if path == "" {
			return fileNotFound(c)
		}

		// Clean the path to prevent directory traversal
		cleanPath := filepath.Clean(filepath.FromSlash(path))
		if cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator)) || filepath.IsAbs(cleanPath) {
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Access denied - invalid path",
			})
		}

		fullPath := filepath.Join(dir, cleanPath)
		info, err := os.Stat(fullPath)
		if err != nil {
			if os.IsNotExist(err) {
				return fileNotFound(c)
			}
			c.Logger().Errorf("Error accessing file %s: %v", fullPath, err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Error accessing file",
			})
		}

		// Don't allow directory listing
		if info.IsDir() {
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Access denied - directory listing not allowed",
			})
		}

		// Stored names are random uuids, so a file never changes once written
		c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		c.Response().Header().Set("Expires", time.Now().AddDate(1, 0, 0).UTC().Format(http.TimeFormat))

		return c.File(fullPath)
	}
}

func fileNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, models.Response{
		Status:  http.StatusNotFound,
		Message: "File not found",
	})
}
