package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/HSouheill/yoga_blog_backend/models"
)

var (
	// Allowed image extensions
	allowedImageExts = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
		".heic": true,
	}
	// Allowed video extensions
	allowedVideoExts = map[string]bool{
		".mp4":  true,
		".mov":  true,
		".webm": true,
		".m4v":  true,
	}

	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)
)

// CleanFilename removes path components and any character outside [a-zA-Z0-9.-]
func CleanFilename(filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	return unsafeFilenameChars.ReplaceAllString(filename, "")
}

// ResolveMediaType maps an upload's content type to a post media type:
// anything that is not a video is treated as an image.
func ResolveMediaType(contentType string) models.MediaType {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "video") {
		return models.MediaVideo
	}
	return models.MediaImage
}

// ValidateFileType checks if the file extension is allowed for the given media type
func ValidateFileType(filename string, mediaType models.MediaType) error {
	ext := strings.ToLower(filepath.Ext(filename))

	switch mediaType {
	case models.MediaImage:
		if !allowedImageExts[ext] {
			return fmt.Errorf("unsupported image format %q. Allowed formats: jpg, jpeg, png, gif, webp, heic", ext)
		}
	case models.MediaVideo:
		if !allowedVideoExts[ext] {
			return fmt.Errorf("unsupported video format %q. Allowed formats: mp4, mov, webm, m4v", ext)
		}
	default:
		return fmt.Errorf("invalid media type. Must be 'image' or 'video'")
	}
	return nil
}
