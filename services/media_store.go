package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/HSouheill/yoga_blog_backend/models"
	"github.com/HSouheill/yoga_blog_backend/utils"
)

var (
	ErrMediaTooLarge    = errors.New("media file too large")
	ErrUnsupportedMedia = errors.New("unsupported media file")
)

// MediaUpload is one file handed to a MediaStore
type MediaUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Type resolves the upload's media type from its content type
func (u MediaUpload) Type() models.MediaType {
	return utils.ResolveMediaType(u.ContentType)
}

// MediaStore hosts uploaded media and returns where it can be fetched
type MediaStore interface {
	Upload(ctx context.Context, upload MediaUpload) (models.MediaItem, error)
	Delete(ctx context.Context, item models.MediaItem) error
	Name() string
}

// checkUpload applies the size and type limits shared by every backend
func checkUpload(upload MediaUpload, maxBytes int64) error {
	if maxBytes > 0 && upload.Size > maxBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrMediaTooLarge, upload.Filename, upload.Size, maxBytes)
	}
	if err := utils.ValidateFileType(utils.CleanFilename(upload.Filename), upload.Type()); err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedMedia, err)
	}
	return nil
}

// limitReader stops reading one byte past maxBytes so oversize streams can be detected
func limitReader(r io.Reader, maxBytes int64) io.Reader {
	if maxBytes <= 0 {
		return r
	}
	return io.LimitReader(r, maxBytes+1)
}

// objectKey is "<type>s/<uuid><ext>", e.g. "images/0d5c...e1.jpg"
func objectKey(mediaType models.MediaType, filename string) string {
	return string(mediaType) + "s/" + uuid.New().String() + strings.ToLower(filepath.Ext(filename))
}
