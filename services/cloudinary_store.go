package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/HSouheill/yoga_blog_backend/models"
)

// CloudinaryStore uploads media to Cloudinary with an upload preset
type CloudinaryStore struct {
	cld      *cloudinary.Cloudinary
	preset   string
	folder   string
	maxBytes int64
}

func NewCloudinaryStore(cloudinaryURL, preset, folder string, maxBytes int64) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary configuration error: %w", err)
	}
	return &CloudinaryStore{cld: cld, preset: preset, folder: folder, maxBytes: maxBytes}, nil
}

func (s *CloudinaryStore) Name() string { return "cloudinary" }

func (s *CloudinaryStore) Upload(ctx context.Context, upload MediaUpload) (models.MediaItem, error) {
	if err := checkUpload(upload, s.maxBytes); err != nil {
		return models.MediaItem{}, err
	}

	mediaType := upload.Type()
	result, err := s.cld.Upload.Upload(ctx, upload.Reader, uploader.UploadParams{
		UploadPreset: s.preset,
		Folder:       s.folder,
		ResourceType: string(mediaType),
	})
	if err != nil {
		return models.MediaItem{}, fmt.Errorf("cloudinary upload %s: %w", upload.Filename, err)
	}
	if result.Error.Message != "" {
		return models.MediaItem{}, fmt.Errorf("cloudinary upload %s: %s", upload.Filename, result.Error.Message)
	}
	if result.SecureURL == "" {
		return models.MediaItem{}, errors.New("cloudinary upload returned no url")
	}

	// Use the type Cloudinary resolved; "raw" and such fall back to ours
	resolved := models.MediaType(result.ResourceType)
	if !resolved.Valid() {
		resolved = mediaType
	}

	item := models.MediaItem{
		URL:      result.SecureURL,
		Type:     resolved,
		PublicID: result.PublicID,
	}
	if resolved == models.MediaVideo {
		item.ThumbnailURL = videoPosterURL(result.SecureURL)
	}
	return item, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, item models.MediaItem) error {
	if item.PublicID == "" {
		return nil
	}
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     item.PublicID,
		ResourceType: string(item.Type),
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %s: %w", item.PublicID, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy %s: %s", item.PublicID, res.Error.Message)
	}
	return nil
}

// videoPosterURL swaps a Cloudinary video URL's extension for .jpg, which
// Cloudinary serves as the first frame.
func videoPosterURL(videoURL string) string {
	dot := strings.LastIndex(videoURL, ".")
	slash := strings.LastIndex(videoURL, "/")
	if dot <= slash {
		return videoURL + ".jpg"
	}
	return videoURL[:dot] + ".jpg"
}
