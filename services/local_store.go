package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/HSouheill/yoga_blog_backend/models"
)

const (
	// LocalMediaURLPrefix is where the local store's files are served
	LocalMediaURLPrefix = "/uploads"
	thumbnailWidth      = 320
)

// LocalStore writes media to a directory on disk and builds thumbnails for it
type LocalStore struct {
	dir      string
	maxBytes int64
	// posterFrame extracts a still from a video; replaced in tests
	posterFrame func(videoPath, outPath string) error
}

func NewLocalStore(dir string, maxBytes int64) (*LocalStore, error) {
	s := &LocalStore{dir: dir, maxBytes: maxBytes, posterFrame: ffmpegPosterFrame}
	if err := s.initializeStorage(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *LocalStore) Name() string { return "local" }

// Dir is the root directory of stored files
func (s *LocalStore) Dir() string { return s.dir }

// initializeStorage creates necessary directories for file storage
func (s *LocalStore) initializeStorage() error {
	for _, sub := range []string{"images", "videos", "thumbnails"} {
		dir := filepath.Join(s.dir, sub)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}
	return nil
}

func (s *LocalStore) Upload(ctx context.Context, upload MediaUpload) (models.MediaItem, error) {
	if err := checkUpload(upload, s.maxBytes); err != nil {
		return models.MediaItem{}, err
	}

	mediaType := upload.Type()
	rel := objectKey(mediaType, upload.Filename)
	fullPath := filepath.Join(s.dir, filepath.FromSlash(rel))

	out, err := os.OpenFile(fullPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return models.MediaItem{}, fmt.Errorf("failed to create file %s: %v", fullPath, err)
	}
	written, err := io.Copy(out, limitReader(upload.Reader, s.maxBytes))
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(fullPath)
		return models.MediaItem{}, fmt.Errorf("failed to write file %s: %v", fullPath, err)
	}
	if s.maxBytes > 0 && written > s.maxBytes {
		os.Remove(fullPath)
		return models.MediaItem{}, fmt.Errorf("%w: %s exceeds %d bytes", ErrMediaTooLarge, upload.Filename, s.maxBytes)
	}

	item := models.MediaItem{
		URL:      LocalMediaURLPrefix + "/" + rel,
		Type:     mediaType,
		PublicID: rel,
	}

	// Thumbnails are a convenience; a file that cannot be decoded still uploads
	if thumb, err := s.thumbnail(fullPath, rel, mediaType); err != nil {
		log.Printf("Thumbnail for %s skipped: %v", rel, err)
	} else {
		item.ThumbnailURL = thumb
	}

	return item, nil
}

// thumbnail writes thumbnails/<name>.jpg at most thumbnailWidth wide and returns its URL
func (s *LocalStore) thumbnail(fullPath, rel string, mediaType models.MediaType) (string, error) {
	base := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	thumbRel := "thumbnails/" + base + ".jpg"
	thumbPath := filepath.Join(s.dir, filepath.FromSlash(thumbRel))

	source := fullPath
	if mediaType == models.MediaVideo {
		frame := filepath.Join(os.TempDir(), base+"-frame.jpg")
		if err := s.posterFrame(fullPath, frame); err != nil {
			return "", fmt.Errorf("failed to generate thumbnail: %v", err)
		}
		defer os.Remove(frame)
		source = frame
	}

	img, err := imaging.Open(source, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %v", err)
	}
	if img.Bounds().Dx() > thumbnailWidth {
		img = imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	}
	if err := imaging.Save(img, thumbPath, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %v", err)
	}
	return LocalMediaURLPrefix + "/" + thumbRel, nil
}

func (s *LocalStore) Delete(_ context.Context, item models.MediaItem) error {
	paths := []string{item.PublicID}
	if item.ThumbnailURL != "" {
		paths = append(paths, strings.TrimPrefix(item.ThumbnailURL, LocalMediaURLPrefix+"/"))
	}

	for _, rel := range paths {
		full, ok := s.resolve(rel)
		if !ok {
			continue
		}
		if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %v", full, err)
		}
	}
	return nil
}

// resolve maps a stored relative path to disk, refusing anything outside dir
func (s *LocalStore) resolve(rel string) (string, bool) {
	if rel == "" {
		return "", false
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || clean == ".." || filepath.IsAbs(clean) || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.Join(s.dir, clean), true
}

// ffmpegPosterFrame grabs the frame one second into the video
func ffmpegPosterFrame(videoPath, outPath string) error {
	return ffmpeg.Input(videoPath).
		Output(outPath, ffmpeg.KwArgs{"vframes": 1, "ss": "00:00:01"}).
		OverWriteOutput().
		Run()
}
