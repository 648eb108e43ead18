package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/todobabyrio/todobaby_api/internal/storage"
	"github.com/todobabyrio/todobaby_api/internal/utils"
)

// UploadedImage describes a stored product image.
type UploadedImage struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Key          string `json:"key"`
	ContentType  string `json:"contentType"`
	Size         int    `json:"size"`
}

// ImageService uploads product images to the public bucket.
type ImageService struct {
	store    storage.ImageStore
	maxBytes int64
	now      func() time.Time
}

// NewImageService constructs an ImageService.
func NewImageService(store storage.ImageStore, maxBytes int64) *ImageService {
	return &ImageService{store: store, maxBytes: maxBytes, now: time.Now}
}

// Upload stores data under a fresh public key and returns its URL. A
// square thumbnail is stored alongside; its failure does not fail the upload.
func (s *ImageService) Upload(ctx context.Context, filename string, data []byte) (*UploadedImage, error) {
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, utils.ErrImageTooLarge
	}

	contentType, ext, err := storage.DetectImage(data)
	if err != nil {
		return nil, err
	}

	key, err := storage.ObjectKey(s.now(), filename, ext)
	if err != nil {
		return nil, err
	}

	url, err := s.store.Put(ctx, key, data, contentType)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to upload image")
		return nil, err
	}

	img := &UploadedImage{URL: url, Key: key, ContentType: contentType, Size: len(data)}

	thumb, err := storage.Thumbnail(data)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Thumbnail skipped")
		return img, nil
	}
	thumbKey := storage.ThumbnailKey(key)
	if thumbURL, err := s.store.Put(ctx, thumbKey, thumb, "image/jpeg"); err != nil {
		log.Warn().Err(err).Str("key", thumbKey).Msg("Failed to upload thumbnail")
	} else {
		img.ThumbnailURL = thumbURL
	}

	log.Info().Str("key", key).Int("bytes", len(data)).Msg("Image uploaded")
	return img, nil
}

// Delete removes an uploaded image and its thumbnail. Only keys under the
// public prefix are accepted; a missing thumbnail is not an error.
func (s *ImageService) Delete(ctx context.Context, key string) error {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if !strings.HasPrefix(key, storage.PublicPrefix) ||
		strings.HasPrefix(key, storage.ThumbPrefix) ||
		strings.Contains(key, "..") {
		return utils.NewValidationError("key", "must be an uploaded image key under "+storage.PublicPrefix)
	}

	if err := s.store.Delete(ctx, key); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to delete image")
		return err
	}

	thumbKey := storage.ThumbnailKey(key)
	if err := s.store.Delete(ctx, thumbKey); err != nil {
		log.Warn().Err(err).Str("key", thumbKey).Msg("Failed to delete thumbnail")
	}

	log.Info().Str("key", key).Msg("Image deleted")
	return nil
}
