// Package storage uploads product images to the public bucket.
package storage

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/todobabyrio/todobaby_api/internal/utils"
)

const (
	// PublicPrefix is the folder every product image is stored under.
	PublicPrefix = "public/"
	// ThumbPrefix holds the square previews generated on upload.
	ThumbPrefix = "public/thumbs/"
)

// ImageStore is a bucket capable of storing publicly readable objects.
type ImageStore interface {
	// Put stores data under key without overwriting an existing object and
	// returns its public URL.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

var imageExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true, "avif": true, "bmp": true,
}

// DetectImage sniffs data and returns its MIME type and canonical extension.
// Anything that is not an image yields ErrUnsupportedImage.
func DetectImage(data []byte) (string, string, error) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", "", utils.ErrUnsupportedImage
	}
	return mt.String(), strings.TrimPrefix(mt.Extension(), "."), nil
}

// ObjectKey builds public/{unixMillis}_{random}.{ext}. The extension of the
// original file name wins; the sniffed one is used when it is missing.
func ObjectKey(now time.Time, filename, sniffedExt string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if !imageExtensions[ext] {
		ext = sniffedExt
	}
	name, err := utils.GenerateObjectName(now, ext)
	if err != nil {
		return "", err
	}
	return PublicPrefix + name, nil
}

// ThumbnailKey maps an image key to the key of its thumbnail.
func ThumbnailKey(key string) string {
	base := strings.TrimPrefix(key, PublicPrefix)
	return ThumbPrefix + strings.TrimSuffix(base, path.Ext(base)) + ".jpg"
}
