package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/todobabyrio/todobaby_api/internal/service"
	"github.com/todobabyrio/todobaby_api/internal/utils"
)

// ImageUploader stores product images.
type ImageUploader interface {
	Upload(ctx context.Context, filename string, data []byte) (*service.UploadedImage, error)
	Delete(ctx context.Context, key string) error
}

// ImageHandler handles product image uploads and removals.
type ImageHandler struct {
	images   ImageUploader
	maxBytes int64
}

// NewImageHandler constructs an ImageHandler. Uploads larger than maxBytes
// are rejected with 413.
func NewImageHandler(images ImageUploader, maxBytes int64) *ImageHandler {
	return &ImageHandler{images: images, maxBytes: maxBytes}
}

// UploadImage handles POST /v1/admin/images (multipart field "file")
func (h *ImageHandler) UploadImage(c *gin.Context) {
	// Leave room for the multipart envelope around the file itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, utils.ErrImageTooLarge, "Failed to upload image")
			return
		}
		utils.Error(c, 400, "INVALID_REQUEST", "Missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Failed to read file")
		return
	}

	img, err := h.images.Upload(c.Request.Context(), header.Filename, data)
	if err != nil {
		respondError(c, err, "Failed to upload image")
		return
	}
	utils.Success(c, 201, "Image uploaded", img)
}

// DeleteImage handles DELETE /v1/admin/images/*key
func (h *ImageHandler) DeleteImage(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if err := h.images.Delete(c.Request.Context(), key); err != nil {
		respondError(c, err, "Failed to delete image")
		return
	}
	utils.Success(c, 200, "Image deleted", gin.H{"key": key})
}
