package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/todobabyrio/todobaby_api/internal/utils"
)

// respondError maps service errors onto the response envelope. Unknown
// errors are logged and reported as 500 with fallback as the message.
func respondError(c *gin.Context, err error, fallback string) {
	var verr *utils.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.Error(c, 400, "VALIDATION_ERROR", verr.Message)
	case errors.Is(err, utils.ErrProductNotFound):
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
	case errors.Is(err, utils.ErrInvalidQuantity):
		utils.Error(c, 400, "INVALID_QUANTITY", "Quantity must be at least 1")
	case errors.Is(err, utils.ErrEmptyCart):
		utils.Error(c, 400, "EMPTY_CART", "Your cart is empty")
	case errors.Is(err, utils.ErrInvalidCredentials):
		utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, utils.ErrInvalidToken):
		utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
	case errors.Is(err, utils.ErrUnsupportedImage):
		utils.Error(c, 415, "UNSUPPORTED_IMAGE", "File is not a supported image")
	case errors.Is(err, utils.ErrImageTooLarge):
		utils.Error(c, 413, "IMAGE_TOO_LARGE", "Image exceeds the upload limit")
	case errors.Is(err, utils.ErrAssistantDisabled):
		utils.Error(c, 503, "ASSISTANT_DISABLED", "Assistant is not configured")
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
		utils.Error(c, 500, "INTERNAL_ERROR", fallback)
	}
}

// paramID parses a positive integer path parameter. It writes a 400 and
// returns false when the value is invalid.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		utils.Error(c, 400, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}
