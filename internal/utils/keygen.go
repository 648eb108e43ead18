package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// RandomHex returns n random bytes hex encoded.
func RandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateObjectName builds a collision-resistant file name:
// {unixMillis}_{random}.{ext}
func GenerateObjectName(now time.Time, ext string) (string, error) {
	suffix, err := RandomHex(6)
	if err != nil {
		return "", err
	}
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		return fmt.Sprintf("%d_%s", now.UnixMilli(), suffix), nil
	}
	return fmt.Sprintf("%d_%s.%s", now.UnixMilli(), suffix, ext), nil
}
