package service

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todobabyrio/todobaby_api/internal/utils"
)

type putCall struct {
	key         string
	contentType string
	size        int
}

type fakeImageStore struct {
	puts    []putCall
	deletes []string
	failKey string
}

func (s *fakeImageStore) Put(_ context.Context, key string, data []byte, contentType string) (string, error) {
	if s.failKey != "" && strings.HasPrefix(key, s.failKey) {
		return "", errors.New("bucket unavailable")
	}
	s.puts = append(s.puts, putCall{key, contentType, len(data)})
	return "https://cdn.test/" + key, nil
}

func (s *fakeImageStore) Delete(_ context.Context, key string) error {
	if s.failKey != "" && strings.HasPrefix(key, s.failKey) {
		return errors.New("bucket unavailable")
	}
	s.deletes = append(s.deletes, key)
	return nil
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(600, 400, color.White), imaging.PNG))
	return buf.Bytes()
}

func TestImageService_Upload(t *testing.T) {
	store := &fakeImageStore{}
	svc := NewImageService(store, 10<<20)

	img, err := svc.Upload(context.Background(), "foto.png", testPNG(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(img.Key, "public/"))
	assert.True(t, strings.HasSuffix(img.Key, ".png"))
	assert.Equal(t, "https://cdn.test/"+img.Key, img.URL)
	assert.Equal(t, "image/png", img.ContentType)
	assert.True(t, strings.HasPrefix(img.ThumbnailURL, "https://cdn.test/public/thumbs/"))

	require.Len(t, store.puts, 2)
	assert.Equal(t, "image/jpeg", store.puts[1].contentType)
}

func TestImageService_ThumbnailFailureIsIgnored(t *testing.T) {
	store := &fakeImageStore{failKey: "public/thumbs/"}
	svc := NewImageService(store, 0)

	img, err := svc.Upload(context.Background(), "foto.png", testPNG(t))
	require.NoError(t, err)
	assert.Empty(t, img.ThumbnailURL)
	assert.Len(t, store.puts, 1)
}

func TestImageService_Rejects(t *testing.T) {
	store := &fakeImageStore{}
	svc := NewImageService(store, 16)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "big.png", testPNG(t))
	assert.ErrorIs(t, err, utils.ErrImageTooLarge)

	svc = NewImageService(store, 0)
	_, err = svc.Upload(ctx, "notes.txt", []byte("hola mundo"))
	assert.ErrorIs(t, err, utils.ErrUnsupportedImage)

	store.failKey = "public/"
	_, err = svc.Upload(ctx, "foto.png", testPNG(t))
	assert.Error(t, err)
	assert.Empty(t, store.puts)
}

func TestImageService_Delete(t *testing.T) {
	store := &fakeImageStore{}
	svc := NewImageService(store, 0)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "/public/1700000000000_abc123.png"))
	assert.Equal(t, []string{"public/1700000000000_abc123.png", "public/thumbs/1700000000000_abc123.jpg"}, store.deletes)

	store = &fakeImageStore{failKey: "public/thumbs/"}
	svc = NewImageService(store, 0)
	require.NoError(t, svc.Delete(ctx, "public/1700000000000_abc123.png"))
	assert.Equal(t, []string{"public/1700000000000_abc123.png"}, store.deletes)

	store.failKey = "public/"
	assert.Error(t, svc.Delete(ctx, "public/1700000000000_abc123.png"))

	for _, key := range []string{"", "private/x.png", "public/thumbs/x.jpg", "public/../secret.png"} {
		err := svc.Delete(ctx, key)
		assert.True(t, utils.IsValidation(err), key)
	}
}
