package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pageza/foodgram/backend/internal/storage"
)

var errInvalidImage = errors.New("invalid image data URI")

// allowedImageTypes maps the data URI subtype to the stored file extension.
var allowedImageTypes = map[string]string{
	"png":  "png",
	"jpeg": "jpg",
	"jpg":  "jpg",
	"gif":  "gif",
	"webp": "webp",
}

// decodedImage is a validated inline image awaiting storage.
type decodedImage struct {
	data        []byte
	ext         string
	contentType string
}

// decodeDataURI parses data:image/<type>;base64,<payload>.
func decodeDataURI(uri string) (*decodedImage, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return nil, errInvalidImage
	}
	mediaType, found := strings.CutPrefix(header, "data:")
	if !found {
		return nil, errInvalidImage
	}
	mediaType, found = strings.CutSuffix(mediaType, ";base64")
	if !found {
		return nil, errInvalidImage
	}
	subtype, found := strings.CutPrefix(strings.ToLower(mediaType), "image/")
	if !found {
		return nil, errInvalidImage
	}
	ext, ok := allowedImageTypes[subtype]
	if !ok {
		return nil, errInvalidImage
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil || len(data) == 0 {
		return nil, errInvalidImage
	}
	return &decodedImage{data: data, ext: ext, contentType: "image/" + subtype}, nil
}

// ImageService saves decoded recipe images and builds their public URLs.
type ImageService struct {
	store storage.ImageStore
}

func NewImageService(store storage.ImageStore) *ImageService {
	return &ImageService{store: store}
}

// save stores img under a fresh key and returns the key.
func (s *ImageService) save(ctx context.Context, img *decodedImage) (string, error) {
	key := storage.KeyPrefix + uuid.NewString() + "." + img.ext
	if err := s.store.Save(ctx, key, img.data, img.contentType); err != nil {
		return "", err
	}
	return key, nil
}

// remove deletes key, logging instead of failing.
func (s *ImageService) remove(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to remove recipe image")
	}
}

// URL returns the public URL of a stored key.
func (s *ImageService) URL(key string) string {
	return s.store.URL(key)
}
