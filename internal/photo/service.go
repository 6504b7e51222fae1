package photo

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/gabriel-vasile/mimetype"

	"bookswap/internal/apperror"
	"bookswap/internal/swap"
)

type Service struct {
	store    Store
	baseURL  string
	maxBytes int64
}

// NewService serves photos under baseURL/<key> and refuses uploads above maxBytes.
func NewService(store Store, baseURL string, maxBytes int64) *Service {
	return &Service{store: store, baseURL: baseURL, maxBytes: maxBytes}
}

// Upload sniffs the media type from content, ignoring the client's claim.
func (s *Service) Upload(ctx context.Context, r io.Reader) (Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return Photo{}, apperror.BadRequest("invalidPhotoUpload").WithCause(err)
	}
	if len(data) == 0 {
		return Photo{}, apperror.BadRequest("photoIsEmpty")
	}
	if int64(len(data)) > s.maxBytes {
		return Photo{}, apperror.BadRequest("photoTooLarge", strconv.FormatInt(s.maxBytes, 10))
	}

	mt := mimetype.Detect(data)
	mediaType := mt.String()
	if !swap.SupportedCoverMediaTypes[mediaType] {
		return Photo{}, apperror.BadRequest("unsupportedPhotoMediaType", mediaType)
	}

	key, err := newKey(mt.Extension())
	if err != nil {
		return Photo{}, err
	}
	if err := s.store.Put(ctx, key, mediaType, data); err != nil {
		return Photo{}, fmt.Errorf("put photo: %w", err)
	}

	return Photo{
		Key:       key,
		URL:       s.URL(key),
		MediaType: mediaType,
		Size:      int64(len(data)),
	}, nil
}

func (s *Service) URL(key string) string {
	return s.baseURL + "/" + key
}

// Read returns the stored bytes and their media type.
func (s *Service) Read(ctx context.Context, key string) ([]byte, string, error) {
	rc, err := s.store.Open(ctx, key)
	if err != nil {
		return nil, "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, "", fmt.Errorf("read photo: %w", err)
	}
	return data, mimetype.Detect(data).String(), nil
}

func (s *Service) Delete(ctx context.Context, key string) error {
	return s.store.Delete(ctx, key)
}
