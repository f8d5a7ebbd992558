package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"facturas/internal/config"
	"facturas/internal/domain"
	"facturas/internal/port"
)

// ImageUploadInput is an invoice image received from a client.
type ImageUploadInput struct {
	File     io.Reader
	Size     int64
	Filename string
	// Prefix groups stored images, e.g. "drafts/<id>".
	Prefix string
}

// StoredImage is an uploaded image together with its bytes, which the OCR
// step reads without a round trip to storage.
type StoredImage struct {
	Key         string
	ContentType string
	Bytes       []byte
}

// ImageService stores invoice images in object storage.
type ImageService interface {
	Store(ctx context.Context, input ImageUploadInput) (*StoredImage, error)
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type imageService struct {
	storage  port.ObjectStorage
	cfg      *config.S3Config
	maxBytes int64
	log      zerolog.Logger
}

// NewImageService creates a new ImageService. maxSizeMB bounds uploads.
func NewImageService(storage port.ObjectStorage, cfg *config.S3Config, maxSizeMB int64, log zerolog.Logger) ImageService {
	return &imageService{
		storage:  storage,
		cfg:      cfg,
		maxBytes: maxSizeMB * 1024 * 1024,
		log:      log,
	}
}

func (s *imageService) Store(ctx context.Context, input ImageUploadInput) (*StoredImage, error) {
	if input.Size > s.maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(input.File, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, domain.ErrUnsupportedFileType
	}

	// Trust the magic bytes, not the client's file name or header.
	contentType := http.DetectContentType(data)
	ext, ok := domain.AllowedImageTypes[contentType]
	if !ok {
		s.log.Debug().Str("filename", input.Filename).Str("detected", contentType).Msg("rejected upload")
		return nil, domain.ErrUnsupportedFileType
	}

	prefix := input.Prefix
	if prefix == "" {
		prefix = "uploads"
	}
	key := fmt.Sprintf("%s/%s.%s", prefix, uuid.New(), ext)

	s.log.Info().
		Str("key", key).
		Str("filename", input.Filename).
		Str("content_type", contentType).
		Int("bytes", len(data)).
		Msg("uploading invoice image")

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: contentType,
		Size:        int64(len(data)),
	})
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("image upload failed")
		return nil, domain.ErrUploadFailed
	}

	return &StoredImage{Key: key, ContentType: contentType, Bytes: data}, nil
}

func (s *imageService) URL(ctx context.Context, key string) (string, error) {
	return s.storage.GetPresignedURL(ctx, s.cfg.Bucket, key, s.cfg.PresignExpiry)
}

func (s *imageService) Delete(ctx context.Context, key string) error {
	if err := s.storage.Delete(ctx, s.cfg.Bucket, key); err != nil {
		return fmt.Errorf("deleting image: %w", err)
	}
	return nil
}
