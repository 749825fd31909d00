package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/andikahilman/studentbook/internal/observability"
	"github.com/andikahilman/studentbook/internal/storage"
)

var (
	// ErrUploadTooLarge indicates the payload exceeded the configured limit.
	ErrUploadTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrUploadTypeNotAllowed indicates the media type is not permitted.
	ErrUploadTypeNotAllowed = errors.New("only image files are allowed (png, jpg, jpeg, gif, webp)")
)

// allowedImageTypes is the media-type allow-list for student images.
var allowedImageTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/jpg":  {},
	"image/gif":  {},
	"image/webp": {},
}

// UploadService validates an optional incoming image and persists it,
// exposing only the derived filename to downstream components.
type UploadService interface {
	Store(ctx context.Context, file *multipart.FileHeader) (string, error)
}

type uploadService struct {
	storage storage.FileStorage
	logger  zerolog.Logger
	maxSize int64
	seq     atomic.Uint64
	tracer  trace.Tracer
}

// NewUploadService constructs an upload service writing into the given storage.
func NewUploadService(store storage.FileStorage, maxSizeMB int, logger zerolog.Logger) UploadService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &uploadService{
		storage: store,
		logger:  logger.With().Str("component", "upload_service").Logger(),
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		tracer:  otel.Tracer("github.com/andikahilman/studentbook/internal/service/upload"),
	}
}

// Store validates the file's media type against the image allow-list, derives
// a collision-free filename and persists the content. Nothing is written when
// validation fails.
func (s *uploadService) Store(ctx context.Context, file *multipart.FileHeader) (string, error) {
	ctx, span := s.tracer.Start(ctx, "upload.store")
	defer span.End()

	if file == nil {
		err := errors.New("file is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return "", err
	}

	span.SetAttributes(
		attribute.String("upload.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("upload.request_size", file.Size),
	)

	if file.Size > s.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrUploadTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return "", ErrUploadTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return "", err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return "", err
	}
	if int64(buf.Len()) > s.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrUploadTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return "", ErrUploadTooLarge
	}

	mediaType := s.mediaType(file, buf.Bytes())
	span.SetAttributes(attribute.String("upload.media_type", mediaType))
	if _, ok := allowedImageTypes[mediaType]; !ok {
		observability.UploadRejected().WithLabelValues("type").Inc()
		span.RecordError(ErrUploadTypeNotAllowed)
		span.SetStatus(codes.Error, "type not allowed")
		return "", ErrUploadTypeNotAllowed
	}

	name := s.deriveName(file.Filename)
	span.SetAttributes(attribute.String("upload.stored_name", name))

	if err := s.storage.Save(ctx, name, bytes.NewReader(buf.Bytes())); err != nil {
		observability.UploadRejected().WithLabelValues("storage").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return "", err
	}

	observability.UploadAccepted().WithLabelValues(mediaType).Inc()
	span.SetStatus(codes.Ok, "stored")
	s.logger.Debug().Str("stored_name", name).Str("media_type", mediaType).Msg("upload persisted")

	return name, nil
}

// mediaType sniffs the content and falls back to the declared Content-Type
// only when sniffing is inconclusive.
func (s *uploadService) mediaType(file *multipart.FileHeader, content []byte) string {
	detected := strings.ToLower(mimetype.Detect(content).String())
	if base, _, found := strings.Cut(detected, ";"); found {
		detected = strings.TrimSpace(base)
	}
	if detected != "" && detected != "application/octet-stream" {
		return detected
	}

	declared := strings.ToLower(strings.TrimSpace(file.Header.Get("Content-Type")))
	if base, _, found := strings.Cut(declared, ";"); found {
		declared = strings.TrimSpace(base)
	}
	return declared
}

// deriveName sanitizes the original basename and prefixes a millisecond
// timestamp plus a process-wide sequence number. The sequence keeps two
// uploads of the same name within the same millisecond distinct.
func (s *uploadService) deriveName(original string) string {
	return fmt.Sprintf("%d-%d-%s", time.Now().UnixMilli(), s.seq.Add(1), sanitizeFileName(original))
}

// sanitizeFileName keeps only [A-Za-z0-9.-_] from the original basename,
// replacing everything else with an underscore.
func sanitizeFileName(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if safe == "" {
		safe = "upload"
	}
	return safe
}
