package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/oklog/ulid/v2"

	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/storage"
)

var ErrUnsupportedFormat = errors.New("unsupported image format: only jpeg, png and webp are allowed")

const ContentTypeWebP = "image/webp"

// ImageOptions tune the upload pipeline. Zero values take the defaults.
type ImageOptions struct {
	MaxDimension int     // longest side after downscaling, default 1600
	Quality      float32 // starting WebP quality, default 80
	MinQuality   float32 // lowest quality tried when over MaxBytes, default 50
	MaxBytes     int     // target encoded size, default 400KB
	MaxUpload    int64   // largest accepted source file, default 10MB
}

func (o ImageOptions) withDefaults() ImageOptions {
	if o.MaxDimension <= 0 {
		o.MaxDimension = 1600
	}
	if o.Quality <= 0 {
		o.Quality = 80
	}
	if o.MinQuality <= 0 || o.MinQuality > o.Quality {
		o.MinQuality = 50
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = 400 * 1024
	}
	if o.MaxUpload <= 0 {
		o.MaxUpload = 10 << 20
	}
	return o
}

// ImageService turns uploads into downscaled WebP files in storage.
type ImageService struct {
	storage storage.FileStorage
	opts    ImageOptions
}

func NewImageService(storage storage.FileStorage, opts ImageOptions) *ImageService {
	return &ImageService{
		storage: storage,
		opts:    opts.withDefaults(),
	}
}

// StoreImage decodes a jpeg, png or webp upload, downscales it, encodes it
// as WebP and stores it under a fresh ULID key, which is returned.
func (s *ImageService) StoreImage(ctx context.Context, file io.Reader) (string, error) {
	buffer, err := io.ReadAll(io.LimitReader(file, s.opts.MaxUpload+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(buffer)) > s.opts.MaxUpload {
		return "", fmt.Errorf("%w: file larger than %d bytes", ErrUnsupportedFormat, s.opts.MaxUpload)
	}

	img, err := decodeImage(buffer)
	if err != nil {
		return "", err
	}

	img = imaging.Fit(img, s.opts.MaxDimension, s.opts.MaxDimension, imaging.Lanczos)

	encoded, quality, err := s.encode(img)
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	key := ulid.Make().String() + ".webp"
	stored, err := s.storage.Upload(ctx, bytes.NewReader(encoded), key, ContentTypeWebP)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	b := img.Bounds()
	slog.Debug("Image stored",
		"key", stored,
		"width", b.Dx(),
		"height", b.Dy(),
		"quality", quality,
		"source_bytes", len(buffer),
		"stored_bytes", len(encoded))
	return stored, nil
}

// Open returns the stored WebP file.
func (s *ImageService) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.storage.Download(ctx, key)
}

func (s *ImageService) Exists(ctx context.Context, key string) (bool, error) {
	return s.storage.Exists(ctx, key)
}

// Delete removes stored images, logging failures rather than returning them.
func (s *ImageService) Delete(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			slog.Warn("Failed to delete image", "key", key, "error", err)
		}
	}
}

func (s *ImageService) URL(key string) string {
	return s.storage.GetURL(key)
}

// encode lowers the quality in steps of 5 until the result fits MaxBytes
// or MinQuality is reached.
func (s *ImageService) encode(img image.Image) ([]byte, float32, error) {
	quality := s.opts.Quality
	for {
		buf := new(bytes.Buffer)
		if err := webp.Encode(buf, img, &webp.Options{Quality: quality}); err != nil {
			return nil, quality, err
		}
		if buf.Len() <= s.opts.MaxBytes || quality-5 < s.opts.MinQuality {
			return buf.Bytes(), quality, nil
		}
		quality -= 5
	}
}

func decodeImage(buffer []byte) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	switch http.DetectContentType(buffer) {
	case "image/jpeg", "image/png":
		img, err = imaging.Decode(bytes.NewReader(buffer), imaging.AutoOrientation(true))
	case ContentTypeWebP:
		img, err = webp.Decode(bytes.NewReader(buffer))
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	return img, nil
}
