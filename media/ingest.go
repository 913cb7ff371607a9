package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"io"
	"path/filepath"
	"strings"
	"time"

	_ "image/gif"
	_ "image/png"

	"github.com/google/uuid"
	"github.com/rpupo63/devsearch-backend/errs"
	"github.com/rpupo63/devsearch-backend/models"
	"github.com/rs/zerolog"
)

const (
	MaxUploadSize = 10 << 20
	// MaxPixels bounds width*height so a tiny compressed file cannot expand into gigabytes.
	MaxPixels   = 89_478_485
	jpegQuality = 85
)

var allowedExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true}

// Ingestor validates uploads, re-encodes them as JPEG and hands them to a Store.
type Ingestor struct {
	store   Store
	maxSize int64
	now     func() time.Time
	logger  zerolog.Logger
}

func NewIngestor(store Store, logger zerolog.Logger) *Ingestor {
	return &Ingestor{
		store:   store,
		maxSize: MaxUploadSize,
		now:     time.Now,
		logger:  logger.With().Str("component", "media").Logger(),
	}
}

// Save stores the upload and returns its key. size is the declared size, or -1 if unknown.
// Nothing is written unless the file passes every check.
func (in *Ingestor) Save(ctx context.Context, filename string, size int64, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", errs.NewBadRequestErrorWithField("Only png, jpg, jpeg and gif images are allowed", "image")
	}
	if size > in.maxSize {
		return "", errs.NewMaxBodySizeExceededError(in.maxSize)
	}

	data, err := io.ReadAll(io.LimitReader(r, in.maxSize+1))
	if err != nil {
		return "", errs.NewMalformedPayloadError("image", err)
	}
	if int64(len(data)) > in.maxSize {
		return "", errs.NewMaxBodySizeExceededError(in.maxSize)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", errs.NewBadRequestErrorWithField("Uploaded file is not a valid image", "image")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return "", errs.NewBadRequestErrorWithField("Image dimensions are too large", "image")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", errs.NewBadRequestErrorWithField("Uploaded file is not a valid image", "image")
	}

	// JPEG has no alpha; flatten onto white.
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, rgba, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", errs.NewInternalError("could not encode image")
	}

	key := "images/" + in.now().Format("2006-01-02") + "/" + randomName() + ".jpg"
	if err := in.store.Put(ctx, key, "image/jpeg", &buf); err != nil {
		in.logger.Error().Err(err).Str("key", key).Msg("Failed to store image")
		return "", errs.NewInternalError("could not store image")
	}
	return key, nil
}

// Discard removes a previously stored image. Shared placeholders are kept and failures are only logged.
func (in *Ingestor) Discard(ctx context.Context, key string) {
	if key == "" || models.IsDefaultImage(key) {
		return
	}
	if err := in.store.Delete(ctx, key); err != nil {
		in.logger.Warn().Err(err).Str("key", key).Msg("Failed to delete old image")
	}
}

// URL resolves a stored key for templates and API clients.
func (in *Ingestor) URL(key string) string {
	return in.store.URL(key)
}

func randomName() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

// Upload is a file received from a multipart form.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

func (in *Ingestor) SaveUpload(ctx context.Context, u Upload) (string, error) {
	return in.Save(ctx, u.Filename, u.Size, u.Body)
}
