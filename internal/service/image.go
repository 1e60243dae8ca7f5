package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/jpeg"

	xdraw "golang.org/x/image/draw"

	"github.com/mkravets/cutout-server/internal/logger"
	"github.com/mkravets/cutout-server/internal/model"
)

// maxAnonymousUploads is the per-session quota for unauthenticated removals.
const maxAnonymousUploads = 3

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Image orchestrates the decode, segmentation, compositing and persistence
// pipeline over the blob store and segmentation engine.
type Image struct {
	storage      model.Storage
	segmenter    model.Segmenter
	backgrounds  model.BackgroundStore
	processedDir string
	keyPrefix    string
	logger       *logger.Logger
}

func NewImage(
	storage model.Storage,
	segmenter model.Segmenter,
	backgrounds model.BackgroundStore,
	processedDir string,
	logger *logger.Logger,
) *Image {
	return &Image{
		storage:      storage,
		segmenter:    segmenter,
		backgrounds:  backgrounds,
		processedDir: processedDir,
		keyPrefix:    "remove-background-imgs",
		logger:       logger,
	}
}

// AllowedExtension reports whether the filename carries one of the accepted
// image extensions (png, jpg, jpeg, case-insensitive).
func AllowedExtension(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// RemoveBackground runs the full removal pipeline: quota gate, decode,
// RGBA normalization, segmentation, local save, blob upload and URL issuance.
// For authenticated callers the produced URL is also recorded as a usable
// background, best-effort.
func (s *Image) RemoveBackground(ctx context.Context, data []byte, sess model.Session) (model.ProcessedImage, error) {
	if !sess.Authenticated && sess.UploadCount >= maxAnonymousUploads {
		return model.ProcessedImage{}, model.ErrQuotaExceeded
	}

	if len(data) == 0 {
		return model.ProcessedImage{}, model.ErrEmptyUpload
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return model.ProcessedImage{}, model.ErrUnsupportedFormat
	}

	// Lossless re-encode of the RGBA normalization is what the engine gets.
	var input bytes.Buffer
	if err := png.Encode(&input, toRGBA(src)); err != nil {
		return model.ProcessedImage{}, fmt.Errorf("failed to encode input image: %w", err)
	}

	out, err := s.segmenter.RemoveBackground(ctx, input.Bytes())
	if err != nil || len(out) == 0 {
		if err != nil {
			s.logger.Error("Image service: segmentation failed", "error", err.Error())
		}
		return model.ProcessedImage{}, model.ErrSegmentationFailed
	}
	if _, _, err := image.Decode(bytes.NewReader(out)); err != nil {
		s.logger.Error("Image service: engine returned undecodable output", "error", err.Error())
		return model.ProcessedImage{}, model.ErrSegmentationFailed
	}

	filename := fmt.Sprintf("image_rmbg_%d.png", time.Now().Unix())

	result, err := s.persist(ctx, filename, out)
	if err != nil {
		return model.ProcessedImage{}, err
	}

	if sess.Authenticated {
		// Best-effort metadata: the image result stands even if this fails.
		asset := model.BackgroundAsset{UserID: sess.UserID, URL: result.URL}
		if err := s.backgrounds.Create(ctx, asset); err != nil {
			s.logger.Error("Image service: failed to record background asset",
				"user_id", sess.UserID,
				"error", err.Error())
		}
	}

	s.logger.Info("Image service: background removed", "filename", filename)

	return result, nil
}

// ApplyBackground composites a previously produced foreground over a stored
// background, stretched to the foreground's exact dimensions.
func (s *Image) ApplyBackground(ctx context.Context, filename, backgroundURL string, sess model.Session) (model.ProcessedImage, error) {
	if !sess.Authenticated {
		return model.ProcessedImage{}, model.ErrUnauthorized
	}
	if filename == "" || backgroundURL == "" {
		return model.ProcessedImage{}, model.ErrMissingInput
	}

	fgData, err := os.ReadFile(s.localPath(filename))
	if err != nil {
		return model.ProcessedImage{}, model.ErrForegroundNotFound
	}
	fgImg, _, err := image.Decode(bytes.NewReader(fgData))
	if err != nil {
		return model.ProcessedImage{}, model.ErrForegroundNotFound
	}
	fg := toRGBA(fgImg)

	key, err := s.storage.KeyFromURL(backgroundURL)
	if err != nil {
		return model.ProcessedImage{}, model.ErrBackgroundFetch
	}

	rc, err := s.storage.Download(ctx, key)
	if err != nil {
		return model.ProcessedImage{}, model.ErrBackgroundFetch
	}
	defer rc.Close()

	bgData, err := io.ReadAll(rc)
	if err != nil {
		return model.ProcessedImage{}, model.ErrBackgroundFetch
	}
	bgImg, _, err := image.Decode(bytes.NewReader(bgData))
	if err != nil {
		return model.ProcessedImage{}, model.ErrBackgroundFetch
	}

	// Stretch to the foreground's dimensions; aspect ratio is not preserved.
	composite := image.NewRGBA(fg.Bounds())
	xdraw.BiLinear.Scale(composite, composite.Bounds(), bgImg, bgImg.Bounds(), xdraw.Src, nil)
	draw.Draw(composite, composite.Bounds(), fg, fg.Bounds().Min, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, composite); err != nil {
		return model.ProcessedImage{}, fmt.Errorf("failed to encode composite: %w", err)
	}

	newFilename := fmt.Sprintf("final_%d.png", time.Now().Unix())

	result, err := s.persist(ctx, newFilename, buf.Bytes())
	if err != nil {
		return model.ProcessedImage{}, err
	}

	s.logger.Info("Image service: background applied", "filename", newFilename)

	return result, nil
}

// UploadBackgroundAsset stores a user-supplied background directly in the
// blob store and records it. The metadata write here is fatal, unlike the
// best-effort write in RemoveBackground.
func (s *Image) UploadBackgroundAsset(ctx context.Context, originalName string, data []byte, sess model.Session) (string, error) {
	if !sess.Authenticated {
		return "", model.ErrUnauthorized
	}
	if len(data) == 0 {
		return "", model.ErrEmptyUpload
	}
	if !AllowedExtension(originalName) {
		return "", model.ErrUnsupportedFormat
	}

	key := fmt.Sprintf("%s/%d_%s", s.keyPrefix, time.Now().Unix(), sanitizeFilename(originalName))

	if err := s.storage.Upload(ctx, key, bytes.NewReader(data)); err != nil {
		s.logger.Error("Image service: failed to upload background",
			"key", key,
			"error", err.Error())
		return "", model.ErrStorageUpload
	}

	assetURL := s.storage.PublicURL(key)

	asset := model.BackgroundAsset{UserID: sess.UserID, URL: assetURL}
	if err := s.backgrounds.Create(ctx, asset); err != nil {
		return "", fmt.Errorf("failed to record background asset: %w", err)
	}

	s.logger.Info("Image service: background uploaded", "key", key, "user_id", sess.UserID)

	return assetURL, nil
}

// Download opens a locally stored artifact for streaming.
func (s *Image) Download(filename string) (io.ReadCloser, error) {
	if !AllowedExtension(filename) {
		return nil, model.ErrInvalidFormat
	}

	f, err := os.Open(s.localPath(filename))
	if err != nil {
		return nil, model.ErrNotFound
	}

	return f, nil
}

// ListBackgrounds returns the backgrounds a user has made available.
func (s *Image) ListBackgrounds(ctx context.Context, userID int64) ([]model.BackgroundAsset, error) {
	assets, err := s.backgrounds.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list backgrounds: %w", err)
	}

	return assets, nil
}

// persist writes the artifact locally, uploads it to the blob store and
// issues the public URL. The local save happens before the upload check, so
// a local copy may remain after an upload failure.
func (s *Image) persist(ctx context.Context, filename string, data []byte) (model.ProcessedImage, error) {
	if err := os.MkdirAll(s.processedDir, 0o755); err != nil {
		return model.ProcessedImage{}, fmt.Errorf("failed to create processed dir: %w", err)
	}
	if err := os.WriteFile(s.localPath(filename), data, 0o644); err != nil {
		return model.ProcessedImage{}, fmt.Errorf("failed to save artifact locally: %w", err)
	}

	key := s.keyPrefix + "/" + filename
	if err := s.storage.Upload(ctx, key, bytes.NewReader(data)); err != nil {
		s.logger.Error("Image service: failed to upload artifact",
			"key", key,
			"error", err.Error())
		return model.ProcessedImage{}, model.ErrStorageUpload
	}

	return model.ProcessedImage{
		Filename: filename,
		URL:      s.storage.PublicURL(key),
	}, nil
}

func (s *Image) localPath(filename string) string {
	// Base strips any path components a caller could smuggle in.
	return filepath.Join(s.processedDir, filepath.Base(filename))
}

func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(src.Bounds())
	draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)
	return rgba
}

// sanitizeFilename strips path components and characters unsafe for object
// keys or local paths.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	return b.String()
}
