// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"recipebox/internal/config"
	"recipebox/internal/middleware"
	"recipebox/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	DefaultUploadDir      = "static/uploads"
	DefaultMaxImageWidth  = 1200
	DefaultMaxImageHeight = 1200
	jpegQuality           = 85
	webpQuality           = 80
)

// ErrNoImage signals that the upload carried no usable image (missing
// filename or a disallowed extension). Callers treat this as "proceed without
// an image", unlike a decode failure, which is a real validation error.
var ErrNoImage = errors.New("no image provided")

// ImageService validates, decodes, downscales, and persists uploaded images.
type ImageService struct {
	uploadDir   string
	allowedExts map[string]struct{}
	maxWidth    int
	maxHeight   int
}

// NewImageService builds the intake pipeline from configuration. A nil config
// falls back to the package defaults.
func NewImageService(cfg *config.Config) *ImageService {
	uploadDir := DefaultUploadDir
	maxWidth := DefaultMaxImageWidth
	maxHeight := DefaultMaxImageHeight
	exts := []string{"png", "jpg", "jpeg", "gif", "webp"}

	if cfg != nil {
		if cfg.UploadDir != "" {
			uploadDir = cfg.UploadDir
		}
		if cfg.MaxImageWidth > 0 {
			maxWidth = cfg.MaxImageWidth
		}
		if cfg.MaxImageHeight > 0 {
			maxHeight = cfg.MaxImageHeight
		}
		if parsed := cfg.Extensions(); len(parsed) > 0 {
			exts = parsed
		}
	}

	allowed := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		allowed[e] = struct{}{}
	}

	return &ImageService{
		uploadDir:   uploadDir,
		allowedExts: allowed,
		maxWidth:    maxWidth,
		maxHeight:   maxHeight,
	}
}

// Save runs the full intake pipeline and returns the storage-relative path
// (e.g. "uploads/cake_1700000000000.png") to record on the post. It returns
// ErrNoImage for a missing filename or disallowed extension, and a validation
// error for data that cannot be decoded. Nothing is written unless the whole
// pipeline succeeds.
func (s *ImageService) Save(filename string, data []byte) (string, error) {
	if filename == "" || len(data) == 0 {
		return "", ErrNoImage
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if _, ok := s.allowedExts[ext]; !ok {
		middleware.ImagesRejected.WithLabelValues("extension").Inc()
		return "", ErrNoImage
	}

	base := secureFilename(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if base == "" {
		base = "image"
	}
	// Millisecond timestamp keeps concurrent uploads of the same original
	// name from colliding.
	stamped := fmt.Sprintf("%s_%d.%s", base, time.Now().UnixMilli(), ext)

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		middleware.ImagesRejected.WithLabelValues("decode").Inc()
		return "", models.NewValidationError("Uploaded file is not a valid image")
	}

	resized := resizeToFit(decoded, s.maxWidth, s.maxHeight)

	encoded, err := encodeByExtension(resized, ext)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	if err := writeBytesToFile(filepath.Join(s.uploadDir, stamped), encoded); err != nil {
		return "", models.NewInternalError(err)
	}
	middleware.ImagesStored.WithLabelValues(ext).Inc()

	return filepath.ToSlash(filepath.Join(filepath.Base(s.uploadDir), stamped)), nil
}

// Remove deletes a previously stored image, best-effort. The relative path is
// the one Save returned.
func (s *ImageService) Remove(relPath string) {
	if relPath == "" {
		return
	}
	_ = os.Remove(s.AbsolutePath(relPath))
}

// Exists reports whether the stored image file is still on disk.
func (s *ImageService) Exists(relPath string) bool {
	if relPath == "" {
		return false
	}
	_, err := os.Stat(s.AbsolutePath(relPath))
	return err == nil
}

// AbsolutePath resolves a storage-relative path against the upload root.
func (s *ImageService) AbsolutePath(relPath string) string {
	return filepath.Join(filepath.Dir(s.uploadDir), filepath.FromSlash(relPath))
}

// secureFilename strips path components and any character outside
// [A-Za-z0-9._-], mapping spaces to underscores.
func secureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "._")
}

// resizeToFit downscales src so neither dimension exceeds the maximum,
// preserving aspect ratio. Images already within bounds pass through
// untouched; nothing is ever upscaled.
func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

// encodeByExtension re-encodes the image in the format implied by the
// sanitized filename's extension.
func encodeByExtension(img image.Image, ext string) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	var err error
	switch ext {
	case "jpg", "jpeg":
		err = jpeg.Encode(buf, img, &jpeg.Options{Quality: jpegQuality})
	case "png":
		err = png.Encode(buf, img)
	case "gif":
		err = gif.Encode(buf, img, nil)
	case "webp":
		err = webp.Encode(buf, img, &webp.Options{Quality: webpQuality})
	default:
		err = fmt.Errorf("no encoder for extension %q", ext)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeBytesToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
