// Package media validates and stores uploaded post images.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	"image/png"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "golang.org/x/image/bmp" // Register BMP decoder
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultMaxUploadBytes = 5 << 20
	DefaultMaxDimension   = 1920
	JPEGQuality           = 85
	// PostsDir is the subdirectory of the media root holding post images.
	PostsDir = "posts"
)

var (
	ErrEmptyUpload      = errors.New("no file uploaded")
	ErrTooLarge         = errors.New("image is too large")
	ErrUnsupportedImage = errors.New("upload a valid image: the file is either not an image or corrupted")
	ErrTypeMismatch     = errors.New("image content type mismatch")
)

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ImageStore persists validated images and returns their path relative to the media root.
type ImageStore interface {
	Save(ctx context.Context, upload Upload) (string, error)
}

// DiskStore writes images under a local media root.
type DiskStore struct {
	root     string
	maxBytes int64
	maxDim   int
}

// NewDiskStore returns a DiskStore rooted at root. Non-positive limits fall back to defaults.
func NewDiskStore(root string, maxBytes int64, maxDim int) *DiskStore {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}
	return &DiskStore{root: root, maxBytes: maxBytes, maxDim: maxDim}
}

// Root returns the directory files are written under.
func (s *DiskStore) Root() string {
	return s.root
}

// Save validates the upload, downsizes oversized images and writes the result.
func (s *DiskStore) Save(ctx context.Context, upload Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(upload.Data) == 0 {
		return "", ErrEmptyUpload
	}
	if int64(len(upload.Data)) > s.maxBytes {
		return "", fmt.Errorf("%w (max %dMB)", ErrTooLarge, s.maxBytes>>20)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(upload.Data))
	if err != nil {
		return "", ErrUnsupportedImage
	}
	if provided := normalizeContentType(upload.ContentType); strings.HasPrefix(provided, "image/") && !matchesFormat(provided, format) {
		return "", ErrTypeMismatch
	}

	data, ext := upload.Data, extensionFor(format)
	if format != "gif" && (cfg.Width > s.maxDim || cfg.Height > s.maxDim) {
		data, ext, err = s.downsize(upload.Data, format)
		if err != nil {
			return "", err
		}
	}

	rel := path.Join(PostsDir, uuid.NewString()+"."+ext)
	if err := writeFile(filepath.Join(s.root, filepath.FromSlash(rel)), data); err != nil {
		return "", err
	}
	return rel, nil
}

func (s *DiskStore) downsize(data []byte, format string) ([]byte, string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", ErrUnsupportedImage
	}
	resized := resizeToFit(src, s.maxDim)

	buf := bytes.NewBuffer(nil)
	if format == "jpeg" {
		if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "jpg", nil
	}
	// No WebP or BMP encoder is available, so those become PNG.
	if err := png.Encode(buf, resized); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "png", nil
}

func resizeToFit(src image.Image, maxSide int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxSide && h <= maxSide {
		return src
	}

	scale := float64(maxSide) / float64(w)
	if hs := float64(maxSide) / float64(h); hs < scale {
		scale = hs
	}
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func extensionFor(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return format
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(mediaType)
}

func matchesFormat(contentType, format string) bool {
	switch contentType {
	case "image/jpeg", "image/jpg", "image/pjpeg":
		return format == "jpeg"
	case "image/x-ms-bmp", "image/x-bmp":
		return format == "bmp"
	default:
		return contentType == "image/"+format
	}
}

func writeFile(target string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o600)
}
