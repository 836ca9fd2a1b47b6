// Package image loads the reference photos shown behind the skeleton.
package image

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/tiff"
)

// Source is a decoded reference image and where it came from.
type Source struct {
	Path   string
	Format string
	Image  image.Image
}

// Width returns the image width in pixels.
func (s *Source) Width() int {
	if s == nil || s.Image == nil {
		return 0
	}
	return s.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (s *Source) Height() int {
	if s == nil || s.Image == nil {
		return 0
	}
	return s.Image.Bounds().Dy()
}

// Decode reads a PNG, JPEG or TIFF image from r.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// Load opens and decodes the image at path.
func Load(path string) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, format, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return &Source{Path: path, Format: format, Image: img}, nil
}

// Info describes an image without decoding its pixels.
type Info struct {
	Path   string
	Format string
	Width  int
	Height int
}

// Probe reads only the image header at path.
func Probe(path string) (Info, error) {
	file, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		return Info{}, fmt.Errorf("%s: failed to read image header: %w", filepath.Base(path), err)
	}
	return Info{Path: path, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// Loader returns a function suitable for background loading of path.
// The context is checked before the file is opened.
func Loader(path string) func(context.Context) (image.Image, error) {
	return func(ctx context.Context) (image.Image, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src, err := Load(path)
		if err != nil {
			return nil, err
		}
		return src.Image, nil
	}
}

// SupportedFormats returns the list of supported image extensions.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".tiff", ".tif"}
}

// IsSupportedFormat checks if the given path has a supported image extension.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
