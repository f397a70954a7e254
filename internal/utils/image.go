package utils

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

func IsValidImageFormat(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, format := range []string{".jpg", ".jpeg", ".png", ".webp"} {
		if ext == format {
			return true
		}
	}
	return false
}

// DecodeImage decodes a product image upload by extension, falling back to
// content sniffing.
func DecodeImage(r io.Reader, filename string) (image.Image, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".jpg", ".jpeg":
		return jpeg.Decode(r)
	case ".png":
		return png.Decode(r)
	default:
		img, _, err := image.Decode(r)
		return img, err
	}
}

// MakeThumbnail scales an image down to maxWidth, preserving aspect ratio,
// and re-encodes it as JPEG. Images already narrower are re-encoded as-is.
func MakeThumbnail(img image.Image, maxWidth uint) ([]byte, error) {
	bounds := img.Bounds()
	if uint(bounds.Dx()) > maxWidth {
		img = resize.Resize(maxWidth, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func EncodeImage(img image.Image, format string, w io.Writer, quality int) error {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case "png":
		return png.Encode(w, img)
	default:
		return errors.New("unsupported image format")
	}
}
