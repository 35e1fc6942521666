// Package media normalizes uploaded venue and show images before they are
// forwarded to the backend file store.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	MaxUploadBytes = 5 << 20
	MaxDimension   = 1920
)

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image exceeds 5MB")
	ErrEmpty           = errors.New("empty upload")
)

type Image struct {
	Data        []byte
	ContentType string
	Filename    string
	Width       int
	Height      int
}

var formats = map[string]imaging.Format{
	"image/png":  imaging.PNG,
	"image/jpeg": imaging.JPEG,
	"image/gif":  imaging.GIF,
}

var extensions = map[imaging.Format]string{
	imaging.PNG:  ".png",
	imaging.JPEG: ".jpg",
	imaging.GIF:  ".gif",
}

// Normalize checks the upload against the accepted types and size, then
// downscales it to fit MaxDimension on both sides. Images that already fit
// are returned unchanged.
func Normalize(data []byte, filename string) (Image, error) {
	const op = "media.Normalize"

	if len(data) == 0 {
		return Image{}, fmt.Errorf("%s: %w", op, ErrEmpty)
	}

	if len(data) > MaxUploadBytes {
		return Image{}, fmt.Errorf("%s: %w", op, ErrTooLarge)
	}

	contentType := http.DetectContentType(data)
	format, ok := formats[contentType]
	if !ok {
		return Image{}, fmt.Errorf("%s: %w: %s", op, ErrUnsupportedType, contentType)
	}

	img, err := decode(data, format)
	if err != nil {
		return Image{}, fmt.Errorf("%s: decode: %w", op, err)
	}

	out := Image{
		Data:        data,
		ContentType: contentType,
		Filename:    cleanName(filename, format),
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
	}

	if out.Width <= MaxDimension && out.Height <= MaxDimension {
		return out, nil
	}

	resized := imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(90)); err != nil {
		return Image{}, fmt.Errorf("%s: encode: %w", op, err)
	}

	out.Data = buf.Bytes()
	out.Width = resized.Bounds().Dx()
	out.Height = resized.Bounds().Dy()

	return out, nil
}

// decode reads only the first frame of an animated gif.
func decode(data []byte, format imaging.Format) (image.Image, error) {
	if format == imaging.GIF {
		g, err := gif.DecodeAll(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		if len(g.Image) == 0 {
			return nil, errors.New("no frames in gif")
		}
		return g.Image[0], nil
	}

	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}

func cleanName(filename string, format imaging.Format) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem = "upload"
	}

	want := extensions[format]
	ext = strings.ToLower(ext)
	if ext == want || (format == imaging.JPEG && ext == ".jpeg") {
		return stem + ext
	}

	return stem + want
}
