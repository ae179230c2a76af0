package processing

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"math"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/huy11113/cinetaste-ai/internal/llm"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxBytes     = 10 << 20
	DefaultMaxDimension = 2048

	// MaxPixels bounds the decoded size of an upload. A small compressed
	// file can still declare a huge canvas.
	MaxPixels = 40_000_000

	encodeQuality = 90
)

var allowedTypes = []string{"image/jpeg", "image/png", "image/webp"}

// FileError rejects an upload before it is decoded.
type FileError struct {
	Reason string
}

func (e *FileError) Error() string { return "invalid image: " + e.Reason }

// ConversionError reports bytes that passed validation but could not be decoded.
type ConversionError struct {
	Err error
}

func (e *ConversionError) Error() string { return fmt.Sprintf("image conversion failed: %v", e.Err) }

func (e *ConversionError) Unwrap() error { return e.Err }

type ImagePreprocessor struct {
	maxBytes     int
	maxDimension int
}

func NewImagePreprocessor(maxBytes, maxDimension int) *ImagePreprocessor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	return &ImagePreprocessor{maxBytes: maxBytes, maxDimension: maxDimension}
}

// Validate checks size and type. The declared MIME type and the sniffed
// content must both be one of jpeg, png or webp.
func (p *ImagePreprocessor) Validate(data []byte, mimeType string) error {
	if len(data) == 0 {
		return &FileError{Reason: "file is empty"}
	}
	if len(data) > p.maxBytes {
		return &FileError{Reason: fmt.Sprintf("file is %d bytes, the limit is %d", len(data), p.maxBytes)}
	}

	declared := canonicalType(mimeType)
	if declared != "" && !allowed(declared) {
		return &FileError{Reason: fmt.Sprintf("unsupported type %q, expected one of %s", declared, strings.Join(allowedTypes, ", "))}
	}

	detected := mimetype.Detect(data)
	for _, t := range allowedTypes {
		if detected.Is(t) {
			return nil
		}
	}
	return &FileError{Reason: fmt.Sprintf("content looks like %q, expected an image", detected.String())}
}

// Normalize decodes data into an opaque RGBA buffer no larger than the
// configured dimension on either side. Transparent pixels are composited
// onto white.
func (p *ImagePreprocessor) Normalize(data []byte) (*image.RGBA, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &ConversionError{Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, &ConversionError{Err: fmt.Errorf("image is %dx%d, the limit is %d pixels", cfg.Width, cfg.Height, MaxPixels)}
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &ConversionError{Err: err}
	}

	bounds := src.Bounds()
	w, h := fit(bounds.Dx(), bounds.Dy(), p.maxDimension)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	if w == bounds.Dx() && h == bounds.Dy() {
		draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	}
	return dst, nil
}

// Prepare validates and normalizes an upload and re-encodes it as the JPEG
// part attached to a generation request.
func (p *ImagePreprocessor) Prepare(data []byte, mimeType string) (*llm.Image, error) {
	if err := p.Validate(data, mimeType); err != nil {
		return nil, err
	}

	img, err := p.Normalize(data)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: encodeQuality}); err != nil {
		return nil, &ConversionError{Err: err}
	}

	return &llm.Image{
		MIMEType: "image/jpeg",
		Data:     buf.Bytes(),
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
	}, nil
}

// fit scales w x h down so neither side exceeds max, keeping the aspect ratio.
func fit(w, h, max int) (int, int) {
	if w <= max && h <= max {
		return w, h
	}

	scale := float64(max) / float64(w)
	if h > w {
		scale = float64(max) / float64(h)
	}

	nw := clamp(int(math.Round(float64(w)*scale)), max)
	nh := clamp(int(math.Round(float64(h)*scale)), max)
	return nw, nh
}

func clamp(v, max int) int {
	if v < 1 {
		return 1
	}
	if v > max {
		return max
	}
	return v
}

func canonicalType(mimeType string) string {
	if mimeType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
	}
	mediaType = strings.ToLower(mediaType)
	switch mediaType {
	case "image/jpg", "image/pjpeg":
		return "image/jpeg"
	case "application/octet-stream":
		return ""
	}
	return mediaType
}

func allowed(t string) bool {
	for _, a := range allowedTypes {
		if a == t {
			return true
		}
	}
	return false
}
