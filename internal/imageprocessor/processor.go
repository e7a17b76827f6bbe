package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Processor resizes and re-encodes uploaded images before they reach
// the object store.
type Processor struct {
	quality      int // JPEG quality (1-100)
	maxDimension int // longest edge after resize
}

func NewProcessor(quality, maxDimension int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	if maxDimension <= 0 {
		maxDimension = 1600
	}
	return &Processor{
		quality:      quality,
		maxDimension: maxDimension,
	}
}

// Process decodes the image, scales it down to fit the configured
// maximum dimension (never scales up) and re-encodes in the original
// format. Non-JPEG/PNG inputs are rejected.
func (p *Processor) Process(reader io.Reader) (io.Reader, error) {
	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := p.resize(img)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
	case "png":
		if err := png.Encode(&buf, resized); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported image format: %s", format)
	}

	return &buf, nil
}

// resize scales the image to fit maxDimension, preserving aspect ratio.
func (p *Processor) resize(img image.Image) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= p.maxDimension && height <= p.maxDimension {
		return img
	}

	newWidth := p.maxDimension
	newHeight := p.maxDimension
	if width > height {
		newHeight = height * p.maxDimension / width
	} else {
		newWidth = width * p.maxDimension / height
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return dst
}

// IsValidImage reports whether the reader starts with a recognized
// image header (JPEG, PNG, GIF or WebP). Only the header is parsed, so
// a truncated body still passes; the sniff is a cheap gate, not a full
// decode.
func IsValidImage(reader io.Reader) bool {
	_, _, err := image.DecodeConfig(reader)
	return err == nil
}
