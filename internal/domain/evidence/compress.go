package evidence

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

const (
	// MaxWidth is the largest width an evidence photo is stored at. Taller
	// originals are scaled down uniformly; narrower ones pass through.
	MaxWidth = 800

	// JPEGQuality is the lossy re-encode quality factor.
	JPEGQuality = 65
)

// Payload is a compressed evidence photo ready for upload.
type Payload struct {
	JPEG   []byte
	Width  int
	Height int
}

// Compress decodes the raw image, downscales it so width does not exceed
// MaxWidth while preserving aspect ratio, and re-encodes as JPEG. It is CPU
// bound and should be run off the caller's request path; the verification
// state machine owns that goroutine.
func Compress(raw []byte) (*Payload, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if img.Bounds().Dx() > MaxWidth {
		// Height 0 keeps the aspect ratio.
		img = resize.Resize(MaxWidth, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to re-encode image: %w", err)
	}

	return &Payload{
		JPEG:   buf.Bytes(),
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}
