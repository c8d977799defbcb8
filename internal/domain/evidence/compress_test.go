package evidence

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodeTestImage(t *testing.T, w, h int, asPNG bool) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 10 {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	var err error
	if asPNG {
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, nil)
	}
	if err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestCompressDownscalesWideImage(t *testing.T) {
	raw := encodeTestImage(t, 1600, 1200, false)

	p, err := Compress(raw)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if p.Width != MaxWidth {
		t.Fatalf("width = %d, want %d", p.Width, MaxWidth)
	}
	if p.Height != 600 {
		t.Fatalf("height = %d, want 600 (aspect preserved)", p.Height)
	}

	out, _, err := image.Decode(bytes.NewReader(p.JPEG))
	if err != nil {
		t.Fatalf("output not decodable: %v", err)
	}
	if out.Bounds().Dx() != MaxWidth || out.Bounds().Dy() != 600 {
		t.Fatalf("encoded dimensions %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestCompressLeavesNarrowImageUnscaled(t *testing.T) {
	raw := encodeTestImage(t, 640, 480, false)

	p, err := Compress(raw)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if p.Width != 640 || p.Height != 480 {
		t.Fatalf("narrow image was scaled: %dx%d", p.Width, p.Height)
	}
}

func TestCompressAcceptsPNG(t *testing.T) {
	raw := encodeTestImage(t, 1000, 500, true)

	p, err := Compress(raw)
	if err != nil {
		t.Fatalf("compress png: %v", err)
	}
	if p.Width != MaxWidth || p.Height != 400 {
		t.Fatalf("got %dx%d, want 800x400", p.Width, p.Height)
	}
}

func TestCompressRejectsGarbage(t *testing.T) {
	_, err := Compress([]byte("definitely not an image"))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("got %v, want ErrDecode", err)
	}
}
