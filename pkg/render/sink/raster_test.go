package sink

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/matzehuels/noisering/pkg/errors"
	"github.com/matzehuels/noisering/pkg/hsb"
)

func gray(img image.Image, x, y int) uint32 {
	r, g, b, _ := img.At(x, y).RGBA()
	return (r + g + b) / 3 >> 8
}

func drawSquare(c *Raster, lo, hi float64) {
	c.MoveTo(lo, lo)
	c.LineTo(hi, lo)
	c.LineTo(hi, hi)
	c.LineTo(lo, hi)
	c.ClosePath()
}

func TestRasterStroke(t *testing.T) {
	c := NewRaster()
	if err := c.CreateCanvas(100, 100); err != nil {
		t.Fatal(err)
	}
	c.ColorMode(hsb.DefaultMode)
	c.Background(hsb.White)
	c.NoFill()
	c.Stroke(hsb.Black)
	c.StrokeWeight(4)
	drawSquare(c, 10, 90)

	img := c.Image()
	if got := img.Bounds().Dx(); got != 100 {
		t.Errorf("width = %d, want 100", got)
	}
	if g := gray(img, 50, 10); g != 0 {
		t.Errorf("edge pixel gray = %d, want 0", g)
	}
	if g := gray(img, 50, 50); g != 255 {
		t.Errorf("interior pixel gray = %d, want 255", g)
	}
	if g := gray(img, 2, 2); g != 255 {
		t.Errorf("background pixel gray = %d, want 255", g)
	}
}

func TestRasterScale(t *testing.T) {
	c := NewRaster(WithScale(2))
	if err := c.CreateCanvas(50, 50); err != nil {
		t.Fatal(err)
	}
	c.Background(hsb.White)
	c.NoFill()
	c.Stroke(hsb.Black)
	c.StrokeWeight(2)
	drawSquare(c, 5, 45)

	img := c.Image()
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("bounds = %v, want 100x100", b)
	}
	if g := gray(img, 50, 10); g != 0 {
		t.Errorf("scaled edge pixel gray = %d, want 0", g)
	}
}

func TestRasterEncodePNG(t *testing.T) {
	c := NewRaster()
	if err := c.EncodePNG(&bytes.Buffer{}); !errors.Is(err, errors.ErrCodeNotSetup) {
		t.Errorf("EncodePNG() before CreateCanvas = %v, want %v", err, errors.ErrCodeNotSetup)
	}

	if err := c.CreateCanvas(40, 30); err != nil {
		t.Fatal(err)
	}
	c.Background(hsb.White)

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG() error: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("decoded bounds = %v, want 40x30", b)
	}
}

func TestRasterInvalidCanvas(t *testing.T) {
	tests := []struct {
		name string
		c    *Raster
		w, h int
	}{
		{"zero width", NewRaster(), 0, 10},
		{"negative scale", NewRaster(WithScale(-1)), 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.c.CreateCanvas(tt.w, tt.h); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("CreateCanvas() = %v, want %v", err, errors.ErrCodeInvalidInput)
			}
		})
	}
}
