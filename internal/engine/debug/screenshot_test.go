package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSavePixelsFlipsRows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := NewScreenshots(dir, "levelview")
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	// 1x2 image: bottom row red, top row blue (OpenGL order).
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := s.SavePixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("SavePixels: %v", err)
	}
	if want := filepath.Join(dir, "levelview_2024-05-01_12-30-00.000.png"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}

	r, _, b, _ := img.At(0, 0).RGBA()
	if b>>8 != 255 || r != 0 {
		t.Errorf("top pixel should be blue, got r=%d b=%d", r>>8, b>>8)
	}
	r, _, b, _ = img.At(0, 1).RGBA()
	if r>>8 != 255 || b != 0 {
		t.Errorf("bottom pixel should be red, got r=%d b=%d", r>>8, b>>8)
	}
}

func TestSavePixelsRejectsBadInput(t *testing.T) {
	s := NewScreenshots(t.TempDir(), "x")
	tests := []struct {
		name   string
		pixels []byte
		w, h   int
	}{
		{"short buffer", make([]byte, 7), 1, 2},
		{"zero size", nil, 0, 0},
	}
	for _, tt := range tests {
		if _, err := s.SavePixels(tt.pixels, tt.w, tt.h); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}
