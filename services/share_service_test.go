package services

import (
	"bytes"
	"image/png"
	"testing"
)

func TestClampQRSize(t *testing.T) {
	for in, want := range map[int]int{0: DefaultQRSize, -5: DefaultQRSize, 50: MinQRSize, 300: 300, 5000: MaxQRSize} {
		if got := ClampQRSize(in); got != want {
			t.Errorf("ClampQRSize(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestQRCodePNG(t *testing.T) {
	data, err := QRCodePNG("https://yoga.test/blog/65f0c2a1b4d3e2f1a0b9c8d7", 300)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 300 {
		t.Errorf("QR size = %dx%d, want 300x300", b.Dx(), b.Dy())
	}
}
