//go:build ocr

package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// createTestPNG creates a white image with a black block. OCR may or may not
// find words in it; the tests only check the calls succeed.
func createTestPNG(width, height int) []byte {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	for x := 10; x < 50; x++ {
		for y := 10; y < 30; y++ {
			img.Set(x, y, color.Black)
		}
	}

	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func TestRecognizeWords(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	defer client.Close()

	if err := client.SetLanguage("eng"); err != nil {
		t.Fatalf("SetLanguage failed: %v", err)
	}
	if err := client.SetPageSegMode(PSMSparseText); err != nil {
		t.Fatalf("SetPageSegMode failed: %v", err)
	}

	words, err := client.RecognizeWords(createTestPNG(100, 50))
	if err != nil {
		t.Fatalf("RecognizeWords failed: %v", err)
	}
	for _, w := range words {
		if w.Text == "" {
			t.Error("recognised word with empty text")
		}
		if w.Confidence < 0 || w.Confidence > 1 {
			t.Errorf("confidence %v outside [0, 1]", w.Confidence)
		}
	}
}

func TestClose(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	var nilClient *Client
	if err := nilClient.Close(); err != nil {
		t.Errorf("Close on nil client failed: %v", err)
	}
}
