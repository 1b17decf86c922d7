// Package ocr recognises words and their pixel boxes in rendered page
// images.
//
// The package wraps the Tesseract OCR engine via gosseract and is only
// compiled with the "ocr" build tag. Tesseract must be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr libtesseract-dev
package ocr

import "image"

// Word is a recognised word and its box in image pixels.
type Word struct {
	Text       string
	Box        image.Rectangle
	Confidence float64
}

// PageSegMode selects how Tesseract segments the page.
type PageSegMode int

// Page segmentation modes used for page images.
const (
	PSMAuto        PageSegMode = 3
	PSMSingleBlock PageSegMode = 6
	PSMSparseText  PageSegMode = 11
)
