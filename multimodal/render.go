package multimodal

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"golang.org/x/image/draw"
)

// Renderer produces the image of a page. page is 0-based.
type Renderer interface {
	Render(ctx context.Context, path string, page int) (image.Image, error)
}

// PdftoppmRenderer renders pages with the poppler pdftoppm tool and scales
// them to fit a square of Size pixels.
type PdftoppmRenderer struct {
	// Binary is the pdftoppm executable. Empty means "pdftoppm" on PATH.
	Binary string
	DPI    int
	Size   int
}

// Available reports whether the pdftoppm binary can be found.
func (r PdftoppmRenderer) Available() bool {
	_, err := exec.LookPath(r.binary())
	return err == nil
}

func (r PdftoppmRenderer) binary() string {
	if r.Binary == "" {
		return "pdftoppm"
	}
	return r.Binary
}

// Render renders one page to PNG in a temporary directory and decodes it.
func (r PdftoppmRenderer) Render(ctx context.Context, path string, page int) (image.Image, error) {
	dir, err := os.MkdirTemp("", "outline-render-")
	if err != nil {
		return nil, fmt.Errorf("creating render dir: %w", err)
	}
	defer os.RemoveAll(dir)

	n := strconv.Itoa(page + 1)
	prefix := filepath.Join(dir, "page")
	cmd := exec.CommandContext(ctx, r.binary(),
		"-png",
		"-r", strconv.Itoa(r.DPI),
		"-f", n,
		"-l", n,
		"-singlefile",
		path,
		prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm page %s: %w: %s", n, err, out)
	}

	f, err := os.Open(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("opening rendered page: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding rendered page: %w", err)
	}
	return Fit(img, r.Size), nil
}

// Fit scales img down so that neither side exceeds size, keeping the aspect
// ratio. Images that already fit, and a non-positive size, are returned
// unchanged.
func Fit(img image.Image, size int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if size <= 0 || (w <= size && h <= size) {
		return img
	}

	scale := float64(size) / float64(max(w, h))
	nw := max(1, int(float64(w)*scale))
	nh := max(1, int(float64(h)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
