package export

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"DrawingApp/internal/state"

	"github.com/jung-kurt/gofpdf"
)

// Scale converts canvas pixels to millimetres on the page.
const Scale = 0.25

// WritePDF renders shapes, bottom first, onto a single A4 page.
func WritePDF(w io.Writer, shapes []state.Shape) error {
	p := gofpdf.New("P", "mm", "A4", "")
	p.SetTitle("DrawingApp snapshot", true)
	p.AddPage()
	p.SetFont("Helvetica", "", 6)
	p.SetLineWidth(0.2)

	for _, s := range shapes {
		b := s.Bounds()
		x, y := float64(b.Origin.X)*Scale, float64(b.Origin.Y)*Scale
		width, height := float64(b.Size.Width)*Scale, float64(b.Size.Height)*Scale

		p.SetAlpha(s.Alpha(), "Normal")
		switch s := s.(type) {
		case *state.Rectangle:
			c := s.Color()
			p.SetFillColor(int(c.Red), int(c.Green), int(c.Blue))
			p.Rect(x, y, width, height, "F")
		case *state.Photo:
			if !drawImage(p, s, x, y, width, height) {
				p.SetDrawColor(120, 120, 120)
				p.Rect(x, y, width, height, "D")
				p.Text(x+1, y+3, s.ID())
			}
		}
		if err := p.Error(); err != nil {
			return fmt.Errorf("render %s: %w", s.ID(), err)
		}
	}
	p.SetAlpha(1, "Normal")

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// drawImage places the photo bytes if gofpdf can decode them.
func drawImage(p *gofpdf.Fpdf, photo *state.Photo, x, y, w, h float64) bool {
	imageType := imageTypeOf(photo.ImageData())
	if imageType == "" {
		return false
	}
	opts := gofpdf.ImageOptions{ImageType: imageType}
	p.RegisterImageOptionsReader(photo.ID(), opts, bytes.NewReader(photo.ImageData()))
	if p.Err() {
		p.ClearError()
		return false
	}
	p.ImageOptions(photo.ID(), x, y, w, h, false, opts, 0, "")
	return true
}

func imageTypeOf(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	switch http.DetectContentType(data) {
	case "image/png":
		return "PNG"
	case "image/jpeg":
		return "JPG"
	case "image/gif":
		return "GIF"
	}
	return ""
}
