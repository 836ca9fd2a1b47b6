package render

import (
	"image"
	"image/color"
	"log"
	"sync"

	"pose-editor/pkg/colorutil"
	"pose-editor/pkg/geometry"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const labelFontSize = 12

var (
	labelFaceOnce sync.Once
	labelFont     *truetype.Font
)

// labelFace returns a Go Regular face for labels, or nil if the embedded
// font cannot be parsed, in which case gg's built-in face is used.
func labelFace() font.Face {
	labelFaceOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			log.Printf("Render: failed to parse label font: %v", err)
			return
		}
		labelFont = f
	})
	if labelFont == nil {
		return nil
	}
	return truetype.NewFace(labelFont, &truetype.Options{
		Size:    labelFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// RasterSurface draws into an in-memory RGBA image using gg.
type RasterSurface struct {
	im *image.RGBA
	dc *gg.Context
}

var _ Surface = (*RasterSurface)(nil)

// NewRasterSurface creates a transparent surface of the given size.
func NewRasterSurface(width, height int) *RasterSurface {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	im := image.NewRGBA(image.Rect(0, 0, width, height))
	dc := gg.NewContextForRGBA(im)
	if face := labelFace(); face != nil {
		dc.SetFontFace(face)
	}
	return &RasterSurface{im: im, dc: dc}
}

// Image returns the backing image. It is updated in place by later draws.
func (s *RasterSurface) Image() *image.RGBA {
	return s.im
}

// SavePNG writes the current surface to a PNG file.
func (s *RasterSurface) SavePNG(path string) error {
	return s.dc.SavePNG(path)
}

func (s *RasterSurface) Size() (int, int) {
	return s.dc.Width(), s.dc.Height()
}

func (s *RasterSurface) Clear(bg color.Color) {
	s.dc.SetColor(bg)
	s.dc.Clear()
}

func (s *RasterSurface) DrawImage(img image.Image, dst geometry.Rect) {
	if img == nil || dst.Empty() {
		return
	}
	r := image.Rect(int(dst.X), int(dst.Y), int(dst.X+dst.Width), int(dst.Y+dst.Height))
	draw.BiLinear.Scale(s.im, r, img, img.Bounds(), draw.Over, nil)
}

func (s *RasterSurface) DrawLine(from, to geometry.Point2D, fromColor, toColor color.RGBA, width, alpha float64) {
	if from == to {
		s.dc.SetColor(colorutil.WithAlpha(fromColor, alpha))
	} else {
		grad := gg.NewLinearGradient(from.X, from.Y, to.X, to.Y)
		grad.AddColorStop(0, colorutil.WithAlpha(fromColor, alpha))
		grad.AddColorStop(1, colorutil.WithAlpha(toColor, alpha))
		s.dc.SetStrokeStyle(grad)
	}
	s.dc.SetLineWidth(width)
	s.dc.SetLineCap(gg.LineCapRound)
	s.dc.DrawLine(from.X, from.Y, to.X, to.Y)
	s.dc.Stroke()
}

func (s *RasterSurface) DrawCircle(center geometry.Point2D, radius float64, fill color.RGBA, fillAlpha float64, stroke color.RGBA, strokeWidth float64) {
	s.dc.DrawCircle(center.X, center.Y, radius)
	s.dc.SetColor(colorutil.WithAlpha(fill, fillAlpha))
	s.dc.FillPreserve()
	s.dc.SetColor(stroke)
	s.dc.SetLineWidth(strokeWidth)
	s.dc.Stroke()
}

// outlineOffsets are the eight neighbours used to build a 1px text outline.
var outlineOffsets = [8][2]float64{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

func (s *RasterSurface) DrawText(text string, anchor geometry.Point2D, fill, outline color.RGBA) {
	if text == "" {
		return
	}
	s.dc.SetColor(outline)
	for _, o := range outlineOffsets {
		s.dc.DrawStringAnchored(text, anchor.X+o[0], anchor.Y+o[1], 0.5, 0)
	}
	s.dc.SetColor(fill)
	s.dc.DrawStringAnchored(text, anchor.X, anchor.Y, 0.5, 0)
}
