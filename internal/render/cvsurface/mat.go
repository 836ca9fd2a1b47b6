// Package cvsurface implements a render surface backed by an OpenCV Mat.
package cvsurface

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"pose-editor/internal/render"
	"pose-editor/pkg/colorutil"
	"pose-editor/pkg/geometry"

	"gocv.io/x/gocv"
)

// gradientStep is the approximate segment length used to fake a color gradient.
const gradientStep = 4.0

const (
	labelFont      = gocv.FontHersheySimplex
	labelScale     = 0.4
	labelThickness = 1
)

// MatSurface draws into a BGR Mat. Callers must Close it.
type MatSurface struct {
	mat gocv.Mat
}

var _ render.Surface = (*MatSurface)(nil)

// New allocates a surface of the given size.
func New(width, height int) *MatSurface {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &MatSurface{mat: gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)}
}

// Close releases the underlying Mat.
func (s *MatSurface) Close() error {
	return s.mat.Close()
}

// Mat exposes the backing Mat. It remains owned by the surface.
func (s *MatSurface) Mat() *gocv.Mat {
	return &s.mat
}

// ToImage converts the surface to a Go image.
func (s *MatSurface) ToImage() (image.Image, error) {
	return s.mat.ToImage()
}

// Write saves the surface using the encoder chosen by the file extension.
func (s *MatSurface) Write(path string) error {
	if ok := gocv.IMWrite(path, s.mat); !ok {
		return fmt.Errorf("failed to write %s", path)
	}
	return nil
}

func (s *MatSurface) Size() (int, int) {
	return s.mat.Cols(), s.mat.Rows()
}

func (s *MatSurface) Clear(bg color.Color) {
	r, g, b, _ := bg.RGBA()
	s.mat.SetTo(gocv.NewScalar(float64(b>>8), float64(g>>8), float64(r>>8), 0))
}

func (s *MatSurface) DrawImage(img image.Image, dst geometry.Rect) {
	if img == nil || dst.Empty() {
		return
	}
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return
	}
	defer src.Close()

	target := image.Rect(int(dst.X), int(dst.Y), int(dst.X+dst.Width), int(dst.Y+dst.Height))
	if target.Empty() {
		return
	}
	scaled := gocv.NewMat()
	defer scaled.Close()
	gocv.Resize(src, &scaled, target.Size(), 0, 0, gocv.InterpolationLinear)

	w, h := s.Size()
	visible := target.Intersect(image.Rect(0, 0, w, h))
	if visible.Empty() {
		return
	}
	part := scaled.Region(visible.Sub(target.Min))
	defer part.Close()
	roi := s.mat.Region(visible)
	defer roi.Close()
	part.CopyTo(&roi)
}

func (s *MatSurface) DrawLine(from, to geometry.Point2D, fromColor, toColor color.RGBA, width, alpha float64) {
	s.blend(alpha, func(dst *gocv.Mat) {
		n := int(math.Ceil(from.Distance(to) / gradientStep))
		if n < 1 {
			n = 1
		}
		for i := 0; i < n; i++ {
			t0 := float64(i) / float64(n)
			t1 := float64(i+1) / float64(n)
			c := colorutil.Lerp(fromColor, toColor, (t0+t1)/2)
			gocv.Line(dst, toPoint(geometry.Lerp(from, to, t0)), toPoint(geometry.Lerp(from, to, t1)), c, thickness(width))
		}
	})
}

func (s *MatSurface) DrawCircle(center geometry.Point2D, radius float64, fill color.RGBA, fillAlpha float64, stroke color.RGBA, strokeWidth float64) {
	c := toPoint(center)
	r := int(math.Round(radius))
	s.blend(fillAlpha, func(dst *gocv.Mat) {
		gocv.Circle(dst, c, r, fill, -1)
	})
	gocv.Circle(&s.mat, c, r, stroke, thickness(strokeWidth))
}

func (s *MatSurface) DrawText(text string, anchor geometry.Point2D, fill, outline color.RGBA) {
	if text == "" {
		return
	}
	size := gocv.GetTextSize(text, labelFont, labelScale, labelThickness)
	org := image.Pt(int(math.Round(anchor.X))-size.X/2, int(math.Round(anchor.Y)))
	gocv.PutText(&s.mat, text, org, labelFont, labelScale, outline, labelThickness+2)
	gocv.PutText(&s.mat, text, org, labelFont, labelScale, fill, labelThickness)
}

// blend runs draw on a copy of the surface and mixes it back with the
// given opacity.
func (s *MatSurface) blend(alpha float64, draw func(dst *gocv.Mat)) {
	alpha = colorutil.Clamp01(alpha)
	if alpha >= 1 {
		draw(&s.mat)
		return
	}
	overlay := s.mat.Clone()
	defer overlay.Close()
	draw(&overlay)
	gocv.AddWeighted(overlay, alpha, s.mat, 1-alpha, 0, &s.mat)
}

func toPoint(p geometry.Point2D) image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

func thickness(w float64) int {
	t := int(math.Round(w))
	if t < 1 {
		return 1
	}
	return t
}
