// Package render draws a background image and an editable pose skeleton onto
// an injected drawing surface.
package render

import (
	"image"
	"image/color"

	"pose-editor/internal/pose"
	"pose-editor/pkg/colorutil"
	"pose-editor/pkg/geometry"
)

// Skeleton styling.
const (
	LineWidth      = 3.0
	LineAlpha      = 0.7
	PointRadius    = 6.0
	SelectedRadius = 8.0
	MinPointAlpha  = 0.3
	OutlineWidth   = 2.0
	LabelOffset    = 10.0
)

// Surface is a 2-D drawing target. All coordinates are surface pixels.
type Surface interface {
	Size() (width, height int)
	Clear(bg color.Color)
	DrawImage(img image.Image, dst geometry.Rect)
	// DrawLine strokes a line whose color runs linearly from fromColor to toColor.
	DrawLine(from, to geometry.Point2D, fromColor, toColor color.RGBA, width, alpha float64)
	DrawCircle(center geometry.Point2D, radius float64, fill color.RGBA, fillAlpha float64, stroke color.RGBA, strokeWidth float64)
	// DrawText draws text with its bottom-center at anchor, outline first then fill.
	DrawText(text string, anchor geometry.Point2D, fill, outline color.RGBA)
}

// Options controls what Render draws beyond the points themselves.
type Options struct {
	SelectedID string
	Zoom       float64
	ShowLabels bool
	Background color.Color
}

// Layout returns the view used to place img and the skeleton on a surface
// of the given size. A nil image yields a plain zoom from the origin.
func Layout(surfaceW, surfaceH int, img image.Image, zoom float64) geometry.View {
	if img == nil {
		return geometry.FitView(0, 0, surfaceW, surfaceH, zoom)
	}
	b := img.Bounds()
	return geometry.FitView(b.Dx(), b.Dy(), surfaceW, surfaceH, zoom)
}

// Render clears the surface and draws the image, the connections and the
// keypoints. It keeps no state between calls.
func Render(s Surface, img image.Image, points pose.PointSet, opts Options) {
	w, h := s.Size()
	bg := opts.Background
	if bg == nil {
		bg = color.Transparent
	}
	s.Clear(bg)

	view := Layout(w, h, img, opts.Zoom)
	if img != nil {
		b := img.Bounds()
		s.DrawImage(img, view.Placement(b.Dx(), b.Dy()))
	}

	drawConnections(s, points, view)
	drawKeypoints(s, points, view, opts)
}

func drawConnections(s Surface, points pose.PointSet, view geometry.View) {
	for _, c := range pose.Connections {
		from, okFrom := points.Get(c.From)
		to, okTo := points.Get(c.To)
		if !okFrom || !okTo {
			continue
		}
		s.DrawLine(
			view.ToScreen(from.Point()),
			view.ToScreen(to.Point()),
			pose.ColorFor(c.From),
			pose.ColorFor(c.To),
			LineWidth,
			LineAlpha,
		)
	}
}

func drawKeypoints(s Surface, points pose.PointSet, view geometry.View, opts Options) {
	for _, kp := range points {
		center := view.ToScreen(kp.Point())

		radius := PointRadius
		if kp.ID == opts.SelectedID {
			radius = SelectedRadius
		}
		alpha := kp.ConfidenceOrDefault()
		if alpha < MinPointAlpha {
			alpha = MinPointAlpha
		}
		alpha = colorutil.Clamp01(alpha)
		s.DrawCircle(center, radius, pose.ColorFor(kp.ID), alpha, colorutil.White, OutlineWidth)

		if opts.ShowLabels {
			anchor := geometry.Point2D{X: center.X, Y: center.Y - LabelOffset}
			s.DrawText(kp.ID, anchor, colorutil.White, colorutil.Black)
		}
	}
}
