// Package rendertest provides a Surface that records draw calls instead of
// rasterizing them.
package rendertest

import (
	"image"
	"image/color"

	"pose-editor/pkg/geometry"
)

// Op kinds recorded by Recorder.
const (
	OpClear  = "clear"
	OpImage  = "image"
	OpLine   = "line"
	OpCircle = "circle"
	OpText   = "text"
)

// Op is one recorded draw call. Only the fields relevant to Kind are set.
type Op struct {
	Kind string

	Background color.Color
	Image      image.Image
	Rect       geometry.Rect

	From, To             geometry.Point2D
	FromColor, ToColor   color.RGBA
	Width, Alpha         float64
	Center               geometry.Point2D
	Radius               float64
	Fill, Stroke         color.RGBA
	FillAlpha, StrokeW   float64
	Text                 string
	Anchor               geometry.Point2D
	TextFill, TextStroke color.RGBA
}

// Recorder is a fixed-size Surface that records every call.
type Recorder struct {
	W, H int
	Ops  []Op
}

// New returns an empty recorder of the given size.
func New(width, height int) *Recorder {
	return &Recorder{W: width, H: height}
}

func (r *Recorder) Size() (int, int) { return r.W, r.H }

func (r *Recorder) Clear(bg color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpClear, Background: bg})
}

func (r *Recorder) DrawImage(img image.Image, dst geometry.Rect) {
	r.Ops = append(r.Ops, Op{Kind: OpImage, Image: img, Rect: dst})
}

func (r *Recorder) DrawLine(from, to geometry.Point2D, fromColor, toColor color.RGBA, width, alpha float64) {
	r.Ops = append(r.Ops, Op{
		Kind: OpLine, From: from, To: to,
		FromColor: fromColor, ToColor: toColor,
		Width: width, Alpha: alpha,
	})
}

func (r *Recorder) DrawCircle(center geometry.Point2D, radius float64, fill color.RGBA, fillAlpha float64, stroke color.RGBA, strokeWidth float64) {
	r.Ops = append(r.Ops, Op{
		Kind: OpCircle, Center: center, Radius: radius,
		Fill: fill, FillAlpha: fillAlpha, Stroke: stroke, StrokeW: strokeWidth,
	})
}

func (r *Recorder) DrawText(text string, anchor geometry.Point2D, fill, outline color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpText, Text: text, Anchor: anchor, TextFill: fill, TextStroke: outline})
}

// Reset discards all recorded calls.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}

// Filter returns the recorded calls of one kind, in order.
func (r *Recorder) Filter(kind string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Count returns how many calls of the given kind were recorded.
func (r *Recorder) Count(kind string) int {
	return len(r.Filter(kind))
}
