// Package geometry provides the 2-D types shared by hit-testing, rendering and the canvas.
package geometry

import (
	"math"

	"github.com/golang/geo/r1"
	geor2 "github.com/golang/geo/r2"
	"gonum.org/v1/gonum/spatial/r2"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Vec returns the point as a gonum vector.
func (p Point2D) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// FromVec converts a gonum vector back to a Point2D.
func FromVec(v r2.Vec) Point2D {
	return Point2D{X: v.X, Y: v.Y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	return r2.Norm(r2.Sub(p.Vec(), other.Vec()))
}

// Add returns the sum of two points.
func (p Point2D) Add(other Point2D) Point2D {
	return FromVec(r2.Add(p.Vec(), other.Vec()))
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return FromVec(r2.Sub(p.Vec(), other.Vec()))
}

// Scale returns the point scaled by a factor.
func (p Point2D) Scale(factor float64) Point2D {
	return FromVec(r2.Scale(factor, p.Vec()))
}

// Lerp interpolates between a and b; t=0 gives a, t=1 gives b.
func Lerp(a, b Point2D, t float64) Point2D {
	return a.Add(b.Sub(a).Scale(t))
}

// Rect represents a rectangle with floating-point coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect creates a new Rect.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point2D) bool {
	return r.geo().ContainsPoint(geor2.Point{X: p.X, Y: p.Y})
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point2D {
	c := r.geo().Center()
	return Point2D{X: c.X, Y: c.Y}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Rect) geo() geor2.Rect {
	return geor2.Rect{
		X: r1.Interval{Lo: r.X, Hi: r.X + r.Width},
		Y: r1.Interval{Lo: r.Y, Hi: r.Y + r.Height},
	}
}

func rectFromGeo(g geor2.Rect) Rect {
	lo, size := g.Lo(), g.Size()
	return Rect{X: lo.X, Y: lo.Y, Width: size.X, Height: size.Y}
}

// BoundingBox computes the axis-aligned bounding box of a set of points.
func BoundingBox(points []Point2D) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	pts := make([]geor2.Point, len(points))
	for i, p := range points {
		pts[i] = geor2.Point{X: p.X, Y: p.Y}
	}
	return rectFromGeo(geor2.RectFromPoints(pts...))
}

// AffineTransform represents a 2x3 affine transformation matrix.
// [a b tx]
// [c d ty]
type AffineTransform struct {
	A, B, TX float64
	C, D, TY float64
}

// Identity returns the identity transform.
func Identity() AffineTransform {
	return AffineTransform{A: 1, D: 1}
}

// Translation returns a translation transform.
func Translation(tx, ty float64) AffineTransform {
	return AffineTransform{A: 1, D: 1, TX: tx, TY: ty}
}

// Scale returns a scaling transform.
func Scale(sx, sy float64) AffineTransform {
	return AffineTransform{A: sx, D: sy}
}

// Apply applies the transform to a point.
func (t AffineTransform) Apply(p Point2D) Point2D {
	return Point2D{
		X: t.A*p.X + t.B*p.Y + t.TX,
		Y: t.C*p.X + t.D*p.Y + t.TY,
	}
}

// Compose returns this transform composed with another (this * other).
func (t AffineTransform) Compose(other AffineTransform) AffineTransform {
	return AffineTransform{
		A:  t.A*other.A + t.B*other.C,
		B:  t.A*other.B + t.B*other.D,
		TX: t.A*other.TX + t.B*other.TY + t.TX,
		C:  t.C*other.A + t.D*other.C,
		D:  t.C*other.B + t.D*other.D,
		TY: t.C*other.TX + t.D*other.TY + t.TY,
	}
}

// Inverse returns the inverse transform, if it exists.
func (t AffineTransform) Inverse() (AffineTransform, bool) {
	det := t.A*t.D - t.B*t.C
	if math.Abs(det) < 1e-10 {
		return AffineTransform{}, false
	}

	invDet := 1.0 / det
	return AffineTransform{
		A:  t.D * invDet,
		B:  -t.B * invDet,
		TX: (t.B*t.TY - t.D*t.TX) * invDet,
		C:  -t.C * invDet,
		D:  t.A * invDet,
		TY: (t.C*t.TX - t.A*t.TY) * invDet,
	}, true
}
