package geometry

import "math"

// View maps image coordinates onto a drawing surface: a uniform scale
// followed by an offset. Keypoints are always stored in image space and
// converted through a View for drawing and pointer handling.
type View struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// IdentityView returns a view where image and surface coordinates coincide.
func IdentityView() View {
	return View{Scale: 1}
}

// FitView fits an image of the given size inside the surface, preserving
// aspect ratio, then multiplies by zoom and centers the result. Without an
// image the view is a plain zoom anchored at the origin.
func FitView(imageW, imageH, surfaceW, surfaceH int, zoom float64) View {
	if zoom <= 0 {
		zoom = 1
	}
	if imageW <= 0 || imageH <= 0 || surfaceW <= 0 || surfaceH <= 0 {
		v := IdentityView()
		v.Scale *= zoom
		return v
	}

	fit := math.Min(float64(surfaceW)/float64(imageW), float64(surfaceH)/float64(imageH))
	scale := fit * zoom
	return View{
		Scale:   scale,
		OffsetX: (float64(surfaceW) - float64(imageW)*scale) / 2,
		OffsetY: (float64(surfaceH) - float64(imageH)*scale) / 2,
	}
}

// Transform returns the image-to-surface affine transform.
func (v View) Transform() AffineTransform {
	return Translation(v.OffsetX, v.OffsetY).Compose(Scale(v.Scale, v.Scale))
}

// ToScreen converts image coordinates to surface coordinates.
func (v View) ToScreen(p Point2D) Point2D {
	return v.Transform().Apply(p)
}

// ToImage converts surface coordinates back to image coordinates.
// A degenerate (zero-scale) view returns the point unchanged.
func (v View) ToImage(p Point2D) Point2D {
	inv, ok := v.Transform().Inverse()
	if !ok {
		return p
	}
	return inv.Apply(p)
}

// Placement returns the surface rectangle covered by an image of the given size.
func (v View) Placement(imageW, imageH int) Rect {
	return Rect{
		X:      v.OffsetX,
		Y:      v.OffsetY,
		Width:  float64(imageW) * v.Scale,
		Height: float64(imageH) * v.Scale,
	}
}
