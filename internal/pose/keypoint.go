// Package pose defines keypoints, point sets and the static skeleton tables
// shared by the editor, the renderer and the application shell.
package pose

import (
	"errors"
	"fmt"

	"pose-editor/pkg/geometry"
)

// DefaultConfidence is assumed for keypoints that carry no confidence.
const DefaultConfidence = 0.5

var (
	ErrEmptyID     = errors.New("keypoint id is empty")
	ErrDuplicateID = errors.New("duplicate keypoint id")
)

// Axis names a single coordinate of a keypoint.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return "unknown"
	}
}

// Keypoint is a single named landmark in image coordinates.
type Keypoint struct {
	ID         string   `json:"id"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Conf returns a confidence pointer for keypoint literals.
func Conf(v float64) *float64 {
	return &v
}

// Point returns the keypoint position.
func (k Keypoint) Point() geometry.Point2D {
	return geometry.Point2D{X: k.X, Y: k.Y}
}

// ConfidenceOrDefault returns the confidence, or DefaultConfidence when absent.
func (k Keypoint) ConfidenceOrDefault() float64 {
	if k.Confidence == nil {
		return DefaultConfidence
	}
	return *k.Confidence
}

// Equal compares two keypoints by value, including confidence.
func (k Keypoint) Equal(other Keypoint) bool {
	if k.ID != other.ID || k.X != other.X || k.Y != other.Y {
		return false
	}
	if k.Confidence == nil || other.Confidence == nil {
		return k.Confidence == nil && other.Confidence == nil
	}
	return *k.Confidence == *other.Confidence
}

// PointSet is an ordered collection of keypoints with unique ids.
type PointSet []Keypoint

// Clone returns a deep copy of the set.
func (ps PointSet) Clone() PointSet {
	if ps == nil {
		return nil
	}
	out := make(PointSet, len(ps))
	for i, kp := range ps {
		out[i] = kp
		if kp.Confidence != nil {
			out[i].Confidence = Conf(*kp.Confidence)
		}
	}
	return out
}

// Equal reports whether both sets hold the same keypoints in the same order.
func (ps PointSet) Equal(other PointSet) bool {
	if len(ps) != len(other) {
		return false
	}
	for i := range ps {
		if !ps[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Index returns the position of id in the set, or -1.
func (ps PointSet) Index(id string) int {
	for i, kp := range ps {
		if kp.ID == id {
			return i
		}
	}
	return -1
}

// Get returns the keypoint with the given id.
func (ps PointSet) Get(id string) (Keypoint, bool) {
	if i := ps.Index(id); i >= 0 {
		return ps[i], true
	}
	return Keypoint{}, false
}

// With returns a copy of the set with id moved to (x, y).
// The second result is false, and the set is returned unchanged, if id is absent.
func (ps PointSet) With(id string, x, y float64) (PointSet, bool) {
	i := ps.Index(id)
	if i < 0 {
		return ps, false
	}
	out := ps.Clone()
	out[i].X = x
	out[i].Y = y
	return out, true
}

// WithAxis returns a copy of the set with one coordinate of id replaced.
func (ps PointSet) WithAxis(id string, axis Axis, value float64) (PointSet, bool) {
	kp, ok := ps.Get(id)
	if !ok {
		return ps, false
	}
	switch axis {
	case AxisX:
		return ps.With(id, value, kp.Y)
	case AxisY:
		return ps.With(id, kp.X, value)
	default:
		return ps, false
	}
}

// IDs returns the keypoint ids in order.
func (ps PointSet) IDs() []string {
	ids := make([]string, len(ps))
	for i, kp := range ps {
		ids[i] = kp.ID
	}
	return ids
}

// Points returns the keypoint positions in order.
func (ps PointSet) Points() []geometry.Point2D {
	pts := make([]geometry.Point2D, len(ps))
	for i, kp := range ps {
		pts[i] = kp.Point()
	}
	return pts
}

// Bounds returns the bounding box of all keypoints.
func (ps PointSet) Bounds() geometry.Rect {
	return geometry.BoundingBox(ps.Points())
}

// Validate checks that every id is non-empty and unique.
func (ps PointSet) Validate() error {
	seen := make(map[string]bool, len(ps))
	for i, kp := range ps {
		if kp.ID == "" {
			return fmt.Errorf("keypoint %d: %w", i, ErrEmptyID)
		}
		if seen[kp.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateID, kp.ID)
		}
		seen[kp.ID] = true
	}
	return nil
}
