package pose

import "pose-editor/pkg/geometry"

// FindNearest returns the id of the keypoint closest to a surface position.
//
// The query is converted to image space through view; a keypoint matches only
// if its distance is strictly below thresholdPx/view.Scale. Among equally
// close matches the first in sequence order wins.
func FindNearest(points PointSet, query geometry.Point2D, thresholdPx float64, view geometry.View) (string, bool) {
	if len(points) == 0 || thresholdPx <= 0 {
		return "", false
	}

	scale := view.Scale
	if scale <= 0 {
		scale = 1
	}
	q := view.ToImage(query)

	bestID := ""
	bestDist := thresholdPx / scale
	found := false
	for _, kp := range points {
		if d := kp.Point().Distance(q); d < bestDist {
			bestDist = d
			bestID = kp.ID
			found = true
		}
	}
	return bestID, found
}
