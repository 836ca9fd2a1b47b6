package pose

// templatePoint places a keypoint as a fraction of the image size.
type templatePoint struct {
	id         string
	fx, fy     float64
	confidence float64
}

// standingTemplate is a front-facing standing pose.
var standingTemplate = []templatePoint{
	{"nose", 0.5, 0.2, 0.98},
	{"left_eye", 0.45, 0.18, 0.96},
	{"right_eye", 0.55, 0.18, 0.97},
	{"left_ear", 0.4, 0.2, 0.9},
	{"right_ear", 0.6, 0.2, 0.91},
	{"left_shoulder", 0.35, 0.3, 0.94},
	{"right_shoulder", 0.65, 0.3, 0.95},
	{"left_elbow", 0.3, 0.45, 0.92},
	{"right_elbow", 0.7, 0.45, 0.93},
	{"left_wrist", 0.25, 0.6, 0.9},
	{"right_wrist", 0.75, 0.6, 0.91},
	{"left_hip", 0.4, 0.6, 0.95},
	{"right_hip", 0.6, 0.6, 0.96},
	{"left_knee", 0.4, 0.75, 0.94},
	{"right_knee", 0.6, 0.75, 0.93},
	{"left_ankle", 0.4, 0.9, 0.91},
	{"right_ankle", 0.6, 0.9, 0.92},
}

// SimulatedDetection returns the standing template scaled to an image of
// the given size. It stands in for an upstream pose detector.
func SimulatedDetection(width, height int) PointSet {
	ps := make(PointSet, len(standingTemplate))
	for i, tp := range standingTemplate {
		ps[i] = Keypoint{
			ID:         tp.id,
			X:          float64(width) * tp.fx,
			Y:          float64(height) * tp.fy,
			Confidence: Conf(tp.confidence),
		}
	}
	return ps
}
