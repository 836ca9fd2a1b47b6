package pose

import (
	"image/color"

	"pose-editor/pkg/colorutil"
)

/* COCO keypoint ids
nose, left_eye, right_eye, left_ear, right_ear,
left_shoulder, right_shoulder, left_elbow, right_elbow, left_wrist, right_wrist,
left_hip, right_hip, left_knee, right_knee, left_ankle, right_ankle
*/

// Connection is a pair of keypoint ids drawn as a limb when both are present.
type Connection struct {
	From string
	To   string
}

// Connections is the skeleton drawn between anatomically adjacent keypoints.
var Connections = []Connection{
	{"left_eye", "nose"},
	{"right_eye", "nose"},
	{"left_ear", "left_eye"},
	{"right_ear", "right_eye"},
	{"left_shoulder", "right_shoulder"},
	{"left_shoulder", "left_elbow"},
	{"right_shoulder", "right_elbow"},
	{"left_elbow", "left_wrist"},
	{"right_elbow", "right_wrist"},
	{"left_shoulder", "left_hip"},
	{"right_shoulder", "right_hip"},
	{"left_hip", "right_hip"},
	{"left_hip", "left_knee"},
	{"right_hip", "right_knee"},
	{"left_knee", "left_ankle"},
	{"right_knee", "right_ankle"},
}

// keypointColors assigns each COCO keypoint its display color.
var keypointColors = map[string]color.RGBA{
	"nose":           colorutil.MustParseHex("#FF0000"),
	"left_eye":       colorutil.MustParseHex("#FF7F00"),
	"right_eye":      colorutil.MustParseHex("#FFFF00"),
	"left_ear":       colorutil.MustParseHex("#00FF00"),
	"right_ear":      colorutil.MustParseHex("#0000FF"),
	"left_shoulder":  colorutil.MustParseHex("#4B0082"),
	"right_shoulder": colorutil.MustParseHex("#9400D3"),
	"left_elbow":     colorutil.MustParseHex("#FF1493"),
	"right_elbow":    colorutil.MustParseHex("#00FFFF"),
	"left_wrist":     colorutil.MustParseHex("#FF00FF"),
	"right_wrist":    colorutil.MustParseHex("#FFD700"),
	"left_hip":       colorutil.MustParseHex("#32CD32"),
	"right_hip":      colorutil.MustParseHex("#8A2BE2"),
	"left_knee":      colorutil.MustParseHex("#FF6347"),
	"right_knee":     colorutil.MustParseHex("#40E0D0"),
	"left_ankle":     colorutil.MustParseHex("#7FFF00"),
	"right_ankle":    colorutil.MustParseHex("#FF4500"),
}

// ColorFor returns the display color for a keypoint id; unknown ids are red.
func ColorFor(id string) color.RGBA {
	if c, ok := keypointColors[id]; ok {
		return c
	}
	return colorutil.Red
}
