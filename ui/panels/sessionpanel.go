package panels

import (
	"fmt"
	"path/filepath"
	"strings"

	"pose-editor/internal/app"
	"pose-editor/internal/pose"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// SessionPanel shows read-only details of the active session.
type SessionPanel struct {
	state     *app.State
	container fyne.CanvasObject

	idLabel     *widget.Label
	imageLabel  *widget.Label
	sizeLabel   *widget.Label
	pointsLabel *widget.Label
	statusLabel *widget.Label
	lowConf     *widget.Label
}

// lowConfidence is the threshold below which keypoints are listed for review.
const lowConfidence = 0.5

// NewSessionPanel creates a new session panel.
func NewSessionPanel(state *app.State) *SessionPanel {
	sp := &SessionPanel{
		state:       state,
		idLabel:     widget.NewLabel(""),
		imageLabel:  widget.NewLabel(""),
		sizeLabel:   widget.NewLabel(""),
		pointsLabel: widget.NewLabel(""),
		statusLabel: widget.NewLabel(""),
		lowConf:     widget.NewLabel(""),
	}
	sp.lowConf.Wrapping = fyne.TextWrapWord

	sp.container = widget.NewForm(
		widget.NewFormItem("Session", sp.idLabel),
		widget.NewFormItem("Image", sp.imageLabel),
		widget.NewFormItem("Size", sp.sizeLabel),
		widget.NewFormItem("Keypoints", sp.pointsLabel),
		widget.NewFormItem("Status", sp.statusLabel),
		widget.NewFormItem("Review", sp.lowConf),
	)

	for _, ev := range []app.EventType{app.EventImageLoaded, app.EventPointsDetected,
		app.EventPointsChanged, app.EventPointsSaved, app.EventSessionClosed} {
		state.On(ev, func(interface{}) { sp.Refresh() })
	}
	sp.Refresh()
	return sp
}

// Container returns the panel container.
func (sp *SessionPanel) Container() fyne.CanvasObject {
	return sp.container
}

// Refresh reloads the labels from the active session.
func (sp *SessionPanel) Refresh() {
	sess := sp.state.Session()
	if sess == nil {
		for _, l := range []*widget.Label{sp.idLabel, sp.imageLabel, sp.sizeLabel, sp.pointsLabel, sp.lowConf} {
			l.SetText("-")
		}
		sp.statusLabel.SetText("No image")
		return
	}

	sp.idLabel.SetText(shortID(sess.ID))
	sp.imageLabel.SetText(filepath.Base(sess.ImagePath))
	sp.sizeLabel.SetText(fmt.Sprintf("%d x %d", sess.Width, sess.Height))
	sp.pointsLabel.SetText(fmt.Sprintf("%d", len(sess.Current)))

	switch {
	case sess.Modified():
		sp.statusLabel.SetText("Modified")
	case sess.Saved != nil:
		sp.statusLabel.SetText("Saved")
	default:
		sp.statusLabel.SetText("Detected")
	}
	sp.lowConf.SetText(lowConfidenceIDs(sess.Current))
}

// lowConfidenceIDs lists keypoints whose confidence is below lowConfidence.
func lowConfidenceIDs(ps pose.PointSet) string {
	var ids []string
	for _, kp := range ps {
		if kp.Confidence != nil && *kp.Confidence < lowConfidence {
			ids = append(ids, kp.ID)
		}
	}
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ", ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
