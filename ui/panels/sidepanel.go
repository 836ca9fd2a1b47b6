package panels

import (
	"pose-editor/internal/app"
	"pose-editor/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// SidePanel provides the main side panel with tabbed sections.
type SidePanel struct {
	container *container.AppTabs

	controls *ControlsPanel
	session  *SessionPanel
}

// NewSidePanel creates a new side panel.
func NewSidePanel(state *app.State, cvs *canvas.PoseCanvas) *SidePanel {
	sp := &SidePanel{
		controls: NewControlsPanel(state, cvs),
		session:  NewSessionPanel(state),
	}
	sp.container = container.NewAppTabs(
		container.NewTabItem("Edit", sp.controls.Container()),
		container.NewTabItem("Session", sp.session.Container()),
	)
	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// Sync refreshes every tab from the current state.
func (sp *SidePanel) Sync() {
	sp.controls.Sync()
	sp.session.Refresh()
}
