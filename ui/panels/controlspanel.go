// Package panels provides UI panels for the application.
package panels

import (
	"fmt"

	"pose-editor/internal/app"
	"pose-editor/internal/editor"
	"pose-editor/internal/pose"
	"pose-editor/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// defaultAxisMax bounds the X/Y sliders when there is no image.
const defaultAxisMax = 600

// ControlsPanel holds the editing controls for the active editor.
type ControlsPanel struct {
	state     *app.State
	canvas    *canvas.PoseCanvas
	container fyne.CanvasObject

	undoBtn  *widget.Button
	redoBtn  *widget.Button
	resetBtn *widget.Button
	saveBtn  *widget.Button

	zoomSlider  *widget.Slider
	zoomLabel   *widget.Label
	labelsCheck *widget.Check

	pointSelect *widget.Select
	xSlider     *widget.Slider
	ySlider     *widget.Slider
	xLabel      *widget.Label
	yLabel      *widget.Label
	axisRows    *fyne.Container

	// Set while controls are updated from editor state.
	syncing bool
}

// NewControlsPanel creates the controls for the editor shown on cvs.
func NewControlsPanel(state *app.State, cvs *canvas.PoseCanvas) *ControlsPanel {
	cp := &ControlsPanel{state: state, canvas: cvs}
	cp.buildUI()

	cvs.OnSelect(func(string) { cp.Sync() })
	cvs.OnZoomChange(func(float64) { cp.Sync() })

	state.On(app.EventPointsDetected, func(interface{}) { cp.Sync() })
	state.On(app.EventPointsChanged, func(interface{}) { cp.Sync() })
	state.On(app.EventSessionClosed, func(interface{}) { cp.Sync() })

	cp.Sync()
	return cp
}

// Container returns the panel container.
func (cp *ControlsPanel) Container() fyne.CanvasObject {
	return cp.container
}

func (cp *ControlsPanel) buildUI() {
	cp.undoBtn = widget.NewButtonWithIcon("Undo", theme.ContentUndoIcon(), func() {
		cp.edit(func(ed *editor.Editor) { ed.Undo() })
	})
	cp.redoBtn = widget.NewButtonWithIcon("Redo", theme.ContentRedoIcon(), func() {
		cp.edit(func(ed *editor.Editor) { ed.Redo() })
	})
	cp.resetBtn = widget.NewButtonWithIcon("Reset", theme.ViewRefreshIcon(), func() {
		cp.edit(func(ed *editor.Editor) { ed.ResetToOriginal() })
	})
	cp.saveBtn = widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() {
		if ed := cp.canvas.Editor(); ed != nil {
			ed.Save()
		}
	})
	cp.saveBtn.Importance = widget.HighImportance

	cp.zoomLabel = widget.NewLabel("")
	cp.zoomSlider = widget.NewSlider(editor.MinZoom, editor.MaxZoom)
	cp.zoomSlider.Step = editor.ZoomStep
	cp.zoomSlider.OnChanged = func(v float64) {
		if cp.syncing {
			return
		}
		if ed := cp.canvas.Editor(); ed != nil {
			ed.SetZoom(v)
			cp.canvas.Refresh()
		}
		cp.Sync()
	}

	cp.labelsCheck = widget.NewCheck("Show labels", func(show bool) {
		if cp.syncing {
			return
		}
		if ed := cp.canvas.Editor(); ed != nil {
			ed.SetShowLabels(show)
			cp.canvas.Refresh()
		}
	})

	cp.pointSelect = widget.NewSelect(nil, func(id string) {
		if cp.syncing {
			return
		}
		if ed := cp.canvas.Editor(); ed != nil {
			ed.Select(id)
			cp.canvas.Refresh()
		}
		cp.Sync()
	})
	cp.pointSelect.PlaceHolder = "Select a keypoint"

	cp.xLabel = widget.NewLabel("X")
	cp.yLabel = widget.NewLabel("Y")
	cp.xSlider = cp.newAxisSlider(pose.AxisX, cp.xLabel)
	cp.ySlider = cp.newAxisSlider(pose.AxisY, cp.yLabel)

	history := container.NewGridWithColumns(3, cp.undoBtn, cp.redoBtn, cp.resetBtn)
	view := widget.NewCard("View", "", container.NewVBox(
		container.NewBorder(nil, nil, widget.NewLabel("Zoom"), cp.zoomLabel, cp.zoomSlider),
		cp.labelsCheck,
	))
	cp.axisRows = container.NewVBox(
		container.NewBorder(nil, nil, cp.xLabel, nil, cp.xSlider),
		container.NewBorder(nil, nil, cp.yLabel, nil, cp.ySlider),
	)
	point := widget.NewCard("Keypoint", "", container.NewVBox(cp.pointSelect, cp.axisRows))

	cp.container = container.NewVBox(history, view, point, cp.saveBtn)
}

// newAxisSlider commits when the user releases the slider.
func (cp *ControlsPanel) newAxisSlider(axis pose.Axis, label *widget.Label) *widget.Slider {
	s := widget.NewSlider(0, defaultAxisMax)
	s.Step = 1
	s.OnChanged = func(v float64) {
		label.SetText(axisText(axis, v))
	}
	s.OnChangeEnded = func(v float64) {
		if cp.syncing {
			return
		}
		cp.edit(func(ed *editor.Editor) {
			if id := ed.Selected(); id != "" {
				ed.SetAxis(id, axis, v)
			}
		})
	}
	return s
}

// edit applies fn to the active editor and redraws.
func (cp *ControlsPanel) edit(fn func(*editor.Editor)) {
	ed := cp.canvas.Editor()
	if ed == nil {
		return
	}
	fn(ed)
	cp.canvas.Refresh()
	cp.Sync()
}

// Sync updates every control from the active editor.
func (cp *ControlsPanel) Sync() {
	cp.syncing = true
	defer func() { cp.syncing = false }()

	ed := cp.canvas.Editor()
	if ed == nil {
		for _, w := range []fyne.Disableable{cp.undoBtn, cp.redoBtn, cp.resetBtn, cp.saveBtn,
			cp.labelsCheck, cp.pointSelect} {
			w.Disable()
		}
		cp.axisRows.Hide()
		cp.pointSelect.SetOptions(nil)
		cp.pointSelect.ClearSelected()
		cp.zoomLabel.SetText("")
		return
	}

	setEnabled(cp.undoBtn, ed.CanUndo())
	setEnabled(cp.redoBtn, ed.CanRedo())
	setEnabled(cp.resetBtn, !ed.Disabled())
	setEnabled(cp.pointSelect, !ed.Disabled())
	cp.saveBtn.Enable()
	cp.labelsCheck.Enable()

	cp.zoomSlider.SetValue(ed.Zoom())
	cp.zoomLabel.SetText(fmt.Sprintf("%.0f%%", ed.Zoom()*100))
	cp.labelsCheck.SetChecked(ed.ShowLabels())

	points := ed.Points()
	cp.pointSelect.SetOptions(points.IDs())

	maxX, maxY := float64(defaultAxisMax), float64(defaultAxisMax)
	if img := ed.Image(); img != nil {
		maxX, maxY = float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	}
	cp.xSlider.Max, cp.ySlider.Max = maxX, maxY

	kp, ok := points.Get(ed.Selected())
	if !ok {
		cp.pointSelect.ClearSelected()
		cp.axisRows.Hide()
		return
	}
	cp.pointSelect.SetSelected(kp.ID)
	if ed.Disabled() {
		cp.axisRows.Hide()
	} else {
		cp.axisRows.Show()
	}
	cp.xSlider.SetValue(kp.X)
	cp.ySlider.SetValue(kp.Y)
	cp.xLabel.SetText(axisText(pose.AxisX, kp.X))
	cp.yLabel.SetText(axisText(pose.AxisY, kp.Y))
}

func axisText(axis pose.Axis, v float64) string {
	switch axis {
	case pose.AxisX:
		return fmt.Sprintf("X %4.0f", v)
	default:
		return fmt.Sprintf("Y %4.0f", v)
	}
}

func setEnabled(w fyne.Disableable, enabled bool) {
	if enabled {
		w.Enable()
	} else {
		w.Disable()
	}
}
