// Package canvas provides the Fyne widget that shows and edits a pose.
package canvas

import (
	"image"

	"pose-editor/internal/editor"
	"pose-editor/internal/render"
	"pose-editor/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

var defaultMinSize = fyne.NewSize(400, 300)

// PoseCanvas draws an editor's image and skeleton and forwards pointer
// input to it.
type PoseCanvas struct {
	widget.BaseWidget

	editor *editor.Editor
	raster *fynecanvas.Raster

	// Raster pixels per Fyne unit, learned on each draw.
	pixelScale float32
	hovered    string

	// Last rendered output
	lastOutput *image.RGBA

	onSelect     func(id string)
	onZoomChange func(zoom float64)
}

var (
	_ fyne.Draggable     = (*PoseCanvas)(nil)
	_ fyne.Scrollable    = (*PoseCanvas)(nil)
	_ desktop.Mouseable  = (*PoseCanvas)(nil)
	_ desktop.Hoverable  = (*PoseCanvas)(nil)
	_ desktop.Cursorable = (*PoseCanvas)(nil)
)

// NewPoseCanvas creates a canvas bound to ed. ed may be nil until an image is opened.
func NewPoseCanvas(ed *editor.Editor) *PoseCanvas {
	pc := &PoseCanvas{editor: ed, pixelScale: 1}
	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.raster.SetMinSize(defaultMinSize)
	pc.ExtendBaseWidget(pc)
	return pc
}

// SetEditor rebinds the canvas to a new editor and redraws.
func (pc *PoseCanvas) SetEditor(ed *editor.Editor) {
	pc.editor = ed
	pc.hovered = ""
	pc.Refresh()
}

// Editor returns the bound editor.
func (pc *PoseCanvas) Editor() *editor.Editor {
	return pc.editor
}

// OnSelect registers a callback for selection changes made with the pointer.
func (pc *PoseCanvas) OnSelect(callback func(id string)) {
	pc.onSelect = callback
}

// OnZoomChange registers a callback for wheel zoom.
func (pc *PoseCanvas) OnZoomChange(callback func(zoom float64)) {
	pc.onZoomChange = callback
}

// RenderedOutput returns the most recent frame, or nil.
func (pc *PoseCanvas) RenderedOutput() *image.RGBA {
	return pc.lastOutput
}

// Refresh redraws the raster.
func (pc *PoseCanvas) Refresh() {
	pc.raster.Refresh()
	pc.BaseWidget.Refresh()
}

// ZoomIn increases the editor zoom by one step.
func (pc *PoseCanvas) ZoomIn() {
	pc.zoomBy(editor.ZoomStep)
}

// ZoomOut decreases the editor zoom by one step.
func (pc *PoseCanvas) ZoomOut() {
	pc.zoomBy(-editor.ZoomStep)
}

func (pc *PoseCanvas) zoomBy(delta float64) {
	if pc.editor == nil {
		return
	}
	pc.editor.SetZoom(pc.editor.Zoom() + delta)
	pc.Refresh()
	if pc.onZoomChange != nil {
		pc.onZoomChange(pc.editor.Zoom())
	}
}

// draw is the raster drawing function.
func (pc *PoseCanvas) draw(w, h int) image.Image {
	if size := pc.Size(); size.Width > 0 {
		pc.pixelScale = float32(w) / size.Width
	}

	surface := render.NewRasterSurface(w, h)
	if pc.editor != nil {
		pc.editor.Render(surface)
	}
	pc.lastOutput = surface.Image()
	return pc.lastOutput
}

// toSurface converts a widget position to raster pixels.
func (pc *PoseCanvas) toSurface(pos fyne.Position) geometry.Point2D {
	return geometry.Point2D{
		X: float64(pos.X * pc.pixelScale),
		Y: float64(pos.Y * pc.pixelScale),
	}
}

func (pc *PoseCanvas) MouseDown(ev *desktop.MouseEvent) {
	if pc.editor == nil || ev.Button != desktop.MouseButtonPrimary {
		return
	}
	before := pc.editor.Selected()
	pc.editor.PointerDown(pc.toSurface(ev.Position))
	pc.Refresh()
	if sel := pc.editor.Selected(); sel != before && pc.onSelect != nil {
		pc.onSelect(sel)
	}
}

func (pc *PoseCanvas) MouseUp(ev *desktop.MouseEvent) {
	if pc.editor == nil {
		return
	}
	pc.editor.PointerUp()
	pc.Refresh()
}

func (pc *PoseCanvas) Dragged(ev *fyne.DragEvent) {
	if pc.editor == nil || pc.editor.State() != editor.Dragging {
		return
	}
	pc.editor.PointerMove(pc.toSurface(ev.Position))
	pc.Refresh()
}

func (pc *PoseCanvas) DragEnd() {
	if pc.editor == nil {
		return
	}
	pc.editor.PointerUp()
	pc.Refresh()
}

func (pc *PoseCanvas) MouseIn(ev *desktop.MouseEvent) {
	pc.MouseMoved(ev)
}

func (pc *PoseCanvas) MouseMoved(ev *desktop.MouseEvent) {
	if pc.editor == nil {
		return
	}
	id, _ := pc.editor.HitTest(pc.toSurface(ev.Position))
	pc.hovered = id
}

func (pc *PoseCanvas) MouseOut() {
	pc.hovered = ""
	if pc.editor == nil {
		return
	}
	if pc.editor.State() == editor.Dragging {
		pc.editor.PointerLeave()
		pc.Refresh()
	}
}

// Cursor shows a crosshair over a draggable keypoint.
func (pc *PoseCanvas) Cursor() desktop.Cursor {
	if pc.hovered != "" || (pc.editor != nil && pc.editor.State() == editor.Dragging) {
		return desktop.CrosshairCursor
	}
	return desktop.DefaultCursor
}

// Scrolled uses the wheel for zoom.
func (pc *PoseCanvas) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		pc.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		pc.ZoomOut()
	}
}

func (pc *PoseCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(pc.raster)
}
