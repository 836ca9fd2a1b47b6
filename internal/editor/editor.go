// Package editor implements the interactive keypoint editor: pointer-driven
// selection and dragging, axis edits, and linear undo/redo over point sets.
//
// All methods except SetImage, Image and LoadImage must be called from the
// UI goroutine.
package editor

import (
	"context"
	"image"
	"log"
	"sync"

	"pose-editor/internal/history"
	"pose-editor/internal/pose"
	"pose-editor/internal/render"
	"pose-editor/pkg/geometry"
)

// Zoom limits for the view.
const (
	MinZoom  = 0.5
	MaxZoom  = 2.0
	ZoomStep = 0.1
)

// DefaultHitRadius is the pick radius in screen pixels.
const DefaultHitRadius = 10.0

// State is the pointer interaction state.
type State int

const (
	Idle State = iota
	Selecting
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selecting:
		return "selecting"
	case Dragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Config holds the inputs supplied when an editor is opened.
type Config struct {
	Image    image.Image
	Points   pose.PointSet
	Disabled bool

	// OnChange receives every committed point set.
	OnChange func(pose.PointSet)
	// OnSave receives the committed point set when Save is called.
	OnSave func(pose.PointSet)

	HitRadius    float64
	HistoryLimit int
	Logger       *log.Logger
}

// Editor owns the working point set and its edit history.
type Editor struct {
	original pose.PointSet
	working  pose.PointSet
	history  *history.History

	selected string
	state    State

	zoom       float64
	showLabels bool
	surfaceW   int
	surfaceH   int

	hitRadius    float64
	historyLimit int
	disabled     bool
	onChange     func(pose.PointSet)
	onSave       func(pose.PointSet)
	logger       *log.Logger

	mu      sync.RWMutex
	img     image.Image
	loadSeq uint64
}

// New creates an editor from cfg.
func New(cfg Config) *Editor {
	e := &Editor{
		zoom:         1,
		hitRadius:    cfg.HitRadius,
		historyLimit: cfg.HistoryLimit,
		disabled:     cfg.Disabled,
		onChange:     cfg.OnChange,
		onSave:       cfg.OnSave,
		logger:       cfg.Logger,
		img:          cfg.Image,
	}
	if e.hitRadius <= 0 {
		e.hitRadius = DefaultHitRadius
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	e.open(cfg.Points)
	return e
}

func (e *Editor) open(points pose.PointSet) {
	e.original = points.Clone()
	e.working = points.Clone()
	e.history = history.New(points, e.historyLimit)
	e.selected = ""
	e.state = Idle
}

// Load replaces the original point set and starts a fresh history.
// It does not notify OnChange.
func (e *Editor) Load(points pose.PointSet) {
	if err := points.Validate(); err != nil {
		e.logger.Printf("Editor: loading invalid point set: %v", err)
	}
	e.open(points)
}

// SetDisabled toggles whether edits are accepted.
func (e *Editor) SetDisabled(disabled bool) {
	e.disabled = disabled
	if disabled && e.state == Dragging {
		e.working = e.history.Current()
		e.state = Idle
	}
}

// Disabled reports whether edits are ignored.
func (e *Editor) Disabled() bool { return e.disabled }

// View returns the image-to-surface mapping used for drawing and picking.
func (e *Editor) View() geometry.View {
	return render.Layout(e.surfaceW, e.surfaceH, e.Image(), e.zoom)
}

// HitTest returns the keypoint under a surface position, if any.
func (e *Editor) HitTest(pos geometry.Point2D) (string, bool) {
	return pose.FindNearest(e.working, pos, e.hitRadius, e.View())
}

// PointerDown starts a drag on the nearest keypoint, or clears the selection.
func (e *Editor) PointerDown(pos geometry.Point2D) {
	if e.disabled {
		return
	}
	if e.state == Dragging {
		e.endDrag()
	}

	e.state = Selecting
	id, ok := e.HitTest(pos)
	if !ok {
		e.selected = ""
		e.state = Idle
		return
	}
	e.selected = id
	e.state = Dragging
}

// PointerMove moves the dragged keypoint to pos without committing.
func (e *Editor) PointerMove(pos geometry.Point2D) {
	if e.disabled || e.state != Dragging {
		return
	}
	p := e.View().ToImage(pos)
	if next, ok := e.working.With(e.selected, p.X, p.Y); ok {
		e.working = next
	}
}

// PointerUp ends a drag and commits the working set.
func (e *Editor) PointerUp() {
	if e.state != Dragging {
		e.state = Idle
		return
	}
	e.endDrag()
}

// PointerLeave behaves like PointerUp while dragging.
func (e *Editor) PointerLeave() {
	if e.state == Dragging {
		e.endDrag()
	}
}

func (e *Editor) endDrag() {
	e.state = Idle
	e.commit()
}

// SetAxis sets one coordinate of a keypoint and commits immediately.
// Unknown ids are ignored; values are not clamped. A drag in progress is
// committed first so each history entry holds one edit.
func (e *Editor) SetAxis(id string, axis pose.Axis, value float64) {
	if e.disabled {
		return
	}
	if e.state == Dragging {
		e.endDrag()
	}
	next, ok := e.working.WithAxis(id, axis, value)
	if !ok {
		return
	}
	e.working = next
	e.commit()
}

// Select sets the selected keypoint. An empty id clears the selection;
// unknown ids are ignored.
func (e *Editor) Select(id string) {
	if e.disabled {
		return
	}
	if id != "" && e.working.Index(id) < 0 {
		return
	}
	e.selected = id
}

// commit records the working set and notifies the owner, even when
// nothing moved.
func (e *Editor) commit() {
	e.history.Commit(e.working)
	e.notify()
}

func (e *Editor) notify() {
	if e.onChange != nil {
		e.onChange(e.working.Clone())
	}
}

// Undo steps back one commit. It is a no-op at the start of history.
func (e *Editor) Undo() {
	if e.disabled {
		return
	}
	snap, ok := e.history.Undo()
	if !ok {
		return
	}
	e.restore(snap)
}

// Redo steps forward one commit. It is a no-op at the end of history.
func (e *Editor) Redo() {
	if e.disabled {
		return
	}
	snap, ok := e.history.Redo()
	if !ok {
		return
	}
	e.restore(snap)
}

// ResetToOriginal commits the originally supplied point set.
func (e *Editor) ResetToOriginal() {
	if e.disabled {
		return
	}
	e.history.Reset(e.original)
	e.restore(e.original.Clone())
}

func (e *Editor) restore(snap pose.PointSet) {
	e.working = snap
	e.state = Idle
	if e.selected != "" && e.working.Index(e.selected) < 0 {
		e.selected = ""
	}
	e.notify()
}

// Save hands the committed point set to OnSave.
func (e *Editor) Save() {
	if e.onSave == nil {
		return
	}
	current := e.history.Current()
	e.logger.Printf("Editor: saving %d keypoints", len(current))
	e.onSave(current)
}

// SetZoom sets the zoom factor, clamped to [MinZoom, MaxZoom].
func (e *Editor) SetZoom(z float64) {
	if z < MinZoom {
		z = MinZoom
	}
	if z > MaxZoom {
		z = MaxZoom
	}
	e.zoom = z
}

func (e *Editor) Zoom() float64 { return e.zoom }

func (e *Editor) SetShowLabels(show bool) { e.showLabels = show }

func (e *Editor) ToggleLabels() { e.showLabels = !e.showLabels }

func (e *Editor) ShowLabels() bool { return e.showLabels }

// SetSurfaceSize records the size of the drawing surface in pixels.
func (e *Editor) SetSurfaceSize(width, height int) {
	e.surfaceW, e.surfaceH = width, height
}

// SetImage replaces the background image. Safe for concurrent use.
func (e *Editor) SetImage(img image.Image) {
	e.mu.Lock()
	e.loadSeq++
	e.img = img
	e.mu.Unlock()
}

// Image returns the background image, or nil. Safe for concurrent use.
func (e *Editor) Image() image.Image {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.img
}

// LoadImage runs loader in the background. On success the image replaces the
// background, unless a newer image was set meanwhile, and onLoaded is called
// once from the loading goroutine. Failures are logged.
func (e *Editor) LoadImage(ctx context.Context, loader func(context.Context) (image.Image, error), onLoaded func()) {
	e.mu.Lock()
	e.loadSeq++
	seq := e.loadSeq
	e.mu.Unlock()

	go func() {
		img, err := loader(ctx)
		if err != nil {
			e.logger.Printf("Editor: failed to load image: %v", err)
			return
		}
		if ctx.Err() != nil {
			return
		}

		e.mu.Lock()
		stale := seq != e.loadSeq
		if !stale {
			e.img = img
		}
		e.mu.Unlock()
		if stale {
			return
		}
		if onLoaded != nil {
			onLoaded()
		}
	}()
}

// Render draws the working point set onto s and adopts its size for picking.
func (e *Editor) Render(s render.Surface) {
	e.surfaceW, e.surfaceH = s.Size()
	render.Render(s, e.Image(), e.working, render.Options{
		SelectedID: e.selected,
		Zoom:       e.zoom,
		ShowLabels: e.showLabels,
	})
}

// Points returns a copy of the working point set.
func (e *Editor) Points() pose.PointSet { return e.working.Clone() }

// Committed returns the point set at the current history position.
func (e *Editor) Committed() pose.PointSet { return e.history.Current() }

// Original returns the point set the editor was opened with.
func (e *Editor) Original() pose.PointSet { return e.original.Clone() }

func (e *Editor) Selected() string { return e.selected }

func (e *Editor) State() State { return e.state }

func (e *Editor) CanUndo() bool { return !e.disabled && e.history.CanUndo() }

func (e *Editor) CanRedo() bool { return !e.disabled && e.history.CanRedo() }
