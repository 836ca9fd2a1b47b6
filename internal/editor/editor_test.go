package editor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"log"
	"strings"
	"testing"
	"time"

	"pose-editor/internal/pose"
	"pose-editor/internal/render/rendertest"
	"pose-editor/pkg/geometry"
)

func twoPoints() pose.PointSet {
	return pose.PointSet{
		{ID: "nose", X: 100, Y: 50},
		{ID: "left_shoulder", X: 80, Y: 90},
	}
}

type changes struct {
	sets []pose.PointSet
}

func (c *changes) record(ps pose.PointSet) { c.sets = append(c.sets, ps) }

func newTestEditor(t *testing.T, points pose.PointSet) (*Editor, *changes) {
	t.Helper()
	c := &changes{}
	var buf bytes.Buffer
	e := New(Config{
		Points:   points,
		OnChange: c.record,
		Logger:   log.New(&buf, "", 0),
	})
	return e, c
}

func pt(x, y float64) geometry.Point2D { return geometry.Point2D{X: x, Y: y} }

func TestDragNoseAndUndo(t *testing.T) {
	e, c := newTestEditor(t, twoPoints())

	e.PointerDown(pt(100, 50))
	if e.State() != Dragging || e.Selected() != "nose" {
		t.Fatalf("after down: state=%v selected=%q", e.State(), e.Selected())
	}
	e.PointerMove(pt(110, 55))
	e.PointerMove(pt(120, 60))
	if len(c.sets) != 0 {
		t.Fatalf("onChange fired during drag: %d", len(c.sets))
	}
	e.PointerUp()

	want := pose.PointSet{
		{ID: "nose", X: 120, Y: 60},
		{ID: "left_shoulder", X: 80, Y: 90},
	}
	if len(c.sets) != 1 {
		t.Fatalf("onChange calls = %d, want 1", len(c.sets))
	}
	if !c.sets[0].Equal(want) {
		t.Errorf("onChange got %v, want %v", c.sets[0], want)
	}
	if e.State() != Idle {
		t.Errorf("state = %v, want idle", e.State())
	}

	e.Undo()
	if !e.Points().Equal(twoPoints()) {
		t.Errorf("after undo = %v, want original", e.Points())
	}
	if len(c.sets) != 2 {
		t.Errorf("undo should notify, calls = %d", len(c.sets))
	}
}

func TestThreeAxisCommitsTwoUndos(t *testing.T) {
	e, _ := newTestEditor(t, twoPoints())

	e.SetAxis("nose", pose.AxisX, 110)
	afterFirst := e.Points()
	e.SetAxis("nose", pose.AxisX, 120)
	e.SetAxis("nose", pose.AxisY, 70)

	e.Undo()
	e.Undo()
	if !e.Points().Equal(afterFirst) {
		t.Errorf("got %v, want %v", e.Points(), afterFirst)
	}
	e.Redo()
	kp, _ := e.Points().Get("nose")
	if kp.X != 120 || kp.Y != 50 {
		t.Errorf("after redo nose = (%v,%v), want (120,50)", kp.X, kp.Y)
	}
}

func TestPointerDownMissClearsSelection(t *testing.T) {
	e, c := newTestEditor(t, twoPoints())
	e.Select("nose")

	e.PointerDown(pt(300, 300))
	if e.Selected() != "" || e.State() != Idle {
		t.Errorf("selected=%q state=%v, want cleared idle", e.Selected(), e.State())
	}
	e.PointerMove(pt(10, 10))
	e.PointerUp()
	if len(c.sets) != 0 {
		t.Errorf("miss produced %d notifications", len(c.sets))
	}
}

func TestHitRadiusScalesWithZoom(t *testing.T) {
	tests := []struct {
		zoom  float64
		query geometry.Point2D
		hit   bool
	}{
		{1, pt(109, 50), true},
		{1, pt(111, 50), false},
		// At zoom 2 the nose is drawn at (200,100).
		{2, pt(209, 100), true},
		{2, pt(211, 100), false},
	}
	for _, tt := range tests {
		e, _ := newTestEditor(t, twoPoints())
		e.SetZoom(tt.zoom)
		e.PointerDown(tt.query)
		if got := e.Selected() == "nose"; got != tt.hit {
			t.Errorf("zoom %v query %v: hit = %v, want %v", tt.zoom, tt.query, got, tt.hit)
		}
	}
}

func TestDragAtZoomStoresImageCoordinates(t *testing.T) {
	e, c := newTestEditor(t, twoPoints())
	e.SetZoom(2)

	e.PointerDown(pt(200, 100))
	e.PointerMove(pt(240, 120))
	e.PointerLeave()

	if len(c.sets) != 1 {
		t.Fatalf("onChange calls = %d, want 1", len(c.sets))
	}
	kp, _ := c.sets[0].Get("nose")
	if kp.X != 120 || kp.Y != 60 {
		t.Errorf("nose = (%v,%v), want (120,60)", kp.X, kp.Y)
	}
}

func TestDragWithImageUsesSurfaceView(t *testing.T) {
	e, c := newTestEditor(t, twoPoints())
	e.SetImage(image.NewRGBA(image.Rect(0, 0, 200, 100)))
	rec := rendertest.New(400, 400)
	e.Render(rec)

	// Fit scale 2, image centered vertically with a 100px offset.
	e.PointerDown(pt(200, 200))
	if e.Selected() != "nose" {
		t.Fatalf("selected = %q, want nose", e.Selected())
	}
	e.PointerMove(pt(220, 220))
	e.PointerUp()

	kp, _ := c.sets[0].Get("nose")
	if kp.X != 110 || kp.Y != 60 {
		t.Errorf("nose = (%v,%v), want (110,60)", kp.X, kp.Y)
	}
}

func TestUnchangedEditsStillCommit(t *testing.T) {
	tests := []struct {
		name string
		edit func(e *Editor)
	}{
		{"click without move", func(e *Editor) {
			e.PointerDown(pt(100, 50))
			e.PointerUp()
		}},
		{"leave without move", func(e *Editor) {
			e.PointerDown(pt(100, 50))
			e.PointerLeave()
		}},
		{"axis to same value", func(e *Editor) {
			e.SetAxis("nose", pose.AxisX, 100)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, c := newTestEditor(t, twoPoints())
			tt.edit(e)

			if len(c.sets) != 1 || !e.CanUndo() {
				t.Fatalf("calls=%d canUndo=%v, want 1 and true", len(c.sets), e.CanUndo())
			}
			if !c.sets[0].Equal(twoPoints()) {
				t.Errorf("notified %v, want unchanged points", c.sets[0])
			}
			if e.State() != Idle {
				t.Errorf("state = %v, want Idle", e.State())
			}
		})
	}
}

func TestAxisEditDuringDragCommitsSeparately(t *testing.T) {
	e, c := newTestEditor(t, twoPoints())
	e.PointerDown(pt(100, 50))
	e.PointerMove(pt(120, 70))
	e.SetAxis("left_shoulder", pose.AxisY, 5)

	if e.State() != Idle {
		t.Errorf("state = %v, want Idle", e.State())
	}
	if len(c.sets) != 2 {
		t.Fatalf("calls = %d, want 2", len(c.sets))
	}

	e.Undo()
	nose, _ := e.Points().Get("nose")
	shoulder, _ := e.Points().Get("left_shoulder")
	if nose.X != 120 || nose.Y != 70 || shoulder.Y != 90 {
		t.Errorf("after one undo nose=(%v,%v) shoulder.Y=%v, want (120,70) and 90", nose.X, nose.Y, shoulder.Y)
	}

	e.PointerUp()
	if len(c.sets) != 3 {
		t.Errorf("pointer up after axis edit committed again: calls=%d", len(c.sets))
	}
}

func TestUndoRedoBoundariesAreSilent(t *testing.T) {
	e, c := newTestEditor(t, twoPoints())
	e.Undo()
	e.Redo()
	if len(c.sets) != 0 {
		t.Errorf("boundary undo/redo notified %d times", len(c.sets))
	}
	if e.CanUndo() || e.CanRedo() {
		t.Errorf("fresh editor canUndo=%v canRedo=%v", e.CanUndo(), e.CanRedo())
	}
}

func TestResetToOriginal(t *testing.T) {
	e, c := newTestEditor(t, twoPoints())
	e.SetAxis("nose", pose.AxisX, 5)

	e.ResetToOriginal()
	e.ResetToOriginal()
	if !e.Points().Equal(twoPoints()) {
		t.Errorf("after reset = %v", e.Points())
	}
	if len(c.sets) != 3 {
		t.Errorf("notifications = %d, want 3", len(c.sets))
	}

	// Reset is undoable back to the edited state.
	e.Undo()
	e.Undo()
	kp, _ := e.Points().Get("nose")
	if kp.X != 5 {
		t.Errorf("after undoing resets nose.X = %v, want 5", kp.X)
	}
}

func TestDisabledIgnoresEdits(t *testing.T) {
	c := &changes{}
	e := New(Config{Points: twoPoints(), Disabled: true, OnChange: c.record})

	e.PointerDown(pt(100, 50))
	e.PointerMove(pt(150, 150))
	e.PointerUp()
	e.SetAxis("nose", pose.AxisY, 1)
	e.Select("nose")
	e.Undo()
	e.Redo()
	e.ResetToOriginal()

	if len(c.sets) != 0 {
		t.Errorf("disabled editor notified %d times", len(c.sets))
	}
	if !e.Points().Equal(twoPoints()) || e.Selected() != "" {
		t.Errorf("disabled editor changed: %v selected=%q", e.Points(), e.Selected())
	}

	rec := rendertest.New(100, 100)
	e.Render(rec)
	if rec.Count(rendertest.OpCircle) != 2 {
		t.Errorf("disabled editor should still render points")
	}
}

func TestEmptyPointSet(t *testing.T) {
	e, c := newTestEditor(t, nil)
	e.PointerDown(pt(0, 0))
	e.PointerMove(pt(5, 5))
	e.PointerUp()
	e.SetAxis("nose", pose.AxisX, 1)

	rec := rendertest.New(50, 50)
	e.Render(rec)
	if len(rec.Ops) != 1 || rec.Ops[0].Kind != rendertest.OpClear {
		t.Errorf("ops = %+v, want only clear", rec.Ops)
	}
	if len(c.sets) != 0 {
		t.Errorf("empty set notified %d times", len(c.sets))
	}
}

func TestSelectAndAxisIgnoreUnknownIDs(t *testing.T) {
	e, c := newTestEditor(t, twoPoints())
	e.Select("left_shoulder")
	e.Select("tail")
	if e.Selected() != "left_shoulder" {
		t.Errorf("selected = %q", e.Selected())
	}
	e.SetAxis("tail", pose.AxisX, 3)
	if len(c.sets) != 0 {
		t.Errorf("unknown id committed")
	}
	e.SetAxis("nose", pose.AxisY, -20)
	kp, _ := e.Points().Get("nose")
	if kp.Y != -20 {
		t.Errorf("values must not be clamped, got %v", kp.Y)
	}
}

func TestSetZoomClamps(t *testing.T) {
	e, _ := newTestEditor(t, nil)
	tests := []struct{ in, want float64 }{
		{0.1, MinZoom},
		{1.3, 1.3},
		{5, MaxZoom},
	}
	for _, tt := range tests {
		e.SetZoom(tt.in)
		if e.Zoom() != tt.want {
			t.Errorf("SetZoom(%v) = %v, want %v", tt.in, e.Zoom(), tt.want)
		}
	}
}

func TestLabelsAndSelectionReachRender(t *testing.T) {
	e, _ := newTestEditor(t, twoPoints())
	e.ToggleLabels()
	e.Select("nose")

	rec := rendertest.New(300, 300)
	e.Render(rec)
	if n := rec.Count(rendertest.OpText); n != 2 {
		t.Errorf("labels = %d, want 2", n)
	}
	if r := rec.Filter(rendertest.OpCircle)[0].Radius; r != 8 {
		t.Errorf("selected radius = %v, want 8", r)
	}
}

func TestSave(t *testing.T) {
	var saved pose.PointSet
	e := New(Config{Points: twoPoints(), OnSave: func(ps pose.PointSet) { saved = ps }, Logger: log.New(&bytes.Buffer{}, "", 0)})

	e.PointerDown(pt(100, 50))
	e.PointerMove(pt(130, 50))
	// Uncommitted drag is not saved.
	e.Save()
	if !saved.Equal(twoPoints()) {
		t.Errorf("saved = %v, want committed set", saved)
	}
	e.PointerUp()
	e.Save()
	kp, _ := saved.Get("nose")
	if kp.X != 130 {
		t.Errorf("saved nose.X = %v, want 130", kp.X)
	}
}

func TestHistoryLimit(t *testing.T) {
	e := New(Config{Points: twoPoints(), HistoryLimit: 2})
	e.SetAxis("nose", pose.AxisX, 1)
	e.SetAxis("nose", pose.AxisX, 2)
	e.SetAxis("nose", pose.AxisX, 3)
	e.Undo()
	e.Undo()
	kp, _ := e.Points().Get("nose")
	if kp.X != 2 {
		t.Errorf("nose.X = %v, want 2", kp.X)
	}
}

func TestLoadImage(t *testing.T) {
	e, _ := newTestEditor(t, twoPoints())
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	done := make(chan struct{})

	e.LoadImage(context.Background(), func(context.Context) (image.Image, error) {
		return img, nil
	}, func() { close(done) })

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("onLoaded not called")
	}
	if e.Image() != img {
		t.Errorf("image not stored")
	}
}

func TestLoadImageFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logged := make(chan struct{})
	w := writerFunc(func(p []byte) (int, error) {
		n, err := buf.Write(p)
		close(logged)
		return n, err
	})
	e := New(Config{Points: twoPoints(), Logger: log.New(w, "", 0)})

	called := false
	e.LoadImage(context.Background(), func(context.Context) (image.Image, error) {
		return nil, errors.New("boom")
	}, func() { called = true })

	select {
	case <-logged:
	case <-time.After(5 * time.Second):
		t.Fatal("failure not logged")
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("log = %q", buf.String())
	}
	if called || e.Image() != nil {
		t.Errorf("failed load should leave no image, called=%v", called)
	}

	rec := rendertest.New(100, 100)
	e.Render(rec)
	if rec.Count(rendertest.OpImage) != 0 || rec.Count(rendertest.OpCircle) != 2 {
		t.Errorf("render without image = %+v", rec.Ops)
	}
}

func TestStaleLoadIsDropped(t *testing.T) {
	e, _ := newTestEditor(t, nil)
	release := make(chan struct{})
	finished := make(chan struct{})
	old := image.NewRGBA(image.Rect(0, 0, 1, 1))

	e.LoadImage(context.Background(), func(context.Context) (image.Image, error) {
		<-release
		return old, nil
	}, nil)
	newer := image.NewRGBA(image.Rect(0, 0, 2, 2))
	e.SetImage(newer)

	// A second load signals once the first has had a chance to land.
	e.LoadImage(context.Background(), func(context.Context) (image.Image, error) {
		close(release)
		time.Sleep(50 * time.Millisecond)
		return newer, nil
	}, func() { close(finished) })

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("second load did not finish")
	}
	if e.Image() != newer {
		t.Errorf("stale load replaced the newer image")
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
