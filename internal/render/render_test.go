package render_test

import (
	"image"
	"image/color"
	"testing"

	"pose-editor/internal/pose"
	"pose-editor/internal/render"
	"pose-editor/internal/render/rendertest"
	"pose-editor/pkg/colorutil"
	"pose-editor/pkg/geometry"
)

func TestRenderClearsFirst(t *testing.T) {
	rec := rendertest.New(200, 200)
	render.Render(rec, nil, pose.SimulatedDetection(200, 200), render.Options{Zoom: 1})

	if len(rec.Ops) == 0 || rec.Ops[0].Kind != rendertest.OpClear {
		t.Fatalf("first op = %+v, want clear", rec.Ops)
	}
	if n := rec.Count(rendertest.OpClear); n != 1 {
		t.Errorf("clear count = %d, want 1", n)
	}
	if n := rec.Count(rendertest.OpImage); n != 0 {
		t.Errorf("image drawn without an image: %d", n)
	}
}

func TestRenderFullSkeleton(t *testing.T) {
	rec := rendertest.New(200, 200)
	points := pose.SimulatedDetection(200, 200)
	render.Render(rec, nil, points, render.Options{Zoom: 1})

	if n := rec.Count(rendertest.OpLine); n != len(pose.Connections) {
		t.Errorf("lines = %d, want %d", n, len(pose.Connections))
	}
	if n := rec.Count(rendertest.OpCircle); n != len(points) {
		t.Errorf("circles = %d, want %d", n, len(points))
	}
	if n := rec.Count(rendertest.OpText); n != 0 {
		t.Errorf("labels drawn while hidden: %d", n)
	}

	// Connections are drawn before any keypoint.
	lastLine, firstCircle := -1, -1
	for i, op := range rec.Ops {
		switch op.Kind {
		case rendertest.OpLine:
			lastLine = i
		case rendertest.OpCircle:
			if firstCircle < 0 {
				firstCircle = i
			}
		}
	}
	if lastLine > firstCircle {
		t.Errorf("line at %d drawn after first circle at %d", lastLine, firstCircle)
	}
}

func TestRenderSkipsIncompleteConnections(t *testing.T) {
	points := pose.PointSet{
		{ID: "nose", X: 10, Y: 10},
		{ID: "left_eye", X: 5, Y: 5},
		{ID: "left_wrist", X: 40, Y: 40},
	}
	rec := rendertest.New(100, 100)
	render.Render(rec, nil, points, render.Options{Zoom: 1})

	lines := rec.Filter(rendertest.OpLine)
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	l := lines[0]
	if l.From != (geometry.Point2D{X: 5, Y: 5}) || l.To != (geometry.Point2D{X: 10, Y: 10}) {
		t.Errorf("line endpoints = %v -> %v", l.From, l.To)
	}
	if l.FromColor != pose.ColorFor("left_eye") || l.ToColor != pose.ColorFor("nose") {
		t.Errorf("line colors = %v -> %v", l.FromColor, l.ToColor)
	}
	if l.Width != render.LineWidth || l.Alpha != render.LineAlpha {
		t.Errorf("line style = %v/%v", l.Width, l.Alpha)
	}
}

func TestRenderKeypointStyle(t *testing.T) {
	points := pose.PointSet{
		{ID: "nose", X: 10, Y: 10, Confidence: pose.Conf(0.9)},
		{ID: "left_eye", X: 20, Y: 10, Confidence: pose.Conf(0.1)},
		{ID: "right_eye", X: 30, Y: 10},
		{ID: "custom", X: 40, Y: 10, Confidence: pose.Conf(1)},
		{ID: "right_ear", X: 45, Y: 10, Confidence: pose.Conf(2.5)},
	}
	rec := rendertest.New(100, 100)
	render.Render(rec, nil, points, render.Options{Zoom: 2, SelectedID: "left_eye"})

	circles := rec.Filter(rendertest.OpCircle)
	if len(circles) != len(points) {
		t.Fatalf("circles = %d, want %d", len(circles), len(points))
	}

	tests := []struct {
		name   string
		center geometry.Point2D
		radius float64
		alpha  float64
		fill   color.RGBA
	}{
		{"nose", geometry.Point2D{X: 20, Y: 20}, render.PointRadius, 0.9, pose.ColorFor("nose")},
		{"left_eye selected and floored", geometry.Point2D{X: 40, Y: 20}, render.SelectedRadius, render.MinPointAlpha, pose.ColorFor("left_eye")},
		{"right_eye default confidence", geometry.Point2D{X: 60, Y: 20}, render.PointRadius, pose.DefaultConfidence, pose.ColorFor("right_eye")},
		{"unknown id is red", geometry.Point2D{X: 80, Y: 20}, render.PointRadius, 1, colorutil.Red},
		{"right_ear confidence above one capped", geometry.Point2D{X: 90, Y: 20}, render.PointRadius, 1, pose.ColorFor("right_ear")},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := circles[i]
			if c.Center != tt.center {
				t.Errorf("center = %v, want %v", c.Center, tt.center)
			}
			if c.Radius != tt.radius {
				t.Errorf("radius = %v, want %v", c.Radius, tt.radius)
			}
			if c.FillAlpha != tt.alpha {
				t.Errorf("alpha = %v, want %v", c.FillAlpha, tt.alpha)
			}
			if c.Fill != tt.fill {
				t.Errorf("fill = %v, want %v", c.Fill, tt.fill)
			}
			if c.Stroke != colorutil.White || c.StrokeW != render.OutlineWidth {
				t.Errorf("outline = %v/%v", c.Stroke, c.StrokeW)
			}
		})
	}
}

func TestRenderLabels(t *testing.T) {
	points := pose.PointSet{{ID: "nose", X: 50, Y: 50}}
	rec := rendertest.New(100, 100)
	render.Render(rec, nil, points, render.Options{Zoom: 1, ShowLabels: true})

	texts := rec.Filter(rendertest.OpText)
	if len(texts) != 1 {
		t.Fatalf("labels = %d, want 1", len(texts))
	}
	want := geometry.Point2D{X: 50, Y: 50 - render.LabelOffset}
	if texts[0].Text != "nose" || texts[0].Anchor != want {
		t.Errorf("label = %q at %v, want nose at %v", texts[0].Text, texts[0].Anchor, want)
	}
	if texts[0].TextFill != colorutil.White || texts[0].TextStroke != colorutil.Black {
		t.Errorf("label colors = %v/%v", texts[0].TextFill, texts[0].TextStroke)
	}
}

func TestRenderEmptySet(t *testing.T) {
	rec := rendertest.New(100, 100)
	render.Render(rec, nil, nil, render.Options{Zoom: 1, ShowLabels: true})
	if len(rec.Ops) != 1 {
		t.Errorf("ops = %+v, want only clear", rec.Ops)
	}
}

func TestRenderImagePlacement(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))
	rec := rendertest.New(200, 200)
	points := pose.PointSet{{ID: "nose", X: 50, Y: 25}}
	render.Render(rec, img, points, render.Options{Zoom: 1})

	imgs := rec.Filter(rendertest.OpImage)
	if len(imgs) != 1 {
		t.Fatalf("image ops = %d, want 1", len(imgs))
	}
	want := geometry.Rect{X: 0, Y: 50, Width: 200, Height: 100}
	if imgs[0].Rect != want {
		t.Errorf("placement = %+v, want %+v", imgs[0].Rect, want)
	}
	c := rec.Filter(rendertest.OpCircle)[0]
	if c.Center != (geometry.Point2D{X: 100, Y: 100}) {
		t.Errorf("nose center = %v, want image center", c.Center)
	}
}

func TestRenderIdempotent(t *testing.T) {
	points := pose.SimulatedDetection(300, 300)
	opts := render.Options{Zoom: 1.5, ShowLabels: true, SelectedID: "nose"}

	a := rendertest.New(300, 300)
	render.Render(a, nil, points, opts)
	b := rendertest.New(300, 300)
	render.Render(b, nil, points, opts)
	render.Render(b, nil, points, opts)

	if len(b.Ops) != 2*len(a.Ops) {
		t.Fatalf("second render ops = %d, want %d", len(b.Ops)-len(a.Ops), len(a.Ops))
	}
	second := b.Ops[len(a.Ops):]
	for i := range a.Ops {
		if a.Ops[i].Kind != second[i].Kind || a.Ops[i].Center != second[i].Center ||
			a.Ops[i].From != second[i].From || a.Ops[i].Text != second[i].Text {
			t.Fatalf("op %d differs: %+v vs %+v", i, a.Ops[i], second[i])
		}
	}
}

func TestLayout(t *testing.T) {
	if v := render.Layout(400, 300, nil, 1.5); v != (geometry.View{Scale: 1.5}) {
		t.Errorf("no image view = %+v", v)
	}
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	v := render.Layout(400, 400, img, 1)
	if v.Scale != 2 || v.OffsetX != 0 || v.OffsetY != 100 {
		t.Errorf("fit view = %+v", v)
	}
}

func TestRasterSurfaceDrawsSkeleton(t *testing.T) {
	s := render.NewRasterSurface(200, 200)
	points := pose.SimulatedDetection(200, 200)
	render.Render(s, nil, points, render.Options{Zoom: 1, ShowLabels: true})

	im := s.Image()
	if got := im.Bounds(); got != image.Rect(0, 0, 200, 200) {
		t.Fatalf("bounds = %v", got)
	}
	nose, _ := points.Get("nose")
	c := im.RGBAAt(int(nose.X), int(nose.Y))
	if c.A == 0 || c.R == 0 {
		t.Errorf("nose pixel = %v, want opaque red", c)
	}
	if corner := im.RGBAAt(199, 199); corner.A != 0 {
		t.Errorf("corner pixel = %v, want transparent", corner)
	}
}

func TestRasterSurfaceClearAndImage(t *testing.T) {
	s := render.NewRasterSurface(10, 10)
	s.Clear(colorutil.Black)
	if c := s.Image().RGBAAt(5, 5); c != colorutil.Black {
		t.Fatalf("after clear = %v", c)
	}

	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			src.SetRGBA(x, y, colorutil.White)
		}
	}
	s.DrawImage(src, geometry.Rect{X: 0, Y: 0, Width: 4, Height: 4})
	if c := s.Image().RGBAAt(1, 1); c != colorutil.White {
		t.Errorf("scaled pixel = %v, want white", c)
	}
	if c := s.Image().RGBAAt(8, 8); c != colorutil.Black {
		t.Errorf("outside pixel = %v, want black", c)
	}
}
