package pose

import (
	"errors"
	"testing"
)

func samplePoints() PointSet {
	return PointSet{
		{ID: "nose", X: 100, Y: 50, Confidence: Conf(0.9)},
		{ID: "left_shoulder", X: 80, Y: 90},
	}
}

func TestCloneIsDeep(t *testing.T) {
	ps := samplePoints()
	clone := ps.Clone()
	if !clone.Equal(ps) {
		t.Fatal("clone should equal original")
	}

	clone[0].X = 1
	*clone[0].Confidence = 0.1
	if ps[0].X != 100 || *ps[0].Confidence != 0.9 {
		t.Errorf("mutating clone changed original: %+v", ps[0])
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b PointSet
		want bool
	}{
		{"both empty", PointSet{}, nil, true},
		{"same", samplePoints(), samplePoints(), true},
		{"different length", samplePoints(), samplePoints()[:1], false},
		{"moved", samplePoints(), PointSet{{ID: "nose", X: 101, Y: 50, Confidence: Conf(0.9)}, {ID: "left_shoulder", X: 80, Y: 90}}, false},
		{"confidence missing", samplePoints(), PointSet{{ID: "nose", X: 100, Y: 50}, {ID: "left_shoulder", X: 80, Y: 90}}, false},
		{"order matters", samplePoints(), PointSet{samplePoints()[1], samplePoints()[0]}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWith(t *testing.T) {
	ps := samplePoints()
	moved, ok := ps.With("nose", 120, 60)
	if !ok {
		t.Fatal("expected nose to be found")
	}
	if kp, _ := moved.Get("nose"); kp.X != 120 || kp.Y != 60 {
		t.Errorf("moved nose = %+v", kp)
	}
	if ps[0].X != 100 {
		t.Error("With must not modify the receiver")
	}

	if _, ok := ps.With("tail", 0, 0); ok {
		t.Error("unknown id should report false")
	}
}

func TestWithAxis(t *testing.T) {
	ps := samplePoints()

	got, ok := ps.WithAxis("left_shoulder", AxisY, -5)
	if !ok {
		t.Fatal("expected left_shoulder to be found")
	}
	if kp, _ := got.Get("left_shoulder"); kp.X != 80 || kp.Y != -5 {
		t.Errorf("left_shoulder = %+v, want (80,-5)", kp)
	}

	got, _ = ps.WithAxis("nose", AxisX, 7)
	if kp, _ := got.Get("nose"); kp.X != 7 || kp.Y != 50 {
		t.Errorf("nose = %+v, want (7,50)", kp)
	}
}

func TestValidate(t *testing.T) {
	if err := samplePoints().Validate(); err != nil {
		t.Errorf("valid set: %v", err)
	}

	dup := append(samplePoints(), Keypoint{ID: "nose"})
	if err := dup.Validate(); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("duplicate id err = %v, want ErrDuplicateID", err)
	}

	empty := PointSet{{ID: ""}}
	if err := empty.Validate(); !errors.Is(err, ErrEmptyID) {
		t.Errorf("empty id err = %v, want ErrEmptyID", err)
	}
}

func TestConfidenceOrDefault(t *testing.T) {
	ps := samplePoints()
	if got := ps[0].ConfidenceOrDefault(); got != 0.9 {
		t.Errorf("explicit confidence = %v", got)
	}
	if got := ps[1].ConfidenceOrDefault(); got != DefaultConfidence {
		t.Errorf("missing confidence = %v, want %v", got, DefaultConfidence)
	}
}

func TestSimulatedDetection(t *testing.T) {
	ps := SimulatedDetection(400, 800)
	if len(ps) != 17 {
		t.Fatalf("got %d keypoints, want 17", len(ps))
	}
	if err := ps.Validate(); err != nil {
		t.Fatalf("template invalid: %v", err)
	}
	nose, ok := ps.Get("nose")
	if !ok || nose.X != 200 || nose.Y != 160 {
		t.Errorf("nose = %+v", nose)
	}

	// Every connection endpoint exists in the template.
	for _, c := range Connections {
		if ps.Index(c.From) < 0 || ps.Index(c.To) < 0 {
			t.Errorf("connection %s-%s references missing id", c.From, c.To)
		}
	}
	// Every template id has a display color.
	for _, id := range ps.IDs() {
		if _, ok := keypointColors[id]; !ok {
			t.Errorf("no color for %s", id)
		}
	}
}
