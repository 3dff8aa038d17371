package vision

import "testing"

func TestWaypoints_StraightLine(t *testing.T) {
	cfg := DefaultConfig()
	got := cfg.Waypoints(Curve{C: 320}, 640, 480)

	want := []Waypoint{
		{320, 460}, {320, 410}, {320, 360}, {320, 310}, {320, 260}, {320, 210},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d waypoints, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("waypoint %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestWaypoints_OutOfFrameIsSkipped(t *testing.T) {
	// x = (y-360)²/8: out of frame at the bottom, in frame around y=360,
	// out again above.
	curve := Curve{A: 0.125, B: -90, C: 16200}

	got := DefaultConfig().Waypoints(curve, 640, 480)

	want := []Waypoint{{312, 410}, {0, 360}, {312, 310}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("waypoint %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestWaypoints_RightEdgeIsExclusive(t *testing.T) {
	got := DefaultConfig().Waypoints(Curve{C: 640}, 640, 480)
	if len(got) != 0 {
		t.Errorf("x == width must be dropped, got %v", got)
	}

	got = DefaultConfig().Waypoints(Curve{C: 639.9}, 640, 480)
	if len(got) != 6 || got[0].X != 639 {
		t.Errorf("x just inside the frame must be kept, got %v", got)
	}
}

func TestWaypoints_TruncatesTowardZero(t *testing.T) {
	got := DefaultConfig().Waypoints(Curve{C: -0.5}, 640, 480)
	if len(got) != 6 || got[0].X != 0 {
		t.Errorf("x in (-1, 0) truncates to 0, got %v", got)
	}

	got = DefaultConfig().Waypoints(Curve{C: -1}, 640, 480)
	if len(got) != 0 {
		t.Errorf("x = -1 is out of frame, got %v", got)
	}
}

func TestWaypoints_StopsAtTopOfFrame(t *testing.T) {
	// Rows 80, 30 fit; -20 ends generation.
	got := DefaultConfig().Waypoints(Curve{C: 50}, 640, 100)

	if len(got) != 2 {
		t.Fatalf("got %v, want 2 waypoints", got)
	}
	if got[0].Y != 80 || got[1].Y != 30 {
		t.Errorf("unexpected rows: %v", got)
	}
}

func TestWaypoints_CountLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WaypointCount = 3

	got := cfg.Waypoints(Curve{C: 100}, 640, 2000)
	if len(got) != 3 {
		t.Errorf("got %d waypoints, want 3", len(got))
	}
}

func TestPath_Lookahead(t *testing.T) {
	path := Path{Waypoints: []Waypoint{{1, 460}, {2, 410}, {3, 360}}}

	tests := []struct {
		name   string
		index  int
		want   Waypoint
		wantOK bool
	}{
		{"nearest", 0, Waypoint{1, 460}, true},
		{"reference lookahead", 2, Waypoint{3, 360}, true},
		{"too short", 3, Waypoint{}, false},
		{"negative", -1, Waypoint{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := path.Lookahead(tc.index)
			if ok != tc.wantOK || got != tc.want {
				t.Errorf("Lookahead(%d): got (%v, %v), want (%v, %v)",
					tc.index, got, ok, tc.want, tc.wantOK)
			}
		})
	}

	if _, ok := (Path{}).Lookahead(2); ok {
		t.Error("empty path must not yield a lookahead point")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Threshold != 60 {
		t.Errorf("Threshold: got %v, want 60", cfg.Threshold)
	}
	if !cfg.Invert {
		t.Error("Invert: expected dark line on light floor")
	}
	if cfg.BlurKernel != 5 {
		t.Errorf("BlurKernel: got %d, want 5", cfg.BlurKernel)
	}
	if cfg.MinSupport != 500 {
		t.Errorf("MinSupport: got %d, want 500", cfg.MinSupport)
	}
	if cfg.WaypointCount != 6 || cfg.WaypointStep != 50 || cfg.BottomMargin != 20 {
		t.Errorf("waypoint sampling: got %d/%d/%d, want 6/50/20",
			cfg.WaypointCount, cfg.WaypointStep, cfg.BottomMargin)
	}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("DefaultConfig should be valid, got %v", errs)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlurKernel = 4
	cfg.WaypointStep = 0
	cfg.Threshold = 300

	if errs := cfg.Validate(); len(errs) != 3 {
		t.Errorf("expected 3 validation errors, got %v", errs)
	}
}
