package plot

import "testing"

func newControllerFixture(t *testing.T) (*Controller, *Session, *RecordingCanvas, *countingSink) {
	t.Helper()
	canvas := NewRecordingCanvas(512, 256)
	session := newTestSession(t, canvas)
	if err := session.Update("good"); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	sink := &countingSink{}
	session.SetEventSink(sink)
	return NewController(session, 0.9), session, canvas, sink
}

func TestControllerDragPansAndNotifies(t *testing.T) {
	c, s, _, sink := newControllerFixture(t)
	startCenter := s.Center()
	scale := s.Transform().PixelsPerUnit()

	// Press, two moves, release.
	c.Handle(PointerState{X: 100, Y: 100, Pressed: true, JustPressed: true, Over: true})
	if !c.Panning() {
		t.Fatal("press over the surface did not start a drag")
	}
	c.Handle(PointerState{X: 110, Y: 100, Pressed: true, Over: true})
	c.Handle(PointerState{X: 110, Y: 95, Pressed: true, Over: true})
	c.Handle(PointerState{X: 110, Y: 95})

	if c.Panning() {
		t.Error("release did not end the drag")
	}
	if sink.changed != 2 {
		t.Errorf("changed notifications = %d, want one per move", sink.changed)
	}
	if sink.settled != 1 {
		t.Errorf("settled notifications = %d, want 1 on release", sink.settled)
	}

	// Dragging right by 10px moves the center left by 10/scale world units;
	// dragging up by 5px moves it up by 5/scale.
	got := s.Center()
	if !closeTo(got.X, startCenter.X-10/scale) {
		t.Errorf("center X = %v, want %v", got.X, startCenter.X-10/scale)
	}
	if !closeTo(got.Y, startCenter.Y+5/scale) {
		t.Errorf("center Y = %v, want %v", got.Y, startCenter.Y+5/scale)
	}
}

func TestControllerStationaryDragEmitsNothing(t *testing.T) {
	c, _, _, sink := newControllerFixture(t)

	c.Handle(PointerState{X: 50, Y: 50, Pressed: true, JustPressed: true, Over: true})
	c.Handle(PointerState{X: 50, Y: 50, Pressed: true, Over: true})
	c.Handle(PointerState{X: 50, Y: 50, Pressed: true, Over: true})

	if sink.changed != 0 {
		t.Errorf("changed notifications = %d, want 0 for a stationary drag", sink.changed)
	}
}

func TestControllerDragContinuesOffSurface(t *testing.T) {
	c, s, _, _ := newControllerFixture(t)
	startCenter := s.Center()

	c.Handle(PointerState{X: 500, Y: 100, Pressed: true, JustPressed: true, Over: true})
	// Pointer leaves the surface mid-drag; moves still pan.
	c.Handle(PointerState{X: 600, Y: 100, Pressed: true, Over: false})

	if !c.Panning() {
		t.Fatal("drag ended when the pointer left the surface")
	}
	if s.Center() == startCenter {
		t.Error("off-surface move did not pan")
	}
}

func TestControllerPressOutsideSurfaceIgnored(t *testing.T) {
	c, _, _, sink := newControllerFixture(t)

	c.Handle(PointerState{X: 600, Y: 300, Pressed: true, JustPressed: true, Over: false})
	if c.Panning() {
		t.Error("press outside the surface started a drag")
	}
	if sink.changed+sink.settled != 0 {
		t.Error("press outside the surface emitted notifications")
	}
}

func TestControllerWheelPreservesAnchor(t *testing.T) {
	tests := []struct {
		name  string
		wheel float64
	}{
		{"zoom in", 1},
		{"zoom out", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, s, _, _ := newControllerFixture(t)

			// An off-center pointer makes the anchor property non-trivial.
			const px, py = 400, 60
			before := s.Transform()
			anchorX := before.ViewToWorldX(px)
			anchorY := before.ViewToWorldY(py)

			c.Handle(PointerState{X: px, Y: py, Wheel: tt.wheel, Over: true})

			after := s.Transform()
			if got := after.WorldToViewX(anchorX); !closeTo(got, px) {
				t.Errorf("anchor view X after zoom = %v, want %v", got, px)
			}
			if got := after.WorldToViewY(anchorY); !closeTo(got, py) {
				t.Errorf("anchor view Y after zoom = %v, want %v", got, py)
			}
		})
	}
}

func TestControllerWheelScaleSteps(t *testing.T) {
	c, s, _, sink := newControllerFixture(t)

	c.Handle(PointerState{X: 256, Y: 128, Wheel: 1, Over: true})
	if got := s.Scale(); !closeTo(got, 1/0.9) {
		t.Errorf("scale after zoom in = %v, want %v", got, 1/0.9)
	}
	c.Handle(PointerState{X: 256, Y: 128, Wheel: -1, Over: true})
	if got := s.Scale(); !closeTo(got, 1) {
		t.Errorf("scale after zoom in then out = %v, want 1", got)
	}

	// Each wheel tick is a complete gesture.
	if sink.changed != 2 || sink.settled != 2 {
		t.Errorf("notifications = %d changed / %d settled, want 2 / 2", sink.changed, sink.settled)
	}
}

func TestControllerWheelOutsideSurfaceIgnored(t *testing.T) {
	c, s, _, _ := newControllerFixture(t)

	c.Handle(PointerState{X: 600, Y: 300, Wheel: 1, Over: false})
	if s.Scale() != 1 {
		t.Errorf("scale = %v after off-surface wheel, want 1", s.Scale())
	}
}

func TestControllerRepeatedZoomNeverReachesZero(t *testing.T) {
	c, s, _, _ := newControllerFixture(t)

	for i := 0; i < 500; i++ {
		c.Handle(PointerState{X: 256, Y: 128, Wheel: -1, Over: true})
	}
	if s.Scale() <= 0 {
		t.Errorf("scale = %v after 500 zoom-out steps, want > 0", s.Scale())
	}
}

func TestControllerInvalidZoomStepFallsBack(t *testing.T) {
	canvas := NewRecordingCanvas(512, 256)
	s := newTestSession(t, canvas)

	for _, step := range []float64{0, -1, 1, 2} {
		c := NewController(s, step)
		if c.zoomStep != DefaultZoomStep {
			t.Errorf("NewController(_, %v) zoomStep = %v, want %v", step, c.zoomStep, DefaultZoomStep)
		}
	}
}
