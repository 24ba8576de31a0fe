package math

import "testing"

func TestVec2DistanceSq(t *testing.T) {
	a := Vec2{100, 100}
	b := Vec2{105, 104}
	if got := a.DistanceSq(b); got != 41 {
		t.Errorf("Vec2.DistanceSq() = %v, want 41", got)
	}
}

func TestVec3Cross(t *testing.T) {
	if got := V3(1, 0, 0).Cross(V3(0, 1, 0)); got != V3(0, 0, 1) {
		t.Errorf("Vec3.Cross() = %v, want (0, 0, 1)", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := V3(3, 4, 12).Normalize()
	if l := n.Length(); l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if zero := (Vec3{}).Normalize(); zero != (Vec3{}) {
		t.Errorf("normalizing the zero vector should stay zero, got %v", zero)
	}
}

func TestVec4Divide(t *testing.T) {
	p, ok := Vec4{2, 4, 6, 2}.Divide()
	if !ok || p != V3(1, 2, 3) {
		t.Errorf("Vec4.Divide() = %v, %v; want (1, 2, 3), true", p, ok)
	}
	if _, ok := (Vec4{1, 1, 1, 0}).Divide(); ok {
		t.Error("Vec4.Divide() with w=0 should report !ok")
	}
}

func TestProjectUnprojectRoundTrip(t *testing.T) {
	vp := Viewport{Width: 800, Height: 600}
	viewProj := Perspective(0.5, 800.0/600.0, 0.1, 100).
		Mul(LookAt(V3(1, 2, 7), V3(0, 0, 0), V3(0, 1, 0)))
	inv, ok := viewProj.Inverse()
	if !ok {
		t.Fatal("view-projection should be invertible")
	}

	p := V3(0.3, -0.2, 0.4)
	screen, depth, ok := Project(p, viewProj, vp)
	if !ok {
		t.Fatal("point in front of the camera should project")
	}
	back, ok := Unproject(screen, depth, inv, vp)
	if !ok {
		t.Fatal("Unproject failed")
	}
	if !back.ApproxEqual(p, 1e-3) {
		t.Errorf("round trip: got %v, want %v", back, p)
	}
}

func TestProjectCenterAndBehind(t *testing.T) {
	vp := Viewport{Width: 200, Height: 100}
	viewProj := Perspective(0.5, 2, 0.1, 100).
		Mul(LookAt(V3(0, 0, 5), V3(0, 0, 0), V3(0, 1, 0)))

	screen, _, ok := Project(V3(0, 0, 0), viewProj, vp)
	if !ok || abs(screen.X-100) > 1e-3 || abs(screen.Y-50) > 1e-3 {
		t.Errorf("look target should project to viewport center, got %v (ok=%v)", screen, ok)
	}
	if _, _, ok := Project(V3(0, 0, 10), viewProj, vp); ok {
		t.Error("point behind the eye should not project")
	}
}

func TestViewportFlipsY(t *testing.T) {
	vp := Viewport{Width: 100, Height: 100}
	if ndc := vp.ToNDC(Vec2{0, 0}); ndc != (Vec2{-1, 1}) {
		t.Errorf("top-left should map to NDC (-1, 1), got %v", ndc)
	}
	if s := vp.ToScreen(Vec2{1, -1}); s != (Vec2{100, 100}) {
		t.Errorf("NDC (1, -1) should map to bottom-right, got %v", s)
	}
}
