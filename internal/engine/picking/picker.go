package picking

import (
	"go.uber.org/zap"

	"github.com/Faultbox/patchlab/internal/logger"
	"github.com/Faultbox/patchlab/pkg/math"
)

// ControlNet is an editable set of control points addressed by flat index.
// Curves, patches and lights implement it.
type ControlNet interface {
	NumControlPoints() int
	ControlPointAt(k int) math.Vec3
	SetControlPointAt(k int, p math.Vec3) error
}

// View is a snapshot of the camera used for one pick or drag.
type View struct {
	View       math.Mat4 // world -> eye
	Projection math.Mat4 // eye -> clip
	Viewport   math.Viewport
}

// ViewProjection returns Projection * View.
func (v View) ViewProjection() math.Mat4 {
	return v.Projection.Mul(v.View)
}

// Handle identifies one control point of one net.
type Handle struct {
	Net   ControlNet
	Index int
}

// Position returns the live position of the referenced control point.
func (h Handle) Position() math.Vec3 {
	return h.Net.ControlPointAt(h.Index)
}

// State is the picker state.
type State int

const (
	Idle State = iota
	Armed
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Dragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// session is the state captured at pick time and reused by every Drag.
type session struct {
	target      Handle
	view        View
	invViewProj math.Mat4
	forward     math.Vec3 // view direction; the drag plane normal
	anchor      math.Vec3 // picked point position; lies on the drag plane
	offset      math.Vec2 // cursor minus projected point at pick time
}

// Picker selects a control point under the cursor and drags it.
// States: Idle -> Armed (TryPick) -> Dragging (BeginDrag) -> Idle (EndDrag).
type Picker struct {
	state   State
	session session
}

// NewPicker creates an idle picker.
func NewPicker() *Picker {
	return &Picker{}
}

// State returns the current state.
func (p *Picker) State() State {
	return p.state
}

// Picked returns the handle being held, if any.
func (p *Picker) Picked() (Handle, bool) {
	if p.state == Idle {
		return Handle{}, false
	}
	return p.session.target, true
}

// Nearest returns the control point whose projection is closest to screen,
// provided it lies within tolerance pixels. Points behind the camera are
// ignored. On exact ties the earlier net, then the lower index, wins. A
// negative tolerance picks nothing.
func Nearest(screen math.Vec2, view View, tolerance float32, nets ...ControlNet) (Handle, bool) {
	if tolerance < 0 {
		return Handle{}, false
	}
	viewProj := view.ViewProjection()
	best := Handle{Index: -1}
	bestDist := tolerance * tolerance

	for _, net := range nets {
		if net == nil {
			continue
		}
		for k := range net.NumControlPoints() {
			s, _, ok := math.Project(net.ControlPointAt(k), viewProj, view.Viewport)
			if !ok {
				continue
			}
			d := s.DistanceSq(screen)
			if d < bestDist || (best.Index < 0 && d == bestDist) {
				best = Handle{Net: net, Index: k}
				bestDist = d
			}
		}
	}
	return best, best.Index >= 0
}

// TryPick arms the picker on the nearest control point within tolerance of
// (x, y). It reports false, leaving the state unchanged, when nothing is in
// range or when a drag is in progress.
func (p *Picker) TryPick(x, y float32, view View, tolerance float32, nets ...ControlNet) bool {
	if p.state == Dragging {
		return false
	}

	cursor := math.Vec2{X: x, Y: y}
	h, ok := Nearest(cursor, view, tolerance, nets...)
	if !ok {
		return false
	}

	viewProj := view.ViewProjection()
	inv, ok := viewProj.Inverse()
	if !ok {
		logger.Warn("pick ignored: singular view-projection")
		return false
	}

	anchor := h.Position()
	screen, _, _ := math.Project(anchor, viewProj, view.Viewport)
	p.session = session{
		target:      h,
		view:        view,
		invViewProj: inv,
		forward:     ViewForward(view.View),
		anchor:      anchor,
		offset:      cursor.Sub(screen),
	}
	p.state = Armed

	logger.Debug("control point picked",
		zap.Int("index", h.Index),
		zap.Float32("x", x),
		zap.Float32("y", y),
	)
	return true
}

// BeginDrag starts dragging the armed point. It reports false unless Armed.
func (p *Picker) BeginDrag() bool {
	if p.state != Armed {
		return false
	}
	p.state = Dragging
	return true
}

// Drag moves the held point so that it projects under (x, y), keeping the
// cursor offset and the eye-space depth it had when picked. The camera
// captured by TryPick is used, not the current one. No-op unless Dragging.
func (p *Picker) Drag(x, y float32) error {
	if p.state != Dragging {
		return nil
	}
	sess := &p.session

	target := math.Vec2{X: x, Y: y}.Sub(sess.offset)
	ray, ok := ScreenToRay(target, sess.view.Viewport, sess.invViewProj)
	if !ok {
		return nil
	}
	pos, ok := ray.IntersectPlane(sess.anchor, sess.forward)
	if !ok {
		return nil
	}
	return sess.target.Net.SetControlPointAt(sess.target.Index, pos)
}

// EndDrag releases the held point and returns to Idle. No-op when Idle.
func (p *Picker) EndDrag() {
	if p.state == Idle {
		return
	}
	p.state = Idle
	p.session = session{}
}

// Cancel is EndDrag for external cancellation (window focus loss, Esc).
func (p *Picker) Cancel() {
	p.EndDrag()
}
