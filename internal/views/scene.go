package views

import (
	"math"
	"sort"

	"simroom/internal/core"
	"simroom/pkg/domain"
)

// Box is an axis-aligned box in world feet: Center is the box midpoint,
// Size the full extent per axis.
type Box struct {
	Center domain.Vec3
	Size   domain.Vec3
}

// DrawerBox is one drawer slab nested in a cart box. OpenOffset is the
// animated pull-out distance in feet along the cart's facing axis.
type DrawerBox struct {
	DrawerID   string
	CartID     string
	Box        Box
	OpenOffset float64
	Selected   bool
}

// CartBox is one cart in the 3D scene.
type CartBox struct {
	CartID      string
	Box         Box
	RotationDeg float64
	Color       string
	Selected    bool
	Drawers     []DrawerBox
}

// CameraPose is a resolved 3D camera position.
type CameraPose struct {
	ViewID   string
	Position domain.Vec3
	LookAt   domain.Vec3
	FOVDeg   float64
}

// SceneFrame is the full 3D display list.
type SceneFrame struct {
	RoomSize domain.Vec3
	Carts    []CartBox
	Cameras  []CameraPose
}

// BuildScene produces the 3D display list. Unassigned drawers render nowhere;
// drawers within a cart stack bottom-up by number. Open offsets come from the
// animator and are zero when anim is nil.
func BuildScene(doc domain.Document, sel core.SelectionSnapshot, anim *DrawerAnimator) SceneFrame {
	room := doc.RoomSettings
	frame := SceneFrame{
		RoomSize: domain.Vec3{X: room.WidthFeet, Y: room.HeightFeet, Z: room.DepthFeet},
	}

	byCart := make(map[string][]domain.Drawer)
	for _, d := range doc.Drawers {
		if d.CartID == "" {
			continue
		}
		byCart[d.CartID] = append(byCart[d.CartID], d)
	}
	for id := range byCart {
		drawers := byCart[id]
		sort.SliceStable(drawers, func(i, j int) bool { return drawers[i].Number < drawers[j].Number })
	}

	for _, cart := range doc.Carts {
		d := domain.DefaultsFor(cart.Kind)
		center := domain.NormalizedToWorld(cart.X, cart.Y, d.HeightFeet/2, room)
		cb := CartBox{
			CartID:      cart.ID,
			Box:         Box{Center: center, Size: domain.Vec3{X: d.WidthFeet, Y: d.HeightFeet, Z: d.DepthFeet}},
			RotationDeg: cart.RotationDeg,
			Color:       cart.Color,
			Selected:    sel.SelectedKind == domain.EntityCart && sel.SelectedID == cart.ID,
		}
		drawers := byCart[cart.ID]
		if n := len(drawers); n > 0 {
			slabHeight := d.HeightFeet / float64(n)
			for i, drawer := range drawers {
				var offset float64
				if anim != nil {
					offset = anim.Offset(drawer.ID)
				}
				cb.Drawers = append(cb.Drawers, DrawerBox{
					DrawerID: drawer.ID,
					CartID:   cart.ID,
					Box: Box{
						Center: domain.Vec3{
							X: center.X,
							Y: slabHeight/2 + float64(i)*slabHeight,
							Z: center.Z,
						},
						Size: domain.Vec3{X: d.WidthFeet * 0.9, Y: slabHeight * 0.8, Z: d.DepthFeet * 0.9},
					},
					OpenOffset: offset,
					Selected:   sel.SelectedKind == domain.EntityDrawer && sel.SelectedID == drawer.ID,
				})
			}
		}
		frame.Carts = append(frame.Carts, cb)
	}

	for _, cv := range doc.CameraViews {
		frame.Cameras = append(frame.Cameras, CameraPose{
			ViewID:   cv.ID,
			Position: cv.Position,
			LookAt:   cv.LookAt,
			FOVDeg:   cv.FOVDeg,
		})
	}
	return frame
}

// drawerMotion is one drawer's animated open offset.
type drawerMotion struct {
	offset   float64
	velocity float64
	target   float64
}

// DrawerAnimator drives drawer open/close offsets with critically-damped
// spring interpolation. Retargeting an in-flight drawer redirects it without
// a restart; motion stops once offset and velocity drop inside an epsilon.
type DrawerAnimator struct {
	motions map[string]*drawerMotion
	// omega is the spring's natural frequency in 1/seconds.
	omega   float64
	epsilon float64
}

// NewDrawerAnimator constructs an animator with the standard spring tuning.
func NewDrawerAnimator() *DrawerAnimator {
	return &DrawerAnimator{
		motions: make(map[string]*drawerMotion),
		omega:   12,
		epsilon: 0.005,
	}
}

// SetOpen sets a drawer's target offset: openFeet when opening, zero when
// closing.
func (a *DrawerAnimator) SetOpen(drawerID string, open bool, openFeet float64) {
	m, ok := a.motions[drawerID]
	if !ok {
		m = &drawerMotion{}
		a.motions[drawerID] = m
	}
	if open {
		m.target = openFeet
	} else {
		m.target = 0
	}
}

// Offset returns a drawer's current open offset in feet.
func (a *DrawerAnimator) Offset(drawerID string) float64 {
	if m, ok := a.motions[drawerID]; ok {
		return m.offset
	}
	return 0
}

// Animating reports whether any drawer is still moving.
func (a *DrawerAnimator) Animating() bool {
	for _, m := range a.motions {
		if !a.settled(m) {
			return true
		}
	}
	return false
}

// Step advances all motions by dt seconds.
func (a *DrawerAnimator) Step(dt float64) {
	if dt <= 0 {
		return
	}
	for id, m := range a.motions {
		if a.settled(m) {
			m.offset = m.target
			m.velocity = 0
			if m.target == 0 {
				delete(a.motions, id)
			}
			continue
		}
		// Critically damped spring: x'' = -ω²(x - target) - 2ωx'.
		// Closed-form step keeps the integration stable at any dt.
		x := m.offset - m.target
		v := m.velocity
		e := math.Exp(-a.omega * dt)
		m.offset = m.target + (x+(v+a.omega*x)*dt)*e
		m.velocity = (v - (v+a.omega*x)*(a.omega*dt)) * e
	}
}

func (a *DrawerAnimator) settled(m *drawerMotion) bool {
	return math.Abs(m.offset-m.target) < a.epsilon && math.Abs(m.velocity) < a.epsilon
}
