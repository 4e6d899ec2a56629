package views

import (
	"math"
	"testing"

	"simroom/internal/core"
	"simroom/pkg/domain"
)

func testDocument() domain.Document {
	return domain.Document{
		Carts: []domain.Cart{
			{Base: domain.Base{ID: "c1"}, Name: "Crash Cart", Kind: domain.CartCrash, X: 0.25, Y: 0.25, Color: "#d32f2f"},
			{Base: domain.Base{ID: "c2"}, Name: "Supply Cart", Kind: domain.CartSupply, X: 0.25, Y: 0.25, Color: "#388e3c"},
		},
		Drawers: []domain.Drawer{
			{Base: domain.Base{ID: "d2"}, CartID: "c1", Name: "Lower", Number: 2},
			{Base: domain.Base{ID: "d1"}, CartID: "c1", Name: "Upper", Number: 1},
			{Base: domain.Base{ID: "d3"}, CartID: "", Name: "Spare", Number: 1},
		},
		Items: []domain.Item{
			{Base: domain.Base{ID: "i1"}, Name: "Epinephrine", CartID: "c1", DrawerID: "d1"},
			{Base: domain.Base{ID: "i2"}, Name: "Loose Gauze"},
		},
		Scenarios:    []domain.Scenario{{Base: domain.Base{ID: "s1"}, Name: "Cardiac Arrest"}},
		RoomSettings: domain.RoomSettings{WidthFeet: 20, DepthFeet: 20, HeightFeet: 10, PixelsPerFoot: 10, BackgroundColor: "#ffffff"},
	}
}

func TestHitTestPrefersTopmostCart(t *testing.T) {
	doc := testDocument()
	// Both carts are centered on the same point; the later one stacks on top.
	px := domain.NormalizedToPixels(0.25, 20, 10)
	cart, ok := HitTestCart(doc, px, px)
	if !ok {
		t.Fatal("no cart hit at shared center")
	}
	if cart.ID != "c2" {
		t.Fatalf("hit cart %s, want topmost c2", cart.ID)
	}
}

func TestHitTestMissesEmptySpace(t *testing.T) {
	doc := testDocument()
	if _, ok := HitTestCart(doc, 1, 1); ok {
		t.Fatal("hit reported in empty corner")
	}
}

func TestHitTestMatchesFootprint(t *testing.T) {
	doc := testDocument()
	frame := BuildCanvas(doc, core.SelectionSnapshot{})
	rect := frame.Carts[1]
	// A point just inside the rendered rect must hit the same cart.
	cart, ok := HitTestCart(doc, rect.X+1, rect.Y+1)
	if !ok || cart.ID != rect.CartID {
		t.Fatalf("rendered rect and hit-test disagree: hit %v, rect cart %s", cart.ID, rect.CartID)
	}
}

func TestQuarterTurnSwapsFootprintSides(t *testing.T) {
	doc := testDocument()
	doc.Carts = []domain.Cart{
		{Base: domain.Base{ID: "p0"}, Name: "Table", Kind: domain.CartProcedure, X: 0.5, Y: 0.5},
		{Base: domain.Base{ID: "p90"}, Name: "Table", Kind: domain.CartProcedure, X: 0.5, Y: 0.5, RotationDeg: 90},
	}
	frame := BuildCanvas(doc, core.SelectionSnapshot{})
	flat, turned := frame.Carts[0], frame.Carts[1]
	if flat.W <= flat.H {
		t.Fatalf("procedure table must be wider than deep at rest: w=%v h=%v", flat.W, flat.H)
	}
	if turned.W != flat.H || turned.H != flat.W {
		t.Fatalf("quarter turn must swap sides: flat %vx%v, turned %vx%v",
			flat.W, flat.H, turned.W, turned.H)
	}
}

func TestRotatedCartPaintedEndsAreClickable(t *testing.T) {
	doc := testDocument()
	// 6.0x2.5 ft procedure table, turned sideways in the room center.
	doc.Carts = []domain.Cart{
		{Base: domain.Base{ID: "table"}, Name: "Table", Kind: domain.CartProcedure, X: 0.5, Y: 0.5, RotationDeg: 90},
	}
	room := doc.RoomSettings
	cx := domain.NormalizedToPixels(0.5, room.WidthFeet, room.PixelsPerFoot)
	cy := domain.NormalizedToPixels(0.5, room.DepthFeet, room.PixelsPerFoot)
	// 2.5 ft below center lies inside the painted long side only when the
	// footprint is turned with the cart.
	py := cy + domain.FeetToPixels(2.5, room.PixelsPerFoot)
	cart, ok := HitTestCart(doc, cx, py)
	if !ok || cart.ID != "table" {
		t.Fatalf("painted end of rotated table not hit at (%v, %v)", cx, py)
	}
}

func TestBuildCanvasMarksSelection(t *testing.T) {
	doc := testDocument()
	sel := core.SelectionSnapshot{SelectedKind: domain.EntityCart, SelectedID: "c1"}
	frame := BuildCanvas(doc, sel)
	if !frame.Carts[0].Selected || frame.Carts[1].Selected {
		t.Fatal("selection flag misapplied")
	}
	if len(frame.Overlay) == 0 {
		t.Fatal("selected cart must produce a metadata overlay")
	}
}

func TestDraggedCartFollowsCursor(t *testing.T) {
	doc := testDocument()
	sel := core.SelectionSnapshot{
		DraggedCartID: "c1",
		MouseX:        150, MouseY: 90,
		DragOffsetX: 4, DragOffsetY: -6,
	}
	frame := BuildCanvas(doc, sel)
	ghost := frame.Carts[0]
	if ghost.X != 150-4-ghost.W/2 || ghost.Y != 90+6-ghost.H/2 {
		t.Fatalf("dragged cart at (%v, %v), want cursor minus grab anchor", ghost.X, ghost.Y)
	}
	// The other cart keeps its document position.
	still := frame.Carts[1]
	wantX := domain.NormalizedToPixels(0.25, 20, 10) - still.W/2
	if still.X != wantX {
		t.Fatalf("undragged cart moved: x=%v, want %v", still.X, wantX)
	}
}

func TestBuildCanvasGridOnlyWhenSnapping(t *testing.T) {
	doc := testDocument()
	off := BuildCanvas(doc, core.SelectionSnapshot{})
	if len(off.Grid) != 0 {
		t.Fatal("grid drawn with snapping off")
	}
	on := BuildCanvas(doc, core.SelectionSnapshot{SnapToGrid: true, GridSizeFeet: 1})
	if len(on.Grid) == 0 {
		t.Fatal("no grid drawn with snapping on")
	}
}

func TestBuildSceneOrdersDrawersByNumber(t *testing.T) {
	doc := testDocument()
	frame := BuildScene(doc, core.SelectionSnapshot{}, nil)
	if len(frame.Carts) != 2 {
		t.Fatalf("scene has %d carts, want 2", len(frame.Carts))
	}
	drawers := frame.Carts[0].Drawers
	if len(drawers) != 2 {
		t.Fatalf("cart c1 has %d drawer boxes, want 2", len(drawers))
	}
	if drawers[0].DrawerID != "d1" || drawers[1].DrawerID != "d2" {
		t.Fatalf("drawer order = %s, %s; want d1, d2", drawers[0].DrawerID, drawers[1].DrawerID)
	}
	if drawers[0].Box.Center.Y >= drawers[1].Box.Center.Y {
		t.Fatal("drawer 1 must sit below drawer 2")
	}
}

func TestBuildSceneSkipsUnassignedDrawers(t *testing.T) {
	doc := testDocument()
	frame := BuildScene(doc, core.SelectionSnapshot{}, nil)
	for _, cart := range frame.Carts {
		for _, d := range cart.Drawers {
			if d.DrawerID == "d3" {
				t.Fatal("unassigned drawer rendered in scene")
			}
		}
	}
}

func TestBuildTreeHierarchy(t *testing.T) {
	doc := testDocument()
	nodes := BuildTree(doc, core.SelectionSnapshot{SelectedKind: domain.EntityItem, SelectedID: "i1"})

	labels := map[string]TreeNode{}
	for _, n := range nodes {
		labels[n.ID] = n
	}
	if labels["c1"].Depth != 0 || labels["d1"].Depth != 1 || labels["i1"].Depth != 2 {
		t.Fatalf("hierarchy depths wrong: cart=%d drawer=%d item=%d",
			labels["c1"].Depth, labels["d1"].Depth, labels["i1"].Depth)
	}
	if !labels["i1"].Selected {
		t.Fatal("selected item not flagged")
	}
	if labels["d3"].Label != "Spare (unassigned)" {
		t.Fatalf("unassigned drawer label = %q", labels["d3"].Label)
	}
	if labels["i2"].Depth != 0 {
		t.Fatal("loose item must sit at the root level")
	}
	if labels["s1"].Kind != domain.EntityScenario {
		t.Fatal("scenario section missing")
	}
}

func TestDrawerAnimatorConvergesAndSettles(t *testing.T) {
	anim := NewDrawerAnimator()
	anim.SetOpen("d1", true, 1.5)

	for i := 0; i < 600; i++ {
		anim.Step(1.0 / 60.0)
	}
	if got := anim.Offset("d1"); math.Abs(got-1.5) > 0.01 {
		t.Fatalf("offset = %v after settling, want ~1.5", got)
	}
	if anim.Animating() {
		t.Fatal("animator still reports motion after settling")
	}
}

func TestDrawerAnimatorRetargetsMidFlight(t *testing.T) {
	anim := NewDrawerAnimator()
	anim.SetOpen("d1", true, 1.5)
	for i := 0; i < 5; i++ {
		anim.Step(1.0 / 60.0)
	}
	mid := anim.Offset("d1")
	if mid <= 0 || mid >= 1.5 {
		t.Fatalf("offset = %v mid-flight, want between 0 and 1.5", mid)
	}

	anim.SetOpen("d1", false, 1.5)
	for i := 0; i < 600; i++ {
		anim.Step(1.0 / 60.0)
	}
	if got := anim.Offset("d1"); math.Abs(got) > 0.01 {
		t.Fatalf("offset = %v after closing, want ~0", got)
	}
}

func TestDrawerAnimatorNeverOvershootsMonotonically(t *testing.T) {
	anim := NewDrawerAnimator()
	anim.SetOpen("d1", true, 2)
	prev := 0.0
	for i := 0; i < 300; i++ {
		anim.Step(1.0 / 60.0)
		cur := anim.Offset("d1")
		if cur < prev-1e-9 {
			t.Fatalf("critically damped motion reversed at step %d: %v -> %v", i, prev, cur)
		}
		prev = cur
	}
}

func TestBuildOverviewCounts(t *testing.T) {
	doc := testDocument()
	counts := BuildOverview(doc)
	if counts.Carts != 2 || counts.Drawers != 3 || counts.Items != 2 || counts.Scenarios != 1 {
		t.Fatalf("overview counts = %+v", counts)
	}
}
