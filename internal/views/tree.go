package views

import (
	"sort"

	"simroom/internal/core"
	"simroom/pkg/domain"
)

// TreeNode is one row of the hierarchy tree. Depth is the indent level;
// children follow their parent in the flattened list.
type TreeNode struct {
	Kind     domain.EntityType
	ID       string
	Label    string
	Depth    int
	Selected bool
}

// BuildTree flattens the document into the hierarchy list: carts with their
// drawers and drawer items nested, then unassigned drawers and loose items,
// then scenario, achievement, and camera sections. Dangling references render
// as unassigned rather than erroring.
func BuildTree(doc domain.Document, sel core.SelectionSnapshot) []TreeNode {
	var nodes []TreeNode
	add := func(kind domain.EntityType, id, label string, depth int) {
		nodes = append(nodes, TreeNode{
			Kind:     kind,
			ID:       id,
			Label:    label,
			Depth:    depth,
			Selected: sel.SelectedKind == kind && sel.SelectedID == id,
		})
	}

	drawersByCart := make(map[string][]domain.Drawer)
	for _, d := range doc.Drawers {
		drawersByCart[d.CartID] = append(drawersByCart[d.CartID], d)
	}
	for id := range drawersByCart {
		ds := drawersByCart[id]
		sort.SliceStable(ds, func(i, j int) bool { return ds[i].Number < ds[j].Number })
	}
	drawerIDs := make(map[string]bool, len(doc.Drawers))
	for _, d := range doc.Drawers {
		drawerIDs[d.ID] = true
	}
	itemsByDrawer := make(map[string][]domain.Item)
	var looseItems []domain.Item
	for _, it := range doc.Items {
		if it.DrawerID != "" && drawerIDs[it.DrawerID] {
			itemsByDrawer[it.DrawerID] = append(itemsByDrawer[it.DrawerID], it)
			continue
		}
		looseItems = append(looseItems, it)
	}

	for _, cart := range doc.Carts {
		add(domain.EntityCart, cart.ID, cart.Name, 0)
		for _, d := range drawersByCart[cart.ID] {
			add(domain.EntityDrawer, d.ID, d.Name, 1)
			for _, it := range itemsByDrawer[d.ID] {
				add(domain.EntityItem, it.ID, it.Name, 2)
			}
		}
	}
	// Unassigned drawers, including those pointing at a deleted cart, in
	// document order.
	for _, d := range doc.Drawers {
		if d.CartID != "" && cartHasID(doc.Carts, d.CartID) {
			continue
		}
		add(domain.EntityDrawer, d.ID, d.Name+" (unassigned)", 0)
		for _, it := range itemsByDrawer[d.ID] {
			add(domain.EntityItem, it.ID, it.Name, 1)
		}
	}
	for _, it := range looseItems {
		add(domain.EntityItem, it.ID, it.Name, 0)
	}
	for _, sc := range doc.Scenarios {
		add(domain.EntityScenario, sc.ID, sc.Name, 0)
	}
	for _, a := range doc.Achievements {
		add(domain.EntityAchievement, a.ID, a.Title, 0)
	}
	for _, cv := range doc.CameraViews {
		add(domain.EntityCameraView, cv.ID, cv.Name, 0)
	}
	return nodes
}

func cartHasID(carts []domain.Cart, id string) bool {
	for _, c := range carts {
		if c.ID == id {
			return true
		}
	}
	return false
}
