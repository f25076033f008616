package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/teamtask-app/models"
	"github.com/yeremiapane/teamtask-app/services"
	"github.com/yeremiapane/teamtask-app/stores"
)

func setupTreeDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	if err := db.Table("groups").AutoMigrate(&models.GroupNode{}); err != nil {
		panic(err)
	}
	return db
}

func newPersonalTree(t *testing.T) (*services.GroupTree, *gorm.DB) {
	db := setupTreeDB(t)
	return services.NewGroupTree(stores.NewPersonalGroupStore(db)), db
}

func TestCreateNodeAppendsToEnd(t *testing.T) {
	tree, _ := newPersonalTree(t)
	ownerID := uint(1)

	var created []*models.GroupNode
	for _, name := range []string{"Alpha", "Beta", "Gamma"} {
		node, err := tree.CreateNode(ownerID, services.CreateNodeInput{Name: name})
		assert.NoError(t, err)
		created = append(created, node)
	}

	// Sibling baru selalu di posisi terakhir
	for i, node := range created {
		assert.Equal(t, i, node.SortOrder)
	}

	child, err := tree.CreateNode(ownerID, services.CreateNodeInput{
		Name:     "Child",
		ParentID: &created[0].ID,
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, child.SortOrder)
}

func TestCreateNodeLinksBothSides(t *testing.T) {
	tree, _ := newPersonalTree(t)
	ownerID := uint(1)

	parent, err := tree.CreateNode(ownerID, services.CreateNodeInput{Name: "Parent"})
	assert.NoError(t, err)

	child, err := tree.CreateNode(ownerID, services.CreateNodeInput{
		Name:     "Child",
		ParentID: &parent.ID,
	})
	assert.NoError(t, err)
	assert.Equal(t, parent.ID, *child.ParentID)

	reloaded, err := tree.Resolve(parent.ID)
	assert.NoError(t, err)
	assert.True(t, reloaded.ChildIDs.Contains(child.ID))
}

func TestCreateNodeValidation(t *testing.T) {
	tree, _ := newPersonalTree(t)

	_, err := tree.CreateNode(1, services.CreateNodeInput{Name: "   "})
	assert.ErrorIs(t, err, services.ErrValidation)

	missing := uint(999)
	_, err = tree.CreateNode(1, services.CreateNodeInput{Name: "Orphan", ParentID: &missing})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCreateNodeDefaults(t *testing.T) {
	tree, _ := newPersonalTree(t)

	node, err := tree.CreateNode(1, services.CreateNodeInput{Name: "Plain"})
	assert.NoError(t, err)
	assert.Equal(t, models.GroupKindCustom, node.Kind)
	assert.Equal(t, "#1890ff", node.Color)
	assert.Equal(t, "📁", node.Icon)
}

func TestNodesScopedToOwner(t *testing.T) {
	tree, _ := newPersonalTree(t)

	node, err := tree.CreateNode(1, services.CreateNodeInput{Name: "Mine"})
	assert.NoError(t, err)

	// Owner lain tidak bisa menyentuh node ini
	_, err = tree.UpdateNode(node.ID, 2, services.UpdateNodeInput{})
	assert.ErrorIs(t, err, services.ErrNotFound)
	err = tree.DeleteNode(node.ID, 2)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUpdateNodePartial(t *testing.T) {
	tree, _ := newPersonalTree(t)

	node, err := tree.CreateNode(1, services.CreateNodeInput{Name: "Before", Color: "#ffffff"})
	assert.NoError(t, err)

	newName := "After"
	collapsed := true
	updated, err := tree.UpdateNode(node.ID, 1, services.UpdateNodeInput{
		Name:      &newName,
		Collapsed: &collapsed,
	})
	assert.NoError(t, err)
	assert.Equal(t, "After", updated.Name)
	assert.True(t, updated.Collapsed)
	// Field yang tidak dikirim tidak berubah
	assert.Equal(t, "#ffffff", updated.Color)

	empty := "  "
	_, err = tree.UpdateNode(node.ID, 1, services.UpdateNodeInput{Name: &empty})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestDeleteNodeCascades(t *testing.T) {
	tree, _ := newPersonalTree(t)
	ownerID := uint(1)

	// A -> {B, D}, B -> {C}
	a, _ := tree.CreateNode(ownerID, services.CreateNodeInput{Name: "A"})
	b, _ := tree.CreateNode(ownerID, services.CreateNodeInput{Name: "B", ParentID: &a.ID})
	c, _ := tree.CreateNode(ownerID, services.CreateNodeInput{Name: "C", ParentID: &b.ID})
	d, _ := tree.CreateNode(ownerID, services.CreateNodeInput{Name: "D", ParentID: &a.ID})

	err := tree.DeleteNode(b.ID, ownerID)
	assert.NoError(t, err)

	// B dan seluruh descendant-nya hilang
	_, err = tree.Resolve(b.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = tree.Resolve(c.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	// Sibling dan parent tidak tersentuh, child_ids parent sudah dilepas
	survivor, err := tree.Resolve(d.ID)
	assert.NoError(t, err)
	assert.Equal(t, "D", survivor.Name)

	parent, err := tree.Resolve(a.ID)
	assert.NoError(t, err)
	assert.False(t, parent.ChildIDs.Contains(b.ID))
	assert.True(t, parent.ChildIDs.Contains(d.ID))
}

func TestMoveReparent(t *testing.T) {
	tree, _ := newPersonalTree(t)
	ownerID := uint(1)

	oldParent, _ := tree.CreateNode(ownerID, services.CreateNodeInput{Name: "Old"})
	newParent, _ := tree.CreateNode(ownerID, services.CreateNodeInput{Name: "New"})
	node, _ := tree.CreateNode(ownerID, services.CreateNodeInput{Name: "Moving", ParentID: &oldParent.ID})

	moved, err := tree.Move(node.ID, ownerID, 0, &newParent.ID, true)
	assert.NoError(t, err)
	assert.Equal(t, newParent.ID, *moved.ParentID)

	reloadedOld, _ := tree.Resolve(oldParent.ID)
	reloadedNew, _ := tree.Resolve(newParent.ID)
	assert.False(t, reloadedOld.ChildIDs.Contains(node.ID))
	assert.True(t, reloadedNew.ChildIDs.Contains(node.ID))

	// null parent eksplisit -> jadi top-level
	moved, err = tree.Move(node.ID, ownerID, 3, nil, true)
	assert.NoError(t, err)
	assert.Nil(t, moved.ParentID)
	assert.Equal(t, 3, moved.SortOrder)
}

func TestMoveWithoutReparentKeepsParent(t *testing.T) {
	tree, _ := newPersonalTree(t)
	ownerID := uint(1)

	parent, _ := tree.CreateNode(ownerID, services.CreateNodeInput{Name: "Parent"})
	node, _ := tree.CreateNode(ownerID, services.CreateNodeInput{Name: "Child", ParentID: &parent.ID})

	moved, err := tree.Move(node.ID, ownerID, 5, nil, false)
	assert.NoError(t, err)
	assert.Equal(t, 5, moved.SortOrder)
	assert.NotNil(t, moved.ParentID)
	assert.Equal(t, parent.ID, *moved.ParentID)
}

func TestMoveRejectsCycles(t *testing.T) {
	tree, _ := newPersonalTree(t)
	ownerID := uint(1)

	root, _ := tree.CreateNode(ownerID, services.CreateNodeInput{Name: "Root"})
	mid, _ := tree.CreateNode(ownerID, services.CreateNodeInput{Name: "Mid", ParentID: &root.ID})
	leaf, _ := tree.CreateNode(ownerID, services.CreateNodeInput{Name: "Leaf", ParentID: &mid.ID})

	// Ke bawah diri sendiri
	_, err := tree.Move(root.ID, ownerID, 0, &root.ID, true)
	assert.ErrorIs(t, err, services.ErrValidation)

	// Ke bawah descendant sendiri
	_, err = tree.Move(root.ID, ownerID, 0, &leaf.ID, true)
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestListTreeNestedAndOrdered(t *testing.T) {
	tree, _ := newPersonalTree(t)
	ownerID := uint(1)

	first, _ := tree.CreateNode(ownerID, services.CreateNodeInput{Name: "First"})
	tree.CreateNode(ownerID, services.CreateNodeInput{Name: "Second"})
	tree.CreateNode(ownerID, services.CreateNodeInput{Name: "Nested", ParentID: &first.ID})

	nodes, err := tree.ListTree(ownerID)
	assert.NoError(t, err)
	assert.Len(t, nodes, 2)
	assert.Equal(t, "First", nodes[0].Name)
	assert.Equal(t, "Second", nodes[1].Name)
	assert.Len(t, nodes[0].Children, 1)
	assert.Equal(t, "Nested", nodes[0].Children[0].Name)
}

func TestSeedDefaultsIdempotent(t *testing.T) {
	tree, _ := newPersonalTree(t)
	ownerID := uint(42)

	seeded, err := tree.SeedDefaults(ownerID)
	assert.NoError(t, err)
	assert.True(t, seeded)

	nodes, err := tree.ListTree(ownerID)
	assert.NoError(t, err)
	assert.Len(t, nodes, 2)
	assert.Equal(t, "Work Projects", nodes[0].Name)
	assert.Equal(t, models.GroupKindSystem, nodes[0].Kind)
	assert.Equal(t, "Personal", nodes[1].Name)
	assert.Len(t, nodes[0].Children, 1)
	assert.Equal(t, "Learning", nodes[0].Children[0].Name)

	// Panggilan kedua no-op
	seeded, err = tree.SeedDefaults(ownerID)
	assert.NoError(t, err)
	assert.False(t, seeded)

	nodes, _ = tree.ListTree(ownerID)
	assert.Len(t, nodes, 2)
}

func TestSeedDefaultsPerOwner(t *testing.T) {
	tree, _ := newPersonalTree(t)

	seeded, err := tree.SeedDefaults(1)
	assert.NoError(t, err)
	assert.True(t, seeded)

	// Owner lain tetap di-seed walau owner pertama sudah punya node
	seeded, err = tree.SeedDefaults(2)
	assert.NoError(t, err)
	assert.True(t, seeded)
}
