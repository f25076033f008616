package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yeremiapane/teamtask-app/models"
	"github.com/yeremiapane/teamtask-app/stores"
)

// GroupTree menegakkan invariant tree di atas satu GroupStore. Algoritmanya
// sama untuk scope personal dan team; bedanya hanya store yang diinject.
//
// Mutasi bentuk tree menulis parent_id dan child_ids sebagai write terpisah,
// tanpa transaksi multi-write. Crash di tengah cascade bisa meninggalkan node
// orphan atau child_ids yang menunjuk id terhapus; itu failure mode yang
// diterima, bukan sesuatu yang diperbaiki otomatis di layer ini.
type GroupTree struct {
	store stores.GroupStore
}

func NewGroupTree(store stores.GroupStore) *GroupTree {
	return &GroupTree{store: store}
}

type CreateNodeInput struct {
	Name     string `json:"name"`
	Kind     string `json:"type"`
	ParentID *uint  `json:"parent_id"`
	Color    string `json:"color"`
	Icon     string `json:"icon"`
}

type UpdateNodeInput struct {
	Name      *string `json:"name"`
	Color     *string `json:"color"`
	Icon      *string `json:"icon"`
	Collapsed *bool   `json:"collapsed"`
}

// Resolve mengambil satu node hanya dari id-nya, untuk route team-group yang
// tidak membawa owner di path.
func (t *GroupTree) Resolve(id uint) (*models.GroupNode, error) {
	node, err := t.store.GetByID(id)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return node, nil
}

// ListTree mengembalikan node top-level dengan children terisi rekursif,
// diurutkan per sort order dalam satu level.
func (t *GroupTree) ListTree(ownerID uint) ([]models.GroupNode, error) {
	return t.populateChildren(ownerID, nil)
}

func (t *GroupTree) populateChildren(ownerID uint, parentID *uint) ([]models.GroupNode, error) {
	nodes, err := t.store.ListByParent(ownerID, parentID)
	if err != nil {
		return nil, err
	}
	for i := range nodes {
		children, err := t.populateChildren(ownerID, &nodes[i].ID)
		if err != nil {
			return nil, err
		}
		nodes[i].Children = children
	}
	return nodes, nil
}

// CreateNode membuat node baru sebagai sibling terakhir di bawah parent
// (atau top-level). Order dihitung dari jumlah sibling saat ini.
func (t *GroupTree) CreateNode(ownerID uint, in CreateNodeInput) (*models.GroupNode, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrValidation)
	}

	var parent *models.GroupNode
	if in.ParentID != nil {
		p, err := t.store.Get(*in.ParentID, ownerID)
		if err != nil {
			return nil, wrapNotFound(err)
		}
		parent = p
	}

	siblingCount, err := t.store.CountSiblings(ownerID, in.ParentID)
	if err != nil {
		return nil, err
	}

	kind := in.Kind
	if kind == "" {
		kind = models.GroupKindCustom
	}
	color := in.Color
	if color == "" {
		color = "#1890ff"
	}
	icon := in.Icon
	if icon == "" {
		icon = "📁"
	}

	node := &models.GroupNode{
		Name:      name,
		Kind:      kind,
		OwnerID:   ownerID,
		ParentID:  in.ParentID,
		ChildIDs:  models.IDList{},
		SortOrder: int(siblingCount),
		Color:     color,
		Icon:      icon,
	}
	if err := t.store.Create(node); err != nil {
		return nil, err
	}

	// Update sisi child_ids milik parent (write terpisah)
	if parent != nil {
		parent.ChildIDs = append(parent.ChildIDs, node.ID)
		if err := t.store.Save(parent); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// UpdateNode melakukan partial update name/color/icon/collapsed.
// Update/delete tidak memeriksa kind == system; hanya UI yang menyembunyikan
// kontrol untuk node system.
func (t *GroupTree) UpdateNode(id, ownerID uint, in UpdateNodeInput) (*models.GroupNode, error) {
	node, err := t.store.Get(id, ownerID)
	if err != nil {
		return nil, wrapNotFound(err)
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: group name is required", ErrValidation)
		}
		node.Name = name
	}
	if in.Color != nil {
		node.Color = *in.Color
	}
	if in.Icon != nil {
		node.Icon = *in.Icon
	}
	if in.Collapsed != nil {
		node.Collapsed = *in.Collapsed
	}

	if err := t.store.Save(node); err != nil {
		return nil, err
	}
	return node, nil
}

// DeleteNode menghapus node beserta seluruh descendant, children dulu supaya
// tidak ada parent_id yang menggantung, lalu melepas node dari child_ids
// parent-nya. Biaya proporsional dengan ukuran subtree.
func (t *GroupTree) DeleteNode(id, ownerID uint) error {
	node, err := t.store.Get(id, ownerID)
	if err != nil {
		return wrapNotFound(err)
	}

	if err := t.deleteRecursive(ownerID, node.ID); err != nil {
		return err
	}

	if node.ParentID != nil {
		parent, err := t.store.Get(*node.ParentID, ownerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		parent.ChildIDs = parent.ChildIDs.Remove(node.ID)
		if err := t.store.Save(parent); err != nil {
			return err
		}
	}
	return nil
}

func (t *GroupTree) deleteRecursive(ownerID, id uint) error {
	children, err := t.store.ListByParent(ownerID, &id)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := t.deleteRecursive(ownerID, child.ID); err != nil {
			return err
		}
	}
	return t.store.Delete(id)
}

// Move mengubah sort order dan, kalau reparent true, memindahkan node ke
// parent baru (nil = jadi top-level). Node dilepas dari child_ids parent lama
// dan ditambahkan ke parent baru.
func (t *GroupTree) Move(id, ownerID uint, newOrder int, newParentID *uint, reparent bool) (*models.GroupNode, error) {
	node, err := t.store.Get(id, ownerID)
	if err != nil {
		return nil, wrapNotFound(err)
	}

	if reparent {
		if newParentID != nil {
			if *newParentID == node.ID {
				return nil, fmt.Errorf("%w: cannot move group under itself", ErrValidation)
			}
			newParent, err := t.store.Get(*newParentID, ownerID)
			if err != nil {
				return nil, wrapNotFound(err)
			}
			// Tolak move ke bawah descendant sendiri; parent chain harus
			// tetap berujung.
			if err := t.ensureNotDescendant(ownerID, node.ID, newParent); err != nil {
				return nil, err
			}
		}

		if node.ParentID != nil {
			oldParent, err := t.store.Get(*node.ParentID, ownerID)
			if err == nil {
				oldParent.ChildIDs = oldParent.ChildIDs.Remove(node.ID)
				if err := t.store.Save(oldParent); err != nil {
					return nil, err
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		}

		node.ParentID = newParentID
		if newParentID != nil {
			newParent, err := t.store.Get(*newParentID, ownerID)
			if err != nil {
				return nil, wrapNotFound(err)
			}
			if !newParent.ChildIDs.Contains(node.ID) {
				newParent.ChildIDs = append(newParent.ChildIDs, node.ID)
				if err := t.store.Save(newParent); err != nil {
					return nil, err
				}
			}
		}
	}

	node.SortOrder = newOrder
	if err := t.store.Save(node); err != nil {
		return nil, err
	}
	return node, nil
}

func (t *GroupTree) ensureNotDescendant(ownerID, nodeID uint, candidate *models.GroupNode) error {
	current := candidate
	for current.ParentID != nil {
		if *current.ParentID == nodeID {
			return fmt.Errorf("%w: cannot move group under its own descendant", ErrValidation)
		}
		parent, err := t.store.Get(*current.ParentID, ownerID)
		if err != nil {
			return wrapNotFound(err)
		}
		current = parent
	}
	return nil
}

// SeedDefaults membuat starter tree untuk owner baru. Idempotent: no-op kalau
// owner sudah punya node apa pun. Mengembalikan true kalau seeding dijalankan.
func (t *GroupTree) SeedDefaults(ownerID uint) (bool, error) {
	count, err := t.store.CountByOwner(ownerID)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	work := &models.GroupNode{
		Name: "Work Projects", Kind: models.GroupKindSystem,
		OwnerID: ownerID, ChildIDs: models.IDList{}, SortOrder: 0,
		Color: "#1890ff", Icon: "💼",
	}
	if err := t.store.Create(work); err != nil {
		return false, err
	}

	personal := &models.GroupNode{
		Name: "Personal", Kind: models.GroupKindSystem,
		OwnerID: ownerID, ChildIDs: models.IDList{}, SortOrder: 1,
		Color: "#52c41a", Icon: "🏠",
	}
	if err := t.store.Create(personal); err != nil {
		return false, err
	}

	learning := &models.GroupNode{
		Name: "Learning", Kind: models.GroupKindSystem,
		OwnerID: ownerID, ParentID: &work.ID, ChildIDs: models.IDList{}, SortOrder: 0,
		Color: "#722ed1", Icon: "📚",
	}
	if err := t.store.Create(learning); err != nil {
		return false, err
	}

	work.ChildIDs = models.IDList{learning.ID}
	if err := t.store.Save(work); err != nil {
		return false, err
	}
	return true, nil
}
