package stores

import (
	"gorm.io/gorm"

	"github.com/yeremiapane/teamtask-app/models"
)

// GroupStore adalah adapter persistence untuk node tree pengelompokan.
// Semua query di-scope ke owner (user id untuk personal, team id untuk team).
type GroupStore interface {
	Create(node *models.GroupNode) error
	Get(id, ownerID uint) (*models.GroupNode, error)
	GetByID(id uint) (*models.GroupNode, error)
	Save(node *models.GroupNode) error
	Delete(id uint) error
	ListByParent(ownerID uint, parentID *uint) ([]models.GroupNode, error)
	CountSiblings(ownerID uint, parentID *uint) (int64, error)
	CountByOwner(ownerID uint) (int64, error)
}

// GormGroupStore menjalankan query yang sama terhadap tabel berbeda per scope.
type GormGroupStore struct {
	db    *gorm.DB
	table string
}

// NewPersonalGroupStore -> tabel "groups", owner = user id
func NewPersonalGroupStore(db *gorm.DB) *GormGroupStore {
	return &GormGroupStore{db: db, table: "groups"}
}

// NewTeamGroupStore -> tabel "team_groups", owner = team id
func NewTeamGroupStore(db *gorm.DB) *GormGroupStore {
	return &GormGroupStore{db: db, table: "team_groups"}
}

func (s *GormGroupStore) Create(node *models.GroupNode) error {
	return s.db.Table(s.table).Create(node).Error
}

func (s *GormGroupStore) Get(id, ownerID uint) (*models.GroupNode, error) {
	var node models.GroupNode
	err := s.db.Table(s.table).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&node).Error
	if err != nil {
		return nil, err
	}
	return &node, nil
}

func (s *GormGroupStore) GetByID(id uint) (*models.GroupNode, error) {
	var node models.GroupNode
	if err := s.db.Table(s.table).Where("id = ?", id).First(&node).Error; err != nil {
		return nil, err
	}
	return &node, nil
}

func (s *GormGroupStore) Save(node *models.GroupNode) error {
	return s.db.Table(s.table).Save(node).Error
}

func (s *GormGroupStore) Delete(id uint) error {
	return s.db.Table(s.table).Where("id = ?", id).Delete(&models.GroupNode{}).Error
}

func (s *GormGroupStore) ListByParent(ownerID uint, parentID *uint) ([]models.GroupNode, error) {
	var nodes []models.GroupNode
	q := s.db.Table(s.table).Where("owner_id = ?", ownerID)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	err := q.Order("sort_order ASC").Find(&nodes).Error
	return nodes, err
}

func (s *GormGroupStore) CountSiblings(ownerID uint, parentID *uint) (int64, error) {
	var count int64
	q := s.db.Table(s.table).Where("owner_id = ?", ownerID)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	err := q.Count(&count).Error
	return count, err
}

func (s *GormGroupStore) CountByOwner(ownerID uint) (int64, error) {
	var count int64
	err := s.db.Table(s.table).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}
