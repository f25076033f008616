package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Group kinds
const (
	GroupKindSystem = "system"
	GroupKindCustom = "custom"
)

// IDList disimpan sebagai JSON text di kolom child_ids
type IDList []uint

func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		l = IDList{}
	}
	return json.Marshal(l)
}

func (l *IDList) Scan(value interface{}) error {
	if value == nil {
		*l = IDList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			*l = IDList{}
			return nil
		}
		return json.Unmarshal(v, l)
	case string:
		if v == "" {
			*l = IDList{}
			return nil
		}
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for IDList: %T", value)
	}
}

// Contains memeriksa apakah id ada di list
func (l IDList) Contains(id uint) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Remove mengembalikan list tanpa id
func (l IDList) Remove(id uint) IDList {
	out := make(IDList, 0, len(l))
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// GroupNode adalah satu node di tree pengelompokan. Tabel yang sama dipakai
// untuk dua scope: "groups" (owner = user id) dan "team_groups" (owner = team id).
// parent_id dan child_ids sama-sama disimpan; keduanya diupdate terpisah oleh
// GroupTree, tanpa transaksi multi-write.
type GroupNode struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	Kind      string     `gorm:"type:varchar(20);not null;default:'custom'" json:"type"`
	OwnerID   uint       `gorm:"not null;index" json:"owner_id"`
	ParentID  *uint      `gorm:"index" json:"parent_id"`
	ChildIDs  IDList     `gorm:"type:text" json:"child_ids"`
	SortOrder int        `gorm:"not null;default:0" json:"order"`
	Color     string     `gorm:"type:varchar(20);default:'#1890ff'" json:"color"`
	Icon      string     `gorm:"type:varchar(20);default:'📁'" json:"icon"`
	Collapsed bool       `gorm:"not null;default:false" json:"collapsed"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
	Children  []GroupNode `gorm:"-" json:"children"`
}
