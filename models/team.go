package models

import "time"

// Team roles
const (
	RoleCreator = "creator"
	RoleManager = "manager"
	RoleMember  = "member"
)

type Team struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:varchar(255);not null" json:"name"`
	TeamID    string       `gorm:"type:varchar(50);unique;not null" json:"team_id"`
	OwnerID   uint         `gorm:"not null" json:"owner_id"`
	Members   []TeamMember `gorm:"foreignKey:TeamID;references:ID" json:"members"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
}

// TeamMember menghubungkan user dengan team beserta role-nya.
type TeamMember struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TeamID   uint   `gorm:"not null;index:idx_team_user,unique" json:"team_id"`
	UserID   uint   `gorm:"not null;index:idx_team_user,unique" json:"user_id"`
	Role     string `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	CanWrite bool   `gorm:"not null;default:false" json:"can_write"`
}
