package models

import "time"

// Task menyimpan referensi group sebagai string biasa. Path pembuatan task
// menyimpan apa pun yang dikirim client (UI mengirim id group), sedangkan
// rename group dari admin mencocokkan berdasarkan NAMA group. Perilaku ini
// disengaja, lihat DESIGN.md.
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority    string     `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	TeamID      *uint      `gorm:"index" json:"team_id,omitempty"`
	AssignedTo  *uint      `gorm:"index" json:"assigned_to,omitempty"`
	Group       string     `gorm:"type:varchar(255);not null;default:'ungrouped'" json:"group"`
	TeamGroup   string     `gorm:"type:varchar(255);not null;default:'ungrouped'" json:"team_group"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}
