package models

import "time"

// Message priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Message kinds
const (
	KindInfo    = "info"
	KindSuccess = "success"
	KindWarning = "warning"
	KindError   = "error"
)

// MessageMetadata menyimpan data tambahan per event type. Field yang tidak
// terpakai di-omit supaya JSON-nya tetap berbentuk bag yang ringkas.
type MessageMetadata struct {
	TargetUserID *uint  `json:"targetUserId,omitempty"`
	OldRole      string `json:"oldRole,omitempty"`
	NewRole      string `json:"newRole,omitempty"`
	Permission   string `json:"permission,omitempty"`
	TaskID       *uint  `json:"taskId,omitempty"`
	OperatorID   *uint  `json:"operatorId,omitempty"`
	TeamName     string `json:"teamName,omitempty"`
	AlertType    string `json:"alertType,omitempty"`
	Action       string `json:"action,omitempty"`
	BroadcastType string `json:"broadcastType,omitempty"`
}

// Message adalah satu notifikasi yang dipersist. Immutable kecuali
// is_read / read_at (diubah oleh ReadStateTracker).
type Message struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	TeamID      uint            `gorm:"not null;index:idx_messages_team_created" json:"team_id"`
	ActorUserID *uint           `gorm:"index" json:"actor_user_id,omitempty"`
	EventType   string          `gorm:"type:varchar(50);not null;index" json:"event_type"`
	Title       string          `gorm:"type:varchar(100)" json:"title,omitempty"`
	Content     string          `gorm:"type:text;not null" json:"content"`
	Metadata    MessageMetadata `gorm:"serializer:json" json:"metadata"`
	Priority    string          `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	MessageKind string          `gorm:"column:message_type;type:varchar(10);not null;default:'info'" json:"message_type"`
	IsRead      bool            `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt   time.Time       `gorm:"not null;index:idx_messages_team_created" json:"created_at"`
	ReadAt      *time.Time      `json:"read_at,omitempty"`
}
