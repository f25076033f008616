package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/teamtask-app/models"
	"github.com/yeremiapane/teamtask-app/stores"
)

// ReadStateTracker mengelola is_read/read_at pada Message. Operasi di sini
// fail closed: kalau storage error, kembalikan error, jangan angka salah.
type ReadStateTracker struct {
	db    *gorm.DB
	teams stores.TeamDirectory
}

func NewReadStateTracker(db *gorm.DB, teams stores.TeamDirectory) *ReadStateTracker {
	return &ReadStateTracker{db: db, teams: teams}
}

// MarkRead menandai satu message sudah dibaca. Caller harus member dari team
// pemilik message. read_at monotonic: sekali terisi tidak berubah lagi.
func (t *ReadStateTracker) MarkRead(messageID, userID uint) (*models.Message, error) {
	var msg models.Message
	if err := t.db.First(&msg, messageID).Error; err != nil {
		return nil, wrapNotFound(err)
	}

	ok, err := t.teams.IsMember(msg.TeamID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotMember
	}

	if msg.IsRead {
		return &msg, nil
	}

	now := time.Now()
	if err := t.db.Model(&models.Message{}).
		Where("id = ?", msg.ID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error; err != nil {
		return nil, err
	}
	msg.IsRead = true
	msg.ReadAt = &now
	return &msg, nil
}

// UnreadCount menghitung message unread di semua team yang diikuti user.
func (t *ReadStateTracker) UnreadCount(userID uint) (int64, error) {
	teamIDs, err := t.teams.TeamsOf(userID)
	if err != nil {
		return 0, err
	}
	if len(teamIDs) == 0 {
		return 0, nil
	}

	var count int64
	err = t.db.Model(&models.Message{}).
		Where("team_id IN ? AND is_read = ?", teamIDs, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
