package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/teamtask-app/models"
	"github.com/yeremiapane/teamtask-app/services"
	"github.com/yeremiapane/teamtask-app/stores"
	"github.com/yeremiapane/teamtask-app/utils"
)

type MessageController struct {
	DB      *gorm.DB
	teams   stores.TeamDirectory
	tracker *services.ReadStateTracker
}

func NewMessageController(db *gorm.DB, teams stores.TeamDirectory, tracker *services.ReadStateTracker) *MessageController {
	return &MessageController{DB: db, teams: teams, tracker: tracker}
}

// GetTeamMessages -> semua message satu team, terbaru dulu. Caller harus member.
func (mc *MessageController) GetTeamMessages(c *gin.Context) {
	userID := currentUserID(c)
	teamID, err := strconv.Atoi(c.Param("team_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid team id"))
		return
	}

	var team models.Team
	if err := mc.DB.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("team not found"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	member, err := mc.teams.IsMember(uint(teamID), userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if !member {
		utils.RespondError(c, http.StatusForbidden, errors.New("not a member of this team"))
		return
	}

	var messages []models.Message
	if err := mc.DB.Where("team_id = ?", teamID).
		Order("created_at DESC").
		Find(&messages).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Team messages", messages)
}

// GetAllMessages -> message dari semua team yang diikuti caller, terbaru dulu.
func (mc *MessageController) GetAllMessages(c *gin.Context) {
	userID := currentUserID(c)

	teamIDs, err := mc.teams.TeamsOf(userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	messages := []models.Message{}
	if len(teamIDs) > 0 {
		if err := mc.DB.Where("team_id IN ?", teamIDs).
			Order("created_at DESC").
			Find(&messages).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}
	utils.RespondJSON(c, http.StatusOK, "All messages", messages)
}

// MarkMessageRead -> set is_read/read_at, read_at tidak berubah kalau sudah read.
func (mc *MessageController) MarkMessageRead(c *gin.Context) {
	userID := currentUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid message id"))
		return
	}

	msg, err := mc.tracker.MarkRead(uint(id), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Message marked as read", msg)
}

// GetUnreadCount -> jumlah unread lintas team caller. Fail closed saat error.
func (mc *MessageController) GetUnreadCount(c *gin.Context) {
	userID := currentUserID(c)

	count, err := mc.tracker.UnreadCount(userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Unread count", gin.H{"unread_count": count})
}
