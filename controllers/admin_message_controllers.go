package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/teamtask-app/models"
	"github.com/yeremiapane/teamtask-app/services"
	"github.com/yeremiapane/teamtask-app/utils"
)

// AdminMessageController melayani broadcast dan purge message dari admin.
type AdminMessageController struct {
	DB  *gorm.DB
	svc *services.MessageService
}

func NewAdminMessageController(db *gorm.DB, svc *services.MessageService) *AdminMessageController {
	return &AdminMessageController{DB: db, svc: svc}
}

// SendBroadcast -> satu message per penerima (setelah de-dup), lalu push.
func (ac *AdminMessageController) SendBroadcast(c *gin.Context) {
	senderID := currentUserID(c)

	var body services.BroadcastInput
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	count, err := ac.svc.Broadcast(senderID, body)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK,
		fmt.Sprintf("Broadcast sent to %d recipients", count),
		gin.H{"recipient_count": count})
}

// DeleteMessage -> purge satu message
func (ac *AdminMessageController) DeleteMessage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid message id"))
		return
	}

	var msg models.Message
	if err := ac.DB.First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("message not found"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := ac.DB.Delete(&models.Message{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Message deleted successfully", gin.H{"id": id})
}

// BatchDeleteMessages -> purge banyak message sekaligus
func (ac *AdminMessageController) BatchDeleteMessages(c *gin.Context) {
	type reqBody struct {
		MessageIDs []uint `json:"message_ids"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(body.MessageIDs) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("message IDs are required"))
		return
	}

	result := ac.DB.Where("id IN ?", body.MessageIDs).Delete(&models.Message{})
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	utils.RespondJSON(c, http.StatusOK,
		fmt.Sprintf("%d messages deleted successfully", result.RowsAffected),
		gin.H{"deleted_count": result.RowsAffected})
}
