package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/teamtask-app/models"
	"github.com/yeremiapane/teamtask-app/utils"
)

// AdminGroupController melayani rename/delete group personal dari sisi admin.
//
// Rename menyebarkan nama baru ke task lewat kecocokan NAMA group
// (tasks.group = nama lama), padahal path pembuatan task menyimpan string
// apa adanya dari client (UI mengirim id). Ketidakkonsistenan ini disengaja
// dan dikunci oleh test; lihat DESIGN.md.
type AdminGroupController struct {
	DB *gorm.DB
}

func NewAdminGroupController(db *gorm.DB) *AdminGroupController {
	return &AdminGroupController{DB: db}
}

// UpdateGroup -> rename/recolor dari admin, tanpa cek kind == system
func (ag *AdminGroupController) UpdateGroup(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid group id"))
		return
	}

	type reqBody struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var group models.GroupNode
	if err := ag.DB.Table("groups").Where("id = ?", id).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("group not found"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if body.Name != "" && body.Name != group.Name {
		var existing int64
		if err := ag.DB.Table("groups").
			Where("name = ? AND id <> ?", body.Name, group.ID).
			Count(&existing).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		if existing > 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("group name already exists"))
			return
		}

		// Propagasi ke task dicocokkan berdasarkan nama group lama
		if err := ag.DB.Model(&models.Task{}).
			Where("`group` = ?", group.Name).
			Update("group", body.Name).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		group.Name = body.Name
	}
	if body.Color != "" {
		group.Color = body.Color
	}

	if err := ag.DB.Table("groups").Save(&group).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Group updated", group)
}

// DeleteGroup -> ditolak selama masih ada task yang memakai nama group ini
func (ag *AdminGroupController) DeleteGroup(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid group id"))
		return
	}

	var group models.GroupNode
	if err := ag.DB.Table("groups").Where("id = ?", id).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("group not found"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var taskCount int64
	if err := ag.DB.Model(&models.Task{}).
		Where("`group` = ?", group.Name).
		Count(&taskCount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if taskCount > 0 {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("cannot delete group, %d tasks are using this group", taskCount))
		return
	}

	if err := ag.DB.Table("groups").Where("id = ?", id).Delete(&models.GroupNode{}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Group deleted successfully", gin.H{"id": id})
}
