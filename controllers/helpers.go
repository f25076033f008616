package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/teamtask-app/services"
	"github.com/yeremiapane/teamtask-app/utils"
)

// respondServiceError memetakan taxonomy error services ke kode HTTP.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrNotMember):
		utils.RespondError(c, http.StatusForbidden, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

func currentUserID(c *gin.Context) uint {
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
