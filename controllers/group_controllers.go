package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/teamtask-app/services"
	"github.com/yeremiapane/teamtask-app/utils"
)

// GroupController melayani tree pengelompokan personal milik caller.
type GroupController struct {
	tree *services.GroupTree
}

func NewGroupController(tree *services.GroupTree) *GroupController {
	return &GroupController{tree: tree}
}

// GetGroups -> tree lengkap milik caller, children terisi rekursif
func (gc *GroupController) GetGroups(c *gin.Context) {
	userID := currentUserID(c)

	nodes, err := gc.tree.ListTree(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Personal groups", nodes)
}

// CreateGroup -> node baru, order = jumlah sibling saat ini
func (gc *GroupController) CreateGroup(c *gin.Context) {
	userID := currentUserID(c)

	var body services.CreateNodeInput
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	node, err := gc.tree.CreateNode(userID, body)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Group created", node)
}

// UpdateGroup -> partial update name/color/icon/collapsed
func (gc *GroupController) UpdateGroup(c *gin.Context) {
	userID := currentUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid group id"))
		return
	}

	var body services.UpdateNodeInput
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	node, err := gc.tree.UpdateNode(uint(id), userID, body)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Group updated", node)
}

// DeleteGroup -> cascade delete node beserta seluruh descendant
func (gc *GroupController) DeleteGroup(c *gin.Context) {
	userID := currentUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid group id"))
		return
	}

	if err := gc.tree.DeleteNode(uint(id), userID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Group deleted", gin.H{"id": id})
}

// reorderBody dibaca dua tahap supaya new_parent_id yang absen bisa dibedakan
// dari null eksplisit: absen = parent tetap, null = jadi top-level.
type reorderBody struct {
	NewOrder    int   `json:"new_order"`
	NewParentID *uint `json:"new_parent_id"`
}

func parseReorder(data []byte) (reorderBody, bool, error) {
	var body reorderBody
	if err := json.Unmarshal(data, &body); err != nil {
		return body, false, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return body, false, err
	}
	_, reparent := raw["new_parent_id"]
	return body, reparent, nil
}

// ReorderGroup -> pindah posisi dan/atau parent
func (gc *GroupController) ReorderGroup(c *gin.Context) {
	userID := currentUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid group id"))
		return
	}

	data, err := c.GetRawData()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	body, reparent, err := parseReorder(data)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	node, err := gc.tree.Move(uint(id), userID, body.NewOrder, body.NewParentID, reparent)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Group reordered", node)
}

// InitializeGroups -> seeding default tree, idempotent per user
func (gc *GroupController) InitializeGroups(c *gin.Context) {
	userID := currentUserID(c)

	seeded, err := gc.tree.SeedDefaults(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !seeded {
		utils.RespondJSON(c, http.StatusOK, "Groups already initialized", nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Default groups initialized successfully", nil)
}
