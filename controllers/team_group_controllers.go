package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/teamtask-app/services"
	"github.com/yeremiapane/teamtask-app/utils"
)

// TeamGroupController melayani tree pengelompokan milik team. Algoritmanya
// sama dengan tree personal, hanya store-nya yang berbeda; owner di sini
// adalah team id. Route update/delete/reorder hanya membawa node id, jadi
// owner di-resolve dari node-nya.
type TeamGroupController struct {
	tree *services.GroupTree
}

func NewTeamGroupController(tree *services.GroupTree) *TeamGroupController {
	return &TeamGroupController{tree: tree}
}

// GetTeamGroups -> tree lengkap satu team
func (tc *TeamGroupController) GetTeamGroups(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid team id"))
		return
	}

	nodes, err := tc.tree.ListTree(uint(teamID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Team groups", nodes)
}

// CreateTeamGroup -> node baru di tree team
func (tc *TeamGroupController) CreateTeamGroup(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid team id"))
		return
	}

	var body services.CreateNodeInput
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	node, err := tc.tree.CreateNode(uint(teamID), body)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Team group created", node)
}

// UpdateTeamGroup -> partial update
func (tc *TeamGroupController) UpdateTeamGroup(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid group id"))
		return
	}

	node, err := tc.tree.Resolve(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var body services.UpdateNodeInput
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	updated, err := tc.tree.UpdateNode(node.ID, node.OwnerID, body)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Team group updated", updated)
}

// DeleteTeamGroup -> cascade delete
func (tc *TeamGroupController) DeleteTeamGroup(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid group id"))
		return
	}

	node, err := tc.tree.Resolve(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := tc.tree.DeleteNode(node.ID, node.OwnerID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Team group deleted", gin.H{"id": id})
}

// InitializeTeamGroups -> seeding default tree untuk team, idempotent
func (tc *TeamGroupController) InitializeTeamGroups(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid team id"))
		return
	}

	seeded, err := tc.tree.SeedDefaults(uint(teamID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !seeded {
		utils.RespondJSON(c, http.StatusOK, "Team groups already initialized", nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Default team groups initialized successfully", nil)
}

// ReorderTeamGroup -> pindah posisi dan/atau parent
func (tc *TeamGroupController) ReorderTeamGroup(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid group id"))
		return
	}

	node, err := tc.tree.Resolve(uint(id))
	if err != nil {
		respondServiceError(c, err)
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

	updated, err := tc.tree.Move(node.ID, node.OwnerID, body.NewOrder, body.NewParentID, reparent)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Team group reordered", updated)
}
