package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-game-panel/http/controller/dto"
	"github.com/tnqbao/gau-game-panel/utils"
)

// requireRootAdmin writes the error response itself and reports whether the
// handler may continue.
func (ctrl *Controller) requireRootAdmin(c *gin.Context) (uint, bool) {
	ctx := c.Request.Context()
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: user_id not found")
		return 0, false
	}

	admin, err := ctrl.Access.IsRootAdmin(ctx, userID)
	if err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Admin] Failed to load user %d", userID)
		utils.JSONError(c, err)
		return 0, false
	}
	if !admin {
		ctrl.Logger.WarningWithContextf(ctx, "[Admin] User %d is not a root admin", userID)
		utils.JSON403(c, "Root admin access required")
		return 0, false
	}
	return userID, true
}

func (ctrl *Controller) SetServerSuspension(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := ctrl.requireRootAdmin(c)
	if !ok {
		return
	}

	var req dto.SuspensionRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request payload")
		return
	}

	server, err := ctrl.findServer(ctx, c.Param("uuid"))
	if err != nil {
		utils.JSONError(c, err)
		return
	}

	if err := ctrl.Servers.SetSuspended(ctx, server.ID, *req.Suspended); err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Admin] Failed to update suspension of server %s", server.UUIDShort)
		utils.JSONError(c, err)
		return
	}

	if err := ctrl.Events.PublishSuspensionChanged(ctx, server.ID, *req.Suspended); err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Admin] Failed to publish suspension change for server %s", server.UUIDShort)
	}

	ctrl.Logger.InfoWithContextf(ctx, "[Admin] User %d set suspended=%t on server %s", userID, *req.Suspended, server.UUIDShort)
	utils.JSON200(c, gin.H{
		"message":   "Server suspension updated",
		"uuid":      server.UUID,
		"suspended": *req.Suspended,
	})
}

func (ctrl *Controller) DeleteServer(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := ctrl.requireRootAdmin(c)
	if !ok {
		return
	}

	server, err := ctrl.findServer(ctx, c.Param("uuid"))
	if err != nil {
		utils.JSONError(c, err)
		return
	}

	if err := ctrl.Servers.Delete(ctx, server.ID); err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Admin] Failed to delete server %s", server.UUIDShort)
		utils.JSONError(c, err)
		return
	}

	ctrl.Logger.InfoWithContextf(ctx, "[Admin] User %d deleted server %s (id %d)", userID, server.UUIDShort, server.ID)
	utils.JSON200(c, gin.H{
		"message": "Server deleted successfully",
		"id":      server.ID,
	})
}

func (ctrl *Controller) RestoreServer(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := ctrl.requireRootAdmin(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSON400(c, "Invalid server id")
		return
	}

	if err := ctrl.Servers.Restore(ctx, uint(id)); err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Admin] Failed to restore server %d", id)
		utils.JSONError(c, err)
		return
	}

	ctrl.Logger.InfoWithContextf(ctx, "[Admin] User %d restored server %d", userID, id)
	utils.JSON200(c, gin.H{
		"message": "Server restored successfully",
		"id":      id,
	})
}
