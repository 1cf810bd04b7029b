package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-game-panel/http/controller/dto"
	"github.com/tnqbao/gau-game-panel/utils"
)

func (ctrl *Controller) ListServers(c *gin.Context) {
	ctx := c.Request.Context()
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Server] user_id not found in context")
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	rootAdmin, err := ctrl.Access.IsRootAdmin(ctx, userID)
	if err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Server] Failed to load user %d", userID)
		utils.JSONError(c, err)
		return
	}

	servers, err := ctrl.Servers.SearchAccessible(ctx, userID, rootAdmin, c.Query("query"))
	if err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Server] Failed to list servers for user %d", userID)
		utils.JSON500(c, "Failed to list servers")
		return
	}

	items := make([]dto.ServerResponseDTO, 0, len(servers))
	for i := range servers {
		items = append(items, dto.NewServerResponse(&servers[i]))
	}

	utils.JSON200(c, gin.H{
		"servers": items,
		"total":   len(items),
	})
}

// GetServerStatus answers with {"status":20}, {"status":30} or the daemon's
// own JSON body byte for byte.
func (ctrl *Controller) GetServerStatus(c *gin.Context) {
	ctx := c.Request.Context()
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Status] user_id not found in context")
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	uuidShort := c.Param("uuidShort")
	server, err := ctrl.Servers.FindByUUIDShort(ctx, uuidShort)
	if err != nil {
		ctrl.Logger.WarningWithContextf(ctx, "[Status] Server lookup failed for %s: %v", uuidShort, err)
		utils.JSONError(c, err)
		return
	}

	status, err := ctrl.Status.Resolve(ctx, server, userID)
	if err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Status] Failed to resolve status of %s for user %d", uuidShort, userID)
		utils.JSONError(c, err)
		return
	}

	if status.IsLive() {
		c.Data(http.StatusOK, "application/json; charset=utf-8", status.Details)
		return
	}
	utils.JSON200(c, status)
}
