package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-game-panel/http/controller/dto"
	"github.com/tnqbao/gau-game-panel/utils"
)

// InstallCallback is called by a daemon once a server's install script has
// finished. The installed flag is updated by the consumer.
func (ctrl *Controller) InstallCallback(c *gin.Context) {
	ctx := c.Request.Context()
	nodeID := c.GetUint("node_id")
	if nodeID == 0 {
		utils.JSON401(c, "Unauthorized: node not authenticated")
		return
	}

	serverUUID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		utils.JSON400(c, "Invalid server uuid")
		return
	}

	var req dto.InstallCallbackRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Logger.WarningWithContextf(ctx, "[Remote] Invalid install callback payload from node %d: %v", nodeID, err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	server, err := ctrl.Servers.FindByUUID(ctx, serverUUID)
	if err != nil {
		utils.JSONError(c, err)
		return
	}

	if server.NodeID != nodeID {
		ctrl.Logger.WarningWithContextf(ctx, "[Remote] Node %d reported install for server %s owned by node %d", nodeID, server.UUIDShort, server.NodeID)
		utils.JSON403(c, "Server does not belong to this node")
		return
	}

	if err := ctrl.Events.PublishInstallCompleted(ctx, server.ID, *req.Successful); err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Remote] Failed to publish install result for server %s", server.UUIDShort)
		utils.JSON500(c, "Failed to record install result")
		return
	}

	ctrl.Logger.InfoWithContextf(ctx, "[Remote] Install of server %s finished, successful=%t", server.UUIDShort, *req.Successful)
	c.Status(http.StatusNoContent)
}
