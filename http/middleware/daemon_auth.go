package middlewares

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-game-panel/entity"
	"github.com/tnqbao/gau-game-panel/utils"
)

type NodeLookup interface {
	GetByID(ctx context.Context, id uint) (*entity.Node, error)
}

// DaemonAuthMiddleware authenticates calls made by a node's daemon.
// Header format: Authorization: HMAC <nodeId>:<signature>
// Required headers: X-Timestamp
func DaemonAuthMiddleware(nodes NodeLookup, tolerance time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "HMAC ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization type. Use 'HMAC'"})
			c.Abort()
			return
		}

		parts := strings.SplitN(strings.TrimPrefix(authHeader, "HMAC "), ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid HMAC authorization format. Expected: HMAC <nodeId>:<signature>"})
			c.Abort()
			return
		}

		nodeID, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil || nodeID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid node id"})
			c.Abort()
			return
		}
		signature := parts[1]

		timestampStr := c.GetHeader("X-Timestamp")
		if timestampStr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "X-Timestamp header is required"})
			c.Abort()
			return
		}

		timestamp, err := strconv.ParseInt(timestampStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid X-Timestamp format"})
			c.Abort()
			return
		}

		if !utils.WithinTolerance(timestamp, time.Now(), tolerance) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Request timestamp expired"})
			c.Abort()
			return
		}

		node, err := nodes.GetByID(c.Request.Context(), uint(nodeID))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown node"})
			c.Abort()
			return
		}

		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, err = io.ReadAll(c.Request.Body)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
				c.Abort()
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		if !utils.VerifySignature(node.DaemonSecret, c.Request.Method, c.Request.URL.Path, timestamp, bodyBytes, signature) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
			c.Abort()
			return
		}

		c.Set("node_id", node.ID)
		c.Set("auth_method", "hmac")

		c.Next()
	}
}
