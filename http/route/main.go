package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-game-panel/http/controller"
	middlewares "github.com/tnqbao/gau-game-panel/http/middleware"
	"github.com/tnqbao/gau-game-panel/utils"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware)

	r.GET("/health", func(c *gin.Context) {
		utils.JSON200(c, gin.H{"status": "healthy"})
	})

	apiRoutes := r.Group("/api/v1/panel")
	{
		apiRoutes.Use(middles.AuthMiddleware)

		serverRoutes := apiRoutes.Group("/servers")
		{
			serverRoutes.GET("", ctrl.ListServers)
			serverRoutes.GET("/:uuidShort/status", middles.StatusRateLimit, ctrl.GetServerStatus)
		}

		adminRoutes := apiRoutes.Group("/admin")
		{
			adminRoutes.POST("/servers/:uuid/suspension", ctrl.SetServerSuspension)
			adminRoutes.DELETE("/servers/:uuid", ctrl.DeleteServer)
			adminRoutes.POST("/deleted-servers/:id/restore", ctrl.RestoreServer)
		}
	}

	remoteRoutes := r.Group("/api/remote")
	{
		remoteRoutes.Use(middles.DaemonAuthMiddleware)
		remoteRoutes.POST("/servers/:uuid/install", ctrl.InstallCallback)
	}

	return r
}
