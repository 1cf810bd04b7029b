package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-game-panel/http/controller"
)

type Middlewares struct {
	CORSMiddleware       gin.HandlerFunc
	AuthMiddleware       gin.HandlerFunc
	DaemonAuthMiddleware gin.HandlerFunc
	StatusRateLimit      gin.HandlerFunc
}

func NewMiddlewares(ctrl *controller.Controller) (*Middlewares, error) {
	cfg := ctrl.Config.EnvConfig

	cors := CORSMiddleware(cfg)
	auth := AuthMiddleware(cfg)
	daemonAuth := DaemonAuthMiddleware(ctrl.Nodes, cfg.Daemon.CallbackTolerance)
	statusLimit := RateLimitMiddleware(NewKeyedRateLimiter(cfg.RateLimit.StatusRPS, cfg.RateLimit.StatusBurst))

	return &Middlewares{
		CORSMiddleware:       cors,
		AuthMiddleware:       auth,
		DaemonAuthMiddleware: daemonAuth,
		StatusRateLimit:      statusLimit,
	}, nil
}
