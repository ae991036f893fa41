package http

import (
	"github.com/gin-gonic/gin"
	"github.com/richardliu001/ledger-replay/internal/config"
	"go.uber.org/zap"
)

func NewRouter(h *Handler, cfg *config.Config, log *zap.SugaredLogger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware(log))
	r.Use(RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	r.Use(BodyLimitMiddleware(cfg.Server.MaxBodySize))
	RegisterHandlers(r, h)
	return r
}
