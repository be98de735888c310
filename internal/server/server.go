// Package server exposes the fact-check pipeline over HTTP behind a
// request/response normalization layer.
package server

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/wordlift/factcheck/internal/config"
	"github.com/wordlift/factcheck/internal/service"
)

// New builds the gin engine with all middleware and routes attached.
func New(cfg config.Config, svc *service.Service, logger *log.Logger) *gin.Engine {
	g := gin.New()
	g.Use(requestID(), requestLogger(logger), gin.Recovery())
	attachRoutes(g, cfg, svc, logger)
	return g
}

func attachRoutes(g *gin.Engine, cfg config.Config, svc *service.Service, logger *log.Logger) {
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
	}
	if len(cfg.Server.AllowedOrigins) == 1 && cfg.Server.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
		corsCfg.AllowCredentials = true
	}
	g.Use(cors.New(corsCfg))

	g.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	h := newFactCheckHandler(svc, logger)
	v1 := g.Group("/v1")
	{
		v1.POST("/fact-check", h.check)
	}
}
