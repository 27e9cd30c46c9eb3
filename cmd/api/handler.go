package api

import (
	"worksync-backend/internal/auth"
	workspaceUsecasePkg "worksync-backend/internal/workspace/usecase"
	"worksync-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	workspaceUsecase workspaceUsecasePkg.WorkspaceUsecase
	verifier         *auth.TokenVerifier
	config           *config.Config
}

func NewHandler(workspaceUc workspaceUsecasePkg.WorkspaceUsecase, cfg *config.Config) *Handler {
	return &Handler{
		workspaceUsecase: workspaceUc,
		verifier:         auth.NewTokenVerifier(cfg.JWTSecret),
		config:           cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.workspaceUsecase, h.verifier)

	return r.Run(addr)
}
