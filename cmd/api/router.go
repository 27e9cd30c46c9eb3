package api

import (
	"net/http"

	"worksync-backend/internal/auth"
	workspaceDelivery "worksync-backend/internal/workspace/delivery"
	workspaceUsecasePkg "worksync-backend/internal/workspace/usecase"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, workspaceUc workspaceUsecasePkg.WorkspaceUsecase, verifier *auth.TokenVerifier) {
	workspaceHandler := workspaceDelivery.NewWorkspaceHandler(workspaceUc)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Workspace routes (protected)
		workspace := api.Group("/workspace")
		workspace.Use(auth.Middleware(verifier))
		{
			workspace.GET("/data", workspaceHandler.GetData)
			workspace.POST("/load-more", workspaceHandler.LoadMore)
			workspace.DELETE("/cache", workspaceHandler.ClearCache)
			workspace.GET("/events", workspaceHandler.Events)
		}
	}
}
