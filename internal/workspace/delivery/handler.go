package delivery

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"worksync-backend/internal/workspace/domain"
	"worksync-backend/internal/workspace/usecase"
)

type WorkspaceHandler struct {
	workspaceUsecase usecase.WorkspaceUsecase
}

func NewWorkspaceHandler(workspaceUsecase usecase.WorkspaceUsecase) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceUsecase: workspaceUsecase,
	}
}

// GetData returns the unified snapshot for the authenticated user, syncing
// first when the cache is stale. ?refresh=true forces a sync.
func (h *WorkspaceHandler) GetData(c *gin.Context) {
	userID := c.GetString("userID")
	if err := h.workspaceUsecase.Initialize(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	refresh := c.Query("refresh") == "true"
	snapshot, err := h.workspaceUsecase.GetData(c.Request.Context(), userID, refresh)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

type loadMoreRequest struct {
	Weeks int `json:"weeks" binding:"required,gt=0"`
}

// LoadMore extends the synced history by the requested number of weeks.
func (h *WorkspaceHandler) LoadMore(c *gin.Context) {
	userID := c.GetString("userID")
	if err := h.workspaceUsecase.Initialize(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req loadMoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "weeks must be a positive integer"})
		return
	}

	if err := h.workspaceUsecase.LoadMoreWeeks(c.Request.Context(), userID, req.Weeks); err != nil {
		if errors.Is(err, usecase.ErrSyncInFlight) {
			c.JSON(http.StatusConflict, gin.H{"error": "a sync is already in progress"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "history extended", "weeks": req.Weeks})
}

// ClearCache wipes the user's synced data.
func (h *WorkspaceHandler) ClearCache(c *gin.Context) {
	userID := c.GetString("userID")
	if err := h.workspaceUsecase.Initialize(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.workspaceUsecase.ClearCache(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "workspace cache cleared"})
}

// Events streams snapshot updates to the client as server-sent events. The
// current snapshot arrives first; later sync progress follows as it happens.
func (h *WorkspaceHandler) Events(c *gin.Context) {
	userID := c.GetString("userID")
	if err := h.workspaceUsecase.Initialize(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Buffered so a slow client drops intermediate snapshots instead of
	// stalling the notifier.
	updates := make(chan domain.UnifiedSnapshot, 8)
	unsubscribe, err := h.workspaceUsecase.Subscribe(userID, uuid.New().String(), func(s domain.UnifiedSnapshot) {
		select {
		case updates <- s:
		default:
		}
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer unsubscribe()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case snapshot := <-updates:
			c.SSEvent("snapshot", snapshot)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
