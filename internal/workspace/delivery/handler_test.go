package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"worksync-backend/internal/workspace/domain"
	"worksync-backend/internal/workspace/usecase"
)

// stubUsecase records calls and serves a canned snapshot.
type stubUsecase struct {
	mu          sync.Mutex
	snapshot    domain.UnifiedSnapshot
	loadMoreErr error
	initialized []string
	forceFlags  []bool
	loadedWeeks []int
	cleared     []string
}

func (s *stubUsecase) Initialize(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = append(s.initialized, userID)
	return nil
}

func (s *stubUsecase) GetData(_ context.Context, _ string, forceRefresh bool) (domain.UnifiedSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forceFlags = append(s.forceFlags, forceRefresh)
	return s.snapshot, nil
}

func (s *stubUsecase) Subscribe(_, subscriberID string, callback func(domain.UnifiedSnapshot)) (func(), error) {
	callback(s.snapshot)
	return func() {}, nil
}

func (s *stubUsecase) LoadMoreWeeks(_ context.Context, _ string, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadMoreErr != nil {
		return s.loadMoreErr
	}
	s.loadedWeeks = append(s.loadedWeeks, n)
	return nil
}

func (s *stubUsecase) ClearCache(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared = append(s.cleared, userID)
	return nil
}

func (s *stubUsecase) Close() {}

func newTestRouter(stub *stubUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewWorkspaceHandler(stub)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", "user-1")
	})
	router.GET("/api/workspace/data", handler.GetData)
	router.POST("/api/workspace/load-more", handler.LoadMore)
	router.DELETE("/api/workspace/cache", handler.ClearCache)
	router.GET("/api/workspace/events", handler.Events)
	return router
}

func TestGetDataHandler(t *testing.T) {
	stub := &stubUsecase{snapshot: domain.UnifiedSnapshot{
		Emails: []domain.EmailView{{ID: "m1", Subject: "hello"}},
	}}
	router := newTestRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/workspace/data", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var snapshot domain.UnifiedSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(snapshot.Emails) != 1 || snapshot.Emails[0].ID != "m1" {
		t.Errorf("Unexpected snapshot: %+v", snapshot)
	}
	if len(stub.forceFlags) != 1 || stub.forceFlags[0] {
		t.Errorf("Expected one non-forced GetData call, got %v", stub.forceFlags)
	}
	if len(stub.initialized) != 1 || stub.initialized[0] != "user-1" {
		t.Errorf("Expected engine initialized for user-1, got %v", stub.initialized)
	}
}

func TestGetDataHandler_ForceRefresh(t *testing.T) {
	stub := &stubUsecase{}
	router := newTestRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/workspace/data?refresh=true", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(stub.forceFlags) != 1 || !stub.forceFlags[0] {
		t.Errorf("Expected forced refresh, got %v", stub.forceFlags)
	}
}

func TestLoadMoreHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantWeeks  []int
	}{
		{"valid", `{"weeks": 4}`, http.StatusOK, []int{4}},
		{"zero weeks", `{"weeks": 0}`, http.StatusBadRequest, nil},
		{"negative weeks", `{"weeks": -2}`, http.StatusBadRequest, nil},
		{"missing field", `{}`, http.StatusBadRequest, nil},
		{"not json", `weeks=4`, http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubUsecase{}
			router := newTestRouter(stub)

			req := httptest.NewRequest(http.MethodPost, "/api/workspace/load-more", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if len(stub.loadedWeeks) != len(tt.wantWeeks) {
				t.Errorf("loadedWeeks = %v, want %v", stub.loadedWeeks, tt.wantWeeks)
			}
		})
	}
}

func TestLoadMoreHandler_SyncInFlight(t *testing.T) {
	stub := &stubUsecase{loadMoreErr: usecase.ErrSyncInFlight}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/workspace/load-more", strings.NewReader(`{"weeks": 4}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "sync is already in progress") {
		t.Errorf("Expected in-progress error body, got %q", rec.Body.String())
	}
}

func TestClearCacheHandler(t *testing.T) {
	stub := &stubUsecase{}
	router := newTestRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/workspace/cache", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(stub.cleared) != 1 || stub.cleared[0] != "user-1" {
		t.Errorf("Expected clear for user-1, got %v", stub.cleared)
	}
}

// sseRecorder adds the CloseNotify gin's Stream helper requires.
type sseRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *sseRecorder) CloseNotify() <-chan bool { return r.closed }

func TestEventsHandler_StreamsReplayedSnapshot(t *testing.T) {
	stub := &stubUsecase{snapshot: domain.UnifiedSnapshot{
		Emails: []domain.EmailView{{ID: "m1", Subject: "hello"}},
	}}
	router := newTestRouter(stub)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/workspace/events", nil).WithContext(ctx)
	rec := &sseRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool)}
	router.ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "event:snapshot") {
		t.Errorf("Expected a snapshot event, got %q", body)
	}
	if !strings.Contains(body, "m1") {
		t.Errorf("Expected snapshot payload in stream, got %q", body)
	}
}
