package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"worksync-backend/internal/workspace/domain"
)

const defaultBaseURL = "https://graph.microsoft.com/v1.0"

// Service talks to the Microsoft Graph REST API and implements
// domain.WorkspaceProvider. Responses stay as raw maps so the transformer
// owns every field decision.
type Service struct {
	baseURL    string
	httpClient *http.Client
}

// NewService creates a Graph client authenticated with a static bearer token.
func NewService(baseURL, accessToken string) *Service {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	return &Service{
		baseURL:    baseURL,
		httpClient: oauth2.NewClient(context.Background(), source),
	}
}

// NewServiceWithTokenSource creates a Graph client around an existing token
// source, for callers that refresh tokens themselves.
func NewServiceWithTokenSource(baseURL string, source oauth2.TokenSource) *Service {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Service{
		baseURL:    baseURL,
		httpClient: oauth2.NewClient(context.Background(), source),
	}
}

// get performs a GET against path and returns the response's "value"
// collection as raw records.
func (s *Service) get(ctx context.Context, path string, query url.Values) ([]domain.RawRecord, error) {
	endpoint := s.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graph API error (%d) on %s: %s", resp.StatusCode, path, string(respBody))
	}

	var result struct {
		Value []domain.RawRecord `json:"value"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return result.Value, nil
}

// GetFolders implements domain.WorkspaceProvider.
func (s *Service) GetFolders(ctx context.Context) ([]domain.RawRecord, error) {
	return s.get(ctx, "/me/mailFolders", nil)
}

// GetContacts implements domain.WorkspaceProvider.
func (s *Service) GetContacts(ctx context.Context, limit int) ([]domain.RawRecord, error) {
	return s.get(ctx, "/me/contacts", topQuery(limit))
}

// GetPeople implements domain.WorkspaceProvider.
func (s *Service) GetPeople(ctx context.Context, limit int) ([]domain.RawRecord, error) {
	return s.get(ctx, "/me/people", topQuery(limit))
}

// GetUsers implements domain.WorkspaceProvider.
func (s *Service) GetUsers(ctx context.Context, limit int) ([]domain.RawRecord, error) {
	return s.get(ctx, "/users", topQuery(limit))
}

// GetEmails implements domain.WorkspaceProvider. Results are limited to the
// window and come back newest first.
func (s *Service) GetEmails(ctx context.Context, start, end time.Time) ([]domain.RawRecord, error) {
	query := url.Values{}
	query.Set("$filter", fmt.Sprintf("receivedDateTime ge %s and receivedDateTime le %s",
		start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339)))
	query.Set("$orderby", "receivedDateTime desc")
	return s.get(ctx, "/me/messages", query)
}

// GetMeetings implements domain.WorkspaceProvider, using the calendar view so
// recurring meetings are expanded into the window's occurrences.
func (s *Service) GetMeetings(ctx context.Context, start, end time.Time) ([]domain.RawRecord, error) {
	query := url.Values{}
	query.Set("startDateTime", start.UTC().Format(time.RFC3339))
	query.Set("endDateTime", end.UTC().Format(time.RFC3339))
	return s.get(ctx, "/me/calendarView", query)
}

func topQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	query := url.Values{}
	query.Set("$top", strconv.Itoa(limit))
	return query
}
