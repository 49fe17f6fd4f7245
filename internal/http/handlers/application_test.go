package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Lerwix/taler-site/internal/app"
	"github.com/Lerwix/taler-site/internal/domain/application"
)

// memRepo is a minimal in-memory Repository for handler tests.
type memRepo struct {
	items  []application.Application
	nextID int64
}

func newMemRepo() *memRepo {
	return &memRepo{}
}

func (m *memRepo) add(a application.Application) {
	m.nextID++
	a.ID = m.nextID
	a.CreatedAt = time.Now().UTC()
	if a.Status == "" {
		a.Status = application.StatusNew
	}
	m.items = append(m.items, a)
}

func (m *memRepo) Create(_ context.Context, a application.Application) (*application.Application, error) {
	m.add(a)
	created := m.items[len(m.items)-1]
	return &created, nil
}

func (m *memRepo) matching(filter application.Filter) []application.Application {
	var out []application.Application
	for _, item := range m.items {
		if filter.RoleRestricted() && item.Role != filter.Role {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (m *memRepo) List(_ context.Context, filter application.Filter, page application.Page) ([]application.Application, error) {
	page = page.Normalize()
	matched := m.matching(filter)
	if page.Offset >= len(matched) {
		return nil, nil
	}
	end := page.Offset + page.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[page.Offset:end], nil
}

func (m *memRepo) Count(_ context.Context, filter application.Filter) (int, error) {
	return len(m.matching(filter)), nil
}

func newTestRouter(repo application.Repository) *gin.Engine {
	submissions := app.NewSubmissionService(repo, app.NewDedupGuard(time.Minute), nil, nil, nil,
		app.SubmissionConfig{AgeMin: 14, AgeMax: 100})
	queries := app.NewQueryService(repo, nil, nil, app.QueryConfig{})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewApplicationHandler(submissions, queries, false)
	router.POST("/api/application", handler.Submit)
	router.GET("/api/applications", handler.List)
	router.GET("/api/count", handler.Count)
	return router
}

func TestSubmitEndpoint(t *testing.T) {
	repo := newMemRepo()
	router := newTestRouter(repo)

	body := `{"nickname":"Ann","age":20,"telegram":"ann_dev01","role":"dev"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/application", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ID   int64  `json:"id"`
			Role string `json:"role"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Data.ID == 0 || resp.Data.Role != "dev" {
		t.Fatalf("unexpected response: %s", rec.Body.String())
	}
}

func TestSubmitEndpointValidation(t *testing.T) {
	router := newTestRouter(newMemRepo())

	body := `{"nickname":"Ann","age":20,"telegram":"ab","role":"dev"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/application", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Fatalf("expected failure envelope: %s", rec.Body.String())
	}
}

func TestSubmitEndpointRateLimited(t *testing.T) {
	router := newTestRouter(newMemRepo())
	body := `{"nickname":"Ann","age":20,"telegram":"ann_dev01","role":"dev"}`

	for i, want := range []int{http.StatusCreated, http.StatusTooManyRequests} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/application", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("attempt %d: expected %d, got %d", i+1, want, rec.Code)
		}
	}
}

func TestListEndpointPagination(t *testing.T) {
	repo := newMemRepo()
	for i := 0; i < 3; i++ {
		repo.add(application.Application{Nickname: "User", Age: 20, Telegram: "user_name1", Role: application.RoleDev})
	}
	router := newTestRouter(repo)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/applications?role=dev&limit=2&offset=0", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Success    bool                      `json:"success"`
		Data       []application.Application `json:"data"`
		Pagination struct {
			Total   int  `json:"total"`
			HasMore bool `json:"hasMore"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 2 || resp.Pagination.Total != 3 || !resp.Pagination.HasMore {
		t.Fatalf("unexpected page: %s", rec.Body.String())
	}
}

func TestCountEndpoint(t *testing.T) {
	repo := newMemRepo()
	repo.add(application.Application{Nickname: "Ann", Age: 20, Telegram: "ann_dev01", Role: application.RoleDev})
	router := newTestRouter(repo)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/count?role=dev", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Count != 1 {
		t.Fatalf("unexpected count response: %s", rec.Body.String())
	}
}
