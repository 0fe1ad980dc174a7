package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BuzzLyutic/task-tracker/internal/auth"
	"github.com/BuzzLyutic/task-tracker/internal/model"
	"github.com/BuzzLyutic/task-tracker/internal/repo/sqlite"
	"github.com/BuzzLyutic/task-tracker/internal/service"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	st := sqlite.NewStore(db)
	t.Cleanup(st.Close)

	logger := zap.NewNop()
	h := NewRouter(Services{
		Auth:       service.NewAuthService(st.Users, auth.NewPasswordHasher(bcrypt.MinCost), logger),
		Tasks:      service.NewTaskService(st.Tasks, st.Categories, st.Users, logger),
		Categories: service.NewCategoryService(st.Categories, logger),
		Users:      service.NewUserService(st.Users, st.Tasks, logger),
		Tokens:     auth.NewTokenManager("test-secret", time.Hour, "test"),
	}, 5*time.Second, logger)
	return &testServer{t: t, handler: h}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// signup registers and logs in, returning the bearer token and the account.
func (s *testServer) signup(username string) (string, model.User) {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/register", "", map[string]string{
		"username": username, "password": "password1", "confirm_password": "password1",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/login", "", map[string]string{"username": username, "password": "password1"})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var resp tokenResponse
	require.NoError(s.t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Token, resp.User
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	s := setupServer(t)
	rec := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAuthFlow(t *testing.T) {
	s := setupServer(t)

	adminToken, adminUser := s.signup("root")
	assert.Equal(t, model.RoleAdmin, adminUser.Role)

	_, alice := s.signup("alice")
	assert.Equal(t, model.RoleUser, alice.Role)

	rec := s.do(http.MethodPost, "/api/register", "", map[string]string{
		"username": "alice", "password": "password1", "confirm_password": "password1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/register", "", map[string]string{
		"username": "al", "password": "password1", "confirm_password": "password1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/login", "", map[string]string{"username": "alice", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/me", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[model.User](t, rec)
	assert.Equal(t, "root", me.Username)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegister_RequestedRoleNotGranted(t *testing.T) {
	s := setupServer(t)
	s.signup("root")

	rec := s.do(http.MethodPost, "/api/register", "", map[string]string{
		"username": "mallory", "password": "password1", "confirm_password": "password1", "role": "ADMIN",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, model.RoleUser, decode[model.User](t, rec).Role)

	rec = s.do(http.MethodPost, "/api/login", "", map[string]string{"username": "mallory", "password": "password1"})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[tokenResponse](t, rec)
	assert.Equal(t, model.RoleUser, login.User.Role)

	rec = s.do(http.MethodGet, "/api/users", login.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRegister_TrimsUsername(t *testing.T) {
	s := setupServer(t)

	rec := s.do(http.MethodPost, "/api/register", "", map[string]string{
		"username": "  root ", "password": "password1", "confirm_password": "password1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "root", decode[model.User](t, rec).Username)

	rec = s.do(http.MethodPost, "/api/login", "", map[string]string{"username": "root", "password": "password1"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPasswordStrengthEndpoint(t *testing.T) {
	s := setupServer(t)
	rec := s.do(http.MethodPost, "/api/password-strength", "", map[string]string{"password": "Abcdefgh1!xyz"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"strength":"very strong"}`, rec.Body.String())
}

func TestTaskEndpoints_Ownership(t *testing.T) {
	s := setupServer(t)
	adminToken, _ := s.signup("root")
	aliceToken, alice := s.signup("alice")
	bobToken, _ := s.signup("bob")

	rec := s.do(http.MethodPost, "/api/tasks", aliceToken, map[string]any{"title": "A", "due_date": "2020-01-01"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	taskA := decode[model.Task](t, rec)
	assert.Equal(t, alice.ID, taskA.UserID)
	assert.Equal(t, model.StatusTodo, taskA.Status)
	assert.Equal(t, model.PriorityMedium, taskA.Priority)

	rec = s.do(http.MethodPost, "/api/tasks", bobToken, map[string]any{"title": "B"})
	require.Equal(t, http.StatusCreated, rec.Code)
	taskB := decode[model.Task](t, rec)

	rec = s.do(http.MethodGet, "/api/tasks", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dash := decode[service.Dashboard](t, rec)
	require.Len(t, dash.Tasks, 1)
	assert.Equal(t, taskA.ID, dash.Tasks[0].ID)

	rec = s.do(http.MethodGet, "/api/tasks", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dash = decode[service.Dashboard](t, rec)
	assert.Len(t, dash.Tasks, 2)
	assert.Equal(t, 2, dash.Overall.Total)

	bPath := fmt.Sprintf("/api/tasks/%d", taskB.ID)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, bPath, aliceToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPut, bPath, aliceToken, map[string]any{"title": "mine"}).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, bPath, aliceToken, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, bPath, adminToken, nil).Code)

	rec = s.do(http.MethodPut, bPath, bobToken, map[string]any{"title": "B2", "status": "DONE", "priority": "HIGH"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[model.Task](t, rec)
	assert.Equal(t, "B2", updated.Title)
	assert.Equal(t, model.StatusDone, updated.Status)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, bPath, bobToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, bPath, adminToken, nil).Code)
}

func TestTaskEndpoints_Validation(t *testing.T) {
	s := setupServer(t)
	token, _ := s.signup("root")

	tests := []struct {
		name string
		body any
	}{
		{name: "blank title", body: map[string]any{"title": " "}},
		{name: "bad status", body: map[string]any{"title": "x", "status": "BLOCKED"}},
		{name: "bad date", body: map[string]any{"title": "x", "due_date": "01/02/2026"}},
		{name: "unknown category", body: map[string]any{"title": "x", "category_id": 99}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/api/tasks", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/tasks/abc", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/tasks?status=WAITING", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/tasks?due_from=tomorrow", token, nil).Code)
}

func TestTaskEndpoints_Filter(t *testing.T) {
	s := setupServer(t)
	token, _ := s.signup("root")

	rec := s.do(http.MethodPost, "/api/categories", token, map[string]string{"name": "Work"})
	require.Equal(t, http.StatusCreated, rec.Code)
	work := decode[model.Category](t, rec)

	for _, body := range []map[string]any{
		{"title": "Write report", "category_id": work.ID, "due_date": "2020-01-01"},
		{"title": "Buy milk", "status": "DONE"},
		{"title": "Plan sprint", "category_id": work.ID, "priority": "HIGH"},
	} {
		require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/tasks", token, body).Code)
	}

	rec = s.do(http.MethodGet, "/api/tasks?category=Work&overdue=true", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dash := decode[service.Dashboard](t, rec)
	require.Len(t, dash.Tasks, 1)
	assert.Equal(t, "Write report", dash.Tasks[0].Title)
	assert.Equal(t, model.Summary{Total: 1, Todo: 1}, dash.Filtered)
	assert.Equal(t, model.Summary{Total: 3, Todo: 2, Done: 1}, dash.Overall)

	rec = s.do(http.MethodGet, "/api/tasks?category="+model.UncategorizedLabel, token, nil)
	dash = decode[service.Dashboard](t, rec)
	require.Len(t, dash.Tasks, 1)
	assert.Equal(t, "Buy milk", dash.Tasks[0].Title)

	rec = s.do(http.MethodGet, "/api/tasks?search=SPRINT&priority=high", token, nil)
	dash = decode[service.Dashboard](t, rec)
	require.Len(t, dash.Tasks, 1)
	assert.Equal(t, "Plan sprint", dash.Tasks[0].Title)
}

func TestCategoryEndpoints(t *testing.T) {
	s := setupServer(t)
	adminToken, _ := s.signup("root")
	userToken, _ := s.signup("alice")

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/categories", userToken, map[string]string{"name": "Work"}).Code)

	rec := s.do(http.MethodPost, "/api/categories", adminToken, map[string]string{"name": " Work "})
	require.Equal(t, http.StatusCreated, rec.Code)
	work := decode[model.Category](t, rec)
	assert.Equal(t, "Work", work.Name)

	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/categories", adminToken, map[string]string{"name": "Work"}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/categories", adminToken, map[string]string{"name": ""}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/categories", adminToken, map[string]string{"name": model.UncategorizedLabel}).Code)

	rec = s.do(http.MethodPost, "/api/tasks", userToken, map[string]any{"title": "t", "category_id": work.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	task := decode[model.Task](t, rec)

	path := fmt.Sprintf("/api/categories/%d", work.ID)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, path, adminToken, map[string]string{"name": "UNCATEGORIZED"}).Code)
	rec = s.do(http.MethodPut, path, adminToken, map[string]string{"name": "Office"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/categories?q=off", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Category](t, rec), 1)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, path, adminToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, path, adminToken, nil).Code)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[model.Task](t, rec)
	assert.Equal(t, model.UncategorizedLabel, got.CategoryLabel())
}

func TestUserEndpoints(t *testing.T) {
	s := setupServer(t)
	adminToken, admin := s.signup("root")
	aliceToken, alice := s.signup("alice")

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/users", aliceToken, nil).Code)

	rec := s.do(http.MethodGet, "/api/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dir := decode[service.UserDirectory](t, rec)
	assert.Equal(t, 2, dir.Total)
	assert.Equal(t, 1, dir.Admins)

	selfRole := fmt.Sprintf("/api/users/%d/role", admin.ID)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, selfRole, adminToken, map[string]string{"role": "USER"}).Code)

	aliceRole := fmt.Sprintf("/api/users/%d/role", alice.ID)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, aliceRole, adminToken, map[string]string{"role": "OWNER"}).Code)
	rec = s.do(http.MethodPut, aliceRole, adminToken, map[string]string{"role": "ADMIN"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.RoleAdmin, decode[model.User](t, rec).Role)

	// the new role applies to alice's existing token
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/users", aliceToken, nil).Code)

	alicePath := fmt.Sprintf("/api/users/%d", alice.ID)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, alicePath, adminToken, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/me", aliceToken, nil).Code)
}
