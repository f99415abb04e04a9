package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"docportal/internal/api"
	"docportal/internal/api/handlers"
	"docportal/internal/dto"
	"docportal/internal/models"
	"docportal/internal/repository"
	"docportal/internal/service"
	"docportal/internal/storage"
	"docportal/internal/testutil"
	"docportal/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	app    *fiber.App
	tokens map[string]string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()

	db := testutil.NewTestDatabase(t)
	users := repository.NewUserRepository(db, logger)
	docs := repository.NewDocumentRepository(db, logger)
	notifications := service.NewNotificationService(repository.NewNotificationRepository(db, logger), logger)

	testutil.SeedUser(t, users, "admin-1", "Ravi Kumar", models.RoleAdmin, true)
	testutil.SeedUser(t, users, "emp-1", "Priya Nair", models.RoleEmployee, true)
	testutil.SeedUser(t, users, "emp-2", "John Doe", models.RoleEmployee, true)

	store, err := storage.NewLocalStore(t.TempDir(), "http://portal.test", "file-secret", logger)
	require.NoError(t, err)

	jwtManager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	authService := service.NewAuthService(users, jwtManager, logger)
	docService := service.NewDocumentService(docs, users, store, notifications, nil, service.LifecycleOptions{
		CollaboratorTimeout: time.Second,
		StorageRetries:      1,
		URLTTL:              time.Minute,
		MaxUploadBytes:      1 << 20,
	}, logger)

	app := api.SetupRouter(api.Handlers{
		Auth:          handlers.NewAuthHandler(authService, logger),
		Documents:     handlers.NewDocumentHandler(docService, logger),
		Employees:     handlers.NewEmployeeHandler(docService, logger),
		Notifications: handlers.NewNotificationHandler(notifications, logger),
		Files:         handlers.NewFileHandler(store, logger),
	}, jwtManager, 1<<20, logger)

	tokens := map[string]string{}
	for id, role := range map[string]string{"admin-1": "admin", "emp-1": "employee", "emp-2": "employee"} {
		token, err := jwtManager.GenerateToken(id, id, id+"@example.com", role)
		require.NoError(t, err)
		tokens[id] = token
	}

	return &testServer{app: app, tokens: tokens}
}

func (s *testServer) do(t *testing.T, req *http.Request, user string) (*http.Response, []byte) {
	t.Helper()
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+s.tokens[user])
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func (s *testServer) jsonRequest(t *testing.T, method, path, user string, payload any) (*http.Response, []byte) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	return s.do(t, req, user)
}

func (s *testServer) upload(t *testing.T, title string) dto.DocumentResponse {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", title))
	require.NoError(t, w.WriteField("category", "Safety"))
	require.NoError(t, w.WriteField("priority", "high"))
	require.NoError(t, w.WriteField("deadline", "2026-12-31"))
	part, err := w.CreateFormFile("file", "manual.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("Evacuation procedures"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, body := s.do(t, req, "admin-1")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var doc dto.DocumentResponse
	require.NoError(t, json.Unmarshal(body, &doc))
	return doc
}

func TestRoutes_RequireAuthAndRole(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.jsonRequest(t, http.MethodGet, "/api/v1/documents/pending", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.jsonRequest(t, http.MethodGet, "/api/v1/documents/pending", "emp-1", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = s.jsonRequest(t, http.MethodGet, "/api/v1/employees", "emp-1", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := s.jsonRequest(t, http.MethodGet, "/api/v1/employees", "admin-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var employees []dto.UserResponse
	require.NoError(t, json.Unmarshal(body, &employees))
	require.Len(t, employees, 2)
	assert.Equal(t, "John Doe", employees[0].Name)
}

func TestDocumentWorkflow(t *testing.T) {
	s := newTestServer(t)
	doc := s.upload(t, "Safety Manual")
	assert.Equal(t, "pending", doc.Status)
	assert.Equal(t, "high", doc.Priority)
	require.NotNil(t, doc.Deadline)
	assert.Equal(t, "2026-12-31", *doc.Deadline)

	resp, body := s.jsonRequest(t, http.MethodGet, "/api/v1/documents/pending", "admin-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pending []dto.DocumentResponse
	require.NoError(t, json.Unmarshal(body, &pending))
	require.Len(t, pending, 1)

	resp, _ = s.jsonRequest(t, http.MethodGet, "/api/v1/documents/"+doc.ID, "emp-1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.jsonRequest(t, http.MethodPost, "/api/v1/documents/"+doc.ID+"/approve", "admin-1", dto.ApproveDocumentRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = s.jsonRequest(t, http.MethodPost, "/api/v1/documents/"+doc.ID+"/approve", "admin-1", dto.ApproveDocumentRequest{
		EmployeeIDs: []string{"emp-1"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var approved dto.ApproveDocumentResponse
	require.NoError(t, json.Unmarshal(body, &approved))
	assert.Equal(t, "approved", approved.Document.Status)
	assert.Len(t, approved.NewAssignments, 1)

	resp, body = s.jsonRequest(t, http.MethodGet, "/api/v1/documents/assigned", "emp-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var assigned []dto.DocumentResponse
	require.NoError(t, json.Unmarshal(body, &assigned))
	require.Len(t, assigned, 1)
	assert.Nil(t, assigned[0].ReviewNotes)

	resp, _ = s.jsonRequest(t, http.MethodGet, "/api/v1/documents/"+doc.ID, "emp-2", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.jsonRequest(t, http.MethodPost, "/api/v1/documents/"+doc.ID+"/reject", "admin-1", dto.RejectDocumentRequest{ReviewNotes: "late"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = s.jsonRequest(t, http.MethodGet, "/api/v1/notifications?unread=true", "emp-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var alerts []dto.NotificationResponse
	require.NoError(t, json.Unmarshal(body, &alerts))
	require.Len(t, alerts, 1)

	resp, _ = s.jsonRequest(t, http.MethodPost, "/api/v1/notifications/"+alerts[0].ID+"/read", "emp-1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestReject_RequiresNotes(t *testing.T) {
	s := newTestServer(t)
	doc := s.upload(t, "Rota")

	resp, _ := s.jsonRequest(t, http.MethodPost, "/api/v1/documents/"+doc.ID+"/reject", "admin-1", dto.RejectDocumentRequest{ReviewNotes: "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.jsonRequest(t, http.MethodPost, "/api/v1/documents/missing/reject", "admin-1", dto.RejectDocumentRequest{ReviewNotes: "no"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSignedFileLink(t *testing.T) {
	s := newTestServer(t)
	doc := s.upload(t, "Manual")

	resp, _ := s.jsonRequest(t, http.MethodGet, "/api/v1/documents/"+doc.ID+"/url", "emp-1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := s.jsonRequest(t, http.MethodGet, "/api/v1/documents/"+doc.ID+"/url", "admin-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var link dto.FileURLResponse
	require.NoError(t, json.Unmarshal(body, &link))

	u, err := url.Parse(link.URL)
	require.NoError(t, err)

	resp, body = s.do(t, httptest.NewRequest(http.MethodGet, u.RequestURI(), nil), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Evacuation procedures", string(body))

	resp, _ = s.do(t, httptest.NewRequest(http.MethodGet, u.Path+"?token=forged", nil), "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.jsonRequest(t, http.MethodPost, "/user/auth/login", "", dto.LoginRequest{Email: "emp-1@example.com", Password: "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "invalid credentials")

	resp, _ = s.jsonRequest(t, http.MethodPost, "/user/auth/login", "", dto.LoginRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRefreshToken(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.jsonRequest(t, http.MethodPost, "/user/auth/refresh", "", dto.RefreshTokenRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.jsonRequest(t, http.MethodPost, "/user/auth/refresh", "", dto.RefreshTokenRequest{RefreshToken: "not-a-token"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// An access token is not accepted as a refresh token.
	resp, _ = s.jsonRequest(t, http.MethodPost, "/user/auth/refresh", "", dto.RefreshTokenRequest{RefreshToken: s.tokens["emp-1"]})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
