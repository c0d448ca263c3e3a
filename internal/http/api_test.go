package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"cbt-server/internal/auth"
	"cbt-server/internal/domain"
	"cbt-server/internal/repository"
	"cbt-server/internal/repository/mongodb"
	"cbt-server/internal/service"
	"cbt-server/internal/token"
)

const testUserAgent = "Mozilla/5.0 (integration tests)"

type fakeUserService struct {
	service.UserService
	registered *service.RegisterInput
	user       *domain.User
	err        error
}

func (f *fakeUserService) Register(_ context.Context, in service.RegisterInput) (*domain.User, error) {
	f.registered = &in
	if f.err != nil {
		return nil, f.err
	}
	u := *f.user
	u.Username = in.Username
	u.Email = in.Email
	u.FullName = in.FullName
	return &u, nil
}

func (f *fakeUserService) Authenticate(_ context.Context, login, password string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

type fakeExamService struct {
	service.ExamService
	exam *domain.Exam
	list []domain.Exam
	err  error
}

func (f *fakeExamService) Get(_ context.Context, id string) (*domain.Exam, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.exam, nil
}

func (f *fakeExamService) List(context.Context) ([]domain.Exam, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

func connectedHealth() mongodb.Health {
	return mongodb.Health{Connected: true, State: "connected", Host: "localhost:27017", Name: "cbt"}
}

func degradedHealth() mongodb.Health {
	return mongodb.Health{Connected: false, State: "degraded", Host: "localhost:27017", Name: "cbt"}
}

type testEnv struct {
	router *gin.Engine
	tokens *token.Service
	users  *fakeUserService
	exams  *fakeExamService
}

func newTestEnv(t *testing.T, healthFn func() mongodb.Health, limiter *RateLimiter) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := token.NewService("test-secret", time.Hour, 2*time.Hour)
	admin, err := auth.NewBootstrapAdmin("superadmin", "superadmin123")
	require.NoError(t, err)

	users := &fakeUserService{user: &domain.User{
		ID:       primitive.NewObjectID(),
		Username: "jdoe",
		Email:    "jdoe@example.com",
		FullName: "John Doe",
		Role:     domain.RoleStudent,
	}}
	exams := &fakeExamService{}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	router := gin.New()
	handler := NewHandler(users, exams, nil, nil, tokens, admin, healthFn, limiter, "test", logger)
	handler.RegisterRoutes(router)

	return &testEnv{router: router, tokens: tokens, users: users, exams: exams}
}

func (e *testEnv) do(method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("User-Agent", testUserAgent)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRegister_ReservedUsernameRejected(t *testing.T) {
	env := newTestEnv(t, connectedHealth, nil)

	w := env.do(http.MethodPost, "/api/auth/register", map[string]any{
		"username":    "admin",
		"password":    "Str0ngPass!",
		"fullName":    "John Doe",
		"email":       "jdoe@example.com",
		"tenant_slug": "acme",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Validation failed", body["message"])
	assert.Nil(t, env.users.registered, "reserved username must never reach the service")
}

func TestRegister_SanitizedBeforePersistence(t *testing.T) {
	env := newTestEnv(t, connectedHealth, nil)

	w := env.do(http.MethodPost, "/api/auth/register", map[string]any{
		"username":    "JDoe",
		"password":    "Str0ngPass!",
		"fullName":    "John Doe",
		"email":       "JDoe@Example.COM",
		"tenant_slug": "acme",
	}, nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, env.users.registered)
	assert.Equal(t, "jdoe", env.users.registered.Username)
	assert.Equal(t, "jdoe@example.com", env.users.registered.Email)
	assert.Equal(t, "John Doe", env.users.registered.FullName)
	assert.Equal(t, "Str0ngPass!", env.users.registered.Password)
}

func TestRegister_DuplicateUser(t *testing.T) {
	env := newTestEnv(t, connectedHealth, nil)
	env.users.err = service.ErrUserAlreadyExists

	w := env.do(http.MethodPost, "/api/auth/register", map[string]any{
		"username":    "jdoe",
		"password":    "Str0ngPass!",
		"fullName":    "John Doe",
		"email":       "jdoe@example.com",
		"tenant_slug": "acme",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestAdminLogin_IssuesSuperAdminToken(t *testing.T) {
	env := newTestEnv(t, connectedHealth, nil)

	w := env.do(http.MethodPost, "/api/admin/login", map[string]any{
		"username": "superadmin",
		"password": "superadmin123",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)

	tok, _ := body["token"].(string)
	require.NotEmpty(t, tok)
	claims, err := env.tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "super_admin", claims.Role)
	assert.Equal(t, "multi_tenant_admin", claims.Kind)

	refresh, _ := body["refreshToken"].(string)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, tok, refresh)
}

func TestAdminLogin_BadCredentials(t *testing.T) {
	env := newTestEnv(t, connectedHealth, nil)

	w := env.do(http.MethodPost, "/api/admin/login", map[string]any{
		"username": "superadmin",
		"password": "nope",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/api/admin/login", map[string]any{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetExam_NotFound(t *testing.T) {
	env := newTestEnv(t, connectedHealth, nil)
	env.exams.err = repository.ErrNotFound

	tok, err := env.tokens.Issue(token.Identity{UserID: "u1", Role: "admin"}, token.TypeAccess)
	require.NoError(t, err)

	w := env.do(http.MethodGet, "/api/exams/64f0c2a9e13b4a5d6c7e8f90", nil, map[string]string{
		"Authorization": "Bearer " + tok,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Exam not found"}`, w.Body.String())
}

func TestGetExam_InvalidID(t *testing.T) {
	env := newTestEnv(t, connectedHealth, nil)

	tok, err := env.tokens.Issue(token.Identity{UserID: "u1"}, token.TypeAccess)
	require.NoError(t, err)

	w := env.do(http.MethodGet, "/api/exams/not-hex", nil, map[string]string{
		"Authorization": "Bearer " + tok,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid ID format")
}

func TestRegister_RoleEscalationRejected(t *testing.T) {
	env := newTestEnv(t, connectedHealth, nil)

	w := env.do(http.MethodPost, "/api/auth/register", map[string]any{
		"username":    "jdoe",
		"password":    "Str0ngPass!",
		"fullName":    "John Doe",
		"email":       "jdoe@example.com",
		"tenant_slug": "acme",
		"role":        "super_admin",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Validation failed", body["message"])
	assert.Nil(t, env.users.registered, "privileged role must never reach the service")
}

func TestListExams_QueryValidation(t *testing.T) {
	env := newTestEnv(t, connectedHealth, nil)

	tok, err := env.tokens.Issue(token.Identity{UserID: "u1"}, token.TypeAccess)
	require.NoError(t, err)
	authHeader := map[string]string{"Authorization": "Bearer " + tok}

	for _, query := range []string{"?limit=abc", "?page=0", "?limit=101", "?page=-3"} {
		w := env.do(http.MethodGet, "/api/exams"+query, nil, authHeader)
		assert.Equal(t, http.StatusBadRequest, w.Code, "query %q", query)
		assert.Contains(t, w.Body.String(), "Validation failed", "query %q", query)
	}
}

func TestListExams_Paginated(t *testing.T) {
	env := newTestEnv(t, connectedHealth, nil)
	env.exams.list = []domain.Exam{
		{ID: primitive.NewObjectID(), Title: "Algebra"},
		{ID: primitive.NewObjectID(), Title: "Biology"},
		{ID: primitive.NewObjectID(), Title: "Chemistry"},
	}

	tok, err := env.tokens.Issue(token.Identity{UserID: "u1"}, token.TypeAccess)
	require.NoError(t, err)
	authHeader := map[string]string{"Authorization": "Bearer " + tok}

	w := env.do(http.MethodGet, "/api/exams?page=2&limit=2", nil, authHeader)
	require.Equal(t, http.StatusOK, w.Code)
	var paged []domain.Exam
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &paged))
	require.Len(t, paged, 1)
	assert.Equal(t, "Chemistry", paged[0].Title)

	w = env.do(http.MethodGet, "/api/exams", nil, authHeader)
	require.Equal(t, http.StatusOK, w.Code)
	var all []domain.Exam
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 3)
}

func TestProtectedRoute_RequiresToken(t *testing.T) {
	env := newTestEnv(t, connectedHealth, nil)

	w := env.do(http.MethodGet, "/api/exams", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSecurityHeaders(t *testing.T) {
	env := newTestEnv(t, connectedHealth, nil)

	w := env.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", w.Header().Get("X-XSS-Protection"))
	assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
	assert.Empty(t, w.Header().Get("X-Powered-By"))
}

func TestBotFilter(t *testing.T) {
	env := newTestEnv(t, connectedHealth, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("User-Agent", "curl")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("User-Agent", "Googlebot/2.1 (+http://www.google.com/bot.html)")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHealth_Degraded(t *testing.T) {
	env := newTestEnv(t, degradedHealth, nil)

	w := env.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	body := decode(t, w)
	assert.Equal(t, "degraded", body["status"])
	db, _ := body["database"].(map[string]any)
	require.NotNil(t, db)
	assert.Equal(t, false, db["connected"])
	assert.Equal(t, "localhost:27017", db["host"])
	assert.Equal(t, "cbt", db["name"])
}

func TestRateLimiter_Enforced(t *testing.T) {
	env := newTestEnv(t, connectedHealth, NewRateLimiter(3, time.Minute))

	for i := 0; i < 3; i++ {
		w := env.do(http.MethodGet, "/health", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i)
	}
	w := env.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t, connectedHealth, nil)

	w := env.do(http.MethodGet, "/api/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Route not found"}`, w.Body.String())
}
