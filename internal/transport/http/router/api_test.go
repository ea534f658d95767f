package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gin-gorm-signup/internal/core/server"
	"gin-gorm-signup/internal/repo"
	"gin-gorm-signup/internal/service"
	"gin-gorm-signup/internal/transport/http/handler"
	resp "gin-gorm-signup/internal/transport/http/response"
	"gin-gorm-signup/pkg/utils"
)

type signupData struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    *struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type envelope struct {
	Code int        `json:"code"`
	Msg  string     `json:"msg"`
	Data signupData `json:"data"`
}

func newTestEngine(t *testing.T) (*gin.Engine, *repo.MemoryUserRepo) {
	t.Helper()
	h, err := utils.NewHasher(utils.AlgoArgon2id, 0, utils.Argon2Params{Time: 1, MemoryK: 1024, Threads: 1})
	require.NoError(t, err)
	store := repo.NewMemoryUserRepo()
	svc := service.NewRegistrationService(store, h, zap.NewNop())
	r := NewAPIEngine(zap.NewNop(), server.Options{Mode: gin.TestMode}, Limits{MaxConcurrent: 16}, handler.NewSignupHandler(svc))
	return r, store
}

func serveSignup(r *gin.Engine, email, pw, confirm string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"email": email, "password": pw, "confirmPassword": confirm})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postSignup(t *testing.T, r *gin.Engine, email, pw, confirm string) envelope {
	t.Helper()
	w := serveSignup(r, email, pw, confirm)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestSignupFlow(t *testing.T) {
	r, store := newTestEngine(t)

	first := postSignup(t, r, "test@example.com", "password123", "password123")
	assert.Equal(t, 0, first.Code)
	assert.True(t, first.Data.Success)
	assert.Equal(t, "User registered successfully", first.Data.Message)
	require.NotNil(t, first.Data.User)
	assert.Positive(t, first.Data.User.ID)
	assert.Equal(t, "test@example.com", first.Data.User.Email)

	again := postSignup(t, r, "test@example.com", "password123", "password123")
	assert.Equal(t, 0, again.Code)
	assert.False(t, again.Data.Success)
	assert.Equal(t, "Email already exists", again.Data.Message)
	assert.Nil(t, again.Data.User)

	short := postSignup(t, r, "short@example.com", "123", "123")
	assert.Equal(t, 400, short.Code)
	assert.Equal(t, "Password must be at least 6 characters long", short.Msg)

	assert.Equal(t, 1, store.Count())
}

func TestSignupConcurrentSameEmail(t *testing.T) {
	r, store := newTestEngine(t)

	const n = 6
	recs := make([]*httptest.ResponseRecorder, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			recs[i] = serveSignup(r, "race@example.com", "password123", "password123")
		}(i)
	}
	wg.Wait()

	var ok int
	for _, w := range recs {
		var e envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
		if e.Data.Success {
			ok++
			continue
		}
		assert.Equal(t, "Email already exists", e.Data.Message)
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, store.Count())
}

func TestHealthAndMetrics(t *testing.T) {
	r, _ := newTestEngine(t)
	postSignup(t, r, "metrics@example.com", "password123", "password123")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":1}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "signup_attempts_total")
}

func TestUnknownRoute(t *testing.T) {
	r, _ := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"code":404,"msg":"route not found","data":{}}`, w.Body.String())
}

func TestSignupBodyTooLarge(t *testing.T) {
	r, store := newTestEngine(t)
	big := strings.Repeat("x", 2<<20)

	env := postSignup(t, r, "big@example.com", big, big)
	assert.Equal(t, resp.CodeTooLarge, env.Code)
	assert.Equal(t, "Request Entity Too Large", env.Msg)
	assert.Equal(t, 0, store.Count())
}
