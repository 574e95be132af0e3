package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"videotube_backend/internal/app/config"
	"videotube_backend/internal/app/di"
	"videotube_backend/internal/app/router"
	authhandler "videotube_backend/internal/feature/auth/transport/handler"
	jwtmw "videotube_backend/internal/platform/jwt"
	"videotube_backend/internal/platform/upload"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// fakeUploader mimics the media host: it consumes the staged file and returns a URL.
type fakeUploader struct {
	uploads int
}

func (f *fakeUploader) Upload(_ context.Context, localPath string) (string, error) {
	defer func() { _ = os.Remove(localPath) }()
	f.uploads++
	return "https://cdn.example.com/media/" + strings.TrimPrefix(localPath, os.TempDir()), nil
}

func newTestServer(t *testing.T) (*gin.Engine, *fakeUploader) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(di.Models()...))

	stager, err := upload.NewStager(t.TempDir(), 0)
	require.NoError(t, err)

	cfg := &config.Config{
		JWT: jwtmw.Config{
			AccessSecret:  "access-secret",
			AccessTTL:     15 * time.Minute,
			RefreshSecret: "refresh-secret",
			RefreshTTL:    time.Hour,
			Issuer:        "videotube",
		},
		Cookies: authhandler.CookieConfig{
			SameSite:      http.SameSiteLaxMode,
			AccessMaxAge:  15 * time.Minute,
			RefreshMaxAge: time.Hour,
		},
	}

	uploader := &fakeUploader{}
	handlers := di.NewHandlers(cfg, di.Deps{DB: db, Uploader: uploader, Stager: stager})
	return router.NewRouter(handlers, nil), uploader
}

type envelope struct {
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func do(t *testing.T, r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func jsonRequest(method, path, body, accessToken string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	return req
}

func registerRequest(t *testing.T) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range map[string]string{
		"fullName": "Alice Liddell",
		"username": "Alice",
		"email":    "alice@example.com",
		"password": "password123",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

type tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func TestRouter_AccountLifecycle(t *testing.T) {
	r, uploader := newTestServer(t)

	// register
	w, env := do(t, r, registerRequest(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "User registered successfully", env.Message)
	var registered map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &registered))
	assert.Equal(t, "alice", registered["username"])
	assert.NotContains(t, string(env.Data), "password")
	assert.Equal(t, 1, uploader.uploads)

	// duplicate registration
	w, _ = do(t, r, registerRequest(t))
	assert.Equal(t, http.StatusConflict, w.Code)

	// wrong password
	w, env = do(t, r, jsonRequest(http.MethodPost, "/api/v1/users/login", `{"username":"alice","password":"wrong-password"}`, ""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid user credentials", env.Message)

	// login
	w, env = do(t, r, jsonRequest(http.MethodPost, "/api/v1/users/login", `{"email":"alice@example.com","password":"password123"}`, ""))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var first tokens
	require.NoError(t, json.Unmarshal(env.Data, &first))
	require.NotEmpty(t, first.AccessToken)
	require.NotEmpty(t, first.RefreshToken)
	cookieNames := map[string]bool{}
	for _, ck := range w.Result().Cookies() {
		cookieNames[ck.Name] = ck.HttpOnly
	}
	assert.True(t, cookieNames[jwtmw.AccessTokenCookie])
	assert.True(t, cookieNames[jwtmw.RefreshTokenCookie])

	// protected route
	w, _ = do(t, r, jsonRequest(http.MethodGet, "/api/v1/users/current-user", "", ""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, env = do(t, r, jsonRequest(http.MethodGet, "/api/v1/users/current-user", "", first.AccessToken))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"username":"alice"`)

	// refresh rotates the pair
	w, env = do(t, r, jsonRequest(http.MethodPost, "/api/v1/users/refresh-token", `{"refreshToken":"`+first.RefreshToken+`"}`, ""))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var second tokens
	require.NoError(t, json.Unmarshal(env.Data, &second))
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// the rotated-out token is rejected
	w, env = do(t, r, jsonRequest(http.MethodPost, "/api/v1/users/refresh-token", `{"refreshToken":"`+first.RefreshToken+`"}`, ""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid refresh token", env.Message)

	// channel profile of self
	w, env = do(t, r, jsonRequest(http.MethodGet, "/api/v1/users/c/alice", "", second.AccessToken))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var profile map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, float64(0), profile["subscriberCount"])
	assert.Equal(t, float64(0), profile["channelsSubscribedToCount"])
	assert.Equal(t, false, profile["isSubscribed"])

	w, env = do(t, r, jsonRequest(http.MethodGet, "/api/v1/users/c/nobody", "", second.AccessToken))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "channel does not exists", env.Message)

	// watch history is empty
	w, env = do(t, r, jsonRequest(http.MethodGet, "/api/v1/users/history", "", second.AccessToken))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	// account update
	w, env = do(t, r, jsonRequest(http.MethodPatch, "/api/v1/users/update-account", `{"fullName":"Alice Pleasance","email":"alice.p@example.com"}`, second.AccessToken))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), "alice.p@example.com")

	// change password, then the old one no longer logs in
	w, _ = do(t, r, jsonRequest(http.MethodPost, "/api/v1/users/change-password", `{"oldPassword":"password123","newPassword":"new-password-456"}`, second.AccessToken))
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, jsonRequest(http.MethodPost, "/api/v1/users/login", `{"username":"alice","password":"password123"}`, ""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// logout revokes the refresh token
	w, env = do(t, r, jsonRequest(http.MethodPost, "/api/v1/users/logout", "", second.AccessToken))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User logged Out", env.Message)
	w, _ = do(t, r, jsonRequest(http.MethodPost, "/api/v1/users/refresh-token", `{"refreshToken":"`+second.RefreshToken+`"}`, ""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_Healthz(t *testing.T) {
	r, _ := newTestServer(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_GzipWhenAccepted(t *testing.T) {
	r, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
}
