package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret-for-handler-tests",
		TokenTTLHours: 1,
		Env:           "test",
	}
}

// newTestServer builds a server on an in-memory database with routes wired,
// skipping the outer middleware stack (CORS, limiter, metrics) that handler
// tests do not exercise.
func newTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Follow{}, &models.Message{}))

	srv, err := NewServerWithDeps(testConfig(), db, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)
	return srv, app, db
}

func jsonRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// sessionCookie extracts the session cookie value from a signup/signin response.
func sessionCookie(t *testing.T, resp *http.Response) string {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == "token" && c.Value != "" {
			return c.Value
		}
	}
	t.Fatal("no session cookie in response")
	return ""
}

// signupUser registers an account through the API and returns its user ID
// and session cookie value.
func signupUser(t *testing.T, app *fiber.App, name, email string) (uint, string) {
	t.Helper()
	req := jsonRequest(http.MethodPost, "/api/auth/signup",
		`{"fullname":"`+name+`","email":"`+email+`","password":"a sturdy password"}`)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	cookie := sessionCookie(t, resp)
	body := decodeBody(t, resp)
	user := body["user"].(map[string]any)
	return uint(user["id"].(float64)), cookie
}

func withSession(req *http.Request, cookie string) *http.Request {
	req.AddCookie(&http.Cookie{Name: "token", Value: cookie})
	return req
}
