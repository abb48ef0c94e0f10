package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hraza-dev/shopping_center/internal/catalog"
	"github.com/hraza-dev/shopping_center/internal/config"
	"github.com/hraza-dev/shopping_center/internal/hash"
	"github.com/hraza-dev/shopping_center/internal/models"
	"github.com/hraza-dev/shopping_center/internal/service/token"
	transport "github.com/hraza-dev/shopping_center/internal/transport/http"
)

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	DB     *gorm.DB
	Mailer *recordingMailer
}

// recordingMailer captures outbound mail instead of talking to a relay.
type recordingMailer struct {
	mu   sync.Mutex
	Sent []string
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, to+": "+subject+": "+body)
	return nil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	tokens := &token.Service{
		DB:            db,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
	mail := &recordingMailer{}

	e := echo.New()
	transport.Register(e, transport.Deps{
		DB:     db,
		Store:  &catalog.Store{DB: db},
		Tokens: tokens,
		Mailer: mail,
	})

	return &testEnv{T: t, E: e, DB: db, Mailer: mail}
}

func (env *testEnv) do(method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (env *testEnv) loginAs(username, role string) []*http.Cookie {
	env.T.Helper()

	hashed, err := hash.HashPassword("password")
	require.NoError(env.T, err)
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hashed,
		Role:         role,
	}
	require.NoError(env.T, env.DB.Create(&user).Error)

	rec := env.do(http.MethodPost, "/api/v1/login", map[string]string{
		"username": username,
		"password": "password",
	})
	require.Equal(env.T, http.StatusOK, rec.Code)

	resp := decodeBody[struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}](env.T, rec)
	require.NotEmpty(env.T, resp.AccessToken)

	return []*http.Cookie{
		{Name: "accessToken", Value: resp.AccessToken, Path: "/"},
		{Name: "refreshToken", Value: resp.RefreshToken, Path: "/"},
	}
}

func (env *testEnv) loginAdmin() []*http.Cookie {
	return env.loginAs("admin_user", "admin")
}

func (env *testEnv) loginUser() []*http.Cookie {
	return env.loginAs("plain_user", "user")
}

func (env *testEnv) createProduct(name string, price float64) models.Product {
	env.T.Helper()
	p := models.Product{ProductName: name, Price: price, StockQuantity: 1}
	require.NoError(env.T, env.DB.Create(&p).Error)
	return p
}
