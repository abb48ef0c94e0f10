package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hraza-dev/shopping_center/internal/catalog"
	"github.com/hraza-dev/shopping_center/internal/hash"
	"github.com/hraza-dev/shopping_center/internal/logging"
	authmw "github.com/hraza-dev/shopping_center/internal/middleware/auth"
	"github.com/hraza-dev/shopping_center/internal/models"
	"github.com/hraza-dev/shopping_center/internal/mykafka"
	"github.com/hraza-dev/shopping_center/internal/service/token"
)

type AuthHandler struct {
	DB       *gorm.DB
	Tokens   *token.Service
	Producer *mykafka.Producer
}

func (h *AuthHandler) publishUserEvent(c echo.Context, userID uint, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(userID), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka_publish_failed", "error", err)
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}
	if !strings.Contains(req.Email, "@") {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid email")
	}

	var existing models.User
	err := h.DB.WithContext(ctx).
		Where("username = ? OR email = ?", req.Username, req.Email).
		First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "user already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read users")
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot hash password")
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         "user",
	}
	// a racing registration can slip past the pre-check and hit the unique
	// index; classify so it surfaces as a constraint violation, not a 500
	if err := h.DB.WithContext(ctx).Create(&user).Error; err != nil {
		l.Error("register_failed", "error", err)
		return translate(catalog.ClassifyWriteError(err), "cannot create user")
	}

	h.publishUserEvent(c, user.ID, map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var user models.User
	if err := h.DB.WithContext(ctx).Where("username = ?", req.Username).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	accessToken, err := token.SignAccessToken(user.ID, user.Role, h.Tokens.JWTSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create access token")
	}
	refreshToken, err := token.SignRefreshToken(user.ID, user.Role, h.Tokens.RefreshSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create refresh token")
	}
	if err := h.Tokens.SaveRefreshToken(refreshToken, user.ID, user.Role); err != nil {
		l.Error("login_refresh_save_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not persist refresh token")
	}

	c.SetCookie(authmw.NewCookie("accessToken", accessToken, "/", time.Now().Add(token.AccessTTL)))
	c.SetCookie(authmw.NewCookie("refreshToken", refreshToken, "/", time.Now().Add(token.RefreshTTL)))

	h.publishUserEvent(c, user.ID, map[string]any{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	})

	l.Info("login_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"is_admin":      user.Role == "admin",
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	refreshCookie, err := c.Cookie("refreshToken")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing refresh cookie")
	}

	if err := h.Tokens.Revoke(refreshCookie.Value); err != nil {
		logging.FromContext(ctx).Error("logout_revoke_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not revoke session")
	}

	expired := time.Now().Add(-time.Hour)
	c.SetCookie(authmw.NewCookie("accessToken", "", "/", expired))
	c.SetCookie(authmw.NewCookie("refreshToken", "", "/", expired))

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
