package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hraza-dev/shopping_center/internal/hash"
	"github.com/hraza-dev/shopping_center/internal/logging"
	"github.com/hraza-dev/shopping_center/internal/mailer"
	"github.com/hraza-dev/shopping_center/internal/models"
)

const resetTokenTTL = time.Hour

type PasswordResetHandler struct {
	DB     *gorm.DB
	Mailer mailer.Mailer
}

// RequestReset issues a one-hour reset token and mails it to the account's
// address. The response is identical whether or not the email exists, so the
// endpoint cannot be used to enumerate accounts.
func (h *PasswordResetHandler) RequestReset(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reset.request")

	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	accepted := echo.Map{"message": "if the account exists, a reset link has been sent"}

	var user models.User
	if err := h.DB.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusAccepted, accepted)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read users")
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot generate token")
	}
	rawToken := hex.EncodeToString(buf)

	reset := models.PasswordReset{
		UserID:    user.ID,
		Token:     rawToken,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := h.DB.WithContext(ctx).Create(&reset).Error; err != nil {
		l.Error("reset_create_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create reset token")
	}

	// Mail delivery is fire-and-forget; a relay hiccup must not fail the
	// request or leak whether the address exists.
	go func(to, token string) {
		if err := h.Mailer.Send(to, "Password reset",
			"Use this token to reset your password: "+token); err != nil {
			l.Error("reset_mail_failed", "error", err)
		}
	}(user.Email, rawToken)

	l.Info("reset_requested", "user_id", user.ID)
	return c.JSON(http.StatusAccepted, accepted)
}

// ConfirmReset consumes a valid reset token and replaces the user's password.
func (h *PasswordResetHandler) ConfirmReset(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reset.confirm")

	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.NewPassword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "new_password is required")
	}

	var reset models.PasswordReset
	if err := h.DB.WithContext(ctx).Where("token = ?", req.Token).First(&reset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read reset token")
	}
	if time.Now().After(reset.ExpiresAt) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}

	hashed, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot hash password")
	}

	txErr := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", reset.UserID).
			Update("password_hash", hashed).Error; err != nil {
			return err
		}
		// Token is single use.
		if err := tx.Delete(&models.PasswordReset{}, reset.ID).Error; err != nil {
			return err
		}
		// Every open session dies with the old password.
		return tx.Model(&models.RefreshToken{}).
			Where("user_id = ?", reset.UserID).
			Update("revoked", true).Error
	})
	if txErr != nil {
		l.Error("reset_confirm_failed", "error", txErr)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot reset password")
	}

	l.Info("reset_confirmed", "user_id", reset.UserID)
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}
