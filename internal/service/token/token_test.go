package token

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hraza-dev/shopping_center/internal/models"
)

func newService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.RefreshToken{}))
	return &Service{
		DB:            db,
		JWTSecret:     []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	s := newService(t)

	raw, err := SignAccessToken(7, "admin", s.JWTSecret)
	require.NoError(t, err)

	claims, err := ParseAccessToken(raw, s.JWTSecret)
	require.NoError(t, err)
	require.EqualValues(t, 7, claims["sub"])
	require.Equal(t, "admin", claims["role"])

	_, err = ParseAccessToken(raw, []byte("wrong-secret"))
	require.Error(t, err)
}

func TestRefreshRotation(t *testing.T) {
	s := newService(t)

	raw, err := SignRefreshToken(7, "user", s.RefreshSecret)
	require.NoError(t, err)
	require.NoError(t, s.SaveRefreshToken(raw, 7, "user"))

	access, refresh, claims, err := s.Rotate(raw)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	require.EqualValues(t, 7, claims["sub"])

	// the rotated-out token still validates until revoked; the new one is stored
	var count int64
	require.NoError(t, s.DB.Model(&models.RefreshToken{}).Count(&count).Error)
	require.EqualValues(t, 2, count)

	require.NoError(t, s.Revoke(raw))
	_, err = s.ValidateRefresh(raw)
	require.Error(t, err)

	_, err = s.ValidateRefresh(refresh)
	require.NoError(t, err)
}

func TestValidateRefreshRejectsAccessToken(t *testing.T) {
	s := newService(t)

	// an access token signed with the refresh secret still lacks the typ claim
	raw, err := SignAccessToken(7, "user", s.RefreshSecret)
	require.NoError(t, err)

	_, err = s.ValidateRefresh(raw)
	require.Error(t, err)
}

func TestValidateRefreshUnknownToken(t *testing.T) {
	s := newService(t)

	raw, err := SignRefreshToken(7, "user", s.RefreshSecret)
	require.NoError(t, err)

	// signed but never persisted
	_, err = s.ValidateRefresh(raw)
	require.Error(t, err)
}
