package websocket

import (
	"crypto/rsa"
	"fmt"
	"net/http"
	"strings"

	app_error "github.com/datb2404981/Chat-Nexa/internal/errors"
	"github.com/datb2404981/Chat-Nexa/internal/presence"
	"github.com/datb2404981/Chat-Nexa/internal/utils"
	"github.com/redis/go-redis/v9"
)

// AuthenticatorFunc validates the handshake credential and returns the
// identity to attach to the connection. Any error is fatal for the attempt:
// the connection is rejected before it is ever registered.
type AuthenticatorFunc func(r *http.Request) (*presence.Identity, *app_error.AppError)

func JWTWebSocketAuth(publicKey *rsa.PublicKey, rdb *redis.Client) AuthenticatorFunc {
	return func(r *http.Request) (*presence.Identity, *app_error.AppError) {
		token := getTokenFromRequest(r)
		if token == "" {
			return nil, app_error.NewAppError(http.StatusUnauthorized, "missing credential", "auth")
		}

		claims, err := utils.ParseAndVerifySign(token, publicKey)
		if err != nil {
			return nil, app_error.NewAppError(http.StatusUnauthorized, "invalid or expired token", "auth")
		}

		// The token must still map to a live session; a logout revokes it.
		sessionKey := fmt.Sprintf("session:%s", claims.Sub)
		exists, err2 := rdb.Exists(r.Context(), sessionKey).Result()
		if err2 != nil || exists == 0 {
			return nil, app_error.NewAppError(http.StatusUnauthorized, "session not found or revoked", "session")
		}

		return &presence.Identity{
			UserID:   claims.Sub,
			Username: claims.Username,
			Email:    claims.Email,
		}, nil
	}
}

func getTokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	if cookie, err := r.Cookie("access_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}
