/**
 * @description
 * This file contains custom middleware for the HTTP router: HMAC session
 * token validation for the authenticated profile endpoint and the optional
 * admin key guard for the review endpoints.
 *
 * @dependencies
 * - context, net/http, strings, time: Standard Go libraries.
 * - github.com/golang-jwt/jwt/v5: Session token signing and validation.
 */

package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// userIDContextKey is a custom type for the context key to avoid collisions.
type userIDContextKey string

const sessionUserIDKey userIDContextKey = "sessionUserID"

const sessionIssuer = "byfort-wallet-service"

// IssueSessionToken signs an HS256 session token for the given user.
func IssueSessionToken(secret, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    sessionIssuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// SessionAuthMiddleware validates the Bearer session token issued at login
// and puts the authenticated user id on the request context.
func SessionAuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeMessage(w, http.StatusUnauthorized, "Authorization header required")
				return
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				writeMessage(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(secret), nil
			}, jwt.WithIssuer(sessionIssuer), jwt.WithExpirationRequired())
			if err != nil || !token.Valid {
				writeMessage(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "Invalid token claims")
				return
			}
			userID, ok := claims["sub"].(string)
			if !ok || userID == "" {
				writeMessage(w, http.StatusUnauthorized, "User ID not found in token")
				return
			}

			ctx := context.WithValue(r.Context(), sessionUserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionUserID retrieves the authenticated user id from the request
// context.
func GetSessionUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(sessionUserIDKey).(string)
	return userID, ok
}

// AdminKeyMiddleware guards the admin endpoints with a shared key carried in
// the X-Admin-Key header. When no key is configured the guard is disabled
// and the endpoints stay open, matching the demo deployment.
func AdminKeyMiddleware(adminKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKey != "" && r.Header.Get("X-Admin-Key") != adminKey {
				writeMessage(w, http.StatusUnauthorized, "Invalid admin key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
