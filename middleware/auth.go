package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quillpost/quill/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "userId"
	// ContextEmailKey stores the authenticated email inside Gin context.
	ContextEmailKey = "email"
)

// TokenParser verifies bearer tokens. *utils.JWTManager satisfies it.
type TokenParser interface {
	ParseToken(token string) (*utils.Claims, error)
}

// RequireAuth ensures the request carries a valid bearer token.
// A missing or malformed header yields 401, a token that fails verification yields 403.
func RequireAuth(tokens TokenParser) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Abort(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			return
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			utils.Abort(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
			return
		}

		claims, err := tokens.ParseToken(tokenString)
		if err != nil {
			utils.Abort(ctx, http.StatusForbidden, 40301, "invalid or expired token")
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextEmailKey, claims.Email)
		ctx.Next()
	}
}

// OptionalAuth attaches the identity of a valid bearer token and never rejects the request.
func OptionalAuth(tokens TokenParser) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if tokenString, ok := bearerToken(ctx.GetHeader("Authorization")); ok {
			if claims, err := tokens.ParseToken(tokenString); err == nil {
				ctx.Set(ContextUserIDKey, claims.UserID)
				ctx.Set(ContextEmailKey, claims.Email)
			}
		}
		ctx.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
