package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "github.com/johnquangdev/call-insight/errors"
	"github.com/johnquangdev/call-insight/pkg/jwt"
)

// ReviewerIDKey is the echo context key holding the authenticated reviewer
const ReviewerIDKey = "reviewer_id"

// EchoAuth returns an Echo middleware that validates the reviewer token and
// sets "reviewer_id" (string) into Echo context
func EchoAuth(tokens *jwt.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return apperrors.ErrUnauthenticated()
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				if errors.Is(err, jwt.ErrExpired) {
					return apperrors.ErrTokenExpired()
				}
				appErr := apperrors.ErrInvalidToken()
				appErr.Raw = err
				return appErr
			}

			c.Set(ReviewerIDKey, claims.ReviewerID)
			return next(c)
		}
	}
}

// GetReviewerID returns the reviewer set by EchoAuth
func GetReviewerID(c echo.Context) (string, bool) {
	id, ok := c.Get(ReviewerIDKey).(string)
	return id, ok && id != ""
}

func extractToken(c echo.Context) string {
	// Authorization header first, cookie as fallback
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}
