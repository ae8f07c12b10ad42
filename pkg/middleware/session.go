package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	ucerrors "github.com/johnquangdev/call-insight/internal/usecase/errors"
	"github.com/johnquangdev/call-insight/internal/usecase/review"
)

// ReviewStateKey is the echo context key holding the caller's *review.ReviewState
const ReviewStateKey = "review_state"

// RequireSession middleware: resolve the review session of the authenticated
// reviewer. Must run after the auth middleware.
func RequireSession(sessions *review.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reviewerID, ok := c.Get("reviewer_id").(string)
			if !ok || reviewerID == "" {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error":   "unauthorized",
					"message": "reviewer not authenticated",
				})
			}
			state, err := sessions.Get(reviewerID)
			if err != nil {
				if errors.Is(err, ucerrors.ErrSessionExpired) {
					return c.JSON(http.StatusUnauthorized, map[string]interface{}{
						"error":   "session_expired",
						"message": err.Error(),
					})
				}
				return c.JSON(http.StatusNotFound, map[string]interface{}{
					"error":   "session_not_found",
					"message": err.Error(),
				})
			}
			c.Set(ReviewStateKey, state)
			return next(c)
		}
	}
}

// GetReviewState returns the session set by RequireSession
func GetReviewState(c echo.Context) (*review.ReviewState, bool) {
	state, ok := c.Get(ReviewStateKey).(*review.ReviewState)
	return state, ok
}
