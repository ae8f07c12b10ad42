package handler

import (
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/call-insight/errors"
	reviewDTO "github.com/johnquangdev/call-insight/internal/adapter/dto/review"
	"github.com/johnquangdev/call-insight/internal/adapter/presenter"
	"github.com/johnquangdev/call-insight/internal/usecase/review"
	"github.com/johnquangdev/call-insight/pkg/jwt"
)

// Session issues reviewer tokens
type Session struct {
	tokens   *jwt.Manager
	sessions *review.Registry
	logger   *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(tokens *jwt.Manager, sessions *review.Registry, logger *zap.Logger) *Session {
	return &Session{
		tokens:   tokens,
		sessions: sessions,
		logger:   logger,
	}
}

// Create handles POST /sessions
// @Summary      Open a review session
// @Description  Creates an empty review session for the reviewer and returns its bearer token
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        request  body      reviewDTO.CreateSessionRequest  true  "Reviewer"
// @Success      200      {object}  common.SuccessResponse{data=reviewDTO.SessionResponse}
// @Failure      400      {object}  common.ErrorResponse  "Invalid request"
// @Router       /sessions [post]
func (h *Session) Create(c echo.Context) error {
	var req reviewDTO.CreateSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	reviewer := strings.TrimSpace(req.Reviewer)
	token, expiresAt, err := h.tokens.Generate(reviewer)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}
	h.sessions.Open(reviewer)

	return HandleSuccess(h.logger, c, presenter.ToSessionResponse(reviewer, token, expiresAt))
}
