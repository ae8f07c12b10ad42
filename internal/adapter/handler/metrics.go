package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/call-insight/errors"
	reviewDTO "github.com/johnquangdev/call-insight/internal/adapter/dto/review"
	"github.com/johnquangdev/call-insight/internal/usecase/review"
)

// Metrics serves the aggregate read by dashboards
type Metrics struct {
	service *review.Service
	logger  *zap.Logger
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(service *review.Service, logger *zap.Logger) *Metrics {
	return &Metrics{service: service, logger: logger}
}

// CountEvaluated handles GET /metrics/evaluated
// @Summary      Count evaluated calls
// @Tags         Metrics
// @Produce      json
// @Security     BearerAuth
// @Param        empresa  query     string  false  "Company"
// @Param        from     query     string  false  "First day (YYYY-MM-DD)"
// @Param        to       query     string  false  "Last day, inclusive (YYYY-MM-DD)"
// @Success      200      {object}  common.SuccessResponse{data=reviewDTO.CountResponse}
// @Router       /metrics/evaluated [get]
func (h *Metrics) CountEvaluated(c echo.Context) error {
	var q reviewDTO.RecordsQuery
	if err := bindAndValidate(c, &q); err != nil {
		return HandleError(h.logger, c, err)
	}
	filters, err := toCandidateFilters(&q)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	n, err := h.service.CountEvaluated(c.Request().Context(), filters)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("count_evaluated", err))
	}
	return HandleSuccess(h.logger, c, &reviewDTO.CountResponse{Evaluated: n})
}
