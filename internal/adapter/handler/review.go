package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/call-insight/errors"
	reviewDTO "github.com/johnquangdev/call-insight/internal/adapter/dto/review"
	"github.com/johnquangdev/call-insight/internal/adapter/presenter"
	"github.com/johnquangdev/call-insight/internal/usecase/batch"
	"github.com/johnquangdev/call-insight/internal/usecase/review"
	"github.com/johnquangdev/call-insight/pkg/middleware"
)

// Review exposes the review session to the single-page UI
type Review struct {
	service *review.Service
	batches *batch.Manager
	logger  *zap.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service *review.Service, batches *batch.Manager, logger *zap.Logger) *Review {
	return &Review{
		service: service,
		batches: batches,
		logger:  logger,
	}
}

func (h *Review) state(c echo.Context) (*review.ReviewState, error) {
	state, ok := middleware.GetReviewState(c)
	if !ok {
		return nil, errors.ErrUnauthenticated()
	}
	return state, nil
}

// ListRecords handles GET /review/records
// @Summary      Load candidates
// @Description  Loads the call records matching the filters into the session and returns the current page
// @Tags         Review
// @Produce      json
// @Security     BearerAuth
// @Param        empresa     query     string    false  "Company"
// @Param        from        query     string    false  "First day (YYYY-MM-DD)"
// @Param        to          query     string    false  "Last day, inclusive (YYYY-MM-DD)"
// @Param        etapa       query     []string  false  "CRM stage"  collectionFormat(multi)
// @Param        modalidade  query     []string  false  "Modality"   collectionFormat(multi)
// @Param        origem      query     []string  false  "Origin"     collectionFormat(multi)
// @Param        tipo        query     []string  false  "Type"       collectionFormat(multi)
// @Param        agente      query     []string  false  "Seller"     collectionFormat(multi)
// @Success      200  {object}  common.SuccessResponse{data=reviewDTO.PageResponse}
// @Failure      400  {object}  common.ErrorResponse
// @Failure      401  {object}  common.ErrorResponse
// @Failure      500  {object}  common.ErrorResponse
// @Router       /review/records [get]
func (h *Review) ListRecords(c echo.Context) error {
	state, err := h.state(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var q reviewDTO.RecordsQuery
	if err := bindAndValidate(c, &q); err != nil {
		return HandleError(h.logger, c, err)
	}
	filters, err := toCandidateFilters(&q)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	page, err := h.service.Load(c.Request().Context(), state, filters)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("read_candidates", err))
	}
	return HandleSuccess(h.logger, c, presenter.ToPageResponse(page))
}

// CurrentPage handles GET /review/page
// @Summary      Current page
// @Tags         Review
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.SuccessResponse{data=reviewDTO.PageResponse}
// @Router       /review/page [get]
func (h *Review) CurrentPage(c echo.Context) error {
	state, err := h.state(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToPageResponse(state.CurrentPage()))
}

// SetPage handles PUT /review/page
// @Summary      Navigate pages
// @Description  Moves to another page; the page is clamped and the size must be 25, 50 or 100
// @Tags         Review
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      reviewDTO.PageRequest  true  "Page"
// @Success      200      {object}  common.SuccessResponse{data=reviewDTO.PageResponse}
// @Failure      400      {object}  common.ErrorResponse
// @Router       /review/page [put]
func (h *Review) SetPage(c echo.Context) error {
	state, err := h.state(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req reviewDTO.PageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := state.SetPage(req.Page, req.PageSize); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToPageResponse(state.CurrentPage()))
}

// SetFilter handles PUT /review/filter
// @Summary      Set filter bucket
// @Description  Applies the eligibility and status toggles. Clears the selection.
// @Tags         Review
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      reviewDTO.BucketRequest  true  "Bucket"
// @Success      200      {object}  common.SuccessResponse{data=reviewDTO.PageResponse}
// @Failure      400      {object}  common.ErrorResponse
// @Router       /review/filter [put]
func (h *Review) SetFilter(c echo.Context) error {
	state, err := h.state(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req reviewDTO.BucketRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := state.SetBucket(review.Bucket{Eligibility: req.Eligibility, Status: req.Status}); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToPageResponse(state.CurrentPage()))
}

// ToggleSelection handles POST /review/selection/toggle
// @Summary      Toggle selection
// @Tags         Review
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      reviewDTO.ToggleRequest  true  "Record"
// @Success      200      {object}  common.SuccessResponse{data=reviewDTO.ToggleResponse}
// @Failure      404      {object}  common.ErrorResponse  "Record not loaded"
// @Router       /review/selection/toggle [post]
func (h *Review) ToggleSelection(c echo.Context) error {
	state, err := h.state(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req reviewDTO.ToggleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	selected, err := state.Toggle(req.TranscriptionID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, &reviewDTO.ToggleResponse{
		TranscriptionID: req.TranscriptionID,
		Selected:        selected,
		SelectedCount:   len(state.Selection()),
	})
}

// SelectPage handles POST /review/selection/page
// @Summary      Select every record of the current page
// @Tags         Review
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.SuccessResponse{data=reviewDTO.SelectionResponse}
// @Router       /review/selection/page [post]
func (h *Review) SelectPage(c echo.Context) error {
	state, err := h.state(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	added := state.SelectPage()
	if h.logger != nil {
		h.logger.Debug("Page selected", zap.String("reviewer_id", state.ReviewerID), zap.Int("added", added))
	}
	return HandleSuccess(h.logger, c, presenter.ToSelectionResponse(state.Selection()))
}

// ClearSelection handles DELETE /review/selection
// @Summary      Clear selection
// @Tags         Review
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.SuccessResponse{data=reviewDTO.SelectionResponse}
// @Router       /review/selection [delete]
func (h *Review) ClearSelection(c echo.Context) error {
	state, err := h.state(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	state.ClearSelection()
	return HandleSuccess(h.logger, c, presenter.ToSelectionResponse(nil))
}

// GetSelection handles GET /review/selection
// @Summary      Get selection
// @Description  Returns the selected records in the order they were selected
// @Tags         Review
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.SuccessResponse{data=reviewDTO.SelectionResponse}
// @Router       /review/selection [get]
func (h *Review) GetSelection(c echo.Context) error {
	state, err := h.state(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSelectionResponse(state.Selection()))
}

// ToggleExpanded handles POST /review/expand/:id
// @Summary      Expand or collapse a record
// @Tags         Review
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Transcription ID"
// @Success      200  {object}  common.SuccessResponse{data=reviewDTO.ExpandResponse}
// @Failure      404  {object}  common.ErrorResponse
// @Router       /review/expand/{id} [post]
func (h *Review) ToggleExpanded(c echo.Context) error {
	state, err := h.state(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("id must be a positive integer"))
	}
	expanded, err := state.ToggleExpanded(id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, &reviewDTO.ExpandResponse{TranscriptionID: id, Expanded: expanded})
}

// StartBatch handles POST /review/batch
// @Summary      Evaluate the selection
// @Description  Starts evaluating and persisting every selected record in the background. One batch per session.
// @Tags         Review
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.SuccessResponse{data=reviewDTO.BatchStartResponse}
// @Failure      400  {object}  common.ErrorResponse  "Empty selection"
// @Failure      409  {object}  common.ErrorResponse  "Batch already running"
// @Router       /review/batch [post]
func (h *Review) StartBatch(c echo.Context) error {
	state, err := h.state(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	selection := state.Selection()
	id, err := h.batches.Start(state.ReviewerID, selection, state)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, &reviewDTO.BatchStartResponse{BatchID: id.String(), Total: len(selection)})
}

// BatchStatus handles GET /review/batch
// @Summary      Batch progress
// @Description  Progress fraction, current record and, once finished, the report
// @Tags         Review
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.SuccessResponse{data=batch.Status}
// @Failure      404  {object}  common.ErrorResponse  "No batch started"
// @Router       /review/batch [get]
func (h *Review) BatchStatus(c echo.Context) error {
	state, err := h.state(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	status, err := h.batches.Status(state.ReviewerID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, withFailureCodes(status))
}
