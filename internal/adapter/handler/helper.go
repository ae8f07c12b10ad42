package handler

import (
	stdErrors "errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/call-insight/errors"
	reviewDTO "github.com/johnquangdev/call-insight/internal/adapter/dto/review"
	"github.com/johnquangdev/call-insight/internal/domain/entities"
	"github.com/johnquangdev/call-insight/internal/domain/repositories"
	"github.com/johnquangdev/call-insight/internal/usecase/batch"
	ucerrors "github.com/johnquangdev/call-insight/internal/usecase/errors"
	"github.com/johnquangdev/call-insight/pkg/localtime"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) {
		appErr = toAppError(err)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Any("app_code", appErr.Code),
			zap.Error(err),
		)
	}

	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}

	body := errs{
		Code:    appErr.Code,
		Message: appErr.Message,
		Info:    info,
		Details: appErr.Details,
	}

	return c.JSON(appErr.HTTPCode, body)
}

// toAppError maps usecase sentinels to their HTTP shape
func toAppError(err error) errors.AppError {
	var verrs validator.ValidationErrors
	switch {
	case stdErrors.As(err, &verrs):
		e := errors.ErrInvalidArgument("Validation failed")
		e.Raw = err
		return e
	case stdErrors.Is(err, ucerrors.ErrSessionNotFound):
		return errors.ErrSessionNotFound("")
	case stdErrors.Is(err, ucerrors.ErrSessionExpired):
		return errors.ErrSessionExpired("")
	case stdErrors.Is(err, ucerrors.ErrRecordNotFound):
		return errors.ErrNotFound("Record")
	case stdErrors.Is(err, ucerrors.ErrBatchNotFound):
		return errors.ErrNotFound("Batch")
	case stdErrors.Is(err, ucerrors.ErrInvalidPageSize),
		stdErrors.Is(err, ucerrors.ErrInvalidBucket),
		stdErrors.Is(err, ucerrors.ErrInvalidInput):
		return errors.ErrInvalidArgument(err.Error())
	case stdErrors.Is(err, ucerrors.ErrTranscriptTooShort):
		return errors.ErrInputInvalid(err.Error())
	case stdErrors.Is(err, ucerrors.ErrBatchInProgress):
		return errors.ErrBatchInProgress("")
	case stdErrors.Is(err, ucerrors.ErrSelectionEmpty):
		return errors.ErrSelectionEmpty()
	case stdErrors.Is(err, ucerrors.ErrUnauthorized):
		return errors.ErrUnauthenticated()
	case stdErrors.Is(err, ucerrors.ErrConflict):
		return errors.ErrConflict(err.Error())
	}
	return errors.ErrInternal(err)
}

// evaluationError maps an evaluation failure kind to its API error
func evaluationError(kind entities.ErrorKind, transcriptionID int64, motivo string) errors.AppError {
	switch kind {
	case entities.ErrorKindInput:
		return errors.ErrInputInvalid(motivo)
	case entities.ErrorKindProvider:
		return errors.ErrProviderFailed(motivo)
	case entities.ErrorKindSchema:
		return errors.ErrSchemaInvalid(motivo)
	case entities.ErrorKindConfiguration:
		return errors.ErrConfigurationMissing(motivo)
	case entities.ErrorKindPersistence:
		return errors.ErrPersistenceFailed(transcriptionID, motivo)
	}
	return errors.ErrInternal(stdErrors.New(motivo))
}

// withFailureCodes returns a copy of status whose report details carry
// their API error code
func withFailureCodes(status batch.Status) batch.Status {
	if status.Report == nil {
		return status
	}
	report := *status.Report
	report.Details = make([]batch.Failure, len(status.Report.Details))
	for i, f := range status.Report.Details {
		f.Code = evaluationError(f.Kind, f.TranscriptionID, f.Message).Code.String()
		report.Details[i] = f
	}
	status.Report = &report
	return status
}

// HTTPErrorHandler renders AppError values returned by middleware in the
// standard envelope and leaves everything else to echo
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var appErr errors.AppError
		if stdErrors.As(err, &appErr) {
			_ = HandleError(logger, c, appErr)
			return
		}
		c.Echo().DefaultHTTPErrorHandler(err, c)
	}
}

// bindAndValidate binds the request into req and runs the echo validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		e := errors.ErrInvalidPayload()
		e.Raw = err
		return e
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(req)
}

// toCandidateFilters parses query dates in the business timezone. "to" is
// inclusive of the whole day.
func toCandidateFilters(q *reviewDTO.RecordsQuery) (repositories.CandidateFilters, error) {
	f := repositories.CandidateFilters{
		Empresa:     q.Empresa,
		Etapas:      q.Etapas,
		Modalidades: q.Modalidades,
		Origens:     q.Origens,
		Tipos:       q.Tipos,
		Agentes:     q.Agentes,
	}
	if q.From != "" {
		from, err := time.ParseInLocation(time.DateOnly, q.From, localtime.Location())
		if err != nil {
			return f, errors.ErrInvalidArgument("from must be YYYY-MM-DD")
		}
		f.From = &from
	}
	if q.To != "" {
		to, err := time.ParseInLocation(time.DateOnly, q.To, localtime.Location())
		if err != nil {
			return f, errors.ErrInvalidArgument("to must be YYYY-MM-DD")
		}
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		f.To = &to
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, errors.ErrInvalidArgument("to must not be before from")
	}
	return f, nil
}
