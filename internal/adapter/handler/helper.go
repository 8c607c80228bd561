package handler

import (
	stdErrors "errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/erp-issue-hub/errors"
	usecaseErrors "github.com/johnquangdev/erp-issue-hub/internal/usecase/errors"
	"github.com/johnquangdev/erp-issue-hub/pkg/validator"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
	Info    string            `json:"info,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request or the response
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// HandleSuccess writes a standardized 200 response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return respond(logger, c, http.StatusOK, data)
}

// HandleCreated writes a standardized 201 response using provided logger
func HandleCreated(logger *zap.Logger, c echo.Context, data interface{}) error {
	return respond(logger, c, http.StatusCreated, data)
}

func respond(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
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

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)
	appErr := mapError(err)

	if logger != nil {
		fields := []zap.Field{
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Any("app_code", appErr.Code),
			zap.Error(err),
		}
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.Error("http.response.error", fields...)
		} else {
			logger.Warn("http.response.error", fields...)
		}
	}

	body := errs{
		Code:    appErr.Code,
		Error:   appErr.Message,
		Details: appErr.Details,
	}
	if appErr.Raw != nil && appErr.HTTPCode != http.StatusInternalServerError {
		body.Info = appErr.Raw.Error()
	}

	return c.JSON(appErr.HTTPCode, body)
}

// mapError translates usecase sentinels and validation failures into AppErrors
func mapError(err error) errors.AppError {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}
	if fields := validator.FieldErrors(err); fields != nil {
		return errors.ErrValidation(fields)
	}

	switch {
	case stdErrors.Is(err, usecaseErrors.ErrBlankTitle):
		return errors.ErrValidation(map[string]string{"title": "notblank"})
	case stdErrors.Is(err, usecaseErrors.ErrInvalidInput),
		stdErrors.Is(err, usecaseErrors.ErrInvalidNoteKind),
		stdErrors.Is(err, usecaseErrors.ErrInvalidPriority),
		stdErrors.Is(err, usecaseErrors.ErrInvalidStatus):
		return errors.ErrInvalidArgument(err.Error())

	case stdErrors.Is(err, usecaseErrors.ErrIssueNotFound):
		return errors.ErrNotFound("Issue")
	case stdErrors.Is(err, usecaseErrors.ErrCategoryNotFound):
		return errors.ErrNotFound("Category")
	case stdErrors.Is(err, usecaseErrors.ErrNoteNotFound):
		return errors.ErrNotFound("Note")
	case stdErrors.Is(err, usecaseErrors.ErrMeetingNotFound):
		return errors.ErrNotFound("Meeting")
	case stdErrors.Is(err, usecaseErrors.ErrMeetingItemNotFound),
		stdErrors.Is(err, usecaseErrors.ErrMeetingItemWrongParent):
		return errors.ErrNotFound("Meeting item")
	case stdErrors.Is(err, usecaseErrors.ErrActionItemNotFound):
		return errors.ErrNotFound("Action item")
	case stdErrors.Is(err, usecaseErrors.ErrTemplateNotFound):
		return errors.ErrNotFound("Email template")
	case stdErrors.Is(err, usecaseErrors.ErrDraftNotFound):
		return errors.ErrNotFound("Email draft")
	case stdErrors.Is(err, usecaseErrors.ErrVendorTicketNotFound):
		return errors.ErrNotFound("Vendor ticket")
	case stdErrors.Is(err, usecaseErrors.ErrZendeskTicketNotFound):
		return errors.ErrNotFound("Zendesk ticket")
	case stdErrors.Is(err, usecaseErrors.ErrMinutesNotArchived):
		return errors.ErrNotFound("Meeting minutes")
	case stdErrors.Is(err, usecaseErrors.ErrNotFound):
		return errors.ErrNotFound("Resource")

	case stdErrors.Is(err, usecaseErrors.ErrCategoryExists):
		return errors.ErrAlreadyExists("Category")
	case stdErrors.Is(err, usecaseErrors.ErrIssueAlreadyOnAgenda):
		return errors.ErrAlreadyExists("Meeting item")
	case stdErrors.Is(err, usecaseErrors.ErrAlreadyExists):
		return errors.ErrAlreadyExists("Resource")

	case stdErrors.Is(err, usecaseErrors.ErrMeetingNotPlanned),
		stdErrors.Is(err, usecaseErrors.ErrMeetingNotActive),
		stdErrors.Is(err, usecaseErrors.ErrMeetingCompleted),
		stdErrors.Is(err, usecaseErrors.ErrAnotherMeetingActive),
		stdErrors.Is(err, usecaseErrors.ErrNotAvailable),
		stdErrors.Is(err, usecaseErrors.ErrNotManaged),
		stdErrors.Is(err, usecaseErrors.ErrTicketAlreadyLinked),
		stdErrors.Is(err, usecaseErrors.ErrDraftAlreadySent),
		stdErrors.Is(err, usecaseErrors.ErrConflict):
		return errors.ErrConflict(err.Error())

	case stdErrors.Is(err, usecaseErrors.ErrZendeskDisabled):
		return errors.ErrServiceDisabled("zendesk")
	case stdErrors.Is(err, usecaseErrors.ErrLLMDisabled):
		return errors.ErrServiceDisabled("llm")
	case stdErrors.Is(err, usecaseErrors.ErrStorageDisabled):
		return errors.ErrServiceDisabled("storage")
	case stdErrors.Is(err, usecaseErrors.ErrServiceDisabled):
		return errors.ErrServiceDisabled("integration")

	case stdErrors.Is(err, usecaseErrors.ErrInvalidSignature):
		return errors.ErrUnauthorized(err.Error())
	case stdErrors.Is(err, usecaseErrors.ErrLLMFailed):
		return errors.ErrAIFailed(err)
	case stdErrors.Is(err, usecaseErrors.ErrStorageFailed):
		return errors.ErrStorageFailed("minutes", err)
	case stdErrors.Is(err, usecaseErrors.ErrExternalAPI):
		return errors.ErrExternalAPIFailed("zendesk", err)
	}

	return errors.ErrInternal(err)
}

// bindAndValidate binds the request into req and runs the struct validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.ErrInvalidPayload()
	}
	return c.Validate(req)
}

// parseID reads a UUID path parameter
func parseID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument(name + " must be a valid UUID")
	}
	return id, nil
}

// parseOptionalID reads an optional UUID string
func parseOptionalID(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, errors.ErrInvalidArgument(field + " must be a valid UUID")
	}
	return &id, nil
}

// parseBoolQuery reads an optional boolean query parameter
func parseBoolQuery(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errors.ErrInvalidArgument(name + " must be a boolean")
	}
	return &v, nil
}

// pagination reads page and page_size with defaults and bounds
func pagination(c echo.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
