package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/erp-issue-hub/errors"
	actionItemDTO "github.com/johnquangdev/erp-issue-hub/internal/adapter/dto/actionitem"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
	actionItemUsecase "github.com/johnquangdev/erp-issue-hub/internal/usecase/actionitem"
)

// ActionItem handles action item HTTP requests
type ActionItem struct {
	actionItemService actionItemUsecase.Service
	logger            *zap.Logger
}

// NewActionItemHandler creates a new action item handler
func NewActionItemHandler(actionItemService actionItemUsecase.Service, logger *zap.Logger) *ActionItem {
	return &ActionItem{
		actionItemService: actionItemService,
		logger:            logger,
	}
}

// Create handles POST /api/action-items
// @Summary      Create an action item
// @Tags         ActionItems
// @Accept       json
// @Produce      json
// @Param        request  body      actionitem.CreateActionItemRequest  true  "Action item"
// @Success      201      {object}  entities.ActionItem
// @Failure      400      {object}  map[string]interface{}  "Validation failed"
// @Router       /api/action-items [post]
func (h *ActionItem) Create(c echo.Context) error {
	var req actionItemDTO.CreateActionItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	issueID, err := parseOptionalID(req.IssueID, "issue_id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	item, err := h.actionItemService.Create(c.Request().Context(), actionItemUsecase.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
		IssueID:     issueID,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, item)
}

// List handles GET /api/action-items
// @Summary      List action items
// @Description  view=available lists items linked to an issue, view=managed the personal list.
// @Tags         ActionItems
// @Produce      json
// @Param        view       query     string  false  "all, available or managed"
// @Param        completed  query     bool    false  "Completion filter"
// @Param        issue_id   query     string  false  "Issue filter"
// @Success      200        {array}   entities.ActionItem
// @Router       /api/action-items [get]
func (h *ActionItem) List(c echo.Context) error {
	filters := repositories.ActionItemFilters{
		View: repositories.ActionItemView(c.QueryParam("view")),
	}
	completed, err := parseBoolQuery(c, "completed")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	filters.Completed = completed
	if raw := c.QueryParam("issue_id"); raw != "" {
		if filters.IssueID, err = parseOptionalID(&raw, "issue_id"); err != nil {
			return HandleError(h.logger, c, err)
		}
	}

	items, err := h.actionItemService.List(c.Request().Context(), filters)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, items)
}

// ListByIssue handles GET /api/issues/:id/action-items
// @Summary      List action items of an issue
// @Tags         ActionItems
// @Produce      json
// @Param        id   path      string  true  "Issue ID"
// @Success      200  {array}   entities.ActionItem
// @Router       /api/issues/{id}/action-items [get]
func (h *ActionItem) ListByIssue(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	items, err := h.actionItemService.ListByIssue(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, items)
}

// Get handles GET /api/action-items/:id
// @Summary      Get an action item
// @Tags         ActionItems
// @Produce      json
// @Param        id   path      string  true  "Action item ID"
// @Success      200  {object}  entities.ActionItem
// @Router       /api/action-items/{id} [get]
func (h *ActionItem) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	item, err := h.actionItemService.Get(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, item)
}

// Update handles PUT /api/action-items/:id
// @Summary      Update an action item
// @Tags         ActionItems
// @Accept       json
// @Produce      json
// @Param        id       path      string                              true  "Action item ID"
// @Param        request  body      actionitem.UpdateActionItemRequest  true  "Changes"
// @Success      200      {object}  entities.ActionItem
// @Router       /api/action-items/{id} [put]
func (h *ActionItem) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req actionItemDTO.UpdateActionItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if req.ClearDueDate && req.DueDate != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("due_date and clear_due_date are exclusive"))
	}

	item, err := h.actionItemService.Update(c.Request().Context(), id, actionItemUsecase.UpdateInput{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
		AssignedTo:   req.AssignedTo,
		Completed:    req.Completed,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, item)
}

// Delete handles DELETE /api/action-items/:id
// @Summary      Delete an action item
// @Tags         ActionItems
// @Param        id   path  string  true  "Action item ID"
// @Success      204
// @Router       /api/action-items/{id} [delete]
func (h *ActionItem) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.actionItemService.Delete(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Manage handles POST /api/action-items/:id/manage
// @Summary      Move an available item into the personal list
// @Tags         ActionItems
// @Produce      json
// @Param        id   path      string  true  "Action item ID"
// @Success      200  {object}  entities.ActionItem
// @Failure      409  {object}  map[string]interface{}  "Item is not linked to an issue"
// @Router       /api/action-items/{id}/manage [post]
func (h *ActionItem) Manage(c echo.Context) error {
	return h.transition(c, h.actionItemService.Manage)
}

// Restore handles POST /api/action-items/:id/restore
// @Summary      Put a managed item back on its original issue
// @Tags         ActionItems
// @Produce      json
// @Param        id   path      string  true  "Action item ID"
// @Success      200  {object}  entities.ActionItem
// @Failure      409  {object}  map[string]interface{}  "Item has no original issue"
// @Router       /api/action-items/{id}/restore [post]
func (h *ActionItem) Restore(c echo.Context) error {
	return h.transition(c, h.actionItemService.Restore)
}

// Toggle handles POST /api/action-items/:id/toggle
// @Summary      Flip completion of an action item
// @Tags         ActionItems
// @Produce      json
// @Param        id   path      string  true  "Action item ID"
// @Success      200  {object}  entities.ActionItem
// @Router       /api/action-items/{id}/toggle [post]
func (h *ActionItem) Toggle(c echo.Context) error {
	return h.transition(c, h.actionItemService.Toggle)
}

func (h *ActionItem) transition(c echo.Context, fn func(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error)) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	item, err := fn(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, item)
}
