package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/erp-issue-hub/errors"
	issueDTO "github.com/johnquangdev/erp-issue-hub/internal/adapter/dto/issue"
	"github.com/johnquangdev/erp-issue-hub/internal/adapter/presenter"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
	issueUsecase "github.com/johnquangdev/erp-issue-hub/internal/usecase/issue"
)

// Issue handles issue, category and note HTTP requests
type Issue struct {
	issueService issueUsecase.Service
	logger       *zap.Logger
}

// NewIssueHandler creates a new issue handler
func NewIssueHandler(issueService issueUsecase.Service, logger *zap.Logger) *Issue {
	return &Issue{
		issueService: issueService,
		logger:       logger,
	}
}

// CreateIssue handles POST /api/issues
// @Summary      Create an issue
// @Tags         Issues
// @Accept       json
// @Produce      json
// @Param        request  body      issue.CreateIssueRequest  true  "Issue"
// @Success      201      {object}  entities.Issue
// @Failure      400      {object}  map[string]interface{}  "Validation failed"
// @Failure      404      {object}  map[string]interface{}  "Category not found"
// @Router       /api/issues [post]
func (h *Issue) CreateIssue(c echo.Context) error {
	var req issueDTO.CreateIssueRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	categoryID, err := parseOptionalID(req.CategoryID, "category_id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	created, err := h.issueService.CreateIssue(c.Request().Context(), issueUsecase.CreateIssueInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    entities.IssuePriority(req.Priority),
		Status:      entities.IssueStatus(req.Status),
		CategoryID:  categoryID,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, created)
}

// GetIssue handles GET /api/issues/:id
// @Summary      Get an issue with notes, action items and vendor tickets
// @Tags         Issues
// @Produce      json
// @Param        id   path      string  true  "Issue ID"
// @Success      200  {object}  entities.Issue
// @Failure      404  {object}  map[string]interface{}  "Issue not found"
// @Router       /api/issues/{id} [get]
func (h *Issue) GetIssue(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	found, err := h.issueService.GetIssue(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, found)
}

// ListIssues handles GET /api/issues
// @Summary      List issues
// @Description  Most recently updated first. Archived issues are hidden unless archived=true.
// @Tags         Issues
// @Produce      json
// @Param        status       query     []string  false  "Status filter (repeatable)"
// @Param        priority     query     string    false  "Priority filter"
// @Param        category_id  query     string    false  "Category filter"
// @Param        archived     query     bool      false  "Archived filter"
// @Param        search       query     string    false  "Search in title and description"
// @Param        page         query     int       false  "Page number (default: 1)"
// @Param        page_size    query     int       false  "Items per page (default: 20)"
// @Success      200          {object}  common.ListResponse
// @Router       /api/issues [get]
func (h *Issue) ListIssues(c echo.Context) error {
	var req issueDTO.ListIssuesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	page, pageSize := pagination(c)

	filters := repositories.IssueFilters{
		AssignedTo: req.AssignedTo,
		Search:     strings.TrimSpace(req.Search),
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
	for _, s := range req.Status {
		filters.Statuses = append(filters.Statuses, entities.IssueStatus(s))
	}
	if req.Priority != "" {
		priority := entities.IssuePriority(req.Priority)
		filters.Priority = &priority
	}
	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("category_id must be a valid UUID"))
		}
		filters.CategoryID = &categoryID
	}
	if req.Archived != "" {
		archived := req.Archived == "true"
		filters.Archived = &archived
	}

	issues, total, err := h.issueService.ListIssues(c.Request().Context(), filters)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToListResponse(issues, total, page, pageSize))
}

// ListResolvedIssues handles GET /api/issues/resolved
// @Summary      List resolved issues
// @Tags         Issues
// @Produce      json
// @Param        page       query     int  false  "Page number (default: 1)"
// @Param        page_size  query     int  false  "Items per page (default: 20)"
// @Success      200        {object}  common.ListResponse
// @Router       /api/issues/resolved [get]
func (h *Issue) ListResolvedIssues(c echo.Context) error {
	page, pageSize := pagination(c)
	issues, total, err := h.issueService.ListResolvedIssues(c.Request().Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToListResponse(issues, total, page, pageSize))
}

// UpdateIssue handles PUT /api/issues/:id
// @Summary      Update an issue
// @Description  Partial update. An empty category_id detaches the category.
// @Tags         Issues
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Issue ID"
// @Param        request  body      issue.UpdateIssueRequest  true  "Changes"
// @Success      200      {object}  entities.Issue
// @Failure      400      {object}  map[string]interface{}  "Validation failed"
// @Failure      404      {object}  map[string]interface{}  "Issue not found"
// @Router       /api/issues/{id} [put]
func (h *Issue) UpdateIssue(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req issueDTO.UpdateIssueRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	input := issueUsecase.UpdateIssueInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
	}
	if req.Priority != nil {
		priority := entities.IssuePriority(*req.Priority)
		input.Priority = &priority
	}
	if req.Status != nil {
		status := entities.IssueStatus(*req.Status)
		input.Status = &status
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			input.ClearCategory = true
		} else if input.CategoryID, err = parseOptionalID(req.CategoryID, "category_id"); err != nil {
			return HandleError(h.logger, c, err)
		}
	}

	updated, err := h.issueService.UpdateIssue(c.Request().Context(), id, input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, updated)
}

// DeleteIssue handles DELETE /api/issues/:id
// @Summary      Delete an issue with its notes, action items and vendor tickets
// @Tags         Issues
// @Param        id   path  string  true  "Issue ID"
// @Success      204
// @Failure      404  {object}  map[string]interface{}  "Issue not found"
// @Router       /api/issues/{id} [delete]
func (h *Issue) DeleteIssue(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.issueService.DeleteIssue(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ArchiveIssue handles POST /api/issues/:id/archive
// @Summary      Archive an issue
// @Tags         Issues
// @Produce      json
// @Param        id   path      string  true  "Issue ID"
// @Success      200  {object}  entities.Issue
// @Router       /api/issues/{id}/archive [post]
func (h *Issue) ArchiveIssue(c echo.Context) error {
	return h.setArchived(c, true)
}

// UnarchiveIssue handles POST /api/issues/:id/unarchive
// @Summary      Unarchive an issue
// @Tags         Issues
// @Produce      json
// @Param        id   path      string  true  "Issue ID"
// @Success      200  {object}  entities.Issue
// @Router       /api/issues/{id}/unarchive [post]
func (h *Issue) UnarchiveIssue(c echo.Context) error {
	return h.setArchived(c, false)
}

func (h *Issue) setArchived(c echo.Context, archived bool) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	updated, err := h.issueService.SetArchived(c.Request().Context(), id, archived)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, updated)
}

// CreateCategory handles POST /api/categories
// @Summary      Create a category
// @Tags         Categories
// @Accept       json
// @Produce      json
// @Param        request  body      issue.CategoryRequest  true  "Category"
// @Success      201      {object}  entities.Category
// @Failure      409      {object}  map[string]interface{}  "Name taken"
// @Router       /api/categories [post]
func (h *Issue) CreateCategory(c echo.Context) error {
	var req issueDTO.CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	created, err := h.issueService.CreateCategory(c.Request().Context(), categoryInput(req))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, created)
}

// ListCategories handles GET /api/categories
// @Summary      List categories
// @Tags         Categories
// @Produce      json
// @Success      200  {array}  entities.Category
// @Router       /api/categories [get]
func (h *Issue) ListCategories(c echo.Context) error {
	categories, err := h.issueService.ListCategories(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, categories)
}

// GetCategory handles GET /api/categories/:id
// @Summary      Get a category
// @Tags         Categories
// @Produce      json
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  entities.Category
// @Router       /api/categories/{id} [get]
func (h *Issue) GetCategory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	found, err := h.issueService.GetCategory(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, found)
}

// UpdateCategory handles PUT /api/categories/:id
// @Summary      Update a category
// @Tags         Categories
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Category ID"
// @Param        request  body      issue.CategoryRequest  true  "Category"
// @Success      200      {object}  entities.Category
// @Router       /api/categories/{id} [put]
func (h *Issue) UpdateCategory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req issueDTO.CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	updated, err := h.issueService.UpdateCategory(c.Request().Context(), id, categoryInput(req))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, updated)
}

// DeleteCategory handles DELETE /api/categories/:id
// @Summary      Delete a category; its issues become uncategorized
// @Tags         Categories
// @Param        id   path  string  true  "Category ID"
// @Success      204
// @Router       /api/categories/{id} [delete]
func (h *Issue) DeleteCategory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.issueService.DeleteCategory(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func categoryInput(req issueDTO.CategoryRequest) issueUsecase.CategoryInput {
	return issueUsecase.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	}
}

// ListNotes handles GET /api/issues/:id/notes
// @Summary      List notes of an issue
// @Tags         Notes
// @Produce      json
// @Param        id    path      string  true   "Issue ID"
// @Param        kind  query     string  false  "GENERAL, CMIC or ADDITIONAL_HELP"
// @Success      200   {array}   entities.Note
// @Router       /api/issues/{id}/notes [get]
func (h *Issue) ListNotes(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var kind *entities.NoteKind
	if raw := c.QueryParam("kind"); raw != "" {
		k := entities.NoteKind(strings.ToUpper(raw))
		kind = &k
	}
	notes, err := h.issueService.ListNotes(c.Request().Context(), id, kind)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, notes)
}

// AddNote handles POST /api/issues/:id/notes
// @Summary      Add a note to an issue
// @Tags         Notes
// @Accept       json
// @Produce      json
// @Param        id       path      string             true  "Issue ID"
// @Param        request  body      issue.NoteRequest  true  "Note"
// @Success      201      {object}  entities.Note
// @Router       /api/issues/{id}/notes [post]
func (h *Issue) AddNote(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req issueDTO.NoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	note, err := h.issueService.AddNote(c.Request().Context(), id, noteInput(req))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, note)
}

// UpdateNote handles PUT /api/notes/:id
// @Summary      Edit a note
// @Tags         Notes
// @Accept       json
// @Produce      json
// @Param        id       path      string             true  "Note ID"
// @Param        request  body      issue.NoteRequest  true  "Note"
// @Success      200      {object}  entities.Note
// @Router       /api/notes/{id} [put]
func (h *Issue) UpdateNote(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req issueDTO.NoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	note, err := h.issueService.UpdateNote(c.Request().Context(), id, noteInput(req))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, note)
}

// DeleteNote handles DELETE /api/notes/:id
// @Summary      Delete a note
// @Tags         Notes
// @Param        id   path  string  true  "Note ID"
// @Success      204
// @Router       /api/notes/{id} [delete]
func (h *Issue) DeleteNote(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.issueService.DeleteNote(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func noteInput(req issueDTO.NoteRequest) issueUsecase.NoteInput {
	return issueUsecase.NoteInput{
		Kind:    entities.NoteKind(req.Kind),
		Content: req.Content,
		Author:  req.Author,
	}
}
