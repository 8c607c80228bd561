package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	meetingDTO "github.com/johnquangdev/erp-issue-hub/internal/adapter/dto/meeting"
	"github.com/johnquangdev/erp-issue-hub/internal/adapter/presenter"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
	meetingUsecase "github.com/johnquangdev/erp-issue-hub/internal/usecase/meeting"
)

// Meeting handles team meeting HTTP requests
type Meeting struct {
	meetingService meetingUsecase.Service
	logger         *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(meetingService meetingUsecase.Service, logger *zap.Logger) *Meeting {
	return &Meeting{
		meetingService: meetingService,
		logger:         logger,
	}
}

// CreateMeeting handles POST /api/meetings
// @Summary      Plan a meeting
// @Description  Unresolved items of the last completed meeting are carried over unless carry_over=false.
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Param        request  body      meeting.CreateMeetingRequest  true  "Meeting"
// @Success      201      {object}  entities.Meeting
// @Router       /api/meetings [post]
func (h *Meeting) CreateMeeting(c echo.Context) error {
	var req meetingDTO.CreateMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	input := meetingUsecase.CreateMeetingInput{
		Title:     req.Title,
		CarryOver: req.CarryOver == nil || *req.CarryOver,
	}
	if req.Date != nil {
		input.Date = *req.Date
	}
	for _, raw := range req.IssueIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return HandleError(h.logger, c, err)
		}
		input.IssueIDs = append(input.IssueIDs, id)
	}

	created, err := h.meetingService.CreateMeeting(c.Request().Context(), input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, created)
}

// ListMeetings handles GET /api/meetings
// @Summary      List meetings, newest first
// @Tags         Meetings
// @Produce      json
// @Param        status     query     string  false  "PLANNED, ACTIVE or COMPLETED"
// @Param        page       query     int     false  "Page number (default: 1)"
// @Param        page_size  query     int     false  "Items per page (default: 20)"
// @Success      200        {object}  common.ListResponse
// @Router       /api/meetings [get]
func (h *Meeting) ListMeetings(c echo.Context) error {
	page, pageSize := pagination(c)
	filters := repositories.MeetingFilters{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := entities.MeetingStatus(raw)
		filters.Status = &status
	}

	meetings, total, err := h.meetingService.ListMeetings(c.Request().Context(), filters)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToListResponse(meetings, total, page, pageSize))
}

// GetCurrentMeeting handles GET /api/meetings/current
// @Summary      Get the active meeting, else the next planned one
// @Tags         Meetings
// @Produce      json
// @Success      200  {object}  entities.Meeting
// @Failure      404  {object}  map[string]interface{}  "No active or planned meeting"
// @Router       /api/meetings/current [get]
func (h *Meeting) GetCurrentMeeting(c echo.Context) error {
	current, err := h.meetingService.GetCurrentMeeting(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, current)
}

// GetMeeting handles GET /api/meetings/:id
// @Summary      Get a meeting with its agenda
// @Tags         Meetings
// @Produce      json
// @Param        id   path      string  true  "Meeting ID"
// @Success      200  {object}  entities.Meeting
// @Router       /api/meetings/{id} [get]
func (h *Meeting) GetMeeting(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	found, err := h.meetingService.GetMeeting(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, found)
}

// UpdateMeeting handles PUT /api/meetings/:id
// @Summary      Edit a meeting that is not completed
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Meeting ID"
// @Param        request  body      meeting.UpdateMeetingRequest  true  "Changes"
// @Success      200      {object}  entities.Meeting
// @Failure      409      {object}  map[string]interface{}  "Meeting completed"
// @Router       /api/meetings/{id} [put]
func (h *Meeting) UpdateMeeting(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req meetingDTO.UpdateMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	updated, err := h.meetingService.UpdateMeeting(c.Request().Context(), id, meetingUsecase.UpdateMeetingInput{
		Title:        req.Title,
		Date:         req.Date,
		GeneralNotes: req.GeneralNotes,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, updated)
}

// DeleteMeeting handles DELETE /api/meetings/:id
// @Summary      Delete a planned meeting
// @Tags         Meetings
// @Param        id   path  string  true  "Meeting ID"
// @Success      204
// @Failure      409  {object}  map[string]interface{}  "Meeting is not planned"
// @Router       /api/meetings/{id} [delete]
func (h *Meeting) DeleteMeeting(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.meetingService.DeleteMeeting(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// StartMeeting handles POST /api/meetings/:id/start
// @Summary      Start a planned meeting
// @Tags         Meetings
// @Produce      json
// @Param        id   path      string  true  "Meeting ID"
// @Success      200  {object}  entities.Meeting
// @Failure      409  {object}  map[string]interface{}  "Another meeting is active"
// @Router       /api/meetings/{id}/start [post]
func (h *Meeting) StartMeeting(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	started, err := h.meetingService.StartMeeting(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, started)
}

// RecordActivity handles POST /api/meetings/:id/activity
// @Summary      Keep an active meeting alive
// @Tags         Meetings
// @Param        id   path  string  true  "Meeting ID"
// @Success      204
// @Failure      409  {object}  map[string]interface{}  "Meeting is not active"
// @Router       /api/meetings/{id}/activity [post]
func (h *Meeting) RecordActivity(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.meetingService.RecordActivity(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SaveNotes handles PUT /api/meetings/:id/notes
// @Summary      Autosave general and discussion notes
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Meeting ID"
// @Param        request  body      meeting.NotesRequest  true  "Notes"
// @Success      200      {object}  entities.Meeting
// @Router       /api/meetings/{id}/notes [put]
func (h *Meeting) SaveNotes(c echo.Context) error {
	id, input, err := h.notesInput(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	saved, err := h.meetingService.SaveNotes(c.Request().Context(), id, input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, saved)
}

// EndMeeting handles POST /api/meetings/:id/end
// @Summary      End an active meeting
// @Description  Saves the final notes, completes the meeting and prepares the next one with unresolved items.
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Param        id       path      string                true   "Meeting ID"
// @Param        request  body      meeting.NotesRequest  false  "Final notes"
// @Success      200      {object}  meeting.EndMeetingResponse
// @Failure      409      {object}  map[string]interface{}  "Meeting is not active"
// @Router       /api/meetings/{id}/end [post]
func (h *Meeting) EndMeeting(c echo.Context) error {
	id, input, err := h.notesInput(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	out, err := h.meetingService.EndMeeting(c.Request().Context(), id, input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToEndMeetingResponse(out))
}

func (h *Meeting) notesInput(c echo.Context) (uuid.UUID, meetingUsecase.NotesInput, error) {
	var input meetingUsecase.NotesInput
	id, err := parseID(c, "id")
	if err != nil {
		return uuid.Nil, input, err
	}
	var req meetingDTO.NotesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return uuid.Nil, input, err
	}

	input.GeneralNotes = req.GeneralNotes
	for _, item := range req.Items {
		itemID, err := uuid.Parse(item.ItemID)
		if err != nil {
			return uuid.Nil, input, err
		}
		input.Items = append(input.Items, meetingUsecase.ItemNotes{ItemID: itemID, Notes: item.Notes})
	}
	return id, input, nil
}

// MinutesURL handles GET /api/meetings/:id/minutes
// @Summary      Get a temporary download link for archived minutes
// @Tags         Meetings
// @Produce      json
// @Param        id   path      string  true  "Meeting ID"
// @Success      200  {object}  meeting.MinutesResponse
// @Failure      404  {object}  map[string]interface{}  "Minutes not archived"
// @Failure      503  {object}  map[string]interface{}  "Storage not configured"
// @Router       /api/meetings/{id}/minutes [get]
func (h *Meeting) MinutesURL(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	url, err := h.meetingService.MinutesURL(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToMinutesResponse(url, meetingUsecase.MinutesURLExpiry))
}

// AddItem handles POST /api/meetings/:id/items
// @Summary      Put an issue on the agenda
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Meeting ID"
// @Param        request  body      meeting.AddItemRequest  true  "Agenda item"
// @Success      201      {object}  entities.MeetingItem
// @Failure      409      {object}  map[string]interface{}  "Issue already on the agenda"
// @Router       /api/meetings/{id}/items [post]
func (h *Meeting) AddItem(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req meetingDTO.AddItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	issueID, err := uuid.Parse(req.IssueID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	item, err := h.meetingService.AddItem(c.Request().Context(), id, meetingUsecase.AddItemInput{
		IssueID: issueID,
		Notes:   req.Notes,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, item)
}

// UpdateItem handles PUT /api/meetings/:id/items/:itemId
// @Summary      Edit discussion notes of an agenda item
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Meeting ID"
// @Param        itemId   path      string                     true  "Item ID"
// @Param        request  body      meeting.UpdateItemRequest  true  "Notes"
// @Success      200      {object}  entities.MeetingItem
// @Router       /api/meetings/{id}/items/{itemId} [put]
func (h *Meeting) UpdateItem(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	itemID, err := parseID(c, "itemId")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req meetingDTO.UpdateItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	item, err := h.meetingService.UpdateItem(c.Request().Context(), id, itemID, req.Notes)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, item)
}

// RemoveItem handles DELETE /api/meetings/:id/items/:itemId
// @Summary      Remove an agenda item
// @Tags         Meetings
// @Param        id      path  string  true  "Meeting ID"
// @Param        itemId  path  string  true  "Item ID"
// @Success      204
// @Router       /api/meetings/{id}/items/{itemId} [delete]
func (h *Meeting) RemoveItem(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	itemID, err := parseID(c, "itemId")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.meetingService.RemoveItem(c.Request().Context(), id, itemID); err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
