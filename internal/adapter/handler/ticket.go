package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/erp-issue-hub/errors"
	ticketDTO "github.com/johnquangdev/erp-issue-hub/internal/adapter/dto/ticket"
	"github.com/johnquangdev/erp-issue-hub/internal/adapter/presenter"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
	"github.com/johnquangdev/erp-issue-hub/internal/infrastructure/external/zendesk"
	ticketUsecase "github.com/johnquangdev/erp-issue-hub/internal/usecase/ticket"
)

// maxWebhookBody bounds the Zendesk webhook payload
const maxWebhookBody = 1 << 20

// Ticket handles vendor ticket and Zendesk HTTP requests
type Ticket struct {
	vendorService  ticketUsecase.VendorService
	zendeskService ticketUsecase.ZendeskService
	logger         *zap.Logger
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(vendorService ticketUsecase.VendorService, zendeskService ticketUsecase.ZendeskService, logger *zap.Logger) *Ticket {
	return &Ticket{
		vendorService:  vendorService,
		zendeskService: zendeskService,
		logger:         logger,
	}
}

// CreateVendorTicket handles POST /api/vendor-tickets
// @Summary      Record a ticket raised with an ERP vendor
// @Tags         VendorTickets
// @Accept       json
// @Produce      json
// @Param        request  body      ticket.VendorTicketRequest  true  "Vendor ticket"
// @Success      201      {object}  entities.VendorTicket
// @Router       /api/vendor-tickets [post]
func (h *Ticket) CreateVendorTicket(c echo.Context) error {
	input, err := h.vendorInput(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	created, err := h.vendorService.Create(c.Request().Context(), input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, created)
}

// ListVendorTickets handles GET /api/vendor-tickets
// @Summary      List vendor tickets
// @Tags         VendorTickets
// @Produce      json
// @Param        vendor    query     string  false  "Vendor filter"
// @Param        issue_id  query     string  false  "Issue filter"
// @Success      200       {array}   entities.VendorTicket
// @Router       /api/vendor-tickets [get]
func (h *Ticket) ListVendorTickets(c echo.Context) error {
	var issueID *uuid.UUID
	if raw := c.QueryParam("issue_id"); raw != "" {
		var err error
		if issueID, err = parseOptionalID(&raw, "issue_id"); err != nil {
			return HandleError(h.logger, c, err)
		}
	}
	tickets, err := h.vendorService.List(c.Request().Context(), issueID, c.QueryParam("vendor"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, tickets)
}

// ListIssueVendorTickets handles GET /api/issues/:id/vendor-tickets
// @Summary      List vendor tickets of an issue
// @Tags         VendorTickets
// @Produce      json
// @Param        id   path      string  true  "Issue ID"
// @Success      200  {array}   entities.VendorTicket
// @Router       /api/issues/{id}/vendor-tickets [get]
func (h *Ticket) ListIssueVendorTickets(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	tickets, err := h.vendorService.List(c.Request().Context(), &id, "")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, tickets)
}

// GetVendorTicket handles GET /api/vendor-tickets/:id
// @Summary      Get a vendor ticket
// @Tags         VendorTickets
// @Produce      json
// @Param        id   path      string  true  "Vendor ticket ID"
// @Success      200  {object}  entities.VendorTicket
// @Router       /api/vendor-tickets/{id} [get]
func (h *Ticket) GetVendorTicket(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	found, err := h.vendorService.Get(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, found)
}

// UpdateVendorTicket handles PUT /api/vendor-tickets/:id
// @Summary      Replace a vendor ticket
// @Tags         VendorTickets
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Vendor ticket ID"
// @Param        request  body      ticket.VendorTicketRequest  true  "Vendor ticket"
// @Success      200      {object}  entities.VendorTicket
// @Router       /api/vendor-tickets/{id} [put]
func (h *Ticket) UpdateVendorTicket(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	input, err := h.vendorInput(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	updated, err := h.vendorService.Update(c.Request().Context(), id, input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, updated)
}

// DeleteVendorTicket handles DELETE /api/vendor-tickets/:id
// @Summary      Delete a vendor ticket
// @Tags         VendorTickets
// @Param        id   path  string  true  "Vendor ticket ID"
// @Success      204
// @Router       /api/vendor-tickets/{id} [delete]
func (h *Ticket) DeleteVendorTicket(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.vendorService.Delete(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Ticket) vendorInput(c echo.Context) (ticketUsecase.VendorTicketInput, error) {
	var req ticketDTO.VendorTicketRequest
	if err := bindAndValidate(c, &req); err != nil {
		return ticketUsecase.VendorTicketInput{}, err
	}
	issueID, err := parseOptionalID(req.IssueID, "issue_id")
	if err != nil {
		return ticketUsecase.VendorTicketInput{}, err
	}
	return ticketUsecase.VendorTicketInput{
		IssueID:      issueID,
		Vendor:       req.Vendor,
		TicketNumber: req.TicketNumber,
		Subject:      req.Subject,
		RawStatus:    req.RawStatus,
		RawPriority:  req.RawPriority,
		URL:          req.URL,
		Notes:        req.Notes,
		OpenedAt:     req.OpenedAt,
	}, nil
}

// ZendeskStatus handles GET /api/zendesk/status
// @Summary      Report whether Zendesk is configured and when it was last synced
// @Tags         Zendesk
// @Produce      json
// @Success      200  {object}  ticket.StatusOutput
// @Router       /api/zendesk/status [get]
func (h *Ticket) ZendeskStatus(c echo.Context) error {
	status, err := h.zendeskService.Status(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, status)
}

// SearchZendesk handles GET /api/zendesk/search
// @Summary      Live ticket search
// @Description  Results are not stored. A failing Zendesk call yields an empty list.
// @Tags         Zendesk
// @Produce      json
// @Param        q     query     string  true   "Zendesk search query"
// @Param        page  query     int     false  "Page number (default: 1)"
// @Success      200   {array}   entities.ZendeskTicket
// @Failure      503   {object}  map[string]interface{}  "Zendesk not configured"
// @Router       /api/zendesk/search [get]
func (h *Ticket) SearchZendesk(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return HandleError(h.logger, c, errors.ErrValidation(map[string]string{"q": "required"}))
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	tickets, err := h.zendeskService.Search(c.Request().Context(), query, page)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, tickets)
}

// SyncZendesk handles POST /api/zendesk/sync
// @Summary      Pull tickets into the local mirror
// @Tags         Zendesk
// @Produce      json
// @Success      200  {object}  ticket.SyncOutput
// @Failure      502  {object}  map[string]interface{}  "Zendesk unreachable"
// @Failure      503  {object}  map[string]interface{}  "Zendesk not configured"
// @Router       /api/zendesk/sync [post]
func (h *Ticket) SyncZendesk(c echo.Context) error {
	out, err := h.zendeskService.Sync(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, out)
}

// ListZendeskTickets handles GET /api/zendesk/tickets
// @Summary      List the local Zendesk mirror
// @Tags         Zendesk
// @Produce      json
// @Param        linked     query     bool    false  "Linked filter"
// @Param        status     query     string  false  "Local status filter"
// @Param        search     query     string  false  "Search in subject and description"
// @Param        page       query     int     false  "Page number (default: 1)"
// @Param        page_size  query     int     false  "Items per page (default: 20)"
// @Success      200        {object}  common.ListResponse
// @Router       /api/zendesk/tickets [get]
func (h *Ticket) ListZendeskTickets(c echo.Context) error {
	page, pageSize := pagination(c)
	linked, err := parseBoolQuery(c, "linked")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	filters := repositories.ZendeskTicketFilters{
		Linked: linked,
		Search: strings.TrimSpace(c.QueryParam("search")),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := entities.IssueStatus(strings.ToUpper(raw))
		filters.Status = &status
	}

	tickets, total, err := h.zendeskService.ListTickets(c.Request().Context(), filters)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToListResponse(tickets, total, page, pageSize))
}

// GetZendeskTicket handles GET /api/zendesk/tickets/:id
// @Summary      Get a mirrored ticket
// @Tags         Zendesk
// @Produce      json
// @Param        id   path      string  true  "Local ticket ID"
// @Success      200  {object}  entities.ZendeskTicket
// @Router       /api/zendesk/tickets/{id} [get]
func (h *Ticket) GetZendeskTicket(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	found, err := h.zendeskService.GetTicket(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, found)
}

// ImportZendeskTicket handles POST /api/zendesk/tickets/:id/import
// @Summary      Create an issue from a mirrored ticket
// @Tags         Zendesk
// @Produce      json
// @Param        id   path      string  true  "Local ticket ID"
// @Success      201  {object}  ticket.ImportOutput
// @Failure      409  {object}  map[string]interface{}  "Ticket already linked"
// @Router       /api/zendesk/tickets/{id}/import [post]
func (h *Ticket) ImportZendeskTicket(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	out, err := h.zendeskService.ImportTicket(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, out)
}

// LinkZendeskTicket handles POST /api/zendesk/tickets/:id/link
// @Summary      Link a mirrored ticket to an existing issue
// @Tags         Zendesk
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Local ticket ID"
// @Param        request  body      ticket.LinkTicketRequest  true  "Issue"
// @Success      200      {object}  entities.ZendeskTicket
// @Router       /api/zendesk/tickets/{id}/link [post]
func (h *Ticket) LinkZendeskTicket(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req ticketDTO.LinkTicketRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	issueID, err := parseOptionalID(&req.IssueID, "issue_id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	linked, err := h.zendeskService.LinkTicket(c.Request().Context(), id, *issueID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, linked)
}

// UnlinkZendeskTicket handles POST /api/zendesk/tickets/:id/unlink
// @Summary      Detach a mirrored ticket from its issue
// @Tags         Zendesk
// @Produce      json
// @Param        id   path      string  true  "Local ticket ID"
// @Success      200  {object}  entities.ZendeskTicket
// @Router       /api/zendesk/tickets/{id}/unlink [post]
func (h *Ticket) UnlinkZendeskTicket(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	unlinked, err := h.zendeskService.UnlinkTicket(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, unlinked)
}

// ReclassifyZendeskTicket handles POST /api/zendesk/tickets/:id/reclassify
// @Summary      Suggest and apply a priority and type
// @Description  Uses the LLM when configured; otherwise maps the Zendesk fields.
// @Tags         Zendesk
// @Produce      json
// @Param        id   path      string  true  "Local ticket ID"
// @Success      200  {object}  ticket.ReclassifyOutput
// @Router       /api/zendesk/tickets/{id}/reclassify [post]
func (h *Ticket) ReclassifyZendeskTicket(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	out, err := h.zendeskService.ReclassifyTicket(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, out)
}

// ZendeskWebhook handles POST /api/zendesk/webhook
// @Summary      Refresh one ticket on a signed Zendesk webhook
// @Tags         Zendesk
// @Accept       json
// @Produce      json
// @Param        X-Zendesk-Webhook-Signature            header  string  true  "HMAC-SHA256 signature"
// @Param        X-Zendesk-Webhook-Signature-Timestamp  header  string  true  "Signature timestamp"
// @Success      200  {object}  entities.ZendeskTicket
// @Failure      401  {object}  map[string]interface{}  "Bad signature"
// @Router       /api/zendesk/webhook [post]
func (h *Ticket) ZendeskWebhook(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	ticket, err := h.zendeskService.HandleWebhook(
		c.Request().Context(),
		c.Request().Header.Get(zendesk.SignatureTimestampHeader),
		c.Request().Header.Get(zendesk.SignatureHeader),
		body,
	)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, ticket)
}
