package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	emailDTO "github.com/johnquangdev/erp-issue-hub/internal/adapter/dto/email"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/entities"
	"github.com/johnquangdev/erp-issue-hub/internal/domain/repositories"
	emailUsecase "github.com/johnquangdev/erp-issue-hub/internal/usecase/email"
)

// Email handles email template and draft HTTP requests
type Email struct {
	emailService emailUsecase.Service
	logger       *zap.Logger
}

// NewEmailHandler creates a new email handler
func NewEmailHandler(emailService emailUsecase.Service, logger *zap.Logger) *Email {
	return &Email{
		emailService: emailService,
		logger:       logger,
	}
}

// CreateTemplate handles POST /api/email-templates
// @Summary      Create an email template
// @Tags         EmailTemplates
// @Accept       json
// @Produce      json
// @Param        request  body      email.TemplateRequest  true  "Template"
// @Success      201      {object}  entities.EmailTemplate
// @Failure      409      {object}  map[string]interface{}  "Name taken"
// @Router       /api/email-templates [post]
func (h *Email) CreateTemplate(c echo.Context) error {
	var req emailDTO.TemplateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	created, err := h.emailService.CreateTemplate(c.Request().Context(), templateInput(req))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, created)
}

// ListTemplates handles GET /api/email-templates
// @Summary      List email templates
// @Tags         EmailTemplates
// @Produce      json
// @Param        category  query     string  false  "Category filter"
// @Success      200       {array}   entities.EmailTemplate
// @Router       /api/email-templates [get]
func (h *Email) ListTemplates(c echo.Context) error {
	templates, err := h.emailService.ListTemplates(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, templates)
}

// GetTemplate handles GET /api/email-templates/:id
// @Summary      Get an email template
// @Tags         EmailTemplates
// @Produce      json
// @Param        id   path      string  true  "Template ID"
// @Success      200  {object}  entities.EmailTemplate
// @Router       /api/email-templates/{id} [get]
func (h *Email) GetTemplate(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	found, err := h.emailService.GetTemplate(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, found)
}

// UpdateTemplate handles PUT /api/email-templates/:id
// @Summary      Replace an email template
// @Tags         EmailTemplates
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Template ID"
// @Param        request  body      email.TemplateRequest  true  "Template"
// @Success      200      {object}  entities.EmailTemplate
// @Router       /api/email-templates/{id} [put]
func (h *Email) UpdateTemplate(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req emailDTO.TemplateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	updated, err := h.emailService.UpdateTemplate(c.Request().Context(), id, templateInput(req))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, updated)
}

// DeleteTemplate handles DELETE /api/email-templates/:id
// @Summary      Delete an email template
// @Tags         EmailTemplates
// @Param        id   path  string  true  "Template ID"
// @Success      204
// @Router       /api/email-templates/{id} [delete]
func (h *Email) DeleteTemplate(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.emailService.DeleteTemplate(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func templateInput(req emailDTO.TemplateRequest) emailUsecase.TemplateInput {
	return emailUsecase.TemplateInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Subject:     req.Subject,
		Body:        req.Body,
	}
}

// CreateDraft handles POST /api/email-drafts
// @Summary      Create an email draft
// @Tags         EmailDrafts
// @Accept       json
// @Produce      json
// @Param        request  body      email.DraftRequest  true  "Draft"
// @Success      201      {object}  entities.EmailDraft
// @Router       /api/email-drafts [post]
func (h *Email) CreateDraft(c echo.Context) error {
	input, err := h.draftInput(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	created, err := h.emailService.CreateDraft(c.Request().Context(), input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, created)
}

// ListDrafts handles GET /api/email-drafts
// @Summary      List email drafts
// @Tags         EmailDrafts
// @Produce      json
// @Param        status    query     string  false  "DRAFT or SENT"
// @Param        issue_id  query     string  false  "Issue filter"
// @Success      200       {array}   entities.EmailDraft
// @Router       /api/email-drafts [get]
func (h *Email) ListDrafts(c echo.Context) error {
	var filters repositories.EmailDraftFilters
	if raw := c.QueryParam("status"); raw != "" {
		status := entities.EmailDraftStatus(raw)
		filters.Status = &status
	}
	if raw := c.QueryParam("issue_id"); raw != "" {
		issueID, err := parseOptionalID(&raw, "issue_id")
		if err != nil {
			return HandleError(h.logger, c, err)
		}
		filters.IssueID = issueID
	}
	drafts, err := h.emailService.ListDrafts(c.Request().Context(), filters)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, drafts)
}

// GetDraft handles GET /api/email-drafts/:id
// @Summary      Get an email draft
// @Tags         EmailDrafts
// @Produce      json
// @Param        id   path      string  true  "Draft ID"
// @Success      200  {object}  entities.EmailDraft
// @Router       /api/email-drafts/{id} [get]
func (h *Email) GetDraft(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	found, err := h.emailService.GetDraft(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, found)
}

// UpdateDraft handles PUT /api/email-drafts/:id
// @Summary      Replace an email draft
// @Tags         EmailDrafts
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Draft ID"
// @Param        request  body      email.DraftRequest  true  "Draft"
// @Success      200      {object}  entities.EmailDraft
// @Failure      409      {object}  map[string]interface{}  "Draft already sent"
// @Router       /api/email-drafts/{id} [put]
func (h *Email) UpdateDraft(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	input, err := h.draftInput(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	updated, err := h.emailService.UpdateDraft(c.Request().Context(), id, input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, updated)
}

// DeleteDraft handles DELETE /api/email-drafts/:id
// @Summary      Delete an email draft
// @Tags         EmailDrafts
// @Param        id   path  string  true  "Draft ID"
// @Success      204
// @Router       /api/email-drafts/{id} [delete]
func (h *Email) DeleteDraft(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.emailService.DeleteDraft(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PreviewDraft handles GET /api/email-drafts/:id/preview
// @Summary      Render a draft body to HTML
// @Tags         EmailDrafts
// @Produce      json
// @Param        id   path      string  true  "Draft ID"
// @Success      200  {object}  email.Preview
// @Router       /api/email-drafts/{id}/preview [get]
func (h *Email) PreviewDraft(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	preview, err := h.emailService.PreviewDraft(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, preview)
}

// MarkSent handles POST /api/email-drafts/:id/sent
// @Summary      Mark a draft as sent
// @Tags         EmailDrafts
// @Produce      json
// @Param        id   path      string  true  "Draft ID"
// @Success      200  {object}  entities.EmailDraft
// @Router       /api/email-drafts/{id}/sent [post]
func (h *Email) MarkSent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	sent, err := h.emailService.MarkSent(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, sent)
}

// GenerateDraft handles POST /api/email-drafts/generate
// @Summary      Draft an email about an issue with the LLM
// @Tags         EmailDrafts
// @Accept       json
// @Produce      json
// @Param        request  body      email.GenerateDraftRequest  true  "Generation request"
// @Success      201      {object}  entities.EmailDraft
// @Failure      502      {object}  map[string]interface{}  "LLM call failed"
// @Failure      503      {object}  map[string]interface{}  "LLM not configured"
// @Router       /api/email-drafts/generate [post]
func (h *Email) GenerateDraft(c echo.Context) error {
	var req emailDTO.GenerateDraftRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	issueID, err := parseOptionalID(&req.IssueID, "issue_id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	templateID, err := parseOptionalID(req.TemplateID, "template_id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	draft, err := h.emailService.GenerateDraft(c.Request().Context(), emailUsecase.GenerateInput{
		IssueID:      *issueID,
		TemplateID:   templateID,
		Recipients:   req.Recipients,
		Instructions: req.Instructions,
		Tone:         req.Tone,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, draft)
}

// ImproveText handles POST /api/email-drafts/improve
// @Summary      Rewrite email text with the LLM
// @Tags         EmailDrafts
// @Accept       json
// @Produce      json
// @Param        request  body      email.ImproveTextRequest  true  "Text"
// @Success      200      {object}  email.ImproveTextResponse
// @Failure      503      {object}  map[string]interface{}  "LLM not configured"
// @Router       /api/email-drafts/improve [post]
func (h *Email) ImproveText(c echo.Context) error {
	var req emailDTO.ImproveTextRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	text, err := h.emailService.ImproveText(c.Request().Context(), emailUsecase.ImproveInput{
		Text:         req.Text,
		Tone:         req.Tone,
		Instructions: req.Instructions,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, emailDTO.ImproveTextResponse{Text: text})
}

func (h *Email) draftInput(c echo.Context) (emailUsecase.DraftInput, error) {
	var req emailDTO.DraftRequest
	if err := bindAndValidate(c, &req); err != nil {
		return emailUsecase.DraftInput{}, err
	}
	issueID, err := parseOptionalID(req.IssueID, "issue_id")
	if err != nil {
		return emailUsecase.DraftInput{}, err
	}
	templateID, err := parseOptionalID(req.TemplateID, "template_id")
	if err != nil {
		return emailUsecase.DraftInput{}, err
	}
	return emailUsecase.DraftInput{
		Subject:    req.Subject,
		Body:       req.Body,
		Recipients: req.Recipients,
		IssueID:    issueID,
		TemplateID: templateID,
	}, nil
}
