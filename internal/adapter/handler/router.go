package handler

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Router holds all handlers
type Router struct {
	health     *Health
	issue      *Issue
	actionItem *ActionItem
	meeting    *Meeting
	email      *Email
	ticket     *Ticket
}

// NewRouter creates a new router with all handlers
func NewRouter(health *Health, issue *Issue, actionItem *ActionItem, meeting *Meeting, email *Email, ticket *Ticket) *Router {
	return &Router{
		health:     health,
		issue:      issue,
		actionItem: actionItem,
		meeting:    meeting,
		email:      email,
		ticket:     ticket,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.health.Check)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	rt.setupIssueRoutes(api)
	rt.setupActionItemRoutes(api)
	rt.setupMeetingRoutes(api)
	rt.setupEmailRoutes(api)
	rt.setupTicketRoutes(api)
}

// setupIssueRoutes configures issue, category and note routes
func (rt *Router) setupIssueRoutes(g *echo.Group) {
	issues := g.Group("/issues")
	issues.POST("", rt.issue.CreateIssue)
	issues.GET("", rt.issue.ListIssues)
	// Static segments must be registered ahead of /:id
	issues.GET("/resolved", rt.issue.ListResolvedIssues)
	issues.GET("/:id", rt.issue.GetIssue)
	issues.PUT("/:id", rt.issue.UpdateIssue)
	issues.DELETE("/:id", rt.issue.DeleteIssue)
	issues.POST("/:id/archive", rt.issue.ArchiveIssue)
	issues.POST("/:id/unarchive", rt.issue.UnarchiveIssue)
	issues.GET("/:id/notes", rt.issue.ListNotes)
	issues.POST("/:id/notes", rt.issue.AddNote)
	issues.GET("/:id/action-items", rt.actionItem.ListByIssue)
	issues.GET("/:id/vendor-tickets", rt.ticket.ListIssueVendorTickets)

	notes := g.Group("/notes")
	notes.PUT("/:id", rt.issue.UpdateNote)
	notes.DELETE("/:id", rt.issue.DeleteNote)

	categories := g.Group("/categories")
	categories.POST("", rt.issue.CreateCategory)
	categories.GET("", rt.issue.ListCategories)
	categories.GET("/:id", rt.issue.GetCategory)
	categories.PUT("/:id", rt.issue.UpdateCategory)
	categories.DELETE("/:id", rt.issue.DeleteCategory)
}

// setupActionItemRoutes configures action item routes
func (rt *Router) setupActionItemRoutes(g *echo.Group) {
	items := g.Group("/action-items")
	items.POST("", rt.actionItem.Create)
	items.GET("", rt.actionItem.List)
	items.GET("/:id", rt.actionItem.Get)
	items.PUT("/:id", rt.actionItem.Update)
	items.DELETE("/:id", rt.actionItem.Delete)
	items.POST("/:id/manage", rt.actionItem.Manage)
	items.POST("/:id/restore", rt.actionItem.Restore)
	items.POST("/:id/toggle", rt.actionItem.Toggle)
}

// setupMeetingRoutes configures meeting lifecycle and agenda routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetings := g.Group("/meetings")
	meetings.POST("", rt.meeting.CreateMeeting)
	meetings.GET("", rt.meeting.ListMeetings)
	meetings.GET("/current", rt.meeting.GetCurrentMeeting)
	meetings.GET("/:id", rt.meeting.GetMeeting)
	meetings.PUT("/:id", rt.meeting.UpdateMeeting)
	meetings.DELETE("/:id", rt.meeting.DeleteMeeting)
	meetings.POST("/:id/start", rt.meeting.StartMeeting)
	meetings.POST("/:id/activity", rt.meeting.RecordActivity)
	meetings.PUT("/:id/notes", rt.meeting.SaveNotes)
	meetings.POST("/:id/end", rt.meeting.EndMeeting)
	meetings.GET("/:id/minutes", rt.meeting.MinutesURL)
	meetings.POST("/:id/items", rt.meeting.AddItem)
	meetings.PUT("/:id/items/:itemId", rt.meeting.UpdateItem)
	meetings.DELETE("/:id/items/:itemId", rt.meeting.RemoveItem)
}

// setupEmailRoutes configures template and draft routes
func (rt *Router) setupEmailRoutes(g *echo.Group) {
	templates := g.Group("/email-templates")
	templates.POST("", rt.email.CreateTemplate)
	templates.GET("", rt.email.ListTemplates)
	templates.GET("/:id", rt.email.GetTemplate)
	templates.PUT("/:id", rt.email.UpdateTemplate)
	templates.DELETE("/:id", rt.email.DeleteTemplate)

	drafts := g.Group("/email-drafts")
	drafts.POST("", rt.email.CreateDraft)
	drafts.GET("", rt.email.ListDrafts)
	drafts.POST("/generate", rt.email.GenerateDraft)
	drafts.POST("/improve", rt.email.ImproveText)
	drafts.GET("/:id", rt.email.GetDraft)
	drafts.PUT("/:id", rt.email.UpdateDraft)
	drafts.DELETE("/:id", rt.email.DeleteDraft)
	drafts.GET("/:id/preview", rt.email.PreviewDraft)
	drafts.POST("/:id/sent", rt.email.MarkSent)
}

// setupTicketRoutes configures vendor ticket and Zendesk routes
func (rt *Router) setupTicketRoutes(g *echo.Group) {
	vendor := g.Group("/vendor-tickets")
	vendor.POST("", rt.ticket.CreateVendorTicket)
	vendor.GET("", rt.ticket.ListVendorTickets)
	vendor.GET("/:id", rt.ticket.GetVendorTicket)
	vendor.PUT("/:id", rt.ticket.UpdateVendorTicket)
	vendor.DELETE("/:id", rt.ticket.DeleteVendorTicket)

	zd := g.Group("/zendesk")
	zd.GET("/status", rt.ticket.ZendeskStatus)
	zd.GET("/search", rt.ticket.SearchZendesk)
	zd.POST("/sync", rt.ticket.SyncZendesk)
	zd.POST("/webhook", rt.ticket.ZendeskWebhook)
	zd.GET("/tickets", rt.ticket.ListZendeskTickets)
	zd.GET("/tickets/:id", rt.ticket.GetZendeskTicket)
	zd.POST("/tickets/:id/import", rt.ticket.ImportZendeskTicket)
	zd.POST("/tickets/:id/link", rt.ticket.LinkZendeskTicket)
	zd.POST("/tickets/:id/unlink", rt.ticket.UnlinkZendeskTicket)
	zd.POST("/tickets/:id/reclassify", rt.ticket.ReclassifyZendeskTicket)
}
