package common

// PaginationResponse represents pagination metadata
type PaginationResponse struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
}

// ListResponse represents a paginated list response
type ListResponse struct {
	Data       interface{}         `json:"data"`
	Pagination *PaginationResponse `json:"pagination,omitempty"`
}

// HealthResponse reports the state of the service and its integrations
type HealthResponse struct {
	Status       string          `json:"status"`
	Environment  string          `json:"environment"`
	Database     string          `json:"database"`
	Cache        string          `json:"cache"`
	Storage      string          `json:"storage,omitempty"`
	Integrations map[string]bool `json:"integrations"`
}
