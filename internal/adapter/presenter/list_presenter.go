package presenter

import (
	"github.com/johnquangdev/erp-issue-hub/internal/adapter/dto/common"
)

// ToListResponse wraps one page of results with pagination metadata
func ToListResponse(data interface{}, total int64, page, pageSize int) *common.ListResponse {
	if pageSize <= 0 {
		return &common.ListResponse{Data: data}
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	return &common.ListResponse{
		Data: data,
		Pagination: &common.PaginationResponse{
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
			TotalItems: total,
		},
	}
}
