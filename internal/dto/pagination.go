package dto

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PaginationRequest 副本列表、本人角色列表的分页参数，page 从 1 开始
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (p *PaginationRequest) GetPage() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

// GetPageSize 未传时取 20；未经 binding 构造的请求同样截断到 100
func (p *PaginationRequest) GetPageSize() int {
	switch {
	case p.PageSize < 1:
		return defaultPageSize
	case p.PageSize > maxPageSize:
		return maxPageSize
	default:
		return p.PageSize
	}
}

func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}
