package models

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// Paging carries the page and sort options shared by admin list filters.
type Paging struct {
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Normalize clamps the page to at least 1 and the size to 1..100, defaulting to 20.
func (p Paging) Normalize() (page, size int) {
	page = p.Page
	if page < 1 {
		page = 1
	}
	size = p.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size
}

// Offset returns the row offset for the normalized page.
func (p Paging) Offset() int {
	page, size := p.Normalize()
	return (page - 1) * size
}
