package models

type Pagination struct {
	TotalCount int `json:"total_count"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	LastPage   int `json:"last_page"`
}

func NewPagination(total, page, limit int) Pagination {
	last := 1
	if limit > 0 && total > 0 {
		last = (total + limit - 1) / limit
	}
	return Pagination{TotalCount: total, Page: page, Limit: limit, LastPage: last}
}

// Normalize borne page et limit.
func Normalize(page, limit, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = def
	}
	return page, limit
}

type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}
