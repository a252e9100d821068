package engine

// DefaultPageLimit is used when PageParams.Limit is zero or negative.
const DefaultPageLimit = 50

// PageParams controls pagination and optional pre-slice sorting.
type PageParams struct {
	Page      int       `json:"page"`      // 1-based
	Limit     int       `json:"limit"`     // max records per page
	SortBy    string    `json:"sortBy"`    // optional field path
	SortOrder SortOrder `json:"sortOrder"` // default ascending
}

// PageInfo describes where a page sits within the full collection. Total
// always reflects the pre-slice, post-sort collection size.
type PageInfo struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasMore     bool `json:"hasMore"`
	HasPrevious bool `json:"hasPrevious"`
}

// Page is the data/pagination envelope handed to the UI.
type Page[T any] struct {
	Data       []T      `json:"data"`
	Pagination PageInfo `json:"pagination"`
}

// Paginate sorts the collection when SortBy is set, then slices out the
// requested page. Out-of-range pages yield an empty (non-nil) data slice,
// never an error. Page floors to 1 and Limit falls back to DefaultPageLimit,
// matching the bounds policy used across list endpoints.
func Paginate(data []Record, p PageParams) Page[Record] {
	p = normalizePageParams(p)

	if p.SortBy != "" {
		data = SortRecords(data, p.SortBy, p.SortOrder)
	}

	total := len(data)
	totalPages := (total + p.Limit - 1) / p.Limit

	start := (p.Page - 1) * p.Limit
	end := start + p.Limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	page := make([]Record, end-start)
	copy(page, data[start:end])

	return Page[Record]{
		Data: page,
		Pagination: PageInfo{
			Page:        p.Page,
			Limit:       p.Limit,
			Total:       total,
			TotalPages:  totalPages,
			HasMore:     p.Page < totalPages,
			HasPrevious: p.Page > 1,
		},
	}
}

func normalizePageParams(p PageParams) PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.SortOrder != SortDesc {
		p.SortOrder = SortAsc
	}
	return p
}
