package models

// PaginationEnvelope is the uniform pagination metadata returned alongside
// search results and exhibition item listings. Limit is the clamped value
// actually used upstream, not whatever the caller asked for.
type PaginationEnvelope struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	Limit       int  `json:"limit"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// NewPaginationEnvelope derives a full envelope from the page actually
// requested, the clamped limit and the upstream total. HasNextPage and
// HasPrevPage are always derived, never set independently.
func NewPaginationEnvelope(currentPage, limit, totalItems int) PaginationEnvelope {
	if currentPage < 1 {
		currentPage = 1
	}
	totalPages := 0
	if limit > 0 {
		totalPages = (totalItems + limit - 1) / limit
	}
	return PaginationEnvelope{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		Limit:       limit,
		HasNextPage: currentPage < totalPages,
		HasPrevPage: currentPage > 1,
	}
}
