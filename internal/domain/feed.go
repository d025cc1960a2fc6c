package domain

// PaginationEntry is the resumption state handed back for one account.
type PaginationEntry struct {
	ProviderID string `json:"providerId"`
	Since      Cursor `json:"since,omitempty"`
	Until      Cursor `json:"until,omitempty"`
}

// Envelope is the response shape of every aggregation request.
type Envelope[T Item] struct {
	Posts      []T               `json:"posts"`
	Pagination []PaginationEntry `json:"pagination"`
}
