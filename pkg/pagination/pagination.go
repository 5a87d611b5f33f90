package pagination

const (
	// DefaultLimit is the page size when the caller does not provide one.
	DefaultLimit = 10
	// MaxLimit caps how many rows a single page can request.
	MaxLimit = 100
	// FirstPage is the 1-based index of the first page.
	FirstPage = 1
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Normalize fills defaults and clamps the limit to maxLimit (MaxLimit when zero).
func (p Params) Normalize(defaultLimit, maxLimit int) Params {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if p.Page < FirstPage {
		p.Page = FirstPage
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// Offset returns the number of rows to skip for the page.
func (p Params) Offset() int {
	if p.Page <= FirstPage || p.Limit <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// TotalPages returns ceil(total/limit), zero for an empty result.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
