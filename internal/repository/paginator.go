package repository

const (
	// DefaultPageLimit is the default number of items per page.
	DefaultPageLimit = 20
	maxPageLimit     = 100
)

// Page represents offset-based pagination state. The zero value normalizes to
// the first page with the default limit.
type Page struct {
	Number int
	Limit  int
}

// Normalize clamps the page number to >= 1 and the limit to [1, 100],
// substituting the default limit when none was supplied.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	return p
}

// Offset returns the number of rows to skip for the page. Call Normalize first.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}
