package viewquery

import "inkwell/internal/values"

// DefaultLimit is the page size used when a list request names none.
const DefaultLimit = 50

// ListFilter holds the optional article list filters and pagination.
type ListFilter struct {
	Tag         *values.TagName
	Author      *values.Username
	FavoritedBy *values.Username
	Limit       *int
	Offset      *int
}

// Predicates returns the filter's predicates in tag, author, favorited-by order.
func (f ListFilter) Predicates() []Predicate {
	var preds []Predicate
	if f.Tag != nil {
		preds = append(preds, TagNamed(*f.Tag))
	}
	if f.Author != nil {
		preds = append(preds, AuthoredBy(*f.Author))
	}
	if f.FavoritedBy != nil {
		preds = append(preds, FavoritedBy(*f.FavoritedBy))
	}
	return preds
}

// Page returns the effective pagination window.
func (f ListFilter) Page() Page {
	return NewPage(f.Limit, f.Offset)
}

// Page is a LIMIT/OFFSET window.
type Page struct {
	Limit  int
	Offset int
}

// NewPage applies the defaults: 50 rows from offset 0. Negative values fall
// back to the defaults.
func NewPage(limit, offset *int) Page {
	p := Page{Limit: DefaultLimit}
	if limit != nil && *limit >= 0 {
		p.Limit = *limit
	}
	if offset != nil && *offset >= 0 {
		p.Offset = *offset
	}
	return p
}
