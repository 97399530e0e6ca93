package domain

// SortDirection represents ordering direction for sortable fields.
type SortDirection string

const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

// Normalize coerces arbitrary input to a valid direction, defaulting desc.
func (d SortDirection) Normalize() SortDirection {
	if d == SortDirectionAsc {
		return SortDirectionAsc
	}
	return SortDirectionDesc
}

// ListOptions captures pagination and ordering for list endpoints. The
// sort field is validated against a per-table whitelist before it reaches
// SQL.
type ListOptions struct {
	Limit     int
	Offset    int
	SortField string
	SortDir   SortDirection
}

// Clamp applies defaults and bounds to pagination inputs.
func (o ListOptions) Clamp() ListOptions {
	if o.Limit <= 0 {
		o.Limit = 25
	}
	if o.Limit > 100 {
		o.Limit = 100
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	o.SortDir = o.SortDir.Normalize()
	return o
}
