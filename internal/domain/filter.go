package domain

import "fmt"

// Filter is the dashboard view selector. It is never persisted.
type Filter string

const FilterAll Filter = "All"

var Filters = []Filter{
	FilterAll,
	Filter(StatusPending),
	Filter(StatusDispatched),
	Filter(StatusSuccess),
	Filter(StatusCompleted),
}

// ParseFilter maps an empty value to FilterAll.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return FilterAll, nil
	}
	for _, f := range Filters {
		if Filter(s) == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFilter, s)
}

func (f Filter) Matches(o Order) bool {
	return f == FilterAll || OrderStatus(f) == o.Status
}

// Label is the capitalised form shown on filter buttons.
func (f Filter) Label() string {
	if f == "" {
		return ""
	}
	s := string(f)
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
