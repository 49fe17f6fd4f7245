package application

import "strings"

const (
	DefaultLimit = 10
	MaxLimit     = 100

	SortCreatedAt = "created_at"
	OrderDesc     = "DESC"
	OrderAsc      = "ASC"
)

// Filter restricts listing and counting. Role "all" or empty means no role
// restriction; Status is an exact match when set.
type Filter struct {
	Role   Role
	Status string
}

// RoleRestricted reports whether the filter narrows by role.
func (f Filter) RoleRestricted() bool {
	return f.Role != "" && f.Role != RoleAll
}

// Page describes the requested window and ordering.
type Page struct {
	Limit  int
	Offset int
	Sort   string
	Order  string
}

var allowedSorts = map[string]bool{
	"created_at": true,
	"nickname":   true,
	"role":       true,
	"age":        true,
}

// Normalize clamps the window and resolves sort/order against the allow-list.
// Unknown sort columns fall back to created_at, unknown orders to DESC; the
// limit is capped at MaxLimit and a non-positive limit takes the default.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	p.Sort = strings.ToLower(strings.TrimSpace(p.Sort))
	if !allowedSorts[p.Sort] {
		p.Sort = SortCreatedAt
	}
	switch strings.ToUpper(strings.TrimSpace(p.Order)) {
	case OrderAsc:
		p.Order = OrderAsc
	default:
		p.Order = OrderDesc
	}
	return p
}
