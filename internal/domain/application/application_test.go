package application

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 100); got != "short" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	long := strings.Repeat("x", 150)
	if got := Truncate(long, 100); len(got) != 100 {
		t.Fatalf("expected 100 runes, got %d", len(got))
	}
	// Rune-safe: cyrillic nicknames must not be cut mid-rune.
	if got := Truncate("привет", 3); got != "при" {
		t.Fatalf("expected %q, got %q", "при", got)
	}
}

func TestRoleLabelFallback(t *testing.T) {
	if RoleDev.Label() != "💻 Разработчик" {
		t.Fatalf("unexpected label: %q", RoleDev.Label())
	}
	if Role("designer").Label() != "designer" {
		t.Fatalf("unknown role must render raw, got %q", Role("designer").Label())
	}
}

func TestPageNormalize(t *testing.T) {
	p := Page{Limit: 1000, Offset: -5, Sort: "password", Order: "sideways"}.Normalize()
	if p.Limit != MaxLimit {
		t.Fatalf("expected limit %d, got %d", MaxLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Fatalf("expected offset 0, got %d", p.Offset)
	}
	if p.Sort != SortCreatedAt {
		t.Fatalf("expected sort fallback, got %q", p.Sort)
	}
	if p.Order != OrderDesc {
		t.Fatalf("expected order fallback, got %q", p.Order)
	}

	p = Page{Limit: 0, Sort: "Nickname", Order: "asc"}.Normalize()
	if p.Limit != DefaultLimit {
		t.Fatalf("expected default limit, got %d", p.Limit)
	}
	if p.Sort != "nickname" || p.Order != OrderAsc {
		t.Fatalf("expected nickname/ASC, got %s/%s", p.Sort, p.Order)
	}
}

func TestFilterRoleRestricted(t *testing.T) {
	if (Filter{Role: RoleAll}).RoleRestricted() {
		t.Fatal("role all must not restrict")
	}
	if (Filter{}).RoleRestricted() {
		t.Fatal("empty role must not restrict")
	}
	if !(Filter{Role: RoleDev}).RoleRestricted() {
		t.Fatal("dev role must restrict")
	}
}
