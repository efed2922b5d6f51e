package store

import (
	"testing"

	"github.com/Ramjayanth123/contracts-4-sub001/pkg/domain"
)

func TestNormalizeRole(t *testing.T) {
	cases := []struct {
		in   string
		want domain.Role
		ok   bool
	}{
		{"LEGAL", domain.RoleLegal, true},
		{"legal", domain.RoleLegal, true},
		{"  viewer ", domain.RoleViewer, true},
		{"Admin", domain.RoleAdmin, true},
		{"member", domain.RoleMember, true},
		{"owner", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeRole(tc.in)
		if ok != tc.ok {
			t.Fatalf("NormalizeRole(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
		if ok && got != tc.want {
			t.Fatalf("NormalizeRole(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
