package model

import "testing"

func TestCapabilityForRole(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		want Capability
	}{
		{RoleNameAdmin, CapabilityAdmin},
		{RoleNameMember, CapabilityMember},
		{"Moderator", CapabilityMember}, // unknown roles grant member-level access
		{"admin", CapabilityMember},     // names are case-sensitive
		{"", CapabilityMember},
	}
	for _, c := range cases {
		if got := CapabilityForRole(c.name); got != c.want {
			t.Errorf("CapabilityForRole(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}
