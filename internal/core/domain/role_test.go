package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in    string
		want  Role
		valid bool
	}{
		{"ADMIN", RoleAdmin, true},
		{"admin", RoleAdmin, true},
		{" Manager ", RoleManager, true},
		{"sales", RoleSales, true},
		{"CLIENT", RoleClient, true},
		{"owner", RoleOwner, true},
		{"superuser", RoleSuperuser, true},
		{"OFFICER", Role("OFFICER"), false},
		{"", Role(""), false},
	}

	for _, tt := range cases {
		got, ok := ParseRole(tt.in)
		if ok != tt.valid {
			t.Fatalf("ParseRole(%q) valid=%v, want %v", tt.in, ok, tt.valid)
		}
		if ok && got != tt.want {
			t.Fatalf("ParseRole(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRoleOrder(t *testing.T) {
	order := []Role{RoleClient, RoleSales, RoleManager, RoleAdmin, RoleOwner, RoleSuperuser}

	for i, lower := range order {
		for j, higher := range order {
			got := higher.AtLeast(lower)
			want := j >= i
			if got != want {
				t.Fatalf("%s.AtLeast(%s)=%v, want %v", higher, lower, got, want)
			}
		}
	}

	assert.Equal(t, -1, Role("UNKNOWN").Rank())
	assert.False(t, Role("UNKNOWN").AtLeast(RoleClient))
}

func TestActorIsStaff(t *testing.T) {
	assert.False(t, Actor{Role: RoleClient}.IsStaff())
	assert.True(t, Actor{Role: RoleSales}.IsStaff())
	assert.True(t, Actor{Role: RoleManager}.IsStaff())
	assert.True(t, Actor{Role: RoleAdmin}.IsStaff())

	// Superuser/owner flags win regardless of the role string
	assert.True(t, Actor{Role: RoleClient, IsSuperuser: true}.IsStaff())
	assert.True(t, Actor{Role: RoleClient, IsOwner: true}.IsStaff())
	assert.False(t, Actor{Role: Role("BOGUS")}.IsStaff())
}

func TestActorCanApprove(t *testing.T) {
	assert.False(t, Actor{Role: RoleClient}.CanApprove())
	assert.False(t, Actor{Role: RoleSales}.CanApprove())
	assert.True(t, Actor{Role: RoleManager}.CanApprove())
	assert.True(t, Actor{Role: RoleAdmin}.CanApprove())
	assert.True(t, Actor{Role: RoleOwner}.CanApprove())
	assert.True(t, Actor{Role: RoleSuperuser}.CanApprove())
	assert.True(t, Actor{Role: RoleClient, IsSuperuser: true}.CanApprove())
}

func TestDefaultAccessPolicy(t *testing.T) {
	policy := DefaultAccessPolicy()

	// Every role's allowlist is explicit in the table
	for _, ns := range AllNamespaces() {
		assert.True(t, policy.Allows(RoleAdmin, ns), "admin should reach %s", ns)
		assert.True(t, policy.Allows(RoleOwner, ns), "owner should reach %s", ns)
	}

	assert.True(t, policy.Allows(RoleSales, NamespacePayments))
	assert.True(t, policy.Allows(RoleSales, NamespaceSchemes))
	assert.False(t, policy.Allows(RoleSales, NamespaceNotifications))
	assert.False(t, policy.Allows(RoleSales, NamespaceAPI))

	assert.True(t, policy.Allows(RoleClient, NamespaceBookings))
	assert.False(t, policy.Allows(RoleClient, NamespaceEditRequests))
	assert.False(t, policy.Allows(RoleClient, NamespaceInvoices))

	assert.False(t, policy.Allows(Role("BOGUS"), NamespaceClients))
}
