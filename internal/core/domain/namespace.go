package domain

// Namespace is a coarse functional area of the application, used as the
// unit of access control. Coarser than an individual route.
type Namespace string

const (
	NamespaceAccounts      Namespace = "accounts"
	NamespaceClients       Namespace = "clients"
	NamespaceApplications  Namespace = "applications"
	NamespaceBookings      Namespace = "bookings"
	NamespaceDocuments     Namespace = "documents"
	NamespacePayments      Namespace = "payments"
	NamespaceSchemes       Namespace = "schemes"
	NamespaceEditRequests  Namespace = "edit_requests"
	NamespaceNotifications Namespace = "notifications"
	NamespaceInvoices      Namespace = "invoices"
	NamespaceAPI           Namespace = "api"
)

// AllNamespaces lists every known namespace
func AllNamespaces() []Namespace {
	return []Namespace{
		NamespaceAccounts,
		NamespaceClients,
		NamespaceApplications,
		NamespaceBookings,
		NamespaceDocuments,
		NamespacePayments,
		NamespaceSchemes,
		NamespaceEditRequests,
		NamespaceNotifications,
		NamespaceInvoices,
		NamespaceAPI,
	}
}

// AccessPolicy maps each role to the namespaces it may reach.
// Every role's allowlist is explicit: hierarchy is NOT implied by this
// table, even where higher roles happen to hold supersets.
type AccessPolicy map[Role][]Namespace

// DefaultAccessPolicy returns the shipped role->namespace allowlist.
// The guard receives a policy value at construction time so deployments
// and tests can override it.
func DefaultAccessPolicy() AccessPolicy {
	staffCore := []Namespace{
		NamespaceAccounts,
		NamespaceClients,
		NamespaceApplications,
		NamespaceBookings,
		NamespaceDocuments,
		NamespacePayments,
		NamespaceSchemes,
		NamespaceEditRequests,
		NamespaceInvoices,
	}

	return AccessPolicy{
		RoleSuperuser: AllNamespaces(),
		RoleOwner:     AllNamespaces(),
		RoleAdmin:     AllNamespaces(),
		RoleManager:   staffCore,
		RoleSales:     staffCore,
		RoleClient: []Namespace{
			NamespaceAccounts,
			NamespaceClients,
			NamespaceApplications,
			NamespaceBookings,
			NamespaceDocuments,
			NamespacePayments,
			NamespaceSchemes,
		},
	}
}

// Allows reports whether role may reach ns under this policy
func (p AccessPolicy) Allows(role Role, ns Namespace) bool {
	for _, allowed := range p[role] {
		if allowed == ns {
			return true
		}
	}
	return false
}
