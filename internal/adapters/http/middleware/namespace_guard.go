package middleware

import (
	"fmt"
	"log"
	"strings"

	"consultease/internal/core/domain"
	"consultease/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AccessConfig configures the namespace guard. The guard holds no
// package state: everything it needs is passed in here.
type AccessConfig struct {
	// Policy maps each role to its allowed namespaces
	Policy domain.AccessPolicy

	// APIPrefix is stripped before resolving the namespace segment
	APIPrefix string

	// LoginPath receives unauthenticated requests to guarded paths
	LoginPath string

	// ExemptPrefixes bypass the guard entirely
	ExemptPrefixes []string
}

// DefaultAccessConfig returns the shipped guard configuration
func DefaultAccessConfig() AccessConfig {
	return AccessConfig{
		Policy:    domain.DefaultAccessPolicy(),
		APIPrefix: "/api/v1",
		LoginPath: "/api/v1/auth/login",
		ExemptPrefixes: []string{
			"/api/v1/auth",
			"/swagger",
			"/static",
			"/media",
			"/health",
		},
	}
}

// pathAliases maps first path segments that don't literally match a
// namespace name onto their governing namespace
var pathAliases = map[string]domain.Namespace{
	"users":         domain.NamespaceAccounts,
	"profile":       domain.NamespaceAccounts,
	"dashboard":     domain.NamespaceAccounts,
	"edit-requests": domain.NamespaceEditRequests,
	"revenue":       domain.NamespaceInvoices,
}

// resolveNamespace maps a request path to its namespace. The empty
// return means the path has no namespace and the guard stands aside.
func resolveNamespace(cfg AccessConfig, path string) domain.Namespace {
	rest := strings.TrimPrefix(path, cfg.APIPrefix)
	if rest == path {
		// Not under the API prefix: no namespace
		return ""
	}

	rest = strings.TrimPrefix(rest, "/")
	segment := rest
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		segment = rest[:idx]
	}
	if segment == "" {
		return ""
	}

	if ns, ok := pathAliases[segment]; ok {
		return ns
	}

	ns := domain.Namespace(segment)
	for _, known := range domain.AllNamespaces() {
		if ns == known {
			return ns
		}
	}

	// Unknown segment: let the router produce its own 404
	return ""
}

// NamespaceGuard decides ALLOW, redirect-to-login, or 403 for every
// request based on the actor's role and the namespace the path falls in.
// Install after OptionalAuth so the actor local is populated.
//
// The guard fails open on its own errors (logged, request proceeds) and
// fails closed only on an explicit role/namespace mismatch.
func NamespaceGuard(cfg AccessConfig) fiber.Handler {
	if cfg.Policy == nil {
		log.Printf("⚠️ Namespace guard constructed without a policy, all checks will fail open")
	}

	return func(c *fiber.Ctx) error {
		path := c.Path()

		// 1. Exempt prefixes bypass the guard entirely
		for _, prefix := range cfg.ExemptPrefixes {
			if strings.HasPrefix(path, prefix) {
				return c.Next()
			}
		}

		// 2. Paths without a namespace are not the guard's business
		ns := resolveNamespace(cfg, path)
		if ns == "" {
			return c.Next()
		}

		// 3. Unauthenticated requests go to login
		actor := ActorFromContext(c)
		if actor == nil {
			return c.Redirect(cfg.LoginPath, fiber.StatusFound)
		}

		// 4. Superusers bypass all namespace checks
		if actor.IsSuperuser {
			return c.Next()
		}

		// 5. An unusable policy or an unrecognized stored role is a
		// guard-internal problem, not the requester's: log and proceed
		if cfg.Policy == nil || !actor.Role.Valid() {
			log.Printf("⚠️ Namespace guard cannot evaluate role %q for %s, allowing", actor.Role, path)
			return c.Next()
		}

		// 6. Explicit mismatch is the only denial
		if !cfg.Policy.Allows(actor.Role, ns) {
			return response.Forbidden(c, fmt.Sprintf(
				"Role %s does not have access to the %s area", actor.Role, ns))
		}

		return c.Next()
	}
}
