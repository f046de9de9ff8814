package authz

import (
	"fmt"
	"strings"
)

// Tier is the coarse access bucket a navigable path falls into.
type Tier int

const (
	// TierPublic routes are reachable before authentication.
	TierPublic Tier = iota
	// TierAdminOnly routes require the admin role.
	TierAdminOnly
	// TierShared routes admit any active admin or employee.
	TierShared
)

// String returns the tier name for logs.
func (t Tier) String() string {
	switch t {
	case TierPublic:
		return "public"
	case TierAdminOnly:
		return "admin-only"
	case TierShared:
		return "shared"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// routeRule binds a literal path prefix to its tier. Rules are evaluated in
// list order, so precedence is positional: all public rules sit before
// admin-only rules, which sit before shared rules.
type routeRule struct {
	prefix string
	tier   Tier
}

// Classifier matches paths against the compiled, precedence-ordered rule
// list. Patterns are literal prefixes; a pattern matches any path it is a
// prefix of. Placeholders are not expanded.
type Classifier struct {
	rules []routeRule
}

// NewClassifier compiles the three tier groups into one ordered rule list,
// preserving the public, then admin-only, then shared precedence. Patterns
// across different groups must be disjoint: if a pattern in one group were
// a prefix of a pattern in another, the later group's pattern could never
// win and the route table would be lying about reachability.
func NewClassifier(public, adminOnly, shared []string) (*Classifier, error) {
	groups := []struct {
		tier     Tier
		patterns []string
	}{
		{TierPublic, public},
		{TierAdminOnly, adminOnly},
		{TierShared, shared},
	}

	var rules []routeRule
	for _, g := range groups {
		for _, pattern := range g.patterns {
			if pattern == "" || !strings.HasPrefix(pattern, "/") {
				return nil, fmt.Errorf("authz: route pattern %q must start with /", pattern)
			}
			for _, existing := range rules {
				if existing.tier == g.tier {
					continue
				}
				if strings.HasPrefix(pattern, existing.prefix) || strings.HasPrefix(existing.prefix, pattern) {
					return nil, fmt.Errorf("authz: route pattern %q overlaps %q across tiers", pattern, existing.prefix)
				}
			}
			rules = append(rules, routeRule{prefix: pattern, tier: g.tier})
		}
	}
	return &Classifier{rules: rules}, nil
}

// DefaultClassifier builds the CareLink route table. Panics on overlap,
// which would be a mistake in the literals below.
func DefaultClassifier() *Classifier {
	c, err := NewClassifier(
		[]string{"/welcome", "/auth/login", "/healthz", "/assets/"},
		[]string{"/api/users", "/users", "/admin"},
		[]string{
			"/api/patients", "/api/records", "/api/transfers", "/api/reports", "/api/refdata",
			"/api/capabilities", "/api/menu",
			"/dashboard", "/patients", "/records", "/transfers", "/reports",
		},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// Classify returns the tier of the first rule whose prefix matches path.
// The second return is false when no rule matches, which callers must treat
// as a deny.
func (c *Classifier) Classify(path string) (Tier, bool) {
	for _, rule := range c.rules {
		if strings.HasPrefix(path, rule.prefix) {
			return rule.tier, true
		}
	}
	return 0, false
}
