package authz

// Evaluator answers role and permission questions against a fixed matrix
// and route classifier. Every query is pure: for a fixed (principal,
// matrix) pair the same call always yields the same answer.
type Evaluator struct {
	matrix     *Matrix
	classifier *Classifier
}

// NewEvaluator constructs an Evaluator over the given matrix and classifier.
func NewEvaluator(m *Matrix, c *Classifier) *Evaluator {
	return &Evaluator{matrix: m, classifier: c}
}

// HasRole reports an exact match on the principal's role. No hierarchy, no
// wildcard. Nil or deactivated principals never hold a role.
func (e *Evaluator) HasRole(p *Principal, role Role) bool {
	if p == nil || !p.Active {
		return false
	}
	return p.Role == role
}

// IsAdmin reports whether the principal holds the admin role.
func (e *Evaluator) IsAdmin(p *Principal) bool {
	return e.HasRole(p, RoleAdmin)
}

// IsEmployee reports whether the principal holds the employee role.
func (e *Evaluator) IsEmployee(p *Principal) bool {
	return e.HasRole(p, RoleEmployee)
}

// CanPerform reports whether the principal's role is admitted to the
// (category, action) cell. An unknown pair returns ErrUnknownPermission
// rather than a silent deny: the pairs are a closed set, so the caller has
// made a programming error and a plain false would be indistinguishable
// from a legitimate denial.
func (e *Evaluator) CanPerform(p *Principal, c Category, a Action) (bool, error) {
	roles, err := e.matrix.cell(c, a)
	if err != nil {
		return false, err
	}
	if p == nil || !p.Active {
		return false, nil
	}
	for _, r := range roles {
		if r == p.Role {
			return true, nil
		}
	}
	return false, nil
}

// ClassifyRoute buckets a path into its access tier. The second return is
// false when no tier pattern matches the path.
func (e *Evaluator) ClassifyRoute(path string) (Tier, bool) {
	return e.classifier.Classify(path)
}

// AuthorizeRoute decides admit/deny for a path. Public routes admit anyone,
// including the unauthenticated; admin-only routes require the admin role;
// shared routes admit admins and employees. Unmatched paths are denied.
func (e *Evaluator) AuthorizeRoute(p *Principal, path string) bool {
	tier, ok := e.classifier.Classify(path)
	if !ok {
		return false
	}
	switch tier {
	case TierPublic:
		return true
	case TierAdminOnly:
		return e.IsAdmin(p)
	case TierShared:
		return e.IsAdmin(p) || e.IsEmployee(p)
	default:
		return false
	}
}
