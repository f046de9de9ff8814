// Package capability projects the permission matrix into the flat boolean
// flags and the navigation menu the UI renders from.
package capability

import (
	"sync"

	"github.com/carelink-his/carelink/internal/authz"
)

// Set is the flat record of UI capabilities for one principal. One flag per
// (category, action) cell of the matrix.
type Set struct {
	UsersView    bool `json:"users_view"`
	UsersCreate  bool `json:"users_create"`
	UsersUpdate  bool `json:"users_update"`
	UsersDelete  bool `json:"users_delete"`

	PatientsView   bool `json:"patients_view"`
	PatientsCreate bool `json:"patients_create"`
	PatientsUpdate bool `json:"patients_update"`
	PatientsDelete bool `json:"patients_delete"`

	RecordsView   bool `json:"records_view"`
	RecordsCreate bool `json:"records_create"`
	RecordsUpdate bool `json:"records_update"`
	RecordsDelete bool `json:"records_delete"`

	TransfersView     bool `json:"transfers_view"`
	TransfersCreate   bool `json:"transfers_create"`
	TransfersUpdate   bool `json:"transfers_update"`
	TransfersDelete   bool `json:"transfers_delete"`
	TransfersReceive  bool `json:"transfers_receive"`
	TransfersComplete bool `json:"transfers_complete"`
}

// Projector derives capability sets from the evaluator, memoized on
// principal identity. Identity means the same *Principal pointer, not deep
// equality: the session layer hands out one pointer per login, so a changed
// pointer signals a changed principal. The memo is a performance contract
// for downstream consumers that compare output references, not a
// correctness requirement.
type Projector struct {
	eval *authz.Evaluator

	mu     sync.Mutex
	last   *authz.Principal
	cached *Set
	valid  bool
}

// NewProjector constructs a Projector over the evaluator.
func NewProjector(eval *authz.Evaluator) *Projector {
	return &Projector{eval: eval}
}

// Project returns the capability set for the principal. A nil principal
// takes the fast path: the zero set, with no evaluator calls. Repeated
// calls with the same principal pointer return the same *Set.
func (pr *Projector) Project(p *authz.Principal) (*Set, error) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	if pr.valid && p == pr.last {
		return pr.cached, nil
	}
	set, err := pr.build(p)
	if err != nil {
		return nil, err
	}
	pr.last = p
	pr.cached = set
	pr.valid = true
	return set, nil
}

func (pr *Projector) build(p *authz.Principal) (*Set, error) {
	set := &Set{}
	if p == nil {
		return set, nil
	}
	flags := []struct {
		dest     *bool
		category authz.Category
		action   authz.Action
	}{
		{&set.UsersView, authz.CategoryUsers, authz.ActionView},
		{&set.UsersCreate, authz.CategoryUsers, authz.ActionCreate},
		{&set.UsersUpdate, authz.CategoryUsers, authz.ActionUpdate},
		{&set.UsersDelete, authz.CategoryUsers, authz.ActionDelete},
		{&set.PatientsView, authz.CategoryPatients, authz.ActionView},
		{&set.PatientsCreate, authz.CategoryPatients, authz.ActionCreate},
		{&set.PatientsUpdate, authz.CategoryPatients, authz.ActionUpdate},
		{&set.PatientsDelete, authz.CategoryPatients, authz.ActionDelete},
		{&set.RecordsView, authz.CategoryRecords, authz.ActionView},
		{&set.RecordsCreate, authz.CategoryRecords, authz.ActionCreate},
		{&set.RecordsUpdate, authz.CategoryRecords, authz.ActionUpdate},
		{&set.RecordsDelete, authz.CategoryRecords, authz.ActionDelete},
		{&set.TransfersView, authz.CategoryTransfers, authz.ActionView},
		{&set.TransfersCreate, authz.CategoryTransfers, authz.ActionCreate},
		{&set.TransfersUpdate, authz.CategoryTransfers, authz.ActionUpdate},
		{&set.TransfersDelete, authz.CategoryTransfers, authz.ActionDelete},
		{&set.TransfersReceive, authz.CategoryTransfers, authz.ActionReceive},
		{&set.TransfersComplete, authz.CategoryTransfers, authz.ActionComplete},
	}
	for _, f := range flags {
		allowed, err := pr.eval.CanPerform(p, f.category, f.action)
		if err != nil {
			return nil, err
		}
		*f.dest = allowed
	}
	return set, nil
}
