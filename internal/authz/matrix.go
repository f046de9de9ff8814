package authz

import (
	"errors"
	"fmt"
)

// ErrUnknownPermission indicates a lookup for a (category, action) pair the
// matrix does not define. The pairs are a closed, statically known set, so
// hitting this error is a programming mistake in the caller and must surface
// loudly rather than read as a deny.
var ErrUnknownPermission = errors.New("authz: unknown category/action pair")

// actionsByCategory is the closed action set per category. The matrix
// refuses cells outside this shape at construction time.
var actionsByCategory = map[Category][]Action{
	CategoryUsers:     {ActionView, ActionCreate, ActionUpdate, ActionDelete},
	CategoryPatients:  {ActionView, ActionCreate, ActionUpdate, ActionDelete},
	CategoryRecords:   {ActionView, ActionCreate, ActionUpdate, ActionDelete},
	CategoryTransfers: {ActionView, ActionCreate, ActionUpdate, ActionDelete, ActionReceive, ActionComplete},
}

// Categories returns the closed category set in declaration order.
func Categories() []Category {
	return []Category{CategoryUsers, CategoryPatients, CategoryRecords, CategoryTransfers}
}

// ActionsFor returns the closed action set defined on a category.
func ActionsFor(c Category) []Action {
	actions := make([]Action, len(actionsByCategory[c]))
	copy(actions, actionsByCategory[c])
	return actions
}

// Matrix is the static mapping from resource category and action to the
// roles admitted to that cell. Immutable after construction and shared by
// reference across all evaluations.
type Matrix struct {
	cells map[Category]map[Action][]Role
}

// NewMatrix validates and freezes a permission matrix. Every category must
// be known, every action must belong to its category's closed action set,
// every cell must be fully populated, and admitted roles must be known and
// free of duplicates.
func NewMatrix(cells map[Category]map[Action][]Role) (*Matrix, error) {
	known := make(map[Role]struct{}, len(Roles()))
	for _, r := range Roles() {
		known[r] = struct{}{}
	}

	frozen := make(map[Category]map[Action][]Role, len(cells))
	for category, actions := range cells {
		declared, ok := actionsByCategory[category]
		if !ok {
			return nil, fmt.Errorf("authz: unknown category %q", category)
		}
		if len(actions) != len(declared) {
			return nil, fmt.Errorf("authz: category %q must define exactly its declared actions", category)
		}
		frozenActions := make(map[Action][]Role, len(actions))
		for action, roles := range actions {
			if !actionDeclared(declared, action) {
				return nil, fmt.Errorf("authz: action %q not defined on category %q", action, category)
			}
			seen := make(map[Role]struct{}, len(roles))
			cell := make([]Role, 0, len(roles))
			for _, role := range roles {
				if _, ok := known[role]; !ok {
					return nil, fmt.Errorf("authz: unknown role %q in cell %s/%s", role, category, action)
				}
				if _, dup := seen[role]; dup {
					return nil, fmt.Errorf("authz: duplicate role %q in cell %s/%s", role, category, action)
				}
				seen[role] = struct{}{}
				cell = append(cell, role)
			}
			frozenActions[action] = cell
		}
		frozen[category] = frozenActions
	}

	for _, category := range Categories() {
		if _, ok := frozen[category]; !ok {
			return nil, fmt.Errorf("authz: category %q missing from matrix", category)
		}
	}

	return &Matrix{cells: frozen}, nil
}

// DefaultMatrix builds the CareLink permission matrix. Construction problems
// are programming errors in the literal below, so it panics rather than
// returning an error.
func DefaultMatrix() *Matrix {
	m, err := NewMatrix(map[Category]map[Action][]Role{
		CategoryUsers: {
			ActionView:   {RoleAdmin},
			ActionCreate: {RoleAdmin},
			ActionUpdate: {RoleAdmin},
			ActionDelete: {RoleAdmin},
		},
		CategoryPatients: {
			ActionView:   {RoleAdmin, RoleEmployee},
			ActionCreate: {RoleAdmin, RoleEmployee},
			ActionUpdate: {RoleAdmin, RoleEmployee},
			ActionDelete: {RoleAdmin},
		},
		CategoryRecords: {
			ActionView:   {RoleAdmin, RoleEmployee},
			ActionCreate: {RoleAdmin, RoleEmployee},
			ActionUpdate: {RoleAdmin, RoleEmployee},
			ActionDelete: {RoleAdmin},
		},
		CategoryTransfers: {
			ActionView:     {RoleAdmin, RoleEmployee},
			ActionCreate:   {RoleAdmin, RoleEmployee},
			ActionUpdate:   {RoleAdmin},
			ActionDelete:   {RoleAdmin},
			ActionReceive:  {RoleAdmin, RoleEmployee},
			ActionComplete: {RoleAdmin, RoleEmployee},
		},
	})
	if err != nil {
		panic(err)
	}
	return m
}

// cell returns the admitted roles for a (category, action) pair.
func (m *Matrix) cell(c Category, a Action) ([]Role, error) {
	actions, ok := m.cells[c]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownPermission, c, a)
	}
	roles, ok := actions[a]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownPermission, c, a)
	}
	return roles, nil
}

// Admits reports whether the cell for (category, action) includes role.
func (m *Matrix) Admits(c Category, a Action, role Role) (bool, error) {
	roles, err := m.cell(c, a)
	if err != nil {
		return false, err
	}
	for _, r := range roles {
		if r == role {
			return true, nil
		}
	}
	return false, nil
}

func actionDeclared(declared []Action, a Action) bool {
	for _, d := range declared {
		if d == a {
			return true
		}
	}
	return false
}
