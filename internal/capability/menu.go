package capability

import "github.com/carelink-his/carelink/internal/authz"

// NavItem is one entry in the navigation menu.
type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// navCandidates is every page the menu can show, in render order. The
// evaluator's route tiers decide which entries a principal actually sees.
var navCandidates = []NavItem{
	{Label: "Dashboard", Path: "/dashboard"},
	{Label: "Patients", Path: "/patients"},
	{Label: "Records", Path: "/records"},
	{Label: "Transfers", Path: "/transfers"},
	{Label: "Reports", Path: "/reports"},
	{Label: "Users", Path: "/users"},
	{Label: "Administration", Path: "/admin"},
}

// Menu returns the navigation entries the principal may reach, preserving
// render order. An unauthenticated principal gets an empty menu since no
// candidate page is public.
func (pr *Projector) Menu(p *authz.Principal) []NavItem {
	items := make([]NavItem, 0, len(navCandidates))
	for _, item := range navCandidates {
		if pr.eval.AuthorizeRoute(p, item.Path) {
			items = append(items, item)
		}
	}
	return items
}
