package service

import (
	"strings"

	"github.com/torneoops/matchday/internal/core/domain"
)

// stateSource is the slice of the session surface the guard needs.
type stateSource interface {
	CurrentState() domain.AuthState
}

// restrictedPrefixes maps route prefixes to the roles allowed behind them.
// Routes without an entry only require an authenticated session.
var restrictedPrefixes = map[string][]domain.Role{
	domain.RouteSuperadminHome:  {domain.RoleSuperadmin},
	domain.RouteLeagueHome:      {domain.RoleSuperadmin, domain.RoleLeague},
	domain.RouteTeamHome:        {domain.RoleSuperadmin, domain.RoleLeague, domain.RoleTeam},
	domain.RouteOfficialMatches: {domain.RoleSuperadmin, domain.RoleOfficial},
}

// RouteGuard decides route access from the latest session snapshot. It reads
// state synchronously and never mutates it.
type RouteGuard struct {
	session stateSource
}

func NewRouteGuard(session stateSource) *RouteGuard {
	return &RouteGuard{session: session}
}

// Allow reports whether route may be entered now. When denied it returns the
// route to redirect to instead.
func (g *RouteGuard) Allow(route string) (bool, string) {
	if domain.PublicRoute(route) {
		return true, ""
	}

	st := g.session.CurrentState()
	if !st.Authenticated {
		return false, domain.RouteLanding
	}

	for prefix, roles := range restrictedPrefixes {
		if !strings.HasPrefix(route, prefix) {
			continue
		}
		for _, role := range roles {
			if st.User.Role == role {
				return true, ""
			}
		}
		return false, domain.LandingRoute(st.User.Role)
	}
	return true, ""
}
