package domain

// Well-known application routes.
const (
	RouteLanding         = "/"
	RouteSuperadminHome  = "/admin"
	RouteLeagueHome      = "/league"
	RouteTeamHome        = "/team"
	RouteOfficialMatches = "/official/matches"
)

// LandingRoute maps a role to its post-login destination. It is a pure
// function evaluated after the state transition completes; an unknown role
// falls back to the public landing route.
func LandingRoute(role Role) string {
	switch role {
	case RoleSuperadmin:
		return RouteSuperadminHome
	case RoleLeague:
		return RouteLeagueHome
	case RoleTeam:
		return RouteTeamHome
	case RoleOfficial:
		return RouteOfficialMatches
	default:
		return RouteLanding
	}
}

// PublicRoute reports whether the route is reachable without a session.
func PublicRoute(route string) bool {
	switch route {
	case RouteLanding, "/login", "/register", "/verify", "/reset-password":
		return true
	}
	return false
}
