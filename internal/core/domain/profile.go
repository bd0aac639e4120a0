package domain

import "time"

// Profile is the extended operator profile served by the API. It enriches
// the token-derived User and is cached locally; losing it never invalidates
// the session.
type Profile struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
	LeagueID  string `json:"league_id,omitempty"`
	TeamID    string `json:"team_id,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Tournament is the read model for the tournament listing surface.
type Tournament struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phase     string    `json:"phase"`
	StartsAt  time.Time `json:"starts_at"`
	TeamCount int       `json:"team_count"`
}

// Match is the read model for fixtures within a tournament.
type Match struct {
	ID        string    `json:"id"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	KickoffAt time.Time `json:"kickoff_at"`
	Status    string    `json:"status"`
	HomeScore int       `json:"home_score"`
	AwayScore int       `json:"away_score"`
}
