package rest

import (
	"context"
	"fmt"

	"github.com/torneoops/matchday/internal/core/domain"
	"github.com/torneoops/matchday/internal/core/ports"
)

// ProfileClient loads the extended operator profile.
type ProfileClient struct {
	transport ports.Transport
}

func NewProfileClient(transport ports.Transport) *ProfileClient {
	return &ProfileClient{transport: transport}
}

func (c *ProfileClient) LoadProfile(ctx context.Context) (domain.Profile, error) {
	var profile domain.Profile
	if err := c.transport.Get(ctx, "/api/profile", &profile); err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}

// TournamentClient is the thin read-only surface over the tournament API.
type TournamentClient struct {
	transport ports.Transport
}

func NewTournamentClient(transport ports.Transport) *TournamentClient {
	return &TournamentClient{transport: transport}
}

func (c *TournamentClient) ListTournaments(ctx context.Context) ([]domain.Tournament, error) {
	var tournaments []domain.Tournament
	if err := c.transport.Get(ctx, "/api/tournaments", &tournaments); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (c *TournamentClient) ListMatches(ctx context.Context, tournamentID string) ([]domain.Match, error) {
	var matches []domain.Match
	path := fmt.Sprintf("/api/tournaments/%s/matches", tournamentID)
	if err := c.transport.Get(ctx, path, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}
