package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torneoops/matchday/internal/core/domain"
)

func tournamentsCmd() *cobra.Command {
	var matchesOf string

	cmd := &cobra.Command{
		Use:   "tournaments",
		Short: "List tournaments, or fixtures of one tournament",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			if allowed, redirect := a.guard.Allow(domain.RouteLeagueHome); !allowed {
				return fmt.Errorf("not signed in (redirected to %s); run `matchday login` first", redirect)
			}

			if matchesOf != "" {
				matches, err := a.tournaments.ListMatches(cmd.Context(), matchesOf)
				if err != nil {
					return err
				}
				for _, m := range matches {
					fmt.Printf("%-12s %s vs %s  %d-%d  %s  %s\n",
						m.ID, m.HomeTeam, m.AwayTeam, m.HomeScore, m.AwayScore,
						m.Status, m.KickoffAt.Format("2006-01-02 15:04"))
				}
				return nil
			}

			tournaments, err := a.tournaments.ListTournaments(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range tournaments {
				fmt.Printf("%-12s %-30s %-12s %2d teams  starts %s\n",
					t.ID, t.Name, t.Phase, t.TeamCount, t.StartsAt.Format("2006-01-02"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&matchesOf, "matches", "", "tournament id to list fixtures for")
	return cmd
}
