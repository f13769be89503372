package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(fixturesCmd)
}

var teamCmd = &cobra.Command{
	Use:   "team <name> <country>",
	Short: "Show a team's aggregated season statistics.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		result, err := teamsSvc.GetTeamStats(cmd.Context(), args[0], args[1], flagUser)
		if err != nil {
			fatal("get team stats", err)
		}
		if !result.IsFound() {
			reportEmpty(result.State, args[0], result.Err)
			return
		}
		stats := result.Data

		t := newTable()
		t.AppendHeader(table.Row{"metric", "value"})
		t.AppendRows([]table.Row{
			{"team", fmt.Sprintf("%s (%s)", stats.TeamName, stats.Country)},
			{"squad size", stats.SquadSize},
			{"average age", stats.AverageAge},
			{"average rating", stats.AverageRating},
			{"goals", stats.TotalGoals},
			{"assists", stats.TotalAssists},
			{"record (W-D-L)", fmt.Sprintf("%d-%d-%d", stats.Wins, stats.Draws, stats.Defeats)},
			{"win rate", fmt.Sprintf("%.1f%%", stats.WinRate)},
			{"best player", stats.BestPlayer},
		})
		t.Render()
	},
}

var fixturesCmd = &cobra.Command{
	Use:   "fixtures <name> <country>",
	Short: "List a team's upcoming fixtures.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		result, err := teamsSvc.NextFixtures(cmd.Context(), args[0], args[1], 0)
		if err != nil {
			fatal("list fixtures", err)
		}
		if !result.IsFound() {
			reportEmpty(result.State, args[0], result.Err)
			return
		}

		t := newTable()
		t.AppendHeader(table.Row{"date", "competition", "home", "away"})
		for _, match := range result.Data {
			t.AppendRow(table.Row{match.Date, match.Competition, match.HomeTeam, match.AwayTeam})
		}
		t.Render()
	},
}
