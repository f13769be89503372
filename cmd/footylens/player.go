package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(playerCmd)
}

var playerCmd = &cobra.Command{
	Use:   "player <name>",
	Short: "Show a player's recent seasons and weighted averages.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		result, err := playersSvc.GetPlayerPerformance(cmd.Context(), args[0], flagUser)
		if err != nil {
			fatal("get player performance", err)
		}
		if !result.IsFound() {
			reportEmpty(result.State, args[0], result.Err)
			return
		}
		performance := result.Data

		t := newTable()
		t.AppendHeader(table.Row{"season", "team", "competition", "apps", "goals", "assists", "rating"})
		for _, season := range performance.Seasons {
			t.AppendRow(table.Row{
				season.Season, season.Team, season.Competition,
				season.Appearances, season.Goals, season.Assists, season.Rating,
			})
		}
		average := performance.Average
		t.AppendFooter(table.Row{
			"average", "", "",
			average.Appearances, average.Goals, average.Assists, average.Rating,
		})
		t.Render()
	},
}
