package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(predictCmd)
}

var predictCmd = &cobra.Command{
	Use:   "predict <name> <country>",
	Short: "Predict the outcome of a team's next fixture.",
	Run: func(cmd *cobra.Command, args []string) {
		result, err := predictSvc.PredictNext(cmd.Context(), args[0], args[1], flagUser)
		if err != nil {
			fatal("predict next match", err)
		}
		if !result.IsFound() {
			reportEmpty(result.State, args[0], result.Err)
			return
		}
		prediction := result.Data

		fmt.Printf("%s vs %s: %s\n",
			prediction.HomeTeam, prediction.AwayTeam, prediction.PredictedResult)

		if len(prediction.RecentMeetings) > 0 {
			t := newTable()
			t.AppendHeader(table.Row{"date", "competition", "home", "score", "away"})
			for _, meeting := range prediction.RecentMeetings {
				t.AppendRow(table.Row{
					meeting.Date, meeting.Competition,
					meeting.HomeTeam,
					fmt.Sprintf("%s : %s", meeting.HomeScore, meeting.AwayScore),
					meeting.AwayTeam,
				})
			}
			t.Render()
		}
	},
	Args: cobra.ExactArgs(2),
}
