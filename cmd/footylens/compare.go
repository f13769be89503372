package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(compareCmd)
}

var compareCmd = &cobra.Command{
	Use:   "compare <team 1> <country 1> <team 2> <country 2>",
	Short: "Compare two teams' aggregated statistics side by side.",
	Args:  cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		result, err := teamsSvc.Compare(
			cmd.Context(), args[0], args[1], args[2], args[3], flagUser)
		if err != nil {
			fatal("compare teams", err)
		}
		if !result.IsFound() {
			reportEmpty(result.State, fmt.Sprintf("%s / %s", args[0], args[2]), result.Err)
			return
		}
		comparison := result.Data

		t := newTable()
		t.AppendHeader(table.Row{comparison.Left.TeamName, comparison.Right.TeamName})
		for i := range comparison.LeftNotes {
			t.AppendRow(table.Row{comparison.LeftNotes[i], comparison.RightNotes[i]})
		}
		t.Render()

		fmt.Println(comparison.Verdict)
	},
}
