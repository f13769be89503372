package main

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the recorded searches for the current user.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if !storeReady || flagUser == "" {
			fatal("history", errNoHistory)
			return
		}
		events, err := store.History(cmd.Context(), flagUser, 50)
		if err != nil {
			fatal("load search history", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"time", "kind", "query"})
		for _, event := range events {
			t.AppendRow(table.Row{
				event.Time.Format(time.DateTime), event.Kind, event.Query,
			})
		}
		t.Render()
	},
}
