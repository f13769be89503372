package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	configsqlite "footylens-backend/lib/configutil/sqlite"
	"footylens-backend/lib/scrapers/whoscored"
	"footylens-backend/lib/telemetry"
	"footylens-backend/services/players"
	"footylens-backend/services/predictions"
	"footylens-backend/services/searchlog"
	"footylens-backend/services/teams"

	"github.com/spf13/cobra"
)

var (
	flagVerbose bool
	flagBaseURL string
	flagDBPath  string
	flagUser    string
	flagDumpDir string

	client       *whoscored.Client
	store        searchlog.Store
	storeReady   bool
	teamsSvc     teams.Service
	playersSvc   players.Service
	predictSvc   predictions.Service
	shutdownTele func()
)

var rootCmd = &cobra.Command{
	Use:   "footylens",
	Short: "Pull football team and player statistics out of whoscored.com.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(flagVerbose)

		tel, err := telemetry.SetupFromEnv(cmd.Context(), "footylens")
		if err != nil {
			slog.Debug("telemetry disabled", "err", err)
			shutdownTele = func() {}
		} else {
			telemetry.InstrumentPerfStats(cmd.Context())
			shutdownTele = func() {
				err := tel.Shutdown(context.Background())
				if err != nil {
					slog.Warn("telemetry shutdown", "err", err)
				}
			}
		}

		client, err = whoscored.NewClient(whoscored.ClientOptions{
			BaseURL: flagBaseURL,
			DumpDir: flagDumpDir,
		})
		if err != nil {
			return err
		}

		var recorder searchlog.Recorder
		if flagDBPath != "" {
			database, err := configsqlite.Struct{File: flagDBPath}.OpenDB()
			if err != nil {
				return fmt.Errorf("open search history db: %w", err)
			}
			store, err = searchlog.NewStore(database)
			if err != nil {
				return fmt.Errorf("init search history db: %w", err)
			}
			storeReady = true
			recorder = store
		}

		teamsSvc = teams.NewService(client, recorder)
		playersSvc = players.NewService(client, recorder)
		predictSvc = predictions.NewService(client, recorder)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		client.Close()
		shutdownTele()
	},
}

func fatal(context string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", context, err.Error())
	os.Exit(1)
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "override the source site url")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "footylens.db", "search history database path, empty disables recording")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "identity token to record searches under")
	rootCmd.PersistentFlags().StringVar(&flagDumpDir, "dump-http", "", "dump every http exchange into this directory")

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
