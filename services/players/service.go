// Package players derives a player's season-by-season history and a
// weighted average of their recent output.
package players

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sort"

	"footylens-backend/lib/outcome"
	"footylens-backend/lib/scrapers/whoscored"
	"footylens-backend/services/searchlog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("services/players")

// seasons beyond the most recent five are excluded from both storage
// and averaging
const maxSeasons = 5

type Service struct {
	client   *whoscored.Client
	recorder searchlog.Recorder
}

func NewService(client *whoscored.Client, recorder searchlog.Recorder) Service {
	return Service{
		client:   client,
		recorder: recorder,
	}
}

type AveragePerformance struct {
	Appearances float64
	Goals       float64
	Assists     float64
	// weighted by appearances, not a simple mean of season ratings
	Rating float64
	// goal contributions per appearance across the kept seasons
	PerformanceScore float64
}

// PlayerPerformance keeps seasons newest first, capped at five. The
// average is computed once from the capped list at construction and
// never recomputed.
type PlayerPerformance struct {
	Name    string
	Seasons []whoscored.SeasonPerformance
	Average AveragePerformance
}

func (s Service) GetPlayerPerformance(ctx context.Context, name, user string) (outcome.Value[PlayerPerformance], error) {
	ctx, span := tracer.Start(ctx, "GetPlayerPerformance")
	defer span.End()
	span.SetAttributes(attribute.String("player", name))

	player, err := s.client.ResolvePlayer(ctx, name)
	if errors.Is(err, whoscored.ErrNotFound) {
		return outcome.NotFound[PlayerPerformance](), nil
	}
	var malformed *whoscored.MalformedURLError
	if errors.As(err, &malformed) {
		return outcome.Value[PlayerPerformance]{}, err
	}
	if err != nil {
		slog.WarnContext(ctx, "player resolution failed", "player", name, "err", err)
		span.RecordError(err)
		return outcome.Failed[PlayerPerformance](err), nil
	}

	seasons, err := s.client.FetchPlayerSeasons(ctx, player.ID)
	if err != nil {
		slog.WarnContext(ctx, "player history fetch failed", "player", name, "err", err)
		span.RecordError(err)
		return outcome.Failed[PlayerPerformance](err), nil
	}

	performance := buildPerformance(name, seasons)

	if s.recorder != nil && user != "" {
		err := s.recorder.Record(ctx, searchlog.Event{
			User:  user,
			Kind:  "player",
			Query: name,
		})
		if err != nil {
			slog.WarnContext(ctx, "failed to record search event",
				"user", user, "player", name, "err", err)
		}
	}

	return outcome.Ok(performance), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func buildPerformance(name string, seasons []whoscored.SeasonPerformance) PlayerPerformance {
	kept := make([]whoscored.SeasonPerformance, len(seasons))
	copy(kept, seasons)
	// season identifiers like "2023/2024" order correctly as strings
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Season > kept[j].Season
	})
	if len(kept) > maxSeasons {
		kept = kept[:maxSeasons]
	}

	return PlayerPerformance{
		Name:    name,
		Seasons: kept,
		Average: buildAverage(kept),
	}
}

func buildAverage(seasons []whoscored.SeasonPerformance) AveragePerformance {
	if len(seasons) == 0 {
		return AveragePerformance{}
	}

	totalApps, totalGoals, totalAssists := 0, 0, 0
	weightedRating := 0.0
	plainRating := 0.0
	for _, season := range seasons {
		totalApps += season.Appearances
		totalGoals += season.Goals
		totalAssists += season.Assists
		weightedRating += season.Rating * float64(season.Appearances)
		plainRating += season.Rating
	}

	n := float64(len(seasons))
	average := AveragePerformance{
		Appearances: round2(float64(totalApps) / n),
		Goals:       round2(float64(totalGoals) / n),
		Assists:     round2(float64(totalAssists) / n),
	}
	if totalApps > 0 {
		average.Rating = round2(weightedRating / float64(totalApps))
		average.PerformanceScore = round2(float64(totalGoals+totalAssists) / float64(totalApps))
	} else {
		// nothing to weight by, fall back to the plain mean
		average.Rating = round2(plainRating / n)
	}
	return average
}
