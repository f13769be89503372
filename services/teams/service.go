// Package teams derives aggregate team statistics and side-by-side
// comparisons from scraped squad and fixture data.
package teams

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"footylens-backend/lib/outcome"
	"footylens-backend/lib/scrapers/whoscored"
	"footylens-backend/lib/textutil"
	"footylens-backend/services/searchlog"

	"github.com/sourcegraph/conc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("services/teams")

type Service struct {
	client *whoscored.Client
	// may be nil, in which case nothing is recorded
	recorder searchlog.Recorder
}

func NewService(client *whoscored.Client, recorder searchlog.Recorder) Service {
	return Service{
		client:   client,
		recorder: recorder,
	}
}

// TeamStats is assembled in two passes, squad-derived fields then
// fixture-derived fields, and is immutable afterwards.
type TeamStats struct {
	TeamName      string
	Country       string
	SquadSize     int
	AverageAge    float64
	AverageRating float64
	TotalGoals    int
	TotalAssists  int
	Wins          int
	Draws         int
	Defeats       int
	WinRate       float64
	BestPlayer    string
}

type UpcomingMatch struct {
	Date        string
	Competition string
	HomeTeam    string
	AwayTeam    string
}

type Comparison struct {
	Left       TeamStats
	Right      TeamStats
	LeftNotes  []string
	RightNotes []string
	Verdict    string
}

// GetTeamStats resolves a team and computes its aggregate statistics.
// The two source fetches (squad, fixtures) run sequentially; they are
// independent and could overlap, which is a performance opportunity
// rather than a correctness issue. The error return carries only hard
// contract violations (malformed profile urls); every transient
// problem resolves to an Unavailable outcome instead.
func (s Service) GetTeamStats(ctx context.Context, name, country, user string) (outcome.Value[TeamStats], error) {
	ctx, span := tracer.Start(ctx, "GetTeamStats")
	defer span.End()
	span.SetAttributes(
		attribute.String("team", name),
		attribute.String("country", country),
	)

	team, err := s.client.ResolveTeam(ctx, name, country)
	if errors.Is(err, whoscored.ErrNotFound) {
		return outcome.NotFound[TeamStats](), nil
	}
	var malformed *whoscored.MalformedURLError
	if errors.As(err, &malformed) {
		return outcome.Value[TeamStats]{}, err
	}
	if err != nil {
		slog.WarnContext(ctx, "team resolution failed", "team", name, "err", err)
		span.RecordError(err)
		return outcome.Failed[TeamStats](err), nil
	}

	squad, err := s.client.FetchSquad(ctx, team.ID)
	if err != nil {
		slog.WarnContext(ctx, "squad fetch failed", "team", name, "err", err)
		span.RecordError(err)
		return outcome.Failed[TeamStats](err), nil
	}

	fixtures, err := s.client.FetchFixtures(ctx, team)
	if err != nil {
		slog.WarnContext(ctx, "fixtures fetch failed", "team", name, "err", err)
		span.RecordError(err)
		return outcome.Failed[TeamStats](err), nil
	}
	played, _ := whoscored.SplitFixtures(fixtures)

	stats := buildTeamStats(team, squad, played)
	s.record(ctx, user, "team", fmt.Sprintf("%s (%s)", name, country))
	return outcome.Ok(stats), nil
}

// NextFixtures lists a team's upcoming matches in source order. A
// limit of 0 means all of them.
func (s Service) NextFixtures(ctx context.Context, name, country string, limit int) (outcome.Value[[]UpcomingMatch], error) {
	ctx, span := tracer.Start(ctx, "NextFixtures")
	defer span.End()
	span.SetAttributes(attribute.String("team", name))

	team, err := s.client.ResolveTeam(ctx, name, country)
	if errors.Is(err, whoscored.ErrNotFound) {
		return outcome.NotFound[[]UpcomingMatch](), nil
	}
	var malformed *whoscored.MalformedURLError
	if errors.As(err, &malformed) {
		return outcome.Value[[]UpcomingMatch]{}, err
	}
	if err != nil {
		span.RecordError(err)
		return outcome.Failed[[]UpcomingMatch](err), nil
	}

	fixtures, err := s.client.FetchFixtures(ctx, team)
	if err != nil {
		span.RecordError(err)
		return outcome.Failed[[]UpcomingMatch](err), nil
	}

	_, upcoming := whoscored.SplitFixtures(fixtures)
	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	matches := make([]UpcomingMatch, len(upcoming))
	for i, record := range upcoming {
		matches[i] = UpcomingMatch{
			Date:        record.Date,
			Competition: record.Competition,
			HomeTeam:    record.Home,
			AwayTeam:    record.Away,
		}
	}
	return outcome.Ok(matches), nil
}

// Compare computes both teams' full statistics concurrently and joins
// the results into a verdict.
func (s Service) Compare(ctx context.Context, leftName, leftCountry, rightName, rightCountry, user string) (outcome.Value[Comparison], error) {
	ctx, span := tracer.Start(ctx, "Compare")
	defer span.End()

	var left, right outcome.Value[TeamStats]
	var leftErr, rightErr error

	var wg conc.WaitGroup
	wg.Go(func() {
		left, leftErr = s.GetTeamStats(ctx, leftName, leftCountry, "")
	})
	wg.Go(func() {
		right, rightErr = s.GetTeamStats(ctx, rightName, rightCountry, "")
	})
	wg.Wait()

	if leftErr != nil {
		return outcome.Value[Comparison]{}, leftErr
	}
	if rightErr != nil {
		return outcome.Value[Comparison]{}, rightErr
	}
	if left.State == outcome.Absent || right.State == outcome.Absent {
		return outcome.NotFound[Comparison](), nil
	}
	if !left.IsFound() {
		return outcome.Failed[Comparison](left.Err), nil
	}
	if !right.IsFound() {
		return outcome.Failed[Comparison](right.Err), nil
	}

	comparison := compareStats(left.Data, right.Data)
	s.record(ctx, user, "compare", fmt.Sprintf("%s vs %s", leftName, rightName))
	return outcome.Ok(comparison), nil
}

func (s Service) record(ctx context.Context, user, kind, query string) {
	if s.recorder == nil || user == "" {
		return
	}
	err := s.recorder.Record(ctx, searchlog.Event{
		User:  user,
		Kind:  kind,
		Query: query,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to record search event",
			"user", user, "kind", kind, "err", err)
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// buildTeamStats runs the two aggregation passes. Ages and ratings the
// source omitted are excluded from their means, never counted as zero.
func buildTeamStats(team whoscored.TeamRef, squad []whoscored.Player, played []whoscored.FixtureRecord) TeamStats {
	stats := TeamStats{
		TeamName:  team.Name,
		Country:   team.Country,
		SquadSize: len(squad),
	}

	ageSum, ageCount := 0, 0
	ratingSum := 0.0
	ratingCount := 0
	bestRating := 0.0
	for _, player := range squad {
		if player.Age != nil {
			ageSum += *player.Age
			ageCount++
		}
		if player.Rating != nil {
			ratingSum += *player.Rating
			ratingCount++
			if stats.BestPlayer == "" || *player.Rating > bestRating {
				bestRating = *player.Rating
				stats.BestPlayer = player.Name
			}
		}
		stats.TotalGoals += player.Goals
		stats.TotalAssists += player.Assists
	}
	if ageCount > 0 {
		stats.AverageAge = round1(float64(ageSum) / float64(ageCount))
	}
	if ratingCount > 0 {
		stats.AverageRating = round1(ratingSum / float64(ratingCount))
	}

	for _, record := range played {
		home, away, ok := record.Score()
		if !ok {
			continue
		}
		isHome := textutil.EqualFold(record.Home, team.Name)
		mine, theirs := home, away
		if !isHome {
			mine, theirs = away, home
		}
		switch {
		case mine > theirs:
			stats.Wins++
		case mine < theirs:
			stats.Defeats++
		default:
			stats.Draws++
		}
	}
	total := stats.Wins + stats.Draws + stats.Defeats
	if total > 0 {
		stats.WinRate = round1(float64(stats.Wins) / float64(total) * 100)
	}

	return stats
}

func metricNote(mine, theirs float64, metric string) string {
	word := "Same"
	switch {
	case mine > theirs:
		word = "Higher"
	case mine < theirs:
		word = "Lower"
	}
	return fmt.Sprintf("%s %s (%.1f vs %.1f)", word, metric, mine, theirs)
}

func compareStats(left, right TeamStats) Comparison {
	comparison := Comparison{
		Left:  left,
		Right: right,
		LeftNotes: []string{
			metricNote(left.AverageAge, right.AverageAge, "average age"),
			metricNote(left.AverageRating, right.AverageRating, "average rating"),
			metricNote(left.WinRate, right.WinRate, "win rate"),
		},
		RightNotes: []string{
			metricNote(right.AverageAge, left.AverageAge, "average age"),
			metricNote(right.AverageRating, left.AverageRating, "average rating"),
			metricNote(right.WinRate, left.WinRate, "win rate"),
		},
	}

	ratingDiff := left.AverageRating - right.AverageRating
	winRateDiff := left.WinRate - right.WinRate
	switch {
	case math.Abs(ratingDiff) < 0.1 && math.Abs(winRateDiff) < 2:
		comparison.Verdict = fmt.Sprintf(
			"%s and %s are very similar sides", left.TeamName, right.TeamName)
	case ratingDiff > 0.2 && winRateDiff > 5:
		comparison.Verdict = fmt.Sprintf("%s looks clearly superior", left.TeamName)
	case ratingDiff < -0.2 && winRateDiff < -5:
		comparison.Verdict = fmt.Sprintf("%s looks clearly superior", right.TeamName)
	default:
		ratingLeader := left.TeamName
		if ratingDiff < 0 {
			ratingLeader = right.TeamName
		}
		winRateLeader := left.TeamName
		if winRateDiff < 0 {
			winRateLeader = right.TeamName
		}
		comparison.Verdict = fmt.Sprintf(
			"Close comparison: %s has the better rating, %s the better win rate",
			ratingLeader, winRateLeader)
	}
	return comparison
}
