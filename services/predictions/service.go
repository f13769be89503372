// Package predictions computes a coarse head-to-head outcome forecast
// for a team's next fixture from the historical collections embedded
// in the match detail page.
package predictions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"footylens-backend/lib/outcome"
	"footylens-backend/lib/scrapers/whoscored"
	"footylens-backend/lib/textutil"
	"footylens-backend/services/searchlog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("services/predictions")

const maxRecentMeetings = 5

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

type MatchPrediction struct {
	HomeTeam        string
	AwayTeam        string
	RecentMeetings  []whoscored.PreviousMatch
	PredictedResult string
}

// PredictNext forecasts the outcome of the team's next upcoming
// fixture. A team with no upcoming fixture yields an absent result,
// not an error.
func (s Service) PredictNext(ctx context.Context, name, country, user string) (outcome.Value[MatchPrediction], error) {
	ctx, span := tracer.Start(ctx, "PredictNext")
	defer span.End()
	span.SetAttributes(attribute.String("team", name))

	team, err := s.client.ResolveTeam(ctx, name, country)
	if errors.Is(err, whoscored.ErrNotFound) {
		return outcome.NotFound[MatchPrediction](), nil
	}
	var malformed *whoscored.MalformedURLError
	if errors.As(err, &malformed) {
		return outcome.Value[MatchPrediction]{}, err
	}
	if err != nil {
		slog.WarnContext(ctx, "team resolution failed", "team", name, "err", err)
		span.RecordError(err)
		return outcome.Failed[MatchPrediction](err), nil
	}

	fixtures, err := s.client.FetchFixtures(ctx, team)
	if err != nil {
		slog.WarnContext(ctx, "fixtures fetch failed", "team", name, "err", err)
		span.RecordError(err)
		return outcome.Failed[MatchPrediction](err), nil
	}

	_, upcoming := whoscored.SplitFixtures(fixtures)
	if len(upcoming) == 0 {
		slog.DebugContext(ctx, "no upcoming fixture to predict", "team", name)
		return outcome.NotFound[MatchPrediction](), nil
	}
	next := upcoming[0]

	history, err := s.client.FetchMatchHistory(ctx, next.MatchID)
	if err != nil {
		slog.WarnContext(ctx, "match history fetch failed",
			"team", name, "match_id", next.MatchID, "err", err)
		span.RecordError(err)
		return outcome.Failed[MatchPrediction](err), nil
	}

	prediction := buildPrediction(team.Name, next, history)
	s.record(ctx, user, fmt.Sprintf("%s vs %s", next.Home, next.Away))
	return outcome.Ok(prediction), nil
}

func (s Service) record(ctx context.Context, user, query string) {
	if s.recorder == nil || user == "" {
		return
	}
	err := s.recorder.Record(ctx, searchlog.Event{
		User:  user,
		Kind:  "prediction",
		Query: query,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to record search event",
			"user", user, "err", err)
	}
}

type collectionLabel int

const (
	labelDraw collectionLabel = iota
	labelVictory
	labelDefeat
)

func (l collectionLabel) describe(team string) string {
	switch l {
	case labelVictory:
		return "Victory for " + team
	case labelDefeat:
		return "Defeat for " + team
	}
	return "Draw"
}

// collectionOutcome tallies a history collection relative to the given
// team. Draws and unparsable scores are ignored; a row mentioning
// neither side contributes nothing.
func collectionOutcome(rows []whoscored.PreviousMatch, team string) collectionLabel {
	wins, losses := 0, 0
	for _, row := range rows {
		home, err := strconv.Atoi(row.HomeScore)
		if err != nil {
			continue
		}
		away, err := strconv.Atoi(row.AwayScore)
		if err != nil {
			continue
		}
		if home == away {
			continue
		}

		switch {
		case textutil.EqualFold(row.HomeTeam, team):
			if home > away {
				wins++
			} else {
				losses++
			}
		case textutil.EqualFold(row.AwayTeam, team):
			if away > home {
				wins++
			} else {
				losses++
			}
		}
	}
	switch {
	case wins > losses:
		return labelVictory
	case losses > wins:
		return labelDefeat
	}
	return labelDraw
}

func buildPrediction(currentTeam string, next whoscored.FixtureRecord, history whoscored.MatchHistory) MatchPrediction {
	currentPoints, opponentPoints := 0, 0
	score := func(label collectionLabel, forCurrent bool) {
		switch label {
		case labelVictory:
			if forCurrent {
				currentPoints++
			} else {
				opponentPoints++
			}
		case labelDefeat:
			// a loss for the other side benefits the current team
			if forCurrent {
				opponentPoints++
			} else {
				currentPoints++
			}
		}
	}

	// head-to-head is evaluated relative to whichever side of the
	// upcoming match is the queried team
	score(collectionOutcome(history.HeadToHead, currentTeam), true)
	// each recent-form collection is evaluated relative to its own
	// team; the orientation flips when that team is the opponent
	score(collectionOutcome(history.HomeRecent, next.Home),
		textutil.EqualFold(currentTeam, next.Home))
	score(collectionOutcome(history.AwayRecent, next.Away),
		textutil.EqualFold(currentTeam, next.Away))

	var predicted string
	switch {
	case currentPoints == opponentPoints:
		predicted = labelDraw.describe(currentTeam)
	case currentPoints > opponentPoints:
		predicted = labelVictory.describe(currentTeam)
	default:
		predicted = labelDefeat.describe(currentTeam)
	}

	return MatchPrediction{
		HomeTeam:        next.Home,
		AwayTeam:        next.Away,
		RecentMeetings:  recentMeetings(history),
		PredictedResult: predicted,
	}
}

// recentMeetings concatenates the three collections in page order,
// drops exact duplicates and caps the result.
func recentMeetings(history whoscored.MatchHistory) []whoscored.PreviousMatch {
	seen := map[whoscored.PreviousMatch]struct{}{}
	var out []whoscored.PreviousMatch
	for _, collection := range [][]whoscored.PreviousMatch{
		history.HeadToHead, history.HomeRecent, history.AwayRecent,
	} {
		for _, match := range collection {
			if _, dup := seen[match]; dup {
				continue
			}
			seen[match] = struct{}{}
			out = append(out, match)
			if len(out) == maxRecentMeetings {
				return out
			}
		}
	}
	return out
}
