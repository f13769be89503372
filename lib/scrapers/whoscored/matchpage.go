package whoscored

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

// marker identifying the configuration script on a match detail page
const matchConfigMarker = "matchCentreData"

// The captured args object on a match page embeds a large
// JSON.parse(...) expression under matchCentreData, sitting between
// that key and the previousMeetings key. It is not valid JSON and is
// of no use here, so it is cut out before repair.
var matchInterstitialPattern = regexp.MustCompile(`matchCentreData\s*:[\s\S]*?previousMeetings`)

// PreviousMatch is one historical meeting as shown on a match detail
// page. Scores stay strings until a comparison actually needs them;
// an unparsable score is skipped at that point, never read as zero.
type PreviousMatch struct {
	Date        string
	Competition string
	HomeTeam    string
	HomeScore   string
	AwayTeam    string
	AwayScore   string
}

// MatchHistory carries the three historical collections a match detail
// page embeds: direct meetings between the two sides, plus each side's
// recent matches against anyone.
type MatchHistory struct {
	HeadToHead []PreviousMatch
	HomeRecent []PreviousMatch
	AwayRecent []PreviousMatch
}

// The head-to-head rows and the recent-form rows use different score
// positions. The asymmetry is how the site lays out its own data, it
// must not be normalized away.
const (
	h2hHomeScoreIdx  = 33
	h2hAwayScoreIdx  = 34
	formHomeScoreIdx = 31
	formAwayScoreIdx = 32
)

type matchPagePayload struct {
	PreviousMeetings [][]any   `json:"previousMeetings"`
	HomeMatches      [][][]any `json:"homeMatches"`
	AwayMatches      [][][]any `json:"awayMatches"`
}

func parseHistoryRow(row []any, homeScoreIdx, awayScoreIdx int) (PreviousMatch, error) {
	width := awayScoreIdx + 1
	if len(row) < width {
		return PreviousMatch{}, fmt.Errorf(
			"history row has %d positions, want at least %d", len(row), width)
	}
	return PreviousMatch{
		Date:        positionText(row, 2),
		Competition: positionText(row, 16),
		HomeTeam:    positionText(row, 5),
		HomeScore:   positionText(row, homeScoreIdx),
		AwayTeam:    positionText(row, 8),
		AwayScore:   positionText(row, awayScoreIdx),
	}, nil
}

func parseHistoryRows(ctx context.Context, rows [][]any, homeScoreIdx, awayScoreIdx int, collection string) []PreviousMatch {
	out := make([]PreviousMatch, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		match, err := parseHistoryRow(row, homeScoreIdx, awayScoreIdx)
		if err != nil {
			dropped++
			continue
		}
		out = append(out, match)
	}
	if dropped > 0 {
		slog.WarnContext(ctx, "dropped malformed history rows",
			"collection", collection, "dropped", dropped, "kept", len(out))
	}
	return out
}

func firstMatchList(lists [][][]any) [][]any {
	if len(lists) == 0 {
		return nil
	}
	return lists[0]
}

// FetchMatchHistory mines the three historical collections out of a
// match detail page.
func (c *Client) FetchMatchHistory(ctx context.Context, matchID int64) (MatchHistory, error) {
	link := fmt.Sprintf("/matches/%d/show", matchID)
	body, err := c.fetch(ctx, link)
	if err != nil {
		return MatchHistory{}, &UpstreamError{
			Subject: fmt.Sprintf("match %d", matchID), URL: link, Err: err}
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return MatchHistory{}, &UpstreamError{
			Subject: fmt.Sprintf("match %d", matchID), URL: link, Err: err}
	}

	captured := findConfigScript(doc, matchConfigMarker)
	if captured == "" {
		return MatchHistory{}, &UpstreamError{
			Subject: fmt.Sprintf("match %d", matchID),
			URL:     link,
			Err:     fmt.Errorf("no script contains %q", matchConfigMarker),
		}
	}

	captured = matchInterstitialPattern.ReplaceAllString(captured, "previousMeetings")

	var payload matchPagePayload
	err = json.Unmarshal([]byte(RepairScriptObject(captured)), &payload)
	if err != nil {
		return MatchHistory{}, &UpstreamError{
			Subject: fmt.Sprintf("match %d", matchID),
			URL:     link,
			Err:     fmt.Errorf("parse repaired match config: %w", err),
		}
	}

	return MatchHistory{
		HeadToHead: parseHistoryRows(ctx, payload.PreviousMeetings,
			h2hHomeScoreIdx, h2hAwayScoreIdx, "previousMeetings"),
		HomeRecent: parseHistoryRows(ctx, firstMatchList(payload.HomeMatches),
			formHomeScoreIdx, formAwayScoreIdx, "homeMatches"),
		AwayRecent: parseHistoryRows(ctx, firstMatchList(payload.AwayMatches),
			formHomeScoreIdx, formAwayScoreIdx, "awayMatches"),
	}, nil
}
