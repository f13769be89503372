package whoscored

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// the assignment carrying the calendar payload on a team's fixtures
// page; the object literal assigned to it holds fixtureMatches
const fixtureConfigMarker = "require.config.params['args']"

// greedy outer-brace capture. Nested braces deeper than the outer pair
// are not validated, the last closing brace in the script wins. Known
// fragility inherited from the source format.
var configObjectPattern = regexp.MustCompile(`require\.config\.params\[["']args["']\]\s*=\s*(\{[\s\S]*\})`)

// every fixture row must carry at least this many positions before any
// of it is interpreted
const fixtureRecordWidth = 17

// the value the site writes into the score field of a match that has
// not been played yet
const notPlayedSentinel = "vs"

// FixtureRecord is the typed form of one raw positional fixture row.
// Parsing happens once at ingestion; consumers never index into the
// raw array.
type FixtureRecord struct {
	// only meaningful for upcoming records
	MatchID     int64
	Date        string
	Home        string
	Away        string
	Status      string
	Competition string
}

func (r FixtureRecord) Upcoming() bool {
	return r.Status == notPlayedSentinel
}

func (r FixtureRecord) Played() bool {
	return r.Status != "" && r.Status != notPlayedSentinel
}

// Score parses the status field of a played record into home and away
// goals. A trailing asterisk (extra time, penalties) is stripped
// first. ok is false for upcoming records and for any score the site
// formatted in a way we cannot read.
func (r FixtureRecord) Score() (home, away int, ok bool) {
	return parseScore(r.Status)
}

func parseScore(status string) (home, away int, ok bool) {
	if status == "" || status == notPlayedSentinel {
		return 0, 0, false
	}
	text := strings.TrimSuffix(strings.TrimSpace(status), "*")
	parts := strings.Split(text, " : ")
	if len(parts) != 2 {
		return 0, 0, false
	}
	home, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	away, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return home, away, true
}

// SplitFixtures partitions records into played and upcoming. A record
// that is neither (empty status) lands in neither partition.
func SplitFixtures(records []FixtureRecord) (played, upcoming []FixtureRecord) {
	for _, r := range records {
		switch {
		case r.Upcoming():
			upcoming = append(upcoming, r)
		case r.Played():
			played = append(played, r)
		}
	}
	return played, upcoming
}

func positionText(row []any, idx int) string {
	v := row[idx]
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func positionInt64(row []any, idx int) int64 {
	switch t := row[idx].(type) {
	case float64:
		return int64(t)
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func parseFixtureRecord(row []any) (FixtureRecord, error) {
	if len(row) < fixtureRecordWidth {
		return FixtureRecord{}, fmt.Errorf(
			"fixture row has %d positions, want at least %d", len(row), fixtureRecordWidth)
	}
	return FixtureRecord{
		MatchID:     positionInt64(row, 0),
		Date:        positionText(row, 2),
		Home:        positionText(row, 5),
		Away:        positionText(row, 8),
		Status:      positionText(row, 10),
		Competition: positionText(row, 16),
	}, nil
}

// fixturesURL derives the fixtures page from a team profile link by
// swapping the "show" path segment.
func fixturesURL(profileURL string) string {
	return strings.Replace(profileURL, "/show/", "/fixtures/", 1)
}

// findConfigScript returns the object literal assigned to the config
// marker in the first inline script containing the wanted marker, or
// "" when no script on the page carries it.
func findConfigScript(doc *goquery.Document, marker string) string {
	var captured string
	doc.Find("script").EachWithBreak(func(_ int, script *goquery.Selection) bool {
		text := script.Text()
		if !strings.Contains(text, marker) {
			return true
		}
		groups := configObjectPattern.FindStringSubmatch(text)
		if len(groups) < 2 {
			return true
		}
		captured = groups[1]
		return false
	})
	return captured
}

type fixturesPayload struct {
	FixtureMatches [][]any `json:"fixtureMatches"`
}

// FetchFixtures extracts the full fixture calendar of a team from the
// configuration script embedded in its fixtures page. A page without
// the expected script yields an empty list, logged but not an error;
// the team simply has nothing usable there. Rows too short to carry
// the full schema are dropped, never partially interpreted.
func (c *Client) FetchFixtures(ctx context.Context, team TeamRef) ([]FixtureRecord, error) {
	link := fixturesURL(team.ProfileURL)
	body, err := c.fetch(ctx, link)
	if err != nil {
		return nil, &UpstreamError{Subject: team.Name, URL: link, Err: err}
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return nil, &UpstreamError{Subject: team.Name, URL: link, Err: err}
	}

	captured := findConfigScript(doc, fixtureConfigMarker)
	if captured == "" {
		slog.WarnContext(ctx, "fixtures page carries no config script",
			"team", team.Name, "url", link)
		return nil, nil
	}

	var payload fixturesPayload
	err = json.Unmarshal([]byte(RepairScriptObject(captured)), &payload)
	if err != nil {
		return nil, &UpstreamError{
			Subject: team.Name,
			URL:     link,
			Err:     fmt.Errorf("parse repaired fixtures config: %w", err),
		}
	}

	records := make([]FixtureRecord, 0, len(payload.FixtureMatches))
	dropped := 0
	for _, row := range payload.FixtureMatches {
		record, err := parseFixtureRecord(row)
		if err != nil {
			slog.WarnContext(ctx, "dropping malformed fixture row",
				"team", team.Name, "err", err)
			dropped++
			continue
		}
		records = append(records, record)
	}
	if dropped > 0 {
		slog.WarnContext(ctx, "dropped malformed fixture rows",
			"team", team.Name, "dropped", dropped, "kept", len(records))
	}
	return records, nil
}
