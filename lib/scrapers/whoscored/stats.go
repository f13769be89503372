package whoscored

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

const statsFeedPath = "/statisticsfeed/1/getplayerstatistics"

// Player is one squad entry with current-season aggregate figures. Age
// and Rating stay nil when the feed omits them so averages can exclude
// rather than zero them.
type Player struct {
	Name        string
	Age         *int
	Nationality string
	Position    string
	Rating      *float64
	Appearances int
	Goals       int
	Assists     int
	RedCards    int
	YellowCards int
}

// SeasonPerformance is one season of a single player's history.
type SeasonPerformance struct {
	Season      string
	Team        string
	Competition string
	Appearances int
	Goals       int
	Assists     int
	Rating      float64
}

// statsRow mirrors one playerTableStats entry. Every field is a
// pointer because the feed freely omits or nulls them.
type statsRow struct {
	Name           *string  `json:"name"`
	Age            *int     `json:"age"`
	RegionName     *string  `json:"regionName"`
	PositionText   *string  `json:"positionText"`
	Rating         *float64 `json:"rating"`
	Apps           *int     `json:"apps"`
	Goal           *int     `json:"goal"`
	AssistTotal    *int     `json:"assistTotal"`
	RedCard        *int     `json:"redCard"`
	YellowCard     *int     `json:"yellowCard"`
	SeasonName     *string  `json:"seasonName"`
	TeamName       *string  `json:"teamName"`
	TournamentName *string  `json:"tournamentName"`
}

type statsEnvelope struct {
	PlayerTableStats []statsRow `json:"playerTableStats"`
}

func textOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func intOr(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

func floatOr(f *float64) float64 {
	if f == nil {
		return 0.0
	}
	return *f
}

func (c *Client) fetchStats(ctx context.Context, subject string, query url.Values) ([]statsRow, error) {
	link := statsFeedPath + "?" + query.Encode()
	body, err := c.fetch(ctx, link)
	if err != nil {
		return nil, &UpstreamError{Subject: subject, URL: link, Err: err}
	}

	var envelope statsEnvelope
	err = json.Unmarshal(body, &envelope)
	if err != nil {
		return nil, &UpstreamError{
			Subject: subject,
			URL:     link,
			Err:     fmt.Errorf("decode playerTableStats: %w", err),
		}
	}
	// a missing or empty array is a normal outcome, not a failure
	return envelope.PlayerTableStats, nil
}

// FetchSquad lists the current-season aggregated figures for every
// player on a team.
func (c *Client) FetchSquad(ctx context.Context, teamID int) ([]Player, error) {
	query := url.Values{}
	query.Set("category", "summary")
	query.Set("subcategory", "all")
	query.Set("statsAccumulationType", "0")
	query.Set("isCurrent", "true")
	query.Set("teamIds", strconv.Itoa(teamID))
	query.Set("field", "Overall")
	query.Set("isMinApp", "false")
	query.Set("includeZeroValues", "true")
	query.Set("sortBy", "Rating")

	rows, err := c.fetchStats(ctx, fmt.Sprintf("team %d squad", teamID), query)
	if err != nil {
		return nil, err
	}

	squad := make([]Player, 0, len(rows))
	for _, row := range rows {
		squad = append(squad, Player{
			Name:        textOr(row.Name, "-"),
			Age:         row.Age,
			Nationality: textOr(row.RegionName, "-"),
			Position:    textOr(row.PositionText, "-"),
			Rating:      row.Rating,
			Appearances: intOr(row.Apps),
			Goals:       intOr(row.Goal),
			Assists:     intOr(row.AssistTotal),
			RedCards:    intOr(row.RedCard),
			YellowCards: intOr(row.YellowCard),
		})
	}
	return squad, nil
}

// FetchPlayerSeasons lists a player's all-time figures broken down per
// season, in whatever order the feed returns them.
func (c *Client) FetchPlayerSeasons(ctx context.Context, playerID int) ([]SeasonPerformance, error) {
	query := url.Values{}
	query.Set("category", "summary")
	query.Set("subcategory", "all")
	query.Set("statsAccumulationType", "0")
	query.Set("isCurrent", "false")
	query.Set("playerId", strconv.Itoa(playerID))
	query.Set("field", "Overall")
	query.Set("isMinApp", "false")
	query.Set("includeZeroValues", "true")

	rows, err := c.fetchStats(ctx, fmt.Sprintf("player %d history", playerID), query)
	if err != nil {
		return nil, err
	}

	seasons := make([]SeasonPerformance, 0, len(rows))
	for _, row := range rows {
		seasons = append(seasons, SeasonPerformance{
			Season:      textOr(row.SeasonName, "-"),
			Team:        textOr(row.TeamName, "-"),
			Competition: textOr(row.TournamentName, "-"),
			Appearances: intOr(row.Apps),
			Goals:       intOr(row.Goal),
			Assists:     intOr(row.AssistTotal),
			Rating:      floatOr(row.Rating),
		})
	}
	return seasons, nil
}
