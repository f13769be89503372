package whoscored

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const squadFeed = `{
	"playerTableStats": [
		{
			"name": "Bukayo Saka",
			"age": 22,
			"regionName": "England",
			"positionText": "Forward",
			"rating": 7.43,
			"apps": 30,
			"goal": 14,
			"assistTotal": 9,
			"redCard": 0,
			"yellowCard": 4
		},
		{
			"name": "Unknown Trialist"
		}
	]
}`

func TestFetchSquad(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(statsFeedPath, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		require.Equal(t, "123", query.Get("teamIds"))
		require.Equal(t, "true", query.Get("isCurrent"))
		w.Header().Set("content-type", "application/json")
		fmt.Fprint(w, squadFeed)
	})
	client := testClient(t, mux)

	squad, err := client.FetchSquad(context.Background(), 123)
	require.NoError(t, err)
	require.Len(t, squad, 2)

	age := 22
	rating := 7.43
	diff := cmp.Diff(Player{
		Name:        "Bukayo Saka",
		Age:         &age,
		Nationality: "England",
		Position:    "Forward",
		Rating:      &rating,
		Appearances: 30,
		Goals:       14,
		Assists:     9,
		YellowCards: 4,
	}, squad[0])
	require.Empty(t, diff)

	// missing feed fields fall back to defensive defaults
	trialist := squad[1]
	require.Equal(t, "Unknown Trialist", trialist.Name)
	require.Nil(t, trialist.Age)
	require.Nil(t, trialist.Rating)
	require.Equal(t, "-", trialist.Nationality)
	require.Equal(t, "-", trialist.Position)
	require.Zero(t, trialist.Appearances)
}

func TestFetchSquadEmptyFeed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(statsFeedPath, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})
	client := testClient(t, mux)

	squad, err := client.FetchSquad(context.Background(), 123)
	require.NoError(t, err)
	require.Empty(t, squad)
}

func TestFetchPlayerSeasons(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(statsFeedPath, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		require.Equal(t, "11119", query.Get("playerId"))
		require.Equal(t, "false", query.Get("isCurrent"))
		fmt.Fprint(w, `{
			"playerTableStats": [
				{
					"seasonName": "2023/2024",
					"teamName": "Inter Miami",
					"tournamentName": "MLS",
					"apps": 19,
					"goal": 11,
					"assistTotal": 14,
					"rating": 8.1
				},
				{
					"seasonName": "2022/2023"
				}
			]
		}`)
	})
	client := testClient(t, mux)

	seasons, err := client.FetchPlayerSeasons(context.Background(), 11119)
	require.NoError(t, err)
	require.Len(t, seasons, 2)

	diff := cmp.Diff(SeasonPerformance{
		Season:      "2023/2024",
		Team:        "Inter Miami",
		Competition: "MLS",
		Appearances: 19,
		Goals:       11,
		Assists:     14,
		Rating:      8.1,
	}, seasons[0])
	require.Empty(t, diff)

	require.Equal(t, "-", seasons[1].Team)
	require.Zero(t, seasons[1].Rating)
}

func TestFetchStatsUpstreamError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(statsFeedPath, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `this is not json`)
	})
	client := testClient(t, mux)

	_, err := client.FetchSquad(context.Background(), 123)
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
}
