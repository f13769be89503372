package players

import (
	"testing"

	"footylens-backend/lib/scrapers/whoscored"

	"github.com/stretchr/testify/require"
)

func season(name string, apps, goals, assists int, rating float64) whoscored.SeasonPerformance {
	return whoscored.SeasonPerformance{
		Season:      name,
		Team:        "Team",
		Competition: "League",
		Appearances: apps,
		Goals:       goals,
		Assists:     assists,
		Rating:      rating,
	}
}

func TestBuildPerformanceCapsSeasons(t *testing.T) {
	seasons := []whoscored.SeasonPerformance{
		season("2018/2019", 30, 5, 2, 7.0),
		season("2021/2022", 28, 9, 4, 7.2),
		season("2019/2020", 31, 6, 3, 6.9),
		season("2023/2024", 25, 12, 6, 7.8),
		season("2020/2021", 29, 8, 1, 7.1),
		season("2022/2023", 33, 10, 5, 7.4),
	}

	performance := buildPerformance("Test Player", seasons)

	// only the five most recent survive, newest first
	require.Len(t, performance.Seasons, 5)
	require.Equal(t, "2023/2024", performance.Seasons[0].Season)
	require.Equal(t, "2019/2020", performance.Seasons[4].Season)
	for _, s := range performance.Seasons {
		require.NotEqual(t, "2018/2019", s.Season)
	}
}

func TestBuildAverageWeightsRatingByAppearances(t *testing.T) {
	average := buildAverage([]whoscored.SeasonPerformance{
		season("2023/2024", 10, 2, 1, 6.0),
		season("2022/2023", 30, 9, 5, 8.0),
	})

	// (10*6.0 + 30*8.0) / 40, not the plain mean of 7.0
	require.Equal(t, 7.5, average.Rating)
	require.Equal(t, 20.0, average.Appearances)
	require.Equal(t, 5.5, average.Goals)
	require.Equal(t, 3.0, average.Assists)
	// 17 goal contributions over 40 appearances
	require.Equal(t, 0.43, average.PerformanceScore)
}

func TestBuildAverageNoAppearances(t *testing.T) {
	average := buildAverage([]whoscored.SeasonPerformance{
		season("2023/2024", 0, 0, 0, 6.0),
		season("2022/2023", 0, 0, 0, 7.0),
	})

	// nothing to weight by, falls back to the plain mean
	require.Equal(t, 6.5, average.Rating)
	require.Zero(t, average.PerformanceScore)
}

func TestBuildAverageEmpty(t *testing.T) {
	average := buildAverage(nil)
	require.Zero(t, average.Rating)
	require.Zero(t, average.Appearances)
}
