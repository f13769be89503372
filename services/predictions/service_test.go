package predictions

import (
	"testing"

	"footylens-backend/lib/scrapers/whoscored"

	"github.com/stretchr/testify/require"
)

func meeting(home, homeScore, away, awayScore string) whoscored.PreviousMatch {
	return whoscored.PreviousMatch{
		Date:        "01-01",
		Competition: "League",
		HomeTeam:    home,
		HomeScore:   homeScore,
		AwayTeam:    away,
		AwayScore:   awayScore,
	}
}

func TestCollectionOutcome(t *testing.T) {
	testCases := []struct {
		name     string
		rows     []whoscored.PreviousMatch
		team     string
		expected collectionLabel
	}{
		{
			name: "more wins than losses",
			rows: []whoscored.PreviousMatch{
				meeting("Arsenal", "2", "Chelsea", "1"),
				meeting("Chelsea", "0", "Arsenal", "1"),
				meeting("Arsenal", "0", "Chelsea", "2"),
			},
			team:     "Arsenal",
			expected: labelVictory,
		},
		{
			name: "case insensitive side matching",
			rows: []whoscored.PreviousMatch{
				meeting("ARSENAL", "0", "Chelsea", "3"),
			},
			team:     "arsenal",
			expected: labelDefeat,
		},
		{
			name: "draws and junk scores ignored",
			rows: []whoscored.PreviousMatch{
				meeting("Arsenal", "1", "Chelsea", "1"),
				meeting("Arsenal", "?", "Chelsea", "2"),
				meeting("Arsenal", "2", "Chelsea", "?"),
			},
			team:     "Arsenal",
			expected: labelDraw,
		},
		{
			name:     "empty collection",
			rows:     nil,
			team:     "Arsenal",
			expected: labelDraw,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, collectionOutcome(test.rows, test.team))
		})
	}
}

func nextFixture(home, away string) whoscored.FixtureRecord {
	return whoscored.FixtureRecord{
		MatchID: 555,
		Home:    home,
		Away:    away,
		Status:  "vs",
	}
}

func TestBuildPredictionAllCollectionsFavorCurrent(t *testing.T) {
	history := whoscored.MatchHistory{
		// head-to-head favors Arsenal
		HeadToHead: []whoscored.PreviousMatch{meeting("Arsenal", "2", "Chelsea", "0")},
		// home side (Arsenal) in form
		HomeRecent: []whoscored.PreviousMatch{meeting("Arsenal", "3", "Fulham", "1")},
		// away side (Chelsea) losing
		AwayRecent: []whoscored.PreviousMatch{meeting("Brighton", "2", "Chelsea", "0")},
	}

	prediction := buildPrediction("Arsenal", nextFixture("Arsenal", "Chelsea"), history)
	require.Equal(t, "Victory for Arsenal", prediction.PredictedResult)
}

func TestBuildPredictionOrientationFlipsWhenAway(t *testing.T) {
	// Chelsea is the queried team but plays away; the home side's
	// defeats count for Chelsea
	history := whoscored.MatchHistory{
		HomeRecent: []whoscored.PreviousMatch{meeting("Arsenal", "0", "Fulham", "2")},
	}

	prediction := buildPrediction("Chelsea", nextFixture("Arsenal", "Chelsea"), history)
	require.Equal(t, "Victory for Chelsea", prediction.PredictedResult)
}

func TestBuildPredictionDraw(t *testing.T) {
	history := whoscored.MatchHistory{
		HeadToHead: []whoscored.PreviousMatch{meeting("Arsenal", "2", "Chelsea", "0")},
		AwayRecent: []whoscored.PreviousMatch{meeting("Brighton", "0", "Chelsea", "2")},
	}

	prediction := buildPrediction("Arsenal", nextFixture("Arsenal", "Chelsea"), history)
	require.Equal(t, "Draw", prediction.PredictedResult)
}

func TestRecentMeetingsDedupeAndCap(t *testing.T) {
	h2h := []whoscored.PreviousMatch{
		meeting("Arsenal", "2", "Chelsea", "0"),
		meeting("Chelsea", "1", "Arsenal", "1"),
	}
	homeRecent := []whoscored.PreviousMatch{
		// exact duplicate of the first head-to-head entry
		meeting("Arsenal", "2", "Chelsea", "0"),
		meeting("Arsenal", "4", "Fulham", "0"),
		meeting("Arsenal", "0", "Brighton", "1"),
	}
	awayRecent := []whoscored.PreviousMatch{
		meeting("Chelsea", "2", "Wolves", "2"),
		meeting("Chelsea", "5", "Luton", "0"),
	}

	meetings := recentMeetings(whoscored.MatchHistory{
		HeadToHead: h2h,
		HomeRecent: homeRecent,
		AwayRecent: awayRecent,
	})

	require.Len(t, meetings, 5)
	// page order: head-to-head first, then home form, then away form
	require.Equal(t, h2h[0], meetings[0])
	require.Equal(t, h2h[1], meetings[1])
	require.Equal(t, homeRecent[1], meetings[2])
	require.Equal(t, homeRecent[2], meetings[3])
	require.Equal(t, awayRecent[0], meetings[4])
}
