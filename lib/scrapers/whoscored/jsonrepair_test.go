package whoscored

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestRepairScriptObject(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected any
	}{
		{
			name:  "single quotes",
			input: `{'team': 'Arsenal'}`,
			expected: map[string]any{
				"team": "Arsenal",
			},
		},
		{
			name:  "bare keys",
			input: `{teamName: 'Arsenal', matchId: 42}`,
			expected: map[string]any{
				"teamName": "Arsenal",
				"matchId":  float64(42),
			},
		},
		{
			name:  "elided array elements",
			input: `{rows: [1,,2]}`,
			expected: map[string]any{
				"rows": []any{float64(1), "", float64(2)},
			},
		},
		{
			name:  "consecutive elisions",
			input: `{rows: [1,,,2]}`,
			expected: map[string]any{
				"rows": []any{float64(1), "", "", float64(2)},
			},
		},
		{
			name:  "trailing commas",
			input: `{rows: [1, 2,], last: 'x',}`,
			expected: map[string]any{
				"rows": []any{float64(1), float64(2)},
				"last": "x",
			},
		},
		{
			name:  "everything at once",
			input: `{fixtureMatches: [[101, 'vs',, 'Arsenal',],], isCup: false,}`,
			expected: map[string]any{
				"fixtureMatches": []any{
					[]any{float64(101), "vs", "", "Arsenal"},
				},
				"isCup": false,
			},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			repaired := RepairScriptObject(test.input)

			var parsed any
			err := json.Unmarshal([]byte(repaired), &parsed)
			require.NoError(t, err, "repaired text must be strict JSON: %s", repaired)

			diff := cmp.Diff(test.expected, parsed)
			require.Empty(t, diff)
		})
	}
}
