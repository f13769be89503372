package whoscored

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

const searchResultsPage = `<!DOCTYPE html>
<html><body>
<h2>Search results</h2>
<table>
  <tr><th colspan="2">Teams:</th></tr>
  <tr>
    <td><a href="/teams/123/show/argentina-river-plate">River Plate</a></td>
    <td>Argentina</td>
  </tr>
  <tr>
    <td><a href="/teams/456/show/uruguay-river-plate">River Plate</a></td>
    <td>Uruguay</td>
  </tr>
  <tr>
    <td><a href="/teams/789/show/argentina-rosario-central">Rosario Central</a></td>
    <td>Argentina</td>
  </tr>
</table>
<div>
  <a href="/statistics">Statistics</a>
  <a href="/Players/11119/Show/lionel-messi">Lionel Messi</a>
</div>
</body></html>`

func searchHandler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.URL.Query().Get("t"))
		fmt.Fprint(w, searchResultsPage)
	})
	return mux
}

func TestResolveTeam(t *testing.T) {
	client := testClient(t, searchHandler(t))
	ctx := context.Background()

	team, err := client.ResolveTeam(ctx, "River Plate", "Argentina")
	require.NoError(t, err)
	require.Equal(t, 123, team.ID)
	require.Equal(t, "/teams/123/show/argentina-river-plate", team.ProfileURL)
	require.Equal(t, "River Plate", team.Name)
	require.Equal(t, "Argentina", team.Country)
}

func TestResolveTeamCountryCaseInsensitive(t *testing.T) {
	client := testClient(t, searchHandler(t))

	team, err := client.ResolveTeam(context.Background(), "River Plate", "uruguay")
	require.NoError(t, err)
	require.Equal(t, 456, team.ID)
}

func TestResolveTeamPrefersClosestName(t *testing.T) {
	client := testClient(t, searchHandler(t))

	// both Argentinian rows qualify on country, the name decides
	team, err := client.ResolveTeam(context.Background(), "Rosario Central", "Argentina")
	require.NoError(t, err)
	require.Equal(t, 789, team.ID)
}

func TestResolveTeamNotFound(t *testing.T) {
	client := testClient(t, searchHandler(t))

	_, err := client.ResolveTeam(context.Background(), "River Plate", "Spain")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolveTeamMalformedURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<table><tr>
			<td><a href="/clubs/999/show/nowhere">Nowhere FC</a></td>
			<td>Spain</td>
		</tr></table>`)
	})
	client := testClient(t, mux)

	_, err := client.ResolveTeam(context.Background(), "Nowhere FC", "Spain")
	var malformed *MalformedURLError
	require.ErrorAs(t, err, &malformed)
}

func TestResolvePlayer(t *testing.T) {
	client := testClient(t, searchHandler(t))

	// the players path pattern matches case-insensitively
	player, err := client.ResolvePlayer(context.Background(), "Messi")
	require.NoError(t, err)
	require.Equal(t, 11119, player.ID)
	require.Equal(t, "/Players/11119/Show/lionel-messi", player.ProfileURL)
}

func TestResolvePlayerNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><a href="/statistics">nothing here</a></body></html>`)
	})
	client := testClient(t, mux)

	_, err := client.ResolvePlayer(context.Background(), "Messi")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolveTeamUpstreamFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	})
	client := testClient(t, mux)

	_, err := client.ResolveTeam(context.Background(), "River Plate", "Argentina")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.False(t, errors.Is(err, ErrNotFound))
}
