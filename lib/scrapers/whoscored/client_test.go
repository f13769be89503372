package whoscored

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"footylens-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

// spins up a fake site and a client pointed at it
func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	cleanup := telemetry.SetupForTesting("test:whoscored")
	t.Cleanup(cleanup)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{
		BaseURL: server.URL,
		Workers: 2,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return client
}
