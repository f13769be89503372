package telemetry

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// FilesystemDump writes one file per completed HTTP exchange into a
// directory, numbered in request order. The directory is wiped on
// construction so each run starts from a clean capture.
type FilesystemDump struct {
	directory string
	counter   atomic.Uint64
}

func NewFilesystemDump(dir string) (*FilesystemDump, error) {
	err := os.RemoveAll(dir)
	if err != nil {
		return nil, err
	}
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, err
	}
	return &FilesystemDump{directory: dir}, nil
}

// DumpTransactions attaches a middleware that records every
// request/response pair to the dump directory. A nil dump is a no-op.
func DumpTransactions(client *resty.Client, dump *FilesystemDump) {
	if dump == nil {
		return
	}
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := strconv.FormatUint(dump.counter.Add(1), 10)
		path := filepath.Join(dump.directory, id+".txt")
		err := os.WriteFile(path, []byte(formatHTTPMessage(res)), 0600)
		if err != nil {
			slog.Warn("failed to write http dump", "path", path, "err", err)
			return nil
		}
		slog.Debug("dumped http transaction",
			"url", res.Request.URL, "path", path)
		return nil
	})
}

func formatHeaders(headers http.Header) string {
	var out strings.Builder
	for key, vals := range headers {
		for _, val := range vals {
			fmt.Fprintf(&out, "%s: %s\n", key, val)
		}
	}
	return strings.TrimSuffix(out.String(), "\n")
}

func formatHTTPMessage(res *resty.Response) string {
	var out strings.Builder

	fmt.Fprintf(&out, "---- REQUEST ----\n\n%s %s\n\n",
		res.Request.Method, res.Request.URL)
	if res.Request.RawRequest != nil {
		out.WriteString(formatHeaders(res.Request.RawRequest.Header))
		out.WriteString("\n")
	}

	responseURL := res.Request.URL
	if redirected, err := res.RawResponse.Location(); err == nil {
		responseURL = redirected.String()
	}
	fmt.Fprintf(&out, "\n---- RESPONSE ----\n\n%d %s\n\n%s\n\n%s",
		res.StatusCode(), responseURL,
		formatHeaders(res.Header()), res.String())

	return out.String()
}
