package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"smm-wrapper/lib/restyutil"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type testTelemetry struct {
	warnings []string
	broken   []string
}

func (t *testTelemetry) ReportBroken(id string, params ...any) {
	t.broken = append(t.broken, id)
}

func (t *testTelemetry) ReportWarning(id string, params ...any) {
	msg := id
	if len(params) > 0 {
		msg = fmt.Sprintf("%s %v", id, params[0])
	}
	t.warnings = append(t.warnings, msg)
}

func (t *testTelemetry) ReportDebug(string, ...any) {}

func (t *testTelemetry) ReportCount(string, int64) {}

// flakyServer fails the first `failures` requests with a 503.
func flakyServer(t testing.TB, failures int64, calls *int64) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(calls, 1)
		if n <= failures {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"response_type": "aggregated", "labels": [], "values": []}`)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t testing.TB, server *httptest.Server, opts ClientOptions) (*Client, *testTelemetry) {
	tel := &testTelemetry{}
	opts.Domain = strings.TrimPrefix(server.URL, "http://")
	client, err := NewClient(opts, tel)
	if err != nil {
		t.Fatal(err)
	}
	return client, tel
}

func TestDefaults(t *testing.T) {
	client, err := NewClient(ClientOptions{}, &testTelemetry{})
	require.NoError(t, err)
	require.Equal(t, "http://10.6.13.139:8000/api/politicians/", client.Base())
	require.Equal(t, DefaultAttempts, client.Attempts())
	require.Equal(t, "v1", client.Version())

	client, err = NewClient(ClientOptions{
		Protocol: "https",
		Domain:   "smm.example.org",
		Unit:     "organizations",
		Attempts: -3,
	}, &testTelemetry{})
	require.NoError(t, err)
	require.Equal(t, "https://smm.example.org/api/organizations/", client.Base())
	require.Equal(t, DefaultAttempts, client.Attempts())
}

func TestRequestRetriesThenSucceeds(t *testing.T) {
	cases := []struct {
		attempts int
		failures int64
	}{
		{attempts: 2, failures: 0},
		{attempts: 2, failures: 1},
		{attempts: 2, failures: 2},
		{attempts: 4, failures: 3},
	}

	for _, test := range cases {
		var calls int64
		server := flakyServer(t, test.failures, &calls)
		client, tel := newTestClient(t, server, ClientOptions{Attempts: test.attempts})

		var out map[string]any
		err := client.Request(context.Background(), "all/", nil, &out)
		require.NoError(t, err)
		require.Equal(t, "aggregated", out["response_type"])
		require.Equal(t, test.failures+1, atomic.LoadInt64(&calls))
		require.Len(t, tel.warnings, int(test.failures))
		require.Empty(t, tel.broken)
	}
}

func TestRequestExhaustsAttempts(t *testing.T) {
	var calls int64
	server := flakyServer(t, 1000, &calls)
	client, tel := newTestClient(t, server, ClientOptions{Attempts: 3})

	var out map[string]any
	err := client.Request(context.Background(), "all/", nil, &out)
	require.Error(t, err)
	require.Equal(t, int64(4), atomic.LoadInt64(&calls))

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	require.Equal(t, 4, reqErr.Tries)
	require.Equal(t, client.Base()+"all/", reqErr.Url)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)

	// the final failure is not reported as an interim attempt
	require.Equal(t, []string{
		"smm_core: client.request-attempt connection failed (attempt 1 of 4)",
		"smm_core: client.request-attempt connection failed (attempt 2 of 4)",
		"smm_core: client.request-attempt connection failed (attempt 3 of 4)",
	}, tel.warnings)
	require.Equal(t, []string{"smm_core: client.request"}, tel.broken)
}

func TestRequestInvalidJsonIsRetried(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		fmt.Fprint(w, "<html>maintenance</html>")
	}))
	defer server.Close()
	client, _ := newTestClient(t, server, ClientOptions{})

	var out any
	err := client.Request(context.Background(), "all/", nil, &out)
	require.Error(t, err)
	require.Equal(t, int64(3), atomic.LoadInt64(&calls))
}

func TestRequestNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client, _ := newTestClient(t, server, ClientOptions{Attempts: 1})
	server.Close()

	var out any
	err := client.Request(context.Background(), "all/", nil, &out)
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	require.Equal(t, 2, reqErr.Tries)
}

func TestRequestCancelledContext(t *testing.T) {
	var calls int64
	server := flakyServer(t, 0, &calls)
	client, _ := newTestClient(t, server, ClientOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out any
	err := client.Request(ctx, "all/", nil, &out)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, int64(0), atomic.LoadInt64(&calls))
}

func TestRequestCredentials(t *testing.T) {
	type seen struct {
		user, password string
		hasAuth        bool
		apiKey         string
		query          string
	}
	var last seen
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, password, ok := r.BasicAuth()
		last = seen{
			user:     user,
			password: password,
			hasAuth:  ok,
			apiKey:   r.URL.Query().Get("api_key"),
			query:    r.URL.Query().Get("from_date"),
		}
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	cases := []struct {
		opts     ClientOptions
		expected seen
	}{
		{
			opts:     ClientOptions{Username: "alice", Password: "pw"},
			expected: seen{user: "alice", password: "pw", hasAuth: true, query: "2019-01-01"},
		},
		{
			// basic auth requires both halves
			opts:     ClientOptions{Username: "alice"},
			expected: seen{query: "2019-01-01"},
		},
		{
			opts:     ClientOptions{ApiKey: "k3y"},
			expected: seen{apiKey: "k3y", query: "2019-01-01"},
		},
		{
			opts:     ClientOptions{},
			expected: seen{query: "2019-01-01"},
		},
	}

	for _, test := range cases {
		client, _ := newTestClient(t, server, test.opts)
		var out []any
		err := client.Request(context.Background(), "/all/", map[string][]string{
			"from_date": {"2019-01-01"},
			"to_date":   {""},
		}, &out)
		require.NoError(t, err)
		require.Equal(t, test.expected, last)
	}
}

func TestRequestOmitsEmptyParams(t *testing.T) {
	var rawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()
	client, _ := newTestClient(t, server, ClientOptions{})

	var out any
	err := client.Request(context.Background(), "all/search/", map[string][]string{
		"names_contain": {"merkel"},
		"text_contains": {""},
	}, &out)
	require.NoError(t, err)
	require.Equal(t, "names_contain=merkel", rawQuery)
}

func TestRequestDumpsMessages(t *testing.T) {
	var calls int64
	server := flakyServer(t, 1, &calls)

	dir := filepath.Join(t.TempDir(), "dump")
	output, err := restyutil.NewFilesystemOutput(dir)
	require.NoError(t, err)

	client, _ := newTestClient(t, server, ClientOptions{
		Username: "user",
		Password: "hunter2",
		ApiKey:   "key-1234",
		Attempts: 1,
		Dump:     output,
	})

	var out map[string]any
	err = client.Request(context.Background(), "all/search/", url.Values{
		"names_contain": {"merkel"},
	}, &out)
	require.NoError(t, err)
	require.Equal(t, int64(2), calls)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	failed, err := os.ReadFile(filepath.Join(dir, "0001.txt"))
	require.NoError(t, err)
	require.Contains(t, string(failed), "503")

	succeeded, err := os.ReadFile(filepath.Join(dir, "0002.txt"))
	require.NoError(t, err)
	msg := string(succeeded)
	require.Contains(t, msg, "GET "+server.URL+"/api/politicians/all/search/?")
	require.Contains(t, msg, "names_contain=merkel")
	require.Contains(t, msg, "api_key=REDACTED")
	require.Contains(t, msg, "Authorization: <redacted>")
	require.NotContains(t, msg, "key-1234")
	require.NotContains(t, msg, "hunter2")
	require.Contains(t, msg, `"response_type": "aggregated"`)
}

func TestNewCounter(t *testing.T) {
	provider := sdkmetric.NewMeterProvider()
	t.Cleanup(func() {
		provider.Shutdown(context.Background())
	})
	m := provider.Meter("test")

	counter := newCounter(m, "smm.test.counter", "test")
	require.NotNil(t, counter)
	counter.Add(context.Background(), 1)

	invalid := newCounter(m, "1-not-a-name", "test")
	require.IsType(t, noop.Int64Counter{}, invalid)
	invalid.Add(context.Background(), 1)
}
