package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"smm-wrapper/lib/assert"
	"smm-wrapper/lib/restyutil"
	"smm-wrapper/lib/telemetry"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var tracer = telemetry.Tracer("smm-wrapper/lib/smm/core")
var meter = telemetry.Meter("smm-wrapper/lib/smm/core")

var failedAttemptCounter = newCounter(
	meter,
	"smm.request.failed_attempts",
	"Number of failed request attempts, including the final one.",
)

// newCounter falls back to a counter that records nothing if the meter
// rejects the instrument.
func newCounter(m metric.Meter, name, description string) metric.Int64Counter {
	counter, err := m.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		slog.Warn("failed to create counter", "name", name, "err", err)
		return noop.Int64Counter{}
	}
	return counter
}

const (
	report_client_request = "client.request"
	report_client_attempt = "client.request-attempt"
)

const (
	DefaultProtocol = "http"
	DefaultDomain   = "10.6.13.139:8000"
	DefaultVersion  = "v1"
	DefaultUnit     = "politicians"
	DefaultAttempts = 2
)

type ClientOptions struct {
	Username string
	Password string
	ApiKey   string

	// defaults to DefaultProtocol
	Protocol string
	// defaults to DefaultDomain
	Domain string
	// defaults to DefaultVersion
	Version string
	// defaults to DefaultUnit
	Unit string

	// the number of retries after the first try fails, values < 1 fall
	// back to DefaultAttempts
	Attempts int

	// if not nil, every request/response pair is written to it
	Dump restyutil.InstrumentOutput
}

// Client is the authenticated session all SMM requests go through.
type Client struct {
	http     *resty.Client
	tel      telemetry.API
	base     string
	unit     string
	version  string
	attempts int
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("smm_core", tel)

	if opts.Protocol == "" {
		opts.Protocol = DefaultProtocol
	}
	if opts.Domain == "" {
		opts.Domain = DefaultDomain
	}
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}
	if opts.Unit == "" {
		opts.Unit = DefaultUnit
	}
	if opts.Attempts < 1 {
		opts.Attempts = DefaultAttempts
	}

	base := fmt.Sprintf("%s://%s/api/%s/", opts.Protocol, opts.Domain, opts.Unit)
	_, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	httpClient := resty.New()
	httpClient.SetHeader("accept", "application/json")
	httpClient.SetHeader("user-agent", fmt.Sprintf("smm-wrapper (api %s)", opts.Version))
	if opts.Username != "" && opts.Password != "" {
		httpClient.SetBasicAuth(opts.Username, opts.Password)
	}
	if opts.ApiKey != "" {
		httpClient.SetQueryParam("api_key", opts.ApiKey)
	}

	telemetry.InstrumentResty(httpClient, "smm-wrapper/lib/smm/core/http", tel)
	restyutil.DumpMessages(httpClient, opts.Dump)

	return &Client{
		http:     httpClient,
		tel:      tel,
		base:     base,
		unit:     opts.Unit,
		version:  opts.Version,
		attempts: opts.Attempts,
	}, nil
}

// Base returns the url every endpoint is relative to, it always ends in a slash.
func (c *Client) Base() string {
	return c.base
}

func (c *Client) Unit() string {
	return c.unit
}

func (c *Client) Version() string {
	return c.version
}

// Attempts is the number of retries made after a failed first try.
func (c *Client) Attempts() int {
	return c.attempts
}

// Request makes a GET request to the endpoint (relative to Base) and decodes
// the JSON body into out.
//
// A try fails on a network error, a non-2xx status or an undecodable body.
// Failed tries are retried immediately up to Attempts() more times, after
// which a *RequestError carrying the last failure is returned.
func (c *Client) Request(ctx context.Context, endpoint string, query url.Values, out any) error {
	ctx, span := tracer.Start(ctx, "client:Request")
	defer span.End()

	link := c.base + strings.TrimPrefix(endpoint, "/")
	span.SetAttributes(attribute.String("url", link))

	total := c.attempts + 1
	tries := 0
	var lastErr error
	for tries < total {
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}

		tries++
		lastErr = c.try(ctx, link, query, out)
		if lastErr == nil {
			span.SetAttributes(attribute.Int("tries", tries))
			return nil
		}

		failedAttemptCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("unit", c.unit)))
		if tries < total {
			c.tel.ReportWarning(
				report_client_attempt,
				fmt.Sprintf("connection failed (attempt %d of %d)", tries, total),
				link,
				lastErr,
			)
		}
	}

	err := &RequestError{Url: link, Tries: tries, Err: lastErr}
	span.RecordError(err)
	span.SetStatus(codes.Error, "request failed")
	c.tel.ReportBroken(report_client_request, err)
	return err
}

func (c *Client) try(ctx context.Context, link string, query url.Values, out any) error {
	req := c.http.R().SetContext(ctx)
	for key, values := range query {
		for _, v := range values {
			if v == "" {
				continue
			}
			req.QueryParam.Add(key, v)
		}
	}

	res, err := req.Get(link)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	if !res.IsSuccess() {
		return &StatusError{
			StatusCode: res.StatusCode(),
			Status:     res.Status(),
			Body:       truncate(res.String(), 256),
		}
	}

	err = json.Unmarshal(res.Body(), out)
	if err != nil {
		return fmt.Errorf("unmarshal json: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
