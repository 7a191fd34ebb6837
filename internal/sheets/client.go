package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
	sheetsapi "google.golang.org/api/sheets/v4"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/pauloqxm/adatualiza/internal/platform/metrics"
	dErrors "github.com/pauloqxm/adatualiza/pkg/domain-errors"
)

const (
	// maxAttempts is the hard ceiling on tries per backend call. Retries are
	// never unbounded.
	maxAttempts = 3

	// backoffBase grows linearly per attempt: 500ms, 1s, 1.5s.
	backoffBase = 500 * time.Millisecond
)

// valueInputOption lets the sheet interpret values the way a typing user
// would, so dates and numbers keep their cell formats.
const valueInputOption = "USER_ENTERED"

var tracer = otel.Tracer("github.com/pauloqxm/adatualiza/internal/sheets")

// Client implements Backend over the Sheets v4 API with bounded retry and
// client-side rate limiting (the per-user read quota is 60/min).
type Client struct {
	svc            *sheetsapi.Service
	spreadsheetID  string
	worksheetTitle string

	limiter *rate.Limiter
	logger  *slog.Logger
	metrics *metrics.Metrics

	// sleep is swapped out in tests to keep retries instant.
	sleep func(time.Duration)
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics wires the prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithRateLimit overrides the default limiter.
func WithRateLimit(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// NewClient authenticates with the resolved service-account credential and
// binds to one worksheet of one spreadsheet.
func NewClient(ctx context.Context, spreadsheetID, worksheetTitle string, credentialsJSON []byte, opts ...Option) (*Client, error) {
	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthenticated, "authenticate sheets client")
	}

	c := &Client{
		svc:            svc,
		spreadsheetID:  spreadsheetID,
		worksheetTitle: worksheetTitle,
		limiter:        rate.NewLimiter(rate.Limit(1), 4),
		logger:         slog.Default(),
		sleep:          time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Values(ctx context.Context) ([][]string, error) {
	var out [][]string
	err := c.call(ctx, "values", func(ctx context.Context) error {
		resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.rangeAll()).Context(ctx).Do()
		if err != nil {
			return err
		}
		out = toStringGrid(resp.Values)
		return nil
	})
	return out, err
}

func (c *Client) Header(ctx context.Context) ([]string, error) {
	var out []string
	err := c.call(ctx, "header", func(ctx context.Context) error {
		resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.rangeRow(1)).Context(ctx).Do()
		if err != nil {
			return err
		}
		grid := toStringGrid(resp.Values)
		if len(grid) > 0 {
			out = grid[0]
		} else {
			out = nil
		}
		return nil
	})
	return out, err
}

func (c *Client) Row(ctx context.Context, n int) ([]string, error) {
	var out []string
	err := c.call(ctx, "row", func(ctx context.Context) error {
		resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.rangeRow(n)).Context(ctx).Do()
		if err != nil {
			return err
		}
		grid := toStringGrid(resp.Values)
		if len(grid) > 0 {
			out = grid[0]
		} else {
			out = nil
		}
		return nil
	})
	return out, err
}

func (c *Client) Append(ctx context.Context, row []string) error {
	vr := &sheetsapi.ValueRange{Values: [][]any{toAnyRow(row)}}
	return c.call(ctx, "append", func(ctx context.Context) error {
		_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, c.rangeAll(), vr).
			ValueInputOption(valueInputOption).
			InsertDataOption("INSERT_ROWS").
			Context(ctx).Do()
		return err
	})
}

func (c *Client) UpdateRange(ctx context.Context, a1 string, row []string) error {
	vr := &sheetsapi.ValueRange{Values: [][]any{toAnyRow(row)}}
	return c.call(ctx, "update", func(ctx context.Context) error {
		_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, c.qualify(a1), vr).
			ValueInputOption(valueInputOption).
			Context(ctx).Do()
		return err
	})
}

// call wraps one API operation with rate limiting, tracing, metrics, and the
// bounded retry policy.
func (c *Client) call(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, span := tracer.Start(ctx, "sheets."+op, trace.WithAttributes(
		attribute.String("spreadsheet_id", c.spreadsheetID),
		attribute.String("worksheet", c.worksheetTitle),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.BackendLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
		}
	}()

	err := retry(ctx, maxAttempts, backoffBase, c.sleep, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		return fn(ctx)
	}, func(attempt int, err error) {
		if c.metrics != nil {
			c.metrics.BackendRetries.Inc()
		}
		c.logger.WarnContext(ctx, "sheets call retrying",
			"op", op,
			"attempt", attempt,
			"error", err.Error(),
		)
	})
	if err != nil {
		span.RecordError(err)
		return mapAPIError(err, op)
	}
	return nil
}

// retry runs fn up to attempts times, sleeping base*attempt between tries.
// Only transient errors are retried; anything else surfaces immediately.
func retry(ctx context.Context, attempts int, base time.Duration, sleep func(time.Duration), fn func() error, onRetry func(int, error)) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !isTransient(err) || attempt == attempts {
			return err
		}
		onRetry(attempt, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		sleep(base * time.Duration(attempt))
	}
	return err
}

// isTransient reports whether an error is worth retrying: rate-limit and
// server-side API failures, plus plain network errors.
func isTransient(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// mapAPIError translates API failures into the domain taxonomy.
func mapAPIError(err error, op string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 401 || apiErr.Code == 403:
			return dErrors.Wrap(err, dErrors.CodeUnauthenticated, "sheets credentials rejected")
		case apiErr.Code == 404:
			return dErrors.Wrap(err, dErrors.CodeNotFound, "spreadsheet or worksheet not found")
		}
	}
	if isTransient(err) {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, fmt.Sprintf("sheets %s failed after %d attempts", op, maxAttempts))
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "sheets call aborted")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "sheets "+op)
}

func (c *Client) rangeAll() string {
	return fmt.Sprintf("'%s'", c.worksheetTitle)
}

func (c *Client) rangeRow(n int) string {
	return fmt.Sprintf("'%s'!%d:%d", c.worksheetTitle, n, n)
}

func (c *Client) qualify(a1 string) string {
	return fmt.Sprintf("'%s'!%s", c.worksheetTitle, a1)
}

func toStringGrid(values [][]any) [][]string {
	grid := make([][]string, 0, len(values))
	for _, row := range values {
		cells := make([]string, 0, len(row))
		for _, v := range row {
			cells = append(cells, fmt.Sprintf("%v", v))
		}
		grid = append(grid, cells)
	}
	return grid
}

func toAnyRow(row []string) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}
