package sheets

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
	"git.home.luguber.info/inful/exhibitpal/internal/logfields"
	"git.home.luguber.info/inful/exhibitpal/internal/metrics"
	"git.home.luguber.info/inful/exhibitpal/internal/retry"
)

// Client wraps the Sheets values API with retries.
type Client struct {
	svc      *sheetsapi.Service
	policy   retry.Policy
	logger   *slog.Logger
	recorder metrics.Recorder
}

// ClientOptions configures NewClient.
type ClientOptions struct {
	Policy   retry.Policy
	Logger   *slog.Logger
	Recorder metrics.Recorder
}

// NewClient creates a Sheets client. apiOpts carry credentials and, in tests, the endpoint.
func NewClient(ctx context.Context, opts ClientOptions, apiOpts ...option.ClientOption) (*Client, error) {
	svc, err := sheetsapi.NewService(ctx, apiOpts...)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategorySheets, "failed to create sheets service").Build()
	}
	if opts.Policy.MaxAttempts == 0 {
		opts.Policy = retry.DefaultPolicy()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	return &Client{svc: svc, policy: opts.Policy, logger: opts.Logger, recorder: opts.Recorder}, nil
}

// Values fetches a range, retrying transient failures with the client's policy.
// name labels logs and metrics; quotaUser is forwarded when non-empty.
func (c *Client) Values(ctx context.Context, name, spreadsheetID, rng, quotaUser string) ([][]string, error) {
	var out [][]string
	err := c.policy.Do(ctx, func(attempt int) error {
		call := c.svc.Spreadsheets.Values.Get(spreadsheetID, rng).
			Fields("range", "majorDimension", "values").
			Context(ctx)
		var callOpts []googleapi.CallOption
		if quotaUser != "" {
			callOpts = append(callOpts, googleapi.QuotaUser(quotaUser))
		}
		resp, err := call.Do(callOpts...)
		if err != nil {
			return classify(err, name)
		}
		if len(resp.Values) == 0 {
			return errors.SheetsError("Google Sheets returned no data for configured range").
				WithContext("sheet", name).
				WithContext("range", rng).
				Build()
		}
		out = toStrings(resp.Values)
		return nil
	}, func(attempt int, delay time.Duration, err error) {
		c.recorder.IncFetchRetry(name)
		c.logger.Warn("Retrying Google Sheets fetch after transient error",
			slog.String("sheet", name),
			slog.Int("attempt", attempt),
			logfields.DurationMS(float64(delay.Milliseconds())),
			logfields.Error(err))
	})
	if err != nil {
		c.logger.Error("Failed to fetch Google Sheets values", slog.String("sheet", name), logfields.Error(err))
		return nil, err
	}
	return out, nil
}

func classify(err error, name string) error {
	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return errors.WrapError(err, errors.CategoryAuth, "google sheets rejected credentials").
				UserAction().
				WithContext("sheet", name).
				Build()
		case apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusBadRequest:
			return errors.WrapError(err, errors.CategorySheets, "google sheets range not found").
				WithContext("sheet", name).
				Build()
		case apiErr.Code == http.StatusTooManyRequests:
			return errors.WrapError(err, errors.CategorySheets, "google sheets quota exceeded").
				RateLimit().
				WithContext("sheet", name).
				Build()
		}
	}
	return errors.NetworkError("google sheets request failed").
		WithCause(err).
		WithContext("sheet", name).
		Build()
}

// RangeReader reads one configured range through a Client.
type RangeReader struct {
	Client        *Client
	Name          string
	SpreadsheetID string
	Range         string
	QuotaUser     string
}

// Read fetches the range.
func (r RangeReader) Read(ctx context.Context) ([][]string, error) {
	return r.Client.Values(ctx, r.Name, r.SpreadsheetID, r.Range, r.QuotaUser)
}
