// Package client drives analysis attempts against the remote analysis service:
// the incremental streaming path first, with a single fallback to the blocking
// endpoint when streaming is unavailable or explicitly abandoned.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/jonathan/profile-analyzer/internal/analysis"
	"github.com/jonathan/profile-analyzer/internal/schemas"
	"github.com/jonathan/profile-analyzer/internal/stream"
	"github.com/jonathan/profile-analyzer/internal/types"
)

const (
	// StreamEndpoint is the incremental analysis path on the service.
	StreamEndpoint = "/analyze-stream"
	// BlockingEndpoint is the single-shot fallback path.
	BlockingEndpoint = "/analyze"

	// DefaultFallbackTimeout bounds the blocking call. The streaming request
	// carries no overall timeout; mid-stream failures surface as read errors.
	DefaultFallbackTimeout = 5 * time.Minute

	// readBufferSize is the transport read granularity for the stream.
	readBufferSize = 2048
)

// Progress is a transient in-flight status snapshot surfaced to callers.
// A zero Progress clears previous indicators.
type Progress struct {
	Status  string
	Section types.Section
	Persona types.Persona
}

// ProgressFunc receives progress updates during an attempt.
type ProgressFunc func(Progress)

// Options configures a Client.
type Options struct {
	// BaseURL of the analysis service, e.g. "http://localhost:8000".
	BaseURL string
	// HTTPClient overrides the transport. Defaults to a client without an
	// overall timeout so long-lived streams are not cut off.
	HTTPClient *http.Client
	// FallbackTimeout bounds the blocking call. Zero means DefaultFallbackTimeout.
	FallbackTimeout time.Duration
	// Verbose enables request and frame logging.
	Verbose bool
}

// Client talks to the analysis service.
type Client struct {
	baseURL         string
	http            *http.Client
	fallbackTimeout time.Duration
	verbose         bool
}

// New creates a Client for the given service.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := opts.FallbackTimeout
	if timeout == 0 {
		timeout = DefaultFallbackTimeout
	}
	return &Client{
		baseURL:         opts.BaseURL,
		http:            httpClient,
		fallbackTimeout: timeout,
		verbose:         opts.Verbose,
	}, nil
}

// AttemptOptions configures a single analysis attempt.
type AttemptOptions struct {
	// Aggregator receives the stream events. A fresh one is used when nil.
	Aggregator *analysis.Aggregator
	// OnProgress, when set, receives transient status updates.
	OnProgress ProgressFunc
	// StillCurrent, when set, is consulted before events are applied and
	// before a result is committed; once it reports false the attempt stops
	// with ErrSuperseded and discards everything that arrives afterwards.
	StillCurrent func() bool
	// DisableStreaming skips the incremental path entirely.
	DisableStreaming bool
}

// Analyze runs one end-to-end analysis attempt: the incremental path first,
// then exactly one fallback to the blocking endpoint if streaming could not be
// opened, failed mid-flight, or signalled a fatal error. Transient status
// indicators are cleared on return regardless of outcome.
func (c *Client) Analyze(ctx context.Context, profile *types.Profile, opts AttemptOptions) (result *types.AnalysisResult, err error) {
	if profile == nil {
		return nil, fmt.Errorf("profile is required")
	}

	agg := opts.Aggregator
	if agg == nil {
		agg = analysis.NewAggregator()
	}

	defer func() {
		agg.ClearTransient()
		c.emit(opts, Progress{})
	}()

	if !opts.DisableStreaming {
		result, err = c.analyzeStream(ctx, profile, agg, opts)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, ErrSuperseded) || ctx.Err() != nil {
			return nil, err
		}
		if c.verbose {
			log.Printf("[client] streaming failed: %v; falling back to blocking analysis", err)
		}
		c.emit(opts, Progress{Status: "Switching to fallback mode..."})
	}

	return c.analyzeBlocking(ctx, profile, opts)
}

// analyzeStream opens the incremental channel and feeds its events through the
// decoder, parser, and aggregator until end-of-stream.
func (c *Client) analyzeStream(ctx context.Context, profile *types.Profile, agg *analysis.Aggregator, opts AttemptOptions) (*types.AnalysisResult, error) {
	body, err := requestBody(profile)
	if err != nil {
		return nil, fmt.Errorf("encoding profile: %w", err)
	}

	endpoint := c.baseURL + StreamEndpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &RequestError{Endpoint: endpoint, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RequestError{Endpoint: endpoint, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &RequestError{Endpoint: endpoint, Status: resp.StatusCode, Message: "unexpected status opening stream"}
	}

	c.emit(opts, Progress{Status: "Initializing..."})

	decoder := &stream.LineDecoder{}
	parser := &stream.Parser{Verbose: c.verbose}
	buf := make([]byte, readBufferSize)

	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			for _, line := range decoder.Decode(string(buf[:n])) {
				if err := c.handleLine(line, parser, agg, opts); err != nil {
					return nil, err
				}
			}
		}
		if readErr == io.EOF {
			if line, ok := decoder.Flush(); ok {
				if err := c.handleLine(line, parser, agg, opts); err != nil {
					return nil, err
				}
			}
			break
		}
		if readErr != nil {
			return nil, &RequestError{Endpoint: endpoint, Message: "stream read failed", Cause: readErr}
		}
	}

	if agg.Applied() == 0 {
		return nil, &RequestError{Endpoint: endpoint, Message: "stream carried no events"}
	}
	if c.verbose && parser.Skipped > 0 {
		log.Printf("[client] skipped %d malformed frame(s)", parser.Skipped)
	}
	return agg.Result(), nil
}

// handleLine parses and applies one decoded line, enforcing superseded-attempt
// isolation before the event touches the aggregator.
func (c *Client) handleLine(line string, parser *stream.Parser, agg *analysis.Aggregator, opts AttemptOptions) error {
	event, ok := parser.ParseLine(line)
	if !ok {
		return nil
	}
	if opts.StillCurrent != nil && !opts.StillCurrent() {
		return ErrSuperseded
	}
	if err := agg.Apply(event); err != nil {
		return err
	}

	switch event.Type {
	case stream.EventPersonaStart:
		c.emit(opts, Progress{Status: agg.Status(), Persona: event.Persona})
	case stream.EventSectionStart:
		c.emit(opts, Progress{Status: agg.Status(), Section: event.Section})
	case stream.EventComplete:
		c.emit(opts, Progress{Status: agg.Status()})
	case stream.EventError:
		// Non-fatal: surfaced as an advisory, streaming continues.
		c.emit(opts, Progress{Status: event.Message})
	}
	return nil
}

// analyzeBlocking issues the single-shot request and interprets the response
// body directly as a finished result, after checking it against the response
// schema.
func (c *Client) analyzeBlocking(ctx context.Context, profile *types.Profile, opts AttemptOptions) (*types.AnalysisResult, error) {
	body, err := requestBody(profile)
	if err != nil {
		return nil, fmt.Errorf("encoding profile: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.fallbackTimeout)
	defer cancel()

	c.emit(opts, Progress{Status: "Using standard analysis mode..."})

	endpoint := c.baseURL + BlockingEndpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &RequestError{Endpoint: endpoint, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RequestError{Endpoint: endpoint, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &RequestError{Endpoint: endpoint, Status: resp.StatusCode, Message: "analysis failed"}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Endpoint: endpoint, Message: "failed to read response body", Cause: err}
	}

	if err := schemas.ValidateAnalysisResponse(string(payload)); err != nil {
		return nil, fmt.Errorf("fallback response rejected: %w", err)
	}

	var result types.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("decoding fallback response: %w", err)
	}

	if opts.StillCurrent != nil && !opts.StillCurrent() {
		return nil, ErrSuperseded
	}
	return &result, nil
}

func (c *Client) emit(opts AttemptOptions, p Progress) {
	if opts.OnProgress != nil {
		opts.OnProgress(p)
	}
}

// requestBody marshals a normalized copy of the profile. The caller's profile
// is never mutated; entries flagged as current get the Present end date on the
// copy only.
func requestBody(profile *types.Profile) ([]byte, error) {
	cp := *profile
	cp.Experiences = append([]types.Experience(nil), profile.Experiences...)
	cp.Education = append([]types.Education(nil), profile.Education...)
	cp.Normalize()
	return json.Marshal(&cp)
}
