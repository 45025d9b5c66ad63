package client

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/profile-analyzer/internal/analysis"
	"github.com/jonathan/profile-analyzer/internal/types"
)

// Session serializes analysis attempts for one user flow. Starting a new
// attempt supersedes the previous one: each attempt owns an independent
// aggregator, and events arriving for a superseded attempt are discarded
// before they can touch anything.
type Session struct {
	client *Client

	mu        sync.Mutex
	currentID uuid.UUID
}

// NewSession creates a session on top of a client.
func NewSession(c *Client) *Session {
	return &Session{client: c}
}

// Attempt is one in-flight or finished analysis attempt.
type Attempt struct {
	// ID uniquely identifies the attempt.
	ID uuid.UUID
	// Aggregator exposes live progress snapshots while the attempt streams.
	Aggregator *analysis.Aggregator

	session *Session
	done    chan struct{}
	result  *types.AnalysisResult
	err     error
}

// StartAnalysis begins a new attempt in the background, superseding any
// attempt still in flight. The attempt owns its aggregator and supersession
// check; those fields of opts are overwritten.
func (s *Session) StartAnalysis(ctx context.Context, profile *types.Profile, opts AttemptOptions) *Attempt {
	s.mu.Lock()
	id := uuid.New()
	s.currentID = id
	s.mu.Unlock()

	a := &Attempt{
		ID:         id,
		Aggregator: analysis.NewAggregator(),
		session:    s,
		done:       make(chan struct{}),
	}

	opts.Aggregator = a.Aggregator
	opts.StillCurrent = a.Current

	go func() {
		defer close(a.done)
		a.result, a.err = s.client.Analyze(ctx, profile, opts)
	}()

	return a
}

// Reset invalidates the current attempt without starting a new one, matching
// the "start new analysis" action that returns the user to the form.
func (s *Session) Reset() {
	s.mu.Lock()
	s.currentID = uuid.Nil
	s.mu.Unlock()
}

// Current reports whether this attempt is still the session's active one.
func (a *Attempt) Current() bool {
	a.session.mu.Lock()
	defer a.session.mu.Unlock()
	return a.session.currentID == a.ID
}

// Wait blocks until the attempt finishes or the context is cancelled, then
// returns the final result. Ownership of the result transfers to the caller.
func (a *Attempt) Wait(ctx context.Context) (*types.AnalysisResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-a.done:
		return a.result, a.err
	}
}
