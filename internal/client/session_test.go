package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-analyzer/internal/types"
)

func waitForApplied(t *testing.T, a *Attempt, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if a.Aggregator.Applied() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("aggregator never reached %d applied events", want)
}

func TestSession_SupersededAttemptDiscardsLateEvents(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"type\":\"persona_start\",\"persona\":\"general\"}\n\n")
		flusher.Flush()
		<-release
		fmt.Fprint(w, "data: {\"type\":\"stream\",\"section\":\"headline\",\"chunk\":\"late data\"}\n\n")
		flusher.Flush()
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)
	session := NewSession(c)

	attempt := session.StartAnalysis(context.Background(), testProfile(), AttemptOptions{})
	waitForApplied(t, attempt, 1)

	// The user starts over; the in-flight attempt is no longer current.
	session.Reset()
	close(release)

	_, err = attempt.Wait(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSuperseded))

	// The late chunk never reached the superseded attempt's aggregator.
	progress := attempt.Aggregator.Progress()
	assert.Empty(t, progress[types.PersonaGeneral][types.SectionHeadline])
}

func TestSession_NewAttemptSupersedesOld(t *testing.T) {
	release := make(chan struct{})
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		if requests.Add(1) == 1 {
			fmt.Fprint(w, "data: {\"type\":\"persona_start\",\"persona\":\"general\"}\n\n")
			flusher.Flush()
			<-release
			fmt.Fprint(w, "data: {\"type\":\"stream\",\"section\":\"about\",\"chunk\":\"stale\"}\n\n")
			flusher.Flush()
			return
		}
		fmt.Fprint(w, "data: {\"type\":\"complete\",\"results\":{\"general\":{\"about_feedback\":\"fresh\"}}}\n\n")
		flusher.Flush()
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)
	session := NewSession(c)

	first := session.StartAnalysis(context.Background(), testProfile(), AttemptOptions{})
	waitForApplied(t, first, 1)

	second := session.StartAnalysis(context.Background(), testProfile(), AttemptOptions{})
	close(release)

	_, err = first.Wait(context.Background())
	assert.True(t, errors.Is(err, ErrSuperseded))

	result, err := second.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", result.Results[types.PersonaGeneral][types.SectionAbout])
}

func TestSession_AttemptIDsAreUnique(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "data: {\"type\":\"complete\",\"results\":{}}\n\n")
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)
	session := NewSession(c)

	a := session.StartAnalysis(context.Background(), testProfile(), AttemptOptions{})
	b := session.StartAnalysis(context.Background(), testProfile(), AttemptOptions{})
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.Current())
	assert.True(t, b.Current())
}

func TestAttempt_WaitHonorsContext(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	c, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)
	session := NewSession(c)

	attempt := session.StartAnalysis(context.Background(), testProfile(), AttemptOptions{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = attempt.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
