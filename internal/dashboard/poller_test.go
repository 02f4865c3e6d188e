package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink captures the cycle protocol calls for assertions.
type recordingSink struct {
	mu      sync.Mutex
	calls   []string
	tiles   [][]Tile
	errs    []error
	stamps  []time.Time
	states  []PollState
	cycles  int
	cyclesC chan struct{}
}

func newRecordingSink() *recordingSink {
	return &recordingSink{cyclesC: make(chan struct{}, 100)}
}

func (s *recordingSink) BeginCycle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "begin")
}

func (s *recordingSink) RenderTiles(tiles []Tile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "tiles")
	s.tiles = append(s.tiles, tiles)
}

func (s *recordingSink) RenderEmpty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "empty")
}

func (s *recordingSink) RenderError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "error")
	s.errs = append(s.errs, err)
}

func (s *recordingSink) FinishCycle(state PollState, completedAt time.Time) {
	s.mu.Lock()
	s.calls = append(s.calls, "finish")
	s.states = append(s.states, state)
	s.stamps = append(s.stamps, completedAt)
	s.cycles++
	s.mu.Unlock()
	s.cyclesC <- struct{}{}
}

func (s *recordingSink) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// stubClient returns canned responses per call.
type stubClient struct {
	mu      sync.Mutex
	records []LiveRecord
	err     error
	calls   int
}

func (c *stubClient) FetchLive(ctx context.Context) ([]LiveRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.records, nil
}

func TestRunCycleRendered(t *testing.T) {
	sink := newRecordingSink()
	client := &stubClient{records: []LiveRecord{lagosRecord()}}
	p := NewPoller(client, sink, time.Minute, time.Second)

	require.Equal(t, StateIdle, p.State())
	p.RunCycle(context.Background())

	assert.Equal(t, StateRendered, p.State())
	assert.Equal(t, []string{"begin", "tiles", "finish"}, sink.snapshot())
	require.Len(t, sink.tiles, 1)
	assert.Equal(t, "Lagos", sink.tiles[0][0].City)
	assert.Equal(t, []PollState{StateRendered}, sink.states)
	assert.False(t, sink.stamps[0].IsZero())
}

func TestRunCycleEmpty(t *testing.T) {
	sink := newRecordingSink()
	p := NewPoller(&stubClient{}, sink, time.Minute, time.Second)

	p.RunCycle(context.Background())

	assert.Equal(t, StateEmpty, p.State())
	// One informational notice, zero tiles.
	assert.Equal(t, []string{"begin", "empty", "finish"}, sink.snapshot())
	assert.Empty(t, sink.tiles)
}

func TestRunCycleFetchFailure(t *testing.T) {
	sink := newRecordingSink()
	p := NewPoller(&stubClient{err: errors.New("connection refused")}, sink, time.Minute, time.Second)

	p.RunCycle(context.Background())

	assert.Equal(t, StateFailed, p.State())
	// Error notice, no tiles, and FinishCycle still runs so the loading
	// indicator is cleared.
	assert.Equal(t, []string{"begin", "error", "finish"}, sink.snapshot())
	assert.Empty(t, sink.tiles)
	assert.Equal(t, []PollState{StateFailed}, sink.states)
}

func TestRunCycleShapeMismatchFails(t *testing.T) {
	bad := lagosRecord()
	bad.Humidity = nil

	sink := newRecordingSink()
	p := NewPoller(&stubClient{records: []LiveRecord{bad}}, sink, time.Minute, time.Second)

	p.RunCycle(context.Background())

	assert.Equal(t, StateFailed, p.State())
	assert.Equal(t, []string{"begin", "error", "finish"}, sink.snapshot())
}

func TestRunSchedulesNextCycleAfterFailure(t *testing.T) {
	sink := newRecordingSink()
	client := &stubClient{err: errors.New("boom")}
	p := NewPoller(client, sink, 5*time.Millisecond, time.Second)

	stop := p.Start(context.Background())
	defer stop()

	// The timer must keep firing after Failed cycles.
	for i := 0; i < 3; i++ {
		select {
		case <-sink.cyclesC:
		case <-time.After(2 * time.Second):
			t.Fatalf("cycle %d never completed", i+1)
		}
	}
}

func TestRunCyclesAreSequential(t *testing.T) {
	sink := newRecordingSink()
	client := &stubClient{records: []LiveRecord{lagosRecord()}}
	p := NewPoller(client, sink, 5*time.Millisecond, time.Second)

	stop := p.Start(context.Background())
	for i := 0; i < 3; i++ {
		select {
		case <-sink.cyclesC:
		case <-time.After(2 * time.Second):
			t.Fatal("poller stalled")
		}
	}
	stop()

	// Every cycle follows the begin -> render -> finish protocol with no
	// interleaving.
	calls := sink.snapshot()
	require.GreaterOrEqual(t, len(calls), 9)
	for i := 0; i+2 < len(calls); i += 3 {
		assert.Equal(t, "begin", calls[i])
		assert.Equal(t, "finish", calls[i+2])
	}
}

func TestStartStopCancelsLoop(t *testing.T) {
	sink := newRecordingSink()
	client := &stubClient{records: []LiveRecord{lagosRecord()}}
	p := NewPoller(client, sink, time.Hour, time.Second)

	stop := p.Start(context.Background())
	select {
	case <-sink.cyclesC:
	case <-time.After(2 * time.Second):
		t.Fatal("first cycle never completed")
	}
	stop()

	client.mu.Lock()
	calls := client.calls
	client.mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestPerCycleTimeout(t *testing.T) {
	// A hung endpoint must resolve as a Failed cycle once the per-cycle
	// timeout elapses, not hang the loop.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	sink := newRecordingSink()
	client := NewHTTPLiveClient(srv.Client(), srv.URL)
	p := NewPoller(client, sink, time.Minute, 50*time.Millisecond)

	done := make(chan struct{})
	go func() {
		p.RunCycle(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("cycle did not time out")
	}
	assert.Equal(t, StateFailed, p.State())
}

func TestHTTPLiveClient(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"city":"Lagos","temp":30,"humidity":80,"aqi":160,"rain":75,"mm":12}]`))
		}))
		defer srv.Close()

		records, err := NewHTTPLiveClient(srv.Client(), srv.URL).FetchLive(context.Background())
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Lagos", *records[0].City)
	})

	t.Run("empty array is valid", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		records, err := NewHTTPLiveClient(srv.Client(), srv.URL).FetchLive(context.Background())
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewHTTPLiveClient(srv.Client(), srv.URL).FetchLive(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
	})

	t.Run("parse failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{not json`))
		}))
		defer srv.Close()

		_, err := NewHTTPLiveClient(srv.Client(), srv.URL).FetchLive(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode live response")
	})
}
