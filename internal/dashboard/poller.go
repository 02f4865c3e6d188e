package dashboard

import (
	"context"
	"log"
	"sync"
	"time"
)

// PollState is the lifecycle state of the live tile poller. Each cycle moves
// Loading -> Rendered | Empty | Failed; Idle holds only before the first
// cycle.
type PollState int

const (
	StateIdle PollState = iota
	StateLoading
	StateRendered
	StateEmpty
	StateFailed
)

func (s PollState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateRendered:
		return "rendered"
	case StateEmpty:
		return "empty"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TileSink consumes the poller's per-cycle render output. Implementations
// must tolerate being driven through the full cycle protocol every interval:
// BeginCycle, exactly one of RenderTiles/RenderEmpty/RenderError, then
// FinishCycle.
type TileSink interface {
	// BeginCycle shows the loading indicator and clears the current grid
	// content, so stale data is never mixed with the incoming snapshot.
	BeginCycle()
	// RenderTiles replaces the grid with one tile per record.
	RenderTiles(tiles []Tile)
	// RenderEmpty replaces the grid with a dismissible notice asking the
	// operator to add monitored locations.
	RenderEmpty()
	// RenderError replaces the grid with an error notice asking the operator
	// to retry.
	RenderError(err error)
	// FinishCycle hides the loading indicator and restores grid visibility.
	// completedAt stamps the human-readable last-updated time; sinks record
	// it only for Rendered and Empty outcomes.
	FinishCycle(state PollState, completedAt time.Time)
}

// Poller drives the recurring fetch-render cycle for the live tile grid.
// Cycles are strictly sequential: the next cycle is scheduled a fixed
// interval after the previous one completes, so there is never more than one
// outstanding fetch.
type Poller struct {
	client   LiveClient
	sink     TileSink
	interval time.Duration
	timeout  time.Duration

	mu    sync.RWMutex
	state PollState
}

// NewPoller creates a poller. interval is the spacing between cycle
// completions; timeout bounds each cycle's fetch so a hung request cannot
// stall the loop indefinitely.
func NewPoller(client LiveClient, sink TileSink, interval, timeout time.Duration) *Poller {
	return &Poller{
		client:   client,
		sink:     sink,
		interval: interval,
		timeout:  timeout,
		state:    StateIdle,
	}
}

// State returns the outcome of the most recent cycle (or Loading while one is
// in flight).
func (p *Poller) State() PollState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *Poller) setState(s PollState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// Run executes the first cycle immediately, then keeps cycling until ctx is
// cancelled. Every failure mode is absorbed into a Failed cycle; nothing
// stops the loop except cancellation.
func (p *Poller) Run(ctx context.Context) {
	for {
		p.RunCycle(ctx)

		timer := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// Start launches Run on its own goroutine and returns a stop function that
// cancels the loop and waits for it to exit.
func (p *Poller) Start(ctx context.Context) (stop func()) {
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		p.Run(runCtx)
	}()

	return func() {
		cancel()
		<-done
	}
}

// RunCycle executes exactly one fetch-render cycle against the sink.
func (p *Poller) RunCycle(ctx context.Context) {
	p.setState(StateLoading)
	p.sink.BeginCycle()

	fetchCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	records, err := p.client.FetchLive(fetchCtx)

	var state PollState
	switch {
	case err != nil:
		state = StateFailed
		log.Printf("poller: live fetch failed: %v", err)
		p.sink.RenderError(err)
	case len(records) == 0:
		state = StateEmpty
		p.sink.RenderEmpty()
	default:
		tiles, buildErr := BuildTiles(records)
		if buildErr != nil {
			state = StateFailed
			log.Printf("poller: %v", buildErr)
			p.sink.RenderError(buildErr)
		} else {
			state = StateRendered
			p.sink.RenderTiles(tiles)
		}
	}

	p.sink.FinishCycle(state, time.Now())
	p.setState(state)
}
