package client

import (
	"context"
	"sync"
	"time"
)

// ListFunc fetches one page for a filter. It must honour ctx cancellation.
type ListFunc func(ctx context.Context, f Filter) (EmployeePage, error)

// ListResult is a delivered list response.
type ListResult struct {
	Seq    uint64
	Filter Filter
	Page   EmployeePage
	Err    error
}

// ListController keeps an employee listing in sync with a changing filter.
// Filter changes are debounced; issuing a request cancels the one in flight,
// and only the response to the most recently issued request is delivered.
type ListController struct {
	list     ListFunc
	debounce time.Duration
	deliver  func(ListResult)

	// held while issuing or delivering so a delivery never overlaps a newer issue
	deliverMu sync.Mutex

	mu      sync.Mutex
	parent  context.Context
	filter  Filter
	seq     uint64
	timer   *time.Timer
	cancel  context.CancelFunc
	stopped bool
}

// NewListController creates a controller. deliver is called from a
// background goroutine, never concurrently with itself. It may call SetFilter
// or Refresh but not Close.
func NewListController(ctx context.Context, list ListFunc, debounce time.Duration, deliver func(ListResult)) *ListController {
	return &ListController{
		list:     list,
		debounce: debounce,
		deliver:  deliver,
		parent:   ctx,
	}
}

// ListEmployeesFunc adapts Client.ListEmployees for a fixed token.
func (c *Client) ListEmployeesFunc(token string) ListFunc {
	return func(ctx context.Context, f Filter) (EmployeePage, error) {
		return c.ListEmployees(ctx, token, f)
	}
}

// SetFilter replaces the filter and schedules a request after the debounce
// delay. Calls within the delay collapse into one request.
func (lc *ListController) SetFilter(f Filter) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.filter = f
	lc.schedule(lc.debounce)
}

// Refresh re-issues the current filter without waiting for the debounce.
func (lc *ListController) Refresh() {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.schedule(0)
}

// Filter returns the current filter.
func (lc *ListController) Filter() Filter {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.filter
}

// Close stops pending timers and cancels the in-flight request. Nothing is
// delivered after Close returns.
func (lc *ListController) Close() {
	lc.mu.Lock()
	lc.stopped = true
	if lc.timer != nil {
		lc.timer.Stop()
	}
	if lc.cancel != nil {
		lc.cancel()
	}
	lc.mu.Unlock()

	// wait out a delivery that already passed its check
	lc.deliverMu.Lock()
	lc.deliverMu.Unlock()
}

// caller holds mu
func (lc *ListController) schedule(delay time.Duration) {
	if lc.stopped {
		return
	}
	if lc.timer != nil {
		lc.timer.Stop()
	}
	lc.timer = time.AfterFunc(delay, lc.issue)
}

func (lc *ListController) issue() {
	lc.deliverMu.Lock()
	lc.mu.Lock()
	if lc.stopped {
		lc.mu.Unlock()
		lc.deliverMu.Unlock()
		return
	}
	if lc.cancel != nil {
		lc.cancel()
	}
	ctx, cancel := context.WithCancel(lc.parent)
	lc.cancel = cancel
	lc.seq++
	seq, f := lc.seq, lc.filter
	lc.mu.Unlock()
	lc.deliverMu.Unlock()

	go lc.run(ctx, cancel, seq, f)
}

func (lc *ListController) run(ctx context.Context, cancel context.CancelFunc, seq uint64, f Filter) {
	defer cancel()
	page, err := lc.list(ctx, f)

	lc.deliverMu.Lock()
	defer lc.deliverMu.Unlock()
	lc.mu.Lock()
	current := !lc.stopped && seq == lc.seq
	lc.mu.Unlock()
	if !current || ctx.Err() != nil {
		return
	}
	lc.deliver(ListResult{Seq: seq, Filter: f, Page: page, Err: err})
}
