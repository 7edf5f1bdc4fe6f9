package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"purechain-store/internal/models"
	"purechain-store/internal/util"

	"go.uber.org/zap"
)

// OrderLister is the slice of the sheet gateway the tracker polls.
type OrderLister interface {
	GetAllOrders(ctx context.Context) ([]models.OrderRow, error)
}

// OrderSource reads the locally persisted order list.
type OrderSource interface {
	Load() []models.PlacedOrder
}

// TrackedOrder is a local order enriched with its reconciled status. Cancelled
// orders carry StageIndex -1; they sit outside the progress sequence.
type TrackedOrder struct {
	models.PlacedOrder
	StageIndex int  `json:"stage_index"`
	Cancelled  bool `json:"cancelled"`
}

// StageIndex maps a status onto the fixed progress sequence, case-insensitive.
// Unrecognized statuses land on Pending.
func StageIndex(status string) int {
	for i, stage := range models.ProgressStages {
		if strings.EqualFold(stage, status) {
			return i
		}
	}
	return 0
}

// Tracker merges locally persisted order stubs with live status from the
// orders sheet. Local storage owns the order records; the sheet is the source
// of truth for status.
type Tracker struct {
	gateway OrderLister
	source  OrderSource
	logger  *zap.Logger

	mu          sync.Mutex
	local       []models.PlacedOrder
	live        map[string]string
	lastRefresh time.Time
}

// NewTracker creates a tracker and reads the local order list once.
func NewTracker(gw OrderLister, source OrderSource) *Tracker {
	return &Tracker{
		gateway: gw,
		source:  source,
		logger:  util.GetLogger(),
		local:   source.Load(),
		live:    map[string]string{},
	}
}

// Reload re-reads the local order list, picking up orders placed after
// construction.
func (t *Tracker) Reload() {
	orders := t.source.Load()
	t.mu.Lock()
	t.local = orders
	t.mu.Unlock()
}

// HasOrders reports whether any local orders exist.
func (t *Tracker) HasOrders() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.local) > 0
}

// Refresh polls the orders sheet and rebuilds the id-to-status map. Polling is
// best-effort: on failure the previous statuses stay in place and no error
// reaches the status display.
func (t *Tracker) Refresh(ctx context.Context) {
	rows, err := t.gateway.GetAllOrders(ctx)
	if err != nil {
		util.OrderStatusPolls.WithLabelValues("error").Inc()
		t.logger.Warn("Could not fetch live order status", zap.Error(err))
		return
	}

	live := make(map[string]string, len(rows))
	for _, row := range rows {
		live[row.OrderID.String()] = row.Status
	}

	t.mu.Lock()
	t.live = live
	t.lastRefresh = time.Now()
	t.mu.Unlock()

	util.OrderStatusPolls.WithLabelValues("ok").Inc()
}

// Orders returns the reconciled view: live status when known, otherwise the
// previously persisted status, otherwise Pending.
func (t *Tracker) Orders() []TrackedOrder {
	t.mu.Lock()
	defer t.mu.Unlock()

	tracked := make([]TrackedOrder, len(t.local))
	for i, o := range t.local {
		status := t.live[o.OrderID]
		if status == "" {
			status = o.Status
		}
		if status == "" {
			status = models.StatusPending
		}

		o.Status = status
		cancelled := strings.EqualFold(status, models.StatusCancelled)
		stage := -1
		if !cancelled {
			stage = StageIndex(status)
		}
		tracked[i] = TrackedOrder{PlacedOrder: o, StageIndex: stage, Cancelled: cancelled}
	}
	return tracked
}

// LastRefresh is the time of the last successful poll, zero if none yet.
func (t *Tracker) LastRefresh() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastRefresh
}

// Poller refreshes a tracker on a fixed interval while local orders exist.
type Poller struct {
	tracker  *Tracker
	interval time.Duration
	logger   *zap.Logger
}

// NewPoller creates a poller for the tracker.
func NewPoller(tracker *Tracker, interval time.Duration) *Poller {
	return &Poller{
		tracker:  tracker,
		interval: interval,
		logger:   util.GetLogger(),
	}
}

// Start runs the poll loop until the context is cancelled. It refreshes
// immediately when orders already exist, then on every tick that finds any.
func (p *Poller) Start(ctx context.Context) error {
	p.logger.Info("Starting order status poller",
		zap.Duration("interval", p.interval))

	if p.tracker.HasOrders() {
		p.tracker.Refresh(ctx)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Order status poller stopped")
			return ctx.Err()
		case <-ticker.C:
			if p.tracker.HasOrders() {
				p.tracker.Refresh(ctx)
			}
		}
	}
}
