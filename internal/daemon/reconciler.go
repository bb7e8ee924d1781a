package daemon

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/1broseidon/bsptile/internal/logging"
)

// Syncer brings the layout back in line with the window system.
type Syncer interface {
	Sync() error
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *log.Logger
}

// Reconciler periodically checks for state drift and corrects it. It covers
// client list changes the event subscription missed.
type Reconciler struct {
	interval time.Duration
	syncer   Syncer
	logger   *log.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, syncer Syncer) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Reconciler{
		interval: interval,
		syncer:   syncer,
		logger:   logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// reconcile performs a single reconciliation pass.
func (r *Reconciler) reconcile() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	if err := r.syncer.Sync(); err != nil {
		r.logger.Warn("reconciler: sync failed", "error", err)
	}
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() {
	r.reconcile()
}
