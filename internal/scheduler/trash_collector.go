package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/logger"
)

const (
	// DefaultTrashRetention is how long archived links stay restorable
	DefaultTrashRetention = 30 * 24 * time.Hour // 30 days
	// DefaultTrashInterval is how often the trash is emptied
	DefaultTrashInterval = 24 * time.Hour
)

// TrashStore is what the collector needs from persistence.
type TrashStore interface {
	ArchivedBefore(ctx context.Context, cutoff time.Time) ([]*domain.Link, error)
	DeleteLink(ctx context.Context, link *domain.Link) error
}

// TrashCollector permanently deletes links that have sat in the trash for
// longer than the retention period.
type TrashCollector struct {
	store     TrashStore
	logger    logger.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// NewTrashCollector creates a new trash collector
func NewTrashCollector(
	store TrashStore,
	log logger.Logger,
	interval time.Duration,
	retention time.Duration,
) *TrashCollector {
	if interval <= 0 {
		interval = DefaultTrashInterval
	}
	if retention <= 0 {
		retention = DefaultTrashRetention
	}

	return &TrashCollector{
		store:     store,
		logger:    log,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start runs a collection right away, then every interval until ctx is
// done or Stop is called.
func (tc *TrashCollector) Start(ctx context.Context) error {
	// Run immediately on start
	if _, err := tc.Collect(ctx); err != nil {
		tc.logger.Warn("initial trash collection failed",
			logger.Error(err))
	}

	// Start periodic collection
	ticker := time.NewTicker(tc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := tc.Collect(ctx); err != nil {
					tc.logger.Error("trash collection failed",
						logger.Error(err))
				}
			case <-tc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the collector. It is safe to call more than once.
func (tc *TrashCollector) Stop() {
	tc.stopOnce.Do(func() {
		close(tc.stopCh)
	})
}

// Collect deletes expired trash and returns how many links were removed.
// A failing link is logged and skipped.
func (tc *TrashCollector) Collect(ctx context.Context) (int, error) {
	now := tc.now()
	cutoff := now.Add(-tc.retention)

	links, err := tc.store.ArchivedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired trash: %w", err)
	}

	deleted := 0
	for _, link := range links {
		// The index may lag behind a restore.
		if !link.IsArchived || link.ArchivedAt == nil || link.ArchivedAt.After(cutoff) {
			continue
		}

		if err := tc.store.DeleteLink(ctx, link); err != nil {
			tc.logger.Warn("failed to purge archived link",
				logger.String("link_id", link.ID),
				logger.Error(err))
			continue
		}

		tc.logger.Debug("purged archived link",
			logger.String("link_id", link.ID),
			logger.String("user_id", link.UserID),
			logger.Duration("archived_for", now.Sub(*link.ArchivedAt)))
		deleted++
	}

	if deleted > 0 {
		tc.logger.Info("trash collection completed",
			logger.Int("links_deleted", deleted))
	} else {
		tc.logger.Debug("no archived links to purge")
	}

	return deleted, nil
}
