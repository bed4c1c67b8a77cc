package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/store/memory"
)

func archivedLink(id string, at time.Time) *domain.Link {
	l := &domain.Link{ID: id, UserID: "u1", URL: "https://" + id + ".example"}
	l.Archive(at)
	return l
}

func TestTrashCollector_Collect(t *testing.T) {
	log := logger.New("error", false)
	store := memory.NewStore()
	ctx := context.Background()

	now := time.Now()
	links := []*domain.Link{
		{ID: "live", UserID: "u1"},
		archivedLink("recently-trashed", now.Add(-10*24*time.Hour)), // 10 days ago
		archivedLink("old-trashed", now.Add(-35*24*time.Hour)),      // 35 days ago
	}
	if err := store.SaveLinksMany(ctx, links); err != nil {
		t.Fatalf("SaveLinksMany failed: %v", err)
	}

	// Create collector with 30 day retention
	tc := NewTrashCollector(store, log, 24*time.Hour, 30*24*time.Hour)
	tc.now = func() time.Time { return now }

	deleted, err := tc.Collect(ctx)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 link purged, got %d", deleted)
	}

	// Live and recently trashed links must survive
	for _, id := range []string{"live", "recently-trashed"} {
		if _, err := store.GetLink(ctx, id); err != nil {
			t.Errorf("%s was incorrectly removed: %v", id, err)
		}
	}

	if _, err := store.GetLink(ctx, "old-trashed"); !errors.Is(err, domain.ErrNotFound) {
		t.Error("Old trashed link was not removed")
	}
}

type flakyTrash struct {
	links   []*domain.Link
	failIDs map[string]bool
	deleted []string
	listErr error
}

func (f *flakyTrash) ArchivedBefore(context.Context, time.Time) ([]*domain.Link, error) {
	return f.links, f.listErr
}

func (f *flakyTrash) DeleteLink(_ context.Context, l *domain.Link) error {
	if f.failIDs[l.ID] {
		return errors.New("boom")
	}
	f.deleted = append(f.deleted, l.ID)
	return nil
}

func TestTrashCollector_FailuresDoNotAbortPass(t *testing.T) {
	old := time.Now().Add(-60 * 24 * time.Hour)
	store := &flakyTrash{
		links:   []*domain.Link{archivedLink("a", old), archivedLink("b", old), archivedLink("c", old)},
		failIDs: map[string]bool{"b": true},
	}

	tc := NewTrashCollector(store, logger.Nop(), 0, 0)
	deleted, err := tc.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Expected 2 deletions, got %d", deleted)
	}
	if len(store.deleted) != 2 || store.deleted[0] != "a" || store.deleted[1] != "c" {
		t.Errorf("Unexpected deletions: %v", store.deleted)
	}
}

func TestTrashCollector_SkipsRestoredLinks(t *testing.T) {
	restored := &domain.Link{ID: "restored", UserID: "u1"}
	store := &flakyTrash{links: []*domain.Link{restored}}

	tc := NewTrashCollector(store, logger.Nop(), time.Hour, time.Hour)
	deleted, _ := tc.Collect(context.Background())
	if deleted != 0 {
		t.Errorf("Expected restored link to be kept, got %d deletions", deleted)
	}
}

func TestTrashCollector_ListError(t *testing.T) {
	store := &flakyTrash{listErr: errors.New("redis down")}
	tc := NewTrashCollector(store, logger.Nop(), time.Hour, time.Hour)

	if _, err := tc.Collect(context.Background()); err == nil {
		t.Error("Expected error when listing fails")
	}
}

func TestTrashCollector_StartStop(t *testing.T) {
	old := time.Now().Add(-60 * 24 * time.Hour)
	store := &flakyTrash{links: []*domain.Link{archivedLink("a", old)}}

	tc := NewTrashCollector(store, logger.Nop(), time.Hour, time.Hour)
	if err := tc.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	tc.Stop()
	tc.Stop()

	if len(store.deleted) != 1 {
		t.Errorf("Start should collect once immediately, got %v", store.deleted)
	}
}
