package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/stash/internal/domain"
)

// newLiveStore connects to the Redis named by STASH_TEST_REDIS_ADDR and
// skips the test when it is unset.
func newLiveStore(t *testing.T) *Store {
	t.Helper()

	addr := os.Getenv("STASH_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("STASH_TEST_REDIS_ADDR not set")
	}

	client := goredis.NewClient(&goredis.Options{Addr: addr, DB: 15})
	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	s := NewStore(client)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("redis not reachable: %v", err)
	}
	return s
}

func TestStoreUsers(t *testing.T) {
	s := newLiveStore(t)
	ctx := context.Background()

	u := &domain.User{ID: uuid.NewString(), Email: "ada@example.com", Name: "Ada", CreatedAt: time.Now().UTC()}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	dup := &domain.User{ID: uuid.NewString(), Email: "ada@example.com"}
	if err := s.CreateUser(ctx, dup); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	got, err := s.GetUserByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("got user %s, want %s", got.ID, u.ID)
	}

	if _, err := s.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreLinksAndTrash(t *testing.T) {
	s := newLiveStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	live := &domain.Link{ID: "l1", UserID: "u1", URL: "https://a.example", CreatedAt: now}
	trashed := &domain.Link{ID: "l2", UserID: "u1", URL: "https://b.example", CreatedAt: now}
	trashed.Archive(now.Add(-48 * time.Hour))

	for _, l := range []*domain.Link{live, trashed} {
		if err := s.SaveLink(ctx, l); err != nil {
			t.Fatalf("SaveLink: %v", err)
		}
	}

	links, err := s.ListLinksByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListLinksByUser: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}

	old, err := s.ArchivedBefore(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("ArchivedBefore: %v", err)
	}
	if len(old) != 1 || old[0].ID != "l2" {
		t.Fatalf("expected only l2 in trash, got %+v", old)
	}

	trashed.Restore(now)
	if err := s.SaveLink(ctx, trashed); err != nil {
		t.Fatalf("SaveLink: %v", err)
	}
	old, _ = s.ArchivedBefore(ctx, now)
	if len(old) != 0 {
		t.Errorf("restored link must leave the trash index, got %d", len(old))
	}

	if err := s.DeleteLink(ctx, live); err != nil {
		t.Fatalf("DeleteLink: %v", err)
	}
	if _, err := s.GetLink(ctx, "l1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStoreFolders(t *testing.T) {
	s := newLiveStore(t)
	ctx := context.Background()

	f := &domain.Folder{ID: "f1", UserID: "u1", Name: "Reading", Slug: "s3cr3t", LinkCount: 7}
	if err := s.SaveFolder(ctx, f); err != nil {
		t.Fatalf("SaveFolder: %v", err)
	}

	got, err := s.GetFolderBySlug(ctx, "s3cr3t")
	if err != nil {
		t.Fatalf("GetFolderBySlug: %v", err)
	}
	if got.Name != "Reading" || got.LinkCount != 0 {
		t.Errorf("unexpected folder %+v", got)
	}

	if err := s.DeleteFolder(ctx, f); err != nil {
		t.Fatalf("DeleteFolder: %v", err)
	}
	if _, err := s.GetFolderBySlug(ctx, "s3cr3t"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("slug should be gone, got %v", err)
	}
}

func TestStorePreviewCache(t *testing.T) {
	s := newLiveStore(t)
	ctx := context.Background()

	p, err := s.GetPreview(ctx, "https://example.com")
	if err != nil || p != nil {
		t.Fatalf("expected clean miss, got %v, %v", p, err)
	}

	want := domain.LinkPreview{Title: "Example", Type: domain.SourceOther}
	if err := s.SetPreview(ctx, "https://example.com", want, time.Minute); err != nil {
		t.Fatalf("SetPreview: %v", err)
	}

	p, err = s.GetPreview(ctx, "https://example.com")
	if err != nil || p == nil || *p != want {
		t.Fatalf("expected cached preview, got %v, %v", p, err)
	}

	ttl, err := s.client.TTL(ctx, PreviewKey("https://example.com")).Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Errorf("preview TTL = %v, %v; want within (0, 1m]", ttl, err)
	}
}
