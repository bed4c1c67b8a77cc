package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/stash/internal/domain"
)

func TestNewStore(t *testing.T) {
	s := NewStore()
	if s == nil {
		t.Fatal("NewStore() returned nil")
	}
	if links, _ := s.ListLinksByUser(context.Background(), "u1"); len(links) != 0 {
		t.Errorf("NewStore() should start empty, got %d links", len(links))
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping() = %v", err)
	}
}

func TestCreateUserConflict(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if err := s.CreateUser(ctx, &domain.User{ID: "u1", Email: "ada@example.com"}); err != nil {
		t.Fatalf("CreateUser() = %v", err)
	}

	err := s.CreateUser(ctx, &domain.User{ID: "u2", Email: "ADA@example.com"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("CreateUser() duplicate email = %v, want ErrConflict", err)
	}

	u, err := s.GetUserByEmail(ctx, "Ada@Example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() = %v", err)
	}
	if u.ID != "u1" {
		t.Errorf("GetUserByEmail() = %s, want u1", u.ID)
	}

	if _, err := s.GetUser(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetUser() missing = %v, want ErrNotFound", err)
	}
}

func TestLinksAreCopied(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	link := &domain.Link{ID: "l1", UserID: "u1", Title: "before"}
	if err := s.SaveLink(ctx, link); err != nil {
		t.Fatalf("SaveLink() = %v", err)
	}
	link.Title = "mutated after save"

	got, err := s.GetLink(ctx, "l1")
	if err != nil {
		t.Fatalf("GetLink() = %v", err)
	}
	if got.Title != "before" {
		t.Errorf("store shares memory with caller: title = %q", got.Title)
	}

	got.Title = "mutated after load"
	again, _ := s.GetLink(ctx, "l1")
	if again.Title != "before" {
		t.Errorf("store shares memory with reader: title = %q", again.Title)
	}
}

func TestListLinksByUser(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_ = s.SaveLinksMany(ctx, []*domain.Link{
		{ID: "a", UserID: "u1"},
		{ID: "b", UserID: "u1"},
		{ID: "c", UserID: "u2"},
	})

	links, err := s.ListLinksByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListLinksByUser() = %v", err)
	}
	if len(links) != 2 {
		t.Errorf("ListLinksByUser() = %d links, want 2", len(links))
	}
	other, _ := s.ListLinksByUser(ctx, "u2")
	if len(other) != 1 || other[0].ID != "c" {
		t.Errorf("ListLinksByUser(u2) = %v, want [c]", other)
	}
}

func TestArchivedBefore(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	now := time.Now()

	old := &domain.Link{ID: "old", UserID: "u1"}
	old.Archive(now.Add(-40 * 24 * time.Hour))
	recent := &domain.Link{ID: "recent", UserID: "u1"}
	recent.Archive(now.Add(-time.Hour))
	live := &domain.Link{ID: "live", UserID: "u1"}

	for _, l := range []*domain.Link{old, recent, live} {
		_ = s.SaveLink(ctx, l)
	}

	links, err := s.ArchivedBefore(ctx, now.Add(-30*24*time.Hour))
	if err != nil {
		t.Fatalf("ArchivedBefore() = %v", err)
	}
	if len(links) != 1 || links[0].ID != "old" {
		t.Errorf("ArchivedBefore() = %v, want only old", links)
	}
}

func TestFolders(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	f := &domain.Folder{ID: "f1", UserID: "u1", Name: "Reading", Slug: "slug1", LinkCount: 3}
	if err := s.SaveFolder(ctx, f); err != nil {
		t.Fatalf("SaveFolder() = %v", err)
	}

	got, err := s.GetFolderBySlug(ctx, "slug1")
	if err != nil {
		t.Fatalf("GetFolderBySlug() = %v", err)
	}
	if got.ID != "f1" || got.LinkCount != 0 {
		t.Errorf("GetFolderBySlug() = %+v", got)
	}

	folders, _ := s.ListFoldersByUser(ctx, "u1")
	if len(folders) != 1 {
		t.Errorf("ListFoldersByUser() = %d, want 1", len(folders))
	}

	if err := s.DeleteFolder(ctx, f); err != nil {
		t.Fatalf("DeleteFolder() = %v", err)
	}
	if _, err := s.GetFolderBySlug(ctx, "slug1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetFolderBySlug() after delete = %v, want ErrNotFound", err)
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = s.SaveLink(ctx, &domain.Link{ID: fmt.Sprintf("l%d", i), UserID: "u1"})
		}(i)
		go func() {
			defer wg.Done()
			_, _ = s.ListLinksByUser(ctx, "u1")
		}()
	}
	wg.Wait()

	links, err := s.ListLinksByUser(ctx, "u1")
	if err != nil || len(links) != 10 {
		t.Errorf("ListLinksByUser() = %d links, %v; want 10", len(links), err)
	}
}
