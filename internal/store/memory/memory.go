package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/stash/internal/domain"
)

// Store keeps users, links and folders in process memory. It is used for
// development and tests, and when STASH_STORE=memory. Records are copied on
// the way in and out so callers never share state with the store.
type Store struct {
	mu      sync.RWMutex
	users   map[string]*domain.User   // ID -> User
	emails  map[string]string         // lower-cased email -> user ID
	links   map[string]*domain.Link   // ID -> Link
	folders map[string]*domain.Folder // ID -> Folder
	slugs   map[string]string         // slug -> folder ID
}

// NewStore creates an empty memory store
func NewStore() *Store {
	return &Store{
		users:   make(map[string]*domain.User),
		emails:  make(map[string]string),
		links:   make(map[string]*domain.Link),
		folders: make(map[string]*domain.Folder),
		slugs:   make(map[string]string),
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// ─────────────────────────────
// Users
// ─────────────────────────────

func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, exists := s.emails[email]; exists {
		return fmt.Errorf("%w: user %s", domain.ErrConflict, user.Email)
	}

	u := *user
	s.users[u.ID] = &u
	s.emails[email] = u.ID
	return nil
}

func (s *Store) GetUser(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	out := *u
	return &out, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	id, ok := s.emails[strings.ToLower(email)]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, email)
	}
	return s.GetUser(ctx, id)
}

// ─────────────────────────────
// Links
// ─────────────────────────────

func (s *Store) SaveLink(_ context.Context, link *domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.links[link.ID] = cloneLink(link)
	return nil
}

// SaveLinksMany stores multiple links under a single lock.
func (s *Store) SaveLinksMany(_ context.Context, links []*domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, link := range links {
		s.links[link.ID] = cloneLink(link)
	}
	return nil
}

func (s *Store) GetLink(_ context.Context, id string) (*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.links[id]
	if !ok {
		return nil, fmt.Errorf("%w: link %s", domain.ErrNotFound, id)
	}
	return cloneLink(l), nil
}

func (s *Store) ListLinksByUser(_ context.Context, userID string) ([]*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	links := make([]*domain.Link, 0)
	for _, l := range s.links {
		if l.UserID == userID {
			links = append(links, cloneLink(l))
		}
	}
	return links, nil
}

func (s *Store) DeleteLink(_ context.Context, link *domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.links, link.ID)
	return nil
}

func (s *Store) ArchivedBefore(_ context.Context, cutoff time.Time) ([]*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	links := make([]*domain.Link, 0)
	for _, l := range s.links {
		if l.IsArchived && l.ArchivedAt != nil && !l.ArchivedAt.After(cutoff) {
			links = append(links, cloneLink(l))
		}
	}
	return links, nil
}

// ─────────────────────────────
// Folders
// ─────────────────────────────

func (s *Store) SaveFolder(_ context.Context, folder *domain.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := *folder
	f.LinkCount = 0
	s.folders[f.ID] = &f
	s.slugs[f.Slug] = f.ID
	return nil
}

func (s *Store) GetFolder(_ context.Context, id string) (*domain.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.folders[id]
	if !ok {
		return nil, fmt.Errorf("%w: folder %s", domain.ErrNotFound, id)
	}
	out := *f
	return &out, nil
}

func (s *Store) GetFolderBySlug(ctx context.Context, slug string) (*domain.Folder, error) {
	s.mu.RLock()
	id, ok := s.slugs[slug]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: folder slug %s", domain.ErrNotFound, slug)
	}
	return s.GetFolder(ctx, id)
}

func (s *Store) ListFoldersByUser(_ context.Context, userID string) ([]*domain.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	folders := make([]*domain.Folder, 0)
	for _, f := range s.folders {
		if f.UserID == userID {
			out := *f
			folders = append(folders, &out)
		}
	}
	return folders, nil
}

func (s *Store) DeleteFolder(_ context.Context, folder *domain.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.folders, folder.ID)
	delete(s.slugs, folder.Slug)
	return nil
}

func cloneLink(l *domain.Link) *domain.Link {
	out := *l
	if l.ArchivedAt != nil {
		at := *l.ArchivedAt
		out.ArchivedAt = &at
	}
	return &out
}
