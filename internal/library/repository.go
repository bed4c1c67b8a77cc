package library

import (
	"context"

	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/resolver"
)

// Repository is the persistence the library needs. Lookups of missing
// records return an error wrapping domain.ErrNotFound.
type Repository interface {
	SaveLink(ctx context.Context, link *domain.Link) error
	SaveLinksMany(ctx context.Context, links []*domain.Link) error
	GetLink(ctx context.Context, id string) (*domain.Link, error)
	ListLinksByUser(ctx context.Context, userID string) ([]*domain.Link, error)
	DeleteLink(ctx context.Context, link *domain.Link) error

	SaveFolder(ctx context.Context, folder *domain.Folder) error
	GetFolder(ctx context.Context, id string) (*domain.Folder, error)
	GetFolderBySlug(ctx context.Context, slug string) (*domain.Folder, error)
	ListFoldersByUser(ctx context.Context, userID string) ([]*domain.Folder, error)
	DeleteFolder(ctx context.Context, folder *domain.Folder) error
}

// PreviewResolver is satisfied by *resolver.Resolver.
type PreviewResolver interface {
	Resolve(ctx context.Context, rawURL string) (resolver.Result, error)
}
