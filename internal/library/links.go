package library

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/MrSnakeDoc/stash/internal/domain"
)

// NewLink is the input of SaveLink. Type and Metadata usually come from a
// previous metadata resolution; both are optional.
type NewLink struct {
	URL      string                  `json:"url"`
	Title    string                  `json:"title"`
	Type     string                  `json:"type"`
	Metadata *domain.PreviewMetadata `json:"metadata"`
	FolderID string                  `json:"folderId"`
}

// LinkFilter selects a view of the library. Archived selects the trash;
// otherwise only live links are returned.
type LinkFilter struct {
	FolderID      string
	FavoritesOnly bool
	Archived      bool
}

// LinkPatch holds optional changes. A nil field is left untouched; an empty
// FolderID removes the link from its folder.
type LinkPatch struct {
	IsFavorite *bool   `json:"isFavorite"`
	IsArchived *bool   `json:"isArchived"`
	Title      *string `json:"title"`
	FolderID   *string `json:"folderId"`
}

func (s *Service) SaveLink(ctx context.Context, userID string, in NewLink) (*domain.Link, error) {
	rawURL := strings.TrimSpace(in.URL)
	if rawURL == "" {
		return nil, fmt.Errorf("%w: url is required", domain.ErrInvalidInput)
	}

	folderID := strings.TrimSpace(in.FolderID)
	if folderID != "" {
		if _, err := s.ownedFolder(ctx, userID, folderID); err != nil {
			return nil, err
		}
	}

	sourceType, ok := domain.ParseSourceType(in.Type)
	if !ok {
		sourceType = domain.Classify(rawURL)
	}

	now := s.now()
	link := &domain.Link{
		ID:        s.newID(),
		UserID:    userID,
		URL:       rawURL,
		Title:     titleOrDefault(in.Title),
		Type:      sourceType,
		FolderID:  folderID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Metadata != nil {
		link.Metadata = *in.Metadata
	}

	if err := s.repo.SaveLink(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to save link: %w", err)
	}
	return link, nil
}

// ListLinks returns the user's links for a view. Live views are newest
// first by creation; the trash is most recently changed first.
func (s *Service) ListLinks(ctx context.Context, userID string, filter LinkFilter) ([]*domain.Link, error) {
	all, err := s.repo.ListLinksByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	links := make([]*domain.Link, 0, len(all))
	for _, l := range all {
		if l.IsArchived != filter.Archived {
			continue
		}
		if filter.FavoritesOnly && !l.IsFavorite {
			continue
		}
		if filter.FolderID != "" && l.FolderID != filter.FolderID {
			continue
		}
		links = append(links, l)
	}

	if filter.Archived {
		slices.SortFunc(links, func(a, b *domain.Link) int {
			return cmp.Or(b.UpdatedAt.Compare(a.UpdatedAt), strings.Compare(a.ID, b.ID))
		})
	} else {
		sortNewestFirst(links)
	}
	return links, nil
}

func (s *Service) UpdateLink(ctx context.Context, userID, linkID string, patch LinkPatch) (*domain.Link, error) {
	link, err := s.ownedLink(ctx, userID, linkID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if patch.FolderID != nil {
		folderID := strings.TrimSpace(*patch.FolderID)
		if folderID != "" {
			if _, err := s.ownedFolder(ctx, userID, folderID); err != nil {
				return nil, err
			}
		}
		link.FolderID = folderID
	}
	if patch.Title != nil {
		link.Title = titleOrDefault(*patch.Title)
	}
	if patch.IsFavorite != nil {
		link.IsFavorite = *patch.IsFavorite
	}
	if patch.IsArchived != nil && *patch.IsArchived != link.IsArchived {
		if *patch.IsArchived {
			link.Archive(now)
		} else {
			link.Restore(now)
		}
	}
	link.UpdatedAt = now

	if err := s.repo.SaveLink(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to update link: %w", err)
	}
	return link, nil
}

// DeleteLink removes a link for good. A link owned by someone else is
// reported as domain.ErrForbidden rather than hidden.
func (s *Service) DeleteLink(ctx context.Context, userID, linkID string) error {
	link, err := s.repo.GetLink(ctx, linkID)
	if err != nil {
		return err
	}
	if link.UserID != userID {
		return fmt.Errorf("%w: link %s", domain.ErrForbidden, linkID)
	}

	if err := s.repo.DeleteLink(ctx, link); err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	return nil
}

func (s *Service) ownedLink(ctx context.Context, userID, linkID string) (*domain.Link, error) {
	link, err := s.repo.GetLink(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if link.UserID != userID {
		return nil, fmt.Errorf("%w: link %s", domain.ErrNotFound, linkID)
	}
	return link, nil
}

func titleOrDefault(title string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return domain.DefaultLinkTitle
}

func sortNewestFirst(links []*domain.Link) {
	slices.SortFunc(links, func(a, b *domain.Link) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), strings.Compare(a.ID, b.ID))
	})
}
