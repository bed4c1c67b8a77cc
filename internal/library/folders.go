package library

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/MrSnakeDoc/stash/internal/domain"
)

// SharedFolder is what a public share link shows.
type SharedFolder struct {
	Folder *domain.Folder `json:"folder"`
	Links  []*domain.Link `json:"links"`
}

func (s *Service) CreateFolder(ctx context.Context, userID, name string) (*domain.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: folder name is required", domain.ErrInvalidInput)
	}

	now := s.now()
	folder := &domain.Folder{
		ID:        s.newID(),
		UserID:    userID,
		Name:      name,
		Slug:      newSlug(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.SaveFolder(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}
	return folder, nil
}

// ListFolders returns the user's folders by name, each with its number of
// live links.
func (s *Service) ListFolders(ctx context.Context, userID string) ([]*domain.Folder, error) {
	folders, err := s.repo.ListFoldersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}

	links, err := s.repo.ListLinksByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count links: %w", err)
	}

	counts := make(map[string]int, len(folders))
	for _, l := range links {
		if l.FolderID != "" && !l.IsArchived {
			counts[l.FolderID]++
		}
	}
	for _, f := range folders {
		f.LinkCount = counts[f.ID]
	}

	slices.SortFunc(folders, func(a, b *domain.Folder) int {
		return cmp.Or(
			strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
			strings.Compare(a.Name, b.Name),
			strings.Compare(a.ID, b.ID),
		)
	})
	return folders, nil
}

func (s *Service) RenameFolder(ctx context.Context, userID, folderID, name string) (*domain.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: folder name is required", domain.ErrInvalidInput)
	}

	folder, err := s.ownedFolder(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}

	folder.Name = name
	folder.UpdatedAt = s.now()
	if err := s.repo.SaveFolder(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to rename folder: %w", err)
	}
	return folder, nil
}

func (s *Service) SetFolderPublic(ctx context.Context, userID, folderID string, public bool) (*domain.Folder, error) {
	folder, err := s.ownedFolder(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}

	folder.IsPublic = public
	folder.UpdatedAt = s.now()
	if err := s.repo.SaveFolder(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to share folder: %w", err)
	}
	return folder, nil
}

// DeleteFolder removes the folder. Its links stay in the library, detached.
func (s *Service) DeleteFolder(ctx context.Context, userID, folderID string) error {
	folder, err := s.ownedFolder(ctx, userID, folderID)
	if err != nil {
		return err
	}

	links, err := s.repo.ListLinksByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load folder links: %w", err)
	}
	for _, l := range links {
		if l.FolderID != folder.ID {
			continue
		}
		l.FolderID = ""
		if err := s.repo.SaveLink(ctx, l); err != nil {
			return fmt.Errorf("failed to detach link %s: %w", l.ID, err)
		}
	}

	if err := s.repo.DeleteFolder(ctx, folder); err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}
	return nil
}

// PublicFolder looks a folder up by share slug. Private folders are
// reported as missing.
func (s *Service) PublicFolder(ctx context.Context, slug string) (*SharedFolder, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: folder slug %q", domain.ErrNotFound, slug)
	}

	folder, err := s.repo.GetFolderBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !folder.IsPublic {
		return nil, fmt.Errorf("%w: folder slug %s", domain.ErrNotFound, slug)
	}

	all, err := s.repo.ListLinksByUser(ctx, folder.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shared links: %w", err)
	}

	links := make([]*domain.Link, 0)
	for _, l := range all {
		if l.FolderID == folder.ID && !l.IsArchived {
			links = append(links, l)
		}
	}
	sortNewestFirst(links)
	folder.LinkCount = len(links)

	return &SharedFolder{Folder: folder, Links: links}, nil
}

func (s *Service) ownedFolder(ctx context.Context, userID, folderID string) (*domain.Folder, error) {
	folder, err := s.repo.GetFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder.UserID != userID {
		return nil, fmt.Errorf("%w: folder %s", domain.ErrNotFound, folderID)
	}
	return folder, nil
}
