package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/importer"
	"github.com/MrSnakeDoc/stash/internal/logger"
)

// ImportResult summarizes a bookmark import.
type ImportResult struct {
	Imported int `json:"imported"`
	Folders  int `json:"folders"`
}

// ImportBookmarks saves every entry as a link, filed in a folder named after
// its category. Existing folders with that name are reused. Previews are
// resolved concurrently first; a degraded preview, including one cut short by
// ctx, does not stop the import. Once previews are settled the folders and
// links are written without regard to ctx cancellation, and folders created
// by a failed import are removed again. Imported links list in document order.
func (s *Service) ImportBookmarks(ctx context.Context, userID string, entries []importer.Entry) (ImportResult, error) {
	if len(entries) == 0 {
		return ImportResult{}, fmt.Errorf("%w: nothing to import", domain.ErrInvalidInput)
	}

	previews := make([]domain.LinkPreview, len(entries))
	var g errgroup.Group
	g.SetLimit(ImportConcurrency)
	for i, entry := range entries {
		g.Go(func() error {
			previews[i] = s.previewFor(ctx, entry.URL)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		s.logger.Warn("import ran out of time resolving previews, saving what it has",
			logger.String("user_id", userID),
			logger.Error(err))
	}

	commit := context.WithoutCancel(ctx)

	folderIDs, created, err := s.foldersByCategory(commit, userID, entries)
	if err != nil {
		s.removeFolders(commit, created)
		return ImportResult{}, err
	}

	now := s.now()
	links := make([]*domain.Link, len(entries))
	for i, entry := range entries {
		p := previews[i]
		title := entry.Name
		if title == "" {
			title = p.Title
		}
		// Earlier entries get later timestamps so newest-first keeps file order.
		createdAt := now.Add(-time.Duration(i) * time.Millisecond)
		links[i] = &domain.Link{
			ID:        s.newID(),
			UserID:    userID,
			URL:       entry.URL,
			Title:     titleOrDefault(title),
			Type:      p.Type,
			Metadata:  p.Metadata,
			FolderID:  folderIDs[entry.Category],
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		}
	}

	if err := s.repo.SaveLinksMany(commit, links); err != nil {
		s.removeFolders(commit, created)
		return ImportResult{}, fmt.Errorf("failed to save imported links: %w", err)
	}

	s.logger.Info("bookmarks imported",
		logger.String("user_id", userID),
		logger.Int("links", len(links)),
		logger.Int("folders_created", len(created)))

	return ImportResult{Imported: len(links), Folders: len(folderIDs)}, nil
}

// foldersByCategory maps each category to a folder id, creating the missing
// folders. Entries without a category map to "". The folders created so far
// are returned even on error.
func (s *Service) foldersByCategory(ctx context.Context, userID string, entries []importer.Entry) (map[string]string, []*domain.Folder, error) {
	existing, err := s.repo.ListFoldersByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list folders: %w", err)
	}

	byName := make(map[string]string, len(existing))
	for _, f := range existing {
		byName[f.Name] = f.ID
	}

	ids := make(map[string]string)
	var created []*domain.Folder
	for _, e := range entries {
		if e.Category == "" {
			continue
		}
		if _, done := ids[e.Category]; done {
			continue
		}
		if id, ok := byName[e.Category]; ok {
			ids[e.Category] = id
			continue
		}
		folder, err := s.CreateFolder(ctx, userID, e.Category)
		if err != nil {
			return nil, created, err
		}
		ids[e.Category] = folder.ID
		created = append(created, folder)
	}
	return ids, created, nil
}

func (s *Service) removeFolders(ctx context.Context, folders []*domain.Folder) {
	for _, f := range folders {
		if err := s.repo.DeleteFolder(ctx, f); err != nil {
			s.logger.Warn("failed to remove folder of a failed import",
				logger.String("folder_id", f.ID),
				logger.Error(err))
		}
	}
}

// previewFor never fails: anything the resolver cannot handle becomes the
// URL-only preview.
func (s *Service) previewFor(ctx context.Context, rawURL string) domain.LinkPreview {
	if s.resolver == nil || ctx.Err() != nil {
		return domain.FallbackPreview(rawURL)
	}

	res, err := s.resolver.Resolve(ctx, rawURL)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidInput) {
			s.logger.Warn("preview failed during import",
				logger.String("url", rawURL),
				logger.Error(err))
		}
		return domain.FallbackPreview(rawURL)
	}
	return res.Preview
}
