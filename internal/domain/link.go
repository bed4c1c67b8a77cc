package domain

import "time"

// DefaultLinkTitle is used when a link is saved without a title.
const DefaultLinkTitle = "Untitled Link"

// Link is a URL saved by a user, together with the preview captured when it
// was saved.
type Link struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	ID     string `json:"id"`
	UserID string `json:"userId"`
	URL    string `json:"url"`

	// ─────────────────────────────
	// Preview
	// ─────────────────────────────

	Title    string          `json:"title"`
	Type     SourceType      `json:"type"`
	Metadata PreviewMetadata `json:"metadata"`

	// ─────────────────────────────
	// Organization
	// ─────────────────────────────

	// FolderID is empty when the link is not in a folder.
	FolderID   string `json:"folderId,omitempty"`
	IsFavorite bool   `json:"isFavorite"`

	// ─────────────────────────────
	// Trash
	// ─────────────────────────────

	// IsArchived marks a link as trashed. It can be restored until the
	// trash collector purges it.
	IsArchived bool       `json:"isArchived"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Archive moves the link to the trash.
func (l *Link) Archive(now time.Time) {
	l.IsArchived = true
	l.ArchivedAt = &now
	l.UpdatedAt = now
}

// Restore takes the link out of the trash.
func (l *Link) Restore(now time.Time) {
	l.IsArchived = false
	l.ArchivedAt = nil
	l.UpdatedAt = now
}
