package redis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	// KeyPrefixUser is the prefix for user records
	KeyPrefixUser = "stash:user:"
	// KeyPrefixUserEmail maps a normalized email to a user id
	KeyPrefixUserEmail = "stash:user-email:"
	// KeyPrefixLink is the prefix for link records
	KeyPrefixLink = "stash:link:"
	// KeyPrefixFolder is the prefix for folder records
	KeyPrefixFolder = "stash:folder:"
	// KeyPrefixFolderSlug maps a share slug to a folder id
	KeyPrefixFolderSlug = "stash:folder-slug:"
	// KeyPrefixPreview is the prefix for cached link previews
	KeyPrefixPreview = "stash:preview:"
	// KeyTrash is the sorted set of archived link ids, scored by archive time
	KeyTrash = "stash:links:trash"
)

// UserKey returns the Redis key for a user by ID
func UserKey(id string) string {
	return KeyPrefixUser + id
}

// UserEmailKey returns the Redis key holding the user id for an email
func UserEmailKey(email string) string {
	return KeyPrefixUserEmail + strings.ToLower(email)
}

// UserLinksKey returns the set of link ids owned by a user
func UserLinksKey(userID string) string {
	return KeyPrefixUser + userID + ":links"
}

// UserFoldersKey returns the set of folder ids owned by a user
func UserFoldersKey(userID string) string {
	return KeyPrefixUser + userID + ":folders"
}

// LinkKey returns the Redis key for a link by ID
func LinkKey(id string) string {
	return KeyPrefixLink + id
}

// FolderKey returns the Redis key for a folder by ID
func FolderKey(id string) string {
	return KeyPrefixFolder + id
}

// FolderSlugKey returns the Redis key holding the folder id for a share slug
func FolderSlugKey(slug string) string {
	return KeyPrefixFolderSlug + slug
}

// PreviewKey hashes the URL so arbitrary input never ends up in a key name.
func PreviewKey(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return KeyPrefixPreview + hex.EncodeToString(sum[:])
}

// TrashKey returns the key of the archived links sorted set
func TrashKey() string {
	return KeyTrash
}
