package domain

// PreviewMetadata holds the optional, type specific part of a preview.
// Empty strings mean "absent" and are omitted from JSON.
type PreviewMetadata struct {
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
	VideoID     string `json:"videoId,omitempty"`
}

// LinkPreview is the normalized result of resolving a URL.
//
// Title is never empty: it falls back to the URL itself. VideoID is only set
// for SourceYouTube.
type LinkPreview struct {
	Title    string          `json:"title"`
	Type     SourceType      `json:"type"`
	Metadata PreviewMetadata `json:"metadata"`
}

// FallbackPreview is the URL-only preview used when a page cannot be fetched.
func FallbackPreview(rawURL string) LinkPreview {
	return LinkPreview{
		Title: rawURL,
		Type:  Classify(rawURL),
	}
}
