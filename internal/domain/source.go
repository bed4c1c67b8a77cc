package domain

import "strings"

// SourceType is the coarse origin of a saved link.
type SourceType string

const (
	SourceYouTube  SourceType = "YOUTUBE"
	SourceTwitter  SourceType = "TWITTER"
	SourceLinkedIn SourceType = "LINKEDIN"
	SourceOther    SourceType = "OTHER"
)

// sourceRules are checked in order, first match wins.
var sourceRules = []struct {
	source  SourceType
	needles []string
}{
	{SourceYouTube, []string{"youtube.com", "youtu.be"}},
	{SourceTwitter, []string{"twitter.com", "x.com"}},
	{SourceLinkedIn, []string{"linkedin.com"}},
}

// Classify maps a raw URL to its SourceType using plain substring matching.
// It never touches the network and never fails.
func Classify(rawURL string) SourceType {
	for _, rule := range sourceRules {
		for _, needle := range rule.needles {
			if strings.Contains(rawURL, needle) {
				return rule.source
			}
		}
	}
	return SourceOther
}

// ParseSourceType accepts a client supplied type. Unknown or empty values
// report false.
func ParseSourceType(s string) (SourceType, bool) {
	switch st := SourceType(strings.ToUpper(strings.TrimSpace(s))); st {
	case SourceYouTube, SourceTwitter, SourceLinkedIn, SourceOther:
		return st, true
	default:
		return "", false
	}
}
