package domain

import (
	"fmt"
	"regexp"
)

// youtubeIDPattern captures the 11 character video id from watch, embed, v/,
// youtu.be and channel/user prefixed watch URLs.
var youtubeIDPattern = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)

// ExtractYouTubeID returns the video id embedded in rawURL, if any.
func ExtractYouTubeID(rawURL string) (string, bool) {
	m := youtubeIDPattern.FindStringSubmatch(rawURL)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// YouTubeThumbnail is the high resolution thumbnail for a video id.
func YouTubeThumbnail(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID)
}
