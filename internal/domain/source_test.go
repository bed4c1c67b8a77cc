package domain

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want SourceType
	}{
		{name: "youtube watch", url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: SourceYouTube},
		{name: "youtube short link", url: "https://youtu.be/dQw4w9WgXcQ", want: SourceYouTube},
		{name: "twitter", url: "https://twitter.com/golang/status/1", want: SourceTwitter},
		{name: "x", url: "https://x.com/golang/status/1", want: SourceTwitter},
		{name: "linkedin", url: "https://www.linkedin.com/in/someone", want: SourceLinkedIn},
		{name: "other", url: "https://go.dev/blog", want: SourceOther},
		{name: "empty", url: "", want: SourceOther},
		// Priority order is the tie-break: youtube beats twitter beats linkedin.
		{name: "youtube before twitter", url: "https://x.com/share?u=https://youtube.com/watch?v=abc", want: SourceYouTube},
		{name: "twitter before linkedin", url: "https://linkedin.com/redirect?to=twitter.com", want: SourceTwitter},
		{name: "substring match", url: "https://dropbox.com/s/file", want: SourceTwitter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.url); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.url, got, tt.want)
			}
		})
	}
}

func TestParseSourceType(t *testing.T) {
	tests := []struct {
		in     string
		want   SourceType
		wantOK bool
	}{
		{"YOUTUBE", SourceYouTube, true},
		{" linkedin ", SourceLinkedIn, true},
		{"other", SourceOther, true},
		{"", "", false},
		{"VIMEO", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseSourceType(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseSourceType(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFallbackPreview(t *testing.T) {
	p := FallbackPreview("https://youtu.be/dQw4w9WgXcQ")

	if p.Title != "https://youtu.be/dQw4w9WgXcQ" {
		t.Errorf("Title = %q, want the URL", p.Title)
	}
	if p.Type != SourceYouTube {
		t.Errorf("Type = %s, want %s", p.Type, SourceYouTube)
	}
	if p.Metadata != (PreviewMetadata{}) {
		t.Errorf("Metadata = %+v, want empty", p.Metadata)
	}
}
