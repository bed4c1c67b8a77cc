package importer

// BookmarkEntry represents a single bookmark entry in a Homepage bookmarks.yaml
type BookmarkEntry struct {
	Icon string `yaml:"icon"`
	Abbr string `yaml:"abbr"`
	Href string `yaml:"href"`
}

// The YAML structure is: - CategoryName: [ - BookmarkName: [{ icon, abbr, href }] ]
// Each bookmark name maps to a list with a single entry holding the properties.
// Maps are walked as yaml nodes so document order survives.

// Entry is one importable bookmark.
type Entry struct {
	Category string
	Name     string
	URL      string
}
