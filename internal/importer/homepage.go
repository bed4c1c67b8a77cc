package importer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoBookmarks is returned when a document parses but holds nothing to import.
var ErrNoBookmarks = errors.New("no valid bookmarks found")

var templateVariable = regexp.MustCompile(`\{\{[^}]+\}\}`)

// ParseHomepage reads a Homepage bookmarks.yaml document and returns its
// bookmarks in document order. Entries without href are skipped.
func ParseHomepage(data []byte) ([]Entry, error) {
	// Strip Homepage template variables ({{HOMEPAGE_VAR_...}})
	data = stripTemplateVariables(data)

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse bookmarks yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, ErrNoBookmarks
	}

	root := doc.Content[0]
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("failed to parse bookmarks yaml: expected a list of categories, got %s", kindName(root.Kind))
	}

	entries := make([]Entry, 0)
	for _, category := range root.Content {
		err := eachPair(category, func(categoryName string, bookmarks *yaml.Node) error {
			if bookmarks.Kind != yaml.SequenceNode {
				return fmt.Errorf("category %q: expected a list of bookmarks", categoryName)
			}
			for _, bookmark := range bookmarks.Content {
				err := eachPair(bookmark, func(name string, props *yaml.Node) error {
					var list []BookmarkEntry
					if err := props.Decode(&list); err != nil {
						return fmt.Errorf("bookmark %q: %w", name, err)
					}
					if len(list) == 0 {
						return nil
					}
					entry := list[0] // Take the first (and only) entry

					href := strings.TrimSpace(entry.Href)
					if href == "" {
						return nil
					}

					title := name
					if title == "" {
						title = entry.Abbr
					}
					entries = append(entries, Entry{Category: categoryName, Name: title, URL: href})
					return nil
				})
				if err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to parse bookmarks yaml: %w", err)
		}
	}

	if len(entries) == 0 {
		return nil, ErrNoBookmarks
	}
	return entries, nil
}

// eachPair calls fn for every key/value of a mapping node, in order.
func eachPair(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping, got %s", kindName(node.Kind))
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(strings.TrimSpace(node.Content[i].Value), node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// stripTemplateVariables removes Homepage template variables from YAML
// Example: {{HOMEPAGE_VAR_GITHUB_URL}} -> ""
func stripTemplateVariables(data []byte) []byte {
	return templateVariable.ReplaceAll(data, []byte(`""`))
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "list"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
