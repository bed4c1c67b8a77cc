package resolver

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/MrSnakeDoc/stash/internal/domain"
)

// OpenGraph is what a Parser pulls out of a page head. Empty fields were not
// present in the document.
type OpenGraph struct {
	Title         string // og:title
	DocumentTitle string // <title>
	Description   string // og:description
	Image         string // og:image
}

// Parser extracts preview tags from an HTML document.
type Parser interface {
	Parse(r io.Reader) (OpenGraph, error)
}

// GoqueryParser queries the parsed DOM with CSS selectors.
type GoqueryParser struct{}

func NewGoqueryParser() *GoqueryParser { return &GoqueryParser{} }

func (p *GoqueryParser) Parse(r io.Reader) (OpenGraph, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return OpenGraph{}, fmt.Errorf("%w: %w", domain.ErrParseFailed, err)
	}

	return OpenGraph{
		Title:         metaProperty(doc, "og:title"),
		DocumentTitle: strings.TrimSpace(doc.Find("title").First().Text()),
		Description:   metaProperty(doc, "og:description"),
		Image:         metaProperty(doc, "og:image"),
	}, nil
}

func metaProperty(doc *goquery.Document, property string) string {
	content, _ := doc.Find(`meta[property="` + property + `"]`).First().Attr("content")
	return strings.TrimSpace(content)
}
