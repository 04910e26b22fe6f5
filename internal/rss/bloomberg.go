package rss

import (
	"encoding/xml"

	"raven_news/internal/models"
)

// bloombergEntry is one <item> of the Bloomberg sections (wealth, economics,
// markets). Descriptions arrive as HTML snippets and are carried into the
// summary verbatim; creator and plain categories are dialect-only.
type bloombergEntry struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate"`
	Creator     string   `xml:"creator"`
	Categories  []string `xml:"category"`
}

// BloombergParser parses the Bloomberg news feed sections.
type BloombergParser struct{}

func (BloombergParser) Source() string { return "bloomberg" }

func (p BloombergParser) Parse(data []byte) ([]models.Item, int, error) {
	var (
		items   []models.Item
		skipped int
	)
	err := walkItems(p.Source(), data, func(dec *xml.Decoder, start xml.StartElement) error {
		var entry bloombergEntry
		if err := dec.DecodeElement(&entry, &start); err != nil {
			return err
		}
		item, ok := buildItem(p.Source(), entry.Title, entry.Link, entry.Description, entry.PubDate)
		if !ok {
			skipped++
			return nil
		}
		items = append(items, item)
		return nil
	})
	return items, skipped, err
}
