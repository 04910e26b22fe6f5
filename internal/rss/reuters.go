package rss

import (
	"encoding/xml"

	"raven_news/internal/models"
)

// reutersEntry is one <item> of the Thomson Reuters IR dialect; the news
// release, events and SEC filings sections all share it. dc:creator is part
// of the dialect but has no canonical field and is dropped on conversion.
type reutersEntry struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	Creator     string `xml:"creator"`
}

// ReutersParser parses the Reuters investor-relations feed sections.
type ReutersParser struct{}

func (ReutersParser) Source() string { return "reuters" }

func (p ReutersParser) Parse(data []byte) ([]models.Item, int, error) {
	var (
		items   []models.Item
		skipped int
	)
	err := walkItems(p.Source(), data, func(dec *xml.Decoder, start xml.StartElement) error {
		var entry reutersEntry
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
