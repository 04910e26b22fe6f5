package rss

import (
	"encoding/xml"

	"raven_news/internal/models"
)

// coindeskEntry is one <item> of the CoinDesk dialect, which stacks several
// dc:creator nodes per story and tags categories with a domain attribute.
// Neither quirk has a canonical field; both are dropped on conversion.
type coindeskEntry struct {
	Title       string             `xml:"title"`
	Link        string             `xml:"link"`
	Description string             `xml:"description"`
	PubDate     string             `xml:"pubDate"`
	Creators    []string           `xml:"creator"`
	Categories  []coindeskCategory `xml:"category"`
}

type coindeskCategory struct {
	Domain string `xml:"domain,attr"`
	Name   string `xml:",chardata"`
}

// CoindeskParser parses the CoinDesk outbound feed.
type CoindeskParser struct{}

func (CoindeskParser) Source() string { return "coindesk" }

func (p CoindeskParser) Parse(data []byte) ([]models.Item, int, error) {
	var (
		items   []models.Item
		skipped int
	)
	err := walkItems(p.Source(), data, func(dec *xml.Decoder, start xml.StartElement) error {
		var entry coindeskEntry
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
