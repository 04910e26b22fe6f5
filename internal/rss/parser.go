package rss

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"raven_news/internal/models"
)

// Parser turns one provider's raw feed document into canonical items.
// Parsing is pure: no I/O, no persistence, document order preserved. The int
// result counts entries skipped for missing or unparsable mandatory fields.
type Parser interface {
	Source() string
	Parse(data []byte) ([]models.Item, int, error)
}

// ParseError reports a structurally broken feed document. Entries decoded
// before the breakage are still returned alongside the error.
type ParseError struct {
	Source  string
	Element string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s feed: malformed %s: %v", e.Source, e.Element, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var parsers = map[string]Parser{
	"reuters":   ReutersParser{},
	"bloomberg": BloombergParser{},
	"coindesk":  CoindeskParser{},
}

// ParserFor looks up the parser variant registered for a provider token.
func ParserFor(source string) (Parser, bool) {
	p, ok := parsers[models.CanonicalSource(source)]
	return p, ok
}

// Sources lists the registered provider tokens in stable order.
func Sources() []string {
	out := make([]string, 0, len(parsers))
	for s := range parsers {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// walkItems streams <item> elements out of a feed document and hands each one
// to visit for decoding. A token-level error aborts the walk with a ParseError;
// everything visited before that point stays valid.
func walkItems(source string, data []byte, visit func(dec *xml.Decoder, start xml.StartElement) error) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &ParseError{Source: source, Element: "document", Err: err}
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "item" {
			continue
		}
		if err := visit(dec, start); err != nil {
			return &ParseError{Source: source, Element: "item", Err: err}
		}
	}
}

// buildItem validates the mandatory fields of a decoded entry and constructs
// the canonical item. ok=false marks the entry as skipped: title and link must
// be non-empty and pubDate must parse in the provider's native format. There
// is no wall-clock fallback for bad dates; that would break id determinism.
func buildItem(source, title, link, summary, pubDate string) (models.Item, bool) {
	title = strings.TrimSpace(stripCDATA(title))
	link = strings.TrimSpace(link)
	if title == "" || link == "" {
		return models.Item{}, false
	}
	publishedAt, err := parsePubDate(pubDate)
	if err != nil {
		return models.Item{}, false
	}
	return models.NewItem(source, title, link, stripCDATA(summary), publishedAt), true
}

// parsePubDate parses the RFC 2822 style timestamps RSS feeds carry, with the
// named-zone form as fallback.
func parsePubDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC1123Z, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC1123, s)
}

// stripCDATA unwraps text whose CDATA markers survived decoding because the
// provider escaped them into the character data.
func stripCDATA(text string) string {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "<![CDATA[") && strings.HasSuffix(t, "]]>") {
		return strings.TrimSuffix(strings.TrimPrefix(t, "<![CDATA["), "]]>")
	}
	return text
}
