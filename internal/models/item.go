package models

import (
	"crypto/sha256"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// idSeparator delimits the fingerprint fields so that no two distinct
// (source, title, publishedAt) triples can canonicalize to the same byte string.
const idSeparator = "\x1f"

// Item is the canonical record every feed provider is normalized into.
// CreatedAt is zero until the store stamps it on first insert.
type Item struct {
	ID          uuid.UUID
	Source      string
	Title       string
	Link        string
	Summary     *string
	PublishedAt time.Time
	CreatedAt   time.Time
}

// ItemID computes the deterministic fingerprint of an item.
// Inputs are canonicalized first: source is trimmed and lower-cased, title is
// trimmed, and the timestamp is rendered as its UTC RFC 3339 string. The id is
// the first 16 bytes of the SHA-256 digest over the canonical fields, so any
// two runs (or machines) agree byte-for-byte.
func ItemID(source, title string, publishedAt time.Time) uuid.UUID {
	h := sha256.New()
	io.WriteString(h, CanonicalSource(source))
	io.WriteString(h, idSeparator)
	io.WriteString(h, strings.TrimSpace(title))
	io.WriteString(h, idSeparator)
	io.WriteString(h, publishedAt.UTC().Format(time.RFC3339))
	sum := h.Sum(nil)

	var id uuid.UUID
	copy(id[:], sum[:16])
	return id
}

// CanonicalSource normalizes a provider token ("  REUTERS " -> "reuters").
func CanonicalSource(source string) string {
	return strings.ToLower(strings.TrimSpace(source))
}

// NewItem builds a canonical Item with its derived id. Stored fields are kept
// in canonical form too, so the first persisted writer wins with normalized
// text regardless of how the provider padded it. An empty summary becomes nil.
func NewItem(source, title, link, summary string, publishedAt time.Time) Item {
	item := Item{
		Source:      CanonicalSource(source),
		Title:       strings.TrimSpace(title),
		Link:        strings.TrimSpace(link),
		PublishedAt: publishedAt.UTC(),
	}
	if s := strings.TrimSpace(summary); s != "" {
		item.Summary = &s
	}
	item.ID = ItemID(item.Source, item.Title, item.PublishedAt)
	return item
}
