package rss

import (
	"testing"
	"time"

	"raven_news/internal/models"

	"github.com/stretchr/testify/require"
)

const reutersFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/">
  <channel>
    <title>Thomson Reuters | SEC Filings</title>
    <link>https://ir.thomsonreuters.com</link>
    <item>
      <title><![CDATA[Thomson Reuters Reports First-Quarter 2024 Results]]></title>
      <link>https://ir.thomsonreuters.com/news-releases/q1-2024</link>
      <description><![CDATA[Revenues up 8%, driven by recurring revenue growth.]]></description>
      <pubDate>Wed, 01 May 2024 12:00:00 +0000</pubDate>
      <dc:creator>Investor Relations</dc:creator>
    </item>
    <item>
      <title>Form 10-Q Filed</title>
      <link>https://ir.thomsonreuters.com/sec-filings/10-q</link>
      <pubDate>Thu, 02 May 2024 09:30:00 -0400</pubDate>
      <dc:creator>EDGAR</dc:creator>
    </item>
  </channel>
</rss>`

func TestReutersParse(t *testing.T) {
	items, skipped, err := ReutersParser{}.Parse([]byte(reutersFeedXML))
	require.NoError(t, err)
	require.Zero(t, skipped)
	require.Len(t, items, 2)

	first := items[0]
	require.Equal(t, "reuters", first.Source)
	require.Equal(t, "Thomson Reuters Reports First-Quarter 2024 Results", first.Title)
	require.Equal(t, "https://ir.thomsonreuters.com/news-releases/q1-2024", first.Link)
	require.NotNil(t, first.Summary)
	require.Equal(t, "Revenues up 8%, driven by recurring revenue growth.", *first.Summary)
	require.True(t, first.PublishedAt.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))
	require.Equal(t, models.ItemID("reuters", first.Title, first.PublishedAt), first.ID)

	// Entries without a description carry no summary; document order holds.
	second := items[1]
	require.Equal(t, "Form 10-Q Filed", second.Title)
	require.Nil(t, second.Summary)
	require.True(t, second.PublishedAt.Equal(time.Date(2024, 5, 2, 13, 30, 0, 0, time.UTC)))
}

func TestReutersParseIsRepeatable(t *testing.T) {
	first, _, err := ReutersParser{}.Parse([]byte(reutersFeedXML))
	require.NoError(t, err)
	again, _, err := ReutersParser{}.Parse([]byte(reutersFeedXML))
	require.NoError(t, err)

	require.Equal(t, len(first), len(again))
	for i := range first {
		require.Equal(t, first[i].ID, again[i].ID)
	}
}
