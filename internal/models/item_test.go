package models_test

import (
	"testing"
	"time"

	"raven_news/internal/models"

	"github.com/stretchr/testify/require"
)

func TestItemID_Deterministic(t *testing.T) {
	testCases := []struct {
		name   string
		source string
		title  string
		at     time.Time
		want   string
	}{
		{
			name:   "reuters fed headline",
			source: "reuters",
			title:  "Fed Raises Rates",
			at:     time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
			want:   "9766e225-afa3-bab1-79da-2507fcd527ef",
		},
		{
			name:   "coindesk headline",
			source: "coindesk",
			title:  "Bitcoin Tops $100K",
			at:     time.Date(2024, 12, 5, 3, 21, 9, 0, time.UTC),
			want:   "c5f55c51-9efc-a3ab-f45f-4ba600f5a36d",
		},
		{
			name:   "bloomberg headline",
			source: "bloomberg",
			title:  "Dollar Slips as Traders Weigh Fed Path",
			at:     time.Date(2025, 6, 30, 9, 15, 0, 0, time.UTC),
			want:   "12e35d74-66f6-e732-94ef-9eebd70bc678",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			first := models.ItemID(tc.source, tc.title, tc.at)
			second := models.ItemID(tc.source, tc.title, tc.at)
			require.Equal(t, first, second)
			require.Equal(t, tc.want, first.String())
		})
	}
}

func TestItemID_CanonicalizationInsensitive(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	base := models.ItemID("reuters", "Fed Raises Rates", at)

	require.Equal(t, base, models.ItemID("REUTERS", "Fed Raises Rates", at))
	require.Equal(t, base, models.ItemID("  reuters ", "Fed Raises Rates", at))
	require.Equal(t, base, models.ItemID("reuters", "  Fed Raises Rates\n", at))

	// Same instant expressed in another zone is the same canonical timestamp.
	plusTwo := time.FixedZone("UTC+2", 2*60*60)
	require.Equal(t, base, models.ItemID("reuters", "Fed Raises Rates", time.Date(2024, 1, 1, 14, 0, 0, 0, plusTwo)))
}

func TestItemID_DistinctInputs(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	base := models.ItemID("reuters", "Fed Raises Rates", at)

	require.NotEqual(t, base, models.ItemID("bloomberg", "Fed Raises Rates", at))
	require.NotEqual(t, base, models.ItemID("reuters", "Fed Holds Rates", at))
	require.NotEqual(t, base, models.ItemID("reuters", "Fed Raises Rates", at.Add(time.Second)))

	// Field boundaries must not be ambiguous.
	require.NotEqual(t,
		models.ItemID("ab", "c", at),
		models.ItemID("a", "bc", at),
	)
}

func TestNewItem_NormalizesStoredFields(t *testing.T) {
	at := time.Date(2024, 1, 1, 14, 0, 0, 0, time.FixedZone("UTC+2", 2*60*60))
	item := models.NewItem(" REUTERS", "  Fed Raises Rates ", " https://example.com/fed ", "  ", at)

	require.Equal(t, "reuters", item.Source)
	require.Equal(t, "Fed Raises Rates", item.Title)
	require.Equal(t, "https://example.com/fed", item.Link)
	require.Nil(t, item.Summary)
	require.Equal(t, time.UTC, item.PublishedAt.Location())
	require.Equal(t, "9766e225-afa3-bab1-79da-2507fcd527ef", item.ID.String())
	require.True(t, item.CreatedAt.IsZero())

	withSummary := models.NewItem("reuters", "Fed Raises Rates", "https://example.com/fed", " Central bank moves. ", at)
	require.NotNil(t, withSummary.Summary)
	require.Equal(t, "Central bank moves.", *withSummary.Summary)
	require.Equal(t, item.ID, withSummary.ID, "summary must not participate in identity")
}
