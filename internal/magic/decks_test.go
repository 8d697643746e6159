package magic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanab-cards/hanab/internal/scryfall"
)

func TestParseDeckList(t *testing.T) {
	entries := ParseDeckList(`4 Lightning Bolt
4x Counterspell
1 Black Lotus
// comment
Sideboard
2 Swords to Plowshares`)

	require.Len(t, entries, 3)
	assert.Equal(t, DeckEntry{Count: 4, Name: "Lightning Bolt"}, entries[0])
	assert.Equal(t, DeckEntry{Count: 4, Name: "Counterspell"}, entries[1], "x suffix accepted")
	assert.Equal(t, DeckEntry{Count: 1, Name: "Black Lotus"}, entries[2])
}

func TestParseDeckListEdgeCases(t *testing.T) {
	assert.Empty(t, ParseDeckList(""))
	assert.Empty(t, ParseDeckList("// just comments\n\n"))
	assert.Empty(t, ParseDeckList("Lightning Bolt"), "count is required")

	entries := ParseDeckList("4 Lightning Bolt\nSB: 2 Pyroblast\n4 Shock")
	require.Len(t, entries, 1, "sideboard header ends the deck")
}

func TestParseDeckListPrebuilts(t *testing.T) {
	for _, deck := range PrebuiltDecks {
		entries := ParseDeckList(deck.List)
		total := 0
		for _, e := range entries {
			total += e.Count
		}
		assert.GreaterOrEqual(t, total, 40, deck.Name)
	}
}

func TestResolveDeckList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cards/collection", r.URL.Path)
		var req struct {
			Identifiers []struct {
				Name string `json:"name"`
			} `json:"identifiers"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		// One of the two requested names resolves.
		assert.Len(t, req.Identifiers, 2)
		resp := map[string]any{
			"data": []map[string]any{{
				"id":     "bolt-id",
				"name":   "Lightning Bolt",
				"layout": "normal",
				"set":    "lea",
				"image_uris": map[string]string{
					"small":  "https://img/small.jpg",
					"normal": "https://img/normal.jpg",
				},
			}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := scryfall.NewWithBaseURL(srv.URL)
	refs, err := ResolveDeckList(context.Background(), client, []DeckEntry{
		{Count: 3, Name: "Lightning Bolt"},
		{Count: 2, Name: "No Such Card"},
	})
	require.NoError(t, err)

	require.Len(t, refs, 3, "unknown names are skipped")
	ids := map[string]bool{}
	for _, ref := range refs {
		assert.Equal(t, "bolt-id", ref.ScryfallID)
		assert.Equal(t, "Lightning Bolt", ref.Name)
		assert.Equal(t, "https://img/small.jpg", ref.ImageSmall)
		ids[ref.InstanceID] = true
	}
	assert.Len(t, ids, 3, "each copy gets its own instance id")
}
