package magic

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/hanab-cards/hanab/internal/scryfall"
)

// DeckEntry is one line of a parsed deck list.
type DeckEntry struct {
	Count int    `json:"count"`
	Name  string `json:"name"`
}

var deckLineRe = regexp.MustCompile(`^(\d+)x?\s+(.+)$`)
var sideboardRe = regexp.MustCompile(`(?i)^(sideboard|sb:)`)

// ParseDeckList parses a plain-text deck list in the common formats:
//
//	4 Lightning Bolt
//	4x Counterspell
//	1 Black Lotus
//
// Blank lines and "//" comments are skipped; a sideboard header ends
// the main deck.
func ParseDeckList(text string) []DeckEntry {
	var entries []DeckEntry
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if sideboardRe.MatchString(line) {
			break
		}
		m := deckLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		count, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		entries = append(entries, DeckEntry{Count: count, Name: strings.TrimSpace(m[2])})
	}
	return entries
}

// ResolveDeckList expands parsed entries into playable card refs,
// batch-fetching card data. Names Scryfall does not recognize are
// skipped rather than failing the whole deck.
func ResolveDeckList(ctx context.Context, client *scryfall.Client, entries []DeckEntry) ([]*CardRef, error) {
	seen := map[string]bool{}
	var names []string
	for _, e := range entries {
		key := strings.ToLower(e.Name)
		if !seen[key] {
			seen[key] = true
			names = append(names, e.Name)
		}
	}

	cards, err := client.Collection(ctx, names)
	if err != nil {
		return nil, err
	}
	byName := map[string]*scryfall.Card{}
	for i := range cards {
		byName[strings.ToLower(cards[i].Name)] = &cards[i]
	}

	var refs []*CardRef
	for _, entry := range entries {
		card, ok := byName[strings.ToLower(entry.Name)]
		if !ok {
			continue
		}
		for i := 0; i < entry.Count; i++ {
			refs = append(refs, NewCardRef(card))
		}
	}
	return refs, nil
}

// NewCardRef builds a fresh game instance of a card.
func NewCardRef(card *scryfall.Card) *CardRef {
	images := card.Images()
	return &CardRef{
		ScryfallID:  card.ID,
		InstanceID:  "card-" + uuid.NewString(),
		Name:        card.Name,
		ImageSmall:  images.Small,
		ImageNormal: images.Normal,
		ImageBack:   images.Back,
	}
}

// PrebuiltDeck is a ready-to-play list for people without a deck at
// hand.
type PrebuiltDeck struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	List        string `json:"list"`
}

var PrebuiltDecks = []PrebuiltDeck{
	{
		Name:        "Red Aggro",
		Description: "Fast creatures and burn spells",
		List: `4 Monastery Swiftspear
4 Goblin Guide
4 Zurgo Bellstriker
4 Bomat Courier
4 Lightning Bolt
4 Lava Spike
4 Rift Bolt
4 Searing Blaze
4 Skullcrack
4 Light Up the Stage
20 Mountain`,
	},
	{
		Name:        "Blue Control",
		Description: "Counterspells and card advantage",
		List: `4 Delver of Secrets
4 Snapcaster Mage
4 Counterspell
4 Mana Leak
4 Brainstorm
4 Ponder
4 Force Spike
2 Cryptic Command
4 Fact or Fiction
2 Jace, the Mind Sculptor
24 Island`,
	},
	{
		Name:        "Green Stompy",
		Description: "Big creatures that hit hard",
		List: `4 Llanowar Elves
4 Elvish Mystic
4 Strangleroot Geist
4 Steel Leaf Champion
4 Leatherback Baloth
4 Rancor
4 Aspect of Hydra
4 Experiment One
4 Avatar of the Resolute
2 Collected Company
22 Forest`,
	},
}
