package scryfall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultBaseURL is the public Scryfall API.
const DefaultBaseURL = "https://api.scryfall.com"

// minRequestGap spaces requests out; Scryfall asks for 50-100ms
// between calls.
const minRequestGap = 100 * time.Millisecond

// collectionChunkSize is Scryfall's limit per /cards/collection call.
const collectionChunkSize = 75

// ImageURIs is the subset of image links the table uses.
type ImageURIs struct {
	Small      string `json:"small"`
	Normal     string `json:"normal"`
	BorderCrop string `json:"border_crop"`
}

// CardFace is one face of a double-faced card.
type CardFace struct {
	Name       string     `json:"name"`
	ManaCost   string     `json:"mana_cost,omitempty"`
	TypeLine   string     `json:"type_line,omitempty"`
	OracleText string     `json:"oracle_text,omitempty"`
	ImageURIs  *ImageURIs `json:"image_uris,omitempty"`
	Power      string     `json:"power,omitempty"`
	Toughness  string     `json:"toughness,omitempty"`
}

// Card is the subset of the Scryfall card object the platform reads.
type Card struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	ManaCost      string     `json:"mana_cost,omitempty"`
	TypeLine      string     `json:"type_line,omitempty"`
	OracleText    string     `json:"oracle_text,omitempty"`
	ImageURIs     *ImageURIs `json:"image_uris,omitempty"`
	CardFaces     []CardFace `json:"card_faces,omitempty"`
	Layout        string     `json:"layout"`
	Power         string     `json:"power,omitempty"`
	Toughness     string     `json:"toughness,omitempty"`
	Set           string     `json:"set"`
	SetName       string     `json:"set_name,omitempty"`
	CMC           float64    `json:"cmc,omitempty"`
	Colors        []string   `json:"colors,omitempty"`
	ColorIdentity []string   `json:"color_identity,omitempty"`
}

// List is a paginated search result.
type List struct {
	Data       []Card `json:"data"`
	HasMore    bool   `json:"has_more"`
	NextPage   string `json:"next_page,omitempty"`
	TotalCards int    `json:"total_cards,omitempty"`
}

// Set is one Magic set.
type Set struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	SetType    string `json:"set_type"`
	ReleasedAt string `json:"released_at,omitempty"`
	CardCount  int    `json:"card_count"`
	IconSVGURI string `json:"icon_svg_uri,omitempty"`
	Block      string `json:"block,omitempty"`
	BlockCode  string `json:"block_code,omitempty"`
}

// playableSetTypes filter the set listing to sets people draft decks
// from.
var playableSetTypes = map[string]bool{
	"core":             true,
	"expansion":        true,
	"masters":          true,
	"draft_innovation": true,
}

// Client is a rate-limited Scryfall client with an in-memory cache.
// Cards are cached for the process lifetime, keyed by id and by
// lowercase name, so deck resolution and UI zoom never refetch.
type Client struct {
	baseURL string
	http    *http.Client

	mu       sync.Mutex
	last     time.Time
	cache    map[string]*Card
	setsOnce []Set
}

// New returns a client against the public API.
func New() *Client {
	return NewWithBaseURL(DefaultBaseURL)
}

// NewWithBaseURL exists for tests pointing at a local server.
func NewWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		cache:   make(map[string]*Card),
	}
}

// throttle blocks until the minimum request gap has elapsed.
func (c *Client) throttle(ctx context.Context) error {
	c.mu.Lock()
	wait := minRequestGap - time.Since(c.last)
	c.last = time.Now().Add(max(0, wait))
	c.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	if err := c.throttle(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scryfall: %s returned %s", req.URL.Path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) cacheCard(card *Card) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[card.ID] = card
	c.cache["name:"+strings.ToLower(card.Name)] = card
}

func (c *Client) cached(key string) (*Card, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	card, ok := c.cache[key]
	return card, ok
}

// Autocomplete suggests card names for a partial query. Queries under
// two characters return nothing.
func (c *Client) Autocomplete(ctx context.Context, query string) ([]string, error) {
	if len(query) < 2 {
		return nil, nil
	}
	var out struct {
		Data []string `json:"data"`
	}
	u := c.baseURL + "/cards/autocomplete?q=" + url.QueryEscape(query)
	if err := c.getJSON(ctx, u, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CardByName fetches a card by exact name, case-insensitively cached.
func (c *Client) CardByName(ctx context.Context, name string) (*Card, error) {
	if card, ok := c.cached("name:" + strings.ToLower(name)); ok {
		return card, nil
	}
	var card Card
	u := c.baseURL + "/cards/named?exact=" + url.QueryEscape(name)
	if err := c.getJSON(ctx, u, &card); err != nil {
		return nil, err
	}
	c.cacheCard(&card)
	return &card, nil
}

// CardByID fetches a card by Scryfall UUID.
func (c *Client) CardByID(ctx context.Context, id string) (*Card, error) {
	if card, ok := c.cached(id); ok {
		return card, nil
	}
	var card Card
	if err := c.getJSON(ctx, c.baseURL+"/cards/"+url.PathEscape(id), &card); err != nil {
		return nil, err
	}
	c.cacheCard(&card)
	return &card, nil
}

// Collection batch-fetches cards by name in chunks of 75. Names the
// API does not recognize are silently absent from the result, matching
// the endpoint's not_found behavior.
func (c *Client) Collection(ctx context.Context, names []string) ([]Card, error) {
	var results []Card
	for start := 0; start < len(names); start += collectionChunkSize {
		end := min(start+collectionChunkSize, len(names))
		chunk, err := c.collectionChunk(ctx, names[start:end])
		if err != nil {
			return nil, err
		}
		results = append(results, chunk...)
	}
	return results, nil
}

func (c *Client) collectionChunk(ctx context.Context, names []string) ([]Card, error) {
	if err := c.throttle(ctx); err != nil {
		return nil, err
	}

	type identifier struct {
		Name string `json:"name"`
	}
	payload := struct {
		Identifiers []identifier `json:"identifiers"`
	}{}
	for _, name := range names {
		payload.Identifiers = append(payload.Identifiers, identifier{Name: name})
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cards/collection", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scryfall: /cards/collection returned %s", resp.Status)
	}

	var out struct {
		Data []Card `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	for i := range out.Data {
		c.cacheCard(&out.Data[i])
	}
	return out.Data, nil
}

// SearchTokens finds token printings matching a query, unique by art.
func (c *Client) SearchTokens(ctx context.Context, query string) ([]Card, error) {
	u := c.baseURL + "/cards/search?q=" + url.QueryEscape(query+" t:token") + "&unique=art&order=name"
	var out List
	if err := c.getJSON(ctx, u, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// SearchCards runs a Scryfall search query string.
func (c *Client) SearchCards(ctx context.Context, query string) ([]Card, error) {
	u := c.baseURL + "/cards/search?q=" + url.QueryEscape(query) + "&unique=cards&order=name"
	var out List
	if err := c.getJSON(ctx, u, &out); err != nil {
		return nil, err
	}
	for i := range out.Data {
		c.cacheCard(&out.Data[i])
	}
	return out.Data, nil
}

// SearchFilters narrow a within-set search.
type SearchFilters struct {
	Name   string
	Colors []string
	// CMC filters by exact mana value when non-nil.
	CMC *int
}

// SearchInSet searches cards of one set with optional filters,
// returning the first page.
func (c *Client) SearchInSet(ctx context.Context, setCode string, filters SearchFilters) (*List, error) {
	parts := []string{"set:" + setCode}
	if filters.Name != "" {
		parts = append(parts, filters.Name)
	}
	if len(filters.Colors) > 0 {
		parts = append(parts, "c:"+strings.Join(filters.Colors, ""))
	}
	if filters.CMC != nil {
		parts = append(parts, fmt.Sprintf("cmc=%d", *filters.CMC))
	}

	u := c.baseURL + "/cards/search?q=" + url.QueryEscape(strings.Join(parts, " ")) + "&unique=cards&order=name"
	var out List
	if err := c.getJSON(ctx, u, &out); err != nil {
		return nil, err
	}
	for i := range out.Data {
		c.cacheCard(&out.Data[i])
	}
	return &out, nil
}

// SearchPage follows a next_page URL from a previous search.
func (c *Client) SearchPage(ctx context.Context, nextPageURL string) (*List, error) {
	var out List
	if err := c.getJSON(ctx, nextPageURL, &out); err != nil {
		return nil, err
	}
	for i := range out.Data {
		c.cacheCard(&out.Data[i])
	}
	return &out, nil
}

// Sets lists playable sets sorted newest first. Fetched once per
// client.
func (c *Client) Sets(ctx context.Context) ([]Set, error) {
	c.mu.Lock()
	cached := c.setsOnce
	c.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	var out struct {
		Data []Set `json:"data"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/sets", &out); err != nil {
		return nil, err
	}

	sets := make([]Set, 0, len(out.Data))
	for _, s := range out.Data {
		if playableSetTypes[s.SetType] && s.CardCount > 0 {
			sets = append(sets, s)
		}
	}
	sort.Slice(sets, func(i, j int) bool {
		return sets[i].ReleasedAt > sets[j].ReleasedAt
	})

	c.mu.Lock()
	c.setsOnce = sets
	c.mu.Unlock()
	return sets, nil
}

// CardImages extracts usable image links from a card, using the front
// and back faces for double-faced cards.
type CardImages struct {
	Small  string
	Normal string
	Back   string
}

func (card *Card) Images() CardImages {
	if card.ImageURIs != nil {
		return CardImages{Small: card.ImageURIs.Small, Normal: card.ImageURIs.Normal}
	}
	var images CardImages
	if len(card.CardFaces) > 0 && card.CardFaces[0].ImageURIs != nil {
		images.Small = card.CardFaces[0].ImageURIs.Small
		images.Normal = card.CardFaces[0].ImageURIs.Normal
	}
	if len(card.CardFaces) > 1 && card.CardFaces[1].ImageURIs != nil {
		images.Back = card.CardFaces[1].ImageURIs.Normal
	}
	return images
}
