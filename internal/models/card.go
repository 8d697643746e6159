package models

// Color identifies a card's suit. The five base colors are always in
// play; MULTICOLOR, RAINBOW and ORANGE appear only in their variants.
type Color string

const (
	ColorRed        Color = "red"
	ColorGreen      Color = "green"
	ColorBlue       Color = "blue"
	ColorWhite      Color = "white"
	ColorYellow     Color = "yellow"
	ColorMulticolor Color = "multicolor"
	ColorRainbow    Color = "rainbow"
	ColorOrange     Color = "orange"
)

// BaseColors are the colors present in every variant.
var BaseColors = []Color{ColorRed, ColorGreen, ColorBlue, ColorWhite, ColorYellow}

// HintLevel tracks what a player can deduce about one attribute of a
// card in their own hand from the hints received so far.
type HintLevel int

const (
	// HintPossible is the default: no hint has ruled this value in or out.
	HintPossible HintLevel = iota
	// HintSure means a positive hint confirmed this value.
	HintSure
	// HintImpossible means a hint ruled this value out.
	HintImpossible
)

// CardHint accumulates the hint knowledge attached to a card. Hints
// never move cards; they only refine these maps.
type CardHint struct {
	Colors  map[Color]HintLevel `json:"color"`
	Numbers map[int]HintLevel   `json:"number"`
}

// NewCardHint returns a hint receptacle covering the given colors and
// numbers 1..5, all marked possible.
func NewCardHint(colors []Color) CardHint {
	h := CardHint{
		Colors:  make(map[Color]HintLevel, len(colors)),
		Numbers: make(map[int]HintLevel, 5),
	}
	for _, c := range colors {
		h.Colors[c] = HintPossible
	}
	for n := 1; n <= 5; n++ {
		h.Numbers[n] = HintPossible
	}
	return h
}

// Clone returns a deep copy of the hint maps.
func (h CardHint) Clone() CardHint {
	c := CardHint{
		Colors:  make(map[Color]HintLevel, len(h.Colors)),
		Numbers: make(map[int]HintLevel, len(h.Numbers)),
	}
	for k, v := range h.Colors {
		c.Colors[k] = v
	}
	for k, v := range h.Numbers {
		c.Numbers[k] = v
	}
	return c
}

// Card is a single card. ID is assigned at deck build time and is
// stable for the card's whole life, whatever zone it sits in.
type Card struct {
	ID     int      `json:"id"`
	Color  Color    `json:"color"`
	Number int      `json:"number"`
	Hint   CardHint `json:"hint"`
}

// Clone returns a deep copy of the card.
func (c *Card) Clone() *Card {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Hint = c.Hint.Clone()
	return &cp
}

// Same reports whether two cards share color and number (they may be
// distinct physical copies).
func (c *Card) Same(other *Card) bool {
	return c != nil && other != nil && c.Color == other.Color && c.Number == other.Number
}
