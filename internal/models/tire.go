package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Season of a tire.
type Season string

const (
	SeasonWinter    Season = "winter"
	SeasonSummer    Season = "summer"
	SeasonAllSeason Season = "all-season"
)

// TireItem is a catalog entry with stock counts for each physical location.
type TireItem struct {
	Brand     string          `json:"brand"`
	Model     string          `json:"model"`
	Width     int             `json:"width"`
	Profile   int             `json:"profile"`
	Radius    int             `json:"radius"`
	LoadIndex string          `json:"loadIndex"`
	Season    Season          `json:"season"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Showroom  int             `json:"showroom"`
	Basement  int             `json:"basement"`
	Image     string          `json:"image,omitempty"`
}

// Title is "brand model".
func (t *TireItem) Title() string {
	return strings.TrimSpace(t.Brand + " " + t.Model)
}

// Size is the tire size, e.g. "205/55 R16".
func (t *TireItem) Size() string {
	return fmt.Sprintf("%d/%d R%d", t.Width, t.Profile, t.Radius)
}
